package ephemeris

// Chebyshev returns the value and the derivative with respect to x of the
// Chebyshev series with the provided coefficients, for x in [-1, 1].
func Chebyshev(coeffs []float64, x float64) (value, derivative float64) {
	if len(coeffs) == 0 {
		return 0, 0
	}
	// T_n(x) and T'_n(x) through their recurrences.
	tPrev, t := 1.0, x
	dPrev, d := 0.0, 1.0
	value = coeffs[0]
	if len(coeffs) == 1 {
		return value, 0
	}
	value += coeffs[1] * x
	derivative = coeffs[1]
	twoX := 2 * x
	for _, c := range coeffs[2:] {
		tNext := twoX*t - tPrev
		dNext := twoX*d + 2*t - dPrev
		tPrev, t = t, tNext
		dPrev, d = d, dNext
		value += c * t
		derivative += c * d
	}
	return
}

// interpolate evaluates ncm components stored as na sets of ncf coefficients,
// at the fraction t in [0, 1] of a record spanning the provided number of days.
// Derivatives are per day.
func interpolate(coeffs []float64, t, span float64, ncf, ncm, na int) (pos, vel []float64) {
	dna := float64(na)
	temp := dna * t
	l := int(temp)
	tc := 2*(temp-float64(l)) - 1
	if l == na {
		l--
		tc = 1
	}
	vfac := 2 * dna / span
	pos = make([]float64, ncm)
	vel = make([]float64, ncm)
	for i := 0; i < ncm; i++ {
		start := ncf * (i + l*ncm)
		p, v := Chebyshev(coeffs[start:start+ncf], tc)
		pos[i] = p
		vel[i] = v * vfac
	}
	return
}
