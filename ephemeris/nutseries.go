package ephemeris

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Nikolay2015/GMAT-unicode-sub002/timesys"
)

// NutationTerm is one luni-solar term of an IAU 1980 style nutation series.
// Multipliers follow the D, M, M', F, Ω argument order. Amplitudes are in
// units of 0.0001 arcsecond, and their rates per Julian century.
type NutationTerm struct {
	D, M, Mp, F, Omega int
	Psi, PsiRate       float64
	Eps, EpsRate       float64
}

// NutationSeries evaluates a nutation series loaded from a coefficients file.
type NutationSeries struct {
	terms []NutationTerm
}

// NewNutationSeries returns a series from the provided terms.
func NewNutationSeries(terms []NutationTerm) *NutationSeries {
	return &NutationSeries{terms: append([]NutationTerm(nil), terms...)}
}

// LoadNutationSeries parses whitespace separated rows of
// "D M M' F Ω ψ ψ_rate ε ε_rate". Empty lines and lines starting with # are ignored.
func LoadNutationSeries(r io.Reader) (*NutationSeries, error) {
	var terms []NutationTerm
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 9 {
			return nil, fmt.Errorf("%w: nutation line %d has %d fields", ErrLoadFailure, lineNo, len(fields))
		}
		var mult [5]int
		for i := range mult {
			v, err := strconv.Atoi(fields[i])
			if err != nil {
				return nil, fmt.Errorf("%w: nutation line %d: %s", ErrLoadFailure, lineNo, err)
			}
			mult[i] = v
		}
		var amp [4]float64
		for i := range amp {
			v, err := strconv.ParseFloat(fields[5+i], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: nutation line %d: %s", ErrLoadFailure, lineNo, err)
			}
			amp[i] = v
		}
		terms = append(terms, NutationTerm{mult[0], mult[1], mult[2], mult[3], mult[4], amp[0], amp[1], amp[2], amp[3]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLoadFailure, err)
	}
	if len(terms) == 0 {
		return nil, fmt.Errorf("%w: empty nutation series", ErrLoadFailure)
	}
	return NewNutationSeries(terms), nil
}

// Len returns the number of terms.
func (n *NutationSeries) Len() int {
	return len(n.terms)
}

// Nutation returns the nutation in longitude and in obliquity (rad) at the TT Julian date.
func (n *NutationSeries) Nutation(jdTT float64) (dPsi, dEps float64) {
	t := timesys.JulianCenturies(jdTT)
	t2, t3 := t*t, t*t*t
	d := deg2rad(297.85036 + 445267.111480*t - 0.0019142*t2 + t3/189474)
	m := deg2rad(357.52772 + 35999.050340*t - 0.0001603*t2 - t3/300000)
	mp := deg2rad(134.96298 + 477198.867398*t + 0.0086972*t2 + t3/56250)
	f := deg2rad(93.27191 + 483202.017538*t - 0.0036825*t2 + t3/327270)
	om := deg2rad(125.04452 - 1934.136261*t + 0.0020708*t2 + t3/450000)
	var psi, eps float64
	for _, term := range n.terms {
		arg := float64(term.D)*d + float64(term.M)*m + float64(term.Mp)*mp + float64(term.F)*f + float64(term.Omega)*om
		s, c := math.Sincos(arg)
		psi += (term.Psi + term.PsiRate*t) * s
		eps += (term.Eps + term.EpsRate*t) * c
	}
	const tenThousandthArcsec = math.Pi / 180 / 3600 / 1e4
	return psi * tenThousandthArcsec, eps * tenThousandthArcsec
}

func deg2rad(a float64) float64 {
	return a * math.Pi / 180
}
