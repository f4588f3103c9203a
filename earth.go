package gmat

import (
	"math"

	"github.com/gonum/matrix/mat64"

	"github.com/Nikolay2015/GMAT-unicode-sub002/timesys"
)

// Julian date of 1997 January 1, after which the equation of the equinoxes includes the Ω terms.
const jdEquinoxTerms = 2450449.5

// computeEarth computes R = PM·ST·NUT·PREC and Ṙ = PM·STdot·NUT·PREC.
// It returns false when the cached rotation is still valid.
func (a *BodyFixedAxes) computeEarth(epoch float64, force bool) (bool, error) {
	const op = "computeEarth"
	originInterval := a.origin.NutationUpdateInterval()
	interval := originInterval
	if a.OverrideOriginInterval {
		interval = a.UpdateInterval
	}
	if !force && a.computed && a.lastSource == a.origin.RotationDataSource() &&
		IsEqual(epoch, a.epoch, a.EpochTolerance) &&
		IsEqual(a.UpdateInterval, a.lastUpdateInterval, a.EpochTolerance) &&
		IsEqual(originInterval, a.lastOriginInterval, a.EpochTolerance) {
		return false, nil
	}

	mjdUTC, err := a.conv.Convert(epoch, timesys.A1MJD, timesys.UTCMJD)
	if err != nil {
		return false, wrapError(op, err)
	}
	mjdUT1, err := a.conv.Convert(epoch, timesys.A1MJD, timesys.UT1MJD)
	if err != nil {
		return false, wrapError(op, err)
	}
	mjdTT, err := a.conv.Convert(epoch, timesys.A1MJD, timesys.TTMJD)
	if err != nil {
		return false, wrapError(op, err)
	}
	jdTT := mjdTT + timesys.JDJan5_1941
	tUT1 := timesys.JulianCenturies(mjdUT1 + timesys.JDJan5_1941)
	// TDB is within two milliseconds of TT.
	tTDB := timesys.JulianCenturies(jdTT)

	prec := precession(tTDB)

	if force || !a.nutationValid || math.Abs(epoch-a.lastNutationEpoch)*timesys.SecondsPerDay >= interval {
		if a.nutation == nil {
			return false, newError(ConfigurationError, op, "no nutation model")
		}
		dPsi, dEps, err := a.nutation.Nutation(jdTT)
		if err != nil {
			return false, wrapError(op, err)
		}
		nutationEvaluations.Inc()
		a.dPsi, a.dEps = dPsi, dEps
		a.lastNutationEpoch = epoch
		a.nutationValid = true
	}
	epsbar := meanObliquity(tTDB)
	nut := mul(R1(-(epsbar + a.dEps)), R3(-a.dPsi), R1(epsbar))

	var xp, yp, lod float64
	if a.eop != nil {
		rec, err := a.eop.EOP(mjdUTC)
		if err != nil {
			return false, wrapError(op, err)
		}
		xp, yp, lod = rec.X*arcsec2rad, rec.Y*arcsec2rad, rec.LOD
	}

	ast := apparentSiderealTime(jdTT, tUT1, a.dPsi, lunarAscendingNode(tTDB), math.Cos(epsbar))
	st := R3(ast)
	stDot := R3Dot(ast, EarthRotationRate*(1-lod/timesys.SecondsPerDay))
	pm := mul(R2(xp), R1(yp))

	a.lastUpdateInterval = a.UpdateInterval
	a.lastOriginInterval = originInterval
	a.store(epoch, mul(pm, st, nut, prec), mul(pm, stDot, nut, prec))
	return true, nil
}

// precession returns the IAU 1976 precession from J2000 to the mean equator of date.
func precession(t float64) *mat64.Dense {
	t2, t3 := t*t, t*t*t
	zeta := (2306.2181*t + 0.30188*t2 + 0.017998*t3) * arcsec2rad
	theta := (2004.3109*t - 0.42665*t2 - 0.041833*t3) * arcsec2rad
	z := (2306.2181*t + 1.09468*t2 + 0.018203*t3) * arcsec2rad
	return mul(R3(-z), R2(theta), R3(-zeta))
}

// meanObliquity returns the IAU 1980 mean obliquity of the ecliptic in radians.
func meanObliquity(t float64) float64 {
	return (84381.448 - 46.8150*t - 0.00059*t*t + 0.001813*t*t*t) * arcsec2rad
}

// lunarAscendingNode returns the mean longitude of the lunar ascending node in radians.
func lunarAscendingNode(t float64) float64 {
	om := 125.04452 - 1934.136261*t + 0.0020708*t*t + t*t*t/450000
	return math.Mod(om, 360) * deg2rad
}

// gmst82 returns the IAU 1982 Greenwich mean sidereal time in radians, in [0, 2π).
func gmst82(tUT1 float64) float64 {
	sec := 67310.54841 + (876600*3600+8640184.812866)*tUT1 + 0.093104*tUT1*tUT1 - 6.2e-6*tUT1*tUT1*tUT1
	gmst := math.Mod(sec, timesys.SecondsPerDay) / timesys.SecondsPerDay * twoPi
	if gmst < 0 {
		gmst += twoPi
	}
	return gmst
}

// apparentSiderealTime adds the equation of the equinoxes to the mean sidereal time.
func apparentSiderealTime(jdTT, tUT1, dPsi, om, cosEpsbar float64) float64 {
	eqEquinox := dPsi * cosEpsbar
	if jdTT >= jdEquinoxTerms {
		eqEquinox += (0.00264*math.Sin(om) + 0.000063*math.Sin(2*om)) * arcsec2rad
	}
	return gmst82(tUT1) + eqEquinox
}
