package gmat

import (
	"github.com/Nikolay2015/GMAT-unicode-sub002/timesys"
)

// computeIAU computes R = R3(W)·R1(π/2-δ)·R3(π/2+α) from the IAU cartographic
// coordinates of the origin. Nothing is cached.
func (a *BodyFixedAxes) computeIAU(epoch float64) error {
	mjdTDB, err := a.conv.Convert(epoch, timesys.A1MJD, timesys.TDBMJD)
	if err != nil {
		return wrapError("computeIAU", err)
	}
	alpha, delta, w, wDot := a.origin.CartographicCoordinates(mjdTDB)
	w *= deg2rad
	wDot *= deg2rad / timesys.SecondsPerDay
	r1r3 := mul(R1(halfPi-delta*deg2rad), R3(halfPi+alpha*deg2rad))
	a.store(epoch, mul(R3(w), r1r3), mul(R3Dot(w, wDot), r1r3))
	return nil
}
