package gmat

import (
	"math"

	"github.com/gonum/matrix/mat64"

	"github.com/Nikolay2015/GMAT-unicode-sub002/timesys"
)

// computeMoon computes the rotation from the DE lunar libration angles φ, θ, ψ:
// R = R3(ψ)·R1(θ)·R3(φ). It returns false when the cached rotation is still valid.
func (a *BodyFixedAxes) computeMoon(epoch float64, force bool) (bool, error) {
	const op = "computeMoon"
	if !force && a.computed && a.lastSource == SourceDEFile && IsEqual(epoch, a.epoch, a.EpochTolerance) {
		return false, nil
	}
	if a.librations == nil {
		return false, newError(ConfigurationError, op, "no DE file for the %s librations", a.origin.Name)
	}
	angles, rates, err := a.librations.AnglesAndRates(epoch, a.OverrideTimeSystem)
	if err != nil {
		return false, wrapError(op, err)
	}
	for i := range rates {
		rates[i] /= timesys.SecondsPerDay
	}
	a.store(epoch, R3R1R3(angles[0], angles[1], angles[2]), libration313Dot(angles, rates))
	return true, nil
}

// libration313Dot returns the time derivative of R3(ψ)·R1(θ)·R3(φ) for the
// angles φ, θ, ψ and their rates.
func libration313Dot(angles, rates [3]float64) *mat64.Dense {
	sPhi, cPhi := math.Sincos(angles[0])
	sTheta, cTheta := math.Sincos(angles[1])
	sPsi, cPsi := math.Sincos(angles[2])
	phiDot, thetaDot, psiDot := rates[0], rates[1], rates[2]
	return mat64.NewDense(3, 3, []float64{
		-psiDot*(sPsi*cPhi+cPsi*cTheta*sPhi) - phiDot*(cPsi*sPhi+sPsi*cTheta*cPhi) + thetaDot*sPsi*sTheta*sPhi,
		psiDot*(-sPsi*sPhi+cPsi*cTheta*cPhi) + phiDot*(cPsi*cPhi-sPsi*cTheta*sPhi) - thetaDot*sPsi*sTheta*cPhi,
		psiDot*cPsi*sTheta + thetaDot*sPsi*cTheta,

		psiDot*(-cPsi*cPhi+sPsi*cTheta*sPhi) + phiDot*(sPsi*sPhi-cPsi*cTheta*cPhi) + thetaDot*cPsi*sTheta*sPhi,
		-psiDot*(cPsi*sPhi+sPsi*cTheta*cPhi) - phiDot*(sPsi*cPhi+cPsi*cTheta*sPhi) - thetaDot*cPsi*sTheta*cPhi,
		-psiDot*sPsi*sTheta + thetaDot*cPsi*cTheta,

		thetaDot*cTheta*sPhi + phiDot*sTheta*cPhi,
		-thetaDot*cTheta*cPhi + phiDot*sTheta*sPhi,
		-thetaDot * sTheta,
	})
}
