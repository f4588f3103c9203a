package gmat

import (
	"github.com/Nikolay2015/GMAT-unicode-sub002/timesys"
)

// PointMassGravity is the point mass attraction of a central body, with
// optional third body perturbations.
type PointMassGravity struct {
	StateModel
	Central     *CelestialBody
	ThirdBodies []*CelestialBody
}

// NewPointMassGravity returns the point mass gravity of the central body.
func NewPointMassGravity(central *CelestialBody, thirdBodies ...*CelestialBody) *PointMassGravity {
	return &PointMassGravity{StateModel: NewStateModel(6), Central: central, ThirdBodies: thirdBodies}
}

// GetDerivatives implements the PhysicalModel interface. The state is relative to the central body.
func (g *PointMassGravity) GetDerivatives(state []float64, dt float64, order int) ([]float64, error) {
	deriv := make([]float64, len(state))
	r := state[:3]
	rNorm := norm(r)
	if rNorm == 0 {
		return nil, newError(NumericalConsistencyError, "PointMassGravity", "state at the center of %s", g.Central.Name)
	}
	mu3 := g.Central.GM / (rNorm * rNorm * rNorm)
	for i := 0; i < 3; i++ {
		deriv[i+3] = -mu3 * r[i]
	}
	if len(g.ThirdBodies) == 0 {
		return deriv, nil
	}
	epoch := g.Epoch() + dt/timesys.SecondsPerDay
	central, err := g.Central.MJ2000State(epoch)
	if err != nil {
		return nil, err
	}
	for _, body := range g.ThirdBodies {
		bs, err := body.MJ2000State(epoch)
		if err != nil {
			return nil, err
		}
		s := []float64{bs[0] - central[0], bs[1] - central[1], bs[2] - central[2]}
		d := []float64{s[0] - r[0], s[1] - r[1], s[2] - r[2]}
		sNorm, dNorm := norm(s), norm(d)
		for i := 0; i < 3; i++ {
			deriv[i+3] += body.GM * (d[i]/(dNorm*dNorm*dNorm) - s[i]/(sNorm*sNorm*sNorm))
		}
	}
	return deriv, nil
}
