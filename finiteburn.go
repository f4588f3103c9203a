package gmat

import (
	"github.com/Nikolay2015/GMAT-unicode-sub002/timesys"
)

// FiniteBurn is the thrust acceleration of the firing thrusters of a spacecraft.
// When the integrated state carries the mass, the mass flow is added to its derivative.
type FiniteBurn struct {
	StateModel
	Spacecraft *Spacecraft
	Thrusters  []*Thruster
}

// NewFiniteBurn returns a finite burn with the provided thrusters, or all the spacecraft thrusters if none is given.
func NewFiniteBurn(sc *Spacecraft, thrusters ...*Thruster) *FiniteBurn {
	if len(thrusters) == 0 {
		thrusters = sc.Thrusters
	}
	return &FiniteBurn{StateModel: NewStateModel(7), Spacecraft: sc, Thrusters: thrusters}
}

// SetFiring turns all the thrusters of this burn on or off.
func (fb *FiniteBurn) SetFiring(on bool) {
	for _, t := range fb.Thrusters {
		t.SetFiring(on)
	}
}

// GetDerivatives implements the PhysicalModel interface. The state is relative to the thrusters' origin.
func (fb *FiniteBurn) GetDerivatives(state []float64, dt float64, order int) ([]float64, error) {
	const op = "FiniteBurn"
	deriv := make([]float64, len(state))
	mass := fb.Spacecraft.TotalMass()
	if len(state) > 6 {
		mass = state[6]
	}
	if mass <= 0 {
		return nil, newError(NumericalConsistencyError, op, "%s has a mass of %f kg", fb.Spacecraft.Name, mass)
	}
	epoch := fb.Epoch() + dt/timesys.SecondsPerDay
	var st [6]float64
	copy(st[:], state[:6])
	for _, t := range fb.Thrusters {
		if !t.IsFiring() {
			continue
		}
		thrust, _, err := t.CalculateThrustAndIsp()
		if err != nil {
			return nil, err
		}
		dir, err := t.toInertial(t.Direction, epoch, st)
		if err != nil {
			return nil, err
		}
		// N to km/s².
		accel := thrust * t.DutyCycle() * t.ThrustScaleFactor() / (1000 * mass)
		for i := 0; i < 3; i++ {
			deriv[i+3] += accel * dir[i]
		}
		if len(state) > 6 {
			mDot, err := t.CalculateMassFlow()
			if err != nil {
				return nil, err
			}
			deriv[6] += mDot
		}
	}
	return deriv, nil
}

// Deplete removes the fuel used to reach the provided total mass from the tanks
// of the burn, evenly across them.
func (fb *FiniteBurn) Deplete(totalMass float64) error {
	used := fb.Spacecraft.TotalMass() - totalMass
	if used <= 0 {
		return nil
	}
	var tanks []*Tank
	seen := make(map[*Tank]bool)
	for _, t := range fb.Thrusters {
		for _, tank := range t.Tanks {
			if !seen[tank] {
				seen[tank] = true
				tanks = append(tanks, tank)
			}
		}
	}
	if len(tanks) == 0 {
		return newError(ConfigurationError, "Deplete", "no tank to deplete on %s", fb.Spacecraft.Name)
	}
	share := used / float64(len(tanks))
	for _, tank := range tanks {
		if err := tank.Deplete(share); err != nil {
			return err
		}
	}
	return nil
}
