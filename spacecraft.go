package gmat

import (
	"github.com/gonum/matrix/mat64"
)

// Spacecraft is a propagated object with its hardware.
type Spacecraft struct {
	Name string
	// Epoch is the A.1 modified Julian epoch of State.
	Epoch float64
	// State is the J2000 Cartesian state (km, km/s) relative to the J2000 body.
	State   [6]float64
	DryMass float64 // kg
	Tanks   []*Tank
	// Attitude is the rotation from J2000 to the spacecraft body frame. Nil means identity.
	Attitude  *mat64.Dense
	Thrusters []*Thruster
}

// NewSpacecraft returns a new spacecraft.
func NewSpacecraft(name string, epoch float64, state [6]float64, dryMass float64) *Spacecraft {
	return &Spacecraft{Name: name, Epoch: epoch, State: state, DryMass: dryMass}
}

// AddTank adds a tank.
func (sc *Spacecraft) AddTank(t *Tank) {
	sc.Tanks = append(sc.Tanks, t)
}

// AddThruster mounts a thruster on this spacecraft.
func (sc *Spacecraft) AddThruster(t *Thruster) {
	t.spacecraft = sc
	sc.Thrusters = append(sc.Thrusters, t)
}

// FuelMass returns the fuel mass of all tanks in kg.
func (sc *Spacecraft) FuelMass() (fuel float64) {
	for _, t := range sc.Tanks {
		fuel += t.FuelMass
	}
	return
}

// TotalMass returns the dry mass plus the fuel mass in kg.
func (sc *Spacecraft) TotalMass() float64 {
	return sc.DryMass + sc.FuelMass()
}
