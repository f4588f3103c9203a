package gmat

import (
	"errors"
	"math"
	"testing"

	"github.com/gonum/floats"
)

func circularOrbit(t *testing.T) (*ODEModel, *CelestialBody, float64) {
	t.Helper()
	earth, err := NewSolarSystem(nil).Body("Earth")
	if err != nil {
		t.Fatal(err)
	}
	r := 7000.0
	v := math.Sqrt(earth.GM / r)
	m, err := NewODEModel(j2000A1, []float64{r, 0, 0, 0, v, 0}, NewPointMassGravity(earth))
	if err != nil {
		t.Fatal(err)
	}
	return m, earth, 2 * math.Pi * math.Sqrt(r*r*r/earth.GM)
}

func TestODEModelCircularOrbit(t *testing.T) {
	m, _, period := circularOrbit(t)
	if err := m.Propagate(period, 10); err != nil {
		t.Fatal(err)
	}
	if !floats.EqualWithinAbs(m.ElapsedTime(), period, 1e-9) {
		t.Fatalf("elapsed %f instead of %f", m.ElapsedTime(), period)
	}
	state := m.State()
	if d := math.Hypot(state[0]-7000, state[1]); d > 1e-3 {
		t.Fatalf("returned %f km away from the initial position: %v", d, state)
	}
	if r := floats.Norm(state[:3], 2); !floats.EqualWithinAbs(r, 7000, 1e-4) {
		t.Fatalf("radius %f", r)
	}
	// Backward to the initial state.
	if err := m.Propagate(-period, 10); err != nil {
		t.Fatal(err)
	}
	if !floats.EqualWithinAbs(m.ElapsedTime(), 0, 1e-9) || math.Abs(m.State()[1]) > 1e-3 {
		t.Fatalf("back at %f s with %v", m.ElapsedTime(), m.State())
	}
}

func TestODEModelErrors(t *testing.T) {
	if _, err := NewODEModel(j2000A1, []float64{1, 2, 3, 4, 5}); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("5 component state: %v", err)
	}
	m, _, _ := circularOrbit(t)
	if err := m.Propagate(60, 0); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("zero step: %v", err)
	}
	if _, err := m.GetDerivatives(m.State(), 0, 2); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("second order derivatives: %v", err)
	}
	if _, err := m.StepError(math.NaN()); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("NaN step: %v", err)
	}
	if err := m.Propagate(0, 10); err != nil || m.ElapsedTime() != 0 {
		t.Fatal("a null propagation moved the state")
	}
	m.SetState([]float64{0, 0, 0, 0, 0, 0})
	if err := m.Propagate(10, 10); !errors.Is(err, ErrNumericalConsistency) {
		t.Fatalf("state at the center of the Earth: %v", err)
	}
}

func TestODEModelStepError(t *testing.T) {
	m, _, _ := circularOrbit(t)
	before := append([]float64(nil), m.State()...)
	small, err := m.StepError(10)
	if err != nil {
		t.Fatal(err)
	}
	large, err := m.StepError(600)
	if err != nil {
		t.Fatal(err)
	}
	if !(small < large) || small > 1e-10 {
		t.Fatalf("errors %g at 10 s and %g at 600 s", small, large)
	}
	if !floats.Equal(before, m.State()) {
		t.Fatal("the error estimate changed the state")
	}
}

func TestODEModelFiniteBurn(t *testing.T) {
	earth, _ := NewSolarSystem(nil).Body("Earth")
	v := math.Sqrt(earth.GM / 7000)
	sc := NewSpacecraft("sc", j2000A1, [6]float64{7000, 0, 0, 0, v, 0}, 900)
	th, tank := firingThruster(t, 500, 2150)
	sc.AddTank(tank)
	sc.AddThruster(th)
	fb := NewFiniteBurn(sc)
	m, err := NewODEModel(j2000A1, []float64{7000, 0, 0, 0, v, 0, sc.TotalMass()}, NewPointMassGravity(earth), fb)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Propagate(600, 10); err != nil {
		t.Fatal(err)
	}
	state := m.State()
	used := 600 * 500 / (9.81 * 2150)
	if !floats.EqualWithinAbs(state[6], 1000-used, 1e-9) {
		t.Fatalf("mass %f, expected %f", state[6], 1000-used)
	}
	// Thrusting along the velocity raises the energy.
	energy := func(s []float64) float64 {
		return floats.Dot(s[3:6], s[3:6])/2 - earth.GM/floats.Norm(s[:3], 2)
	}
	if e0 := -earth.GM / (2 * 7000); energy(state) <= e0 {
		t.Fatalf("energy %f did not increase from %f", energy(state), e0)
	}
	if err := fb.Deplete(state[6]); err != nil {
		t.Fatal(err)
	}
	if !floats.EqualWithinAbs(tank.FuelMass, 100-used, 1e-9) {
		t.Fatalf("tank holds %f kg", tank.FuelMass)
	}
}
