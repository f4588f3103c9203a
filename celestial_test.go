package gmat

import (
	"errors"
	"testing"

	"github.com/gonum/floats"

	"github.com/Nikolay2015/GMAT-unicode-sub002/ephemeris"
)

func TestSolarSystemBodies(t *testing.T) {
	system := NewSolarSystem(nil)
	moon, err := system.Body("Moon")
	if err != nil {
		t.Fatal(err)
	}
	luna, _ := system.Body("LUNA")
	if moon != luna || moon.Body != ephemeris.Moon {
		t.Fatal("Moon is an alias of Luna")
	}
	if system.J2000Body().Name != "Earth" {
		t.Fatalf("J2000 body %s", system.J2000Body())
	}
	if _, err := system.Body("Vulcan"); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("unknown body: %v", err)
	}
	if err := system.SetJ2000Body("Vulcan"); !errors.Is(err, ErrConfiguration) || system.J2000Body().Name != "Earth" {
		t.Fatalf("unknown J2000 body: %v", err)
	}
	if names := system.Bodies(); names[0] != "Sun" || len(names) < 10 {
		t.Fatalf("bodies %v", names)
	}
	earth, _ := system.Body("Earth")
	if earth.RotationDataSource() != SourceFK5IAU1980 || moon.RotationDataSource() != SourceDEFile {
		t.Fatalf("rotation sources %s and %s", earth.RotationDataSource(), moon.RotationDataSource())
	}
	if earth.NutationUpdateInterval() != 60 {
		t.Fatalf("nutation interval %f", earth.NutationUpdateInterval())
	}
	// Bodies of different systems are independent.
	other, _ := NewSolarSystem(nil).Body("Moon")
	other.SetRotationDataSource(SourceIAUSimplified)
	if moon.RotationDataSource() != SourceDEFile {
		t.Fatal("default bodies are shared between systems")
	}
}

func TestMJ2000State(t *testing.T) {
	system := NewSolarSystem(movingMoon{})
	moon, _ := system.Body("Luna")
	state, err := moon.MJ2000State(j2000A1 + 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.Equal(state[:], []float64{384400, 43200, 0, 0, 1, 0}) {
		t.Fatalf("moon state %v", state)
	}
	earth, _ := system.Body("Earth")
	if state, err = earth.MJ2000State(j2000A1); err != nil || state != [6]float64{} {
		t.Fatalf("J2000 body state %v (%v)", state, err)
	}
	// Relative to the Moon, the Earth moves backward.
	if err := system.SetJ2000Body("Moon"); err != nil {
		t.Fatal(err)
	}
	if state, err = earth.MJ2000State(j2000A1); err != nil || state[0] != -384400 || state[4] != -1 {
		t.Fatalf("Earth from the Moon %v (%v)", state, err)
	}
	mars, _ := system.Body("Mars")
	if _, err = mars.MJ2000State(j2000A1); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("body without ephemeris: %v", err)
	}
	if _, err = NewSolarSystem(nil).Body("Sun"); err != nil {
		t.Fatal(err)
	}
	sun, _ := NewSolarSystem(nil).Body("Sun")
	if _, err = sun.MJ2000State(j2000A1); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("system without ephemeris: %v", err)
	}
	loose := &CelestialBody{Name: "Loose"}
	if _, err = loose.MJ2000State(j2000A1); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("body outside of a system: %v", err)
	}
}

func TestCartographicCoordinates(t *testing.T) {
	mars, _ := NewSolarSystem(nil).Body("Mars")
	// J2000 TDB as a modified Julian date.
	alpha, delta, w, wDot := mars.CartographicCoordinates(21545)
	if alpha != 317.68143 || delta != 52.8865 || w != 176.63 || wDot != 350.89198226 {
		t.Fatalf("at J2000: %f %f %f %f", alpha, delta, w, wDot)
	}
	// One Julian century later.
	alpha, delta, w, _ = mars.CartographicCoordinates(21545 + 36525)
	if !floats.EqualWithinAbs(alpha, 317.68143-0.1061, 1e-9) || !floats.EqualWithinAbs(delta, 52.8865-0.0609, 1e-9) {
		t.Fatalf("pole after a century: %f %f", alpha, delta)
	}
	if !floats.EqualWithinRel(w, 176.63+350.89198226*36525, 1e-12) {
		t.Fatalf("prime meridian after a century: %f", w)
	}
	if SourceDEFile.String() != "DE405File" || SourceNone.String() != "None" {
		t.Fatal("invalid source names")
	}
}
