package ephemeris

import (
	"fmt"
	"math"

	"github.com/Nikolay2015/GMAT-unicode-sub002/timesys"
	"github.com/soniakeys/meeus/v3/planetposition"
	"github.com/soniakeys/meeus/v3/pluto"
	"github.com/soniakeys/unit"
)

const (
	// AU is one astronomical unit in kilometers.
	AU = 1.49597870700e8
	// obliquityJ2000 is the J2000 mean obliquity of the ecliptic, in radians.
	obliquityJ2000 = 84381.448 / 3600 * math.Pi / 180
	// vsopStep is the half width of the central difference used for velocities, in days.
	vsopStep = 0.01
)

// VSOP87 provides heliocentric planet states from the VSOP87B theory, with the
// Sun standing in for the solar system barycenter. The Moon and the Earth-Moon
// barycenter are not available.
type VSOP87 struct {
	planets map[Body]*planetposition.V87Planet
	conv    TimeConverter
}

// NewVSOP87 loads the VSOP87B files of all eight planets from dir.
func NewVSOP87(dir string, conv TimeConverter) (*VSOP87, error) {
	bodies := map[Body]int{
		Mercury: planetposition.Mercury,
		Venus:   planetposition.Venus,
		Earth:   planetposition.Earth,
		Mars:    planetposition.Mars,
		Jupiter: planetposition.Jupiter,
		Saturn:  planetposition.Saturn,
		Uranus:  planetposition.Uranus,
		Neptune: planetposition.Neptune,
	}
	v := &VSOP87{planets: make(map[Body]*planetposition.V87Planet, len(bodies)), conv: conv}
	for body, ibody := range bodies {
		planet, err := planetposition.LoadPlanetPath(ibody, dir)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %s", ErrLoadFailure, body, err)
		}
		v.planets[body] = planet
	}
	if v.conv == nil {
		v.conv = timesys.NewConverter(nil, nil)
	}
	return v, nil
}

// PosVel implements the Provider interface.
func (v *VSOP87) PosVel(body Body, epoch float64, override bool) (Sample, error) {
	var sample Sample
	if body == Sun {
		return sample, nil
	}
	var helio func(jde float64) (unit.Angle, unit.Angle, float64)
	if body == Pluto {
		helio = pluto.Heliocentric
	} else if planet, ok := v.planets[body]; ok {
		helio = planet.Position2000
	} else {
		return sample, fmt.Errorf("%w: %s in VSOP87", ErrNotInFile, body)
	}
	jde, err := ephemerisJD(v.conv, epoch, override)
	if err != nil {
		return sample, err
	}
	sample.Position = eclipticToEquatorial(helio(jde))
	before := eclipticToEquatorial(helio(jde - vsopStep))
	after := eclipticToEquatorial(helio(jde + vsopStep))
	for i := 0; i < 3; i++ {
		sample.Velocity[i] = (after[i] - before[i]) / (2 * vsopStep * timesys.SecondsPerDay)
	}
	return sample, nil
}

// eclipticToEquatorial returns the J2000 equatorial position in km of J2000 ecliptic coordinates (r in AU).
func eclipticToEquatorial(l, b unit.Angle, r float64) [3]float64 {
	r *= AU
	sB, cB := math.Sincos(b.Rad())
	sL, cL := math.Sincos(l.Rad())
	x, y, z := r*cB*cL, r*cB*sL, r*sB
	sE, cE := math.Sincos(obliquityJ2000)
	return [3]float64{x, y*cE - z*sE, y*sE + z*cE}
}
