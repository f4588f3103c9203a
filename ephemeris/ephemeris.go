// Package ephemeris provides solar system body states, lunar librations and
// nutations from Chebyshev ephemeris files laid out like the JPL DE binaries,
// plus a VSOP87 fallback for planets.
package ephemeris

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Nikolay2015/GMAT-unicode-sub002/timesys"
)

var (
	// ErrOutOfRange is returned when the requested epoch is outside of the ephemeris span.
	ErrOutOfRange = errors.New("epoch outside of ephemeris span")
	// ErrLoadFailure is returned when an ephemeris file is missing or corrupt.
	ErrLoadFailure = errors.New("could not load ephemeris")
	// ErrNotInFile is returned when the requested quantity is not stored in the ephemeris.
	ErrNotInFile = errors.New("quantity not in ephemeris")
	// ErrInvalidBody is returned for an unknown body.
	ErrInvalidBody = errors.New("invalid body")
)

// Body identifies a solar system body. The values below Earth are the rows
// of the DE interpolation pointer table.
type Body int

const (
	Mercury Body = iota
	Venus
	EarthMoonBarycenter
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
	Moon
	Sun
	// Earth is not stored and is derived from the barycenter and the geocentric Moon.
	Earth
)

const (
	nutationRow  = 11
	librationRow = 12
	// Rows is the number of rows in the interpolation pointer table.
	Rows = 13
)

var bodyNames = [...]string{"Mercury", "Venus", "EarthMoonBarycenter", "Mars", "Jupiter", "Saturn", "Uranus", "Neptune", "Pluto", "Moon", "Sun", "Earth"}

func (b Body) String() string {
	if b < 0 || int(b) >= len(bodyNames) {
		return fmt.Sprintf("Body(%d)", int(b))
	}
	return bodyNames[b]
}

// BodyFromName returns the body of the provided name, case insensitive.
func BodyFromName(name string) (Body, error) {
	for i, n := range bodyNames {
		if strings.EqualFold(n, name) {
			return Body(i), nil
		}
	}
	if strings.EqualFold(name, "Luna") {
		return Moon, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidBody, name)
}

// Sample is a position (km) and velocity (km/s) in the J2000 equatorial frame,
// relative to the solar system barycenter.
type Sample struct {
	Position [3]float64
	Velocity [3]float64
}

// Provider returns body states at an A.1 modified Julian epoch. When override
// is set, the epoch is converted to TT instead of TDB before the lookup.
type Provider interface {
	PosVel(body Body, epoch float64, override bool) (Sample, error)
}

// TimeConverter converts modified Julian epochs between time systems.
type TimeConverter interface {
	Convert(epoch float64, from, to timesys.System) (float64, error)
}

func ephemerisJD(conv TimeConverter, epoch float64, override bool) (float64, error) {
	sys := timesys.TDBMJD
	if override {
		sys = timesys.TTMJD
	}
	mjd, err := conv.Convert(epoch, timesys.A1MJD, sys)
	if err != nil {
		return 0, err
	}
	return mjd + timesys.JDJan5_1941, nil
}
