package gmat

import (
	"github.com/Nikolay2015/GMAT-unicode-sub002/ephemeris"
	"github.com/Nikolay2015/GMAT-unicode-sub002/timesys"
	"github.com/soniakeys/meeus/v3/nutation"
)

// NutationModel returns the nutation in longitude and in obliquity (rad) at a TT Julian date.
type NutationModel interface {
	Nutation(jdTT float64) (dPsi, dEps float64, err error)
}

// MeeusNutation is the IAU 1980 nutation theory as implemented by meeus.
type MeeusNutation struct{}

// Nutation implements the NutationModel interface.
func (MeeusNutation) Nutation(jdTT float64) (dPsi, dEps float64, err error) {
	psi, eps := nutation.Nutation(jdTT)
	return psi.Rad(), eps.Rad(), nil
}

// SeriesNutation evaluates a nutation coefficients file.
type SeriesNutation struct {
	Series *ephemeris.NutationSeries
}

// Nutation implements the NutationModel interface.
func (n SeriesNutation) Nutation(jdTT float64) (dPsi, dEps float64, err error) {
	if n.Series == nil {
		return 0, 0, newError(ConfigurationError, "SeriesNutation", "no nutation series loaded")
	}
	dPsi, dEps = n.Series.Nutation(jdTT)
	return
}

// NutationSource is implemented by ephemerides which store nutations.
type NutationSource interface {
	Nutations(epoch float64, override bool) (dPsi, dEps float64, err error)
}

// DENutation reads the nutations stored in a DE file.
type DENutation struct {
	Source NutationSource
}

// Nutation implements the NutationModel interface.
func (n DENutation) Nutation(jdTT float64) (dPsi, dEps float64, err error) {
	if n.Source == nil {
		return 0, 0, newError(ConfigurationError, "DENutation", "no DE file")
	}
	// Back to A.1 so that the file lookup happens in TT.
	a1 := jdTT - timesys.JDJan5_1941 + (timesys.A1MinusTAI-timesys.TTMinusTAI)/timesys.SecondsPerDay
	dPsi, dEps, err = n.Source.Nutations(a1, true)
	return dPsi, dEps, wrapError("DENutation", err)
}
