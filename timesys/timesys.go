// Package timesys converts modified Julian epochs between the A.1, TAI, UTC,
// UT1, TT and TDB time scales.
//
// Every modified Julian date in this package is counted from JDJan5_1941
// (JD 2430000.0), the reference used throughout the propagation core, unless
// the name of the value says otherwise.
package timesys

import (
	"errors"
	"fmt"
	"math"
)

const (
	// JDJan5_1941 is the Julian date of the modified Julian reference epoch.
	JDJan5_1941 = 2430000.0
	// JDOfJ2000 is the Julian date of the J2000 epoch.
	JDOfJ2000 = 2451545.0
	// JDMJDOffset is the offset between Julian dates and standard (1858) modified Julian dates.
	JDMJDOffset = 2400000.5
	// A1MinusTAI is the constant A.1 - TAI offset in seconds.
	A1MinusTAI = 0.0343817
	// TTMinusTAI is the constant TT - TAI offset in seconds.
	TTMinusTAI = 32.184
	// SecondsPerDay is the number of SI seconds in a day.
	SecondsPerDay = 86400.0
	// DaysPerJulianCentury is the number of days in a Julian century.
	DaysPerJulianCentury = 36525.0
)

// ErrUnknownSystem is returned for an unsupported time system.
var ErrUnknownSystem = errors.New("unknown time system")

// System is a time scale.
type System uint8

const (
	// A1MJD is the A.1 atomic time scale.
	A1MJD System = iota + 1
	// TAIMJD is International Atomic Time.
	TAIMJD
	// UTCMJD is Coordinated Universal Time.
	UTCMJD
	// UT1MJD is the UT1 rotational time scale.
	UT1MJD
	// TTMJD is Terrestrial Time.
	TTMJD
	// TDBMJD is Barycentric Dynamical Time.
	TDBMJD
)

func (s System) String() string {
	switch s {
	case A1MJD:
		return "A1ModJulian"
	case TAIMJD:
		return "TAIModJulian"
	case UTCMJD:
		return "UTCModJulian"
	case UT1MJD:
		return "UT1ModJulian"
	case TTMJD:
		return "TTModJulian"
	case TDBMJD:
		return "TDBModJulian"
	}
	return fmt.Sprintf("System(%d)", uint8(s))
}

// Converter converts epochs between time systems.
// The zero value is not usable, use NewConverter.
type Converter struct {
	leaps *LeapSecondTable
	eop   EOPProvider
}

// NewConverter returns a converter using the provided leap second table and
// Earth orientation provider. A nil table selects the built-in one, a nil
// provider assumes UT1 = UTC.
func NewConverter(leaps *LeapSecondTable, eop EOPProvider) *Converter {
	if leaps == nil {
		leaps = DefaultLeapSeconds()
	}
	return &Converter{leaps: leaps, eop: eop}
}

// EOP returns the Earth orientation provider of this converter, which may be nil.
func (c *Converter) EOP() EOPProvider {
	return c.eop
}

// Convert converts the modified Julian epoch from one time system to another.
func (c *Converter) Convert(epoch float64, from, to System) (float64, error) {
	if from == to {
		return epoch, nil
	}
	tai, err := c.toTAI(epoch, from)
	if err != nil {
		return 0, err
	}
	return c.fromTAI(tai, to)
}

func (c *Converter) toTAI(epoch float64, from System) (float64, error) {
	switch from {
	case TAIMJD:
		return epoch, nil
	case A1MJD:
		return epoch - A1MinusTAI/SecondsPerDay, nil
	case TTMJD:
		return epoch - TTMinusTAI/SecondsPerDay, nil
	case TDBMJD:
		// The periodic term is evaluated at TDB instead of TT, which is well under a microsecond off.
		tt := epoch - TDBMinusTT(epoch)/SecondsPerDay
		return tt - TTMinusTAI/SecondsPerDay, nil
	case UTCMJD:
		return epoch + c.leaps.TAIMinusUTC(epoch+JDJan5_1941)/SecondsPerDay, nil
	case UT1MJD:
		utc := epoch
		for i := 0; i < 2; i++ {
			dut1, err := c.ut1MinusUTC(utc)
			if err != nil {
				return 0, err
			}
			utc = epoch - dut1/SecondsPerDay
		}
		return utc + c.leaps.TAIMinusUTC(utc+JDJan5_1941)/SecondsPerDay, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownSystem, from)
}

func (c *Converter) fromTAI(tai float64, to System) (float64, error) {
	switch to {
	case TAIMJD:
		return tai, nil
	case A1MJD:
		return tai + A1MinusTAI/SecondsPerDay, nil
	case TTMJD:
		return tai + TTMinusTAI/SecondsPerDay, nil
	case TDBMJD:
		tt := tai + TTMinusTAI/SecondsPerDay
		return tt + TDBMinusTT(tt)/SecondsPerDay, nil
	case UTCMJD:
		return c.taiToUTC(tai), nil
	case UT1MJD:
		utc := c.taiToUTC(tai)
		dut1, err := c.ut1MinusUTC(utc)
		if err != nil {
			return 0, err
		}
		return utc + dut1/SecondsPerDay, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownSystem, to)
}

// taiToUTC iterates once since the leap second table is indexed by UTC.
func (c *Converter) taiToUTC(tai float64) float64 {
	utc := tai - c.leaps.TAIMinusUTC(tai+JDJan5_1941)/SecondsPerDay
	return tai - c.leaps.TAIMinusUTC(utc+JDJan5_1941)/SecondsPerDay
}

func (c *Converter) ut1MinusUTC(mjdUTC float64) (float64, error) {
	if c.eop == nil {
		return 0, nil
	}
	rec, err := c.eop.EOP(mjdUTC)
	if err != nil {
		return 0, err
	}
	return rec.UT1MinusUTC, nil
}

// TDBMinusTT returns TDB - TT in seconds for the TT modified Julian epoch.
func TDBMinusTT(mjdTT float64) float64 {
	t := JulianCenturies(mjdTT + JDJan5_1941)
	m := (357.5277233 + 35999.05034*t) * math.Pi / 180
	return 0.001657*math.Sin(m) + 0.00001385*math.Sin(2*m)
}

// JulianCenturies returns the number of Julian centuries elapsed since J2000 for the provided Julian date.
func JulianCenturies(jd float64) float64 {
	return (jd - JDOfJ2000) / DaysPerJulianCentury
}
