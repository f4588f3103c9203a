package timesys

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// GregorianLayout is the layout of UTC Gregorian epoch strings.
const GregorianLayout = "02 Jan 2006 15:04:05.000"

// ErrEpochFormat is returned when an epoch string is neither a modified Julian number nor a Gregorian date.
var ErrEpochFormat = errors.New("unrecognized epoch")

// FromTime returns the modified Julian date of the provided time, in whichever scale the time is expressed.
func FromTime(t time.Time) float64 {
	return julian.TimeToJD(t) - JDJan5_1941
}

// ToTime returns the time of the provided modified Julian date, in whichever scale the date is expressed.
func ToTime(mjd float64) time.Time {
	return julian.JDToTime(mjd + JDJan5_1941)
}

// ParseEpoch returns the A.1 modified Julian epoch of the string, which is
// either an A.1 modified Julian number or a UTC Gregorian date such as
// "01 Jan 2000 11:59:28.000".
func (c *Converter) ParseEpoch(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if mjd, err := strconv.ParseFloat(s, 64); err == nil {
		return mjd, nil
	}
	t, err := time.Parse(GregorianLayout, s)
	if err != nil {
		// The milliseconds are optional.
		if t, err = time.Parse("02 Jan 2006 15:04:05", s); err != nil {
			return 0, fmt.Errorf("%w: %q", ErrEpochFormat, s)
		}
	}
	return c.Convert(FromTime(t.UTC()), UTCMJD, A1MJD)
}

// FormatEpoch returns the UTC Gregorian string of the A.1 modified Julian epoch.
func (c *Converter) FormatEpoch(a1 float64) (string, error) {
	utc, err := c.Convert(a1, A1MJD, UTCMJD)
	if err != nil {
		return "", err
	}
	return ToTime(utc).UTC().Round(time.Millisecond).Format(GregorianLayout), nil
}
