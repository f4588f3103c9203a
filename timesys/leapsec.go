package timesys

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// ErrLeapSecondFormat is returned when a leap second file line cannot be parsed.
var ErrLeapSecondFormat = errors.New("malformed leap second record")

// LeapSecond is one line of the USNO tai-utc.dat file:
// TAI - UTC = Offset + (MJD - RefMJD) * Rate, valid from JD (UTC).
type LeapSecond struct {
	JD     float64
	Offset float64
	RefMJD float64 // standard modified Julian date
	Rate   float64
}

// LeapSecondTable is a sorted list of leap second records.
type LeapSecondTable struct {
	records []LeapSecond
}

// NewLeapSecondTable returns a table from the provided records, sorted by date.
func NewLeapSecondTable(records []LeapSecond) *LeapSecondTable {
	recs := make([]LeapSecond, len(records))
	copy(recs, records)
	sort.Slice(recs, func(i, j int) bool { return recs[i].JD < recs[j].JD })
	return &LeapSecondTable{recs}
}

// Len returns the number of records.
func (t *LeapSecondTable) Len() int {
	return len(t.records)
}

// TAIMinusUTC returns TAI - UTC in seconds at the provided UTC Julian date.
// Dates before the first record return zero.
func (t *LeapSecondTable) TAIMinusUTC(jdUTC float64) float64 {
	idx := sort.Search(len(t.records), func(i int) bool { return t.records[i].JD > jdUTC }) - 1
	if idx < 0 {
		return 0
	}
	rec := t.records[idx]
	return rec.Offset + (jdUTC-JDMJDOffset-rec.RefMJD)*rec.Rate
}

// LoadLeapSeconds parses a USNO tai-utc.dat stream, e.g.
//
//	1972 JAN  1 =JD 2441317.5  TAI-UTC=  10.0       S + (MJD - 41317.) X 0.0      S
func LoadLeapSeconds(r io.Reader) (*LeapSecondTable, error) {
	var records []LeapSecond
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 14 {
			return nil, fmt.Errorf("%w: line %d has %d fields", ErrLeapSecondFormat, lineNo, len(fields))
		}
		var rec LeapSecond
		var err error
		if rec.JD, err = strconv.ParseFloat(fields[4], 64); err != nil {
			return nil, fmt.Errorf("%w: line %d: %s", ErrLeapSecondFormat, lineNo, err)
		}
		if rec.Offset, err = strconv.ParseFloat(fields[6], 64); err != nil {
			return nil, fmt.Errorf("%w: line %d: %s", ErrLeapSecondFormat, lineNo, err)
		}
		if rec.RefMJD, err = strconv.ParseFloat(strings.TrimSuffix(fields[11], ")"), 64); err != nil {
			return nil, fmt.Errorf("%w: line %d: %s", ErrLeapSecondFormat, lineNo, err)
		}
		if rec.Rate, err = strconv.ParseFloat(fields[13], 64); err != nil {
			return nil, fmt.Errorf("%w: line %d: %s", ErrLeapSecondFormat, lineNo, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no records", ErrLeapSecondFormat)
	}
	return NewLeapSecondTable(records), nil
}

// DefaultLeapSeconds returns the built-in table, current through the 2017 leap second.
func DefaultLeapSeconds() *LeapSecondTable {
	return NewLeapSecondTable(builtinLeapSeconds)
}

var builtinLeapSeconds = []LeapSecond{
	{2437300.5, 1.4228180, 37300, 0.001296},
	{2437512.5, 1.3728180, 37300, 0.001296},
	{2437665.5, 1.8458580, 37665, 0.0011232},
	{2438334.5, 1.9458580, 37665, 0.0011232},
	{2438395.5, 3.2401300, 38761, 0.001296},
	{2438486.5, 3.3401300, 38761, 0.001296},
	{2438639.5, 3.4401300, 38761, 0.001296},
	{2438761.5, 3.5401300, 38761, 0.001296},
	{2438820.5, 3.6401300, 38761, 0.001296},
	{2438942.5, 3.7401300, 38761, 0.001296},
	{2439004.5, 3.8401300, 38761, 0.001296},
	{2439126.5, 4.3131700, 39126, 0.002592},
	{2439887.5, 4.2131700, 39126, 0.002592},
	{2441317.5, 10, 41317, 0},
	{2441499.5, 11, 41317, 0},
	{2441683.5, 12, 41317, 0},
	{2442048.5, 13, 41317, 0},
	{2442413.5, 14, 41317, 0},
	{2442778.5, 15, 41317, 0},
	{2443144.5, 16, 41317, 0},
	{2443509.5, 17, 41317, 0},
	{2443874.5, 18, 41317, 0},
	{2444239.5, 19, 41317, 0},
	{2444786.5, 20, 41317, 0},
	{2445151.5, 21, 41317, 0},
	{2445516.5, 22, 41317, 0},
	{2446247.5, 23, 41317, 0},
	{2447161.5, 24, 41317, 0},
	{2447892.5, 25, 41317, 0},
	{2448257.5, 26, 41317, 0},
	{2448804.5, 27, 41317, 0},
	{2449169.5, 28, 41317, 0},
	{2449534.5, 29, 41317, 0},
	{2450083.5, 30, 41317, 0},
	{2450630.5, 31, 41317, 0},
	{2451179.5, 32, 41317, 0},
	{2453736.5, 33, 41317, 0},
	{2454832.5, 34, 41317, 0},
	{2456109.5, 35, 41317, 0},
	{2457204.5, 36, 41317, 0},
	{2457754.5, 37, 41317, 0},
}
