package gmat

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/Nikolay2015/GMAT-unicode-sub002/timesys"
)

// lagrangePoints is the number of records used by the interpolation (order 7).
const lagrangePoints = 8

// InterpolatedState is a record of an interpolated states (.xyzv) file.
type InterpolatedState struct {
	JD       float64 // TDB
	Position [3]float64
	Velocity [3]float64
}

// fromText initializes from the seven fields of a record.
func (i *InterpolatedState) fromText(record []string) error {
	if len(record) != 7 {
		return fmt.Errorf("expected 7 fields, got %d", len(record))
	}
	var vals [7]float64
	for j, field := range record {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return err
		}
		vals[j] = v
	}
	i.JD = vals[0]
	copy(i.Position[:], vals[1:4])
	copy(i.Velocity[:], vals[4:7])
	return nil
}

// ToText converts to text for written output.
func (i InterpolatedState) ToText() string {
	return fmt.Sprintf("%f %f %f %f %f %f %f", i.JD, i.Position[0], i.Position[1], i.Position[2], i.Velocity[0], i.Velocity[1], i.Velocity[2])
}

// ParseInterpolatedStates reads the records of an interpolated states file.
func ParseInterpolatedStates(r io.Reader) ([]InterpolatedState, error) {
	var states []InterpolatedState
	cr := csv.NewReader(r)
	cr.Comma = ' '
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, newError(ConfigurationError, "ParseInterpolatedStates", "%v", err)
		}
		var state InterpolatedState
		if err := state.fromText(record); err != nil {
			line, _ := cr.FieldPos(0)
			return nil, newError(ConfigurationError, "ParseInterpolatedStates", "line %d: %v", line, err)
		}
		states = append(states, state)
	}
	return states, nil
}

// InterpolatedStates provides states by Lagrange interpolation of a table of TDB records.
type InterpolatedStates struct {
	records    []InterpolatedState
	conv       TimeConverter
	start, end float64
}

// NewInterpolatedStates returns a provider of the records, which are sorted by date.
func NewInterpolatedStates(records []InterpolatedState, conv TimeConverter) (*InterpolatedStates, error) {
	const op = "NewInterpolatedStates"
	if len(records) < 2 {
		return nil, newError(ConfigurationError, op, "need at least two records, got %d", len(records))
	}
	if conv == nil {
		return nil, newError(ConfigurationError, op, "no time converter")
	}
	recs := append([]InterpolatedState(nil), records...)
	sort.Slice(recs, func(i, j int) bool { return recs[i].JD < recs[j].JD })
	for i := 1; i < len(recs); i++ {
		if recs[i].JD == recs[i-1].JD {
			return nil, newError(ConfigurationError, op, "duplicate record at JD %f", recs[i].JD)
		}
	}
	s := &InterpolatedStates{records: recs, conv: conv}
	var err error
	if s.start, err = conv.Convert(recs[0].JD-timesys.JDJan5_1941, timesys.TDBMJD, timesys.A1MJD); err != nil {
		return nil, wrapError(op, err)
	}
	if s.end, err = conv.Convert(recs[len(recs)-1].JD-timesys.JDJan5_1941, timesys.TDBMJD, timesys.A1MJD); err != nil {
		return nil, wrapError(op, err)
	}
	return s, nil
}

// LoadInterpolatedStates reads an interpolated states file.
func LoadInterpolatedStates(r io.Reader, conv TimeConverter) (*InterpolatedStates, error) {
	records, err := ParseInterpolatedStates(r)
	if err != nil {
		return nil, err
	}
	return NewInterpolatedStates(records, conv)
}

// Span implements the SpanProvider interface.
func (s *InterpolatedStates) Span() (start, end float64) {
	return s.start, s.end
}

// State implements the StateProvider interface.
func (s *InterpolatedStates) State(epoch float64) ([6]float64, error) {
	var state [6]float64
	mjd, err := s.conv.Convert(epoch, timesys.A1MJD, timesys.TDBMJD)
	if err != nil {
		return state, wrapError("State", err)
	}
	jd := mjd + timesys.JDJan5_1941
	n := len(s.records)
	if jd < s.records[0].JD || jd > s.records[n-1].JD {
		return state, newError(OutOfRangeError, "State", "JD %f outside of [%f, %f]", jd, s.records[0].JD, s.records[n-1].JD)
	}
	// First record after jd, then center the window on it.
	idx := sort.Search(n, func(i int) bool { return s.records[i].JD > jd })
	points := lagrangePoints
	if n < points {
		points = n
	}
	first := idx - points/2
	if first < 0 {
		first = 0
	}
	if first+points > n {
		first = n - points
	}
	window := s.records[first : first+points]
	for j, rec := range window {
		if rec.JD == jd {
			copy(state[:3], rec.Position[:])
			copy(state[3:], rec.Velocity[:])
			return state, nil
		}
		l := 1.0
		for k, other := range window {
			if k != j {
				l *= (jd - other.JD) / (rec.JD - other.JD)
			}
		}
		for i := 0; i < 3; i++ {
			state[i] += l * rec.Position[i]
			state[i+3] += l * rec.Velocity[i]
		}
	}
	return state, nil
}

// BodyFollower provides the states of a body of a solar system.
type BodyFollower struct {
	Body *CelestialBody
}

// State implements the StateProvider interface.
func (f BodyFollower) State(epoch float64) ([6]float64, error) {
	if f.Body == nil {
		return [6]float64{}, newError(ConfigurationError, "State", "no body to follow")
	}
	return f.Body.MJ2000State(epoch)
}
