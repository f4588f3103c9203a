package gmat

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Nikolay2015/GMAT-unicode-sub002/timesys"
)

// Publisher receives rows of labelled values.
type Publisher interface {
	Publish(labels []string, values []float64) error
}

// CSVPublisher writes the rows as CSV, with a header row of the first labels.
type CSVPublisher struct {
	w      *csv.Writer
	header bool
}

// NewCSVPublisher returns a publisher writing to w.
func NewCSVPublisher(w io.Writer) *CSVPublisher {
	return &CSVPublisher{w: csv.NewWriter(w)}
}

// Publish implements the Publisher interface.
func (p *CSVPublisher) Publish(labels []string, values []float64) error {
	if !p.header {
		if err := p.w.Write(labels); err != nil {
			return err
		}
		p.header = true
	}
	record := make([]string, len(values))
	for i, v := range values {
		record[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	if err := p.w.Write(record); err != nil {
		return err
	}
	p.w.Flush()
	return p.w.Error()
}

// XYZVPublisher writes the first object of each row as interpolated states.
// The first value of a row is the A.1 epoch.
type XYZVPublisher struct {
	w      io.Writer
	conv   TimeConverter
	header bool
}

// NewXYZVPublisher returns a publisher of interpolated states to w.
func NewXYZVPublisher(w io.Writer, conv TimeConverter) *XYZVPublisher {
	return &XYZVPublisher{w: w, conv: conv}
}

// Publish implements the Publisher interface.
func (p *XYZVPublisher) Publish(labels []string, values []float64) error {
	if len(values) < 7 {
		return newError(InvalidParameterError, "Publish", "expected an epoch and a state, got %d values", len(values))
	}
	if !p.header {
		if _, err := fmt.Fprintf(p.w, `# Creation date (UTC): %s
# Records are <jd> <x> <y> <z> <vel x> <vel y> <vel z>
#   Time is a TDB Julian date
#   Position in km
#   Velocity in km/sec
`, time.Now().UTC()); err != nil {
			return err
		}
		p.header = true
	}
	tdb, err := p.conv.Convert(values[0], timesys.A1MJD, timesys.TDBMJD)
	if err != nil {
		return wrapError("Publish", err)
	}
	state := InterpolatedState{JD: tdb + timesys.JDJan5_1941}
	copy(state.Position[:], values[1:4])
	copy(state.Velocity[:], values[4:7])
	_, err = fmt.Fprintln(p.w, state.ToText())
	return err
}

// CgCatalog is a Cosmographia catalog.
type CgCatalog struct {
	Version string     `json:"version"`
	Name    string     `json:"name"`
	Items   []*CgItems `json:"items"`
	Require []string   `json:"require,omitempty"`
}

// CgItems is an item of a Cosmographia catalog.
type CgItems struct {
	Class           string        `json:"class"`
	Name            string        `json:"name"`
	StartTime       string        `json:"startTime"`
	EndTime         string        `json:"endTime"`
	Center          string        `json:"center"`
	TrajectoryFrame string        `json:"trajectoryFrame"`
	Trajectory      *CgTrajectory `json:"trajectory,omitempty"`
}

// CgTrajectory is the trajectory of a catalog item.
type CgTrajectory struct {
	Type   string `json:"type,omitempty"`
	Source string `json:"source,omitempty"`
}

// WriteCatalog writes the catalog of a spacecraft trajectory published as interpolated
// J2000 equatorial states.
func WriteCatalog(w io.Writer, sc, center, source string, start, end time.Time) error {
	c := CgCatalog{Version: "1.0", Name: sc, Items: []*CgItems{{
		Class:           "spacecraft",
		Name:            sc,
		StartTime:       start.UTC().Format(time.RFC3339),
		EndTime:         end.UTC().Format(time.RFC3339),
		Center:          center,
		TrajectoryFrame: "ICRF",
		Trajectory:      &CgTrajectory{Type: "InterpolatedStates", Source: source},
	}}}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
