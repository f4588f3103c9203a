package timesys

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrNoEOP is returned when an Earth orientation table has no record covering the requested epoch.
	ErrNoEOP = errors.New("no Earth orientation data")
	// ErrEOPFormat is returned when an Earth orientation file cannot be parsed.
	ErrEOPFormat = errors.New("malformed Earth orientation record")
)

// EOPRecord stores the Earth orientation parameters of one UTC day.
type EOPRecord struct {
	MJD         float64 // standard modified Julian date, UTC
	X, Y        float64 // polar motion, arcseconds
	UT1MinusUTC float64 // seconds
	LOD         float64 // excess length of day, seconds
}

// EOPProvider returns Earth orientation parameters at a UTC modified Julian epoch.
type EOPProvider interface {
	EOP(mjdUTC float64) (EOPRecord, error)
}

// EOPTable is an EOPProvider which linearly interpolates between daily records.
type EOPTable struct {
	records []EOPRecord
}

// NewEOPTable returns a table sorted by date. At least one record is required.
func NewEOPTable(records []EOPRecord) (*EOPTable, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty table", ErrNoEOP)
	}
	recs := make([]EOPRecord, len(records))
	copy(recs, records)
	sort.Slice(recs, func(i, j int) bool { return recs[i].MJD < recs[j].MJD })
	return &EOPTable{recs}, nil
}

// EOP implements the EOPProvider interface. Epochs outside of the table return ErrNoEOP.
func (t *EOPTable) EOP(mjdUTC float64) (EOPRecord, error) {
	mjd := mjdUTC + JDJan5_1941 - JDMJDOffset
	first, last := t.records[0], t.records[len(t.records)-1]
	if mjd < first.MJD || mjd > last.MJD {
		return EOPRecord{}, fmt.Errorf("%w: MJD %f not in [%f, %f]", ErrNoEOP, mjd, first.MJD, last.MJD)
	}
	idx := sort.Search(len(t.records), func(i int) bool { return t.records[i].MJD >= mjd })
	if t.records[idx].MJD == mjd || idx == 0 {
		return t.records[idx], nil
	}
	prev, next := t.records[idx-1], t.records[idx]
	f := (mjd - prev.MJD) / (next.MJD - prev.MJD)
	lerp := func(a, b float64) float64 { return a + f*(b-a) }
	return EOPRecord{
		MJD:         mjd,
		X:           lerp(prev.X, next.X),
		Y:           lerp(prev.Y, next.Y),
		UT1MinusUTC: lerp(prev.UT1MinusUTC, next.UT1MinusUTC),
		LOD:         lerp(prev.LOD, next.LOD),
	}, nil
}

// LoadEOPCSV parses comma separated records of "mjd,x,y,ut1_utc,lod".
// Lines whose first field is not a number (e.g. a header) are skipped.
func LoadEOPCSV(r io.Reader) (*EOPTable, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = 5
	reader.TrimLeadingSpace = true
	var records []EOPRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrEOPFormat, err)
		}
		vals := make([]float64, len(row))
		header := false
		for i, cell := range row {
			v, perr := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if perr != nil {
				if i == 0 && len(records) == 0 {
					header = true
					break
				}
				return nil, fmt.Errorf("%w: %q: %s", ErrEOPFormat, cell, perr)
			}
			vals[i] = v
		}
		if header {
			continue
		}
		records = append(records, EOPRecord{MJD: vals[0], X: vals[1], Y: vals[2], UT1MinusUTC: vals[3], LOD: vals[4]})
	}
	return NewEOPTable(records)
}
