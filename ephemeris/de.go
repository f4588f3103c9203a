package ephemeris

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/Nikolay2015/GMAT-unicode-sub002/timesys"
	"github.com/soniakeys/meeus/v3/julian"
)

// Byte layout of the header record.
const (
	titleLen      = 84
	nameLen       = 6
	maxNames      = 400
	offNames      = 3 * titleLen
	offStart      = offNames + maxNames*nameLen // 2652
	offEnd        = offStart + 8
	offStep       = offEnd + 8
	offNCon       = offStep + 8
	offAU         = offNCon + 4
	offEMRAT      = offAU + 8
	offIPT        = offEMRAT + 8
	offDENumber   = offIPT + 12*3*4
	offLibrations = offDENumber + 4
	headerBytes   = offLibrations + 3*4 // 2856
)

// Header describes a DE ephemeris. Start, End and Step are TDB Julian dates and days.
//
// IPT holds, for each row, the one-based offset of the first coefficient in a
// record (the two record dates included), the number of coefficients per
// component and the number of sub-intervals per record. A row with zero
// coefficients is not stored.
type Header struct {
	Title            string
	DENumber         uint32
	Start, End, Step float64
	AU               float64
	EMRAT            float64
	IPT              [Rows][3]uint32
	ConstantNames    []string
	ConstantValues   []float64
}

// PackIPT returns an interpolation pointer table from the number of
// coefficients and sub-intervals of each row, storing rows contiguously.
func PackIPT(layout [Rows][2]uint32) [Rows][3]uint32 {
	var ipt [Rows][3]uint32
	offset := uint32(3)
	for row, l := range layout {
		if l[0] == 0 || l[1] == 0 {
			continue
		}
		ipt[row] = [3]uint32{offset, l[0], l[1]}
		offset += l[0] * l[1] * uint32(components(row))
	}
	return ipt
}

func components(row int) int {
	if row == nutationRow {
		return 2
	}
	return 3
}

// coefficientsPerRecord returns the number of doubles in a record, including both dates.
func (h Header) coefficientsPerRecord() int {
	n := 2
	for row, ipt := range h.IPT {
		n += int(ipt[1]*ipt[2]) * components(row)
	}
	return n
}

func (h Header) recordCount() int {
	return int(math.Round((h.End - h.Start) / h.Step))
}

// Source is an ephemeris held entirely in memory.
type Source struct {
	header  Header
	ncoeff  int
	records [][]float64
	conv    TimeConverter
}

// NewSource returns a source from a header and its data records, each record
// being [start JD, end JD, coefficients...]. A nil converter selects a default
// timesys converter.
func NewSource(h Header, records [][]float64, conv TimeConverter) (*Source, error) {
	if h.Step <= 0 || h.End <= h.Start {
		return nil, fmt.Errorf("%w: invalid span [%f, %f] step %f", ErrLoadFailure, h.Start, h.End, h.Step)
	}
	if h.EMRAT <= 0 {
		return nil, fmt.Errorf("%w: invalid Earth-Moon mass ratio %f", ErrLoadFailure, h.EMRAT)
	}
	if len(h.ConstantNames) != len(h.ConstantValues) {
		return nil, fmt.Errorf("%w: %d constant names for %d values", ErrLoadFailure, len(h.ConstantNames), len(h.ConstantValues))
	}
	ncoeff := h.coefficientsPerRecord()
	for row, ipt := range h.IPT {
		if ipt[1] == 0 {
			continue
		}
		if ipt[0] < 3 || int(ipt[0])-1+int(ipt[1]*ipt[2])*components(row) > ncoeff {
			return nil, fmt.Errorf("%w: row %d overflows the %d coefficient record", ErrLoadFailure, row, ncoeff)
		}
	}
	if n := h.recordCount(); n != len(records) {
		return nil, fmt.Errorf("%w: span requires %d records, got %d", ErrLoadFailure, n, len(records))
	}
	for i, rec := range records {
		if len(rec) != ncoeff {
			return nil, fmt.Errorf("%w: record %d has %d coefficients instead of %d", ErrLoadFailure, i, len(rec), ncoeff)
		}
	}
	if conv == nil {
		conv = timesys.NewConverter(nil, nil)
	}
	return &Source{header: h, ncoeff: ncoeff, records: records, conv: conv}, nil
}

// Open reads the whole ephemeris file at path.
func Open(path string, conv TimeConverter) (*Source, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLoadFailure, err)
	}
	return Decode(buf, conv)
}

// Decode parses an ephemeris from its binary contents. The byte order is detected from the constant count.
func Decode(buf []byte, conv TimeConverter) (*Source, error) {
	if len(buf) < headerBytes {
		return nil, fmt.Errorf("%w: %d bytes is too short for a header", ErrLoadFailure, len(buf))
	}
	var order binary.ByteOrder = binary.LittleEndian
	if order.Uint32(buf[offNCon:]) > 65536 {
		order = binary.BigEndian
	}
	f64 := func(off int) float64 { return math.Float64frombits(order.Uint64(buf[off:])) }
	var h Header
	var titles []string
	for i := 0; i < 3; i++ {
		if line := strings.TrimSpace(string(buf[i*titleLen : (i+1)*titleLen])); line != "" {
			titles = append(titles, line)
		}
	}
	h.Title = strings.Join(titles, "\n")
	h.Start, h.End, h.Step = f64(offStart), f64(offEnd), f64(offStep)
	ncon := int(order.Uint32(buf[offNCon:]))
	h.AU, h.EMRAT = f64(offAU), f64(offEMRAT)
	for i := 0; i < 12; i++ {
		for j := 0; j < 3; j++ {
			h.IPT[i][j] = order.Uint32(buf[offIPT+4*(3*i+j):])
		}
	}
	h.DENumber = order.Uint32(buf[offDENumber:])
	for j := 0; j < 3; j++ {
		h.IPT[librationRow][j] = order.Uint32(buf[offLibrations+4*j:])
	}
	if h.Step <= 0 || h.End <= h.Start || math.IsNaN(h.Start) {
		return nil, fmt.Errorf("%w: corrupt header", ErrLoadFailure)
	}

	recBytes := 8 * h.coefficientsPerRecord()
	hdrRecs, constRecs := layoutRecords(recBytes, ncon)
	nrec := h.recordCount()
	if need := (hdrRecs + constRecs + nrec) * recBytes; len(buf) < need {
		return nil, fmt.Errorf("%w: file holds %d bytes, layout requires %d", ErrLoadFailure, len(buf), need)
	}
	for i := 0; i < ncon; i++ {
		if i < maxNames {
			off := offNames + i*nameLen
			h.ConstantNames = append(h.ConstantNames, strings.TrimSpace(string(buf[off:off+nameLen])))
		} else {
			h.ConstantNames = append(h.ConstantNames, fmt.Sprintf("CON%03d", i))
		}
		h.ConstantValues = append(h.ConstantValues, f64(hdrRecs*recBytes+8*i))
	}
	records := make([][]float64, nrec)
	base := (hdrRecs + constRecs) * recBytes
	for r := range records {
		rec := make([]float64, recBytes/8)
		for k := range rec {
			rec[k] = f64(base + r*recBytes + 8*k)
		}
		records[r] = rec
	}
	return NewSource(h, records, conv)
}

// layoutRecords returns how many records the header and the constant values occupy.
func layoutRecords(recBytes, ncon int) (hdrRecs, constRecs int) {
	hdrRecs = (headerBytes + recBytes - 1) / recBytes
	constRecs = (8*ncon + recBytes - 1) / recBytes
	if constRecs == 0 {
		constRecs = 1
	}
	return
}

// Write serializes the source in little endian DE layout.
func (s *Source) Write(w io.Writer) error {
	h := s.header
	recBytes := 8 * s.ncoeff
	hdrRecs, constRecs := layoutRecords(recBytes, len(h.ConstantValues))
	le := binary.LittleEndian

	hdr := make([]byte, hdrRecs*recBytes)
	for i := range hdr[:offStart] {
		hdr[i] = ' '
	}
	for i, line := range strings.SplitN(h.Title, "\n", 3) {
		copy(hdr[i*titleLen:(i+1)*titleLen], line)
	}
	for i, name := range h.ConstantNames {
		if i == maxNames {
			break
		}
		copy(hdr[offNames+i*nameLen:offNames+(i+1)*nameLen], name)
	}
	le.PutUint64(hdr[offStart:], math.Float64bits(h.Start))
	le.PutUint64(hdr[offEnd:], math.Float64bits(h.End))
	le.PutUint64(hdr[offStep:], math.Float64bits(h.Step))
	le.PutUint32(hdr[offNCon:], uint32(len(h.ConstantValues)))
	le.PutUint64(hdr[offAU:], math.Float64bits(h.AU))
	le.PutUint64(hdr[offEMRAT:], math.Float64bits(h.EMRAT))
	for i := 0; i < 12; i++ {
		for j := 0; j < 3; j++ {
			le.PutUint32(hdr[offIPT+4*(3*i+j):], h.IPT[i][j])
		}
	}
	le.PutUint32(hdr[offDENumber:], h.DENumber)
	for j := 0; j < 3; j++ {
		le.PutUint32(hdr[offLibrations+4*j:], h.IPT[librationRow][j])
	}

	var buf bytes.Buffer
	buf.Write(hdr)
	consts := make([]byte, constRecs*recBytes)
	for i, v := range h.ConstantValues {
		le.PutUint64(consts[8*i:], math.Float64bits(v))
	}
	buf.Write(consts)
	rec := make([]byte, recBytes)
	for _, r := range s.records {
		for k, v := range r {
			le.PutUint64(rec[8*k:], math.Float64bits(v))
		}
		buf.Write(rec)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Header returns the header of this source.
func (s *Source) Header() Header {
	return s.header
}

// Constant returns the value of the named constant, e.g. "EMRAT" or "AU".
func (s *Source) Constant(name string) (float64, bool) {
	for i, n := range s.header.ConstantNames {
		if n == name {
			return s.header.ConstantValues[i], true
		}
	}
	return 0, false
}

// Span returns the first and last epochs of this source, as A.1 modified Julian dates.
func (s *Source) Span() (start, end float64, err error) {
	if start, err = s.conv.Convert(s.header.Start-timesys.JDJan5_1941, timesys.TDBMJD, timesys.A1MJD); err != nil {
		return
	}
	end, err = s.conv.Convert(s.header.End-timesys.JDJan5_1941, timesys.TDBMJD, timesys.A1MJD)
	return
}

// StartDayAndYear returns the day of year and the year of the first epoch of this source.
func (s *Source) StartDayAndYear() (day, year int) {
	y, m, d := julian.JDToCalendar(s.header.Start)
	return julian.DayOfYearGregorian(y, m, int(d)), y
}

// evaluate returns the components and their per day rates of a row at the TDB (or TT) Julian date.
func (s *Source) evaluate(row int, jd float64) (pos, vel []float64, err error) {
	h := s.header
	if jd < h.Start || jd > h.End {
		return nil, nil, fmt.Errorf("%w: JD %f not in [%f, %f]", ErrOutOfRange, jd, h.Start, h.End)
	}
	ipt := h.IPT[row]
	if ipt[1] == 0 {
		return nil, nil, fmt.Errorf("%w: row %d", ErrNotInFile, row)
	}
	blockLoc := (jd - h.Start) / h.Step
	nr := int(blockLoc)
	t := blockLoc - float64(nr)
	// Epochs on a record boundary use the end of the previous record.
	if t == 0 && nr != 0 {
		t = 1
		nr--
	}
	if nr >= len(s.records) {
		nr = len(s.records) - 1
		t = 1
	}
	lookups.Inc()
	pos, vel = interpolate(s.records[nr][ipt[0]-1:], t, h.Step, int(ipt[1]), components(row), int(ipt[2]))
	return pos, vel, nil
}

// PosVel implements the Provider interface.
func (s *Source) PosVel(body Body, epoch float64, override bool) (Sample, error) {
	if body < Mercury || body > Earth {
		return Sample{}, fmt.Errorf("%w: %d", ErrInvalidBody, int(body))
	}
	jd, err := ephemerisJD(s.conv, epoch, override)
	if err != nil {
		return Sample{}, err
	}
	var pos, vel []float64
	switch body {
	case Earth, Moon:
		emb, embV, err := s.evaluate(int(EarthMoonBarycenter), jd)
		if err != nil {
			return Sample{}, err
		}
		moon, moonV, err := s.evaluate(int(Moon), jd)
		if err != nil {
			return Sample{}, err
		}
		pos, vel = make([]float64, 3), make([]float64, 3)
		for i := 0; i < 3; i++ {
			pos[i] = emb[i] - moon[i]/(1+s.header.EMRAT)
			vel[i] = embV[i] - moonV[i]/(1+s.header.EMRAT)
			if body == Moon {
				pos[i] += moon[i]
				vel[i] += moonV[i]
			}
		}
	default:
		if pos, vel, err = s.evaluate(int(body), jd); err != nil {
			return Sample{}, err
		}
	}
	var sample Sample
	for i := 0; i < 3; i++ {
		sample.Position[i] = pos[i]
		sample.Velocity[i] = vel[i] / timesys.SecondsPerDay
	}
	return sample, nil
}

// AnglesAndRates returns the lunar libration angles (rad) and their rates (rad/day).
func (s *Source) AnglesAndRates(epoch float64, override bool) (angles, rates [3]float64, err error) {
	jd, err := ephemerisJD(s.conv, epoch, override)
	if err != nil {
		return
	}
	pos, vel, err := s.evaluate(librationRow, jd)
	if err != nil {
		return
	}
	copy(angles[:], pos)
	copy(rates[:], vel)
	return
}

// Nutations returns the nutation in longitude and in obliquity (rad).
func (s *Source) Nutations(epoch float64, override bool) (dPsi, dEps float64, err error) {
	jd, err := ephemerisJD(s.conv, epoch, override)
	if err != nil {
		return
	}
	pos, _, err := s.evaluate(nutationRow, jd)
	if err != nil {
		return
	}
	return pos[0], pos[1], nil
}
