// Package eop reads and serves IERS Earth-orientation parameter records
// (finals2000A.all.csv), per spec.md section 6.
package eop

import (
	"bufio"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Record is a raw daily Earth-orientation record.
type Record struct {
	MJD    float64 // Modified Julian Day
	XPole  float64 // arcsec
	YPole  float64 // arcsec
	UT1UTC float64 // seconds
	LOD    float64 // milliseconds
	DX     float64 // milliarcsec, celestial pole offset
	DY     float64 // milliarcsec, celestial pole offset
}

// System holds an ordered sequence of Records covering a requested span
// and serves interpolated lookups by MJD.
type System struct {
	records []Record
}

// requiredColumns are matched against the CSV header row by name.
var requiredColumns = []string{"MJD", "x_pole", "y_pole", "UT1-UTC", "LOD", "dX", "dY"}

// Load opens path, parses a semicolon-separated finals2000A.all.csv style
// file with a header row, and closes the file before returning. The file
// handle never outlives this call.
func Load(path string) (*System, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "eop: open %s", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		return nil, errors.Errorf("eop: %s: empty file", path)
	}
	header := strings.Split(scanner.Text(), ";")
	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[strings.TrimSpace(h)] = i
	}
	for _, want := range requiredColumns {
		if _, ok := colIdx[want]; !ok {
			return nil, errors.Errorf("eop: %s: missing required column %q", path, want)
		}
	}

	var recs []Record
	lineNo := 1
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, ";")
		rec, err := parseRecord(fields, colIdx)
		if err != nil {
			return nil, errors.Wrapf(err, "eop: %s: line %d", path, lineNo)
		}
		recs = append(recs, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "eop: %s: read error", path)
	}

	sort.Slice(recs, func(i, j int) bool { return recs[i].MJD < recs[j].MJD })
	return &System{records: recs}, nil
}

func parseRecord(fields []string, colIdx map[string]int) (Record, error) {
	get := func(name string) (float64, error) {
		idx := colIdx[name]
		if idx >= len(fields) {
			return 0, errors.Errorf("field %q out of range", name)
		}
		s := strings.TrimSpace(fields[idx])
		if s == "" {
			return 0, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "field %q = %q", name, s)
		}
		return v, nil
	}

	var rec Record
	var err error
	if rec.MJD, err = get("MJD"); err != nil {
		return rec, err
	}
	if rec.XPole, err = get("x_pole"); err != nil {
		return rec, err
	}
	if rec.YPole, err = get("y_pole"); err != nil {
		return rec, err
	}
	if rec.UT1UTC, err = get("UT1-UTC"); err != nil {
		return rec, err
	}
	if rec.LOD, err = get("LOD"); err != nil {
		return rec, err
	}
	if rec.DX, err = get("dX"); err != nil {
		return rec, err
	}
	if rec.DY, err = get("dY"); err != nil {
		return rec, err
	}
	return rec, nil
}

// At returns the EOP record interpolated (linearly) to the given MJD. If
// mjd lies outside the loaded span the nearest endpoint record is
// returned unchanged, with no extrapolation (callers
// relying on arbitrary time queries should pad the loaded span, per
// spec.md section 6: "pads one day before start and one day after stop").
func (s *System) At(mjd float64) Record {
	if len(s.records) == 0 {
		return Record{MJD: mjd}
	}
	if mjd <= s.records[0].MJD {
		return s.records[0]
	}
	last := s.records[len(s.records)-1]
	if mjd >= last.MJD {
		return last
	}
	i := sort.Search(len(s.records), func(i int) bool { return s.records[i].MJD >= mjd })
	r1 := s.records[i]
	r0 := s.records[i-1]
	frac := (mjd - r0.MJD) / (r1.MJD - r0.MJD)
	lerp := func(a, b float64) float64 { return a + frac*(b-a) }
	return Record{
		MJD:    mjd,
		XPole:  lerp(r0.XPole, r1.XPole),
		YPole:  lerp(r0.YPole, r1.YPole),
		UT1UTC: lerp(r0.UT1UTC, r1.UT1UTC),
		LOD:    lerp(r0.LOD, r1.LOD),
		DX:     lerp(r0.DX, r1.DX),
		DY:     lerp(r0.DY, r1.DY),
	}
}

// Span returns the first and last MJD covered by the loaded series.
func (s *System) Span() (first, last float64) {
	if len(s.records) == 0 {
		return 0, 0
	}
	return s.records[0].MJD, s.records[len(s.records)-1].MJD
}

// Empty reports whether no records were loaded; a zero-valued System (no
// EOP file available) serves zero UT1-UTC/LOD/dX/dY everywhere, matching
// spec.md section 3's "zero otherwise" fallback.
func (s *System) Empty() bool { return len(s.records) == 0 }
