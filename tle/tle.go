// Package tle parses two-line element sets per spec.md section 6's column
// contract (designator, epoch, mean-motion derivatives, B*, inclination,
// RAAN, eccentricity, argument of perigee, mean anomaly, mean motion).
package tle

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// TLE holds a parsed two-line element set.
type TLE struct {
	Designator        string
	EpochYear         int // 4-digit
	EpochDayOfYear    float64
	MeanMotionDot     float64 // rev/day^2
	MeanMotionDotDot  float64 // rev/day^3
	BStar             float64
	InclinationDeg    float64
	RAANDeg           float64
	Eccentricity      float64
	ArgPerigeeDeg     float64
	MeanAnomalyDeg    float64
	MeanMotionRevPerDay float64
	Line1, Line2      string
}

const minLineLen = 63

// Parse parses the two data lines of a TLE (without any leading name
// line), per spec.md section 6: lines shorter than 63 characters are
// rejected, the epoch year uses the standard 2-digit pivot (<57 ->
// 2000+y, else 1900+y), and the eccentricity field's implicit decimal
// point is restored.
func Parse(line1, line2 string) (TLE, error) {
	if len(line1) < minLineLen {
		return TLE{}, errors.Errorf("tle: line 1 too short (%d chars, need >= %d)", len(line1), minLineLen)
	}
	if len(line2) < minLineLen {
		return TLE{}, errors.Errorf("tle: line 2 too short (%d chars, need >= %d)", len(line2), minLineLen)
	}

	t := TLE{Line1: line1, Line2: line2}
	t.Designator = strings.TrimSpace(line1[2:7])

	yy, err := strconv.Atoi(strings.TrimSpace(line1[18:20]))
	if err != nil {
		return TLE{}, errors.Wrap(err, "tle: epoch year (line1 cols 19-20)")
	}
	if yy < 57 {
		t.EpochYear = 2000 + yy
	} else {
		t.EpochYear = 1900 + yy
	}

	t.EpochDayOfYear, err = strconv.ParseFloat(strings.TrimSpace(line1[20:32]), 64)
	if err != nil {
		return TLE{}, errors.Wrap(err, "tle: epoch day-of-year (line1 cols 21-32)")
	}

	t.MeanMotionDot, err = strconv.ParseFloat(strings.TrimSpace(line1[33:43]), 64)
	if err != nil {
		return TLE{}, errors.Wrap(err, "tle: mean motion dot (line1 cols 34-43)")
	}

	t.MeanMotionDotDot, err = parseImplicitDecimalExp(line1[44:52])
	if err != nil {
		return TLE{}, errors.Wrap(err, "tle: mean motion dot-dot (line1 cols 45-52)")
	}

	t.BStar, err = parseImplicitDecimalExp(line1[53:61])
	if err != nil {
		return TLE{}, errors.Wrap(err, "tle: B* (line1 cols 54-61)")
	}

	t.InclinationDeg, err = strconv.ParseFloat(strings.TrimSpace(line2[8:16]), 64)
	if err != nil {
		return TLE{}, errors.Wrap(err, "tle: inclination (line2 cols 9-16)")
	}
	t.RAANDeg, err = strconv.ParseFloat(strings.TrimSpace(line2[17:25]), 64)
	if err != nil {
		return TLE{}, errors.Wrap(err, "tle: RAAN (line2 cols 18-25)")
	}
	eccStr := "0." + strings.TrimSpace(line2[26:33])
	t.Eccentricity, err = strconv.ParseFloat(eccStr, 64)
	if err != nil {
		return TLE{}, errors.Wrap(err, "tle: eccentricity (line2 cols 27-33)")
	}
	t.ArgPerigeeDeg, err = strconv.ParseFloat(strings.TrimSpace(line2[34:42]), 64)
	if err != nil {
		return TLE{}, errors.Wrap(err, "tle: argument of perigee (line2 cols 35-42)")
	}
	t.MeanAnomalyDeg, err = strconv.ParseFloat(strings.TrimSpace(line2[43:51]), 64)
	if err != nil {
		return TLE{}, errors.Wrap(err, "tle: mean anomaly (line2 cols 44-51)")
	}
	t.MeanMotionRevPerDay, err = strconv.ParseFloat(strings.TrimSpace(line2[52:63]), 64)
	if err != nil {
		return TLE{}, errors.Wrap(err, "tle: mean motion (line2 cols 53-63)")
	}

	return t, nil
}

// parseImplicitDecimalExp parses the TLE packed-exponent fields used for
// mean-motion second derivative and B*, of the form "[ ][-]DDDDD[-+]D"
// meaning "0.DDDDD" times 10 to the trailing signed exponent.
func parseImplicitDecimalExp(field string) (float64, error) {
	s := strings.TrimSpace(field)
	if s == "" {
		return 0, nil
	}
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	} else if s[0] == '+' {
		s = s[1:]
	}
	if len(s) < 2 {
		return 0, errors.Errorf("malformed packed field %q", field)
	}
	mantissaStr := s[:len(s)-2]
	expStr := s[len(s)-2:]
	mantissa, err := strconv.ParseFloat("0."+mantissaStr, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "mantissa %q", mantissaStr)
	}
	exp, err := strconv.Atoi(expStr)
	if err != nil {
		return 0, errors.Wrapf(err, "exponent %q", expStr)
	}
	v := mantissa * pow10(exp)
	if neg {
		v = -v
	}
	return v, nil
}

func pow10(n int) float64 {
	neg := n < 0
	if neg {
		n = -n
	}
	r := 1.0
	for i := 0; i < n; i++ {
		r *= 10.0
	}
	if neg {
		return 1.0 / r
	}
	return r
}
