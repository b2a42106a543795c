package tle

import (
	"math"
	"testing"
)

const issLine1 = "1 25544U 98067A   21274.51782528  .00001303  00000-0  32123-4 0  9990"
const issLine2 = "2 25544  51.6455 274.6693 0004367 300.5264 149.2204 15.48678851301201"

func TestParseISSExample(t *testing.T) {
	tl, err := Parse(issLine1, issLine2)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tl.EpochYear != 2021 {
		t.Errorf("EpochYear = %d, want 2021", tl.EpochYear)
	}
	if math.Abs(tl.EpochDayOfYear-274.51782528) > 1e-6 {
		t.Errorf("EpochDayOfYear = %v, want 274.51782528", tl.EpochDayOfYear)
	}
	if math.Abs(tl.InclinationDeg-51.6455) > 1e-4 {
		t.Errorf("InclinationDeg = %v, want 51.6455", tl.InclinationDeg)
	}
	if math.Abs(tl.Eccentricity-0.0004367) > 1e-8 {
		t.Errorf("Eccentricity = %v, want 0.0004367", tl.Eccentricity)
	}
	if math.Abs(tl.MeanMotionRevPerDay-15.48678851) > 1e-6 {
		t.Errorf("MeanMotionRevPerDay = %v, want 15.48678851", tl.MeanMotionRevPerDay)
	}
	if math.Abs(tl.BStar-3.2123e-5) > 1e-9 {
		t.Errorf("BStar = %v, want 3.2123e-5", tl.BStar)
	}
}

func TestParse2DigitYearPivot(t *testing.T) {
	// Year "56" -> 2056; year "57" -> 1957, per spec.md section 6. The
	// epoch-year field occupies columns 19-20 (0-indexed [18:20]).
	line1Recent := issLine1[:18] + "56" + issLine1[20:]
	tlRecent, err := Parse(line1Recent, issLine2)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tlRecent.EpochYear != 2056 {
		t.Errorf("year 56 -> %d, want 2056", tlRecent.EpochYear)
	}

	line1Old := issLine1[:18] + "57" + issLine1[20:]
	tlOld, err := Parse(line1Old, issLine2)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tlOld.EpochYear != 1957 {
		t.Errorf("year 57 -> %d, want 1957", tlOld.EpochYear)
	}
}

func TestParseRejectsShortLine(t *testing.T) {
	if _, err := Parse("1 25544U", issLine2); err == nil {
		t.Error("expected error for short line1")
	}
}
