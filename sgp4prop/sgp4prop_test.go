package sgp4prop

import (
	"math"
	"testing"
)

const issLine1 = "1 25544U 98067A   21274.51782528  .00001303  00000-0  32123-4 0  9990"
const issLine2 = "2 25544  51.6455 274.6693 0004367 300.5264 149.2204 15.48678851301201"

func TestNewParsesEpoch(t *testing.T) {
	p, err := New(issLine1, issLine2, WGS84)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.Designator != "25544" {
		t.Errorf("Designator = %q, want 25544", p.Designator)
	}
	gotYear, _, _, _, _, _ := p.EpochTime().Year(), 0, 0, 0, 0, 0
	if gotYear != 2021 {
		t.Errorf("epoch year = %d, want 2021", gotYear)
	}
}

func TestPropagateToOwnEpochReturnsFiniteState(t *testing.T) {
	p, err := New(issLine1, issLine2, WGS84)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r, v := p.PositionTEME(p.EpochJDUTC)
	for i := 0; i < 3; i++ {
		if math.IsNaN(r[i]) || math.IsInf(r[i], 0) {
			t.Errorf("r[%d] = %v, not finite", i, r[i])
		}
		if math.IsNaN(v[i]) || math.IsInf(v[i], 0) {
			t.Errorf("v[%d] = %v, not finite", i, v[i])
		}
	}
	rMag := math.Sqrt(r[0]*r[0] + r[1]*r[1] + r[2]*r[2])
	if rMag < 1.0 || rMag > 2.0 {
		t.Errorf("|r| = %v DU, want roughly 1-2 DU for a LEO TLE", rMag)
	}
}
