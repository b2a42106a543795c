package twobody

import (
	"math"
	"testing"
)

const muEarth = 1.0

func TestPropagateCircularOrbitPreservesRadius(t *testing.T) {
	// Circular equatorial orbit at r=1.0977 DU (~7000 km), 10 revolutions.
	r0 := [3]float64{1.0977, 0, 0}
	vCirc := math.Sqrt(muEarth / r0[0])
	v0 := [3]float64{0, vCirc, 0}

	p := New(r0, v0, muEarth)
	period := 2 * math.Pi * math.Sqrt(r0[0]*r0[0]*r0[0]/muEarth)

	r, _ := p.Propagate(10 * period)
	gotR := length(r)
	if math.Abs(gotR-r0[0]) > 1e-9 {
		t.Errorf("radius after 10 orbits = %v, want %v", gotR, r0[0])
	}
}

func TestPropagateConservesEnergyOverTenRevolutions(t *testing.T) {
	r0 := [3]float64{1.1, 0.05, 0.02}
	v0 := [3]float64{-0.02, 0.92, 0.05}
	p := New(r0, v0, muEarth)

	e0 := p.SpecificEnergy(r0, v0)
	el := -muEarth / (2 * e0)
	period := 2 * math.Pi * math.Sqrt(math.Abs(el*el*el)/muEarth)

	r, v := p.Propagate(10 * period)
	e1 := p.SpecificEnergy(r, v)

	if math.Abs(e1-e0) > 1e-9 {
		t.Errorf("energy drift over 10 revolutions = %v, want <= 1e-9", math.Abs(e1-e0))
	}
}

func TestPropagateZeroElapsedTimeIsIdentity(t *testing.T) {
	r0 := [3]float64{1.2, 0.1, -0.05}
	v0 := [3]float64{-0.05, 0.85, 0.1}
	p := New(r0, v0, muEarth)

	r, v := p.Propagate(0)
	for i := 0; i < 3; i++ {
		if math.Abs(r[i]-r0[i]) > 1e-7 {
			t.Errorf("r[%d] at dt=0: got %v, want %v", i, r[i], r0[i])
		}
		if math.Abs(v[i]-v0[i]) > 1e-7 {
			t.Errorf("v[%d] at dt=0: got %v, want %v", i, v[i], v0[i])
		}
	}
}

func TestStumpffSmallZMatchesClosedForm(t *testing.T) {
	for _, z := range []float64{0.0, 0.05, -0.05, 0.1, -0.1} {
		c, s := stumpff(z)
		if math.IsNaN(c) || math.IsNaN(s) {
			t.Errorf("stumpff(%v) produced NaN", z)
		}
	}
}
