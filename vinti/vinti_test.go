package vinti

import (
	"math"
	"testing"
)

const muEarth = 1.0
const j2 = 1.08262668e-3

func TestNewRejectsForbiddenZone(t *testing.T) {
	// Perigee at the surface -- well inside the forbidden zone.
	r0 := [3]float64{1.0, 0, 0}
	v0 := [3]float64{0, 0.95, 0.3}
	if _, err := New(r0, v0, muEarth, j2, 0, J2Only); err == nil {
		t.Error("expected forbidden-zone rejection for sub-210km perigee")
	}
}

func TestNewAcceptsLEOState(t *testing.T) {
	r0 := [3]float64{1.0977, 0, 0} // ~700 km altitude
	vCirc := math.Sqrt(muEarth / r0[0])
	v0 := [3]float64{0, vCirc * math.Cos(0.3), vCirc * math.Sin(0.3)}
	if _, err := New(r0, v0, muEarth, j2, 0, J2Only); err != nil {
		t.Fatalf("unexpected rejection of valid LEO state: %v", err)
	}
}

func TestPropagateStaysNearInitialRadiusForNearCircularOrbit(t *testing.T) {
	r0 := [3]float64{1.0977, 0, 0}
	vCirc := math.Sqrt(muEarth / r0[0])
	v0 := [3]float64{0.01, vCirc * math.Cos(0.3), vCirc * math.Sin(0.3)}

	p, err := New(r0, v0, muEarth, j2, 0, J2Only)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	period := 2 * math.Pi * math.Sqrt(r0[0]*r0[0]*r0[0]/muEarth)
	r, _ := p.Propagate(period)
	gotR := math.Sqrt(r[0]*r[0] + r[1]*r[1] + r[2]*r[2])

	if math.Abs(gotR-r0[0]) > 0.05*r0[0] {
		t.Errorf("radius after one period = %v, want close to %v", gotR, r0[0])
	}
}

func TestPropagateJ2OnlyZeroesJ3Term(t *testing.T) {
	r0 := [3]float64{1.0977, 0.1, 0.05}
	v0 := [3]float64{-0.01, 0.9, 0.1}

	p, err := New(r0, v0, muEarth, j2, 2.53e-6, J2Only)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.j3 != 0 {
		t.Errorf("J2Only model: j3 = %v, want 0", p.j3)
	}
}
