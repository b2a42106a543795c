package integrate

import (
	"math"
	"testing"
)

const muEarth = 1.0

// twoBodyDeriv is a simple Kepler-problem Deriv for exercising the
// integrators without pulling in the force package.
func twoBodyDeriv(_ float64, x []float64, _ EvalMode) ([]float64, error) {
	r := [3]float64{x[0], x[1], x[2]}
	v := [3]float64{x[3], x[4], x[5]}
	rmag := length(r)
	scale := -muEarth / (rmag * rmag * rmag)
	return []float64{v[0], v[1], v[2], scale * r[0], scale * r[1], scale * r[2]}, nil
}

func circularState() []float64 {
	r0 := 1.3
	v0 := math.Sqrt(muEarth / r0)
	return []float64{r0, 0, 0, 0, v0, 0}
}

func TestRK4StepPreservesCircularOrbitRadius(t *testing.T) {
	x := circularState()
	jd := 2459000.5
	dtTU := 0.01
	for i := 0; i < 200; i++ {
		var err error
		jd, x, _, err = RK4Step(twoBodyDeriv, jd, dtTU, x, Predictor)
		if err != nil {
			t.Fatalf("RK4Step: %v", err)
		}
	}
	rmag := math.Sqrt(x[0]*x[0] + x[1]*x[1] + x[2]*x[2])
	if math.Abs(rmag-1.3) > 1e-4 {
		t.Errorf("radius after 200 RK4 steps = %v, want ~1.3", rmag)
	}
}

func TestRK4StepZeroDtReturnsDerivativeOnly(t *testing.T) {
	x := circularState()
	tNew, xNew, dx, err := RK4Step(twoBodyDeriv, 2459000.5, 0, x, Predictor)
	if err != nil {
		t.Fatalf("RK4Step: %v", err)
	}
	if tNew != 2459000.5 {
		t.Errorf("time advanced on zero-dt step")
	}
	for i := range xNew {
		if xNew[i] != x[i] {
			t.Errorf("state changed on zero-dt step at index %d", i)
		}
	}
	if dx[3] == 0 {
		t.Errorf("expected nonzero acceleration derivative")
	}
}

func TestAdams4PreservesCircularOrbitRadius(t *testing.T) {
	x := circularState()
	a, err := NewAdams4(twoBodyDeriv, 0.01, 2459000.5, x)
	if err != nil {
		t.Fatalf("NewAdams4: %v", err)
	}
	for i := 0; i < 500; i++ {
		if _, err := a.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
	got := a.X()
	rmag := math.Sqrt(got[0]*got[0] + got[1]*got[1] + got[2]*got[2])
	if math.Abs(rmag-1.3) > 1e-3 {
		t.Errorf("radius after Adams4 steps = %v, want ~1.3", rmag)
	}
}

func TestRegularizeRoundTripsCircularOrbit(t *testing.T) {
	r := [3]float64{1.3, 0, 0}
	v := [3]float64{0, math.Sqrt(muEarth / 1.3), 0}
	rmag := length(r)
	accel := [3]float64{-muEarth / (rmag * rmag * rmag) * r[0], 0, 0}

	reg := NewRegularize(r, v, accel, muEarth)
	if reg.DsMax() <= 0 {
		t.Fatalf("DsMax = %v, want positive", reg.DsMax())
	}

	y, dy := reg.Y(), reg.Ydot()
	reg.SetRegularizedState(y, dy)

	gotR := reg.R()
	for i := 0; i < 3; i++ {
		if math.Abs(gotR[i]-r[i]) > 1e-9 {
			t.Errorf("R()[%d] after round trip = %v, want %v", i, gotR[i], r[i])
		}
	}
}

func TestRegularizeCircularOrbitHasZeroEccentricityStepBound(t *testing.T) {
	r := [3]float64{1.0, 0, 0}
	v := [3]float64{0, math.Sqrt(muEarth), 0}
	reg := NewRegularize(r, v, [3]float64{-muEarth, 0, 0}, muEarth)
	// For e=0 the step bound reduces to 2*pi/120.
	want := 2 * math.Pi / 120.0
	if math.Abs(reg.DsMax()-want) > 1e-3 {
		t.Errorf("DsMax for circular orbit = %v, want ~%v", reg.DsMax(), want)
	}
}
