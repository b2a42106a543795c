package elements

import (
	"math"
	"testing"
)

const muEarth = 1.0 // DU^3/TU^2, canonical units

func TestFromCartesianInclinedOrbit(t *testing.T) {
	a := 1.3
	e := 0.1
	iRad := 30.0 * math.Pi / 180.0
	raan := 45.0 * math.Pi / 180.0
	argp := 60.0 * math.Pi / 180.0
	mRad := 80.0 * math.Pi / 180.0

	want, err := NewKeplerian(a, e, iRad, raan, argp, mRad, muEarth)
	if err != nil {
		t.Fatalf("NewKeplerian: %v", err)
	}
	r, v := want.ToCartesian()

	got, err := FromCartesian(r, v, muEarth)
	if err != nil {
		t.Fatalf("FromCartesian: %v", err)
	}

	if math.Abs(got.SemiMajorAxis-a) > 1e-8 {
		t.Errorf("a = %v, want %v", got.SemiMajorAxis, a)
	}
	if math.Abs(got.Eccentricity-e) > 1e-8 {
		t.Errorf("e = %v, want %v", got.Eccentricity, e)
	}
	if math.Abs(got.Inclination-iRad) > 1e-8 {
		t.Errorf("i = %v, want %v", got.Inclination, iRad)
	}
}

func TestRoundTripCartesianToElementsToCartesian(t *testing.T) {
	// 500 km circular-ish LEO-like state in DU/TU, perturbed off pure
	// circular so the eccentricity/inclination invariants hold.
	r := [3]float64{1.0784, 0.05, 0.02}
	v := [3]float64{-0.01, 0.94, 0.08}

	el, err := FromCartesian(r, v, muEarth)
	if err != nil {
		t.Fatalf("FromCartesian: %v", err)
	}
	rOut, vOut := el.ToCartesian()

	for i := 0; i < 3; i++ {
		if math.Abs(rOut[i]-r[i]) > 1e-8 {
			t.Errorf("r[%d] = %v, want %v", i, rOut[i], r[i])
		}
		if math.Abs(vOut[i]-v[i]) > 1e-6 {
			t.Errorf("v[%d] = %v, want %v", i, vOut[i], v[i])
		}
	}
}

func TestNewKeplerianRejectsSubSurfacePerigee(t *testing.T) {
	// a*(1-e) < 1 DU.
	_, err := NewKeplerian(0.9, 0.05, 0.2, 0, 0, 0, muEarth)
	if err == nil {
		t.Error("expected error for sub-surface perigee")
	}
}

func TestNewKeplerianRejectsNearCircular(t *testing.T) {
	_, err := NewKeplerian(1.3, 1e-8, 0.2, 0, 0, 0, muEarth)
	if err == nil {
		t.Error("expected error for near-zero eccentricity")
	}
}

func TestNewKeplerianRejectsNearEquatorial(t *testing.T) {
	_, err := NewKeplerian(1.3, 0.05, 1e-8, 0, 0, 0, muEarth)
	if err == nil {
		t.Error("expected error for near-zero inclination")
	}
}

func TestNewKeplerianRejectsNonElliptic(t *testing.T) {
	_, err := NewKeplerian(-1.0, 0.05, 0.2, 0, 0, 0, muEarth)
	if err == nil {
		t.Error("expected error for non-elliptic (negative semi-major axis)")
	}
}

func TestSolveKeplerConvergesAcrossEccentricities(t *testing.T) {
	for _, e := range []float64{0.01, 0.1, 0.3, 0.6, 0.9} {
		for _, m := range []float64{0.1, 1.0, 2.5, 4.0, 6.0} {
			E := SolveKepler(m, e)
			residual := E - e*math.Sin(E) - math.Mod(m+2*math.Pi, 2*math.Pi)
			// residual may be off by a full turn; wrap into [-pi, pi].
			residual = math.Mod(residual+3*math.Pi, 2*math.Pi) - math.Pi
			if math.Abs(residual) > 1e-8 {
				t.Errorf("SolveKepler(M=%v, e=%v): residual = %v", m, e, residual)
			}
		}
	}
}
