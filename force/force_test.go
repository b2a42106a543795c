package force

import (
	"math"
	"testing"

	"github.com/anupshinde/eomgo/frame"
)

const muEarth = 1.0

func TestGeopotentialMatchesTwoBodyWithZeroHarmonics(t *testing.T) {
	geo, err := NewGeopotential(0, 0, muEarth, 1.0)
	if err != nil {
		t.Fatalf("NewGeopotential: %v", err)
	}
	r := [3]float64{1.2, 0.3, 0.1}
	a := geo.Acceleration(r, Predictor)

	rmag := math.Sqrt(r[0]*r[0] + r[1]*r[1] + r[2]*r[2])
	want := muEarth / (rmag * rmag * rmag)
	for i := 0; i < 3; i++ {
		wantComp := -want * r[i]
		if math.Abs(a[i]-wantComp) > 1e-9 {
			t.Errorf("a[%d] = %v, want %v (pure two-body)", i, a[i], wantComp)
		}
	}
}

func TestGeopotentialJ2PerturbsOffAxisState(t *testing.T) {
	geo, err := NewGeopotential(2, 0, muEarth, 1.0)
	if err != nil {
		t.Fatalf("NewGeopotential: %v", err)
	}
	r := [3]float64{0, 0, 1.2} // polar position: J2 should alter the pure two-body term
	a := geo.Acceleration(r, Predictor)

	rmag := 1.2
	twoBody := -muEarth / (rmag * rmag) // along -z
	if math.Abs(a[2]-twoBody) < 1e-6 {
		t.Errorf("J2 term had no measurable effect on polar acceleration: a_z=%v, two-body=%v", a[2], twoBody)
	}
}

func TestGeopotentialCorrectorReusesCache(t *testing.T) {
	geo, err := NewGeopotential(4, 0, muEarth, 1.0)
	if err != nil {
		t.Fatalf("NewGeopotential: %v", err)
	}
	r := [3]float64{1.1, 0.2, 0.3}
	aPred := geo.Acceleration(r, Predictor)
	aCorr := geo.Acceleration(r, Corrector)
	for i := 0; i < 3; i++ {
		if math.Abs(aPred[i]-aCorr[i]) > 1e-12 {
			t.Errorf("corrector diverged from predictor at identical position: %v vs %v", aPred[i], aCorr[i])
		}
	}
}

func TestThirdBodyAccelerationVanishesAtInfiniteDistance(t *testing.T) {
	r := [3]float64{1.1, 0, 0}
	rBody := [3]float64{1e9, 0, 0}
	a := ThirdBodyAcceleration(r, rBody, 1e-6)
	for i := 0; i < 3; i++ {
		if math.Abs(a[i]) > 1e-12 {
			t.Errorf("third-body accel at huge distance = %v, want ~0", a[i])
		}
	}
}

func TestSunPositionLowPrecisionIsRoughlyOneAU(t *testing.T) {
	r := SunPositionLowPrecision(0.25) // T=0.25 centuries after J2000
	rmag := length3(r)
	if rmag < 0.98*auInDU || rmag > 1.02*auInDU {
		t.Errorf("|sun pos| = %v DU, want ~%v DU (1 AU)", rmag, auInDU)
	}
}

func TestMoonPositionLowPrecisionIsRoughlyLunarDistance(t *testing.T) {
	r := MoonPositionLowPrecision(0.1)
	rmag := length3(r) * 6378.137
	if rmag < 356000 || rmag > 407000 {
		t.Errorf("|moon pos| = %v km, want within perigee/apogee bounds", rmag)
	}
}

func TestSRPAccelerationPointsAwayFromSun(t *testing.T) {
	rSun := [3]float64{-auInDU, 0, 0}
	rSat := [3]float64{0, 0, 0}
	a := SRPAcceleration(rSat, rSun, 0.02)
	if a[0] <= 0 {
		t.Errorf("SRP acceleration a_x = %v, want positive (pushed away from sun along -x)", a[0])
	}
}

func TestEquationsOfMotionTwoBodyOnlyMatchesKeplerAcceleration(t *testing.T) {
	geo, err := NewGeopotential(0, 0, muEarth, 1.0)
	if err != nil {
		t.Fatalf("NewGeopotential: %v", err)
	}
	ecfEci, err := frame.NewEcfEciSystem(2459000.5, 2459000.6, 0, nil)
	if err != nil {
		t.Fatalf("NewEcfEciSystem: %v", err)
	}
	eom := NewEquationsOfMotion(geo, ecfEci, Spacecraft{}, 0, 0)

	r := [3]float64{1.3, 0.2, 0.1}
	v := [3]float64{0.01, 0.8, 0.05}
	drdt, dvdt, err := eom.Derivative(2459000.55, r, v, Predictor)
	if err != nil {
		t.Fatalf("Derivative: %v", err)
	}
	for i := 0; i < 3; i++ {
		if drdt[i] != v[i] {
			t.Errorf("drdt[%d] = %v, want v[%d] = %v", i, drdt[i], i, v[i])
		}
	}
	rmag := math.Sqrt(r[0]*r[0] + r[1]*r[1] + r[2]*r[2])
	wantMag := muEarth / (rmag * rmag)
	gotMag := math.Sqrt(dvdt[0]*dvdt[0] + dvdt[1]*dvdt[1] + dvdt[2]*dvdt[2])
	// The Earth-fixed Coriolis/centrifugal correction is a small addition
	// on top of the dominant two-body term, not an exact match.
	if math.Abs(gotMag-wantMag) > 0.05*wantMag {
		t.Errorf("|dvdt| = %v, want within 5%% of two-body %v", gotMag, wantMag)
	}
}
