package force

import (
	"github.com/anupshinde/eomgo/frame"
	"github.com/anupshinde/eomgo/timescale"
)

// Spacecraft holds the body-specific parameters EquationsOfMotion needs
// beyond the state vector itself, per spec.md section 4.9.4.
type Spacecraft struct {
	// CrAreaPerMass is Cr*(A/m), m^2/kg, the SRP reflectivity/ballistic term.
	CrAreaPerMass float64
}

// EquationsOfMotion computes dr/dt, dv/dt in GCRF for numerical
// propagation, per spec.md section 4.9.1: dv/dt = a_grav + a_sun + a_moon +
// a_srp, with the geopotential evaluated in the Earth-fixed frame
// (Coriolis/centrifugal corrected there) before being rotated to inertial.
// Not safe for concurrent use -- it owns a Geopotential instance with a
// predictor/corrector cache, per spec.md section 4.9's Ownership note.
type EquationsOfMotion struct {
	Geo        *Geopotential
	EcfEci     *frame.EcfEciSystem
	Spacecraft Spacecraft

	IncludeSun  bool
	IncludeMoon bool
	IncludeSRP  bool

	muSun, muMoon float64
}

// NewEquationsOfMotion constructs the combined force model. muSun/muMoon
// are the Sun/Moon gravitational parameters in DU^3/TU^2, used only when
// the corresponding Include flag is set.
func NewEquationsOfMotion(geo *Geopotential, ecfEci *frame.EcfEciSystem, sc Spacecraft, muSun, muMoon float64) *EquationsOfMotion {
	return &EquationsOfMotion{
		Geo:        geo,
		EcfEci:     ecfEci,
		Spacecraft: sc,
		muSun:      muSun,
		muMoon:     muMoon,
	}
}

// Derivative returns (v, a) in GCRF at jdUTC given the inertial state
// (r, v) in DU, DU/TU, per spec.md section 4.9.1. mode selects the
// geopotential's predictor/corrector path.
func (eom *EquationsOfMotion) Derivative(jdUTC float64, r, v [3]float64, mode EvalMode) (drdt, dvdt [3]float64, err error) {
	rEcf, vEcf, err := eom.EcfEci.StateToECF(jdUTC, r, v)
	if err != nil {
		return [3]float64{}, [3]float64{}, err
	}

	aGravEcf := eom.Geo.Acceleration(rEcf, mode)

	jdTT := timescale.UTCToTT(jdUTC)
	T := timescale.JulianCenturiesTT(jdTT)
	// LOD's effect on Earth's rotation rate is sub-millisecond/day and is
	// neglected here; EcfEciSystem.StateToECF/StateToICRF apply the
	// LOD-corrected rate for velocity frame transforms.
	omega := earthAngularVelocityMagnitude(timescale.SecPerTU)
	omegaVec := [3]float64{0, 0, omega}

	coriolis := cross3(omegaVec, vEcf)
	coriolis[0] *= 2
	coriolis[1] *= 2
	coriolis[2] *= 2
	centrifugal := cross3(omegaVec, cross3(omegaVec, rEcf))

	aTotalEcf := [3]float64{
		aGravEcf[0] + coriolis[0] + centrifugal[0],
		aGravEcf[1] + coriolis[1] + centrifugal[1],
		aGravEcf[2] + coriolis[2] + centrifugal[2],
	}

	aGravICRF, err := eom.EcfEci.PositionToICRF(jdUTC, aTotalEcf)
	if err != nil {
		return [3]float64{}, [3]float64{}, err
	}

	dvdt = aGravICRF

	if eom.IncludeSun || eom.IncludeMoon || eom.IncludeSRP {
		rSun := SunPositionLowPrecision(T)
		if eom.IncludeSun {
			aSun := ThirdBodyAcceleration(r, rSun, eom.muSun)
			dvdt = add3(dvdt, aSun)
		}
		if eom.IncludeMoon {
			rMoon := MoonPositionLowPrecision(T)
			aMoon := ThirdBodyAcceleration(r, rMoon, eom.muMoon)
			dvdt = add3(dvdt, aMoon)
		}
		if eom.IncludeSRP {
			aSRP := SRPAcceleration(r, rSun, eom.Spacecraft.CrAreaPerMass)
			dvdt = add3(dvdt, aSRP)
		}
	}

	return v, dvdt, nil
}

func add3(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}
