package force

import "github.com/anupshinde/eomgo/timescale"

// solarPressureAtAUSI is the solar radiation pressure at one AU, N/m^2
// (equivalently kg/(m*s^2)), the standard constant used in spec.md section
// 4.9.4's spherical cannonball SRP model.
const solarPressureAtAUSI = 4.560e-6

// solarPressureAtAUDU converts solarPressureAtAUSI to canonical DU/TU^2
// units so SRPAcceleration can work entirely in DU/TU, matching the rest
// of this package and twobody/elements.
var solarPressureAtAUDU = solarPressureAtAUSI * timescale.SecPerTU * timescale.SecPerTU / (timescale.EarthRadiusKm * 1000.0)

// SRPAcceleration returns the solar-radiation-pressure acceleration
// (DU/TU^2) on a satellite at geocentric position rSat (DU) given the
// Sun's geocentric position rSun (DU) and the spacecraft's Cr*(A/m) term
// (m^2/kg), per spec.md section 4.9.4. No eclipse/shadow model is applied,
// matching the spec's stated non-goal.
func SRPAcceleration(rSat, rSun [3]float64, crAreaPerMass float64) [3]float64 {
	d := sub3(rSat, rSun)
	dMag := length3(d)
	if dMag == 0 {
		return [3]float64{}
	}
	scale := -crAreaPerMass * solarPressureAtAUDU * (auInDU * auInDU) / (dMag * dMag * dMag)
	return [3]float64{scale * d[0], scale * d[1], scale * d[2]}
}

// earthAngularVelocityMagnitude is Earth's mean rotation rate, rad/TU,
// used by EquationsOfMotion's Coriolis/centrifugal correction.
func earthAngularVelocityMagnitude(secPerTU float64) float64 {
	const earthRotationRateRadPerSec = 7.292115146706979e-5
	return earthRotationRateRadPerSec * secPerTU
}

func cross3(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}
