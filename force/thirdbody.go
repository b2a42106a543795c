package force

import "math"

const deg2rad = math.Pi / 180.0
const auInDU = 149597870.7 / 6378.137

// SunPositionLowPrecision returns the Sun's geocentric position (DU, mean
// equator/equinox of date, accurate to about 0.01 degrees) at Julian
// centuries T (TDB) since J2000, using Meeus's low-precision solar
// ephemeris (Astronomical Algorithms ch. 25), ported in the style of the
// soniakeys/meeus reference series.
func SunPositionLowPrecision(T float64) [3]float64 {
	L0 := 280.46646 + 36000.76983*T + 0.0003032*T*T
	M := (357.52911 + 35999.05029*T - 0.0001537*T*T) * deg2rad
	e := 0.016708634 - 0.000042037*T - 0.0000001267*T*T

	C := (1.914602-0.004817*T-0.000014*T*T)*math.Sin(M) +
		(0.019993-0.000101*T)*math.Sin(2*M) +
		0.000289*math.Sin(3*M)

	trueLonDeg := L0 + C
	trueAnomaly := M + C*deg2rad

	R := 1.000001018 * (1 - e*e) / (1 + e*math.Cos(trueAnomaly)) // AU

	omega := 125.04 - 1934.136*T
	lambda := (trueLonDeg - 0.00569 - 0.00478*math.Sin(omega*deg2rad)) * deg2rad

	eps0 := (23.0 + 26.0/60.0 + 21.448/3600.0) - (46.8150/3600.0)*T
	eps := (eps0 + 0.00256*math.Cos(omega*deg2rad)) * deg2rad

	rAU := R
	x := rAU * math.Cos(lambda)
	y := rAU * math.Sin(lambda) * math.Cos(eps)
	z := rAU * math.Sin(lambda) * math.Sin(eps)

	return [3]float64{x * auInDU, y * auInDU, z * auInDU}
}

// MoonPositionLowPrecision returns the Moon's geocentric position (DU, mean
// equator/equinox of date) at Julian centuries T (TDB) since J2000, using
// Meeus's abbreviated lunar series (Astronomical Algorithms ch. 47), ported
// in the style of soniakeys/meeus's moonposition package. Only the six
// largest longitude terms, the six largest latitude terms and the four
// largest distance terms are summed; each omitted term is up to about 0.06
// degrees in longitude or latitude and up to about 250 km in distance, so
// the result is not arcsecond-accurate.
func MoonPositionLowPrecision(T float64) [3]float64 {
	Lp := 218.3164477 + 481267.88123421*T
	D := (297.8501921 + 445267.1114034*T) * deg2rad
	M := (357.5291092 + 35999.0502909*T) * deg2rad
	Mp := (134.9633964 + 477198.8675055*T) * deg2rad
	F := (93.2720950 + 483202.0175233*T) * deg2rad

	sumL := 6288774*math.Sin(Mp) + 1274027*math.Sin(2*D-Mp) + 658314*math.Sin(2*D) +
		213618*math.Sin(2*Mp) - 185116*math.Sin(M) - 114332*math.Sin(2*F)
	sumB := 5128122*math.Sin(F) + 280602*math.Sin(Mp+F) + 277693*math.Sin(Mp-F) +
		173237*math.Sin(2*D-F) + 55413*math.Sin(2*D-Mp+F) + 46271*math.Sin(2*D-Mp-F)
	sumR := -20905355*math.Cos(Mp) - 3699111*math.Cos(2*D-Mp) - 2955968*math.Cos(2*D) -
		569925*math.Cos(2*Mp)

	lambdaDeg := Lp + sumL/1e6
	betaDeg := sumB / 1e6
	distKm := 385000.56 + sumR/1e3

	lambda := lambdaDeg * deg2rad
	beta := betaDeg * deg2rad

	eps0 := (23.0 + 26.0/60.0 + 21.448/3600.0) * deg2rad

	x := math.Cos(beta) * math.Cos(lambda)
	y := math.Cos(eps0)*math.Cos(beta)*math.Sin(lambda) - math.Sin(eps0)*math.Sin(beta)
	z := math.Sin(eps0)*math.Cos(beta)*math.Sin(lambda) + math.Cos(eps0)*math.Sin(beta)

	const kmPerDU = 6378.137
	distDU := distKm / kmPerDU
	return [3]float64{x * distDU, y * distDU, z * distDU}
}

// ThirdBodyAcceleration returns the perturbing acceleration (DU/TU^2) on a
// satellite at geocentric position r (DU) due to a third body of
// gravitational parameter muBody (DU^3/TU^2) at geocentric position rBody
// (DU), using the canonical point-mass-difference form to reduce
// cancellation, per spec.md section 4.9.3 and spk.go's body-relative
// differencing idiom.
func ThirdBodyAcceleration(r, rBody [3]float64, muBody float64) [3]float64 {
	d := sub3(rBody, r)
	dMag := length3(d)
	bMag := length3(rBody)

	dTerm := 1.0 / (dMag * dMag * dMag)
	bTerm := 1.0 / (bMag * bMag * bMag)

	return [3]float64{
		muBody * (d[0]*dTerm - rBody[0]*bTerm),
		muBody * (d[1]*dTerm - rBody[1]*bTerm),
		muBody * (d[2]*dTerm - rBody[2]*bTerm),
	}
}

func sub3(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func length3(a [3]float64) float64 {
	return math.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])
}
