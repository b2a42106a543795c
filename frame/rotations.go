package frame

import "math"

// Angular/series constants and helpers adapted from the teacher's coord
// package (coord.go, nutation.go, frames.go): IAU2000A 30-term nutation,
// IAU2006 precession, ERA/GMST/GAST, and the J2000-ICRS frame bias matrix.
// The full 678+687 term IAU2000A series (coord's NutationFull mode) is not
// reproduced: its coefficient data table (nutation_data.go) is absent from
// the retrieval pack, so only the 30-term standard series this package
// ships with is carried forward.

const (
	deg2rad    = math.Pi / 180.0
	rad2deg    = 180.0 / math.Pi
	arcsec2rad = deg2rad / 3600.0

	tenthUas2Rad = arcsec2rad / 1e7

	j2000JD = 2451545.0

	// WGS84 ellipsoid, shared by the geodetic ground-point solver.
	wgs84A  = 6378.137
	wgs84F  = 1.0 / 298.257223563
	wgs84E2 = wgs84F * (2.0 - wgs84F)
)

// nutationTerm holds one row of the IAU 2000A luni-solar nutation series.
// Units for s, sdot, cp, c, cdot, sp: 0.1 microarcseconds.
type nutationTerm struct {
	nl, nlp, nf, nd, nom int
	s, sdot, cp          float64
	c, cdot, sp          float64
}

// nutationTerms holds the 30 largest IAU 2000A luni-solar terms by |s|
// amplitude (~1 arcsec precision), ported from the teacher's coord.go.
var nutationTerms = []nutationTerm{
	{0, 0, 0, 0, 1, -172064161, -174666, 33386, 92052331, 9086, 15377},
	{0, 0, 2, -2, 2, -13170906, -1675, -13696, 5730336, -3015, -4587},
	{0, 0, 2, 0, 2, -2276413, -234, 2796, 978459, -485, 1374},
	{0, 0, 0, 0, 2, 2074554, 207, -698, -897492, 470, -291},
	{0, 1, 0, 0, 0, 1475877, -3633, 11817, 73871, -184, -1924},
	{1, 0, 0, 0, 0, 711159, 73, -872, -6750, 0, 358},
	{0, 1, 2, -2, 2, -516821, 1226, -524, 224386, -677, -174},
	{0, 0, 2, 0, 1, -387298, -367, 380, 200728, 18, 318},
	{1, 0, 2, 0, 2, -301461, -36, 816, 129025, -63, 367},
	{0, -1, 2, -2, 2, 215829, -494, 111, -95929, 299, 132},
	{-1, 0, 0, 2, 0, 156994, 10, -168, -1235, 0, 82},
	{0, 0, 2, -2, 1, 128227, 137, 181, -68982, -9, 39},
	{-1, 0, 2, 0, 2, 123457, 11, 19, -53311, 32, -4},
	{0, 0, 0, 2, 0, 63384, 11, -150, -1220, 0, 29},
	{1, 0, 0, 0, 1, 63110, 63, 27, -33228, 0, -9},
	{-1, 0, 2, 2, 2, -59641, -11, 149, 25543, -11, 66},
	{-1, 0, 0, 0, 1, -57976, -63, -189, 31429, 0, -75},
	{1, 0, 2, 0, 1, -51613, -42, 129, 26366, 0, 78},
	{-2, 0, 0, 2, 0, -47722, 0, -18, 477, 0, -25},
	{-2, 0, 2, 0, 1, 45893, 50, 31, -24236, -10, 20},
	{0, 0, 2, 2, 2, -38571, -1, 158, 16452, -11, 68},
	{0, -2, 2, -2, 2, 32481, 0, 0, -13870, 0, 0},
	{2, 0, 2, 0, 2, -31046, -1, 131, 13238, -11, 59},
	{2, 0, 0, 0, 0, 29243, 0, -74, -609, 0, 13},
	{1, 0, 2, -2, 2, 28593, 0, -1, -12338, 10, -3},
	{0, 0, 2, 0, 0, 25887, 0, -66, -550, 0, 11},
	{0, 0, -2, 2, 0, 21783, 0, 13, -167, 0, 13},
	{-1, 0, 2, 0, 1, 20441, 21, 10, -10758, 0, -3},
	{0, 2, 0, 0, 0, 16707, -85, -10, 168, -1, 10},
	{0, 2, 2, -2, 2, -15794, 72, -16, 6850, -42, -5},
}

// fundamentalArgs computes the Delaunay arguments (IERS Conventions 2003,
// Simon et al. 1994) for Julian centuries T from J2000 TDB.
func fundamentalArgs(T float64) (l, lp, F, D, om float64) {
	l = (485868.249036 + T*(1717915923.2178+T*(31.8792+T*(0.051635-T*0.00024470)))) * arcsec2rad
	lp = (1287104.79305 + T*(129596581.0481+T*(-0.5532+T*(0.000136+T*0.00001149)))) * arcsec2rad
	F = (335779.526232 + T*(1739527262.8478+T*(-12.7512+T*(-0.001037+T*0.00000417)))) * arcsec2rad
	D = (1072260.70369 + T*(1602961601.2090+T*(-6.3706+T*(0.006593-T*0.00003169)))) * arcsec2rad
	om = (450160.398036 + T*(-6962890.5431+T*(7.4722+T*(0.007702-T*0.00005939)))) * arcsec2rad
	return
}

func meanObliquity(T float64) float64 {
	return (84381.448 + T*(-46.8150+T*(-0.00059+T*0.001813))) * arcsec2rad
}

func nutationAngles(T float64) (dpsiRad, depsRad float64) {
	l, lp, F, D, om := fundamentalArgs(T)
	var dpsi, deps float64
	for i := range nutationTerms {
		t := &nutationTerms[i]
		arg := float64(t.nl)*l + float64(t.nlp)*lp + float64(t.nf)*F +
			float64(t.nd)*D + float64(t.nom)*om
		sinArg, cosArg := math.Sincos(arg)
		dpsi += (t.s+t.sdot*T)*sinArg + t.cp*cosArg
		deps += (t.c+t.cdot*T)*cosArg + t.sp*sinArg
	}
	return dpsi * tenthUas2Rad, deps * tenthUas2Rad
}

// precessionMatrix returns P, the IAU2006 precession matrix carrying a
// vector from J2000 to the mean equator/equinox of date.
func precessionMatrix(T float64) [3][3]float64 {
	zetaA := (2.650545 + 2306.083227*T + 0.2988499*T*T +
		0.01801828*T*T*T - 0.000005971*T*T*T*T) * arcsec2rad
	zA := (-2.650545 + 2306.077181*T + 1.0927348*T*T +
		0.01826837*T*T*T - 0.000028596*T*T*T*T) * arcsec2rad
	thetaA := (2004.191903*T - 0.4294934*T*T -
		0.04182264*T*T*T - 0.000007089*T*T*T*T) * arcsec2rad

	cz, sz := math.Cos(zetaA), math.Sin(zetaA)
	czA, szA := math.Cos(zA), math.Sin(zA)
	ct, st := math.Cos(thetaA), math.Sin(thetaA)

	return [3][3]float64{
		{czA*ct*cz - szA*sz, -czA*ct*sz - szA*cz, -czA * st},
		{szA*ct*cz + czA*sz, -szA*ct*sz + czA*cz, -szA * st},
		{st * cz, -st * sz, ct},
	}
}

// nutationMatrix returns N, carrying a vector from the mean equator/equinox
// of date to the true equator/equinox of date.
func nutationMatrix(dpsiRad, depsRad, epsMRad float64) [3][3]float64 {
	epsTRad := epsMRad + depsRad
	sdp, cdp := math.Sincos(dpsiRad)
	sem, cem := math.Sincos(epsMRad)
	set, cet := math.Sincos(epsTRad)
	return [3][3]float64{
		{cdp, -sdp * cem, -sdp * sem},
		{sdp * cet, cdp*cem*cet + sem*set, cdp*sem*cet - cem*set},
		{sdp * set, cdp*cem*set - sem*cet, cdp*sem*set + cem*cet},
	}
}

// EarthRotationAngle returns the IAU 2000 Earth rotation angle (degrees)
// for the given UT1 Julian date.
func EarthRotationAngle(jdUT1 float64) float64 {
	th := 0.7790572732640 + 0.00273781191135448*(jdUT1-j2000JD)
	era := math.Mod(th, 1.0) + math.Mod(jdUT1, 1.0)
	era = math.Mod(era, 1.0)
	if era < 0 {
		era += 1.0
	}
	return era * 360.0
}

// GMST returns Greenwich Mean Sidereal Time (degrees) for a UT1 Julian date.
func GMST(jdUT1 float64) float64 {
	du := jdUT1 - j2000JD
	T := du / 36525.0
	gmst := 280.46061837 + 360.98564736629*du + 0.000387933*T*T - T*T*T/38710000.0
	return math.Mod(gmst, 360.0)
}

// GAST returns Greenwich Apparent Sidereal Time (degrees) for a UT1 Julian
// date, including the equation-of-equinoxes nutation correction.
func GAST(jdUT1 float64) float64 {
	gmst := GMST(jdUT1)
	T := (jdUT1 - j2000JD) / 36525.0
	dpsiRad, _ := nutationAngles(T)
	epsM := meanObliquity(T)
	eqeqDeg := (dpsiRad * math.Cos(epsM)) * rad2deg
	return math.Mod(gmst+eqeqDeg, 360.0)
}

// frameBiasMatrix is the fixed (time-independent) ICRS->J2000-dynamical
// frame-bias matrix, ported from the teacher's coord/frames.go constants
// (arcsecond frame-bias angles xi0, eta0, da0).
var frameBiasMatrix = computeFrameBiasMatrix()

func computeFrameBiasMatrix() [3][3]float64 {
	const (
		xi0 = -0.0166170 * arcsec2rad
		eta0 = -0.0068192 * arcsec2rad
		da0 = -0.01460 * arcsec2rad
	)
	// B = Rz(da0) * Ry(xi0) * Rx(-eta0), to first order in the small angles.
	return [3][3]float64{
		{1, da0, -xi0},
		{-da0, 1, -eta0},
		{xi0, eta0, 1},
	}
}

func matTranspose(m [3][3]float64) [3][3]float64 {
	return [3][3]float64{
		{m[0][0], m[1][0], m[2][0]},
		{m[0][1], m[1][1], m[2][1]},
		{m[0][2], m[1][2], m[2][2]},
	}
}

func matVec(m [3][3]float64, v [3]float64) [3]float64 {
	return [3]float64{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

func matMul(a, b [3][3]float64) [3][3]float64 {
	var r [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = a[i][0]*b[0][j] + a[i][1]*b[1][j] + a[i][2]*b[2][j]
		}
	}
	return r
}
