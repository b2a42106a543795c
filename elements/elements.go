// Package elements converts between Cartesian state vectors and classical
// Keplerian orbital elements, per spec.md section 4.4. Grounded on the
// teacher's elements/elements.go (FromStateVector: angular-momentum/node/
// eccentricity-vector construction, Kahan's stable angleBetween) and
// kepler/kepler.go (perifocal rotation matrix, Newton solve of Kepler's
// equation), generalized from km/AU to the canonical DU/TU unit system and
// restricted to the elliptic-orbit domain spec.md section 4.4 requires.
package elements

import (
	"math"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const twoPi = 2 * math.Pi

// Elements holds a classical Keplerian element set in canonical units (DU,
// TU, radians) together with the gravitational parameter it was built
// against.
type Elements struct {
	SemiMajorAxis float64 // a, DU
	Eccentricity  float64 // e
	Inclination   float64 // i, rad
	RAAN          float64 // capital omega, rad
	ArgPerigee    float64 // small omega, rad
	MeanAnomaly   float64 // M, rad
	Mu            float64 // GM, DU^3/TU^2
}

// validate enforces spec.md section 4.4's constructor invariants: perigee
// at least 1 DU (not sub-surface), eccentricity and inclination bounded
// away from the degenerate circular/equatorial singularities, and
// elliptic (negative) specific energy. Violations are non-recoverable for
// the orbit being constructed.
func (e Elements) validate() error {
	if e.Eccentricity < 1e-6 {
		return errors.Errorf("elements: eccentricity %g below minimum 1e-6 (circular orbits are degenerate for this element set)", e.Eccentricity)
	}
	if e.Inclination < 1e-6 {
		return errors.Errorf("elements: inclination %g rad below minimum 1e-6 (equatorial orbits are degenerate for this element set)", e.Inclination)
	}
	if e.SemiMajorAxis <= 0 || math.IsInf(e.SemiMajorAxis, 0) {
		return errors.Errorf("elements: semi-major axis %g DU is not elliptic (energy must be negative)", e.SemiMajorAxis)
	}
	perigee := e.SemiMajorAxis * (1.0 - e.Eccentricity)
	if perigee < 1.0 {
		return errors.Errorf("elements: perigee %g DU is below Earth's surface (1 DU)", perigee)
	}
	return nil
}

// NewKeplerian constructs an elliptic-orbit Elements set from classical
// elements (angles in radians), rejecting the orbit at construction if any
// of spec.md section 4.4's invariants are violated.
func NewKeplerian(a, e, iRad, raanRad, argpRad, mRad, mu float64) (Elements, error) {
	el := Elements{
		SemiMajorAxis: a,
		Eccentricity:  e,
		Inclination:   iRad,
		RAAN:          raanRad,
		ArgPerigee:    argpRad,
		MeanAnomaly:   math.Mod(mRad+4*twoPi, twoPi),
		Mu:            mu,
	}
	if err := el.validate(); err != nil {
		return Elements{}, err
	}
	return el, nil
}

// FromCartesian computes osculating elliptic elements from a position (DU)
// and velocity (DU/TU) state vector, per the angular-momentum/node/
// eccentricity-vector method in the teacher's elements.go, generalized to
// canonical units. The resulting element set is validated against
// spec.md section 4.4's invariants before being returned.
func FromCartesian(r, v [3]float64, mu float64) (Elements, error) {
	rMag := length(r)
	vMag := length(v)

	hVec := cross(r, v)
	h := length(hVec)

	rdv := dot(r, v)
	v2 := vMag * vMag
	factor := v2 - mu/rMag
	eVec := [3]float64{
		(factor*r[0] - rdv*v[0]) / mu,
		(factor*r[1] - rdv*v[1]) / mu,
		(factor*r[2] - rdv*v[2]) / mu,
	}
	e := length(eVec)

	nVec := [3]float64{-hVec[1], hVec[0], 0}
	n := length(nVec)

	p := h * h / mu
	energy := v2/2.0 - mu/rMag
	var a float64
	if math.Abs(1.0-e*e) > 1e-15 {
		a = p / (1.0 - e*e)
	} else {
		a = -mu / (2.0 * energy)
	}

	inc := math.Acos(clamp(hVec[2]/h, -1, 1))

	var raan float64
	if n > 1e-15 {
		raan = math.Atan2(hVec[0], -hVec[1])
		if raan < 0 {
			raan += twoPi
		}
	}

	nu := trueAnomaly(eVec, e, nVec, n, r, v, rMag, rdv)
	argp := argPeriapsis(eVec, e, nVec, n, r, v)

	E := eccentricAnomalyFromTrue(nu, e)
	M := E - e*math.Sin(E)
	M = math.Mod(M+4*twoPi, twoPi)

	el := Elements{
		SemiMajorAxis: a,
		Eccentricity:  e,
		Inclination:   inc,
		RAAN:          raan,
		ArgPerigee:    argp,
		MeanAnomaly:   M,
		Mu:            mu,
	}
	if err := el.validate(); err != nil {
		return Elements{}, err
	}
	return el, nil
}

// SolveKepler solves Kepler's equation M = E - e*sin(E) for the eccentric
// anomaly E (radians), Newton-seeded at M +/- e per spec.md section 4.4,
// converging when |delta E| < 1e-10 or after a 100-iteration cap. On
// non-convergence the last iterate is returned along with a logged
// warning, matching spec.md section 7's non-convergence policy.
func SolveKepler(mRad, e float64) float64 {
	M := math.Mod(mRad, twoPi)
	if M > math.Pi {
		M -= twoPi
	} else if M < -math.Pi {
		M += twoPi
	}

	E := M + e
	if math.Sin(M) < 0 {
		E = M - e
	}

	for iter := 0; iter < 100; iter++ {
		sinE, cosE := math.Sincos(E)
		f := E - e*sinE - M
		fp := 1.0 - e*cosE
		dE := -f / fp
		E += dE
		if math.Abs(dE) < 1e-10 {
			return E
		}
		if iter == 99 {
			log.Warn().Float64("mean_anomaly", mRad).Float64("eccentricity", e).
				Msg("elements: Kepler's equation did not converge in 100 iterations, using last iterate")
		}
	}
	return E
}

// ToCartesian reconstructs the position (DU) and velocity (DU/TU) state
// vector from the element set, via the perifocal frame and the classical
// 3-1-3 rotation sequence (argument of perigee, inclination, RAAN).
func (el Elements) ToCartesian() (r, v [3]float64) {
	E := SolveKepler(el.MeanAnomaly, el.Eccentricity)
	cosE, sinE := math.Cos(E), math.Sin(E)
	e := el.Eccentricity
	a := el.SemiMajorAxis
	p := a * (1.0 - e*e)

	rPQW := a * (1.0 - e*cosE)
	xPQW := a * (cosE - e)
	yPQW := a * math.Sqrt(1.0-e*e) * sinE

	n := math.Sqrt(el.Mu / (a * a * a))
	vxPQW := -a * a * n * sinE / rPQW
	vyPQW := a * a * n * math.Sqrt(1.0-e*e) * cosE / rPQW
	_ = p

	sinO, cosO := math.Sincos(el.RAAN)
	sinW, cosW := math.Sincos(el.ArgPerigee)
	sinI, cosI := math.Sincos(el.Inclination)

	rot := [3][3]float64{
		{cosO*cosW - sinO*sinW*cosI, -cosO*sinW - sinO*cosW*cosI, sinO * sinI},
		{sinO*cosW + cosO*sinW*cosI, -sinO*sinW + cosO*cosW*cosI, -cosO * sinI},
		{sinW * sinI, cosW * sinI, cosI},
	}

	r = [3]float64{
		rot[0][0]*xPQW + rot[0][1]*yPQW,
		rot[1][0]*xPQW + rot[1][1]*yPQW,
		rot[2][0]*xPQW + rot[2][1]*yPQW,
	}
	v = [3]float64{
		rot[0][0]*vxPQW + rot[0][1]*vyPQW,
		rot[1][0]*vxPQW + rot[1][1]*vyPQW,
		rot[2][0]*vxPQW + rot[2][1]*vyPQW,
	}
	return
}

func trueAnomaly(eVec [3]float64, e float64, nVec [3]float64, n float64, pos, vel [3]float64, r, rdv float64) float64 {
	if e > 1e-15 {
		nu := angleBetween(eVec, pos)
		if rdv < 0 {
			nu = twoPi - nu
		}
		return nu
	}
	if n < 1e-15 {
		nu := math.Acos(clamp(pos[0]/r, -1, 1))
		if vel[0] > 0 {
			nu = twoPi - nu
		}
		return nu
	}
	nu := angleBetween(nVec, pos)
	if pos[2] < 0 {
		nu = twoPi - nu
	}
	return nu
}

func argPeriapsis(eVec [3]float64, e float64, nVec [3]float64, n float64, pos, vel [3]float64) float64 {
	if e < 1e-15 {
		return 0
	}
	if n > 1e-15 {
		w := angleBetween(nVec, eVec)
		if eVec[2] < 0 {
			w = twoPi - w
		}
		return w
	}
	w := math.Atan2(eVec[1], eVec[0])
	if w < 0 {
		w += twoPi
	}
	crossRV := cross(pos, vel)
	if crossRV[2] < 0 {
		w = twoPi - w
	}
	return w
}

func eccentricAnomalyFromTrue(nu, e float64) float64 {
	E := 2.0 * math.Atan(math.Sqrt((1.0-e)/(1.0+e))*math.Tan(nu/2.0))
	if E < 0 {
		E += twoPi
	}
	return E
}

func angleBetween(u, v [3]float64) float64 {
	uMag := length(u)
	vMag := length(v)
	if uMag == 0 || vMag == 0 {
		return 0
	}
	a := [3]float64{u[0] * vMag, u[1] * vMag, u[2] * vMag}
	b := [3]float64{v[0] * uMag, v[1] * uMag, v[2] * uMag}
	diff := [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
	sum := [3]float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
	return 2.0 * math.Atan2(length(diff), length(sum))
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func dot(a, b [3]float64) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

func length(a [3]float64) float64 { return math.Sqrt(dot(a, a)) }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
