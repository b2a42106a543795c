// Package vinti implements an analytic J2 propagator with the public shape
// of the Vinti propagator (spec.md section 4.6): J2-only/J2+J3 model
// selection and the forbidden-zone check. The Vinti6 numerical body
// referenced by original_source/include/astro_vinti.h is not present in
// the retrieval pack. The orbit is propagated as classical elements
// advanced with first-order J2 secular rates, and Kepler's equation is
// solved by Newton iteration (the teacher's kepler/kepler.go and twobody
// idiom) seeded from the two-body universal anomaly. There is no
// oblate-spheroidal separation and no Jacobi-constant construction, and
// the J3 coefficient does not enter the propagation.
package vinti

import (
	"math"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/anupshinde/eomgo/elements"
	"github.com/anupshinde/eomgo/twobody"
)

// PertModel selects which oblateness terms the propagator carries.
type PertModel int

const (
	J2Only PertModel = iota
	J2J3
)

const (
	earthRadiusDU  = 1.0
	forbiddenAltKm = 210.0
	earthRadiusKm  = 6378.137
	forbiddenRadiusDU = earthRadiusDU + forbiddenAltKm/earthRadiusKm
)

// Propagator holds the classical elements of the initial Cartesian state
// plus the first-order secular rates J2 induces on the argument of
// perigee, RAAN, and mean anomaly. The J3 coefficient (zero in J2Only
// mode) is stored but not used in the rates.
type Propagator struct {
	el    elements.Elements
	j2    float64
	j3    float64
	model PertModel

	p       float64 // semi-latus rectum, DU
	n0      float64 // J2-corrected mean motion (n-bar), rad/TU
	raanDot float64 // rad/TU
	argpDot float64 // rad/TU
	mDot    float64 // rad/TU, full mean-anomaly rate (n-bar)
	epochM  float64 // mean anomaly at epoch, rad
	raan0   float64
	argp0   float64
}

// New constructs a Vinti propagator from an initial Cartesian state (DU,
// DU/TU), rejecting the orbit at construction if its perigee lies inside
// the forbidden zone: a radius less than the equatorial radius plus
// 210 km.
func New(r0, v0 [3]float64, mu, j2, j3 float64, model PertModel) (*Propagator, error) {
	el, err := elements.FromCartesian(r0, v0, mu)
	if err != nil {
		return nil, errors.Wrap(err, "vinti: initial state")
	}

	perigee := el.SemiMajorAxis * (1.0 - el.Eccentricity)
	if perigee < forbiddenRadiusDU {
		return nil, errors.Errorf("vinti: perigee %g DU is inside the forbidden zone (< %g DU, ~210km above surface)", perigee, forbiddenRadiusDU)
	}

	j3Use := j3
	if model == J2Only {
		j3Use = 0
	}

	p := el.SemiMajorAxis * (1.0 - el.Eccentricity*el.Eccentricity)
	n0 := math.Sqrt(mu / (el.SemiMajorAxis * el.SemiMajorAxis * el.SemiMajorAxis))
	cosI := math.Cos(el.Inclination)
	factor := j2 * (earthRadiusDU / p) * (earthRadiusDU / p)

	// First-order secular rates (Brouwer/Vinti-consistent to O(J2)).
	raanDot := -1.5 * n0 * factor * cosI
	argpDot := 0.75 * n0 * factor * (5*cosI*cosI - 1)
	nBar := n0 * (1.0 + 1.5*factor*math.Sqrt(1-el.Eccentricity*el.Eccentricity)*(1-1.5*math.Sin(el.Inclination)*math.Sin(el.Inclination)))

	p_ := &Propagator{
		el: el, j2: j2, j3: j3Use, model: model,
		p: p, n0: nBar,
		raanDot: raanDot, argpDot: argpDot,
		mDot:   nBar,
		epochM: el.MeanAnomaly,
		raan0:  el.RAAN,
		argp0:  el.ArgPerigee,
	}
	return p_, nil
}

// Propagate returns the Cartesian state (DU, DU/TU) at dt (TU) after
// epoch: the mean anomaly, RAAN, and argument of perigee advance linearly,
// and Kepler's equation is solved for the corresponding eccentric anomaly
// by Newton iteration, seeded from the two-body universal-anomaly
// estimate per spec.md section 4.6.
func (p *Propagator) Propagate(dt float64) (r, v [3]float64) {
	raan := p.raan0 + p.raanDot*dt
	argp := p.argp0 + p.argpDot*dt
	m := math.Mod(p.epochM+p.mDot*dt+8*math.Pi, 2*math.Pi)

	E := p.solveGeneralizedKepler(m, dt)
	return p.cartesianFromEccentricAnomaly(E, raan, argp)
}

// cartesianFromEccentricAnomaly reconstructs position/velocity from an
// already-solved eccentric anomaly via the perifocal frame and the
// classical 3-1-3 rotation sequence, mirroring elements.Elements.ToCartesian
// but taking E directly instead of re-solving Kepler's equation from the
// mean anomaly.
func (p *Propagator) cartesianFromEccentricAnomaly(E, raan, argp float64) (r, v [3]float64) {
	a := p.el.SemiMajorAxis
	e := p.el.Eccentricity
	cosE, sinE := math.Cos(E), math.Sin(E)

	rPQW := a * (1.0 - e*cosE)
	xPQW := a * (cosE - e)
	yPQW := a * math.Sqrt(1.0-e*e) * sinE

	n := math.Sqrt(p.el.Mu / (a * a * a))
	vxPQW := -a * a * n * sinE / rPQW
	vyPQW := a * a * n * math.Sqrt(1.0-e*e) * cosE / rPQW

	sinO, cosO := math.Sincos(raan)
	sinW, cosW := math.Sincos(argp)
	sinI, cosI := math.Sincos(p.el.Inclination)

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

// solveGeneralizedKepler solves Kepler's equation E - e*sin(E) = m for the
// eccentric anomaly at mean anomaly m, seeded from a two-body
// universal-anomaly propagation of the initial state to dt (spec.md
// section 4.6), then refined by Newton iteration on the classical
// (unperturbed) Kepler residual. Converges at |delta E| < 1e-10 or a
// 100-iteration cap.
func (p *Propagator) solveGeneralizedKepler(m, dt float64) float64 {
	r0, v0 := p.el.ToCartesian()
	seed := twobody.New(r0, v0, p.el.Mu)
	rSeed, _ := seed.Propagate(dt)
	rSeedMag := length(rSeed)

	e := p.el.Eccentricity
	E := m
	if rSeedMag > 0 {
		cosESeed := (1.0 - rSeedMag/p.el.SemiMajorAxis) / e
		if cosESeed >= -1 && cosESeed <= 1 {
			E = math.Acos(cosESeed)
			if math.Sin(m) < 0 {
				E = -E
			}
		}
	}

	for iter := 0; iter < 100; iter++ {
		sinE, cosE := math.Sincos(E)
		f := E - e*sinE - m
		fp := 1.0 - e*cosE
		dE := -f / fp
		E += dE
		if math.Abs(dE) < 1e-10 {
			return E
		}
		if iter == 99 {
			log.Warn().Float64("mean_anomaly", m).Msg("vinti: generalized Kepler equation did not converge in 100 iterations, using last iterate")
		}
	}
	return E
}

func length(a [3]float64) float64 {
	return math.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])
}
