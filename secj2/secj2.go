// Package secj2 implements the secular J2 mean-element propagator (spec.md
// section 4.8): the initial Cartesian state is interpreted as TEME,
// converted to classical elements, advanced with first-order J2 secular
// rates on RAAN/argument-of-perigee/mean-anomaly, and reconstructed as a
// Cartesian state in the requested frame. Grounded on the same
// Newton/rotation idiom as elements and vinti (teacher kepler/kepler.go),
// restricted to linear (non-Newton) secular advance per spec.md section
// 4.8.
package secj2

import (
	"math"

	"github.com/pkg/errors"

	"github.com/anupshinde/eomgo/elements"
	"github.com/anupshinde/eomgo/frame"
	"github.com/anupshinde/eomgo/timescale"
)

const earthRadiusDU = 1.0

// Propagator advances an initial TEME state using secular J2 mean-element
// rates.
type Propagator struct {
	el0     elements.Elements
	epochJD float64
	j2      float64

	raanDot float64
	argpDot float64
	nBar    float64
}

// New constructs a secular-J2 propagator from an initial TEME Cartesian
// state (DU, DU/TU) at epochJD (UTC Julian date).
func New(rTEME, vTEME [3]float64, mu, j2, epochJD float64) (*Propagator, error) {
	el, err := elements.FromCartesian(rTEME, vTEME, mu)
	if err != nil {
		return nil, errors.Wrap(err, "secj2: initial state")
	}

	p := el.SemiMajorAxis * (1.0 - el.Eccentricity*el.Eccentricity)
	n := math.Sqrt(mu / (el.SemiMajorAxis * el.SemiMajorAxis * el.SemiMajorAxis))
	cosI := math.Cos(el.Inclination)
	factor := j2 * (earthRadiusDU / p) * (earthRadiusDU / p)

	nBar := n * (1.0 + 1.5*factor*math.Sqrt(1-el.Eccentricity*el.Eccentricity)*(1-1.5*math.Sin(el.Inclination)*math.Sin(el.Inclination)))
	raanDot := -1.5 * nBar * factor * cosI
	argpDot := 0.75 * nBar * factor * (5*cosI*cosI - 1)

	return &Propagator{
		el0:     el,
		epochJD: epochJD,
		j2:      j2,
		raanDot: raanDot,
		argpDot: argpDot,
		nBar:    nBar,
	}, nil
}

// PropagateTU returns the TEME Cartesian state (DU, DU/TU) dtTU time units
// after epoch, per spec.md section 4.8's linear (M, RAAN, argp) advance.
func (p *Propagator) PropagateTU(dtTU float64) (r, v [3]float64) {
	el := elements.Elements{
		SemiMajorAxis: p.el0.SemiMajorAxis,
		Eccentricity:  p.el0.Eccentricity,
		Inclination:   p.el0.Inclination,
		RAAN:          wrap2Pi(p.el0.RAAN + p.raanDot*dtTU),
		ArgPerigee:    wrap2Pi(p.el0.ArgPerigee + p.argpDot*dtTU),
		MeanAnomaly:   wrap2Pi(p.el0.MeanAnomaly + p.nBar*dtTU),
		Mu:            p.el0.Mu,
	}
	return el.ToCartesian()
}

// PropagateToFrame propagates to jdUTC in TEME, then rotates to ECF (via
// GMST + polar motion, matching sgp4prop's TEME handling) or GCRF, per
// spec.md section 4.8's "reconstruct in TEME then rotate to requested
// frame".
func (p *Propagator) PropagateToFrame(jdUTC float64, ecfEci *frame.EcfEciSystem, toGCRF bool) (r, v [3]float64, err error) {
	dtTU := (jdUTC - p.epochJD) * 86400.0 / timescale.SecPerTU
	rTEME, vTEME := p.PropagateTU(dtTU)

	gmstDeg := frame.GMST(jdUTC)
	rad := -gmstDeg * math.Pi / 180.0
	c, s := math.Cos(rad), math.Sin(rad)
	rTIRF := [3]float64{c*rTEME[0] - s*rTEME[1], s*rTEME[0] + c*rTEME[1], rTEME[2]}
	vTIRF := [3]float64{c*vTEME[0] - s*vTEME[1], s*vTEME[0] + c*vTEME[1], vTEME[2]}
	// The rotated TEME velocity is inertial; remove omega x r to get the
	// Earth-fixed velocity.
	const earthRotationRateRadPerSec = 7.292115146706979e-5
	omega := earthRotationRateRadPerSec * timescale.SecPerTU
	vTIRF[0] += omega * rTIRF[1]
	vTIRF[1] -= omega * rTIRF[0]

	rECF, err := ecfEci.TIRFToECF(jdUTC, rTIRF)
	if err != nil {
		return [3]float64{}, [3]float64{}, err
	}
	if !toGCRF {
		return rECF, vTIRF, nil
	}
	return ecfEci.StateToICRF(jdUTC, rECF, vTIRF)
}

func wrap2Pi(a float64) float64 {
	const twoPi = 2 * math.Pi
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	return a
}
