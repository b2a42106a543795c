package ephemeris

import (
	"github.com/pkg/errors"

	"github.com/anupshinde/eomgo/force"
	"github.com/anupshinde/eomgo/frame"
	"github.com/anupshinde/eomgo/integrate"
	"github.com/anupshinde/eomgo/interp"
	"github.com/anupshinde/eomgo/timescale"
)

// hermiteSpan pairs a Hermite interpolator with the JD UTC span it covers.
type hermiteSpan struct {
	jd1, jd2 float64
	h        *interp.Hermite
}

// Numerical is a full-force propagator whose state history, once
// integrated forward from epoch to a stop time, is stored as a chain of
// two-endpoint Hermite granules with an IndexMapper for O(1)-expected
// lookup, per spec.md section 4.9.6. Grounded on
// original_source/src/astro_sp_ephemeris.cpp's constructor: step the
// integrator to the padded stop time, collect a forward_eph record (t, p,
// v, a) at every node including the bootstrap, then build one Hermite per
// adjacent node pair and index them by time.
type Numerical struct {
	name           string
	epoch, begin, end float64 // JD UTC
	ecfEci         *frame.EcfEciSystem
	spans          []hermiteSpan
	ndxr           *interp.IndexMapper
}

// NewNumerical integrates r0, v0 (DU, DU/TU, GCRF) forward from jdEpoch to
// jdStop under the given equations of motion, using a fourth-order
// Adams-Bashforth-Moulton predictor-corrector with fixed step dtTU (0
// defaults to 0.3 minutes per spec.md section 4.9.5), and stores the
// resulting state history as a Hermite-granule chain.
func NewNumerical(name string, r0, v0 [3]float64, jdEpoch, jdStop float64, eom *force.EquationsOfMotion, dtTU float64, ecfEci *frame.EcfEciSystem) (*Numerical, error) {
	deriv := func(t float64, x []float64, mode integrate.EvalMode) ([]float64, error) {
		r := [3]float64{x[0], x[1], x[2]}
		v := [3]float64{x[3], x[4], x[5]}
		drdt, dvdt, err := eom.Derivative(t, r, v, force.EvalMode(mode))
		if err != nil {
			return nil, err
		}
		return []float64{drdt[0], drdt[1], drdt[2], dvdt[0], dvdt[1], dvdt[2]}, nil
	}

	x0 := []float64{r0[0], r0[1], r0[2], v0[0], v0[1], v0[2]}
	adams, err := integrate.NewAdams4(deriv, dtTU, jdEpoch, x0)
	if err != nil {
		return nil, errors.Wrap(err, "ephemeris: NewNumerical: bootstrap")
	}
	// Pad the stop time by one minute, matching astro_sp_ephemeris.cpp's
	// jdEndProp padding so the last requested instant is always covered by
	// a complete granule.
	const padDays = 1.0 / 1440.0
	jdEndProp := jdStop + padDays

	type node struct {
		jd   float64
		p, v, a [3]float64
	}
	nodes := []node{{
		jd: adams.T(),
		p:  [3]float64{adams.X()[0], adams.X()[1], adams.X()[2]},
		v:  [3]float64{adams.X()[3], adams.X()[4], adams.X()[5]},
		a:  [3]float64{adams.Xdot()[3], adams.Xdot()[4], adams.Xdot()[5]},
	}}
	for nodes[len(nodes)-1].jd < jdEndProp {
		if _, err := adams.Step(); err != nil {
			return nil, errors.Wrap(err, "ephemeris: NewNumerical: integration step")
		}
		nodes = append(nodes, node{
			jd: adams.T(),
			p:  [3]float64{adams.X()[0], adams.X()[1], adams.X()[2]},
			v:  [3]float64{adams.X()[3], adams.X()[4], adams.X()[5]},
			a:  [3]float64{adams.Xdot()[3], adams.Xdot()[4], adams.Xdot()[5]},
		})
	}

	n := &Numerical{name: name, epoch: jdEpoch, ecfEci: ecfEci}
	blocks := make([]interp.Block, 0, len(nodes)-1)
	for i := 1; i < len(nodes); i++ {
		n1, n2 := nodes[i-1], nodes[i]
		dtTUSpan := (n2.jd - n1.jd) * 86400.0 / timescale.SecPerTU
		h := interp.NewHermite(dtTUSpan, n1.p, n1.v, n1.a, n2.p, n2.v, n2.a)
		n.spans = append(n.spans, hermiteSpan{jd1: n1.jd, jd2: n2.jd, h: h})
		blocks = append(blocks, interp.Block{Lo: n1.jd, Hi: n2.jd})
	}
	if len(n.spans) == 0 {
		return nil, errors.New("ephemeris: NewNumerical: stop time did not produce a propagation span")
	}

	ndxr, err := interp.NewIndexMapper(blocks)
	if err != nil {
		return nil, errors.Wrap(err, "ephemeris: NewNumerical: index mapper")
	}
	n.ndxr = ndxr
	n.begin = n.spans[0].jd1
	n.end = n.spans[len(n.spans)-1].jd2
	return n, nil
}

func (n *Numerical) Name() string       { return n.name }
func (n *Numerical) Epoch() float64     { return n.epoch }
func (n *Numerical) BeginTime() float64 { return n.begin }
func (n *Numerical) EndTime() float64   { return n.end }

// StateVector interpolates the stored Hermite-granule chain at jdUTC.
func (n *Numerical) StateVector(jdUTC float64, fr Frame) (r, v [3]float64, err error) {
	if err := checkRange(n.name, jdUTC, n.begin, n.end); err != nil {
		return [3]float64{}, [3]float64{}, err
	}
	idx, err := n.ndxr.GetIndex(jdUTC)
	if err != nil {
		return [3]float64{}, [3]float64{}, errors.Wrapf(err, "ephemeris: %s: StateVector", n.name)
	}
	span := n.spans[idx]
	dtTU := (jdUTC - span.jd1) * 86400.0 / timescale.SecPerTU
	r, v, err = span.h.XdX(dtTU)
	if err != nil {
		return [3]float64{}, [3]float64{}, errors.Wrapf(err, "ephemeris: %s: StateVector", n.name)
	}
	if fr == ECF {
		return n.ecfEci.StateToECF(jdUTC, r, v)
	}
	return r, v, nil
}

// Position interpolates the stored Hermite-granule chain at jdUTC and
// returns the position component only.
func (n *Numerical) Position(jdUTC float64, fr Frame) ([3]float64, error) {
	r, _, err := n.StateVector(jdUTC, fr)
	return r, err
}
