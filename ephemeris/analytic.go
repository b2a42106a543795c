package ephemeris

import "github.com/anupshinde/eomgo/frame"

// GcrfStateFunc returns an analytic propagator's position/velocity (DU,
// DU/TU) in the GCRF inertial frame at dtTU (TU) elapsed since epoch. The
// twobody, vinti, and secj2 propagators in this module all expose a
// Propagate(dt)-shaped method that fits this signature directly; sgp4prop
// is adapted to it by a small wrapper in its caller since it natively
// takes a JD rather than an elapsed TU offset.
type GcrfStateFunc func(dtTU float64) (r, v [3]float64)

// Analytic wraps any of this module's analytic propagators (twobody,
// vinti, secj2, sgp4prop) behind the uniform Ephemeris capability set, per
// spec.md section 4.5-4.8: each analytic family computes a state directly
// from its closed-form/perturbation-theory solution rather than from a
// stored state history, so Analytic's only job is time-range validation
// plus frame conversion through the shared EcfEciSystem, exactly as
// SpEphemeris/CompositeEphemeris assume of every Ephemeris implementation
// in original_source/include/astro_ephemeris.h's inferred contract.
type Analytic struct {
	name             string
	epoch, begin, end float64 // JD UTC
	secPerTU         float64
	state            GcrfStateFunc
	ecfEci           *frame.EcfEciSystem
}

// NewAnalytic builds an Analytic ephemeris valid over [begin, end] (JD
// UTC), querying state via the supplied GcrfStateFunc at dtTU = (jdUTC -
// epoch) converted from days to TU via secPerTU.
func NewAnalytic(name string, epoch, begin, end, secPerTU float64, state GcrfStateFunc, ecfEci *frame.EcfEciSystem) *Analytic {
	return &Analytic{
		name: name, epoch: epoch, begin: begin, end: end,
		secPerTU: secPerTU, state: state, ecfEci: ecfEci,
	}
}

func (a *Analytic) Name() string      { return a.name }
func (a *Analytic) Epoch() float64    { return a.epoch }
func (a *Analytic) BeginTime() float64 { return a.begin }
func (a *Analytic) EndTime() float64   { return a.end }

// StateVector returns the interpolated/propagated position and velocity at
// jdUTC in the requested frame.
func (a *Analytic) StateVector(jdUTC float64, fr Frame) (r, v [3]float64, err error) {
	if err := checkRange(a.name, jdUTC, a.begin, a.end); err != nil {
		return [3]float64{}, [3]float64{}, err
	}
	const secPerDay = 86400.0
	dtTU := (jdUTC - a.epoch) * secPerDay / a.secPerTU
	r, v = a.state(dtTU)
	if fr == ECF {
		return a.ecfEci.StateToECF(jdUTC, r, v)
	}
	return r, v, nil
}

// Position returns the propagated position at jdUTC in the requested
// frame.
func (a *Analytic) Position(jdUTC float64, fr Frame) ([3]float64, error) {
	r, _, err := a.StateVector(jdUTC, fr)
	return r, err
}
