// Package integrate implements the fixed-step numerical integrators of
// spec.md section 4.9.5: RK4, an Adams-Bashforth-Moulton order-4
// predictor-corrector bootstrapped by RK4, and a Sundman time-regularization
// transform for high-eccentricity orbits. Grounded on
// original_source/include/mth_rk4.h, astro_adams_4th.h, and
// astro_regularize.h, generalized from the original's fixed Eigen
// DIM-template to a plain []float64 state vector.
package integrate

import "github.com/anupshinde/eomgo/timescale"

// EvalMode mirrors force.EvalMode without importing it, so integrate stays
// independent of any particular force model: it is passed straight through
// to the caller-supplied Deriv so a geopotential cache (or any other
// predictor/corrector-sensitive term) downstream can reuse partials.
type EvalMode int

const (
	Predictor EvalMode = iota
	Corrector
)

// Deriv evaluates the state derivative dx/dt at time t (JD UTC) for state
// x, honoring mode the way force.Geopotential.Acceleration does.
type Deriv func(t float64, x []float64, mode EvalMode) ([]float64, error)

func addScaled(a, b []float64, scale float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] + scale*b[i]
	}
	return out
}

func scaleVec(a []float64, scale float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = scale * a[i]
	}
	return out
}

func addVec(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}

func tuToDays(tu float64) float64 {
	return tu * timescale.SecPerTU / timescale.SecPerDay
}

// RK4Step advances the state x at time t (JD UTC) by dtTU (TU), returning
// the new time, state, and derivative, per spec.md section 4.9.5's
// "standard four-stage form, no step control". dxMethod selects whether
// the final derivative evaluation (returned for the caller's own
// bookkeeping, e.g. Hermite interpolation) recomputes the full force model
// (Predictor) or reuses cached partials (Corrector), per
// original_source/include/mth_rk4.h's dx_method parameter. dtTU of zero
// just evaluates the derivative at the current state.
func RK4Step(deriv Deriv, t, dtTU float64, x []float64, dxMethod EvalMode) (tNew float64, xNew, dxNew []float64, err error) {
	if dtTU == 0 {
		dx, derr := deriv(t, x, Predictor)
		return t, x, dx, derr
	}

	half := dtTU / 2.0
	sixth := 1.0 / 6.0
	halfDays := tuToDays(half)

	x0 := x

	xd, err := deriv(t, x0, Predictor)
	if err != nil {
		return 0, nil, nil, err
	}
	xa := scaleVec(xd, dtTU)
	xx := addScaled(x0, xd, half)

	tMid := t + halfDays
	xd, err = deriv(tMid, xx, Predictor)
	if err != nil {
		return 0, nil, nil, err
	}
	q := scaleVec(xd, dtTU)
	xx = addScaled(x0, q, 0.5)
	xa = addVec(xa, scaleVec(q, 2))

	xd, err = deriv(tMid, xx, Predictor)
	if err != nil {
		return 0, nil, nil, err
	}
	q = scaleVec(xd, dtTU)
	xx = addVec(x0, q)
	xa = addVec(xa, scaleVec(q, 2))

	tNew = t + tuToDays(dtTU)
	xd, err = deriv(tNew, xx, Predictor)
	if err != nil {
		return 0, nil, nil, err
	}
	xNew = make([]float64, len(x0))
	for i := range xNew {
		xNew[i] = x0[i] + (xa[i]+dtTU*xd[i])*sixth
	}

	dxNew, err = deriv(tNew, xNew, dxMethod)
	if err != nil {
		return 0, nil, nil, err
	}
	return tNew, xNew, dxNew, nil
}
