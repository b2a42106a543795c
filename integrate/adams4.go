package integrate

import (
	"github.com/pkg/errors"

	"github.com/anupshinde/eomgo/timescale"
)

const adamsOrder = 4

// Adams4 propagates with a fixed-step Adams-Bashforth-Moulton order-4
// predictor-corrector, bootstrapped by RK4 at half the nominal step, per
// spec.md section 4.9.5. Grounded on
// original_source/include/astro_adams_4th.h, including its one-step-lag
// getter convention: after Step, T/X/Xdot report the state one step behind
// the just-computed corrector result, matching the original's iir/iis
// indexing (used so Hermite granule construction always has the next
// node's derivative already available). Not safe for concurrent use.
type Adams4 struct {
	deriv Deriv
	dtTU  float64

	jdW [adamsOrder]float64
	w   [adamsOrder][]float64
	dw  [adamsOrder][]float64

	istep int
	jd    float64
	x     []float64
	dx    []float64
}

// NewAdams4 bootstraps the 4-deep history window via RK4 substeps (2 RK4
// steps of dtTU/2 per bootstrap point) and returns a ready-to-step
// integrator. dtTU of zero defaults to 0.3 minutes, per spec.md section
// 4.9.5.
func NewAdams4(deriv Deriv, dtTU, jd0 float64, x0 []float64) (*Adams4, error) {
	if dtTU == 0 {
		const defaultStepMinutes = 0.3
		dtTU = defaultStepMinutes * 60.0 / timescale.SecPerTU
	}

	dx0, err := deriv(jd0, x0, Predictor)
	if err != nil {
		return nil, errors.Wrap(err, "integrate: Adams4 bootstrap")
	}

	a := &Adams4{deriv: deriv, dtTU: dtTU}
	a.jdW[0] = jd0
	a.w[0] = x0
	a.dw[0] = dx0

	const substepsPerBootstrap = 2
	rk4dt := dtTU / substepsPerBootstrap

	jd, x, dx := jd0, x0, dx0
	for i := 1; i < adamsOrder; i++ {
		for j := 0; j < substepsPerBootstrap; j++ {
			var stepErr error
			jd, x, dx, stepErr = RK4Step(deriv, jd, rk4dt, x, Predictor)
			if stepErr != nil {
				return nil, errors.Wrap(stepErr, "integrate: Adams4 bootstrap RK4 substep")
			}
		}
		a.jdW[i] = jd
		a.w[i] = x
		a.dw[i] = dx
	}

	a.istep = 0
	a.jd = a.jdW[0]
	a.x = a.w[0]
	a.dx = a.dw[0]
	return a, nil
}

// T returns the time (JD UTC) of the currently reported state.
func (a *Adams4) T() float64 { return a.jd }

// X returns the currently reported state vector.
func (a *Adams4) X() []float64 { return a.x }

// Xdot returns the derivative of the currently reported state vector.
func (a *Adams4) Xdot() []float64 { return a.dx }

// Step advances by one fixed step, per spec.md section 4.9.5: predict with
// Adams-Bashforth (55,-59,37,-9)/24, evaluate the derivative in predictor
// mode at the predicted state, correct with Adams-Moulton (9,19,-5,1)/24,
// then evaluate the derivative in corrector mode at the corrected state
// and retain it for the next step. The 4-deep history window is shifted
// after each step.
func (a *Adams4) Step() (float64, error) {
	const inv24 = 1.0 / 24.0
	const iis = adamsOrder - 1
	const iir = adamsOrder - 2

	if a.istep < (adamsOrder - iir) {
		a.istep++
		a.jd = a.jdW[a.istep]
		a.x = a.w[a.istep]
		a.dx = a.dw[a.istep]
		return a.jd, nil
	}

	dt := a.dtTU
	n := len(a.w[3])

	wNow := make([]float64, n)
	for i := 0; i < n; i++ {
		wNow[i] = a.w[3][i] + dt*(55.0*a.dw[3][i]-59.0*a.dw[2][i]+37.0*a.dw[1][i]-9.0*a.dw[0][i])*inv24
	}
	jdNow := a.jdW[iis] + tuToDays(dt)

	dwNow, err := a.deriv(jdNow, wNow, Predictor)
	if err != nil {
		return 0, errors.Wrap(err, "integrate: Adams4 predictor evaluation")
	}

	for i := 0; i < n; i++ {
		wNow[i] = a.w[3][i] + dt*(9.0*dwNow[i]+19.0*a.dw[3][i]-5.0*a.dw[2][i]+a.dw[1][i])*inv24
	}

	for i := 0; i < iis; i++ {
		a.jdW[i] = a.jdW[i+1]
		a.w[i] = a.w[i+1]
		a.dw[i] = a.dw[i+1]
	}
	a.jdW[iis] = jdNow
	a.w[iis] = wNow

	dwCorrected, err := a.deriv(jdNow, wNow, Corrector)
	if err != nil {
		return 0, errors.Wrap(err, "integrate: Adams4 corrector evaluation")
	}
	a.dw[iis] = dwCorrected

	a.jd = a.jdW[iir]
	a.x = a.w[iir]
	a.dx = a.dw[iir]
	return a.jd, nil
}
