package integrate

import "math"

// Sundman time regularization: the independent variable switches from
// physical time to an arc-like parameter s whose derivative is
// r^alpha/sqrt(mu), per spec.md section 4.9.5. Alpha is fixed at 1.5
// (order 1.5 generalized Sundman transform), resolving spec.md's Open
// Question in favor of the original implementation's fixed choice. Grounded
// on original_source/src/astro_regularize.cpp (Berry & Healy's generalized
// Sundman transformation), ported from its 6-state/8-regularized-state
// Eigen layout to [3]float64 position/velocity pairs plus explicit
// regularized-state scalars.
type Regularize struct {
	mu float64

	// physical-time state
	timeTU float64
	r, v   [3]float64
	vDot   [3]float64 // acceleration

	// regularized state: y = (s-time, r, dtds), dy = (dtds, v*dtds, dv*dtds + ...)
	dsMax  float64
	y      [8]float64
	dy     [8]float64
}

const regularizationOrder = 1.5

// NewRegularize computes the maximum regularized step size for the orbit
// defined by (r, v) and initializes the regularized state at time=0, per
// spec.md section 4.9.5 / astro_regularize.cpp's constructor: the step
// bound comes from integrating 1/sqrt(1+e*cos(theta)) over one revolution
// (18 points per half-period) and dividing by 120 steps/revolution.
func NewRegularize(r, v, accel [3]float64, mu float64) *Regularize {
	ecc := eccentricityFromState(r, v, mu)

	const nint = 18
	const sdiv = 120.0
	dtheta := math.Pi / nint

	theta := 0.0
	s2pi := 0.5 * (1.0/math.Sqrt(1.0+ecc) + 1.0/math.Sqrt(1.0-ecc))
	for i := 0; i < nint-1; i++ {
		theta += dtheta
		s2pi += 1.0 / math.Sqrt(1.0+ecc*math.Cos(theta))
	}
	s2pi *= 2.0 * dtheta

	reg := &Regularize{mu: mu, dsMax: s2pi / sdiv}
	reg.SetTimeState(0, r, v, accel)
	return reg
}

func eccentricityFromState(r, v [3]float64, mu float64) float64 {
	rmag := length(r)
	h := cross(r, v)
	hmag2 := dot(h, h)
	vmag2 := dot(v, v)
	energy := 0.5*vmag2 - mu/rmag
	a := -mu / (2 * energy)
	p := hmag2 / mu
	e2 := 1.0 - p/a
	if e2 < 0 {
		e2 = 0
	}
	return math.Sqrt(e2)
}

// DsMax returns the maximum regularized step size for this orbit.
func (reg *Regularize) DsMax() float64 { return reg.dsMax }

// SetTimeState sets the physical-time state (time relative to
// initialization epoch, TU; position/velocity, DU/DU-TU; acceleration,
// DU/TU^2) and recomputes the corresponding regularized state/derivative.
func (reg *Regularize) SetTimeState(timeTU float64, r, v, accel [3]float64) {
	reg.timeTU = timeTU
	reg.r, reg.v, reg.vDot = r, v, accel

	r2 := dot(r, r)
	rmag := math.Sqrt(r2)
	rdotv := dot(r, v)
	orvu := regularizationOrder * rmag * rdotv / reg.mu
	dtdsInv2 := rmag * r2 / reg.mu
	dtds := math.Sqrt(dtdsInv2)

	reg.y[0] = timeTU
	reg.y[4] = dtds
	reg.dy[0] = reg.y[4]
	reg.dy[4] = orvu
	reg.y[1], reg.y[2], reg.y[3] = r[0], r[1], r[2]
	reg.y[5] = dtds * v[0]
	reg.y[6] = dtds * v[1]
	reg.y[7] = dtds * v[2]
	reg.dy[1], reg.dy[2], reg.dy[3] = reg.y[5], reg.y[6], reg.y[7]
	reg.dy[5] = orvu*v[0] + dtdsInv2*accel[0]
	reg.dy[6] = orvu*v[1] + dtdsInv2*accel[1]
	reg.dy[7] = orvu*v[2] + dtdsInv2*accel[2]
}

// Y returns the regularized state vector (time, r, dt/ds).
func (reg *Regularize) Y() [8]float64 { return reg.y }

// Ydot returns the regularized derivative.
func (reg *Regularize) Ydot() [8]float64 { return reg.dy }

// SetRegularizedState sets the regularized state/derivative and recomputes
// the corresponding physical-time state.
func (reg *Regularize) SetRegularizedState(y, dy [8]float64) {
	reg.y, reg.dy = y, dy
	reg.timeTU = y[0]

	r2 := y[1]*y[1] + y[2]*y[2] + y[3]*y[3]
	rmag := math.Sqrt(r2)
	dtds2 := reg.mu / (rmag * r2)
	dtds := math.Sqrt(dtds2)
	// rdotv intentionally uses the state from before this call, matching
	// astro_regularize.cpp's setRegularizedState (computed before m_x is
	// reassigned below).
	rdotv := dot(reg.r, reg.v)

	reg.r = [3]float64{y[1], y[2], y[3]}
	reg.v = [3]float64{dtds * dy[1], dtds * dy[2], dtds * dy[3]}
	reg.vDot = [3]float64{
		dtds2*dy[5] - (regularizationOrder*rdotv/r2)*reg.v[0],
		dtds2*dy[6] - (regularizationOrder*rdotv/r2)*reg.v[1],
		dtds2*dy[7] - (regularizationOrder*rdotv/r2)*reg.v[2],
	}
}

// TimeTU, R, V, Accel return the current physical-time state.
func (reg *Regularize) TimeTU() float64    { return reg.timeTU }
func (reg *Regularize) R() [3]float64      { return reg.r }
func (reg *Regularize) V() [3]float64      { return reg.v }
func (reg *Regularize) Accel() [3]float64  { return reg.vDot }

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func dot(a, b [3]float64) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

func length(a [3]float64) float64 { return math.Sqrt(dot(a, a)) }
