// Package twobody implements the classical f-and-g universal-variable
// two-body propagator (spec.md section 4.5): given an initial Cartesian
// state, advance it by an arbitrary elapsed time using Stumpff functions
// and a Newton iteration on the universal anomaly chi. Grounded on the
// teacher's kepler/kepler.go (Newton-iteration idiom, perifocal-style
// series evaluation) generalized to the universal-variable formulation
// canonical-units two-body propagation requires, with Stumpff series
// authored from spec.md section 4.5/9's description (no Stumpff
// implementation exists anywhere in the retrieval pack).
package twobody

import (
	"math"

	"github.com/rs/zerolog/log"
)

// Propagator advances a fixed initial Cartesian state (position DU,
// velocity DU/TU) under two-body dynamics with gravitational parameter Mu.
type Propagator struct {
	R0, V0 [3]float64
	Mu     float64
}

// New constructs a two-body propagator from an initial state. Per spec.md
// section 9's note on a known typo in the reference implementation (the
// initial radius magnitude being seeded from a freshly constructed
// Keplerian's semi-major axis along one code path instead of the actual
// state vector), this implementation always computes r0 from the supplied
// r0 vector directly.
func New(r0, v0 [3]float64, mu float64) Propagator {
	return Propagator{R0: r0, V0: v0, Mu: mu}
}

// stumpff returns the Stumpff functions C(z) and S(z). For |z| <= 0.1 a
// truncated Taylor series is used to avoid the catastrophic cancellation
// that the closed trigonometric/hyperbolic forms suffer near z=0; outside
// that band the closed forms are used directly, per spec.md section 4.5.
func stumpff(z float64) (c, s float64) {
	if math.Abs(z) <= 0.1 {
		c = 1.0/2.0 - z/24.0 + z*z/720.0 - z*z*z/40320.0 + z*z*z*z/3628800.0
		s = 1.0/6.0 - z/120.0 + z*z/5040.0 - z*z*z/362880.0 + z*z*z*z/39916800.0
		return
	}
	if z > 0 {
		sz := math.Sqrt(z)
		c = (1.0 - math.Cos(sz)) / z
		s = (sz - math.Sin(sz)) / (sz * sz * sz)
		return
	}
	sz := math.Sqrt(-z)
	c = (1.0 - math.Cosh(sz)) / z
	s = (math.Sinh(sz) - sz) / (sz * sz * sz)
	return
}

// Propagate advances the initial state by dt (TU), returning the new
// Cartesian state via the universal-variable f-and-g solution. The
// universal anomaly chi is solved by Newton iteration, converging when
// |delta chi| < 1e-8 or after a 100-iteration cap; on non-convergence the
// last iterate is used and a warning is logged, per spec.md section 4.5/7.
func (p Propagator) Propagate(dt float64) (r, v [3]float64) {
	r0Mag := length(p.R0)
	v0Mag := length(p.V0)
	vr0 := dot(p.R0, p.V0) / r0Mag

	alpha := 2.0/r0Mag - v0Mag*v0Mag/p.Mu // 1/a, reciprocal semi-major axis

	sqrtMu := math.Sqrt(p.Mu)
	chi := sqrtMu * math.Abs(alpha) * dt
	if math.Abs(alpha) < 1e-12 {
		// Near-parabolic: alpha-based seed degenerates, fall back to the
		// radius-based estimate.
		chi = sqrtMu * dt / r0Mag
	}

	var chiFinal float64
	converged := false
	for iter := 0; iter < 100; iter++ {
		z := alpha * chi * chi
		c, s := stumpff(z)

		term1 := (vr0 * r0Mag / sqrtMu) * chi * chi * c
		term2 := (1 - alpha*r0Mag) * chi * chi * chi * s
		term3 := r0Mag * chi
		f := term1 + term2 + term3 - sqrtMu*dt

		fp := (vr0*r0Mag/sqrtMu)*chi*(1-z*s) + (1-alpha*r0Mag)*chi*chi*c + r0Mag

		dChi := -f / fp
		chi += dChi
		if math.Abs(dChi) < 1e-8 {
			chiFinal = chi
			converged = true
			break
		}
		chiFinal = chi
	}
	if !converged {
		log.Warn().Float64("dt", dt).Msg("twobody: universal anomaly Newton iteration did not converge in 100 iterations, using last iterate")
	}
	chi = chiFinal

	z := alpha * chi * chi
	c, s := stumpff(z)

	f := 1.0 - (chi*chi*c)/r0Mag
	g := dt - (chi*chi*chi*s)/sqrtMu

	r = [3]float64{
		f*p.R0[0] + g*p.V0[0],
		f*p.R0[1] + g*p.V0[1],
		f*p.R0[2] + g*p.V0[2],
	}
	rMag := length(r)

	fdot := (sqrtMu / (rMag * r0Mag)) * (alpha*chi*chi*chi*s - chi)
	gdot := 1.0 - (chi*chi*c)/rMag

	v = [3]float64{
		fdot*p.R0[0] + gdot*p.V0[0],
		fdot*p.R0[1] + gdot*p.V0[1],
		fdot*p.R0[2] + gdot*p.V0[2],
	}
	return
}

// SpecificEnergy returns the two-body vis-viva specific orbital energy
// (DU^2/TU^2) of state (r, v), used by the energy-conservation test
// property in spec.md section 8.
func (p Propagator) SpecificEnergy(r, v [3]float64) float64 {
	return dot(v, v)/2.0 - p.Mu/length(r)
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
