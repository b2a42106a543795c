package interp

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/anupshinde/eomgo/timescale"
)

// epsDT is the endpoint tolerance, in the normalized [-1, 1] interval, for
// out-of-range Granule queries, per spec.md section 4.9.7.
const epsDT = 1e-14

// Granule performs a least-squares Chebyshev polynomial fit of the given
// order to a set of time-tagged position/velocity samples, per spec.md
// section 4.9.7. Position and velocity are fit independently. Grounded on
// original_source/include/astro_granule.h (time normalization, QR
// least-squares solve) and the teacher's spk.go Chebyshev/Clenshaw
// evaluation idiom (segPosition's use of a Chebyshev coefficient series).
// Uses gonum/mat's QR decomposition for the least-squares solve.
type Granule struct {
	order          int
	jdStart, jdEnd float64
	dtNorm, dtShift float64
	aPos, aVel     [3][]float64 // per-component Chebyshev coefficients, order+1 each
}

// NewGranule fits a Granule of the given order from parallel slices of
// times (JD UTC), positions (DU), and velocities (DU/TU). len(ts) must
// exceed order (N = order+1 gives an exact fit through every sample; more
// samples give an unconstrained least-squares fit), per spec.md section
// 4.9.7's default order=8, N=9.
func NewGranule(order int, ts []float64, ps, vs [][3]float64) (*Granule, error) {
	n := len(ts)
	if n <= order {
		return nil, errors.Errorf("interp: NewGranule: N=%d must exceed order=%d", n, order)
	}
	if len(ps) != n || len(vs) != n {
		return nil, errors.Errorf("interp: NewGranule: ts/ps/vs length mismatch")
	}

	g := &Granule{order: order, jdStart: ts[0], jdEnd: ts[n-1]}
	days := g.jdEnd - g.jdStart
	g.dtNorm = 0.5 * timescale.SecPerDay / timescale.SecPerTU * days
	g.dtShift = g.dtNorm

	tmat := mat.NewDense(n, order+1, nil)
	for i, t := range ts {
		tu := (timescale.SecPerDay / timescale.SecPerTU) * (t - g.jdStart)
		dt := (tu - g.dtShift) / g.dtNorm
		row := chebyshevPoly(order, dt)
		tmat.SetRow(i, row)
	}

	var qr mat.QR
	qr.Factorize(tmat)

	for comp := 0; comp < 3; comp++ {
		rhs := mat.NewVecDense(n, nil)
		for i := 0; i < n; i++ {
			rhs.SetVec(i, ps[i][comp])
		}
		var sol mat.VecDense
		if err := qr.SolveVecTo(&sol, false, rhs); err != nil {
			return nil, errors.Wrap(err, "interp: NewGranule: position least-squares solve")
		}
		coeffs := make([]float64, order+1)
		for k := 0; k <= order; k++ {
			coeffs[k] = sol.AtVec(k)
		}
		g.aPos[comp] = coeffs

		for i := 0; i < n; i++ {
			rhs.SetVec(i, vs[i][comp])
		}
		if err := qr.SolveVecTo(&sol, false, rhs); err != nil {
			return nil, errors.Wrap(err, "interp: NewGranule: velocity least-squares solve")
		}
		coeffsV := make([]float64, order+1)
		for k := 0; k <= order; k++ {
			coeffsV[k] = sol.AtVec(k)
		}
		g.aVel[comp] = coeffsV
	}

	return g, nil
}

// BeginTime, EndTime return the granule's valid time span (JD UTC).
func (g *Granule) BeginTime() float64 { return g.jdStart }
func (g *Granule) EndTime() float64   { return g.jdEnd }

func (g *Granule) normalizedDT(jdUTC float64) (float64, error) {
	tu := (timescale.SecPerDay / timescale.SecPerTU) * (jdUTC - g.jdStart)
	dt := (tu - g.dtShift) / g.dtNorm
	dtlim := 1.0 + epsDT
	if dt < -dtlim || dt > dtlim {
		return 0, errors.Errorf("interp: Granule: time %v outside granule span", jdUTC)
	}
	return dt, nil
}

// Position returns the interpolated position (DU) at jdUTC.
func (g *Granule) Position(jdUTC float64) ([3]float64, error) {
	dt, err := g.normalizedDT(jdUTC)
	if err != nil {
		return [3]float64{}, err
	}
	basis := chebyshevPoly(g.order, dt)
	var p [3]float64
	for comp := 0; comp < 3; comp++ {
		for k := 0; k <= g.order; k++ {
			p[comp] += basis[k] * g.aPos[comp][k]
		}
	}
	return p, nil
}

// Velocity returns the interpolated velocity (DU/TU) at jdUTC.
func (g *Granule) Velocity(jdUTC float64) ([3]float64, error) {
	dt, err := g.normalizedDT(jdUTC)
	if err != nil {
		return [3]float64{}, err
	}
	basis := chebyshevPoly(g.order, dt)
	var v [3]float64
	for comp := 0; comp < 3; comp++ {
		for k := 0; k <= g.order; k++ {
			v[comp] += basis[k] * g.aVel[comp][k]
		}
	}
	return v, nil
}

// chebyshevPoly returns [T_0(x), T_1(x), ..., T_order(x)] via the standard
// three-term recurrence.
func chebyshevPoly(order int, x float64) []float64 {
	t := make([]float64, order+1)
	t[0] = 1.0
	if order >= 1 {
		t[1] = x
	}
	for k := 2; k <= order; k++ {
		t[k] = 2*x*t[k-1] - t[k-2]
	}
	return t
}
