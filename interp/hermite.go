// Package interp implements the ephemeris storage/interpolation tools of
// spec.md section 4.9.6-4.9.7: two-endpoint quintic Hermite interpolation,
// the velocity-only Hermite1 cubic used for SP3-like inputs, a
// least-squares Chebyshev Granule fit, and an O(1)-expected IndexMapper
// over node times. Grounded on original_source/include/mth_hermite.h,
// mth_hermite1.h, astro_granule.h, and the teacher's spk.go Clenshaw
// evaluator idiom.
package interp

import "github.com/pkg/errors"

// Hermite performs two-endpoint fifth-degree Hermite interpolation given
// position, velocity, and acceleration at each endpoint, per spec.md
// section 4.9.6. Grounded on original_source/include/mth_hermite.h's
// polynomial-coefficient derivation (corrected here to actually store the
// j0/k0/l0 coefficients on the struct -- the original's constructor
// declares same-named local variables that shadow its member fields,
// silently leaving them zero; this port assigns the fields directly so
// the quintic term is not dropped).
type Hermite struct {
	dtMax              float64
	p0, v0, a0         [3]float64
	j0, k0, l0         [3]float64
}

// NewHermite builds a Hermite interpolator spanning dt (TU) between
// (p0,v0,a0) and (p1,v1,a1).
func NewHermite(dt float64, p0, v0, a0, p1, v1, a1 [3]float64) *Hermite {
	invdt := 1.0 / dt
	h := &Hermite{dtMax: dt, p0: p0, v0: v0, a0: a0}

	for i := 0; i < 3; i++ {
		cpos := -6.0 * invdt * (0.5*a0[i] + invdt*(v0[i]-invdt*(p1[i]-p0[i])))
		cvel := -2.0 * invdt * (a0[i] - invdt*(v1[i]-v0[i]))
		cacc := invdt * (a1[i] - a0[i])

		h.l0[i] = 60.0 * (2*cpos - 3*cvel + cacc) * invdt * invdt
		h.k0[i] = 4.0*(cacc-cpos)*invdt - 7.0*h.l0[i]*dt/15.0
		h.j0[i] = cacc - 0.5*dt*(h.k0[i]+h.l0[i]*dt/3.0)
	}
	return h
}

// XdX returns the interpolated position and velocity at dt (TU) from the
// initial endpoint, per spec.md section 4.9.6.
func (h *Hermite) XdX(dt float64) (x, dx [3]float64, err error) {
	if dt < 0 || dt > h.dtMax {
		return [3]float64{}, [3]float64{}, errors.Errorf("interp: Hermite.XdX: dt %v outside [0, %v]", dt, h.dtMax)
	}
	const tf2, tf3, tf4, tf5 = 1.0 / 2.0, 1.0 / 3.0, 1.0 / 4.0, 1.0 / 5.0

	for i := 0; i < 3; i++ {
		x[i] = h.p0[i] + dt*(h.v0[i]+tf2*dt*(h.a0[i]+tf3*dt*(h.j0[i]+tf4*dt*(h.k0[i]+tf5*dt*h.l0[i]))))
		dx[i] = h.v0[i] + dt*(h.a0[i]+tf2*dt*(h.j0[i]+tf3*dt*(h.k0[i]+tf4*dt*h.l0[i])))
	}
	return x, dx, nil
}
