package interp

import "github.com/pkg/errors"

// Hermite1 fits a cubic to position and velocity endpoints only (no
// acceleration input), used for SP3-like inputs, per spec.md section
// 4.9.7. Grounded on original_source/include/mth_hermite1.h.
type Hermite1 struct {
	dtMin, dtMax float64
	p0, v0, a0   [3]float64
	j0           [3]float64
}

// NewHermite1 builds a cubic Hermite1 interpolator spanning dt (TU)
// between (p0,v0) and (p1,v1). dtEps widens the valid query range by a
// small endpoint tolerance on each side, per spec.md section 4.9.7.
func NewHermite1(dt float64, p0, v0, p1, v1 [3]float64, dtEps float64) *Hermite1 {
	invdt := 1.0 / dt
	h1 := &Hermite1{p0: p0, v0: v0}

	for i := 0; i < 3; i++ {
		h1.j0[i] = 6.0 * invdt * invdt * (v0[i] + v1[i] - 2.0*invdt*(p1[i]-p0[i]))
		h1.a0[i] = invdt*(v1[i]-v0[i]) - 0.5*h1.j0[i]*dt
	}

	h1.dtMin = -dtEps
	h1.dtMax = dt + dtEps
	return h1
}

func (h1 *Hermite1) checkRange(dt float64) error {
	if dt < h1.dtMin || dt > h1.dtMax {
		return errors.Errorf("interp: Hermite1: dt %v outside [%v, %v]", dt, h1.dtMin, h1.dtMax)
	}
	return nil
}

// Position returns the interpolated position at dt (TU) from the initial
// endpoint.
func (h1 *Hermite1) Position(dt float64) ([3]float64, error) {
	if err := h1.checkRange(dt); err != nil {
		return [3]float64{}, err
	}
	const tf2, tf3 = 1.0 / 2.0, 1.0 / 3.0
	var p [3]float64
	for i := 0; i < 3; i++ {
		p[i] = h1.p0[i] + dt*(h1.v0[i]+tf2*dt*(h1.a0[i]+tf3*dt*h1.j0[i]))
	}
	return p, nil
}

// Velocity returns the interpolated velocity at dt (TU) from the initial
// endpoint.
func (h1 *Hermite1) Velocity(dt float64) ([3]float64, error) {
	if err := h1.checkRange(dt); err != nil {
		return [3]float64{}, err
	}
	const tf2 = 1.0 / 2.0
	var v [3]float64
	for i := 0; i < 3; i++ {
		v[i] = h1.v0[i] + dt*(h1.a0[i]+tf2*dt*h1.j0[i])
	}
	return v, nil
}

// Acceleration returns the interpolated (constant-jerk) acceleration at dt
// (TU) from the initial endpoint.
func (h1 *Hermite1) Acceleration(dt float64) ([3]float64, error) {
	if err := h1.checkRange(dt); err != nil {
		return [3]float64{}, err
	}
	var a [3]float64
	for i := 0; i < 3; i++ {
		a[i] = h1.a0[i] + dt*h1.j0[i]
	}
	return a, nil
}
