// Package force implements the acceleration models of spec.md section 4.9:
// a normalized-coefficient geopotential with predictor/corrector caching,
// closed-form third-body Sun/Moon perturbations, and a spherical solar
// radiation pressure model. Grounded on
// original_source/src/astro_gravity_std.cpp (Legendre recurrence and
// spherical->Cartesian partial conversion), the teacher's Meeus-derived
// Sun/Moon style in coord, and spk.go's point-mass-difference third-body
// form.
package force

import (
	"math"

	"github.com/pkg/errors"
)

// EvalMode selects whether Geopotential.Acceleration recomputes the
// harmonic series (Predictor) or reuses the cached partials from the last
// Predictor call, updating only the central-body term (Corrector), per
// spec.md section 4.9.2 and section 4.9.5's predictor/corrector stepping.
type EvalMode int

const (
	Predictor EvalMode = iota
	Corrector
)

// coeff is one normalized (Cnm, Snm) spherical-harmonic coefficient pair.
type coeff struct {
	c, s float64
}

// zonalCoeffs holds approximate normalized zonal (m=0) geopotential
// coefficients through degree 6. The full EGM96/EGM2008 coefficient table
// is not part of the retrieval pack, so Geopotential ships this built-in
// low-degree zonal default and also accepts caller-supplied tesseral terms
// via SetCoefficient for scenarios that need them.
var zonalCoeffs = map[[2]int]coeff{
	{2, 0}: {-4.84165371736e-4, 0},
	{3, 0}: {9.57161207795e-7, 0},
	{4, 0}: {5.39965866638e-7, 0},
	{5, 0}: {6.86702913736e-8, 0},
	{6, 0}: {-1.49953927978e-7, 0},
}

// Geopotential evaluates Earth's gravitational acceleration from normalized
// spherical-harmonic coefficients, per spec.md section 4.9.2. Not safe for
// concurrent use: the predictor/corrector cache is per-instance mutable
// state, mirroring original_source/include/astro_gravity_std.h's "one
// instance per integrator" note.
type Geopotential struct {
	degree, order int
	mu, re        float64
	coeffs        map[[2]int]coeff
	alf           *legendreTable

	// cached partials from the last Predictor evaluation.
	cachedDUDr, cachedDUDLat, cachedDUDLon float64
}

// NewGeopotential builds a geopotential model of the given maximum degree
// and order (order <= degree), seeded with the built-in zonal coefficient
// table, for a central body of gravitational parameter mu (DU^3/TU^2) and
// equatorial radius re (DU).
func NewGeopotential(degree, order int, mu, re float64) (*Geopotential, error) {
	if order > degree {
		return nil, errors.Errorf("force: Geopotential: order %d exceeds degree %d", order, degree)
	}
	if degree < 0 {
		return nil, errors.Errorf("force: Geopotential: negative degree %d", degree)
	}

	coeffs := make(map[[2]int]coeff, len(zonalCoeffs))
	for k, v := range zonalCoeffs {
		if k[0] <= degree && k[1] <= order {
			coeffs[k] = v
		}
	}

	return &Geopotential{
		degree: degree,
		order:  order,
		mu:     mu,
		re:     re,
		coeffs: coeffs,
		alf:    newLegendreTable(degree, order),
	}, nil
}

// SetCoefficient overrides or adds a normalized (Cnm, Snm) pair, for
// scenarios supplying their own tesseral terms.
func (g *Geopotential) SetCoefficient(n, m int, cnm, snm float64) {
	g.coeffs[[2]int{n, m}] = coeff{cnm, snm}
}

// Acceleration returns the gravitational acceleration (DU/TU^2) at an
// Earth-fixed position rEcf (DU), per spec.md section 4.9.2's predictor
// (full recompute) and corrector (cached partials, central term only)
// evaluation paths.
func (g *Geopotential) Acceleration(rEcf [3]float64, mode EvalMode) [3]float64 {
	rx, ry, rz := rEcf[0], rEcf[1], rEcf[2]
	rmag := math.Sqrt(rx*rx + ry*ry + rz*rz)
	invr := 1.0 / rmag
	invr2 := invr * invr
	rxy2 := rx*rx + ry*ry
	rxy := math.Sqrt(rxy2)

	var duDr, duDLat, duDLon float64

	if mode == Predictor || rxy == 0 {
		invrxy := 0.0
		if rxy != 0 {
			invrxy = 1.0 / rxy
		}
		slat := rz * invr
		clat := rxy * invr
		tlat := 0.0
		if rxy != 0 {
			tlat = rz * invrxy
		}
		slon, clon := 0.0, 1.0
		if rxy != 0 {
			slon = ry * invrxy
			clon = rx * invrxy
		}
		reR := g.re * invr

		g.alf.set(slat, clat)

		cmlon := make([]float64, g.order+1)
		smlon := make([]float64, g.order+1)
		cmlon[0] = 1.0
		if g.order >= 1 {
			cmlon[1] = clon
			smlon[1] = slon
		}
		for m := 2; m <= g.order; m++ {
			cmlon[m] = 2*clon*cmlon[m-1] - cmlon[m-2]
			smlon[m] = 2*clon*smlon[m-1] - smlon[m-2]
		}

		reRn := make([]float64, g.degree+1)
		reRn[0] = 1.0
		for n := 1; n <= g.degree; n++ {
			reRn[n] = reR * reRn[n-1]
		}

		// Accumulate smallest-magnitude terms first (high n, then high m)
		// to limit roundoff, per spec.md section 4.9.2 step 4.
		for m := g.order; m >= 0; m-- {
			for n := g.degree; n >= m; n-- {
				c, ok := g.coeffs[[2]int{n, m}]
				if !ok {
					continue
				}
				pnm := g.alf.at(n, m)
				pnmp1 := g.alf.at(n, m+1)
				trig := c.c*cmlon[m] + c.s*smlon[m]
				duDr += float64(n+1) * reRn[n] * pnm * trig
				duDLat += reRn[n] * (pnmp1 - float64(m)*tlat*pnm) * trig
				duDLon += float64(m) * reRn[n] * pnm * (c.s*cmlon[m] - c.c*smlon[m])
			}
		}
		duDr += 1.0

		g.cachedDUDr, g.cachedDUDLat, g.cachedDUDLon = duDr, duDLat, duDLon
	} else {
		duDr, duDLat, duDLon = g.cachedDUDr, g.cachedDUDLat, g.cachedDUDLon
	}

	gmR := g.mu * invr
	duDr *= -gmR * invr
	duDLat *= gmR
	duDLon *= gmR

	var ax, ay, az float64
	if rxy != 0 {
		invrxy2 := 1.0 / rxy2
		dlat := invr*duDr - duDLat*rz*(1.0/rxy)*invr2
		dlon := duDLon * invrxy2
		ax = dlat*rx - dlon*ry
		ay = dlat*ry + dlon*rx
		az = invr*duDr*rz + duDLat*rxy*invr2
	} else {
		az = invr * duDr * rz
	}

	return [3]float64{ax, ay, az}
}
