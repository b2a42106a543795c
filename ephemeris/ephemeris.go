// Package ephemeris implements the uniform Ephemeris capability set of
// spec.md section 4.2/4.9.6: query position/velocity at an arbitrary UTC
// instant in either the Earth-fixed or inertial frame, across several
// interchangeable implementations (analytic propagators, a full-force
// numerical propagator backed by Hermite-chained state history, and
// composites of named sub-ephemerides). Grounded on
// original_source/include/astro_ephemeris.h's inferred method-set contract
// (getName/getEpoch/getBeginTime/getEndTime/getStateVector/getPosition) and
// astro_sp_ephemeris.cpp / astro_composite_ephemeris.cpp's construction
// style.
package ephemeris

import "github.com/pkg/errors"

// Frame selects the reference frame of a queried state.
type Frame int

const (
	// ECF is the Earth-Centered-Fixed frame.
	ECF Frame = iota
	// ICRF is the Geocentric Celestial Reference Frame (inertial).
	ICRF
)

// Ephemeris is the capability set shared by every propagator/interpolator
// implementation in this package, per spec.md section 4.2: name, epoch,
// the UTC time span over which queries are valid, and position / state
// queries tagged by output frame. Implementations fail with an error when
// the queried time lies outside [BeginTime, EndTime].
type Ephemeris interface {
	Name() string
	Epoch() float64
	BeginTime() float64
	EndTime() float64
	Position(jdUTC float64, fr Frame) ([3]float64, error)
	StateVector(jdUTC float64, fr Frame) (r, v [3]float64, err error)
}

// checkRange is shared validation logic for the out-of-range error every
// implementation in this package raises.
func checkRange(name string, jdUTC, begin, end float64) error {
	if jdUTC < begin || jdUTC > end {
		return errors.Errorf("ephemeris: %s: time %v outside [%v, %v]", name, jdUTC, begin, end)
	}
	return nil
}
