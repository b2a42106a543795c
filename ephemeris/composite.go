package ephemeris

import (
	"github.com/pkg/errors"

	"github.com/anupshinde/eomgo/interp"
)

// Composite stitches multiple Ephemeris sources together, switching from
// one to the next at a schedule of handover times, per spec.md section 9's
// "Cyclic references in ephemeris composition": continuity across the
// handover is the caller's responsibility, not validated here. Grounded on
// original_source/src/astro_composite_ephemeris.cpp, including its
// construction-time validation that every handover time lies strictly
// inside the combined [begin, end] span and its delegation of getEpoch to
// the first sub-ephemeris; Name returns the composite's own name.
type Composite struct {
	name       string
	ephemerides []Ephemeris
	ndxr       *interp.IndexMapper
}

// NewComposite builds a Composite from ephemerides in time order, handing
// over from ephemerides[i] to ephemerides[i+1] at handoverTimes[i]. There
// must be exactly len(ephemerides)-1 handover times, each strictly between
// the combined begin and end times.
func NewComposite(name string, handoverTimes []float64, ephemerides []Ephemeris) (*Composite, error) {
	if len(ephemerides) == 0 {
		return nil, errors.New("ephemeris: NewComposite: no sub-ephemerides given")
	}
	if len(handoverTimes) != len(ephemerides)-1 {
		return nil, errors.Errorf("ephemeris: NewComposite: %d handover times is not compatible with %d ephemeris sources", len(handoverTimes), len(ephemerides))
	}

	jdMin := ephemerides[0].BeginTime()
	jdMax := ephemerides[len(ephemerides)-1].EndTime()
	for _, t := range handoverTimes {
		if t <= jdMin || jdMax <= t {
			return nil, errors.New("ephemeris: NewComposite: handover time outside range of supplied ephemerides")
		}
	}

	blocks := make([]interp.Block, 0, len(ephemerides))
	share := jdMin
	for _, t := range handoverTimes {
		blocks = append(blocks, interp.Block{Lo: share, Hi: t})
		share = t
	}
	blocks = append(blocks, interp.Block{Lo: share, Hi: jdMax})

	ndxr, err := interp.NewIndexMapper(blocks)
	if err != nil {
		return nil, errors.Wrap(err, "ephemeris: NewComposite: index mapper")
	}

	return &Composite{name: name, ephemerides: ephemerides, ndxr: ndxr}, nil
}

func (c *Composite) Name() string   { return c.name }
func (c *Composite) Epoch() float64 { return c.ephemerides[0].Epoch() }
func (c *Composite) BeginTime() float64 {
	return c.ephemerides[0].BeginTime()
}
func (c *Composite) EndTime() float64 {
	return c.ephemerides[len(c.ephemerides)-1].EndTime()
}

func (c *Composite) resolve(jdUTC float64) (Ephemeris, error) {
	idx, err := c.ndxr.GetIndex(jdUTC)
	if err != nil {
		return nil, errors.Wrapf(err, "ephemeris: %s: bad time", c.name)
	}
	return c.ephemerides[idx], nil
}

// StateVector delegates to whichever sub-ephemeris covers jdUTC.
func (c *Composite) StateVector(jdUTC float64, fr Frame) (r, v [3]float64, err error) {
	e, err := c.resolve(jdUTC)
	if err != nil {
		return [3]float64{}, [3]float64{}, err
	}
	return e.StateVector(jdUTC, fr)
}

// Position delegates to whichever sub-ephemeris covers jdUTC.
func (c *Composite) Position(jdUTC float64, fr Frame) ([3]float64, error) {
	e, err := c.resolve(jdUTC)
	if err != nil {
		return [3]float64{}, err
	}
	return e.Position(jdUTC, fr)
}
