// Package sgp4prop wraps github.com/joshuaferrara/go-satellite's SGP4
// implementation per spec.md section 4.7 and section 9's note that the
// SGP4 numerical core should be a vetted library rather than a fresh
// reimplementation; this package's own responsibility is the TLE parsing
// contract and the TEME->Earth-fixed/GCRF rotation step. Grounded on the
// teacher's satellite/satellite.go (NewSat, TEMEToICRF) structure,
// generalized to consume this module's own tle.TLE and frame.EcfEciSystem
// instead of the teacher's direct coord-package calls.
package sgp4prop

import (
	"math"
	"time"

	gosatellite "github.com/joshuaferrara/go-satellite"
	"github.com/pkg/errors"

	"github.com/anupshinde/eomgo/frame"
	"github.com/anupshinde/eomgo/tle"
)

// GravityModel selects the SGP4 gravity-constant set.
type GravityModel int

const (
	WGS72 GravityModel = iota
	WGS84
)

// Propagator wraps a parsed TLE and its go-satellite orbital-element record.
type Propagator struct {
	Designator string
	EpochJDUTC float64
	sat        gosatellite.Satellite
}

// New parses a TLE's data lines and builds a Propagator, per spec.md
// section 4.7: TLE fields are converted to radians/minutes internally by
// go-satellite, using the requested WGS72/WGS84 gravity constant set.
func New(line1, line2 string, grav GravityModel) (*Propagator, error) {
	t, err := tle.Parse(line1, line2)
	if err != nil {
		return nil, errors.Wrap(err, "sgp4prop")
	}

	model := gosatellite.GravityWGS72
	if grav == WGS84 {
		model = gosatellite.GravityWGS84
	}

	epochJD := dayOfYearToJD(t.EpochYear, t.EpochDayOfYear)

	return &Propagator{
		Designator: t.Designator,
		EpochJDUTC: epochJD,
		sat:        gosatellite.TLEToSat(line1, line2, model),
	}, nil
}

func dayOfYearToJD(year int, dayOfYear float64) float64 {
	jan0 := gosatellite.JDay(year-1, 12, 31, 0, 0, 0)
	return jan0 + dayOfYear
}

// PositionTEME propagates to jdUTC and returns the raw TEME position (DU)
// and velocity (DU/TU), SGP4's native output frame, per spec.md section
// 4.7.
func (p *Propagator) PositionTEME(jdUTC float64) (rTEME, vTEME [3]float64) {
	minutesSinceEpoch := (jdUTC - p.EpochJDUTC) * 1440.0
	t := p.EpochTime().Add(time.Duration(minutesSinceEpoch * float64(time.Minute)))
	pos, vel := gosatellite.Propagate(p.sat, t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())

	const kmPerDU = 6378.137
	const kmPerSecPerDUPerTU = kmPerDU / 806.81107 // km/s per DU/TU (1 TU ~ 806.811 s)

	rTEME = [3]float64{pos.X / kmPerDU, pos.Y / kmPerDU, pos.Z / kmPerDU}
	vTEME = [3]float64{vel.X / kmPerSecPerDUPerTU, vel.Y / kmPerSecPerDUPerTU, vel.Z / kmPerSecPerDUPerTU}
	return
}

// EpochTime returns the TLE epoch as a time.Time (UTC), used internally to
// drive go-satellite's calendar-based Propagate call.
func (p *Propagator) EpochTime() time.Time {
	jd := p.EpochJDUTC
	z := math.Floor(jd + 0.5)
	f := jd + 0.5 - z
	var a float64
	if z < 2299161 {
		a = z
	} else {
		alpha := math.Floor((z - 1867216.25) / 36524.25)
		a = z + 1 + alpha - math.Floor(alpha/4)
	}
	b := a + 1524
	c := math.Floor((b - 122.1) / 365.25)
	d := math.Floor(365.25 * c)
	e := math.Floor((b - d) / 30.6001)

	day := b - d - math.Floor(30.6001*e) + f
	var month float64
	if e < 14 {
		month = e - 1
	} else {
		month = e - 13
	}
	var year float64
	if month > 2 {
		year = c - 4716
	} else {
		year = c - 4715
	}

	dayInt := math.Floor(day)
	frac := day - dayInt
	secTotal := frac * 86400.0
	hour := math.Floor(secTotal / 3600.0)
	min := math.Floor((secTotal - hour*3600) / 60.0)
	sec := secTotal - hour*3600 - min*60

	return time.Date(int(year), time.Month(int(month)), int(dayInt), int(hour), int(min), int(sec), 0, time.UTC)
}

// PositionECF propagates to jdUTC and rotates the TEME output to
// Earth-Centered-Fixed via GMST and polar motion only -- no
// bias/precession/nutation -- per spec.md section 4.7.
func (p *Propagator) PositionECF(jdUTC float64, ecfEci *frame.EcfEciSystem) ([3]float64, error) {
	rTEME, _ := p.PositionTEME(jdUTC)
	gmstDeg := frame.GMST(jdUTC)
	rTIRF := rotateZ(-gmstDeg*math.Pi/180.0, rTEME)
	return ecfEci.TIRFToECF(jdUTC, rTIRF)
}

// PositionGCRF propagates to jdUTC, rotates TEME to ECF (GMST+polar
// motion), then through the full EcfEciSystem to GCRF, per spec.md
// section 4.7's "optionally rotated to GCRF" path.
func (p *Propagator) PositionGCRF(jdUTC float64, ecfEci *frame.EcfEciSystem) ([3]float64, error) {
	rECF, err := p.PositionECF(jdUTC, ecfEci)
	if err != nil {
		return [3]float64{}, err
	}
	return ecfEci.PositionToICRF(jdUTC, rECF)
}

func rotateZ(angleRad float64, v [3]float64) [3]float64 {
	c, s := math.Cos(angleRad), math.Sin(angleRad)
	return [3]float64{
		c*v[0] - s*v[1],
		s*v[0] + c*v[1],
		v[2],
	}
}
