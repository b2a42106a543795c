// Package frame implements the Earth-orientation / frame-transformation
// service (spec.md section 4.2), the geodetic ground-point solver (section
// 4.3), and the TEME/J2000 frame-bias helpers SGP4 and the secular-J2
// propagator need (section 4.7, 4.8). It is grounded on the teacher's
// coord package: coord.go's nutation/precession/ERA/GAST machinery,
// frames.go's frame-bias constants, geodetic.go's WGS84 ellipsoid, and
// altaz.go's topocentric rotation -- generalized here into an explicit,
// dependency-injected EopSystem-backed quaternion grid instead of the
// teacher's package-level mutable nutation-precision switch (coord's
// nutation.go states plainly "not safe for concurrent use -- call once at
// program startup", which spec.md section 9's Global State note singles
// out as exactly the pattern to avoid).
package frame

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"github.com/anupshinde/eomgo/eop"
	"github.com/anupshinde/eomgo/timescale"
)

// Sample is one node of the Ecf<->Eci interpolation grid: the
// polar-motion and bias-precession-nutation quaternions, plus UT1-UTC and
// LOD, all evaluated at a single instant. Earth rotation angle is never
// stored here -- it is cheap to evaluate analytically and is computed at
// query time instead of interpolated, per spec.md section 4.2.
type Sample struct {
	JDUTC      float64
	UT1MinusUTC timescale.Duration
	LOD         timescale.Duration
	QPM         quat.Number // ITRF -> TIRF (polar motion)
	QBPN        quat.Number // true-of-date -> GCRF (bias * precession * nutation)
}

// EcfEciSystem serves Earth-Centered-Fixed <-> Earth-Centered-Inertial
// frame transformations over a bounded time span [t0, t1], built from a
// uniformly spaced quaternion grid with slerp interpolation between nodes,
// per spec.md section 4.2.
type EcfEciSystem struct {
	t0, t1  float64 // JD UTC bounds
	dtDays  float64
	samples []Sample
}

// NewEcfEciSystem builds the quaternion grid covering [t0Utc, t1Utc] (UTC
// Julian dates) with node spacing dtDays. A dtDays of zero collapses the
// grid to a single sample at the span's midpoint, per spec.md section 6's
// EcfEciRate=0 convention. eopSys may be nil, in which case zero
// polar-motion/UT1-UTC/LOD/dX/dY values are used throughout (matching
// eop.System's own zero-value fallback).
func NewEcfEciSystem(t0Utc, t1Utc, dtDays float64, eopSys *eop.System) (*EcfEciSystem, error) {
	if t1Utc < t0Utc {
		return nil, errors.Errorf("frame: EcfEciSystem: t1 (%v) precedes t0 (%v)", t1Utc, t0Utc)
	}

	sys := &EcfEciSystem{t0: t0Utc, t1: t1Utc, dtDays: dtDays}

	if dtDays == 0 {
		mid := 0.5 * (t0Utc + t1Utc)
		sys.samples = []Sample{buildSample(mid, eopSys)}
		return sys, nil
	}

	n := int(math.Ceil((t1Utc-t0Utc)/dtDays)) + 1
	sys.samples = make([]Sample, 0, n)
	for i := 0; i < n; i++ {
		t := t0Utc + float64(i)*dtDays
		if t > t1Utc {
			t = t1Utc
		}
		sys.samples = append(sys.samples, buildSample(t, eopSys))
		if t == t1Utc {
			break
		}
	}
	if sys.samples[len(sys.samples)-1].JDUTC < t1Utc {
		sys.samples = append(sys.samples, buildSample(t1Utc, eopSys))
	}
	return sys, nil
}

func buildSample(jdUTC float64, eopSys *eop.System) Sample {
	var rec eop.Record
	if eopSys != nil && !eopSys.Empty() {
		mjd := jdUTC - 2400000.5
		rec = eopSys.At(mjd)
	}

	jdTT := timescale.UTCToTT(jdUTC)
	T := timescale.JulianCenturiesTT(jdTT)

	dpsi, deps := nutationAngles(T)
	epsM := meanObliquity(T)
	P := precessionMatrix(T)
	N := nutationMatrix(dpsi, deps, epsM)

	// mean-of-date -> J2000: P^T; J2000 -> GCRF (ICRS): the transpose of
	// frameBiasMatrix (which maps ICRS -> J2000).
	// true-of-date -> mean-of-date: N^T.
	bpnMat := matMul(matTranspose(frameBiasMatrix), matMul(matTranspose(P), matTranspose(N)))
	qbpn := qfromMatrix(bpnMat)

	xpRad := rec.XPole * arcsec2rad
	ypRad := rec.YPole * arcsec2rad
	// Polar motion: ITRF -> TIRF, W = Ry(xp) * Rx(yp) for small angles.
	qpm := qmul(qfromAxisAngle([3]float64{0, 1, 0}, xpRad), qfromAxisAngle([3]float64{1, 0, 0}, ypRad))

	return Sample{
		JDUTC:       jdUTC,
		UT1MinusUTC: timescale.NewDurationSeconds(rec.UT1UTC),
		LOD:         timescale.NewDurationSeconds(rec.LOD / 1000.0),
		QPM:         qpm,
		QBPN:        qbpn,
	}
}

// Span returns the time bounds the system was built over.
func (s *EcfEciSystem) Span() (t0, t1 float64) { return s.t0, s.t1 }

// interpolate returns the sample quantities at jdUTC by locating the
// bracketing grid nodes with a binary search over the node times and
// linearly interpolating UT1-UTC/LOD while slerping the two quaternions,
// per spec.md section 4.2.
func (s *EcfEciSystem) interpolate(jdUTC float64) (Sample, error) {
	if jdUTC < s.t0 || jdUTC > s.t1 {
		return Sample{}, errors.Errorf("frame: EcfEciSystem: time %v outside [%v, %v]", jdUTC, s.t0, s.t1)
	}
	if len(s.samples) == 1 {
		return s.samples[0], nil
	}

	i := sort.Search(len(s.samples), func(i int) bool { return s.samples[i].JDUTC >= jdUTC })
	if i == 0 {
		return s.samples[0], nil
	}
	if i >= len(s.samples) {
		return s.samples[len(s.samples)-1], nil
	}
	a, b := s.samples[i-1], s.samples[i]
	if b.JDUTC == a.JDUTC {
		return a, nil
	}
	frac := (jdUTC - a.JDUTC) / (b.JDUTC - a.JDUTC)

	return Sample{
		JDUTC:       jdUTC,
		UT1MinusUTC: timescale.NewDurationTU(a.UT1MinusUTC.TU() + frac*(b.UT1MinusUTC.TU()-a.UT1MinusUTC.TU())),
		LOD:         timescale.NewDurationTU(a.LOD.TU() + frac*(b.LOD.TU()-a.LOD.TU())),
		QPM:         qslerp(a.QPM, b.QPM, frac),
		QBPN:        qslerp(a.QBPN, b.QBPN, frac),
	}, nil
}

// earthAngularVelocity returns Earth's inertial rotation rate (rad/TU) in
// the Earth-fixed frame, adjusted for length-of-day per spec.md section
// 4.2: omega = (0, 0, EarthRotationRate * (1 - LOD)).
func earthAngularVelocity(lodTU float64) [3]float64 {
	const earthRotationRateRadPerSec = 7.292115146706979e-5
	omega := earthRotationRateRadPerSec * timescale.SecPerTU * (1.0 - lodTU)
	return [3]float64{0, 0, omega}
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// PositionToICRF transforms an Earth-Centered-Fixed position (DU) to
// Earth-Centered-Inertial (GCRF) at jdUTC: r_i = q_bpn * q_era * q_pm * r_ef.
func (s *EcfEciSystem) PositionToICRF(jdUTC float64, rEcf [3]float64) ([3]float64, error) {
	samp, err := s.interpolate(jdUTC)
	if err != nil {
		return [3]float64{}, err
	}
	jdUT1 := jdUTC + samp.UT1MinusUTC.Days()
	eraRad := EarthRotationAngle(jdUT1) * deg2rad
	qera := qfromAxisAngle([3]float64{0, 0, 1}, eraRad)

	rTIRF := qrotate(samp.QPM, rEcf)
	rMOD := qrotate(qera, rTIRF)
	return qrotate(samp.QBPN, rMOD), nil
}

// StateToICRF transforms an Earth-Centered-Fixed position+velocity (DU,
// DU/TU) to Earth-Centered-Inertial at jdUTC, including the Coriolis
// (omega x r_ef) term from Earth's rotation, per spec.md section 4.2.
func (s *EcfEciSystem) StateToICRF(jdUTC float64, rEcf, vEcf [3]float64) (rICRF, vICRF [3]float64, err error) {
	samp, ierr := s.interpolate(jdUTC)
	if ierr != nil {
		return [3]float64{}, [3]float64{}, ierr
	}
	jdUT1 := jdUTC + samp.UT1MinusUTC.Days()
	eraRad := EarthRotationAngle(jdUT1) * deg2rad
	qera := qfromAxisAngle([3]float64{0, 0, 1}, eraRad)

	rTIRF := qrotate(samp.QPM, rEcf)
	vTIRF := qrotate(samp.QPM, vEcf)

	rMOD := qrotate(qera, rTIRF)
	omega := earthAngularVelocity(samp.LOD.TU())
	vMOD := qrotate(qera, add3(vTIRF, cross(omega, rTIRF)))

	rICRF = qrotate(samp.QBPN, rMOD)
	vICRF = qrotate(samp.QBPN, vMOD)
	return rICRF, vICRF, nil
}

// PositionToECF transforms an inertial (GCRF) position back to
// Earth-Centered-Fixed at jdUTC, the inverse of PositionToICRF.
func (s *EcfEciSystem) PositionToECF(jdUTC float64, rICRF [3]float64) ([3]float64, error) {
	samp, err := s.interpolate(jdUTC)
	if err != nil {
		return [3]float64{}, err
	}
	jdUT1 := jdUTC + samp.UT1MinusUTC.Days()
	eraRad := EarthRotationAngle(jdUT1) * deg2rad
	qera := qfromAxisAngle([3]float64{0, 0, 1}, eraRad)

	rMOD := qrotate(qconj(samp.QBPN), rICRF)
	rTIRF := qrotate(qconj(qera), rMOD)
	return qrotate(qconj(samp.QPM), rTIRF), nil
}

func add3(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func sub3(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// StateToECF transforms an inertial (GCRF) position+velocity to
// Earth-Centered-Fixed at jdUTC, the inverse of StateToICRF (including
// removing the Coriolis term).
func (s *EcfEciSystem) StateToECF(jdUTC float64, rICRF, vICRF [3]float64) (rEcf, vEcf [3]float64, err error) {
	samp, ierr := s.interpolate(jdUTC)
	if ierr != nil {
		return [3]float64{}, [3]float64{}, ierr
	}
	jdUT1 := jdUTC + samp.UT1MinusUTC.Days()
	eraRad := EarthRotationAngle(jdUT1) * deg2rad
	qera := qfromAxisAngle([3]float64{0, 0, 1}, eraRad)

	rMOD := qrotate(qconj(samp.QBPN), rICRF)
	vMOD := qrotate(qconj(samp.QBPN), vICRF)

	rTIRF := qrotate(qconj(qera), rMOD)
	vTIRFPlusCoriolis := qrotate(qconj(qera), vMOD)

	omega := earthAngularVelocity(samp.LOD.TU())
	vTIRF := sub3(vTIRFPlusCoriolis, cross(omega, rTIRF))

	rEcf = qrotate(qconj(samp.QPM), rTIRF)
	vEcf = qrotate(qconj(samp.QPM), vTIRF)
	return rEcf, vEcf, nil
}

// TIRFToECF applies only this system's polar-motion correction, rotating
// a Terrestrial-Intermediate-frame vector (e.g. the output of a GMST-only
// rotation, as used by sgp4prop's TEME->ECF step) to Earth-Centered-Fixed,
// per spec.md section 4.7's "GMST + polar motion, no BPN" requirement.
func (s *EcfEciSystem) TIRFToECF(jdUTC float64, rTIRF [3]float64) ([3]float64, error) {
	samp, err := s.interpolate(jdUTC)
	if err != nil {
		return [3]float64{}, err
	}
	return qrotate(qconj(samp.QPM), rTIRF), nil
}
