package frame

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// Quaternion arithmetic used by the frame-transformation grid. quat.Number
// is gonum's general Hamilton-quaternion type; the sandwich-product,
// axis-angle, matrix-conversion, and slerp operations below are specific to
// rotations and are implemented locally against its four float64 fields.

func qmul(a, b quat.Number) quat.Number {
	return quat.Number{
		Real: a.Real*b.Real - a.Imag*b.Imag - a.Jmag*b.Jmag - a.Kmag*b.Kmag,
		Imag: a.Real*b.Imag + a.Imag*b.Real + a.Jmag*b.Kmag - a.Kmag*b.Jmag,
		Jmag: a.Real*b.Jmag - a.Imag*b.Kmag + a.Jmag*b.Real + a.Kmag*b.Imag,
		Kmag: a.Real*b.Kmag + a.Imag*b.Jmag - a.Jmag*b.Imag + a.Kmag*b.Real,
	}
}

func qconj(a quat.Number) quat.Number {
	return quat.Number{Real: a.Real, Imag: -a.Imag, Jmag: -a.Jmag, Kmag: -a.Kmag}
}

func qscale(s float64, a quat.Number) quat.Number {
	return quat.Number{Real: s * a.Real, Imag: s * a.Imag, Jmag: s * a.Jmag, Kmag: s * a.Kmag}
}

func qadd(a, b quat.Number) quat.Number {
	return quat.Number{Real: a.Real + b.Real, Imag: a.Imag + b.Imag, Jmag: a.Jmag + b.Jmag, Kmag: a.Kmag + b.Kmag}
}

func qsub(a, b quat.Number) quat.Number { return qadd(a, qscale(-1, b)) }

func qdot(a, b quat.Number) float64 {
	return a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
}

func qnorm(a quat.Number) float64 { return math.Sqrt(qdot(a, a)) }

func qnormalize(a quat.Number) quat.Number {
	n := qnorm(a)
	if n == 0 {
		return quat.Number{Real: 1}
	}
	return qscale(1/n, a)
}

// qidentity is the identity rotation.
var qidentity = quat.Number{Real: 1}

// qfromAxisAngle builds a unit quaternion rotating by angle (radians) about
// the given unit axis.
func qfromAxisAngle(axis [3]float64, angle float64) quat.Number {
	half := angle / 2
	s := math.Sin(half)
	return quat.Number{Real: math.Cos(half), Imag: axis[0] * s, Jmag: axis[1] * s, Kmag: axis[2] * s}
}

// qrotate applies q as a sandwich-product rotation to vector v.
func qrotate(q quat.Number, v [3]float64) [3]float64 {
	vq := quat.Number{Imag: v[0], Jmag: v[1], Kmag: v[2]}
	r := qmul(qmul(q, vq), qconj(q))
	return [3]float64{r.Imag, r.Jmag, r.Kmag}
}

// qfromMatrix converts a proper-orthogonal rotation matrix to a unit
// quaternion (Shepperd's method, numerically robust across all rotations).
func qfromMatrix(m [3][3]float64) quat.Number {
	tr := m[0][0] + m[1][1] + m[2][2]
	var w, x, y, z float64
	switch {
	case tr > 0:
		S := math.Sqrt(tr+1.0) * 2
		w = 0.25 * S
		x = (m[2][1] - m[1][2]) / S
		y = (m[0][2] - m[2][0]) / S
		z = (m[1][0] - m[0][1]) / S
	case m[0][0] > m[1][1] && m[0][0] > m[2][2]:
		S := math.Sqrt(1.0+m[0][0]-m[1][1]-m[2][2]) * 2
		w = (m[2][1] - m[1][2]) / S
		x = 0.25 * S
		y = (m[0][1] + m[1][0]) / S
		z = (m[0][2] + m[2][0]) / S
	case m[1][1] > m[2][2]:
		S := math.Sqrt(1.0+m[1][1]-m[0][0]-m[2][2]) * 2
		w = (m[0][2] - m[2][0]) / S
		x = (m[0][1] + m[1][0]) / S
		y = 0.25 * S
		z = (m[1][2] + m[2][1]) / S
	default:
		S := math.Sqrt(1.0+m[2][2]-m[0][0]-m[1][1]) * 2
		w = (m[1][0] - m[0][1]) / S
		x = (m[0][2] + m[2][0]) / S
		y = (m[1][2] + m[2][1]) / S
		z = 0.25 * S
	}
	return qnormalize(quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z})
}

// qslerp spherically interpolates between q0 and q1 at fraction t in [0,1],
// taking the short way around (flipping q1's sign when the dot product is
// negative) and falling back to linear interpolation plus renormalization
// when the two quaternions are nearly parallel.
func qslerp(q0, q1 quat.Number, t float64) quat.Number {
	dot := qdot(q0, q1)
	if dot < 0 {
		q1 = qscale(-1, q1)
		dot = -dot
	}
	if dot > 0.9995 {
		return qnormalize(qadd(q0, qscale(t, qsub(q1, q0))))
	}
	theta0 := math.Acos(dot)
	theta := theta0 * t
	q2 := qnormalize(qsub(q1, qscale(dot, q0)))
	return qadd(qscale(math.Cos(theta), q0), qscale(math.Sin(theta), q2))
}
