package types

import (
	"fmt"
	"math"

	"github.com/spacemeshos/go-scale"
	"go.uber.org/zap/zapcore"
)

// IdentityQuaternion is the rotation that does nothing.
var IdentityQuaternion = Quaternion{W: 1}

// Quaternion is an orientation. Multiplication composes rotations and is not commutative.
type Quaternion struct {
	W, X, Y, Z float32
}

// QuaternionFromAxisAngle returns a rotation of angle radians around axis.
func QuaternionFromAxisAngle(axis Vector3, angle float64) Quaternion {
	axis = axis.Normalized()
	sin, cos := math.Sincos(angle / 2)
	return Quaternion{
		W: float32(cos),
		X: axis.X * float32(sin),
		Y: axis.Y * float32(sin),
		Z: axis.Z * float32(sin),
	}
}

// Mul returns q * o, which applies o first and q second.
func (q Quaternion) Mul(o Quaternion) Quaternion {
	return Quaternion{
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y + q.Y*o.W + q.Z*o.X - q.X*o.Z,
		Z: q.W*o.Z + q.Z*o.W + q.X*o.Y - q.Y*o.X,
	}
}

// Add returns the component-wise sum.
func (q Quaternion) Add(o Quaternion) Quaternion {
	return Quaternion{q.W + o.W, q.X + o.X, q.Y + o.Y, q.Z + o.Z}
}

// Scale returns q with all components multiplied by s.
func (q Quaternion) Scale(s float32) Quaternion {
	return Quaternion{q.W * s, q.X * s, q.Y * s, q.Z * s}
}

// Dot returns the 4D dot product.
func (q Quaternion) Dot(o Quaternion) float32 {
	return q.W*o.W + q.X*o.X + q.Y*o.Y + q.Z*o.Z
}

// Conjugate returns q with the vector part negated.
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{q.W, -q.X, -q.Y, -q.Z}
}

// Inverse returns the multiplicative inverse. Degenerate quaternions invert to identity.
func (q Quaternion) Inverse() Quaternion {
	lenSq := q.Dot(q)
	switch {
	case lenSq == 1:
		return q.Conjugate()
	case lenSq >= 1e-8:
		return q.Conjugate().Scale(1 / lenSq)
	default:
		return IdentityQuaternion
	}
}

// Normalized returns q scaled to unit length.
func (q Quaternion) Normalized() Quaternion {
	lenSq := q.Dot(q)
	if lenSq == 1 || lenSq == 0 {
		return q
	}
	return q.Scale(float32(1 / math.Sqrt(float64(lenSq))))
}

// Slerp blends q towards o along the shortest arc.
// Slerp(o, 0) is exactly q; Slerp(o, 1) is o, possibly with flipped sign.
func (q Quaternion) Slerp(o Quaternion, t float32) Quaternion {
	cos := float64(q.Dot(o))
	var sign float32 = 1
	if cos < 0 {
		cos = -cos
		sign = -1
	}
	cos = math.Min(cos, 1)
	angle := math.Acos(cos)
	sin := math.Sin(angle)
	var t1, t2 float32
	if sin > 0.001 {
		t1 = float32(math.Sin((1-float64(t))*angle) / sin)
		t2 = float32(math.Sin(float64(t)*angle) / sin)
	} else {
		t1 = 1 - t
		t2 = t
	}
	return q.Scale(t1).Add(o.Scale(sign * t2))
}

// Rotate applies the rotation to a vector.
func (q Quaternion) Rotate(v Vector3) Vector3 {
	r := q.Mul(Quaternion{X: v.X, Y: v.Y, Z: v.Z}).Mul(q.Inverse())
	return Vector3{r.X, r.Y, r.Z}
}

// AngleTo returns the angle in radians of the rotation taking q to o.
// The relative rotation is computed in float64 and the angle is taken with atan2,
// which stays accurate for nearly equal orientations.
func (q Quaternion) AngleTo(o Quaternion) float64 {
	qw, qx, qy, qz := q.unit()
	ow, ox, oy, oz := o.unit()
	// conjugate(q) * o
	w := qw*ow + qx*ox + qy*oy + qz*oz
	x := qw*ox - qx*ow - qy*oz + qz*oy
	y := qw*oy - qy*ow - qz*ox + qx*oz
	z := qw*oz - qz*ow - qx*oy + qy*ox
	return 2 * math.Atan2(math.Sqrt(x*x+y*y+z*z), math.Abs(w))
}

func (q Quaternion) unit() (w, x, y, z float64) {
	w, x, y, z = float64(q.W), float64(q.X), float64(q.Y), float64(q.Z)
	length := math.Sqrt(w*w + x*x + y*y + z*z)
	if length == 0 {
		return w, x, y, z
	}
	return w / length, x / length, y / length, z / length
}

// Equivalent returns true if both quaternions describe the same orientation
// within eps radians. q and -q are equivalent.
func (q Quaternion) Equivalent(o Quaternion, eps float64) bool {
	return q.AngleTo(o) <= eps
}

func (q Quaternion) String() string {
	return fmt.Sprintf("(%g; %g, %g, %g)", q.W, q.X, q.Y, q.Z)
}

// MarshalLogObject implements logging encoder for Quaternion.
func (q Quaternion) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddFloat32("w", q.W)
	encoder.AddFloat32("x", q.X)
	encoder.AddFloat32("y", q.Y)
	encoder.AddFloat32("z", q.Z)
	return nil
}

// EncodeScale implements scale.Encodable.
func (q *Quaternion) EncodeScale(e *scale.Encoder) (int, error) {
	return encodeFloats(e, q.W, q.X, q.Y, q.Z)
}

// DecodeScale implements scale.Decodable.
func (q *Quaternion) DecodeScale(d *scale.Decoder) (int, error) {
	return decodeFloats(d, &q.W, &q.X, &q.Y, &q.Z)
}
