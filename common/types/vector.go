package types

import (
	"fmt"
	"math"

	"github.com/spacemeshos/go-scale"
	"go.uber.org/zap/zapcore"
)

// Vector3 is a position or a displacement in world space.
type Vector3 struct {
	X, Y, Z float32
}

// Add returns v + o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v multiplied by s.
func (v Vector3) Scale(s float32) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product.
func (v Vector3) Dot(o Vector3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Length returns the euclidean length.
func (v Vector3) Length() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// Normalized returns v scaled to unit length. Zero vector is returned as is.
func (v Vector3) Normalized() Vector3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Lerp blends v towards o. Lerp(o, 0) is exactly v and Lerp(o, 1) is exactly o.
func (v Vector3) Lerp(o Vector3, t float32) Vector3 {
	return v.Scale(1 - t).Add(o.Scale(t))
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// MarshalLogObject implements logging encoder for Vector3.
func (v Vector3) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddFloat32("x", v.X)
	encoder.AddFloat32("y", v.Y)
	encoder.AddFloat32("z", v.Z)
	return nil
}

// EncodeScale implements scale.Encodable.
func (v *Vector3) EncodeScale(e *scale.Encoder) (int, error) {
	return encodeFloats(e, v.X, v.Y, v.Z)
}

// DecodeScale implements scale.Decodable.
func (v *Vector3) DecodeScale(d *scale.Decoder) (int, error) {
	return decodeFloats(d, &v.X, &v.Y, &v.Z)
}

// floats are encoded as their IEEE-754 bit patterns, so the wire keeps them exact.
func encodeFloats(e *scale.Encoder, values ...float32) (int, error) {
	var total int
	for _, value := range values {
		n, err := scale.EncodeUint32(e, math.Float32bits(value))
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func decodeFloats(d *scale.Decoder, values ...*float32) (int, error) {
	var total int
	for _, value := range values {
		bits, n, err := scale.DecodeUint32(d)
		if err != nil {
			return total, err
		}
		total += n
		*value = math.Float32frombits(bits)
	}
	return total, nil
}
