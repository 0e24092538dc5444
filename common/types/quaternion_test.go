package types

import (
	"bytes"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/spacemeshos/go-scale"
	"github.com/stretchr/testify/require"
)

var up = Vector3{Y: 1}

func TestQuaternionMul(t *testing.T) {
	yaw90 := QuaternionFromAxisAngle(up, math.Pi/2)
	pitch90 := QuaternionFromAxisAngle(Vector3{X: 1}, math.Pi/2)

	require.True(t, yaw90.Mul(yaw90).Equivalent(QuaternionFromAxisAngle(up, math.Pi), 1e-5))
	require.False(t, yaw90.Mul(pitch90).Equivalent(pitch90.Mul(yaw90), 1e-3))
	require.True(t, yaw90.Mul(yaw90.Inverse()).Equivalent(IdentityQuaternion, 1e-5))
}

func TestQuaternionRotate(t *testing.T) {
	yaw90 := QuaternionFromAxisAngle(up, math.Pi/2)
	got := yaw90.Rotate(Vector3{X: 1})
	require.Empty(t, cmp.Diff(Vector3{Z: -1}, got, cmpopts.EquateApprox(0, 1e-5)))
}

func TestQuaternionSlerp(t *testing.T) {
	a := QuaternionFromAxisAngle(up, 0.2)
	b := QuaternionFromAxisAngle(up, 1.0)

	require.Equal(t, a, a.Slerp(b, 0))
	require.True(t, a.Slerp(b, 1).Equivalent(b, 1e-5))
	require.True(t, a.Slerp(b, 0.5).Equivalent(QuaternionFromAxisAngle(up, 0.6), 1e-5))
	require.True(t, a.Slerp(a, 0.3).Equivalent(a, 1e-5))

	t.Run("shortest arc", func(t *testing.T) {
		neg := b.Scale(-1)
		require.True(t, a.Slerp(neg, 0.5).Equivalent(QuaternionFromAxisAngle(up, 0.6), 1e-5))
	})
}

func TestQuaternionAngleTo(t *testing.T) {
	for _, axis := range []Vector3{{X: 1}, {Y: 1}, {Z: 1}, {X: 1, Y: 1}, {X: -0.3, Y: 2, Z: 0.7}} {
		for _, angle := range []float64{0, 0.1, 0.7, 1, math.Pi / 2, 3, 2 * math.Pi} {
			q := QuaternionFromAxisAngle(axis, angle)
			require.Zero(t, q.AngleTo(q), "axis %v angle %v", axis, angle)
			require.Zero(t, q.AngleTo(q.Scale(-1)), "axis %v angle %v", axis, angle)
			require.True(t, q.Equivalent(q, 1e-9))

			delta := QuaternionFromAxisAngle(axis, 0.25)
			require.InDelta(t, 0.25, q.AngleTo(q.Mul(delta)), 1e-5, "axis %v angle %v", axis, angle)
		}
	}
	require.InDelta(t, math.Pi, IdentityQuaternion.AngleTo(QuaternionFromAxisAngle(up, math.Pi)), 1e-6)
}

func TestVectorLerp(t *testing.T) {
	a := Vector3{1, 2, 3}
	b := Vector3{-3, 0.5, 7}
	require.Equal(t, a, a.Lerp(b, 0))
	require.Equal(t, b, a.Lerp(b, 1))
	require.Empty(t, cmp.Diff(Vector3{-1, 1.25, 5}, a.Lerp(b, 0.5), cmpopts.EquateApprox(0, 1e-6)))
}

func TestFloatsScale(t *testing.T) {
	v := Vector3{X: 1.5, Y: float32(math.Inf(-1)), Z: -0.1}
	q := QuaternionFromAxisAngle(Vector3{1, 1, 0}, 2.5)
	f := FrameID(1 << 30)

	var buf bytes.Buffer
	enc := scale.NewEncoder(&buf)
	_, err := v.EncodeScale(enc)
	require.NoError(t, err)
	_, err = q.EncodeScale(enc)
	require.NoError(t, err)
	_, err = f.EncodeScale(enc)
	require.NoError(t, err)

	var (
		gotV Vector3
		gotQ Quaternion
		gotF FrameID
	)
	dec := scale.NewDecoder(&buf)
	_, err = gotV.DecodeScale(dec)
	require.NoError(t, err)
	_, err = gotQ.DecodeScale(dec)
	require.NoError(t, err)
	_, err = gotF.DecodeScale(dec)
	require.NoError(t, err)
	require.Equal(t, v, gotV)
	require.Equal(t, q, gotQ)
	require.Equal(t, f, gotF)
}
