package sim

import (
	"math"
	"math/rand"

	"github.com/spacemeshos/go-netvalue/common/types"
)

var up = types.Vector3{Y: 1}

// Motion is the authoritative trajectory of an object.
// Objects circle around a center while facing the direction of travel,
// health oscillates around 50.
type Motion struct {
	Center    types.Vector3
	Radius    float64
	Speed     float64 // radians per frame
	Phase     float64
	Amplitude float64
}

func randomMotion(rng *rand.Rand) Motion {
	return Motion{
		Center: types.Vector3{
			X: float32(rng.Float64()*200 - 100),
			Z: float32(rng.Float64()*200 - 100),
		},
		Radius:    5 + rng.Float64()*15,
		Speed:     0.01 + rng.Float64()*0.04,
		Phase:     rng.Float64() * 2 * math.Pi,
		Amplitude: 10 + rng.Float64()*20,
	}
}

func (m Motion) angle(t float64) float64 {
	return m.Phase + m.Speed*t
}

// Position at t frames since the start.
func (m Motion) Position(t float64) types.Vector3 {
	a := m.angle(t)
	return m.Center.Add(types.Vector3{
		X: float32(m.Radius * math.Cos(a)),
		Z: float32(m.Radius * math.Sin(a)),
	})
}

// Rotation at t frames since the start.
func (m Motion) Rotation(t float64) types.Quaternion {
	return types.QuaternionFromAxisAngle(up, math.Mod(m.angle(t), 2*math.Pi))
}

// Health at t frames since the start.
func (m Motion) Health(t float64) float32 {
	return float32(50 + m.Amplitude*math.Sin(2*m.angle(t)))
}
