package netvalue_test

import (
	"math"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/go-netvalue/common/types"
	"github.com/spacemeshos/go-netvalue/netvalue"
)

func nt(frame types.FrameID, sub float32) types.NetworkTime {
	return types.NetworkTime{Frame: frame, SubFrame: sub}
}

func TestValueSetRaw(t *testing.T) {
	v := netvalue.NewValue[float32, netvalue.Lerp[float32]](8)
	_, ok := v.Raw(10)
	require.False(t, ok)
	require.False(t, v.IsInitialized())

	require.True(t, v.Set(10, 1))
	got, ok := v.Raw(10)
	require.True(t, ok)
	require.Equal(t, float32(1), got)

	t.Run("newer frame keeps older", func(t *testing.T) {
		require.True(t, v.Set(14, 5))
		got, ok := v.Raw(14)
		require.True(t, ok)
		require.Equal(t, float32(5), got)
		got, ok = v.Raw(10)
		require.True(t, ok)
		require.Equal(t, float32(1), got)
	})
	t.Run("out of order inside window", func(t *testing.T) {
		require.True(t, v.Set(12, 3))
		got, ok := v.Raw(12)
		require.True(t, ok)
		require.Equal(t, float32(3), got)
		require.Equal(t, types.FrameID(14), v.LastFrame())
	})
	t.Run("overwrite", func(t *testing.T) {
		require.True(t, v.Set(12, 30))
		got, ok := v.Raw(12)
		require.True(t, ok)
		require.Equal(t, float32(30), got)
	})
	t.Run("stale write is dropped", func(t *testing.T) {
		stale := v.FirstFrame() - 1
		_, ok := v.Raw(stale)
		require.False(t, ok)
		require.False(t, v.Set(stale, 100))
		_, ok = v.Raw(stale)
		require.False(t, ok)
	})
	t.Run("resize drops everything", func(t *testing.T) {
		v.Resize(4)
		require.False(t, v.IsInitialized())
		_, ok := v.Raw(14)
		require.False(t, ok)
	})
}

func TestValueEviction(t *testing.T) {
	v := netvalue.NewValue[float32, netvalue.Lerp[float32]](4)
	v.Set(0, 1)
	v.Set(10, 2)
	require.Equal(t, types.FrameID(7), v.FirstFrame())
	require.False(t, v.HasFrame(0))
	_, ok := v.Raw(0)
	require.False(t, ok)
	require.Equal(t, float32(2), v.ClosestRaw(0))
}

func TestValueGaps(t *testing.T) {
	v := &netvalue.Scalar{}
	v.Resize(4)
	v.Set(100, 1)
	v.Set(103, 4)

	require.False(t, v.HasFrame(101))
	require.False(t, v.HasFrame(102))
	require.Equal(t, float32(1), v.ClosestRaw(101))
	require.Equal(t, float32(1), v.ClosestRaw(102))
	require.InDelta(t, 2.0, v.ReconstructedValue(101), 1e-5)
	require.InDelta(t, 3.0, v.ReconstructedValue(102), 1e-5)
	require.Equal(t, float32(4), v.ReconstructedValue(103))
	require.Equal(t, float32(4), v.ReconstructedValue(110))
	require.Equal(t, float32(1), v.ReconstructedValue(50))
}

func TestSampleValid(t *testing.T) {
	v := netvalue.NewValue[float32, netvalue.Lerp[float32]](8)
	v.Set(10, 1)
	v.Set(11, 3)
	v.Set(14, 10)

	t.Run("exact", func(t *testing.T) {
		require.Equal(t, float32(1), v.SampleValid(nt(10, 0)))
		require.Equal(t, float32(3), v.SampleValid(nt(11, 0)))
		require.Equal(t, float32(10), v.SampleValid(nt(14, 0.00001)))
	})
	t.Run("consecutive frames are interpolated", func(t *testing.T) {
		lerp := netvalue.Lerp[float32]{}
		for _, sub := range []float32{0.1, 0.25, 0.5, 0.9} {
			require.Equal(t, lerp.Interpolate(1, 3, sub), v.SampleValid(nt(10, sub)))
		}
	})
	t.Run("gap is not interpolated", func(t *testing.T) {
		require.Equal(t, float32(3), v.SampleValid(nt(11, 0.5)))
		require.Equal(t, float32(3), v.SampleValid(nt(12, 0.5)))
		require.Equal(t, float32(10), v.SampleValid(nt(14, 0.5)))
		require.Equal(t, float32(10), v.SampleValid(nt(20, 0)))
		require.Equal(t, float32(1), v.SampleValid(nt(5, 0)))
	})
}

func TestRepairAndSample(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		v := netvalue.NewValue[float32, netvalue.Lerp[float32]](8)
		_, ok := v.RepairAndSample(nt(10, 0.5), 0)
		require.False(t, ok)
	})
	t.Run("reconstructs gap", func(t *testing.T) {
		v := netvalue.NewValue[float32, netvalue.Lerp[float32]](8)
		v.Set(100, 1)
		v.Set(103, 4)
		got, ok := v.RepairAndSample(nt(101, 0), 0)
		require.True(t, ok)
		require.InDelta(t, 2.0, got, 1e-5)
		got, ok = v.RepairAndSample(nt(101, 0.5), 0)
		require.True(t, ok)
		require.InDelta(t, 2.5, got, 1e-5)
		got, ok = v.RepairAndSample(nt(102, 0.5), 0)
		require.True(t, ok)
		require.InDelta(t, 3.5, got, 1e-5)
	})
	t.Run("holds past the last frame", func(t *testing.T) {
		v := netvalue.NewValue[float32, netvalue.Lerp[float32]](8)
		v.Set(100, 1)
		v.Set(101, 2)
		got, ok := v.RepairAndSample(nt(103, 0.5), 0)
		require.True(t, ok)
		require.Equal(t, float32(2), got)
	})
	t.Run("new data refreshes cached frames", func(t *testing.T) {
		v := netvalue.NewValue[float32, netvalue.Lerp[float32]](8)
		v.Set(100, 1)
		v.Set(104, 5)
		got, _ := v.RepairAndSample(nt(102, 0), 0)
		require.InDelta(t, 3.0, got, 1e-5)
		v.Set(102, 10)
		got, _ = v.RepairAndSample(nt(102, 0), 0)
		require.Equal(t, float32(10), got)
		got, _ = v.RepairAndSample(nt(103, 0), 0)
		require.InDelta(t, 7.5, got, 1e-5)
	})
}

func TestRepairAndSampleExtrapolation(t *testing.T) {
	v := netvalue.NewValue[float32, netvalue.Lerp[float32]](16)
	v.Set(100, 10)
	v.Set(101, 11)
	v.Set(103, 13)

	for _, tc := range []struct {
		desc    string
		frame   types.FrameID
		penalty uint32
		expect  float32
	}{
		{"disabled", 106, 0, 13},
		{"within penalty", 105, 4, 15},
		{"clamped by penalty", 110, 2, 15},
		{"at last frame", 103, 4, 13},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			got, ok := v.RepairAndSample(nt(tc.frame, 0), tc.penalty)
			require.True(t, ok)
			require.InDelta(t, tc.expect, got, 1e-4)
		})
	}

	t.Run("single frame is held", func(t *testing.T) {
		v := netvalue.NewValue[float32, netvalue.Lerp[float32]](16)
		v.Set(100, 10)
		got, ok := v.RepairAndSample(nt(104, 0), 8)
		require.True(t, ok)
		require.Equal(t, float32(10), got)
	})
}

func TestRepairAndSampleSequential(t *testing.T) {
	const capacity = 16
	f := fuzz.NewWithSeed(1001).NilChance(0)
	for i := 0; i < 50; i++ {
		v := netvalue.NewValue[types.Vector3, netvalue.VectorTraits](capacity)
		var present [40]bool
		f.Fuzz(&present)
		present[0] = true
		for j, ok := range present {
			if ok {
				var val types.Vector3
				f.Fuzz(&val)
				v.Set(types.FrameID(10+j), sanitize(val))
			}
		}

		traits := netvalue.VectorTraits{}
		for frame := types.FrameID(10); frame < 55; frame++ {
			for _, sub := range []float32{0, 0.3, 0.7} {
				got, ok := v.RepairAndSample(nt(frame, sub), 0)
				require.True(t, ok)
				expect := traits.Interpolate(v.ReconstructedValue(frame), v.ReconstructedValue(frame+1), sub)
				require.Equal(t, expect, got, "frame %d sub %v", frame, sub)
			}
		}
	}
}

// sanitize keeps fuzzed floats finite, so that reconstructed values can be compared.
func sanitize(v types.Vector3) types.Vector3 {
	clean := func(x float32) float32 {
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return 0
		}
		return float32(math.Mod(float64(x), 1e6))
	}
	return types.Vector3{X: clean(v.X), Y: clean(v.Y), Z: clean(v.Z)}
}

// TestSetMatchesModel checks stored frames against a plain map that evicts
// everything older than the window.
func TestSetMatchesModel(t *testing.T) {
	const capacity = 8
	type op struct {
		Step  uint8
		Back  uint8
		Value float32
	}
	f := fuzz.NewWithSeed(77).NilChance(0).NumElements(50, 200)
	for i := 0; i < 20; i++ {
		var ops []op
		f.Fuzz(&ops)

		v := netvalue.NewValue[float32, netvalue.Lerp[float32]](capacity)
		model := map[types.FrameID]float32{}
		var (
			cursor      = types.FrameID(math.MaxUint32 - 40)
			initialized bool
			last        types.FrameID
		)
		for _, o := range ops {
			cursor += types.FrameID(o.Step % 4)
			frame := cursor - types.FrameID(o.Back%12)
			accepted := v.Set(frame, o.Value)

			switch {
			case !initialized:
				initialized = true
				last = frame
				require.True(t, accepted)
			case frame.After(last):
				last = frame
				require.True(t, accepted)
			default:
				require.Equal(t, last.Distance(frame) < capacity, accepted)
			}
			if accepted {
				model[frame] = o.Value
			}
			for k := range model {
				if last.Distance(k) >= capacity {
					delete(model, k)
				}
			}

			require.Equal(t, last, v.LastFrame())
			for frame := last - capacity - 2; frame != last+3; frame++ {
				got, ok := v.Raw(frame)
				expect, exists := model[frame]
				require.Equal(t, exists, ok, "frame %d", frame)
				if exists {
					require.Equal(t, math.Float32bits(expect), math.Float32bits(got))
				}
			}
			require.True(t, v.HasFrame(last))
		}
	}
}
