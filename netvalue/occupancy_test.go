package netvalue

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/go-netvalue/common/types"
)

func newOccupancy(tb testing.TB, capacity uint32, frames ...types.FrameID) *Occupancy {
	tb.Helper()
	o := &Occupancy{}
	o.Resize(capacity)
	for _, f := range frames {
		require.True(tb, o.AllocateFrame(f))
	}
	return o
}

func TestOccupancyResize(t *testing.T) {
	require.Panics(t, func() { (&Occupancy{}).Resize(0) })
	require.Panics(t, func() { (&Occupancy{}).AllocateFrame(1) })

	o := newOccupancy(t, 4, 10, 11)
	require.True(t, o.IsInitialized())
	o.Resize(8)
	require.False(t, o.IsInitialized())
	require.Equal(t, uint32(8), o.Capacity())
	require.False(t, o.HasFrame(10))
	require.False(t, o.HasFrame(11))
}

func TestAllocateFrame(t *testing.T) {
	t.Run("first frame initializes", func(t *testing.T) {
		o := newOccupancy(t, 4)
		require.False(t, o.IsInitialized())
		require.True(t, o.AllocateFrame(100))
		require.True(t, o.IsInitialized())
		require.Equal(t, types.FrameID(100), o.LastFrame())
		require.Equal(t, types.FrameID(97), o.FirstFrame())
		require.True(t, o.HasFrame(100))
		require.False(t, o.HasFrame(99))
	})
	t.Run("roll forward clears skipped frames", func(t *testing.T) {
		o := newOccupancy(t, 4, 100, 103)
		require.True(t, o.HasFrame(100))
		require.False(t, o.HasFrame(101))
		require.False(t, o.HasFrame(102))
		require.True(t, o.HasFrame(103))
	})
	t.Run("roll beyond capacity", func(t *testing.T) {
		o := newOccupancy(t, 4, 0, 10)
		require.Equal(t, types.FrameID(7), o.FirstFrame())
		require.Equal(t, types.FrameID(10), o.LastFrame())
		require.False(t, o.HasFrame(0))
		for f := types.FrameID(7); f < 10; f++ {
			require.False(t, o.HasFrame(f))
		}
		require.True(t, o.HasFrame(10))
	})
	t.Run("evicted slot is not reused", func(t *testing.T) {
		o := newOccupancy(t, 4, 0, 1, 2, 3)
		require.True(t, o.AllocateFrame(5))
		// slot of frame 1 now belongs to frame 5, slot of frame 0 to frame 4
		require.False(t, o.HasFrame(1))
		require.False(t, o.HasFrame(4))
		require.True(t, o.HasFrame(2))
		require.True(t, o.HasFrame(3))
	})
	t.Run("past frame inside window", func(t *testing.T) {
		o := newOccupancy(t, 4, 100, 103)
		require.True(t, o.AllocateFrame(101))
		require.True(t, o.HasFrame(101))
		require.True(t, o.AllocateFrame(101))
		require.Equal(t, types.FrameID(103), o.LastFrame())
	})
	t.Run("frame older than window", func(t *testing.T) {
		o := newOccupancy(t, 4, 100, 103)
		require.False(t, o.AllocateFrame(99))
		require.False(t, o.HasFrame(99))
		require.Equal(t, types.FrameID(103), o.LastFrame())
	})
	t.Run("across wrap", func(t *testing.T) {
		o := newOccupancy(t, 8, math.MaxUint32-2, 1)
		require.Equal(t, types.FrameID(1), o.LastFrame())
		require.True(t, o.HasFrame(math.MaxUint32-2))
		require.False(t, o.HasFrame(math.MaxUint32))
		require.False(t, o.HasFrame(0))
		require.True(t, o.AllocateFrame(math.MaxUint32))
		require.True(t, o.HasFrame(math.MaxUint32))
		require.Equal(t, types.FrameID(1), o.LastFrame())
	})
}

func TestFindClosestAllocatedFrame(t *testing.T) {
	o := newOccupancy(t, 8, 100, 102, 105)
	for _, tc := range []struct {
		desc         string
		frame        types.FrameID
		past, future bool
		expect       types.FrameID
		found        bool
	}{
		{"exact", 102, false, false, 102, true},
		{"past", 104, true, false, 102, true},
		{"future", 103, false, true, 105, true},
		{"past first", 101, true, true, 100, true},
		{"only future", 99, true, true, 100, true},
		{"older than window", 90, true, false, 0, false},
		{"ahead of window", 110, true, false, 105, true},
		{"nothing ahead", 110, false, true, 0, false},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			frame, found := o.FindClosestAllocatedFrame(tc.frame, tc.past, tc.future)
			require.Equal(t, tc.found, found)
			require.Equal(t, tc.expect, frame)
		})
	}

	require.Equal(t, types.FrameID(100), o.ClosestAllocatedFrame(101))
	require.Equal(t, types.FrameID(100), o.ClosestAllocatedFrame(50))
	require.Panics(t, func() { newOccupancy(t, 4).ClosestAllocatedFrame(1) })
}

func TestFindReconstructionBase(t *testing.T) {
	o := newOccupancy(t, 8, 100, 102, 105)
	for _, tc := range []struct {
		desc   string
		frame  types.FrameID
		expect ReconstructionBase
	}{
		{"exact", 102, ReconstructionBase{ReconstructNone, 102, 102}},
		{"interpolate", 103, ReconstructionBase{ReconstructInterpolate, 102, 105}},
		{"older than window", 90, ReconstructionBase{ReconstructNone, 100, 100}},
		{"ahead of window", 107, ReconstructionBase{ReconstructExtrapolate, 100, 105}},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			require.Equal(t, tc.expect, o.FindReconstructionBase(tc.frame))
		})
	}
	require.Equal(t, "interpolate", ReconstructInterpolate.String())
}

func TestFrameInterpolationFactor(t *testing.T) {
	require.InDelta(t, 1.0/3, FrameInterpolationFactor(100, 103, 101), 1e-6)
	require.Zero(t, FrameInterpolationFactor(100, 100, 100))
	require.Zero(t, FrameInterpolationFactor(100, 103, 90))
	require.Equal(t, float32(1), FrameInterpolationFactor(100, 103, 110))
	require.InDelta(t, 0.5, FrameInterpolationFactor(math.MaxUint32, 1, 0), 1e-6)
}
