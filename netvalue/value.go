package netvalue

import (
	"github.com/spacemeshos/go-netvalue/common/types"
)

// largeEpsilon is the sub-frame below which a sample is taken as exactly on the frame.
const largeEpsilon = 0.00005

type (
	// Scalar is a replicated float32.
	Scalar = Value[float32, Lerp[float32]]
	// Position is a replicated point in world space.
	Position = Value[types.Vector3, VectorTraits]
	// Rotation is a replicated orientation.
	Rotation = Value[types.Quaternion, QuaternionTraits]
)

// reconstructCache keeps reconstructed values for frame and frame+1.
type reconstructCache[T any] struct {
	valid   bool
	frame   types.FrameID
	penalty uint32
	values  [2]T
}

// Value stores a property at multiple frames of a sliding window.
//
// Once set, a Value keeps at least one stored frame forever. The server side treats
// stored frames as reliable and piecewise-continuous (SampleValid); the client side
// fills in missing frames from their neighbours (RepairAndSample).
//
// The zero Value must be resized before use. Value is not safe for concurrent use:
// writes and reads of one instance must come from a single owner.
type Value[T any, P Traits[T]] struct {
	occupancy Occupancy
	values    []T
	traits    P
	cache     reconstructCache[T]
}

// NewValue returns a Value with the given capacity.
func NewValue[T any, P Traits[T]](capacity uint32) *Value[T, P] {
	v := &Value[T, P]{}
	v.Resize(capacity)
	return v
}

// Resize drops all stored frames and sets the window size. Capacity must be positive.
func (v *Value[T, P]) Resize(capacity uint32) {
	v.occupancy.Resize(capacity)
	v.values = make([]T, capacity)
	v.cache = reconstructCache[T]{}
}

// IsInitialized returns true once any frame was stored since the last Resize.
func (v *Value[T, P]) IsInitialized() bool {
	return v.occupancy.IsInitialized()
}

// Capacity returns the window size.
func (v *Value[T, P]) Capacity() uint32 {
	return v.occupancy.Capacity()
}

// FirstFrame returns the oldest frame of the window.
func (v *Value[T, P]) FirstFrame() types.FrameID {
	return v.occupancy.FirstFrame()
}

// LastFrame returns the newest frame of the window.
func (v *Value[T, P]) LastFrame() types.FrameID {
	return v.occupancy.LastFrame()
}

// HasFrame returns true if a value was stored for frame and is still in the window.
func (v *Value[T, P]) HasFrame(frame types.FrameID) bool {
	return v.occupancy.HasFrame(frame)
}

// FindReconstructionBase returns the stored frames a value for frame would be reconstructed from.
func (v *Value[T, P]) FindReconstructionBase(frame types.FrameID) ReconstructionBase {
	return v.occupancy.FindReconstructionBase(frame)
}

// Set stores value for frame, overwriting any previous value of that frame.
// Frames older than the window are dropped and false is returned.
func (v *Value[T, P]) Set(frame types.FrameID, value T) bool {
	if !v.occupancy.AllocateFrame(frame) {
		return false
	}
	v.values[v.occupancy.mustIndex(frame)] = value
	v.cache.valid = false
	return true
}

// Raw returns the value stored for frame.
func (v *Value[T, P]) Raw(frame types.FrameID) (T, bool) {
	if index, ok := v.occupancy.allocatedIndex(frame); ok {
		return v.values[index], true
	}
	var empty T
	return empty, false
}

// ClosestRaw returns the stored value closest to frame. Past values take precedence.
// Must not be called before the first Set.
func (v *Value[T, P]) ClosestRaw(frame types.FrameID) T {
	return v.at(v.occupancy.ClosestAllocatedFrame(frame))
}

func (v *Value[T, P]) at(frame types.FrameID) T {
	return v.values[v.occupancy.mustIndex(frame)]
}

// SampleValid samples the value the way an authoritative side does: stored frames
// are returned exactly, consecutive stored frames are interpolated and anything
// else falls back to the closest stored value. Must not be called before the first Set.
func (v *Value[T, P]) SampleValid(t types.NetworkTime) T {
	index, ok := v.occupancy.allocatedIndex(t.Frame)
	if ok && t.SubFrame < largeEpsilon {
		return v.values[index]
	}
	if ok {
		if next, ok := v.occupancy.allocatedIndex(t.Frame + 1); ok {
			return v.traits.Interpolate(v.values[index], v.values[next], t.SubFrame)
		}
	}
	return v.ClosestRaw(t.Frame)
}

// RepairAndSample samples the value the way a client does: missing frames are
// reconstructed from their stored neighbours and the result is interpolated
// between the frame and the next one. Returns false if nothing was stored yet.
//
// Frames past the newest stored one are projected forward for at most
// maxExtrapolationPenalty frames and held after that; zero holds the newest value.
//
// Reconstructed values for the sampled frame pair are cached, so sampling
// consecutive frames costs one reconstruction per frame.
func (v *Value[T, P]) RepairAndSample(t types.NetworkTime, maxExtrapolationPenalty uint32) (T, bool) {
	if !v.occupancy.IsInitialized() {
		var empty T
		return empty, false
	}

	c := &v.cache
	if !c.valid || c.penalty != maxExtrapolationPenalty || c.frame != t.Frame {
		if c.valid && c.penalty == maxExtrapolationPenalty && c.frame+1 == t.Frame {
			c.values[0] = c.values[1]
		} else {
			c.values[0] = v.reconstruct(t.Frame, maxExtrapolationPenalty)
		}
		c.values[1] = v.reconstruct(t.Frame+1, maxExtrapolationPenalty)
		c.frame = t.Frame
		c.penalty = maxExtrapolationPenalty
		c.valid = true
	}
	return v.traits.Interpolate(c.values[0], c.values[1], t.SubFrame), true
}

// ReconstructedValue returns the value at frame, interpolating between stored
// neighbours when the frame itself is missing. Frames past the newest stored one
// get the newest value. Must not be called before the first Set.
func (v *Value[T, P]) ReconstructedValue(frame types.FrameID) T {
	return v.reconstruct(frame, 0)
}

func (v *Value[T, P]) reconstruct(frame types.FrameID, penalty uint32) T {
	base := v.occupancy.FindReconstructionBase(frame)
	switch base.Mode {
	case ReconstructInterpolate:
		factor := FrameInterpolationFactor(base.First, base.Last, frame)
		return v.traits.Interpolate(v.at(base.First), v.at(base.Last), factor)
	case ReconstructExtrapolate:
		return v.extrapolate(base.Last, uint32(frame.Distance(base.Last)), penalty)
	default:
		return v.at(base.Last)
	}
}

// extrapolate projects the value at last forward by min(steps, penalty) frames,
// one frame at a time.
func (v *Value[T, P]) extrapolate(last types.FrameID, steps, penalty uint32) T {
	current := v.at(last)
	if penalty == 0 {
		return current
	}
	previous, ok := v.frameBefore(last)
	if !ok {
		return current
	}
	steps = min(steps, penalty)
	for range steps {
		previous, current = current, v.traits.Extrapolate(previous, current)
	}
	return current
}

// frameBefore returns the value one frame before the stored frame,
// interpolated if that frame itself is missing.
func (v *Value[T, P]) frameBefore(frame types.FrameID) (T, bool) {
	target := frame - 1
	prev, ok := v.occupancy.FindClosestAllocatedFrame(target, true, false)
	if !ok {
		var empty T
		return empty, false
	}
	if prev == target {
		return v.at(prev), true
	}
	factor := FrameInterpolationFactor(prev, frame, target)
	return v.traits.Interpolate(v.at(prev), v.at(frame), factor), true
}
