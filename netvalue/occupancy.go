package netvalue

import (
	"fmt"

	"github.com/spacemeshos/go-netvalue/common/types"
)

// ReconstructionMode tells how a value for a missing frame is derived.
type ReconstructionMode uint8

const (
	// ReconstructNone means a stored value is used as is.
	ReconstructNone ReconstructionMode = iota
	// ReconstructInterpolate means the frame lies between two stored frames.
	ReconstructInterpolate
	// ReconstructExtrapolate means the frame lies after the last stored frame.
	ReconstructExtrapolate
)

func (m ReconstructionMode) String() string {
	switch m {
	case ReconstructNone:
		return "none"
	case ReconstructInterpolate:
		return "interpolate"
	case ReconstructExtrapolate:
		return "extrapolate"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// ReconstructionBase is the pair of stored frames a reconstruction is derived from.
// For ReconstructNone both frames are the same.
type ReconstructionBase struct {
	Mode  ReconstructionMode
	First types.FrameID
	Last  types.FrameID
}

// Occupancy tracks which frames of a sliding window hold a stored value.
//
// The window covers Capacity() frames ending at LastFrame(). It only moves forward:
// allocating a frame ahead of the window rolls it, and frames that fall out of it
// are lost. Once the first frame is allocated the last frame of the window always
// stays allocated.
//
// Occupancy is not safe for concurrent use.
type Occupancy struct {
	initialized bool
	lastFrame   types.FrameID
	lastIndex   uint32
	allocated   []bool
}

// Resize drops all frames and sets the window size. Capacity must be positive.
func (o *Occupancy) Resize(capacity uint32) {
	if capacity == 0 {
		panic("netvalue: capacity must be positive")
	}
	o.initialized = false
	o.lastFrame = 0
	o.lastIndex = 0
	o.allocated = make([]bool, capacity)
}

// IsInitialized returns true once any frame was allocated since the last Resize.
func (o *Occupancy) IsInitialized() bool {
	return o.initialized
}

// Capacity returns the window size.
func (o *Occupancy) Capacity() uint32 {
	return uint32(len(o.allocated))
}

// FirstFrame returns the oldest frame of the window.
func (o *Occupancy) FirstFrame() types.FrameID {
	return o.lastFrame - types.FrameID(o.Capacity()) + 1
}

// LastFrame returns the newest frame of the window.
func (o *Occupancy) LastFrame() types.FrameID {
	return o.lastFrame
}

// frameToIndex resolves the ring slot of a frame inside the window, allocated or not.
func (o *Occupancy) frameToIndex(frame types.FrameID) (uint32, bool) {
	capacity := o.Capacity()
	behind := o.lastFrame.Distance(frame)
	if behind < 0 || uint32(behind) >= capacity {
		return 0, false
	}
	return (o.lastIndex + capacity - uint32(behind)) % capacity, true
}

func (o *Occupancy) mustIndex(frame types.FrameID) uint32 {
	index, ok := o.frameToIndex(frame)
	if !ok {
		panic(fmt.Sprintf("netvalue: frame %d is outside of window [%d, %d]", frame, o.FirstFrame(), o.lastFrame))
	}
	return index
}

func (o *Occupancy) allocatedIndex(frame types.FrameID) (uint32, bool) {
	index, ok := o.frameToIndex(frame)
	if !ok || !o.allocated[index] {
		return 0, false
	}
	return index, true
}

// AllocateFrame marks frame as holding a value.
//
// A frame ahead of the window rolls the window forward; frames skipped by the roll
// become unallocated. A frame inside the window is marked again even if it was
// already allocated. A frame older than the window is ignored and false is returned.
func (o *Occupancy) AllocateFrame(frame types.FrameID) bool {
	if len(o.allocated) == 0 {
		panic("netvalue: allocating frame before resize")
	}

	if !o.initialized {
		o.initialized = true
		o.lastFrame = frame
		o.lastIndex = 0
		o.allocated[o.lastIndex] = true
		return true
	}

	if frame.After(o.lastFrame) {
		capacity := o.Capacity()
		offset := uint32(frame.Distance(o.lastFrame))
		o.lastFrame = frame
		o.lastIndex = (o.lastIndex + offset%capacity) % capacity

		skipped := types.MaxFrame(frame.Sub(offset-1), o.FirstFrame())
		for f := skipped; f != frame; f++ {
			o.allocated[o.mustIndex(f)] = false
		}
		o.allocated[o.lastIndex] = true
		return true
	}

	if index, ok := o.frameToIndex(frame); ok {
		o.allocated[index] = true
		return true
	}
	return false
}

// HasFrame returns true if frame holds a value.
func (o *Occupancy) HasFrame(frame types.FrameID) bool {
	_, ok := o.allocatedIndex(frame)
	return ok
}

// FindClosestAllocatedFrame returns frame itself if it is allocated. Otherwise it
// looks for the nearest allocated frame behind it if searchPast is set, and then
// for the nearest one ahead of it if searchFuture is set.
func (o *Occupancy) FindClosestAllocatedFrame(frame types.FrameID, searchPast, searchFuture bool) (types.FrameID, bool) {
	if o.HasFrame(frame) {
		return frame, true
	}

	first := o.FirstFrame()
	if searchPast && frame.After(first) {
		for f := types.MinFrame(o.lastFrame, frame-1); f != first-1; f-- {
			if o.HasFrame(f) {
				return f, true
			}
		}
	}
	if searchFuture && frame.Before(o.lastFrame) {
		for f := types.MaxFrame(first, frame+1); f != o.lastFrame+1; f++ {
			if o.HasFrame(f) {
				return f, true
			}
		}
	}
	return 0, false
}

// ClosestAllocatedFrame returns the allocated frame nearest to frame, preferring
// past frames. Must not be called before the first allocation.
func (o *Occupancy) ClosestAllocatedFrame(frame types.FrameID) types.FrameID {
	if !o.initialized {
		panic("netvalue: closest frame requested before initialization")
	}
	if closest, ok := o.FindClosestAllocatedFrame(frame, true, true); ok {
		return closest
	}
	return o.lastFrame
}

// FindReconstructionBase picks the stored frames a value for frame is reconstructed from.
func (o *Occupancy) FindReconstructionBase(frame types.FrameID) ReconstructionBase {
	before, hasBefore := o.FindClosestAllocatedFrame(frame, true, false)
	after, hasAfter := o.FindClosestAllocatedFrame(frame, false, true)

	switch {
	case hasBefore && hasAfter:
		if before == after {
			return ReconstructionBase{Mode: ReconstructNone, First: before, Last: after}
		}
		return ReconstructionBase{Mode: ReconstructInterpolate, First: before, Last: after}
	case !hasBefore && !hasAfter:
		panic(fmt.Sprintf("netvalue: no stored frames around %d", frame))
	case !hasBefore:
		// frame is older than anything retained, use the oldest value
		return ReconstructionBase{Mode: ReconstructNone, First: after, Last: after}
	}

	firstValid, ok := o.FindClosestAllocatedFrame(o.FirstFrame(), false, true)
	if !ok || firstValid.After(before) {
		panic(fmt.Sprintf("netvalue: inconsistent window [%d, %d] for frame %d", o.FirstFrame(), o.lastFrame, frame))
	}
	return ReconstructionBase{Mode: ReconstructExtrapolate, First: firstValid, Last: before}
}

// FrameInterpolationFactor returns the position of value between lhs and rhs clamped to [0, 1].
// It is 0 when lhs and rhs are the same frame.
func FrameInterpolationFactor(lhs, rhs, value types.FrameID) float32 {
	maxOffset := rhs.Distance(lhs)
	if maxOffset <= 0 {
		return 0
	}
	factor := float32(value.Distance(lhs)) / float32(maxOffset)
	switch {
	case factor < 0:
		return 0
	case factor > 1:
		return 1
	default:
		return factor
	}
}
