package types

import (
	"strconv"

	"github.com/spacemeshos/go-scale"
)

// FrameID is a discrete simulation tick.
//
// Frames are allowed to wrap around, so ordering is defined by the sign of the
// wrapped difference rather than by plain integer comparison. The ordering is
// only meaningful for pairs of frames whose true distance is below 2^31; every
// caller must keep its frame horizon well inside that bound.
type FrameID uint32

// Uint32 returns the frame as uint32.
func (f FrameID) Uint32() uint32 {
	return uint32(f)
}

// Add returns the frame n ticks after f.
func (f FrameID) Add(n uint32) FrameID {
	return f + FrameID(n)
}

// Sub returns the frame n ticks before f.
func (f FrameID) Sub(n uint32) FrameID {
	return f - FrameID(n)
}

// Distance returns the signed number of ticks from other to f.
func (f FrameID) Distance(other FrameID) int32 {
	return int32(f - other)
}

// Compare returns 1 if f is ahead of other, -1 if it is behind and 0 if they are equal.
// The relation is not transitive across more than half of the frame range.
func (f FrameID) Compare(other FrameID) int {
	switch d := f.Distance(other); {
	case d > 0:
		return 1
	case d < 0:
		return -1
	default:
		return 0
	}
}

// After returns true if f is ahead of other.
func (f FrameID) After(other FrameID) bool {
	return f.Compare(other) > 0
}

// Before returns true if f is behind other.
func (f FrameID) Before(other FrameID) bool {
	return f.Compare(other) < 0
}

func (f FrameID) String() string {
	return strconv.FormatUint(uint64(f), 10)
}

// EncodeScale implements scale.Encodable.
func (f FrameID) EncodeScale(e *scale.Encoder) (int, error) {
	return scale.EncodeCompact32(e, uint32(f))
}

// DecodeScale implements scale.Decodable.
func (f *FrameID) DecodeScale(d *scale.Decoder) (int, error) {
	v, n, err := scale.DecodeCompact32(d)
	if err != nil {
		return n, err
	}
	*f = FrameID(v)
	return n, nil
}

// MaxFrame returns the frame that is further ahead.
func MaxFrame(lhs, rhs FrameID) FrameID {
	if lhs.After(rhs) {
		return lhs
	}
	return rhs
}

// MinFrame returns the frame that is further behind.
func MinFrame(lhs, rhs FrameID) FrameID {
	if lhs.Before(rhs) {
		return lhs
	}
	return rhs
}
