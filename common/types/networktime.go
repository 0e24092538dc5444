package types

import (
	"fmt"
	"math"

	"go.uber.org/zap/zapcore"
)

// NetworkTime is a continuous position on the frame timeline: a frame plus a
// fraction of the way towards the next one.
type NetworkTime struct {
	Frame FrameID
	// SubFrame is always in [0, 1).
	SubFrame float32
}

// NewNetworkTime returns a normalized time. SubFrame values outside of [0, 1)
// carry whole frames into Frame, so NewNetworkTime(5, 1.25) is frame 6 at 0.25.
func NewNetworkTime(frame FrameID, subFrame float64) NetworkTime {
	whole := math.Floor(subFrame)
	frac := float32(subFrame - whole)
	frame += FrameID(uint32(int64(whole)))
	// float32 rounding may push a value just below 1 up to exactly 1
	if frac >= 1 {
		frame++
		frac = 0
	}
	return NetworkTime{Frame: frame, SubFrame: frac}
}

// AddFrames moves the time by a (possibly fractional, possibly negative) number of frames.
func (t NetworkTime) AddFrames(delta float64) NetworkTime {
	return NewNetworkTime(t.Frame, float64(t.SubFrame)+delta)
}

// Sub returns the signed number of frames between t and other.
func (t NetworkTime) Sub(other NetworkTime) float64 {
	return float64(t.Frame.Distance(other.Frame)) + float64(t.SubFrame) - float64(other.SubFrame)
}

func (t NetworkTime) String() string {
	return fmt.Sprintf("%d+%.3f", t.Frame, t.SubFrame)
}

// MarshalLogObject implements logging encoder for NetworkTime.
func (t NetworkTime) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddUint32("frame", t.Frame.Uint32())
	encoder.AddFloat32("subframe", t.SubFrame)
	return nil
}
