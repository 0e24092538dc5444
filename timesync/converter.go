package timesync

import (
	"time"

	"github.com/spacemeshos/go-netvalue/common/types"
)

// FrameConv converts between wall time and network time.
type FrameConv struct {
	genesis  time.Time
	duration time.Duration
}

func NewFrameConv(genesis time.Time, duration time.Duration) FrameConv {
	return FrameConv{genesis: genesis, duration: duration}
}

// TimeToNetworkTime returns the frame and the fraction of it passed at t.
// Times before genesis map to the start of frame 0.
func (c FrameConv) TimeToNetworkTime(t time.Time) types.NetworkTime {
	if t.Before(c.genesis) {
		return types.NetworkTime{}
	}
	elapsed := t.Sub(c.genesis)
	return types.NetworkTime{
		Frame:    types.FrameID(uint32(elapsed / c.duration)),
		SubFrame: float32(elapsed%c.duration) / float32(c.duration),
	}
}

// TimeToFrame returns the frame in progress at t.
func (c FrameConv) TimeToFrame(t time.Time) types.FrameID {
	return c.TimeToNetworkTime(t).Frame
}

// FrameToTime returns the time frame starts at.
func (c FrameConv) FrameToTime(frame types.FrameID) time.Time {
	return c.genesis.Add(time.Duration(frame) * c.duration)
}
