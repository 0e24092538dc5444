package timesync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/go-netvalue/common/types"
)

func getTime() time.Time {
	layout := "2006-01-02T15:04:05.000Z"
	curr := "2018-11-12T11:45:26.000Z"
	tm, _ := time.Parse(layout, curr)

	return tm
}

func TestFrameConv_FrameToTime(t *testing.T) {
	r := require.New(t)
	tm := getTime()
	fc := NewFrameConv(tm, 50*time.Millisecond)
	r.Equal(tm.Add(150*time.Millisecond), fc.FrameToTime(3))
	r.Equal(tm, fc.FrameToTime(0))
}

func TestFrameConv_TimeToNetworkTime(t *testing.T) {
	r := require.New(t)
	tm := getTime()
	fc := NewFrameConv(tm, 100*time.Millisecond)
	r.Equal(types.NetworkTime{Frame: 2, SubFrame: 0.5}, fc.TimeToNetworkTime(tm.Add(250*time.Millisecond)))
	r.Equal(types.NetworkTime{Frame: 3}, fc.TimeToNetworkTime(tm.Add(300*time.Millisecond)))
	r.Equal(types.FrameID(3), fc.TimeToFrame(tm.Add(399*time.Millisecond)))
	r.Equal(types.NetworkTime{}, fc.TimeToNetworkTime(tm.Add(-time.Second)))

	for frame := types.FrameID(0); frame < 20; frame++ {
		r.Equal(frame, fc.TimeToFrame(fc.FrameToTime(frame)))
	}
}

func TestConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	now := getTime()
	genesis, err := cfg.Genesis(now)
	require.NoError(t, err)
	require.Equal(t, now, genesis)

	cfg.GenesisTime = "2018-11-12T11:45:26Z"
	genesis, err = cfg.Genesis(time.Time{})
	require.NoError(t, err)
	require.True(t, genesis.Equal(now))

	cfg.GenesisTime = "yesterday"
	require.ErrorContains(t, cfg.Validate(), "parse genesis time")

	cfg = DefaultConfig()
	cfg.FrameDuration = 0
	require.Error(t, cfg.Validate())
}
