package presets

import (
	"time"

	"github.com/spacemeshos/go-netvalue/config"
)

func init() {
	register("mobile", mobile())
}

// mobile has high latency and sends state every few frames to save bandwidth.
func mobile() config.Config {
	conf := config.DefaultConfig()
	conf.Time.FrameDuration = time.Second / 30
	conf.Sim.SendInterval = 3
	conf.Sim.Latency = 6
	conf.Sim.MaxReorder = 2
	conf.Sim.LossRate = 0.05
	conf.Sim.RenderDelay = 12
	conf.Replica.Capacity = 64
	conf.Replica.MaxExtrapolationPenalty = 6
	conf.Logging.Encoder = "json"
	return conf
}
