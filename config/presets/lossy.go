package presets

import (
	"github.com/spacemeshos/go-netvalue/config"
)

func init() {
	register("lossy", lossy())
}

// lossy drops, duplicates and reorders packets, clients project values
// ahead for a few frames.
func lossy() config.Config {
	conf := config.DefaultConfig()
	conf.Sim.Latency = 3
	conf.Sim.MaxReorder = 4
	conf.Sim.LossRate = 0.2
	conf.Sim.DuplicateRate = 0.05
	conf.Sim.RenderDelay = 8
	conf.Replica.Capacity = 64
	conf.Replica.MaxExtrapolationPenalty = 4
	return conf
}
