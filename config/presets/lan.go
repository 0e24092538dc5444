package presets

import (
	"time"

	"github.com/spacemeshos/go-netvalue/config"
)

func init() {
	register("lan", lan())
}

// lan is a fast and reliable network.
func lan() config.Config {
	conf := config.DefaultConfig()
	conf.Time.FrameDuration = time.Second / 120
	conf.Replica.Capacity = 16
	conf.Sim.Latency = 1
	conf.Sim.RenderDelay = 2
	conf.Sim.SendInterval = 1
	return conf
}
