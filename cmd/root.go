package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	cfg "github.com/spacemeshos/go-netvalue/config"
	"github.com/spacemeshos/go-netvalue/config/presets"
)

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"log-encoder":         "logging.log-encoder",
	"log-level":           "logging.log-level",
	"metrics":             "main.metrics",
	"metrics-port":        "main.metrics-port",
	"metrics-push":        "main.metrics-push",
	"metrics-push-period": "main.metrics-push-period",
	"report":              "main.report",

	"frame-duration": "time.frame-duration",
	"genesis-time":   "time.genesis-time",

	"capacity":                  "replica.capacity",
	"max-objects":               "replica.max-objects",
	"max-extrapolation-penalty": "replica.max-extrapolation-penalty",

	"frames":         "sim.frames",
	"objects":        "sim.objects",
	"start-frame":    "sim.start-frame",
	"send-interval":  "sim.send-interval",
	"latency":        "sim.latency",
	"max-reorder":    "sim.max-reorder",
	"loss-rate":      "sim.loss-rate",
	"duplicate-rate": "sim.duplicate-rate",
	"render-delay":   "sim.render-delay",
	"render-steps":   "sim.render-steps",
	"seed":           "sim.seed",
	"realtime":       "sim.realtime",
}

// AddCommands adds the session flags to cmd.
// Defaults are shown for help only, values come from LoadConfig.
func AddCommands(cmd *cobra.Command) {
	config := cfg.DefaultConfig()
	fs := cmd.PersistentFlags()

	fs.StringP("preset", "p", "",
		fmt.Sprintf("preset overwrites default values of the config. options %+s", presets.Options()))
	fs.StringP("config", "c", "", "load configuration from file")

	/** ======================== BaseConfig Flags ========================== **/
	fs.String("log-encoder", config.Logging.Encoder, "log encoder: console or json")
	fs.String("log-level", config.Logging.Level, "log level of the app")
	fs.Bool("metrics", config.CollectMetrics, "serve prometheus metrics")
	fs.Int("metrics-port", config.MetricsPort, "metric server port")
	fs.String("metrics-push", config.PushConfig.URL, "push metrics to url")
	fs.Duration("metrics-push-period", config.PushConfig.Period, "push period")
	fs.String("report", config.ReportPath, "write session report as JSON to this path")

	/** ======================== Time Flags ========================== **/
	fs.Duration("frame-duration", config.Time.FrameDuration, "duration of a network frame")
	fs.String("genesis-time", config.Time.GenesisTime, "start of frame 0 in RFC3339 format, defaults to now")

	/** ======================== Replica Flags ========================== **/
	fs.Uint32("capacity", config.Replica.Capacity, "frames kept for every property")
	fs.Int("max-objects", config.Replica.MaxObjects, "objects tracked by the client")
	fs.Uint32("max-extrapolation-penalty", config.Replica.MaxExtrapolationPenalty,
		"frames a client projects a property past its newest update")

	/** ======================== Sim Flags ========================== **/
	fs.Uint32("frames", config.Sim.Frames, "number of simulated frames")
	fs.Int("objects", config.Sim.Objects, "number of simulated objects")
	fs.Uint32("start-frame", config.Sim.StartFrame, "network frame of the first simulated frame")
	fs.Uint32("send-interval", config.Sim.SendInterval, "frames between server packets")
	fs.Uint32("latency", config.Sim.Latency, "frames a packet spends in flight")
	fs.Uint32("max-reorder", config.Sim.MaxReorder, "upper bound of random extra delay in frames")
	fs.Float64("loss-rate", config.Sim.LossRate, "probability to drop a packet")
	fs.Float64("duplicate-rate", config.Sim.DuplicateRate, "probability to duplicate a packet")
	fs.Uint32("render-delay", config.Sim.RenderDelay, "frames the client renders behind")
	fs.Int("render-steps", config.Sim.RenderSteps, "client samples per frame")
	fs.Int64("seed", config.Sim.Seed, "seed of the simulation")
	fs.Bool("realtime", config.Sim.Realtime, "pace the simulation with the frame clock")
}
