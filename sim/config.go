package sim

import (
	"errors"
	"fmt"

	"go.uber.org/zap/zapcore"
)

// Config of a simulated session between one server and one client.
type Config struct {
	Frames  uint32 `mapstructure:"frames"`
	Objects int    `mapstructure:"objects"`
	// StartFrame is the network frame of the first simulated frame.
	StartFrame uint32 `mapstructure:"start-frame"`
	// SendInterval is the number of frames between server packets.
	SendInterval uint32 `mapstructure:"send-interval"`
	// Latency is the number of frames every packet spends in flight.
	Latency uint32 `mapstructure:"latency"`
	// MaxReorder is the upper bound of random extra delay in frames.
	MaxReorder    uint32  `mapstructure:"max-reorder"`
	LossRate      float64 `mapstructure:"loss-rate"`
	DuplicateRate float64 `mapstructure:"duplicate-rate"`
	// RenderDelay is how many frames the client renders behind the newest frame.
	RenderDelay uint32 `mapstructure:"render-delay"`
	// RenderSteps is the number of samples the client takes within a frame.
	RenderSteps int   `mapstructure:"render-steps"`
	Seed        int64 `mapstructure:"seed"`
	// Realtime paces the simulation with the frame clock instead of running it as fast as possible.
	Realtime bool `mapstructure:"realtime"`
}

func DefaultConfig() Config {
	return Config{
		Frames:        600,
		Objects:       16,
		SendInterval:  1,
		Latency:       2,
		MaxReorder:    0,
		LossRate:      0,
		DuplicateRate: 0,
		RenderDelay:   4,
		RenderSteps:   4,
		Seed:          1,
	}
}

func (cfg *Config) Validate() error {
	if cfg.Frames == 0 {
		return errors.New("frames must be positive")
	}
	if cfg.Objects <= 0 {
		return fmt.Errorf("objects must be positive, got %d", cfg.Objects)
	}
	if cfg.SendInterval == 0 {
		return errors.New("send interval must be positive")
	}
	if cfg.LossRate < 0 || cfg.LossRate >= 1 {
		return fmt.Errorf("loss rate must be in [0, 1), got %v", cfg.LossRate)
	}
	if cfg.DuplicateRate < 0 || cfg.DuplicateRate > 1 {
		return fmt.Errorf("duplicate rate must be in [0, 1], got %v", cfg.DuplicateRate)
	}
	if cfg.RenderSteps <= 0 {
		return fmt.Errorf("render steps must be positive, got %d", cfg.RenderSteps)
	}
	return nil
}

func (cfg *Config) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddUint32("frames", cfg.Frames)
	encoder.AddInt("objects", cfg.Objects)
	encoder.AddUint32("start frame", cfg.StartFrame)
	encoder.AddUint32("send interval", cfg.SendInterval)
	encoder.AddUint32("latency", cfg.Latency)
	encoder.AddUint32("max reorder", cfg.MaxReorder)
	encoder.AddFloat64("loss rate", cfg.LossRate)
	encoder.AddFloat64("duplicate rate", cfg.DuplicateRate)
	encoder.AddUint32("render delay", cfg.RenderDelay)
	encoder.AddInt("render steps", cfg.RenderSteps)
	encoder.AddInt64("seed", cfg.Seed)
	encoder.AddBool("realtime", cfg.Realtime)
	return nil
}
