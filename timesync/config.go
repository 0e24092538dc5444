package timesync

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap/zapcore"
)

// Config for the frame clock.
type Config struct {
	FrameDuration time.Duration `mapstructure:"frame-duration"`
	// GenesisTime is the start of frame 0 in RFC3339. Empty means the time the clock is created.
	GenesisTime string `mapstructure:"genesis-time"`
}

func DefaultConfig() Config {
	return Config{
		FrameDuration: time.Second / 60,
	}
}

func (cfg *Config) Validate() error {
	if cfg.FrameDuration <= 0 {
		return errors.New("frame duration must be positive")
	}
	if _, err := cfg.Genesis(time.Time{}); err != nil {
		return err
	}
	return nil
}

// Genesis parses GenesisTime, falling back to now if it is empty.
func (cfg *Config) Genesis(now time.Time) (time.Time, error) {
	if cfg.GenesisTime == "" {
		return now, nil
	}
	genesis, err := time.Parse(time.RFC3339, cfg.GenesisTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse genesis time %q: %w", cfg.GenesisTime, err)
	}
	return genesis, nil
}

func (cfg *Config) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddDuration("frame duration", cfg.FrameDuration)
	encoder.AddString("genesis time", cfg.GenesisTime)
	return nil
}
