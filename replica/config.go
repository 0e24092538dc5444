package replica

import (
	"errors"
	"fmt"

	"go.uber.org/zap/zapcore"
)

// Config for the property registry.
type Config struct {
	// Capacity is the number of frames kept for every property.
	Capacity uint32 `mapstructure:"capacity"`
	// MaxObjects bounds the number of objects, least recently updated are evicted.
	MaxObjects int `mapstructure:"max-objects"`
	// MaxExtrapolationPenalty is the number of frames a client projects a property
	// past its newest update. Zero holds the newest value.
	MaxExtrapolationPenalty uint32 `mapstructure:"max-extrapolation-penalty"`
}

func DefaultConfig() Config {
	return Config{
		Capacity:                32,
		MaxObjects:              1024,
		MaxExtrapolationPenalty: 0,
	}
}

func (cfg *Config) Validate() error {
	if cfg.Capacity == 0 {
		return errors.New("capacity must be positive")
	}
	if cfg.MaxObjects <= 0 {
		return fmt.Errorf("max objects must be positive, got %d", cfg.MaxObjects)
	}
	if cfg.MaxExtrapolationPenalty >= cfg.Capacity {
		return fmt.Errorf("extrapolation penalty (%d) must be smaller than capacity (%d)",
			cfg.MaxExtrapolationPenalty, cfg.Capacity)
	}
	return nil
}

func (cfg *Config) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddUint32("capacity", cfg.Capacity)
	encoder.AddInt("max objects", cfg.MaxObjects)
	encoder.AddUint32("max extrapolation penalty", cfg.MaxExtrapolationPenalty)
	return nil
}
