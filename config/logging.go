package config

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/go-netvalue/log"
)

const defaultLoggingLevel = zapcore.InfoLevel

// LoggerConfig holds the encoder and the logging level for each module.
type LoggerConfig struct {
	Encoder string `mapstructure:"log-encoder"`
	Level   string `mapstructure:"log-level"`

	ClockLoggerLevel   string `mapstructure:"clock"`
	ReplicaLoggerLevel string `mapstructure:"replica"`
	SimLoggerLevel     string `mapstructure:"sim"`
}

func DefaultLoggingConfig() LoggerConfig {
	return LoggerConfig{
		Encoder:            log.ConsoleEncoder,
		Level:              defaultLoggingLevel.String(),
		ClockLoggerLevel:   defaultLoggingLevel.String(),
		ReplicaLoggerLevel: zapcore.WarnLevel.String(),
		SimLoggerLevel:     defaultLoggingLevel.String(),
	}
}

func (cfg *LoggerConfig) Validate() error {
	if _, err := log.NewEncoder(cfg.Encoder); err != nil {
		return err
	}
	for _, level := range []string{cfg.Level, cfg.ClockLoggerLevel, cfg.ReplicaLoggerLevel, cfg.SimLoggerLevel} {
		if _, err := zap.ParseAtomicLevel(level); err != nil {
			return err
		}
	}
	return nil
}

func (cfg *LoggerConfig) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("encoder", cfg.Encoder)
	encoder.AddString("level", cfg.Level)
	encoder.AddString("clock", cfg.ClockLoggerLevel)
	encoder.AddString("replica", cfg.ReplicaLoggerLevel)
	encoder.AddString("sim", cfg.SimLoggerLevel)
	return nil
}
