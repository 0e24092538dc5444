// Package config contains netsim configuration definitions.
package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/go-netvalue/metrics"
	"github.com/spacemeshos/go-netvalue/replica"
	"github.com/spacemeshos/go-netvalue/sim"
	"github.com/spacemeshos/go-netvalue/timesync"
)

// Config defines the top level configuration of a simulated session.
type Config struct {
	BaseConfig `mapstructure:"main"`
	Time       timesync.Config `mapstructure:"time"`
	Replica    replica.Config  `mapstructure:"replica"`
	Sim        sim.Config      `mapstructure:"sim"`
	Logging    LoggerConfig    `mapstructure:"logging"`
}

// BaseConfig defines the options shared by all commands.
type BaseConfig struct {
	ConfigFile string `mapstructure:"config"`

	CollectMetrics     bool   `mapstructure:"metrics"`
	MetricsPort        int    `mapstructure:"metrics-port"`
	metrics.PushConfig `mapstructure:",squash"`

	// ReportPath is where the session report is written. Empty disables the report file.
	ReportPath string `mapstructure:"report"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		BaseConfig: defaultBaseConfig(),
		Time:       timesync.DefaultConfig(),
		Replica:    replica.DefaultConfig(),
		Sim:        sim.DefaultConfig(),
		Logging:    DefaultLoggingConfig(),
	}
}

func defaultBaseConfig() BaseConfig {
	return BaseConfig{
		CollectMetrics: false,
		MetricsPort:    1010,
		PushConfig: metrics.PushConfig{
			Period: 10 * time.Second,
		},
	}
}

// Validate checks configuration of every component.
func (cfg *Config) Validate() error {
	if err := cfg.Time.Validate(); err != nil {
		return fmt.Errorf("time: %w", err)
	}
	if err := cfg.Replica.Validate(); err != nil {
		return fmt.Errorf("replica: %w", err)
	}
	if err := cfg.Sim.Validate(); err != nil {
		return fmt.Errorf("sim: %w", err)
	}
	if err := cfg.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if cfg.PushConfig.URL != "" && cfg.PushConfig.Period <= 0 {
		return fmt.Errorf("metrics push period must be positive, got %v", cfg.PushConfig.Period)
	}
	return nil
}

func (cfg *Config) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("config", cfg.ConfigFile)
	encoder.AddBool("metrics", cfg.CollectMetrics)
	encoder.AddInt("metrics port", cfg.MetricsPort)
	encoder.AddString("metrics push", cfg.PushConfig.URL)
	encoder.AddString("report", cfg.ReportPath)
	if err := encoder.AddObject("time", &cfg.Time); err != nil {
		return err
	}
	if err := encoder.AddObject("replica", &cfg.Replica); err != nil {
		return err
	}
	if err := encoder.AddObject("sim", &cfg.Sim); err != nil {
		return err
	}
	return encoder.AddObject("logging", &cfg.Logging)
}

// LoadConfig reads the config file into vip. Empty location is not an error,
// defaults are used in that case.
func LoadConfig(fileLocation string, vip *viper.Viper) error {
	if fileLocation == "" {
		return nil
	}
	vip.SetConfigFile(fileLocation)
	if err := vip.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %w", err)
	}
	return nil
}

// Unmarshal decodes everything loaded into vip on top of base.
func Unmarshal(vip *viper.Viper, base Config) (Config, error) {
	hook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := vip.Unmarshal(&base, viper.DecodeHook(hook)); err != nil {
		return Config{}, fmt.Errorf("unmarshal viper: %w", err)
	}
	return base, nil
}
