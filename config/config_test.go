package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	conf := DefaultConfig()
	require.NoError(t, conf.Validate())
}

func TestLoadConfig(t *testing.T) {
	t.Run("empty location", func(t *testing.T) {
		vip := viper.New()
		require.NoError(t, LoadConfig("", vip))
		conf, err := Unmarshal(vip, DefaultConfig())
		require.NoError(t, err)
		require.Equal(t, DefaultConfig(), conf)
	})
	t.Run("missing file", func(t *testing.T) {
		err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"), viper.New())
		require.ErrorContains(t, err, "failed to read config file")
	})
	t.Run("overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte(`
[main]
metrics = true
report = "out.json"

[time]
frame-duration = "20ms"

[replica]
capacity = 8
max-extrapolation-penalty = 2

[sim]
loss-rate = 0.25
objects = 3

[logging]
log-encoder = "json"
`), 0o600))

		vip := viper.New()
		require.NoError(t, LoadConfig(path, vip))
		conf, err := Unmarshal(vip, DefaultConfig())
		require.NoError(t, err)
		require.NoError(t, conf.Validate())

		require.True(t, conf.CollectMetrics)
		require.Equal(t, "out.json", conf.ReportPath)
		require.Equal(t, 20*time.Millisecond, conf.Time.FrameDuration)
		require.Equal(t, uint32(8), conf.Replica.Capacity)
		require.Equal(t, uint32(2), conf.Replica.MaxExtrapolationPenalty)
		require.Equal(t, DefaultConfig().Replica.MaxObjects, conf.Replica.MaxObjects)
		require.Equal(t, 0.25, conf.Sim.LossRate)
		require.Equal(t, 3, conf.Sim.Objects)
		require.Equal(t, DefaultConfig().Sim.Frames, conf.Sim.Frames)
		require.Equal(t, "json", conf.Logging.Encoder)
	})
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		desc   string
		modify func(*Config)
		err    string
	}{
		{"frame duration", func(c *Config) { c.Time.FrameDuration = 0 }, "time:"},
		{"capacity", func(c *Config) { c.Replica.Capacity = 0 }, "replica:"},
		{"loss rate", func(c *Config) { c.Sim.LossRate = 1 }, "sim:"},
		{"log level", func(c *Config) { c.Logging.SimLoggerLevel = "loud" }, "logging:"},
		{"log encoder", func(c *Config) { c.Logging.Encoder = "xml" }, "logging:"},
		{"push period", func(c *Config) {
			c.PushConfig.URL = "http://localhost:9091"
			c.PushConfig.Period = 0
		}, "push period"},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			conf := DefaultConfig()
			tc.modify(&conf)
			require.ErrorContains(t, conf.Validate(), tc.err)
		})
	}
}
