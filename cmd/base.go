// Package cmd is the base package for the netsim executables.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/spacemeshos/go-netvalue/config"
	"github.com/spacemeshos/go-netvalue/config/presets"
	"github.com/spacemeshos/go-netvalue/log"
)

var (
	// Version is the app's semantic version. Designed to be overwritten by make.
	Version string

	// Commit is the git commit used to build the app. Designed to be overwritten by make.
	Commit string
)

// EnsureCLIFlags copies flags set on the command line into vip, so that they
// override both the preset and the config file.
func EnsureCLIFlags(cmd *cobra.Command, vip *viper.Viper) {
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			vip.Set(key, f.Value.String())
		}
	})
}

// LoadConfig builds the configuration from, in order of precedence, command line
// flags, the config file, the selected preset and the defaults.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	fileLocation, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, log.ErrBadFlags(err)
	}
	vip := viper.New()
	if err := config.LoadConfig(fileLocation, vip); err != nil {
		return nil, log.ErrMalformedConfig(err)
	}

	conf := config.DefaultConfig()
	name, err := cmd.Flags().GetString("preset")
	if err != nil {
		return nil, log.ErrBadFlags(err)
	}
	if len(name) > 0 {
		preset, err := presets.Get(name)
		if err != nil {
			return nil, log.ErrBadFlags(err)
		}
		conf = preset
	}

	EnsureCLIFlags(cmd, vip)
	conf, err = config.Unmarshal(vip, conf)
	if err != nil {
		return nil, log.ErrMalformedConfig(err)
	}
	conf.ConfigFile = fileLocation
	if err := conf.Validate(); err != nil {
		return nil, log.ErrInvalidConfig(err)
	}
	return &conf, nil
}

// VersionString is printed by --version.
func VersionString() string {
	if Version == "" {
		return "dev"
	}
	return fmt.Sprintf("%s+%s", Version, Commit)
}
