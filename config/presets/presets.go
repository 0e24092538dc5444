// Package presets holds named overrides of the default configuration.
package presets

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spacemeshos/go-netvalue/config"
)

var presets = map[string]config.Config{}

func register(name string, preset config.Config) {
	if _, exist := presets[name]; exist {
		panic(fmt.Sprintf("preset with name %s already exists", name))
	}
	presets[name] = preset
}

// Options returns the names of all presets.
func Options() []string {
	return slices.Sorted(maps.Keys(presets))
}

// Get returns preset by name.
func Get(name string) (config.Config, error) {
	preset, exists := presets[name]
	if !exists {
		return config.Config{}, fmt.Errorf("preset %s is not registered. select from: %+s", name, Options())
	}
	return preset, nil
}
