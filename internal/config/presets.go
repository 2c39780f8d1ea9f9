package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/slrsim/internal/dynamo"
)

// Presets tweak the defaults for a different feel.
var Presets = map[string]func(*Config){
	"default": func(*Config) {},
	"calm": func(c *Config) {
		c.Physics.WaveResponse = 0.01
		c.Physics.WaveKick = 0.005
		c.Physics.WaveDecay = 0.98
		c.Input.DropletChance = 0.1
		c.Input.StartupWave = 0.05
	},
	"stormy": func(c *Config) {
		c.Physics.WaveResponse = 0.04
		c.Physics.WaveKick = 0.03
		c.Physics.WaveDecay = 0.997
		c.Input.DropletChance = 0.6
		c.Input.DropletSpeed = 0.3
		c.Input.SplashVelocity = 1.5
		c.Input.StartupWave = 0.4
	},
	"sluggish": func(c *Config) {
		c.Physics.BaseStrength = 0.1
		c.Physics.Damping = 0.85
		c.Physics.VelocityCap = 1.0
	},
}

// GetPreset returns a fresh config with the named preset applied.
func GetPreset(name string) (*Config, error) {
	apply, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", dynamo.ErrUnknownPreset, name, ListPresets())
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
