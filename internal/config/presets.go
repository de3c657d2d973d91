package config

import "github.com/san-kum/periodsweep/internal/dynamo"

// Presets build fresh configurations so callers may modify the result.
var Presets = map[string]func() *Config{
	"leo": DefaultConfig,
	"circular": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "circular"
		vc := cfg.CircularVelocity()
		cfg.Sweep = SweepConfig{MinVelocity: 0.95 * vc, MaxVelocity: 1.05 * vc, Samples: 10}
		return cfg
	},
	"radial": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "radial"
		cfg.CollisionRadius = 1
		cfg.SetSymmetricRange(0.01)
		cfg.Sweep.Samples = 2
		cfg.Sweep.SkipMidpoint = false
		return cfg
	},
	"coarse": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "coarse"
		cfg.Dt = 1
		cfg.Orbits = 2
		cfg.Sweep.Samples = 40
		return cfg
	},
	"surface": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "surface"
		cfg.CollisionRadius = dynamo.EarthRadius
		return cfg
	},
}

func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
