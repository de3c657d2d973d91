package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/periodsweep/internal/dynamo"
	"github.com/san-kum/periodsweep/internal/physics"
	"github.com/san-kum/periodsweep/internal/sweep"
)

const (
	DefaultSamples       = 400
	DefaultVelocityRange = 1.25
	DefaultDataDir       = "./runs"
)

type Config struct {
	Name            string           `yaml:"name" json:"name"`
	G               float64          `yaml:"g" json:"g"`
	PrimaryMass     float64          `yaml:"primary_mass" json:"primary_mass"`
	SatelliteMass   float64          `yaml:"satellite_mass" json:"satellite_mass"`
	OrbitRadius     float64          `yaml:"orbit_radius" json:"orbit_radius"`
	Dt              float64          `yaml:"dt" json:"dt"`
	Orbits          int              `yaml:"orbits" json:"orbits"`
	MaxSteps        int              `yaml:"max_steps" json:"max_steps"`
	CollisionRadius float64          `yaml:"collision_radius" json:"collision_radius"`
	AngleMode       dynamo.AngleMode `yaml:"angle_mode" json:"angle_mode"`
	Sweep           SweepConfig      `yaml:"sweep" json:"sweep"`
}

type SweepConfig struct {
	MinVelocity  float64 `yaml:"min_velocity" json:"min_velocity"`
	MaxVelocity  float64 `yaml:"max_velocity" json:"max_velocity"`
	Samples      int     `yaml:"samples" json:"samples"`
	SkipMidpoint bool    `yaml:"skip_midpoint" json:"skip_midpoint"`
	Workers      int     `yaml:"workers" json:"workers"`
}

// DefaultConfig is the reference sweep: a Hubble-mass satellite 100 km
// above Earth, launched at up to 1.25 times circular velocity either way.
func DefaultConfig() *Config {
	d := dynamo.DefaultConfig()
	cfg := &Config{
		Name:            "leo",
		G:               d.G,
		PrimaryMass:     d.PrimaryMass,
		SatelliteMass:   d.SatelliteMass,
		OrbitRadius:     d.OrbitRadius,
		Dt:              d.Dt,
		Orbits:          d.Orbits,
		MaxSteps:        d.MaxSteps,
		CollisionRadius: d.CollisionRadius,
		AngleMode:       d.AngleMode,
		Sweep: SweepConfig{
			Samples:      DefaultSamples,
			SkipMidpoint: true,
		},
	}
	cfg.SetSymmetricRange(DefaultVelocityRange)
	return cfg
}

// CircularVelocity is the circular orbit speed at the configured radius.
func (c *Config) CircularVelocity() float64 {
	return physics.NewGravity(c.G).CircularVelocity(c.OrbitRadius, c.PrimaryMass, c.SatelliteMass)
}

// SetSymmetricRange spans the sweep over ±factor times circular velocity.
func (c *Config) SetSymmetricRange(factor float64) {
	vmax := factor * c.CircularVelocity()
	c.Sweep.MinVelocity = -vmax
	c.Sweep.MaxVelocity = vmax
}

func (c *Config) SimConfig() dynamo.Config {
	return dynamo.Config{
		G:               c.G,
		PrimaryMass:     c.PrimaryMass,
		SatelliteMass:   c.SatelliteMass,
		OrbitRadius:     c.OrbitRadius,
		Dt:              c.Dt,
		Orbits:          c.Orbits,
		MaxSteps:        c.MaxSteps,
		CollisionRadius: c.CollisionRadius,
		AngleMode:       c.AngleMode,
	}
}

func (c *Config) Plan() sweep.Plan {
	return sweep.Plan{
		Min:          c.Sweep.MinVelocity,
		Max:          c.Sweep.MaxVelocity,
		Samples:      c.Sweep.Samples,
		SkipMidpoint: c.Sweep.SkipMidpoint,
	}
}

func (c *Config) Validate() error {
	if err := c.SimConfig().Validate(); err != nil {
		return err
	}
	if err := c.Plan().Validate(); err != nil {
		return err
	}
	if c.Sweep.Workers < 0 {
		return &dynamo.ConfigError{Field: "workers", Value: float64(c.Sweep.Workers), Reason: "must not be negative"}
	}
	return nil
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadOver reads path on top of base, so keys missing from the file keep
// the values base already has.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
