package dynamo

import (
	"fmt"
	"math"
)

// Physical constants of the reference scenario.
const (
	GravitationalConstant = 6.6743e-11
	EarthMass             = 5.972e24
	HubbleMass            = 11_110_000.0
	EarthRadius           = 6_378_000.0
	OrbitAltitude         = 100_000.0
)

const (
	DefaultDt       = 0.01
	DefaultOrbits   = 5
	DefaultMaxSteps = 50_000_000
)

// Body is one of the two interacting point masses.
type Body struct {
	Position     Vec3
	Velocity     Vec3
	Acceleration Vec3
	Mass         float64
}

// TwoBody is the primary and the satellite of one sweep sample.
type TwoBody struct {
	Primary   Body
	Satellite Body
}

// Displacement returns the satellite position relative to the primary.
func (s *TwoBody) Displacement() Vec3 {
	return s.Satellite.Position.Sub(s.Primary.Position)
}

// AngleMode selects how the swept angle between steps is measured.
type AngleMode string

const (
	// AngleUnsigned measures the magnitude of the step angle with acos.
	// It cannot see direction reversal.
	AngleUnsigned AngleMode = "unsigned"
	// AngleSigned measures the step angle about the initial orbital-plane
	// normal, so backtracking subtracts.
	AngleSigned AngleMode = "signed"
)

// Config holds the immutable parameters of a run.
type Config struct {
	G               float64
	PrimaryMass     float64
	SatelliteMass   float64
	PrimaryPosition Vec3
	PrimaryVelocity Vec3
	OrbitRadius     float64
	Dt              float64
	Orbits          int
	// MaxSteps bounds the integration of one sample; 0 disables the guard.
	MaxSteps int
	// CollisionRadius reports a collision once the satellite passes
	// within this distance of the primary; 0 disables the check.
	CollisionRadius float64
	AngleMode       AngleMode
}

func DefaultConfig() Config {
	return Config{
		G:               GravitationalConstant,
		PrimaryMass:     EarthMass,
		SatelliteMass:   HubbleMass,
		OrbitRadius:     EarthRadius + OrbitAltitude,
		Dt:              DefaultDt,
		Orbits:          DefaultOrbits,
		MaxSteps:        DefaultMaxSteps,
		CollisionRadius: 0,
		AngleMode:       AngleUnsigned,
	}
}

func (c Config) Validate() error {
	positive := []struct {
		field string
		value float64
	}{
		{"g", c.G},
		{"primary_mass", c.PrimaryMass},
		{"satellite_mass", c.SatelliteMass},
		{"orbit_radius", c.OrbitRadius},
		{"dt", c.Dt},
	}
	for _, p := range positive {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			return &ConfigError{Field: p.field, Value: p.value, Reason: "must be positive and finite"}
		}
	}
	if c.Orbits < 1 {
		return &ConfigError{Field: "orbits", Value: float64(c.Orbits), Reason: "must be at least 1"}
	}
	if c.MaxSteps < 0 {
		return &ConfigError{Field: "max_steps", Value: float64(c.MaxSteps), Reason: "must not be negative"}
	}
	if c.CollisionRadius < 0 || c.CollisionRadius >= c.OrbitRadius {
		return &ConfigError{Field: "collision_radius", Value: c.CollisionRadius, Reason: "must be in [0, orbit_radius)"}
	}
	if !c.PrimaryPosition.IsFinite() || !c.PrimaryVelocity.IsFinite() {
		return &ConfigError{Field: "primary", Value: math.NaN(), Reason: "initial state must be finite"}
	}
	switch c.AngleMode {
	case AngleUnsigned, AngleSigned:
	default:
		return fmt.Errorf("%w: unknown angle mode %q", ErrInvalidConfig, c.AngleMode)
	}
	return nil
}

// NewSystem returns a fresh two-body system for one sample. The satellite
// starts OrbitRadius along +y from the primary moving at vTan along +x.
func (c Config) NewSystem(vTan float64) TwoBody {
	return TwoBody{
		Primary: Body{
			Position: c.PrimaryPosition,
			Velocity: c.PrimaryVelocity,
			Mass:     c.PrimaryMass,
		},
		Satellite: Body{
			Position: c.PrimaryPosition.Add(Vec3{Y: c.OrbitRadius}),
			Velocity: c.PrimaryVelocity.Add(Vec3{X: vTan}),
			Mass:     c.SatelliteMass,
		},
	}
}

// Outcome classifies how a sample ended.
type Outcome int

const (
	OutcomeCompleted Outcome = iota
	OutcomeDegenerate
	OutcomeCollision
	OutcomeNoConvergence
	OutcomeCanceled
)

var outcomeNames = map[Outcome]string{
	OutcomeCompleted:     "completed",
	OutcomeDegenerate:    "degenerate",
	OutcomeCollision:     "collision",
	OutcomeNoConvergence: "no_convergence",
	OutcomeCanceled:      "canceled",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Degenerate reports whether the trajectory itself broke down, as opposed
// to being cut short by a guard.
func (o Outcome) Degenerate() bool {
	return o == OutcomeDegenerate || o == OutcomeCollision
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(b []byte) error {
	for k, name := range outcomeNames {
		if name == string(b) {
			*o = k
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", b)
}

// Sample is one output row of a sweep.
type Sample struct {
	Index    int
	Velocity float64
	// Times holds the elapsed time at each orbit completion. Slots the run
	// never reached hold NaN.
	Times   []float64
	Outcome Outcome
	Steps   int
	Metrics map[string]float64
}

// Completed returns the number of filled completion slots.
func (s Sample) Completed() int {
	n := 0
	for _, t := range s.Times {
		if math.IsNaN(t) {
			break
		}
		n++
	}
	return n
}

// Integrator advances a two-body system by one fixed step. Prime must be
// called once on a fresh system before the first Step.
type Integrator interface {
	Prime(sys *TwoBody)
	Step(sys *TwoBody)
}

// Metric observes the system after every integration step.
type Metric interface {
	Name() string
	Observe(sys *TwoBody, t float64)
	Value() float64
	Reset()
}
