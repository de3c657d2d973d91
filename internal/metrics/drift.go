package metrics

import (
	"math"

	"github.com/san-kum/periodsweep/internal/dynamo"
	"github.com/san-kum/periodsweep/internal/physics"
)

// EnergyDrift tracks the largest relative departure of total energy from
// its value at the first observation.
type EnergyDrift struct {
	name          string
	gravity       physics.Gravity
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(g physics.Gravity) *EnergyDrift {
	return &EnergyDrift{
		name:    "energy_drift",
		gravity: g,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(sys *dynamo.TwoBody, t float64) {
	energy := e.gravity.Energy(sys)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

// Current is the energy at the latest observation.
func (e *EnergyDrift) Current() float64 {
	return e.currentEnergy
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// AngularMomentumDrift is EnergyDrift for the magnitude of the total
// angular momentum vector.
type AngularMomentumDrift struct {
	name     string
	gravity  physics.Gravity
	initial  dynamo.Vec3
	maxDrift float64
	samples  int
}

func NewAngularMomentumDrift(g physics.Gravity) *AngularMomentumDrift {
	return &AngularMomentumDrift{
		name:    "angular_momentum_drift",
		gravity: g,
	}
}

func (a *AngularMomentumDrift) Name() string { return a.name }

func (a *AngularMomentumDrift) Observe(sys *dynamo.TwoBody, t float64) {
	l := a.gravity.AngularMomentum(sys)
	if a.samples == 0 {
		a.initial = l
	}
	a.samples++

	// Radial launches have zero angular momentum; drift is undefined there.
	if n := a.initial.Norm(); n != 0 {
		drift := l.Sub(a.initial).Norm() / n
		a.maxDrift = math.Max(a.maxDrift, drift)
	}
}

func (a *AngularMomentumDrift) Value() float64 { return a.maxDrift }

func (a *AngularMomentumDrift) Reset() {
	a.initial = dynamo.Vec3{}
	a.maxDrift = 0
	a.samples = 0
}

// MinSeparation records the closest observed distance between the bodies.
type MinSeparation struct {
	min float64
}

func NewMinSeparation() *MinSeparation {
	return &MinSeparation{min: math.Inf(1)}
}

func (m *MinSeparation) Name() string { return "min_separation" }

func (m *MinSeparation) Observe(sys *dynamo.TwoBody, t float64) {
	m.min = math.Min(m.min, sys.Displacement().Norm())
}

func (m *MinSeparation) Value() float64 { return m.min }

func (m *MinSeparation) Reset() { m.min = math.Inf(1) }

// Standard returns one fresh instance of every drift metric. Metrics hold
// per-run state, so each simulator needs its own set.
func Standard(g physics.Gravity) []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergyDrift(g),
		NewAngularMomentumDrift(g),
		NewMinSeparation(),
	}
}
