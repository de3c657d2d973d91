package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/periodsweep/internal/dynamo"
	"github.com/san-kum/periodsweep/internal/integrators"
	"github.com/san-kum/periodsweep/internal/orbit"
	"github.com/san-kum/periodsweep/internal/physics"
)

// ctxCheckInterval is how many steps run between context checks.
const ctxCheckInterval = 4096

// Simulator integrates one sweep sample at a time. It is not safe for
// concurrent use; parallel sweeps build one per worker.
type Simulator struct {
	cfg        dynamo.Config
	gravity    physics.Gravity
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
}

// New returns a simulator using the leapfrog integrator.
func New(cfg dynamo.Config) *Simulator {
	g := physics.NewGravity(cfg.G)
	return &Simulator{
		cfg:        cfg,
		gravity:    g,
		integrator: integrators.NewLeapfrog(cfg.Dt, g),
		metrics:    make([]dynamo.Metric, 0),
	}
}

// WithIntegrator replaces the integrator. Used by tests.
func (s *Simulator) WithIntegrator(integ dynamo.Integrator) *Simulator {
	s.integrator = integ
	return s
}

func (s *Simulator) AddMetric(m dynamo.Metric) { s.metrics = append(s.metrics, m) }

func (s *Simulator) Config() dynamo.Config { return s.cfg }

func (s *Simulator) Gravity() physics.Gravity { return s.gravity }

// Run integrates a fresh system launched at vTan until the target number
// of orbits completes or a terminal condition fires. Only cancellation is
// returned as an error; every other ending is encoded in the sample.
func (s *Simulator) Run(ctx context.Context, index int, vTan float64) (dynamo.Sample, error) {
	if err := s.cfg.Validate(); err != nil {
		return dynamo.Sample{}, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	sys := s.cfg.NewSystem(vTan)
	s.integrator.Prime(&sys)

	tr := orbit.NewTracker(s.cfg.Orbits, s.cfg.Dt)
	if s.cfg.AngleMode == dynamo.AngleSigned {
		rel := sys.Satellite.Velocity.Sub(sys.Primary.Velocity)
		tr.UseSigned(sys.Displacement().Cross(rel))
	}

	sample := dynamo.Sample{Index: index, Velocity: vTan}

	for step := 0; !tr.Done(); step++ {
		if s.cfg.MaxSteps > 0 && step >= s.cfg.MaxSteps {
			tr.Abort(dynamo.OutcomeNoConvergence)
			break
		}
		if step%ctxCheckInterval == 0 {
			select {
			case <-ctx.Done():
				tr.Abort(dynamo.OutcomeCanceled)
				s.finish(&sample, tr, step)
				return sample, &dynamo.SampleError{
					Index:    index,
					Velocity: vTan,
					Step:     step,
					Wrapped:  fmt.Errorf("%w: %w", dynamo.ErrCanceled, ctx.Err()),
				}
			default:
			}
		}

		prev := sys.Displacement()
		s.integrator.Step(&sys)
		next := sys.Displacement()
		sample.Steps = step + 1

		if s.cfg.CollisionRadius > 0 && closestApproach(prev, next) < s.cfg.CollisionRadius {
			tr.Abort(dynamo.OutcomeCollision)
			break
		}

		tr.Advance(prev, next)

		for _, m := range s.metrics {
			m.Observe(&sys, tr.Elapsed())
		}
	}

	s.finish(&sample, tr, sample.Steps)
	return sample, nil
}

func (s *Simulator) finish(sample *dynamo.Sample, tr *orbit.Tracker, steps int) {
	sample.Times = tr.Times()
	sample.Outcome = tr.Outcome()
	sample.Steps = steps
	if len(s.metrics) > 0 {
		sample.Metrics = make(map[string]float64, len(s.metrics))
		for _, m := range s.metrics {
			sample.Metrics[m.Name()] = m.Value()
		}
	}
}

// closestApproach is the smallest distance from the primary to the drift
// segment between two relative positions.
func closestApproach(prev, next dynamo.Vec3) float64 {
	seg := next.Sub(prev)
	l2 := seg.Dot(seg)
	if l2 == 0 {
		return prev.Norm()
	}
	s := -prev.Dot(seg) / l2
	switch {
	case s <= 0:
		return prev.Norm()
	case s >= 1:
		return next.Norm()
	}
	return prev.Add(seg.Scale(s)).Norm()
}
