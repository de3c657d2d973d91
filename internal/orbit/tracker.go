// Package orbit turns a stepped trajectory into discrete orbit completions
// by accumulating the angle swept by the satellite around the primary.
package orbit

import (
	"math"

	"github.com/san-kum/periodsweep/internal/dynamo"
)

// FullTurn is the accumulated angle that counts as one orbit.
const FullTurn = 2 * math.Pi

// Event is what a single Advance observed.
type Event int

const (
	EventNone Event = iota
	EventOrbit
	EventDegenerate
)

// SweptAngle is the unsigned angle between two displacement vectors. The
// ratio is not clamped: degenerate input yields NaN.
func SweptAngle(prev, next dynamo.Vec3) float64 {
	return math.Acos(prev.Dot(next) / (prev.Norm() * next.Norm()))
}

// SignedSweptAngle is the angle from prev to next about normal, positive
// counter-clockwise when looking down the normal.
func SignedSweptAngle(prev, next, normal dynamo.Vec3) float64 {
	return math.Atan2(prev.Cross(next).Dot(normal), prev.Dot(next))
}

// Tracker accumulates swept angle and elapsed time for one sample and
// records the elapsed time of each completed orbit.
type Tracker struct {
	target  int
	dt      float64
	signed  bool
	normal  dynamo.Vec3
	angle   float64
	elapsed float64
	orbits  int
	times   []float64
	done    bool
	outcome dynamo.Outcome
}

func NewTracker(target int, dt float64) *Tracker {
	t := &Tracker{target: target, dt: dt}
	t.Reset()
	return t
}

// UseSigned switches the tracker to signed angles about normal. A zero
// normal only registers antiparallel steps.
func (t *Tracker) UseSigned(normal dynamo.Vec3) {
	t.signed = true
	if n := normal.Norm(); n > 0 {
		t.normal = normal.Div(n)
	} else {
		t.normal = dynamo.Vec3{}
	}
}

// Advance accounts for one integration step from prev to next.
func (t *Tracker) Advance(prev, next dynamo.Vec3) Event {
	if t.done {
		return EventNone
	}

	if t.signed {
		t.angle += SignedSweptAngle(prev, next, t.normal)
	} else {
		t.angle += SweptAngle(prev, next)
	}
	t.elapsed += t.dt

	if math.IsNaN(t.angle) {
		t.Abort(dynamo.OutcomeDegenerate)
		return EventDegenerate
	}

	if t.angle >= FullTurn {
		t.times[t.orbits] = t.elapsed
		t.orbits++
		// Carry the remainder so the next orbit is not measured short.
		t.angle -= FullTurn
		if t.orbits == t.target {
			t.done = true
			t.outcome = dynamo.OutcomeCompleted
		}
		return EventOrbit
	}
	return EventNone
}

// Abort stops the tracker and marks every unfilled slot with NaN.
func (t *Tracker) Abort(outcome dynamo.Outcome) {
	if t.done {
		return
	}
	for i := t.orbits; i < len(t.times); i++ {
		t.times[i] = math.NaN()
	}
	t.done = true
	t.outcome = outcome
}

func (t *Tracker) Done() bool              { return t.done }
func (t *Tracker) Outcome() dynamo.Outcome { return t.outcome }
func (t *Tracker) Angle() float64          { return t.angle }
func (t *Tracker) Elapsed() float64        { return t.elapsed }
func (t *Tracker) Orbits() int             { return t.orbits }

// Times returns a copy of the completion slots.
func (t *Tracker) Times() []float64 {
	out := make([]float64, len(t.times))
	copy(out, t.times)
	return out
}

func (t *Tracker) Reset() {
	t.angle = 0
	t.elapsed = 0
	t.orbits = 0
	t.done = false
	t.outcome = dynamo.OutcomeCompleted
	t.times = make([]float64, t.target)
	for i := range t.times {
		t.times[i] = math.NaN()
	}
}
