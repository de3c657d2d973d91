package integrators

import (
	"github.com/san-kum/periodsweep/internal/dynamo"
	"github.com/san-kum/periodsweep/internal/physics"
)

// Leapfrog is the kick-drift-kick scheme with a fixed step. Accelerations
// are cached on the bodies between steps, so each step costs one force
// evaluation.
type Leapfrog struct {
	dt      float64
	halfDt  float64
	gravity physics.Gravity
}

func NewLeapfrog(dt float64, g physics.Gravity) *Leapfrog {
	return &Leapfrog{dt: dt, halfDt: 0.5 * dt, gravity: g}
}

func (l *Leapfrog) Dt() float64 { return l.dt }

// Prime computes the accelerations of the initial positions. Without it
// the first half kick uses whatever acceleration the bodies carry.
func (l *Leapfrog) Prime(sys *dynamo.TwoBody) {
	l.gravity.Accelerate(sys)
}

func (l *Leapfrog) Step(sys *dynamo.TwoBody) {
	// v_{i+1/2} = v_i + a_i*dt/2
	kick(&sys.Primary, l.halfDt)
	kick(&sys.Satellite, l.halfDt)

	// x_{i+1} = x_i + v_{i+1/2}*dt
	drift(&sys.Primary, l.dt)
	drift(&sys.Satellite, l.dt)

	l.gravity.Accelerate(sys)

	// v_{i+1} = v_{i+1/2} + a_{i+1}*dt/2
	kick(&sys.Primary, l.halfDt)
	kick(&sys.Satellite, l.halfDt)
}

func kick(b *dynamo.Body, h float64) {
	b.Velocity.AddInto(b.Acceleration.Scale(h))
}

func drift(b *dynamo.Body, dt float64) {
	b.Position.AddInto(b.Velocity.Scale(dt))
}
