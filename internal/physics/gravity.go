package physics

import (
	"math"

	"github.com/san-kum/periodsweep/internal/dynamo"
)

// Gravity is Newtonian point-mass attraction with constant G.
type Gravity struct {
	G float64
}

func NewGravity(g float64) Gravity {
	return Gravity{G: g}
}

// MutualAcceleration returns the accelerations of a and b due to each
// other. Coincident positions divide by zero and propagate NaN/Inf into
// both results; detecting that is left to the orbit tracker.
func (g Gravity) MutualAcceleration(posA, posB dynamo.Vec3, massA, massB float64) (accA, accB dynamo.Vec3) {
	d := posA.Sub(posB)
	r2 := d.Dot(d)
	u := d.Div(math.Sqrt(r2))

	accA = u.Scale(-g.G * massB / r2)
	accB = u.Scale(g.G * massA / r2)
	return accA, accB
}

// Accelerate stores the mutual accelerations of the current positions.
func (g Gravity) Accelerate(sys *dynamo.TwoBody) {
	sys.Primary.Acceleration, sys.Satellite.Acceleration = g.MutualAcceleration(
		sys.Primary.Position, sys.Satellite.Position,
		sys.Primary.Mass, sys.Satellite.Mass,
	)
}

// Energy returns kinetic plus potential energy of the pair.
func (g Gravity) Energy(sys *dynamo.TwoBody) float64 {
	p, s := &sys.Primary, &sys.Satellite
	ke := 0.5*p.Mass*p.Velocity.Dot(p.Velocity) + 0.5*s.Mass*s.Velocity.Dot(s.Velocity)
	r := s.Position.Sub(p.Position).Norm()
	return ke - g.G*p.Mass*s.Mass/r
}

// AngularMomentum returns the total angular momentum about the origin.
func (g Gravity) AngularMomentum(sys *dynamo.TwoBody) dynamo.Vec3 {
	p, s := &sys.Primary, &sys.Satellite
	lp := p.Position.Cross(p.Velocity.Scale(p.Mass))
	ls := s.Position.Cross(s.Velocity.Scale(s.Mass))
	return lp.Add(ls)
}

// CircularVelocity is the relative speed of a circular orbit of radius r.
func (g Gravity) CircularVelocity(r, massA, massB float64) float64 {
	return math.Sqrt(g.G * (massA + massB) / r)
}

// EscapeVelocity is the relative speed that makes the pair unbound at r.
func (g Gravity) EscapeVelocity(r, massA, massB float64) float64 {
	return math.Sqrt(2 * g.G * (massA + massB) / r)
}

// CircularPeriod is the Keplerian period of a circular orbit of radius r.
func (g Gravity) CircularPeriod(r, massA, massB float64) float64 {
	return 2 * math.Pi * math.Sqrt(r*r*r/(g.G*(massA+massB)))
}
