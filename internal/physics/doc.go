// Package physics provides the Newtonian two-body gravity model.
//
// [Gravity] computes the mutual acceleration of two point masses and the
// conserved quantities used to check an integration:
//
//   - [Gravity.MutualAcceleration]: equal and opposite pull, scaled by mass
//   - [Gravity.Energy]: kinetic plus potential energy of the pair
//   - [Gravity.AngularMomentum]: total angular momentum about the origin
//   - [Gravity.CircularVelocity], [Gravity.CircularPeriod],
//     [Gravity.EscapeVelocity]: closed-form two-body references
//
// # Singularities
//
// Coincident positions are not an error here. The division by zero
// propagates NaN/Inf into the accelerations and the orbit tracker reports
// the sample as degenerate:
//
//	grav := physics.NewGravity(dynamo.GravitationalConstant)
//	a, b := grav.MutualAcceleration(p, p, m1, m2) // NaN components
package physics
