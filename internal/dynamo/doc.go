// Package dynamo provides the core primitives shared by the orbit sweep.
//
// The package defines the data model for a two-body run:
//
//   - [Vec3]: fixed 3-component vector arithmetic
//   - [Body] and [TwoBody]: the primary and the satellite of one sample
//   - [Config]: immutable physical and numerical parameters of a run
//   - [Sample]: one output row (launch velocity and completion times)
//   - [Metric]: observer interface for per-step diagnostics
//
// # Example
//
//	cfg := dynamo.DefaultConfig()
//	sys := cfg.NewSystem(7844.08497109)
//	grav := physics.NewGravity(cfg.G)
//	lf := integrators.NewLeapfrog(cfg.Dt, grav)
//	lf.Prime(&sys)
//	lf.Step(&sys)
//
// # Ownership
//
// A TwoBody belongs to exactly one sample. Parallel sweeps create one
// system per worker and never share it.
package dynamo
