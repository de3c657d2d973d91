package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/periodsweep/internal/dynamo"
	"github.com/san-kum/periodsweep/internal/physics"
)

func unitSystem() dynamo.TwoBody {
	return dynamo.TwoBody{
		Primary:   dynamo.Body{Mass: 1},
		Satellite: dynamo.Body{Mass: 1, Position: dynamo.Vec3{Y: 2}, Velocity: dynamo.Vec3{X: 0.5}},
	}
}

func TestLeapfrogSingleStep(t *testing.T) {
	g := physics.NewGravity(1.0)
	lf := NewLeapfrog(0.1, g)
	sys := unitSystem()
	lf.Prime(&sys)

	// a_sat = -1/4 in y, a_pri = +1/4 in y.
	if sys.Satellite.Acceleration != (dynamo.Vec3{Y: -0.25}) {
		t.Fatalf("Prime: satellite acceleration = %v", sys.Satellite.Acceleration)
	}

	lf.Step(&sys)

	// Half kick: v_sat = (0.5, -0.0125); drift: x_sat = (0.05, 1.99875).
	wantSat := dynamo.Vec3{X: 0.05, Y: 2 - 0.00125}
	if d := sys.Satellite.Position.Sub(wantSat).Norm(); d > 1e-15 {
		t.Errorf("satellite position = %v, want %v", sys.Satellite.Position, wantSat)
	}
	wantPri := dynamo.Vec3{Y: 0.00125}
	if d := sys.Primary.Position.Sub(wantPri).Norm(); d > 1e-15 {
		t.Errorf("primary position = %v, want %v", sys.Primary.Position, wantPri)
	}

	// Second kick uses the acceleration at the new positions.
	aNew, _ := g.MutualAcceleration(wantSat, wantPri, 1, 1)
	wantV := dynamo.Vec3{X: 0.5, Y: -0.0125}.Add(aNew.Scale(0.05))
	if d := sys.Satellite.Velocity.Sub(wantV).Norm(); d > 1e-15 {
		t.Errorf("satellite velocity = %v, want %v", sys.Satellite.Velocity, wantV)
	}
}

func TestLeapfrogUnprimedFirstKick(t *testing.T) {
	g := physics.NewGravity(1.0)
	lf := NewLeapfrog(0.1, g)

	primed := unitSystem()
	lf.Prime(&primed)
	lf.Step(&primed)

	unprimed := unitSystem()
	lf.Step(&unprimed)

	if primed.Satellite.Position == unprimed.Satellite.Position {
		t.Error("expected the missing initial acceleration to change the first step")
	}
}

func TestLeapfrogMomentum(t *testing.T) {
	g := physics.NewGravity(1.0)
	lf := NewLeapfrog(0.01, g)
	sys := unitSystem()
	lf.Prime(&sys)

	for i := 0; i < 1000; i++ {
		lf.Step(&sys)
	}

	p := sys.Primary.Velocity.Scale(sys.Primary.Mass).Add(sys.Satellite.Velocity.Scale(sys.Satellite.Mass))
	if math.Abs(p.X-0.5) > 1e-12 || math.Abs(p.Y) > 1e-12 || math.Abs(p.Z) > 1e-12 {
		t.Errorf("linear momentum drifted: %v", p)
	}
}

func TestLeapfrogConservation(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	g := physics.NewGravity(cfg.G)
	vc := g.CircularVelocity(cfg.OrbitRadius, cfg.PrimaryMass, cfg.SatelliteMass)
	period := g.CircularPeriod(cfg.OrbitRadius, cfg.PrimaryMass, cfg.SatelliteMass)

	dt := 0.5
	lf := NewLeapfrog(dt, g)
	// Slightly eccentric so the kinetic/potential split actually varies.
	sys := cfg.NewSystem(0.9 * vc)
	lf.Prime(&sys)

	e0 := g.Energy(&sys)
	l0 := g.AngularMomentum(&sys)

	steps := int(3 * period / dt)
	maxE, maxL := 0.0, 0.0
	for i := 0; i < steps; i++ {
		lf.Step(&sys)
		maxE = math.Max(maxE, math.Abs((g.Energy(&sys)-e0)/e0))
		maxL = math.Max(maxL, g.AngularMomentum(&sys).Sub(l0).Norm()/l0.Norm())
	}

	if maxE > 1e-5 {
		t.Errorf("energy drift %.3e exceeds tolerance", maxE)
	}
	if maxL > 1e-9 {
		t.Errorf("angular momentum drift %.3e exceeds tolerance", maxL)
	}
}

func TestLeapfrogReversible(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	g := physics.NewGravity(cfg.G)
	lf := NewLeapfrog(1.0, g)

	sys := cfg.NewSystem(7000)
	start := sys.Satellite.Position
	lf.Prime(&sys)

	for i := 0; i < 2000; i++ {
		lf.Step(&sys)
	}
	sys.Primary.Velocity.ScaleInPlace(-1)
	sys.Satellite.Velocity.ScaleInPlace(-1)
	for i := 0; i < 2000; i++ {
		lf.Step(&sys)
	}

	if d := sys.Satellite.Position.Sub(start).Norm(); d > 1e-3 {
		t.Errorf("reversed trajectory missed the start by %.3e m", d)
	}
}
