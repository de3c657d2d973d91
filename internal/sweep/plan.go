// Package sweep runs a range of launch velocities through the simulator
// and hands the samples to a sink in sweep order.
package sweep

import (
	"math"

	"github.com/san-kum/periodsweep/internal/dynamo"
)

// Plan is an evenly spaced velocity range. Indices run 0..Samples
// inclusive.
type Plan struct {
	Min     float64
	Max     float64
	Samples int
	// SkipMidpoint drops index Samples/2, which is the radial launch on a
	// symmetric range.
	SkipMidpoint bool
}

// Point is one planned launch.
type Point struct {
	Index    int
	Velocity float64
}

// SymmetricPlan spans [-max, max] the way the reference sweep does.
func SymmetricPlan(max float64, samples int) Plan {
	return Plan{Min: -max, Max: max, Samples: samples, SkipMidpoint: true}
}

func (p Plan) Validate() error {
	if p.Samples < 1 {
		return &dynamo.ConfigError{Field: "samples", Value: float64(p.Samples), Reason: "must be at least 1"}
	}
	for _, v := range []struct {
		field string
		value float64
	}{{"min_velocity", p.Min}, {"max_velocity", p.Max}} {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return &dynamo.ConfigError{Field: v.field, Value: v.value, Reason: "must be finite"}
		}
	}
	if p.Max < p.Min {
		return &dynamo.ConfigError{Field: "max_velocity", Value: p.Max, Reason: "must not be below min_velocity"}
	}
	return nil
}

// Step is the velocity spacing between neighbouring indices.
func (p Plan) Step() float64 {
	return (p.Max - p.Min) / float64(p.Samples)
}

// Velocity returns the launch velocity of index i.
func (p Plan) Velocity(i int) float64 {
	return p.Min + float64(i)*p.Step()
}

func (p Plan) Points() []Point {
	points := make([]Point, 0, p.Samples+1)
	for i := 0; i <= p.Samples; i++ {
		if p.SkipMidpoint && i == p.Samples/2 {
			continue
		}
		points = append(points, Point{Index: i, Velocity: p.Velocity(i)})
	}
	return points
}
