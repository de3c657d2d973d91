package dynamo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 is a fixed 3-component vector. It shares its layout with r3.Vec so
// the two convert freely.
type Vec3 r3.Vec

func (v Vec3) r3() r3.Vec { return r3.Vec(v) }

func (v Vec3) Add(u Vec3) Vec3 { return Vec3(r3.Add(v.r3(), u.r3())) }

func (v Vec3) Sub(u Vec3) Vec3 { return Vec3(r3.Sub(v.r3(), u.r3())) }

// Scale returns a fresh vector with every component multiplied by f.
func (v Vec3) Scale(f float64) Vec3 { return Vec3(r3.Scale(f, v.r3())) }

// AddInto accumulates u into v.
func (v *Vec3) AddInto(u Vec3) {
	v.X += u.X
	v.Y += u.Y
	v.Z += u.Z
}

// ScaleInPlace multiplies every component of v by f.
func (v *Vec3) ScaleInPlace(f float64) {
	v.X *= f
	v.Y *= f
	v.Z *= f
}

func (v Vec3) Dot(u Vec3) float64 { return r3.Dot(v.r3(), u.r3()) }

func (v Vec3) Cross(u Vec3) Vec3 { return Vec3(r3.Cross(v.r3(), u.r3())) }

func (v Vec3) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Div divides every component by d. A zero divisor yields Inf or NaN
// components; callers treat that as degenerate input.
func (v Vec3) Div(d float64) Vec3 {
	return Vec3{X: v.X / d, Y: v.Y / d, Z: v.Z / d}
}

func (v Vec3) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
