package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/periodsweep/internal/dynamo"
)

// Periods returns the duration of each orbit. Completion times are
// cumulative, so orbit k lasted times[k]-times[k-1]. Unfilled slots stay NaN.
func Periods(s dynamo.Sample) []float64 {
	out := make([]float64, len(s.Times))
	prev := 0.0
	for i, t := range s.Times {
		out[i] = t - prev
		prev = t
	}
	return out
}

// PeriodStats summarizes the completed orbits of one sample.
type PeriodStats struct {
	Velocity float64
	Orbits   int
	Mean     float64
	StdDev   float64
	Min      float64
	Max      float64
}

// Summarize computes statistics over the filled slots. With no completed
// orbit every statistic is NaN.
func Summarize(s dynamo.Sample) PeriodStats {
	stats := PeriodStats{Velocity: s.Velocity, Orbits: s.Completed()}
	if stats.Orbits == 0 {
		nan := math.NaN()
		stats.Mean, stats.StdDev, stats.Min, stats.Max = nan, nan, nan, nan
		return stats
	}

	periods := Periods(s)[:stats.Orbits]
	stats.Min = floats.Min(periods)
	stats.Max = floats.Max(periods)
	if len(periods) == 1 {
		stats.Mean = periods[0]
		return stats
	}
	stats.Mean, stats.StdDev = stat.MeanStdDev(periods, nil)
	return stats
}

// SemiMajorAxis returns the semi-major axis of the relative orbit launched
// at vTan from the configured radius, or NaN when the orbit is unbound.
func SemiMajorAxis(cfg dynamo.Config, vTan float64) float64 {
	mu := cfg.G * (cfg.PrimaryMass + cfg.SatelliteMass)
	inv := 2/cfg.OrbitRadius - vTan*vTan/mu
	if inv <= 0 {
		return math.NaN()
	}
	return 1 / inv
}

// KeplerPeriod is the analytic period for a launch at vTan, NaN when
// unbound.
func KeplerPeriod(cfg dynamo.Config, vTan float64) float64 {
	a := SemiMajorAxis(cfg, vTan)
	if math.IsNaN(a) {
		return a
	}
	mu := cfg.G * (cfg.PrimaryMass + cfg.SatelliteMass)
	return 2 * math.Pi * math.Sqrt(a*a*a/mu)
}

// Periapsis is the closest approach of the orbit launched at vTan. The
// launch point is always an apsis because the launch is tangential.
func Periapsis(cfg dynamo.Config, vTan float64) float64 {
	a := SemiMajorAxis(cfg, vTan)
	if math.IsNaN(a) {
		return cfg.OrbitRadius
	}
	return math.Min(cfg.OrbitRadius, 2*a-cfg.OrbitRadius)
}

// KeplerResidual is the relative error of the sample's mean period
// against the analytic period.
func KeplerResidual(cfg dynamo.Config, s dynamo.Sample) float64 {
	want := KeplerPeriod(cfg, s.Velocity)
	return (Summarize(s).Mean - want) / want
}

// Series returns the completion time of orbit k (zero based) against
// launch velocity. Samples that never reached orbit k appear as NaN.
func Series(samples []dynamo.Sample, k int) (velocities, times []float64) {
	velocities = make([]float64, len(samples))
	times = make([]float64, len(samples))
	for i, s := range samples {
		velocities[i] = s.Velocity
		if k < len(s.Times) {
			times[i] = s.Times[k]
		} else {
			times[i] = math.NaN()
		}
	}
	return velocities, times
}

// OutcomeCounts tallies samples by outcome.
func OutcomeCounts(samples []dynamo.Sample) map[dynamo.Outcome]int {
	counts := make(map[dynamo.Outcome]int)
	for _, s := range samples {
		counts[s.Outcome]++
	}
	return counts
}
