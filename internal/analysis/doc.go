// Package analysis turns sweep samples into orbital periods and compares
// them with Keplerian predictions.
//
//   - [Periods]: per-orbit durations from cumulative completion times
//   - [Summarize]: mean, spread and range of one sample's periods
//   - [KeplerPeriod]: analytic period of the two-body orbit at a launch velocity
//   - [PlotCompletion]: completion time of one orbit across the sweep
//
// # Kepler Check
//
//	stats := analysis.Summarize(sample)
//	want := analysis.KeplerPeriod(cfg, sample.Velocity)
//	residual := (stats.Mean - want) / want
package analysis
