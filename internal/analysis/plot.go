package analysis

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/periodsweep/internal/dynamo"
)

// PlotCompletion draws the completion time of orbit k (zero based) across
// the sweep. Samples that never got there leave gaps. Returns "" when no
// sample completed orbit k.
func PlotCompletion(samples []dynamo.Sample, k, width, height int) string {
	velocities, times := Series(samples, k)

	finite := 0
	for _, t := range times {
		if !math.IsNaN(t) {
			finite++
		}
	}
	if finite == 0 {
		return ""
	}

	caption := fmt.Sprintf("time_%d (s) vs v_tan %.0f..%.0f m/s", k+1, velocities[0], velocities[len(velocities)-1])
	return asciigraph.Plot(times,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
