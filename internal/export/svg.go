package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/periodsweep/internal/analysis"
	"github.com/san-kum/periodsweep/internal/dynamo"
)

// Point is one plotted (x, y) pair. NaN in Y breaks the line.
type Point struct{ X, Y float64 }

// CompletionToSVG plots the completion time of orbit k (zero based)
// against launch velocity, one polyline per run of completed samples.
func CompletionToSVG(samples []dynamo.Sample, k, width, height int, strokeColor string) string {
	velocities, times := analysis.Series(samples, k)
	points := make([]Point, len(velocities))
	for i := range velocities {
		points[i] = Point{X: velocities[i], Y: times[i]}
	}
	return LineToSVG(points, width, height, strokeColor)
}

// LineToSVG creates an SVG line plot. Returns "" with fewer than two
// finite points.
func LineToSVG(points []Point, width, height int, strokeColor string) string {
	finite := 0
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		if math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			continue
		}
		finite++
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	if finite < 2 {
		return ""
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="`,
		width, height, width, height, strokeColor))

	pen := false
	for _, p := range points {
		if math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			pen = false
			continue
		}
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)

		if pen {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" M%.1f,%.1f", x, y))
			pen = true
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
