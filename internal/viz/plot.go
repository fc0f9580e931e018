package viz

import (
	"fmt"
	"math"
	"sort"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/metrics"
)

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Cyan, asciigraph.Magenta, asciigraph.Yellow, asciigraph.Green,
	asciigraph.Red, asciigraph.Blue, asciigraph.Orange, asciigraph.White,
}

// PlotRadii plots each lineage's distance from the origin against sample
// index. Lineages with fewer than two samples are skipped; at most limit
// lineages are drawn, the longest first.
func PlotRadii(histories []*dynamo.History, limit, width, height int) (string, error) {
	var picked []*dynamo.History
	for _, h := range histories {
		if h.Len() >= 2 {
			picked = append(picked, h)
		}
	}
	if len(picked) == 0 {
		return "", fmt.Errorf("no lineage has more than one sample")
	}

	sort.SliceStable(picked, func(i, j int) bool { return picked[i].Len() > picked[j].Len() })
	if limit > 0 && len(picked) > limit {
		picked = picked[:limit]
	}

	data := make([][]float64, len(picked))
	legends := make([]string, len(picked))
	colors := make([]asciigraph.AnsiColor, len(picked))
	for i, h := range picked {
		series := make([]float64, h.Len())
		for j := range series {
			series[j] = h.Point(j).Magnitude()
		}
		data[i] = series
		legends[i] = label(h)
		colors[i] = seriesColors[i%len(seriesColors)]
	}

	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("distance from origin (m) per sample"),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
	), nil
}

// PlotHistogram plots one axis of an angular momentum distribution.
func PlotHistogram(c metrics.ComponentStats, width, height int) string {
	caption := fmt.Sprintf("L%s histogram, %d bins over [%.3e, %.3e)",
		c.Axis, len(c.Counts), c.Dividers[0], c.Dividers[len(c.Dividers)-1])

	counts := c.Counts
	if len(counts) == 1 {
		// asciigraph needs two points to draw a line
		counts = []float64{counts[0], counts[0]}
	}

	return asciigraph.Plot(counts,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.Caption(caption),
	)
}

func label(h *dynamo.History) string {
	name := h.Name
	if name == "" {
		name = fmt.Sprintf("#%d", h.ID)
	}
	if !h.Active() {
		name += fmt.Sprintf(" (merged @%d)", h.EndStep)
	}
	return name
}

// Extent returns the largest coordinate magnitude among bodies, or 1.
func Extent(bodies []*dynamo.Body) float64 {
	extent := 0.0
	for _, b := range bodies {
		for _, c := range []float64{b.Position.X, b.Position.Y, b.Position.Z} {
			if !math.IsNaN(c) && !math.IsInf(c, 0) {
				extent = math.Max(extent, math.Abs(c))
			}
		}
	}
	if extent == 0 {
		return 1
	}
	return extent
}
