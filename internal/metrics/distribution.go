package metrics

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// DefaultBins matches the bin count of a default histogram plot.
const DefaultBins = 10

// ComponentStats summarises one component of angular momentum over a
// population.
type ComponentStats struct {
	Axis     string    `json:"axis"`
	Mean     float64   `json:"mean"`
	StdDev   float64   `json:"std_dev"`
	Dividers []float64 `json:"dividers"`
	Counts   []float64 `json:"counts"`
}

// Distribution is the per-axis angular momentum distribution of a population.
type Distribution struct {
	Bodies int            `json:"bodies"`
	X      ComponentStats `json:"x"`
	Y      ComponentStats `json:"y"`
	Z      ComponentStats `json:"z"`
}

// AngularMomentumDistribution computes population standard deviations and
// histograms of Lx, Ly and Lz. Bodies' stored angular momentum is used as is
// and must be finite.
func AngularMomentumDistribution(bodies []*dynamo.Body, bins int) (*Distribution, error) {
	if len(bodies) == 0 {
		return nil, fmt.Errorf("%w: no bodies", dynamo.ErrInvalidState)
	}
	if bins <= 0 {
		bins = DefaultBins
	}

	lx := make([]float64, len(bodies))
	ly := make([]float64, len(bodies))
	lz := make([]float64, len(bodies))
	for i, b := range bodies {
		if !b.AngularMomentum.IsFinite() {
			return nil, fmt.Errorf("%w: body %d has angular momentum %v", dynamo.ErrInvalidState, b.ID, b.AngularMomentum)
		}
		lx[i] = b.AngularMomentum.X
		ly[i] = b.AngularMomentum.Y
		lz[i] = b.AngularMomentum.Z
	}

	return &Distribution{
		Bodies: len(bodies),
		X:      componentStats("x", lx, bins),
		Y:      componentStats("y", ly, bins),
		Z:      componentStats("z", lz, bins),
	}, nil
}

func componentStats(axis string, values []float64, bins int) ComponentStats {
	mean, std := stat.PopMeanStdDev(values, nil)

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	lo, hi := floats.Min(sorted), floats.Max(sorted)
	if lo == hi {
		// widen a degenerate range so every value lands in the middle bin
		pad := math.Max(math.Abs(lo)*0.5, 0.5)
		lo, hi = lo-pad, hi+pad
	}

	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	// Histogram bins are half-open; the maximum must fall inside the last one.
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	return ComponentStats{
		Axis:     axis,
		Mean:     mean,
		StdDev:   std,
		Dividers: dividers,
		Counts:   stat.Histogram(nil, dividers, sorted, nil),
	}
}

// StdDevs returns the standard deviations of Lx, Ly and Lz.
func (d *Distribution) StdDevs() dynamo.Vec3 {
	return dynamo.Vec3{X: d.X.StdDev, Y: d.Y.StdDev, Z: d.Z.StdDev}
}

func (d *Distribution) Components() []ComponentStats {
	return []ComponentStats{d.X, d.Y, d.Z}
}
