package analysis

import (
	"errors"
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// MinSamples is the shortest history DominantPeriod accepts.
const MinSamples = 4

var ErrTooShort = errors.New("analysis: too few samples")

// Period is the dominant period of one lineage.
type Period struct {
	ID      dynamo.BodyID
	Name    string
	Samples int
	// Interval is the time between samples in seconds.
	Interval float64
	Bin      int
	Period   float64
	Power    float64
}

// Spectrum returns |X_k| for k in [0, n/2) of the discrete Fourier transform
// of series after removing its mean. The zero bin is therefore ~0.
func Spectrum(series []float64) []float64 {
	if len(series) == 0 {
		return nil
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	centered := make([]float64, len(series))
	for i, v := range series {
		centered[i] = v - mean
	}

	coeffs := fft.FFTReal(centered)
	ps := make([]float64, len(coeffs)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(coeffs[i])
	}
	return ps
}

// DominantPeriod finds the strongest non-zero frequency in the x coordinate
// of h. Samples are assumed evenly spaced, which holds for histories
// recorded by the simulator.
func DominantPeriod(h *dynamo.History, dt float64) (Period, error) {
	n := h.Len()
	if n < MinSamples {
		return Period{}, fmt.Errorf("%w: lineage %d has %d, need %d", ErrTooShort, h.ID, n, MinSamples)
	}

	gap := h.Steps[1] - h.Steps[0]
	if gap <= 0 || dt <= 0 {
		return Period{}, fmt.Errorf("analysis: lineage %d has no positive sample interval", h.ID)
	}

	ps := Spectrum(h.Xs)
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}

	interval := float64(gap) * dt
	return Period{
		ID:       h.ID,
		Name:     h.Name,
		Samples:  n,
		Interval: interval,
		Bin:      best,
		Period:   float64(n) * interval / float64(best),
		Power:    ps[best],
	}, nil
}

// Periods runs DominantPeriod over histories, skipping lineages that are
// too short.
func Periods(histories []*dynamo.History, dt float64) ([]Period, error) {
	var out []Period
	for _, h := range histories {
		p, err := DominantPeriod(h, dt)
		if errors.Is(err, ErrTooShort) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
