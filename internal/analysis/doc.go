// Package analysis estimates orbital periods from sampled histories.
//
// A lineage orbiting the central mass traces a roughly periodic x
// coordinate. The dominant bin of its power spectrum gives the period:
//
//   - [Spectrum]: magnitude spectrum of a mean-removed series
//   - [DominantPeriod]: strongest period of one lineage
//   - [Periods]: [DominantPeriod] over every lineage long enough to analyse
//
// # Sampling
//
// Histories are sampled every report interval, so the sample spacing in
// seconds is the step gap between samples times the time step:
//
//	p, err := analysis.DominantPeriod(h, cfg.TimeStep)
//	if err == nil {
//	    fmt.Printf("%s: %.3g s\n", p.Name, p.Period)
//	}
package analysis
