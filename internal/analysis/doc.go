// Package analysis summarises finished three-body runs.
//
//   - [DominantPeriod]: strongest period in a sampled signal, via FFT
//   - [ClosestApproaches]: minimum separation of every pair
//   - [LyapunovExponent]: divergence rate of two nearby runs
//   - [Analyze]: closest approaches and the period of the inner pair, as a [Report]
//
// A bound pair shows up as a sharp peak in the spectrum of its separation.
// A positive exponent means the configuration is chaotic:
//
//	lambda, err := analysis.LyapunovExponent(ctx, sys, integ, x0, plan, 1e-8)
//	if err == nil && lambda > 0 {
//	    // nearby starts diverge
//	}
package analysis
