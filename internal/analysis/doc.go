// Package analysis characterizes recorded fluid traces.
//
// The chart's motion is a damped spring plus a decaying wave, so the useful
// questions are how far it overshoots, how often it rings and at what
// period:
//
//   - [Respond]: overshoot, ring count and settle frame for one trace
//   - [DominantPeriod]: strongest oscillation period of a series in frames
//   - [NewPhasePortrait]: cost against cost velocity, drawable as text
//
// Example:
//
//	r := analysis.Respond(trace)
//	period, ok := analysis.DominantPeriod(costs)
package analysis
