package analysis

import (
	"math"

	"github.com/san-kum/slrsim/internal/experiment"
)

// ringThreshold ignores velocity sign flips too small to see.
const ringThreshold = 1e-3

// Response summarizes how the fluid reached its final position.
type Response struct {
	Start, Final float64
	// Overshoot is how far cost travelled past Final, in chart percent.
	Overshoot float64
	// Rings counts cost velocity reversals.
	Rings       int
	SettleFrame int
	Settled     bool
	// Period is the dominant cost oscillation period in frames, 0 if none.
	Period float64
}

func Respond(t *experiment.Trace) Response {
	r := Response{SettleFrame: t.SettleFrame, Settled: t.Settled}
	if len(t.Rows) == 0 {
		return r
	}

	r.Start, r.Final = t.Rows[0].Cost, t.Rows[len(t.Rows)-1].Cost
	lo, hi := r.Final, r.Final
	costs := make([]float64, len(t.Rows))
	sign := 0.0
	for i, row := range t.Rows {
		costs[i] = row.Cost
		lo, hi = min(lo, row.Cost), max(hi, row.Cost)

		if math.Abs(row.VelCost) < ringThreshold {
			continue
		}
		s := math.Copysign(1, row.VelCost)
		if sign != 0 && s != sign {
			r.Rings++
		}
		sign = s
	}

	if r.Final >= r.Start {
		r.Overshoot = hi - r.Final
	} else {
		r.Overshoot = r.Final - lo
	}
	if period, ok := DominantPeriod(costs); ok && r.Rings > 0 {
		r.Period = period
	}
	return r
}

// Metrics flattens r for storage alongside a trace summary.
func (r Response) Metrics() map[string]float64 {
	return map[string]float64{
		"overshoot": r.Overshoot,
		"rings":     float64(r.Rings),
		"period":    r.Period,
	}
}
