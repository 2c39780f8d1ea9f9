package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/slrsim/internal/experiment"
)

func traceOf(costs, vels []float64) *experiment.Trace {
	t := &experiment.Trace{Settled: true, SettleFrame: len(costs) - 1}
	for i := range costs {
		t.Rows = append(t.Rows, experiment.Row{Frame: i, Cost: costs[i], VelCost: vels[i]})
	}
	return t
}

func TestFFT_PadsToPowerOfTwo(t *testing.T) {
	if n := len(FFT(make([]float64, 5))); n != 8 {
		t.Errorf("expected 8 bins, got %d", n)
	}
	if n := len(FFT(make([]float64, 16))); n != 16 {
		t.Errorf("expected 16 bins, got %d", n)
	}
}

func TestDominantPeriod(t *testing.T) {
	data := make([]float64, 128)
	for i := range data {
		data[i] = 50 + 10*math.Sin(2*math.Pi*float64(i)/16)
	}

	period, ok := DominantPeriod(data)
	if !ok {
		t.Fatal("expected a period")
	}
	if math.Abs(period-16) > 1e-9 {
		t.Errorf("period = %v, want 16", period)
	}
}

func TestDominantPeriod_Flat(t *testing.T) {
	if _, ok := DominantPeriod([]float64{3, 3, 3, 3, 3, 3}); ok {
		t.Error("flat series has no period")
	}
	if _, ok := DominantPeriod([]float64{1, 2}); ok {
		t.Error("short series has no period")
	}
}

func TestRespond_Rising(t *testing.T) {
	r := Respond(traceOf(
		[]float64{0, 50, 110, 105, 98, 100, 100},
		[]float64{0, 50, 60, -5, -7, 2, 0},
	))

	if r.Start != 0 || r.Final != 100 {
		t.Errorf("start/final = %v/%v", r.Start, r.Final)
	}
	if r.Overshoot != 10 {
		t.Errorf("overshoot = %v, want 10", r.Overshoot)
	}
	if r.Rings != 2 {
		t.Errorf("rings = %d, want 2", r.Rings)
	}
	if !r.Settled || r.SettleFrame != 6 {
		t.Errorf("settle = %v/%d", r.Settled, r.SettleFrame)
	}
}

func TestRespond_Falling(t *testing.T) {
	r := Respond(traceOf(
		[]float64{100, 40, 35, 42, 40},
		[]float64{0, -60, -5, 7, -2},
	))

	if r.Overshoot != 5 {
		t.Errorf("overshoot = %v, want 5", r.Overshoot)
	}
	if r.Rings != 2 {
		t.Errorf("rings = %d, want 2", r.Rings)
	}
	if m := r.Metrics(); m["overshoot"] != 5 || m["rings"] != 2 {
		t.Errorf("unexpected metrics %v", m)
	}
}

func TestRespond_Empty(t *testing.T) {
	r := Respond(&experiment.Trace{})
	if r.Overshoot != 0 || r.Rings != 0 || r.Period != 0 {
		t.Errorf("expected zero response, got %+v", r)
	}
}

func TestPhasePortrait(t *testing.T) {
	p := NewPhasePortrait(traceOf([]float64{0, 10, 20}, []float64{-1, 0, 1}))
	if len(p.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(p.Points))
	}

	out := p.ASCII(20, 5)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 5 {
		t.Errorf("expected 5 rows, got %d", len(lines))
	}
	if strings.Count(out, "•") != 3 {
		t.Errorf("expected 3 dots:\n%s", out)
	}
	if !strings.Contains(out, "─") {
		t.Errorf("expected a zero axis:\n%s", out)
	}
	if (&PhasePortrait{}).ASCII(20, 5) != "" {
		t.Error("empty portrait should render nothing")
	}
}
