package optim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/slrsim/internal/physics"
)

func distance(_ context.Context, p physics.Params) (float64, error) {
	return math.Abs(p.Damping-0.9) + math.Abs(p.BaseStrength-0.2), nil
}

func TestGridSearch_FindsMinimum(t *testing.T) {
	g := NewGridSearch(
		[]string{"damping", "base_strength"},
		[][]float64{{0.8, 0.9, 1.5}, {0.1, 0.2}},
	)

	res, err := g.Search(context.Background(), physics.DefaultParams(), distance)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if res.Params["damping"] != 0.9 || res.Params["base_strength"] != 0.2 {
		t.Errorf("unexpected best %v", res.Params)
	}
	if res.Value > 1e-12 {
		t.Errorf("best value = %v, want 0", res.Value)
	}
	if res.Evaluated != 4 || res.Skipped != 1 {
		t.Errorf("evaluated/skipped = %d/%d, want 4/1", res.Evaluated, res.Skipped)
	}
}

func TestGridSearch_SkipsFailedEvaluations(t *testing.T) {
	g := NewGridSearch([]string{"damping"}, [][]float64{{0.5, 0.9}})
	eval := func(_ context.Context, p physics.Params) (float64, error) {
		if p.Damping == 0.9 {
			return 0, errors.New("diverged")
		}
		return 1, nil
	}

	res, err := g.Search(context.Background(), physics.DefaultParams(), eval)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if res.Params["damping"] != 0.5 || res.Skipped != 1 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestGridSearch_NoValidPoint(t *testing.T) {
	g := NewGridSearch([]string{"damping"}, [][]float64{{-1, 2}})
	if _, err := g.Search(context.Background(), physics.DefaultParams(), distance); err == nil {
		t.Error("expected an error when every point is invalid")
	}
}

func TestGridSearch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewGridSearch([]string{"damping"}, [][]float64{{0.9}})
	if _, err := g.Search(ctx, physics.DefaultParams(), distance); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestGridSearch_MismatchedRanges(t *testing.T) {
	g := NewGridSearch([]string{"damping", "wave_decay"}, [][]float64{{0.9}})
	if _, err := g.Search(context.Background(), physics.DefaultParams(), distance); err == nil {
		t.Error("expected an error for mismatched ranges")
	}
}
