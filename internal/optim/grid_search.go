// Package optim searches physics parameters for a preferred fluid feel.
package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/slrsim/internal/physics"
)

// Evaluate scores one parameter set; lower is better.
type Evaluate func(ctx context.Context, p physics.Params) (float64, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Result is the best point found. Evaluated counts the grid points that
// produced a score; invalid combinations are skipped.
type Result struct {
	Params    map[string]float64
	Value     float64
	Evaluated int
	Skipped   int
}

// Search tries every combination of the ranges applied over base.
func (g *GridSearch) Search(ctx context.Context, base physics.Params, eval Evaluate) (*Result, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("optim: %d names for %d ranges", len(g.paramNames), len(g.ranges))
	}

	res := &Result{Value: math.Inf(1)}
	if err := g.searchRecursive(ctx, 0, base, make(map[string]float64), eval, res); err != nil {
		return nil, err
	}
	if res.Params == nil {
		return nil, fmt.Errorf("optim: no valid parameter combination")
	}
	return res, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	p physics.Params,
	current map[string]float64,
	eval Evaluate,
	res *Result,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		val, err := eval(ctx, p)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			res.Skipped++
			return nil
		}
		res.Evaluated++

		if val < res.Value {
			res.Value = val
			res.Params = make(map[string]float64, len(current))
			for k, v := range current {
				res.Params[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := p
		if err := next.SetParam(paramName, val); err != nil {
			res.Skipped++
			continue
		}
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, next, newParams, eval, res); err != nil {
			return err
		}
	}
	return nil
}
