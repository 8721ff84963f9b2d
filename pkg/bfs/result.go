package bfs

import (
	"fmt"
	"slices"
)

// assemble packages the recorded steps and the outcome into a Result.
// Step order and numbering are taken from the recorder unchanged.
func assemble(g Graph, rec *Recorder, solution Path) (*Result, error) {
	steps := rec.AllSteps()
	res := &Result{
		Steps:      steps,
		TotalSteps: len(steps),
	}
	if solution == nil {
		return res, nil
	}

	cost, err := g.PathWeight(solution)
	if err != nil {
		return nil, fmt.Errorf("%w: weighing path %v: %w", ErrInternal, solution, err)
	}
	res.Found = true
	res.Path = slices.Clone(solution)
	res.PathCost = cost
	return res, nil
}
