package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/piwi3910/LoadPlanner/internal/mip"
	"github.com/piwi3910/LoadPlanner/internal/model"
	"github.com/piwi3910/LoadPlanner/internal/solver/branchbound"
)

func box(label string, l, w, h, weight float64) model.Carton {
	return model.NewCarton(label, l, w, h, weight)
}

func bin(label string, l, w, h, capacity float64) model.Container {
	return model.NewContainer(label, l, w, h, capacity)
}

func testSettings() model.SolveSettings {
	s := model.DefaultSettings()
	s.TimeLimit = 0
	return s
}

// solve builds and solves the instance with the built-in solver and returns
// the extracted plan.
func solve(t *testing.T, in model.Instance, s model.SolveSettings) (model.LoadPlan, error) {
	t.Helper()
	m, vm, err := NewBuilder(s, nil).Build(in)
	require.NoError(t, err)
	sol, err := branchbound.New(branchbound.WithNodeLimit(20000)).Solve(context.Background(), m)
	require.NoError(t, err)
	return Extract(in, vm, sol)
}

// fixedSolver returns the same solution for every model.
func fixedSolver(sol mip.Solution) mip.Solver {
	return mip.SolverFunc(func(ctx context.Context, m *mip.Model) (mip.Solution, error) {
		return sol, nil
	})
}
