package branchbound

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/LoadPlanner/internal/mip"
)

func knapsack() (*mip.Model, []mip.Var) {
	m := mip.NewModel("knapsack")
	values := []float64{10, 13, 7}
	weights := []float64{3, 4, 2}
	vars := make([]mip.Var, len(values))
	obj := mip.NewLinearExpr()
	load := mip.NewLinearExpr()
	for i := range values {
		vars[i] = m.NewBinary("take")
		obj.AddTerm(vars[i], -values[i])
		load.AddTerm(vars[i], weights[i])
	}
	m.AddLessOrEqual("capacity", load, mip.Constant(6))
	m.Minimize(obj)
	return m, vars
}

// ─── Optimal Tests ─────────────────────────────────────────

func TestSolve_Knapsack(t *testing.T) {
	m, vars := knapsack()

	sol, err := New().Solve(context.Background(), m)
	require.NoError(t, err)
	require.Equal(t, mip.StatusOptimal, sol.Status)

	assert.InDelta(t, -20, sol.Objective, 1e-9)
	assert.Equal(t, 0.0, sol.Value(vars[0]))
	assert.Equal(t, 1.0, sol.Value(vars[1]))
	assert.Equal(t, 1.0, sol.Value(vars[2]))
	assert.Empty(t, m.Check(sol.Values, 1e-9))
}

func TestSolve_IntegerRounding(t *testing.T) {
	// max x + y s.t. 2x + 2y <= 3 has LP optimum 1.5 but integer optimum 1.
	m := mip.NewModel("round")
	x := m.NewInteger("x", 0, 10)
	y := m.NewInteger("y", 0, 10)
	m.AddLessOrEqual("c", mip.NewLinearExpr().AddTerm(x, 2).AddTerm(y, 2), mip.Constant(3))
	m.Minimize(mip.NewLinearExpr().AddTerm(x, -1).AddTerm(y, -1))

	sol, err := New().Solve(context.Background(), m)
	require.NoError(t, err)
	require.True(t, sol.IsOptimal())
	assert.InDelta(t, -1, sol.Objective, 1e-9)
	assert.Greater(t, sol.Stats.Nodes, int64(1))
}

func TestSolve_Equality(t *testing.T) {
	m := mip.NewModel("eq")
	x := m.NewInteger("x", 0, 5)
	y := m.NewInteger("y", 0, 5)
	m.AddEquality("sum", mip.NewLinearExpr().Add(x).Add(y), mip.Constant(3))
	m.Minimize(mip.NewLinearExpr().AddTerm(x, 2).Add(y))

	sol, err := New().Solve(context.Background(), m)
	require.NoError(t, err)
	require.True(t, sol.IsOptimal())
	assert.InDelta(t, 3, sol.Objective, 1e-9)
	assert.Equal(t, 0.0, sol.Value(x))
	assert.Equal(t, 3.0, sol.Value(y))
}

func TestSolve_ContinuousVariable(t *testing.T) {
	m := mip.NewModel("cont")
	x := m.NewVar("x", 0, math.Inf(1), false)
	m.AddGreaterOrEqual("floor", mip.NewLinearExpr().Add(x), mip.Constant(1.5))
	m.Minimize(mip.NewLinearExpr().Add(x))

	sol, err := New().Solve(context.Background(), m)
	require.NoError(t, err)
	require.True(t, sol.IsOptimal())
	assert.InDelta(t, 1.5, sol.Value(x), 1e-7)
}

func TestSolve_ObjectiveConstantIsReported(t *testing.T) {
	m := mip.NewModel("const")
	x := m.NewBinary("x")
	m.AddGreaterOrEqual("on", mip.NewLinearExpr().Add(x), mip.Constant(1))
	m.Minimize(mip.NewLinearExpr().AddTerm(x, 27).AddConstant(-9))

	sol, err := New().Solve(context.Background(), m)
	require.NoError(t, err)
	require.True(t, sol.IsOptimal())
	assert.InDelta(t, 18, sol.Objective, 1e-9)
}

func TestSolve_AllVariablesFixed(t *testing.T) {
	m := mip.NewModel("fixed")
	x := m.NewInteger("x", 2, 2)
	m.AddLessOrEqual("c", mip.NewLinearExpr().Add(x), mip.Constant(3))
	m.Minimize(mip.NewLinearExpr().Add(x))

	sol, err := New().Solve(context.Background(), m)
	require.NoError(t, err)
	require.True(t, sol.IsOptimal())
	assert.Equal(t, 2.0, sol.Value(x))
	assert.InDelta(t, 2, sol.Objective, 1e-9)
}

func TestSolve_EmptyModel(t *testing.T) {
	sol, err := New().Solve(context.Background(), mip.NewModel("empty"))
	require.NoError(t, err)
	assert.True(t, sol.IsOptimal())
	assert.Equal(t, 0.0, sol.Objective)
}

// ─── Infeasible / Unbounded Tests ──────────────────────────

func TestSolve_InfeasibleRow(t *testing.T) {
	m := mip.NewModel("infeasible")
	x := m.NewBinary("x")
	m.AddGreaterOrEqual("too_big", mip.NewLinearExpr().Add(x), mip.Constant(2))
	m.Minimize(mip.NewLinearExpr().Add(x))

	sol, err := New().Solve(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, mip.StatusInfeasible, sol.Status)
	assert.False(t, sol.HasSolution())
	assert.Nil(t, sol.Values)
}

func TestSolve_IntegerInfeasible(t *testing.T) {
	// 2x == 1 has an LP solution but no integer one. Rounding the implied
	// bounds inward empties the domain before any LP is solved.
	m := mip.NewModel("parity")
	x := m.NewInteger("x", 0, 3)
	m.AddEquality("odd", mip.NewLinearExpr().AddTerm(x, 2), mip.Constant(1))
	m.Minimize(mip.NewLinearExpr().Add(x))

	sol, err := New().Solve(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, mip.StatusInfeasible, sol.Status)
	assert.Equal(t, int64(1), sol.Stats.Nodes)
	assert.Equal(t, int64(0), sol.Stats.Iterations)
}

func TestSolve_FixedRowViolated(t *testing.T) {
	m := mip.NewModel("fixed_violation")
	x := m.NewInteger("x", 4, 4)
	m.AddLessOrEqual("c", mip.NewLinearExpr().Add(x), mip.Constant(3))

	sol, err := New().Solve(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, mip.StatusInfeasible, sol.Status)
}

func TestSolve_Unbounded(t *testing.T) {
	m := mip.NewModel("unbounded")
	x := m.NewVar("x", 0, math.Inf(1), false)
	m.Minimize(mip.NewLinearExpr().AddTerm(x, -1))

	sol, err := New().Solve(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, mip.StatusUnbounded, sol.Status)
}

// ─── Limit Tests ───────────────────────────────────────────

func TestSolve_NodeLimit(t *testing.T) {
	m, _ := knapsack()

	sol, err := New(WithNodeLimit(1)).Solve(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, mip.StatusLimitReached, sol.Status)
	assert.Equal(t, int64(1), sol.Stats.Nodes)
	assert.False(t, sol.HasSolution())
}

func TestSolve_CancelledContext(t *testing.T) {
	m, _ := knapsack()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sol, err := New().Solve(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, mip.StatusLimitReached, sol.Status)
	assert.Equal(t, int64(0), sol.Stats.Nodes)
}

func TestSolve_TimeLimitOption(t *testing.T) {
	m, _ := knapsack()

	sol, err := New(WithTimeLimit(time.Minute)).Solve(context.Background(), m)
	require.NoError(t, err)
	assert.True(t, sol.IsOptimal())
	assert.Greater(t, sol.Stats.Iterations, int64(0))
}

func TestSolve_MalformedModel(t *testing.T) {
	m := mip.NewModel("bad")
	m.NewVar("x", 2, 1, false)

	_, err := New().Solve(context.Background(), m)
	assert.Error(t, err)
}
