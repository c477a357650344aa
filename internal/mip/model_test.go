package mip

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─── LinearExpr Tests ──────────────────────────────────────

func TestLinearExpr_ChainingAndEval(t *testing.T) {
	m := NewModel("expr")
	x := m.NewInteger("x", 0, 10)
	y := m.NewInteger("y", 0, 10)

	e := NewLinearExpr().AddTerm(x, 2).Add(y).AddConstant(3)

	assert.Len(t, e.Terms, 2)
	assert.Equal(t, 11.0, e.Eval([]float64{3, 2}))
	assert.Equal(t, 2.0, e.Coefficient(x))
}

func TestLinearExpr_ZeroCoefficientIsSkipped(t *testing.T) {
	e := NewLinearExpr().AddTerm(Var{ID: 0}, 0)
	assert.Empty(t, e.Terms)
}

func TestLinearExpr_AddExprScales(t *testing.T) {
	a := NewLinearExpr().AddTerm(Var{ID: 0}, 1).AddConstant(2)
	b := NewLinearExpr().AddExpr(a, -3)

	assert.Equal(t, -3.0, b.Coefficient(Var{ID: 0}))
	assert.Equal(t, -6.0, b.Constant)
	// The source must not change.
	assert.Equal(t, 2.0, a.Constant)
}

func TestLinearExpr_CloneIsIndependent(t *testing.T) {
	a := NewLinearExpr().AddTerm(Var{ID: 1}, 4)
	b := a.Clone().AddTerm(Var{ID: 2}, 1)

	assert.Len(t, a.Terms, 1)
	assert.Len(t, b.Terms, 2)
}

// ─── Model Tests ───────────────────────────────────────────

func TestModel_AddNormalizesRows(t *testing.T) {
	m := NewModel("rows")
	x := m.NewInteger("x", 0, 5)
	y := m.NewInteger("y", 0, 5)

	// x + 2 <= y + 1  ->  x - y <= -1
	idx := m.AddLessOrEqual("order", NewLinearExpr().Add(x).AddConstant(2), NewLinearExpr().Add(y).AddConstant(1))
	require.Equal(t, 0, idx)

	row := m.Constraints()[0]
	assert.Equal(t, LessOrEqual, row.Sense)
	assert.Equal(t, -1.0, row.RHS)
	require.Len(t, row.Terms, 2)
	assert.Equal(t, x, row.Terms[0].Var)
	assert.Equal(t, 1.0, row.Terms[0].Coef)
	assert.Equal(t, y, row.Terms[1].Var)
	assert.Equal(t, -1.0, row.Terms[1].Coef)
}

func TestModel_AddMergesDuplicateTerms(t *testing.T) {
	m := NewModel("merge")
	x := m.NewBinary("x")

	m.AddEquality("dup", NewLinearExpr().Add(x).Add(x), Constant(2))
	row := m.Constraints()[0]

	require.Len(t, row.Terms, 1)
	assert.Equal(t, 2.0, row.Terms[0].Coef)
}

func TestModel_AddDropsCancelledTerms(t *testing.T) {
	m := NewModel("cancel")
	x := m.NewBinary("x")

	m.AddGreaterOrEqual("c", NewLinearExpr().Add(x), NewLinearExpr().Add(x))
	assert.Empty(t, m.Constraints()[0].Terms)
}

func TestModel_IntegerBoundsRoundInward(t *testing.T) {
	m := NewModel("bounds")
	v := m.NewInteger("v", 0.5, 3.7)

	decl := m.Variable(v)
	assert.Equal(t, 1.0, decl.Lower)
	assert.Equal(t, 3.0, decl.Upper)
	assert.False(t, decl.IsBinary())
	assert.True(t, m.Variable(m.NewBinary("b")).IsBinary())
}

func TestModel_ConstraintsNamed(t *testing.T) {
	m := NewModel("named")
	x := m.NewBinary("x")
	m.AddLessOrEqual("cap[0]", NewLinearExpr().Add(x), Constant(1))
	m.AddLessOrEqual("cap[1]", NewLinearExpr().Add(x), Constant(1))
	m.AddLessOrEqual("other", NewLinearExpr().Add(x), Constant(1))

	assert.Len(t, m.ConstraintsNamed("cap["), 2)
	assert.Len(t, m.ConstraintsNamed("missing"), 0)
}

func TestModel_MinimizeKeepsConstant(t *testing.T) {
	m := NewModel("obj")
	x := m.NewBinary("x")
	m.Minimize(NewLinearExpr().AddTerm(x, 27).AddConstant(-9))

	obj := m.Objective()
	assert.Equal(t, -9.0, obj.Constant)
	assert.Equal(t, 18.0, obj.Eval([]float64{1}))
}

func TestModel_Validate(t *testing.T) {
	m := NewModel("ok")
	x := m.NewInteger("x", 0, 3)
	m.AddLessOrEqual("r", NewLinearExpr().Add(x), Constant(2))
	require.NoError(t, m.Validate())

	bad := NewModel("bad")
	bad.NewVar("empty", 3, 1, false)
	assert.Error(t, bad.Validate())

	unknown := NewModel("unknown")
	unknown.AddLessOrEqual("r", NewLinearExpr().Add(Var{ID: 4}), Constant(1))
	assert.Error(t, unknown.Validate())

	inf := NewModel("inf")
	y := inf.NewVar("y", 0, math.Inf(1), false)
	inf.AddLessOrEqual("r", NewLinearExpr().AddTerm(y, math.Inf(1)), Constant(1))
	assert.Error(t, inf.Validate())
}

// ─── Check Tests ───────────────────────────────────────────

func TestModel_CheckReportsViolations(t *testing.T) {
	m := NewModel("check")
	x := m.NewInteger("x", 0, 4)
	y := m.NewBinary("y")
	m.AddLessOrEqual("sum", NewLinearExpr().Add(x).Add(y), Constant(3))

	assert.Empty(t, m.Check([]float64{2, 1}, 1e-9))

	v := m.Check([]float64{3, 1}, 1e-9)
	require.Len(t, v, 1)
	assert.Equal(t, "sum", v[0].Name)
	assert.Equal(t, 4.0, v[0].Activity)

	v = m.Check([]float64{1.5, 0}, 1e-9)
	require.Len(t, v, 1)
	assert.Contains(t, v[0].Name, "integrality")

	v = m.Check([]float64{5, 0}, 1e-9)
	assert.Len(t, v, 2) // upper bound and row
}

func TestModel_CheckWrongLength(t *testing.T) {
	m := NewModel("len")
	m.NewBinary("a")
	assert.Len(t, m.Check(nil, 0), 1)
}

// ─── Solution Tests ────────────────────────────────────────

func TestSolution_Accessors(t *testing.T) {
	s := Solution{Status: StatusOptimal, Values: []float64{1, 2}}
	assert.True(t, s.IsOptimal())
	assert.True(t, s.HasSolution())
	assert.Equal(t, 2.0, s.Value(Var{ID: 1}))
	assert.Equal(t, 0.0, s.Value(Var{ID: 9}))

	inf := Solution{Status: StatusInfeasible}
	assert.True(t, inf.IsInfeasible())
	assert.False(t, inf.HasSolution())
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "optimal", StatusOptimal.String())
	assert.Equal(t, "feasible", StatusFeasible.String())
	assert.Equal(t, "infeasible", StatusInfeasible.String())
	assert.Equal(t, "unbounded", StatusUnbounded.String())
	assert.Equal(t, "limit_reached", StatusLimitReached.String())
	assert.Equal(t, "not_solved", StatusNotSolved.String())
}

func TestSolverFunc(t *testing.T) {
	called := false
	var s Solver = SolverFunc(func(ctx context.Context, m *Model) (Solution, error) {
		called = true
		return Solution{Status: StatusInfeasible}, nil
	})

	sol, err := s.Solve(context.Background(), NewModel("f"))
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, StatusInfeasible, sol.Status)
}
