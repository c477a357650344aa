package mip

import (
	"context"
	"time"
)

// Status is the terminal state reported by a solver.
type Status int

const (
	StatusNotSolved    Status = iota // Solve was never run or aborted before search
	StatusOptimal                    // Proven optimal solution available
	StatusFeasible                   // Limit reached with an incumbent, optimality unproven
	StatusInfeasible                 // Proven infeasible
	StatusUnbounded                  // Objective unbounded below
	StatusLimitReached               // Limit reached without any incumbent
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusLimitReached:
		return "limit_reached"
	default:
		return "not_solved"
	}
}

// Stats are the solver's own statistics, passed through for diagnostics.
type Stats struct {
	WallTime   time.Duration
	Iterations int64 // LP solves or engine-specific iteration count
	Nodes      int64 // branch-and-bound nodes explored
}

// Solution contains the results from solving a Model.
type Solution struct {
	Status    Status
	Objective float64
	// Values is indexed by Var.ID. Only meaningful when HasSolution is true.
	Values []float64
	Stats  Stats
}

// IsOptimal returns true if the solution is proven optimal.
func (s Solution) IsOptimal() bool {
	return s.Status == StatusOptimal
}

// IsInfeasible returns true if the model was proven infeasible.
func (s Solution) IsInfeasible() bool {
	return s.Status == StatusInfeasible
}

// HasSolution returns true if Values holds an integer-feasible assignment.
func (s Solution) HasSolution() bool {
	return (s.Status == StatusOptimal || s.Status == StatusFeasible) && s.Values != nil
}

// Value returns the solution value for v, or 0 when out of range.
func (s Solution) Value(v Var) float64 {
	if v.ID < 0 || v.ID >= len(s.Values) {
		return 0
	}
	return s.Values[v.ID]
}

// Solver is the integer-programming service used by the packing formulation.
// Implementations run a single blocking batch solve; ctx cancellation or
// deadline ends the search with StatusLimitReached or StatusFeasible.
// The returned error is reserved for malformed models and engine failures,
// not for infeasibility.
type Solver interface {
	Solve(ctx context.Context, m *Model) (Solution, error)
}

// SolverFunc adapts an ordinary function to the Solver interface.
type SolverFunc func(ctx context.Context, m *Model) (Solution, error)

// Solve calls f(ctx, m).
func (f SolverFunc) Solve(ctx context.Context, m *Model) (Solution, error) {
	return f(ctx, m)
}
