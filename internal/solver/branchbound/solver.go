// Package branchbound is a pure-Go mixed-integer solver for mip models. It
// runs a depth-first branch-and-bound over LP relaxations solved with the
// gonum simplex. It is meant for small exact instances and for tests; larger
// fleets should plug a production engine in behind mip.Solver.
package branchbound

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/piwi3910/LoadPlanner/internal/mip"
)

// Option configures a Solver.
type Option func(*Solver)

// WithTimeLimit bounds the wall-clock time of a single Solve call.
func WithTimeLimit(d time.Duration) Option {
	return func(s *Solver) { s.timeLimit = d }
}

// WithNodeLimit bounds the number of branch-and-bound nodes explored.
func WithNodeLimit(n int64) Option {
	return func(s *Solver) { s.nodeLimit = n }
}

// WithTolerance sets the integrality and feasibility tolerance.
func WithTolerance(tol float64) Option {
	return func(s *Solver) {
		if tol > 0 {
			s.tol = tol
		}
	}
}

// WithLogger sets the logger used for search progress.
func WithLogger(l *slog.Logger) Option {
	return func(s *Solver) { s.logger = l }
}

// Solver implements mip.Solver.
type Solver struct {
	timeLimit time.Duration
	nodeLimit int64
	tol       float64
	logger    *slog.Logger
}

var _ mip.Solver = (*Solver)(nil)

// New creates a Solver with the given options.
func New(opts ...Option) *Solver {
	s := &Solver{tol: 1e-6}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// node is an open subproblem: the model under tightened variable bounds.
type node struct {
	lb, ub []float64
	depth  int
}

// search holds the mutable state of one Solve call.
type search struct {
	p           *problem
	m           *mip.Model
	tol         float64
	integralObj bool

	best      float64
	incumbent []float64
	trouble   bool // a relaxation failed numerically; proofs are void

	nodes    int64
	lpSolves int64
}

// Solve runs branch-and-bound on m. Infeasibility and limits are reported
// through the solution status; the error is non-nil only for malformed
// models.
func (s *Solver) Solve(ctx context.Context, m *mip.Model) (mip.Solution, error) {
	start := time.Now()
	if err := m.Validate(); err != nil {
		return mip.Solution{Status: mip.StatusNotSolved}, err
	}
	if s.timeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeLimit)
		defer cancel()
	}

	p := newProblem(m)
	st := &search{
		p:           p,
		m:           m,
		tol:         s.tol,
		integralObj: p.integralObjective(),
		best:        math.Inf(1),
	}
	s.logger.Debug("branchbound: solve started",
		"model", m.Name(), "vars", m.NumVars(), "rows", m.NumConstraints())

	status := s.run(ctx, st)

	sol := mip.Solution{
		Status: status,
		Stats: mip.Stats{
			WallTime:   time.Since(start),
			Iterations: st.lpSolves,
			Nodes:      st.nodes,
		},
	}
	if sol.Status == mip.StatusOptimal || sol.Status == mip.StatusFeasible {
		sol.Values = st.incumbent
		sol.Objective = st.best
	}
	s.logger.Debug("branchbound: solve finished",
		"model", m.Name(), "status", sol.Status.String(), "objective", sol.Objective,
		"nodes", st.nodes, "lp_solves", st.lpSolves, "dur_ms", sol.Stats.WallTime.Milliseconds())
	return sol, nil
}

func (s *Solver) run(ctx context.Context, st *search) mip.Status {
	lb, ub := st.p.bounds()
	stack := []node{{lb: lb, ub: ub}}
	limited := false

	for len(stack) > 0 {
		if ctx.Err() != nil || (s.nodeLimit > 0 && st.nodes >= s.nodeLimit) {
			limited = true
			break
		}
		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		st.nodes++

		lb, ub := clone(nd.lb), clone(nd.ub)
		if !st.p.propagate(lb, ub, st.tol) {
			continue
		}
		rel := st.p.solveLP(lb, ub, st.tol)
		st.lpSolves++
		switch rel.status {
		case lpInfeasible:
			continue
		case lpUnbounded:
			return mip.StatusUnbounded
		case lpFailed:
			st.trouble = true
			s.logger.Debug("branchbound: relaxation failed", "depth", nd.depth, "error", rel.err)
			continue
		}
		if st.dominated(rel.obj) {
			continue
		}

		k := st.branchVar(rel.x)
		if k < 0 {
			st.offer(rel.x)
			continue
		}

		v := rel.x[k]
		down := node{lb: lb, ub: cloneWith(ub, k, math.Floor(v)), depth: nd.depth + 1}
		up := node{lb: cloneWith(lb, k, math.Ceil(v)), ub: ub, depth: nd.depth + 1}
		// The child nearest to the relaxed value is explored first.
		if v-math.Floor(v) >= 0.5 {
			stack = append(stack, down, up)
		} else {
			stack = append(stack, up, down)
		}

		if st.nodes%1000 == 0 {
			s.logger.Debug("branchbound: progress",
				"nodes", st.nodes, "open", len(stack), "best", st.best)
		}
	}

	switch {
	case limited && st.incumbent != nil:
		return mip.StatusFeasible
	case limited:
		return mip.StatusLimitReached
	case st.incumbent != nil && st.trouble:
		return mip.StatusFeasible
	case st.incumbent != nil:
		return mip.StatusOptimal
	case st.trouble:
		return mip.StatusNotSolved
	default:
		return mip.StatusInfeasible
	}
}

// dominated reports whether a node with relaxation bound cannot improve on
// the incumbent.
func (st *search) dominated(bound float64) bool {
	if st.incumbent == nil {
		return false
	}
	if st.integralObj {
		return bound > st.best-1+st.tol
	}
	return bound >= st.best-st.tol
}

// branchVar returns the most fractional binary variable, falling back to
// the most fractional general integer, or -1 when the relaxation is
// integral.
func (st *search) branchVar(x []float64) int {
	best, bestScore, bestBinary := -1, 0.0, false
	for k, v := range st.p.vars {
		if !v.Integer {
			continue
		}
		frac := x[k] - math.Floor(x[k])
		score := math.Min(frac, 1-frac)
		if score <= st.tol {
			continue
		}
		binary := v.IsBinary()
		if bestBinary && !binary {
			continue
		}
		if (binary && !bestBinary) || score > bestScore {
			best, bestScore, bestBinary = k, score, binary
		}
	}
	return best
}

// offer rounds an integral relaxation and keeps it when it is feasible and
// improves the incumbent.
func (st *search) offer(x []float64) {
	vals := make([]float64, len(x))
	copy(vals, x)
	for k, v := range st.p.vars {
		if v.Integer {
			vals[k] = math.Round(vals[k])
		}
	}
	if viol := st.m.Check(vals, 1e-6); len(viol) > 0 {
		st.trouble = true
		return
	}
	obj := st.p.objective(vals)
	if obj < st.best-1e-9 {
		st.best = obj
		st.incumbent = vals
	}
}

func clone(src []float64) []float64 {
	out := make([]float64, len(src))
	copy(out, src)
	return out
}

func cloneWith(src []float64, k int, v float64) []float64 {
	out := clone(src)
	out[k] = v
	return out
}
