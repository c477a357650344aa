package branchbound

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/piwi3910/LoadPlanner/internal/mip"
)

// lpStatus is the outcome of one LP relaxation.
type lpStatus int

const (
	lpOptimal lpStatus = iota
	lpInfeasible
	lpUnbounded
	lpFailed // numerical failure inside the simplex
)

// relaxation is the result of solving the LP relaxation at a node.
type relaxation struct {
	status lpStatus
	obj    float64
	x      []float64
	err    error
}

const (
	// simplexTol is the reduced-cost tolerance handed to the simplex.
	simplexTol = 1e-10
	// artificialTol is the largest artificial value accepted as zero.
	artificialTol = 1e-7
	// propagationPasses caps the rounds of bound tightening per node.
	propagationPasses = 20
)

// artificialCosts are the penalties tried, in order, on the artificial
// columns of the starting basis. Structural costs are scaled to at most 1.
var artificialCosts = []float64{1e6, 1e10}

// problem is the read-only view of a model shared by every node.
type problem struct {
	vars     []mip.Variable
	rows     []mip.Constraint
	obj      []float64
	objConst float64
}

func newProblem(m *mip.Model) *problem {
	p := &problem{
		vars: m.Variables(),
		rows: m.Constraints(),
		obj:  make([]float64, m.NumVars()),
	}
	objective := m.Objective()
	for _, t := range objective.Terms {
		p.obj[t.Var.ID] += t.Coef
	}
	p.objConst = objective.Constant
	return p
}

// bounds returns fresh copies of the declared variable bounds.
func (p *problem) bounds() (lb, ub []float64) {
	lb = make([]float64, len(p.vars))
	ub = make([]float64, len(p.vars))
	for i, v := range p.vars {
		lb[i] = v.Lower
		ub[i] = v.Upper
	}
	return lb, ub
}

// integralObjective reports whether every feasible objective value differs
// from another by an integer, which allows stronger pruning.
func (p *problem) integralObjective() bool {
	for k, c := range p.obj {
		if c == 0 {
			continue
		}
		if !p.vars[k].Integer || c != math.Trunc(c) {
			return false
		}
	}
	return true
}

func (p *problem) objective(x []float64) float64 {
	total := p.objConst
	for k, c := range p.obj {
		total += c * x[k]
	}
	return total
}

// activity is the range of a row's left-hand side under the current bounds.
// Unbounded contributions are counted rather than summed.
type activity struct {
	min, max       float64
	minInf, maxInf int
}

func termRange(coef, lo, hi float64) (min, max float64) {
	if coef > 0 {
		return coef * lo, coef * hi
	}
	return coef * hi, coef * lo
}

func rowActivity(terms []mip.Term, lb, ub []float64) activity {
	var a activity
	for _, t := range terms {
		lo, hi := termRange(t.Coef, lb[t.Var.ID], ub[t.Var.ID])
		if math.IsInf(lo, -1) {
			a.minInf++
		} else {
			a.min += lo
		}
		if math.IsInf(hi, 1) {
			a.maxInf++
		} else {
			a.max += hi
		}
	}
	return a
}

// propagate tightens lb and ub in place from every row until nothing
// changes or the pass limit is hit. Integer bounds are rounded inward. It
// returns false when a row cannot be satisfied within the bounds.
func (p *problem) propagate(lb, ub []float64, tol float64) bool {
	for pass := 0; pass < propagationPasses; pass++ {
		changed := false
		for _, r := range p.rows {
			act := rowActivity(r.Terms, lb, ub)
			slack := tol * (1 + math.Abs(r.RHS))
			upper := r.Sense == mip.LessOrEqual || r.Sense == mip.Equal
			lower := r.Sense == mip.GreaterOrEqual || r.Sense == mip.Equal

			if upper && act.minInf == 0 && act.min > r.RHS+slack {
				return false
			}
			if lower && act.maxInf == 0 && act.max < r.RHS-slack {
				return false
			}

			for _, t := range r.Terms {
				k := t.Var.ID
				lo, hi := termRange(t.Coef, lb[k], ub[k])
				if upper {
					if rest, ok := residual(act.min, act.minInf, lo); ok {
						v := (r.RHS - rest) / t.Coef
						var c, feasible bool
						if t.Coef > 0 {
							c, feasible = p.tightenUpper(lb, ub, k, v, tol)
						} else {
							c, feasible = p.tightenLower(lb, ub, k, v, tol)
						}
						if !feasible {
							return false
						}
						changed = changed || c
					}
				}
				if lower {
					if rest, ok := residual(act.max, act.maxInf, hi); ok {
						v := (r.RHS - rest) / t.Coef
						var c, feasible bool
						if t.Coef > 0 {
							c, feasible = p.tightenLower(lb, ub, k, v, tol)
						} else {
							c, feasible = p.tightenUpper(lb, ub, k, v, tol)
						}
						if !feasible {
							return false
						}
						changed = changed || c
					}
				}
			}
		}
		if !changed {
			break
		}
	}
	return true
}

// residual returns the finite activity bound of a row without one term,
// or false when another term leaves it unbounded.
func residual(total float64, infs int, term float64) (float64, bool) {
	switch {
	case infs == 0:
		return total - term, true
	case infs == 1 && math.IsInf(term, 0):
		return total, true
	default:
		return 0, false
	}
}

// tightenUpper lowers ub[k] to v when that is a real improvement. The
// second result is false when the domain becomes empty.
func (p *problem) tightenUpper(lb, ub []float64, k int, v, tol float64) (changed, feasible bool) {
	if p.vars[k].Integer {
		v = math.Floor(v + tol)
	}
	if v >= ub[k]-improvement(v) {
		return false, true
	}
	if v < lb[k]-tol*(1+math.Abs(lb[k])) {
		return false, false
	}
	ub[k] = math.Max(v, lb[k])
	return true, true
}

// tightenLower raises lb[k] to v when that is a real improvement.
func (p *problem) tightenLower(lb, ub []float64, k int, v, tol float64) (changed, feasible bool) {
	if p.vars[k].Integer {
		v = math.Ceil(v - tol)
	}
	if v <= lb[k]+improvement(v) {
		return false, true
	}
	if v > ub[k]+tol*(1+math.Abs(ub[k])) {
		return false, false
	}
	lb[k] = math.Min(v, ub[k])
	return true, true
}

// improvement is the smallest bound change worth another propagation pass.
func improvement(v float64) float64 {
	return 1e-7 * (1 + math.Abs(v))
}

// lpRow is one row of the node LP over shifted variables x' = x - lb.
type lpRow struct {
	vars  []int
	coefs []float64
	sense mip.Sense
	rhs   float64
}

// solveLP solves the continuous relaxation of the model under the node
// bounds lb/ub. Variables are shifted to x' = x - lb so the simplex sees
// x' >= 0. Fixed variables are folded into the right-hand sides, rows the
// bounds already satisfy are dropped, and variables left in no row sit at
// the bound their cost prefers.
func (p *problem) solveLP(lb, ub []float64, tol float64) relaxation {
	n := len(p.vars)
	x := make([]float64, n)
	open := make([]bool, n)
	for k := 0; k < n; k++ {
		x[k] = lb[k]
		if lb[k] > ub[k]+tol {
			return relaxation{status: lpInfeasible}
		}
		open[k] = ub[k]-lb[k] > tol
	}

	var rows []lpRow
	for _, c := range p.rows {
		row := lpRow{sense: c.Sense, rhs: c.RHS}
		for _, t := range c.Terms {
			k := t.Var.ID
			row.rhs -= t.Coef * lb[k]
			if open[k] {
				row.vars = append(row.vars, k)
				row.coefs = append(row.coefs, t.Coef)
			}
		}
		if len(row.vars) == 0 {
			if !rowHolds(c.Sense, row.rhs, tol) {
				return relaxation{status: lpInfeasible}
			}
			continue
		}
		if redundant(row, lb, ub, tol) {
			continue
		}
		rows = append(rows, row)
	}

	col := make([]int, n)
	for k := range col {
		col[k] = -1
	}
	var free []int
	for _, row := range rows {
		for _, k := range row.vars {
			if col[k] < 0 {
				col[k] = len(free)
				free = append(free, k)
			}
		}
	}
	for k := 0; k < n; k++ {
		if !open[k] || col[k] >= 0 || p.obj[k] >= 0 {
			continue
		}
		if math.IsInf(ub[k], 1) {
			return relaxation{status: lpUnbounded}
		}
		x[k] = ub[k]
	}
	if len(rows) == 0 {
		return relaxation{status: lpOptimal, obj: p.objective(x), x: x}
	}

	implied := impliedUpper(rows, n)
	for _, k := range free {
		span := ub[k] - lb[k]
		if math.IsInf(span, 1) || implied[k] <= span+tol {
			continue
		}
		rows = append(rows, lpRow{vars: []int{k}, coefs: []float64{1}, sense: mip.LessOrEqual, rhs: span})
	}

	optX, status, err := p.simplex(rows, free, col)
	if status != lpOptimal {
		return relaxation{status: status, err: err}
	}
	for i, k := range free {
		v := lb[k] + optX[i]
		if v < lb[k] {
			v = lb[k]
		}
		if v > ub[k] {
			v = ub[k]
		}
		x[k] = v
	}
	return relaxation{status: lpOptimal, obj: p.objective(x), x: x}
}

// redundant reports whether every point inside the bounds satisfies row.
func redundant(row lpRow, lb, ub []float64, tol float64) bool {
	slack := tol * (1 + math.Abs(row.rhs))
	switch row.sense {
	case mip.LessOrEqual:
		var max float64
		for i, k := range row.vars {
			if a := row.coefs[i]; a > 0 {
				max += a * (ub[k] - lb[k])
			}
		}
		return max <= row.rhs+slack
	case mip.GreaterOrEqual:
		var min float64
		for i, k := range row.vars {
			if a := row.coefs[i]; a < 0 {
				min += a * (ub[k] - lb[k])
			}
		}
		return min >= row.rhs-slack
	default:
		return false
	}
}

// impliedUpper returns, per variable, the smallest shifted upper bound that
// some row implies on its own: a row whose terms all push the same way caps
// each of its variables once the others sit at zero.
func impliedUpper(rows []lpRow, n int) []float64 {
	out := make([]float64, n)
	for k := range out {
		out[k] = math.Inf(1)
	}
	for _, row := range rows {
		sign := 0.0
		switch {
		case row.sense != mip.GreaterOrEqual && allSigned(row.coefs, 1):
			sign = 1
		case row.sense != mip.LessOrEqual && allSigned(row.coefs, -1):
			sign = -1
		default:
			continue
		}
		for i, k := range row.vars {
			out[k] = math.Min(out[k], (sign*row.rhs)/(sign*row.coefs[i]))
		}
	}
	return out
}

func allSigned(coefs []float64, sign float64) bool {
	for _, c := range coefs {
		if c*sign <= 0 {
			return false
		}
	}
	return true
}

// simplex builds the standard-form LP and solves it from a known feasible
// basis: every row owns a slack column, and rows whose slack would start
// negative, as well as equality rows, own an artificial column instead.
// Artificials carry a large cost. When one stays positive, a pure
// feasibility pass decides whether the node is infeasible.
func (p *problem) simplex(rows []lpRow, free, col []int) ([]float64, lpStatus, error) {
	nf := len(free)
	slackCol := make([]int, len(rows))
	artCol := make([]int, len(rows))
	next := nf
	for r, row := range rows {
		slackCol[r] = -1
		if row.sense != mip.Equal {
			slackCol[r] = next
			next++
		}
	}
	for r, row := range rows {
		artCol[r] = -1
		if needsArtificial(row) {
			artCol[r] = next
			next++
		}
	}

	A := mat.NewDense(len(rows), next, nil)
	b := make([]float64, len(rows))
	basis := make([]int, len(rows))
	for r, row := range rows {
		for i, k := range row.vars {
			A.Set(r, col[k], row.coefs[i])
		}
		if slackCol[r] >= 0 {
			if row.sense == mip.LessOrEqual {
				A.Set(r, slackCol[r], 1)
			} else {
				A.Set(r, slackCol[r], -1)
			}
			basis[r] = slackCol[r]
		}
		if artCol[r] >= 0 {
			if row.rhs >= 0 {
				A.Set(r, artCol[r], 1)
			} else {
				A.Set(r, artCol[r], -1)
			}
			basis[r] = artCol[r]
		}
		b[r] = row.rhs
	}

	scale := 0.0
	for _, k := range free {
		scale = math.Max(scale, math.Abs(p.obj[k]))
	}
	if scale == 0 {
		scale = 1
	}

	checked := false
	for _, w := range artificialCosts {
		c := make([]float64, next)
		for i, k := range free {
			c[i] = p.obj[k] / scale
		}
		for _, a := range artCol {
			if a >= 0 {
				c[a] = w
			}
		}
		x, err := runSimplex(c, A, b, basis)
		if status, done := simplexOutcome(err); done {
			return nil, status, err
		}
		if artificialSum(x, artCol) <= artificialTol {
			return x[:nf], lpOptimal, nil
		}
		if checked {
			continue
		}
		checked = true

		phase1 := make([]float64, next)
		for _, a := range artCol {
			if a >= 0 {
				phase1[a] = 1
			}
		}
		x, err = runSimplex(phase1, A, b, basis)
		if status, done := simplexOutcome(err); done {
			return nil, status, err
		}
		if artificialSum(x, artCol) > artificialTol {
			return nil, lpInfeasible, nil
		}
	}
	return nil, lpFailed, errors.New("artificial columns did not leave the basis")
}

func needsArtificial(row lpRow) bool {
	switch row.sense {
	case mip.LessOrEqual:
		return row.rhs < 0
	case mip.GreaterOrEqual:
		return row.rhs > 0
	default:
		return true
	}
}

func artificialSum(x []float64, artCol []int) float64 {
	var total float64
	for _, a := range artCol {
		if a >= 0 {
			total += x[a]
		}
	}
	return total
}

// runSimplex calls the gonum simplex, turning its panics on a rejected
// starting basis into errors.
func runSimplex(c []float64, A *mat.Dense, b []float64, basis []int) (x []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			x, err = nil, fmt.Errorf("simplex: %v", r)
		}
	}()
	_, x, err = lp.Simplex(c, A, b, simplexTol, basis)
	return x, err
}

// simplexOutcome maps a simplex error to a terminal LP status.
func simplexOutcome(err error) (lpStatus, bool) {
	switch {
	case err == nil:
		return lpOptimal, false
	case errors.Is(err, lp.ErrInfeasible):
		return lpInfeasible, true
	case errors.Is(err, lp.ErrUnbounded):
		return lpUnbounded, true
	default:
		return lpFailed, true
	}
}

func rowHolds(sense mip.Sense, rhs, tol float64) bool {
	switch sense {
	case mip.GreaterOrEqual:
		return 0 >= rhs-tol
	case mip.Equal:
		return math.Abs(rhs) <= tol
	default:
		return 0 <= rhs+tol
	}
}
