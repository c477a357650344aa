package mip

import (
	"fmt"
	"math"
)

// Sense is the relation of a linear constraint.
type Sense int

const (
	LessOrEqual    Sense = iota // sum(a*x) <= b
	GreaterOrEqual              // sum(a*x) >= b
	Equal                       // sum(a*x) == b
)

func (s Sense) String() string {
	switch s {
	case GreaterOrEqual:
		return ">="
	case Equal:
		return "=="
	default:
		return "<="
	}
}

// Variable describes a declared decision variable.
type Variable struct {
	Name    string
	Lower   float64
	Upper   float64 // math.Inf(1) for no upper bound
	Integer bool
}

// IsBinary reports whether the variable is an integer restricted to {0,1}.
func (v Variable) IsBinary() bool {
	return v.Integer && v.Lower == 0 && v.Upper == 1
}

// Constraint is a normalized linear row: sum(Terms) Sense RHS.
type Constraint struct {
	Name  string
	Terms []Term
	Sense Sense
	RHS   float64
}

// Activity evaluates the left-hand side of the row.
func (c Constraint) Activity(values []float64) float64 {
	var total float64
	for _, t := range c.Terms {
		total += t.Coef * values[t.Var.ID]
	}
	return total
}

// Satisfied reports whether the row holds within tol.
func (c Constraint) Satisfied(values []float64, tol float64) bool {
	a := c.Activity(values)
	switch c.Sense {
	case GreaterOrEqual:
		return a >= c.RHS-tol
	case Equal:
		return math.Abs(a-c.RHS) <= tol
	default:
		return a <= c.RHS+tol
	}
}

// Model is an append-only mixed-integer linear program with a minimization
// objective.
type Model struct {
	name        string
	vars        []Variable
	constraints []Constraint
	objective   *LinearExpr
}

// NewModel creates an empty model.
func NewModel(name string) *Model {
	return &Model{name: name, objective: NewLinearExpr()}
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// NewVar declares a variable with the given bounds. Integer variables have
// their bounds rounded inward.
func (m *Model) NewVar(name string, lower, upper float64, integer bool) Var {
	if integer {
		lower = math.Ceil(lower - 1e-9)
		if !math.IsInf(upper, 1) {
			upper = math.Floor(upper + 1e-9)
		}
	}
	m.vars = append(m.vars, Variable{Name: name, Lower: lower, Upper: upper, Integer: integer})
	return Var{ID: len(m.vars) - 1}
}

// NewBinary declares a {0,1} integer variable.
func (m *Model) NewBinary(name string) Var {
	return m.NewVar(name, 0, 1, true)
}

// NewInteger declares an integer variable in [lower, upper].
func (m *Model) NewInteger(name string, lower, upper float64) Var {
	return m.NewVar(name, lower, upper, true)
}

// Add appends lhs sense rhs as a normalized row and returns its index.
func (m *Model) Add(name string, lhs *LinearExpr, sense Sense, rhs *LinearExpr) int {
	diff := lhs.Clone().AddExpr(rhs, -1)
	m.constraints = append(m.constraints, Constraint{
		Name:  name,
		Terms: diff.merged(),
		Sense: sense,
		RHS:   -diff.Constant,
	})
	return len(m.constraints) - 1
}

// AddLessOrEqual appends lhs <= rhs.
func (m *Model) AddLessOrEqual(name string, lhs, rhs *LinearExpr) int {
	return m.Add(name, lhs, LessOrEqual, rhs)
}

// AddGreaterOrEqual appends lhs >= rhs.
func (m *Model) AddGreaterOrEqual(name string, lhs, rhs *LinearExpr) int {
	return m.Add(name, lhs, GreaterOrEqual, rhs)
}

// AddEquality appends lhs == rhs.
func (m *Model) AddEquality(name string, lhs, rhs *LinearExpr) int {
	return m.Add(name, lhs, Equal, rhs)
}

// Minimize sets the objective. The constant part is kept and reported in
// objective values.
func (m *Model) Minimize(expr *LinearExpr) {
	obj := expr.Clone()
	m.objective = &LinearExpr{Terms: obj.merged(), Constant: obj.Constant}
}

// Objective returns a copy of the objective expression.
func (m *Model) Objective() *LinearExpr { return m.objective.Clone() }

// NumVars returns the number of declared variables.
func (m *Model) NumVars() int { return len(m.vars) }

// NumConstraints returns the number of rows.
func (m *Model) NumConstraints() int { return len(m.constraints) }

// Variable returns the declaration of v.
func (m *Model) Variable(v Var) Variable { return m.vars[v.ID] }

// Variables returns all declared variables in ID order.
func (m *Model) Variables() []Variable {
	out := make([]Variable, len(m.vars))
	copy(out, m.vars)
	return out
}

// Constraints returns all rows in insertion order.
func (m *Model) Constraints() []Constraint {
	out := make([]Constraint, len(m.constraints))
	copy(out, m.constraints)
	return out
}

// ConstraintsNamed returns the rows whose name starts with prefix.
func (m *Model) ConstraintsNamed(prefix string) []Constraint {
	var out []Constraint
	for _, c := range m.constraints {
		if len(c.Name) >= len(prefix) && c.Name[:len(prefix)] == prefix {
			out = append(out, c)
		}
	}
	return out
}

// Validate checks that every row references declared variables and that
// bounds are consistent.
func (m *Model) Validate() error {
	for i, v := range m.vars {
		if math.IsNaN(v.Lower) || math.IsNaN(v.Upper) || math.IsInf(v.Lower, 0) {
			return fmt.Errorf("mip: variable %q (%d) has invalid bounds [%g, %g]", v.Name, i, v.Lower, v.Upper)
		}
		if v.Lower > v.Upper {
			return fmt.Errorf("mip: variable %q (%d) has empty domain [%g, %g]", v.Name, i, v.Lower, v.Upper)
		}
	}
	check := func(where string, terms []Term) error {
		for _, t := range terms {
			if t.Var.ID < 0 || t.Var.ID >= len(m.vars) {
				return fmt.Errorf("mip: %s references unknown variable %d", where, t.Var.ID)
			}
			if math.IsNaN(t.Coef) || math.IsInf(t.Coef, 0) {
				return fmt.Errorf("mip: %s has non-finite coefficient on %q", where, m.vars[t.Var.ID].Name)
			}
		}
		return nil
	}
	for _, c := range m.constraints {
		if err := check("constraint "+c.Name, c.Terms); err != nil {
			return err
		}
	}
	return check("objective", m.objective.Terms)
}

// Violation describes a bound, integrality or row that an assignment breaks.
type Violation struct {
	Name     string
	Activity float64
	Sense    Sense
	RHS      float64
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %g %s %g", v.Name, v.Activity, v.Sense, v.RHS)
}

// Check evaluates values against every bound, integrality requirement and
// row of the model and returns what is violated. An empty result means the
// assignment is feasible within tol.
func (m *Model) Check(values []float64, tol float64) []Violation {
	if len(values) != len(m.vars) {
		return []Violation{{Name: fmt.Sprintf("expected %d values, got %d", len(m.vars), len(values))}}
	}
	var out []Violation
	for i, v := range m.vars {
		x := values[i]
		if x < v.Lower-tol {
			out = append(out, Violation{Name: "bound " + v.Name, Activity: x, Sense: GreaterOrEqual, RHS: v.Lower})
		}
		if x > v.Upper+tol {
			out = append(out, Violation{Name: "bound " + v.Name, Activity: x, Sense: LessOrEqual, RHS: v.Upper})
		}
		if v.Integer && math.Abs(x-math.Round(x)) > tol {
			out = append(out, Violation{Name: "integrality " + v.Name, Activity: x, Sense: Equal, RHS: math.Round(x)})
		}
	}
	for _, c := range m.constraints {
		if !c.Satisfied(values, tol) {
			out = append(out, Violation{Name: c.Name, Activity: c.Activity(values), Sense: c.Sense, RHS: c.RHS})
		}
	}
	return out
}
