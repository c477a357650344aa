// Package mip holds a solver-neutral mixed-integer linear model: variables with
// bounds, linear constraints and a minimization objective. Solver adapters
// consume a Model and return a Solution; the packing formulation never talks
// to a concrete engine directly.
package mip

import (
	"fmt"
	"sort"
	"strings"
)

// Var is a handle to a decision variable declared on a Model.
type Var struct {
	ID int
}

// Term is a single coefficient * variable product.
type Term struct {
	Var  Var
	Coef float64
}

// LinearExpr is a linear combination of variables plus a constant.
// The builder methods mutate and return the receiver so calls can be chained.
type LinearExpr struct {
	Terms    []Term
	Constant float64
}

// NewLinearExpr returns an empty expression.
func NewLinearExpr() *LinearExpr {
	return &LinearExpr{}
}

// Constant returns an expression holding only the constant c.
func Constant(c float64) *LinearExpr {
	return &LinearExpr{Constant: c}
}

// Add appends v with coefficient 1.
func (e *LinearExpr) Add(v Var) *LinearExpr {
	return e.AddTerm(v, 1)
}

// AddTerm appends coef*v.
func (e *LinearExpr) AddTerm(v Var, coef float64) *LinearExpr {
	if coef == 0 {
		return e
	}
	e.Terms = append(e.Terms, Term{Var: v, Coef: coef})
	return e
}

// AddConstant adds c to the constant part.
func (e *LinearExpr) AddConstant(c float64) *LinearExpr {
	e.Constant += c
	return e
}

// AddExpr adds scale*other to the receiver.
func (e *LinearExpr) AddExpr(other *LinearExpr, scale float64) *LinearExpr {
	if other == nil || scale == 0 {
		return e
	}
	for _, t := range other.Terms {
		e.AddTerm(t.Var, t.Coef*scale)
	}
	e.Constant += other.Constant * scale
	return e
}

// Clone returns a deep copy of the expression.
func (e *LinearExpr) Clone() *LinearExpr {
	if e == nil {
		return NewLinearExpr()
	}
	cp := &LinearExpr{Constant: e.Constant, Terms: make([]Term, len(e.Terms))}
	copy(cp.Terms, e.Terms)
	return cp
}

// Coefficient returns the merged coefficient of v in the expression.
func (e *LinearExpr) Coefficient(v Var) float64 {
	var c float64
	for _, t := range e.Terms {
		if t.Var == v {
			c += t.Coef
		}
	}
	return c
}

// Eval computes the expression value for the given variable assignment.
// values is indexed by Var.ID.
func (e *LinearExpr) Eval(values []float64) float64 {
	total := e.Constant
	for _, t := range e.Terms {
		if t.Var.ID < len(values) {
			total += t.Coef * values[t.Var.ID]
		}
	}
	return total
}

// merged returns the terms with duplicate variables combined, zero
// coefficients dropped and the result ordered by variable ID.
func (e *LinearExpr) merged() []Term {
	acc := make(map[int]float64, len(e.Terms))
	for _, t := range e.Terms {
		acc[t.Var.ID] += t.Coef
	}
	out := make([]Term, 0, len(acc))
	for id, c := range acc {
		if c != 0 {
			out = append(out, Term{Var: Var{ID: id}, Coef: c})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Var.ID < out[j].Var.ID })
	return out
}

func (e *LinearExpr) String() string {
	var b strings.Builder
	for i, t := range e.Terms {
		if i > 0 {
			b.WriteString(" + ")
		}
		fmt.Fprintf(&b, "%g*v%d", t.Coef, t.Var.ID)
	}
	if e.Constant != 0 || len(e.Terms) == 0 {
		if len(e.Terms) > 0 {
			b.WriteString(" + ")
		}
		fmt.Fprintf(&b, "%g", e.Constant)
	}
	return b.String()
}
