package engine

import (
	"fmt"

	"github.com/piwi3910/LoadPlanner/internal/mip"
	"github.com/piwi3910/LoadPlanner/internal/model"
)

// addAssignment binds every carton to exactly one container, fixes the
// routed cartons to their vehicle, keeps cartons inside the container they
// are assigned to and enforces weight capacity. With link set, n_j >= s_ij
// rows make the usage flag follow the assignment even for weightless cartons.
func addAssignment(m *mip.Model, vm *VarMap, in model.Instance, link bool) {
	M := vm.BigM

	for i, cv := range vm.Cartons {
		one := mip.NewLinearExpr()
		for _, s := range cv.Assign {
			one.Add(s)
		}
		m.AddEquality(fmt.Sprintf("assign[%d]", i), one, mip.Constant(1))
	}

	for j := range in.Containers {
		for _, i := range in.Route.Forced(j) {
			m.AddEquality(fmt.Sprintf("forced[%d,%d]", i, j), mip.NewLinearExpr().Add(vm.Cartons[i].Assign[j]), mip.Constant(1))
		}
	}

	for i, cv := range vm.Cartons {
		for j, c := range in.Containers {
			for _, a := range model.Axes {
				lhs := mip.NewLinearExpr().Add(cv.Pos[a]).AddExpr(cv.Extent[a], 1)
				rhs := mip.Constant(c.Dim(a) + M).AddTerm(cv.Assign[j], -M)
				m.AddLessOrEqual(fmt.Sprintf("bound[%d,%d].%s", i, j, a), lhs, rhs)
			}
		}
	}

	for j, c := range in.Containers {
		load := mip.NewLinearExpr()
		for i, carton := range in.Cartons {
			load.AddTerm(vm.Cartons[i].Assign[j], carton.Weight)
		}
		m.AddLessOrEqual(fmt.Sprintf("capacity[%d]", j), load, mip.NewLinearExpr().AddTerm(vm.Used[j], c.Capacity))

		if link {
			for i := range in.Cartons {
				m.AddGreaterOrEqual(fmt.Sprintf("usage[%d,%d]", i, j),
					mip.NewLinearExpr().Add(vm.Used[j]), mip.NewLinearExpr().Add(vm.Cartons[i].Assign[j]))
			}
		}
	}
}
