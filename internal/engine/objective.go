package engine

import (
	"github.com/piwi3910/LoadPlanner/internal/mip"
	"github.com/piwi3910/LoadPlanner/internal/model"
)

// setObjective minimizes sum_j V_j * n_j - sum_i v_i. The carton volume term
// is constant because every carton is always packed; dropOffset removes it.
func setObjective(m *mip.Model, vm *VarMap, in model.Instance, dropOffset bool) {
	obj := mip.NewLinearExpr()
	for j, c := range in.Containers {
		obj.AddTerm(vm.Used[j], c.Volume())
	}
	if !dropOffset {
		obj.AddConstant(-in.TotalCartonVolume())
	}
	m.Minimize(obj)
}
