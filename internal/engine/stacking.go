package engine

import (
	"fmt"

	"github.com/piwi3910/LoadPlanner/internal/mip"
	"github.com/piwi3910/LoadPlanner/internal/model"
)

// addStacking orders the cartons of every route along the loading depth:
// for positions a < b in the route order, y(order[a]) >= y(order[b]) + 1.
// Cartons for earlier stops therefore sit nearer the door.
func addStacking(m *mip.Model, vm *VarMap, in model.Instance) {
	for j := range in.Containers {
		order := in.Route.Order(j)
		for a := 0; a < len(order); a++ {
			for b := a + 1; b < len(order); b++ {
				early, late := order[a], order[b]
				m.AddGreaterOrEqual(fmt.Sprintf("lifo[%d].%d>%d", j, early, late),
					mip.NewLinearExpr().Add(vm.Cartons[early].Pos[model.AxisY]),
					mip.NewLinearExpr().Add(vm.Cartons[late].Pos[model.AxisY]).AddConstant(1))
			}
		}
	}
}
