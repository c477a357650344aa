package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/piwi3910/LoadPlanner/internal/mip"
	"github.com/piwi3910/LoadPlanner/internal/model"
)

// Extract reads a solver result back into a load plan. The plan always
// carries the status and solver statistics; vehicles and placements are
// filled only for an optimal solution. Non-optimal outcomes return
// ErrModelInfeasible or ErrUnboundedOrUnknown.
func Extract(in model.Instance, vm *VarMap, sol mip.Solution) (model.LoadPlan, error) {
	plan := model.LoadPlan{
		ID: uuid.New().String()[:8],
		Stats: model.SolveStats{
			WallTime:   sol.Stats.WallTime,
			Iterations: sol.Stats.Iterations,
			Nodes:      sol.Stats.Nodes,
		},
		CreatedAt: time.Now(),
	}

	switch sol.Status {
	case mip.StatusOptimal:
		plan.Status = model.PlanOptimal
	case mip.StatusInfeasible:
		plan.Status = model.PlanInfeasible
		return plan, ErrModelInfeasible
	default:
		plan.Status = model.PlanUnknown
		return plan, fmt.Errorf("%w: solver status %s", ErrUnboundedOrUnknown, sol.Status)
	}

	plan.Objective = sol.Objective
	plan.Vehicles = make([]model.VehicleLoad, len(in.Containers))
	for j, c := range in.Containers {
		used := bit(sol.Value(vm.Used[j])) == 1
		plan.Vehicles[j] = model.VehicleLoad{
			Container:      c,
			ContainerIndex: j,
			Used:           used,
			Placements:     []model.Placement{},
		}
		if used {
			plan.UsedVolume += c.Volume()
		}
	}

	for i, cv := range vm.Cartons {
		j := -1
		for cj, s := range cv.Assign {
			if bit(sol.Value(s)) == 1 {
				j = cj
				break
			}
		}
		if j < 0 {
			return plan, fmt.Errorf("carton %d has no container in the solution", i)
		}
		o, err := decodeOrientation(vm.Encoding, cv.Orient, sol)
		if err != nil {
			return plan, fmt.Errorf("carton %d: %w", i, err)
		}
		plan.Vehicles[j].Placements = append(plan.Vehicles[j].Placements, model.Placement{
			Carton:      in.Cartons[i],
			CartonIndex: i,
			Container:   j,
			X:           sol.Value(cv.Pos[model.AxisX]),
			Y:           sol.Value(cv.Pos[model.AxisY]),
			Z:           sol.Value(cv.Pos[model.AxisZ]),
			Orientation: o,
			LengthAxis:  o.LengthAxis(),
		})
	}
	return plan, nil
}
