package export

import (
	"os"
	"testing"
	"time"

	"github.com/piwi3910/LoadPlanner/internal/model"
)

// buildTestPlan creates a solved plan with two loaded vehicles and one idle
// one. Van delivers stop 4 first, then stop 2; the lamp is unrouted.
func buildTestPlan() (model.LoadPlan, model.RouteBinding) {
	fridge := model.NewCarton("Fridge", 70, 70, 120, 60)
	chair := model.NewCarton("Chair", 50, 50, 90, 8)
	lamp := model.NewCarton("Lamp", 30, 30, 60, 2)
	box := model.NewCarton("Box", 40, 30, 30, 5)

	van := model.NewContainer("Van", 250, 150, 130, 800)
	truck := model.NewContainer("Truck", 400, 210, 220, 1100)
	bike := model.NewContainer("Cargo Bike", 80, 60, 60, 100)

	route := model.RouteBinding{
		Routes:      []model.VehicleRoute{{Container: 0, Stops: []int{4, 2}}},
		StopCartons: map[int][]int{4: {1}, 2: {0}},
	}

	plan := model.LoadPlan{
		ID:         "plan0001",
		Status:     model.PlanOptimal,
		Objective:  42,
		UsedVolume: van.Volume() + bike.Volume(),
		Vehicles: []model.VehicleLoad{
			{
				Container:      van,
				ContainerIndex: 0,
				Used:           true,
				Placements: []model.Placement{
					{Carton: fridge, CartonIndex: 0, Container: 0, Orientation: model.OrientLWH},
					{Carton: chair, CartonIndex: 1, Container: 0, Y: 80, Orientation: model.OrientLWH},
					{Carton: lamp, CartonIndex: 2, Container: 0, X: 100, Orientation: model.OrientHLW, LengthAxis: model.AxisY},
				},
			},
			{Container: truck, ContainerIndex: 1},
			{
				Container:      bike,
				ContainerIndex: 2,
				Used:           true,
				Placements: []model.Placement{
					{Carton: box, CartonIndex: 3, Container: 2, Orientation: model.OrientLWH},
				},
			},
		},
		Stats: model.SolveStats{WallTime: 1500 * time.Millisecond, Iterations: 321, Nodes: 17},
	}
	return plan, route
}

// requireFile fails unless path exists and holds at least minSize bytes.
func requireFile(t *testing.T, path string, minSize int64) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file was not created: %v", err)
	}
	if info.Size() < minSize {
		t.Fatalf("file seems too small: %d bytes", info.Size())
	}
}
