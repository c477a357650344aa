package model

import (
	"math"
	"testing"
)

func samplePlan() LoadPlan {
	big := NewCarton("big", 2, 2, 2, 5)
	small := NewCarton("small", 1, 1, 1, 1)
	return LoadPlan{
		Status: PlanOptimal,
		Vehicles: []VehicleLoad{
			{
				Container:      NewContainer("Cube", 3, 3, 3, 10),
				ContainerIndex: 0,
				Used:           true,
				Placements: []Placement{
					{Carton: big, CartonIndex: 0, X: 0, Y: 0, Z: 0, Orientation: OrientLWH},
					{Carton: small, CartonIndex: 1, X: 2, Y: 2, Z: 0, Orientation: OrientLWH},
				},
			},
			{Container: NewContainer("Spare", 9, 9, 9, 10), ContainerIndex: 1},
		},
	}
}

func TestPlacementExtentsAndMax(t *testing.T) {
	p := Placement{Carton: NewCarton("A", 1, 2, 3, 1), X: 1, Y: 1, Z: 1, Orientation: OrientHWL}
	x, y, z := p.Extents()
	if x != 3 || y != 2 || z != 1 {
		t.Errorf("expected extents (3,2,1), got (%v,%v,%v)", x, y, z)
	}
	mx, my, mz := p.Max()
	if mx != 4 || my != 3 || mz != 2 {
		t.Errorf("expected max corner (4,3,2), got (%v,%v,%v)", mx, my, mz)
	}
}

func TestVehicleLoadTotals(t *testing.T) {
	v := samplePlan().Vehicles[0]
	if v.LoadedWeight() != 6 {
		t.Errorf("expected weight 6, got %v", v.LoadedWeight())
	}
	if v.LoadedVolume() != 9 {
		t.Errorf("expected volume 9, got %v", v.LoadedVolume())
	}
	if math.Abs(v.Efficiency()-100.0/3.0) > 1e-9 {
		t.Errorf("expected efficiency 33.3%%, got %v", v.Efficiency())
	}
}

func TestVehicleLoadUnloadSequence(t *testing.T) {
	seq := samplePlan().Vehicles[0].UnloadSequence()
	if seq[0].CartonIndex != 1 {
		t.Errorf("expected the carton nearest the door (largest Y) first, got %d", seq[0].CartonIndex)
	}
}

func TestLoadPlanUsedVehicles(t *testing.T) {
	plan := samplePlan()
	used := plan.UsedVehicles()
	if len(used) != 1 || used[0].Container.Label != "Cube" {
		t.Fatalf("expected only Cube used, got %+v", used)
	}
	if math.Abs(plan.TotalEfficiency()-100.0/3.0) > 1e-9 {
		t.Errorf("unexpected total efficiency %v", plan.TotalEfficiency())
	}
}

func TestLoadPlanPlacementFor(t *testing.T) {
	plan := samplePlan()
	p, ok := plan.PlacementFor(1)
	if !ok || p.X != 2 {
		t.Errorf("expected placement of carton 1 at x=2, got %+v ok=%v", p, ok)
	}
	if _, ok := plan.PlacementFor(7); ok {
		t.Error("carton 7 should not be placed")
	}
}

func TestEmptyPlanEfficiency(t *testing.T) {
	if (LoadPlan{}).TotalEfficiency() != 0 {
		t.Error("empty plan should have zero efficiency")
	}
	if (VehicleLoad{}).Efficiency() != 0 {
		t.Error("zero-volume container should have zero efficiency")
	}
}
