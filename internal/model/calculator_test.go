package model

import (
	"math"
	"testing"
)

func TestCalculateLoadEstimateBasic(t *testing.T) {
	in := Instance{
		Cartons: []Carton{
			NewCarton("A", 2, 2, 2, 30),
			NewCarton("B", 1, 1, 1, 20),
		},
		Containers: []Container{
			NewContainer("Small", 3, 3, 3, 40),
			NewContainer("Large", 4, 4, 4, 100),
		},
	}

	est := CalculateLoadEstimate(in)

	if est.TotalCartonVolume != 9 {
		t.Errorf("expected carton volume 9, got %v", est.TotalCartonVolume)
	}
	if est.TotalCartonWeight != 50 {
		t.Errorf("expected carton weight 50, got %v", est.TotalCartonWeight)
	}
	if est.FleetVolume != 27+64 {
		t.Errorf("expected fleet volume 91, got %v", est.FleetVolume)
	}
	if math.Abs(est.VolumeFillPercent-9.0/91.0*100) > 1e-9 {
		t.Errorf("unexpected volume fill %v", est.VolumeFillPercent)
	}
	if est.MinVehiclesByVol != 1 {
		t.Errorf("expected 1 vehicle by volume, got %d", est.MinVehiclesByVol)
	}
	if est.MinVehiclesByWt != 1 {
		t.Errorf("expected 1 vehicle by weight, got %d", est.MinVehiclesByWt)
	}
	if len(est.OversizedCartons) != 0 {
		t.Errorf("expected no oversized cartons, got %v", est.OversizedCartons)
	}
}

func TestCalculateLoadEstimateFlagsProblems(t *testing.T) {
	in := Instance{
		Cartons: []Carton{
			NewCarton("Huge", 5, 5, 5, 10),
			NewCarton("Heavy", 1, 1, 1, 50),
		},
		Containers: []Container{NewContainer("Cube", 3, 3, 3, 20)},
		Route: RouteBinding{
			Routes:      []VehicleRoute{{Container: 0, Stops: []int{1}}},
			StopCartons: map[int][]int{1: {1}},
		},
	}

	est := CalculateLoadEstimate(in)

	if len(est.OversizedCartons) != 1 || est.OversizedCartons[0] != 0 {
		t.Errorf("expected carton 0 oversized, got %v", est.OversizedCartons)
	}
	if len(est.OverloadedVehicles) != 1 || est.OverloadedVehicles[0] != 0 {
		t.Errorf("expected vehicle 0 overloaded, got %v", est.OverloadedVehicles)
	}
	// 60 kg against a 20 kg fleet: even every vehicle is not enough.
	if est.MinVehiclesByWt != 2 {
		t.Errorf("expected weight bound beyond fleet size (2), got %d", est.MinVehiclesByWt)
	}
	if est.MinVehicles() != 2 {
		t.Errorf("expected MinVehicles 2, got %d", est.MinVehicles())
	}
}

func TestCalculateLoadEstimateEmpty(t *testing.T) {
	est := CalculateLoadEstimate(Instance{})
	if est.MinVehicles() != 0 || est.VolumeFillPercent != 0 {
		t.Errorf("expected zero estimate, got %+v", est)
	}
}
