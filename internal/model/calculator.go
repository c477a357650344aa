package model

import "sort"

// LoadEstimate holds a quick capacity check computed before solving.
type LoadEstimate struct {
	TotalCartonVolume  float64 `json:"total_carton_volume"`
	TotalCartonWeight  float64 `json:"total_carton_weight"`
	FleetVolume        float64 `json:"fleet_volume"`
	FleetCapacity      float64 `json:"fleet_capacity"`
	VolumeFillPercent  float64 `json:"volume_fill_percent"`  // Carton volume / fleet volume
	WeightFillPercent  float64 `json:"weight_fill_percent"`  // Carton weight / fleet capacity
	MinVehiclesByVol   int     `json:"min_vehicles_by_vol"`  // Lower bound using the largest vehicles
	MinVehiclesByWt    int     `json:"min_vehicles_by_wt"`   // Lower bound using the strongest vehicles
	OversizedCartons   []int   `json:"oversized_cartons"`    // Fit no container in any orientation
	OverloadedVehicles []int   `json:"overloaded_vehicles"`  // Routed weight above capacity
}

// MinVehicles returns the larger of the two lower bounds.
func (e LoadEstimate) MinVehicles() int {
	return max(e.MinVehiclesByVol, e.MinVehiclesByWt)
}

// CalculateLoadEstimate computes volume and weight totals for an instance
// and simple lower bounds on the number of vehicles the plan will use.
// It never replaces the solver; it only flags obviously hopeless inputs.
func CalculateLoadEstimate(in Instance) LoadEstimate {
	est := LoadEstimate{
		TotalCartonVolume: in.TotalCartonVolume(),
		TotalCartonWeight: in.TotalCartonWeight(),
	}

	vols := make([]float64, len(in.Containers))
	caps := make([]float64, len(in.Containers))
	for j, c := range in.Containers {
		vols[j] = c.Volume()
		caps[j] = c.Capacity
		est.FleetVolume += vols[j]
		est.FleetCapacity += c.Capacity
	}
	if est.FleetVolume > 0 {
		est.VolumeFillPercent = est.TotalCartonVolume / est.FleetVolume * 100.0
	}
	if est.FleetCapacity > 0 {
		est.WeightFillPercent = est.TotalCartonWeight / est.FleetCapacity * 100.0
	}
	est.MinVehiclesByVol = coverCount(vols, est.TotalCartonVolume)
	est.MinVehiclesByWt = coverCount(caps, est.TotalCartonWeight)

	for i, carton := range in.Cartons {
		fits := false
		for _, c := range in.Containers {
			if c.Fits(carton) {
				fits = true
				break
			}
		}
		if !fits {
			est.OversizedCartons = append(est.OversizedCartons, i)
		}
	}

	for j, c := range in.Containers {
		var routed float64
		for _, i := range in.Route.Forced(j) {
			if i >= 0 && i < len(in.Cartons) {
				routed += in.Cartons[i].Weight
			}
		}
		if routed > c.Capacity {
			est.OverloadedVehicles = append(est.OverloadedVehicles, j)
		}
	}
	return est
}

// coverCount returns how many of the largest sizes are needed to reach
// total, or len(sizes)+1 when even all of them fall short.
func coverCount(sizes []float64, total float64) int {
	if total <= 0 {
		return 0
	}
	sorted := make([]float64, len(sizes))
	copy(sorted, sizes)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	var acc float64
	for n, s := range sorted {
		acc += s
		if acc >= total-1e-9 {
			return n + 1
		}
	}
	return len(sizes) + 1
}
