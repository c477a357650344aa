package model

import (
	"sort"
	"time"
)

// PlanStatus is the terminal outcome of planning a load.
type PlanStatus string

const (
	PlanOptimal    PlanStatus = "optimal"    // Placements available
	PlanInfeasible PlanStatus = "infeasible" // Proven: no placement exists
	PlanUnknown    PlanStatus = "unknown"    // Solver stopped without a proof
)

// Placement is one carton's solved position inside its container.
type Placement struct {
	Carton      Carton      `json:"carton" yaml:"carton"`
	CartonIndex int         `json:"carton_index" yaml:"carton_index"`
	Container   int         `json:"container" yaml:"container"`
	X           float64     `json:"x" yaml:"x"` // Front-lower-left corner
	Y           float64     `json:"y" yaml:"y"`
	Z           float64     `json:"z" yaml:"z"`
	Orientation Orientation `json:"orientation" yaml:"orientation"`
	LengthAxis  Axis        `json:"length_axis" yaml:"length_axis"`
}

// Extents returns the placed size along X, Y and Z.
func (p Placement) Extents() (x, y, z float64) {
	return p.Orientation.Extents(p.Carton.Length, p.Carton.Width, p.Carton.Height)
}

// Max returns the corner opposite to (X, Y, Z).
func (p Placement) Max() (x, y, z float64) {
	ex, ey, ez := p.Extents()
	return p.X + ex, p.Y + ey, p.Z + ez
}

// VehicleLoad is the content of one container in a plan.
type VehicleLoad struct {
	Container      Container   `json:"container" yaml:"container"`
	ContainerIndex int         `json:"container_index" yaml:"container_index"`
	Used           bool        `json:"used" yaml:"used"`
	Placements     []Placement `json:"placements" yaml:"placements"`
}

// LoadedWeight returns the summed weight of the placed cartons.
func (v VehicleLoad) LoadedWeight() float64 {
	var total float64
	for _, p := range v.Placements {
		total += p.Carton.Weight
	}
	return total
}

// LoadedVolume returns the summed volume of the placed cartons.
func (v VehicleLoad) LoadedVolume() float64 {
	var total float64
	for _, p := range v.Placements {
		total += p.Carton.Volume()
	}
	return total
}

// Efficiency returns the volume usage percentage.
func (v VehicleLoad) Efficiency() float64 {
	vol := v.Container.Volume()
	if vol == 0 {
		return 0
	}
	return v.LoadedVolume() / vol * 100.0
}

// UnloadSequence returns the placements ordered by distance from the
// access face, nearest first, which is the order they come off the vehicle.
func (v VehicleLoad) UnloadSequence() []Placement {
	out := make([]Placement, len(v.Placements))
	copy(out, v.Placements)
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Y != out[b].Y {
			return out[a].Y > out[b].Y
		}
		return out[a].Z > out[b].Z
	})
	return out
}

// SolveStats are the solver statistics, passed through unchanged.
type SolveStats struct {
	WallTime   time.Duration `json:"wall_time" yaml:"wall_time"`
	Iterations int64         `json:"iterations" yaml:"iterations"`
	Nodes      int64         `json:"nodes" yaml:"nodes"`
}

// LoadPlan is the result of planning one instance. Vehicles are populated
// only when Status is PlanOptimal.
type LoadPlan struct {
	ID          string        `json:"id" yaml:"id"`
	Fingerprint string        `json:"fingerprint" yaml:"fingerprint"`
	Status      PlanStatus    `json:"status" yaml:"status"`
	Objective   float64       `json:"objective" yaml:"objective"`
	UsedVolume  float64       `json:"used_volume" yaml:"used_volume"`
	Vehicles    []VehicleLoad `json:"vehicles,omitempty" yaml:"vehicles,omitempty"`
	Stats       SolveStats    `json:"stats" yaml:"stats"`
	CreatedAt   time.Time     `json:"created_at" yaml:"created_at"`
}

// UsedVehicles returns the vehicles marked as used.
func (lp LoadPlan) UsedVehicles() []VehicleLoad {
	var out []VehicleLoad
	for _, v := range lp.Vehicles {
		if v.Used {
			out = append(out, v)
		}
	}
	return out
}

// PlacementFor returns the placement of carton index i, if any.
func (lp LoadPlan) PlacementFor(i int) (Placement, bool) {
	for _, v := range lp.Vehicles {
		for _, p := range v.Placements {
			if p.CartonIndex == i {
				return p, true
			}
		}
	}
	return Placement{}, false
}

// TotalEfficiency returns the overall volume usage of the used vehicles.
func (lp LoadPlan) TotalEfficiency() float64 {
	var loaded, total float64
	for _, v := range lp.UsedVehicles() {
		loaded += v.LoadedVolume()
		total += v.Container.Volume()
	}
	if total == 0 {
		return 0
	}
	return loaded / total * 100.0
}
