package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/LoadPlanner/internal/model"
)

// ViolationKind classifies a problem found by Verify.
type ViolationKind string

const (
	ViolationUnplaced    ViolationKind = "unplaced"     // Carton missing from the plan
	ViolationDuplicate   ViolationKind = "duplicate"    // Carton placed more than once
	ViolationOutOfBounds ViolationKind = "out_of_bounds"
	ViolationOverlap     ViolationKind = "overlap"
	ViolationCapacity    ViolationKind = "capacity"
	ViolationRoute       ViolationKind = "route"  // Routed carton in the wrong vehicle
	ViolationUnload      ViolationKind = "unload" // Route order not respected along Y
	ViolationUsage       ViolationKind = "usage"  // Loaded vehicle not marked used
)

// Violation is one geometric or routing problem in a plan.
type Violation struct {
	Kind      ViolationKind
	Container int
	Cartons   []int
	Detail    string
}

func (v Violation) String() string {
	return fmt.Sprintf("vehicle %d: %s %v: %s", v.Container, v.Kind, v.Cartons, v.Detail)
}

// verifyTol absorbs floating-point noise in solved coordinates.
const verifyTol = 1e-6

// Verify re-checks an optimal plan against the instance using plain
// geometry, independent of the model that produced it. An empty result
// means every carton is placed once, inside its vehicle, without overlap,
// within capacity and in unload order.
func Verify(in model.Instance, plan model.LoadPlan) []Violation {
	if plan.Status != model.PlanOptimal {
		return nil
	}
	var out []Violation

	count := make([]int, len(in.Cartons))
	where := make([]int, len(in.Cartons))
	pos := make([]model.Placement, len(in.Cartons))
	for _, v := range plan.Vehicles {
		for _, p := range v.Placements {
			if p.CartonIndex < 0 || p.CartonIndex >= len(in.Cartons) {
				out = append(out, Violation{Kind: ViolationUnplaced, Container: v.ContainerIndex,
					Cartons: []int{p.CartonIndex}, Detail: "unknown carton index"})
				continue
			}
			count[p.CartonIndex]++
			where[p.CartonIndex] = v.ContainerIndex
			pos[p.CartonIndex] = p
		}
	}
	for i, n := range count {
		switch {
		case n == 0:
			out = append(out, Violation{Kind: ViolationUnplaced, Container: -1, Cartons: []int{i}, Detail: "not in any vehicle"})
		case n > 1:
			out = append(out, Violation{Kind: ViolationDuplicate, Container: where[i], Cartons: []int{i},
				Detail: fmt.Sprintf("placed %d times", n)})
		}
	}

	for _, v := range plan.Vehicles {
		out = append(out, verifyVehicle(v)...)
	}

	for j := range in.Containers {
		for _, i := range in.Route.Forced(j) {
			if count[i] == 1 && where[i] != j {
				out = append(out, Violation{Kind: ViolationRoute, Container: where[i], Cartons: []int{i},
					Detail: fmt.Sprintf("routed to vehicle %d", j)})
			}
		}
		order := in.Route.Order(j)
		for a := 0; a < len(order); a++ {
			for b := a + 1; b < len(order); b++ {
				early, late := order[a], order[b]
				if count[early] != 1 || count[late] != 1 {
					continue
				}
				if pos[early].Y < pos[late].Y+1-verifyTol {
					out = append(out, Violation{Kind: ViolationUnload, Container: j, Cartons: []int{early, late},
						Detail: fmt.Sprintf("y=%g is not behind y=%g", pos[early].Y, pos[late].Y)})
				}
			}
		}
	}
	return out
}

// verifyVehicle checks bounds, pairwise overlap, capacity and the usage flag
// of a single vehicle.
func verifyVehicle(v model.VehicleLoad) []Violation {
	var out []Violation
	c := v.Container
	j := v.ContainerIndex

	if len(v.Placements) > 0 && !v.Used {
		out = append(out, Violation{Kind: ViolationUsage, Container: j,
			Detail: fmt.Sprintf("%d cartons loaded but vehicle not marked used", len(v.Placements))})
	}
	if w := v.LoadedWeight(); w > c.Capacity+verifyTol {
		out = append(out, Violation{Kind: ViolationCapacity, Container: j,
			Detail: fmt.Sprintf("load %g exceeds capacity %g", w, c.Capacity)})
	}

	for _, p := range v.Placements {
		mx, my, mz := p.Max()
		if p.X < -verifyTol || p.Y < -verifyTol || p.Z < -verifyTol ||
			mx > c.Length+verifyTol || my > c.Width+verifyTol || mz > c.Height+verifyTol {
			out = append(out, Violation{Kind: ViolationOutOfBounds, Container: j, Cartons: []int{p.CartonIndex},
				Detail: fmt.Sprintf("spans (%g,%g,%g)-(%g,%g,%g) in %gx%gx%g", p.X, p.Y, p.Z, mx, my, mz, c.Length, c.Width, c.Height)})
		}
	}

	for a := 0; a < len(v.Placements); a++ {
		for b := a + 1; b < len(v.Placements); b++ {
			pa, pb := v.Placements[a], v.Placements[b]
			if vol := overlapVolume(pa, pb); vol > verifyTol {
				out = append(out, Violation{Kind: ViolationOverlap, Container: j,
					Cartons: []int{pa.CartonIndex, pb.CartonIndex}, Detail: fmt.Sprintf("intersect by volume %g", vol)})
			}
		}
	}
	return out
}

// overlapVolume returns the volume of the intersection of two placed boxes.
func overlapVolume(a, b model.Placement) float64 {
	ax, ay, az := a.Max()
	bx, by, bz := b.Max()
	dx := math.Min(ax, bx) - math.Max(a.X, b.X)
	dy := math.Min(ay, by) - math.Max(a.Y, b.Y)
	dz := math.Min(az, bz) - math.Max(a.Z, b.Z)
	if dx <= 0 || dy <= 0 || dz <= 0 {
		return 0
	}
	return dx * dy * dz
}

// FormatViolations produces human-readable messages from violation data.
func FormatViolations(vs []Violation) []string {
	msgs := make([]string, 0, len(vs))
	for _, v := range vs {
		msgs = append(msgs, v.String())
	}
	return msgs
}

// dropKind returns vs without the violations of the given kind.
func dropKind(vs []Violation, kind ViolationKind) []Violation {
	out := vs[:0:0]
	for _, v := range vs {
		if v.Kind != kind {
			out = append(out, v)
		}
	}
	return out
}
