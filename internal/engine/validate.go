package engine

import (
	"errors"
	"math"
	"sort"

	"github.com/piwi3910/LoadPlanner/internal/model"
)

// Validate checks an instance for inconsistencies that would make the model
// malformed or trivially infeasible. Every problem found is reported; the
// result unwraps to ErrInputInconsistency and to each *InputError.
func Validate(in model.Instance) error {
	var errs []error

	if len(in.Cartons) > 0 && len(in.Containers) == 0 {
		errs = append(errs, NewInputError("container", -1, "no containers for %d cartons", len(in.Cartons)))
	}

	for i, c := range in.Cartons {
		if !positive(c.Length) || !positive(c.Width) || !positive(c.Height) {
			errs = append(errs, NewInputError("carton", i, "dimensions must be positive, got %gx%gx%g", c.Length, c.Width, c.Height))
		}
		if c.Weight < 0 || math.IsNaN(c.Weight) || math.IsInf(c.Weight, 0) {
			errs = append(errs, NewInputError("carton", i, "weight must be non-negative, got %g", c.Weight))
		}
	}

	for j, c := range in.Containers {
		if !positive(c.Length) || !positive(c.Width) || !positive(c.Height) {
			errs = append(errs, NewInputError("container", j, "dimensions must be positive, got %gx%gx%g", c.Length, c.Width, c.Height))
		}
		if c.Capacity < 0 || math.IsNaN(c.Capacity) || math.IsInf(c.Capacity, 0) {
			errs = append(errs, NewInputError("container", j, "capacity must be non-negative, got %g", c.Capacity))
		}
	}

	errs = append(errs, validateRoute(in)...)
	return errors.Join(errs...)
}

func validateRoute(in model.Instance) []error {
	var errs []error
	rb := in.Route

	seen := make(map[int]bool)
	for _, r := range rb.Routes {
		if r.Container < 0 || r.Container >= len(in.Containers) {
			errs = append(errs, NewInputError("route", r.Container, "container index out of range [0,%d)", len(in.Containers)))
			continue
		}
		if seen[r.Container] {
			errs = append(errs, NewInputError("route", r.Container, "container has more than one route"))
		}
		seen[r.Container] = true
	}

	stops := make([]int, 0, len(rb.StopCartons))
	for stop := range rb.StopCartons {
		stops = append(stops, stop)
	}
	sort.Ints(stops)
	for _, stop := range stops {
		for _, i := range rb.StopCartons[stop] {
			if i < 0 || i >= len(in.Cartons) {
				errs = append(errs, NewInputError("stop", stop, "carton index %d out of range [0,%d)", i, len(in.Cartons)))
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}

	assignment := rb.Assignment()
	routed := make([]int, 0, len(assignment))
	for i := range assignment {
		routed = append(routed, i)
	}
	sort.Ints(routed)
	for _, i := range routed {
		containers := assignment[i]
		if len(containers) > 1 {
			errs = append(errs, NewInputError("carton", i, "routed into containers %v", containers))
			continue
		}
		j := containers[0]
		if !in.Containers[j].Fits(in.Cartons[i]) {
			errs = append(errs, NewInputError("carton", i, "does not fit container %d in any orientation", j))
		}
	}
	return errs
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
