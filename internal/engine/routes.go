package engine

import (
	"context"
	"fmt"

	"github.com/piwi3910/LoadPlanner/internal/model"
)

// RouteProvider supplies the route binding for a set of cartons and
// containers. The routing computation itself is an external stage; the
// binding it returns is treated as authoritative.
type RouteProvider interface {
	Routes(ctx context.Context, cartons []model.Carton, containers []model.Container) (model.RouteBinding, error)
}

// StaticRoutes is a RouteProvider returning a fixed binding.
type StaticRoutes struct {
	Binding model.RouteBinding
}

// Routes returns the fixed binding.
func (s StaticRoutes) Routes(ctx context.Context, cartons []model.Carton, containers []model.Container) (model.RouteBinding, error) {
	return s.Binding, nil
}

// StopSequences is a RouteProvider that groups cartons by their Stop field
// and binds each container to a fixed stop sequence. Cartons whose stop is
// on no sequence stay unrouted and are free to go in any container.
type StopSequences map[int][]int

// Routes builds the binding from carton stops.
func (s StopSequences) Routes(ctx context.Context, cartons []model.Carton, containers []model.Container) (model.RouteBinding, error) {
	rb := model.RouteBinding{StopCartons: make(map[int][]int)}
	for j := range containers {
		stops, ok := s[j]
		if !ok {
			continue
		}
		rb.Routes = append(rb.Routes, model.VehicleRoute{Container: j, Stops: stops})
	}
	for j := range s {
		if j < 0 || j >= len(containers) {
			return model.RouteBinding{}, fmt.Errorf("stop sequence for unknown container %d", j)
		}
	}
	for i, c := range cartons {
		if c.Stop == 0 {
			continue
		}
		rb.StopCartons[c.Stop] = append(rb.StopCartons[c.Stop], i)
	}
	return rb, nil
}
