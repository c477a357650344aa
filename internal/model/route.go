package model

import "sort"

// VehicleRoute is the ordered stop sequence a routing stage produced for
// one container.
type VehicleRoute struct {
	Container int   `json:"container" yaml:"container"`
	Stops     []int `json:"stops" yaml:"stops"`
}

// RouteBinding is the routing stage's output: per container an ordered
// sequence of stops, and per stop the cartons delivered there.
type RouteBinding struct {
	Routes      []VehicleRoute `json:"routes" yaml:"routes"`
	StopCartons map[int][]int  `json:"stop_cartons" yaml:"stop_cartons"`
	// IncludesDepot marks routes that start and end at the depot. The
	// first and last stop are then dropped before cartons are looked up.
	IncludesDepot bool `json:"includes_depot,omitempty" yaml:"includes_depot,omitempty"`
}

// RouteFor returns the route of container j, if one is bound.
func (rb RouteBinding) RouteFor(j int) (VehicleRoute, bool) {
	for _, r := range rb.Routes {
		if r.Container == j {
			return r, true
		}
	}
	return VehicleRoute{}, false
}

// Stops returns the delivery stops of container j in visiting order, with
// depot markers stripped.
func (rb RouteBinding) Stops(j int) []int {
	r, ok := rb.RouteFor(j)
	if !ok {
		return nil
	}
	stops := r.Stops
	if rb.IncludesDepot {
		if len(stops) < 2 {
			return nil
		}
		stops = stops[1 : len(stops)-1]
	}
	out := make([]int, len(stops))
	copy(out, stops)
	return out
}

// Order returns the carton indices of container j in route order: cartons of
// the first visited stop come first, then the next stop, and so on.
func (rb RouteBinding) Order(j int) []int {
	var order []int
	for _, stop := range rb.Stops(j) {
		order = append(order, rb.StopCartons[stop]...)
	}
	return order
}

// Forced returns the set of cartons the route binds to container j, sorted by
// carton index.
func (rb RouteBinding) Forced(j int) []int {
	forced := rb.Order(j)
	sort.Ints(forced)
	return forced
}

// Assignment maps each routed carton index to the containers that claim it.
// A well-formed binding yields exactly one container per carton.
func (rb RouteBinding) Assignment() map[int][]int {
	out := make(map[int][]int)
	for _, r := range rb.Routes {
		for _, i := range rb.Order(r.Container) {
			out[i] = append(out[i], r.Container)
		}
	}
	return out
}

// Empty reports whether no route is bound.
func (rb RouteBinding) Empty() bool {
	return len(rb.Routes) == 0
}
