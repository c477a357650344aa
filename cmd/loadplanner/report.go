package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/piwi3910/LoadPlanner/internal/engine"
	"github.com/piwi3910/LoadPlanner/internal/model"
)

// stopFlag collects repeated -route container:stop,stop,... values.
type stopFlag map[int][]int

func (s *stopFlag) String() string {
	if s == nil || len(*s) == 0 {
		return ""
	}
	var parts []string
	for j, stops := range *s {
		strs := make([]string, len(stops))
		for k, v := range stops {
			strs[k] = strconv.Itoa(v)
		}
		parts = append(parts, fmt.Sprintf("%d:%s", j, strings.Join(strs, ",")))
	}
	return strings.Join(parts, " ")
}

func (s *stopFlag) Set(value string) error {
	container, list, ok := strings.Cut(value, ":")
	if !ok {
		return fmt.Errorf("route %q: want container:stop,stop,...", value)
	}
	j, err := strconv.Atoi(strings.TrimSpace(container))
	if err != nil || j < 0 {
		return fmt.Errorf("route %q: bad container index", value)
	}
	var stops []int
	for _, f := range strings.Split(list, ",") {
		if f = strings.TrimSpace(f); f == "" {
			continue
		}
		stop, err := strconv.Atoi(f)
		if err != nil {
			return fmt.Errorf("route %q: bad stop %q", value, f)
		}
		stops = append(stops, stop)
	}
	if *s == nil {
		*s = make(stopFlag)
	}
	if _, dup := (*s)[j]; dup {
		return fmt.Errorf("route %q: container %d already has a route", value, j)
	}
	(*s)[j] = stops
	return nil
}

// printPlan writes the loaded vehicles in unloading order followed by the
// solver statistics.
func printPlan(w io.Writer, plan model.LoadPlan, route model.RouteBinding) {
	fmt.Fprintf(w, "Status: %s\n", plan.Status)
	fmt.Fprintf(w, "Objective: %g\n", plan.Objective)
	fmt.Fprintf(w, "Used container volume: %g (%.1f%% filled)\n", plan.UsedVolume, plan.TotalEfficiency())

	for _, v := range plan.UsedVehicles() {
		c := v.Container
		fmt.Fprintf(w, "\nVehicle %d: %s (%g x %g x %g), %d cartons, load %.1f / %.1f\n",
			v.ContainerIndex, c.Label, c.Length, c.Width, c.Height,
			len(v.Placements), v.LoadedWeight(), c.Capacity)

		drop := make(map[int]string)
		for pos, stop := range route.Stops(v.ContainerIndex) {
			for _, i := range route.StopCartons[stop] {
				drop[i] = fmt.Sprintf("%d (stop %d)", pos+1, stop)
			}
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  Drop\tCarton\tPosition\tOrientation\tExtents")
		for _, p := range v.UnloadSequence() {
			ex, ey, ez := p.Extents()
			d := drop[p.CartonIndex]
			if d == "" {
				d = "-"
			}
			fmt.Fprintf(tw, "  %s\t%s\t(%g, %g, %g)\t%s\t%g x %g x %g\n",
				d, p.Carton.Label, p.X, p.Y, p.Z, p.Orientation, ex, ey, ez)
		}
		tw.Flush()
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Problem solved in %d milliseconds\n", plan.Stats.WallTime.Milliseconds())
	fmt.Fprintf(w, "Problem solved in %d iterations\n", plan.Stats.Iterations)
	fmt.Fprintf(w, "Problem solved in %d branch-and-bound nodes\n", plan.Stats.Nodes)
}

// printComparison writes one row per scenario.
func printComparison(w io.Writer, results []engine.ComparisonResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Scenario\tStatus\tObjective\tVehicles\tWaste\tVars\tRows\tNodes\tTime")
	for _, r := range results {
		if r.Err != nil && r.Plan.Status == "" {
			fmt.Fprintf(tw, "%s\terror: %v\t\t\t\t%d\t%d\t\t\n", r.Scenario.Name, r.Err, r.Vars, r.Rows)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%g\t%d\t%.1f%%\t%d\t%d\t%d\t%s\n",
			r.Scenario.Name, r.Plan.Status, r.Plan.Objective, r.VehiclesUsed, r.WastePercent,
			r.Vars, r.Rows, r.Plan.Stats.Nodes, r.Plan.Stats.WallTime)
	}
	tw.Flush()
}
