package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/LoadPlanner/internal/model"
)

func TestExportPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.pdf")
	plan, route := buildTestPlan()

	if err := ExportPDF(path, plan, route); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	requireFile(t, path, 500)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "%PDF-") {
		t.Error("output does not start with a PDF header")
	}
	// Two vehicle pages plus the summary.
	if n := strings.Count(string(data), "/Type /Page\n"); n != 3 {
		t.Errorf("expected 3 pages, got %d", n)
	}
}

func TestExportPDF_NotOptimal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.pdf")
	plan, route := buildTestPlan()
	plan.Status = model.PlanInfeasible

	err := ExportPDF(path, plan, route)
	if !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("expected ErrNothingToExport, got %v", err)
	}
	if _, statErr := os.Stat(path); statErr == nil {
		t.Error("no file should be written")
	}
}

func TestExportPDF_NoUsedVehicles(t *testing.T) {
	plan := model.LoadPlan{Status: model.PlanOptimal, Vehicles: []model.VehicleLoad{{Container: model.NewContainer("Van", 1, 1, 1, 1)}}}
	if err := ExportPDF(filepath.Join(t.TempDir(), "x.pdf"), plan, model.RouteBinding{}); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("expected ErrNothingToExport, got %v", err)
	}
}

func TestExportPDF_ManyStops(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stops.pdf")

	van := model.NewContainer("Long Trailer", 1360, 245, 270, 24000)
	route := model.RouteBinding{StopCartons: map[int][]int{}}
	var stops []int
	var placements []model.Placement
	for i := 0; i < 20; i++ {
		c := model.NewCarton(fmt.Sprintf("Pallet %d", i+1), 120, 80, 100, 400)
		placements = append(placements, model.Placement{
			Carton: c, CartonIndex: i, X: float64(i%10) * 125, Y: float64(i/10) * 85, Orientation: model.OrientLWH,
		})
		stops = append(stops, 100+i)
		route.StopCartons[100+i] = []int{i}
	}
	route.Routes = []model.VehicleRoute{{Container: 0, Stops: stops}}

	plan := model.LoadPlan{
		Status:   model.PlanOptimal,
		Vehicles: []model.VehicleLoad{{Container: van, Used: true, Placements: placements}},
	}
	if err := ExportPDF(path, plan, route); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	requireFile(t, path, 500)
}

func TestStopIndex(t *testing.T) {
	_, route := buildTestPlan()
	got := stopIndex(route, 0)
	if got[1] != 0 || got[0] != 1 {
		t.Errorf("expected chair first and fridge second, got %v", got)
	}
	if _, ok := got[2]; ok {
		t.Error("unrouted carton should have no stop position")
	}
	if len(stopIndex(route, 2)) != 0 {
		t.Error("vehicle without a route should map no cartons")
	}
}

func TestJoinLabels(t *testing.T) {
	if got := joinLabels([]string{"a", "b"}); got != "a, b" {
		t.Errorf("got %q", got)
	}
	if got := joinLabels([]string{"a", "b", "c", "d", "e", "f", "g", "h"}); got != "a, b, c, d, e, f +2" {
		t.Errorf("got %q", got)
	}
}

func TestLabelFontSize(t *testing.T) {
	cases := []struct {
		w, h float64
		want float64
	}{
		{50, 60, 8},
		{30, 100, 7},
		{10, 10, 6},
	}
	for _, c := range cases {
		if got := labelFontSize(c.w, c.h); got != c.want {
			t.Errorf("labelFontSize(%v, %v) = %v, want %v", c.w, c.h, got, c.want)
		}
	}
}
