package export

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/LoadPlanner/internal/model"
)

const (
	loadSheet    = "Load Plan"
	vehicleSheet = "Vehicles"
)

var loadHeader = []interface{}{
	"Vehicle", "Step", "Carton", "Stop", "Drop", "Orientation",
	"X", "Y", "Z", "Extent X", "Extent Y", "Extent Z", "Weight",
}

var vehicleHeader = []interface{}{
	"Vehicle", "Container", "Length", "Width", "Height", "Capacity",
	"Cartons", "Loaded Weight", "Volume Used %",
}

// ExportExcel writes the load sheet: every carton in loading order per
// vehicle (step 1 goes in first), plus a per-vehicle summary sheet.
func ExportExcel(path string, plan model.LoadPlan, route model.RouteBinding) error {
	if plan.Status != model.PlanOptimal || len(plan.UsedVehicles()) == 0 {
		return ErrNothingToExport
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), loadSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(vehicleSheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeHeader(f, loadSheet, loadHeader, bold); err != nil {
		return err
	}
	if err := writeHeader(f, vehicleSheet, vehicleHeader, bold); err != nil {
		return err
	}

	row := 2
	for n, v := range plan.UsedVehicles() {
		stops := route.Stops(v.ContainerIndex)
		order := stopIndex(route, v.ContainerIndex)

		seq := v.UnloadSequence()
		step := 1
		for k := len(seq) - 1; k >= 0; k-- {
			p := seq[k]
			ex, ey, ez := p.Extents()
			var stop, drop interface{}
			if pos, ok := order[p.CartonIndex]; ok {
				stop, drop = stops[pos], pos+1
			}
			values := []interface{}{
				v.Container.Label, step, p.Carton.Label, stop, drop, p.Orientation.String(),
				p.X, p.Y, p.Z, ex, ey, ez, p.Carton.Weight,
			}
			if err := setRow(f, loadSheet, row, values); err != nil {
				return err
			}
			row++
			step++
		}

		c := v.Container
		values := []interface{}{
			n + 1, c.Label, c.Length, c.Width, c.Height, c.Capacity,
			len(v.Placements), v.LoadedWeight(), math.Round(v.Efficiency()*10)/10,
		}
		if err := setRow(f, vehicleSheet, n+2, values); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(loadSheet, "A", "C", 18); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(vehicleSheet, "B", "B", 18); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	return f.SaveAs(path)
}

func writeHeader(f *excelize.File, sheet string, header []interface{}, style int) error {
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return fmt.Errorf("failed to create cell reference: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to create cell reference: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}
