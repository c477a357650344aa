package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/LoadPlanner/internal/model"
)

// DXF layer names and ACI colors.
const (
	layerContainer = "CONTAINER"
	layerUnrouted  = "UNROUTED"
	layerLabels    = "LABELS"

	aciRed   = 1
	aciGray  = 8
	aciWhite = 7
)

// vehicleGap is the spacing between vehicles laid out along X.
const vehicleGap = 0.25

// ExportDXF writes a 3D wireframe of every loaded vehicle. Vehicles are laid
// out side by side along X. Each carton is a box on the layer of its stop
// (STOP_1 for the first delivery) so a CAD viewer can toggle drops.
func ExportDXF(path string, plan model.LoadPlan, route model.RouteBinding) error {
	if plan.Status != model.PlanOptimal || len(plan.UsedVehicles()) == 0 {
		return ErrNothingToExport
	}

	d := dxf.NewDrawing()
	layers := map[string]bool{}
	use := func(name string, cl color.ColorNumber) error {
		if layers[name] {
			return d.ChangeLayer(name)
		}
		layers[name] = true
		_, err := d.AddLayer(name, cl, dxf.DefaultLineType, true)
		return err
	}

	offset := 0.0
	for _, v := range plan.UsedVehicles() {
		c := v.Container
		if err := use(layerContainer, aciRed); err != nil {
			return fmt.Errorf("failed to add layer: %w", err)
		}
		if err := drawBox(d, offset, 0, 0, c.Length, c.Width, c.Height); err != nil {
			return fmt.Errorf("failed to draw %s: %w", c.Label, err)
		}

		order := stopIndex(route, v.ContainerIndex)
		for _, p := range v.Placements {
			layer, cl := layerUnrouted, color.ColorNumber(aciGray)
			if pos, ok := order[p.CartonIndex]; ok {
				layer, cl = fmt.Sprintf("STOP_%d", pos+1), color.ColorNumber(pos%6+2)
			}
			if err := use(layer, cl); err != nil {
				return fmt.Errorf("failed to add layer: %w", err)
			}
			ex, ey, ez := p.Extents()
			if err := drawBox(d, offset+p.X, p.Y, p.Z, ex, ey, ez); err != nil {
				return fmt.Errorf("failed to draw %s: %w", p.Carton.Label, err)
			}
		}

		if err := use(layerLabels, aciWhite); err != nil {
			return fmt.Errorf("failed to add layer: %w", err)
		}
		if _, err := d.Text(c.Label, offset, -c.Width*0.1, 0, c.Width*0.05); err != nil {
			return fmt.Errorf("failed to label %s: %w", c.Label, err)
		}

		offset += c.Length * (1 + vehicleGap)
	}

	return d.SaveAs(path)
}

// boxEdges lists the 12 edges of a box as pairs of corner indices. Corner k
// has bit 0 set for max X, bit 1 for max Y and bit 2 for max Z.
var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7}, // along X
	{0, 2}, {1, 3}, {4, 6}, {5, 7}, // along Y
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // along Z
}

// drawBox draws the wireframe of an axis-aligned box on the current layer.
func drawBox(d *drawing.Drawing, x, y, z, ex, ey, ez float64) error {
	var corners [8][3]float64
	for k := range corners {
		corners[k] = [3]float64{x, y, z}
		if k&1 != 0 {
			corners[k][0] += ex
		}
		if k&2 != 0 {
			corners[k][1] += ey
		}
		if k&4 != 0 {
			corners[k][2] += ez
		}
	}
	for _, e := range boxEdges {
		a, b := corners[e[0]], corners[e[1]]
		if _, err := d.Line(a[0], a[1], a[2], b[0], b[1], b[2]); err != nil {
			return err
		}
	}
	return nil
}
