// Package export writes solved load plans to PDF, Excel and DXF files and
// prints QR-coded carton labels.
package export

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/LoadPlanner/internal/model"
)

// ErrNothingToExport is returned when a plan has no loaded vehicle.
var ErrNothingToExport = errors.New("plan has no loaded vehicles")

// cartonColor represents an RGB fill color.
type cartonColor struct {
	R, G, B int
}

// stopColors are cycled per delivery stop so a stop's cartons share a color
// in every view.
var stopColors = []cartonColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// unroutedColor fills cartons that belong to no stop.
var unroutedColor = cartonColor{R: 189, G: 189, B: 189}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 28.0
	viewGap      = 12.0
	drawAreaTop  = marginTop + headerHeight + 10.0
)

// stopIndex maps carton indices to the position of their stop in the
// vehicle's route, 0 being the first delivery.
func stopIndex(route model.RouteBinding, container int) map[int]int {
	out := make(map[int]int)
	for pos, stop := range route.Stops(container) {
		for _, i := range route.StopCartons[stop] {
			out[i] = pos
		}
	}
	return out
}

func colorFor(stops map[int]int, cartonIndex int) cartonColor {
	pos, ok := stops[cartonIndex]
	if !ok {
		return unroutedColor
	}
	return stopColors[pos%len(stopColors)]
}

// ExportPDF renders a load plan: one page per loaded vehicle with a top view
// and a side view of the cargo space, followed by a summary page. Cartons are
// colored by delivery stop; the door is drawn at the far end of the loading
// depth.
func ExportPDF(path string, plan model.LoadPlan, route model.RouteBinding) error {
	vehicles := plan.UsedVehicles()
	if plan.Status != model.PlanOptimal || len(vehicles) == 0 {
		return ErrNothingToExport
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i, v := range vehicles {
		pdf.AddPage()
		renderVehiclePage(pdf, v, route, i+1)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, plan, route)

	return pdf.OutputFileAndClose(path)
}

// renderVehiclePage draws one loaded vehicle on the current page.
func renderVehiclePage(pdf *fpdf.Fpdf, v model.VehicleLoad, route model.RouteBinding, num int) {
	c := v.Container

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Vehicle %d: %s (%.0f x %.0f x %.0f)", num, c.Label, c.Length, c.Width, c.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Cartons: %d | Load: %.1f / %.1f | Volume used: %.1f%%",
		len(v.Placements), v.LoadedWeight(), c.Capacity, v.Efficiency())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	stops := stopIndex(route, v.ContainerIndex)

	// Both views share one scale so their depths line up.
	drawWidth := (pageWidth - marginLeft - marginRight - viewGap) / 2
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	scale := math.Min(drawWidth/math.Max(c.Length, c.Width), drawHeight/math.Max(c.Width, c.Height))

	topX := marginLeft
	sideX := marginLeft + drawWidth + viewGap

	// Top view: X across, loading depth down the page with the door at the bottom.
	drawView(pdf, "Top view", topX, drawAreaTop, c.Length*scale, c.Width*scale)
	sorted := make([]model.Placement, len(v.Placements))
	copy(sorted, v.Placements)
	sort.SliceStable(sorted, func(a, b int) bool { return sorted[a].Z < sorted[b].Z })
	for _, p := range sorted {
		ex, ey, _ := p.Extents()
		drawCarton(pdf, p, colorFor(stops, p.CartonIndex), topX+p.X*scale, drawAreaTop+p.Y*scale, ex*scale, ey*scale)
	}
	drawDoor(pdf, topX, drawAreaTop+c.Width*scale, c.Length*scale)

	// Side view: loading depth across with the door on the right, Z up.
	floor := drawAreaTop + c.Height*scale
	drawView(pdf, "Side view", sideX, drawAreaTop, c.Width*scale, c.Height*scale)
	sort.SliceStable(sorted, func(a, b int) bool { return sorted[a].X > sorted[b].X })
	for _, p := range sorted {
		_, ey, ez := p.Extents()
		drawCarton(pdf, p, colorFor(stops, p.CartonIndex), sideX+p.Y*scale, floor-(p.Z+ez)*scale, ey*scale, ez*scale)
	}
	drawDoorVertical(pdf, sideX+c.Width*scale, drawAreaTop, c.Height*scale)

	drawStopLegend(pdf, v, route, stops, drawAreaTop+drawHeight+8)
}

// drawView draws an empty cargo space with its caption.
func drawView(pdf *fpdf.Fpdf, caption string, x, y, w, h float64) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(80, 80, 80)
	pdf.SetXY(x, y-6)
	pdf.CellFormat(w, 5, caption, "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(x, y, w, h, "FD")
}

// drawCarton draws one carton rectangle with its label if it fits.
func drawCarton(pdf *fpdf.Fpdf, p model.Placement, col cartonColor, x, y, w, h float64) {
	pdf.SetFillColor(col.R, col.G, col.B)
	pdf.SetDrawColor(30, 30, 30)
	pdf.SetLineWidth(0.3)
	pdf.Rect(x, y, w, h, "FD")

	if w > 12 && h > 6 {
		pdf.SetFont("Helvetica", "", labelFontSize(w, h))
		pdf.SetTextColor(0, 0, 0)
		label := p.Carton.Label
		if lw := pdf.GetStringWidth(label); lw < w-2 {
			pdf.SetXY(x+(w-lw)/2, y+h/2-2)
			pdf.CellFormat(lw, 4, label, "", 0, "C", false, 0, "")
		}
	}
}

func drawDoor(pdf *fpdf.Fpdf, x, y, w float64) {
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(1.2)
	pdf.Line(x, y, x+w, y)
	pdf.SetFont("Helvetica", "B", 7)
	pdf.SetTextColor(200, 0, 0)
	pdf.SetXY(x, y+1)
	pdf.CellFormat(w, 4, "DOOR", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func drawDoorVertical(pdf *fpdf.Fpdf, x, y, h float64) {
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(1.2)
	pdf.Line(x, y, x, y+h)
	pdf.SetFont("Helvetica", "B", 7)
	pdf.SetTextColor(200, 0, 0)
	pdf.TransformBegin()
	pdf.TransformRotate(90, x+3, y+h/2)
	pdf.SetXY(x+3-5, y+h/2-2)
	pdf.CellFormat(10, 4, "DOOR", "", 0, "C", false, 0, "")
	pdf.TransformEnd()
	pdf.SetTextColor(0, 0, 0)
}

// drawStopLegend lists the stops in delivery order with their cartons.
func drawStopLegend(pdf *fpdf.Fpdf, v model.VehicleLoad, route model.RouteBinding, stops map[int]int, startY float64) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Stop order:", "", 0, "L", false, 0, "")

	byStop := make(map[int][]string)
	var unrouted []string
	for _, p := range v.Placements {
		if pos, ok := stops[p.CartonIndex]; ok {
			byStop[pos] = append(byStop[pos], p.Carton.Label)
		} else {
			unrouted = append(unrouted, p.Carton.Label)
		}
	}

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight
	entry := func(col cartonColor, text string) {
		w := pdf.GetStringWidth(text) + 6
		if xPos+w > maxX {
			startY += 5
			xPos = marginLeft
		}
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")
		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(w-4, 4, text, "", 0, "L", false, 0, "")
		xPos += w + 2
	}

	for pos, stop := range route.Stops(v.ContainerIndex) {
		labels := byStop[pos]
		if len(labels) == 0 {
			continue
		}
		entry(stopColors[pos%len(stopColors)], fmt.Sprintf("%d. stop %d: %s", pos+1, stop, joinLabels(labels)))
	}
	if len(unrouted) > 0 {
		entry(unroutedColor, "unrouted: "+joinLabels(unrouted))
	}
}

func joinLabels(labels []string) string {
	const limit = 6
	if len(labels) > limit {
		return fmt.Sprintf("%s +%d", strings.Join(labels[:limit], ", "), len(labels)-limit)
	}
	return strings.Join(labels, ", ")
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, plan model.LoadPlan, route model.RouteBinding) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Load Plan Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	used := plan.UsedVehicles()
	summaryItems := []struct {
		label string
		value string
	}{
		{"Vehicles Used", fmt.Sprintf("%d of %d", len(used), len(plan.Vehicles))},
		{"Cartons Loaded", fmt.Sprintf("%d", countCartons(plan))},
		{"Used Container Volume", fmt.Sprintf("%.0f", plan.UsedVolume)},
		{"Overall Efficiency", fmt.Sprintf("%.1f%%", plan.TotalEfficiency())},
		{"Objective", fmt.Sprintf("%.2f", plan.Objective)},
		{"Solve Time", plan.Stats.WallTime.String()},
		{"Branch-and-Bound Nodes", fmt.Sprintf("%d", plan.Stats.Nodes)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Vehicle Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{20, 60, 50, 25, 40, 30, 42}
	headers := []string{"Vehicle", "Container", "Dimensions", "Cartons", "Load / Capacity", "Volume", "Stops"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, v := range used {
		c := v.Container
		xPos = marginLeft
		rowData := []string{
			fmt.Sprintf("%d", i+1),
			c.Label,
			fmt.Sprintf("%.0f x %.0f x %.0f", c.Length, c.Width, c.Height),
			fmt.Sprintf("%d", len(v.Placements)),
			fmt.Sprintf("%.0f / %.0f", v.LoadedWeight(), c.Capacity),
			fmt.Sprintf("%.1f%%", v.Efficiency()),
			fmt.Sprintf("%d", len(route.Stops(v.ContainerIndex))),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	footer := fmt.Sprintf("Generated by LoadPlanner - plan %s", plan.ID)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, footer, "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}

// countCartons returns the number of placed cartons across all vehicles.
func countCartons(plan model.LoadPlan) int {
	total := 0
	for _, v := range plan.Vehicles {
		total += len(v.Placements)
	}
	return total
}
