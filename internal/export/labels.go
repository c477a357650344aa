package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/LoadPlanner/internal/model"
)

// LabelInfo holds the data encoded into each carton label's QR code.
type LabelInfo struct {
	CartonID     string  `json:"id"`
	CartonLabel  string  `json:"label"`
	Length       float64 `json:"length"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	Weight       float64 `json:"weight"`
	VehicleIndex int     `json:"vehicle"`
	VehicleLabel string  `json:"vehicle_label"`
	Stop         int     `json:"stop,omitempty"`
	StopOrder    int     `json:"stop_order,omitempty"` // 1 for the first delivery
	Orientation  string  `json:"orientation"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Z            float64 `json:"z"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelPageWidth  = 215.9 // US Letter width in mm
	labelPageHeight = 279.4 // US Letter height in mm
	labelMarginTop  = 12.7  // mm
	labelMarginLeft = 4.8   // mm
	labelWidth      = 66.7  // mm per label
	labelHeight     = 25.4  // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels, one per loaded carton, in
// loading order: last delivery first. Labels are laid out on a standard label
// sheet (Avery 5160 / 3 columns x 10 rows on US Letter).
func ExportLabels(path string, plan model.LoadPlan, route model.RouteBinding) error {
	if plan.Status != model.PlanOptimal || len(plan.UsedVehicles()) == 0 {
		return ErrNothingToExport
	}

	labels := CollectLabelInfos(plan, route)
	if len(labels) == 0 {
		return fmt.Errorf("no cartons placed to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, i, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.CartonLabel, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, seq int, info LabelInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d", seq)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	cartonLabel := info.CartonLabel
	if pdf.GetStringWidth(cartonLabel) > textW {
		for len(cartonLabel) > 0 && pdf.GetStringWidth(cartonLabel+"...") > textW {
			cartonLabel = cartonLabel[:len(cartonLabel)-1]
		}
		cartonLabel += "..."
	}
	pdf.CellFormat(textW, 4.5, cartonLabel, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%.0f x %.0f x %.0f, %.1f kg", info.Length, info.Width, info.Height, info.Weight)
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	where := fmt.Sprintf("%s @ (%.0f, %.0f, %.0f) %s", info.VehicleLabel, info.X, info.Y, info.Z, info.Orientation)
	pdf.CellFormat(textW, 3, where, "", 1, "L", false, 0, "")

	if info.StopOrder > 0 {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 4, fmt.Sprintf("Drop %d (stop %d)", info.StopOrder, info.Stop), "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)

	return nil
}

// CollectLabelInfos extracts label information from a plan, vehicle by
// vehicle, with the cartons of the last stop first.
func CollectLabelInfos(plan model.LoadPlan, route model.RouteBinding) []LabelInfo {
	var labels []LabelInfo
	for _, v := range plan.UsedVehicles() {
		stops := route.Stops(v.ContainerIndex)
		order := stopIndex(route, v.ContainerIndex)

		seq := v.UnloadSequence()
		for k := len(seq) - 1; k >= 0; k-- {
			p := seq[k]
			info := LabelInfo{
				CartonID:     p.Carton.ID,
				CartonLabel:  p.Carton.Label,
				Length:       p.Carton.Length,
				Width:        p.Carton.Width,
				Height:       p.Carton.Height,
				Weight:       p.Carton.Weight,
				VehicleIndex: v.ContainerIndex + 1,
				VehicleLabel: v.Container.Label,
				Orientation:  p.Orientation.String(),
				X:            p.X,
				Y:            p.Y,
				Z:            p.Z,
			}
			if pos, ok := order[p.CartonIndex]; ok {
				info.Stop = stops[pos]
				info.StopOrder = pos + 1
			}
			labels = append(labels, info)
		}
	}
	return labels
}
