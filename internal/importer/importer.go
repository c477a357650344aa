// Package importer provides CSV and Excel import of carton and container
// lists. It supports automatic delimiter detection, flexible column mapping,
// and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/LoadPlanner/internal/model"
)

// Kind selects what a sheet describes.
type Kind int

const (
	KindCartons Kind = iota
	KindContainers
)

func (k Kind) String() string {
	if k == KindContainers {
		return "container"
	}
	return "carton"
}

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Cartons    []model.Carton
	Containers []model.Container
	Errors     []string
	Warnings   []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Label    int
	Length   int
	Width    int
	Height   int
	Weight   int // Carton weight, or container capacity
	Stop     int
	Quantity int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"label":    {"label", "name", "description", "desc", "item", "carton", "sku", "vehicle", "container"},
	"length":   {"length", "len", "l"},
	"width":    {"width", "w", "breadth"},
	"height":   {"height", "h"},
	"weight":   {"weight", "wt", "kg", "mass", "capacity", "payload", "max weight", "max load"},
	"stop":     {"stop", "stop id", "drop", "delivery stop", "destination"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "pcs", "pieces"},
}

// positional is the column order assumed when a sheet has no header:
// Label, Length, Width, Height, Weight/Capacity, Quantity, Stop.
var positional = ColumnMapping{Label: 0, Length: 1, Width: 2, Height: 3, Weight: 4, Quantity: 5, Stop: 6}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1 // Allow variable field counts

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		// Only consider delimiters that produce more than 1 column
		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each column role.
// Returns the mapping and true if a header was detected, or the positional
// mapping and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Label: -1, Length: -1, Width: -1, Height: -1, Weight: -1, Stop: -1, Quantity: -1}
	slots := map[string]*int{
		"label":    &mapping.Label,
		"length":   &mapping.Length,
		"width":    &mapping.Width,
		"height":   &mapping.Height,
		"weight":   &mapping.Weight,
		"stop":     &mapping.Stop,
		"quantity": &mapping.Quantity,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if slot := slots[role]; *slot == -1 {
					*slot = i
				}
			}
		}
	}

	if !isHeader {
		return positional, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parsedRow is one data row before it is expanded by quantity.
type parsedRow struct {
	label                 string
	length, width, height float64
	weight                float64
	stop, quantity        int
}

// parseRow extracts the values of a row using the given column mapping.
// Returns the values, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, kind Kind, rowLabel string, count int) (parsedRow, string, string) {
	r := parsedRow{quantity: 1}

	r.label = getCell(row, mapping.Label)
	if r.label == "" {
		if kind == KindContainers {
			r.label = fmt.Sprintf("Vehicle %d", count+1)
		} else {
			r.label = fmt.Sprintf("Carton %d", count+1)
		}
	}

	dims := []struct {
		name string
		col  int
		dst  *float64
	}{
		{"length", mapping.Length, &r.length},
		{"width", mapping.Width, &r.width},
		{"height", mapping.Height, &r.height},
	}
	for _, d := range dims {
		s := getCell(row, d.col)
		if s == "" {
			return r, fmt.Sprintf("%s: Missing %s value", rowLabel, d.name), ""
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return r, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, d.name, s), ""
		}
		if v <= 0 {
			return r, fmt.Sprintf("%s: Length, width, and height must be positive", rowLabel), ""
		}
		*d.dst = v
	}

	weightName := "weight"
	if kind == KindContainers {
		weightName = "capacity"
	}
	if s := getCell(row, mapping.Weight); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return r, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, weightName, s), ""
		}
		if v < 0 {
			return r, fmt.Sprintf("%s: %s must not be negative", rowLabel, weightName), ""
		}
		r.weight = v
	} else if kind == KindContainers {
		return r, fmt.Sprintf("%s: Missing capacity value", rowLabel), ""
	}

	if s := getCell(row, mapping.Quantity); s != "" {
		q, err := strconv.Atoi(s)
		if err != nil {
			return r, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, s), ""
		}
		if q <= 0 {
			return r, fmt.Sprintf("%s: Quantity must be positive", rowLabel), ""
		}
		r.quantity = q
	}

	var warning string
	if s := getCell(row, mapping.Stop); s != "" {
		if kind == KindContainers {
			warning = fmt.Sprintf("%s: Stop column ignored for vehicles", rowLabel)
		} else if stop, err := strconv.Atoi(s); err != nil || stop < 0 {
			warning = fmt.Sprintf("%s: Unknown stop '%s', carton left unrouted", rowLabel, s)
		} else {
			r.stop = stop
		}
	}

	return r, "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports cartons or containers from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string, kind Kind) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, kind, "Line", result.Warnings)
}

// ImportCSVFromReader imports from a CSV reader with a specific delimiter.
// This is useful for testing or when the delimiter is already known.
func ImportCSVFromReader(reader io.Reader, delimiter rune, kind Kind) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, kind, "Line", nil)
}

// ImportExcel imports cartons or containers from the first sheet of an
// Excel (.xlsx) file.
func ImportExcel(path string, kind Kind) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	return importSheet(f, sheets[0], kind)
}

// ImportWorkbook reads both lists from one workbook: the sheet named
// "Cartons" and the sheet named "Containers" (or "Vehicles"). Either may be
// missing; a workbook with neither is an error.
func ImportWorkbook(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	found := false
	for _, sheet := range f.GetSheetList() {
		var kind Kind
		switch strings.ToLower(strings.TrimSpace(sheet)) {
		case "cartons", "boxes", "parcels":
			kind = KindCartons
		case "containers", "vehicles", "fleet":
			kind = KindContainers
		default:
			continue
		}
		found = true
		part := importSheet(f, sheet, kind)
		result.Cartons = append(result.Cartons, part.Cartons...)
		result.Containers = append(result.Containers, part.Containers...)
		for _, e := range part.Errors {
			result.Errors = append(result.Errors, sheet+": "+e)
		}
		for _, w := range part.Warnings {
			result.Warnings = append(result.Warnings, sheet+": "+w)
		}
	}
	if !found {
		result.Errors = append(result.Errors, "Workbook has no Cartons or Containers sheet")
	}
	return result
}

func importSheet(f *excelize.File, sheet string, kind Kind) ImportResult {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read Excel data: %v", err)}}
	}
	return importFromRows(rows, kind, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row, expanding the
// quantity column into separate cartons or containers.
func importFromRows(rows [][]string, kind Kind, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	// Detect columns from first row
	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		// Validate that required columns were found
		missing := []string{}
		if mapping.Length == -1 {
			missing = append(missing, "Length")
		}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if kind == KindContainers && mapping.Weight == -1 {
			missing = append(missing, "Capacity")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 4 {
		// First column after label is not numeric - might be an unrecognized header
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	count := 0
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		r, errMsg, warning := parseRow(row, mapping, kind, rowLabel, count)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		for q := 0; q < r.quantity; q++ {
			if kind == KindContainers {
				result.Containers = append(result.Containers, model.NewContainer(r.label, r.length, r.width, r.height, r.weight))
			} else {
				c := model.NewCarton(r.label, r.length, r.width, r.height, r.weight)
				c.Stop = r.stop
				result.Cartons = append(result.Cartons, c)
			}
		}
		count++
	}

	return result
}
