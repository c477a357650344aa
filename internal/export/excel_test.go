package export

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/LoadPlanner/internal/model"
)

func TestExportExcel_LoadSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "load.xlsx")
	plan, route := buildTestPlan()
	require.NoError(t, ExportExcel(path, plan, route))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{loadSheet, vehicleSheet}, f.GetSheetList())

	rows, err := f.GetRows(loadSheet)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "Vehicle", rows[0][0])

	// Van loads deepest first: lamp and fridge, then the chair for drop 1.
	assert.Equal(t, []string{"Van", "1", "Lamp"}, rows[1][:3])
	assert.Equal(t, "", rows[1][3])
	assert.Equal(t, []string{"Van", "2", "Fridge", "2", "2", "LWH"}, rows[2][:6])
	assert.Equal(t, []string{"Van", "3", "Chair", "4", "1"}, rows[3][:5])
	assert.Equal(t, "80", rows[3][7])
	assert.Equal(t, []string{"Cargo Bike", "1", "Box"}, rows[4][:3])

	// Lamp is placed HLW: height along X.
	assert.Equal(t, []string{"60", "30", "30"}, rows[1][9:12])

	vehicles, err := f.GetRows(vehicleSheet)
	require.NoError(t, err)
	require.Len(t, vehicles, 3)
	assert.Equal(t, []string{"1", "Van", "250", "150", "130", "800", "3", "70"}, vehicles[1][:8])
	assert.Equal(t, "Cargo Bike", vehicles[2][1])
}

func TestExportExcel_NotOptimal(t *testing.T) {
	plan, route := buildTestPlan()
	plan.Status = model.PlanInfeasible
	err := ExportExcel(filepath.Join(t.TempDir(), "load.xlsx"), plan, route)
	assert.True(t, errors.Is(err, ErrNothingToExport))
}
