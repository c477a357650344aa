package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/LoadPlanner/internal/model"
)

func TestLoadFleet_CreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "fleet.json")

	fleet, err := LoadFleet(path)
	require.NoError(t, err)
	assert.Equal(t, len(model.DefaultFleet().Presets), len(fleet.Presets))

	_, err = os.Stat(path)
	assert.NoError(t, err, "default fleet should be written to disk")
}

func TestSaveAndLoadFleet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleet.json")
	fleet := model.Fleet{Presets: []model.ContainerPreset{
		model.NewContainerPreset("Cargo Bike", 80, 60, 60, 100),
	}}
	require.NoError(t, SaveFleet(path, fleet))

	loaded, err := LoadFleet(path)
	require.NoError(t, err)
	require.Len(t, loaded.Presets, 1)
	assert.Equal(t, "Cargo Bike", loaded.Presets[0].Name)
	assert.Equal(t, 100.0, loaded.Presets[0].Capacity)
}

func TestLoadFleet_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleet.json")
	require.NoError(t, os.WriteFile(path, []byte("[["), 0644))
	_, err := LoadFleet(path)
	assert.Error(t, err)
}

func TestImportFleet_SkipsDuplicates(t *testing.T) {
	existing := model.DefaultFleet()
	extra := model.NewContainerPreset("Pickup", 180, 150, 50, 700)
	imported := model.Fleet{Presets: []model.ContainerPreset{existing.Presets[0], extra}}

	path := filepath.Join(t.TempDir(), "import.json")
	require.NoError(t, SaveFleet(path, imported))

	merged, err := ImportFleet(path, existing)
	require.NoError(t, err)
	assert.Len(t, merged.Presets, len(existing.Presets)+1)
	assert.NotNil(t, merged.FindByName("Pickup"))
}

func TestImportFleet_MissingFile(t *testing.T) {
	existing := model.DefaultFleet()
	merged, err := ImportFleet(filepath.Join(t.TempDir(), "nope.json"), existing)
	assert.Error(t, err)
	assert.Len(t, merged.Presets, len(existing.Presets))
}
