package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/LoadPlanner/internal/model"
	"github.com/piwi3910/LoadPlanner/internal/project"
)

// ─── Restore Tests ─────────────────────────────────────────

func TestRestoreBackup(t *testing.T) {
	dir := t.TempDir()
	backupPath := filepath.Join(dir, "backup.json")
	cfgPath := filepath.Join(dir, "restored", "config.json")
	fleetPath := filepath.Join(dir, "restored", "fleet.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultNodeLimit = 777
	cfg.RedisURL = "redis://cache:6379/0"
	fleet := model.Fleet{Presets: []model.ContainerPreset{
		model.NewContainerPreset("Cargo Bike", 80, 60, 60, 100),
	}}
	require.NoError(t, project.ExportAllData(backupPath, cfg, fleet))

	require.NoError(t, restoreBackup(backupPath, cfgPath, fleetPath))

	gotCfg, err := project.LoadAppConfig(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, int64(777), gotCfg.DefaultNodeLimit)
	assert.Equal(t, "redis://cache:6379/0", gotCfg.RedisURL)

	gotFleet, err := project.LoadFleet(fleetPath)
	require.NoError(t, err)
	require.Len(t, gotFleet.Presets, 1)
	assert.Equal(t, "Cargo Bike", gotFleet.Presets[0].Name)
}

func TestRestoreBackup_MissingFile(t *testing.T) {
	dir := t.TempDir()
	err := restoreBackup(filepath.Join(dir, "none.json"), filepath.Join(dir, "c.json"), filepath.Join(dir, "f.json"))
	assert.Error(t, err)
}

// ─── Route Override Tests ──────────────────────────────────

func TestBindRoutes(t *testing.T) {
	a := model.NewCarton("A", 1, 1, 1, 1)
	a.Stop = 4
	b := model.NewCarton("B", 1, 1, 1, 1)
	b.Stop = 2
	in := model.Instance{
		Cartons:    []model.Carton{a, b},
		Containers: []model.Container{model.NewContainer("Van", 2, 2, 2, 10)},
	}

	require.NoError(t, bindRoutes(context.Background(), &in, stopFlag{0: {4, 2}}))
	assert.Equal(t, []int{0, 1}, in.Route.Order(0))

	before := in.Route
	require.NoError(t, bindRoutes(context.Background(), &in, nil))
	assert.Equal(t, before, in.Route, "no -route flags keep the binding")

	assert.Error(t, bindRoutes(context.Background(), &in, stopFlag{3: {4}}))
}
