package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/LoadPlanner/internal/model"
)

// DefaultFleetPath returns the default file path for the fleet file.
// This is located at ~/.loadplanner/fleet.json.
func DefaultFleetPath() string {
	return filepath.Join(DefaultConfigDir(), "fleet.json")
}

// SaveFleet writes the fleet to the specified JSON file.
// It creates parent directories if they do not exist.
func SaveFleet(path string, fleet model.Fleet) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(fleet, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadFleet reads the fleet from the specified JSON file.
// If the file does not exist, it returns the default fleet and saves it.
func LoadFleet(path string) (model.Fleet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			fleet := model.DefaultFleet()
			if saveErr := SaveFleet(path, fleet); saveErr != nil {
				return fleet, saveErr
			}
			return fleet, nil
		}
		return model.Fleet{}, err
	}
	var fleet model.Fleet
	if err := json.Unmarshal(data, &fleet); err != nil {
		return model.Fleet{}, err
	}
	return fleet, nil
}

// ImportFleet imports presets from a user-specified JSON file, merging them
// with the existing fleet. Duplicate IDs are skipped.
func ImportFleet(path string, existing model.Fleet) (model.Fleet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, err
	}
	var imported model.Fleet
	if err := json.Unmarshal(data, &imported); err != nil {
		return existing, err
	}

	ids := make(map[string]bool, len(existing.Presets))
	for _, p := range existing.Presets {
		ids[p.ID] = true
	}
	for _, p := range imported.Presets {
		if !ids[p.ID] {
			existing.Presets = append(existing.Presets, p)
			ids[p.ID] = true
		}
	}
	return existing, nil
}
