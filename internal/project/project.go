package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/LoadPlanner/internal/model"
)

// Format is the on-disk encoding of a project file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the encoding from the file extension. Anything other
// than .yaml or .yml is JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// SaveProject writes the project to path, creating parent directories.
func SaveProject(path string, p model.Project) error {
	var (
		data []byte
		err  error
	)
	switch FormatFor(path) {
	case FormatYAML:
		data, err = yaml.Marshal(p)
	default:
		data, err = json.MarshalIndent(p, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}
	return nil
}

// LoadProject reads a project from path. Settings missing from the file
// keep their defaults and a nil stop map is replaced by an empty one.
func LoadProject(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read project file: %w", err)
	}

	p := model.NewProject()
	switch FormatFor(path) {
	case FormatYAML:
		err = yaml.Unmarshal(data, &p)
	default:
		err = json.Unmarshal(data, &p)
	}
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project file %s: %w", filepath.Base(path), err)
	}

	if p.Instance.Route.StopCartons == nil {
		p.Instance.Route.StopCartons = map[int][]int{}
	}
	if p.Instance.Cartons == nil {
		p.Instance.Cartons = []model.Carton{}
	}
	if p.Instance.Containers == nil {
		p.Instance.Containers = []model.Container{}
	}
	return p, nil
}
