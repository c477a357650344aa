package model

import "github.com/google/uuid"

// ContainerPreset represents a reusable vehicle body definition.
type ContainerPreset struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Length   float64 `json:"length" yaml:"length"`
	Width    float64 `json:"width" yaml:"width"`
	Height   float64 `json:"height" yaml:"height"`
	Capacity float64 `json:"capacity" yaml:"capacity"`
}

// NewContainerPreset creates a new ContainerPreset with a generated ID.
func NewContainerPreset(name string, length, width, height, capacity float64) ContainerPreset {
	return ContainerPreset{
		ID:       uuid.New().String()[:8],
		Name:     name,
		Length:   length,
		Width:    width,
		Height:   height,
		Capacity: capacity,
	}
}

// ToContainer converts a preset into a Container.
func (cp ContainerPreset) ToContainer() Container {
	return NewContainer(cp.Name, cp.Length, cp.Width, cp.Height, cp.Capacity)
}

// Fleet holds the user's saved container presets.
type Fleet struct {
	Presets []ContainerPreset `json:"presets" yaml:"presets"`
}

// DefaultFleet returns a fleet populated with common vehicle bodies.
// Dimensions are inside measurements in cm, capacities in kg.
func DefaultFleet() Fleet {
	return Fleet{
		Presets: []ContainerPreset{
			NewContainerPreset("Small Van", 250, 150, 130, 800),
			NewContainerPreset("Large Van", 420, 175, 190, 1300),
			NewContainerPreset("Box Truck 3.5t", 420, 210, 220, 1100),
			NewContainerPreset("Box Truck 7.5t", 620, 245, 240, 3000),
			NewContainerPreset("20ft Container", 590, 235, 239, 28000),
			NewContainerPreset("40ft Container", 1203, 235, 239, 26700),
		},
	}
}

// FindByID returns a pointer to the preset with the given ID, or nil.
func (f *Fleet) FindByID(id string) *ContainerPreset {
	for i := range f.Presets {
		if f.Presets[i].ID == id {
			return &f.Presets[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first preset with the given name, or nil.
func (f *Fleet) FindByName(name string) *ContainerPreset {
	for i := range f.Presets {
		if f.Presets[i].Name == name {
			return &f.Presets[i]
		}
	}
	return nil
}

// Names returns the preset names in order.
func (f *Fleet) Names() []string {
	names := make([]string, len(f.Presets))
	for i, p := range f.Presets {
		names[i] = p.Name
	}
	return names
}

// Containers instantiates one container per requested preset name. Unknown
// names are skipped and returned separately.
func (f *Fleet) Containers(names ...string) (containers []Container, unknown []string) {
	for _, n := range names {
		p := f.FindByName(n)
		if p == nil {
			unknown = append(unknown, n)
			continue
		}
		containers = append(containers, p.ToContainer())
	}
	return containers, unknown
}
