package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Axis identifies one of the three container axes. X runs along the
// container length, Y along its width and Z is vertical. Y is the loading
// depth: the access door sits at Y = Width, so cartons unloaded first have
// the largest Y.
type Axis int

const (
	AxisX Axis = iota // Container length
	AxisY             // Container width / loading depth
	AxisZ             // Height
)

// Axes lists the three axes in X, Y, Z order.
var Axes = [3]Axis{AxisX, AxisY, AxisZ}

func (a Axis) String() string {
	switch a {
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return "X"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Axis) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Axis) UnmarshalText(b []byte) error {
	switch string(b) {
	case "X", "x":
		*a = AxisX
	case "Y", "y":
		*a = AxisY
	case "Z", "z":
		*a = AxisZ
	default:
		return fmt.Errorf("unknown axis %q", string(b))
	}
	return nil
}

// Carton represents a rectangular box to be loaded into exactly one container.
type Carton struct {
	ID     string  `json:"id" yaml:"id"`
	Label  string  `json:"label" yaml:"label"`
	Length float64 `json:"length" yaml:"length"` // p
	Width  float64 `json:"width" yaml:"width"`   // q
	Height float64 `json:"height" yaml:"height"` // r
	Weight float64 `json:"weight" yaml:"weight"`
	Stop   int     `json:"stop,omitempty" yaml:"stop,omitempty"` // Delivery stop, informational
}

// NewCarton creates a carton with a generated ID.
func NewCarton(label string, length, width, height, weight float64) Carton {
	return Carton{
		ID:     uuid.New().String()[:8],
		Label:  label,
		Length: length,
		Width:  width,
		Height: height,
		Weight: weight,
	}
}

// Dims returns the declared (length, width, height).
func (c Carton) Dims() [3]float64 {
	return [3]float64{c.Length, c.Width, c.Height}
}

// Volume returns length * width * height.
func (c Carton) Volume() float64 {
	return c.Length * c.Width * c.Height
}

// MaxDim returns the largest of the three dimensions.
func (c Carton) MaxDim() float64 {
	return max(c.Length, c.Width, c.Height)
}

// Container represents a vehicle's rectangular loading space.
type Container struct {
	ID       string  `json:"id" yaml:"id"`
	Label    string  `json:"label" yaml:"label"`
	Length   float64 `json:"length" yaml:"length"` // L, along X
	Width    float64 `json:"width" yaml:"width"`   // W, along Y
	Height   float64 `json:"height" yaml:"height"` // H, along Z
	Capacity float64 `json:"capacity" yaml:"capacity"`
}

// NewContainer creates a container with a generated ID.
func NewContainer(label string, length, width, height, capacity float64) Container {
	return Container{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Length:   length,
		Width:    width,
		Height:   height,
		Capacity: capacity,
	}
}

// Dims returns (L, W, H) in X, Y, Z order.
func (c Container) Dims() [3]float64 {
	return [3]float64{c.Length, c.Width, c.Height}
}

// Dim returns the container size along axis a.
func (c Container) Dim(a Axis) float64 {
	return c.Dims()[a]
}

// Volume returns L * W * H.
func (c Container) Volume() float64 {
	return c.Length * c.Width * c.Height
}

// MaxDim returns the largest of the three dimensions.
func (c Container) MaxDim() float64 {
	return max(c.Length, c.Width, c.Height)
}

// Fits reports whether the carton fits inside the container in at least
// one of the six orientations.
func (c Container) Fits(carton Carton) bool {
	for _, o := range Orientations {
		x, y, z := o.Extents(carton.Length, carton.Width, carton.Height)
		if x <= c.Length && y <= c.Width && z <= c.Height {
			return true
		}
	}
	return false
}

// Instance is one loading problem: cartons, containers and the route
// binding produced by the routing stage.
type Instance struct {
	Cartons    []Carton     `json:"cartons" yaml:"cartons"`
	Containers []Container  `json:"containers" yaml:"containers"`
	Route      RouteBinding `json:"route" yaml:"route"`
}

// TotalCartonVolume returns the summed volume of every carton.
func (in Instance) TotalCartonVolume() float64 {
	var total float64
	for _, c := range in.Cartons {
		total += c.Volume()
	}
	return total
}

// TotalCartonWeight returns the summed weight of every carton.
func (in Instance) TotalCartonWeight() float64 {
	var total float64
	for _, c := range in.Cartons {
		total += c.Weight
	}
	return total
}

// Project ties everything together for save/load.
type Project struct {
	Name     string        `json:"name" yaml:"name"`
	Instance Instance      `json:"instance" yaml:"instance"`
	Settings SolveSettings `json:"settings" yaml:"settings"`
	Plan     *LoadPlan     `json:"plan,omitempty" yaml:"plan,omitempty"`
}

func NewProject() Project {
	return Project{
		Name: "Untitled",
		Instance: Instance{
			Cartons:    []Carton{},
			Containers: []Container{},
			Route:      RouteBinding{StopCartons: map[int][]int{}},
		},
		Settings: DefaultSettings(),
	}
}
