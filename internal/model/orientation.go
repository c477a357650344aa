package model

import "fmt"

// Orientation is one of the six axis-aligned rotations of a carton. The
// three letters name which carton dimension (Length, Width, Height) lies
// along the container X, Y and Z axes respectively.
type Orientation int

const (
	OrientLWH Orientation = iota // L on X, W on Y, H on Z (as declared)
	OrientLHW                    // L on X, H on Y, W on Z
	OrientWLH                    // W on X, L on Y, H on Z
	OrientWHL                    // W on X, H on Y, L on Z
	OrientHLW                    // H on X, L on Y, W on Z
	OrientHWL                    // H on X, W on Y, L on Z
)

// Orientations lists all six orientations in declaration order.
var Orientations = [6]Orientation{OrientLWH, OrientLHW, OrientWLH, OrientWHL, OrientHLW, OrientHWL}

// permutation[o][axis] is the index into (L, W, H) placed on that axis.
var permutation = [6][3]int{
	OrientLWH: {0, 1, 2},
	OrientLHW: {0, 2, 1},
	OrientWLH: {1, 0, 2},
	OrientWHL: {1, 2, 0},
	OrientHLW: {2, 0, 1},
	OrientHWL: {2, 1, 0},
}

var orientationNames = [6]string{"LWH", "LHW", "WLH", "WHL", "HLW", "HWL"}

func (o Orientation) String() string {
	if o < 0 || int(o) >= len(orientationNames) {
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
	return orientationNames[o]
}

// Valid reports whether o is one of the six orientations.
func (o Orientation) Valid() bool {
	return o >= 0 && int(o) < len(orientationNames)
}

// MarshalText implements encoding.TextMarshaler.
func (o Orientation) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("invalid orientation %d", int(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Orientation) UnmarshalText(b []byte) error {
	for i, n := range orientationNames {
		if n == string(b) {
			*o = Orientation(i)
			return nil
		}
	}
	return fmt.Errorf("unknown orientation %q", string(b))
}

// DimOn returns which declared dimension (0=L, 1=W, 2=H) lies on axis a.
func (o Orientation) DimOn(a Axis) int {
	return permutation[o][a]
}

// Extents returns the carton size along X, Y and Z for dimensions (p, q, r).
func (o Orientation) Extents(p, q, r float64) (x, y, z float64) {
	d := [3]float64{p, q, r}
	perm := permutation[o]
	return d[perm[0]], d[perm[1]], d[perm[2]]
}

// LengthAxis returns the axis the carton's declared length lies on.
func (o Orientation) LengthAxis() Axis {
	for _, a := range Axes {
		if permutation[o][a] == 0 {
			return a
		}
	}
	return AxisX
}

// OrientationFromExtents finds the orientation mapping (p, q, r) onto the
// given extents. When dimensions repeat, the first matching orientation in
// declaration order is returned.
func OrientationFromExtents(p, q, r, x, y, z float64) (Orientation, bool) {
	for _, o := range Orientations {
		ex, ey, ez := o.Extents(p, q, r)
		if ex == x && ey == y && ez == z {
			return o, true
		}
	}
	return OrientLWH, false
}
