package engine

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/piwi3910/LoadPlanner/internal/mip"
	"github.com/piwi3910/LoadPlanner/internal/model"
)

// Relation indexes the six pairwise separation indicators of a carton pair
// (i, k), i < k.
type Relation int

const (
	RelLeft   Relation = iota // i entirely before k along X
	RelRight                  // k entirely before i along X
	RelBehind                 // i entirely before k along Y
	RelFront                  // k entirely before i along Y
	RelBelow                  // i entirely under k along Z
	RelAbove                  // k entirely under i along Z
)

var relationNames = [6]string{"left", "right", "behind", "front", "below", "above"}

func (r Relation) String() string { return relationNames[r] }

// Axis returns the axis the relation separates along.
func (r Relation) Axis() model.Axis { return model.Axis(r / 2) }

// CartonVars are the decision variables and derived expressions of one carton.
type CartonVars struct {
	Pos    [3]mip.Var         // x, y, z of the front-lower-left corner
	Extent [3]*mip.LinearExpr // size along X, Y, Z under the chosen orientation
	Orient []mip.Var          // orientation selectors (6 one-hot or 4 legacy bits)
	Assign []mip.Var          // s_ij, one per container
}

// PairVars are the separation indicators of a carton pair.
type PairVars struct {
	I, K int
	Rel  [6]mip.Var
}

// VarMap records which model variables represent which quantities, so the
// solution can be read back into a load plan.
type VarMap struct {
	Encoding model.Encoding
	BigM     float64
	Cartons  []CartonVars
	Used     []mip.Var // n_j, one per container
	Pairs    []PairVars
}

// Builder turns an instance into a mip.Model.
type Builder struct {
	settings model.SolveSettings
	logger   *slog.Logger
}

// NewBuilder creates a Builder. A nil logger means slog.Default().
func NewBuilder(settings model.SolveSettings, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{settings: settings, logger: logger}
}

// Build validates the instance and generates the complete model: orientation
// encoding, non-overlap, assignment and capacity, stacking and objective.
func (b *Builder) Build(in model.Instance) (*mip.Model, *VarMap, error) {
	if err := Validate(in); err != nil {
		return nil, nil, err
	}

	enc := b.settings.Encoding
	if enc == "" {
		enc = model.EncodingOneHot
	}
	if enc != model.EncodingOneHot && enc != model.EncodingFourBit {
		return nil, nil, fmt.Errorf("unknown orientation encoding %q", enc)
	}

	m := mip.NewModel("load")
	vm := &VarMap{
		Encoding: enc,
		BigM:     BigM(in, b.settings.BigM),
	}

	declarePositions(m, vm, in)
	addNonOverlap(m, vm, in)
	addAssignment(m, vm, in, b.settings.LinkUsage)
	addStacking(m, vm, in)
	setObjective(m, vm, in, b.settings.DropVolumeOffset)

	b.logger.Debug("engine: model built",
		"cartons", len(in.Cartons), "containers", len(in.Containers),
		"vars", m.NumVars(), "rows", m.NumConstraints(),
		"encoding", string(enc), "big_m", vm.BigM)
	return m, vm, nil
}

// BigM returns the big-M constant used by every disjunctive row. It is the
// sum of all container dimensions, raised when needed to the largest
// container dimension plus the largest carton dimension, which bounds any
// position-plus-extent difference the rows can see. A positive override
// replaces the derived value.
func BigM(in model.Instance, override float64) float64 {
	if override > 0 {
		return override
	}
	var sum, maxContainer, maxCarton float64
	for _, c := range in.Containers {
		sum += c.Length + c.Width + c.Height
		maxContainer = math.Max(maxContainer, c.MaxDim())
	}
	for _, c := range in.Cartons {
		maxCarton = math.Max(maxCarton, c.MaxDim())
	}
	return math.Max(sum, maxContainer+maxCarton)
}

// declarePositions creates the position, orientation and assignment
// variables of every carton and the usage variable of every container.
func declarePositions(m *mip.Model, vm *VarMap, in model.Instance) {
	var bound [3]float64
	for _, c := range in.Containers {
		for _, a := range model.Axes {
			bound[a] = math.Max(bound[a], c.Dim(a))
		}
	}
	integral := integralInstance(in)

	vm.Cartons = make([]CartonVars, len(in.Cartons))
	for i, c := range in.Cartons {
		cv := &vm.Cartons[i]
		for _, a := range model.Axes {
			cv.Pos[a] = m.NewVar(fmt.Sprintf("%s_%d", lowerAxis(a), i), 0, bound[a], integral)
		}
		cv.Orient, cv.Extent = encodeOrientation(m, vm.Encoding, i, c)
		cv.Assign = make([]mip.Var, len(in.Containers))
		for j := range in.Containers {
			cv.Assign[j] = m.NewBinary(fmt.Sprintf("s_%d_%d", i, j))
		}
	}

	vm.Used = make([]mip.Var, len(in.Containers))
	for j := range in.Containers {
		vm.Used[j] = m.NewBinary(fmt.Sprintf("n_%d", j))
	}
}

// integralInstance reports whether every dimension is a whole number, in
// which case positions can be integer variables without losing packings.
func integralInstance(in model.Instance) bool {
	for _, c := range in.Cartons {
		for _, d := range c.Dims() {
			if d != math.Trunc(d) {
				return false
			}
		}
	}
	for _, c := range in.Containers {
		for _, d := range c.Dims() {
			if d != math.Trunc(d) {
				return false
			}
		}
	}
	return true
}

func lowerAxis(a model.Axis) string {
	return [3]string{"x", "y", "z"}[a]
}
