package engine

import (
	"fmt"

	"github.com/piwi3910/LoadPlanner/internal/mip"
	"github.com/piwi3910/LoadPlanner/internal/model"
)

// FourBit holds the legacy selector bits of one carton: whether the length
// lies on X (LX) or Z (LZ), whether the width lies on Y (WY) and whether the
// height lies on Z (HZ).
type FourBit struct {
	LX, LZ, WY, HZ int
}

// fourBitTable lists the only six selector settings that survive the repair
// rows, each with the orientation it produces.
var fourBitTable = [6]struct {
	bits FourBit
	o    model.Orientation
}{
	{FourBit{1, 0, 1, 1}, model.OrientLWH},
	{FourBit{1, 0, 0, 0}, model.OrientLHW},
	{FourBit{0, 0, 0, 1}, model.OrientWLH},
	{FourBit{0, 1, 0, 0}, model.OrientWHL},
	{FourBit{0, 0, 0, 0}, model.OrientHLW},
	{FourBit{0, 1, 1, 0}, model.OrientHWL},
}

// FourBitExtents evaluates the four-bit extent algebra for dimensions
// (p, q, r). Only six of the sixteen settings yield a permutation of the
// dimensions; the rest give degenerate or negative extents.
func FourBitExtents(b FourBit, p, q, r float64) (x, y, z float64) {
	lx, lz, wy, hz := float64(b.LX), float64(b.LZ), float64(b.WY), float64(b.HZ)
	x = p*lx + q*(lz-wy+hz) + r*(1-lx-lz+wy-hz)
	y = p*(1-lx-lz) + q*wy + r*(lx+lz-wy)
	z = p*lz + q*(1-lz-hz) + r*hz
	return x, y, z
}

// FourBitAdmissible reports whether b satisfies the repair rows added with
// the four-bit encoding.
func FourBitAdmissible(b FourBit) bool {
	return b.LX+b.LZ <= 1 &&
		b.WY <= b.LX+b.LZ &&
		b.HZ <= 1-b.LZ &&
		b.WY-b.HZ <= 1-b.LX &&
		b.HZ-b.WY <= 1-b.LX
}

// DecodeFourBit returns the orientation selected by an admissible setting.
func DecodeFourBit(b FourBit) (model.Orientation, error) {
	for _, e := range fourBitTable {
		if e.bits == b {
			return e.o, nil
		}
	}
	return model.OrientLWH, fmt.Errorf("four-bit setting %+v is not an orientation", b)
}

// EncodeFourBit returns the selector bits for orientation o.
func EncodeFourBit(o model.Orientation) FourBit {
	for _, e := range fourBitTable {
		if e.o == o {
			return e.bits
		}
	}
	return fourBitTable[0].bits
}

// encodeOrientation declares the orientation selectors of carton i and
// returns them together with the X, Y and Z extent expressions.
func encodeOrientation(m *mip.Model, enc model.Encoding, i int, c model.Carton) ([]mip.Var, [3]*mip.LinearExpr) {
	if enc == model.EncodingFourBit {
		return encodeFourBit(m, i, c)
	}
	return encodeOneHot(m, i, c)
}

// encodeOneHot uses one binary per orientation with exactly one set, so the
// extents are always a permutation of the carton dimensions.
func encodeOneHot(m *mip.Model, i int, c model.Carton) ([]mip.Var, [3]*mip.LinearExpr) {
	dims := c.Dims()
	sel := make([]mip.Var, len(model.Orientations))
	pick := mip.NewLinearExpr()
	ext := [3]*mip.LinearExpr{mip.NewLinearExpr(), mip.NewLinearExpr(), mip.NewLinearExpr()}
	for k, o := range model.Orientations {
		sel[k] = m.NewBinary(fmt.Sprintf("o_%d_%s", i, o))
		pick.Add(sel[k])
		for _, a := range model.Axes {
			ext[a].AddTerm(sel[k], dims[o.DimOn(a)])
		}
	}
	m.AddEquality(fmt.Sprintf("orient[%d]", i), pick, mip.Constant(1))
	return sel, ext
}

// encodeFourBit declares l_x, l_z, w_y, h_z and the repair rows that cut
// the ten settings whose extents are not a permutation.
func encodeFourBit(m *mip.Model, i int, c model.Carton) ([]mip.Var, [3]*mip.LinearExpr) {
	p, q, r := c.Length, c.Width, c.Height
	lx := m.NewBinary(fmt.Sprintf("l_x_%d", i))
	lz := m.NewBinary(fmt.Sprintf("l_z_%d", i))
	wy := m.NewBinary(fmt.Sprintf("w_y_%d", i))
	hz := m.NewBinary(fmt.Sprintf("h_z_%d", i))

	// extentX = p*lx + q*(lz - wy + hz) + r*(1 - lx - lz + wy - hz)
	ex := mip.NewLinearExpr().
		AddTerm(lx, p-r).
		AddTerm(lz, q-r).
		AddTerm(wy, r-q).
		AddTerm(hz, q-r).
		AddConstant(r)
	// extentY = p*(1 - lx - lz) + q*wy + r*(lx + lz - wy)
	ey := mip.NewLinearExpr().
		AddTerm(lx, r-p).
		AddTerm(lz, r-p).
		AddTerm(wy, q-r).
		AddConstant(p)
	// extentZ = p*lz + q*(1 - lz - hz) + r*hz
	ez := mip.NewLinearExpr().
		AddTerm(lz, p-q).
		AddTerm(hz, r-q).
		AddConstant(q)

	one := mip.Constant(1)
	m.AddLessOrEqual(fmt.Sprintf("fourbit[%d].axis", i), mip.NewLinearExpr().Add(lx).Add(lz), one)
	m.AddLessOrEqual(fmt.Sprintf("fourbit[%d].width", i), mip.NewLinearExpr().Add(wy), mip.NewLinearExpr().Add(lx).Add(lz))
	m.AddLessOrEqual(fmt.Sprintf("fourbit[%d].top", i), mip.NewLinearExpr().Add(hz), mip.Constant(1).AddTerm(lz, -1))
	m.AddLessOrEqual(fmt.Sprintf("fourbit[%d].pairA", i), mip.NewLinearExpr().Add(wy).AddTerm(hz, -1), mip.Constant(1).AddTerm(lx, -1))
	m.AddLessOrEqual(fmt.Sprintf("fourbit[%d].pairB", i), mip.NewLinearExpr().Add(hz).AddTerm(wy, -1), mip.Constant(1).AddTerm(lx, -1))

	return []mip.Var{lx, lz, wy, hz}, [3]*mip.LinearExpr{ex, ey, ez}
}

// decodeOrientation reads the solved orientation of a carton.
func decodeOrientation(enc model.Encoding, sel []mip.Var, sol mip.Solution) (model.Orientation, error) {
	if enc == model.EncodingFourBit {
		b := FourBit{
			LX: bit(sol.Value(sel[0])),
			LZ: bit(sol.Value(sel[1])),
			WY: bit(sol.Value(sel[2])),
			HZ: bit(sol.Value(sel[3])),
		}
		return DecodeFourBit(b)
	}
	for k, v := range sel {
		if bit(sol.Value(v)) == 1 {
			return model.Orientations[k], nil
		}
	}
	return model.OrientLWH, fmt.Errorf("no orientation selected")
}

func bit(v float64) int {
	if v > 0.5 {
		return 1
	}
	return 0
}
