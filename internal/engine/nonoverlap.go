package engine

import (
	"fmt"

	"github.com/piwi3910/LoadPlanner/internal/mip"
	"github.com/piwi3910/LoadPlanner/internal/model"
)

// addNonOverlap generates, for every pair i < k, the six big-M separation
// rows
//
//	pos_i(a) + ext_i(a) <= pos_k(a) + (1 - rel) * M   (i before k on a)
//	pos_k(a) + ext_k(a) <= pos_i(a) + (1 - rel) * M   (k before i on a)
//
// and, per container j, the activation row
//
//	sum(rel_ik) >= s_ij + s_kj - 1
//
// which forces one separation to hold when both cartons share j.
func addNonOverlap(m *mip.Model, vm *VarMap, in model.Instance) {
	M := vm.BigM
	for i := 0; i < len(in.Cartons); i++ {
		for k := i + 1; k < len(in.Cartons); k++ {
			pv := PairVars{I: i, K: k}
			for r := RelLeft; r <= RelAbove; r++ {
				pv.Rel[r] = m.NewBinary(fmt.Sprintf("%s_%d_%d", r, i, k))
			}

			ci, ck := vm.Cartons[i], vm.Cartons[k]
			for r := RelLeft; r <= RelAbove; r++ {
				a := r.Axis()
				first, second := ci, ck
				if r%2 == 1 {
					first, second = ck, ci
				}
				lhs := mip.NewLinearExpr().Add(first.Pos[a]).AddExpr(first.Extent[a], 1)
				rhs := mip.NewLinearExpr().Add(second.Pos[a]).AddConstant(M).AddTerm(pv.Rel[r], -M)
				m.AddLessOrEqual(fmt.Sprintf("sep[%d,%d].%s", i, k, r), lhs, rhs)
			}

			separated := mip.NewLinearExpr()
			for _, v := range pv.Rel {
				separated.Add(v)
			}
			for j := range in.Containers {
				both := mip.NewLinearExpr().Add(ci.Assign[j]).Add(ck.Assign[j]).AddConstant(-1)
				m.AddGreaterOrEqual(fmt.Sprintf("disjoint[%d,%d,%d]", i, k, j), separated, both)
			}
			vm.Pairs = append(vm.Pairs, pv)
		}
	}
}
