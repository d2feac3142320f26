package dependency

import (
	"testing"

	"openmploop/internal/model"
)

func TestAnalyzeArray(t *testing.T) {
	tests := []struct {
		name       string
		inductionV string
		accesses   []model.ArrayAccess
		wantHazard bool
	}{
		{
			name:       "disjoint arrays, same-index writes, no conflict",
			inductionV: "i",
			accesses: []model.ArrayAccess{
				{Name: "A", Subscript: offsetExpr("i", 0), IsWrite: false},
				{Name: "B", Subscript: offsetExpr("i", 0), IsWrite: false},
				{Name: "C", Subscript: offsetExpr("i", 0), IsWrite: true},
			},
			wantHazard: false,
		},
		{
			name:       "same array, same index, one write: same-index hazard",
			inductionV: "i",
			accesses: []model.ArrayAccess{
				{Name: "A", Subscript: offsetExpr("i", 0), IsWrite: true},
				{Name: "A", Subscript: offsetExpr("i", 0), IsWrite: false},
			},
			wantHazard: true,
		},
		{
			name:       "same array, constant offset, one write: constant-offset hazard",
			inductionV: "i",
			accesses: []model.ArrayAccess{
				{Name: "A", Subscript: offsetExpr("i", -1), IsWrite: false},
				{Name: "A", Subscript: offsetExpr("i", 0), IsWrite: true},
			},
			wantHazard: true,
		},
		{
			name:       "same array, read-only pair: no hazard regardless of index shape",
			inductionV: "i",
			accesses: []model.ArrayAccess{
				{Name: "A", Subscript: offsetExpr("i", 0), IsWrite: false},
				{Name: "A", Subscript: offsetExpr("i", 1), IsWrite: false},
			},
			wantHazard: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loop := model.NewLoop(0, -1, model.Counted, zeroPos(), 0)
			loop.Bounds.InductionVar = tt.inductionV
			loop.ArrayAccesses = tt.accesses
			hazard, _ := AnalyzeArray(loop)
			if hazard != tt.wantHazard {
				t.Errorf("hazard = %v, want %v", hazard, tt.wantHazard)
			}
		})
	}
}

func TestClassifyArrayPairUnknownWithoutInductionVar(t *testing.T) {
	a := model.ArrayAccess{Name: "A", Subscript: ident("k"), IsWrite: true}
	b := model.ArrayAccess{Name: "A", Subscript: ident("k"), IsWrite: false}
	if got := classifyArrayPair(a, b, ""); got != UnknownDependency {
		t.Errorf("classifyArrayPair with no induction var = %v, want UnknownDependency", got)
	}
}
