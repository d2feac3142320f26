package dependency

import (
	"testing"

	"openmploop/internal/model"
)

// TestDependencySweepNeverClearsDifferingNonzeroOffsetHazards sweeps loop
// depth, a pair of ν+k offsets, and read/write combinations through the
// full manager pipeline (array analyzer plus cross-iteration analyzer
// together) and checks that any write-write or read-write pair at
// differing offsets is always flagged non-parallelizable, never cleared.
// The array analyzer alone already classifies any ν+k pair with
// unequal k as ConstantOffset (spec §4.3: only exactly-ν on both sides is
// SameIndex), so this holds regardless of whether the offsets happen to
// be a stride apart.
func TestDependencySweepNeverClearsDifferingNonzeroOffsetHazards(t *testing.T) {
	writeKinds := []bool{false, true} // IsWrite for access A, access B
	mgr := NewManager()

	for depth := 0; depth <= 3; depth++ {
		for offA := -2; offA <= 2; offA++ {
			for offB := -2; offB <= 2; offB++ {
				if offA == offB {
					continue
				}
				for _, aWrite := range writeKinds {
					for _, bWrite := range writeKinds {
						if !aWrite && !bWrite {
							continue // read/read pairs carry no hazard by construction
						}

						loop := model.NewLoop(0, -1, model.Counted, zeroPos(), depth)
						loop.Bounds.InductionVar = "i"
						loop.ArrayAccesses = []model.ArrayAccess{
							{Name: "A", Subscript: offsetExpr("i", offA), Pos: posAt(1), IsWrite: aWrite},
							{Name: "A", Subscript: offsetExpr("i", offB), Pos: posAt(2), IsWrite: bWrite},
						}

						mgr.Analyze(loop, []*model.Loop{loop})
						if loop.Verdict != model.NotParallelizable {
							t.Fatalf("depth=%d offA=%d offB=%d aWrite=%v bWrite=%v: verdict = %v, want NotParallelizable for a differing-offset write pair",
								depth, offA, offB, aWrite, bWrite, loop.Verdict)
						}
					}
				}
			}
		}
	}
}

// TestCrossIterationSweepSameOffsetReadReadIsSafe is the complementary
// sanity check: two reads at the same offset never conflict, regardless
// of nesting depth.
func TestCrossIterationSweepSameOffsetReadReadIsSafe(t *testing.T) {
	for depth := 0; depth <= 3; depth++ {
		for off := -2; off <= 2; off++ {
			loop := model.NewLoop(0, -1, model.Counted, zeroPos(), depth)
			loop.Bounds.InductionVar = "i"
			loop.ArrayAccesses = []model.ArrayAccess{
				{Name: "A", Subscript: offsetExpr("i", off), Pos: posAt(1), IsWrite: false},
				{Name: "A", Subscript: offsetExpr("i", off), Pos: posAt(2), IsWrite: false},
			}
			hazard, _ := AnalyzeCrossIteration(loop)
			if hazard {
				t.Errorf("depth=%d off=%d: two reads at the same offset must not be flagged as a hazard", depth, off)
			}
		}
	}
}
