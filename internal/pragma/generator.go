// Package pragma implements the generator, scorer, and insertion planner
// of spec §4.8–§4.10: everything that happens to a loop once the
// dependency manager has already said it's parallelizable.
package pragma

import (
	"fmt"
	"strings"

	"openmploop/internal/model"
)

// Directive is one emitted pragma (spec §3 "Produced for the
// annotator").
type Directive struct {
	Variant     string // "parallel for", "parallel for simd", "simd"
	PrivateVars []string
	Text        string // e.g. "#pragma omp parallel for simd private(t)"
}

// Generate implements spec §4.8. It returns nil for a loop that isn't
// parallelizable, and for a nested loop that fails the SIMD heuristic —
// spec §4.8 says to "emit no directive for that inner loop" in that case,
// not to fall back to a plain parallel-for (that variant is reserved for
// outermost loops).
func Generate(loop *model.Loop) *Directive {
	if loop.Verdict != model.Parallelizable {
		return nil
	}

	simdOK := simdHeuristicPasses(loop)
	var variant string
	switch {
	case loop.Depth > 0:
		if !(len(loop.ArrayAccesses) > 0 && simdOK) {
			return nil
		}
		variant = "simd"
	case simdOK:
		variant = "parallel for simd"
	default:
		variant = "parallel for"
	}

	private := privateCandidates(loop)
	text := "#pragma omp " + variant
	if len(private) > 0 {
		text += fmt.Sprintf(" private(%s)", strings.Join(private, ", "))
	}
	return &Directive{Variant: variant, PrivateVars: private, Text: text}
}

// simdHeuristicPasses implements spec §4.8's SIMD heuristic: at least one
// array access, and either the loop looks arithmetic-heavy relative to
// its call count, or it's an inner loop that touches memory at all.
func simdHeuristicPasses(loop *model.Loop) bool {
	if len(loop.ArrayAccesses) == 0 {
		return false
	}
	arithmeticHeavy := float64(loop.Metrics.ArithmeticOps) > 2*float64(loop.Metrics.FunctionCalls)
	innerWithMemory := loop.Depth > 0 && loop.Metrics.MemoryAccesses > 0
	return arithmeticHeavy || innerWithMemory
}

// privateCandidates implements spec §4.8's private-clause rule: every
// non-induction, loop-local, written variable, in first-seen order.
func privateCandidates(loop *model.Loop) []string {
	var names []string
	for _, name := range loop.VarOrder {
		v := loop.Variables[name]
		if v.IsInduction() || v.Scope != model.LoopLocal || !v.HasWrites() {
			continue
		}
		names = append(names, name)
	}
	return names
}
