package dependency

import (
	"fmt"

	"openmploop/internal/model"
)

// ArrayDependencyKind is the sum-type verdict spec §9's design notes ask
// for in place of a class hierarchy.
type ArrayDependencyKind int

const (
	NoDependency ArrayDependencyKind = iota
	SameIndex
	ConstantOffset
	UnknownDependency
)

// AnalyzeArray implements spec §4.3: every unordered pair of accesses to
// the same array, where at least one is a write, is classified by how
// its two subscripts relate to the loop's induction variable.
func AnalyzeArray(loop *model.Loop) (hazard bool, warnings []string) {
	groups := groupByArrayName(loop)
	for _, name := range sortedGroupNames(groups) {
		accesses := groups[name]
		for i := 0; i < len(accesses); i++ {
			for j := i + 1; j < len(accesses); j++ {
				a, b := accesses[i], accesses[j]
				if !a.IsWrite && !b.IsWrite {
					continue
				}
				kind := classifyArrayPair(a, b, loop.Bounds.InductionVar)
				if kind != NoDependency {
					hazard = true
					warnings = append(warnings, fmt.Sprintf(
						"array '%s' access conflict detected (%s)", name, kind))
				}
			}
		}
	}
	return hazard, warnings
}

func classifyArrayPair(a, b model.ArrayAccess, inductionVar string) ArrayDependencyKind {
	if inductionVar == "" {
		return UnknownDependency
	}
	offA, okA := tryOffset(a.Subscript, inductionVar)
	offB, okB := tryOffset(b.Subscript, inductionVar)
	switch {
	case okA && okB && offA == 0 && offB == 0:
		return SameIndex
	case okA && okB:
		return ConstantOffset
	case !involvesVar(a.Subscript, inductionVar) && !involvesVar(b.Subscript, inductionVar) &&
		exprEqual(a.Subscript, b.Subscript):
		// Textually identical, constant index not involving ν. The spec
		// calls this NO_DEPENDENCY only when neither access is a write —
		// but this function is only ever called on pairs that already
		// have at least one write, so that branch never actually
		// fires here. A same-cell write is still a conflict, so this
		// falls through to UnknownDependency, conservative by design.
		return UnknownDependency
	default:
		return UnknownDependency
	}
}

func groupByArrayName(loop *model.Loop) map[string][]model.ArrayAccess {
	groups := make(map[string][]model.ArrayAccess)
	for _, acc := range loop.ArrayAccesses {
		groups[acc.Name] = append(groups[acc.Name], acc)
	}
	return groups
}

func sortedGroupNames(groups map[string][]model.ArrayAccess) []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j-1] > names[j]; j-- {
			names[j-1], names[j] = names[j], names[j-1]
		}
	}
	return names
}

func (k ArrayDependencyKind) String() string {
	switch k {
	case NoDependency:
		return "no-dependency"
	case SameIndex:
		return "same-index"
	case ConstantOffset:
		return "constant-offset"
	default:
		return "unknown"
	}
}
