package dependency

import (
	"fmt"

	"openmploop/internal/model"
)

// IterationConflictKind is spec §9's sum-type verdict for the
// cross-iteration analyzer.
type IterationConflictKind int

const (
	NoConflict IterationConflictKind = iota
	WAW
	RAW
	WAR
	Stride
)

func (k IterationConflictKind) String() string {
	switch k {
	case NoConflict:
		return "no-conflict"
	case WAW:
		return "write-after-write"
	case RAW:
		return "read-after-write"
	case WAR:
		return "write-after-read"
	case Stride:
		return "stride"
	default:
		return "unknown"
	}
}

// AnalyzeCrossIteration implements spec §4.4: for each array with at
// least two accesses, every pair with at least one write is classified by
// how its ν+k offsets relate across iterations.
func AnalyzeCrossIteration(loop *model.Loop) (hazard bool, warnings []string) {
	inductionVar := loop.Bounds.InductionVar
	groups := groupByArrayName(loop)
	for _, name := range sortedGroupNames(groups) {
		accesses := groups[name]
		if len(accesses) < 2 {
			continue
		}
		for i := 0; i < len(accesses); i++ {
			for j := i + 1; j < len(accesses); j++ {
				a, b := accesses[i], accesses[j]
				if !a.IsWrite && !b.IsWrite {
					continue
				}
				kind := classifyIterationPair(a, b, inductionVar)
				if kind != NoConflict {
					hazard = true
					warnings = append(warnings, fmt.Sprintf(
						"array '%s' cross-iteration conflict detected (%s)", name, kind))
				}
			}
		}
	}
	return hazard, warnings
}

func classifyIterationPair(a, b model.ArrayAccess, inductionVar string) IterationConflictKind {
	if inductionVar == "" {
		return Stride
	}
	offA, okA := tryOffset(a.Subscript, inductionVar)
	offB, okB := tryOffset(b.Subscript, inductionVar)
	if !okA || !okB {
		return Stride
	}
	const stride = 1
	switch {
	case offA == offB:
		switch {
		case a.IsWrite && b.IsWrite:
			return WAW
		case a.IsWrite && !b.IsWrite:
			if posLess(a.Pos, b.Pos) {
				return RAW
			}
			return WAR
		case !a.IsWrite && b.IsWrite:
			if posLess(b.Pos, a.Pos) {
				return RAW
			}
			return WAR
		default:
			return NoConflict
		}
	case abs(offA-offB) == stride:
		return WAR
	default:
		return NoConflict
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
