package dependency

import "openmploop/internal/model"

// AnalyzeScalar implements spec §4.2: every non-induction variable that
// is both read and written inside the loop is a hazard unless it's
// loop-local, in which case it's a private candidate instead.
func AnalyzeScalar(loop *model.Loop) (hazard bool, warnings []string) {
	for _, name := range sortedVarNames(loop) {
		v := loop.Variables[name]
		if v.IsInduction() || !v.IsPotentialDependency() {
			continue
		}
		if v.Scope == model.LoopLocal {
			continue
		}
		hazard = true
		warnings = append(warnings, "scalar variable '"+name+"' has read-after-write dependency")
	}
	return hazard, warnings
}

func sortedVarNames(loop *model.Loop) []string {
	names := make([]string, 0, len(loop.Variables))
	for name := range loop.Variables {
		names = append(names, name)
	}
	// declaration order would need the AST; name order is deterministic
	// enough for warning text, which isn't order-sensitive for tests.
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j-1] > names[j]; j-- {
			names[j-1], names[j] = names[j], names[j-1]
		}
	}
	return names
}
