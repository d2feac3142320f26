package dependency

import "openmploop/internal/model"

// PointerRisk is spec §9's sum-type verdict for the pointer analyzer.
type PointerRisk int

const (
	PointerSafe PointerRisk = iota
	PotentialAlias
	PointerUnsafe
)

func (r PointerRisk) String() string {
	switch r {
	case PointerSafe:
		return "safe"
	case PotentialAlias:
		return "potential-alias"
	default:
		return "unsafe"
	}
}

// Default thresholds from spec §4.5. Open Question 3 flags these as
// unprincipled and a candidate for config override or a real alias
// analysis; PointerThresholds is that override, read from the
// analysis.pointer section of the configuration file, defaulting to
// these exact values when unset.
const (
	DefaultPointerArithmeticThreshold  = 2
	DefaultPointerDereferenceThreshold = 3
)

type PointerThresholds struct {
	Arithmetic  int
	Dereference int
}

func DefaultPointerThresholds() PointerThresholds {
	return PointerThresholds{Arithmetic: DefaultPointerArithmeticThreshold, Dereference: DefaultPointerDereferenceThreshold}
}

// AnalyzePointer implements spec §4.5's verdict rule using the built-in
// default thresholds.
func AnalyzePointer(loop *model.Loop) (risk PointerRisk, hazard bool, warnings []string) {
	return AnalyzePointerWithThresholds(loop, DefaultPointerThresholds())
}

// AnalyzePointerWithThresholds implements spec §4.5's verdict rule with
// configuration-supplied thresholds.
func AnalyzePointerWithThresholds(loop *model.Loop, t PointerThresholds) (risk PointerRisk, hazard bool, warnings []string) {
	var arithCount, derefCount int
	for _, op := range loop.PointerOps {
		if op.Arithmetic {
			arithCount++
		}
		if op.Dereference {
			derefCount++
		}
	}

	switch {
	case arithCount > t.Arithmetic || derefCount > t.Dereference:
		risk = PointerUnsafe
		warnings = append(warnings, "complex pointer operations detected")
	case derefCount > 0:
		risk = PotentialAlias
		warnings = append(warnings, "potential pointer aliasing detected")
	default:
		risk = PointerSafe
	}

	return risk, risk != PointerSafe, warnings
}
