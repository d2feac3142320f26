package dependency

import "openmploop/internal/model"

// CallSafety is spec §9's sum-type verdict for the call-effect analyzer.
type CallSafety int

const (
	CallSafe CallSafety = iota
	PotentiallySafe
	CallUnsafe
)

func (s CallSafety) String() string {
	switch s {
	case CallSafe:
		return "safe"
	case PotentiallySafe:
		return "potentially-safe"
	default:
		return "unsafe"
	}
}

// AnalyzeCallSafety implements spec §4.6: the Call events the Loop
// Visitor already classified against the allow/deny lists (model.
// ClassifyCall) are just tallied here.
func AnalyzeCallSafety(loop *model.Loop) (safety CallSafety, hazard bool, warnings []string) {
	if len(loop.Calls) == 0 {
		return CallSafe, false, nil
	}
	safety = PotentiallySafe
	for _, c := range loop.Calls {
		if c.HasSideEffects {
			safety = CallUnsafe
			warnings = append(warnings, "function call with side effects detected: "+c.Name)
		}
	}
	return safety, safety == CallUnsafe, warnings
}
