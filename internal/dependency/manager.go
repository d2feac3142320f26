// Package dependency hosts the four cooperating hazard analyzers (spec
// §4.2–§4.6) and the manager that fuses their verdicts (§4.7). Each
// analyzer is a plain function over a *model.Loop rather than a class in
// a hierarchy — spec §9's "no inheritance tree is needed" design note —
// and the manager composes them explicitly instead of through a shared
// interface, since their signatures don't actually agree (scalar and
// array only have a hazard bit; pointer and call-effect have a
// three-valued verdict too).
package dependency

import (
	"fmt"

	"openmploop/internal/model"
)

// Manager runs the dependency analysis pipeline over a loop.
type Manager struct {
	pointerThresholds PointerThresholds
}

func NewManager() *Manager {
	return &Manager{pointerThresholds: DefaultPointerThresholds()}
}

// NewManagerWithThresholds builds a Manager whose pointer analyzer uses
// configuration-supplied thresholds instead of the built-in defaults.
func NewManagerWithThresholds(t PointerThresholds) *Manager {
	return &Manager{pointerThresholds: t}
}

// Analyze implements spec §4.7. loops is the full per-function loop list,
// used only to read the already-finalized Children of this loop — the
// analysis driver guarantees children are analyzed before their parent,
// so those reads are safe.
func (m *Manager) Analyze(loop *model.Loop, loops []*model.Loop) {
	scalarHazard, scalarWarnings := m.runScalar(loop)
	arrayHazard, arrayWarnings := m.runArray(loop)
	crossHazard, crossWarnings := m.runCrossIteration(loop)
	pointerRisk, pointerHazard, pointerWarnings := m.runPointer(loop)
	callSafety, callHazard, callWarnings := m.runCallSafety(loop)

	loop.Warnings = append(loop.Warnings, scalarWarnings...)
	loop.Warnings = append(loop.Warnings, arrayWarnings...)
	loop.Warnings = append(loop.Warnings, crossWarnings...)
	loop.Warnings = append(loop.Warnings, pointerWarnings...)
	loop.Warnings = append(loop.Warnings, callWarnings...)
	_ = pointerRisk
	_ = callSafety

	loop.CallUnsafe = callHazard
	loop.TransitiveCallUnsafe = callHazard
	for _, childIdx := range loop.Children {
		if loops[childIdx].TransitiveCallUnsafe {
			loop.TransitiveCallUnsafe = true
		}
	}
	if loop.TransitiveCallUnsafe && !callHazard {
		loop.Warnings = append(loop.Warnings, "inherits unsafe call from a nested loop")
	}

	hazard := scalarHazard || arrayHazard || crossHazard || pointerHazard || callHazard || loop.TransitiveCallUnsafe
	if hazard {
		loop.Verdict = model.NotParallelizable
	} else {
		loop.Verdict = model.Parallelizable
	}
	loop.Finalized = true
}

// runScalar, runArray, runCrossIteration, runPointer, runCallSafety each
// wrap their analyzer in a recover() so an unchecked fault inside one
// doesn't abort the whole function's analysis (spec §4.7 and §7:
// "analyzer exception ... caught at the dependency-manager boundary; the
// loop is marked unsafe with a warning"). Soundness over precision: a
// recovered panic always reports a hazard.

func (m *Manager) runScalar(loop *model.Loop) (hazard bool, warnings []string) {
	defer func() {
		if r := recover(); r != nil {
			hazard = true
			warnings = append(warnings, fmt.Sprintf("scalar analyzer failed: %v", r))
		}
	}()
	return AnalyzeScalar(loop)
}

func (m *Manager) runArray(loop *model.Loop) (hazard bool, warnings []string) {
	defer func() {
		if r := recover(); r != nil {
			hazard = true
			warnings = append(warnings, fmt.Sprintf("array analyzer failed: %v", r))
		}
	}()
	return AnalyzeArray(loop)
}

func (m *Manager) runCrossIteration(loop *model.Loop) (hazard bool, warnings []string) {
	defer func() {
		if r := recover(); r != nil {
			hazard = true
			warnings = append(warnings, fmt.Sprintf("cross-iteration analyzer failed: %v", r))
		}
	}()
	return AnalyzeCrossIteration(loop)
}

func (m *Manager) runPointer(loop *model.Loop) (risk PointerRisk, hazard bool, warnings []string) {
	defer func() {
		if r := recover(); r != nil {
			risk = PointerUnsafe
			hazard = true
			warnings = append(warnings, fmt.Sprintf("pointer analyzer failed: %v", r))
		}
	}()
	return AnalyzePointerWithThresholds(loop, m.pointerThresholds)
}

func (m *Manager) runCallSafety(loop *model.Loop) (safety CallSafety, hazard bool, warnings []string) {
	defer func() {
		if r := recover(); r != nil {
			safety = CallUnsafe
			hazard = true
			warnings = append(warnings, fmt.Sprintf("call-effect analyzer failed: %v", r))
		}
	}()
	return AnalyzeCallSafety(loop)
}
