// Package driver is the Analysis Driver of spec §4.11: per function,
// walk with the Loop Visitor, then finalize every loop (dependency
// manager, pragma generator, confidence scorer, insertion planner) in
// post-order so a parent can read its already-finalized children.
package driver

import (
	"openmploop/internal/cast"
	"openmploop/internal/config"
	"openmploop/internal/dependency"
	"openmploop/internal/model"
	"openmploop/internal/pragma"
	"openmploop/internal/visitor"
)

// LoopResult is one finalized loop's outcome, suitable for both the
// console/JSON report and the external annotator (spec §6 "Produced for
// the annotator").
type LoopResult struct {
	Loop       *model.Loop
	Directive  *pragma.Directive  // nil if not parallelizable or no directive applies
	Confidence *pragma.Confidence // nil iff Directive is nil
	Insertion  *pragma.Insertion  // nil iff Directive is nil
}

// FunctionResult bundles one function's finalized loops.
type FunctionResult struct {
	FuncName string
	Loops    []LoopResult
}

// Driver owns the dependency manager shared across every function in a
// translation unit, plus the configuration-derived knobs (pointer
// thresholds, call-effect overrides, confidence weights and level
// thresholds) threaded into each stage of the pipeline.
type Driver struct {
	manager  *dependency.Manager
	classify func(string) (bool, bool, bool)
	weights  pragma.SubScores
	levels   pragma.LevelThresholds
}

func New() *Driver {
	return NewWithConfig(config.DefaultConfig())
}

// NewWithConfig builds a Driver whose pointer-risk thresholds, call-effect
// classification, and confidence scoring all honor cfg instead of the
// built-in defaults.
func NewWithConfig(cfg *config.Config) *Driver {
	thresholds := dependency.PointerThresholds{
		Arithmetic:  cfg.Analysis.Pointer.ArithmeticThreshold,
		Dereference: cfg.Analysis.Pointer.DereferenceThreshold,
	}
	classifier := model.NewClassifier(cfg.Rules.CallSafety.ExtraSafeFunctions, cfg.Rules.CallSafety.ExtraUnsafeFunctions)
	w := cfg.Analysis.ConfidenceWeights
	ct := cfg.Analysis.ConfidenceThresholds
	return &Driver{
		manager:  dependency.NewManagerWithThresholds(thresholds),
		classify: classifier.Classify,
		weights: pragma.SubScores{
			LoopCharacteristics: w.LoopCharacteristics,
			DirectiveType:       w.DirectiveType,
			Complexity:          w.Complexity,
			DataAccess:          w.DataAccess,
			Dependency:          w.Dependency,
		},
		levels: pragma.LevelThresholds{VeryHigh: ct.VeryHigh, High: ct.High, Medium: ct.Medium, Low: ct.Low},
	}
}

// AnalyzeFile runs every function in file through the pipeline.
func (d *Driver) AnalyzeFile(file *cast.File) []FunctionResult {
	results := make([]FunctionResult, 0, len(file.Funcs))
	for _, fn := range file.Funcs {
		results = append(results, d.AnalyzeFunction(fn))
	}
	return results
}

// AnalyzeFunction implements spec §4.11 for one function: traverse with
// the Loop Visitor, then finalize loops back-to-front. A child loop is
// always appended to the loop slice after the parent that contains it
// (the visitor pushes the parent before it can ever discover the child),
// so iterating from the last index to the first visits every loop before
// whichever loop (if any) encloses it — exactly the post-order §4.11
// asks for, without needing a separate tree walk.
func (d *Driver) AnalyzeFunction(fn *cast.FuncDecl) FunctionResult {
	loops := visitor.NewWithClassifier(d.classify).Run(fn)

	for i := len(loops) - 1; i >= 0; i-- {
		d.manager.Analyze(loops[i], loops)
	}

	out := make([]LoopResult, len(loops))
	for i, loop := range loops {
		out[i] = LoopResult{Loop: loop}
		directive := pragma.Generate(loop)
		if directive == nil {
			continue
		}
		out[i].Directive = directive
		out[i].Confidence = pragma.ScoreWithConfig(loop, directive, d.weights, d.levels)
		out[i].Insertion = pragma.Plan(loop.StartPos)
	}
	return FunctionResult{FuncName: fn.Name, Loops: out}
}
