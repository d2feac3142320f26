package pragma

import "openmploop/internal/model"

// SubScores are the five weighted components of spec §4.9's confidence
// formula, field names matching the original scorer's breakdown.
type SubScores struct {
	LoopCharacteristics float64
	DirectiveType       float64
	Complexity          float64
	DataAccess          float64
	Dependency          float64
}

// Confidence is the scorer's output for one emitted directive.
type Confidence struct {
	Score     float64
	Level     string
	SubScores SubScores
	Positive  []string
	Negative  []string
}

var defaultWeights = SubScores{
	LoopCharacteristics: 0.25,
	DirectiveType:       0.15,
	Complexity:          0.20,
	DataAccess:          0.20,
	Dependency:          0.20,
}

// LevelThresholds are the score buckets of spec §4.9, overridable via the
// analysis.confidence_thresholds section of the configuration file.
type LevelThresholds struct {
	VeryHigh, High, Medium, Low float64
}

func DefaultLevelThresholds() LevelThresholds {
	return LevelThresholds{VeryHigh: 0.81, High: 0.61, Medium: 0.41, Low: 0.21}
}

// Score implements spec §4.9 with the built-in default weights and level
// thresholds.
func Score(loop *model.Loop, directive *Directive) *Confidence {
	return ScoreWithConfig(loop, directive, defaultWeights, DefaultLevelThresholds())
}

// ScoreWithConfig implements spec §4.9 with configuration-supplied
// sub-score weights and level-bucket thresholds.
func ScoreWithConfig(loop *model.Loop, directive *Directive, weights SubScores, levels LevelThresholds) *Confidence {
	c := &Confidence{}

	c.SubScores.LoopCharacteristics, c.Positive, c.Negative = scoreLoopCharacteristics(loop, c.Positive, c.Negative)
	c.SubScores.DirectiveType = scoreDirectiveType(directive)
	var comp float64
	comp, c.Negative = scoreComplexity(loop, c.Negative)
	c.SubScores.Complexity = comp
	var data float64
	data, c.Positive = scoreDataAccess(loop, c.Positive)
	c.SubScores.DataAccess = data
	c.SubScores.Dependency = scoreDependency(loop)

	c.Score = clamp01(
		weights.LoopCharacteristics*c.SubScores.LoopCharacteristics +
			weights.DirectiveType*c.SubScores.DirectiveType +
			weights.Complexity*c.SubScores.Complexity +
			weights.DataAccess*c.SubScores.DataAccess +
			weights.Dependency*c.SubScores.Dependency,
	)
	c.Level = levelFor(c.Score, levels)
	return c
}

func scoreLoopCharacteristics(loop *model.Loop, positive, negative []string) (float64, []string, []string) {
	score := 0.5
	if loop.Bounds.IsSimple {
		score += 0.3
		positive = append(positive, "Simple iterator pattern detected")
	}
	if loop.IsOutermost() {
		score += 0.2
		positive = append(positive, "Outermost loop (good for parallelization)")
	} else {
		score -= 0.1 * float64(loop.Depth)
		negative = append(negative, "Nested loop (reduced parallelization benefit)")
	}
	if loop.Metrics.IsHot() {
		score += 0.1
		positive = append(positive, "High computational intensity")
	}
	return clamp01(score), positive, negative
}

func scoreDirectiveType(directive *Directive) float64 {
	if directive == nil {
		return 0
	}
	switch directive.Variant {
	case "parallel for":
		return 0.8
	case "parallel for simd":
		return 0.7
	case "simd":
		return 0.6
	default:
		return 0
	}
}

func scoreComplexity(loop *model.Loop, negative []string) (float64, []string) {
	score := 1.0
	switch calls := loop.Metrics.FunctionCalls; {
	case calls > 2:
		score -= 0.3
		negative = append(negative, "Contains function calls")
	case calls > 0:
		score -= 0.1
		negative = append(negative, "Contains function calls")
	}
	switch vars := len(loop.Variables); {
	case vars > 8:
		score -= 0.3
		negative = append(negative, "Many variables in scope")
	case vars > 5:
		score -= 0.1
		negative = append(negative, "Many variables in scope")
	}
	if loop.Metrics.ArithmeticOps > 10 {
		score -= 0.1
	}
	return clamp01(score), negative
}

func scoreDataAccess(loop *model.Loop, positive []string) (float64, []string) {
	score := 0.5
	if len(loop.ArrayAccesses) > 0 {
		score += 0.5
		positive = append(positive, "Array access patterns found")
	}
	if loop.Metrics.MemoryAccesses > 5 {
		score += 0.1
	}
	return clamp01(score), positive
}

// scoreDependency mirrors spec §4.9's "0 if any hazard is present" rule.
// In practice this is only ever invoked on a loop the dependency manager
// already marked parallelizable, so the hazard branch is a documented
// dead path rather than a live one — the scorer is never run on a loop
// that still carries an unresolved hazard.
func scoreDependency(loop *model.Loop) float64 {
	if loop.Verdict != model.Parallelizable {
		return 0
	}
	score := 0.8
	if len(loop.Variables) > 0 {
		score += 0.1
	}
	if len(loop.ArrayAccesses) > 0 {
		score += 0.1
	}
	return clamp01(score)
}

func levelFor(score float64, levels LevelThresholds) string {
	switch {
	case score >= levels.VeryHigh:
		return "Very-High"
	case score >= levels.High:
		return "High"
	case score >= levels.Medium:
		return "Medium"
	case score >= levels.Low:
		return "Low"
	default:
		return "Very-Low"
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
