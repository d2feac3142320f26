package model

// Call classification tables for the call-effect analyzer (spec §4.6) and
// for the Call event's IsBuiltin/IsMath/HasSideEffects flags (spec §3).
// The three lists are the same allow/deny split the original analyzer
// used: known pure math functions, known read-only library functions, and
// known functions with observable side effects. Anything not on one of
// these lists is unknown, and per the soundness-over-completeness rule an
// unknown function is assumed to have side effects.

var mathFunctions = map[string]bool{
	"sin": true, "cos": true, "tan": true, "asin": true, "acos": true, "atan": true, "atan2": true,
	"sinh": true, "cosh": true, "tanh": true, "asinh": true, "acosh": true, "atanh": true,
	"exp": true, "exp2": true, "expm1": true, "log": true, "log10": true, "log2": true, "log1p": true,
	"sqrt": true, "cbrt": true, "pow": true, "hypot": true,
	"ceil": true, "floor": true, "trunc": true, "round": true, "nearbyint": true, "rint": true,
	"fabs": true, "abs": true, "fmod": true, "remainder": true, "remquo": true,
	"fmin": true, "fmax": true, "fdim": true, "fma": true,
	"isfinite": true, "isinf": true, "isnan": true, "isnormal": true, "signbit": true,
}

var safeReadOnlyFunctions = map[string]bool{
	"strlen": true, "strcmp": true, "strncmp": true, "strchr": true, "strstr": true,
	"memcmp": true, "isalpha": true, "isdigit": true, "isspace": true, "toupper": true, "tolower": true,
}

var unsafeFunctions = map[string]bool{
	"printf": true, "fprintf": true, "sprintf": true, "puts": true, "putchar": true,
	"scanf": true, "fscanf": true, "sscanf": true, "getchar": true, "gets": true, "fgets": true,
	"malloc": true, "calloc": true, "realloc": true, "free": true,
	"fopen": true, "fclose": true, "fread": true, "fwrite": true, "fseek": true, "ftell": true,
	"exit": true, "abort": true, "system": true, "rand": true, "srand": true, "time": true,
}

// ClassifyCall resolves a callee name to the three Call-event flags.
// Unknown names fall through to hasSideEffects=true: an analyzer that
// cannot prove a call is safe must treat it as unsafe.
func ClassifyCall(name string) (isBuiltin, isMath, hasSideEffects bool) {
	switch {
	case mathFunctions[name]:
		return true, true, false
	case safeReadOnlyFunctions[name]:
		return true, false, false
	case unsafeFunctions[name]:
		return true, false, true
	default:
		return false, false, true
	}
}

// Classifier is a call classifier layered with user-supplied extra
// safe/unsafe names on top of the built-in allow/deny lists, configured
// via the rules.call_safety section of the configuration file.
type Classifier struct {
	extraSafe   map[string]bool
	extraUnsafe map[string]bool
}

// NewClassifier builds a Classifier from extra function-name lists. Names
// in extraUnsafe take priority over extraSafe, which in turn takes
// priority over the built-in lists, so a deployment can tighten a
// function the default classifier treats as safe.
func NewClassifier(extraSafe, extraUnsafe []string) *Classifier {
	c := &Classifier{extraSafe: make(map[string]bool), extraUnsafe: make(map[string]bool)}
	for _, n := range extraSafe {
		c.extraSafe[n] = true
	}
	for _, n := range extraUnsafe {
		c.extraUnsafe[n] = true
	}
	return c
}

func (c *Classifier) Classify(name string) (isBuiltin, isMath, hasSideEffects bool) {
	if c.extraUnsafe[name] {
		return true, false, true
	}
	if c.extraSafe[name] {
		return true, false, false
	}
	return ClassifyCall(name)
}
