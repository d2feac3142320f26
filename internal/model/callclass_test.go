package model

import "testing"

func TestClassifyCall(t *testing.T) {
	tests := []struct {
		name               string
		callee             string
		wantBuiltin        bool
		wantMath           bool
		wantHasSideEffects bool
	}{
		{name: "math function", callee: "sqrt", wantBuiltin: true, wantMath: true, wantHasSideEffects: false},
		{name: "safe read-only function", callee: "strlen", wantBuiltin: true, wantMath: false, wantHasSideEffects: false},
		{name: "side-effecting function", callee: "printf", wantBuiltin: true, wantMath: false, wantHasSideEffects: true},
		{name: "unknown function defaults to unsafe", callee: "user_defined_fn", wantBuiltin: false, wantMath: false, wantHasSideEffects: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isBuiltin, isMath, hasSideEffects := ClassifyCall(tt.callee)
			if isBuiltin != tt.wantBuiltin || isMath != tt.wantMath || hasSideEffects != tt.wantHasSideEffects {
				t.Errorf("ClassifyCall(%q) = (%v, %v, %v), want (%v, %v, %v)",
					tt.callee, isBuiltin, isMath, hasSideEffects,
					tt.wantBuiltin, tt.wantMath, tt.wantHasSideEffects)
			}
		})
	}
}

func TestClassifierOverrides(t *testing.T) {
	c := NewClassifier([]string{"custom_readonly"}, []string{"sqrt"})

	if _, _, hasSideEffects := c.Classify("custom_readonly"); hasSideEffects {
		t.Error("extraSafe override must clear HasSideEffects")
	}
	if _, _, hasSideEffects := c.Classify("sqrt"); !hasSideEffects {
		t.Error("extraUnsafe override must take priority over the built-in math list")
	}
	if _, _, hasSideEffects := c.Classify("strlen"); hasSideEffects {
		t.Error("functions absent from both override lists must fall through to the built-in classification")
	}
}
