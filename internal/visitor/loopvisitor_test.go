package visitor

import (
	"testing"

	"openmploop/internal/cast"
	"openmploop/internal/model"
)

func parseFunc(t *testing.T, src string) *cast.FuncDecl {
	t.Helper()
	file, err := cast.NewParser(src).ParseFile()
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if len(file.Funcs) != 1 {
		t.Fatalf("len(Funcs) = %d, want 1", len(file.Funcs))
	}
	return file.Funcs[0]
}

func TestRunSingleLoopBoundsAndInductionVar(t *testing.T) {
	fn := parseFunc(t, `
void add_arrays(int *A, int *B, int *C, int n) {
    for (int i = 0; i < n; i++) {
        C[i] = A[i] + B[i];
    }
}
`)
	loops := New().Run(fn)
	if len(loops) != 1 {
		t.Fatalf("len(loops) = %d, want 1", len(loops))
	}
	loop := loops[0]
	if loop.Parent != -1 {
		t.Errorf("Parent = %d, want -1", loop.Parent)
	}
	if loop.Depth != 0 {
		t.Errorf("Depth = %d, want 0", loop.Depth)
	}
	if !loop.Bounds.IsSimple {
		t.Error("Bounds.IsSimple = false, want true for a full for(;;) loop")
	}
	if loop.Bounds.InductionVar != "i" {
		t.Errorf("InductionVar = %q, want i", loop.Bounds.InductionVar)
	}
	if len(loop.ArrayAccesses) != 3 {
		t.Fatalf("len(ArrayAccesses) = %d, want 3 (C write, A read, B read)", len(loop.ArrayAccesses))
	}

	writes, reads := 0, 0
	for _, a := range loop.ArrayAccesses {
		if a.IsWrite {
			writes++
		} else {
			reads++
		}
	}
	if writes != 1 || reads != 2 {
		t.Errorf("writes=%d reads=%d, want 1 write 2 reads", writes, reads)
	}
}

func TestRunNestedLoopsParentChildLinkage(t *testing.T) {
	fn := parseFunc(t, `
void add_scalar_2d(int **M, int **R, int rows, int cols) {
    for (int i = 0; i < rows; i++) {
        for (int j = 0; j < cols; j++) {
            R[i][j] = M[i][j] + 2;
        }
    }
}
`)
	loops := New().Run(fn)
	if len(loops) != 2 {
		t.Fatalf("len(loops) = %d, want 2", len(loops))
	}
	outer, inner := loops[0], loops[1]
	if outer.Depth != 0 || inner.Depth != 1 {
		t.Errorf("depths = %d, %d, want 0, 1", outer.Depth, inner.Depth)
	}
	if inner.Parent != outer.Index {
		t.Errorf("inner.Parent = %d, want %d", inner.Parent, outer.Index)
	}
	if len(outer.Children) != 1 || outer.Children[0] != inner.Index {
		t.Errorf("outer.Children = %v, want [%d]", outer.Children, inner.Index)
	}
}

func TestRunLoopLocalVsFunctionLocalScope(t *testing.T) {
	fn := parseFunc(t, `
void running_sum(int *D, int n) {
    int sum = 0;
    for (int j = 0; j < n; j++) {
        sum += D[j];
        D[j] = sum;
    }
}
`)
	loops := New().Run(fn)
	if len(loops) != 1 {
		t.Fatalf("len(loops) = %d, want 1", len(loops))
	}
	loop := loops[0]
	sum, ok := loop.Variables["sum"]
	if !ok {
		t.Fatal("expected a variable record for sum")
	}
	if sum.Scope != model.FunctionLocal {
		t.Errorf("sum.Scope = %v, want FunctionLocal (declared outside the loop)", sum.Scope)
	}
}

func TestRunPointerWalkRecordsPointerOps(t *testing.T) {
	fn := parseFunc(t, `
void fill_via_pointer(int *p, int n) {
    for (int k = 0; k < n; k++) {
        *p = k;
        p++;
    }
}
`)
	loops := New().Run(fn)
	loop := loops[0]
	if len(loop.PointerOps) == 0 {
		t.Fatal("expected recorded pointer operations for *p and p++")
	}
}

func TestRunCallClassifierOverrideIsHonored(t *testing.T) {
	fn := parseFunc(t, `
void fill_and_print(int *V, int n) {
    for (int m = 0; m < n; m++) {
        V[m] = m;
        printf("%d\n", V[m]);
    }
}
`)
	called := false
	classify := func(name string) (bool, bool, bool) {
		called = true
		if name == "printf" {
			return true, false, false // force it to read as safe
		}
		return model.ClassifyCall(name)
	}
	loops := NewWithClassifier(classify).Run(fn)
	if !called {
		t.Fatal("expected the injected classifier to be invoked")
	}
	if len(loops[0].Calls) != 1 || loops[0].Calls[0].HasSideEffects {
		t.Errorf("Calls = %+v, want one call with HasSideEffects=false under the overridden classifier", loops[0].Calls)
	}
}

func TestRunEventOutsideLoopIsDiscarded(t *testing.T) {
	fn := parseFunc(t, `
void noop(int *A, int n) {
    int x = A[0];
    x = x + 1;
}
`)
	loops := New().Run(fn)
	if len(loops) != 0 {
		t.Fatalf("len(loops) = %d, want 0 (no loops in this function)", len(loops))
	}
}
