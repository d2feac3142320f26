package cast

import "testing"

func TestParseFileSimpleForLoop(t *testing.T) {
	src := `
void add_arrays(int *A, int *B, int *C, int n) {
    for (int i = 0; i < n; i++) {
        C[i] = A[i] + B[i];
    }
}
`
	file, err := NewParser(src).ParseFile()
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if len(file.Funcs) != 1 {
		t.Fatalf("len(Funcs) = %d, want 1", len(file.Funcs))
	}

	fn := file.Funcs[0]
	if fn.Name != "add_arrays" {
		t.Errorf("Name = %q, want add_arrays", fn.Name)
	}
	if len(fn.Params) != 4 {
		t.Fatalf("len(Params) = %d, want 4", len(fn.Params))
	}
	for i, p := range fn.Params {
		if !p.IsPointer && i < 3 {
			t.Errorf("param %d (%s) should be a pointer", i, p.Name)
		}
	}
	if fn.Params[3].IsPointer {
		t.Errorf("param n should not be a pointer")
	}

	if len(fn.Body.List) != 1 {
		t.Fatalf("len(Body.List) = %d, want 1", len(fn.Body.List))
	}
	forStmt, ok := fn.Body.List[0].(*ForStmt)
	if !ok {
		t.Fatalf("Body.List[0] = %T, want *ForStmt", fn.Body.List[0])
	}
	if forStmt.Init == nil || forStmt.Cond == nil || forStmt.Post == nil {
		t.Error("for-loop should have init, cond and post clauses all present")
	}

	init, ok := forStmt.Init.(*VarDeclStmt)
	if !ok {
		t.Fatalf("Init = %T, want *VarDeclStmt", forStmt.Init)
	}
	if init.Name != "i" {
		t.Errorf("induction var decl name = %q, want i", init.Name)
	}

	if len(forStmt.Body.List) != 1 {
		t.Fatalf("len(for body) = %d, want 1", len(forStmt.Body.List))
	}
	assign, ok := forStmt.Body.List[0].(*AssignStmt)
	if !ok {
		t.Fatalf("for body stmt = %T, want *AssignStmt", forStmt.Body.List[0])
	}
	if _, ok := assign.Lhs.(*IndexExpr); !ok {
		t.Errorf("Lhs = %T, want *IndexExpr", assign.Lhs)
	}
	if _, ok := assign.Rhs.(*BinaryExpr); !ok {
		t.Errorf("Rhs = %T, want *BinaryExpr", assign.Rhs)
	}
}

func TestParseFileNestedLoops(t *testing.T) {
	src := `
void add_scalar_2d(int **M, int **R, int rows, int cols) {
    for (int i = 0; i < rows; i++) {
        for (int j = 0; j < cols; j++) {
            R[i][j] = M[i][j] + 2;
        }
    }
}
`
	file, err := NewParser(src).ParseFile()
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	outer, ok := file.Funcs[0].Body.List[0].(*ForStmt)
	if !ok {
		t.Fatalf("outer stmt = %T, want *ForStmt", file.Funcs[0].Body.List[0])
	}
	if len(outer.Body.List) != 1 {
		t.Fatalf("len(outer body) = %d, want 1", len(outer.Body.List))
	}
	if _, ok := outer.Body.List[0].(*ForStmt); !ok {
		t.Fatalf("inner stmt = %T, want *ForStmt", outer.Body.List[0])
	}
}

func TestParseFilePointerIncrementAndDeref(t *testing.T) {
	src := `
void fill_via_pointer(int *p, int n) {
    for (int k = 0; k < n; k++) {
        *p = k;
        p++;
    }
}
`
	file, err := NewParser(src).ParseFile()
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	forStmt := file.Funcs[0].Body.List[0].(*ForStmt)
	if len(forStmt.Body.List) != 2 {
		t.Fatalf("len(body) = %d, want 2", len(forStmt.Body.List))
	}

	assign, ok := forStmt.Body.List[0].(*AssignStmt)
	if !ok {
		t.Fatalf("stmt 0 = %T, want *AssignStmt", forStmt.Body.List[0])
	}
	deref, ok := assign.Lhs.(*UnaryExpr)
	if !ok || deref.Op != MUL {
		t.Errorf("Lhs = %+v, want *UnaryExpr with Op=MUL", assign.Lhs)
	}

	exprStmt, ok := forStmt.Body.List[1].(*ExprStmt)
	if !ok {
		t.Fatalf("stmt 1 = %T, want *ExprStmt", forStmt.Body.List[1])
	}
	if _, ok := exprStmt.X.(*IncDecExpr); !ok {
		t.Errorf("stmt 1 expr = %T, want *IncDecExpr", exprStmt.X)
	}
}

func TestParseFileRejectsSyntaxError(t *testing.T) {
	_, err := NewParser("void broken( {").ParseFile()
	if err == nil {
		t.Error("expected a parse error for malformed input")
	}
}
