// Package visitor implements the Loop Visitor of spec §4.1: a single pass
// over one function's body that discovers loops, builds their nesting
// tree, and attributes every variable reference, array subscript, pointer
// operation, call, and assignment it passes over the current loop, the
// one on top of the nesting stack. An event seen outside any loop is
// dropped, matching spec §4.1's "if the stack is empty the event is
// discarded" rule.
//
// This package owns only fact-gathering. Running the dependency manager
// over the finished loops and deciding a verdict is the Analysis Driver's
// job (internal/driver), invoked once the whole function has been walked
// — the driver iterates the loop slice back to front, which visits every
// child before its parent since a child is always appended after the
// parent that contains it. That is the same order popping the nesting
// stack would have produced, just deferred to a clean second pass instead
// of interleaved with traversal.
package visitor

import (
	"openmploop/internal/cast"
	"openmploop/internal/model"
)

type declSite struct {
	pos       cast.Position
	loopIndex int // -1 if the declaration sits outside every loop
}

// LoopVisitor walks one function and produces its loop records. Create a
// fresh one per function; nothing here is safe to reuse across functions.
type LoopVisitor struct {
	loops []*model.Loop
	stack []int

	pointerVars map[string]bool
	declSites   map[string]declSite
	classify    func(string) (isBuiltin, isMath, hasSideEffects bool)
}

func New() *LoopVisitor {
	return NewWithClassifier(model.ClassifyCall)
}

// NewWithClassifier builds a visitor whose call-effect classification is
// layered with configuration-supplied extra safe/unsafe function names
// (internal/model.Classifier.Classify) instead of the built-in lists
// alone.
func NewWithClassifier(classify func(string) (bool, bool, bool)) *LoopVisitor {
	return &LoopVisitor{
		pointerVars: make(map[string]bool),
		declSites:   make(map[string]declSite),
		classify:    classify,
	}
}

// Run walks fn's body and returns its loop records, indexed the way
// spec §9 wants: by position in the slice, parent/children by index, no
// pointers between them.
func (v *LoopVisitor) Run(fn *cast.FuncDecl) []*model.Loop {
	for _, p := range fn.Params {
		if p.IsPointer {
			v.pointerVars[p.Name] = true
		}
		v.declSites[p.Name] = declSite{pos: fn.StartPos, loopIndex: -1}
	}
	cast.Walk(v, fn.Body)
	return v.loops
}

func (v *LoopVisitor) currentLoopIndex() int {
	if len(v.stack) == 0 {
		return -1
	}
	return v.stack[len(v.stack)-1]
}

func (v *LoopVisitor) currentLoop() *model.Loop {
	idx := v.currentLoopIndex()
	if idx < 0 {
		return nil
	}
	return v.loops[idx]
}

func (v *LoopVisitor) pushLoop(kind model.Kind, pos cast.Position) *model.Loop {
	idx := len(v.loops)
	loop := model.NewLoop(idx, v.currentLoopIndex(), kind, pos, len(v.stack))
	v.loops = append(v.loops, loop)
	if loop.Parent >= 0 {
		parent := v.loops[loop.Parent]
		parent.Children = append(parent.Children, idx)
	}
	v.stack = append(v.stack, idx)
	return loop
}

func (v *LoopVisitor) popLoop() {
	v.stack = v.stack[:len(v.stack)-1]
}

// Visit implements cast.Visitor. Every expression node is handled
// self-contained by walkExpr (so it can tell read from write context,
// which requires knowing the parent — something Walk's generic recursion
// can't give us); every loop and declaration/assignment statement is
// handled here directly for the same reason. Visit returns nil for all of
// these so Walk doesn't also recurse into their children. Plain statement
// containers (blocks, if, return, break, continue, bare expression
// statements) have no read/write ambiguity of their own and are left to
// Walk's default recursion.
func (v *LoopVisitor) Visit(node cast.Node) cast.Visitor {
	switch n := node.(type) {
	case *cast.ForStmt:
		v.visitFor(n)
		return nil
	case *cast.WhileStmt:
		v.visitWhile(n)
		return nil
	case *cast.DoWhileStmt:
		v.visitDoWhile(n)
		return nil
	case *cast.VarDeclStmt:
		v.visitVarDecl(n)
		return nil
	case *cast.AssignStmt:
		v.visitAssign(n)
		return nil
	case cast.Expr:
		v.walkExpr(n)
		return nil
	}
	return v
}

func (v *LoopVisitor) visitFor(n *cast.ForStmt) {
	loop := v.pushLoop(model.Counted, n.StartPos)
	v.extractBounds(loop, n)

	if n.Init != nil {
		v.visitForClauseStmt(n.Init)
	}
	if n.Cond != nil {
		v.walkExpr(n.Cond)
		v.countConditionOps(loop, n.Cond)
	}
	if n.Post != nil {
		v.visitForClauseStmt(n.Post)
	}
	cast.Walk(v, n.Body)

	v.popLoop()
}

// visitForClauseStmt handles the init/post clauses of a for loop, which
// are statements (a declaration or an assignment) evaluated while this
// loop is already on top of the stack, so declarations there land inside
// the loop's own scope (spec §3 scope rule: "inclusive of the counted
// loop's init position").
func (v *LoopVisitor) visitForClauseStmt(s cast.Stmt) {
	switch t := s.(type) {
	case *cast.VarDeclStmt:
		v.visitVarDecl(t)
	case *cast.AssignStmt:
		v.visitAssign(t)
	case *cast.ExprStmt:
		v.walkExpr(t.X)
	}
}

// extractBounds implements spec §4.1's induction-variable rule: a single
// declaration or a single assignment to an identifier in the init clause
// names the induction variable; anything else leaves bounds non-simple.
// The variable's role is set to Induction immediately rather than after
// the whole loop has been walked — by the time any analyzer looks at it,
// traversal is done either way, so the two are equivalent in effect.
func (v *LoopVisitor) extractBounds(loop *model.Loop, n *cast.ForStmt) {
	loop.Bounds.Cond = n.Cond
	loop.Bounds.Post = n.Post

	var induction string
	switch init := n.Init.(type) {
	case *cast.VarDeclStmt:
		induction = init.Name
	case *cast.AssignStmt:
		if id, ok := init.Lhs.(*cast.Ident); ok {
			induction = id.Name
		}
	}
	if induction == "" {
		return
	}
	loop.Bounds.InductionVar = induction
	loop.Bounds.IsSimple = n.Cond != nil && n.Post != nil

	v.declSites[induction] = declSite{pos: n.Init.Pos(), loopIndex: loop.Index}
	iv := loop.Variable(induction)
	iv.DeclPos = n.Init.Pos()
	iv.Scope = model.LoopLocal
	iv.Role = model.Induction
}

func (v *LoopVisitor) visitWhile(n *cast.WhileStmt) {
	loop := v.pushLoop(model.Conditional, n.StartPos)
	v.walkExpr(n.Cond)
	v.countConditionOps(loop, n.Cond)
	cast.Walk(v, n.Body)
	v.popLoop()
}

func (v *LoopVisitor) visitDoWhile(n *cast.DoWhileStmt) {
	loop := v.pushLoop(model.PostTest, n.StartPos)
	cast.Walk(v, n.Body)
	v.walkExpr(n.Cond)
	v.countConditionOps(loop, n.Cond)
	v.popLoop()
}

func (v *LoopVisitor) countConditionOps(loop *model.Loop, cond cast.Expr) {
	if be, ok := cast.StripParensAndCasts(cond).(*cast.BinaryExpr); ok {
		v.countBinaryOp(loop, be.Op)
	}
}

// visitVarDecl records the declaration site (used later to decide a
// variable's scope relative to whichever loop references it) and, if the
// current loop is non-empty, creates the variable's record in it and
// treats the initializer, if any, as a write preceded by reading its RHS.
func (v *LoopVisitor) visitVarDecl(n *cast.VarDeclStmt) {
	v.declSites[n.Name] = declSite{pos: n.StartPos, loopIndex: v.currentLoopIndex()}
	if n.IsPointer {
		v.pointerVars[n.Name] = true
	}

	loop := v.currentLoop()
	if loop == nil {
		if n.Init != nil {
			v.walkExpr(n.Init)
		}
		return
	}
	vr := v.variableIn(loop, n.Name)
	vr.DeclPos = n.StartPos
	vr.Scope = model.LoopLocal
	if n.Init != nil {
		loop.Metrics.Assignments++
		v.walkExpr(n.Init)
		vr.RecordUsage(n.StartPos, false, true)
	}
}

// variableIn fetches name's record in loop and fixes up its Scope from
// the declaration-site table: loop-local iff the declaration happened
// while this same loop was on top of the stack (spec §3 scope rule).
func (v *LoopVisitor) variableIn(loop *model.Loop, name string) *model.Variable {
	vr := loop.Variable(name)
	if ds, ok := v.declSites[name]; ok {
		vr.DeclPos = ds.pos
		if ds.loopIndex == loop.Index {
			vr.Scope = model.LoopLocal
		} else {
			vr.Scope = model.FunctionLocal
		}
	} else {
		vr.Scope = model.FunctionLocal
	}
	return vr
}

// visitAssign handles `lhs op rhs;` for every lvalue shape the grammar
// allows: a plain variable, an array element, or a pointer dereference
// (including pointer-arithmetic offset form, *(p + k) = ...).
func (v *LoopVisitor) visitAssign(n *cast.AssignStmt) {
	loop := v.currentLoop()
	if loop != nil {
		loop.Metrics.Assignments++
	}
	isCompound := n.Op != cast.ASSIGN

	switch lhs := n.Lhs.(type) {
	case *cast.Ident:
		if loop != nil {
			v.variableIn(loop, lhs.Name).RecordUsage(lhs.StartPos, isCompound, true)
		}
	case *cast.IndexExpr:
		v.recordIndexAccess(lhs, true)
		if isCompound {
			v.recordIndexAccess(lhs, false)
		}
	case *cast.UnaryExpr:
		if lhs.Op == cast.MUL {
			v.handleDeref(lhs, true)
		}
	case *cast.SelectorExpr:
		if lhs.Arrow {
			if id, ok := cast.StripParensAndCasts(lhs.X).(*cast.Ident); ok {
				v.recordPointerOp(id.Name, lhs.StartPos, true, false, false)
			}
		}
	}
	v.walkExpr(n.Rhs)
}

// walkExpr is the expression-side counterpart of Visit: every expression
// kind dispatches here and recurses itself, in read context unless a
// caller (visitAssign, or walkExpr's own write-context cases below)
// already established otherwise.
func (v *LoopVisitor) walkExpr(e cast.Expr) {
	switch n := e.(type) {
	case nil:
	case *cast.Ident:
		if loop := v.currentLoop(); loop != nil {
			v.variableIn(loop, n.Name).RecordUsage(n.StartPos, true, false)
		}
	case *cast.BasicLit:
	case *cast.IndexExpr:
		v.recordIndexAccess(n, false)
	case *cast.BinaryExpr:
		if loop := v.currentLoop(); loop != nil {
			v.countBinaryOp(loop, n.Op)
		}
		v.walkExpr(n.X)
		v.walkExpr(n.Y)
	case *cast.UnaryExpr:
		v.visitUnary(n)
	case *cast.IncDecExpr:
		if id, ok := cast.StripParensAndCasts(n.X).(*cast.Ident); ok {
			if loop := v.currentLoop(); loop != nil {
				if v.pointerVars[id.Name] {
					v.recordPointerOp(id.Name, n.EndPos, false, false, true)
				}
				v.variableIn(loop, id.Name).RecordUsage(n.EndPos, true, true)
			}
		} else {
			v.walkExpr(n.X)
		}
	case *cast.CallExpr:
		v.visitCall(n)
	case *cast.SelectorExpr:
		if n.Arrow {
			if id, ok := cast.StripParensAndCasts(n.X).(*cast.Ident); ok {
				v.recordPointerOp(id.Name, n.StartPos, true, false, false)
				return
			}
		}
		v.walkExpr(n.X)
	case *cast.ParenExpr:
		v.walkExpr(n.X)
	case *cast.CastExpr:
		v.walkExpr(n.X)
	}
}

func (v *LoopVisitor) visitUnary(n *cast.UnaryExpr) {
	switch n.Op {
	case cast.AND: // &x
		if id, ok := cast.StripParensAndCasts(n.X).(*cast.Ident); ok {
			v.recordPointerOp(id.Name, n.StartPos, false, true, false)
			if loop := v.currentLoop(); loop != nil {
				v.variableIn(loop, id.Name).RecordUsage(n.StartPos, true, false)
			}
			return
		}
		v.walkExpr(n.X)
	case cast.MUL: // *p (read)
		v.handleDeref(n, false)
	case cast.INC, cast.DEC: // ++i, --i (prefix)
		if id, ok := cast.StripParensAndCasts(n.X).(*cast.Ident); ok {
			if loop := v.currentLoop(); loop != nil {
				if v.pointerVars[id.Name] {
					v.recordPointerOp(id.Name, n.StartPos, false, false, true)
				}
				v.variableIn(loop, id.Name).RecordUsage(n.StartPos, true, true)
			}
			return
		}
		v.walkExpr(n.X)
	default: // -x, !x, ~x
		if loop := v.currentLoop(); loop != nil {
			loop.Metrics.ArithmeticOps++
		}
		v.walkExpr(n.X)
	}
}

// handleDeref covers *p and *(p + k) in both read and write position. The
// offset form is treated as an array-style access with base p and
// subscript k, per spec §4.5's pointer-arithmetic rule.
func (v *LoopVisitor) handleDeref(n *cast.UnaryExpr, isWrite bool) {
	inner := cast.StripParensAndCasts(n.X)
	loop := v.currentLoop()

	if be, ok := inner.(*cast.BinaryExpr); ok && (be.Op == cast.ADD || be.Op == cast.SUB) {
		if id, ok2 := cast.StripParensAndCasts(be.X).(*cast.Ident); ok2 && v.pointerVars[id.Name] {
			if loop != nil {
				loop.ArrayAccesses = append(loop.ArrayAccesses, model.ArrayAccess{
					Name: id.Name, Subscript: be.Y, Pos: n.StartPos, Line: n.StartPos.Line, IsWrite: isWrite,
				})
				loop.Metrics.MemoryAccesses++
			}
			v.recordPointerOp(id.Name, n.StartPos, true, false, true)
			v.walkExpr(be.Y)
			return
		}
	}

	if id, ok := inner.(*cast.Ident); ok {
		v.recordPointerOp(id.Name, n.StartPos, true, false, false)
		if loop != nil {
			loop.Metrics.MemoryAccesses++
		}
		return
	}
	v.walkExpr(inner)
}

// recordIndexAccess records one array-access event for X[Index], with the
// base name found by stripping any nested subscripts down to the root
// declarator (spec §3 "base name is the innermost declarator"). A
// multi-dimensional access like M[i][j] yields a single event keyed on
// the outermost bracket's index (j here) — the dimension that varies with
// whichever loop directly encloses this access, which is the only
// dimension the cross-iteration analyzer needs to reason about that loop.
func (v *LoopVisitor) recordIndexAccess(n *cast.IndexExpr, isWrite bool) {
	name, ok := baseName(n.X)
	loop := v.currentLoop()
	if ok && loop != nil {
		loop.ArrayAccesses = append(loop.ArrayAccesses, model.ArrayAccess{
			Name: name, Subscript: n.Index, Pos: n.StartPos, Line: n.StartPos.Line, IsWrite: isWrite,
		})
		loop.Metrics.MemoryAccesses++
	} else if !ok {
		v.walkExpr(n.X)
	}
	v.walkExpr(n.Index)
}

func baseName(e cast.Expr) (string, bool) {
	switch t := cast.StripParensAndCasts(e).(type) {
	case *cast.Ident:
		return t.Name, true
	case *cast.IndexExpr:
		return baseName(t.X)
	default:
		return "", false
	}
}

func (v *LoopVisitor) visitCall(n *cast.CallExpr) {
	name := ""
	if id, ok := cast.StripParensAndCasts(n.Fun).(*cast.Ident); ok {
		name = id.Name
	}
	if loop := v.currentLoop(); loop != nil {
		isBuiltin, isMath, hasSideEffects := v.classify(name)
		loop.Calls = append(loop.Calls, model.Call{
			Name: name, IsBuiltin: isBuiltin, IsMath: isMath, HasSideEffects: hasSideEffects,
			Pos: n.StartPos, Line: n.StartPos.Line,
		})
		loop.Metrics.FunctionCalls++
	}
	for _, arg := range n.Args {
		v.walkExpr(arg)
	}
}

func (v *LoopVisitor) recordPointerOp(name string, pos cast.Position, deref, addr, arith bool) {
	loop := v.currentLoop()
	if loop == nil {
		return
	}
	loop.PointerOps = append(loop.PointerOps, model.PointerOp{
		PointerName: name, Pos: pos, Line: pos.Line,
		Dereference: deref, AddressOf: addr, Arithmetic: arith,
	})
}

// countBinaryOp feeds spec §4.1's Metrics: arithmetic and bitwise
// operators count as arithmetic; comparisons and logical combinators
// count as comparisons, since loop conditions are almost always one or
// the other of these two groups.
func (v *LoopVisitor) countBinaryOp(loop *model.Loop, op cast.Kind) {
	switch op {
	case cast.ADD, cast.SUB, cast.MUL, cast.QUO, cast.REM,
		cast.AND, cast.OR, cast.XOR, cast.SHL, cast.SHR:
		loop.Metrics.ArithmeticOps++
	case cast.EQL, cast.NEQ, cast.LSS, cast.GTR, cast.LEQ, cast.GEQ, cast.LAND, cast.LOR:
		loop.Metrics.Comparisons++
	}
}
