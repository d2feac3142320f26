package dependency

import (
	"strconv"

	"openmploop/internal/cast"
)

// tryOffset tries to read e (after stripping parens/casts) as the
// induction variable plus or minus an integer literal: `ν`, `ν + c`,
// `ν - c`, or `c + ν`. It returns the offset (0 for bare ν) and whether e
// fit the form at all — the shared primitive behind both §4.3's
// CONSTANT_OFFSET classification and §4.4's ν+k cross-iteration offsets.
func tryOffset(e cast.Expr, inductionVar string) (offset int, ok bool) {
	e = cast.StripParensAndCasts(e)
	if id, isIdent := e.(*cast.Ident); isIdent {
		if id.Name == inductionVar {
			return 0, true
		}
		return 0, false
	}
	be, isBinary := e.(*cast.BinaryExpr)
	if !isBinary {
		return 0, false
	}
	x := cast.StripParensAndCasts(be.X)
	y := cast.StripParensAndCasts(be.Y)

	if id, isIdent := x.(*cast.Ident); isIdent && id.Name == inductionVar {
		if lit, isLit := y.(*cast.BasicLit); isLit {
			if n, err := strconv.Atoi(lit.Value); err == nil {
				switch be.Op {
				case cast.ADD:
					return n, true
				case cast.SUB:
					return -n, true
				}
			}
		}
		return 0, false
	}
	if be.Op == cast.ADD {
		if id, isIdent := y.(*cast.Ident); isIdent && id.Name == inductionVar {
			if lit, isLit := x.(*cast.BasicLit); isLit {
				if n, err := strconv.Atoi(lit.Value); err == nil {
					return n, true
				}
			}
		}
	}
	return 0, false
}

// involvesVar reports whether name appears anywhere in e.
func involvesVar(e cast.Expr, name string) bool {
	switch n := e.(type) {
	case nil:
		return false
	case *cast.Ident:
		return n.Name == name
	case *cast.BasicLit:
		return false
	case *cast.BinaryExpr:
		return involvesVar(n.X, name) || involvesVar(n.Y, name)
	case *cast.UnaryExpr:
		return involvesVar(n.X, name)
	case *cast.IndexExpr:
		return involvesVar(n.X, name) || involvesVar(n.Index, name)
	case *cast.ParenExpr:
		return involvesVar(n.X, name)
	case *cast.CastExpr:
		return involvesVar(n.X, name)
	case *cast.CallExpr:
		for _, a := range n.Args {
			if involvesVar(a, name) {
				return true
			}
		}
		return involvesVar(n.Fun, name)
	case *cast.SelectorExpr:
		return involvesVar(n.X, name)
	default:
		return false
	}
}

// exprEqual is a structural equality check over the expression shapes the
// array analyzer needs to compare — enough to tell `A[0]` from `A[1]` and
// `A[0]` from `A[0]` without caring about source position.
func exprEqual(a, b cast.Expr) bool {
	a = cast.StripParensAndCasts(a)
	b = cast.StripParensAndCasts(b)
	switch x := a.(type) {
	case *cast.Ident:
		y, ok := b.(*cast.Ident)
		return ok && x.Name == y.Name
	case *cast.BasicLit:
		y, ok := b.(*cast.BasicLit)
		return ok && x.Kind == y.Kind && x.Value == y.Value
	case *cast.BinaryExpr:
		y, ok := b.(*cast.BinaryExpr)
		return ok && x.Op == y.Op && exprEqual(x.X, y.X) && exprEqual(x.Y, y.Y)
	case *cast.UnaryExpr:
		y, ok := b.(*cast.UnaryExpr)
		return ok && x.Op == y.Op && exprEqual(x.X, y.X)
	case *cast.IndexExpr:
		y, ok := b.(*cast.IndexExpr)
		return ok && exprEqual(x.X, y.X) && exprEqual(x.Index, y.Index)
	default:
		return false
	}
}

// posLess orders two source positions by line then column, used to decide
// which of a pair of accesses comes "textually earlier" (spec §4.4 RAW
// vs WAR).
func posLess(a, b cast.Position) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Column < b.Column
}
