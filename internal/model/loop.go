// Package model holds the fact model spec §3 describes: the loop record,
// variable record, usage/array-access/call/pointer-op events, and the
// bounds block and metrics every loop carries. Nothing here performs
// analysis; it's pure data, owned the way spec §3's "Ownership &
// lifecycle" describes — loops own their variable and access records,
// and the loop graph is expressed by index, never by pointer.
package model

import (
	"fmt"

	"openmploop/internal/cast"
)

// Kind is one of the three loop shapes spec.md's glossary distinguishes.
type Kind int

const (
	Counted Kind = iota
	Conditional
	PostTest
)

func (k Kind) String() string {
	switch k {
	case Counted:
		return "counted"
	case Conditional:
		return "conditional"
	case PostTest:
		return "post-test"
	default:
		return "unknown"
	}
}

// Verdict is a loop's dependency-manager conclusion (spec §3: "undecided
// -> parallelizable | not").
type Verdict int

const (
	Undecided Verdict = iota
	Parallelizable
	NotParallelizable
)

func (v Verdict) String() string {
	switch v {
	case Parallelizable:
		return "parallelizable"
	case NotParallelizable:
		return "not-parallelizable"
	default:
		return "undecided"
	}
}

// Bounds is the counted-loop-only bounds block (spec §3 "Bounds block").
type Bounds struct {
	InductionVar string
	Cond         cast.Expr // condition expression handle, nil if absent
	Post         cast.Stmt // increment expression handle, nil if absent
	IsSimple     bool
}

// Metrics are the per-loop operation counters spec §4.1 "Metrics"
// accumulates during the visitor walk.
type Metrics struct {
	ArithmeticOps  int
	Comparisons    int
	Assignments    int
	FunctionCalls  int
	MemoryAccesses int
}

// Hotness implements spec §4.1's weighted formula:
// arithmetic + 2*memory + 5*calls + 0.5*comparisons + 1.5*assignments.
func (m Metrics) Hotness() float64 {
	return float64(m.ArithmeticOps) +
		2*float64(m.MemoryAccesses) +
		5*float64(m.FunctionCalls) +
		0.5*float64(m.Comparisons) +
		1.5*float64(m.Assignments)
}

// IsHot matches the original's isHot() predicate referenced by the
// confidence scorer (spec §4.9 "loop is hot"): hotness above a fixed
// threshold. The threshold isn't specified numerically in spec.md; 20 is
// chosen so a handful of array accesses plus arithmetic in a tight loop
// body crosses it, matching the intent of "+0.1 if hot" rewarding loops
// that look like real work rather than bookkeeping.
const hotnessThreshold = 20.0

func (m Metrics) IsHot() bool { return m.Hotness() > hotnessThreshold }

// Loop is the loop record of spec §3. Loops are stored in a flat slice
// owned by the visitor (spec §9 "Graph of loops without back-pointers");
// Parent/Children are indices into that slice, never pointers, so the
// loop graph survives slice growth without dangling references.
type Loop struct {
	Index    int
	Parent   int // -1 if outermost
	Children []int

	Kind     Kind
	StartPos cast.Position
	Line     int
	Depth    int

	Bounds Bounds

	Variables     map[string]*Variable
	VarOrder      []string // first-seen order, for deterministic private() lists
	ArrayAccesses []ArrayAccess
	Calls         []Call
	PointerOps    []PointerOp
	Metrics       Metrics

	Verdict  Verdict
	Warnings []string

	// CallUnsafe and TransitiveCallUnsafe are set by the dependency
	// manager (spec §4.7): the former is this loop's own call-effect
	// verdict; the latter also folds in every descendant's, so a parent
	// can check for transitive call-unsafety without re-walking its
	// subtree (children finalize first, so the value is already settled
	// by the time a parent reads it).
	CallUnsafe            bool
	TransitiveCallUnsafe  bool

	Finalized bool
}

func NewLoop(index, parent int, kind Kind, pos cast.Position, depth int) *Loop {
	return &Loop{
		Index:     index,
		Parent:    parent,
		Kind:      kind,
		StartPos:  pos,
		Line:      pos.Line,
		Depth:     depth,
		Variables: make(map[string]*Variable),
	}
}

func (l *Loop) AddWarning(format string, args ...any) {
	l.Warnings = append(l.Warnings, fmt.Sprintf(format, args...))
}

// Variable looks up or creates the named variable's record. Callers that
// need the induction variable promoted (spec §4.1 "After traversal the
// induction variable's role is promoted to induction") do that directly
// once bounds extraction has happened.
func (l *Loop) Variable(name string) *Variable {
	if v, ok := l.Variables[name]; ok {
		return v
	}
	v := &Variable{Name: name, Role: Ordinary}
	l.Variables[name] = v
	l.VarOrder = append(l.VarOrder, name)
	return v
}

// IsOutermost reports whether this loop has no enclosing loop (spec §4.8
// "If the loop is outermost").
func (l *Loop) IsOutermost() bool { return l.Parent == -1 }
