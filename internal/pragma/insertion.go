package pragma

import (
	"fmt"

	"openmploop/internal/cast"
)

// Insertion is spec §4.10's mapping of a parallelizable loop to where its
// directive line goes.
type Insertion struct {
	Line    int
	Column  int
	Skipped bool
	Reason  string // set iff Skipped
	Note    string // set when spelling/expansion lines differ but insertion still proceeds
}

// Plan implements spec §4.10: insert at the loop's first token's spelling
// line, column 1, rejecting macro expansions outright.
func Plan(pos cast.Position) *Insertion {
	if pos.IsMacro {
		return &Insertion{Skipped: true, Reason: "macro"}
	}
	ins := &Insertion{Line: pos.Line, Column: 1}
	if pos.ExpansionLine != 0 && pos.ExpansionLine != pos.Line {
		ins.Note = fmt.Sprintf("spelling line %d differs from expansion line %d", pos.Line, pos.ExpansionLine)
	}
	return ins
}
