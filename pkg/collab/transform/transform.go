// Package transform implements the four-case operational transformation
// kernel: rebasing one operation over another that has already been
// applied, so concurrent edits converge to the same document regardless of
// application order (the TP1 property).
package transform

import (
	"strings"

	"github.com/humancuration/cpc-shtairir/internal/support/errs"
	"github.com/humancuration/cpc-shtairir/pkg/collab/op"
)

// Transform rebases op1 over op2, which is assumed already applied to the
// document op1 was authored against. Replace operands are decomposed to
// Delete∘Insert before transformation and recomposed afterward.
func Transform(op1, op2 op.Operation) (op.Operation, error) {
	if op1.Kind == op.Replace {
		del, ins, _ := op1.DecomposeReplace()
		tDel, err := Transform(del, op2)
		if err != nil {
			return op.Operation{}, err
		}
		tIns, err := Transform(ins, op2)
		if err != nil {
			return op.Operation{}, err
		}
		return op.RecomposeReplace(tDel, tIns), nil
	}
	if op2.Kind == op.Replace {
		del, ins, _ := op2.DecomposeReplace()
		stepped, err := Transform(op1, del)
		if err != nil {
			return op.Operation{}, err
		}
		return Transform(stepped, ins)
	}

	switch {
	case op1.Kind == op.Insert && op2.Kind == op.Insert:
		return transformInsertInsert(op1, op2), nil
	case op1.Kind == op.Insert && op2.Kind == op.Delete:
		return transformInsertDelete(op1, op2), nil
	case op1.Kind == op.Delete && op2.Kind == op.Insert:
		return transformDeleteInsert(op1, op2), nil
	case op1.Kind == op.Delete && op2.Kind == op.Delete:
		return transformDeleteDelete(op1, op2), nil
	default:
		return op.Operation{}, errs.New("transform: unsupported operation kind combination")
	}
}

func transformInsertInsert(op1, op2 op.Operation) op.Operation {
	op1.Position = shiftForInsert(op1.Position, op2.Position, op2.Text)
	return op1
}

func transformInsertDelete(op1, op2 op.Operation) op.Operation {
	s2, e2 := op2.Start, op2.End
	p1 := op1.Position
	switch {
	case s2.LessEq(p1) && p1.Less(e2):
		op1.Position = s2
	case e2.LessEq(p1):
		op1.Position = shiftForDelete(p1, s2, e2)
	}
	return op1
}

func transformDeleteInsert(op1, op2 op.Operation) op.Operation {
	s1, e1 := op1.Start, op1.End
	p2, text2 := op2.Position, op2.Text
	switch {
	case s1.LessEq(p2) && p2.Less(e1):
		op1.End = shiftForInsert(e1, p2, text2)
	case p2.Less(s1):
		op1.Start = shiftForInsert(s1, p2, text2)
		op1.End = shiftForInsert(e1, p2, text2)
	}
	return op1
}

func transformDeleteDelete(op1, op2 op.Operation) op.Operation {
	s1, e1 := op1.Start, op1.End
	s2, e2 := op2.Start, op2.End

	switch {
	case e1.LessEq(s2):
		// disjoint, op1 entirely before op2: unaffected
	case e2.LessEq(s1):
		// disjoint, op2 entirely before op1: shift back by op2's length
		s1 = shiftForDelete(s1, s2, e2)
		e1 = shiftForDelete(e1, s2, e2)
	case s2.LessEq(s1) && e1.LessEq(e2):
		// op2 fully contains op1: nothing of op1 survives
		s1, e1 = s2, s2
	case s1.LessEq(s2) && e2.LessEq(e1):
		// op1 fully contains op2: trim op2's span out of op1's range
		e1 = shiftForDelete(e1, s2, e2)
	case s2.Less(s1):
		// op2 overlaps the leading edge of op1
		s1 = s2
		e1 = shiftForDelete(e1, s2, e2)
	default:
		// op2 overlaps the trailing edge of op1
		e1 = s2
	}

	op1.Start, op1.End = s1, e1
	return op1
}

// shiftForInsert computes how a position already at pos moves once text is
// inserted at insertAt. Insertions at or before pos shift it forward;
// insertions strictly after pos leave it unchanged. Multi-line inserted
// text both advances the line count and re-bases the column against the
// inserted text's final line.
func shiftForInsert(pos, insertAt op.Position, text string) op.Position {
	if insertAt.Line > pos.Line || (insertAt.Line == pos.Line && insertAt.Column > pos.Column) {
		return pos
	}
	added := newlineCount(text)
	if added == 0 {
		if insertAt.Line == pos.Line {
			pos.Column += op.Len(text)
		}
		return pos
	}
	if insertAt.Line == pos.Line {
		pos.Column = lastLineLen(text) + (pos.Column - insertAt.Column)
	}
	pos.Line += added
	return pos
}

// shiftForDelete computes how a position at or after a deleted range
// [s2,e2) moves once that range is removed.
func shiftForDelete(pos, s2, e2 op.Position) op.Position {
	linesRemoved := e2.Line - s2.Line
	if pos.Line == e2.Line {
		pos.Column = s2.Column + (pos.Column - e2.Column)
	}
	pos.Line -= linesRemoved
	return pos
}

func newlineCount(text string) uint32 {
	var n uint32
	for _, r := range text {
		if r == '\n' {
			n++
		}
	}
	return n
}

func lastLineLen(text string) uint32 {
	idx := strings.LastIndexByte(text, '\n')
	tail := text
	if idx >= 0 {
		tail = text[idx+1:]
	}
	return op.Len(tail)
}
