// Package op defines the operation model operational transformation runs
// over: a (line, column) document coordinate space and the Insert/Delete/
// Replace operations expressed in it.
package op

import (
	"time"

	"github.com/humancuration/cpc-shtairir/internal/support/ids"
)

// Position is a location in a document, measured in Unicode scalar values —
// never bytes, never grapheme clusters.
type Position struct {
	Line   uint32
	Column uint32
}

// Less orders positions lexicographically by (line, column).
func (p Position) Less(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Column < o.Column
}

// LessEq is Less or equal.
func (p Position) LessEq(o Position) bool {
	return p == o || p.Less(o)
}

// Advance walks text one Unicode scalar value at a time from p, resetting
// Column to 0 and incrementing Line on every '\n'.
func Advance(p Position, text string) Position {
	for _, r := range text {
		if r == '\n' {
			p.Line++
			p.Column = 0
		} else {
			p.Column++
		}
	}
	return p
}

// Len returns the number of Unicode scalar values in text.
func Len(text string) uint32 {
	var n uint32
	for range text {
		n++
	}
	return n
}

// Kind discriminates the Operation sum type.
type Kind int

const (
	Insert Kind = iota
	Delete
	Replace
)

func (k Kind) String() string {
	switch k {
	case Insert:
		return "Insert"
	case Delete:
		return "Delete"
	case Replace:
		return "Replace"
	default:
		return "Unknown"
	}
}

// Operation is an immutable edit: Insert{position,text}, Delete{start,end}
// (half-open [start,end)), or Replace{start,end,text} (semantically
// Delete(start,end) followed by Insert(start,text)).
type Operation struct {
	Kind Kind

	Position Position // Insert
	Start    Position // Delete, Replace
	End      Position // Delete, Replace
	Text     string   // Insert, Replace

	UserID    ids.ID
	Timestamp time.Time
}

// NewInsert builds an Insert operation.
func NewInsert(pos Position, text string, user ids.ID, ts time.Time) Operation {
	return Operation{Kind: Insert, Position: pos, Text: text, UserID: user, Timestamp: ts}
}

// NewDelete builds a Delete operation over the half-open range [start, end).
func NewDelete(start, end Position, user ids.ID, ts time.Time) Operation {
	return Operation{Kind: Delete, Start: start, End: end, UserID: user, Timestamp: ts}
}

// NewReplace builds a Replace operation over [start, end) with replacement text.
func NewReplace(start, end Position, text string, user ids.ID, ts time.Time) Operation {
	return Operation{Kind: Replace, Start: start, End: end, Text: text, UserID: user, Timestamp: ts}
}

// Range returns the operation's affected half-open range: Insert's is
// [position, Advance(position,text)); Delete/Replace's is [start, end).
func (o Operation) Range() (Position, Position) {
	switch o.Kind {
	case Insert:
		return o.Position, Advance(o.Position, o.Text)
	default:
		return o.Start, o.End
	}
}

// DecomposeReplace splits a Replace operation into the Delete then Insert
// it is semantically defined as. Calling it on a non-Replace operation
// returns two zero Operations and ok == false.
func (o Operation) DecomposeReplace() (del Operation, ins Operation, ok bool) {
	if o.Kind != Replace {
		return Operation{}, Operation{}, false
	}
	del = NewDelete(o.Start, o.End, o.UserID, o.Timestamp)
	ins = NewInsert(o.Start, o.Text, o.UserID, o.Timestamp)
	return del, ins, true
}

// RecomposeReplace rebuilds a Replace operation from its Delete∘Insert
// decomposition after both halves have been independently transformed.
// The halves' transformed starts can differ (an insert at the replaced
// range's start shifts the insert half but only extends the delete half),
// so Start is taken from the insert half and End from the delete half's
// (already transformed) end.
func RecomposeReplace(del, ins Operation) Operation {
	return Operation{
		Kind:      Replace,
		Start:     ins.Position,
		End:       del.End,
		Text:      ins.Text,
		UserID:    ins.UserID,
		Timestamp: ins.Timestamp,
	}
}
