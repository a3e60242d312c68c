package testsupport

import (
	"time"

	"github.com/humancuration/cpc-shtairir/internal/support/ids"
	"github.com/humancuration/cpc-shtairir/pkg/collab/conflict"
	"github.com/humancuration/cpc-shtairir/pkg/collab/op"
)

// ConflictBuilder assembles a Conflict one operation at a time for detector
// and resolver tests.
type ConflictBuilder struct {
	documentID string
	now        time.Time
	ops        []op.Operation
	strategy   conflict.Strategy
}

// NewConflictBuilder starts a builder for documentID, timestamping
// operations it generates from now.
func NewConflictBuilder(documentID string, now time.Time) *ConflictBuilder {
	return &ConflictBuilder{documentID: documentID, now: now}
}

// Insert appends an Insert operation authored by user at pos.
func (b *ConflictBuilder) Insert(user ids.ID, line, col uint32, text string) *ConflictBuilder {
	b.ops = append(b.ops, op.NewInsert(op.Position{Line: line, Column: col}, text, user, b.now))
	return b
}

// Delete appends a Delete operation authored by user over [startCol,endCol)
// on a single line.
func (b *ConflictBuilder) Delete(user ids.ID, line, startCol, endCol uint32) *ConflictBuilder {
	start := op.Position{Line: line, Column: startCol}
	end := op.Position{Line: line, Column: endCol}
	b.ops = append(b.ops, op.NewDelete(start, end, user, b.now))
	return b
}

// WithStrategy sets the resolution strategy the built Conflict will carry.
func (b *ConflictBuilder) WithStrategy(s conflict.Strategy) *ConflictBuilder {
	b.strategy = s
	return b
}

// Build returns the assembled Conflict.
func (b *ConflictBuilder) Build() *conflict.Conflict {
	c := conflict.New(b.documentID, b.ops, b.now)
	c.StrategyKind = b.strategy
	return c
}
