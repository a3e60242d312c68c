// Package detect finds pairwise range overlaps among a batch of concurrent
// operations.
package detect

import (
	"time"

	"github.com/humancuration/cpc-shtairir/pkg/collab/conflict"
	"github.com/humancuration/cpc-shtairir/pkg/collab/op"
)

// Detect returns one Conflict per overlapping pair (i,j), i<j, in ops. Each
// conflict defaults to the TimestampOrder strategy; callers may override it
// before resolution.
func Detect(documentID string, ops []op.Operation, now time.Time) []*conflict.Conflict {
	var out []*conflict.Conflict
	for i := 0; i < len(ops); i++ {
		for j := i + 1; j < len(ops); j++ {
			if operationsConflict(ops[i], ops[j]) {
				out = append(out, conflict.New(documentID, []op.Operation{ops[i], ops[j]}, now))
			}
		}
	}
	return out
}

// operationsConflict reports whether a and b's affected ranges overlap,
// under half-open range semantics: !(a.end <= b.start || b.end <= a.start).
func operationsConflict(a, b op.Operation) bool {
	aStart, aEnd := a.Range()
	bStart, bEnd := b.Range()
	if aEnd.LessEq(bStart) {
		return false
	}
	if bEnd.LessEq(aStart) {
		return false
	}
	return true
}
