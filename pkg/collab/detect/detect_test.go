package detect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humancuration/cpc-shtairir/internal/support/ids"
	"github.com/humancuration/cpc-shtairir/pkg/collab/op"
)

func TestDetectOverlappingDeletes(t *testing.T) {
	u1, u2 := ids.New(), ids.New()
	now := time.Now()
	a := op.NewDelete(op.Position{Line: 0, Column: 0}, op.Position{Line: 0, Column: 3}, u1, now)
	b := op.NewDelete(op.Position{Line: 0, Column: 2}, op.Position{Line: 0, Column: 5}, u2, now)

	conflicts := Detect("doc1", []op.Operation{a, b}, now)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "position_overlap", conflicts[0].Metadata.DetectionMethod)
}

func TestDetectDisjointOperationsNoConflict(t *testing.T) {
	u1, u2 := ids.New(), ids.New()
	now := time.Now()
	a := op.NewDelete(op.Position{Line: 0, Column: 0}, op.Position{Line: 0, Column: 2}, u1, now)
	b := op.NewDelete(op.Position{Line: 0, Column: 5}, op.Position{Line: 0, Column: 7}, u2, now)

	conflicts := Detect("doc1", []op.Operation{a, b}, now)
	assert.Len(t, conflicts, 0)
}

func TestDetectThreeWayOnlyOverlappingPairs(t *testing.T) {
	u := ids.New()
	now := time.Now()
	a := op.NewDelete(op.Position{Line: 0, Column: 0}, op.Position{Line: 0, Column: 2}, u, now)
	b := op.NewDelete(op.Position{Line: 0, Column: 1}, op.Position{Line: 0, Column: 3}, u, now)
	c := op.NewDelete(op.Position{Line: 0, Column: 10}, op.Position{Line: 0, Column: 12}, u, now)

	conflicts := Detect("doc1", []op.Operation{a, b, c}, now)
	assert.Len(t, conflicts, 1)
}
