// Package conflict holds the Conflict record and its supporting sum types,
// shared by the detector and the resolver so neither needs to import the
// other.
package conflict

import (
	"time"

	"github.com/humancuration/cpc-shtairir/internal/support/ids"
	"github.com/humancuration/cpc-shtairir/pkg/collab/op"
)

// Strategy is the pluggable conflict resolution policy.
type Strategy int

const (
	TimestampOrder Strategy = iota
	UserPriority
	Merge
	Manual
)

func (s Strategy) String() string {
	switch s {
	case TimestampOrder:
		return "TimestampOrder"
	case UserPriority:
		return "UserPriority"
	case Merge:
		return "Merge"
	case Manual:
		return "Manual"
	default:
		return "Unknown"
	}
}

// TransformationRecord is one append-only audit trail entry recorded every
// time an operation is rebased over another during resolution.
type TransformationRecord struct {
	Original          op.Operation
	Transformed       op.Operation
	TransformationType string
	Timestamp         time.Time
}

// Metadata carries how a conflict was detected and its transformation history.
type Metadata struct {
	DetectionMethod       string
	TransformationHistory []TransformationRecord
	ResolutionDetails     string
}

// Conflict is one detected overlap among concurrent operations on a document.
type Conflict struct {
	ID                     ids.ID
	DocumentID             string
	ConflictingOperations  []op.Operation
	StrategyKind           Strategy
	Resolved               bool
	ResolvedOperations     []op.Operation
	ResolvedAt             *time.Time
	CreatedAt              time.Time
	Metadata               Metadata
}

// New builds an unresolved Conflict with the default TimestampOrder strategy,
// as the detector does before a caller overrides it.
func New(documentID string, ops []op.Operation, now time.Time) *Conflict {
	return &Conflict{
		ID:                    ids.New(),
		DocumentID:            documentID,
		ConflictingOperations: ops,
		StrategyKind:          TimestampOrder,
		CreatedAt:             now,
		Metadata: Metadata{
			DetectionMethod: "position_overlap",
		},
	}
}

// CommitTransformations appends every record to the conflict's audit trail
// in one step, for a caller that computed them speculatively and is now
// certain resolution succeeded.
func (c *Conflict) CommitTransformations(records []TransformationRecord) {
	c.Metadata.TransformationHistory = append(c.Metadata.TransformationHistory, records...)
}
