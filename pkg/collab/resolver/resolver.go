// Package resolver owns, per document, the set of detected conflicts and
// drives their resolution against pluggable presence, persistence, and
// notification collaborators.
package resolver

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/humancuration/cpc-shtairir/internal/support/ids"
	"github.com/humancuration/cpc-shtairir/internal/support/log"
	"github.com/humancuration/cpc-shtairir/pkg/collab/conflict"
	"github.com/humancuration/cpc-shtairir/pkg/collab/op"
)

// ConflictResolver tracks one document's conflicts and resolves them.
// All mutating methods are serialized through an internal mutex, matching
// the cooperative single-threaded-per-document model: callers may invoke
// it from multiple goroutines safely, but resolution of different
// conflicts on the same document is still totally ordered.
type ConflictResolver struct {
	mu sync.Mutex
	// resolveMu is held for the whole of each Resolve call, so resolutions
	// on this document run one at a time.
	resolveMu sync.Mutex

	documentID      string
	conflicts       map[ids.ID]*conflict.Conflict
	userPriorities  map[ids.ID]int32
	documentContent string
	createdAt       time.Time
	updatedAt       time.Time

	presence PresenceProvider
	versions VersionSink
	events   EventSink
	log      *log.Logger
}

// New builds an empty ConflictResolver for documentID.
func New(documentID string, presence PresenceProvider, versions VersionSink, events EventSink, now time.Time) *ConflictResolver {
	return &ConflictResolver{
		documentID:     documentID,
		conflicts:      make(map[ids.ID]*conflict.Conflict),
		userPriorities: make(map[ids.ID]int32),
		createdAt:      now,
		updatedAt:      now,
		presence:       presence,
		versions:       versions,
		events:         events,
		log:            log.Default("collab.resolver"),
	}
}

// SetUserPriority sets a user's base priority for the UserPriority strategy.
func (r *ConflictResolver) SetUserPriority(user ids.ID, priority int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userPriorities[user] = priority
}

// SetDocumentContent replaces the content used for range-length arithmetic.
func (r *ConflictResolver) SetDocumentContent(content string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.documentContent = content
}

// DocumentContent returns a copy-on-read snapshot of the tracked content.
func (r *ConflictResolver) DocumentContent() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.documentContent
}

// AddConflict registers c and emits a ConflictDetected event. Event
// emission failures are swallowed; the conflict is registered regardless.
func (r *ConflictResolver) AddConflict(c *conflict.Conflict) {
	r.mu.Lock()
	r.conflicts[c.ID] = c
	r.mu.Unlock()

	r.publish(Event{
		Source:    "collab.resolver",
		EventType: "ConflictDetected",
		Payload: map[string]any{
			"document_id": r.documentID,
			"conflict_id": c.ID.String(),
			"strategy":    c.StrategyKind.String(),
		},
	})
}

// UnresolvedConflicts returns every tracked conflict not yet resolved.
func (r *ConflictResolver) UnresolvedConflicts() []*conflict.Conflict {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*conflict.Conflict
	for _, c := range r.conflicts {
		if !c.Resolved {
			out = append(out, c)
		}
	}
	return out
}

// Conflict returns the tracked conflict by id, if any.
func (r *ConflictResolver) Conflict(id ids.ID) (*conflict.Conflict, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conflicts[id]
	return c, ok
}

func (r *ConflictResolver) publish(e Event) {
	if r.events == nil {
		return
	}
	if err := r.events.Publish(e); err != nil {
		r.log.Warn("event publish failed", log.String("event_type", e.EventType), log.Err(err))
	}
}

// Resolve applies conflictID's strategy. It is idempotent: resolving an
// already-resolved conflict is a no-op. If ctx is cancelled after
// transformation completes but before persistence, the conflict is left
// untouched rather than partially resolved.
func (r *ConflictResolver) Resolve(ctx context.Context, conflictID ids.ID, now time.Time) error {
	r.resolveMu.Lock()
	defer r.resolveMu.Unlock()

	r.mu.Lock()
	c, ok := r.conflicts[conflictID]
	r.mu.Unlock()
	if !ok {
		return newErr(ConflictNotFound, conflictID.String(), "no such conflict", nil)
	}

	r.mu.Lock()
	alreadyResolved := c.Resolved
	r.mu.Unlock()
	if alreadyResolved {
		return nil
	}

	if len(c.ConflictingOperations) < 2 {
		return newErr(StrategyPrecondition, conflictID.String(), "conflict has fewer than two operations", nil)
	}

	if c.StrategyKind == conflict.Manual {
		r.mu.Lock()
		c.ResolvedOperations = append([]op.Operation(nil), c.ConflictingOperations...)
		r.mu.Unlock()
		r.publish(Event{
			Source:    "collab.resolver",
			EventType: "ManualResolutionRequired",
			Payload: map[string]any{
				"document_id": r.documentID,
				"conflict_id": c.ID.String(),
			},
		})
		return nil
	}

	resolvedOps, records, err := r.computeResolution(c, now)
	if err != nil {
		return newErr(TransformationFailed, conflictID.String(), "transform chain failed", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	encodedOps, err := json.Marshal(resolvedOps)
	if err != nil {
		return newErr(TransformationFailed, conflictID.String(), "encode resolved operations", err)
	}

	versionNumber, err := r.versions.AppendVersion(AppendVersionRequest{
		DocumentID:    r.documentID,
		Content:       r.DocumentContent(),
		Operations:    encodedOps,
		AuthorID:      "",
		AuthorName:    "",
		CommitMessage: "Conflict resolution",
		Metadata: map[string]any{
			"strategy": c.StrategyKind.String(),
			"conflict": c.ID.String(),
		},
	})
	if err != nil {
		return newErr(PersistenceFailed, conflictID.String(), "version append failed", err)
	}

	r.mu.Lock()
	resolvedAt := now
	c.CommitTransformations(records)
	c.ResolvedOperations = resolvedOps
	c.Resolved = true
	c.ResolvedAt = &resolvedAt
	r.updatedAt = now
	r.mu.Unlock()

	r.publish(Event{
		Source:    "collab.resolver",
		EventType: "ConflictResolved",
		Payload: map[string]any{
			"document_id":    r.documentID,
			"conflict_id":    c.ID.String(),
			"strategy":       c.StrategyKind.String(),
			"version_number": versionNumber,
		},
	})
	return nil
}
