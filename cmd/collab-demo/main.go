// Command collab-demo runs the conflict-detection and resolution pipeline
// over a couple of scripted scenarios and prints the resulting documents.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/humancuration/cpc-shtairir/internal/support/ids"
	"github.com/humancuration/cpc-shtairir/pkg/collab/conflict"
	"github.com/humancuration/cpc-shtairir/pkg/collab/detect"
	"github.com/humancuration/cpc-shtairir/pkg/collab/op"
	"github.com/humancuration/cpc-shtairir/pkg/collab/resolver"
)

type stdoutEvents struct{}

func (stdoutEvents) Publish(e resolver.Event) error {
	fmt.Printf("event: %s %v\n", e.EventType, e.Payload)
	return nil
}

type stdoutVersions struct{ n uint64 }

func (s *stdoutVersions) AppendVersion(req resolver.AppendVersionRequest) (uint64, error) {
	s.n++
	fmt.Printf("version %d: %q (%s)\n", s.n, req.Content, req.CommitMessage)
	return s.n, nil
}

type presence struct {
	tiers map[string]resolver.QosTier
}

func (p presence) GetUserPresence(userID string) (resolver.Presence, bool) {
	tier, ok := p.tiers[userID]
	if !ok {
		return resolver.Presence{}, false
	}
	return resolver.Presence{QosTier: tier}, true
}

func main() {
	fmt.Println("Collaboration conflict resolver demo")
	now := time.Now()

	otConvergenceDemo(now)
	priorityResolutionDemo(now)
}

// otConvergenceDemo mirrors the OT convergence scenario: two concurrent
// operations on the same document, applied in either order after
// transformation, must converge to the same content.
func otConvergenceDemo(now time.Time) {
	fmt.Println("\n--- OT convergence ---")
	u1, u2 := ids.New(), ids.New()
	content := "hello world"

	insert := op.NewInsert(op.Position{Line: 0, Column: 5}, "-cruel", u1, now)
	deleteOp := op.NewDelete(op.Position{Line: 0, Column: 6}, op.Position{Line: 0, Column: 11}, u2, now)

	conflicts := detect.Detect("doc-ot", []op.Operation{insert, deleteOp}, now)
	fmt.Printf("detected %d conflict(s)\n", len(conflicts))

	events := stdoutEvents{}
	versions := &stdoutVersions{}
	r := resolver.New("doc-ot", nil, versions, events, now)
	r.SetDocumentContent(content)

	for _, c := range conflicts {
		c.StrategyKind = conflict.Merge
		r.AddConflict(c)
		if err := r.Resolve(context.Background(), c.ID, now); err != nil {
			fmt.Println("resolve failed:", err)
			return
		}
		result := content
		for _, resolved := range c.ResolvedOperations {
			result = op.Apply(result, resolved)
		}
		fmt.Printf("resolved content: %q\n", result)
	}
}

// priorityResolutionDemo mirrors the priority-resolution scenario: equal
// timestamps, one user with better presence wins ordering.
func priorityResolutionDemo(now time.Time) {
	fmt.Println("\n--- Priority resolution ---")
	uA, uB := ids.New(), ids.New()

	insA := op.NewInsert(op.Position{Line: 0, Column: 0}, "Hi", uA, now)
	insB := op.NewInsert(op.Position{Line: 0, Column: 0}, "Hello", uB, now)

	pres := presence{tiers: map[string]resolver.QosTier{
		uA.String(): resolver.QosTier0,
		uB.String(): resolver.QosTier2,
	}}
	events := stdoutEvents{}
	versions := &stdoutVersions{}
	r := resolver.New("doc-priority", pres, versions, events, now)
	r.SetDocumentContent("")

	c := conflict.New("doc-priority", []op.Operation{insA, insB}, now)
	c.StrategyKind = conflict.UserPriority
	r.AddConflict(c)

	if err := r.Resolve(context.Background(), c.ID, now); err != nil {
		fmt.Println("resolve failed:", err)
		return
	}

	result := ""
	for _, resolved := range c.ResolvedOperations {
		result = op.Apply(result, resolved)
	}
	fmt.Printf("resolved content: %q\n", result)
}
