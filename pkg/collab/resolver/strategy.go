package resolver

import (
	"bytes"
	"sort"
	"time"

	"github.com/humancuration/cpc-shtairir/internal/support/ids"
	"github.com/humancuration/cpc-shtairir/pkg/collab/conflict"
	"github.com/humancuration/cpc-shtairir/pkg/collab/op"
	"github.com/humancuration/cpc-shtairir/pkg/collab/transform"
)

// computeResolution sorts c's conflicting operations per its strategy and
// threads each through the transformer against every already-resolved
// operation, returning one TransformationRecord per rebase. It never
// mutates c: the caller commits the returned records only once resolution
// is durable, so a cancelled or failed Resolve leaves c untouched.
func (r *ConflictResolver) computeResolution(c *conflict.Conflict, now time.Time) ([]op.Operation, []conflict.TransformationRecord, error) {
	ordered := append([]op.Operation(nil), c.ConflictingOperations...)

	switch c.StrategyKind {
	case conflict.TimestampOrder:
		sort.SliceStable(ordered, func(i, j int) bool { return lessTimestampOrder(ordered[i], ordered[j]) })
	case conflict.UserPriority:
		priorities := r.effectivePriorities(ordered)
		idx := make([]int, len(ordered))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool {
			pi, pj := priorities[idx[a]], priorities[idx[b]]
			if pi != pj {
				return pi > pj
			}
			return ordered[idx[a]].Timestamp.Before(ordered[idx[b]].Timestamp)
		})
		sorted := make([]op.Operation, len(ordered))
		for k, i := range idx {
			sorted[k] = ordered[i]
		}
		ordered = sorted
	case conflict.Merge:
		sort.SliceStable(ordered, func(i, j int) bool {
			si, _ := ordered[i].Range()
			sj, _ := ordered[j].Range()
			return si.Less(sj)
		})
	}

	resolved := make([]op.Operation, 0, len(ordered))
	var records []conflict.TransformationRecord
	for _, o := range ordered {
		cur := o
		for _, prior := range resolved {
			transformed, err := transform.Transform(cur, prior)
			if err != nil {
				return nil, nil, err
			}
			records = append(records, conflict.TransformationRecord{
				Original:           cur,
				Transformed:        transformed,
				TransformationType: "rebase",
				Timestamp:          now,
			})
			cur = transformed
		}
		resolved = append(resolved, cur)
	}
	return resolved, records, nil
}

// lessTimestampOrder implements the TimestampOrder sort key: timestamp
// ascending, then operation-kind (Delete < Insert < Replace), then user id
// bytewise.
func lessTimestampOrder(a, b op.Operation) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.Before(b.Timestamp)
	}
	ra, rb := kindRank(a.Kind), kindRank(b.Kind)
	if ra != rb {
		return ra < rb
	}
	return bytes.Compare(idBytes(a.UserID), idBytes(b.UserID)) < 0
}

func kindRank(k op.Kind) int {
	switch k {
	case op.Delete:
		return 0
	case op.Insert:
		return 1
	case op.Replace:
		return 2
	default:
		return 3
	}
}

func idBytes(id ids.ID) []byte {
	b := [16]byte(id)
	return b[:]
}

// effectivePriorities returns, parallel to ops, base_priority(user) +
// qos_bonus(user) for the UserPriority strategy.
func (r *ConflictResolver) effectivePriorities(ops []op.Operation) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]int64, len(ops))
	for i, o := range ops {
		base := int64(r.userPriorities[o.UserID])
		out[i] = base + int64(r.qosBonus(o.UserID))
	}
	return out
}

func (r *ConflictResolver) qosBonus(user ids.ID) int {
	if r.presence == nil {
		return 0
	}
	presence, ok := r.presence.GetUserPresence(user.String())
	if !ok {
		return 0
	}
	switch presence.QosTier {
	case QosTier0:
		return 100
	case QosTier1:
		return 50
	default:
		return 0
	}
}
