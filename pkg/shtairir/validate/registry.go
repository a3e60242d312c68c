package validate

import (
	"github.com/humancuration/cpc-shtairir/internal/support/log"
	"github.com/humancuration/cpc-shtairir/pkg/shtairir/registry"
)

// Report aggregates every validation outcome across a whole registry: the
// first block-level error per offending block, and the full GraphError per
// offending graph. An empty Report means the registry is fully valid.
type Report struct {
	BlockErrors map[string]error
	GraphErrors map[string]*GraphError
}

// OK reports whether the registry passed every invariant.
func (r *Report) OK() bool {
	return len(r.BlockErrors) == 0 && len(r.GraphErrors) == 0
}

// Registry validates every block and graph a Registry holds. It is
// idempotent and has no side effects on the registry itself.
func Registry(reg *registry.Registry) *Report {
	report := &Report{
		BlockErrors: map[string]error{},
		GraphErrors: map[string]*GraphError{},
	}

	for _, b := range reg.Blocks() {
		if err := Block(b); err != nil {
			report.BlockErrors[b.ID.String()] = err
		}
	}
	for _, g := range reg.Graphs() {
		if err := Graph(g); err != nil {
			report.GraphErrors[g.ID.String()] = err
		}
	}

	if !report.OK() {
		log.Default("validate").Warn("registry validation failed",
			log.Int("block_errors", len(report.BlockErrors)),
			log.Int("graph_errors", len(report.GraphErrors)))
	}
	return report
}
