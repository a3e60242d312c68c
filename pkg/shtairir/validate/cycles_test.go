package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/humancuration/cpc-shtairir/pkg/shtairir/manifest"
)

func TestIsStatefulBreakerSuffixMatch(t *testing.T) {
	assert.True(t, isStatefulBreaker("std.stream/fold"))
	assert.True(t, isStatefulBreaker("std.stream/reduce"))
	assert.True(t, isStatefulBreaker("acme/widgets.accumulator"))
	assert.False(t, isStatefulBreaker("std.stream/map"))
	assert.False(t, isStatefulBreaker(""))
}

// Two independent cycles in the same graph: one broken by a fold node, one not.
func TestMultipleCyclesOneValidOneInvalid(t *testing.T) {
	nodes := []manifest.Node{
		blockNode("A", "acme/a", []manifest.PortDecl{i64Port("in")}, []manifest.PortDecl{i64Port("out")}),
		blockNode("B", "acme/b", []manifest.PortDecl{i64Port("in")}, []manifest.PortDecl{i64Port("out")}),
		blockNode("Fold", "std.stream/fold", []manifest.PortDecl{i64Port("in")}, []manifest.PortDecl{i64Port("out")}),
		blockNode("D", "acme/d", []manifest.PortDecl{i64Port("in")}, []manifest.PortDecl{i64Port("out")}),
	}
	edges := []manifest.Edge{
		{ID: "e1", From: manifest.EndpointRef{Node: "A", Port: "out"}, To: manifest.EndpointRef{Node: "B", Port: "in"}},
		{ID: "e2", From: manifest.EndpointRef{Node: "B", Port: "out"}, To: manifest.EndpointRef{Node: "A", Port: "in"}},
		{ID: "e3", From: manifest.EndpointRef{Node: "Fold", Port: "out"}, To: manifest.EndpointRef{Node: "D", Port: "in"}},
		{ID: "e4", From: manifest.EndpointRef{Node: "D", Port: "out"}, To: manifest.EndpointRef{Node: "Fold", Port: "in"}},
	}
	g := baseGraph(nodes, edges)
	report := Graph(g)
	if assert.NotNil(t, report) {
		assert.Equal(t, 2, len(report.Cycles))
		invalidCount, validCount := 0, 0
		for _, c := range report.Cycles {
			if c.HasStatefulBreaker {
				validCount++
				assert.Equal(t, "Fold", c.StatefulBreakerID)
			} else {
				invalidCount++
				assert.Empty(t, c.StatefulBreakerID)
			}
		}
		assert.Equal(t, 1, invalidCount)
		assert.Equal(t, 1, validCount)
	}
}
