package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/humancuration/cpc-shtairir/pkg/shtairir/manifest"
)

// Scenario 1: simple acyclic graph A(out:i64) -> B(in:i64,out:i64) -> C(in:i64).
func TestScenarioSimpleAcyclicGraph(t *testing.T) {
	nodes := []manifest.Node{
		blockNode("A", "acme/source", nil, []manifest.PortDecl{i64Port("out")}),
		blockNode("B", "acme/transform", []manifest.PortDecl{i64Port("in")}, []manifest.PortDecl{i64Port("out")}),
		blockNode("C", "acme/sink", []manifest.PortDecl{i64Port("in")}, nil),
	}
	edges := []manifest.Edge{
		{ID: "e1", From: manifest.EndpointRef{Node: "A", Port: "out"}, To: manifest.EndpointRef{Node: "B", Port: "in"}},
		{ID: "e2", From: manifest.EndpointRef{Node: "B", Port: "out"}, To: manifest.EndpointRef{Node: "C", Port: "in"}},
	}
	g := baseGraph(nodes, edges)
	assert.Nil(t, Graph(g))
}

// Scenario 2: invalid cycle A -> B -> C -> A with no stateful breaker.
func TestScenarioInvalidCycle(t *testing.T) {
	nodes := []manifest.Node{
		blockNode("A", "acme/a", []manifest.PortDecl{i64Port("in")}, []manifest.PortDecl{i64Port("out")}),
		blockNode("B", "acme/b", []manifest.PortDecl{i64Port("in")}, []manifest.PortDecl{i64Port("out")}),
		blockNode("C", "acme/c", []manifest.PortDecl{i64Port("in")}, []manifest.PortDecl{i64Port("out")}),
	}
	edges := []manifest.Edge{
		{ID: "e1", From: manifest.EndpointRef{Node: "A", Port: "out"}, To: manifest.EndpointRef{Node: "B", Port: "in"}},
		{ID: "e2", From: manifest.EndpointRef{Node: "B", Port: "out"}, To: manifest.EndpointRef{Node: "C", Port: "in"}},
		{ID: "e3", From: manifest.EndpointRef{Node: "C", Port: "out"}, To: manifest.EndpointRef{Node: "A", Port: "in"}},
	}
	g := baseGraph(nodes, edges)
	report := Graph(g)
	if assert.NotNil(t, report) {
		if assert.Len(t, report.Cycles, 1) {
			assert.False(t, report.Cycles[0].HasStatefulBreaker)
			assert.ElementsMatch(t, []string{"A", "B", "C"}, report.Cycles[0].NodeIDs[:3])
		}
	}
}

// Scenario 3: valid cycle broken by a fold node.
func TestScenarioValidCycleWithFold(t *testing.T) {
	nodes := []manifest.Node{
		blockNode("N1", "acme/n1", []manifest.PortDecl{i64Port("in")}, []manifest.PortDecl{i64Port("out")}),
		blockNode("Fold", "std.stream/fold", []manifest.PortDecl{i64Port("in")}, []manifest.PortDecl{i64Port("out")}),
		blockNode("N3", "acme/n3", []manifest.PortDecl{i64Port("in")}, []manifest.PortDecl{i64Port("out")}),
	}
	edges := []manifest.Edge{
		{ID: "e1", From: manifest.EndpointRef{Node: "N1", Port: "out"}, To: manifest.EndpointRef{Node: "Fold", Port: "in"}},
		{ID: "e2", From: manifest.EndpointRef{Node: "Fold", Port: "out"}, To: manifest.EndpointRef{Node: "N3", Port: "in"}},
		{ID: "e3", From: manifest.EndpointRef{Node: "N3", Port: "out"}, To: manifest.EndpointRef{Node: "N1", Port: "in"}},
	}
	g := baseGraph(nodes, edges)
	assert.Nil(t, Graph(g))
}

// Scenario 4: two producers feeding one Stream<i64> input, neither using Merge.
func TestScenarioUnmergedStreamContention(t *testing.T) {
	nodes := []manifest.Node{
		blockNode("P1", "acme/p1", nil, []manifest.PortDecl{streamPort("out")}),
		blockNode("P2", "acme/p2", nil, []manifest.PortDecl{streamPort("out")}),
		blockNode("Sink", "acme/sink", []manifest.PortDecl{streamPort("in")}, nil),
	}
	edges := []manifest.Edge{
		{ID: "e1", From: manifest.EndpointRef{Node: "P1", Port: "out"}, To: manifest.EndpointRef{Node: "Sink", Port: "in"},
			Policy: manifest.EdgePolicy{Adapter: manifest.AdapterNone}},
		{ID: "e2", From: manifest.EndpointRef{Node: "P2", Port: "out"}, To: manifest.EndpointRef{Node: "Sink", Port: "in"},
			Policy: manifest.EdgePolicy{Adapter: manifest.AdapterNone}},
	}
	g := baseGraph(nodes, edges)
	report := Graph(g)
	if assert.NotNil(t, report) {
		found := false
		for _, e := range report.Others {
			if e.Kind == UnmergedStreamContention {
				found = true
			}
		}
		assert.True(t, found)
	}
}

func TestStreamContentionAllowedWithMerge(t *testing.T) {
	nodes := []manifest.Node{
		blockNode("P1", "acme/p1", nil, []manifest.PortDecl{streamPort("out")}),
		blockNode("P2", "acme/p2", nil, []manifest.PortDecl{streamPort("out")}),
		blockNode("Sink", "acme/sink", []manifest.PortDecl{streamPort("in")}, nil),
	}
	merge := manifest.EdgePolicy{Adapter: manifest.AdapterMerge, AdapterParams: &manifest.AdapterParams{MergeStrategy: "round_robin"}}
	edges := []manifest.Edge{
		{ID: "e1", From: manifest.EndpointRef{Node: "P1", Port: "out"}, To: manifest.EndpointRef{Node: "Sink", Port: "in"}, Policy: merge},
		{ID: "e2", From: manifest.EndpointRef{Node: "P2", Port: "out"}, To: manifest.EndpointRef{Node: "Sink", Port: "in"}, Policy: merge},
	}
	g := baseGraph(nodes, edges)
	assert.Nil(t, Graph(g))
}

func TestEdgeTypeMismatch(t *testing.T) {
	nodes := []manifest.Node{
		blockNode("A", "acme/a", nil, []manifest.PortDecl{{PortID: "out", Name: "out", Type: i64Port("out").Type, Kind: manifest.PortValue}}),
		blockNode("B", "acme/b", []manifest.PortDecl{{PortID: "in", Name: "in", Type: streamPort("in").Type, Kind: manifest.PortStream}}, nil),
	}
	edges := []manifest.Edge{
		{ID: "e1", From: manifest.EndpointRef{Node: "A", Port: "out"}, To: manifest.EndpointRef{Node: "B", Port: "in"}},
	}
	g := baseGraph(nodes, edges)
	report := Graph(g)
	if assert.NotNil(t, report) {
		found := false
		for _, e := range report.Others {
			if e.Kind == EdgeTypeMismatch {
				found = true
			}
		}
		assert.True(t, found)
	}
}

func TestMacroNodeIllegal(t *testing.T) {
	nodes := []manifest.Node{
		{ID: "M1", Kind: manifest.NodeMacro},
	}
	g := baseGraph(nodes, nil)
	report := Graph(g)
	if assert.NotNil(t, report) {
		found := false
		for _, e := range report.Others {
			if e.Kind == IllegalMacroNode {
				found = true
			}
		}
		assert.True(t, found)
	}
}
