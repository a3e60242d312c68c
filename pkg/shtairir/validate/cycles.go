package validate

import (
	"strings"

	"github.com/humancuration/cpc-shtairir/pkg/shtairir/manifest"
)

var statefulBreakerSuffixes = map[string]bool{
	"fold": true, "reduce": true, "accumulator": true, "scan": true, "state": true,
}

// isStatefulBreaker reports whether fqBlock names a block whose behavior
// introduces a state boundary, per the suffix match on the name component
// of its fully qualified id (e.g. "std.stream/fold").
func isStatefulBreaker(fqBlock string) bool {
	name := fqBlock
	if i := strings.LastIndexByte(fqBlock, '/'); i >= 0 {
		name = fqBlock[i+1:]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return statefulBreakerSuffixes[name]
}

type adjEdge struct {
	to     string
	edgeID string
}

// detectCycles runs a depth-first search from every unvisited node in
// g.Nodes order, following edges in g.Edges order, reporting every simple
// cycle found via a back edge into the current recursion stack. Traversal
// order is fixed so reports are reproducible.
func detectCycles(g *manifest.GraphSpec) []CycleDetail {
	adj := map[string][]adjEdge{}
	nodeOrder := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		nodeOrder = append(nodeOrder, n.ID)
		if _, ok := adj[n.ID]; !ok {
			adj[n.ID] = nil
		}
	}
	for _, e := range g.Edges {
		adj[e.From.Node] = append(adj[e.From.Node], adjEdge{to: e.To.Node, edgeID: e.ID})
	}

	fqBlockByNode := map[string]string{}
	for _, n := range g.Nodes {
		fqBlockByNode[n.ID] = n.FqBlock
	}

	visited := map[string]bool{}
	onStack := map[string]bool{}
	var path []string
	var pathEdges []string
	var cycles []CycleDetail

	var dfs func(node string)
	dfs = func(node string) {
		visited[node] = true
		onStack[node] = true
		path = append(path, node)

		for _, e := range adj[node] {
			if onStack[e.to] {
				idx := indexOf(path, e.to)
				cycleNodes := append([]string{}, path[idx:]...)
				cycleNodes = append(cycleNodes, e.to)
				cycleEdges := append([]string{}, pathEdges[idx:]...)
				cycleEdges = append(cycleEdges, e.edgeID)
				cycles = append(cycles, buildCycleDetail(cycleNodes, cycleEdges, fqBlockByNode))
				continue
			}
			if !visited[e.to] {
				pathEdges = append(pathEdges, e.edgeID)
				dfs(e.to)
				pathEdges = pathEdges[:len(pathEdges)-1]
			}
		}

		path = path[:len(path)-1]
		onStack[node] = false
	}

	for _, n := range nodeOrder {
		if !visited[n] {
			dfs(n)
		}
	}

	return cycles
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

func buildCycleDetail(nodeIDs, edgeIDs []string, fqBlockByNode map[string]string) CycleDetail {
	detail := CycleDetail{NodeIDs: nodeIDs, EdgeIDs: edgeIDs}
	for _, id := range nodeIDs {
		if isStatefulBreaker(fqBlockByNode[id]) {
			detail.HasStatefulBreaker = true
			detail.StatefulBreakerID = id
			break
		}
	}
	return detail
}
