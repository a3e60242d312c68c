package validate

import (
	"regexp"

	"github.com/humancuration/cpc-shtairir/pkg/shtairir/manifest"
	"github.com/humancuration/cpc-shtairir/pkg/shtairir/types"
)

var (
	nodeIDRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	edgeIDRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

// Graph validates g against G1-G13, aggregating every structural violation
// plus every detected cycle into a single *GraphError rather than stopping
// at the first. A nil return means g is fully valid.
func Graph(g *manifest.GraphSpec) *GraphError {
	path := g.ID.String()
	report := &GraphError{Path: path}

	if g.SchemaVersion != "0.2" {
		report.Others = append(report.Others, newErr(InvalidIdentifier, path, "schema_version must be \"0.2\""))
	}
	if !g.Namespace.Valid() {
		report.Others = append(report.Others, newErr(InvalidIdentifier, path, "namespace does not match namespace grammar"))
	}
	if !nameRe.MatchString(g.Name) {
		report.Others = append(report.Others, newErr(InvalidIdentifier, path, "name does not match name grammar"))
	}

	nodeByID := map[string]manifest.Node{}
	seenNodeID := map[string]bool{}
	for _, n := range g.Nodes {
		if !nodeIDRe.MatchString(n.ID) {
			report.Others = append(report.Others, newErr(InvalidIdentifier, path, "node id malformed: "+n.ID))
		}
		if seenNodeID[n.ID] {
			report.Others = append(report.Others, newErr(InvalidIdentifier, path, "duplicate node id: "+n.ID))
		}
		seenNodeID[n.ID] = true
		nodeByID[n.ID] = n

		if n.Kind == manifest.NodeMacro {
			report.Others = append(report.Others, newErr(IllegalMacroNode, path, "macro node "+n.ID+" must be lowered before publication"))
		}
		if n.Kind == manifest.NodeBlock || n.Kind == manifest.NodeSubgraph {
			if n.FqBlock == "" || n.VersionReq == "" {
				report.Others = append(report.Others, newErr(InvalidIdentifier, path, "node "+n.ID+" missing fq_block/version_req"))
			} else if _, err := manifest.ParseVersionReq(n.VersionReq); err != nil {
				report.Others = append(report.Others, newErr(InvalidIdentifier, path, "node "+n.ID+" version_req malformed: "+err.Error()))
			}
		}
		if n.PurityLevel != nil && *n.PurityLevel == manifest.Pure && len(n.Effects) > 0 {
			report.Others = append(report.Others, newErr(PurityViolation, path, "pure node "+n.ID+" declares effects"))
		}
		for _, eff := range n.Effects {
			if !validEffectString(string(eff)) {
				report.Others = append(report.Others, newErr(InvalidEffect, path, "node "+n.ID+": malformed effect: "+string(eff)))
			}
		}
	}

	seenEdgeID := map[string]bool{}
	// contention tracks, per (node,port) consumer, every adapter kind feeding it.
	type consumerKey struct{ node, port string }
	contention := map[consumerKey][]manifest.AdapterKind{}

	for _, e := range g.Edges {
		if !edgeIDRe.MatchString(e.ID) {
			report.Others = append(report.Others, newErr(InvalidIdentifier, path, "edge id malformed: "+e.ID))
		}
		if seenEdgeID[e.ID] {
			report.Others = append(report.Others, newErr(InvalidIdentifier, path, "duplicate edge id: "+e.ID))
		}
		seenEdgeID[e.ID] = true

		fromNode, ok := nodeByID[e.From.Node]
		if !ok {
			report.Others = append(report.Others, newErr(UnknownNodeReference, path, "edge "+e.ID+" references unknown from node: "+e.From.Node))
			continue
		}
		toNode, ok := nodeByID[e.To.Node]
		if !ok {
			report.Others = append(report.Others, newErr(UnknownNodeReference, path, "edge "+e.ID+" references unknown to node: "+e.To.Node))
			continue
		}

		fromPort, ok := findPort(fromNode.Outputs, e.From.Port)
		if !ok {
			report.Others = append(report.Others, newErr(UnknownPortReference, path, "edge "+e.ID+" references unknown output port: "+e.From.Port))
			continue
		}
		toPort, ok := findPort(toNode.Inputs, e.To.Port)
		if !ok {
			report.Others = append(report.Others, newErr(UnknownPortReference, path, "edge "+e.ID+" references unknown input port: "+e.To.Port))
			continue
		}

		if !types.IsCompatibleWith(fromPort.Type, toPort.Type) {
			report.Others = append(report.Others, newErr(EdgeTypeMismatch, path, "edge "+e.ID+": "+fromPort.Type.String()+" not compatible with "+toPort.Type.String()))
		}

		if e.Policy.Adapter != manifest.AdapterNone && toPort.Kind != manifest.PortStream {
			report.Others = append(report.Others, newErr(InvalidAdapter, path, "edge "+e.ID+": adapter requires a Stream<T> consumer port"))
		}

		if toPort.Kind == manifest.PortStream {
			key := consumerKey{node: toNode.ID, port: toPort.PortID}
			contention[key] = append(contention[key], e.Policy.Adapter)
		}
	}

	for _, adapters := range contention {
		if len(adapters) < 2 {
			continue
		}
		for _, a := range adapters {
			if a != manifest.AdapterMerge {
				report.Others = append(report.Others, newErr(UnmergedStreamContention, path, "stream input fed by multiple producers has a non-Merge adapter"))
				break
			}
		}
	}

	seenExport := map[string]bool{}
	for _, exp := range g.Exports {
		if seenExport[exp.ExportID] {
			report.Others = append(report.Others, newErr(DuplicateExport, path, "duplicate export id: "+exp.ExportID))
		}
		seenExport[exp.ExportID] = true
		n, ok := nodeByID[exp.InnerNode]
		if !ok {
			report.Others = append(report.Others, newErr(UnknownNodeReference, path, "export "+exp.ExportID+" references unknown node: "+exp.InnerNode))
			continue
		}
		if _, ok := findPort(append(append([]manifest.PortDecl{}, n.Inputs...), n.Outputs...), exp.InnerPort); !ok {
			report.Others = append(report.Others, newErr(UnknownPortReference, path, "export "+exp.ExportID+" references unknown port: "+exp.InnerPort))
		}
	}

	if err := validateEngine(path, g.Engine); err != nil {
		report.Others = append(report.Others, err.(*Error))
	}

	for _, cyc := range detectCycles(g) {
		report.Cycles = append(report.Cycles, cyc)
	}

	if !report.HasViolations() {
		return nil
	}
	return report
}

func findPort(ports []manifest.PortDecl, id string) (manifest.PortDecl, bool) {
	for _, p := range ports {
		if p.PortID == id {
			return p, true
		}
	}
	return manifest.PortDecl{}, false
}
