package manifest

import "github.com/humancuration/cpc-shtairir/pkg/shtairir/types"

// NodeKind discriminates the kinds of node a graph may contain.
type NodeKind int

const (
	NodeBlock NodeKind = iota
	NodeSubgraph
	NodeMacro // illegal in a publishable registry; must be lowered before validation passes
)

// PortDecl is a node-level port declaration; unlike PortSpec, Kind is required.
type PortDecl struct {
	PortID string
	Name   string
	Type   *types.Type
	Kind   PortKind
}

// Node is one vertex of a GraphSpec's topology.
type Node struct {
	ID          string
	Kind        NodeKind
	FqBlock     string // "namespace/name", required for Block/Subgraph
	VersionReq  string // raw source text, required for Block/Subgraph
	Inputs      []PortDecl
	Outputs     []PortDecl
	Effects     []EffectString
	PurityLevel *Purity // optional; nil means unset
}

// AdapterKind is the per-edge rewriting policy for how a value reaches its consumer.
type AdapterKind int

const (
	AdapterNone AdapterKind = iota
	AdapterMerge
	AdapterZip
	AdapterMap
	AdapterFilter
)

// AdapterParams is a tagged variant matching the owning EdgePolicy's AdapterKind.
type AdapterParams struct {
	MergeStrategy string // used when Kind == AdapterMerge, e.g. "round_robin", "priority"
	MapExpr       string // used when Kind == AdapterMap
	FilterExpr    string // used when Kind == AdapterFilter
	ZipMode       string // used when Kind == AdapterZip
}

// EdgePolicy governs how an edge's value is adapted and prioritized.
type EdgePolicy struct {
	Adapter       AdapterKind
	AdapterParams *AdapterParams
	Priority      int32
}

// EndpointRef names a (node, port) pair.
type EndpointRef struct {
	Node string
	Port string
}

// Edge connects one node's output port to another node's input port.
type Edge struct {
	ID     string
	From   EndpointRef
	To     EndpointRef
	Policy EdgePolicy
}

// Export re-exposes an inner (node, port) pair at the graph boundary.
type Export struct {
	ExportID   string
	InnerNode  string
	InnerPort  string
}

// ModuleDependency names a required module and the version range accepted.
type ModuleDependency struct {
	Module     Namespace
	VersionReq string
}

// GraphSpec is a directed multigraph of block/subgraph nodes wired by edges.
type GraphSpec struct {
	ID            FullyQualifiedId
	Namespace     Namespace
	Name          string
	Title         string
	Version       *Version
	SchemaVersion string

	Requires []ModuleDependency

	Generics []GenericParam
	Exports  []Export
	Effects  []EffectString
	Engine   EngineRequirement

	Integrity *Integrity

	Nodes []Node
	Edges []Edge
}
