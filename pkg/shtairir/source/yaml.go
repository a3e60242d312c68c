package source

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/humancuration/cpc-shtairir/internal/support/errs"
	"github.com/humancuration/cpc-shtairir/pkg/shtairir/manifest"
	"github.com/humancuration/cpc-shtairir/pkg/shtairir/types"
)

// YAML is a ManifestSource backed by a directory tree:
//
//	<root>/<namespace>/<version>/blocks/*.yaml
//	<root>/<namespace>/<version>/graphs/*.yaml
//
// This is one reasonable filesystem layout, not a requirement the core
// imposes — §6.1 leaves the format entirely up to the implementation.
type YAML struct {
	root string
}

// NewYAML returns a YAML source rooted at dir.
func NewYAML(dir string) *YAML {
	return &YAML{root: dir}
}

func (y *YAML) ListModules() ([]manifest.Namespace, error) {
	entries, err := os.ReadDir(y.root)
	if err != nil {
		return nil, errs.Wrap(err, "reading registry root")
	}
	var out []manifest.Namespace
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, manifest.Namespace(e.Name()))
		}
	}
	return out, nil
}

func (y *YAML) ListVersions(module manifest.Namespace) ([]*manifest.Version, error) {
	dir := filepath.Join(y.root, string(module))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errs.Wrapf(err, "reading module dir %s", dir)
	}
	var out []*manifest.Version
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		v, err := manifest.ParseVersion(e.Name())
		if err != nil {
			return nil, errs.Wrapf(err, "parsing version dir %s", e.Name())
		}
		out = append(out, v)
	}
	return out, nil
}

func (y *YAML) ListBlockNames(module manifest.Namespace, version *manifest.Version) ([]string, error) {
	return y.listNames(module, version, "blocks")
}

func (y *YAML) ListGraphNames(module manifest.Namespace, version *manifest.Version) ([]string, error) {
	return y.listNames(module, version, "graphs")
}

func (y *YAML) listNames(module manifest.Namespace, version *manifest.Version, kind string) ([]string, error) {
	dir := filepath.Join(y.root, string(module), version.String(), kind)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrapf(err, "reading %s dir %s", kind, dir)
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		out = append(out, strings.TrimSuffix(strings.TrimSuffix(name, ".yaml"), ".yml"))
	}
	return out, nil
}

func (y *YAML) LoadBlock(module manifest.Namespace, version *manifest.Version, name string) (*manifest.BlockSpec, error) {
	path := y.findFile(module, version, "blocks", name)
	if path == "" {
		return nil, errs.New("block file not found: " + name)
	}
	var dto blockDTO
	if err := readYAML(path, &dto); err != nil {
		return nil, err
	}
	return dto.toBlockSpec()
}

func (y *YAML) LoadGraph(module manifest.Namespace, version *manifest.Version, name string) (*manifest.GraphSpec, error) {
	path := y.findFile(module, version, "graphs", name)
	if path == "" {
		return nil, errs.New("graph file not found: " + name)
	}
	var dto graphDTO
	if err := readYAML(path, &dto); err != nil {
		return nil, err
	}
	return dto.toGraphSpec()
}

func (y *YAML) findFile(module manifest.Namespace, version *manifest.Version, kind, name string) string {
	for _, ext := range []string{".yaml", ".yml"} {
		p := filepath.Join(y.root, string(module), version.String(), kind, name+ext)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func readYAML(path string, out interface{}) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errs.Wrap(err, "reading "+path)
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return errs.Wrap(err, "decoding "+path)
	}
	return nil
}

// --- YAML DTOs: persistence-boundary shapes, converted to manifest's proper
// sum types immediately on load so the validator never pattern-matches on
// raw strings (per the "convert at the loader" guidance).

type portDTO struct {
	PortID  string      `yaml:"port_id"`
	Name    string      `yaml:"name"`
	Type    string      `yaml:"type"`
	Kind    string      `yaml:"kind,omitempty"`
	Default interface{} `yaml:"default,omitempty"`
}

func (p portDTO) toPortSpec() (manifest.PortSpec, error) {
	ty, err := types.Parse(p.Type)
	if err != nil {
		return manifest.PortSpec{}, errs.Wrapf(err, "port %s type", p.PortID)
	}
	out := manifest.PortSpec{PortID: p.PortID, Name: p.Name, Type: ty, Kind: portKindFromString(p.Kind)}
	if p.Default != nil {
		v, err := valueFromYAML(p.Default)
		if err != nil {
			return manifest.PortSpec{}, err
		}
		out.Default = &v
	}
	return out, nil
}

func portKindFromString(s string) manifest.PortKind {
	switch s {
	case "Value":
		return manifest.PortValue
	case "Stream":
		return manifest.PortStream
	case "Event":
		return manifest.PortEvent
	case "Composite":
		return manifest.PortComposite
	default:
		return manifest.PortKindUnset
	}
}

func valueFromYAML(v interface{}) (manifest.ValueLiteral, error) {
	switch x := v.(type) {
	case nil:
		return manifest.Null(), nil
	case bool:
		return manifest.Bool(x), nil
	case int:
		return manifest.I64(int64(x)), nil
	case int64:
		return manifest.I64(x), nil
	case float64:
		return manifest.F64(x), nil
	case string:
		return manifest.Str(x), nil
	case []interface{}:
		items := make([]manifest.ValueLiteral, 0, len(x))
		for _, e := range x {
			iv, err := valueFromYAML(e)
			if err != nil {
				return manifest.ValueLiteral{}, err
			}
			items = append(items, iv)
		}
		return manifest.List(items...), nil
	case map[string]interface{}:
		obj := make(map[string]manifest.ValueLiteral, len(x))
		for k, e := range x {
			iv, err := valueFromYAML(e)
			if err != nil {
				return manifest.ValueLiteral{}, err
			}
			obj[k] = iv
		}
		return manifest.Object(obj), nil
	default:
		return manifest.ValueLiteral{}, errs.New("unsupported YAML value literal")
	}
}

type engineDTO struct {
	VersionReq      string   `yaml:"version_req"`
	CapabilityFlags []string `yaml:"capability_flags,omitempty"`
}

func (e engineDTO) toEngineRequirement() manifest.EngineRequirement {
	flags := make([]manifest.EngineFlag, 0, len(e.CapabilityFlags))
	for _, f := range e.CapabilityFlags {
		flags = append(flags, manifest.EngineFlag(f))
	}
	return manifest.EngineRequirement{VersionReq: e.VersionReq, CapabilityFlags: flags}
}

type genericParamDTO struct {
	Name   string   `yaml:"name"`
	Bounds []string `yaml:"bounds,omitempty"`
}

func (g genericParamDTO) toGenericParam() manifest.GenericParam {
	bounds := make([]manifest.Capability, 0, len(g.Bounds))
	for _, b := range g.Bounds {
		bounds = append(bounds, manifest.Capability(b))
	}
	return manifest.GenericParam{Name: g.Name, Bounds: bounds}
}

type blockDTO struct {
	Namespace     string            `yaml:"namespace"`
	Name          string            `yaml:"name"`
	Version       string            `yaml:"version"`
	SchemaVersion string            `yaml:"schema_version"`
	Purity        string            `yaml:"purity"`
	Determinism   string            `yaml:"determinism"`
	Effects       []string          `yaml:"effects,omitempty"`
	Generics      []genericParamDTO `yaml:"generics,omitempty"`
	Inputs        []portDTO         `yaml:"inputs,omitempty"`
	Outputs       []portDTO         `yaml:"outputs,omitempty"`
	Params        []portDTO         `yaml:"params,omitempty"`
	Engine        engineDTO         `yaml:"engine"`
	Integrity     struct {
		ContentHash string `yaml:"content_hash"`
	} `yaml:"integrity,omitempty"`
}

func (d blockDTO) toBlockSpec() (*manifest.BlockSpec, error) {
	v, err := manifest.ParseVersion(d.Version)
	if err != nil {
		return nil, errs.Wrap(err, "block version")
	}
	b := &manifest.BlockSpec{
		ID:            manifest.FullyQualifiedId{Namespace: manifest.Namespace(d.Namespace), Name: d.Name, Version: v},
		Namespace:     manifest.Namespace(d.Namespace),
		Name:          d.Name,
		Version:       v,
		SchemaVersion: d.SchemaVersion,
		PurityLevel:   purityFromString(d.Purity),
		Determinism:   determinismFromString(d.Determinism),
		Engine:        d.Engine.toEngineRequirement(),
	}
	for _, e := range d.Effects {
		b.Effects = append(b.Effects, manifest.EffectString(e))
	}
	for _, g := range d.Generics {
		b.Generics = append(b.Generics, g.toGenericParam())
	}
	if b.Inputs, err = toPortSpecs(d.Inputs); err != nil {
		return nil, err
	}
	if b.Outputs, err = toPortSpecs(d.Outputs); err != nil {
		return nil, err
	}
	if b.Params, err = toPortSpecs(d.Params); err != nil {
		return nil, err
	}
	if d.Integrity.ContentHash != "" {
		b.Integrity = &manifest.Integrity{ContentHash: d.Integrity.ContentHash}
	}
	return b, nil
}

func toPortSpecs(dtos []portDTO) ([]manifest.PortSpec, error) {
	out := make([]manifest.PortSpec, 0, len(dtos))
	for _, p := range dtos {
		ps, err := p.toPortSpec()
		if err != nil {
			return nil, err
		}
		out = append(out, ps)
	}
	return out, nil
}

func purityFromString(s string) manifest.Purity {
	if s == "Impure" {
		return manifest.Impure
	}
	return manifest.Pure
}

func determinismFromString(s string) manifest.Determinism {
	if s == "Nondeterministic" {
		return manifest.Nondeterministic
	}
	return manifest.Deterministic
}

type portDeclDTO struct {
	PortID string `yaml:"port_id"`
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Kind   string `yaml:"kind"`
}

func (p portDeclDTO) toPortDecl() (manifest.PortDecl, error) {
	ty, err := types.Parse(p.Type)
	if err != nil {
		return manifest.PortDecl{}, errs.Wrapf(err, "port %s type", p.PortID)
	}
	return manifest.PortDecl{PortID: p.PortID, Name: p.Name, Type: ty, Kind: portKindFromString(p.Kind)}, nil
}

type nodeDTO struct {
	ID         string        `yaml:"id"`
	Kind       string        `yaml:"kind"`
	FqBlock    string        `yaml:"fq_block,omitempty"`
	VersionReq string        `yaml:"version_req,omitempty"`
	Inputs     []portDeclDTO `yaml:"inputs,omitempty"`
	Outputs    []portDeclDTO `yaml:"outputs,omitempty"`
	Effects    []string      `yaml:"effects,omitempty"`
	Purity     string        `yaml:"purity,omitempty"`
}

func (n nodeDTO) toNode() (manifest.Node, error) {
	node := manifest.Node{ID: n.ID, Kind: nodeKindFromString(n.Kind), FqBlock: n.FqBlock, VersionReq: n.VersionReq}
	for _, p := range n.Inputs {
		pd, err := p.toPortDecl()
		if err != nil {
			return manifest.Node{}, err
		}
		node.Inputs = append(node.Inputs, pd)
	}
	for _, p := range n.Outputs {
		pd, err := p.toPortDecl()
		if err != nil {
			return manifest.Node{}, err
		}
		node.Outputs = append(node.Outputs, pd)
	}
	for _, e := range n.Effects {
		node.Effects = append(node.Effects, manifest.EffectString(e))
	}
	if n.Purity != "" {
		p := purityFromString(n.Purity)
		node.PurityLevel = &p
	}
	return node, nil
}

func nodeKindFromString(s string) manifest.NodeKind {
	switch s {
	case "Subgraph":
		return manifest.NodeSubgraph
	case "Macro":
		return manifest.NodeMacro
	default:
		return manifest.NodeBlock
	}
}

type edgeDTO struct {
	ID   string `yaml:"id"`
	From struct {
		Node string `yaml:"node"`
		Port string `yaml:"port"`
	} `yaml:"from"`
	To struct {
		Node string `yaml:"node"`
		Port string `yaml:"port"`
	} `yaml:"to"`
	Policy struct {
		Adapter       string                 `yaml:"adapter"`
		AdapterParams map[string]interface{} `yaml:"adapter_params,omitempty"`
		Priority      int32                  `yaml:"priority"`
	} `yaml:"policy"`
}

func (e edgeDTO) toEdge() manifest.Edge {
	var params *manifest.AdapterParams
	if e.Policy.AdapterParams != nil {
		params = &manifest.AdapterParams{}
		if v, ok := e.Policy.AdapterParams["strategy"].(string); ok {
			params.MergeStrategy = v
		}
		if v, ok := e.Policy.AdapterParams["map_expr"].(string); ok {
			params.MapExpr = v
		}
		if v, ok := e.Policy.AdapterParams["filter_expr"].(string); ok {
			params.FilterExpr = v
		}
		if v, ok := e.Policy.AdapterParams["zip_mode"].(string); ok {
			params.ZipMode = v
		}
	}
	return manifest.Edge{
		ID:   e.ID,
		From: manifest.EndpointRef{Node: e.From.Node, Port: e.From.Port},
		To:   manifest.EndpointRef{Node: e.To.Node, Port: e.To.Port},
		Policy: manifest.EdgePolicy{
			Adapter:       adapterFromString(e.Policy.Adapter),
			AdapterParams: params,
			Priority:      e.Policy.Priority,
		},
	}
}

func adapterFromString(s string) manifest.AdapterKind {
	switch s {
	case "Merge":
		return manifest.AdapterMerge
	case "Zip":
		return manifest.AdapterZip
	case "Map":
		return manifest.AdapterMap
	case "Filter":
		return manifest.AdapterFilter
	default:
		return manifest.AdapterNone
	}
}

type exportDTO struct {
	ExportID  string `yaml:"export_id"`
	InnerNode string `yaml:"inner_node"`
	InnerPort string `yaml:"inner_port"`
}

type requiresDTO struct {
	Module     string `yaml:"module"`
	VersionReq string `yaml:"version_req"`
}

type graphDTO struct {
	Namespace     string            `yaml:"namespace"`
	Name          string            `yaml:"name"`
	Title         string            `yaml:"title"`
	Version       string            `yaml:"version"`
	SchemaVersion string            `yaml:"schema_version"`
	Requires      []requiresDTO     `yaml:"requires,omitempty"`
	Generics      []genericParamDTO `yaml:"generics,omitempty"`
	Exports       []exportDTO       `yaml:"exports,omitempty"`
	Effects       []string          `yaml:"effects,omitempty"`
	Engine        engineDTO         `yaml:"engine"`
	Nodes         []nodeDTO         `yaml:"nodes"`
	Edges         []edgeDTO         `yaml:"edges"`
}

func (d graphDTO) toGraphSpec() (*manifest.GraphSpec, error) {
	v, err := manifest.ParseVersion(d.Version)
	if err != nil {
		return nil, errs.Wrap(err, "graph version")
	}
	g := &manifest.GraphSpec{
		ID:            manifest.FullyQualifiedId{Namespace: manifest.Namespace(d.Namespace), Name: d.Name, Version: v},
		Namespace:     manifest.Namespace(d.Namespace),
		Name:          d.Name,
		Title:         d.Title,
		Version:       v,
		SchemaVersion: d.SchemaVersion,
		Engine:        d.Engine.toEngineRequirement(),
	}
	for _, r := range d.Requires {
		g.Requires = append(g.Requires, manifest.ModuleDependency{Module: manifest.Namespace(r.Module), VersionReq: r.VersionReq})
	}
	for _, gp := range d.Generics {
		g.Generics = append(g.Generics, gp.toGenericParam())
	}
	for _, e := range d.Exports {
		g.Exports = append(g.Exports, manifest.Export{ExportID: e.ExportID, InnerNode: e.InnerNode, InnerPort: e.InnerPort})
	}
	for _, e := range d.Effects {
		g.Effects = append(g.Effects, manifest.EffectString(e))
	}
	for _, n := range d.Nodes {
		node, err := n.toNode()
		if err != nil {
			return nil, err
		}
		g.Nodes = append(g.Nodes, node)
	}
	for _, e := range d.Edges {
		g.Edges = append(g.Edges, e.toEdge())
	}
	return g, nil
}
