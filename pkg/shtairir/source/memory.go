// Package source provides reference ManifestSource implementations: an
// in-memory one for tests and embedded fixtures, and a YAML-backed one for
// a filesystem layout of <root>/<namespace>/<version>/{blocks,graphs}/*.yaml.
package source

import (
	"sort"

	"github.com/humancuration/cpc-shtairir/internal/support/errs"
	"github.com/humancuration/cpc-shtairir/pkg/shtairir/manifest"
)

// Memory is an in-memory registry.ManifestSource, built incrementally with
// AddBlock/AddGraph. It never touches the filesystem.
type Memory struct {
	blocks map[string]map[string][]*manifest.BlockSpec
	graphs map[string]map[string][]*manifest.GraphSpec
}

// NewMemory returns an empty in-memory source.
func NewMemory() *Memory {
	return &Memory{
		blocks: map[string]map[string][]*manifest.BlockSpec{},
		graphs: map[string]map[string][]*manifest.GraphSpec{},
	}
}

// AddBlock registers a block under its own namespace/version.
func (m *Memory) AddBlock(b *manifest.BlockSpec) *Memory {
	ns, ver := string(b.Namespace), b.Version.String()
	if m.blocks[ns] == nil {
		m.blocks[ns] = map[string][]*manifest.BlockSpec{}
	}
	m.blocks[ns][ver] = append(m.blocks[ns][ver], b)
	return m
}

// AddGraph registers a graph under its own namespace/version.
func (m *Memory) AddGraph(g *manifest.GraphSpec) *Memory {
	ns, ver := string(g.Namespace), g.Version.String()
	if m.graphs[ns] == nil {
		m.graphs[ns] = map[string][]*manifest.GraphSpec{}
	}
	m.graphs[ns][ver] = append(m.graphs[ns][ver], g)
	return m
}

func (m *Memory) ListModules() ([]manifest.Namespace, error) {
	seen := map[string]bool{}
	var out []manifest.Namespace
	for ns := range m.blocks {
		if !seen[ns] {
			seen[ns] = true
			out = append(out, manifest.Namespace(ns))
		}
	}
	for ns := range m.graphs {
		if !seen[ns] {
			seen[ns] = true
			out = append(out, manifest.Namespace(ns))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (m *Memory) ListVersions(module manifest.Namespace) ([]*manifest.Version, error) {
	seen := map[string]*manifest.Version{}
	for ver, bs := range m.blocks[string(module)] {
		if len(bs) > 0 {
			seen[ver] = bs[0].Version
		}
	}
	for ver, gs := range m.graphs[string(module)] {
		if len(gs) > 0 {
			seen[ver] = gs[0].Version
		}
	}
	out := make([]*manifest.Version, 0, len(seen))
	for _, v := range seen {
		out = append(out, v)
	}
	return out, nil
}

func (m *Memory) ListBlockNames(module manifest.Namespace, version *manifest.Version) ([]string, error) {
	var out []string
	for _, b := range m.blocks[string(module)][version.String()] {
		out = append(out, b.Name)
	}
	return out, nil
}

func (m *Memory) ListGraphNames(module manifest.Namespace, version *manifest.Version) ([]string, error) {
	var out []string
	for _, g := range m.graphs[string(module)][version.String()] {
		out = append(out, g.Name)
	}
	return out, nil
}

func (m *Memory) LoadBlock(module manifest.Namespace, version *manifest.Version, name string) (*manifest.BlockSpec, error) {
	for _, b := range m.blocks[string(module)][version.String()] {
		if b.Name == name {
			return b, nil
		}
	}
	return nil, errs.New("block not found: " + string(module) + "/" + name + "@" + version.String())
}

func (m *Memory) LoadGraph(module manifest.Namespace, version *manifest.Version, name string) (*manifest.GraphSpec, error) {
	for _, g := range m.graphs[string(module)][version.String()] {
		if g.Name == name {
			return g, nil
		}
	}
	return nil, errs.New("graph not found: " + string(module) + "/" + name + "@" + version.String())
}
