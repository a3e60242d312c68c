// Package testsupport provides chainable fixture builders for tests across
// both cores, patterned on the fluent mock-data builders the registry and
// collaboration packages otherwise have no shared home for.
package testsupport

import (
	"github.com/humancuration/cpc-shtairir/pkg/shtairir/manifest"
	"github.com/humancuration/cpc-shtairir/pkg/shtairir/source"
	"github.com/humancuration/cpc-shtairir/pkg/shtairir/types"
)

// ManifestBuilder assembles an in-memory ManifestSource one block or graph
// at a time for validator and registry tests.
type ManifestBuilder struct {
	mem *source.Memory
}

// NewManifestBuilder starts an empty builder.
func NewManifestBuilder() *ManifestBuilder {
	return &ManifestBuilder{mem: source.NewMemory()}
}

// WithBlock adds a block built by the given configurator and returns the
// builder for chaining.
func (b *ManifestBuilder) WithBlock(namespace, name, version string, configure func(*manifest.BlockSpec)) *ManifestBuilder {
	ver := mustVersion(version)
	spec := &manifest.BlockSpec{
		ID:            mustFQID(namespace, name, ver),
		Namespace:     manifest.Namespace(namespace),
		Name:          name,
		Version:       ver,
		SchemaVersion: "0.2",
		PurityLevel:   manifest.Pure,
		Determinism:   manifest.Deterministic,
		Inputs:        []manifest.PortSpec{},
		Outputs:       []manifest.PortSpec{},
	}
	if configure != nil {
		configure(spec)
	}
	b.mem.AddBlock(spec)
	return b
}

// WithGraph adds a graph built by the given configurator and returns the
// builder for chaining.
func (b *ManifestBuilder) WithGraph(namespace, name, version string, configure func(*manifest.GraphSpec)) *ManifestBuilder {
	ver := mustVersion(version)
	spec := &manifest.GraphSpec{
		ID:            mustFQID(namespace, name, ver),
		Namespace:     manifest.Namespace(namespace),
		Name:          name,
		Version:       ver,
		SchemaVersion: "0.2",
		Nodes:         []manifest.Node{},
		Edges:         []manifest.Edge{},
	}
	if configure != nil {
		configure(spec)
	}
	b.mem.AddGraph(spec)
	return b
}

// Build returns the assembled ManifestSource.
func (b *ManifestBuilder) Build() *source.Memory {
	return b.mem
}

// I64Port is a convenience for a required, non-streaming i64 port.
func I64Port(portID, name string) manifest.PortSpec {
	return manifest.PortSpec{
		PortID: portID,
		Name:   name,
		Type:   types.NewScalar("i64"),
		Kind:   manifest.PortValue,
	}
}

// StreamPort is a convenience for a Stream<T> port of the given element type.
func StreamPort(portID, name string, elem *types.Type) manifest.PortSpec {
	return manifest.PortSpec{
		PortID: portID,
		Name:   name,
		Type:   types.NewStream(elem),
		Kind:   manifest.PortStream,
	}
}

func mustVersion(s string) *manifest.Version {
	v, err := manifest.ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func mustFQID(namespace, name string, version *manifest.Version) manifest.FullyQualifiedId {
	return manifest.FullyQualifiedId{
		Namespace: manifest.Namespace(namespace),
		Name:      name,
		Version:   version,
	}
}
