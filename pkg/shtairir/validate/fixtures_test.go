package validate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/humancuration/cpc-shtairir/pkg/shtairir/manifest"
	"github.com/humancuration/cpc-shtairir/pkg/shtairir/types"
)

func mustVersion(t *testing.T, s string) *manifest.Version {
	t.Helper()
	v, err := manifest.ParseVersion(s)
	require.NoError(t, err)
	return v
}

func validBlock(t *testing.T, namespace, name, version string) *manifest.BlockSpec {
	t.Helper()
	v := mustVersion(t, version)
	return &manifest.BlockSpec{
		ID:            manifest.FullyQualifiedId{Namespace: manifest.Namespace(namespace), Name: name, Version: v},
		Namespace:     manifest.Namespace(namespace),
		Name:          name,
		Version:       v,
		SchemaVersion: "0.2",
		PurityLevel:   manifest.Pure,
		Determinism:   manifest.Deterministic,
		Outputs: []manifest.PortSpec{
			{PortID: "out", Name: "out", Type: types.NewScalar("i64")},
		},
	}
}

func i64Port(id string) manifest.PortDecl {
	return manifest.PortDecl{PortID: id, Name: id, Type: types.NewScalar("i64"), Kind: manifest.PortValue}
}

func streamPort(id string) manifest.PortDecl {
	return manifest.PortDecl{PortID: id, Name: id, Type: types.NewStream(types.NewScalar("i64")), Kind: manifest.PortStream}
}

func blockNode(id, fqBlock string, inputs, outputs []manifest.PortDecl) manifest.Node {
	return manifest.Node{
		ID: id, Kind: manifest.NodeBlock, FqBlock: fqBlock, VersionReq: "*",
		Inputs: inputs, Outputs: outputs,
	}
}

func baseGraph(nodes []manifest.Node, edges []manifest.Edge) *manifest.GraphSpec {
	v := mustVersionUnchecked("0.1.0")
	return &manifest.GraphSpec{
		ID:            manifest.FullyQualifiedId{Namespace: "acme.graphs", Name: "demo", Version: v},
		Namespace:     "acme.graphs",
		Name:          "demo",
		Version:       v,
		SchemaVersion: "0.2",
		Nodes:         nodes,
		Edges:         edges,
	}
}

func mustVersionUnchecked(s string) *manifest.Version {
	v, err := manifest.ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}
