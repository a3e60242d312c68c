package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humancuration/cpc-shtairir/pkg/shtairir/manifest"
	"github.com/humancuration/cpc-shtairir/pkg/shtairir/registry"
	"github.com/humancuration/cpc-shtairir/pkg/shtairir/types"
	"github.com/humancuration/cpc-shtairir/pkg/shtairir/validate"
)

func block(t *testing.T, ns, name, ver string) *manifest.BlockSpec {
	t.Helper()
	v, err := manifest.ParseVersion(ver)
	require.NoError(t, err)
	return &manifest.BlockSpec{
		ID:            manifest.FullyQualifiedId{Namespace: manifest.Namespace(ns), Name: name, Version: v},
		Namespace:     manifest.Namespace(ns),
		Name:          name,
		Version:       v,
		SchemaVersion: "0.2",
		PurityLevel:   manifest.Pure,
		Determinism:   manifest.Deterministic,
		Outputs:       []manifest.PortSpec{{PortID: "out", Name: "out", Type: types.NewScalar("i64")}},
	}
}

func TestMemorySourceBuildsRegistry(t *testing.T) {
	mem := NewMemory().
		AddBlock(block(t, "math", "add", "0.1.0")).
		AddBlock(block(t, "math", "add", "0.2.0"))

	reg, err := registry.Build(mem, registry.Options{})
	require.NoError(t, err)
	assert.Len(t, reg.Blocks(), 2)

	req, err := manifest.ParseVersionReq("^0.1")
	require.NoError(t, err)
	v, err := reg.Resolve("math", req)
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", v.String())

	report := validate.Registry(reg)
	assert.True(t, report.OK())
}

func TestMemorySourceDuplicateEntity(t *testing.T) {
	b := block(t, "math", "add", "0.1.0")
	mem := NewMemory().AddBlock(b).AddBlock(b)
	_, err := registry.Build(mem, registry.Options{})
	require.Error(t, err)
}
