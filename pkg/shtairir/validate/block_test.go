package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humancuration/cpc-shtairir/pkg/shtairir/manifest"
	"github.com/humancuration/cpc-shtairir/pkg/shtairir/types"
)

func TestBlockValid(t *testing.T) {
	b := validBlock(t, "math", "add", "0.1.0")
	assert.NoError(t, Block(b))
}

func TestBlockPurityViolation(t *testing.T) {
	b := validBlock(t, "math", "add", "0.1.0")
	b.PurityLevel = manifest.Pure
	b.Effects = []manifest.EffectString{"fs.read"}
	err := Block(b)
	require.Error(t, err)
	ve, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, PurityViolation, ve.Kind)
}

func TestBlockDeterminismViolation(t *testing.T) {
	b := validBlock(t, "math", "add", "0.1.0")
	b.PurityLevel = manifest.Impure
	b.Determinism = manifest.Deterministic
	b.Effects = []manifest.EffectString{"fs.read"}
	err := Block(b)
	require.Error(t, err)
	assert.Equal(t, DeterminismViolation, err.(*Error).Kind)
}

func TestBlockNoOutputs(t *testing.T) {
	b := validBlock(t, "math", "add", "0.1.0")
	b.Outputs = nil
	err := Block(b)
	require.Error(t, err)
	assert.Equal(t, NoOutputs, err.(*Error).Kind)
}

func TestBlockDuplicatePortName(t *testing.T) {
	b := validBlock(t, "math", "add", "0.1.0")
	b.Inputs = []manifest.PortSpec{
		{PortID: "a", Name: "a", Type: types.NewScalar("i64")},
		{PortID: "a2", Name: "a", Type: types.NewScalar("i64")},
	}
	err := Block(b)
	require.Error(t, err)
	assert.Equal(t, DuplicatePortName, err.(*Error).Kind)
}

func TestBlockMalformedEffect(t *testing.T) {
	b := validBlock(t, "math", "add", "0.1.0")
	b.PurityLevel = manifest.Impure
	b.Determinism = manifest.Nondeterministic
	b.Effects = []manifest.EffectString{"FS.Read"}
	err := Block(b)
	require.Error(t, err)
	assert.Equal(t, InvalidEffect, err.(*Error).Kind)
}

func TestBlockEffectWildcardOnlyFinalSegment(t *testing.T) {
	assert.True(t, validEffectString("app.<id>.*"))
	assert.True(t, validEffectString("fs.read"))
	assert.False(t, validEffectString("*.read"))
	assert.False(t, validEffectString(""))
}

func TestBlockUnknownCapabilityFlag(t *testing.T) {
	b := validBlock(t, "math", "add", "0.1.0")
	b.Engine.CapabilityFlags = []manifest.EngineFlag{"quantum"}
	err := Block(b)
	require.Error(t, err)
	assert.Equal(t, UnknownCapabilityFlag, err.(*Error).Kind)
}

func TestBlockUnknownGenericBound(t *testing.T) {
	b := validBlock(t, "math", "add", "0.1.0")
	b.Generics = []manifest.GenericParam{{Name: "T", Bounds: []manifest.Capability{"Flyable"}}}
	err := Block(b)
	require.Error(t, err)
	assert.Equal(t, UnknownGenericBound, err.(*Error).Kind)
}

func TestBlockPortKindMismatch(t *testing.T) {
	b := validBlock(t, "math", "add", "0.1.0")
	b.Inputs = []manifest.PortSpec{
		{PortID: "s", Name: "s", Type: types.NewScalar("i64"), Kind: manifest.PortStream},
	}
	err := Block(b)
	require.Error(t, err)
	assert.Equal(t, PortKindMismatch, err.(*Error).Kind)
}

func TestBlockIncompatibleDefault(t *testing.T) {
	b := validBlock(t, "math", "add", "0.1.0")
	bad := manifest.Bool(true)
	b.Inputs = []manifest.PortSpec{
		{PortID: "a", Name: "a", Type: types.NewScalar("i64"), Default: &bad},
	}
	err := Block(b)
	require.Error(t, err)
	assert.Equal(t, IncompatibleDefault, err.(*Error).Kind)
}

func TestBlockUnsupportedDefaultOnStruct(t *testing.T) {
	b := validBlock(t, "math", "add", "0.1.0")
	bad := manifest.Object(map[string]manifest.ValueLiteral{"x": manifest.I64(1)})
	b.Inputs = []manifest.PortSpec{
		{PortID: "a", Name: "a", Type: types.NewStruct(types.StructField{Name: "x", Type: types.NewScalar("i64")}), Default: &bad},
	}
	err := Block(b)
	require.Error(t, err)
	assert.Equal(t, UnsupportedDefault, err.(*Error).Kind)
}

func TestBlockInvalidIntegrityHash(t *testing.T) {
	b := validBlock(t, "math", "add", "0.1.0")
	b.Integrity = &manifest.Integrity{ContentHash: "sha256:notreallyhex"}
	err := Block(b)
	require.Error(t, err)
	assert.Equal(t, InvalidIntegrityHash, err.(*Error).Kind)
}

func TestBlockOptionDefaultNoneAndSome(t *testing.T) {
	b := validBlock(t, "math", "add", "0.1.0")
	none := manifest.None()
	some := manifest.Some(manifest.I64(3))
	b.Inputs = []manifest.PortSpec{
		{PortID: "a", Name: "a", Type: types.NewOption(types.NewScalar("i64")), Default: &none},
		{PortID: "b", Name: "b", Type: types.NewOption(types.NewScalar("i64")), Default: &some},
	}
	assert.NoError(t, Block(b))
}
