package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	cases := []string{
		"i64",
		"string",
		"option<i64>",
		"list<string>",
		"map<string,f64>",
		"Stream<i64>",
		"Event<bool>",
		"Struct{a:i64,b:string}",
		"Enum{Some(i64),None}",
		"(i64,string)",
		"(i64,string,bool)",
		"T",
		"option<list<map<string,Stream<i64>>>>",
	}
	for _, s := range cases {
		ty, err := Parse(s)
		require.NoError(t, err, s)
		again, err := Parse(ty.String())
		require.NoError(t, err, ty.String())
		assert.True(t, Equal(ty, again), "round-trip mismatch for %s -> %s", s, ty.String())
	}
}

func TestParseWhitespaceInsignificant(t *testing.T) {
	a, err := Parse("option< i64 >")
	require.NoError(t, err)
	b, err := Parse("option<i64>")
	require.NoError(t, err)
	assert.True(t, Equal(a, b))
}

func TestParseUnknownType(t *testing.T) {
	_, err := Parse("notatype")
	require.Error(t, err)
	pe, ok := err.(*ParseError)
	require.True(t, ok)
	assert.Equal(t, UnknownType, pe.Kind)
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse("option<i64")
	require.Error(t, err)
	pe, ok := err.(*ParseError)
	require.True(t, ok)
	assert.Equal(t, MalformedType, pe.Kind)
}

func TestParseTupleArity(t *testing.T) {
	_, err := Parse("(i64)")
	require.Error(t, err)
	pe, ok := err.(*ParseError)
	require.True(t, ok)
	assert.Equal(t, UnsupportedComposite, pe.Kind)
}

func TestParseEmptyEnumUnsupported(t *testing.T) {
	_, err := Parse("Enum{}")
	require.Error(t, err)
	pe, ok := err.(*ParseError)
	require.True(t, ok)
	assert.Equal(t, UnsupportedComposite, pe.Kind)
}

func TestNullCompatibleWithOption(t *testing.T) {
	null := NewScalar("null")
	opt := NewOption(NewScalar("i64"))
	assert.True(t, IsCompatibleWith(null, opt))
	assert.False(t, IsCompatibleWith(NewScalar("i64"), opt))
}

func TestCompatibilityReflexive(t *testing.T) {
	cases := []*Type{
		NewScalar("i64"),
		NewOption(NewScalar("string")),
		NewList(NewScalar("bool")),
		NewStruct(StructField{Name: "a", Type: NewScalar("i64")}),
		NewTuple(NewScalar("i64"), NewScalar("string")),
	}
	for _, ty := range cases {
		assert.True(t, IsCompatibleWith(ty, ty), ty.String())
	}
}

func TestStreamInvariant(t *testing.T) {
	a := NewStream(NewScalar("i64"))
	b := NewStream(NewScalar("f64"))
	assert.False(t, IsCompatibleWith(a, b))
}

func TestStructFieldSetMustMatch(t *testing.T) {
	a := NewStruct(StructField{Name: "a", Type: NewScalar("i64")})
	b := NewStruct(
		StructField{Name: "a", Type: NewScalar("i64")},
		StructField{Name: "b", Type: NewScalar("i64")},
	)
	assert.False(t, IsCompatibleWith(a, b))
	assert.False(t, IsCompatibleWith(b, a))
}

func TestGenericMatchesAnything(t *testing.T) {
	g := NewGeneric("T")
	assert.True(t, IsCompatibleWith(NewScalar("i64"), g))
	assert.True(t, IsCompatibleWith(g, NewScalar("string")))
}

func TestInstantiate(t *testing.T) {
	ty := NewList(NewGeneric("T"))
	out, err := Instantiate(ty, map[string]*Type{"T": NewScalar("i64")})
	require.NoError(t, err)
	assert.Equal(t, "list<i64>", out.String())
}
