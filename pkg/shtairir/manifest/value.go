package manifest

// ValueKind discriminates the closed ValueLiteral sum.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueBool
	ValueI64
	ValueF64
	ValueString
	ValueList
	ValueObject
)

// ValueLiteral is the closed sum of literal values that may appear as a
// PortSpec default, an `allowed.enum` entry, or an `allowed.range` endpoint.
// option<T> literals encode as an empty ValueList (None) or single-element
// ValueList (Some); bytes literals encode as base64 ValueString.
type ValueLiteral struct {
	Kind ValueKind

	Bool   bool
	I64    int64
	F64    float64
	String string
	List   []ValueLiteral
	Object map[string]ValueLiteral
}

func Null() ValueLiteral             { return ValueLiteral{Kind: ValueNull} }
func Bool(v bool) ValueLiteral       { return ValueLiteral{Kind: ValueBool, Bool: v} }
func I64(v int64) ValueLiteral       { return ValueLiteral{Kind: ValueI64, I64: v} }
func F64(v float64) ValueLiteral     { return ValueLiteral{Kind: ValueF64, F64: v} }
func Str(v string) ValueLiteral      { return ValueLiteral{Kind: ValueString, String: v} }
func List(v ...ValueLiteral) ValueLiteral {
	return ValueLiteral{Kind: ValueList, List: v}
}
func Object(v map[string]ValueLiteral) ValueLiteral {
	return ValueLiteral{Kind: ValueObject, Object: v}
}

// None is the option<T> "no value" encoding: an empty list.
func None() ValueLiteral { return List() }

// Some is the option<T> "has value" encoding: a single-element list.
func Some(v ValueLiteral) ValueLiteral { return List(v) }
