// Package types implements the closed type grammar (scalars, option/list/map,
// Stream, Event, Struct, Enum, tuples and generic vars) shared by block ports
// and graph node ports: parsing, structural compatibility, and generic
// instantiation.
package types

import "strings"

// Kind discriminates the closed grammar of Type.
type Kind int

const (
	KindScalar Kind = iota
	KindOption
	KindList
	KindMap
	KindStream
	KindEvent
	KindStruct
	KindEnum
	KindTuple
	KindGeneric
)

// Scalar is the closed set of scalar type names.
var scalars = map[string]bool{
	"i64": true, "f64": true, "bool": true, "string": true, "bytes": true,
	"datetime": true, "duration": true, "uuid": true, "decimal": true,
	"null": true, "object": true, "array": true,
}

// StructField is one named field of a Struct type.
type StructField struct {
	Name string
	Type *Type
}

// EnumVariant is one variant of an Enum type, with an optional payload.
type EnumVariant struct {
	Name    string
	Payload *Type // nil when the variant carries no payload
}

// Type is a node of the closed algebraic type grammar. Exactly the fields
// relevant to Kind are populated; the rest are zero.
type Type struct {
	Kind Kind

	Scalar string // KindScalar

	Elem *Type // KindOption, KindList, KindStream, KindEvent (element/payload type)

	MapValue *Type // KindMap (key is always string)

	Fields []StructField // KindStruct

	Variants []EnumVariant // KindEnum

	Elems []*Type // KindTuple, arity >= 2

	Generic string // KindGeneric
}

// Scalar constructors, used by fixtures and tests.
func NewScalar(name string) *Type   { return &Type{Kind: KindScalar, Scalar: name} }
func NewOption(elem *Type) *Type    { return &Type{Kind: KindOption, Elem: elem} }
func NewList(elem *Type) *Type      { return &Type{Kind: KindList, Elem: elem} }
func NewMap(value *Type) *Type      { return &Type{Kind: KindMap, MapValue: value} }
func NewStream(elem *Type) *Type    { return &Type{Kind: KindStream, Elem: elem} }
func NewEvent(elem *Type) *Type     { return &Type{Kind: KindEvent, Elem: elem} }
func NewGeneric(name string) *Type  { return &Type{Kind: KindGeneric, Generic: name} }
func NewTuple(elems ...*Type) *Type { return &Type{Kind: KindTuple, Elems: elems} }
func NewStruct(fields ...StructField) *Type {
	return &Type{Kind: KindStruct, Fields: fields}
}
func NewEnum(variants ...EnumVariant) *Type {
	return &Type{Kind: KindEnum, Variants: variants}
}

// IsScalarName reports whether name is a member of the closed scalar set.
func IsScalarName(name string) bool { return scalars[name] }

// String renders the canonical textual form of t, the form Parse accepts and
// re-parses to an equal Type.
func (t *Type) String() string {
	if t == nil {
		return ""
	}
	switch t.Kind {
	case KindScalar:
		return t.Scalar
	case KindOption:
		return "option<" + t.Elem.String() + ">"
	case KindList:
		return "list<" + t.Elem.String() + ">"
	case KindMap:
		return "map<string," + t.MapValue.String() + ">"
	case KindStream:
		return "Stream<" + t.Elem.String() + ">"
	case KindEvent:
		return "Event<" + t.Elem.String() + ">"
	case KindStruct:
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = f.Name + ":" + f.Type.String()
		}
		return "Struct{" + strings.Join(parts, ",") + "}"
	case KindEnum:
		parts := make([]string, len(t.Variants))
		for i, v := range t.Variants {
			if v.Payload != nil {
				parts[i] = v.Name + "(" + v.Payload.String() + ")"
			} else {
				parts[i] = v.Name
			}
		}
		return "Enum{" + strings.Join(parts, ",") + "}"
	case KindTuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ",") + ")"
	case KindGeneric:
		return t.Generic
	default:
		return "?"
	}
}
