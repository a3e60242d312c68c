package validate

import (
	"github.com/humancuration/cpc-shtairir/pkg/shtairir/manifest"
	"github.com/humancuration/cpc-shtairir/pkg/shtairir/types"
)

// compatibleLiteral checks a ValueLiteral against a Type per §4.4.4: scalars
// by name with I64->f64 promotion, option<T> via the None/Some list
// encoding, list<T>/map<string,T> recursively, and Struct/Enum/tuple types
// rejected outright (UnsupportedDefault) since schema 0.2 cannot express
// them as literals.
func compatibleLiteral(v manifest.ValueLiteral, t *types.Type) (bool, Kind) {
	if t == nil {
		return false, IncompatibleDefault
	}
	switch t.Kind {
	case types.KindScalar:
		return compatibleScalar(v, t.Scalar), IncompatibleDefault
	case types.KindOption:
		if v.Kind != manifest.ValueList {
			return false, IncompatibleDefault
		}
		switch len(v.List) {
		case 0:
			return true, IncompatibleDefault
		case 1:
			return compatibleLiteral(v.List[0], t.Elem)
		default:
			return false, IncompatibleDefault
		}
	case types.KindList:
		if v.Kind != manifest.ValueList {
			return false, IncompatibleDefault
		}
		for _, e := range v.List {
			if ok, k := compatibleLiteral(e, t.Elem); !ok {
				return false, k
			}
		}
		return true, IncompatibleDefault
	case types.KindMap:
		if v.Kind != manifest.ValueObject {
			return false, IncompatibleDefault
		}
		for _, e := range v.Object {
			if ok, k := compatibleLiteral(e, t.MapValue); !ok {
				return false, k
			}
		}
		return true, IncompatibleDefault
	case types.KindStruct, types.KindEnum, types.KindTuple:
		return false, UnsupportedDefault
	default:
		return false, IncompatibleDefault
	}
}

func compatibleScalar(v manifest.ValueLiteral, scalar string) bool {
	switch scalar {
	case "i64":
		return v.Kind == manifest.ValueI64
	case "f64":
		return v.Kind == manifest.ValueF64 || v.Kind == manifest.ValueI64
	case "bool":
		return v.Kind == manifest.ValueBool
	case "string", "datetime", "duration", "uuid", "decimal", "bytes":
		return v.Kind == manifest.ValueString
	case "null":
		return v.Kind == manifest.ValueNull
	case "object":
		return v.Kind == manifest.ValueObject
	case "array":
		return v.Kind == manifest.ValueList
	default:
		return false
	}
}
