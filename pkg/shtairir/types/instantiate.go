package types

// Instantiate substitutes every generic variable appearing in ty with its
// binding in subst, recursively. A generic variable with no entry in subst
// is left as-is (partial instantiation is legal).
func Instantiate(ty *Type, subst map[string]*Type) (*Type, error) {
	if ty == nil {
		return nil, nil
	}
	switch ty.Kind {
	case KindGeneric:
		if bound, ok := subst[ty.Generic]; ok {
			return bound, nil
		}
		return ty, nil
	case KindScalar:
		return ty, nil
	case KindOption:
		elem, err := Instantiate(ty.Elem, subst)
		if err != nil {
			return nil, err
		}
		return NewOption(elem), nil
	case KindList:
		elem, err := Instantiate(ty.Elem, subst)
		if err != nil {
			return nil, err
		}
		return NewList(elem), nil
	case KindStream:
		elem, err := Instantiate(ty.Elem, subst)
		if err != nil {
			return nil, err
		}
		return NewStream(elem), nil
	case KindEvent:
		elem, err := Instantiate(ty.Elem, subst)
		if err != nil {
			return nil, err
		}
		return NewEvent(elem), nil
	case KindMap:
		val, err := Instantiate(ty.MapValue, subst)
		if err != nil {
			return nil, err
		}
		return NewMap(val), nil
	case KindStruct:
		fields := make([]StructField, len(ty.Fields))
		for i, f := range ty.Fields {
			ft, err := Instantiate(f.Type, subst)
			if err != nil {
				return nil, err
			}
			fields[i] = StructField{Name: f.Name, Type: ft}
		}
		return NewStruct(fields...), nil
	case KindEnum:
		variants := make([]EnumVariant, len(ty.Variants))
		for i, v := range ty.Variants {
			var payload *Type
			if v.Payload != nil {
				p, err := Instantiate(v.Payload, subst)
				if err != nil {
					return nil, err
				}
				payload = p
			}
			variants[i] = EnumVariant{Name: v.Name, Payload: payload}
		}
		return NewEnum(variants...), nil
	case KindTuple:
		elems := make([]*Type, len(ty.Elems))
		for i, e := range ty.Elems {
			et, err := Instantiate(e, subst)
			if err != nil {
				return nil, err
			}
			elems[i] = et
		}
		return NewTuple(elems...), nil
	default:
		return nil, malformedTypeErr("cannot instantiate unknown type kind")
	}
}
