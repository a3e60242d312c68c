package types

// The validate package's compatibleScalar lets a string literal stand for
// string/decimal/bytes/uuid/datetime/duration and an i64 literal for f64.
// That is value-literal compatibility, not type-to-type compatibility: at
// the Type level, scalars are compatible only with themselves.

// IsCompatibleWith reports whether a value produced as type producer may
// flow into a consumer expecting type consumer, per §4.1's compatibility
// rules. Generic variables match anything; a single call does not thread
// substitutions across multiple ports (callers combining several ports use
// Instantiate first).
func IsCompatibleWith(producer, consumer *Type) bool {
	ok, _ := compatWithSubst(producer, consumer, map[string]*Type{})
	return ok
}

// compatWithSubst checks compatibility while tracking generic substitutions
// already made in this call, failing on conflicting substitutions.
func compatWithSubst(producer, consumer *Type, subst map[string]*Type) (bool, map[string]*Type) {
	if consumer != nil && consumer.Kind == KindGeneric {
		if existing, ok := subst[consumer.Generic]; ok {
			return typesEqual(existing, producer), subst
		}
		subst[consumer.Generic] = producer
		return true, subst
	}
	if producer != nil && producer.Kind == KindGeneric {
		if existing, ok := subst[producer.Generic]; ok {
			return typesEqual(existing, consumer), subst
		}
		subst[producer.Generic] = consumer
		return true, subst
	}

	// null is compatible with any option<T>.
	if producer != nil && producer.Kind == KindScalar && producer.Scalar == "null" {
		if consumer != nil && consumer.Kind == KindOption {
			return true, subst
		}
	}

	if producer == nil || consumer == nil {
		return producer == consumer, subst
	}
	if producer.Kind != consumer.Kind {
		return false, subst
	}

	switch producer.Kind {
	case KindScalar:
		return producer.Scalar == consumer.Scalar, subst
	case KindOption, KindList, KindStream, KindEvent:
		return compatWithSubst(producer.Elem, consumer.Elem, subst)
	case KindMap:
		return compatWithSubst(producer.MapValue, consumer.MapValue, subst)
	case KindStruct:
		return structCompat(producer, consumer, subst)
	case KindEnum:
		return enumCompat(producer, consumer, subst)
	case KindTuple:
		return tupleCompat(producer, consumer, subst)
	default:
		return false, subst
	}
}

func structCompat(p, c *Type, subst map[string]*Type) (bool, map[string]*Type) {
	if len(p.Fields) != len(c.Fields) {
		return false, subst
	}
	cFields := make(map[string]*Type, len(c.Fields))
	for _, f := range c.Fields {
		cFields[f.Name] = f.Type
	}
	for _, f := range p.Fields {
		cf, ok := cFields[f.Name]
		if !ok {
			return false, subst
		}
		ok2, s := compatWithSubst(f.Type, cf, subst)
		if !ok2 {
			return false, subst
		}
		subst = s
	}
	return true, subst
}

func enumCompat(p, c *Type, subst map[string]*Type) (bool, map[string]*Type) {
	if len(p.Variants) != len(c.Variants) {
		return false, subst
	}
	cVariants := make(map[string]*Type, len(c.Variants))
	present := make(map[string]bool, len(c.Variants))
	for _, v := range c.Variants {
		cVariants[v.Name] = v.Payload
		present[v.Name] = true
	}
	for _, v := range p.Variants {
		if !present[v.Name] {
			return false, subst
		}
		cp := cVariants[v.Name]
		if (v.Payload == nil) != (cp == nil) {
			return false, subst
		}
		if v.Payload != nil {
			ok, s := compatWithSubst(v.Payload, cp, subst)
			if !ok {
				return false, subst
			}
			subst = s
		}
	}
	return true, subst
}

func tupleCompat(p, c *Type, subst map[string]*Type) (bool, map[string]*Type) {
	if len(p.Elems) != len(c.Elems) {
		return false, subst
	}
	for i := range p.Elems {
		ok, s := compatWithSubst(p.Elems[i], c.Elems[i], subst)
		if !ok {
			return false, subst
		}
		subst = s
	}
	return true, subst
}

// typesEqual is structural equality with no generic resolution, used to
// check that a second occurrence of the same generic var matches the first.
func typesEqual(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindScalar:
		return a.Scalar == b.Scalar
	case KindGeneric:
		return a.Generic == b.Generic
	case KindOption, KindList, KindStream, KindEvent:
		return typesEqual(a.Elem, b.Elem)
	case KindMap:
		return typesEqual(a.MapValue, b.MapValue)
	case KindStruct:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].Name != b.Fields[i].Name || !typesEqual(a.Fields[i].Type, b.Fields[i].Type) {
				return false
			}
		}
		return true
	case KindEnum:
		if len(a.Variants) != len(b.Variants) {
			return false
		}
		for i := range a.Variants {
			if a.Variants[i].Name != b.Variants[i].Name || !typesEqual(a.Variants[i].Payload, b.Variants[i].Payload) {
				return false
			}
		}
		return true
	case KindTuple:
		if len(a.Elems) != len(b.Elems) {
			return false
		}
		for i := range a.Elems {
			if !typesEqual(a.Elems[i], b.Elems[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Equal reports whether a and b are structurally identical types, with no
// generic matching (two distinct generic names are unequal).
func Equal(a, b *Type) bool { return typesEqual(a, b) }
