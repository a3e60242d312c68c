package types

// Parse parses a type expression in the grammar of §3.2. Whitespace is
// insignificant inside brackets.
func Parse(s string) (*Type, error) {
	p := &parser{s: s}
	p.skipWS()
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipWS()
	if p.pos != len(p.s) {
		return nil, malformedTypeErr("unexpected trailing input: " + p.s[p.pos:])
	}
	return t, nil
}

type parser struct {
	s   string
	pos int
}

func (p *parser) skipWS() {
	for p.pos < len(p.s) {
		switch p.s[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *parser) expect(c byte) error {
	p.skipWS()
	if p.peek() != c {
		return malformedTypeErr("expected '" + string(c) + "' at position " + itoa(p.pos))
	}
	p.pos++
	return nil
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	if neg {
		b = append([]byte{'-'}, b...)
	}
	return string(b)
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func (p *parser) parseIdent() (string, error) {
	p.skipWS()
	start := p.pos
	if p.pos >= len(p.s) || !isIdentStart(p.s[p.pos]) {
		return "", malformedTypeErr("expected identifier at position " + itoa(p.pos))
	}
	for p.pos < len(p.s) && isIdentCont(p.s[p.pos]) {
		p.pos++
	}
	return p.s[start:p.pos], nil
}

func isUpperCamel(s string) bool {
	if s == "" {
		return false
	}
	if s[0] < 'A' || s[0] > 'Z' {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}

func isLowerField(s string) bool {
	if s == "" {
		return false
	}
	if !(s[0] == '_' || (s[0] >= 'a' && s[0] <= 'z')) {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !(c == '_' || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}

func (p *parser) parseType() (*Type, error) {
	p.skipWS()
	if p.peek() == '(' {
		return p.parseTuple()
	}

	ident, err := p.parseIdent()
	if err != nil {
		return nil, err
	}

	switch {
	case IsScalarName(ident):
		return NewScalar(ident), nil
	case ident == "option":
		elem, err := p.parseBracketed('<', '>')
		if err != nil {
			return nil, err
		}
		return NewOption(elem), nil
	case ident == "list":
		elem, err := p.parseBracketed('<', '>')
		if err != nil {
			return nil, err
		}
		return NewList(elem), nil
	case ident == "map":
		if err := p.expect('<'); err != nil {
			return nil, err
		}
		key, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		if key != "string" {
			return nil, malformedTypeErr("map key must be \"string\", got " + key)
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
		val, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		return NewMap(val), nil
	case ident == "Stream":
		elem, err := p.parseBracketed('<', '>')
		if err != nil {
			return nil, err
		}
		return NewStream(elem), nil
	case ident == "Event":
		elem, err := p.parseBracketed('<', '>')
		if err != nil {
			return nil, err
		}
		return NewEvent(elem), nil
	case ident == "Struct":
		return p.parseStruct()
	case ident == "Enum":
		return p.parseEnum()
	case isUpperCamel(ident):
		return NewGeneric(ident), nil
	default:
		return nil, unknownTypeErr("unrecognized type name: " + ident)
	}
}

func (p *parser) parseBracketed(open, close byte) (*Type, error) {
	if err := p.expect(open); err != nil {
		return nil, err
	}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if err := p.expect(close); err != nil {
		return nil, err
	}
	return t, nil
}

func (p *parser) parseTuple() (*Type, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	var elems []*Type
	for {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		elems = append(elems, t)
		p.skipWS()
		if p.peek() == ',' {
			p.pos++
			continue
		}
		break
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	if len(elems) < 2 {
		return nil, unsupportedCompositeErr("tuple requires arity >= 2")
	}
	return NewTuple(elems...), nil
}

func (p *parser) parseStruct() (*Type, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	var fields []StructField
	p.skipWS()
	if p.peek() == '}' {
		p.pos++
		return NewStruct(fields...), nil
	}
	for {
		name, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		if !isLowerField(name) {
			return nil, malformedTypeErr("struct field name must be lower_snake_case: " + name)
		}
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		fieldType, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fields = append(fields, StructField{Name: name, Type: fieldType})
		p.skipWS()
		if p.peek() == ',' {
			p.pos++
			continue
		}
		break
	}
	if err := p.expect('}'); err != nil {
		return nil, err
	}
	return NewStruct(fields...), nil
}

func (p *parser) parseEnum() (*Type, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	var variants []EnumVariant
	p.skipWS()
	if p.peek() == '}' {
		return nil, unsupportedCompositeErr("enum requires at least one variant")
	}
	for {
		name, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		if !isUpperCamel(name) {
			return nil, malformedTypeErr("enum variant name must be UpperCamelCase: " + name)
		}
		var payload *Type
		p.skipWS()
		if p.peek() == '(' {
			p.pos++
			payload, err = p.parseType()
			if err != nil {
				return nil, err
			}
			if err := p.expect(')'); err != nil {
				return nil, err
			}
		}
		variants = append(variants, EnumVariant{Name: name, Payload: payload})
		p.skipWS()
		if p.peek() == ',' {
			p.pos++
			continue
		}
		break
	}
	if err := p.expect('}'); err != nil {
		return nil, err
	}
	return NewEnum(variants...), nil
}
