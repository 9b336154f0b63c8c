package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseType parses the canonical textual form produced by PrintType.
func ParseType(s string) (Type, error) {
	p := &typeParser{src: s}
	p.skipSpace()
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, errors.Errorf("unexpected trailing input at offset %d: %q", p.pos, p.src[p.pos:])
	}
	return t, nil
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n') {
		p.pos++
	}
}

func (p *typeParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *typeParser) expect(b byte) error {
	p.skipSpace()
	if p.peek() != b {
		return errors.Errorf("expected %q at offset %d in %q", b, p.pos, p.src)
	}
	p.pos++
	return nil
}

func (p *typeParser) readIdent() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *typeParser) parseType() (Type, error) {
	p.skipSpace()
	if p.peek() == '^' {
		p.pos++
		start := p.pos
		for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
		}
		n, err := strconv.Atoi(p.src[start:p.pos])
		if err != nil {
			return nil, errors.Wrap(err, "invalid recursive back-reference depth")
		}
		return &RecursiveRef{Depth: n}, nil
	}
	name := p.readIdent()
	switch name {
	case "Never":
		return Never, nil
	case "Null":
		return Null, nil
	case "Boolean":
		return Boolean, nil
	case "Integer":
		return Integer, nil
	case "Float":
		return Float, nil
	case "String":
		return String, nil
	case "DateTime":
		return DateTime, nil
	case "Blob":
		return Blob, nil
	case "Array":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return NewArray(elem), nil
	case "Set":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		key, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return NewSet(key), nil
	case "Dict":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		key, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
		val, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return NewDict(key, val), nil
	case "Ref":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return NewRef(inner), nil
	case "Recursive":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return NewRecursive(inner), nil
	case "Struct":
		fields, err := p.parseNamedList()
		if err != nil {
			return nil, err
		}
		out := make([]Field, len(fields))
		for i, f := range fields {
			out[i] = Field{Name: f.name, Type: f.typ}
		}
		return &Struct{Fields: out}, nil
	case "Variant":
		cases, err := p.parseNamedList()
		if err != nil {
			return nil, err
		}
		out := make([]Case, len(cases))
		for i, c := range cases {
			out[i] = Case{Name: c.name, Type: c.typ}
		}
		return NewVariant(out...), nil
	case "Function", "AsyncFunction":
		inputs, output, platforms, err := p.parseSignature()
		if err != nil {
			return nil, err
		}
		if name == "Function" {
			return &Function{Inputs: inputs, Output: output, Platforms: platforms}, nil
		}
		return &AsyncFunction{Inputs: inputs, Output: output, Platforms: platforms}, nil
	default:
		return nil, errors.Errorf("unknown type name %q at offset %d", name, p.pos-len(name))
	}
}

type namedEntry struct {
	name string
	typ  Type
}

func (p *typeParser) parseNamedList() ([]namedEntry, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	var out []namedEntry
	p.skipSpace()
	if p.peek() == ')' {
		p.pos++
		return out, nil
	}
	for {
		p.skipSpace()
		name := p.readIdent()
		if name == "" {
			return nil, errors.Errorf("expected a field/case name at offset %d", p.pos)
		}
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		out = append(out, namedEntry{name: name, typ: t})
		p.skipSpace()
		if p.peek() == ',' {
			p.pos++
			continue
		}
		break
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *typeParser) parseSignature() ([]Type, Type, PlatformSet, error) {
	if err := p.expect('('); err != nil {
		return nil, nil, nil, err
	}
	var inputs []Type
	p.skipSpace()
	for p.peek() != 0 && !strings.HasPrefix(p.src[p.pos:], "->") {
		t, err := p.parseType()
		if err != nil {
			return nil, nil, nil, err
		}
		inputs = append(inputs, t)
		p.skipSpace()
		if p.peek() == ',' {
			p.pos++
			p.skipSpace()
			continue
		}
		break
	}
	p.skipSpace()
	if !strings.HasPrefix(p.src[p.pos:], "->") {
		return nil, nil, nil, fmt.Errorf("expected '->' at offset %d", p.pos)
	}
	p.pos += 2
	output, err := p.parseType()
	if err != nil {
		return nil, nil, nil, err
	}
	platforms := PlatformSet{}
	p.skipSpace()
	if p.peek() == ';' {
		p.pos++
		p.skipSpace()
		if strings.HasPrefix(p.src[p.pos:], "platforms:") {
			p.pos += len("platforms:")
			for {
				p.skipSpace()
				name := p.readIdent()
				if name != "" {
					platforms[name] = struct{}{}
				}
				p.skipSpace()
				if p.peek() == ',' {
					p.pos++
					continue
				}
				break
			}
		}
	}
	if err := p.expect(')'); err != nil {
		return nil, nil, nil, err
	}
	return inputs, output, platforms, nil
}
