package runtime

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/elaraai/east/types"
	"github.com/elaraai/east/values"
)

// ParseValue parses s as a value of type t, the inverse of PrintValue.
// Grounded on types.ParseType's recursive-descent parser shape.
func ParseValue(t types.Type, s string) (values.Value, error) {
	p := &valueParser{src: s}
	v, err := p.parseValue(t)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, values.NewEastError("trailing input after value")
	}
	return v, nil
}

type valueParser struct {
	src string
	pos int
}

func (p *valueParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n' || p.src[p.pos] == '\r') {
		p.pos++
	}
}

func (p *valueParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *valueParser) expect(c byte) error {
	p.skipSpace()
	if p.peek() != c {
		return values.NewEastError("expected '" + string(c) + "'")
	}
	p.pos++
	return nil
}

func (p *valueParser) consumeWhile(pred func(byte) bool) string {
	start := p.pos
	for p.pos < len(p.src) && pred(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *valueParser) hasPrefix(s string) bool {
	return strings.HasPrefix(p.src[p.pos:], s)
}

func (p *valueParser) parseValue(t types.Type) (values.Value, error) {
	p.skipSpace()
	switch t.Kind() {
	case types.KindNull:
		if !p.hasPrefix("null") {
			return nil, values.NewEastError("expected null")
		}
		p.pos += len("null")
		return values.Null{}, nil
	case types.KindBoolean:
		if p.hasPrefix("true") {
			p.pos += 4
			return values.Boolean(true), nil
		}
		if p.hasPrefix("false") {
			p.pos += 5
			return values.Boolean(false), nil
		}
		return nil, values.NewEastError("expected true or false")
	case types.KindInteger:
		digits := p.consumeWhile(isIntegerByte)
		if digits == "" {
			return nil, values.NewEastError("expected integer")
		}
		n, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return nil, values.NewEastError("invalid integer: " + digits)
		}
		return values.Integer(n), nil
	case types.KindFloat:
		return p.parseFloat()
	case types.KindString:
		return p.parseString()
	case types.KindDateTime:
		lit := p.consumeWhile(func(c byte) bool { return (c >= '0' && c <= '9') || c == '-' || c == ':' || c == 'T' || c == '.' })
		if p.peek() == 'Z' {
			p.pos++
			lit += "Z"
		}
		tm, err := time.Parse("2006-01-02T15:04:05.000Z", lit)
		if err != nil {
			return nil, values.NewEastError("invalid DateTime: " + lit)
		}
		return values.DateTime(timeToEpochMillis(tm)), nil
	case types.KindBlob:
		return p.parseBlob()
	case types.KindRef:
		if err := p.expect('&'); err != nil {
			return nil, err
		}
		p.skipSpace()
		inner := t.(*types.Ref).Inner
		v, err := p.parseValue(inner)
		if err != nil {
			return nil, err
		}
		return values.NewRef(inner, v), nil
	case types.KindArray:
		return p.parseArray(t.(*types.Array))
	case types.KindSet:
		return p.parseSet(t.(*types.Set))
	case types.KindDict:
		return p.parseDict(t.(*types.Dict))
	case types.KindStruct:
		return p.parseStruct(t.(*types.Struct))
	case types.KindVariant:
		return p.parseVariant(t.(*types.Variant))
	default:
		return nil, values.NewEastError("value type " + types.PrintType(t) + " has no textual form")
	}
}

func isIntegerByte(c byte) bool {
	return (c >= '0' && c <= '9') || c == '-' || c == '+'
}

func (p *valueParser) parseFloat() (values.Value, error) {
	if p.hasPrefix("-inf") {
		p.pos += 4
		return values.Float(math.Inf(-1)), nil
	}
	if p.hasPrefix("inf") {
		p.pos += 3
		return values.Float(math.Inf(1)), nil
	}
	if p.hasPrefix("nan") {
		p.pos += 3
		return values.Float(math.NaN()), nil
	}
	lit := p.consumeWhile(func(c byte) bool {
		return (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E'
	})
	if lit == "" {
		return nil, values.NewEastError("expected float")
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, values.NewEastError("invalid float: " + lit)
	}
	return values.Float(f), nil
}

func (p *valueParser) parseString() (values.Value, error) {
	if err := p.expect('"'); err != nil {
		return nil, err
	}
	var b strings.Builder
	for {
		if p.pos >= len(p.src) {
			return nil, values.NewEastError("unterminated string")
		}
		c := p.src[p.pos]
		if c == '"' {
			p.pos++
			return values.String(b.String()), nil
		}
		if c == '\\' {
			p.pos++
			if p.pos >= len(p.src) {
				return nil, values.NewEastError("unterminated escape")
			}
			switch p.src[p.pos] {
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'u':
				if p.pos+4 >= len(p.src) {
					return nil, values.NewEastError("invalid unicode escape")
				}
				code, err := strconv.ParseInt(p.src[p.pos+1:p.pos+5], 16, 32)
				if err != nil {
					return nil, values.NewEastError("invalid unicode escape")
				}
				b.WriteRune(rune(code))
				p.pos += 4
			default:
				return nil, values.NewEastError("invalid escape sequence")
			}
			p.pos++
			continue
		}
		b.WriteByte(c)
		p.pos++
	}
}

func (p *valueParser) parseBlob() (values.Value, error) {
	if !p.hasPrefix("0x") {
		return nil, values.NewEastError("expected blob literal starting with 0x")
	}
	p.pos += 2
	hex := p.consumeWhile(isHexByte)
	if len(hex)%2 != 0 {
		return nil, values.NewEastError("blob literal has odd hex digit count")
	}
	out := make([]byte, len(hex)/2)
	for i := 0; i < len(out); i++ {
		hi := hexValue(hex[2*i])
		lo := hexValue(hex[2*i+1])
		if hi < 0 || lo < 0 {
			return nil, values.NewEastError("invalid hex digit in blob literal")
		}
		out[i] = byte(hi<<4 | lo)
	}
	return values.Blob(out), nil
}

func isHexByte(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return -1
	}
}

func (p *valueParser) parseArray(t *types.Array) (values.Value, error) {
	if err := p.expect('['); err != nil {
		return nil, err
	}
	out := values.NewArray(t.Elem)
	p.skipSpace()
	if p.peek() == ']' {
		p.pos++
		return out, nil
	}
	for {
		v, err := p.parseValue(t.Elem)
		if err != nil {
			return nil, err
		}
		out.Elements = append(out.Elements, v)
		p.skipSpace()
		if p.peek() == ',' {
			p.pos++
			continue
		}
		break
	}
	if err := p.expect(']'); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *valueParser) parseSet(t *types.Set) (values.Value, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	out := values.NewSet(t.Key)
	p.skipSpace()
	if p.peek() == '}' {
		p.pos++
		return out, nil
	}
	for {
		v, err := p.parseValue(t.Key)
		if err != nil {
			return nil, err
		}
		if _, err := out.Insert(v); err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() == ',' {
			p.pos++
			continue
		}
		break
	}
	if err := p.expect('}'); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *valueParser) parseDict(t *types.Dict) (values.Value, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	out := values.NewDict(t.Key, t.Value)
	p.skipSpace()
	if p.peek() == ':' {
		p.pos++
		if err := p.expect('}'); err != nil {
			return nil, err
		}
		return out, nil
	}
	if p.peek() == '}' {
		p.pos++
		return out, nil
	}
	for {
		k, err := p.parseValue(t.Key)
		if err != nil {
			return nil, err
		}
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		v, err := p.parseValue(t.Value)
		if err != nil {
			return nil, err
		}
		if _, err := out.Insert(k, v); err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() == ',' {
			p.pos++
			continue
		}
		break
	}
	if err := p.expect('}'); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *valueParser) parseStruct(t *types.Struct) (values.Value, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	fields := make([]values.Value, len(t.Fields))
	for i, f := range t.Fields {
		if i > 0 {
			if err := p.expect(','); err != nil {
				return nil, err
			}
		}
		p.skipSpace()
		name := p.consumeWhile(isNameByte)
		if name != f.Name {
			return nil, values.NewEastError("expected struct field " + f.Name + ", got " + name)
		}
		if err := p.expect('='); err != nil {
			return nil, err
		}
		v, err := p.parseValue(f.Type)
		if err != nil {
			return nil, err
		}
		fields[i] = v
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return values.NewStruct(t, fields...), nil
}

func (p *valueParser) parseVariant(t *types.Variant) (values.Value, error) {
	if err := p.expect('.'); err != nil {
		return nil, err
	}
	name := p.consumeWhile(isNameByte)
	idx := t.CaseIndex(name)
	if idx < 0 {
		return nil, values.NewEastError("unknown variant case " + name)
	}
	caseType := t.Cases[idx].Type
	if caseType.Kind() == types.KindNull {
		return values.NewVariant(t, name, values.Null{}), nil
	}
	if err := p.expect('('); err != nil {
		return nil, err
	}
	v, err := p.parseValue(caseType)
	if err != nil {
		return nil, err
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return values.NewVariant(t, name, v), nil
}

func isNameByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
