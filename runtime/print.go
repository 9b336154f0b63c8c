package runtime

import (
	"math"
	"strconv"
	"strings"

	"github.com/elaraai/east/types"
	"github.com/elaraai/east/values"
)

// PrintValue returns the canonical textual form of v under type t, per
// spec §4.B's table. ParseValue is its left inverse:
// ParseValue(t, PrintValue(t, v)) yields a value StructuralEqual to v,
// except that a NaN Float parses back to NaN, which StructuralEqual
// never equates with anything. Recursive, Function and AsyncFunction
// types have no textual form here: PrintValue writes "?" for their
// values and ParseValue rejects them. Grounded on types.PrintType's
// recursive-descent shape.
func PrintValue(t types.Type, v values.Value) string {
	var b strings.Builder
	printValue(&b, t, v)
	return b.String()
}

func printValue(b *strings.Builder, t types.Type, v values.Value) {
	switch t.Kind() {
	case types.KindNull:
		b.WriteString("null")
	case types.KindBoolean:
		if v.(values.Boolean) {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case types.KindInteger:
		b.WriteString(strconv.FormatInt(int64(v.(values.Integer)), 10))
	case types.KindFloat:
		b.WriteString(printFloat(float64(v.(values.Float))))
	case types.KindString:
		b.WriteString(printString(string(v.(values.String))))
	case types.KindDateTime:
		b.WriteString(epochMillisToTime(int64(v.(values.DateTime))).Format("2006-01-02T15:04:05.000Z"))
	case types.KindBlob:
		printHex(b, v.(values.Blob))
	case types.KindRef:
		b.WriteByte('&')
		printValue(b, t.(*types.Ref).Inner, v.(*values.Ref).Slot)
	case types.KindArray:
		elem := t.(*types.Array).Elem
		arr := v.(*values.Array)
		b.WriteByte('[')
		for i, e := range arr.Elements {
			if i > 0 {
				b.WriteByte(',')
			}
			printValue(b, elem, e)
		}
		b.WriteByte(']')
	case types.KindSet:
		key := t.(*types.Set).Key
		set := v.(*values.Set)
		b.WriteByte('{')
		for i, e := range set.Order {
			if i > 0 {
				b.WriteByte(',')
			}
			printValue(b, key, e)
		}
		b.WriteByte('}')
	case types.KindDict:
		d := t.(*types.Dict)
		dict := v.(*values.Dict)
		if dict.Size() == 0 {
			b.WriteString("{:}")
			return
		}
		b.WriteByte('{')
		for i, k := range dict.Order {
			if i > 0 {
				b.WriteByte(',')
			}
			printValue(b, d.Key, k)
			b.WriteByte(':')
			printValue(b, d.Value, dict.Vals[i])
		}
		b.WriteByte('}')
	case types.KindStruct:
		st := t.(*types.Struct)
		s := v.(*values.Struct)
		b.WriteByte('(')
		for i, f := range st.Fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(f.Name)
			b.WriteByte('=')
			printValue(b, f.Type, s.Fields[i])
		}
		b.WriteByte(')')
	case types.KindVariant:
		variant := v.(*values.Variant)
		b.WriteByte('.')
		b.WriteString(variant.Case)
		if variant.CaseType().Kind() == types.KindNull {
			return
		}
		b.WriteByte('(')
		printValue(b, variant.CaseType(), variant.Inner)
		b.WriteByte(')')
	default:
		b.WriteString("?")
	}
}

// printFloat renders the shortest round-trip decimal form, with the
// IEEE special cases spelled out per spec §4.B rather than Go's default
// "+Inf"/"NaN" spelling.
func printFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

func printString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				b.WriteString(`\u`)
				hex := strconv.FormatInt(int64(r), 16)
				for i := len(hex); i < 4; i++ {
					b.WriteByte('0')
				}
				b.WriteString(hex)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

const hexDigits = "0123456789abcdef"

func printHex(b *strings.Builder, blob values.Blob) {
	b.WriteString("0x")
	for _, c := range blob {
		b.WriteByte(hexDigits[c>>4])
		b.WriteByte(hexDigits[c&0xf])
	}
}
