package types

import "strings"

// PrintType returns the canonical textual form of t. ParseType is its
// inverse: ParseType(PrintType(t)) always yields a type structurally
// equal to t.
func PrintType(t Type) string {
	var b strings.Builder
	printType(&b, t, 0)
	return b.String()
}

func printType(b *strings.Builder, t Type, depth int) {
	switch x := t.(type) {
	case primitive:
		b.WriteString(x.Kind().String())
	case *Array:
		b.WriteString("Array(")
		printType(b, x.Elem, depth)
		b.WriteByte(')')
	case *Set:
		b.WriteString("Set(")
		printType(b, x.Key, depth)
		b.WriteByte(')')
	case *Dict:
		b.WriteString("Dict(")
		printType(b, x.Key, depth)
		b.WriteString(", ")
		printType(b, x.Value, depth)
		b.WriteByte(')')
	case *Ref:
		b.WriteString("Ref(")
		printType(b, x.Inner, depth)
		b.WriteByte(')')
	case *Struct:
		b.WriteString("Struct(")
		for i, f := range x.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteString(": ")
			printType(b, f.Type, depth)
		}
		b.WriteByte(')')
	case *Variant:
		b.WriteString("Variant(")
		for i, c := range x.Cases {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(c.Name)
			b.WriteString(": ")
			printType(b, c.Type, depth)
		}
		b.WriteByte(')')
	case *Recursive:
		b.WriteString("Recursive(")
		printType(b, x.Inner, depth+1)
		b.WriteByte(')')
	case *RecursiveRef:
		b.WriteByte('^')
		writeInt(b, x.Depth)
	case *Function:
		printSignature(b, "Function", x.Inputs, x.Output, x.Platforms, depth)
	case *AsyncFunction:
		printSignature(b, "AsyncFunction", x.Inputs, x.Output, x.Platforms, depth)
	default:
		b.WriteString("?")
	}
}

func printSignature(b *strings.Builder, name string, inputs []Type, output Type, platforms PlatformSet, depth int) {
	b.WriteString(name)
	b.WriteByte('(')
	for i, in := range inputs {
		if i > 0 {
			b.WriteString(", ")
		}
		printType(b, in, depth)
	}
	b.WriteString(" -> ")
	printType(b, output, depth)
	if len(platforms) > 0 {
		b.WriteString("; platforms: ")
		for i, n := range platforms.Sorted() {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(n)
		}
	}
	b.WriteByte(')')
}

func writeInt(b *strings.Builder, n int) {
	if n == 0 {
		b.WriteByte('0')
		return
	}
	var digits [20]byte
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	b.Write(digits[i:])
}
