package values

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Is reports identity equality (spec §3.2/§4.B): for the four mutable
// container kinds, two values are Is-equal only if they are the same
// aliased container. Every other value kind has no identity distinct
// from its structure, so Is falls back to StructuralEqual for them.
func Is(a, b Value) bool {
	switch x := a.(type) {
	case *Array:
		y, ok := b.(*Array)
		return ok && x == y
	case *Set:
		y, ok := b.(*Set)
		return ok && x == y
	case *Dict:
		y, ok := b.(*Dict)
		return ok && x == y
	case *Ref:
		y, ok := b.(*Ref)
		return ok && x == y
	default:
		return StructuralEqual(a, b)
	}
}

// StructuralEqual reports whether a and b represent the same East
// value, recursing through containers, structs, and variants by
// content rather than identity. Two distinct Array aliases with equal
// elements are StructuralEqual even though they are not Is-equal.
func StructuralEqual(a, b Value) bool {
	switch x := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Boolean:
		y, ok := b.(Boolean)
		return ok && x == y
	case Integer:
		y, ok := b.(Integer)
		return ok && x == y
	case Float:
		y, ok := b.(Float)
		if !ok {
			return false
		}
		// Canonical float equality: ==, so +0.0 and -0.0 compare equal
		// here even though they are identity-distinguishable (spec
		// §3.2); NaN never equals anything, including itself.
		return float64(x) == float64(y)
	case String:
		y, ok := b.(String)
		return ok && x == y
	case DateTime:
		y, ok := b.(DateTime)
		return ok && x == y
	case Blob:
		y, ok := b.(Blob)
		return ok && bytes.Equal(x, y)
	case *Array:
		y, ok := b.(*Array)
		if !ok || len(x.Elements) != len(y.Elements) {
			return false
		}
		for i := range x.Elements {
			if !StructuralEqual(x.Elements[i], y.Elements[i]) {
				return false
			}
		}
		return true
	case *Set:
		y, ok := b.(*Set)
		if !ok || len(x.Order) != len(y.Order) {
			return false
		}
		for _, k := range x.Order {
			if !y.Has(k) {
				return false
			}
		}
		return true
	case *Dict:
		y, ok := b.(*Dict)
		if !ok || len(y.Order) != len(x.Order) {
			return false
		}
		for i, k := range x.Order {
			v, found := y.Get(k)
			if !found || !StructuralEqual(x.Vals[i], v) {
				return false
			}
		}
		return true
	case *Ref:
		y, ok := b.(*Ref)
		return ok && StructuralEqual(x.Slot, y.Slot)
	case *Struct:
		y, ok := b.(*Struct)
		if !ok || len(x.Fields) != len(y.Fields) {
			return false
		}
		for i := range x.Fields {
			if !StructuralEqual(x.Fields[i], y.Fields[i]) {
				return false
			}
		}
		return true
	case *Variant:
		y, ok := b.(*Variant)
		return ok && x.Case == y.Case && StructuralEqual(x.Inner, y.Inner)
	case *Function:
		y, ok := b.(*Function)
		return ok && x == y
	case *AsyncFunction:
		y, ok := b.(*AsyncFunction)
		return ok && x == y
	default:
		return false
	}
}

// Ordering is the result of Compare: less, equal, or greater.
type Ordering int

const (
	Less Ordering = iota - 1
	Equal
	Greater
)

// Orderable reports whether v's kind has a total order Compare can
// evaluate. Only the scalar primitives are orderable; containers,
// structs, variants, and functions are not (spec §4.B only lists
// Less/LessEqual/Greater/GreaterEqual among the Equality and ordering
// builtins without extending them to composites).
func Orderable(v Value) bool {
	switch v.(type) {
	case Boolean, Integer, Float, String, DateTime:
		return true
	default:
		return false
	}
}

// Compare orders two values of the same orderable kind. It returns an
// error if either value is not Orderable or the two values have
// different kinds.
func Compare(a, b Value) (Ordering, error) {
	switch x := a.(type) {
	case Boolean:
		y, ok := b.(Boolean)
		if !ok {
			return Equal, errNotComparable(a, b)
		}
		return compareBool(bool(x), bool(y)), nil
	case Integer:
		y, ok := b.(Integer)
		if !ok {
			return Equal, errNotComparable(a, b)
		}
		switch {
		case x < y:
			return Less, nil
		case x > y:
			return Greater, nil
		default:
			return Equal, nil
		}
	case Float:
		y, ok := b.(Float)
		if !ok {
			return Equal, errNotComparable(a, b)
		}
		if math.IsNaN(float64(x)) || math.IsNaN(float64(y)) {
			return Equal, NewEastError("cannot order NaN")
		}
		switch {
		case x < y:
			return Less, nil
		case x > y:
			return Greater, nil
		default:
			return Equal, nil
		}
	case String:
		y, ok := b.(String)
		if !ok {
			return Equal, errNotComparable(a, b)
		}
		switch {
		case x < y:
			return Less, nil
		case x > y:
			return Greater, nil
		default:
			return Equal, nil
		}
	case DateTime:
		y, ok := b.(DateTime)
		if !ok {
			return Equal, errNotComparable(a, b)
		}
		switch {
		case x < y:
			return Less, nil
		case x > y:
			return Greater, nil
		default:
			return Equal, nil
		}
	default:
		return Equal, errNotComparable(a, b)
	}
}

func compareBool(x, y bool) Ordering {
	if x == y {
		return Equal
	}
	if !x && y {
		return Less
	}
	return Greater
}

func errNotComparable(a, b Value) error {
	return NewEastError("values are not orderable against each other")
}

// hashKeyBytes produces a content-stable byte encoding of an immutable
// data value, suitable for siphash bucketing of Set/Dict keys. It is
// deliberately not the BEAST2 wire format -- there is no backreference
// handling and no schema, because Set/Dict keys are always immutable
// data types (types.IsImmutableType), so the cycle and aliasing
// concerns BEAST2 solves never arise here.
func hashKeyBytes(v Value) []byte {
	var buf bytes.Buffer
	appendHashKey(&buf, v)
	return buf.Bytes()
}

func appendHashKey(buf *bytes.Buffer, v Value) {
	switch x := v.(type) {
	case Null:
		buf.WriteByte(0)
	case Boolean:
		buf.WriteByte(1)
		if x {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	case Integer:
		buf.WriteByte(2)
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], uint64(x))
		buf.Write(tmp[:])
	case Float:
		buf.WriteByte(3)
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(float64(x)))
		buf.Write(tmp[:])
	case String:
		buf.WriteByte(4)
		writeHashLen(buf, len(x))
		buf.WriteString(string(x))
	case DateTime:
		buf.WriteByte(5)
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], uint64(x))
		buf.Write(tmp[:])
	case Blob:
		buf.WriteByte(6)
		writeHashLen(buf, len(x))
		buf.Write(x)
	case *Struct:
		buf.WriteByte(7)
		writeHashLen(buf, len(x.Fields))
		for _, f := range x.Fields {
			appendHashKey(buf, f)
		}
	case *Variant:
		buf.WriteByte(8)
		writeHashLen(buf, len(x.Case))
		buf.WriteString(x.Case)
		appendHashKey(buf, x.Inner)
	default:
		// Unreachable for a well-typed immutable key, but keep hashing
		// total rather than panicking.
		buf.WriteByte(255)
	}
}

func writeHashLen(buf *bytes.Buffer, n int) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], uint64(n))
	buf.Write(tmp[:])
}
