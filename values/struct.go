package values

import "github.com/elaraai/east/types"

// Struct is a fixed-shape record value: by-value, with named fields in
// the declared order of its types.Struct. Structs are not
// identity-bearing; two Struct values with equal field values compare
// equal under StructuralEqual regardless of which Go instance holds
// them.
type Struct struct {
	Type   *types.Struct
	Fields []Value // parallel to Type.Fields, same order
}

func (*Struct) isValue() {}

// NewStruct returns a Struct value of the given type with the given
// field values, in declared field order.
func NewStruct(t *types.Struct, fields ...Value) *Struct {
	cp := make([]Value, len(fields))
	copy(cp, fields)
	return &Struct{Type: t, Fields: cp}
}

// Field looks up a field value by name, mirroring types.Struct's
// FieldIndex. Returns (nil, false) if name is not a field of s's type.
func (s *Struct) Field(name string) (Value, bool) {
	idx := s.Type.FieldIndex(name)
	if idx < 0 {
		return nil, false
	}
	return s.Fields[idx], true
}
