package values

import "github.com/elaraai/east/types"

// ZeroValue returns the canonical zero value of t: the value a freshly
// allocated binding of that type holds before any explicit
// initializer runs. Spec.md §9 notes that the original's
// `minimalValue` and `defaultValue` are duplicates with no
// user-visible distinction; this collapses them to the one operation
// the rest of the engine needs -- beast2's cyclic-container decode
// preallocates a Ref's Slot with ZeroValue(Inner) before recursing
// into children that may alias back to it.
func ZeroValue(t types.Type) Value {
	switch x := t.(type) {
	case *types.Array:
		return NewArray(x.Elem)
	case *types.Set:
		return NewSet(x.Key)
	case *types.Dict:
		return NewDict(x.Key, x.Value)
	case *types.Ref:
		return NewRef(x.Inner, ZeroValue(x.Inner))
	case *types.Struct:
		fields := make([]Value, len(x.Fields))
		for i, f := range x.Fields {
			fields[i] = ZeroValue(f.Type)
		}
		return NewStruct(x, fields...)
	case *types.Variant:
		if len(x.Cases) == 0 {
			return nil
		}
		return NewVariant(x, x.Cases[0].Name, ZeroValue(x.Cases[0].Type))
	case *types.Recursive:
		return ZeroValue(x.Inner)
	}
	switch t.Kind() {
	case types.KindNull:
		return Null{}
	case types.KindBoolean:
		return Boolean(false)
	case types.KindInteger:
		return Integer(0)
	case types.KindFloat:
		return Float(0)
	case types.KindString:
		return String("")
	case types.KindDateTime:
		return DateTime(0)
	case types.KindBlob:
		return Blob{}
	default:
		return nil
	}
}
