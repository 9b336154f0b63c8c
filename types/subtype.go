package types

// Subtype reports whether a is a subtype of b: every value of type a is
// usable wherever a value of type b is expected. Never is a subtype of
// every type. Function types are contravariant in their inputs and
// covariant in their output and platform set; mutable containers
// (Array/Set/Dict/Ref) are invariant in their element types, since a
// mutation through one alias must remain valid through every other
// alias of the same container.
func Subtype(a, b Type) bool {
	return subtype(a, b, map[pairKey]bool{})
}

func subtype(a, b Type, memo map[pairKey]bool) bool {
	if a.Kind() == KindNever {
		return true
	}
	if a == b {
		return true
	}
	if a.Kind() != b.Kind() {
		return false
	}
	key := pairKey{a, b}
	if v, ok := memo[key]; ok {
		return v
	}
	memo[key] = true

	result := func() bool {
		switch x := a.(type) {
		case primitive:
			return true
		case *Array:
			y := b.(*Array)
			return typeEqual(x.Elem, y.Elem, memo)
		case *Set:
			y := b.(*Set)
			return typeEqual(x.Key, y.Key, memo)
		case *Dict:
			y := b.(*Dict)
			return typeEqual(x.Key, y.Key, memo) && typeEqual(x.Value, y.Value, memo)
		case *Ref:
			y := b.(*Ref)
			return typeEqual(x.Inner, y.Inner, memo)
		case *Struct:
			y := b.(*Struct)
			if len(x.Fields) != len(y.Fields) {
				return false
			}
			for i := range x.Fields {
				if x.Fields[i].Name != y.Fields[i].Name {
					return false
				}
				if !subtype(x.Fields[i].Type, y.Fields[i].Type, memo) {
					return false
				}
			}
			return true
		case *Variant:
			y := b.(*Variant)
			for _, sc := range x.Cases {
				idx := y.CaseIndex(sc.Name)
				if idx < 0 {
					return false
				}
				if !subtype(sc.Type, y.Cases[idx].Type, memo) {
					return false
				}
			}
			return true
		case *Recursive:
			y := b.(*Recursive)
			return subtype(x.Inner, y.Inner, memo)
		case *RecursiveRef:
			y := b.(*RecursiveRef)
			return x.Depth == y.Depth
		case *Function:
			y := b.(*Function)
			if len(x.Inputs) != len(y.Inputs) {
				return false
			}
			for i := range x.Inputs {
				// Contravariant: the supertype's parameter must be
				// acceptable wherever the subtype's parameter is used.
				if !subtype(y.Inputs[i], x.Inputs[i], memo) {
					return false
				}
			}
			if !subtype(x.Output, y.Output, memo) {
				return false
			}
			for n := range x.Platforms {
				if !y.Platforms.Contains(n) {
					return false
				}
			}
			return true
		case *AsyncFunction:
			y := b.(*AsyncFunction)
			if len(x.Inputs) != len(y.Inputs) {
				return false
			}
			for i := range x.Inputs {
				if !subtype(y.Inputs[i], x.Inputs[i], memo) {
					return false
				}
			}
			if !subtype(x.Output, y.Output, memo) {
				return false
			}
			for n := range x.Platforms {
				if !y.Platforms.Contains(n) {
					return false
				}
			}
			return true
		default:
			return false
		}
	}()

	memo[key] = result
	return result
}
