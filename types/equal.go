package types

// pairKey is the memo key for a pair of types being compared. Type
// values are always comparable (pointers, or the single-field
// primitive struct), so a [2]Type array works directly as a map key.
type pairKey [2]Type

// TypeEqual reports whether a and b are structurally identical. It is
// cycle-tolerant: a memo table of pairs already being compared
// prevents re-descending into shared substructure.
func TypeEqual(a, b Type) bool {
	return typeEqual(a, b, map[pairKey]bool{})
}

func typeEqual(a, b Type, memo map[pairKey]bool) bool {
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
	// Assume equal while descending; if that's wrong for a
	// non-regular (non-finite) recursive pair the only harm is a
	// benign false-positive that can't actually arise from the
	// finite Recursive/RecursiveRef syntax East types use.
	memo[key] = true

	result := func() bool {
		switch x := a.(type) {
		case primitive:
			return true // kinds already matched above
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
				if !typeEqual(x.Fields[i].Type, y.Fields[i].Type, memo) {
					return false
				}
			}
			return true
		case *Variant:
			y := b.(*Variant)
			if len(x.Cases) != len(y.Cases) {
				return false
			}
			for i := range x.Cases {
				if x.Cases[i].Name != y.Cases[i].Name {
					return false
				}
				if !typeEqual(x.Cases[i].Type, y.Cases[i].Type, memo) {
					return false
				}
			}
			return true
		case *Recursive:
			y := b.(*Recursive)
			return typeEqual(x.Inner, y.Inner, memo)
		case *RecursiveRef:
			y := b.(*RecursiveRef)
			return x.Depth == y.Depth
		case *Function:
			y := b.(*Function)
			if len(x.Inputs) != len(y.Inputs) {
				return false
			}
			for i := range x.Inputs {
				if !typeEqual(x.Inputs[i], y.Inputs[i], memo) {
					return false
				}
			}
			return typeEqual(x.Output, y.Output, memo) && x.Platforms.Equal(y.Platforms)
		case *AsyncFunction:
			y := b.(*AsyncFunction)
			if len(x.Inputs) != len(y.Inputs) {
				return false
			}
			for i := range x.Inputs {
				if !typeEqual(x.Inputs[i], y.Inputs[i], memo) {
					return false
				}
			}
			return typeEqual(x.Output, y.Output, memo) && x.Platforms.Equal(y.Platforms)
		default:
			return false
		}
	}()

	memo[key] = result
	return result
}
