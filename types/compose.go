package types

// Union returns the least type that both a and b are subtypes of.
// Never is the identity of Union. Struct union requires identical
// field count and names at identical positions (struct combination is
// positional, not by name-matching across different shapes); Variant
// union is the union of case sets, with case types unioned where a
// case name is present on both sides. On a structural mismatch, Union
// returns a *TypeMismatch error carrying the path to the mismatch.
func Union(a, b Type) (Type, error) {
	return combine(a, b, nil, opUnion)
}

// Intersect returns the greatest type that is a subtype of both a and
// b. Never is the absorbing element of Intersect: intersecting with
// Never always yields Never. Variant intersection keeps only the case
// names present on both sides.
func Intersect(a, b Type) (Type, error) {
	return combine(a, b, nil, opIntersect)
}

// EqualRefine combines a and b under the assumption that they already
// describe the same shape and should be refined to their common,
// most-precise form: unlike Union it does not widen a Variant's case
// set or a Function's accepted-input set to accommodate a mismatch --
// any structural disagreement (missing Variant case, different Struct
// field count) is a TypeMismatch, not a widening. Where a and b differ
// only in nested detail (e.g. two Function types with different but
// compatible platform sets) the result still combines those details
// the same way Union would.
func EqualRefine(a, b Type) (Type, error) {
	return combine(a, b, nil, opRefine)
}

type composeOp int

const (
	opUnion composeOp = iota
	opIntersect
	opRefine
)

func combine(a, b Type, path []string, op composeOp) (Type, error) {
	if op != opRefine {
		if a.Kind() == KindNever {
			if op == opUnion {
				return b, nil
			}
			return Never, nil
		}
		if b.Kind() == KindNever {
			if op == opUnion {
				return a, nil
			}
			return Never, nil
		}
	}
	if TypeEqual(a, b) {
		return a, nil
	}
	if a.Kind() != b.Kind() {
		return nil, mismatch(path, "%s is not compatible with %s", PrintType(a), PrintType(b))
	}

	switch x := a.(type) {
	case *Array:
		y := b.(*Array)
		elem, err := combine(x.Elem, y.Elem, withPath(path, "array element"), op)
		if err != nil {
			return nil, err
		}
		return NewArray(elem), nil
	case *Set:
		y := b.(*Set)
		key, err := combine(x.Key, y.Key, withPath(path, "set key"), op)
		if err != nil {
			return nil, err
		}
		return NewSet(key), nil
	case *Dict:
		y := b.(*Dict)
		key, err := combine(x.Key, y.Key, withPath(path, "dict key"), op)
		if err != nil {
			return nil, err
		}
		val, err := combine(x.Value, y.Value, withPath(path, "dict value"), op)
		if err != nil {
			return nil, err
		}
		return NewDict(key, val), nil
	case *Ref:
		y := b.(*Ref)
		inner, err := combine(x.Inner, y.Inner, withPath(path, "ref"), op)
		if err != nil {
			return nil, err
		}
		return NewRef(inner), nil
	case *Struct:
		y := b.(*Struct)
		return combineStruct(x, y, path, op)
	case *Variant:
		y := b.(*Variant)
		return combineVariant(x, y, path, op)
	case *Recursive:
		y := b.(*Recursive)
		inner, err := combine(x.Inner, y.Inner, withPath(path, "recursive"), op)
		if err != nil {
			return nil, err
		}
		return NewRecursive(inner), nil
	case *RecursiveRef:
		y := b.(*RecursiveRef)
		if x.Depth != y.Depth {
			return nil, mismatch(path, "recursive back-reference depths %d and %d disagree", x.Depth, y.Depth)
		}
		return &RecursiveRef{Depth: x.Depth}, nil
	case *Function:
		y := b.(*Function)
		return combineFunction(x, y, path, op)
	case *AsyncFunction:
		y := b.(*AsyncFunction)
		return combineAsyncFunction(x, y, path, op)
	default:
		return nil, mismatch(path, "%s is not compatible with %s", PrintType(a), PrintType(b))
	}
}

func combineStruct(x, y *Struct, path []string, op composeOp) (Type, error) {
	if len(x.Fields) != len(y.Fields) {
		return nil, mismatch(path, "struct field count %d does not match %d", len(x.Fields), len(y.Fields))
	}
	fields := make([]Field, len(x.Fields))
	for i := range x.Fields {
		if x.Fields[i].Name != y.Fields[i].Name {
			return nil, mismatch(path, "struct field %d name %q does not match %q", i, x.Fields[i].Name, y.Fields[i].Name)
		}
		ft, err := combine(x.Fields[i].Type, y.Fields[i].Type, withPath(path, "struct field "+x.Fields[i].Name), op)
		if err != nil {
			return nil, err
		}
		fields[i] = Field{Name: x.Fields[i].Name, Type: ft}
	}
	return &Struct{Fields: fields}, nil
}

func combineVariant(x, y *Variant, path []string, op composeOp) (Type, error) {
	switch op {
	case opUnion:
		names := map[string]bool{}
		for _, c := range x.Cases {
			names[c.Name] = true
		}
		for _, c := range y.Cases {
			names[c.Name] = true
		}
		cases := make([]Case, 0, len(names))
		for name := range names {
			xi, yi := x.CaseIndex(name), y.CaseIndex(name)
			switch {
			case xi >= 0 && yi >= 0:
				ct, err := combine(x.Cases[xi].Type, y.Cases[yi].Type, withPath(path, "variant case "+name), op)
				if err != nil {
					return nil, err
				}
				cases = append(cases, Case{Name: name, Type: ct})
			case xi >= 0:
				cases = append(cases, x.Cases[xi])
			default:
				cases = append(cases, y.Cases[yi])
			}
		}
		return NewVariant(cases...), nil
	case opIntersect:
		var cases []Case
		for _, c := range x.Cases {
			yi := y.CaseIndex(c.Name)
			if yi < 0 {
				continue
			}
			ct, err := combine(c.Type, y.Cases[yi].Type, withPath(path, "variant case "+c.Name), op)
			if err != nil {
				return nil, err
			}
			cases = append(cases, Case{Name: c.Name, Type: ct})
		}
		return NewVariant(cases...), nil
	default: // opRefine
		if len(x.Cases) != len(y.Cases) {
			return nil, mismatch(path, "variant case count %d does not match %d", len(x.Cases), len(y.Cases))
		}
		cases := make([]Case, len(x.Cases))
		for i, c := range x.Cases {
			yi := y.CaseIndex(c.Name)
			if yi < 0 {
				return nil, mismatch(path, "variant case %s is not present in both variants", c.Name)
			}
			ct, err := combine(c.Type, y.Cases[yi].Type, withPath(path, "variant case "+c.Name), op)
			if err != nil {
				return nil, err
			}
			cases[i] = Case{Name: c.Name, Type: ct}
		}
		return NewVariant(cases...), nil
	}
}

func combineFunction(x, y *Function, path []string, op composeOp) (Type, error) {
	if len(x.Inputs) != len(y.Inputs) {
		return nil, mismatch(path, "function arity %d does not match %d", len(x.Inputs), len(y.Inputs))
	}
	inOp := flip(op)
	inputs := make([]Type, len(x.Inputs))
	for i := range x.Inputs {
		it, err := combine(x.Inputs[i], y.Inputs[i], withPath(path, "function input"), inOp)
		if err != nil {
			return nil, err
		}
		inputs[i] = it
	}
	out, err := combine(x.Output, y.Output, withPath(path, "function output"), op)
	if err != nil {
		return nil, err
	}
	var platforms PlatformSet
	if op == opIntersect {
		platforms = x.Platforms.Intersect(y.Platforms)
	} else {
		platforms = x.Platforms.Union(y.Platforms)
	}
	return &Function{Inputs: inputs, Output: out, Platforms: platforms}, nil
}

func combineAsyncFunction(x, y *AsyncFunction, path []string, op composeOp) (Type, error) {
	if len(x.Inputs) != len(y.Inputs) {
		return nil, mismatch(path, "function arity %d does not match %d", len(x.Inputs), len(y.Inputs))
	}
	inOp := flip(op)
	inputs := make([]Type, len(x.Inputs))
	for i := range x.Inputs {
		it, err := combine(x.Inputs[i], y.Inputs[i], withPath(path, "function input"), inOp)
		if err != nil {
			return nil, err
		}
		inputs[i] = it
	}
	out, err := combine(x.Output, y.Output, withPath(path, "function output"), op)
	if err != nil {
		return nil, err
	}
	var platforms PlatformSet
	if op == opIntersect {
		platforms = x.Platforms.Intersect(y.Platforms)
	} else {
		platforms = x.Platforms.Union(y.Platforms)
	}
	return &AsyncFunction{Inputs: inputs, Output: out, Platforms: platforms}, nil
}

func flip(op composeOp) composeOp {
	switch op {
	case opUnion:
		return opIntersect
	case opIntersect:
		return opUnion
	default:
		return op
	}
}
