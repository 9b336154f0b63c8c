package runtime

import (
	"sort"

	"github.com/elaraai/east/types"
	"github.com/elaraai/east/values"
)

// This file wires the Array/Set/Dict builtin family from spec §4.B. It
// covers the operations an analyzer/compiler actually needs to exercise
// every container invariant (iteration guard, mutable identity,
// insertion-order preservation): generation, membership and lookup,
// mutation, higher-order traversal (forEach/map/filter/fold/reduce),
// set algebra, and cross-container conversion. Dict-only operations
// (getOrDefault, keys, merge) are grouped at the end of the file.

func init() {
	registerArrayBuiltins()
	registerSetBuiltins()
	registerDictBuiltins()
}

// --- Array -----------------------------------------------------------

func registerArrayBuiltins() {
	register(Builtin{Name: "ArrayNew", Check: checkArrayNew, Eval: func(typeParams []types.Type, args []values.Value) (values.Value, error) {
		return values.NewArray(typeParams[0]), nil // element type is the single type parameter checkArrayNew requires, not taken from the Eval args
	}})
	register(Builtin{Name: "ArraySize", Check: checkArrayToInt, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return values.Integer(args[0].(*values.Array).Size()), nil
	}})
	register(Builtin{Name: "ArrayGet", Check: checkArrayGet, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Array)
		idx := int64(args[1].(values.Integer))
		if idx < 0 || idx >= int64(a.Size()) {
			return nil, values.NewEastError("array index out of bounds")
		}
		return a.Elements[idx], nil
	}})
	register(Builtin{Name: "ArrayGetOrDefault", Check: checkArrayGetOrDefault, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Array)
		idx := int64(args[1].(values.Integer))
		if idx < 0 || idx >= int64(a.Size()) {
			return args[2], nil
		}
		return a.Elements[idx], nil
	}})
	register(Builtin{Name: "ArrayTryGet", Check: checkArrayTryGet, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Array)
		idx := int64(args[1].(values.Integer))
		if idx < 0 || idx >= int64(a.Size()) {
			return values.NewVariant(arrayOptionType(a.Elem), "none", values.Null{}), nil
		}
		return values.NewVariant(arrayOptionType(a.Elem), "some", a.Elements[idx]), nil
	}})
	register(Builtin{Name: "ArrayPush", Check: checkArrayMutate, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Array)
		if err := a.CheckMutable(); err != nil {
			return nil, err
		}
		a.Elements = append(a.Elements, args[1])
		return values.Null{}, nil
	}})
	register(Builtin{Name: "ArrayPopLast", Check: checkArrayToItem, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Array)
		if err := a.CheckMutable(); err != nil {
			return nil, err
		}
		if a.Size() == 0 {
			return nil, values.NewEastError("pop from empty array")
		}
		last := a.Elements[len(a.Elements)-1]
		a.Elements = a.Elements[:len(a.Elements)-1]
		return last, nil
	}})
	register(Builtin{Name: "ArrayPopFirst", Check: checkArrayToItem, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Array)
		if err := a.CheckMutable(); err != nil {
			return nil, err
		}
		if a.Size() == 0 {
			return nil, values.NewEastError("pop from empty array")
		}
		first := a.Elements[0]
		a.Elements = a.Elements[1:]
		return first, nil
	}})
	register(Builtin{Name: "ArrayInsert", Check: checkArrayInsert, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Array)
		idx := int64(args[1].(values.Integer))
		if err := a.CheckMutable(); err != nil {
			return nil, err
		}
		if idx < 0 || idx > int64(a.Size()) {
			return nil, values.NewEastError("array index out of bounds")
		}
		a.Elements = append(a.Elements, nil)
		copy(a.Elements[idx+1:], a.Elements[idx:])
		a.Elements[idx] = args[2]
		return values.Null{}, nil
	}})
	register(Builtin{Name: "ArrayDelete", Check: checkArrayDelete, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Array)
		idx := int64(args[1].(values.Integer))
		if err := a.CheckMutable(); err != nil {
			return nil, err
		}
		if idx < 0 || idx >= int64(a.Size()) {
			return nil, values.NewEastError("array index out of bounds")
		}
		a.Elements = append(a.Elements[:idx], a.Elements[idx+1:]...)
		return values.Null{}, nil
	}})
	register(Builtin{Name: "ArraySlice", Check: checkArraySlice, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Array)
		start := clampIndex(int64(args[1].(values.Integer)), a.Size())
		end := clampIndex(int64(args[2].(values.Integer)), a.Size())
		if end < start {
			end = start
		}
		out := values.NewArray(a.Elem)
		out.Elements = append(out.Elements, a.Elements[start:end]...)
		return out, nil
	}})
	register(Builtin{Name: "ArrayConcat", Check: checkArrayBinarySame, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Array)
		b := args[1].(*values.Array)
		out := values.NewArray(a.Elem)
		out.Elements = append(out.Elements, a.Elements...)
		out.Elements = append(out.Elements, b.Elements...)
		return out, nil
	}})
	register(Builtin{Name: "ArrayAppend", Check: checkArrayMutate, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Array)
		if err := a.CheckMutable(); err != nil {
			return nil, err
		}
		a.Elements = append(a.Elements, args[1])
		return values.Null{}, nil
	}})
	register(Builtin{Name: "ArrayPrepend", Check: checkArrayMutate, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Array)
		if err := a.CheckMutable(); err != nil {
			return nil, err
		}
		a.Elements = append([]values.Value{args[1]}, a.Elements...)
		return values.Null{}, nil
	}})
	register(Builtin{Name: "ArraySortInPlace", Check: checkArrayToNull, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Array)
		if err := a.CheckMutable(); err != nil {
			return nil, err
		}
		if err := sortOrderable(a.Elements); err != nil {
			return nil, err
		}
		return values.Null{}, nil
	}})
	register(Builtin{Name: "ArraySort", Check: checkArrayToSame, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Array)
		out := values.NewArray(a.Elem)
		out.Elements = append(out.Elements, a.Elements...)
		if err := sortOrderable(out.Elements); err != nil {
			return nil, err
		}
		return out, nil
	}})
	register(Builtin{Name: "ArrayReverseInPlace", Check: checkArrayToNull, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Array)
		if err := a.CheckMutable(); err != nil {
			return nil, err
		}
		reverseInPlace(a.Elements)
		return values.Null{}, nil
	}})
	register(Builtin{Name: "ArrayReverse", Check: checkArrayToSame, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Array)
		out := values.NewArray(a.Elem)
		out.Elements = append(out.Elements, a.Elements...)
		reverseInPlace(out.Elements)
		return out, nil
	}})
	register(Builtin{Name: "ArrayFind", Check: checkArrayFind, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Array)
		pred := args[1].(*values.Function)
		for i, e := range a.Elements {
			ok, err := callPredicate(pred, e)
			if err != nil {
				return nil, err
			}
			if ok {
				return values.NewVariant(arrayOptionType(types.Integer), "some", values.Integer(i)), nil
			}
		}
		return values.NewVariant(arrayOptionType(types.Integer), "none", values.Null{}), nil
	}})
	register(Builtin{Name: "ArrayCopy", Check: checkArrayToSame, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Array)
		out := values.NewArray(a.Elem)
		out.Elements = append(out.Elements, a.Elements...)
		return out, nil
	}})
	register(Builtin{Name: "ArrayForEach", Check: checkArrayForEach, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Array)
		fn := args[1].(*values.Function)
		a.BeginIteration()
		defer a.EndIteration()
		for _, e := range a.Elements {
			if _, err := fn.Impl([]values.Value{e}); err != nil {
				return nil, err
			}
		}
		return values.Null{}, nil
	}})
	register(Builtin{Name: "ArrayMap", Check: checkArrayMap, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Array)
		fn := args[1].(*values.Function)
		out := values.NewArray(fn.Type.Output)
		a.BeginIteration()
		defer a.EndIteration()
		for _, e := range a.Elements {
			r, err := fn.Impl([]values.Value{e})
			if err != nil {
				return nil, err
			}
			out.Elements = append(out.Elements, r)
		}
		return out, nil
	}})
	register(Builtin{Name: "ArrayFilter", Check: checkArrayFilter, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Array)
		pred := args[1].(*values.Function)
		out := values.NewArray(a.Elem)
		a.BeginIteration()
		defer a.EndIteration()
		for _, e := range a.Elements {
			ok, err := callPredicate(pred, e)
			if err != nil {
				return nil, err
			}
			if ok {
				out.Elements = append(out.Elements, e)
			}
		}
		return out, nil
	}})
	register(Builtin{Name: "ArrayFold", Check: checkArrayFold, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Array)
		acc := args[1]
		fn := args[2].(*values.Function)
		a.BeginIteration()
		defer a.EndIteration()
		for _, e := range a.Elements {
			r, err := fn.Impl([]values.Value{acc, e})
			if err != nil {
				return nil, err
			}
			acc = r
		}
		return acc, nil
	}})
	register(Builtin{Name: "ArrayReduce", Check: checkArrayReduce, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Array)
		fn := args[1].(*values.Function)
		if a.Size() == 0 {
			return nil, values.NewEastError("reduce of empty array")
		}
		acc := a.Elements[0]
		a.BeginIteration()
		defer a.EndIteration()
		for _, e := range a.Elements[1:] {
			r, err := fn.Impl([]values.Value{acc, e})
			if err != nil {
				return nil, err
			}
			acc = r
		}
		return acc, nil
	}})
	register(Builtin{Name: "ArrayToSet", Check: checkArrayToSet, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Array)
		out := values.NewSet(a.Elem)
		for _, e := range a.Elements {
			if _, err := out.Insert(e); err != nil {
				return nil, err
			}
		}
		return out, nil
	}})
}

func checkArrayNew(typeParams []types.Type, args []types.Type) (types.Type, error) {
	if len(typeParams) != 1 || len(args) != 0 {
		return nil, errArity("ArrayNew", 0, len(args))
	}
	return types.NewArray(typeParams[0]), nil
}

func asArray(args []types.Type, n int) (*types.Array, error) {
	if len(args) != n {
		return nil, errArity("array operator", n, len(args))
	}
	a, ok := args[0].(*types.Array)
	if !ok {
		return nil, errArity("array operator", n, len(args))
	}
	return a, nil
}

func checkArrayToInt(_ []types.Type, args []types.Type) (types.Type, error) {
	if _, err := asArray(args, 1); err != nil {
		return nil, err
	}
	return types.Integer, nil
}

func checkArrayToNull(_ []types.Type, args []types.Type) (types.Type, error) {
	if _, err := asArray(args, 1); err != nil {
		return nil, err
	}
	return types.Null, nil
}

func checkArrayToSame(_ []types.Type, args []types.Type) (types.Type, error) {
	a, err := asArray(args, 1)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func checkArrayToItem(_ []types.Type, args []types.Type) (types.Type, error) {
	a, err := asArray(args, 1)
	if err != nil {
		return nil, err
	}
	return a.Elem, nil
}

func checkArrayGet(_ []types.Type, args []types.Type) (types.Type, error) {
	a, err := asArray(args, 2)
	if err != nil {
		return nil, err
	}
	if args[1].Kind() != types.KindInteger {
		return nil, errArity("ArrayGet", 2, len(args))
	}
	return a.Elem, nil
}

func checkArrayGetOrDefault(_ []types.Type, args []types.Type) (types.Type, error) {
	a, err := asArray(args, 3)
	if err != nil {
		return nil, err
	}
	if args[1].Kind() != types.KindInteger || !types.TypeEqual(args[2], a.Elem) {
		return nil, errArity("ArrayGetOrDefault", 3, len(args))
	}
	return a.Elem, nil
}

func checkArrayTryGet(_ []types.Type, args []types.Type) (types.Type, error) {
	a, err := asArray(args, 2)
	if err != nil {
		return nil, err
	}
	if args[1].Kind() != types.KindInteger {
		return nil, errArity("ArrayTryGet", 2, len(args))
	}
	return arrayOptionType(a.Elem), nil
}

func checkArrayMutate(_ []types.Type, args []types.Type) (types.Type, error) {
	a, err := asArray(args, 2)
	if err != nil {
		return nil, err
	}
	if !types.TypeEqual(args[1], a.Elem) {
		return nil, errArity("array operator", 2, len(args))
	}
	return types.Null, nil
}

func checkArrayInsert(_ []types.Type, args []types.Type) (types.Type, error) {
	a, err := asArray(args, 3)
	if err != nil {
		return nil, err
	}
	if args[1].Kind() != types.KindInteger || !types.TypeEqual(args[2], a.Elem) {
		return nil, errArity("ArrayInsert", 3, len(args))
	}
	return types.Null, nil
}

func checkArrayDelete(_ []types.Type, args []types.Type) (types.Type, error) {
	if _, err := asArray(args, 2); err != nil {
		return nil, err
	}
	if args[1].Kind() != types.KindInteger {
		return nil, errArity("ArrayDelete", 2, len(args))
	}
	return types.Null, nil
}

func checkArraySlice(_ []types.Type, args []types.Type) (types.Type, error) {
	a, err := asArray(args, 3)
	if err != nil {
		return nil, err
	}
	if args[1].Kind() != types.KindInteger || args[2].Kind() != types.KindInteger {
		return nil, errArity("ArraySlice", 3, len(args))
	}
	return a, nil
}

func checkArrayBinarySame(_ []types.Type, args []types.Type) (types.Type, error) {
	a, err := asArray(args, 2)
	if err != nil {
		return nil, err
	}
	b, ok := args[1].(*types.Array)
	if !ok || !types.TypeEqual(a.Elem, b.Elem) {
		return nil, errArity("array operator", 2, len(args))
	}
	return a, nil
}

func checkArrayFind(_ []types.Type, args []types.Type) (types.Type, error) {
	a, err := asArray(args, 2)
	if err != nil {
		return nil, err
	}
	if !isPredicateOver(args[1], a.Elem) {
		return nil, errArity("ArrayFind", 2, len(args))
	}
	return arrayOptionType(types.Integer), nil
}

func checkArrayForEach(_ []types.Type, args []types.Type) (types.Type, error) {
	a, err := asArray(args, 2)
	if err != nil {
		return nil, err
	}
	fn, ok := args[1].(*types.Function)
	if !ok || len(fn.Inputs) != 1 || !types.TypeEqual(fn.Inputs[0], a.Elem) {
		return nil, errArity("ArrayForEach", 2, len(args))
	}
	return types.Null, nil
}

func checkArrayMap(_ []types.Type, args []types.Type) (types.Type, error) {
	a, err := asArray(args, 2)
	if err != nil {
		return nil, err
	}
	fn, ok := args[1].(*types.Function)
	if !ok || len(fn.Inputs) != 1 || !types.TypeEqual(fn.Inputs[0], a.Elem) {
		return nil, errArity("ArrayMap", 2, len(args))
	}
	return types.NewArray(fn.Output), nil
}

func checkArrayFilter(_ []types.Type, args []types.Type) (types.Type, error) {
	a, err := asArray(args, 2)
	if err != nil {
		return nil, err
	}
	if !isPredicateOver(args[1], a.Elem) {
		return nil, errArity("ArrayFilter", 2, len(args))
	}
	return a, nil
}

func checkArrayFold(_ []types.Type, args []types.Type) (types.Type, error) {
	a, err := asArray(args, 3)
	if err != nil {
		return nil, err
	}
	fn, ok := args[2].(*types.Function)
	if !ok || len(fn.Inputs) != 2 || !types.TypeEqual(fn.Inputs[0], args[1]) || !types.TypeEqual(fn.Inputs[1], a.Elem) || !types.TypeEqual(fn.Output, args[1]) {
		return nil, errArity("ArrayFold", 3, len(args))
	}
	return args[1], nil
}

func checkArrayReduce(_ []types.Type, args []types.Type) (types.Type, error) {
	a, err := asArray(args, 2)
	if err != nil {
		return nil, err
	}
	fn, ok := args[1].(*types.Function)
	if !ok || len(fn.Inputs) != 2 || !types.TypeEqual(fn.Inputs[0], a.Elem) || !types.TypeEqual(fn.Inputs[1], a.Elem) || !types.TypeEqual(fn.Output, a.Elem) {
		return nil, errArity("ArrayReduce", 2, len(args))
	}
	return a.Elem, nil
}

func checkArrayToSet(_ []types.Type, args []types.Type) (types.Type, error) {
	a, err := asArray(args, 1)
	if err != nil {
		return nil, err
	}
	return types.NewSet(a.Elem), nil
}

func isPredicateOver(t types.Type, elem types.Type) bool {
	fn, ok := t.(*types.Function)
	return ok && len(fn.Inputs) == 1 && types.TypeEqual(fn.Inputs[0], elem) && fn.Output.Kind() == types.KindBoolean
}

func callPredicate(fn *values.Function, arg values.Value) (bool, error) {
	r, err := fn.Impl([]values.Value{arg})
	if err != nil {
		return false, err
	}
	return bool(r.(values.Boolean)), nil
}

// arrayOptionType builds the ad-hoc Variant(some: T, none: Null) East
// uses in place of a built-in Option type for the Try*/find-style
// builtins that may have nothing to return.
func arrayOptionType(t types.Type) *types.Variant {
	return types.NewVariant(
		types.Case{Name: "some", Type: t},
		types.Case{Name: "none", Type: types.Null},
	)
}

func sortOrderable(vs []values.Value) error {
	var sortErr error
	sort.SliceStable(vs, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		o, err := values.Compare(vs[i], vs[j])
		if err != nil {
			sortErr = err
			return false
		}
		return o == values.Less
	})
	return sortErr
}

func reverseInPlace(vs []values.Value) {
	for i, j := 0, len(vs)-1; i < j; i, j = i+1, j-1 {
		vs[i], vs[j] = vs[j], vs[i]
	}
}

// --- Set ---------------------------------------------------------------

func registerSetBuiltins() {
	register(Builtin{Name: "SetNew", Check: checkSetNew, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return values.NewSet(nil), nil
	}})
	register(Builtin{Name: "SetSize", Check: checkSetToInt, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return values.Integer(args[0].(*values.Set).Size()), nil
	}})
	register(Builtin{Name: "SetHas", Check: checkSetHas, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return values.Boolean(args[0].(*values.Set).Has(args[1])), nil
	}})
	register(Builtin{Name: "SetInsert", Check: checkSetMutate, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		ok, err := args[0].(*values.Set).Insert(args[1])
		if err != nil {
			return nil, err
		}
		return values.Boolean(ok), nil
	}})
	register(Builtin{Name: "SetDelete", Check: checkSetMutate, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		ok, err := args[0].(*values.Set).Delete(args[1])
		if err != nil {
			return nil, err
		}
		return values.Boolean(ok), nil
	}})
	register(Builtin{Name: "SetUnion", Check: checkSetBinarySame, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Set)
		b := args[1].(*values.Set)
		out := values.NewSet(a.Key)
		for _, e := range a.Order {
			if _, err := out.Insert(e); err != nil {
				return nil, err
			}
		}
		for _, e := range b.Order {
			if _, err := out.Insert(e); err != nil {
				return nil, err
			}
		}
		return out, nil
	}})
	register(Builtin{Name: "SetIntersect", Check: checkSetBinarySame, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Set)
		b := args[1].(*values.Set)
		out := values.NewSet(a.Key)
		for _, e := range a.Order {
			if b.Has(e) {
				if _, err := out.Insert(e); err != nil {
					return nil, err
				}
			}
		}
		return out, nil
	}})
	register(Builtin{Name: "SetDiff", Check: checkSetBinarySame, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Set)
		b := args[1].(*values.Set)
		out := values.NewSet(a.Key)
		for _, e := range a.Order {
			if !b.Has(e) {
				if _, err := out.Insert(e); err != nil {
					return nil, err
				}
			}
		}
		return out, nil
	}})
	register(Builtin{Name: "SetSymDiff", Check: checkSetBinarySame, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Set)
		b := args[1].(*values.Set)
		out := values.NewSet(a.Key)
		for _, e := range a.Order {
			if !b.Has(e) {
				if _, err := out.Insert(e); err != nil {
					return nil, err
				}
			}
		}
		for _, e := range b.Order {
			if !a.Has(e) {
				if _, err := out.Insert(e); err != nil {
					return nil, err
				}
			}
		}
		return out, nil
	}})
	register(Builtin{Name: "SetUnionInPlace", Check: checkSetBinaryNull, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Set)
		b := args[1].(*values.Set)
		for _, e := range b.Order {
			if _, err := a.Insert(e); err != nil {
				return nil, err
			}
		}
		return values.Null{}, nil
	}})
	register(Builtin{Name: "SetCopy", Check: checkSetToSame, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Set)
		out := values.NewSet(a.Key)
		for _, e := range a.Order {
			if _, err := out.Insert(e); err != nil {
				return nil, err
			}
		}
		return out, nil
	}})
	register(Builtin{Name: "SetForEach", Check: checkSetForEach, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		s := args[0].(*values.Set)
		fn := args[1].(*values.Function)
		s.BeginIteration()
		defer s.EndIteration()
		for _, e := range s.Order {
			if _, err := fn.Impl([]values.Value{e}); err != nil {
				return nil, err
			}
		}
		return values.Null{}, nil
	}})
	register(Builtin{Name: "SetFold", Check: checkSetFold, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		s := args[0].(*values.Set)
		acc := args[1]
		fn := args[2].(*values.Function)
		s.BeginIteration()
		defer s.EndIteration()
		for _, e := range s.Order {
			r, err := fn.Impl([]values.Value{acc, e})
			if err != nil {
				return nil, err
			}
			acc = r
		}
		return acc, nil
	}})
	register(Builtin{Name: "SetToArray", Check: checkSetToArray, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		s := args[0].(*values.Set)
		out := values.NewArray(s.Key)
		out.Elements = append(out.Elements, s.Order...)
		return out, nil
	}})
}

func asSet(args []types.Type, n int) (*types.Set, error) {
	if len(args) != n {
		return nil, errArity("set operator", n, len(args))
	}
	s, ok := args[0].(*types.Set)
	if !ok {
		return nil, errArity("set operator", n, len(args))
	}
	return s, nil
}

func checkSetNew(typeParams []types.Type, args []types.Type) (types.Type, error) {
	if len(typeParams) != 1 || len(args) != 0 {
		return nil, errArity("SetNew", 0, len(args))
	}
	return types.NewSet(typeParams[0]), nil
}

func checkSetToInt(_ []types.Type, args []types.Type) (types.Type, error) {
	if _, err := asSet(args, 1); err != nil {
		return nil, err
	}
	return types.Integer, nil
}

func checkSetToSame(_ []types.Type, args []types.Type) (types.Type, error) {
	s, err := asSet(args, 1)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func checkSetHas(_ []types.Type, args []types.Type) (types.Type, error) {
	s, err := asSet(args, 2)
	if err != nil {
		return nil, err
	}
	if !types.TypeEqual(args[1], s.Key) {
		return nil, errArity("SetHas", 2, len(args))
	}
	return types.Boolean, nil
}

func checkSetMutate(_ []types.Type, args []types.Type) (types.Type, error) {
	s, err := asSet(args, 2)
	if err != nil {
		return nil, err
	}
	if !types.TypeEqual(args[1], s.Key) {
		return nil, errArity("set operator", 2, len(args))
	}
	return types.Boolean, nil
}

func checkSetBinarySame(_ []types.Type, args []types.Type) (types.Type, error) {
	a, err := asSet(args, 2)
	if err != nil {
		return nil, err
	}
	b, ok := args[1].(*types.Set)
	if !ok || !types.TypeEqual(a.Key, b.Key) {
		return nil, errArity("set operator", 2, len(args))
	}
	return a, nil
}

func checkSetBinaryNull(_ []types.Type, args []types.Type) (types.Type, error) {
	if _, err := checkSetBinarySame(nil, args); err != nil {
		return nil, err
	}
	return types.Null, nil
}

func checkSetForEach(_ []types.Type, args []types.Type) (types.Type, error) {
	s, err := asSet(args, 2)
	if err != nil {
		return nil, err
	}
	fn, ok := args[1].(*types.Function)
	if !ok || len(fn.Inputs) != 1 || !types.TypeEqual(fn.Inputs[0], s.Key) {
		return nil, errArity("SetForEach", 2, len(args))
	}
	return types.Null, nil
}

func checkSetFold(_ []types.Type, args []types.Type) (types.Type, error) {
	s, err := asSet(args, 3)
	if err != nil {
		return nil, err
	}
	fn, ok := args[2].(*types.Function)
	if !ok || len(fn.Inputs) != 2 || !types.TypeEqual(fn.Inputs[0], args[1]) || !types.TypeEqual(fn.Inputs[1], s.Key) || !types.TypeEqual(fn.Output, args[1]) {
		return nil, errArity("SetFold", 3, len(args))
	}
	return args[1], nil
}

func checkSetToArray(_ []types.Type, args []types.Type) (types.Type, error) {
	s, err := asSet(args, 1)
	if err != nil {
		return nil, err
	}
	return types.NewArray(s.Key), nil
}

// --- Dict ----------------------------------------------------------------

func registerDictBuiltins() {
	register(Builtin{Name: "DictNew", Check: checkDictNew, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return values.NewDict(nil, nil), nil
	}})
	register(Builtin{Name: "DictSize", Check: checkDictToInt, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return values.Integer(args[0].(*values.Dict).Size()), nil
	}})
	register(Builtin{Name: "DictHas", Check: checkDictKeyToBool, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		_, ok := args[0].(*values.Dict).Get(args[1])
		return values.Boolean(ok), nil
	}})
	register(Builtin{Name: "DictGet", Check: checkDictGet, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		v, ok := args[0].(*values.Dict).Get(args[1])
		if !ok {
			return nil, values.NewEastError("dict key not found")
		}
		return v, nil
	}})
	register(Builtin{Name: "DictGetOrDefault", Check: checkDictGetOrDefault, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		v, ok := args[0].(*values.Dict).Get(args[1])
		if !ok {
			return args[2], nil
		}
		return v, nil
	}})
	register(Builtin{Name: "DictTryGet", Check: checkDictTryGet, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		d := args[0].(*values.Dict)
		v, ok := d.Get(args[1])
		if !ok {
			return values.NewVariant(arrayOptionType(d.Value), "none", values.Null{}), nil
		}
		return values.NewVariant(arrayOptionType(d.Value), "some", v), nil
	}})
	register(Builtin{Name: "DictInsert", Check: checkDictInsert, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		created, err := args[0].(*values.Dict).Insert(args[1], args[2])
		if err != nil {
			return nil, err
		}
		return values.Boolean(created), nil
	}})
	register(Builtin{Name: "DictGetOrInsert", Check: checkDictInsert, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		d := args[0].(*values.Dict)
		if v, ok := d.Get(args[1]); ok {
			return v, nil
		}
		if _, err := d.Insert(args[1], args[2]); err != nil {
			return nil, err
		}
		return args[2], nil
	}})
	register(Builtin{Name: "DictUpdate", Check: checkDictUpdate, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		d := args[0].(*values.Dict)
		if _, ok := d.Get(args[1]); !ok {
			return nil, values.NewEastError("dict key not found")
		}
		if _, err := d.Insert(args[1], args[2]); err != nil {
			return nil, err
		}
		return values.Null{}, nil
	}})
	register(Builtin{Name: "DictInsertOrUpdate", Check: checkDictInsert, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		if _, err := args[0].(*values.Dict).Insert(args[1], args[2]); err != nil {
			return nil, err
		}
		return values.Null{}, nil
	}})
	register(Builtin{Name: "DictSwap", Check: checkDictSwap, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		d := args[0].(*values.Dict)
		old, ok := d.Get(args[1])
		if !ok {
			return nil, values.NewEastError("dict key not found")
		}
		if _, err := d.Insert(args[1], args[2]); err != nil {
			return nil, err
		}
		return old, nil
	}})
	register(Builtin{Name: "DictPop", Check: checkDictGet, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		d := args[0].(*values.Dict)
		v, ok := d.Get(args[1])
		if !ok {
			return nil, values.NewEastError("dict key not found")
		}
		if _, err := d.Delete(args[1]); err != nil {
			return nil, err
		}
		return v, nil
	}})
	register(Builtin{Name: "DictMerge", Check: checkDictMerge, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		d := args[0].(*values.Dict)
		existing, ok := d.Get(args[1])
		if !ok {
			return nil, values.NewEastError("merge into missing dict key without default")
		}
		combiner := args[3].(*values.Function)
		merged, err := combiner.Impl([]values.Value{existing, args[2]})
		if err != nil {
			return nil, err
		}
		if _, err := d.Insert(args[1], merged); err != nil {
			return nil, err
		}
		return values.Null{}, nil
	}})
	register(Builtin{Name: "DictUnionInPlace", Check: checkDictBinaryNull, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Dict)
		b := args[1].(*values.Dict)
		for i, k := range b.Order {
			if _, err := a.Insert(k, b.Vals[i]); err != nil {
				return nil, err
			}
		}
		return values.Null{}, nil
	}})
	register(Builtin{Name: "DictDelete", Check: checkDictKeyToBool, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		ok, err := args[0].(*values.Dict).Delete(args[1])
		if err != nil {
			return nil, err
		}
		return values.Boolean(ok), nil
	}})
	register(Builtin{Name: "DictKeys", Check: checkDictKeys, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		d := args[0].(*values.Dict)
		out := values.NewSet(d.Key)
		for _, k := range d.Order {
			if _, err := out.Insert(k); err != nil {
				return nil, err
			}
		}
		return out, nil
	}})
	register(Builtin{Name: "DictGetKeys", Check: checkDictGetKeys, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		d := args[0].(*values.Dict)
		out := values.NewArray(d.Key)
		out.Elements = append(out.Elements, d.Order...)
		return out, nil
	}})
	register(Builtin{Name: "DictForEach", Check: checkDictForEach, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		d := args[0].(*values.Dict)
		fn := args[1].(*values.Function)
		d.BeginIteration()
		defer d.EndIteration()
		for i, k := range d.Order {
			if _, err := fn.Impl([]values.Value{k, d.Vals[i]}); err != nil {
				return nil, err
			}
		}
		return values.Null{}, nil
	}})
	register(Builtin{Name: "DictMergeAll", Check: checkDictMergeAll, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := args[0].(*values.Dict)
		b := args[1].(*values.Dict)
		combiner := args[2].(*values.Function)
		out := values.NewDict(a.Key, a.Value)
		for i, k := range a.Order {
			if _, err := out.Insert(k, a.Vals[i]); err != nil {
				return nil, err
			}
		}
		for i, k := range b.Order {
			if existing, ok := out.Get(k); ok {
				merged, err := combiner.Impl([]values.Value{existing, b.Vals[i]})
				if err != nil {
					return nil, err
				}
				if _, err := out.Insert(k, merged); err != nil {
					return nil, err
				}
				continue
			}
			if _, err := out.Insert(k, b.Vals[i]); err != nil {
				return nil, err
			}
		}
		return out, nil
	}})
}

func asDict(args []types.Type, n int) (*types.Dict, error) {
	if len(args) != n {
		return nil, errArity("dict operator", n, len(args))
	}
	d, ok := args[0].(*types.Dict)
	if !ok {
		return nil, errArity("dict operator", n, len(args))
	}
	return d, nil
}

func checkDictNew(typeParams []types.Type, args []types.Type) (types.Type, error) {
	if len(typeParams) != 2 || len(args) != 0 {
		return nil, errArity("DictNew", 0, len(args))
	}
	return types.NewDict(typeParams[0], typeParams[1]), nil
}

func checkDictToInt(_ []types.Type, args []types.Type) (types.Type, error) {
	if _, err := asDict(args, 1); err != nil {
		return nil, err
	}
	return types.Integer, nil
}

func checkDictKeyToBool(_ []types.Type, args []types.Type) (types.Type, error) {
	d, err := asDict(args, 2)
	if err != nil {
		return nil, err
	}
	if !types.TypeEqual(args[1], d.Key) {
		return nil, errArity("dict operator", 2, len(args))
	}
	return types.Boolean, nil
}

func checkDictGet(_ []types.Type, args []types.Type) (types.Type, error) {
	d, err := asDict(args, 2)
	if err != nil {
		return nil, err
	}
	if !types.TypeEqual(args[1], d.Key) {
		return nil, errArity("DictGet", 2, len(args))
	}
	return d.Value, nil
}

func checkDictGetOrDefault(_ []types.Type, args []types.Type) (types.Type, error) {
	d, err := asDict(args, 3)
	if err != nil {
		return nil, err
	}
	if !types.TypeEqual(args[1], d.Key) || !types.TypeEqual(args[2], d.Value) {
		return nil, errArity("DictGetOrDefault", 3, len(args))
	}
	return d.Value, nil
}

func checkDictTryGet(_ []types.Type, args []types.Type) (types.Type, error) {
	d, err := asDict(args, 2)
	if err != nil {
		return nil, err
	}
	if !types.TypeEqual(args[1], d.Key) {
		return nil, errArity("DictTryGet", 2, len(args))
	}
	return arrayOptionType(d.Value), nil
}

func checkDictInsert(_ []types.Type, args []types.Type) (types.Type, error) {
	d, err := asDict(args, 3)
	if err != nil {
		return nil, err
	}
	if !types.TypeEqual(args[1], d.Key) || !types.TypeEqual(args[2], d.Value) {
		return nil, errArity("dict operator", 3, len(args))
	}
	return types.Boolean, nil
}

func checkDictUpdate(_ []types.Type, args []types.Type) (types.Type, error) {
	d, err := asDict(args, 3)
	if err != nil {
		return nil, err
	}
	if !types.TypeEqual(args[1], d.Key) || !types.TypeEqual(args[2], d.Value) {
		return nil, errArity("DictUpdate", 3, len(args))
	}
	return types.Null, nil
}

func checkDictSwap(_ []types.Type, args []types.Type) (types.Type, error) {
	d, err := asDict(args, 3)
	if err != nil {
		return nil, err
	}
	if !types.TypeEqual(args[1], d.Key) || !types.TypeEqual(args[2], d.Value) {
		return nil, errArity("DictSwap", 3, len(args))
	}
	return d.Value, nil
}

func checkDictMerge(_ []types.Type, args []types.Type) (types.Type, error) {
	d, err := asDict(args, 4)
	if err != nil {
		return nil, err
	}
	if !types.TypeEqual(args[1], d.Key) || !types.TypeEqual(args[2], d.Value) {
		return nil, errArity("DictMerge", 4, len(args))
	}
	want := types.NewFunction(d.Value, nil, d.Value, d.Value)
	if !types.Subtype(args[3], want) {
		return nil, errArity("DictMerge", 4, len(args))
	}
	return types.Null, nil
}

func checkDictBinaryNull(_ []types.Type, args []types.Type) (types.Type, error) {
	a, err := asDict(args, 2)
	if err != nil {
		return nil, err
	}
	b, ok := args[1].(*types.Dict)
	if !ok || !types.TypeEqual(a.Key, b.Key) || !types.TypeEqual(a.Value, b.Value) {
		return nil, errArity("dict operator", 2, len(args))
	}
	return types.Null, nil
}

func checkDictKeys(_ []types.Type, args []types.Type) (types.Type, error) {
	d, err := asDict(args, 1)
	if err != nil {
		return nil, err
	}
	return types.NewSet(d.Key), nil
}

func checkDictGetKeys(_ []types.Type, args []types.Type) (types.Type, error) {
	d, err := asDict(args, 1)
	if err != nil {
		return nil, err
	}
	return types.NewArray(d.Key), nil
}

func checkDictForEach(_ []types.Type, args []types.Type) (types.Type, error) {
	d, err := asDict(args, 2)
	if err != nil {
		return nil, err
	}
	fn, ok := args[1].(*types.Function)
	if !ok || len(fn.Inputs) != 2 || !types.TypeEqual(fn.Inputs[0], d.Key) || !types.TypeEqual(fn.Inputs[1], d.Value) {
		return nil, errArity("DictForEach", 2, len(args))
	}
	return types.Null, nil
}

func checkDictMergeAll(_ []types.Type, args []types.Type) (types.Type, error) {
	a, err := asDict(args, 3)
	if err != nil {
		return nil, err
	}
	b, ok := args[1].(*types.Dict)
	if !ok || !types.TypeEqual(a.Key, b.Key) || !types.TypeEqual(a.Value, b.Value) {
		return nil, errArity("DictMergeAll", 3, len(args))
	}
	fn, ok := args[2].(*types.Function)
	if !ok || len(fn.Inputs) != 2 || !types.TypeEqual(fn.Inputs[0], a.Value) || !types.TypeEqual(fn.Inputs[1], a.Value) || !types.TypeEqual(fn.Output, a.Value) {
		return nil, errArity("DictMergeAll", 3, len(args))
	}
	return a, nil
}
