package runtime

import (
	"github.com/elaraai/east/types"
	"github.com/elaraai/east/values"
)

func init() {
	register(Builtin{Name: "RefGet", Check: checkRefGet, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return args[0].(*values.Ref).Slot, nil
	}})
	register(Builtin{Name: "RefUpdate", Check: checkRefUpdate, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		ref := args[0].(*values.Ref)
		if err := ref.CheckMutable(); err != nil {
			return nil, err
		}
		ref.Slot = args[1]
		return values.Null{}, nil
	}})
	register(Builtin{Name: "RefMerge", Check: checkRefMerge, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		ref := args[0].(*values.Ref)
		other := args[1].(*values.Ref)
		combiner := args[2].(*values.Function)
		if err := ref.CheckMutable(); err != nil {
			return nil, err
		}
		merged, err := combiner.Impl([]values.Value{ref.Slot, other.Slot})
		if err != nil {
			return nil, err
		}
		ref.Slot = merged
		return values.Null{}, nil
	}})
}

func checkRefGet(_ []types.Type, args []types.Type) (types.Type, error) {
	r, ok := soleRef(args)
	if !ok {
		return nil, errArity("RefGet", 1, len(args))
	}
	return r.Inner, nil
}

func checkRefUpdate(_ []types.Type, args []types.Type) (types.Type, error) {
	if len(args) != 2 {
		return nil, errArity("RefUpdate", 2, len(args))
	}
	r, ok := args[0].(*types.Ref)
	if !ok || !types.Subtype(args[1], r.Inner) {
		return nil, errArity("RefUpdate", 2, len(args))
	}
	return types.Null, nil
}

func checkRefMerge(_ []types.Type, args []types.Type) (types.Type, error) {
	if len(args) != 3 {
		return nil, errArity("RefMerge", 3, len(args))
	}
	r, ok := args[0].(*types.Ref)
	if !ok {
		return nil, errArity("RefMerge", 3, len(args))
	}
	other, ok := args[1].(*types.Ref)
	if !ok || !types.TypeEqual(r.Inner, other.Inner) {
		return nil, errArity("RefMerge", 3, len(args))
	}
	want := types.NewFunction(r.Inner, nil, r.Inner, r.Inner)
	if !types.Subtype(args[2], want) {
		return nil, errArity("RefMerge", 3, len(args))
	}
	return types.Null, nil
}

func soleRef(args []types.Type) (*types.Ref, bool) {
	if len(args) != 1 {
		return nil, false
	}
	r, ok := args[0].(*types.Ref)
	return r, ok
}
