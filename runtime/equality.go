package runtime

import (
	"github.com/pkg/errors"

	"github.com/elaraai/east/types"
	"github.com/elaraai/east/values"
)

func init() {
	register(Builtin{Name: "Is", Check: checkSameTypeBinary, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return values.Boolean(values.Is(args[0], args[1])), nil
	}})
	register(Builtin{Name: "Equal", Check: checkSameTypeBinary, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return values.Boolean(values.StructuralEqual(args[0], args[1])), nil
	}})
	register(Builtin{Name: "NotEqual", Check: checkSameTypeBinary, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return values.Boolean(!values.StructuralEqual(args[0], args[1])), nil
	}})
	register(Builtin{Name: "Less", Check: checkOrderable, Eval: evalOrdering(func(o values.Ordering) bool { return o == values.Less })})
	register(Builtin{Name: "LessEqual", Check: checkOrderable, Eval: evalOrdering(func(o values.Ordering) bool { return o != values.Greater })})
	register(Builtin{Name: "Greater", Check: checkOrderable, Eval: evalOrdering(func(o values.Ordering) bool { return o == values.Greater })})
	register(Builtin{Name: "GreaterEqual", Check: checkOrderable, Eval: evalOrdering(func(o values.Ordering) bool { return o != values.Less })})
}

func checkSameTypeBinary(_ []types.Type, args []types.Type) (types.Type, error) {
	if len(args) != 2 {
		return nil, errArity("binary comparison", 2, len(args))
	}
	return types.Boolean, nil
}

func checkOrderable(_ []types.Type, args []types.Type) (types.Type, error) {
	if len(args) != 2 {
		return nil, errArity("ordering comparison", 2, len(args))
	}
	switch args[0].Kind() {
	case types.KindBoolean, types.KindInteger, types.KindFloat, types.KindString, types.KindDateTime:
	default:
		return nil, errors.Errorf("type %s is not orderable", types.PrintType(args[0]))
	}
	return types.Boolean, nil
}

func evalOrdering(accept func(values.Ordering) bool) Eval {
	return func(_ []types.Type, args []values.Value) (values.Value, error) {
		o, err := values.Compare(args[0], args[1])
		if err != nil {
			return nil, err
		}
		return values.Boolean(accept(o)), nil
	}
}
