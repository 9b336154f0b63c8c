package runtime

import (
	"github.com/elaraai/east/types"
	"github.com/elaraai/east/values"
)

func init() {
	register(Builtin{Name: "BooleanNot", Check: checkUnaryBoolean, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return !args[0].(values.Boolean), nil
	}})
	register(Builtin{Name: "BooleanOr", Check: checkBinaryBoolean, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return args[0].(values.Boolean) || args[1].(values.Boolean), nil
	}})
	register(Builtin{Name: "BooleanAnd", Check: checkBinaryBoolean, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return args[0].(values.Boolean) && args[1].(values.Boolean), nil
	}})
	register(Builtin{Name: "BooleanXor", Check: checkBinaryBoolean, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return args[0].(values.Boolean) != args[1].(values.Boolean), nil
	}})
}

func checkUnaryBoolean(_ []types.Type, args []types.Type) (types.Type, error) {
	if len(args) != 1 || args[0].Kind() != types.KindBoolean {
		return nil, errArity("BooleanNot", 1, len(args))
	}
	return types.Boolean, nil
}

func checkBinaryBoolean(_ []types.Type, args []types.Type) (types.Type, error) {
	if len(args) != 2 || args[0].Kind() != types.KindBoolean || args[1].Kind() != types.KindBoolean {
		return nil, errArity("boolean operator", 2, len(args))
	}
	return types.Boolean, nil
}
