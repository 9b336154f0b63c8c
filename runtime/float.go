package runtime

import (
	"math"

	"github.com/elaraai/east/types"
	"github.com/elaraai/east/values"
)

func init() {
	register(Builtin{Name: "FloatAdd", Check: checkBinaryFloat, Eval: floatBinary(func(a, b float64) float64 { return a + b })})
	register(Builtin{Name: "FloatSub", Check: checkBinaryFloat, Eval: floatBinary(func(a, b float64) float64 { return a - b })})
	register(Builtin{Name: "FloatMul", Check: checkBinaryFloat, Eval: floatBinary(func(a, b float64) float64 { return a * b })})
	register(Builtin{Name: "FloatDiv", Check: checkBinaryFloat, Eval: floatBinary(func(a, b float64) float64 { return a / b })})
	register(Builtin{Name: "FloatNeg", Check: checkUnaryFloat, Eval: floatUnary(func(a float64) float64 { return -a })})
	register(Builtin{Name: "FloatAbs", Check: checkUnaryFloat, Eval: floatUnary(math.Abs)})
	register(Builtin{Name: "FloatSqrt", Check: checkUnaryFloat, Eval: floatUnary(math.Sqrt)})
	register(Builtin{Name: "FloatExp", Check: checkUnaryFloat, Eval: floatUnary(math.Exp)})
	register(Builtin{Name: "FloatLog", Check: checkUnaryFloat, Eval: floatUnary(math.Log)})
	register(Builtin{Name: "FloatSin", Check: checkUnaryFloat, Eval: floatUnary(math.Sin)})
	register(Builtin{Name: "FloatCos", Check: checkUnaryFloat, Eval: floatUnary(math.Cos)})
	register(Builtin{Name: "FloatTan", Check: checkUnaryFloat, Eval: floatUnary(math.Tan)})
	register(Builtin{Name: "FloatToInteger", Check: checkFloatToInteger, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return values.Integer(int64(args[0].(values.Float))), nil
	}})
}

func checkBinaryFloat(_ []types.Type, args []types.Type) (types.Type, error) {
	if len(args) != 2 || args[0].Kind() != types.KindFloat || args[1].Kind() != types.KindFloat {
		return nil, errArity("float operator", 2, len(args))
	}
	return types.Float, nil
}

func checkUnaryFloat(_ []types.Type, args []types.Type) (types.Type, error) {
	if len(args) != 1 || args[0].Kind() != types.KindFloat {
		return nil, errArity("float operator", 1, len(args))
	}
	return types.Float, nil
}

func checkFloatToInteger(_ []types.Type, args []types.Type) (types.Type, error) {
	if len(args) != 1 || args[0].Kind() != types.KindFloat {
		return nil, errArity("FloatToInteger", 1, len(args))
	}
	return types.Integer, nil
}

func floatBinary(f func(a, b float64) float64) Eval {
	return func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := float64(args[0].(values.Float))
		b := float64(args[1].(values.Float))
		return values.Float(f(a, b)), nil
	}
}

func floatUnary(f func(a float64) float64) Eval {
	return func(_ []types.Type, args []values.Value) (values.Value, error) {
		return values.Float(f(float64(args[0].(values.Float)))), nil
	}
}
