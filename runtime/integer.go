package runtime

import (
	"math"

	"github.com/elaraai/east/types"
	"github.com/elaraai/east/values"
)

func init() {
	register(Builtin{Name: "IntegerAdd", Check: checkBinaryInteger, Eval: intBinary(func(a, b int64) int64 { return a + b })})
	register(Builtin{Name: "IntegerSub", Check: checkBinaryInteger, Eval: intBinary(func(a, b int64) int64 { return a - b })})
	register(Builtin{Name: "IntegerMul", Check: checkBinaryInteger, Eval: intBinary(func(a, b int64) int64 { return a * b })})
	register(Builtin{Name: "IntegerDiv", Check: checkBinaryInteger, Eval: intBinary(func(a, b int64) int64 {
		if b == 0 {
			return 0 // division by zero yields 0, explicit per spec §4.B, not a fault
		}
		return a / b
	})})
	register(Builtin{Name: "IntegerMod", Check: checkBinaryInteger, Eval: intBinary(func(a, b int64) int64 {
		if b == 0 {
			return 0
		}
		return a % b
	})})
	register(Builtin{Name: "IntegerNeg", Check: checkUnaryInteger, Eval: intUnary(func(a int64) int64 { return -a })})
	register(Builtin{Name: "IntegerAbs", Check: checkUnaryInteger, Eval: intUnary(func(a int64) int64 {
		if a < 0 {
			return -a
		}
		return a
	})})
	register(Builtin{Name: "IntegerSign", Check: checkUnaryInteger, Eval: intUnary(func(a int64) int64 {
		switch {
		case a > 0:
			return 1
		case a < 0:
			return -1
		default:
			return 0
		}
	})})
	register(Builtin{Name: "IntegerLog", Check: checkUnaryInteger, Eval: intUnary(func(a int64) int64 {
		if a <= 0 {
			return 0
		}
		return int64(math.Log(float64(a)))
	})})
	register(Builtin{Name: "IntegerPow", Check: checkBinaryInteger, Eval: intBinary(func(a, b int64) int64 {
		if b < 0 {
			return 0 // negative exponent yields 0, explicit per spec §4.B
		}
		result := int64(1)
		for i := int64(0); i < b; i++ {
			result *= a
		}
		return result
	})})
	register(Builtin{Name: "IntegerToFloat", Check: checkIntegerToFloat, Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return values.Float(float64(args[0].(values.Integer))), nil
	}})
}

func checkBinaryInteger(_ []types.Type, args []types.Type) (types.Type, error) {
	if len(args) != 2 || args[0].Kind() != types.KindInteger || args[1].Kind() != types.KindInteger {
		return nil, errArity("integer operator", 2, len(args))
	}
	return types.Integer, nil
}

func checkUnaryInteger(_ []types.Type, args []types.Type) (types.Type, error) {
	if len(args) != 1 || args[0].Kind() != types.KindInteger {
		return nil, errArity("integer operator", 1, len(args))
	}
	return types.Integer, nil
}

func checkIntegerToFloat(_ []types.Type, args []types.Type) (types.Type, error) {
	if len(args) != 1 || args[0].Kind() != types.KindInteger {
		return nil, errArity("IntegerToFloat", 1, len(args))
	}
	return types.Float, nil
}

func intBinary(f func(a, b int64) int64) Eval {
	return func(_ []types.Type, args []values.Value) (values.Value, error) {
		a := int64(args[0].(values.Integer))
		b := int64(args[1].(values.Integer))
		return values.Integer(f(a, b)), nil
	}
}

func intUnary(f func(a int64) int64) Eval {
	return func(_ []types.Type, args []values.Value) (values.Value, error) {
		return values.Integer(f(int64(args[0].(values.Integer)))), nil
	}
}
