package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elaraai/east/runtime"
	"github.com/elaraai/east/types"
	"github.com/elaraai/east/values"
)

func call(t *testing.T, name string, typeParams []types.Type, args ...values.Value) values.Value {
	t.Helper()
	b, ok := runtime.Lookup(name)
	if !ok {
		t.Fatalf("builtin %s not registered", name)
	}
	v, err := b.Eval(typeParams, args)
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return v
}

func TestIntegerDivModByZeroYieldZero(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(values.Integer(0), call(t, "IntegerDiv", nil, values.Integer(5), values.Integer(0)))
	assert.Equal(values.Integer(0), call(t, "IntegerMod", nil, values.Integer(5), values.Integer(0)))
}

func TestIntegerPowNegativeExponentYieldsZero(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(values.Integer(0), call(t, "IntegerPow", nil, values.Integer(2), values.Integer(-1)))
	assert.Equal(values.Integer(8), call(t, "IntegerPow", nil, values.Integer(2), values.Integer(3)))
}

func TestBooleanOperatorsNonShortCircuit(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(values.Boolean(true), call(t, "BooleanOr", nil, values.Boolean(true), values.Boolean(false)))
	assert.Equal(values.Boolean(false), call(t, "BooleanAnd", nil, values.Boolean(true), values.Boolean(false)))
	assert.Equal(values.Boolean(true), call(t, "BooleanXor", nil, values.Boolean(true), values.Boolean(false)))
}

func TestStringCaseFolding(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(values.String("HELLO"), call(t, "StringToUpperCase", nil, values.String("Hello")))
	assert.Equal(values.String("hello"), call(t, "StringToLowerCase", nil, values.String("Hello")))
}

func TestStringRegexReplace(t *testing.T) {
	assert := assert.New(t)
	got := call(t, "StringRegexReplace", nil, values.String("a1b2c3"), values.String(`\d`), values.String("_"))
	assert.Equal(values.String("a_b_c_"), got)
}

func TestDateTimeComponentsRoundTrip(t *testing.T) {
	assert := assert.New(t)
	dt := values.DateTime(1893456000000) // 2030-01-01T00:00:00.000Z
	components := call(t, "DateTimeComponents", nil, dt).(*values.Struct)
	back := call(t, "DateTimeFromComponents", nil, components)
	assert.Equal(dt, back)
}

func TestDateTimePrintParseRoundTrip(t *testing.T) {
	assert := assert.New(t)
	dt := values.DateTime(1893456000000) // 2030-01-01T00:00:00.000Z
	tokens := arrayOfStrings("YYYY", "-", "MM", "-", "DD", "T", "hh", ":", "mm", ":", "ss", ".", "SSS")
	printed := call(t, "DateTimePrint", nil, dt, tokens).(values.String)
	assert.Equal(values.String("2030-01-01T00:00:00.000"), printed)
	parsed := call(t, "DateTimeParse", nil, printed, tokens)
	assert.Equal(dt, parsed)
}

func TestBlobGetUint8OutOfBounds(t *testing.T) {
	b, ok := runtime.Lookup("BlobGetUint8")
	if !ok {
		t.Fatal("BlobGetUint8 not registered")
	}
	_, err := b.Eval(nil, []values.Value{values.Blob{1, 2, 3}, values.Integer(10)})
	assert.Error(t, err)
}

func TestRefGetUpdateMerge(t *testing.T) {
	assert := assert.New(t)
	ref := values.NewRef(types.Integer, values.Integer(1))
	assert.Equal(values.Integer(1), call(t, "RefGet", nil, ref))
	call(t, "RefUpdate", nil, ref, values.Integer(5))
	assert.Equal(values.Integer(5), call(t, "RefGet", nil, ref))

	other := values.NewRef(types.Integer, values.Integer(10))
	add := &values.Function{
		Type: types.NewFunction(types.Integer, nil, types.Integer, types.Integer),
		Impl: func(args []values.Value) (values.Value, error) {
			return values.Integer(int64(args[0].(values.Integer)) + int64(args[1].(values.Integer))), nil
		},
	}
	call(t, "RefMerge", nil, ref, other, add)
	assert.Equal(values.Integer(15), call(t, "RefGet", nil, ref))
}

func TestArrayPushPopMapFilterFold(t *testing.T) {
	assert := assert.New(t)
	arr := values.NewArray(types.Integer)
	call(t, "ArrayPush", nil, arr, values.Integer(1))
	call(t, "ArrayPush", nil, arr, values.Integer(2))
	call(t, "ArrayPush", nil, arr, values.Integer(3))
	assert.Equal(values.Integer(3), call(t, "ArraySize", nil, arr))

	double := &values.Function{
		Type: types.NewFunction(types.Integer, nil, types.Integer),
		Impl: func(args []values.Value) (values.Value, error) {
			return values.Integer(int64(args[0].(values.Integer)) * 2), nil
		},
	}
	mapped := call(t, "ArrayMap", nil, arr, double).(*values.Array)
	assert.Equal([]values.Value{values.Integer(2), values.Integer(4), values.Integer(6)}, mapped.Elements)

	isEven := &values.Function{
		Type: types.NewFunction(types.Boolean, nil, types.Integer),
		Impl: func(args []values.Value) (values.Value, error) {
			return values.Boolean(int64(args[0].(values.Integer))%2 == 0), nil
		},
	}
	filtered := call(t, "ArrayFilter", nil, mapped, isEven).(*values.Array)
	assert.Len(filtered.Elements, 3)

	sum := &values.Function{
		Type: types.NewFunction(types.Integer, nil, types.Integer, types.Integer),
		Impl: func(args []values.Value) (values.Value, error) {
			return values.Integer(int64(args[0].(values.Integer)) + int64(args[1].(values.Integer))), nil
		},
	}
	total := call(t, "ArrayFold", nil, arr, values.Integer(0), sum)
	assert.Equal(values.Integer(6), total)

	popped := call(t, "ArrayPopLast", nil, arr)
	assert.Equal(values.Integer(3), popped)
	assert.Equal(2, arr.Size())
}

func TestArrayIterationGuardBlocksMutationDuringForEach(t *testing.T) {
	arr := values.NewArray(types.Integer)
	arr.Elements = []values.Value{values.Integer(1), values.Integer(2)}

	forEach, _ := runtime.Lookup("ArrayForEach")
	push, _ := runtime.Lookup("ArrayPush")
	pushDuringIteration := &values.Function{
		Type: types.NewFunction(types.Null, nil, types.Integer),
		Impl: func(args []values.Value) (values.Value, error) {
			return push.Eval(nil, []values.Value{arr, args[0]})
		},
	}
	_, err := forEach.Eval(nil, []values.Value{arr, pushDuringIteration})
	assert.Error(t, err)
}

func TestSetUnionIntersectDiffSymDiff(t *testing.T) {
	assert := assert.New(t)
	a := values.NewSet(types.Integer)
	a.Insert(values.Integer(1))
	a.Insert(values.Integer(2))
	b := values.NewSet(types.Integer)
	b.Insert(values.Integer(2))
	b.Insert(values.Integer(3))

	union := call(t, "SetUnion", nil, a, b).(*values.Set)
	assert.Equal(3, union.Size())

	inter := call(t, "SetIntersect", nil, a, b).(*values.Set)
	assert.Equal(1, inter.Size())
	assert.True(inter.Has(values.Integer(2)))

	diff := call(t, "SetDiff", nil, a, b).(*values.Set)
	assert.Equal(1, diff.Size())
	assert.True(diff.Has(values.Integer(1)))

	symDiff := call(t, "SetSymDiff", nil, a, b).(*values.Set)
	assert.Equal(2, symDiff.Size())
}

func TestDictInsertGetUpdateDeleteMergeAll(t *testing.T) {
	assert := assert.New(t)
	d := values.NewDict(types.String, types.Integer)
	call(t, "DictInsert", nil, d, values.String("a"), values.Integer(1))
	assert.Equal(values.Integer(1), call(t, "DictGet", nil, d, values.String("a")))

	call(t, "DictUpdate", nil, d, values.String("a"), values.Integer(2))
	assert.Equal(values.Integer(2), call(t, "DictGet", nil, d, values.String("a")))

	other := values.NewDict(types.String, types.Integer)
	call(t, "DictInsert", nil, other, values.String("a"), values.Integer(10))
	call(t, "DictInsert", nil, other, values.String("b"), values.Integer(5))

	sum := &values.Function{
		Type: types.NewFunction(types.Integer, nil, types.Integer, types.Integer),
		Impl: func(args []values.Value) (values.Value, error) {
			return values.Integer(int64(args[0].(values.Integer)) + int64(args[1].(values.Integer))), nil
		},
	}
	merged := call(t, "DictMergeAll", nil, d, other, sum).(*values.Dict)
	assert.Equal(2, merged.Size())
	v, _ := merged.Get(values.String("a"))
	assert.Equal(values.Integer(12), v)
}

func TestDictSwapPopMergeUnionInPlace(t *testing.T) {
	assert := assert.New(t)
	d := values.NewDict(types.String, types.Integer)
	call(t, "DictInsert", nil, d, values.String("a"), values.Integer(1))

	swapped := call(t, "DictSwap", nil, d, values.String("a"), values.Integer(9))
	assert.Equal(values.Integer(1), swapped)
	assert.Equal(values.Integer(9), call(t, "DictGet", nil, d, values.String("a")))

	swap, _ := runtime.Lookup("DictSwap")
	_, err := swap.Eval(nil, []values.Value{d, values.String("missing"), values.Integer(0)})
	assert.Error(err)

	popped := call(t, "DictPop", nil, d, values.String("a"))
	assert.Equal(values.Integer(9), popped)
	assert.Equal(0, d.Size())

	sum := &values.Function{
		Type: types.NewFunction(types.Integer, nil, types.Integer, types.Integer),
		Impl: func(args []values.Value) (values.Value, error) {
			return values.Integer(int64(args[0].(values.Integer)) + int64(args[1].(values.Integer))), nil
		},
	}
	call(t, "DictInsert", nil, d, values.String("a"), values.Integer(3))
	call(t, "DictMerge", nil, d, values.String("a"), values.Integer(4), sum)
	assert.Equal(values.Integer(7), call(t, "DictGet", nil, d, values.String("a")))

	mergeMissing, _ := runtime.Lookup("DictMerge")
	_, err = mergeMissing.Eval(nil, []values.Value{d, values.String("missing"), values.Integer(1), sum})
	assert.Error(err, "merge into a missing key with no default must fault")

	other := values.NewDict(types.String, types.Integer)
	call(t, "DictInsert", nil, other, values.String("a"), values.Integer(100))
	call(t, "DictInsert", nil, other, values.String("b"), values.Integer(2))
	call(t, "DictUnionInPlace", nil, d, other)
	assert.Equal(values.Integer(100), call(t, "DictGet", nil, d, values.String("a")))
	assert.Equal(values.Integer(2), call(t, "DictGet", nil, d, values.String("b")))
}

func TestPrintParseRoundTrip(t *testing.T) {
	assert := assert.New(t)
	cases := []struct {
		typ types.Type
		val values.Value
	}{
		{types.Null, values.Null{}},
		{types.Boolean, values.Boolean(true)},
		{types.Integer, values.Integer(-42)},
		{types.String, values.String("hi\n\"there\"")},
		{types.NewArray(types.Integer), arrayOf(values.Integer(1), values.Integer(2), values.Integer(3))},
		{types.Blob, values.Blob{0xde, 0xad, 0xbe, 0xef}},
	}
	for _, c := range cases {
		printed := runtime.PrintValue(c.typ, c.val)
		parsed, err := runtime.ParseValue(c.typ, printed)
		assert.NoError(err, printed)
		assert.True(values.StructuralEqual(c.val, parsed), "round trip of %s", printed)
	}
}

func arrayOfStrings(ss ...string) *values.Array {
	a := values.NewArray(types.String)
	for _, s := range ss {
		a.Elements = append(a.Elements, values.String(s))
	}
	return a
}

func arrayOf(vs ...values.Value) *values.Array {
	a := values.NewArray(types.Integer)
	a.Elements = vs
	return a
}
