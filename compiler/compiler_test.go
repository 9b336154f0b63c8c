package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elaraai/east/analyzer"
	"github.com/elaraai/east/compiler"
	"github.com/elaraai/east/ir"
	"github.com/elaraai/east/platform"
	"github.com/elaraai/east/types"
	"github.com/elaraai/east/values"
)

func noBindings(t *testing.T) *platform.Bindings {
	t.Helper()
	b, err := platform.NewBindings()
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func mustCompileSync(t *testing.T, fn *ir.Function, bindings *platform.Bindings) *values.Function {
	t.Helper()
	anns, err := analyzer.Analyze(fn, bindings, nil)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	cf, err := compiler.CompileSync(fn, anns, bindings, nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return cf
}

func TestCompileBuiltinOverLetAndReference(t *testing.T) {
	assert := assert.New(t)
	fn := &ir.Function{
		Output: types.Integer,
		Body: &ir.Block{
			Statements: []ir.Node{&ir.Let{Name: "x", Value: ir.Int(41)}},
			Result:     &ir.Builtin{Name: "IntegerAdd", Args: []ir.Node{ir.Ref("x"), ir.Int(1)}},
		},
	}
	cf := mustCompileSync(t, fn, noBindings(t))
	v, err := cf.Impl(nil)
	assert.NoError(err)
	assert.Equal(values.Integer(42), v)
}

func TestCompileIfPicksMatchingBranch(t *testing.T) {
	assert := assert.New(t)
	fn := &ir.Function{
		Params: []ir.Param{{Name: "b", Type: types.Boolean}},
		Output: types.Integer,
		Body: &ir.If{
			Branches: []ir.IfBranch{{Predicate: ir.Ref("b"), Body: ir.Int(1)}},
			Else:     ir.Int(0),
		},
	}
	cf := mustCompileSync(t, fn, noBindings(t))

	v, err := cf.Impl([]values.Value{values.Boolean(true)})
	assert.NoError(err)
	assert.Equal(values.Integer(1), v)

	v, err = cf.Impl([]values.Value{values.Boolean(false)})
	assert.NoError(err)
	assert.Equal(values.Integer(0), v)
}

func TestCompileWhileAccumulatesViaRef(t *testing.T) {
	assert := assert.New(t)
	// sum = 0; i = 0; while i < 5 { sum += i; i += 1 }; sum  -->  0+1+2+3+4 = 10
	fn := &ir.Function{
		Output: types.Integer,
		Body: &ir.Block{
			Statements: []ir.Node{
				&ir.Let{Name: "sum", Value: &ir.NewRef{Inner: types.Integer, Init: ir.Int(0)}},
				&ir.Let{Name: "i", Value: &ir.NewRef{Inner: types.Integer, Init: ir.Int(0)}},
				&ir.While{
					Predicate: &ir.Builtin{Name: "Less", Args: []ir.Node{
						&ir.Builtin{Name: "RefGet", Args: []ir.Node{ir.Ref("i")}}, ir.Int(5),
					}},
					Body: &ir.Block{Statements: []ir.Node{
						&ir.Builtin{Name: "RefUpdate", Args: []ir.Node{ir.Ref("sum"), &ir.Builtin{Name: "IntegerAdd", Args: []ir.Node{
							&ir.Builtin{Name: "RefGet", Args: []ir.Node{ir.Ref("sum")}},
							&ir.Builtin{Name: "RefGet", Args: []ir.Node{ir.Ref("i")}},
						}}}},
						&ir.Builtin{Name: "RefUpdate", Args: []ir.Node{ir.Ref("i"), &ir.Builtin{Name: "IntegerAdd", Args: []ir.Node{
							&ir.Builtin{Name: "RefGet", Args: []ir.Node{ir.Ref("i")}}, ir.Int(1),
						}}}},
					}},
				},
			},
			Result: &ir.Builtin{Name: "RefGet", Args: []ir.Node{ir.Ref("sum")}},
		},
	}
	cf := mustCompileSync(t, fn, noBindings(t))
	v, err := cf.Impl(nil)
	assert.NoError(err)
	assert.Equal(values.Integer(10), v)
}

func TestCompileWhileLabeledBreakStopsEarly(t *testing.T) {
	assert := assert.New(t)
	fn := &ir.Function{
		Output: types.Integer,
		Body: &ir.Block{
			Statements: []ir.Node{
				&ir.Let{Name: "i", Value: &ir.NewRef{Inner: types.Integer, Init: ir.Int(0)}},
				&ir.While{
					Label:     "loop",
					Predicate: ir.Bool(true),
					Body: &ir.Block{Statements: []ir.Node{
						&ir.If{
							Branches: []ir.IfBranch{{
								Predicate: &ir.Builtin{Name: "Equal", Args: []ir.Node{
									&ir.Builtin{Name: "RefGet", Args: []ir.Node{ir.Ref("i")}}, ir.Int(3),
								}},
								Body: &ir.Break{Label: "loop"},
							}},
						},
						&ir.Builtin{Name: "RefUpdate", Args: []ir.Node{ir.Ref("i"), &ir.Builtin{Name: "IntegerAdd", Args: []ir.Node{
							&ir.Builtin{Name: "RefGet", Args: []ir.Node{ir.Ref("i")}}, ir.Int(1),
						}}}},
					}},
				},
			},
			Result: &ir.Builtin{Name: "RefGet", Args: []ir.Node{ir.Ref("i")}},
		},
	}
	cf := mustCompileSync(t, fn, noBindings(t))
	v, err := cf.Impl(nil)
	assert.NoError(err)
	assert.Equal(values.Integer(3), v)
}

func TestCompileForOverArraySums(t *testing.T) {
	assert := assert.New(t)
	fn := &ir.Function{
		Output: types.Integer,
		Body: &ir.Block{
			Statements: []ir.Node{
				&ir.Let{Name: "items", Value: &ir.NewArray{Elem: types.Integer, Items: []ir.Node{ir.Int(1), ir.Int(2), ir.Int(3)}}},
				&ir.Let{Name: "total", Value: &ir.NewRef{Inner: types.Integer, Init: ir.Int(0)}},
				&ir.For{
					Collection: ir.Ref("items"),
					ItemName:   "item",
					Body: &ir.Builtin{Name: "RefUpdate", Args: []ir.Node{ir.Ref("total"), &ir.Builtin{Name: "IntegerAdd", Args: []ir.Node{
						&ir.Builtin{Name: "RefGet", Args: []ir.Node{ir.Ref("total")}}, ir.Ref("item"),
					}}}},
				},
			},
			Result: &ir.Builtin{Name: "RefGet", Args: []ir.Node{ir.Ref("total")}},
		},
	}
	cf := mustCompileSync(t, fn, noBindings(t))
	v, err := cf.Impl(nil)
	assert.NoError(err)
	assert.Equal(values.Integer(6), v)
}

func TestCompileTryCatchesRaisedError(t *testing.T) {
	assert := assert.New(t)
	fn := &ir.Function{
		Output: types.String,
		Body: &ir.Try{
			Body:        &ir.Error{Message: ir.Str("boom")},
			MessageName: "msg",
			Catch:       ir.Ref("msg"),
		},
	}
	cf := mustCompileSync(t, fn, noBindings(t))
	v, err := cf.Impl(nil)
	assert.NoError(err)
	assert.Equal(values.String("boom"), v)
}

func TestCompileTryCatchesBuiltinContractViolation(t *testing.T) {
	assert := assert.New(t)
	fn := &ir.Function{
		Output: types.Integer,
		Body: &ir.Try{
			Body:        &ir.Builtin{Name: "ArrayGet", Args: []ir.Node{&ir.NewArray{Elem: types.Integer}, ir.Int(0)}},
			MessageName: "msg",
			Catch:       ir.Int(-1),
		},
	}
	cf := mustCompileSync(t, fn, noBindings(t))
	v, err := cf.Impl(nil)
	assert.NoError(err)
	assert.Equal(values.Integer(-1), v)
}

func TestCompileTryDoesNotCatchHostLevelError(t *testing.T) {
	// Callee: ir.Int(5) is not well-typed (5 is not callable) and would
	// be rejected by Analyze; build the Annotations map by hand so this
	// test can exercise compileTry/compileCall's dispatch directly
	// without going through analysis.
	fn := &ir.Function{
		Output: types.Integer,
		Body: &ir.Try{
			Body:        &ir.Call{Callee: ir.Int(5)},
			MessageName: "msg",
			Catch:       ir.Int(-1),
		},
	}
	anns := analyzer.Annotations{fn: analyzer.Annotation{Type: types.NewFunction(types.Integer, nil)}}
	cf, err := compiler.CompileSync(fn, anns, noBindings(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = cf.Impl(nil)
	assert.Error(t, err)
}

func TestCompileMatchDispatchesToBoundArm(t *testing.T) {
	assert := assert.New(t)
	variant := types.NewVariant(
		types.Case{Name: "ok", Type: types.Integer},
		types.Case{Name: "err", Type: types.String},
	)
	fn := &ir.Function{
		Output: types.Integer,
		Body: &ir.Match{
			Scrutinee: ir.Lit(variant, values.NewVariant(variant, "ok", values.Integer(7))),
			Arms: []ir.MatchArm{
				{CaseName: "ok", BindName: "v", Body: ir.Ref("v")},
				{CaseName: "err", Body: ir.Int(-1)},
			},
		},
	}
	cf := mustCompileSync(t, fn, noBindings(t))
	v, err := cf.Impl(nil)
	assert.NoError(err)
	assert.Equal(values.Integer(7), v)
}

func TestCompileCallToCapturedFunction(t *testing.T) {
	assert := assert.New(t)
	fn := &ir.Function{
		Output: types.Integer,
		Body: &ir.Block{
			Statements: []ir.Node{&ir.Let{Name: "x", Value: ir.Int(10)}},
			Result: &ir.Call{
				Callee: &ir.Function{
					Captures: []string{"x"},
					Params:   []ir.Param{{Name: "y", Type: types.Integer}},
					Output:   types.Integer,
					Body:     &ir.Builtin{Name: "IntegerAdd", Args: []ir.Node{ir.Ref("x"), ir.Ref("y")}},
				},
				Args: []ir.Node{ir.Int(5)},
			},
		},
	}
	cf := mustCompileSync(t, fn, noBindings(t))
	v, err := cf.Impl(nil)
	assert.NoError(err)
	assert.Equal(values.Integer(15), v)
}

func TestCompileFreeFunctionRecordsOriginIR(t *testing.T) {
	assert := assert.New(t)
	fn := &ir.Function{
		Params: []ir.Param{{Name: "x", Type: types.Integer}},
		Output: types.Integer,
		Body:   &ir.Builtin{Name: "IntegerMul", Args: []ir.Node{ir.Ref("x"), ir.Int(2)}},
	}
	cf := mustCompileSync(t, fn, noBindings(t))
	assert.Equal(fn, cf.IR)
	v, err := cf.Impl([]values.Value{values.Integer(21)})
	assert.NoError(err)
	assert.Equal(values.Integer(42), v)
}

func TestCompilePlatformSyncBridge(t *testing.T) {
	assert := assert.New(t)
	bindings, err := platform.NewBindings(platform.Function{
		Name:   "double",
		Inputs: []types.Type{types.Integer},
		Output: types.Integer,
		Kind:   platform.Sync,
		Sync: func(args []values.Value) (values.Value, error) {
			return values.Integer(int64(args[0].(values.Integer)) * 2), nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	fn := &ir.Function{
		Output: types.Integer,
		Body:   &ir.Platform{Name: "double", Args: []ir.Node{ir.Int(21)}},
	}
	cf := mustCompileSync(t, fn, bindings)
	v, err := cf.Impl(nil)
	assert.NoError(err)
	assert.Equal(values.Integer(42), v)
}

func TestCompilePlatformSyncFaultBecomesCatchableEastError(t *testing.T) {
	assert := assert.New(t)
	bindings, err := platform.NewBindings(platform.Function{
		Name:   "explode",
		Output: types.Integer,
		Kind:   platform.Sync,
		Sync: func(args []values.Value) (values.Value, error) {
			return nil, errBoom{}
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	fn := &ir.Function{
		Output: types.Integer,
		Body: &ir.Try{
			Body:        &ir.Platform{Name: "explode"},
			MessageName: "msg",
			Catch:       ir.Int(-1),
		},
	}
	cf := mustCompileSync(t, fn, bindings)
	v, err := cf.Impl(nil)
	assert.NoError(err)
	assert.Equal(values.Integer(-1), v)
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func TestCompileAsyncFunctionBridgesAsyncPlatform(t *testing.T) {
	assert := assert.New(t)
	bindings, err := platform.NewBindings(platform.Function{
		Name:   "fetch",
		Output: types.Integer,
		Kind:   platform.Async,
		Async: func(args []values.Value, done func(values.Value, error)) {
			done(values.Integer(99), nil)
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	fn := &ir.AsyncFunction{
		Output: types.Integer,
		Body:   &ir.Platform{Name: "fetch"},
	}
	anns, err := analyzer.Analyze(fn, bindings, nil)
	if err != nil {
		t.Fatal(err)
	}
	af, err := compiler.CompileAsync(fn, anns, bindings, nil)
	if err != nil {
		t.Fatal(err)
	}
	d, err := af.Impl(nil)
	assert.NoError(err)
	v, err := d.Await()
	assert.NoError(err)
	assert.Equal(values.Integer(99), v)
}

func TestCompileSyncRejectsFunctionThatReachesAsyncPlatform(t *testing.T) {
	bindings, err := platform.NewBindings(platform.Function{
		Name:   "fetch",
		Output: types.Integer,
		Kind:   platform.Async,
		Async:  func(args []values.Value, done func(values.Value, error)) { done(values.Integer(0), nil) },
	})
	if err != nil {
		t.Fatal(err)
	}
	fn := &ir.Function{Output: types.Integer, Body: &ir.Platform{Name: "fetch"}}
	anns, err := analyzer.Analyze(fn, bindings, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = compiler.CompileSync(fn, anns, bindings, nil)
	assert.Error(t, err)
}

func TestCompileAsyncRejectsFunctionThatReachesNoAsyncPlatform(t *testing.T) {
	// Bypass Analyze (which would already reject this AsyncFunction body
	// for not being async) to exercise CompileAsync's own gate directly.
	fn := &ir.AsyncFunction{Output: types.Integer, Body: ir.Int(1)}
	anns := analyzer.Annotations{fn: analyzer.Annotation{Type: types.NewAsyncFunction(types.Integer, nil)}}
	_, err := compiler.CompileAsync(fn, anns, noBindings(t), nil)
	assert.Error(t, err)
}

func TestCompileContainerConstructorsAndAccessors(t *testing.T) {
	assert := assert.New(t)
	resultType := types.NewStruct(
		types.Field{Name: "arrSize", Type: types.Integer},
		types.Field{Name: "setHas", Type: types.Boolean},
		types.Field{Name: "dictVal", Type: types.Integer},
		types.Field{Name: "refVal", Type: types.Integer},
	)
	fn := &ir.Function{
		Output: resultType,
		Body: &ir.Block{
			Statements: []ir.Node{
				&ir.Let{Name: "arr", Value: &ir.NewArray{Elem: types.Integer, Items: []ir.Node{ir.Int(1), ir.Int(2), ir.Int(3)}}},
				&ir.Let{Name: "set", Value: &ir.NewSet{Key: types.Integer, Items: []ir.Node{ir.Int(2), ir.Int(2), ir.Int(5)}}},
				&ir.Let{Name: "dict", Value: &ir.NewDict{Key: types.String, Value: types.Integer, Entries: []ir.DictEntry{
					{Key: ir.Str("a"), Value: ir.Int(10)},
				}}},
				&ir.Let{Name: "ref", Value: &ir.NewRef{Inner: types.Integer, Init: ir.Int(5)}},
			},
			Result: &ir.Struct{Type: resultType, Fields: []ir.StructField{
				{Name: "arrSize", Value: &ir.Builtin{Name: "ArraySize", Args: []ir.Node{ir.Ref("arr")}}},
				{Name: "setHas", Value: &ir.Builtin{Name: "SetHas", Args: []ir.Node{ir.Ref("set"), ir.Int(2)}}},
				{Name: "dictVal", Value: &ir.Builtin{Name: "DictGet", Args: []ir.Node{ir.Ref("dict"), ir.Str("a")}}},
				{Name: "refVal", Value: &ir.Builtin{Name: "RefGet", Args: []ir.Node{ir.Ref("ref")}}},
			}},
		},
	}
	cf := mustCompileSync(t, fn, noBindings(t))
	v, err := cf.Impl(nil)
	assert.NoError(err)
	st := v.(*values.Struct)
	assert.Equal(values.Integer(3), st.Fields[0])
	assert.Equal(values.Boolean(true), st.Fields[1])
	assert.Equal(values.Integer(10), st.Fields[2])
	assert.Equal(values.Integer(5), st.Fields[3])
}

func TestCompileRecursiveWrapUnwrapIsIdentity(t *testing.T) {
	assert := assert.New(t)
	recursive := types.NewRecursive(types.Integer)
	fn := &ir.Function{
		Output: types.Integer,
		Body: &ir.UnwrapRecursive{
			Value: &ir.WrapRecursive{Type: recursive, Value: ir.Int(9)},
		},
	}
	cf := mustCompileSync(t, fn, noBindings(t))
	v, err := cf.Impl(nil)
	assert.NoError(err)
	assert.Equal(values.Integer(9), v)
}

func TestCompileVariantConstruction(t *testing.T) {
	assert := assert.New(t)
	variant := types.NewVariant(types.Case{Name: "ok", Type: types.Integer}, types.Case{Name: "err", Type: types.String})
	fn := &ir.Function{
		Output: variant,
		Body:   &ir.Variant{Type: variant, Case: "ok", Inner: ir.Int(3)},
	}
	cf := mustCompileSync(t, fn, noBindings(t))
	v, err := cf.Impl(nil)
	assert.NoError(err)
	va := v.(*values.Variant)
	assert.Equal("ok", va.Case)
	assert.Equal(values.Integer(3), va.Inner)
}

func TestCompileVariantNullCaseShorthand(t *testing.T) {
	assert := assert.New(t)
	variant := types.NewVariant(types.Case{Name: "none", Type: types.Null}, types.Case{Name: "some", Type: types.Integer})
	fn := &ir.Function{
		Output: variant,
		Body:   &ir.Variant{Type: variant, Case: "none"},
	}
	cf := mustCompileSync(t, fn, noBindings(t))
	v, err := cf.Impl(nil)
	assert.NoError(err)
	va := v.(*values.Variant)
	assert.Equal("none", va.Case)
	assert.Equal(values.Null{}, va.Inner)
}
