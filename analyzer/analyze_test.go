package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elaraai/east/analyzer"
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

func lit(t types.Type, v values.Value) *ir.Value {
	return &ir.Value{Type: t, Literal: v}
}

func TestAnalyzeLiteralAndReference(t *testing.T) {
	assert := assert.New(t)
	body := &ir.Block{
		Statements: []ir.Node{&ir.Let{Name: "x", Value: lit(types.Integer, values.Integer(1))}},
		Result:     &ir.Reference{Binding: "x"},
	}
	anns, err := analyzer.Analyze(body, noBindings(t), nil)
	assert.NoError(err)
	assert.Equal(types.Integer, anns[body].Type)
	assert.False(anns[body].IsAsync)
}

func TestAnalyzeReferenceToUndefinedBindingFails(t *testing.T) {
	_, err := analyzer.Analyze(&ir.Reference{Binding: "missing"}, noBindings(t), nil)
	assert.Error(t, err)
}

func TestAnalyzeIfRequiresBooleanPredicate(t *testing.T) {
	n := &ir.If{
		Branches: []ir.IfBranch{{Predicate: lit(types.Integer, values.Integer(1)), Body: lit(types.Integer, values.Integer(1))}},
		Else:     lit(types.Integer, values.Integer(0)),
	}
	_, err := analyzer.Analyze(n, noBindings(t), nil)
	assert.Error(t, err)
}

func TestAnalyzeIfUnionsBranchTypes(t *testing.T) {
	assert := assert.New(t)
	n := &ir.If{
		Branches: []ir.IfBranch{{Predicate: lit(types.Boolean, values.Boolean(true)), Body: lit(types.Integer, values.Integer(1))}},
		Else:     lit(types.Integer, values.Integer(0)),
	}
	anns, err := analyzer.Analyze(n, noBindings(t), nil)
	assert.NoError(err)
	assert.Equal(types.Integer, anns[n].Type)
}

func TestAnalyzePlatformRejectsUnboundName(t *testing.T) {
	n := &ir.Platform{Name: "missing"}
	_, err := analyzer.Analyze(n, noBindings(t), nil)
	assert.Error(t, err)
}

func TestAnalyzePlatformMarksAsyncAndFunctionTouchesPlatform(t *testing.T) {
	assert := assert.New(t)
	bindings, err := platform.NewBindings(platform.Function{
		Name:   "fetch",
		Inputs: []types.Type{types.String},
		Output: types.Integer,
		Kind:   platform.Async,
		Async:  func(args []values.Value, done func(values.Value, error)) { done(values.Integer(0), nil) },
	})
	if err != nil {
		t.Fatal(err)
	}

	platformCall := &ir.Platform{Name: "fetch", Args: []ir.Node{lit(types.String, values.String("x"))}}
	anns, err := analyzer.Analyze(platformCall, bindings, nil)
	assert.NoError(err)
	assert.True(anns[platformCall].IsAsync)

	fn := &ir.Function{
		Params: []ir.Param{{Name: "s", Type: types.String}},
		Output: types.Integer,
		Body:   &ir.Platform{Name: "fetch", Args: []ir.Node{&ir.Reference{Binding: "s"}}},
	}
	anns, err = analyzer.Analyze(fn, bindings, nil)
	assert.NoError(err)
	assert.False(anns[fn].IsAsync, "a Function literal itself is never async")
	ft := anns[fn].Type.(*types.Function)
	assert.True(ft.Platforms.Contains("fetch"), "closure type records platforms its body touches")
}

func TestAnalyzeCallIsAsyncWhenCalleeTouchesAsyncPlatform(t *testing.T) {
	assert := assert.New(t)
	bindings, err := platform.NewBindings(platform.Function{
		Name:   "fetch",
		Inputs: nil,
		Output: types.Integer,
		Kind:   platform.Async,
		Async:  func(args []values.Value, done func(values.Value, error)) { done(values.Integer(0), nil) },
	})
	if err != nil {
		t.Fatal(err)
	}

	body := &ir.Block{
		Statements: []ir.Node{&ir.Let{
			Name:  "f",
			Value: &ir.Function{Output: types.Integer, Body: &ir.Platform{Name: "fetch"}},
		}},
		Result: &ir.Call{Callee: &ir.Reference{Binding: "f"}},
	}
	anns, err := analyzer.Analyze(body, bindings, nil)
	assert.NoError(err)
	assert.True(anns[body].IsAsync)
}

func TestAnalyzeMatchRequiresExhaustiveArms(t *testing.T) {
	variant := types.NewVariant(
		types.Case{Name: "ok", Type: types.Integer},
		types.Case{Name: "err", Type: types.String},
	)
	n := &ir.Match{
		Scrutinee: lit(variant, nil),
		Arms: []ir.MatchArm{
			{CaseName: "ok", BindName: "v", Body: &ir.Reference{Binding: "v"}},
		},
	}
	_, err := analyzer.Analyze(n, noBindings(t), nil)
	assert.Error(t, err)
}

func TestAnalyzeMatchExhaustiveSucceeds(t *testing.T) {
	assert := assert.New(t)
	variant := types.NewVariant(
		types.Case{Name: "ok", Type: types.Integer},
		types.Case{Name: "err", Type: types.String},
	)
	n := &ir.Match{
		Scrutinee: lit(variant, nil),
		Arms: []ir.MatchArm{
			{CaseName: "ok", BindName: "v", Body: &ir.Reference{Binding: "v"}},
			{CaseName: "err", BindName: "", Body: lit(types.Integer, values.Integer(0))},
		},
	}
	anns, err := analyzer.Analyze(n, noBindings(t), nil)
	assert.NoError(err)
	assert.Equal(types.Integer, anns[n].Type)
}

func TestAnalyzeReturnMustBeSubtypeOfFunctionOutput(t *testing.T) {
	fn := &ir.Function{
		Output: types.String,
		Body:   &ir.Return{Value: lit(types.Integer, values.Integer(1))},
	}
	_, err := analyzer.Analyze(fn, noBindings(t), nil)
	assert.Error(t, err)
}

func TestAnalyzeReturnOutsideFunctionFails(t *testing.T) {
	_, err := analyzer.Analyze(&ir.Return{Value: lit(types.Integer, values.Integer(1))}, noBindings(t), nil)
	assert.Error(t, err)
}

func TestAnalyzeBreakOutsideLoopFails(t *testing.T) {
	fn := &ir.Function{Output: types.Null, Body: &ir.Break{}}
	_, err := analyzer.Analyze(fn, noBindings(t), nil)
	assert.Error(t, err)
}

func TestAnalyzeWhileWithLabeledBreak(t *testing.T) {
	assert := assert.New(t)
	fn := &ir.Function{
		Output: types.Null,
		Body: &ir.While{
			Label:     "outer",
			Predicate: lit(types.Boolean, values.Boolean(true)),
			Body:      &ir.Break{Label: "outer"},
		},
	}
	_, err := analyzer.Analyze(fn, noBindings(t), nil)
	assert.NoError(err)
}

func TestAnalyzeForOverDictBindsKeyAndValue(t *testing.T) {
	assert := assert.New(t)
	dict := types.NewDict(types.String, types.Integer)
	fn := &ir.Function{
		Output: types.Null,
		Body: &ir.For{
			Collection: lit(dict, nil),
			ItemName:   "v",
			KeyName:    "k",
			Body: &ir.Block{
				Statements: []ir.Node{
					&ir.Let{Name: "_k", Value: &ir.Reference{Binding: "k"}},
					&ir.Let{Name: "_v", Value: &ir.Reference{Binding: "v"}},
				},
			},
		},
	}
	_, err := analyzer.Analyze(fn, noBindings(t), nil)
	assert.NoError(err)
}

func TestAnalyzeBuiltinDelegatesToRegistryCheck(t *testing.T) {
	assert := assert.New(t)
	n := &ir.Builtin{
		Name: "IntegerAdd",
		Args: []ir.Node{lit(types.Integer, values.Integer(1)), lit(types.Integer, values.Integer(2))},
	}
	anns, err := analyzer.Analyze(n, noBindings(t), nil)
	assert.NoError(err)
	assert.Equal(types.Integer, anns[n].Type)
}

func TestAnalyzeTryUnionsBodyAndCatchTypes(t *testing.T) {
	assert := assert.New(t)
	n := &ir.Try{
		Body:        &ir.Error{Message: lit(types.String, values.String("boom"))},
		MessageName: "msg",
		StackName:   "stack",
		Catch:       &ir.Reference{Binding: "msg"},
	}
	anns, err := analyzer.Analyze(n, noBindings(t), nil)
	assert.NoError(err)
	assert.Equal(types.String, anns[n].Type)
}
