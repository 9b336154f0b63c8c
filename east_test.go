package east_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elaraai/east"
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

func mustCompile(t *testing.T, fn *ir.Function, bindings *platform.Bindings) *values.Function {
	t.Helper()
	anns, err := east.Analyze(fn, bindings, nil)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	cf, err := east.CompileSync(fn, anns, bindings, nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return cf
}

// Dict-fold over heterogeneous input: build {"a":10, "b":20, "c":30}
// and fold the values with + from 0, spec §8 scenario 1.
func TestEndToEndDictFold(t *testing.T) {
	assert := assert.New(t)
	fn := &ir.Function{
		Output: types.Integer,
		Body: &ir.Block{
			Statements: []ir.Node{
				&ir.Let{Name: "m", Value: &ir.NewDict{Key: types.String, Value: types.Integer, Entries: []ir.DictEntry{
					{Key: ir.Str("a"), Value: ir.Int(10)},
					{Key: ir.Str("b"), Value: ir.Int(20)},
					{Key: ir.Str("c"), Value: ir.Int(30)},
				}}},
				&ir.Let{Name: "total", Value: &ir.NewRef{Inner: types.Integer, Init: ir.Int(0)}},
				&ir.For{
					Collection: ir.Ref("m"),
					ItemName:   "value",
					KeyName:    "key",
					Body: &ir.Builtin{Name: "RefUpdate", Args: []ir.Node{ir.Ref("total"), &ir.Builtin{Name: "IntegerAdd", Args: []ir.Node{
						&ir.Builtin{Name: "RefGet", Args: []ir.Node{ir.Ref("total")}}, ir.Ref("value"),
					}}}},
				},
			},
			Result: &ir.Builtin{Name: "RefGet", Args: []ir.Node{ir.Ref("total")}},
		},
	}
	cf := mustCompile(t, fn, noBindings(t))
	v, err := cf.Impl(nil)
	assert.NoError(err)
	assert.Equal(values.Integer(60), v)
}

// Early return from inside If: x = true; if x { return 42 } else {};
// return 0 -- spec §8 scenario 2.
func TestEndToEndEarlyReturnFromIf(t *testing.T) {
	assert := assert.New(t)
	fn := &ir.Function{
		Output: types.Integer,
		Body: &ir.Block{
			Statements: []ir.Node{
				&ir.Let{Name: "x", Value: ir.Bool(true)},
				&ir.If{
					Branches: []ir.IfBranch{{
						Predicate: ir.Ref("x"),
						Body:      &ir.Return{Value: ir.Int(42)},
					}},
					Else: &ir.Block{},
				},
			},
			Result: &ir.Return{Value: ir.Int(0)},
		},
	}
	cf := mustCompile(t, fn, noBindings(t))
	v, err := cf.Impl(nil)
	assert.NoError(err)
	assert.Equal(values.Integer(42), v)
}

// While(true) with a labeled Break: while true label { break label };
// return 42 -- spec §8 scenario 3.
func TestEndToEndWhileTrueWithLabeledBreak(t *testing.T) {
	assert := assert.New(t)
	fn := &ir.Function{
		Output: types.Integer,
		Body: &ir.Block{
			Statements: []ir.Node{
				&ir.While{
					Label:     "loop",
					Predicate: ir.Bool(true),
					Body:      &ir.Break{Label: "loop"},
				},
			},
			Result: ir.Int(42),
		},
	}
	cf := mustCompile(t, fn, noBindings(t))
	v, err := cf.Impl(nil)
	assert.NoError(err)
	assert.Equal(values.Integer(42), v)
}

// Out-of-bounds array access raises a non-catchable EastError at the
// host boundary (no enclosing Try) -- spec §8 scenario 4.
func TestEndToEndOutOfBoundsArrayErrors(t *testing.T) {
	fn := &ir.Function{
		Output: types.Integer,
		Body: &ir.Builtin{Name: "ArrayGet", Args: []ir.Node{
			&ir.NewArray{Elem: types.Integer, Items: []ir.Node{ir.Int(10), ir.Int(20), ir.Int(30)}},
			ir.Int(4),
		}},
	}
	cf := mustCompile(t, fn, noBindings(t))
	_, err := cf.Impl(nil)
	if err == nil {
		t.Fatal("expected an out-of-bounds error")
	}
}

func TestEndToEndTypeOperations(t *testing.T) {
	assert := assert.New(t)
	assert.True(east.Subtype(types.Never, types.Integer))
	u, err := east.Union(types.Never, types.Integer)
	assert.NoError(err)
	assert.True(east.TypeEqual(u, types.Integer))
	i, err := east.Intersect(types.Never, types.Integer)
	assert.NoError(err)
	assert.True(east.TypeEqual(i, types.Never))
}

func TestEndToEndPrintAndParseRoundTrip(t *testing.T) {
	assert := assert.New(t)
	s := east.PrintValue(types.Integer, values.Integer(42))
	v, err := east.ParseValue(types.Integer, s)
	assert.NoError(err)
	assert.Equal(values.Integer(42), v)
}
