package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elaraai/east/types"
)

func TestUnion_NeverIsIdentity(t *testing.T) {
	assert := assert.New(t)
	u, err := types.Union(types.Never, types.Integer)
	assert.NoError(err)
	assert.True(types.TypeEqual(u, types.Integer))

	u, err = types.Union(types.Integer, types.Never)
	assert.NoError(err)
	assert.True(types.TypeEqual(u, types.Integer))
}

func TestIntersect_NeverIsAbsorbing(t *testing.T) {
	assert := assert.New(t)
	i, err := types.Intersect(types.Never, types.Integer)
	assert.NoError(err)
	assert.True(types.TypeEqual(i, types.Never))
}

func TestUnion_VariantWidensCaseSet(t *testing.T) {
	assert := assert.New(t)
	a := types.NewVariant(types.Case{Name: "a", Type: types.Integer})
	b := types.NewVariant(types.Case{Name: "b", Type: types.String})
	u, err := types.Union(a, b)
	assert.NoError(err)
	v := u.(*types.Variant)
	assert.Len(v.Cases, 2)
	assert.True(v.CaseIndex("a") >= 0)
	assert.True(v.CaseIndex("b") >= 0)
}

func TestIntersect_VariantKeepsSharedCasesOnly(t *testing.T) {
	assert := assert.New(t)
	a := types.NewVariant(types.Case{Name: "a", Type: types.Integer}, types.Case{Name: "b", Type: types.String})
	b := types.NewVariant(types.Case{Name: "b", Type: types.String}, types.Case{Name: "c", Type: types.Boolean})
	i, err := types.Intersect(a, b)
	assert.NoError(err)
	v := i.(*types.Variant)
	assert.Len(v.Cases, 1)
	assert.Equal("b", v.Cases[0].Name)
}

func TestEqualRefine_DoesNotWidenVariant(t *testing.T) {
	assert := assert.New(t)
	a := types.NewVariant(types.Case{Name: "a", Type: types.Integer})
	b := types.NewVariant(types.Case{Name: "a", Type: types.Integer}, types.Case{Name: "b", Type: types.String})
	_, err := types.EqualRefine(a, b)
	assert.Error(err, "EqualRefine must not widen a variant's case set the way Union does")
}

func TestCompose_StructRequiresIdenticalShape(t *testing.T) {
	assert := assert.New(t)
	a := types.NewStruct(types.Field{Name: "x", Type: types.Integer})
	b := types.NewStruct(types.Field{Name: "x", Type: types.Integer}, types.Field{Name: "y", Type: types.String})

	_, err := types.Union(a, b)
	assert.Error(err)
	_, err = types.Intersect(a, b)
	assert.Error(err)
	_, err = types.EqualRefine(a, b)
	assert.Error(err)
}

func TestCompose_FunctionPlatformsUnionAndIntersect(t *testing.T) {
	assert := assert.New(t)
	f1 := types.NewFunction(types.Null, types.NewPlatformSet("http"), types.Integer)
	f2 := types.NewFunction(types.Null, types.NewPlatformSet("db"), types.Integer)

	u, err := types.Union(f1, f2)
	assert.NoError(err)
	uf := u.(*types.Function)
	assert.True(uf.Platforms.Contains("http"))
	assert.True(uf.Platforms.Contains("db"))

	i, err := types.Intersect(f1, f2)
	assert.NoError(err)
	iff := i.(*types.Function)
	assert.False(iff.Platforms.Contains("http"))
	assert.False(iff.Platforms.Contains("db"))
}

func TestCompose_MismatchCarriesPath(t *testing.T) {
	assert := assert.New(t)
	a := types.NewStruct(types.Field{Name: "x", Type: types.NewArray(types.Integer)})
	b := types.NewStruct(types.Field{Name: "x", Type: types.NewArray(types.String)})
	_, err := types.Union(a, b)
	assert.Error(err)
	assert.Contains(err.Error(), "struct field x")
}
