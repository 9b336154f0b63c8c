package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elaraai/east/types"
)

func TestSubtype_NeverIsBottom(t *testing.T) {
	assert := assert.New(t)
	candidates := []types.Type{
		types.Null, types.Boolean, types.Integer, types.Float, types.String,
		types.NewArray(types.Integer),
		types.NewStruct(types.Field{Name: "x", Type: types.Integer}),
	}
	for _, c := range candidates {
		assert.True(types.Subtype(types.Never, c))
	}
	assert.False(types.Subtype(types.Integer, types.Never))
}

func TestSubtype_MutableContainersAreInvariant(t *testing.T) {
	assert := assert.New(t)
	sub := types.NewStruct(types.Field{Name: "x", Type: types.Never})
	super := types.NewStruct(types.Field{Name: "x", Type: types.Integer})
	// the structs on their own are subtypes (fields are covariant), but
	// when wrapped in a mutable Array the two element types must be
	// exactly equal, not merely one-a-subtype-of-the-other.
	assert.True(types.Subtype(sub, super))
	assert.False(types.Subtype(types.NewArray(sub), types.NewArray(super)))
}

func TestSubtype_StructFieldCovariance(t *testing.T) {
	assert := assert.New(t)
	narrow := types.NewStruct(types.Field{Name: "x", Type: types.Never})
	wide := types.NewStruct(types.Field{Name: "x", Type: types.Integer})
	assert.True(types.Subtype(narrow, wide))
}

func TestSubtype_VariantCaseSubset(t *testing.T) {
	assert := assert.New(t)
	small := types.NewVariant(types.Case{Name: "a", Type: types.Integer})
	large := types.NewVariant(types.Case{Name: "a", Type: types.Integer}, types.Case{Name: "b", Type: types.String})
	assert.True(types.Subtype(small, large))
	assert.False(types.Subtype(large, small))
}

func TestSubtype_FunctionContravariantInputsCovariantOutput(t *testing.T) {
	assert := assert.New(t)
	small := types.NewVariant(types.Case{Name: "a", Type: types.Integer})
	big := types.NewVariant(types.Case{Name: "a", Type: types.Integer}, types.Case{Name: "b", Type: types.String})
	handlesBig := types.NewFunction(types.Null, nil, big)
	handlesSmall := types.NewFunction(types.Null, nil, small)
	// a function whose parameter handles more variant cases is usable
	// wherever one that only needs to handle fewer cases is expected.
	assert.True(types.Subtype(handlesBig, handlesSmall))
	assert.False(types.Subtype(handlesSmall, handlesBig))
}

func TestSubtype_FunctionPlatformSubset(t *testing.T) {
	assert := assert.New(t)
	fewer := types.NewFunction(types.Null, types.NewPlatformSet("http"), types.String)
	more := types.NewFunction(types.Null, types.NewPlatformSet("http", "db"), types.String)
	assert.True(types.Subtype(fewer, more))
	assert.False(types.Subtype(more, fewer))
}
