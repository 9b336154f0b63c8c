package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elaraai/east/types"
)

func TestIsDataType(t *testing.T) {
	assert := assert.New(t)
	assert.True(types.IsDataType(types.Integer))
	assert.True(types.IsDataType(types.NewArray(types.Integer)))
	assert.False(types.IsDataType(types.NewFunction(types.Null, nil)))
	assert.False(types.IsDataType(types.NewStruct(types.Field{Name: "f", Type: types.NewFunction(types.Null, nil)})))
}

func TestIsImmutableType(t *testing.T) {
	assert := assert.New(t)
	assert.True(types.IsImmutableType(types.Integer))
	assert.True(types.IsImmutableType(types.NewStruct(types.Field{Name: "x", Type: types.String})))
	assert.False(types.IsImmutableType(types.NewArray(types.Integer)), "Array is always mutable")
	assert.False(types.IsImmutableType(types.NewRef(types.Integer)), "Ref is always mutable")
	assert.False(types.IsImmutableType(types.NewStruct(types.Field{Name: "x", Type: types.NewArray(types.Integer)})))
}

func TestIsImmutableType_RecursiveDataStructure(t *testing.T) {
	assert := assert.New(t)
	r := &types.Recursive{}
	r.Inner = types.NewVariant(
		types.Case{Name: "leaf", Type: types.Integer},
		types.Case{Name: "node", Type: types.NewStruct(
			types.Field{Name: "left", Type: &types.RecursiveRef{Depth: 1}},
			types.Field{Name: "right", Type: &types.RecursiveRef{Depth: 1}},
		)},
	)
	assert.True(types.IsDataType(r))
	assert.True(types.IsImmutableType(r))
}

func TestIsDataType_RecursiveThroughRef(t *testing.T) {
	assert := assert.New(t)
	r := &types.Recursive{}
	r.Inner = types.NewStruct(
		types.Field{Name: "value", Type: types.Integer},
		types.Field{Name: "next", Type: types.NewRef(&types.RecursiveRef{Depth: 1})},
	)
	assert.True(types.IsDataType(r))
	assert.False(types.IsImmutableType(r), "the Ref makes the linked list mutable")
}
