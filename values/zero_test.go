package values_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elaraai/east/types"
	"github.com/elaraai/east/values"
)

func TestZeroValue_Primitives(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(values.Integer(0), values.ZeroValue(types.Integer))
	assert.Equal(values.String(""), values.ZeroValue(types.String))
	assert.Equal(values.Boolean(false), values.ZeroValue(types.Boolean))
}

func TestZeroValue_Containers(t *testing.T) {
	assert := assert.New(t)
	arr := values.ZeroValue(types.NewArray(types.Integer)).(*values.Array)
	assert.Equal(0, len(arr.Elements))

	ref := values.ZeroValue(types.NewRef(types.Integer)).(*values.Ref)
	assert.Equal(values.Integer(0), ref.Slot)
}

func TestZeroValue_StructUsesFieldZeroValues(t *testing.T) {
	st := types.NewStruct(types.Field{Name: "n", Type: types.Integer}, types.Field{Name: "s", Type: types.String})
	v := values.ZeroValue(st).(*values.Struct)
	assert.Equal(t, values.Integer(0), v.Fields[0])
	assert.Equal(t, values.String(""), v.Fields[1])
}
