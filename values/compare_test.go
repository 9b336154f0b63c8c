package values_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elaraai/east/types"
	"github.com/elaraai/east/values"
)

func TestIs_ContainerIdentity(t *testing.T) {
	assert := assert.New(t)
	a := values.NewArray(types.Integer)
	b := values.NewArray(types.Integer)
	assert.True(values.Is(a, a))
	assert.False(values.Is(a, b), "distinct Array instances are not Is-equal even with equal contents")
}

func TestIs_PrimitivesFallBackToStructural(t *testing.T) {
	assert := assert.New(t)
	assert.True(values.Is(values.Integer(5), values.Integer(5)))
	assert.False(values.Is(values.Integer(5), values.Integer(6)))
}

func TestStructuralEqual_Containers(t *testing.T) {
	assert := assert.New(t)
	a := values.NewArray(types.Integer)
	a.Elements = []values.Value{values.Integer(1), values.Integer(2)}
	b := values.NewArray(types.Integer)
	b.Elements = []values.Value{values.Integer(1), values.Integer(2)}
	assert.True(values.StructuralEqual(a, b))
	assert.False(values.Is(a, b))
}

func TestFloat_ZeroSignAndNaN(t *testing.T) {
	assert := assert.New(t)
	pos := values.Float(0.0)
	neg := values.Float(-0.0)
	assert.True(values.StructuralEqual(pos, neg), "+0.0 and -0.0 compare equal under ==")

	nan := values.Float(math.NaN())
	assert.False(values.StructuralEqual(nan, nan), "NaN never equals itself")
}

func TestSet_InsertHasDelete(t *testing.T) {
	assert := assert.New(t)
	s := values.NewSet(types.Integer)

	added, err := s.Insert(values.Integer(1))
	assert.NoError(err)
	assert.True(added)

	added, err = s.Insert(values.Integer(1))
	assert.NoError(err)
	assert.False(added, "re-inserting an existing key reports no addition")

	assert.True(s.Has(values.Integer(1)))
	assert.Equal(1, s.Size())

	removed, err := s.Delete(values.Integer(1))
	assert.NoError(err)
	assert.True(removed)
	assert.False(s.Has(values.Integer(1)))
}

func TestSet_StructKeys(t *testing.T) {
	assert := assert.New(t)
	st := types.NewStruct(types.Field{Name: "x", Type: types.Integer}, types.Field{Name: "y", Type: types.String})
	s := values.NewSet(st)

	k1 := values.NewStruct(st, values.Integer(1), values.String("a"))
	k2 := values.NewStruct(st, values.Integer(1), values.String("a"))

	_, err := s.Insert(k1)
	assert.NoError(err)
	assert.True(s.Has(k2), "structurally equal struct keys hash to the same bucket")
}

func TestDict_InsertGetOverwriteDelete(t *testing.T) {
	assert := assert.New(t)
	d := values.NewDict(types.String, types.Integer)

	_, err := d.Insert(values.String("a"), values.Integer(10))
	assert.NoError(err)
	v, ok := d.Get(values.String("a"))
	assert.True(ok)
	assert.Equal(values.Integer(10), v)

	created, err := d.Insert(values.String("a"), values.Integer(20))
	assert.NoError(err)
	assert.False(created, "overwriting an existing key is not a new insertion")
	v, _ = d.Get(values.String("a"))
	assert.Equal(values.Integer(20), v)

	removed, err := d.Delete(values.String("a"))
	assert.NoError(err)
	assert.True(removed)
	_, ok = d.Get(values.String("a"))
	assert.False(ok)
}

func TestDict_PreservesInsertionOrder(t *testing.T) {
	assert := assert.New(t)
	d := values.NewDict(types.String, types.Integer)
	keys := []string{"b", "a", "c"}
	for _, k := range keys {
		_, err := d.Insert(values.String(k), values.Integer(0))
		assert.NoError(err)
	}
	for i, k := range keys {
		assert.Equal(values.String(k), d.Order[i])
	}
}

func TestIterationGuard_BlocksMutationDuringIteration(t *testing.T) {
	assert := assert.New(t)
	s := values.NewSet(types.Integer)
	_, err := s.Insert(values.Integer(1))
	assert.NoError(err)

	s.BeginIteration()
	_, err = s.Insert(values.Integer(2))
	assert.Error(err)
	_, err = s.Delete(values.Integer(1))
	assert.Error(err)
	s.EndIteration()

	_, err = s.Insert(values.Integer(2))
	assert.NoError(err)
}

func TestCompare_Orderables(t *testing.T) {
	assert := assert.New(t)
	ord, err := values.Compare(values.Integer(1), values.Integer(2))
	assert.NoError(err)
	assert.Equal(values.Less, ord)

	ord, err = values.Compare(values.String("b"), values.String("a"))
	assert.NoError(err)
	assert.Equal(values.Greater, ord)

	_, err = values.Compare(values.NewArray(types.Integer), values.NewArray(types.Integer))
	assert.Error(err, "containers are not Orderable")
}
