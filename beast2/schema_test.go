package beast2

import (
	"testing"

	"github.com/elaraai/east/types"
)

func roundTripType(t *testing.T, orig types.Type) types.Type {
	t.Helper()
	w := newWriter()
	if err := encodeType(w, orig); err != nil {
		t.Fatalf("encodeType: %v", err)
	}
	got, err := decodeType(newReader(w.bytes()))
	if err != nil {
		t.Fatalf("decodeType: %v", err)
	}
	return got
}

func TestSchemaRoundTripPrimitives(t *testing.T) {
	for _, ty := range []types.Type{types.Null, types.Boolean, types.Integer, types.Float, types.String, types.DateTime, types.Blob} {
		got := roundTripType(t, ty)
		if !types.TypeEqual(got, ty) {
			t.Fatalf("%s: round-tripped to %s", ty, got)
		}
	}
}

func TestSchemaRoundTripArraySetDict(t *testing.T) {
	arr := types.NewArray(types.Integer)
	if got := roundTripType(t, arr); !types.TypeEqual(got, arr) {
		t.Fatalf("array: got %s", got)
	}
	set := types.NewSet(types.String)
	if got := roundTripType(t, set); !types.TypeEqual(got, set) {
		t.Fatalf("set: got %s", got)
	}
	dict := types.NewDict(types.String, types.Integer)
	if got := roundTripType(t, dict); !types.TypeEqual(got, dict) {
		t.Fatalf("dict: got %s", got)
	}
}

func TestSchemaRoundTripStructAndVariant(t *testing.T) {
	st := types.NewStruct(
		types.Field{Name: "name", Type: types.String},
		types.Field{Name: "age", Type: types.Integer},
	)
	if got := roundTripType(t, st); !types.TypeEqual(got, st) {
		t.Fatalf("struct: got %s", got)
	}
	vt := types.NewVariant(
		types.Case{Name: "Some", Type: types.Integer},
		types.Case{Name: "None", Type: types.Null},
	)
	if got := roundTripType(t, vt); !types.TypeEqual(got, vt) {
		t.Fatalf("variant: got %s", got)
	}
}

func TestSchemaRoundTripRecursive(t *testing.T) {
	// list = Null | Struct{head: Integer, tail: RecursiveRef(1)}
	inner := types.NewVariant(
		types.Case{Name: "Nil", Type: types.Null},
		types.Case{Name: "Cons", Type: types.NewStruct(
			types.Field{Name: "head", Type: types.Integer},
			types.Field{Name: "tail", Type: &types.RecursiveRef{Depth: 1}},
		)},
	)
	rec := types.NewRecursive(inner)
	got := roundTripType(t, rec)
	if !types.TypeEqual(got, rec) {
		t.Fatalf("recursive: got %s", got)
	}
}

func TestSchemaRoundTripFunctionType(t *testing.T) {
	ft := types.NewFunction(types.Integer, types.NewPlatformSet("double"), types.Integer)
	got := roundTripType(t, ft)
	if !types.TypeEqual(got, ft) {
		t.Fatalf("function type: got %s", got)
	}
}

func TestSchemaUnknownTag(t *testing.T) {
	w := newWriter()
	if err := w.varint(9999); err != nil {
		t.Fatal(err)
	}
	if _, err := decodeType(newReader(w.bytes())); err == nil {
		t.Fatal("expected unknown type tag error")
	}
}
