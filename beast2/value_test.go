package beast2

import (
	"math"
	"testing"

	"github.com/elaraai/east/types"
	"github.com/elaraai/east/values"
)

func roundTripValue(t *testing.T, ty types.Type, v values.Value) values.Value {
	t.Helper()
	b, err := EncodeFor(ty, v, nil)
	if err != nil {
		t.Fatalf("EncodeFor: %v", err)
	}
	got, err := DecodeFor(ty, b, nil, nil)
	if err != nil {
		t.Fatalf("DecodeFor: %v", err)
	}
	return got
}

func TestValueRoundTripPrimitives(t *testing.T) {
	cases := []struct {
		ty types.Type
		v  values.Value
	}{
		{types.Null, values.Null{}},
		{types.Boolean, values.Boolean(true)},
		{types.Boolean, values.Boolean(false)},
		{types.Integer, values.Integer(-123456789)},
		{types.Float, values.Float(3.5)},
		{types.String, values.String("hello, east")},
		{types.DateTime, values.DateTime(1700000000000)},
		{types.Blob, values.Blob([]byte{1, 2, 3, 255})},
	}
	for _, c := range cases {
		got := roundTripValue(t, c.ty, c.v)
		if !values.StructuralEqual(got, c.v) {
			t.Fatalf("%s: got %v, want %v", c.ty, got, c.v)
		}
	}
}

func TestValueRoundTripNaNIsCanonicalized(t *testing.T) {
	nonCanonical := math.Float64frombits(0x7ff8000000000001)
	b, err := EncodeFor(types.Float, values.Float(nonCanonical), nil)
	if err != nil {
		t.Fatalf("EncodeFor: %v", err)
	}
	v, err := DecodeFor(types.Float, b, nil, nil)
	if err != nil {
		t.Fatalf("DecodeFor: %v", err)
	}
	got := math.Float64bits(float64(v.(values.Float)))
	if got != canonicalNaN {
		t.Fatalf("got bit pattern %#016x, want canonical %#016x", got, canonicalNaN)
	}
}

func TestValueDecodeRejectsNonCanonicalNaN(t *testing.T) {
	w := newWriter()
	if err := w.fixed64(0x7ff8000000000001); err != nil {
		t.Fatal(err)
	}
	dec := newDecoder(w.bytes(), nil, nil)
	if _, err := dec.value(types.Float); err == nil {
		t.Fatal("expected non-canonical NaN error")
	}
}

func TestValueRoundTripStructAndVariant(t *testing.T) {
	st := types.NewStruct(
		types.Field{Name: "name", Type: types.String},
		types.Field{Name: "age", Type: types.Integer},
	)
	sv := values.NewStruct(st, values.String("ada"), values.Integer(36))
	got := roundTripValue(t, st, sv)
	if !values.StructuralEqual(got, sv) {
		t.Fatalf("struct: got %v", got)
	}

	vt := types.NewVariant(
		types.Case{Name: "Some", Type: types.Integer},
		types.Case{Name: "None", Type: types.Null},
	)
	vv := values.NewVariant(vt, "Some", values.Integer(42))
	gotv := roundTripValue(t, vt, vv)
	if !values.StructuralEqual(gotv, vv) {
		t.Fatalf("variant: got %v", gotv)
	}
}

func TestValueRoundTripArrayPreservesAliasIdentity(t *testing.T) {
	st := types.NewStruct(
		types.Field{Name: "field1", Type: types.NewArray(types.Integer)},
		types.Field{Name: "field2", Type: types.NewArray(types.Integer)},
	)
	a := values.NewArray(types.Integer)
	a.Elements = append(a.Elements, values.Integer(1), values.Integer(2))
	sv := values.NewStruct(st, a, a)

	b, err := EncodeFor(st, sv, nil)
	if err != nil {
		t.Fatalf("EncodeFor: %v", err)
	}
	decoded, err := DecodeFor(st, b, nil, nil)
	if err != nil {
		t.Fatalf("DecodeFor: %v", err)
	}
	ds := decoded.(*values.Struct)
	field1 := ds.Fields[0].(*values.Array)
	field2 := ds.Fields[1].(*values.Array)
	if field1 != field2 {
		t.Fatal("aliased arrays did not round-trip to the same container identity")
	}
	field1.Elements = append(field1.Elements, values.Integer(3))
	if len(field2.Elements) != 3 {
		t.Fatal("mutation through field1 is not observable through field2")
	}
}

func TestValueDecodeUndefinedBackreference(t *testing.T) {
	w := newWriter()
	if err := w.varint(5); err != nil { // claims a container 5 bytes earlier; none exists
		t.Fatal(err)
	}
	dec := newDecoder(w.bytes(), nil, nil)
	if _, _, err := dec.container(func() values.Value { return values.NewArray(types.Integer) }); err == nil {
		t.Fatal("expected undefined backreference error")
	}
}

func TestDecodeForRejectsTypeMismatch(t *testing.T) {
	b, err := EncodeFor(types.Integer, values.Integer(1), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeFor(types.String, b, nil, nil); err == nil {
		t.Fatal("expected type-mismatch error")
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	if _, _, err := DecodeAnonymous([]byte("not a beast2 stream!!"), nil, nil); err == nil {
		t.Fatal("expected bad magic error")
	}
}

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	b, err := EncodeFor(types.Integer, values.Integer(1), nil)
	if err != nil {
		t.Fatal(err)
	}
	b = append(b, 0xff)
	if _, _, err := DecodeAnonymous(b, nil, nil); err == nil {
		t.Fatal("expected trailing-data error")
	}
}

func TestDecodeAnonymousRoundTrip(t *testing.T) {
	b, err := EncodeFor(types.String, values.String("anonymous"), nil)
	if err != nil {
		t.Fatal(err)
	}
	ty, v, err := DecodeAnonymous(b, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !types.TypeEqual(ty, types.String) {
		t.Fatalf("type: got %s", ty)
	}
	if !values.StructuralEqual(v, values.String("anonymous")) {
		t.Fatalf("value: got %v", v)
	}
}
