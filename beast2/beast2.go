package beast2

import (
	"bytes"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/elaraai/east/platform"
	"github.com/elaraai/east/runtime"
	"github.com/elaraai/east/types"
	"github.com/elaraai/east/values"
)

func init() {
	runtime.EncodeBeast2 = func(t types.Type, v values.Value) ([]byte, error) {
		return EncodeFor(t, v, nil)
	}
	runtime.DecodeBeast2 = func(t types.Type, b []byte) (values.Value, error) {
		return DecodeFor(t, b, nil, nil)
	}
}

// EncodeFor writes v, typed t, as a complete BEAST2 stream: magic
// header, then t's type schema, then v itself (spec §4.E).
func EncodeFor(t types.Type, v values.Value, logger hclog.Logger) ([]byte, error) {
	enc := newEncoder(logger)
	if err := encodeType(enc.w, t); err != nil {
		return nil, fmt.Errorf("beast2: encoding type schema: %w", err)
	}
	if err := enc.value(t, v); err != nil {
		return nil, fmt.Errorf("beast2: encoding value: %w", err)
	}
	out := make([]byte, 0, len(magic)+enc.w.offset())
	out = append(out, magic[:]...)
	out = append(out, enc.w.bytes()...)
	return out, nil
}

// DecodeAnonymous reads a BEAST2 stream without knowing its type in
// advance, returning the embedded schema alongside the decoded value
// (spec §4.E's decode_beast2). bindings, if non-nil, is used to
// recompile any embedded free functions; a nil bindings leaves them
// as raw, uncallable IR carriers.
func DecodeAnonymous(b []byte, bindings *platform.Bindings, logger hclog.Logger) (types.Type, values.Value, error) {
	r, err := stripMagic(b)
	if err != nil {
		return nil, nil, err
	}
	dec := newDecoder(r, bindings, logger)
	t, err := decodeType(dec.r)
	if err != nil {
		return nil, nil, fmt.Errorf("beast2: decoding type schema: %w", err)
	}
	v, err := dec.value(t)
	if err != nil {
		return nil, nil, fmt.Errorf("beast2: decoding value: %w", err)
	}
	if dec.r.remaining() != 0 {
		return nil, nil, fmt.Errorf("beast2: %d byte(s) of trailing data after a complete stream", dec.r.remaining())
	}
	return t, v, nil
}

// DecodeFor reads a BEAST2 stream expected to hold a value of type
// expected, erroring if the embedded schema is not type-equal to it
// (spec §4.E's decodeBeast2For, a "Serialization fault" per §7 on
// mismatch).
func DecodeFor(expected types.Type, b []byte, bindings *platform.Bindings, logger hclog.Logger) (values.Value, error) {
	t, v, err := DecodeAnonymous(b, bindings, logger)
	if err != nil {
		return nil, err
	}
	if !types.TypeEqual(t, expected) {
		return nil, fmt.Errorf("beast2: decoded type does not match the expected type")
	}
	return v, nil
}

func stripMagic(b []byte) ([]byte, error) {
	if len(b) < len(magic) {
		return nil, fmt.Errorf("beast2: stream shorter than the magic header")
	}
	if !bytes.Equal(b[:len(magic)], magic[:]) {
		return nil, fmt.Errorf("beast2: bad magic header")
	}
	return b[len(magic):], nil
}
