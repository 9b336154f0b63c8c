package runtime

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"github.com/elaraai/east/types"
	"github.com/elaraai/east/values"
)

// EncodeBeast2 and DecodeBeast2 are extension points the beast2 package
// wires up in its own init(), so the BlobEncodeBeast2/BlobDecodeBeast2
// builtins can reach the codec without runtime importing beast2 (which
// itself depends on runtime for type/value evaluation during function
// embedding). Left nil, calling the builtins fails with an EastError
// rather than panicking.
var (
	EncodeBeast2 func(t types.Type, v values.Value) ([]byte, error)
	DecodeBeast2 func(t types.Type, b []byte) (values.Value, error)
)

func init() {
	register(Builtin{Name: "BlobSize", Check: checkUnaryBlob(types.Integer), Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		return values.Integer(len(args[0].(values.Blob))), nil
	}})
	register(Builtin{Name: "BlobGetUint8", Check: checkBlobInt(types.Integer), Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		b := args[0].(values.Blob)
		idx := int64(args[1].(values.Integer))
		if idx < 0 || idx >= int64(len(b)) {
			return nil, values.NewEastError("blob index out of bounds")
		}
		return values.Integer(b[idx]), nil
	}})
	register(Builtin{Name: "BlobDecodeUtf8", Check: checkUnaryBlob(types.String), Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		b := args[0].(values.Blob)
		if !utf8.Valid(b) {
			return nil, values.NewEastError("blob is not valid UTF-8")
		}
		return values.String(b), nil
	}})
	register(Builtin{Name: "BlobDecodeUtf16", Check: checkUnaryBlob(types.String), Eval: func(_ []types.Type, args []values.Value) (values.Value, error) {
		b := args[0].(values.Blob)
		if len(b)%2 != 0 {
			return nil, values.NewEastError("blob has odd length, not valid UTF-16")
		}
		dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
		out, err := dec.Bytes(b)
		if err != nil {
			return nil, values.NewEastError("blob is not valid UTF-16: " + err.Error())
		}
		return values.String(out), nil
	}})
	register(Builtin{Name: "BlobEncodeBeast2", Check: checkBlobEncodeBeast2, Eval: func(typeParams []types.Type, args []values.Value) (values.Value, error) {
		if EncodeBeast2 == nil {
			return nil, values.NewEastError("beast2 codec is not wired into this runtime")
		}
		b, err := EncodeBeast2(typeParams[0], args[0])
		if err != nil {
			return nil, err
		}
		return values.Blob(b), nil
	}})
	register(Builtin{Name: "BlobDecodeBeast2", Check: checkBlobDecodeBeast2, Eval: func(typeParams []types.Type, args []values.Value) (values.Value, error) {
		if DecodeBeast2 == nil {
			return nil, values.NewEastError("beast2 codec is not wired into this runtime")
		}
		return DecodeBeast2(typeParams[0], []byte(args[0].(values.Blob)))
	}})
}

func checkUnaryBlob(out types.Type) Check {
	return func(_ []types.Type, args []types.Type) (types.Type, error) {
		if len(args) != 1 || args[0].Kind() != types.KindBlob {
			return nil, errArity("Blob operator", 1, len(args))
		}
		return out, nil
	}
}

func checkBlobInt(out types.Type) Check {
	return func(_ []types.Type, args []types.Type) (types.Type, error) {
		if len(args) != 2 || args[0].Kind() != types.KindBlob || args[1].Kind() != types.KindInteger {
			return nil, errArity("BlobGetUint8", 2, len(args))
		}
		return out, nil
	}
}

func checkBlobEncodeBeast2(typeParams []types.Type, args []types.Type) (types.Type, error) {
	if len(typeParams) != 1 || len(args) != 1 || !types.TypeEqual(args[0], typeParams[0]) {
		return nil, errArity("BlobEncodeBeast2", 1, len(args))
	}
	return types.Blob, nil
}

func checkBlobDecodeBeast2(typeParams []types.Type, args []types.Type) (types.Type, error) {
	if len(typeParams) != 1 || len(args) != 1 || args[0].Kind() != types.KindBlob {
		return nil, errArity("BlobDecodeBeast2", 1, len(args))
	}
	return typeParams[0], nil
}
