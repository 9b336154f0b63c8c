package beast2

import (
	"fmt"

	"github.com/elaraai/east/types"
)

// Type-schema node tags. One per types.Kind; the wire value is simply
// the Kind's own int, since types.Kind is already a small, stable,
// densely-packed enum the rest of the engine switches on exhaustively.
func encodeType(w *writer, t types.Type) error {
	if err := w.varint(uint64(t.Kind())); err != nil {
		return err
	}
	switch x := t.(type) {
	case *types.Array:
		return encodeType(w, x.Elem)
	case *types.Set:
		return encodeType(w, x.Key)
	case *types.Dict:
		if err := encodeType(w, x.Key); err != nil {
			return err
		}
		return encodeType(w, x.Value)
	case *types.Ref:
		return encodeType(w, x.Inner)
	case *types.Struct:
		if err := w.varint(uint64(len(x.Fields))); err != nil {
			return err
		}
		for _, f := range x.Fields {
			if err := w.stringBytes(f.Name); err != nil {
				return err
			}
			if err := encodeType(w, f.Type); err != nil {
				return err
			}
		}
		return nil
	case *types.Variant:
		if err := w.varint(uint64(len(x.Cases))); err != nil {
			return err
		}
		for _, c := range x.Cases {
			if err := w.stringBytes(c.Name); err != nil {
				return err
			}
			if err := encodeType(w, c.Type); err != nil {
				return err
			}
		}
		return nil
	case *types.Recursive:
		return encodeType(w, x.Inner)
	case *types.RecursiveRef:
		return w.varint(uint64(x.Depth))
	case *types.Function:
		return encodeFunctionType(w, x.Inputs, x.Output, x.Platforms)
	case *types.AsyncFunction:
		return encodeFunctionType(w, x.Inputs, x.Output, x.Platforms)
	default:
		// Never, Null, Boolean, Integer, Float, String, DateTime, Blob:
		// the Kind tag already carries the whole type.
		return nil
	}
}

func encodeFunctionType(w *writer, inputs []types.Type, output types.Type, platforms types.PlatformSet) error {
	if err := w.varint(uint64(len(inputs))); err != nil {
		return err
	}
	for _, in := range inputs {
		if err := encodeType(w, in); err != nil {
			return err
		}
	}
	if err := encodeType(w, output); err != nil {
		return err
	}
	names := platforms.Sorted()
	if err := w.varint(uint64(len(names))); err != nil {
		return err
	}
	for _, n := range names {
		if err := w.stringBytes(n); err != nil {
			return err
		}
	}
	return nil
}

func decodeType(r *reader) (types.Type, error) {
	tag, err := r.varint()
	if err != nil {
		return nil, err
	}
	switch types.Kind(tag) {
	case types.KindNever:
		return types.Never, nil
	case types.KindNull:
		return types.Null, nil
	case types.KindBoolean:
		return types.Boolean, nil
	case types.KindInteger:
		return types.Integer, nil
	case types.KindFloat:
		return types.Float, nil
	case types.KindString:
		return types.String, nil
	case types.KindDateTime:
		return types.DateTime, nil
	case types.KindBlob:
		return types.Blob, nil
	case types.KindArray:
		elem, err := decodeType(r)
		if err != nil {
			return nil, err
		}
		return types.NewArray(elem), nil
	case types.KindSet:
		key, err := decodeType(r)
		if err != nil {
			return nil, err
		}
		return types.NewSet(key), nil
	case types.KindDict:
		key, err := decodeType(r)
		if err != nil {
			return nil, err
		}
		val, err := decodeType(r)
		if err != nil {
			return nil, err
		}
		return types.NewDict(key, val), nil
	case types.KindRef:
		inner, err := decodeType(r)
		if err != nil {
			return nil, err
		}
		return types.NewRef(inner), nil
	case types.KindStruct:
		n, err := r.varint()
		if err != nil {
			return nil, err
		}
		fields := make([]types.Field, n)
		for i := range fields {
			name, err := r.stringBytes()
			if err != nil {
				return nil, err
			}
			ft, err := decodeType(r)
			if err != nil {
				return nil, err
			}
			fields[i] = types.Field{Name: name, Type: ft}
		}
		return types.NewStruct(fields...), nil
	case types.KindVariant:
		n, err := r.varint()
		if err != nil {
			return nil, err
		}
		cases := make([]types.Case, n)
		for i := range cases {
			name, err := r.stringBytes()
			if err != nil {
				return nil, err
			}
			ct, err := decodeType(r)
			if err != nil {
				return nil, err
			}
			cases[i] = types.Case{Name: name, Type: ct}
		}
		// Cases were already written in canonical (name-sorted) order by
		// the encoder, but NewVariant re-sorts defensively rather than
		// trusting the wire -- an untrusted or hand-crafted blob should
		// not be able to desynchronize CaseIndex from what encodeType
		// wrote it against.
		return types.NewVariant(cases...), nil
	case types.KindRecursive:
		inner, err := decodeType(r)
		if err != nil {
			return nil, err
		}
		return types.NewRecursive(inner), nil
	case types.KindRecursiveRef:
		depth, err := r.varint()
		if err != nil {
			return nil, err
		}
		return &types.RecursiveRef{Depth: int(depth)}, nil
	case types.KindFunction:
		inputs, output, platforms, err := decodeFunctionType(r)
		if err != nil {
			return nil, err
		}
		return types.NewFunction(output, platforms, inputs...), nil
	case types.KindAsyncFunction:
		inputs, output, platforms, err := decodeFunctionType(r)
		if err != nil {
			return nil, err
		}
		return types.NewAsyncFunction(output, platforms, inputs...), nil
	default:
		return nil, fmt.Errorf("beast2: unknown type tag %d", tag)
	}
}

func decodeFunctionType(r *reader) ([]types.Type, types.Type, types.PlatformSet, error) {
	n, err := r.varint()
	if err != nil {
		return nil, nil, nil, err
	}
	inputs := make([]types.Type, n)
	for i := range inputs {
		inputs[i], err = decodeType(r)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	output, err := decodeType(r)
	if err != nil {
		return nil, nil, nil, err
	}
	pn, err := r.varint()
	if err != nil {
		return nil, nil, nil, err
	}
	names := make([]string, pn)
	for i := range names {
		names[i], err = r.stringBytes()
		if err != nil {
			return nil, nil, nil, err
		}
	}
	return inputs, output, types.NewPlatformSet(names...), nil
}
