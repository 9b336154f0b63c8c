package beast2

import (
	"fmt"
	"math"

	"github.com/hashicorp/go-hclog"

	"github.com/elaraai/east/platform"
	"github.com/elaraai/east/types"
	"github.com/elaraai/east/values"
)

// canonicalNaN is the only bit pattern a NaN float may take on the
// wire (spec §4.E/§8); any other NaN pattern read back is a
// serialization fault.
const canonicalNaN uint64 = 0x7FF8000000000000

// encoder carries the per-call state a single EncodeFor/top-level
// encode pass threads through every nested encoder.value/encoder.node
// call: the byte sink, the container identity->offset backreference
// map (spec §4.E/§9's "pre-allocate then register" recipe, write
// side), and the stack of enclosing Recursive.Inner types a
// RecursiveRef resolves against.
type encoder struct {
	w        *writer
	seen     map[any]int
	recStack []types.Type
	log      hclog.Logger
}

func newEncoder(log hclog.Logger) *encoder {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &encoder{w: newWriter(), seen: make(map[any]int), log: log}
}

// container handles the inline-or-backreference marker shared by
// Array/Set/Dict/Ref. identity is the container's own pointer. It
// returns whether this is the container's first appearance in the
// stream; callers only need to serialize the container's structure
// when it is.
func (enc *encoder) container(identity any) (firstTime bool, err error) {
	before := enc.w.offset()
	if prior, ok := enc.seen[identity]; ok {
		enc.log.Trace("beast2: encoding container backreference", "delta", before-prior)
		return false, enc.w.varint(uint64(before - prior))
	}
	if err := enc.w.varint(0); err != nil {
		return false, err
	}
	enc.seen[identity] = enc.w.offset()
	return true, nil
}

func (enc *encoder) value(t types.Type, v values.Value) error {
	switch x := t.(type) {
	case *types.Recursive:
		enc.recStack = append(enc.recStack, x.Inner)
		err := enc.value(x.Inner, v)
		enc.recStack = enc.recStack[:len(enc.recStack)-1]
		return err
	case *types.RecursiveRef:
		if x.Depth <= 0 || x.Depth > len(enc.recStack) {
			return fmt.Errorf("beast2: RecursiveRef depth %d out of range", x.Depth)
		}
		return enc.value(enc.recStack[len(enc.recStack)-x.Depth], v)
	case *types.Array:
		arr := v.(*values.Array)
		first, err := enc.container(arr)
		if err != nil || !first {
			return err
		}
		if err := enc.w.varint(uint64(len(arr.Elements))); err != nil {
			return err
		}
		for _, item := range arr.Elements {
			if err := enc.value(x.Elem, item); err != nil {
				return err
			}
		}
		return nil
	case *types.Set:
		s := v.(*values.Set)
		first, err := enc.container(s)
		if err != nil || !first {
			return err
		}
		if err := enc.w.varint(uint64(len(s.Order))); err != nil {
			return err
		}
		for _, key := range s.Order {
			if err := enc.value(x.Key, key); err != nil {
				return err
			}
		}
		return nil
	case *types.Dict:
		d := v.(*values.Dict)
		first, err := enc.container(d)
		if err != nil || !first {
			return err
		}
		if err := enc.w.varint(uint64(len(d.Order))); err != nil {
			return err
		}
		for i, key := range d.Order {
			if err := enc.value(x.Key, key); err != nil {
				return err
			}
			if err := enc.value(x.Value, d.Vals[i]); err != nil {
				return err
			}
		}
		return nil
	case *types.Ref:
		ref := v.(*values.Ref)
		first, err := enc.container(ref)
		if err != nil || !first {
			return err
		}
		return enc.value(x.Inner, ref.Slot)
	case *types.Struct:
		s := v.(*values.Struct)
		for i, f := range x.Fields {
			if err := enc.value(f.Type, s.Fields[i]); err != nil {
				return err
			}
		}
		return nil
	case *types.Variant:
		variant := v.(*values.Variant)
		idx := x.CaseIndex(variant.Case)
		if idx < 0 {
			return fmt.Errorf("beast2: variant case %q is not a member of its type", variant.Case)
		}
		if err := enc.w.varint(uint64(idx)); err != nil {
			return err
		}
		return enc.value(x.Cases[idx].Type, variant.Inner)
	case *types.Function:
		return enc.function(v)
	case *types.AsyncFunction:
		return enc.function(v)
	}
	switch t.Kind() {
	case types.KindNull:
		return nil
	case types.KindBoolean:
		b := uint64(0)
		if bool(v.(values.Boolean)) {
			b = 1
		}
		return enc.w.varint(b)
	case types.KindInteger:
		return enc.w.zigzag(int64(v.(values.Integer)))
	case types.KindFloat:
		f := float64(v.(values.Float))
		bits := math.Float64bits(f)
		if math.IsNaN(f) {
			bits = canonicalNaN
		}
		return enc.w.fixed64(bits)
	case types.KindString:
		return enc.w.stringBytes(string(v.(values.String)))
	case types.KindDateTime:
		return enc.w.zigzag(int64(v.(values.DateTime)))
	case types.KindBlob:
		return enc.w.rawBytes([]byte(v.(values.Blob)))
	default:
		return fmt.Errorf("beast2: cannot encode a value of type %s", t.Kind())
	}
}

// decoder is the read-side mirror of encoder: it preallocates each
// container the moment its inline marker is seen, and registers it
// under the stream offset immediately following that marker, before
// recursing into children -- so a container that aliases itself (a
// cyclic Ref/Array/Set/Dict graph) resolves its own backreference
// against an already-live instance instead of looping forever.
type decoder struct {
	r        *reader
	seen     map[int]values.Value
	recStack []types.Type
	log      hclog.Logger
	bindings *platform.Bindings
}

func newDecoder(data []byte, bindings *platform.Bindings, log hclog.Logger) *decoder {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &decoder{r: newReader(data), seen: make(map[int]values.Value), bindings: bindings, log: log}
}

func (dec *decoder) container(preallocate func() values.Value) (container values.Value, firstTime bool, err error) {
	before := dec.r.offset()
	k, err := dec.r.varint()
	if err != nil {
		return nil, false, err
	}
	if k == 0 {
		c := preallocate()
		dec.seen[dec.r.offset()] = c
		return c, true, nil
	}
	target := before - int(k)
	c, ok := dec.seen[target]
	if !ok {
		return nil, false, fmt.Errorf("beast2: undefined backreference to offset %d", target)
	}
	dec.log.Trace("beast2: resolved container backreference", "target", target)
	return c, false, nil
}

func (dec *decoder) value(t types.Type) (values.Value, error) {
	switch x := t.(type) {
	case *types.Recursive:
		dec.recStack = append(dec.recStack, x.Inner)
		v, err := dec.value(x.Inner)
		dec.recStack = dec.recStack[:len(dec.recStack)-1]
		return v, err
	case *types.RecursiveRef:
		if x.Depth <= 0 || x.Depth > len(dec.recStack) {
			return nil, fmt.Errorf("beast2: RecursiveRef depth %d out of range", x.Depth)
		}
		return dec.value(dec.recStack[len(dec.recStack)-x.Depth])
	case *types.Array:
		c, isNew, err := dec.container(func() values.Value { return values.NewArray(x.Elem) })
		if err != nil {
			return nil, err
		}
		arr := c.(*values.Array)
		if !isNew {
			return arr, nil
		}
		n, err := dec.r.varint()
		if err != nil {
			return nil, err
		}
		arr.Elements = make([]values.Value, 0, n)
		for i := uint64(0); i < n; i++ {
			item, err := dec.value(x.Elem)
			if err != nil {
				return nil, err
			}
			arr.Elements = append(arr.Elements, item)
		}
		return arr, nil
	case *types.Set:
		c, isNew, err := dec.container(func() values.Value { return values.NewSet(x.Key) })
		if err != nil {
			return nil, err
		}
		s := c.(*values.Set)
		if !isNew {
			return s, nil
		}
		n, err := dec.r.varint()
		if err != nil {
			return nil, err
		}
		for i := uint64(0); i < n; i++ {
			key, err := dec.value(x.Key)
			if err != nil {
				return nil, err
			}
			if _, err := s.Insert(key); err != nil {
				return nil, err
			}
		}
		return s, nil
	case *types.Dict:
		c, isNew, err := dec.container(func() values.Value { return values.NewDict(x.Key, x.Value) })
		if err != nil {
			return nil, err
		}
		d := c.(*values.Dict)
		if !isNew {
			return d, nil
		}
		n, err := dec.r.varint()
		if err != nil {
			return nil, err
		}
		for i := uint64(0); i < n; i++ {
			key, err := dec.value(x.Key)
			if err != nil {
				return nil, err
			}
			val, err := dec.value(x.Value)
			if err != nil {
				return nil, err
			}
			if _, err := d.Insert(key, val); err != nil {
				return nil, err
			}
		}
		return d, nil
	case *types.Ref:
		c, isNew, err := dec.container(func() values.Value { return values.NewRef(x.Inner, values.ZeroValue(x.Inner)) })
		if err != nil {
			return nil, err
		}
		ref := c.(*values.Ref)
		if !isNew {
			return ref, nil
		}
		inner, err := dec.value(x.Inner)
		if err != nil {
			return nil, err
		}
		ref.Slot = inner
		return ref, nil
	case *types.Struct:
		fields := make([]values.Value, len(x.Fields))
		for i, f := range x.Fields {
			v, err := dec.value(f.Type)
			if err != nil {
				return nil, err
			}
			fields[i] = v
		}
		return values.NewStruct(x, fields...), nil
	case *types.Variant:
		tag, err := dec.r.varint()
		if err != nil {
			return nil, err
		}
		if tag >= uint64(len(x.Cases)) {
			return nil, fmt.Errorf("beast2: variant tag %d out of range for %d case(s)", tag, len(x.Cases))
		}
		c := x.Cases[tag]
		inner, err := dec.value(c.Type)
		if err != nil {
			return nil, err
		}
		return values.NewVariant(x, c.Name, inner), nil
	case *types.Function:
		return dec.function(x)
	case *types.AsyncFunction:
		return dec.function(x)
	}
	switch t.Kind() {
	case types.KindNull:
		return values.Null{}, nil
	case types.KindBoolean:
		b, err := dec.r.varint()
		if err != nil {
			return nil, err
		}
		return values.Boolean(b != 0), nil
	case types.KindInteger:
		i, err := dec.r.zigzag()
		if err != nil {
			return nil, err
		}
		return values.Integer(i), nil
	case types.KindFloat:
		bits, err := dec.r.fixed64()
		if err != nil {
			return nil, err
		}
		f := math.Float64frombits(bits)
		if math.IsNaN(f) && bits != canonicalNaN {
			return nil, fmt.Errorf("beast2: non-canonical NaN bit pattern %#016x", bits)
		}
		return values.Float(f), nil
	case types.KindString:
		s, err := dec.r.stringBytes()
		if err != nil {
			return nil, err
		}
		return values.String(s), nil
	case types.KindDateTime:
		i, err := dec.r.zigzag()
		if err != nil {
			return nil, err
		}
		return values.DateTime(i), nil
	case types.KindBlob:
		b, err := dec.r.lengthPrefixed()
		if err != nil {
			return nil, err
		}
		return values.Blob(b), nil
	default:
		return nil, fmt.Errorf("beast2: cannot decode a value of type %s", t.Kind())
	}
}
