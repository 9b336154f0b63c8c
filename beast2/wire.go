// Package beast2 implements the BEAST2 binary codec (component G): a
// self-describing format that serializes a type schema followed by a
// value of that type, preserving mutable-container aliasing via
// byte-offset backreferences (spec §4.E).
package beast2

import (
	"encoding/binary"
	"fmt"

	"github.com/golang/protobuf/proto"
)

// magic is the 8-byte header every BEAST2 stream opens with: an
// invalid-UTF8 marker byte, an ASCII tag, a CRLF corruption tripwire,
// and a version byte.
var magic = [8]byte{0x89, 'E', 'a', 's', 't', 0x0D, 0x0A, 0x01}

// writer accumulates an encode in progress. Primitive writes delegate
// to a proto.Buffer the same way core/data/pack/writer.go leans on it
// for LEB128/zigzag framing; offset() reports the total bytes written
// so far, which is all the backreference bookkeeping in value.go
// needs from the write side.
type writer struct {
	buf *proto.Buffer
}

func newWriter() *writer {
	return &writer{buf: proto.NewBuffer(nil)}
}

func (w *writer) offset() int { return len(w.buf.Bytes()) }

func (w *writer) bytes() []byte { return w.buf.Bytes() }

func (w *writer) varint(x uint64) error {
	return w.buf.EncodeVarint(x)
}

func (w *writer) zigzag(v int64) error {
	return w.buf.EncodeZigzag64(uint64(v))
}

func (w *writer) fixed64(bits uint64) error {
	return w.buf.EncodeFixed64(bits)
}

func (w *writer) rawBytes(b []byte) error {
	return w.buf.EncodeRawBytes(b)
}

func (w *writer) stringBytes(s string) error {
	return w.buf.EncodeStringBytes(s)
}

// reader walks a decode in progress. Its cursor is tracked by hand
// (pos) rather than through a proto.Buffer, because backreference
// resolution needs an exact byte offset at arbitrary points and
// proto.Buffer's decode cursor is not exposed through its public API.
// The varint/zigzag math mirrors proto.Buffer's own
// EncodeVarint/EncodeZigzag64 exactly, so a stream this package writes
// and a stream it reads agree byte-for-byte.
type reader struct {
	data []byte
	pos  int
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) offset() int { return r.pos }

func (r *reader) remaining() int { return len(r.data) - r.pos }

func (r *reader) varint() (uint64, error) {
	var x uint64
	var shift uint
	for {
		if r.pos >= len(r.data) {
			return 0, fmt.Errorf("beast2: truncated varint")
		}
		b := r.data[r.pos]
		r.pos++
		x |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return x, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, fmt.Errorf("beast2: varint overflows 64 bits")
		}
	}
}

func (r *reader) zigzag() (int64, error) {
	u, err := r.varint()
	if err != nil {
		return 0, err
	}
	return int64(u>>1) ^ -int64(u&1), nil
}

func (r *reader) fixed64() (uint64, error) {
	if r.remaining() < 8 {
		return 0, fmt.Errorf("beast2: truncated fixed64")
	}
	v := binary.LittleEndian.Uint64(r.data[r.pos : r.pos+8])
	r.pos += 8
	return v, nil
}

func (r *reader) rawBytes(n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, fmt.Errorf("beast2: truncated byte sequence of length %d", n)
	}
	out := make([]byte, n)
	copy(out, r.data[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

func (r *reader) lengthPrefixed() ([]byte, error) {
	n, err := r.varint()
	if err != nil {
		return nil, err
	}
	return r.rawBytes(int(n))
}

func (r *reader) stringBytes() (string, error) {
	b, err := r.lengthPrefixed()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

