package beast2

import "testing"

func TestWriterReaderVarintRoundTrip(t *testing.T) {
	w := newWriter()
	vals := []uint64{0, 1, 127, 128, 300, 1 << 40}
	for _, v := range vals {
		if err := w.varint(v); err != nil {
			t.Fatalf("varint(%d): %v", v, err)
		}
	}
	r := newReader(w.bytes())
	for _, want := range vals {
		got, err := r.varint()
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got != want {
			t.Fatalf("got %d, want %d", got, want)
		}
	}
	if r.remaining() != 0 {
		t.Fatalf("expected stream exhausted, %d byte(s) remaining", r.remaining())
	}
}

func TestReaderVarintTruncated(t *testing.T) {
	r := newReader([]byte{0x80, 0x80})
	if _, err := r.varint(); err == nil {
		t.Fatal("expected truncated varint error")
	}
}

func TestWriterReaderZigzagRoundTrip(t *testing.T) {
	w := newWriter()
	vals := []int64{0, -1, 1, -1000000, 1000000}
	for _, v := range vals {
		if err := w.zigzag(v); err != nil {
			t.Fatalf("zigzag(%d): %v", v, err)
		}
	}
	r := newReader(w.bytes())
	for _, want := range vals {
		got, err := r.zigzag()
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got != want {
			t.Fatalf("got %d, want %d", got, want)
		}
	}
}

func TestWriterReaderFixed64RoundTrip(t *testing.T) {
	w := newWriter()
	if err := w.fixed64(0x0123456789abcdef); err != nil {
		t.Fatal(err)
	}
	r := newReader(w.bytes())
	got, err := r.fixed64()
	if err != nil {
		t.Fatal(err)
	}
	if got != 0x0123456789abcdef {
		t.Fatalf("got %#x", got)
	}
}

func TestReaderFixed64Truncated(t *testing.T) {
	r := newReader([]byte{1, 2, 3})
	if _, err := r.fixed64(); err == nil {
		t.Fatal("expected truncated fixed64 error")
	}
}

func TestWriterReaderStringBytesRoundTrip(t *testing.T) {
	w := newWriter()
	if err := w.stringBytes("hello, east"); err != nil {
		t.Fatal(err)
	}
	r := newReader(w.bytes())
	got, err := r.stringBytes()
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello, east" {
		t.Fatalf("got %q", got)
	}
}

func TestReaderRawBytesTruncated(t *testing.T) {
	r := newReader([]byte{1, 2})
	if _, err := r.rawBytes(5); err == nil {
		t.Fatal("expected truncated byte sequence error")
	}
}
