package wire

import (
	"errors"
	"testing"
)

func TestWriterLen(t *testing.T) {
	var w Writer
	if w.Len() != 0 {
		t.Fatalf("fresh writer should be empty, got %d", w.Len())
	}
	w.Uvarint(300)
	if w.Len() != 2 {
		t.Fatalf("uvarint 300 is two bytes, got %d", w.Len())
	}
	mark := w.Len()
	w.String("hej")
	if got := w.Len() - mark; got != 4 {
		t.Fatalf("length-prefixed string should add 4 bytes, got %d", got)
	}
	if w.Len() != len(w.Bytes()) {
		t.Fatalf("Len %d disagrees with Bytes %d", w.Len(), len(w.Bytes()))
	}
}

func TestUvarintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 1 << 32, 1<<64 - 1}
	var w Writer
	for _, v := range values {
		w.Uvarint(v)
	}

	r := NewReader(w.Bytes())
	for _, want := range values {
		got, err := r.Uvarint()
		if err != nil {
			t.Fatalf("read uvarint: %v", err)
		}
		if got != want {
			t.Fatalf("expected %d, got %d", want, got)
		}
	}
	if r.Remaining() != 0 {
		t.Fatalf("expected empty reader, %d bytes left", r.Remaining())
	}
}

func TestVarintRoundTrip(t *testing.T) {
	values := []int64{0, -1, 1, 63, -64, 2000, -2000, 1 << 40, -(1 << 40)}
	var w Writer
	for _, v := range values {
		w.Varint(v)
	}

	r := NewReader(w.Bytes())
	for _, want := range values {
		got, err := r.Varint()
		if err != nil {
			t.Fatalf("read varint: %v", err)
		}
		if got != want {
			t.Fatalf("expected %d, got %d", want, got)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	var w Writer
	w.String("hello")
	w.String("")
	w.String("héllo wörld")

	r := NewReader(w.Bytes())
	for _, want := range []string{"hello", "", "héllo wörld"} {
		got, err := r.String()
		if err != nil {
			t.Fatalf("read string: %v", err)
		}
		if got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}

func TestStringRejectsInvalidUTF8(t *testing.T) {
	var w Writer
	w.Uvarint(2)
	w.Raw([]byte{0xff, 0xfe})

	r := NewReader(w.Bytes())
	if _, err := r.String(); !errors.Is(err, ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData, got %v", err)
	}
}

func TestFloat32RoundTrip(t *testing.T) {
	values := []float32{0, 1.5, -2.75, 1e30, -1e-30}
	var w Writer
	for _, v := range values {
		w.Float32(v)
	}

	r := NewReader(w.Bytes())
	for _, want := range values {
		got, err := r.Float32()
		if err != nil {
			t.Fatalf("read float32: %v", err)
		}
		if got != want {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestBlobRoundTripAndCopy(t *testing.T) {
	payload := []byte{1, 2, 3, 4}
	var w Writer
	w.Blob(payload)

	data := w.Bytes()
	r := NewReader(data)
	got, err := r.Blob()
	if err != nil {
		t.Fatalf("read blob: %v", err)
	}
	if len(got) != len(payload) {
		t.Fatalf("expected %d bytes, got %d", len(payload), len(got))
	}

	// The blob must be a copy, not a view into the buffer.
	data[len(data)-1] = 99
	if got[3] != 4 {
		t.Fatalf("blob aliases the source buffer")
	}
}

func TestTruncatedReadsFail(t *testing.T) {
	var w Writer
	w.Uvarint(300)
	data := w.Bytes()

	r := NewReader(data[:1])
	if _, err := r.Uvarint(); !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF, got %v", err)
	}

	r = NewReader(nil)
	if _, err := r.Bool(); !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF for empty bool, got %v", err)
	}
	if _, err := r.Float32(); !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF for empty float, got %v", err)
	}
}

func TestSkip(t *testing.T) {
	var w Writer
	w.Uvarint(1)
	w.Uvarint(2)
	w.Uvarint(3)

	r := NewReader(w.Bytes())
	if err := r.Skip(2); err != nil {
		t.Fatalf("skip: %v", err)
	}
	got, err := r.Uvarint()
	if err != nil {
		t.Fatalf("read after skip: %v", err)
	}
	if got != 3 {
		t.Fatalf("expected 3 after skip, got %d", got)
	}
	if err := r.Skip(1); !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF skipping past end, got %v", err)
	}
}
