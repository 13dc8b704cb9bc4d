// Package wire implements the compact binary encoding shared by the game
// protocol and world snapshots. There is no embedded schema: field order and
// enum variant order are the contract, so readers and writers must stay in
// lockstep.
//
// Encoding rules: unsigned integers, lengths, and enum tags are LEB128
// uvarints; signed coordinates are zigzag varints; float32 values are their
// IEEE-754 bits in little-endian order; strings and byte payloads are
// uvarint-length-prefixed; optional values are a presence byte followed by
// the value.
package wire

import (
	"encoding/binary"
	"errors"
	"math"
	"unicode/utf8"
)

var (
	// ErrUnexpectedEOF reports a truncated buffer.
	ErrUnexpectedEOF = errors.New("wire: unexpected end of input")
	// ErrInvalidData reports a structurally malformed value.
	ErrInvalidData = errors.New("wire: invalid data")
)

// Writer accumulates an encoded message. The zero value is ready to use.
type Writer struct {
	buf []byte
}

// Bytes returns the encoded buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len reports the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

func (w *Writer) Uvarint(v uint64) {
	w.buf = binary.AppendUvarint(w.buf, v)
}

func (w *Writer) Varint(v int64) {
	w.buf = binary.AppendVarint(w.buf, v)
}

func (w *Writer) Bool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

func (w *Writer) Float32(v float32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, math.Float32bits(v))
}

func (w *Writer) String(s string) {
	w.Uvarint(uint64(len(s)))
	w.buf = append(w.buf, s...)
}

// Blob writes a length-prefixed byte payload.
func (w *Writer) Blob(b []byte) {
	w.Uvarint(uint64(len(b)))
	w.buf = append(w.buf, b...)
}

// Raw appends bytes without a length prefix.
func (w *Writer) Raw(b []byte) {
	w.buf = append(w.buf, b...)
}

// Reader consumes an encoded buffer.
type Reader struct {
	buf []byte
	off int
}

// NewReader wraps data for decoding. The reader does not copy data.
func NewReader(data []byte) *Reader {
	return &Reader{buf: data}
}

// Remaining reports the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

func (r *Reader) Uvarint() (uint64, error) {
	v, n := binary.Uvarint(r.buf[r.off:])
	if n <= 0 {
		if n == 0 {
			return 0, ErrUnexpectedEOF
		}
		return 0, ErrInvalidData
	}
	r.off += n
	return v, nil
}

func (r *Reader) Varint() (int64, error) {
	v, n := binary.Varint(r.buf[r.off:])
	if n <= 0 {
		if n == 0 {
			return 0, ErrUnexpectedEOF
		}
		return 0, ErrInvalidData
	}
	r.off += n
	return v, nil
}

func (r *Reader) Bool() (bool, error) {
	if r.Remaining() < 1 {
		return false, ErrUnexpectedEOF
	}
	b := r.buf[r.off]
	r.off++
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, ErrInvalidData
	}
}

func (r *Reader) Float32() (float32, error) {
	if r.Remaining() < 4 {
		return 0, ErrUnexpectedEOF
	}
	bits := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return math.Float32frombits(bits), nil
}

func (r *Reader) String() (string, error) {
	b, err := r.Blob()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrInvalidData
	}
	return string(b), nil
}

// Blob reads a length-prefixed byte payload. The returned slice is a copy so
// callers may retain it past the reader's buffer.
func (r *Reader) Blob() ([]byte, error) {
	n, err := r.Uvarint()
	if err != nil {
		return nil, err
	}
	if n > uint64(r.Remaining()) {
		return nil, ErrUnexpectedEOF
	}
	out := make([]byte, n)
	copy(out, r.buf[r.off:r.off+int(n)])
	r.off += int(n)
	return out, nil
}

// Skip discards n bytes.
func (r *Reader) Skip(n int) error {
	if n < 0 || n > r.Remaining() {
		return ErrUnexpectedEOF
	}
	r.off += n
	return nil
}
