// Package buffer implements the low-level helpers used by the binary
// serialization of shares and share containers. All integers are written
// big-endian; every helper returns the number of bytes moved so that
// io.WriterTo / io.ReaderFrom implementations can accumulate counts.
package buffer

import (
	"encoding/binary"
	"fmt"
	"io"
)

// WriteUint64 writes v on w as 8 big-endian bytes.
func WriteUint64(w io.Writer, v uint64) (n int64, err error) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	m, err := w.Write(buf[:])
	return int64(m), err
}

// ReadUint64 reads 8 big-endian bytes from r into *v.
func ReadUint64(r io.Reader, v *uint64) (n int64, err error) {
	var buf [8]byte
	m, err := io.ReadFull(r, buf[:])
	if err != nil {
		return int64(m), err
	}
	*v = binary.BigEndian.Uint64(buf[:])
	return int64(m), nil
}

// WriteAsUint64 writes an integer of any integer type as uint64.
func WriteAsUint64[T ~int | ~int64 | ~uint | ~uint64](w io.Writer, v T) (int64, error) {
	return WriteUint64(w, uint64(v))
}

// ReadAsUint64 reads a uint64 into an integer of any integer type.
func ReadAsUint64[T ~int | ~int64 | ~uint | ~uint64](r io.Reader, v *T) (int64, error) {
	var u uint64
	n, err := ReadUint64(r, &u)
	*v = T(u)
	return n, err
}

// WriteUint8 writes a single byte on w.
func WriteUint8(w io.Writer, v uint8) (n int64, err error) {
	m, err := w.Write([]byte{v})
	return int64(m), err
}

// ReadUint8 reads a single byte from r into *v.
func ReadUint8(r io.Reader, v *uint8) (n int64, err error) {
	var buf [1]byte
	m, err := io.ReadFull(r, buf[:])
	if err != nil {
		return int64(m), err
	}
	*v = buf[0]
	return int64(m), nil
}

// Write writes p on w in full.
func Write(w io.Writer, p []byte) (n int64, err error) {
	m, err := w.Write(p)
	if err == nil && m != len(p) {
		err = io.ErrShortWrite
	}
	return int64(m), err
}

// Read fills p from r in full.
func Read(r io.Reader, p []byte) (n int64, err error) {
	m, err := io.ReadFull(r, p)
	return int64(m), err
}

// WriteString writes a length-prefixed string on w.
func WriteString(w io.Writer, s string) (n int64, err error) {
	if n, err = WriteUint64(w, uint64(len(s))); err != nil {
		return n, fmt.Errorf("buffer.WriteUint64: %w", err)
	}
	var inc int64
	inc, err = Write(w, []byte(s))
	return n + inc, err
}

// ReadString reads a length-prefixed string from r.
func ReadString(r io.Reader, s *string) (n int64, err error) {
	var size uint64
	if n, err = ReadUint64(r, &size); err != nil {
		return n, fmt.Errorf("buffer.ReadUint64: %w", err)
	}
	buf := make([]byte, size)
	var inc int64
	if inc, err = Read(r, buf); err != nil {
		return n + inc, err
	}
	*s = string(buf)
	return n + inc, nil
}
