package curve

import (
	"fmt"
	"io"

	"github.com/SuccinctPaul/collaborative-circom/utils/buffer"
)

// WriteElement writes one scalar on w in its fixed-size big-endian form.
func WriteElement[E any, pE Element[E]](w io.Writer, e *E) (int64, error) {
	return buffer.Write(w, pE(e).Marshal())
}

// ReadElement reads one fixed-size big-endian scalar from r into *e.
func ReadElement[E any, pE Element[E]](r io.Reader, e *E) (int64, error) {
	buf := make([]byte, Bytes[E, pE]())
	n, err := buffer.Read(r, buf)
	if err != nil {
		return n, err
	}
	pE(e).SetBytes(buf)
	return n, nil
}

// WriteVector writes a length-prefixed vector of scalars on w.
func WriteVector[E any, pE Element[E]](w io.Writer, v []E) (n int64, err error) {
	if n, err = buffer.WriteAsUint64(w, len(v)); err != nil {
		return n, fmt.Errorf("buffer.WriteAsUint64: %w", err)
	}
	var inc int64
	for i := range v {
		if inc, err = WriteElement[E, pE](w, &v[i]); err != nil {
			return n + inc, fmt.Errorf("curve.WriteElement: %w", err)
		}
		n += inc
	}
	return n, nil
}

// ReadVector reads a length-prefixed vector of scalars from r.
func ReadVector[E any, pE Element[E]](r io.Reader) (v []E, n int64, err error) {
	var size uint64
	if n, err = buffer.ReadUint64(r, &size); err != nil {
		return nil, n, fmt.Errorf("buffer.ReadUint64: %w", err)
	}
	v = make([]E, size)
	var inc int64
	for i := range v {
		if inc, err = ReadElement[E, pE](r, &v[i]); err != nil {
			return nil, n + inc, fmt.Errorf("curve.ReadElement: %w", err)
		}
		n += inc
	}
	return v, n, nil
}

// EqualVector performs a deep equal of two scalar vectors.
func EqualVector[E any, pE Element[E]](a, b []E) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !pE(&a[i]).Equal(&b[i]) {
			return false
		}
	}
	return true
}
