package shamir

import (
	"fmt"
	"io"

	"github.com/SuccinctPaul/collaborative-circom/curve"
	"github.com/SuccinctPaul/collaborative-circom/mpc"
	"github.com/SuccinctPaul/collaborative-circom/utils/buffer"
)

// WriteShareVector writes sv on w.
func WriteShareVector[E any, pE curve.Element[E]](w io.Writer, sv *ShareVector[E]) (n int64, err error) {
	if n, err = buffer.WriteUint64(w, sv.Index); err != nil {
		return n, fmt.Errorf("buffer.WriteUint64: %w", err)
	}
	var inc int64
	inc, err = curve.WriteVector[E, pE](w, sv.Values)
	return n + inc, err
}

// ReadShareVector reads a share vector from r. Malformed data surfaces
// as a Parse error.
func ReadShareVector[E any, pE curve.Element[E]](r io.Reader) (sv *ShareVector[E], n int64, err error) {
	sv = &ShareVector[E]{}
	if n, err = buffer.ReadUint64(r, &sv.Index); err != nil {
		return nil, n, mpc.Wrap(mpc.Parse, err, "while reading share index")
	}
	if sv.Index == 0 {
		return nil, n, mpc.Errorf(mpc.Parse, "invalid share index 0")
	}
	var inc int64
	if sv.Values, inc, err = curve.ReadVector[E, pE](r); err != nil {
		return nil, n + inc, mpc.Wrap(mpc.Parse, err, "while reading share values")
	}
	return sv, n + inc, nil
}

// Equal performs a deep equal of two share vectors.
func Equal[E any, pE curve.Element[E]](a, b *ShareVector[E]) bool {
	return a.Index == b.Index && curve.EqualVector[E, pE](a.Values, b.Values)
}
