package rep3

import (
	"fmt"
	"io"

	"github.com/SuccinctPaul/collaborative-circom/curve"
	"github.com/SuccinctPaul/collaborative-circom/mpc"
	"github.com/SuccinctPaul/collaborative-circom/utils/buffer"
	"github.com/SuccinctPaul/collaborative-circom/utils/prng"
)

const (
	componentSeeded   = 0
	componentExplicit = 1

	flagAdditive = 1
)

// WriteShareVector writes sv on w. Seeded components are written as
// their 32-byte seed, so a seeded share file stays small regardless of
// the vector length.
func WriteShareVector[E any, pE curve.Element[E]](w io.Writer, sv *ShareVector[E]) (n int64, err error) {
	var inc int64

	if n, err = buffer.WriteUint8(w, uint8(sv.ID)); err != nil {
		return n, fmt.Errorf("buffer.WriteUint8: %w", err)
	}

	var flags uint8
	if sv.Additive() {
		flags |= flagAdditive
	}
	if inc, err = buffer.WriteUint8(w, flags); err != nil {
		return n + inc, fmt.Errorf("buffer.WriteUint8: %w", err)
	}
	n += inc

	if inc, err = buffer.WriteAsUint64(w, sv.N); err != nil {
		return n + inc, fmt.Errorf("buffer.WriteAsUint64: %w", err)
	}
	n += inc

	if inc, err = writeComponent[E, pE](w, &sv.A); err != nil {
		return n + inc, err
	}
	n += inc

	if sv.B != nil {
		if inc, err = writeComponent[E, pE](w, sv.B); err != nil {
			return n + inc, err
		}
		n += inc
	}
	return n, nil
}

// ReadShareVector reads a share vector from r. Malformed data surfaces
// as a Parse error.
func ReadShareVector[E any, pE curve.Element[E]](r io.Reader) (sv *ShareVector[E], n int64, err error) {
	var inc int64
	var id, flags uint8

	if n, err = buffer.ReadUint8(r, &id); err != nil {
		return nil, n, mpc.Wrap(mpc.Parse, err, "while reading share party id")
	}
	if id >= mpc.Rep3NumParties {
		return nil, n, mpc.Errorf(mpc.Parse, "invalid REP3 party id %d", id)
	}

	if inc, err = buffer.ReadUint8(r, &flags); err != nil {
		return nil, n + inc, mpc.Wrap(mpc.Parse, err, "while reading share flags")
	}
	n += inc

	sv = &ShareVector[E]{ID: PartyID(id)}

	if inc, err = buffer.ReadAsUint64(r, &sv.N); err != nil {
		return nil, n + inc, mpc.Wrap(mpc.Parse, err, "while reading share length")
	}
	n += inc

	if inc, err = readComponent[E, pE](r, &sv.A, sv.N); err != nil {
		return nil, n + inc, err
	}
	n += inc

	if flags&flagAdditive == 0 {
		sv.B = &Component[E]{}
		if inc, err = readComponent[E, pE](r, sv.B, sv.N); err != nil {
			return nil, n + inc, err
		}
		n += inc
	}
	return sv, n, nil
}

func writeComponent[E any, pE curve.Element[E]](w io.Writer, c *Component[E]) (n int64, err error) {
	var inc int64
	if c.Seed != nil {
		if n, err = buffer.WriteUint8(w, componentSeeded); err != nil {
			return n, fmt.Errorf("buffer.WriteUint8: %w", err)
		}
		inc, err = buffer.Write(w, c.Seed[:])
		return n + inc, err
	}

	if n, err = buffer.WriteUint8(w, componentExplicit); err != nil {
		return n, fmt.Errorf("buffer.WriteUint8: %w", err)
	}
	for i := range c.Elements {
		if inc, err = curve.WriteElement[E, pE](w, &c.Elements[i]); err != nil {
			return n + inc, fmt.Errorf("curve.WriteElement: %w", err)
		}
		n += inc
	}
	return n, nil
}

func readComponent[E any, pE curve.Element[E]](r io.Reader, c *Component[E], size int) (n int64, err error) {
	var inc int64
	var tag uint8
	if n, err = buffer.ReadUint8(r, &tag); err != nil {
		return n, mpc.Wrap(mpc.Parse, err, "while reading component tag")
	}

	switch tag {
	case componentSeeded:
		var seed prng.Seed
		if inc, err = buffer.Read(r, seed[:]); err != nil {
			return n + inc, mpc.Wrap(mpc.Parse, err, "while reading component seed")
		}
		c.Seed = &seed
		return n + inc, nil
	case componentExplicit:
		c.Elements = make([]E, size)
		for i := range c.Elements {
			if inc, err = curve.ReadElement[E, pE](r, &c.Elements[i]); err != nil {
				return n + inc, mpc.Wrap(mpc.Parse, err, "while reading component elements")
			}
			n += inc
		}
		return n, nil
	default:
		return n, mpc.Errorf(mpc.Parse, "invalid component tag %d", tag)
	}
}

// Equal performs a deep equal of two share vectors without expanding
// seeded components.
func Equal[E any, pE curve.Element[E]](a, b *ShareVector[E]) bool {
	if a.ID != b.ID || a.N != b.N || a.Additive() != b.Additive() {
		return false
	}
	if !equalComponent[E, pE](&a.A, &b.A) {
		return false
	}
	if a.B != nil && !equalComponent[E, pE](a.B, b.B) {
		return false
	}
	return true
}

func equalComponent[E any, pE curve.Element[E]](a, b *Component[E]) bool {
	if (a.Seed == nil) != (b.Seed == nil) {
		return false
	}
	if a.Seed != nil && *a.Seed != *b.Seed {
		return false
	}
	if (a.Elements == nil) != (b.Elements == nil) {
		return false
	}
	return a.Elements == nil || curve.EqualVector[E, pE](a.Elements, b.Elements)
}
