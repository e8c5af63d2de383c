// Package witness implements the shared containers produced and
// consumed by the collaborative proving pipeline: secret-shared
// witnesses and secret-shared input files, their merge operation and
// their file formats. Positional correspondence between cleartext and
// shared vectors is preserved by every transform in this package.
package witness

import (
	"fmt"
	"io"

	"github.com/SuccinctPaul/collaborative-circom/curve"
	"github.com/SuccinctPaul/collaborative-circom/mpc"
	"github.com/SuccinctPaul/collaborative-circom/mpc/rep3"
	"github.com/SuccinctPaul/collaborative-circom/mpc/shamir"
	"github.com/SuccinctPaul/collaborative-circom/utils/prng"
)

// SharedWitness is one party's view of a secret-shared extended witness.
// PublicInputs holds the first numInputs witness elements in the clear
// (element 0 is the constant 1); Witness holds the party's shares of the
// remaining elements, W being the scheme's share-vector type.
type SharedWitness[E any, W any] struct {
	PublicInputs []E
	Witness      W
}

// SplitWitnessRep3 splits an extended witness into the three replicated
// shares. The first numInputs elements stay public and are copied
// verbatim into every party's container; the remainder is shared.
func SplitWitnessRep3[E any, pE curve.Element[E]](wit []E, numInputs int, src *prng.Source, seeded, additive bool) ([mpc.Rep3NumParties]*SharedWitness[E, *rep3.ShareVector[E]], error) {
	var out [mpc.Rep3NumParties]*SharedWitness[E, *rep3.ShareVector[E]]

	public, secret, err := splitPublic(wit, numInputs)
	if err != nil {
		return out, err
	}

	shares := rep3.Share[E, pE](secret, src, seeded, additive)
	for i := range out {
		out[i] = &SharedWitness[E, *rep3.ShareVector[E]]{
			PublicInputs: clone(public),
			Witness:      shares[i],
		}
	}
	return out, nil
}

// SplitWitnessShamir splits an extended witness into n Shamir shares
// with threshold t.
func SplitWitnessShamir[E any, pE curve.Element[E]](wit []E, numInputs, t, n int, src *prng.Source) ([]*SharedWitness[E, *shamir.ShareVector[E]], error) {
	public, secret, err := splitPublic(wit, numInputs)
	if err != nil {
		return nil, err
	}

	shares, err := shamir.Share[E, pE](secret, t, n, src)
	if err != nil {
		return nil, err
	}

	out := make([]*SharedWitness[E, *shamir.ShareVector[E]], n)
	for i := range out {
		out[i] = &SharedWitness[E, *shamir.ShareVector[E]]{
			PublicInputs: clone(public),
			Witness:      shares[i],
		}
	}
	return out, nil
}

func splitPublic[E any](wit []E, numInputs int) (public, secret []E, err error) {
	if numInputs < 1 || numInputs > len(wit) {
		return nil, nil, mpc.Errorf(mpc.Config, "witness has %d elements, cannot keep %d public", len(wit), numInputs)
	}
	return wit[:numInputs], wit[numInputs:], nil
}

func clone[E any](v []E) []E {
	out := make([]E, len(v))
	copy(out, v)
	return out
}

// ShareWriter writes one scheme-specific share vector.
type ShareWriter[W any] func(io.Writer, W) (int64, error)

// ShareReader reads one scheme-specific share vector.
type ShareReader[W any] func(io.Reader) (W, int64, error)

// WriteSharedWitness writes the container on w in the binary share-file
// format; decoding with [ReadSharedWitness] reproduces it bit-for-bit.
func WriteSharedWitness[E any, pE curve.Element[E], W any](w io.Writer, sw *SharedWitness[E, W], writeShare ShareWriter[W]) (n int64, err error) {
	if n, err = curve.WriteVector[E, pE](w, sw.PublicInputs); err != nil {
		return n, fmt.Errorf("curve.WriteVector: %w", err)
	}
	var inc int64
	inc, err = writeShare(w, sw.Witness)
	return n + inc, err
}

// ReadSharedWitness reads a container written by [WriteSharedWitness].
func ReadSharedWitness[E any, pE curve.Element[E], W any](r io.Reader, readShare ShareReader[W]) (sw *SharedWitness[E, W], n int64, err error) {
	sw = &SharedWitness[E, W]{}
	if sw.PublicInputs, n, err = curve.ReadVector[E, pE](r); err != nil {
		return nil, n, mpc.Wrap(mpc.Parse, err, "while reading public inputs")
	}
	var inc int64
	if sw.Witness, inc, err = readShare(r); err != nil {
		return nil, n + inc, mpc.Wrap(mpc.Parse, err, "while reading witness share")
	}
	return sw, n + inc, nil
}
