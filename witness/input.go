package witness

import (
	"fmt"
	"io"
	"slices"

	"golang.org/x/exp/maps"

	"github.com/SuccinctPaul/collaborative-circom/curve"
	"github.com/SuccinctPaul/collaborative-circom/mpc"
	"github.com/SuccinctPaul/collaborative-circom/mpc/rep3"
	"github.com/SuccinctPaul/collaborative-circom/utils/buffer"
	"github.com/SuccinctPaul/collaborative-circom/utils/prng"
)

// SharedInput is one party's view of a secret-shared circuit input.
// Keys are circuit input-signal names; a name is either wholly public
// (its values appear in PublicInputs, in the clear, identically for
// every party) or wholly secret (its values appear as the party's share
// in SharedInputs), never both.
type SharedInput[E any, W any] struct {
	PublicInputs map[string][]E
	SharedInputs map[string]W
}

// NewSharedInput returns an empty container.
func NewSharedInput[E any, W any]() *SharedInput[E, W] {
	return &SharedInput[E, W]{
		PublicInputs: map[string][]E{},
		SharedInputs: map[string]W{},
	}
}

// SplitInput splits a parsed input file into the three replicated input
// shares. Signals named in publicNames are copied verbatim into every
// party's PublicInputs and never leave the clear; every other signal is
// secret-shared under REP3. Every public name must exist in inputs, so
// that a misspelled name cannot silently secret-share a signal the
// owner meant to keep public.
func SplitInput[E any, pE curve.Element[E]](inputs map[string][]E, publicNames []string, src *prng.Source, seeded, additive bool) ([mpc.Rep3NumParties]*SharedInput[E, *rep3.ShareVector[E]], error) {
	var out [mpc.Rep3NumParties]*SharedInput[E, *rep3.ShareVector[E]]
	for _, name := range publicNames {
		if _, ok := inputs[name]; !ok {
			return out, mpc.Errorf(mpc.Config, "public input %q does not name an input signal", name)
		}
	}
	for i := range out {
		out[i] = NewSharedInput[E, *rep3.ShareVector[E]]()
	}

	// deterministic signal order, so that seeded runs are reproducible
	names := maps.Keys(inputs)
	slices.Sort(names)

	for _, name := range names {
		values := inputs[name]
		if slices.Contains(publicNames, name) {
			for i := range out {
				out[i].PublicInputs[name] = clone(values)
			}
			continue
		}
		shares := rep3.Share[E, pE](values, src, seeded, additive)
		for i := range out {
			out[i].SharedInputs[name] = shares[i]
		}
	}
	return out, nil
}

// Merge combines the input shares contributed by two independent input
// owners into one container. SharedInputs keys must be disjoint; public
// values present in both containers must agree. Merge is associative and
// commutative over pairwise key-disjoint inputs.
func Merge[E any, pE curve.Element[E], W any](a, b *SharedInput[E, W]) (*SharedInput[E, W], error) {
	merged := NewSharedInput[E, W]()

	for name, share := range a.SharedInputs {
		merged.SharedInputs[name] = share
	}
	for name, share := range b.SharedInputs {
		if _, ok := merged.SharedInputs[name]; ok {
			return nil, mpc.Errorf(mpc.Merge, "duplicate shared input %q", name)
		}
		merged.SharedInputs[name] = share
	}

	for name, values := range a.PublicInputs {
		merged.PublicInputs[name] = values
	}
	for name, values := range b.PublicInputs {
		if prev, ok := merged.PublicInputs[name]; ok {
			if !curve.EqualVector[E, pE](prev, values) {
				return nil, mpc.Errorf(mpc.Merge, "conflicting public input %q", name)
			}
			continue
		}
		merged.PublicInputs[name] = values
	}

	// a signal is wholly public or wholly secret, never both
	for name := range merged.PublicInputs {
		if _, ok := merged.SharedInputs[name]; ok {
			return nil, mpc.Errorf(mpc.Merge, "input %q is public in one share and secret in another", name)
		}
	}
	return merged, nil
}

// MergeAll folds an ordered list of at least two input shares with
// repeated pairwise [Merge]; given globally disjoint keys the result is
// independent of the fold order.
func MergeAll[E any, pE curve.Element[E], W any](inputs []*SharedInput[E, W]) (*SharedInput[E, W], error) {
	if len(inputs) < 2 {
		return nil, mpc.Errorf(mpc.Merge, "need at least two input shares to merge, got %d", len(inputs))
	}
	merged := inputs[0]
	var err error
	for _, next := range inputs[1:] {
		if merged, err = Merge[E, pE](merged, next); err != nil {
			return nil, mpc.Wrap(mpc.Merge, err, "while merging input shares")
		}
	}
	return merged, nil
}

// WriteSharedInput writes the container on w in the binary share-file
// format, with map keys in sorted order so that encoding is
// deterministic and round trips bit-for-bit.
func WriteSharedInput[E any, pE curve.Element[E], W any](w io.Writer, si *SharedInput[E, W], writeShare ShareWriter[W]) (n int64, err error) {
	var inc int64

	publicNames := maps.Keys(si.PublicInputs)
	slices.Sort(publicNames)
	if n, err = buffer.WriteAsUint64(w, len(publicNames)); err != nil {
		return n, fmt.Errorf("buffer.WriteAsUint64: %w", err)
	}
	for _, name := range publicNames {
		if inc, err = buffer.WriteString(w, name); err != nil {
			return n + inc, fmt.Errorf("buffer.WriteString: %w", err)
		}
		n += inc
		if inc, err = curve.WriteVector[E, pE](w, si.PublicInputs[name]); err != nil {
			return n + inc, fmt.Errorf("curve.WriteVector: %w", err)
		}
		n += inc
	}

	sharedNames := maps.Keys(si.SharedInputs)
	slices.Sort(sharedNames)
	if inc, err = buffer.WriteAsUint64(w, len(sharedNames)); err != nil {
		return n + inc, fmt.Errorf("buffer.WriteAsUint64: %w", err)
	}
	n += inc
	for _, name := range sharedNames {
		if inc, err = buffer.WriteString(w, name); err != nil {
			return n + inc, fmt.Errorf("buffer.WriteString: %w", err)
		}
		n += inc
		if inc, err = writeShare(w, si.SharedInputs[name]); err != nil {
			return n + inc, err
		}
		n += inc
	}
	return n, nil
}

// ReadSharedInput reads a container written by [WriteSharedInput].
func ReadSharedInput[E any, pE curve.Element[E], W any](r io.Reader, readShare ShareReader[W]) (si *SharedInput[E, W], n int64, err error) {
	si = NewSharedInput[E, W]()
	var inc int64

	var publicCount uint64
	if n, err = buffer.ReadUint64(r, &publicCount); err != nil {
		return nil, n, mpc.Wrap(mpc.Parse, err, "while reading public input count")
	}
	for range publicCount {
		var name string
		if inc, err = buffer.ReadString(r, &name); err != nil {
			return nil, n + inc, mpc.Wrap(mpc.Parse, err, "while reading public input name")
		}
		n += inc
		var values []E
		if values, inc, err = curve.ReadVector[E, pE](r); err != nil {
			return nil, n + inc, mpc.Wrap(mpc.Parse, err, "while reading public input values")
		}
		n += inc
		si.PublicInputs[name] = values
	}

	var sharedCount uint64
	if inc, err = buffer.ReadUint64(r, &sharedCount); err != nil {
		return nil, n + inc, mpc.Wrap(mpc.Parse, err, "while reading shared input count")
	}
	n += inc
	for range sharedCount {
		var name string
		if inc, err = buffer.ReadString(r, &name); err != nil {
			return nil, n + inc, mpc.Wrap(mpc.Parse, err, "while reading shared input name")
		}
		n += inc
		var share W
		if share, inc, err = readShare(r); err != nil {
			return nil, n + inc, mpc.Wrap(mpc.Parse, err, "while reading shared input values")
		}
		n += inc
		si.SharedInputs[name] = share
	}
	return si, n, nil
}
