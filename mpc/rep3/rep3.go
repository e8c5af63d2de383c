// Package rep3 implements the replicated 3-party secret-sharing scheme
// with corruption threshold 1. A secret s is decomposed into additive
// components x0 + x1 + x2 = s and party i holds the pair (x_i, x_{i+1}),
// so that any two parties jointly hold all three components while a
// single party's pair reveals nothing about s.
package rep3

import (
	"fmt"
	"io"

	"github.com/SuccinctPaul/collaborative-circom/curve"
	"github.com/SuccinctPaul/collaborative-circom/mpc"
	"github.com/SuccinctPaul/collaborative-circom/utils/prng"
)

// PartyID identifies one of the three parties of the replicated scheme.
type PartyID uint8

// Next returns the party following id in the replication ring.
func (id PartyID) Next() PartyID {
	return PartyID((id + 1) % mpc.Rep3NumParties)
}

// Component is one additive component of a replicated sharing. It is
// either explicit, or represented by a short seed that every holder
// expands deterministically on demand. Seed and expanded values are
// indistinguishable to a non-holder, so the seeded form does not weaken
// the scheme; it only shrinks the serialized share.
type Component[E any] struct {
	Seed     *prng.Seed
	Elements []E
}

// IsSeeded reports whether the component is represented by a seed that
// has not been expanded yet.
func (c *Component[E]) IsSeeded() bool {
	return c.Seed != nil && c.Elements == nil
}

// ShareVector is one party's replicated share of a vector of secrets.
// A holds the party's own additive component x_id and B the neighbour
// component x_{id+1}; B is nil in additive mode, which discards the
// replication and keeps only the single local additive component.
type ShareVector[E any] struct {
	ID PartyID
	N  int
	A  Component[E]
	B  *Component[E]
}

// Additive reports whether the share carries only its local additive
// component.
func (sv *ShareVector[E]) Additive() bool {
	return sv.B == nil
}

// Share splits each secret into a replicated 3-party sharing, drawing
// all randomness from src. When seeded, the two random components are
// replaced by expandable seeds and only the correction component is
// explicit. When additive, each party's share keeps only its own
// additive component.
func Share[E any, pE curve.Element[E]](secrets []E, src *prng.Source, seeded, additive bool) [mpc.Rep3NumParties]*ShareVector[E] {

	n := len(secrets)
	components := [mpc.Rep3NumParties]Component[E]{}

	var x0, x1 []E
	if seeded {
		seed0, seed1 := drawSeed(src), drawSeed(src)
		x0 = curve.SampleVector[E, pE](prng.NewSource(seed0), n)
		x1 = curve.SampleVector[E, pE](prng.NewSource(seed1), n)
		components[0] = Component[E]{Seed: &seed0}
		components[1] = Component[E]{Seed: &seed1}
	} else {
		x0 = curve.SampleVector[E, pE](src, n)
		x1 = curve.SampleVector[E, pE](src, n)
		components[0] = Component[E]{Elements: x0}
		components[1] = Component[E]{Elements: x1}
	}

	// correction component: x2 = s - x0 - x1, always explicit
	x2 := make([]E, n)
	for i := range secrets {
		pE(&x2[i]).Sub(&secrets[i], &x0[i])
		pE(&x2[i]).Sub(&x2[i], &x1[i])
	}
	components[2] = Component[E]{Elements: x2}

	var shares [mpc.Rep3NumParties]*ShareVector[E]
	for i := range shares {
		id := PartyID(i)
		shares[i] = &ShareVector[E]{ID: id, N: n, A: cloneComponent(components[id])}
		if !additive {
			b := cloneComponent(components[id.Next()])
			shares[i].B = &b
		}
	}
	return shares
}

func drawSeed(src *prng.Source) (seed prng.Seed) {
	if _, err := io.ReadFull(src, seed[:]); err != nil {
		panic(fmt.Errorf("randomness source: %w", err))
	}
	return
}

// cloneComponent deep-copies a component so that the three shares do not
// alias each other's element slices.
func cloneComponent[E any](c Component[E]) Component[E] {
	out := Component[E]{}
	if c.Seed != nil {
		seed := *c.Seed
		out.Seed = &seed
	}
	if c.Elements != nil {
		out.Elements = make([]E, len(c.Elements))
		copy(out.Elements, c.Elements)
	}
	return out
}

// Expand materializes every seeded component of sv in place, so that
// its element values can be consumed.
func Expand[E any, pE curve.Element[E]](sv *ShareVector[E]) {
	expandComponent[E, pE](&sv.A, sv.N)
	if sv.B != nil {
		expandComponent[E, pE](sv.B, sv.N)
	}
}

func expandComponent[E any, pE curve.Element[E]](c *Component[E], n int) {
	if !c.IsSeeded() {
		return
	}
	c.Elements = curve.SampleVector[E, pE](prng.NewSource(*c.Seed), n)
}

// AdditiveShare returns the party's own additive component, expanding
// it first if seeded. The returned slice aliases the share.
func AdditiveShare[E any, pE curve.Element[E]](sv *ShareVector[E]) []E {
	expandComponent[E, pE](&sv.A, sv.N)
	return sv.A.Elements
}

// Reconstruct recovers the secret vector from the replicated shares of
// two distinct parties. Their component pairs jointly cover all three
// additive components; a single share cannot reconstruct.
func Reconstruct[E any, pE curve.Element[E]](a, b *ShareVector[E]) ([]E, error) {
	if a.ID == b.ID {
		return nil, mpc.Errorf(mpc.Protocol, "reconstruction requires shares of two distinct parties, both are party %d", a.ID)
	}
	if a.Additive() || b.Additive() {
		return nil, mpc.Errorf(mpc.Protocol, "additive shares carry a single component and cannot be pairwise reconstructed")
	}
	if a.N != b.N {
		return nil, mpc.Errorf(mpc.Protocol, "share length mismatch: %d != %d", a.N, b.N)
	}

	Expand[E, pE](a)
	Expand[E, pE](b)

	components := map[PartyID][]E{
		a.ID:        a.A.Elements,
		a.ID.Next(): a.B.Elements,
		b.ID:        b.A.Elements,
		b.ID.Next(): b.B.Elements,
	}
	if len(components) != mpc.Rep3NumParties {
		return nil, mpc.Errorf(mpc.Protocol, "shares of parties %d and %d do not cover all components", a.ID, b.ID)
	}

	secrets := make([]E, a.N)
	for i := range secrets {
		for _, component := range components {
			pE(&secrets[i]).Add(&secrets[i], &component[i])
		}
	}
	return secrets, nil
}
