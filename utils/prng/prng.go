// Package prng implements a seedable, deterministic pseudorandom source.
// Two holders of the same seed derive identical streams independently,
// which is what the seeded replicated-sharing mode relies on.
package prng

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"
)

// SeedSize is the size of a Source seed in bytes.
const SeedSize = 32

// Seed is the compact, serializable state from which a Source derives an
// effectively unbounded deterministic stream.
type Seed [SeedSize]byte

// NewSeed samples a fresh Seed from crypto/rand.
func NewSeed() (seed Seed) {
	if _, err := rand.Read(seed[:]); err != nil {
		// crypto/rand never fails on supported platforms
		panic(fmt.Errorf("crypto/rand: %w", err))
	}
	return
}

// Source is a deterministic stream of pseudorandom bytes expanded from a
// Seed with the BLAKE2b XOF. It implements io.Reader. A Source is not
// safe for concurrent use.
type Source struct {
	xof blake2b.XOF
}

// NewSource instantiates a Source from seed.
func NewSource(seed Seed) *Source {
	xof, err := blake2b.NewXOF(blake2b.OutputLengthUnknown, seed[:])
	if err != nil {
		// only fails on invalid key size, and SeedSize is valid
		panic(fmt.Errorf("blake2b.NewXOF: %w", err))
	}
	return &Source{xof: xof}
}

// Read implements io.Reader. It never returns an error.
func (s *Source) Read(p []byte) (int, error) {
	if _, err := io.ReadFull(s.xof, p); err != nil {
		panic(fmt.Errorf("blake2b XOF read: %w", err))
	}
	return len(p), nil
}
