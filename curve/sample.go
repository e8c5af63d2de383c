package curve

import (
	"fmt"
	"io"
)

// sampleBytes is the number of bytes consumed from the randomness source
// per sampled scalar. Oversampling by 256 bits before the modular
// reduction keeps the statistical distance from uniform negligible.
const sampleBytes = 64

// Sample draws one scalar from src, uniform in the field.
func Sample[E any, pE Element[E]](src io.Reader) (e E) {
	var buf [sampleBytes]byte
	if _, err := io.ReadFull(src, buf[:]); err != nil {
		panic(fmt.Errorf("randomness source: %w", err))
	}
	pE(&e).SetBytes(buf[:])
	return
}

// SampleVector draws n scalars from src, in order.
func SampleVector[E any, pE Element[E]](src io.Reader, n int) []E {
	v := make([]E, n)
	for i := range v {
		v[i] = Sample[E, pE](src)
	}
	return v
}
