package shamir

import (
	"bytes"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/SuccinctPaul/collaborative-circom/curve"
	"github.com/SuccinctPaul/collaborative-circom/mpc"
	"github.com/SuccinctPaul/collaborative-circom/network"
	"github.com/SuccinctPaul/collaborative-circom/utils/prng"
)

// randPair is one unit of preprocessed correlated randomness: the local
// shares of the same random value under degree t (T) and degree 2t (T2).
type randPair[E any] struct {
	T, T2 E
}

// Session is the process-scoped state of one Shamir party: the network
// handle, the configured threshold and the queue of preprocessed random
// double-shares consumed by multiplication and translation. The queue is
// consumed, never regenerated; exhausting it is a Protocol error.
type Session[E any, pE curve.Element[E]] struct {
	net network.Network
	t   int
	n   int

	mu    sync.Mutex
	queue []randPair[E]

	// Lagrange coefficients at zero over the points 1..n, and the
	// inverse of the local party's coefficient (used by translation)
	lagrange []E
	invLagMe E
}

// NewSession connects the local party's Shamir state to the network and
// runs the preprocessing round producing count random double-shares.
// It requires 0 < t < n and n >= 2t+1 (degree-2t openings must be
// possible among the n parties).
func NewSession[E any, pE curve.Element[E]](net network.Network, t, count int) (*Session[E, pE], error) {
	n := net.NumParties()
	if err := mpc.CheckShamir(t, n); err != nil {
		return nil, err
	}
	if n < 2*t+1 {
		return nil, mpc.Errorf(mpc.Config, "shamir session requires n >= 2t+1 for degree reduction, got t=%d n=%d", t, n)
	}

	indices := make([]uint64, n)
	for i := range indices {
		indices[i] = uint64(i + 1)
	}

	s := &Session[E, pE]{
		net:      net,
		t:        t,
		n:        n,
		lagrange: lagrangeAtZero[E, pE](indices),
	}
	pE(&s.invLagMe).Inverse(&s.lagrange[net.PartyID()])

	if err := s.preprocess(count); err != nil {
		return nil, mpc.Wrap(mpc.Protocol, err, "during preprocessing")
	}
	return s, nil
}

// Threshold returns the session's configured threshold.
func (s *Session[E, pE]) Threshold() int { return s.t }

// Remaining returns the number of unconsumed preprocessed double-shares.
func (s *Session[E, pE]) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// preprocess runs the interactive generation of count random
// double-shares. Every party contributes a batch of random values shared
// at degree t and 2t in a single exchange round; the local double-share
// of the sum of all contributions is information-theoretically hidden
// from any t colluding parties.
func (s *Session[E, pE]) preprocess(count int) error {
	if count == 0 {
		return nil
	}

	src := prng.NewSource(prng.NewSeed())
	me := s.net.PartyID()

	// contributions[j] holds the (t, 2t) share pairs of every local
	// random value, evaluated at party j's point
	contributions := make([][]randPair[E], s.n)
	for j := range contributions {
		contributions[j] = make([]randPair[E], count)
	}

	xs := make([]E, s.n)
	for j := range xs {
		pE(&xs[j]).SetUint64(uint64(j + 1))
	}

	polyT := make([]E, s.t+1)
	polyT2 := make([]E, 2*s.t+1)
	for k := 0; k < count; k++ {
		r := curve.Sample[E, pE](src)
		polyT[0], polyT2[0] = r, r
		for d := 1; d <= s.t; d++ {
			polyT[d] = curve.Sample[E, pE](src)
		}
		for d := 1; d <= 2*s.t; d++ {
			polyT2[d] = curve.Sample[E, pE](src)
		}
		for j := range contributions {
			contributions[j][k] = randPair[E]{
				T:  evalPoly[E, pE](polyT, &xs[j]),
				T2: evalPoly[E, pE](polyT2, &xs[j]),
			}
		}
	}

	// single exchange round: send every peer its evaluations, receive
	// theirs, and accumulate into the local double-share queue
	var g errgroup.Group
	for j := 0; j < s.n; j++ {
		if j == me {
			continue
		}
		g.Go(func() error {
			return s.net.Send(j, encodePairs[E, pE](contributions[j]))
		})
	}

	queue := contributions[me]
	for j := 0; j < s.n; j++ {
		if j == me {
			continue
		}
		raw, err := s.net.Recv(j)
		if err != nil {
			return err
		}
		pairs, err := decodePairs[E, pE](raw, count, j)
		if err != nil {
			return err
		}
		for k := range queue {
			pE(&queue[k].T).Add(&queue[k].T, &pairs[k].T)
			pE(&queue[k].T2).Add(&queue[k].T2, &pairs[k].T2)
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	s.queue = queue
	s.mu.Unlock()
	return nil
}

// consume pops k double-shares off the queue. Consuming past the
// preprocessed amount is a fatal configuration mistake of the caller and
// is never silently regenerated.
func (s *Session[E, pE]) consume(k int) ([]randPair[E], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if k > len(s.queue) {
		return nil, mpc.Errorf(mpc.Protocol, "randomness queue exhausted: need %d double-shares, %d preprocessed remain", k, len(s.queue))
	}
	out := s.queue[:k]
	s.queue = s.queue[k:]
	return out, nil
}

// Open reveals the values underlying the local share vector to every
// party: one batched broadcast round followed by interpolation at zero
// with all n points, so sharings of degree up to n-1 open correctly.
func (s *Session[E, pE]) Open(values []E) ([]E, error) {
	me := s.net.PartyID()

	var g errgroup.Group
	g.Go(func() error {
		return s.net.Broadcast(encodeVector[E, pE](values))
	})

	opened := make([]E, len(values))
	var tmp E
	for k := range values {
		pE(&opened[k]).Mul(&s.lagrange[me], &values[k])
	}
	for j := 0; j < s.n; j++ {
		if j == me {
			continue
		}
		raw, err := s.net.Recv(j)
		if err != nil {
			return nil, mpc.Wrap(mpc.Network, err, "during opening")
		}
		peer, err := decodeVector[E, pE](raw, len(values), j)
		if err != nil {
			return nil, mpc.Wrap(mpc.Protocol, err, "during opening")
		}
		for k := range opened {
			pE(&tmp).Mul(&s.lagrange[j], &peer[k])
			pE(&opened[k]).Add(&opened[k], &tmp)
		}
	}
	if err := g.Wait(); err != nil {
		return nil, mpc.Wrap(mpc.Network, err, "during opening")
	}
	return opened, nil
}

// degreeReduce converts local degree-2t shares into degree-t shares of
// the same values, consuming one preprocessed double-share per element:
// the parties open the masked vector v + r at degree 2t and output the
// public result minus their degree-t share of r.
func (s *Session[E, pE]) degreeReduce(values []E) ([]E, error) {
	pairs, err := s.consume(len(values))
	if err != nil {
		return nil, err
	}

	masked := make([]E, len(values))
	for k := range values {
		pE(&masked[k]).Add(&values[k], &pairs[k].T2)
	}

	opened, err := s.Open(masked)
	if err != nil {
		return nil, err
	}

	out := make([]E, len(values))
	for k := range out {
		pE(&out[k]).Sub(&opened[k], &pairs[k].T)
	}
	return out, nil
}

// Mul computes element-wise degree-t shares of a*b from degree-t shares
// a and b, in one batched degree-reduction round.
func (s *Session[E, pE]) Mul(a, b []E) ([]E, error) {
	if len(a) != len(b) {
		return nil, mpc.Errorf(mpc.Protocol, "operand length mismatch: %d != %d", len(a), len(b))
	}
	prod := make([]E, len(a))
	for k := range prod {
		pE(&prod[k]).Mul(&a[k], &b[k])
	}
	out, err := s.degreeReduce(prod)
	if err != nil {
		return nil, mpc.Wrap(mpc.Protocol, err, "during multiplication")
	}
	return out, nil
}

// TranslateRep3 converts the local REP3 additive components of a secret
// vector into Shamir degree-t shares of the same secrets, preserving
// positions. The three REP3 parties act as the Shamir participants:
// rescaling the additive component by the inverse Lagrange coefficient
// of the local point yields a (degenerate) degree-2t sharing of the
// secret, which one batched degree-reduction round turns into a fresh
// degree-t sharing. Only the REP3 access structure (t=1, n=3) is
// accepted; anything else fails before any network I/O.
func (s *Session[E, pE]) TranslateRep3(additive []E) (*ShareVector[E], error) {
	if s.t != mpc.Rep3Threshold || s.n != mpc.Rep3NumParties {
		return nil, mpc.Errorf(mpc.Config, "unsupported translation: only REP3 (t=%d, n=%d) to Shamir is supported, session has t=%d n=%d",
			mpc.Rep3Threshold, mpc.Rep3NumParties, s.t, s.n)
	}

	rescaled := make([]E, len(additive))
	for k := range additive {
		pE(&rescaled[k]).Mul(&additive[k], &s.invLagMe)
	}

	values, err := s.degreeReduce(rescaled)
	if err != nil {
		return nil, mpc.Wrap(mpc.Protocol, err, "during translation")
	}
	return &ShareVector[E]{Index: uint64(s.net.PartyID() + 1), Values: values}, nil
}

func encodePairs[E any, pE curve.Element[E]](pairs []randPair[E]) []byte {
	var buf bytes.Buffer
	for k := range pairs {
		_, _ = curve.WriteElement[E, pE](&buf, &pairs[k].T)
		_, _ = curve.WriteElement[E, pE](&buf, &pairs[k].T2)
	}
	return buf.Bytes()
}

func decodePairs[E any, pE curve.Element[E]](raw []byte, count, from int) ([]randPair[E], error) {
	size := curve.Bytes[E, pE]()
	if len(raw) != 2*count*size {
		return nil, mpc.Errorf(mpc.Protocol, "malformed preprocessing message from party %d: %d bytes, expected %d", from, len(raw), 2*count*size)
	}
	r := bytes.NewReader(raw)
	pairs := make([]randPair[E], count)
	for k := range pairs {
		if _, err := curve.ReadElement[E, pE](r, &pairs[k].T); err != nil {
			return nil, fmt.Errorf("curve.ReadElement: %w", err)
		}
		if _, err := curve.ReadElement[E, pE](r, &pairs[k].T2); err != nil {
			return nil, fmt.Errorf("curve.ReadElement: %w", err)
		}
	}
	return pairs, nil
}

func encodeVector[E any, pE curve.Element[E]](values []E) []byte {
	var buf bytes.Buffer
	for k := range values {
		_, _ = curve.WriteElement[E, pE](&buf, &values[k])
	}
	return buf.Bytes()
}

func decodeVector[E any, pE curve.Element[E]](raw []byte, count, from int) ([]E, error) {
	size := curve.Bytes[E, pE]()
	if len(raw) != count*size {
		return nil, mpc.Errorf(mpc.Protocol, "malformed opening message from party %d: %d bytes, expected %d", from, len(raw), count*size)
	}
	r := bytes.NewReader(raw)
	values := make([]E, count)
	for k := range values {
		if _, err := curve.ReadElement[E, pE](r, &values[k]); err != nil {
			return nil, fmt.Errorf("curve.ReadElement: %w", err)
		}
	}
	return values, nil
}
