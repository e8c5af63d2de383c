// Package shamir implements Shamir's threshold secret-sharing scheme
// over the proving curve's scalar field, together with the interactive
// session (preprocessed correlated randomness, degree reduction,
// multiplication and the REP3-to-Shamir translation).
package shamir

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/SuccinctPaul/collaborative-circom/curve"
	"github.com/SuccinctPaul/collaborative-circom/mpc"
	"github.com/SuccinctPaul/collaborative-circom/utils/concurrency"
	"github.com/SuccinctPaul/collaborative-circom/utils/prng"
)

// ErrInsufficientShares is returned by Reconstruct when fewer than t+1
// shares are provided. It is wrapped in a Protocol-kind [mpc.Error].
var ErrInsufficientShares = errors.New("insufficient shares to reconstruct")

// ShareVector is one party's Shamir share of a vector of secrets:
// Values[k] is the evaluation of the k-th secret's polynomial at the
// party's fixed public point Index (1..n).
type ShareVector[E any] struct {
	Index  uint64
	Values []E
}

// Share splits each secret among n parties with threshold t: per secret
// a random polynomial of degree t with the secret as constant term is
// sampled and evaluated at the points 1..n. Any t+1 shares reconstruct;
// any t shares are independent of the secret.
func Share[E any, pE curve.Element[E]](secrets []E, t, n int, src *prng.Source) ([]*ShareVector[E], error) {
	if err := mpc.CheckShamir(t, n); err != nil {
		return nil, err
	}

	// coefficients are drawn sequentially so that the source stays
	// deterministic; the evaluations below are order-independent
	polys := make([][]E, len(secrets))
	for k := range secrets {
		poly := make([]E, t+1)
		poly[0] = secrets[k]
		for d := 1; d <= t; d++ {
			poly[d] = curve.Sample[E, pE](src)
		}
		polys[k] = poly
	}

	shares := make([]*ShareVector[E], n)
	for i := range shares {
		shares[i] = &ShareVector[E]{Index: uint64(i + 1), Values: make([]E, len(secrets))}
	}

	m := concurrency.NewResourceManager(workers(n))
	for i := range shares {
		sv := shares[i]
		m.Run(func(int) error {
			var x E
			pE(&x).SetUint64(sv.Index)
			for k := range polys {
				sv.Values[k] = evalPoly[E, pE](polys[k], &x)
			}
			return nil
		})
	}
	if err := m.Wait(); err != nil {
		return nil, err
	}
	return shares, nil
}

func workers(n int) []int {
	w := make([]int, min(n, runtime.NumCPU()))
	for i := range w {
		w[i] = i
	}
	return w
}

// evalPoly evaluates the polynomial with the given coefficients at x,
// constant term first (Horner).
func evalPoly[E any, pE curve.Element[E]](coeffs []E, x *E) (y E) {
	for d := len(coeffs) - 1; d >= 0; d-- {
		pE(&y).Mul(&y, x)
		pE(&y).Add(&y, &coeffs[d])
	}
	return
}

// Reconstruct recovers the secret vector from any subset of at least
// t+1 shares with pairwise-distinct indices, by Lagrange interpolation
// at zero. All provided shares participate in the interpolation.
func Reconstruct[E any, pE curve.Element[E]](t int, shares ...*ShareVector[E]) ([]E, error) {
	if len(shares) < t+1 {
		return nil, mpc.Wrap(mpc.Protocol,
			fmt.Errorf("%w: need at least %d, got %d", ErrInsufficientShares, t+1, len(shares)),
			"while reconstructing")
	}

	indices := make([]uint64, len(shares))
	seen := map[uint64]bool{}
	for i, sv := range shares {
		if sv.Index == 0 {
			return nil, mpc.Errorf(mpc.Protocol, "invalid share index 0")
		}
		if seen[sv.Index] {
			return nil, mpc.Errorf(mpc.Protocol, "duplicate share index %d", sv.Index)
		}
		seen[sv.Index] = true
		indices[i] = sv.Index
		if len(sv.Values) != len(shares[0].Values) {
			return nil, mpc.Errorf(mpc.Protocol, "share length mismatch: %d != %d", len(sv.Values), len(shares[0].Values))
		}
	}

	lagrange := lagrangeAtZero[E, pE](indices)

	secrets := make([]E, len(shares[0].Values))
	var tmp E
	for k := range secrets {
		for i, sv := range shares {
			pE(&tmp).Mul(&lagrange[i], &sv.Values[k])
			pE(&secrets[k]).Add(&secrets[k], &tmp)
		}
	}
	return secrets, nil
}

// lagrangeAtZero computes the Lagrange coefficients at x = 0 for the
// given pairwise-distinct evaluation points:
// lambda_i = prod_{j != i} x_j / (x_j - x_i).
func lagrangeAtZero[E any, pE curve.Element[E]](indices []uint64) []E {
	xs := make([]E, len(indices))
	for i, idx := range indices {
		pE(&xs[i]).SetUint64(idx)
	}

	coeffs := make([]E, len(indices))
	var num, den, diff E
	for i := range indices {
		pE(&num).SetOne()
		pE(&den).SetOne()
		for j := range indices {
			if i == j {
				continue
			}
			pE(&num).Mul(&num, &xs[j])
			pE(&diff).Sub(&xs[j], &xs[i])
			pE(&den).Mul(&den, &diff)
		}
		pE(&den).Inverse(&den)
		pE(&coeffs[i]).Mul(&num, &den)
	}
	return coeffs
}
