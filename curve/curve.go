// Package curve abstracts the prime scalar field of the proving curve.
// All sharing schemes are generic over a scalar type E whose pointer
// satisfies [Element]; the gnark-crypto fr.Element types of the two
// supported curves do.
package curve

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	fr_bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	fr_bn254 "github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/SuccinctPaul/collaborative-circom/mpc"
)

// Element is the method set the sharing schemes require from a pointer
// to a scalar of type E. It matches the gnark-crypto fr.Element API.
type Element[E any] interface {
	*E
	Add(*E, *E) *E
	Sub(*E, *E) *E
	Neg(*E) *E
	Mul(*E, *E) *E
	Inverse(*E) *E
	SetZero() *E
	SetOne() *E
	SetUint64(uint64) *E
	SetBigInt(*big.Int) *E
	BigInt(*big.Int) *big.Int
	SetBytes([]byte) *E
	Marshal() []byte
	Equal(*E) bool
	IsZero() bool
	Text(int) string
}

// Curve describes one of the supported proving curves.
type Curve struct {
	ID          ecc.ID
	ScalarBytes int
}

// Supported curve descriptors. The scalar fields are the source domain's
// two SNARK fields; no other curve is accepted anywhere.
var (
	BN254    = Curve{ID: ecc.BN254, ScalarBytes: fr_bn254.Bytes}
	BLS12381 = Curve{ID: ecc.BLS12_381, ScalarBytes: fr_bls12381.Bytes}
)

// ByName resolves a curve from its command-line name.
func ByName(name string) (Curve, error) {
	switch name {
	case "BN254", "bn254":
		return BN254, nil
	case "BLS12-381", "bls12-381", "BLS12_381", "bls12381":
		return BLS12381, nil
	default:
		return Curve{}, mpc.Errorf(mpc.Config, "unsupported curve %q (supported: BN254, BLS12-381)", name)
	}
}

// Modulus returns the characteristic of the curve's scalar field.
func (c Curve) Modulus() *big.Int {
	return c.ID.ScalarField()
}

// Bytes returns the serialized size of one scalar of type E. It must be
// called with the E matching the curve in use.
func Bytes[E any, pE Element[E]]() int {
	var z E
	return len(pE(&z).Marshal())
}
