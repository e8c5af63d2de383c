package main

import (
	"github.com/consensys/gnark-crypto/ecc"

	"github.com/SuccinctPaul/collaborative-circom/curve"
	"github.com/SuccinctPaul/collaborative-circom/mpc"
)

// dispatchCurve resolves the --curve flag and runs the instantiation of
// the command matching the curve's scalar field.
func dispatchCurve(onBN254, onBLS12381 func(c curve.Curve) error) error {
	c, err := curve.ByName(curveName)
	if err != nil {
		return err
	}
	switch c.ID {
	case ecc.BN254:
		return onBN254(c)
	case ecc.BLS12_381:
		return onBLS12381(c)
	default:
		return mpc.Errorf(mpc.Config, "unsupported curve %q", curveName)
	}
}
