package main

import (
	"io"
	"strings"

	fr_bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	fr_bn254 "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/plonk"
	gnarkwitness "github.com/consensys/gnark/backend/witness"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"

	"github.com/SuccinctPaul/collaborative-circom/curve"
	"github.com/SuccinctPaul/collaborative-circom/mpc"
	"github.com/SuccinctPaul/collaborative-circom/witness"
)

type verifyOpts struct {
	proofPath  string
	vkPath     string
	publicPath string
	system     string
}

func verifyCmd() *cobra.Command {
	var opts verifyOpts
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a proof against a verification key and the public inputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatchCurve(
				func(c curve.Curve) error { return runVerify[fr_bn254.Element](c, opts) },
				func(c curve.Curve) error { return runVerify[fr_bls12381.Element](c, opts) },
			)
		},
	}
	cmd.Flags().StringVar(&opts.proofPath, "proof", "", "proof file (gnark serialization)")
	cmd.Flags().StringVar(&opts.vkPath, "vk", "", "verification key file (gnark serialization)")
	cmd.Flags().StringVar(&opts.publicPath, "public-input", "", "public input JSON file")
	cmd.Flags().StringVar(&opts.system, "proof-system", "groth16", "proof system (groth16 or plonk)")
	_ = cmd.MarkFlagRequired("proof")
	_ = cmd.MarkFlagRequired("vk")
	_ = cmd.MarkFlagRequired("public-input")
	return cmd
}

func runVerify[E any, pE curve.Element[E]](c curve.Curve, opts verifyOpts) error {
	var public []E
	if err := withInputFile(opts.publicPath, func(r io.Reader) error {
		var err error
		public, err = witness.ReadPublicInputs[E, pE](r, c.Modulus())
		return err
	}); err != nil {
		return err
	}

	pub, err := gnarkwitness.New(c.Modulus())
	if err != nil {
		return xerrors.Errorf("build public witness: %w", err)
	}
	values := make(chan any, len(public))
	for i := range public {
		values <- pE(&public[i])
	}
	close(values)
	if err := pub.Fill(len(public), 0, values); err != nil {
		return xerrors.Errorf("build public witness: %w", err)
	}

	switch strings.ToLower(opts.system) {
	case "groth16":
		proof := groth16.NewProof(c.ID)
		if err := withInputFile(opts.proofPath, func(r io.Reader) error {
			_, err := proof.ReadFrom(r)
			return err
		}); err != nil {
			return err
		}
		vk := groth16.NewVerifyingKey(c.ID)
		if err := withInputFile(opts.vkPath, func(r io.Reader) error {
			_, err := vk.ReadFrom(r)
			return err
		}); err != nil {
			return err
		}
		if err := groth16.Verify(proof, vk, pub); err != nil {
			return xerrors.Errorf("proof does not verify: %w", err)
		}
	case "plonk":
		proof := plonk.NewProof(c.ID)
		if err := withInputFile(opts.proofPath, func(r io.Reader) error {
			_, err := proof.ReadFrom(r)
			return err
		}); err != nil {
			return err
		}
		vk := plonk.NewVerifyingKey(c.ID)
		if err := withInputFile(opts.vkPath, func(r io.Reader) error {
			_, err := vk.ReadFrom(r)
			return err
		}); err != nil {
			return err
		}
		if err := plonk.Verify(proof, vk, pub); err != nil {
			return xerrors.Errorf("proof does not verify: %w", err)
		}
	default:
		return mpc.Errorf(mpc.Config, "unsupported proof system %q (supported: groth16, plonk)", opts.system)
	}

	log.Info().Str("system", opts.system).Msg("proof verified")
	return nil
}
