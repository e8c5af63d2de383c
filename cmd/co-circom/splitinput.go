package main

import (
	"io"

	fr_bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	fr_bn254 "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/SuccinctPaul/collaborative-circom/curve"
	"github.com/SuccinctPaul/collaborative-circom/mpc"
	"github.com/SuccinctPaul/collaborative-circom/mpc/rep3"
	"github.com/SuccinctPaul/collaborative-circom/utils/prng"
	"github.com/SuccinctPaul/collaborative-circom/witness"
)

type splitInputOpts struct {
	inputPath   string
	publicNames []string
	threshold   int
	numParties  int
	outDir      string
	seeded      bool
	additive    bool
}

func splitInputCmd() *cobra.Command {
	var opts splitInputOpts
	cmd := &cobra.Command{
		Use:   "split-input",
		Short: "Split a circuit input JSON file into replicated secret shares",
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatchCurve(
				func(c curve.Curve) error { return runSplitInput[fr_bn254.Element](c, opts) },
				func(c curve.Curve) error { return runSplitInput[fr_bls12381.Element](c, opts) },
			)
		},
	}
	cmd.Flags().StringVarP(&opts.inputPath, "input", "i", "", "circuit input JSON file")
	cmd.Flags().StringSliceVar(&opts.publicNames, "public", nil, "input signals kept public (repeatable)")
	cmd.Flags().IntVarP(&opts.threshold, "threshold", "t", 1, "number of tolerated colluding parties")
	cmd.Flags().IntVarP(&opts.numParties, "num-parties", "n", 3, "number of parties")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", ".", "directory the share files are written to")
	cmd.Flags().BoolVar(&opts.seeded, "seeded", false, "compress replicated shares with PRG seeds")
	cmd.Flags().BoolVar(&opts.additive, "additive", false, "emit additive shares without the replicated component")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

// input splitting is REP3-only: every input owner must be able to split
// locally, without the preprocessing a Shamir session would need.
func runSplitInput[E any, pE curve.Element[E]](c curve.Curve, opts splitInputOpts) error {
	if err := mpc.CheckRep3(opts.threshold, opts.numParties); err != nil {
		return err
	}

	var inputs map[string][]E
	if err := withInputFile(opts.inputPath, func(r io.Reader) error {
		var err error
		inputs, err = witness.ParseInput[E, pE](r, c.Modulus())
		return err
	}); err != nil {
		return err
	}

	src := prng.NewSource(prng.NewSeed())
	shares, err := witness.SplitInput[E, pE](inputs, opts.publicNames, src, opts.seeded, opts.additive)
	if err != nil {
		return err
	}

	for i, share := range shares {
		path := shareFileName(opts.outDir, opts.inputPath, i)
		if err := writeOutputFile(path, func(w io.Writer) error {
			_, err := witness.WriteSharedInput[E, pE](w, share, rep3.WriteShareVector[E, pE])
			return err
		}); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("wrote input share")
	}
	return nil
}
