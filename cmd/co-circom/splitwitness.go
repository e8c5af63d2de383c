package main

import (
	"io"
	"strings"

	fr_bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	fr_bn254 "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/SuccinctPaul/collaborative-circom/curve"
	"github.com/SuccinctPaul/collaborative-circom/mpc"
	"github.com/SuccinctPaul/collaborative-circom/mpc/rep3"
	"github.com/SuccinctPaul/collaborative-circom/mpc/shamir"
	"github.com/SuccinctPaul/collaborative-circom/utils/prng"
	"github.com/SuccinctPaul/collaborative-circom/witness"
)

type splitWitnessOpts struct {
	witnessPath string
	r1csPath    string
	protocol    string
	threshold   int
	numParties  int
	outDir      string
	seeded      bool
	additive    bool
}

func splitWitnessCmd() *cobra.Command {
	var opts splitWitnessOpts
	cmd := &cobra.Command{
		Use:   "split-witness",
		Short: "Split a circom witness file into secret shares",
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatchCurve(
				func(c curve.Curve) error { return runSplitWitness[fr_bn254.Element](c, opts) },
				func(c curve.Curve) error { return runSplitWitness[fr_bls12381.Element](c, opts) },
			)
		},
	}
	cmd.Flags().StringVarP(&opts.witnessPath, "witness", "w", "", "circom .wtns witness file")
	cmd.Flags().StringVarP(&opts.r1csPath, "r1cs", "r", "", "circom .r1cs constraint file")
	cmd.Flags().StringVar(&opts.protocol, "protocol", "REP3", "sharing scheme (REP3 or SHAMIR)")
	cmd.Flags().IntVarP(&opts.threshold, "threshold", "t", 1, "number of tolerated colluding parties")
	cmd.Flags().IntVarP(&opts.numParties, "num-parties", "n", 3, "number of parties")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", ".", "directory the share files are written to")
	cmd.Flags().BoolVar(&opts.seeded, "seeded", false, "compress replicated shares with PRG seeds (REP3 only)")
	cmd.Flags().BoolVar(&opts.additive, "additive", false, "emit additive shares without the replicated component (REP3 only)")
	_ = cmd.MarkFlagRequired("witness")
	_ = cmd.MarkFlagRequired("r1cs")
	return cmd
}

func runSplitWitness[E any, pE curve.Element[E]](c curve.Curve, opts splitWitnessOpts) error {
	var header *witness.R1CSHeader
	if err := withInputFile(opts.r1csPath, func(r io.Reader) error {
		var err error
		header, err = witness.ReadR1CSHeader(r)
		return err
	}); err != nil {
		return err
	}
	if header.Prime.Cmp(c.Modulus()) != 0 {
		return mpc.Errorf(mpc.Config, "constraint file field prime does not match curve %s", curveName)
	}

	var wit []E
	if err := withInputFile(opts.witnessPath, func(r io.Reader) error {
		var err error
		wit, err = witness.ReadWtns[E, pE](r, c.Modulus())
		return err
	}); err != nil {
		return err
	}

	src := prng.NewSource(prng.NewSeed())
	numInputs := header.NumInputs()

	switch strings.ToUpper(opts.protocol) {
	case "REP3":
		if err := mpc.CheckRep3(opts.threshold, opts.numParties); err != nil {
			return err
		}
		shares, err := witness.SplitWitnessRep3[E, pE](wit, numInputs, src, opts.seeded, opts.additive)
		if err != nil {
			return err
		}
		for i, share := range shares {
			path := shareFileName(opts.outDir, opts.witnessPath, i)
			if err := writeOutputFile(path, func(w io.Writer) error {
				_, err := witness.WriteSharedWitness[E, pE](w, share, rep3.WriteShareVector[E, pE])
				return err
			}); err != nil {
				return err
			}
			log.Info().Str("path", path).Msg("wrote witness share")
		}
	case "SHAMIR":
		if opts.seeded || opts.additive {
			return mpc.Errorf(mpc.Config, "seeded and additive sharing are REP3-only options")
		}
		shares, err := witness.SplitWitnessShamir[E, pE](wit, numInputs, opts.threshold, opts.numParties, src)
		if err != nil {
			return err
		}
		for i, share := range shares {
			path := shareFileName(opts.outDir, opts.witnessPath, i)
			if err := writeOutputFile(path, func(w io.Writer) error {
				_, err := witness.WriteSharedWitness[E, pE](w, share, shamir.WriteShareVector[E, pE])
				return err
			}); err != nil {
				return err
			}
			log.Info().Str("path", path).Msg("wrote witness share")
		}
	default:
		return mpc.Errorf(mpc.Config, "unsupported protocol %q (supported: REP3, SHAMIR)", opts.protocol)
	}
	return nil
}
