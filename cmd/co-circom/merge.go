package main

import (
	"io"

	fr_bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	fr_bn254 "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/SuccinctPaul/collaborative-circom/curve"
	"github.com/SuccinctPaul/collaborative-circom/mpc/rep3"
	"github.com/SuccinctPaul/collaborative-circom/witness"
)

func mergeInputSharesCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "merge-input-shares <share-file>...",
		Short: "Merge the same party's input shares from independent input owners",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatchCurve(
				func(c curve.Curve) error { return runMergeInputShares[fr_bn254.Element](args, outPath) },
				func(c curve.Curve) error { return runMergeInputShares[fr_bls12381.Element](args, outPath) },
			)
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "merged share file")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func runMergeInputShares[E any, pE curve.Element[E]](paths []string, outPath string) error {
	inputs := make([]*witness.SharedInput[E, *rep3.ShareVector[E]], len(paths))
	for i, path := range paths {
		if err := withInputFile(path, func(r io.Reader) error {
			var err error
			inputs[i], _, err = witness.ReadSharedInput[E, pE](r, rep3.ReadShareVector[E, pE])
			return err
		}); err != nil {
			return err
		}
	}

	merged, err := witness.MergeAll[E, pE](inputs)
	if err != nil {
		return err
	}

	if err := writeOutputFile(outPath, func(w io.Writer) error {
		_, err := witness.WriteSharedInput[E, pE](w, merged, rep3.WriteShareVector[E, pE])
		return err
	}); err != nil {
		return err
	}
	log.Info().Str("path", outPath).Int("merged", len(paths)).Msg("wrote merged input share")
	return nil
}
