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
	"github.com/SuccinctPaul/collaborative-circom/mpc/shamir"
	"github.com/SuccinctPaul/collaborative-circom/network"
	"github.com/SuccinctPaul/collaborative-circom/witness"
)

type translateOpts struct {
	witnessPath string
	configPath  string
	threshold   int
	outPath     string
}

func translateWitnessCmd() *cobra.Command {
	var opts translateOpts
	cmd := &cobra.Command{
		Use:   "translate-witness",
		Short: "Translate a replicated witness share into a Shamir share over the party network",
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatchCurve(
				func(c curve.Curve) error { return runTranslateWitness[fr_bn254.Element](opts) },
				func(c curve.Curve) error { return runTranslateWitness[fr_bls12381.Element](opts) },
			)
		},
	}
	cmd.Flags().StringVarP(&opts.witnessPath, "witness", "w", "", "replicated witness share file")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "network config JSON file")
	cmd.Flags().IntVarP(&opts.threshold, "threshold", "t", 1, "target Shamir threshold")
	cmd.Flags().StringVarP(&opts.outPath, "out", "o", "", "translated witness share file")
	_ = cmd.MarkFlagRequired("witness")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func runTranslateWitness[E any, pE curve.Element[E]](opts translateOpts) error {
	var shared *witness.SharedWitness[E, *rep3.ShareVector[E]]
	if err := withInputFile(opts.witnessPath, func(r io.Reader) error {
		var err error
		shared, _, err = witness.ReadSharedWitness[E, pE](r, rep3.ReadShareVector[E, pE])
		return err
	}); err != nil {
		return err
	}

	conf, err := network.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	// only REP3 -> Shamir is supported; reject before connecting
	if err := mpc.CheckRep3(opts.threshold, len(conf.Parties)); err != nil {
		return err
	}
	net, err := network.Dial(conf)
	if err != nil {
		return err
	}
	defer net.Close()

	additive := rep3.AdditiveShare[E, pE](shared.Witness)

	// one preprocessed double-share is consumed per witness element
	session, err := shamir.NewSession[E, pE](net, opts.threshold, len(additive))
	if err != nil {
		return err
	}
	translated, err := session.TranslateRep3(additive)
	if err != nil {
		return err
	}

	out := &witness.SharedWitness[E, *shamir.ShareVector[E]]{
		PublicInputs: shared.PublicInputs,
		Witness:      translated,
	}
	if err := writeOutputFile(opts.outPath, func(w io.Writer) error {
		_, err := witness.WriteSharedWitness[E, pE](w, out, shamir.WriteShareVector[E, pE])
		return err
	}); err != nil {
		return err
	}
	log.Info().Str("path", opts.outPath).Int("elements", len(additive)).Msg("wrote translated witness share")
	return nil
}
