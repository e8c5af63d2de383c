// co-circom is the command-line frontend of the collaborative proving
// toolchain: it splits circom witnesses and input files into secret
// shares, merges input shares from independent owners, translates
// replicated shares to Shamir shares over the party network, and
// verifies the resulting proofs.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var curveName string

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	var verbose bool
	root := &cobra.Command{
		Use:           "co-circom",
		Short:         "Collaborative circom proving toolchain",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}
	root.PersistentFlags().StringVar(&curveName, "curve", "BN254", "proving curve (BN254 or BLS12-381)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		splitWitnessCmd(),
		splitInputCmd(),
		mergeInputSharesCmd(),
		translateWitnessCmd(),
		verifyCmd(),
	)

	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}
