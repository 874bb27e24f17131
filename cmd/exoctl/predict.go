package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var predictCmd = &cobra.Command{
	Use:     "predict",
	Short:   "Ask the classifier whether a system is a real planet",
	Example: `  exoctl predict --preset "TRAPPIST-1e"`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := formFromFlags(cmd)
		if err != nil {
			return err
		}

		client, err := newClassifier()
		if err != nil {
			return err
		}

		p, err := client.Predict(cmd.Context(), s.Features())
		if err != nil {
			return err
		}

		if wantJSON() {
			return printJSON(p)
		}

		fmt.Printf("%s: %s (%.1f%% confidence)\n", s.ExoplanetName, p.Label, p.Confidence)
		for _, c := range p.Probabilities {
			fmt.Printf("  %-16s %6.2f%%\n", c.Label, c.Probability)
		}
		return nil
	},
}

func init() {
	addFormFlags(predictCmd)
}
