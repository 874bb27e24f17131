package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/chrissnell/eukleides/pkg/viewstate"
	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the built-in systems usable with --preset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		presets := viewstate.BuiltinPresets()
		if wantJSON() {
			return printJSON(presets)
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tPERIOD (d)\tRADIUS (R⊕)\tTEFF (K)\tR* (R☉)\tDEPTH (ppm)\tDURATION (h)")
		for _, p := range presets {
			f := p.Form
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", p.Name, f.OrbitalPeriod, f.PlanetRadius,
				f.StellarTemperature, f.StellarRadius, f.TransitDepth, f.TransitDuration)
		}
		return tw.Flush()
	},
}
