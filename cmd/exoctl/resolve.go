package main

import (
	"fmt"

	"github.com/chrissnell/eukleides/pkg/orbit"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve the orbit, star class and visual scales of a system",
	Example: `  exoctl resolve --preset "Proxima Centauri b"
  exoctl resolve --period 289.9 --stellar-radius 0.98 --temperature 5518 --output json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := formFromFlags(cmd)
		if err != nil {
			return err
		}

		palette, _ := cmd.Flags().GetString("palette")
		opts := orbit.DefaultSceneOptions()
		opts.Palette = orbit.ParsePalette(palette)

		d := orbit.Resolve(s.Parameters(), opts)
		scene := orbit.BuildScene(d, opts)

		if wantJSON() {
			return printJSON(struct {
				Name  string             `json:"name"`
				Orbit orbit.DerivedOrbit `json:"orbit"`
				Scene orbit.Scene        `json:"scene"`
			}{s.ExoplanetName, d, scene})
		}

		fmt.Printf("%s\n", s.ExoplanetName)
		fmt.Printf("  Orbital radius: %.4f AU\n", d.OrbitalRadiusAU)
		fmt.Printf("  Star class:     %s\n", d.StarClass.Label)
		fmt.Printf("  Star scale:     %.4f\n", d.StarVisualScale)
		fmt.Printf("  Planet scale:   %.4f\n", d.PlanetVisualScale)
		fmt.Printf("  Grid square:    %s\n", scene.ScaleLegend)
		return nil
	},
}

func init() {
	addFormFlags(resolveCmd)
	resolveCmd.Flags().String("palette", string(orbit.PaletteSpectral), "Star palette: spectral or monochrome")
}
