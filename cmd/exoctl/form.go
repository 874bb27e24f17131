package main

import (
	"fmt"

	"github.com/chrissnell/eukleides/pkg/viewstate"
	"github.com/spf13/cobra"
)

// formFlags maps a command line flag onto the form field it fills.
var formFlags = []struct {
	flag  string
	field string
	usage string
}{
	{"period", "orbital_period", "Orbital period in days"},
	{"planet-radius", "planet_radius", "Planet radius in Earth radii"},
	{"temperature", "stellar_temperature", "Stellar effective temperature in Kelvin"},
	{"stellar-radius", "stellar_radius", "Stellar radius in solar radii"},
	{"transit-depth", "transit_depth", "Transit depth in ppm"},
	{"transit-duration", "transit_duration", "Transit duration in hours"},
}

func addFormFlags(cmd *cobra.Command) {
	cmd.Flags().String("preset", "", "Start from a built-in preset, e.g. \"Kepler-22b\"")
	for _, f := range formFlags {
		cmd.Flags().String(f.flag, "", f.usage)
	}
}

// formFromFlags starts from the preset (or a fresh session) and overrides
// every field whose flag was given.
func formFromFlags(cmd *cobra.Command) (*viewstate.State, error) {
	s := viewstate.New()

	if name, _ := cmd.Flags().GetString("preset"); name != "" {
		if err := s.Apply(viewstate.Action{Type: "preset", Preset: name}, viewstate.BuiltinPresets()); err != nil {
			return nil, err
		}
	}

	for _, f := range formFlags {
		if !cmd.Flags().Changed(f.flag) {
			continue
		}
		v, _ := cmd.Flags().GetString(f.flag)
		if err := s.SetField(f.field, v); err != nil {
			return nil, fmt.Errorf("--%s: %w", f.flag, err)
		}
	}
	return s, nil
}
