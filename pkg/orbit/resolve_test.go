package orbit

import (
	"math"
	"testing"
)

func TestParseParameters(t *testing.T) {
	tests := []struct {
		name     string
		inputs   [4]string
		expected PhysicalParameters
	}{
		{
			name:     "all blank",
			inputs:   [4]string{"", "", "", ""},
			expected: DefaultParameters(),
		},
		{
			name:   "Proxima Centauri b",
			inputs: [4]string{"11.2", "1.02", "3050", "0.14"},
			expected: PhysicalParameters{
				OrbitalPeriodDays:        11.2,
				PlanetRadiusEarthRadii:   1.02,
				StellarTemperatureKelvin: 3050,
				StellarRadiusSolarRadii:  0.14,
			},
		},
		{
			name:   "each field defaulted on its own",
			inputs: [4]string{"abc", " 2.5 ", "0", "NaN"},
			expected: PhysicalParameters{
				OrbitalPeriodDays:        DefaultOrbitalPeriodDays,
				PlanetRadiusEarthRadii:   2.5,
				StellarTemperatureKelvin: DefaultStellarTemperatureKelvin,
				StellarRadiusSolarRadii:  DefaultStellarRadiusSolarRadii,
			},
		},
		{
			name:   "negatives pass through",
			inputs: [4]string{"-4", "1e400", "-100", "Inf"},
			expected: PhysicalParameters{
				OrbitalPeriodDays:        -4,
				PlanetRadiusEarthRadii:   DefaultPlanetRadiusEarthRadii,
				StellarTemperatureKelvin: -100,
				StellarRadiusSolarRadii:  DefaultStellarRadiusSolarRadii,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseParameters(tt.inputs[0], tt.inputs[1], tt.inputs[2], tt.inputs[3])
			if got != tt.expected {
				t.Errorf("ParseParameters(%q) = %+v, expected %+v", tt.inputs, got, tt.expected)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	p := ParseParameters("11.2", "1.02", "3050", "0.14")
	d := Resolve(p, DefaultSceneOptions())

	if math.Abs(d.OrbitalRadiusAU-0.0432) > 0.0005 {
		t.Errorf("OrbitalRadiusAU = %.5f, expected ~0.0432", d.OrbitalRadiusAU)
	}
	if d.StarClass.Label != "M Type (Red)" {
		t.Errorf("StarClass.Label = %q, expected M Type (Red)", d.StarClass.Label)
	}
	if d.StarVisualScale > DefaultTargetOrbitVisualRadius*MaxStarFractionOfOrbit {
		t.Errorf("StarVisualScale = %v exceeds cap", d.StarVisualScale)
	}
	if math.Abs(d.AUPerGridSquare-d.OrbitalRadiusAU/DefaultTargetOrbitVisualRadius) > 1e-15 {
		t.Errorf("AUPerGridSquare = %v, expected orbit / target", d.AUPerGridSquare)
	}
	if math.Abs(d.StellarRadiusAU-0.14/SunRadiiPerAU) > 1e-15 {
		t.Errorf("StellarRadiusAU = %v", d.StellarRadiusAU)
	}
}

func TestResolveIdempotent(t *testing.T) {
	opts := DefaultSceneOptions()
	params := []PhysicalParameters{
		DefaultParameters(),
		ParseParameters("289.9", "2.38", "5518", "0.98"),
		ParseParameters("0", "-1", "", "1e-300"),
	}

	for _, p := range params {
		first := Resolve(p, opts)
		for i := 0; i < 5; i++ {
			if again := Resolve(p, opts); again != first {
				t.Fatalf("Resolve(%+v) not idempotent: %+v vs %+v", p, first, again)
			}
		}
	}
}

func TestResolveMonochrome(t *testing.T) {
	opts := DefaultSceneOptions()
	opts.Palette = PaletteMonochrome
	d := Resolve(DefaultParameters(), opts)
	if d.StarClass.DisplayColor != MonochromeColor {
		t.Errorf("DisplayColor = %q, expected %q", d.StarClass.DisplayColor, MonochromeColor)
	}
	if d.StarClass.Label != "G Type (Yellow)" {
		t.Errorf("Label = %q, expected G Type (Yellow)", d.StarClass.Label)
	}
}

func TestFormatAUScale(t *testing.T) {
	tests := []struct {
		au       float64
		expected string
	}{
		{0.25, "0.25 AU"},
		{0.1, "0.10 AU"},
		{0.0108, "0.0108 AU"},
		{0.001, "0.0010 AU"},
		{0.0001, "1.0e-4 AU"},
		{0.00095, "9.5e-4 AU"},
		{0, "0.0e+0 AU"},
	}

	for _, tt := range tests {
		if got := FormatAUScale(tt.au); got != tt.expected {
			t.Errorf("FormatAUScale(%v) = %q, expected %q", tt.au, got, tt.expected)
		}
	}
}
