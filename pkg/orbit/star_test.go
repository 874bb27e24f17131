package orbit

import (
	"fmt"
	"testing"
)

func TestClassifyStar(t *testing.T) {
	tests := []struct {
		temperature   float64
		expectedLabel string
		expectedColor string
	}{
		{30000, "O/B Type (Blue)", "#9bb0ff"},
		{11273, "O/B Type (Blue)", "#9bb0ff"},
		{11272.9, "A Type (Blue-White)", "#aabfff"},
		{7773, "A Type (Blue-White)", "#aabfff"},
		{6500, "F Type (White)", "#ffd2a1"},
		{5778, "G Type (Yellow)", "#ffd2a1"},
		{5273, "G Type (Yellow)", "#ffd2a1"},
		{4500, "K Type (Orange)", "#ffcc6f"},
		{3050, "M Type (Red)", "#ff6b38"},
		{2273, "M Type (Red)", "#ff6b38"},
		{1000, "M Type (Red)", "#ff6b38"},
		{-5, "M Type (Red)", "#ff6b38"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%vK %s", tt.temperature, tt.expectedLabel), func(t *testing.T) {
			class := ClassifyStar(tt.temperature)
			if class.Label != tt.expectedLabel {
				t.Errorf("ClassifyStar(%v).Label = %q, expected %q", tt.temperature, class.Label, tt.expectedLabel)
			}
			if class.DisplayColor != tt.expectedColor {
				t.Errorf("ClassifyStar(%v).DisplayColor = %q, expected %q", tt.temperature, class.DisplayColor, tt.expectedColor)
			}
		})
	}
}

func TestClassifyStarMonochrome(t *testing.T) {
	for _, temp := range []float64{20000, 8000, 5778, 3050} {
		spectral := ClassifyStar(temp)
		mono := ClassifyStarWithPalette(temp, PaletteMonochrome)
		if mono.Label != spectral.Label {
			t.Errorf("palette changed label for %v: %q vs %q", temp, mono.Label, spectral.Label)
		}
		if mono.DisplayColor != MonochromeColor {
			t.Errorf("monochrome color for %v = %q, expected %q", temp, mono.DisplayColor, MonochromeColor)
		}
	}
}

func TestParsePalette(t *testing.T) {
	if ParsePalette("monochrome") != PaletteMonochrome {
		t.Error("expected monochrome palette")
	}
	for _, name := range []string{"", "spectral", "rainbow"} {
		if ParsePalette(name) != PaletteSpectral {
			t.Errorf("ParsePalette(%q) expected spectral", name)
		}
	}
}
