package orbit

// Palette selects how star classes are colored in the scene.
type Palette string

const (
	// PaletteSpectral gives every class its approximate blackbody color.
	PaletteSpectral Palette = "spectral"
	// PaletteMonochrome draws every star white for the black-and-white theme.
	PaletteMonochrome Palette = "monochrome"
)

// MonochromeColor is used for every body when PaletteMonochrome is selected.
const MonochromeColor = "#ffffff"

// StarClass is the spectral bucket a star falls into.
type StarClass struct {
	Label        string `json:"label"`
	DisplayColor string `json:"display_color"`
}

type starBucket struct {
	minKelvin float64
	label     string
	color     string
}

// starBuckets are ordered hottest first; the first inclusive lower bound that
// matches wins.
var starBuckets = []starBucket{
	{11273, "O/B Type (Blue)", "#9bb0ff"},
	{7773, "A Type (Blue-White)", "#aabfff"},
	{6273, "F Type (White)", "#ffd2a1"},
	{5273, "G Type (Yellow)", "#ffd2a1"},
	{3873, "K Type (Orange)", "#ffcc6f"},
	{2273, "M Type (Red)", "#ff6b38"},
}

// coolest stars below every threshold are still reported as M type
var fallbackBucket = starBucket{0, "M Type (Red)", "#ff6b38"}

// ClassifyStar buckets a star by effective temperature using the spectral
// palette.
func ClassifyStar(temperatureKelvin float64) StarClass {
	return ClassifyStarWithPalette(temperatureKelvin, PaletteSpectral)
}

// ClassifyStarWithPalette buckets a star by effective temperature. The label
// never depends on the palette.
func ClassifyStarWithPalette(temperatureKelvin float64, p Palette) StarClass {
	bucket := fallbackBucket
	for _, b := range starBuckets {
		if temperatureKelvin >= b.minKelvin {
			bucket = b
			break
		}
	}

	class := StarClass{Label: bucket.label, DisplayColor: bucket.color}
	if p == PaletteMonochrome {
		class.DisplayColor = MonochromeColor
	}
	return class
}

// ParsePalette maps a user supplied palette name to a Palette, defaulting to
// the spectral palette.
func ParsePalette(name string) Palette {
	switch Palette(name) {
	case PaletteMonochrome:
		return PaletteMonochrome
	default:
		return PaletteSpectral
	}
}
