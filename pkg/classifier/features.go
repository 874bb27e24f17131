package classifier

import (
	"math"
	"strconv"
	"strings"
)

// DefaultFeatureNames are the column names the batch backend expects, in the
// order the single prediction endpoint reads its positional inputs.
var DefaultFeatureNames = []string{
	"orbital_period",
	"planet_radius",
	"stellar_effective_temperature",
	"stellar_radius",
	"transit_depth",
	"transit_duration",
}

// FeatureVector is the ordered input of one prediction.
type FeatureVector struct {
	OrbitalPeriodDays        float64 `json:"orbital_period_days"`
	PlanetRadiusEarthRadii   float64 `json:"planet_radius_earth_radii"`
	StellarTemperatureKelvin float64 `json:"stellar_temperature_kelvin"`
	StellarRadiusSolarRadii  float64 `json:"stellar_radius_solar_radii"`
	TransitDepthPPM          float64 `json:"transit_depth_ppm"`
	TransitDurationHours     float64 `json:"transit_duration_hours"`
}

// ParseFeatures builds a FeatureVector from raw form values. Anything that is
// not a finite number becomes 0, the fill value the classifier uses for
// missing columns.
func ParseFeatures(period, planetRadius, temperature, stellarRadius, depth, duration string) FeatureVector {
	return FeatureVector{
		OrbitalPeriodDays:        parseFeature(period),
		PlanetRadiusEarthRadii:   parseFeature(planetRadius),
		StellarTemperatureKelvin: parseFeature(temperature),
		StellarRadiusSolarRadii:  parseFeature(stellarRadius),
		TransitDepthPPM:          parseFeature(depth),
		TransitDurationHours:     parseFeature(duration),
	}
}

func parseFeature(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Inputs returns the vector in wire order.
func (f FeatureVector) Inputs() []float64 {
	return []float64{
		f.OrbitalPeriodDays,
		f.PlanetRadiusEarthRadii,
		f.StellarTemperatureKelvin,
		f.StellarRadiusSolarRadii,
		f.TransitDepthPPM,
		f.TransitDurationHours,
	}
}

// Named maps the vector onto column names. names must have six entries;
// DefaultFeatureNames is used otherwise.
func (f FeatureVector) Named(names []string) map[string]float64 {
	if len(names) != len(DefaultFeatureNames) {
		names = DefaultFeatureNames
	}
	m := make(map[string]float64, len(names))
	for i, v := range f.Inputs() {
		m[names[i]] = v
	}
	return m
}
