package orbit

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PhysicalParameters are the four inputs of one orbit calculation.
type PhysicalParameters struct {
	OrbitalPeriodDays        float64 `json:"orbital_period_days"`
	PlanetRadiusEarthRadii   float64 `json:"planet_radius_earth_radii"`
	StellarTemperatureKelvin float64 `json:"stellar_temperature_kelvin"`
	StellarRadiusSolarRadii  float64 `json:"stellar_radius_solar_radii"`
}

// DefaultParameters returns the nominal Sun-Earth system.
func DefaultParameters() PhysicalParameters {
	return PhysicalParameters{
		OrbitalPeriodDays:        DefaultOrbitalPeriodDays,
		PlanetRadiusEarthRadii:   DefaultPlanetRadiusEarthRadii,
		StellarTemperatureKelvin: DefaultStellarTemperatureKelvin,
		StellarRadiusSolarRadii:  DefaultStellarRadiusSolarRadii,
	}
}

// ParseParameters converts raw form values into PhysicalParameters. Each field
// is defaulted on its own when it is blank, unparseable, non-finite or zero.
// Negative numbers are passed through and guarded later by the estimators.
func ParseParameters(period, planetRadius, temperature, stellarRadius string) PhysicalParameters {
	return PhysicalParameters{
		OrbitalPeriodDays:        ParseOrDefault(period, DefaultOrbitalPeriodDays),
		PlanetRadiusEarthRadii:   ParseOrDefault(planetRadius, DefaultPlanetRadiusEarthRadii),
		StellarTemperatureKelvin: ParseOrDefault(temperature, DefaultStellarTemperatureKelvin),
		StellarRadiusSolarRadii:  ParseOrDefault(stellarRadius, DefaultStellarRadiusSolarRadii),
	}
}

// ParseOrDefault parses s as a float64 and returns def when s does not hold a
// usable non-zero number.
func ParseOrDefault(s string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// SceneOptions controls how a resolved orbit is mapped into scene space.
type SceneOptions struct {
	TargetOrbitVisualRadius  float64 `json:"target_orbit_visual_radius"`
	BodyVisibilityMultiplier float64 `json:"body_visibility_multiplier"`
	Palette                  Palette `json:"palette"`
}

// DefaultSceneOptions returns the options used by the web viewer.
func DefaultSceneOptions() SceneOptions {
	return SceneOptions{
		TargetOrbitVisualRadius:  DefaultTargetOrbitVisualRadius,
		BodyVisibilityMultiplier: DefaultBodyVisibilityMultiplier,
		Palette:                  PaletteSpectral,
	}
}

// DerivedOrbit is everything the viewer needs to place one star and one planet.
type DerivedOrbit struct {
	Parameters        PhysicalParameters `json:"parameters"`
	OrbitalRadiusAU   float64            `json:"orbital_radius_au"`
	StellarRadiusAU   float64            `json:"stellar_radius_au"`
	PlanetRadiusAU    float64            `json:"planet_radius_au"`
	StarClass         StarClass          `json:"star_class"`
	StarVisualScale   float64            `json:"star_visual_scale"`
	PlanetVisualScale float64            `json:"planet_visual_scale"`
	AUPerGridSquare   float64            `json:"au_per_grid_square"`
}

// Resolve derives the orbit, star class and visual scales for p. It has no
// hidden state: identical inputs give bit-identical outputs.
func Resolve(p PhysicalParameters, opts SceneOptions) DerivedOrbit {
	orbitalRadiusAU := EstimateOrbitalRadiusAU(p.OrbitalPeriodDays, p.StellarRadiusSolarRadii)
	scale := NormalizeVisualScale(orbitalRadiusAU, p.StellarRadiusSolarRadii, p.PlanetRadiusEarthRadii,
		opts.TargetOrbitVisualRadius, opts.BodyVisibilityMultiplier)

	return DerivedOrbit{
		Parameters:        p,
		OrbitalRadiusAU:   orbitalRadiusAU,
		StellarRadiusAU:   p.StellarRadiusSolarRadii / SunRadiiPerAU,
		PlanetRadiusAU:    p.PlanetRadiusEarthRadii / EarthRadiiPerAU,
		StarClass:         ClassifyStarWithPalette(p.StellarTemperatureKelvin, opts.Palette),
		StarVisualScale:   scale.Star,
		PlanetVisualScale: scale.Planet,
		AUPerGridSquare:   AUPerGridSquare(orbitalRadiusAU, opts.TargetOrbitVisualRadius),
	}
}

// AUPerGridSquare returns how many AU one unit of scene space represents when
// an orbit of orbitalRadiusAU is drawn with the given visual radius.
func AUPerGridSquare(orbitalRadiusAU, targetOrbitVisualRadius float64) float64 {
	if !(targetOrbitVisualRadius > 0) {
		targetOrbitVisualRadius = DefaultTargetOrbitVisualRadius
	}
	return positiveOr(orbitalRadiusAU, MinDistanceAU) / targetOrbitVisualRadius
}

// FormatAUScale renders a distance for the scale legend, switching to more
// decimals and then to exponent notation as the value shrinks.
func FormatAUScale(au float64) string {
	switch {
	case au >= 0.1:
		return fmt.Sprintf("%.2f AU", au)
	case au >= 0.001:
		return fmt.Sprintf("%.4f AU", au)
	default:
		return trimExponent(strconv.FormatFloat(au, 'e', 1, 64)) + " AU"
	}
}

// trimExponent drops leading zeros from the exponent: 1.0e-04 becomes 1.0e-4.
func trimExponent(s string) string {
	i := strings.IndexByte(s, 'e')
	if i < 0 || i+2 >= len(s) {
		return s
	}
	mantissa, sign, digits := s[:i+1], s[i+1:i+2], strings.TrimLeft(s[i+2:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + sign + digits
}
