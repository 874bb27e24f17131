package orbit

import "math"

// VisualScale holds dimensionless scene sizes for the star and the planet.
type VisualScale struct {
	Star   float64 `json:"star_visual_scale"`
	Planet float64 `json:"planet_visual_scale"`
}

// NormalizeVisualScale exaggerates body sizes relative to the orbit so that
// both bodies are visible in a bounded scene, while keeping the real
// star/planet size ratio.
//
// The star is capped at MaxStarFractionOfOrbit of the orbit's visual radius.
// The planet is derived from the star and is NOT capped: a planet larger than
// its star renders larger.
func NormalizeVisualScale(orbitalRadiusAU, stellarRadiusSolarRadii, planetRadiusEarthRadii, targetOrbitVisualRadius, bodyVisibilityMultiplier float64) VisualScale {
	if !(targetOrbitVisualRadius > 0) || math.IsInf(targetOrbitVisualRadius, 1) {
		targetOrbitVisualRadius = DefaultTargetOrbitVisualRadius
	}
	if !(bodyVisibilityMultiplier > 0) || math.IsInf(bodyVisibilityMultiplier, 1) {
		bodyVisibilityMultiplier = DefaultBodyVisibilityMultiplier
	}

	orbitalRadiusAU = positiveOr(orbitalRadiusAU, MinDistanceAU)
	stellarRadiusAU := positiveOr(stellarRadiusSolarRadii/SunRadiiPerAU, MinRadiusAU)
	planetRadiusAU := positiveOr(planetRadiusEarthRadii/EarthRadiiPerAU, MinRadiusAU)

	ideal := (stellarRadiusAU / orbitalRadiusAU) * targetOrbitVisualRadius * bodyVisibilityMultiplier
	maxStar := targetOrbitVisualRadius * MaxStarFractionOfOrbit

	star := math.Min(ideal, maxStar)
	if !(star > 0) {
		// ideal underflowed for a vanishingly small star on a huge orbit
		star = math.Min(MinRadiusAU, maxStar)
	}
	planet := finitePositive(star*(planetRadiusAU/stellarRadiusAU), MinRadiusAU)

	return VisualScale{Star: star, Planet: planet}
}
