// Package orbit resolves the geometry of a single star / single planet system
// from four physical inputs: orbital period, planet radius, stellar effective
// temperature and stellar radius. Everything here is a pure function; the
// results feed a 3D renderer and carry no physical meaning after visual scale
// normalization.
package orbit

import (
	"math"

	"github.com/soniakeys/meeus/v3/base"
)

// EstimateOrbitalRadiusAU returns the semi-major axis of a planet's orbit in
// astronomical units using Kepler's third law in solar units. The stellar mass
// is not an input, so it is estimated from the stellar radius with the
// empirical main-sequence relation M = R^1.25.
//
// Zero, negative or non-finite inputs are replaced with a small epsilon so the
// result is always finite and positive.
func EstimateOrbitalRadiusAU(periodDays, stellarRadiusSolarRadii float64) float64 {
	periodDays = positiveOr(periodDays, MinPeriodDays)
	stellarRadiusSolarRadii = positiveOr(stellarRadiusSolarRadii, MinRadius)

	periodYears := periodDays / DaysPerYear
	stellarMassSolarMasses := math.Pow(stellarRadiusSolarRadii, 1.25)

	aCubed := stellarMassSolarMasses * periodYears * periodYears
	return finitePositive(math.Cbrt(aCubed), MinDistanceAU)
}

// EstimateOrbitalRadiusGaussian returns the semi-major axis in AU from the
// Newtonian form of Kepler's third law expressed with the Gaussian
// gravitational constant (AU, days, solar masses). The planet's mass is
// neglected.
//
// This is the alternative to EstimateOrbitalRadiusAU for callers that know the
// stellar mass. The resolver does not use it.
func EstimateOrbitalRadiusGaussian(periodDays, stellarMassSolarMasses float64) float64 {
	periodDays = positiveOr(periodDays, MinPeriodDays)
	stellarMassSolarMasses = positiveOr(stellarMassSolarMasses, MinRadius)

	// n = k*sqrt(M)/a^1.5 and P = 2*pi/n
	aThreeHalves := base.K * math.Sqrt(stellarMassSolarMasses) * periodDays / (2 * math.Pi)
	return finitePositive(math.Pow(aThreeHalves, 2.0/3.0), MinDistanceAU)
}

// positiveOr returns v when it is a finite number greater than zero and eps
// otherwise.
func positiveOr(v, eps float64) float64 {
	if v > 0 && !math.IsInf(v, 1) {
		return v
	}
	return eps
}

// finitePositive clamps a computed value into (0, MaxFloat64].
func finitePositive(v, eps float64) float64 {
	switch {
	case math.IsInf(v, 1):
		return math.MaxFloat64
	case math.IsNaN(v), v <= 0:
		return eps
	}
	return v
}
