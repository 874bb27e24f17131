package orbit

// Physical constants used to bring stellar and planetary radii onto the same
// distance scale as the orbit.
const (
	AUInKm          = 149597870.7
	SunRadiusKm     = 696340.0
	EarthRadiusKm   = 6371.0
	SunRadiiPerAU   = AUInKm / SunRadiusKm
	EarthRadiiPerAU = AUInKm / EarthRadiusKm

	// DaysPerYear is the Julian year used to convert orbital periods.
	DaysPerYear = 365.25
)

// Degenerate inputs are replaced with these before any division or power.
const (
	MinDistanceAU = 1e-6
	MinRadiusAU   = 1e-9
	MinPeriodDays = 1e-6
	MinRadius     = 1e-9
)

// Nominal Sun-Earth values used when a form field is blank or unparseable.
const (
	DefaultOrbitalPeriodDays        = 365.0
	DefaultPlanetRadiusEarthRadii   = 1.0
	DefaultStellarTemperatureKelvin = 5778.0
	DefaultStellarRadiusSolarRadii  = 1.0
)

// Scene defaults. The orbit is always drawn with the same visual radius and
// bodies are exaggerated by the visibility multiplier.
const (
	DefaultTargetOrbitVisualRadius  = 4.0
	DefaultBodyVisibilityMultiplier = 20.0
	MaxStarFractionOfOrbit          = 0.8

	// AnimationTimeScale compresses one orbital day into this many scene seconds.
	AnimationTimeScale = 0.1
)
