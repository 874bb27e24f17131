package orbit

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/kepler"
	"github.com/soniakeys/unit"
)

// BodyKind tells the renderer which kind of sphere to draw.
type BodyKind string

const (
	BodyStar   BodyKind = "star"
	BodyPlanet BodyKind = "planet"
)

// PlanetColor is the display color of every planet.
const PlanetColor = "#ffffff"

// Body is a render placement record for one sphere in the scene.
type Body struct {
	Kind        BodyKind   `json:"kind"`
	Label       string     `json:"label"`
	Position    [3]float64 `json:"position"`
	VisualScale float64    `json:"visual_scale"`
	Color       string     `json:"color"`
}

// Scene is the full placement handed to the renderer.
type Scene struct {
	Star              Body    `json:"star"`
	Planet            Body    `json:"planet"`
	OrbitPathRadius   float64 `json:"orbit_path_radius"`
	AUPerGridSquare   float64 `json:"au_per_grid_square"`
	ScaleLegend       string  `json:"scale_legend"`
	StarClassLabel    string  `json:"star_class_label"`
	OrbitalRadiusAU   float64 `json:"orbital_radius_au"`
	OrbitalPeriodDays float64 `json:"orbital_period_days"`
}

// BuildScene places a resolved orbit in scene space: the star at the origin
// and the planet on the +X axis at the orbit's visual radius.
func BuildScene(d DerivedOrbit, opts SceneOptions) Scene {
	target := opts.TargetOrbitVisualRadius
	if !(target > 0) || math.IsInf(target, 1) {
		target = DefaultTargetOrbitVisualRadius
	}

	planetColor := PlanetColor
	if opts.Palette == PaletteMonochrome {
		planetColor = MonochromeColor
	}

	return Scene{
		Star: Body{
			Kind:        BodyStar,
			Label:       d.StarClass.Label,
			VisualScale: d.StarVisualScale,
			Color:       d.StarClass.DisplayColor,
		},
		Planet: Body{
			Kind:        BodyPlanet,
			Label:       "Planet",
			Position:    [3]float64{target, 0, 0},
			VisualScale: d.PlanetVisualScale,
			Color:       planetColor,
		},
		OrbitPathRadius:   target,
		AUPerGridSquare:   d.AUPerGridSquare,
		ScaleLegend:       FormatAUScale(d.AUPerGridSquare),
		StarClassLabel:    d.StarClass.Label,
		OrbitalRadiusAU:   d.OrbitalRadiusAU,
		OrbitalPeriodDays: d.Parameters.OrbitalPeriodDays,
	}
}

// AngularSpeed returns the planet's mean motion in radians per scene second.
func AngularSpeed(periodDays float64) float64 {
	return 2 * math.Pi / (positiveOr(periodDays, MinPeriodDays) * AnimationTimeScale)
}

// PlanetPosition returns where the animated planet sits after elapsedSeconds
// of scene time. The orbit lies in the XZ plane with the star at a focus.
// Eccentricities outside [0, 1) are treated as circular. A bad period leaves
// the planet at its starting point and non-finite results collapse to the
// origin.
func PlanetPosition(orbitVisualRadius, periodDays, elapsedSeconds, eccentricity float64) [3]float64 {
	if math.IsNaN(orbitVisualRadius) || math.IsNaN(elapsedSeconds) || math.IsInf(elapsedSeconds, 0) {
		return [3]float64{}
	}
	if !(periodDays > 0) || math.IsInf(periodDays, 1) {
		return [3]float64{orbitVisualRadius, 0, 0}
	}

	m := math.Mod(AngularSpeed(periodDays)*elapsedSeconds, 2*math.Pi)

	theta, r := m, orbitVisualRadius
	if eccentricity > 0 && eccentricity < 1 {
		E, err := kepler.Kepler2(eccentricity, unit.Angle(m), 12)
		if err != nil {
			// Newton's method can stall for e near 1; bisection always converges
			E = kepler.Kepler3(eccentricity, unit.Angle(m))
		}
		theta = kepler.True(E, eccentricity).Rad()
		r = kepler.Radius(E, eccentricity, orbitVisualRadius)
	}

	pos := [3]float64{r * math.Cos(theta), 0, r * math.Sin(theta)}
	for _, v := range pos {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return [3]float64{}
		}
	}
	return pos
}

// TransitPhase returns the fraction of an orbit, in [0, 1), completed at time
// at since a transit observed at epoch.
func TransitPhase(periodDays float64, epoch, at time.Time) float64 {
	periodDays = positiveOr(periodDays, MinPeriodDays)
	elapsed := julian.TimeToJD(at) - julian.TimeToJD(epoch)
	phase := math.Mod(elapsed/periodDays, 1)
	if phase < 0 {
		phase++
	}
	if phase >= 1 {
		phase = 0
	}
	return phase
}
