package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/chrissnell/eukleides/pkg/orbit"
)

func main() {
	var (
		period        = flag.String("period", "365", "Orbital period in days")
		planetRadius  = flag.String("planet-radius", "1.0", "Planet radius in Earth radii")
		temperature   = flag.String("temperature", "5778", "Stellar effective temperature in Kelvin")
		stellarRadius = flag.String("stellar-radius", "1.0", "Stellar radius in solar radii")
		palette       = flag.String("palette", "spectral", "Star palette: spectral or monochrome")
		target        = flag.Float64("target", orbit.DefaultTargetOrbitVisualRadius, "Visual radius of the drawn orbit")
		multiplier    = flag.Float64("multiplier", orbit.DefaultBodyVisibilityMultiplier, "Body visibility multiplier")
		eccentricity  = flag.Float64("eccentricity", 0, "Orbital eccentricity used for the animated position")
		elapsed       = flag.Float64("t", 0, "Scene seconds since the animation started")
		epochStr      = flag.String("epoch", "", "Time of an observed transit (RFC3339) to report the current orbital phase")
	)
	flag.Parse()

	p := orbit.ParseParameters(*period, *planetRadius, *temperature, *stellarRadius)
	opts := orbit.SceneOptions{
		TargetOrbitVisualRadius:  *target,
		BodyVisibilityMultiplier: *multiplier,
		Palette:                  orbit.ParsePalette(*palette),
	}
	d := orbit.Resolve(p, opts)
	scene := orbit.BuildScene(d, opts)
	pos := orbit.PlanetPosition(scene.OrbitPathRadius, p.OrbitalPeriodDays, *elapsed, *eccentricity)

	fmt.Printf("Orbit for P=%g d, Rp=%g R⊕, Teff=%g K, R*=%g R☉\n",
		p.OrbitalPeriodDays, p.PlanetRadiusEarthRadii, p.StellarTemperatureKelvin, p.StellarRadiusSolarRadii)
	fmt.Printf("  Orbital radius:  %.4f AU\n", d.OrbitalRadiusAU)
	fmt.Printf("  Star class:      %s (%s)\n", d.StarClass.Label, d.StarClass.DisplayColor)
	fmt.Printf("  Star scale:      %.4f\n", d.StarVisualScale)
	fmt.Printf("  Planet scale:    %.4f\n", d.PlanetVisualScale)
	fmt.Printf("  Grid square:     %s\n", scene.ScaleLegend)
	fmt.Printf("  Angular speed:   %.4f rad/s\n", orbit.AngularSpeed(p.OrbitalPeriodDays))
	fmt.Printf("  Position at t=%g: (%.3f, %.3f, %.3f)\n", *elapsed, pos[0], pos[1], pos[2])

	if *epochStr != "" {
		epoch, err := time.Parse(time.RFC3339, *epochStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing epoch: %v\n", err)
			os.Exit(1)
		}
		now := time.Now().UTC()
		fmt.Printf("  Phase now:       %.4f (since transit at %s)\n", orbit.TransitPhase(p.OrbitalPeriodDays, epoch, now), epoch.Format(time.RFC3339))
	}
}
