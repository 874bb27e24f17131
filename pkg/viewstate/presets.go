package viewstate

import "strings"

// Preset is a named, well known system that fills the whole form.
type Preset struct {
	Name string `json:"name" yaml:"name" msgpack:"name"`
	Form Form   `json:"form" yaml:"form" msgpack:"form"`
}

// BuiltinPresets returns the catalog offered when no presets are configured.
func BuiltinPresets() []Preset {
	return []Preset{
		{"Kepler-22b", Form{"289.9", "2.38", "5518", "0.98", "492", "0"}},
		{"Proxima Centauri b", Form{"11.2", "1.02", "3050", "0.14", "0", "0"}},
		{"TRAPPIST-1e", Form{"6.10", "0.92", "2559", "0.121", "5500", "0.93"}},
		{"HD 209458 b", Form{"3.52", "15.5", "6065", "1.15", "15000", "2"}},
		{"51 Pegasi b", Form{"4.23", "14.3", "5793", "1.24", "0", "0"}},
		{"Kepler-452b", Form{"384.8", "1.6", "5757", "1.11", "200", "0"}},
		{"GJ 1214b", Form{"1.58", "2.7", "3026", "0.21", "14000", "1"}},
	}
}

// FindPreset looks a preset up by name, ignoring case.
func FindPreset(presets []Preset, name string) (Preset, bool) {
	for _, p := range presets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}
