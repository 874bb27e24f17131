// Package viewstate holds the interactive state of one viewer session: the
// form, the map layout and the selected view. State is a plain value that is
// passed around and serialized; nothing here is global.
package viewstate

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chrissnell/eukleides/pkg/classifier"
	"github.com/chrissnell/eukleides/pkg/orbit"
	"github.com/vmihailenco/msgpack/v5"
)

// MapSize is the size of the 3D map panel.
type MapSize string

const (
	MapNormal     MapSize = "normal"
	MapLarge      MapSize = "large"
	MapFullscreen MapSize = "fullscreen"
)

// ViewMode selects between single system analysis and batch analysis.
type ViewMode string

const (
	ViewIndividual ViewMode = "individual"
	ViewDataset    ViewMode = "dataset"
)

// Zoom and layout limits.
const (
	DefaultZoom        = 12
	ZoomStep           = 2
	MinZoom            = 3
	MaxZoom            = 50
	DefaultColumnWidth = 50.0
	MinColumnWidth     = 20.0
	MaxColumnWidth     = 80.0

	CustomExoplanetName = "Custom Exoplanet"
)

var (
	ErrUnknownField  = errors.New("unknown form field")
	ErrUnknownPreset = errors.New("unknown preset")
	ErrUnknownMode   = errors.New("unknown view mode")
)

// Form is the raw text of the six input fields.
type Form struct {
	OrbitalPeriod      string `json:"orbital_period" yaml:"orbital_period" msgpack:"orbital_period"`
	PlanetRadius       string `json:"planet_radius" yaml:"planet_radius" msgpack:"planet_radius"`
	StellarTemperature string `json:"stellar_temperature" yaml:"stellar_temperature" msgpack:"stellar_temperature"`
	StellarRadius      string `json:"stellar_radius" yaml:"stellar_radius" msgpack:"stellar_radius"`
	TransitDepth       string `json:"transit_depth" yaml:"transit_depth" msgpack:"transit_depth"`
	TransitDuration    string `json:"transit_duration" yaml:"transit_duration" msgpack:"transit_duration"`
}

// Parameters parses the four physical fields for the resolver.
func (f Form) Parameters() orbit.PhysicalParameters {
	return orbit.ParseParameters(f.OrbitalPeriod, f.PlanetRadius, f.StellarTemperature, f.StellarRadius)
}

// Features parses all six fields for the classifier.
func (f Form) Features() classifier.FeatureVector {
	return classifier.ParseFeatures(f.OrbitalPeriod, f.PlanetRadius, f.StellarTemperature,
		f.StellarRadius, f.TransitDepth, f.TransitDuration)
}

// field returns a pointer to the field called name.
func (f *Form) field(name string) (*string, error) {
	switch name {
	case "orbital_period":
		return &f.OrbitalPeriod, nil
	case "planet_radius":
		return &f.PlanetRadius, nil
	case "stellar_temperature", "stellar_effective_temperature":
		return &f.StellarTemperature, nil
	case "stellar_radius":
		return &f.StellarRadius, nil
	case "transit_depth":
		return &f.TransitDepth, nil
	case "transit_duration":
		return &f.TransitDuration, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// UnmarshalJSON fills the fields present in data, accepting the batch
// backend's stellar_effective_temperature as well as stellar_temperature.
// Fields missing from data keep their current value.
func (f *Form) UnmarshalJSON(data []byte) error {
	var values map[string]*string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	f.assign(values)
	return nil
}

// DecodeMsgpack is the MessagePack counterpart of UnmarshalJSON.
func (f *Form) DecodeMsgpack(dec *msgpack.Decoder) error {
	var values map[string]*string
	if err := dec.Decode(&values); err != nil {
		return err
	}
	f.assign(values)
	return nil
}

// assign copies decoded values onto the form. Unknown keys are ignored and
// stellar_temperature wins over stellar_effective_temperature.
func (f *Form) assign(values map[string]*string) {
	if v := values["stellar_effective_temperature"]; v != nil {
		f.StellarTemperature = *v
	}
	for name, v := range values {
		if v == nil || name == "stellar_effective_temperature" {
			continue
		}
		if p, err := f.field(name); err == nil {
			*p = *v
		}
	}
}

// State is one viewer session.
type State struct {
	Form             Form     `json:"form" msgpack:"form"`
	ExoplanetName    string   `json:"exoplanet_name" msgpack:"exoplanet_name"`
	SelectedPlanet   string   `json:"selected_planet,omitempty" msgpack:"selected_planet,omitempty"`
	MapSize          MapSize  `json:"map_size" msgpack:"map_size"`
	ZoomLevel        int      `json:"zoom_level" msgpack:"zoom_level"`
	LeftColumnWidth  float64  `json:"left_column_width" msgpack:"left_column_width"`
	SidebarCollapsed bool     `json:"sidebar_collapsed" msgpack:"sidebar_collapsed"`
	Playing          bool     `json:"playing" msgpack:"playing"`
	ViewMode         ViewMode `json:"view_mode" msgpack:"view_mode"`
}

// New returns the state a fresh session opens with: Proxima Centauri b
// without transit data.
func New() *State {
	return &State{
		Form:            Form{"11.2", "1.02", "3050", "0.14", "0", "0"},
		ExoplanetName:   CustomExoplanetName,
		MapSize:         MapNormal,
		ZoomLevel:       DefaultZoom,
		LeftColumnWidth: DefaultColumnWidth,
		ViewMode:        ViewIndividual,
	}
}

// Reset restores the Sun-Earth form and the default map view. Layout choices
// such as the column width and the sidebar survive.
func (s *State) Reset() {
	s.Form = Form{"365", "1.0", "5778", "1.0", "100", "13"}
	s.SelectedPlanet = ""
	s.MapSize = MapNormal
	s.Playing = false
	s.ZoomLevel = DefaultZoom
	s.ExoplanetName = CustomExoplanetName
}

// ApplyPreset fills the form from p and takes its name.
func (s *State) ApplyPreset(p Preset) {
	s.Form = p.Form
	s.ExoplanetName = p.Name
}

// SetField edits one form field. Any manual edit turns the system into a
// custom one.
func (s *State) SetField(name, value string) error {
	f, err := s.Form.field(name)
	if err != nil {
		return err
	}
	*f = value
	s.ExoplanetName = CustomExoplanetName
	return nil
}

// ToggleMapSize cycles normal, large, fullscreen and back to normal.
func (s *State) ToggleMapSize() {
	switch s.MapSize {
	case MapNormal:
		s.MapSize = MapLarge
	case MapLarge:
		s.MapSize = MapFullscreen
	default:
		s.MapSize = MapNormal
	}
}

// ZoomIn moves the camera closer.
func (s *State) ZoomIn() {
	s.ZoomLevel = max(MinZoom, s.ZoomLevel-ZoomStep)
}

// ZoomOut moves the camera away.
func (s *State) ZoomOut() {
	s.ZoomLevel = min(MaxZoom, s.ZoomLevel+ZoomStep)
}

// SetColumnWidth resizes the left column. Widths outside
// [MinColumnWidth, MaxColumnWidth] are ignored and false is returned.
func (s *State) SetColumnWidth(percent float64) bool {
	if !(percent >= MinColumnWidth && percent <= MaxColumnWidth) {
		return false
	}
	s.LeftColumnWidth = percent
	return true
}

func (s *State) TogglePlaying() { s.Playing = !s.Playing }

func (s *State) ToggleSidebar() { s.SidebarCollapsed = !s.SidebarCollapsed }

// SetViewMode switches between individual and dataset analysis.
func (s *State) SetViewMode(mode ViewMode) error {
	switch mode {
	case ViewIndividual, ViewDataset:
		s.ViewMode = mode
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

// Parameters returns the resolver inputs for the current form.
func (s *State) Parameters() orbit.PhysicalParameters {
	return s.Form.Parameters()
}

// Features returns the classifier inputs for the current form.
func (s *State) Features() classifier.FeatureVector {
	return s.Form.Features()
}

// Encode returns the state as a msgpack blob.
func (s *State) Encode() ([]byte, error) {
	return msgpack.Marshal(s)
}

// Decode parses a blob produced by Encode.
func Decode(data []byte) (*State, error) {
	s := New()
	if err := msgpack.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("error decoding view state: %w", err)
	}
	return s, nil
}
