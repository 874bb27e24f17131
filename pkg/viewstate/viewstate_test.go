package viewstate

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func TestNew(t *testing.T) {
	s := New()
	if s.Form.OrbitalPeriod != "11.2" || s.Form.StellarTemperature != "3050" || s.Form.TransitDepth != "0" {
		t.Errorf("initial form = %+v", s.Form)
	}
	if s.ZoomLevel != DefaultZoom || s.MapSize != MapNormal || s.ViewMode != ViewIndividual {
		t.Errorf("initial view = %+v", s)
	}
	if s.LeftColumnWidth != DefaultColumnWidth {
		t.Errorf("LeftColumnWidth = %v", s.LeftColumnWidth)
	}
}

func TestReset(t *testing.T) {
	s := New()
	s.ApplyPreset(BuiltinPresets()[0])
	s.ZoomOut()
	s.ToggleMapSize()
	s.TogglePlaying()
	s.SelectedPlanet = "custom-planet-1"
	s.SetColumnWidth(70)

	s.Reset()

	want := Form{"365", "1.0", "5778", "1.0", "100", "13"}
	if s.Form != want {
		t.Errorf("Form = %+v, expected %+v", s.Form, want)
	}
	if s.ExoplanetName != CustomExoplanetName || s.ZoomLevel != DefaultZoom || s.MapSize != MapNormal || s.Playing || s.SelectedPlanet != "" {
		t.Errorf("state after reset = %+v", s)
	}
	if s.LeftColumnWidth != 70 {
		t.Errorf("LeftColumnWidth = %v, expected the layout to survive reset", s.LeftColumnWidth)
	}
}

func TestToggleMapSize(t *testing.T) {
	s := New()
	for _, want := range []MapSize{MapLarge, MapFullscreen, MapNormal, MapLarge} {
		s.ToggleMapSize()
		if s.MapSize != want {
			t.Fatalf("MapSize = %q, expected %q", s.MapSize, want)
		}
	}
}

func TestZoom(t *testing.T) {
	s := New()
	s.ZoomIn()
	if s.ZoomLevel != 10 {
		t.Errorf("ZoomLevel = %d, expected 10", s.ZoomLevel)
	}
	for i := 0; i < 20; i++ {
		s.ZoomIn()
	}
	if s.ZoomLevel != MinZoom {
		t.Errorf("ZoomLevel = %d, expected clamp at %d", s.ZoomLevel, MinZoom)
	}
	for i := 0; i < 40; i++ {
		s.ZoomOut()
	}
	if s.ZoomLevel != MaxZoom {
		t.Errorf("ZoomLevel = %d, expected clamp at %d", s.ZoomLevel, MaxZoom)
	}
}

func TestSetColumnWidth(t *testing.T) {
	tests := []struct {
		width    float64
		accepted bool
		expected float64
	}{
		{20, true, 20},
		{80, true, 80},
		{55.5, true, 55.5},
		{19.9, false, 50},
		{80.1, false, 50},
	}

	for _, tt := range tests {
		s := New()
		if got := s.SetColumnWidth(tt.width); got != tt.accepted {
			t.Errorf("SetColumnWidth(%v) = %v, expected %v", tt.width, got, tt.accepted)
		}
		if s.LeftColumnWidth != tt.expected {
			t.Errorf("LeftColumnWidth after %v = %v, expected %v", tt.width, s.LeftColumnWidth, tt.expected)
		}
	}
}

func TestSetField(t *testing.T) {
	s := New()
	s.ApplyPreset(BuiltinPresets()[2])
	if s.ExoplanetName != "TRAPPIST-1e" {
		t.Fatalf("ExoplanetName = %q", s.ExoplanetName)
	}

	if err := s.SetField("transit_depth", "4200"); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	if s.Form.TransitDepth != "4200" || s.ExoplanetName != CustomExoplanetName {
		t.Errorf("after edit: form = %+v name = %q", s.Form, s.ExoplanetName)
	}

	if err := s.SetField("albedo", "0.3"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("error = %v, expected ErrUnknownField", err)
	}
}

func TestParametersAndFeatures(t *testing.T) {
	s := New()
	s.ApplyPreset(BuiltinPresets()[2])

	p := s.Parameters()
	if p.OrbitalPeriodDays != 6.10 || p.StellarRadiusSolarRadii != 0.121 {
		t.Errorf("Parameters = %+v", p)
	}

	f := s.Features()
	if f.TransitDepthPPM != 5500 || f.TransitDurationHours != 0.93 {
		t.Errorf("Features = %+v", f)
	}

	s.Form.TransitDepth = "n/a"
	if f := s.Features(); f.TransitDepthPPM != 0 {
		t.Errorf("unparseable depth = %v, expected 0", f.TransitDepthPPM)
	}
}

func TestApply(t *testing.T) {
	presets := BuiltinPresets()
	s := New()

	steps := []Action{
		{Type: "preset", Preset: "hd 209458 b"},
		{Type: "zoom-in"},
		{Type: "toggle-map-size"},
		{Type: "column-width", Width: 90},
		{Type: "view-mode", Mode: ViewDataset},
		{Type: "toggle-playing"},
		{Type: "select-planet", Planet: "custom-planet-1"},
	}
	for _, a := range steps {
		if err := s.Apply(a, presets); err != nil {
			t.Fatalf("Apply(%+v): %v", a, err)
		}
	}

	if s.ExoplanetName != "HD 209458 b" || s.ZoomLevel != 10 || s.MapSize != MapLarge ||
		s.LeftColumnWidth != DefaultColumnWidth || s.ViewMode != ViewDataset || !s.Playing ||
		s.SelectedPlanet != "custom-planet-1" {
		t.Errorf("state = %+v", s)
	}

	if err := s.Apply(Action{Type: "preset", Preset: "Tatooine"}, presets); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("error = %v, expected ErrUnknownPreset", err)
	}
	if err := s.Apply(Action{Type: "warp"}, presets); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("error = %v, expected ErrUnknownAction", err)
	}
	if err := s.Apply(Action{Type: "view-mode", Mode: "gallery"}, presets); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("error = %v, expected ErrUnknownMode", err)
	}
}

func TestEncodeDecode(t *testing.T) {
	s := New()
	s.ApplyPreset(BuiltinPresets()[4])
	s.ZoomOut()

	data, err := s.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if *got != *s {
		t.Errorf("round trip = %+v, expected %+v", got, *s)
	}
}

func TestFormDecodeTemperatureNames(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"form name", `{"stellar_temperature":"5518"}`, "5518"},
		{"batch name", `{"stellar_effective_temperature":"5518"}`, "5518"},
		{"both names", `{"stellar_effective_temperature":"4000","stellar_temperature":"5518"}`, "5518"},
		{"absent", `{"orbital_period":"42"}`, "3050"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New().Form
			if err := json.Unmarshal([]byte(tt.body), &f); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if f.StellarTemperature != tt.expected {
				t.Errorf("StellarTemperature = %q, expected %q", f.StellarTemperature, tt.expected)
			}
			if f.StellarRadius != "0.14" {
				t.Errorf("untouched StellarRadius = %q", f.StellarRadius)
			}
		})
	}
}

func TestFormDecodeMsgpack(t *testing.T) {
	data, err := msgpack.Marshal(map[string]string{
		"orbital_period":                "289.9",
		"stellar_effective_temperature": "5518",
		"unknown":                       "x",
	})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	f := New().Form
	if err := msgpack.Unmarshal(data, &f); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if f.OrbitalPeriod != "289.9" || f.StellarTemperature != "5518" || f.PlanetRadius != "1.02" {
		t.Errorf("form = %+v", f)
	}
}
