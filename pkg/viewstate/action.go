package viewstate

import (
	"errors"
	"fmt"
)

var ErrUnknownAction = errors.New("unknown view state action")

// Action is a single user interaction applied to a State.
type Action struct {
	Type   string   `json:"type" msgpack:"type"`
	Field  string   `json:"field,omitempty" msgpack:"field,omitempty"`
	Value  string   `json:"value,omitempty" msgpack:"value,omitempty"`
	Preset string   `json:"preset,omitempty" msgpack:"preset,omitempty"`
	Width  float64  `json:"width,omitempty" msgpack:"width,omitempty"`
	Mode   ViewMode `json:"mode,omitempty" msgpack:"mode,omitempty"`
	Planet string   `json:"planet,omitempty" msgpack:"planet,omitempty"`
}

// Apply performs a on s. presets is the catalog used by "preset" actions.
func (s *State) Apply(a Action, presets []Preset) error {
	switch a.Type {
	case "reset":
		s.Reset()
	case "preset":
		p, ok := FindPreset(presets, a.Preset)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownPreset, a.Preset)
		}
		s.ApplyPreset(p)
	case "set-field":
		return s.SetField(a.Field, a.Value)
	case "toggle-map-size":
		s.ToggleMapSize()
	case "zoom-in":
		s.ZoomIn()
	case "zoom-out":
		s.ZoomOut()
	case "column-width":
		s.SetColumnWidth(a.Width)
	case "toggle-playing":
		s.TogglePlaying()
	case "toggle-sidebar":
		s.ToggleSidebar()
	case "view-mode":
		return s.SetViewMode(a.Mode)
	case "select-planet":
		s.SelectedPlanet = a.Planet
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
	}
	return nil
}
