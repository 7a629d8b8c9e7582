package preset

import (
	"encoding/json"

	"github.com/mrlongnight/mapmap/internal/param"
)

// ElementKind names the widget shape a controller element renders as —
// persisted only; internal/preset does not render a skin (spec.md's
// Non-goals exclude "controller skin rendering").
type ElementKind int

const (
	ElementFader ElementKind = iota
	ElementKnob
	ElementButton
	ElementXYPad
)

func (k ElementKind) String() string {
	switch k {
	case ElementFader:
		return "fader"
	case ElementKnob:
		return "knob"
	case ElementButton:
		return "button"
	case ElementXYPad:
		return "xy_pad"
	default:
		return "unknown"
	}
}

func elementKindFromString(s string) ElementKind {
	switch s {
	case "knob":
		return ElementKnob
	case "button":
		return ElementButton
	case "xy_pad":
		return ElementXYPad
	default:
		return ElementFader
	}
}

// Element positions one named control surface widget, bound to a
// parameter path the ParameterFabric's Fabric.Get reads.
type Element struct {
	ID     string
	Kind   ElementKind
	Label  string
	Path   string
	X      float64
	Y      float64
	Width  float64
	Height float64
}

type elementJSON struct {
	ID     string  `json:"id"`
	Kind   string  `json:"kind"`
	Label  string  `json:"label,omitempty"`
	Path   string  `json:"path"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (e Element) MarshalJSON() ([]byte, error) {
	return json.Marshal(elementJSON{
		ID: e.ID, Kind: e.Kind.String(), Label: e.Label, Path: e.Path,
		X: e.X, Y: e.Y, Width: e.Width, Height: e.Height,
	})
}

func (e *Element) UnmarshalJSON(data []byte) error {
	var in elementJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*e = Element{
		ID: in.ID, Kind: elementKindFromString(in.Kind), Label: in.Label, Path: in.Path,
		X: in.X, Y: in.Y, Width: in.Width, Height: in.Height,
	}
	return nil
}

// ControllerPreset bundles a control surface's element layout with the
// parameter-fabric mappings those elements (or audio/MIDI/OSC sources
// feeding the same paths) drive (spec §6: "controller elements/mappings
// as JSON").
type ControllerPreset struct {
	Elements []Element
	Mappings []param.Mapping
}

type controllerJSON struct {
	Elements []Element      `json:"elements"`
	Mappings []param.Mapping `json:"mappings"`
}

func (c *ControllerPreset) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(controllerJSON{Elements: c.Elements, Mappings: c.Mappings}, "", "  ")
}

func (c *ControllerPreset) UnmarshalJSON(data []byte) error {
	var in controllerJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	c.Elements = in.Elements
	c.Mappings = in.Mappings
	return nil
}
