// Package preset persists EffectChain and controller configuration as
// pretty-printed JSON (spec §6: "EffectChain + metadata as JSON
// (pretty-printed) via preset library; controller elements/mappings as
// JSON"). It does not prescribe a preset library's on-disk directory
// layout or naming convention — that adapter concern is left to the
// caller, per spec.md's Non-goals.
package preset

import (
	"encoding/json"

	"github.com/mrlongnight/mapmap/internal/effect"
)

// Metadata describes a preset independent of its effect chain contents.
type Metadata struct {
	Name        string `json:"name"`
	Author      string `json:"author,omitempty"`
	Description string `json:"description,omitempty"`
	Version     int    `json:"version"`
}

// Preset bundles an EffectChain with its descriptive metadata — the
// unit a preset library adapter reads and writes as one file.
type Preset struct {
	Metadata Metadata
	Chain    *effect.Chain
}

type presetJSON struct {
	Metadata Metadata      `json:"metadata"`
	Chain    *effect.Chain `json:"chain"`
}

// MarshalJSON emits Metadata and Chain together, pretty-printed. Chain's
// own MarshalJSON is invoked by the encoder and its output is compacted
// and re-indented alongside Metadata, so the result is uniformly
// indented regardless of Chain's own indent choice.
func (p *Preset) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(presetJSON{Metadata: p.Metadata, Chain: p.Chain}, "", "  ")
}

// UnmarshalJSON restores a Preset from its on-disk form.
func (p *Preset) UnmarshalJSON(data []byte) error {
	var in presetJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	p.Metadata = in.Metadata
	if in.Chain == nil {
		in.Chain = effect.NewChain()
	}
	p.Chain = in.Chain
	return nil
}
