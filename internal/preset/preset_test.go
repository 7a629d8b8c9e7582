package preset

import (
	"bytes"
	"testing"

	"github.com/mrlongnight/mapmap/internal/effect"
	"github.com/mrlongnight/mapmap/internal/param"
)

func TestPresetJSONRoundTrip(t *testing.T) {
	chain := effect.NewChain()
	id := chain.Add(effect.KindBlur)
	e, _ := chain.GetMut(id)
	e.Parameters.Set("radius", 3)

	p := &Preset{Metadata: Metadata{Name: "Test", Version: 1}, Chain: chain}

	data, err := p.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var restored Preset
	if err := restored.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if restored.Metadata.Name != "Test" || restored.Metadata.Version != 1 {
		t.Fatalf("metadata mismatch: %+v", restored.Metadata)
	}

	data2, err := restored.MarshalJSON()
	if err != nil {
		t.Fatalf("re-marshal failed: %v", err)
	}
	if !bytes.Equal(data, data2) {
		t.Fatalf("round-trip mismatch:\n%s\nvs\n%s", data, data2)
	}
}

func TestPresetUnmarshalWithoutChainYieldsEmptyChain(t *testing.T) {
	var p Preset
	if err := p.UnmarshalJSON([]byte(`{"metadata":{"name":"x","version":1}}`)); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if p.Chain == nil {
		t.Fatal("expected a non-nil empty chain")
	}
	if len(p.Chain.All()) != 0 {
		t.Fatalf("expected empty chain, got %v", p.Chain.All())
	}
}

func TestControllerPresetJSONRoundTrip(t *testing.T) {
	cp := &ControllerPreset{
		Elements: []Element{
			{ID: "fader1", Kind: ElementFader, Label: "Intensity", Path: "fx1.intensity", Width: 40, Height: 200},
		},
		Mappings: []param.Mapping{
			{Path: "fx1.intensity", Source: param.Source{Kind: param.SourceAudioVolume}, OutputMin: 0, OutputMax: 1, Attack: 0.1, Release: 0.3},
		},
	}

	data, err := cp.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var restored ControllerPreset
	if err := restored.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(restored.Elements) != 1 || restored.Elements[0].Path != "fx1.intensity" {
		t.Fatalf("unexpected elements: %+v", restored.Elements)
	}
	if len(restored.Mappings) != 1 || restored.Mappings[0].Source.Kind != param.SourceAudioVolume {
		t.Fatalf("unexpected mappings: %+v", restored.Mappings)
	}
}

func TestSourceBandJSONRoundTrip(t *testing.T) {
	m := param.Mapping{
		Path:      "fx1.color",
		Source:    param.Source{Kind: param.SourceAudioBand, Band: 1}, // BandBass
		OutputMax: 1,
	}
	data, err := m.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var restored param.Mapping
	if err := restored.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if restored.Source.Kind != param.SourceAudioBand || restored.Source.Band != 1 {
		t.Fatalf("band round-trip mismatch: %+v", restored.Source)
	}
}
