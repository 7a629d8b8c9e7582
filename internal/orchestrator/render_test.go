package orchestrator

import (
	"testing"
	"time"

	"github.com/mrlongnight/mapmap/internal/gpu"
	"github.com/mrlongnight/mapmap/internal/gpu/software"
)

// TestDrawCompositionAppliesLayerOpacityAndBlend exercises the code path
// review comments asked for: a mapping grouped under a Layer (spec §3)
// must actually render dimmer once the layer's own opacity is folded in,
// not just the mapping's own Opacity — the thing drawComposition never
// did before the Layer* member fields were wired in.
func TestDrawCompositionAppliesLayerOpacityAndBlend(t *testing.T) {
	const size = 64

	comp, outID := newTestComposition(t, size)
	visible := comp.Mappings.Visible(0, 0, 1, 1)
	if len(visible) != 1 {
		t.Fatalf("expected 1 mapping from newTestComposition, got %d", len(visible))
	}
	mappingID := visible[0].ID

	deviceBase := software.NewDevice()
	orcBase, err := New(comp, deviceBase, gpu.FormatRGBA8Srgb, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("New (baseline): %v", err)
	}
	if err := orcBase.Tick(time.Second / 60); err != nil {
		t.Fatalf("Tick (baseline): %v", err)
	}
	poBase := orcBase.outputs[outID]
	baseline, _, _, err := deviceBase.ReadPixels(poBase.canvas.View())
	if err != nil {
		t.Fatalf("ReadPixels (baseline): %v", err)
	}

	layerID := comp.Layers.Add("dim")
	layer, _ := comp.Layers.Get(layerID)
	layer.Opacity = 0.5
	layer.MappingIDs = append(layer.MappingIDs, mappingID)

	deviceLayered := software.NewDevice()
	orcLayered, err := New(comp, deviceLayered, gpu.FormatRGBA8Srgb, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("New (layered): %v", err)
	}
	if err := orcLayered.Tick(time.Second / 60); err != nil {
		t.Fatalf("Tick (layered): %v", err)
	}
	poLayered := orcLayered.outputs[outID]
	layered, _, _, err := deviceLayered.ReadPixels(poLayered.canvas.View())
	if err != nil {
		t.Fatalf("ReadPixels (layered): %v", err)
	}

	// Sample the same white color-bar region TestTickRendersVisibleMappingIntoOutput
	// checks; halving the layer's opacity against the opaque-black clear
	// must measurably darken it relative to the unlayered baseline.
	i := (size/2*size + 2) * 4
	if layered[i] >= baseline[i] {
		t.Fatalf("expected layer opacity 0.5 to dim output below baseline: baseline=%v layered=%v", baseline[i], layered[i])
	}
	if layered[i] == 0 {
		t.Fatalf("expected layered mapping to still be partially visible, got 0")
	}
}
