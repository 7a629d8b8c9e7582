package orchestrator

import (
	"testing"
	"time"

	"github.com/mrlongnight/mapmap/internal/composition"
	"github.com/mrlongnight/mapmap/internal/effect"
	"github.com/mrlongnight/mapmap/internal/gpu"
	"github.com/mrlongnight/mapmap/internal/gpu/software"
	"github.com/mrlongnight/mapmap/internal/mesh"
	"github.com/mrlongnight/mapmap/internal/output"
	"github.com/mrlongnight/mapmap/internal/paint"
	"github.com/mrlongnight/mapmap/internal/param"
	"github.com/mrlongnight/mapmap/internal/window"
)

func newTestComposition(t *testing.T, size int) (*composition.Composition, output.ID) {
	t.Helper()
	comp := composition.New(composition.Config{Name: "s1", Width: size, Height: size, FrameRate: 60})

	wm, err := window.NewManager(window.NewHeadlessSurface, window.Config{Width: size, Height: size})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	comp.SetWindows(wm)

	paintID := comp.Paints.Add(paint.KindTestPattern, 30, paint.NewTestPattern(paint.PatternColorBars, size, size))
	engine, _ := comp.Paints.Engine(paintID)
	engine.Play()

	comp.Mappings.Add("full", paintID, mesh.Quad())

	outID := comp.Outputs.Add("out1", output.Region{X: 0, Y: 0, W: 1, H: 1}, size, size)
	if err := wm.SyncWindows(comp.Outputs.All()); err != nil {
		t.Fatalf("SyncWindows: %v", err)
	}
	if err := wm.HandleResize(outID, size, size); err != nil {
		t.Fatalf("HandleResize: %v", err)
	}

	return comp, outID
}

// TestTickRendersVisibleMappingIntoOutput exercises the S1-shaped scenario:
// one test-pattern paint, one full-canvas quad mapping, one fullscreen
// output with an empty effect chain — after several ticks the output
// window should have received a correctly-sized, non-blank frame.
func TestTickRendersVisibleMappingIntoOutput(t *testing.T) {
	const size = 64
	comp, outID := newTestComposition(t, size)

	device := software.NewDevice()
	orc, err := New(comp, device, gpu.FormatRGBA8Srgb, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 16; i++ {
		if err := orc.Tick(time.Second / 60); err != nil {
			t.Fatalf("Tick %d: %v", i, err)
		}
	}

	po, ok := orc.outputs[outID]
	if !ok {
		t.Fatal("expected output to be tracked after Tick")
	}
	pixels, w, h, err := device.ReadPixels(po.canvas.View())
	if err != nil {
		t.Fatalf("ReadPixels: %v", err)
	}
	if w != size || h != size {
		t.Fatalf("expected %dx%d canvas, got %dx%d", size, size, w, h)
	}
	if len(pixels) != size*size*4 {
		t.Fatalf("expected %d bytes, got %d", size*size*4, len(pixels))
	}

	// The leftmost color bar is white; sample well inside it, away from
	// any bilinear edge blending against its neighbor.
	i := (size/2*size + 2) * 4
	if pixels[i] < 200 || pixels[i+1] < 200 || pixels[i+2] < 200 {
		t.Fatalf("expected the white color-bar region to render bright, got rgba=%v", pixels[i:i+4])
	}
}

// TestTickRendersOutputBeforeSurfaceResize confirms that an output added
// after construction, with no HandleResize call, still renders into its
// own canvas texture: the orchestrator does not gate on the window
// surface being ready — window.Manager does that on its own Present*
// calls. (The HeadlessSurface here is created at the output's 32x32
// resolution, so it already accepts frames of that size.)
func TestTickRendersOutputBeforeSurfaceResize(t *testing.T) {
	comp := composition.New(composition.Config{Name: "s1", Width: 32, Height: 32, FrameRate: 60})
	wm, err := window.NewManager(window.NewHeadlessSurface, window.Config{Width: 32, Height: 32})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	comp.SetWindows(wm)

	outID := comp.Outputs.Add("out1", output.Region{X: 0, Y: 0, W: 1, H: 1}, 32, 32)
	if err := wm.SyncWindows(comp.Outputs.All()); err != nil {
		t.Fatalf("SyncWindows: %v", err)
	}

	device := software.NewDevice()
	orc, err := New(comp, device, gpu.FormatRGBA8Srgb, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := orc.Tick(time.Second / 60); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	if _, ok := orc.outputs[outID]; !ok {
		t.Fatal("expected the output's canvas to still be rendered even before a resize event")
	}
}

// TestApplyParameterValuesPushesFabricOutputIntoEffect verifies step 4 of
// the per-tick loop: a fabric mapping targeting "effect.<id>.<param>"
// lands in that effect's Parameters after Update.
func TestApplyParameterValuesPushesFabricOutputIntoEffect(t *testing.T) {
	comp := composition.New(composition.Config{Name: "s1", Width: 32, Height: 32, FrameRate: 60})
	outID := comp.Outputs.Add("out1", output.Region{X: 0, Y: 0, W: 1, H: 1}, 32, 32)
	cfg, _ := comp.Outputs.Get(outID)
	effectID := cfg.Chain.Add(effect.KindColorAdjust)

	comp.Params.Add(param.Mapping{
		Path:      effectParamPath(uint64(effectID), "brightness"),
		Source:    param.Source{Kind: param.SourceMIDICC, MIDIChannel: 0, MIDINumber: 1},
		OutputMin: -1,
		OutputMax: 1,
	})

	midiState := param.NewMIDIState()
	midiState.CC[[2]uint8{0, 1}] = 1.0 // fully up -> maps to OutputMax (1)

	device := software.NewDevice()
	orc, err := New(comp, device, gpu.FormatRGBA8Srgb, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	values := comp.Params.Update(param.Inputs{MIDI: midiState}, 0)
	orc.applyParameterValues(values)

	eff, _ := cfg.Chain.GetMut(effectID)
	got, ok := eff.Parameters.Get("brightness")
	if !ok {
		t.Fatal("expected brightness parameter to be set")
	}
	if got < 0.99 || got > 1.01 {
		t.Fatalf("expected brightness ~1, got %v", got)
	}
}
