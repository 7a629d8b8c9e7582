// Package orchestrator implements FrameOrchestrator, the single-threaded
// per-tick loop that drains input, advances playback and the parameter
// fabric, and renders+presents every output (spec §4.8).
package orchestrator

import (
	"fmt"
	"time"

	"github.com/mrlongnight/mapmap/internal/audio"
	"github.com/mrlongnight/mapmap/internal/composition"
	"github.com/mrlongnight/mapmap/internal/control/midi"
	"github.com/mrlongnight/mapmap/internal/control/osc"
	"github.com/mrlongnight/mapmap/internal/gpu"
	"github.com/mrlongnight/mapmap/internal/logging"
	"github.com/mrlongnight/mapmap/internal/output"
	"github.com/mrlongnight/mapmap/internal/param"
	"github.com/mrlongnight/mapmap/internal/render"
)

// textureUploader is satisfied by a backend's concrete texture type (the
// software backend's *software.Texture, equivalently the reference
// implementation's staging-buffer write on a hardware backend) — gpu.Texture
// itself stays free of an upload method so read-only backends aren't forced
// to implement one (mirrors render_test.go's own local uploader interface).
type textureUploader interface {
	Upload(rgba []byte)
}

// perOutput bundles the render state an orchestrator keeps per output: its
// composition-canvas texture (always rendered into) and the two extra
// intermediates the chain → color-calibration → edge-blend sequence pipes
// through, allocated with the canvas but drawn into only when that
// output's post-processing chain is non-trivial (spec §4.8 step 6b/6d; need_post generalized in
// internal/output.Config.NeedsPost to also cover a non-empty effect chain).
type perOutput struct {
	canvas       gpu.Texture
	postA        gpu.Texture
	postB        gpu.Texture
	w, h         int
	effectChain  *render.EffectChainRenderer
}

// cachedPaintTexture remembers the last-uploaded version of one paint's
// texture so FrameOrchestrator only re-uploads when PaintStore publishes a
// new frame (spec §4.2: "version counter... callers can detect whether a
// new texture upload is needed").
type cachedPaintTexture struct {
	tex     gpu.Texture
	version uint64
}

// FrameOrchestrator is the FrameOrchestrator of spec §4.8: it owns no
// business state itself (that lives in the Composition it was built
// with) and exists purely to sequence one tick's worth of work against a
// gpu.Device and a window.Manager.
type FrameOrchestrator struct {
	comp   *composition.Composition
	device gpu.Device
	log    *logging.Logger

	meshRenderer *render.MeshRenderer
	colorCal     *render.ColorCalibrationRenderer
	edgeBlend    *render.EdgeBlendRenderer

	audioBackend audio.Backend
	midiListener *midi.Listener
	oscListener  *osc.Listener

	now float64 // accumulated tick clock, seconds (fabric's "now")

	mainOutput perOutput
	outputs    map[output.ID]*perOutput
	paints     map[paintCacheKey]*cachedPaintTexture
}

// paintCacheKey is the paint whose texture is cached; paints are keyed
// directly by their PaintStore ID.
type paintCacheKey = uint64

// New builds a FrameOrchestrator targeting device's output format, with
// comp supplying the managers to drive and audioBackend the PCM source to
// pull samples from (spec §4.8 step 2). midiListener/oscListener may be
// nil when no control surface is attached for this session.
func New(comp *composition.Composition, device gpu.Device, format gpu.Format, audioBackend audio.Backend, midiListener *midi.Listener, oscListener *osc.Listener, log *logging.Logger) (*FrameOrchestrator, error) {
	meshRenderer, err := render.NewMeshRenderer(device)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: mesh renderer: %w", err)
	}
	colorCal, err := render.NewColorCalibrationRenderer(device, format)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: color calibration renderer: %w", err)
	}
	edgeBlend, err := render.NewEdgeBlendRenderer(device, format)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: edge blend renderer: %w", err)
	}
	if log == nil {
		log = logging.New(nil, "orchestrator", logging.LevelInfo)
	}
	return &FrameOrchestrator{
		comp:         comp,
		device:       device,
		log:          log,
		meshRenderer: meshRenderer,
		colorCal:     colorCal,
		edgeBlend:    edgeBlend,
		audioBackend: audioBackend,
		midiListener: midiListener,
		oscListener:  oscListener,
		outputs:      make(map[output.ID]*perOutput),
		paints:       make(map[paintCacheKey]*cachedPaintTexture),
	}, nil
}

// Tick runs exactly one pass of the 8-step loop (spec §4.8) and returns
// once every acquired output has been presented.
func (o *FrameOrchestrator) Tick(dt time.Duration) error {
	o.now += dt.Seconds()

	// Step 1: drain input events. MIDI/OSC listeners latch continuously
	// into the shared MIDIState/OSCState as messages arrive on their own
	// goroutines (spec §5: "MIDI/OSC listeners... deliver messages via
	// bounded MPSC channels"), so there is nothing left to pump here —
	// Inputs simply reads their latest latched state below.

	// Step 2: pull audio samples, refresh the analysis snapshot.
	analysis := o.pullAudio()

	// Step 3: advance playback, publish new paint textures.
	o.comp.Paints.Tick(dt, o.comp.MasterSpeed)

	// Step 4: update the parameter fabric; push results into effect
	// parameters and (by extension, via PackUniform at draw time) shader
	// uniforms.
	values := o.comp.Params.Update(param.Inputs{Audio: analysis, MIDI: o.midiState(), OSC: o.oscState()}, o.now)
	o.applyParameterValues(values)

	encoder := o.device.CreateCommandEncoder()

	// Steps 5-6: render every output. Outputs whose surface isn't ready
	// for this size are still rendered here; the window.Manager's Present*
	// methods drop their frames until a matching size is configured,
	// standing in for swap-chain Outdated/Timeout acquisition failures.
	if err := o.renderMain(encoder); err != nil {
		o.log.Warnf("main preview render failed: %v", err)
	}
	for _, cfg := range o.comp.Outputs.All() {
		if err := o.renderOutput(encoder, cfg); err != nil {
			o.log.Warnf("output %q render failed: %v", cfg.Name, err)
		}
	}

	// Step 7: submit every output's command batch as one queue.submit.
	buf := encoder.Finish()
	o.device.Queue().Submit([]gpu.CommandBuffer{buf})

	// Step 8: present. Reading pixels back happens after submission so a
	// hardware backend's fence/readback would be satisfied by here; the
	// software backend's ReadPixels is synchronous.
	return o.present()
}

func (o *FrameOrchestrator) pullAudio() audio.Analysis {
	if o.audioBackend == nil {
		return audio.Analysis{}
	}
	ring := o.audioBackend.Ring()
	if ring == nil {
		return audio.Analysis{}
	}
	buf := make([]float32, ring.Available())
	n := ring.Read(buf)
	if n == 0 {
		return audio.Analysis{}
	}
	return o.comp.Audio.Process(buf[:n], o.now)
}

func (o *FrameOrchestrator) midiState() *param.MIDIState {
	if o.midiListener == nil {
		return nil
	}
	return o.midiListener.State()
}

func (o *FrameOrchestrator) oscState() *param.OSCState {
	if o.oscListener == nil {
		return nil
	}
	return o.oscListener.State()
}

// effectParamPath names a parameter path for effect id's named parameter
// (spec §4.9: "node_id.param_name"; the node here is the effect's id).
func effectParamPath(id uint64, name string) string {
	return fmt.Sprintf("effect.%d.%s", id, name)
}

// applyParameterValues writes every fabric value whose path names an
// effect parameter into that effect's Parameters (spec §4.8 step 4).
// Missing paths (an effect id the fabric has no mapping for) are simply
// never visited here — the "silently skipped" rule on the fabric side
// already covers the reverse case of a mapping naming an effect that no
// longer exists.
func (o *FrameOrchestrator) applyParameterValues(values map[string]float64) {
	if len(values) == 0 {
		return
	}
	for _, cfg := range o.comp.Outputs.All() {
		if cfg.Chain == nil {
			continue
		}
		for _, e := range cfg.Chain.All() {
			for _, name := range e.Parameters.Names() {
				if v, ok := values[effectParamPath(uint64(e.ID), name)]; ok {
					e.Parameters.Set(name, v)
				}
			}
		}
	}
}
