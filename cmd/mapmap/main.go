// Command mapmap runs a projection-mapping composition: it loads the
// composition described by its flags, opens the configured output
// windows, and drives the FrameOrchestrator's per-tick loop at the
// configured frame rate until the main window is closed.
package main

import (
	"fmt"
	"os"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/mrlongnight/mapmap/internal/audio"
	"github.com/mrlongnight/mapmap/internal/composition"
	"github.com/mrlongnight/mapmap/internal/config"
	"github.com/mrlongnight/mapmap/internal/control/midi"
	"github.com/mrlongnight/mapmap/internal/control/osc"
	"github.com/mrlongnight/mapmap/internal/gpu"
	"github.com/mrlongnight/mapmap/internal/gpu/vulkan"
	"github.com/mrlongnight/mapmap/internal/logging"
	"github.com/mrlongnight/mapmap/internal/mapping"
	"github.com/mrlongnight/mapmap/internal/mesh"
	"github.com/mrlongnight/mapmap/internal/orchestrator"
	"github.com/mrlongnight/mapmap/internal/output"
	"github.com/mrlongnight/mapmap/internal/paint"
	"github.com/mrlongnight/mapmap/internal/param"
	"github.com/mrlongnight/mapmap/internal/preset"
	"github.com/mrlongnight/mapmap/internal/window"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logging.New(os.Stderr, "mapmap", logging.LevelInfo)

	if err := run(cfg, log); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logging.Logger) error {
	defer gomidi.CloseDriver()

	audioCfg := audio.DefaultConfig()
	comp := composition.New(composition.Config{
		Name:      cfg.Name,
		Width:     cfg.Width,
		Height:    cfg.Height,
		FrameRate: cfg.FrameRate,
		AudioCfg:  audioCfg,
	})

	factory := window.DefaultFactory()
	if cfg.Headless {
		factory = window.NewHeadlessSurface
	}
	wm, err := window.NewManager(factory, window.Config{Width: cfg.Width, Height: cfg.Height, Title: cfg.Name})
	if err != nil {
		return fmt.Errorf("mapmap: main window: %w", err)
	}
	defer wm.Close()
	comp.SetWindows(wm)

	outIDs := make([]output.ID, 0, len(cfg.Outputs))
	for _, spec := range cfg.Outputs {
		region := output.Region{X: spec.RegionX, Y: spec.RegionY, W: spec.RegionW, H: spec.RegionH}
		outIDs = append(outIDs, comp.Outputs.Add(spec.Name, region, spec.ResolutionW, spec.ResolutionH))
	}
	if err := wm.SyncWindows(comp.Outputs.All()); err != nil {
		return fmt.Errorf("mapmap: output windows: %w", err)
	}
	for _, cfgOut := range comp.Outputs.All() {
		if err := wm.HandleResize(cfgOut.ID, cfgOut.ResolutionW, cfgOut.ResolutionH); err != nil {
			log.Warnf("output %q initial resize: %v", cfgOut.Name, err)
		}
	}

	if cfg.PresetPath != "" {
		if err := loadPreset(comp, outIDs, cfg.PresetPath); err != nil {
			log.Warnf("preset %q: %v", cfg.PresetPath, err)
		}
	}

	if cfg.MediaDir != "" {
		if err := loadMediaDir(comp, cfg.MediaDir); err != nil {
			log.Warnf("media-dir %q: %v", cfg.MediaDir, err)
		}
	}

	var audioBackend audio.Backend
	if backend, err := audio.NewOtoBackend(audioCfg.SampleRate, 1<<16); err != nil {
		log.Warnf("audio backend unavailable, continuing muted: %v", err)
	} else {
		audioBackend = backend
		defer backend.Close()
		if err := backend.Start(); err != nil {
			log.Warnf("audio backend start: %v", err)
		}
	}

	var midiListener *midi.Listener
	if cfg.MIDIPort != "" {
		midiState := param.NewMIDIState()
		in, err := gomidi.FindInPort(cfg.MIDIPort)
		if err != nil {
			log.Warnf("midi port %q: %v", cfg.MIDIPort, err)
		} else {
			midiListener = midi.NewListener(midiState, log)
			if err := midiListener.Start(in); err != nil {
				log.Warnf("midi listener start: %v", err)
				midiListener = nil
			} else {
				defer midiListener.Stop()
			}
		}
	}

	oscListener := osc.NewListener(cfg.OSCAddr, param.NewOSCState(), log)
	if err := oscListener.Start(); err != nil {
		log.Warnf("osc listener start: %v", err)
		oscListener = nil
	} else {
		defer oscListener.Stop()
	}

	device, err := vulkan.NewDevice()
	if err != nil {
		return fmt.Errorf("mapmap: gpu device: %w", err)
	}
	defer device.Close()
	orc, err := orchestrator.New(comp, device, gpu.FormatRGBA8Srgb, audioBackend, midiListener, oscListener, log)
	if err != nil {
		return fmt.Errorf("mapmap: orchestrator: %w", err)
	}

	interval := time.Duration(float64(time.Second) / cfg.FrameRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		if err := orc.Tick(interval); err != nil {
			log.Errorf("tick: %v", err)
		}

		mainClosed, closedOutputs := wm.PollClosed()
		for _, id := range closedOutputs {
			comp.Outputs.Remove(id)
		}
		if mainClosed {
			return nil
		}
	}
	return nil
}

// loadMediaDir adds one still-image paint and one full-canvas mapping for
// every file directly under dir, so a session started with --media-dir
// has something visible without needing a separate controller to add
// paints one at a time. Subdirectories and files that fail to decode as
// still images are skipped; video and image-sequence paints are added
// the same way once a controller names them explicitly. Every mapping
// added this way joins one shared "media-dir" layer, so a single
// --media-dir session exercises Layer grouping (opacity, blend mode,
// transform) without needing a separate controller to build layers.
func loadMediaDir(comp *composition.Composition, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var layerID mapping.ID
	var layer *mapping.Layer
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		path := dir + "/" + name
		decoder, rate, err := openMediaFile(path)
		if err != nil {
			continue
		}
		paintID := comp.Paints.Add(paint.KindStillImage, rate, decoder)
		engine, _ := comp.Paints.Engine(paintID)
		engine.Play()
		mappingID := comp.Mappings.Add(name, paintID, mesh.Quad())

		if layer == nil {
			layerID = comp.Layers.Add("media-dir")
			layer, _ = comp.Layers.Get(layerID)
		}
		layer.MappingIDs = append(layer.MappingIDs, mappingID)
	}
	return nil
}

func openMediaFile(path string) (paint.Decoder, float32, error) {
	img, err := paint.LoadStillImage(path)
	if err != nil {
		return nil, 0, err
	}
	return img, 0, nil
}

// loadPreset applies a preset's effect chain to every output created this
// run, in order — the simplest binding rule available without a
// persisted per-output assignment (spec Non-goals: no project
// persistence format).
func loadPreset(comp *composition.Composition, outIDs []output.ID, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var p preset.Preset
	if err := p.UnmarshalJSON(data); err != nil {
		return err
	}
	for _, id := range outIDs {
		cfg, ok := comp.Outputs.Get(id)
		if !ok {
			continue
		}
		cfg.Chain = p.Chain
	}
	return nil
}
