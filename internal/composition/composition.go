// Package composition owns the Composition value: a session's top-level
// name/size/frame_rate/master knobs plus the one-of-each managers a
// cmd/mapmap session wires into a FrameOrchestrator (spec §4.12).
package composition

import (
	"github.com/mrlongnight/mapmap/internal/audio"
	"github.com/mrlongnight/mapmap/internal/mapping"
	"github.com/mrlongnight/mapmap/internal/output"
	"github.com/mrlongnight/mapmap/internal/paint"
	"github.com/mrlongnight/mapmap/internal/param"
	"github.com/mrlongnight/mapmap/internal/window"
)

// Composition bundles a session's canvas metadata with the one-of-each
// component instances a FrameOrchestrator drives each tick.
type Composition struct {
	Name          string
	Width         int
	Height        int
	FrameRate     float64
	MasterOpacity float32 // [0,1], scales every mapping's own opacity
	MasterSpeed   float32 // effective_rate = paint.rate * MasterSpeed (spec Open Question (c))

	Paints   *paint.Store
	Mappings *mapping.Manager
	Layers   *mapping.LayerManager
	Outputs  *output.Manager
	Params   *param.Fabric
	Audio    *audio.Analyzer
	Windows  *window.Manager
}

// Config seeds a new Composition (spec §4.12: name, size, frame_rate,
// master_opacity, master_speed). Windows is supplied separately by the
// caller via SetWindows once a window.Manager exists, since constructing
// one requires a SurfaceFactory decided at the cmd/mapmap layer
// (headless vs ebiten).
type Config struct {
	Name      string
	Width     int
	Height    int
	FrameRate float64
	AudioCfg  audio.Config
}

// New constructs a Composition with fresh, empty managers and
// master_opacity/master_speed at their neutral defaults (1.0).
func New(cfg Config) *Composition {
	return &Composition{
		Name:          cfg.Name,
		Width:         cfg.Width,
		Height:        cfg.Height,
		FrameRate:     cfg.FrameRate,
		MasterOpacity: 1,
		MasterSpeed:   1,
		Paints:        paint.NewStore(),
		Mappings:      mapping.NewManager(),
		Layers:        mapping.NewLayerManager(),
		Outputs:       output.NewManager(),
		Params:        param.NewFabric(),
		Audio:         audio.NewAnalyzer(cfg.AudioCfg),
	}
}

// SetWindows installs the window.Manager once the caller has decided
// which SurfaceFactory to use (headless for tests/CI, ebiten otherwise).
func (c *Composition) SetWindows(wm *window.Manager) {
	c.Windows = wm
}
