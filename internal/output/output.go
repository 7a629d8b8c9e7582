// Package output owns the set of logical outputs a composition presents
// to: canvas region, resolution, edge-blend, and color-calibration
// configuration (spec §4.7, M2).
package output

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/mrlongnight/mapmap/internal/effect"
)

// ID is an opaque handle minted by Manager, never reused within a
// session (spec §3).
type ID uint64

// Region is a rectangle of canvas space assigned to one output,
// normalized (spec §3: CanvasRegion). Invariant: X>=0, Y>=0, W>0, H>0;
// overlap with other outputs is allowed (required for edge blending).
type Region struct {
	X, Y, W, H float32
}

// Side is one edge's blend configuration (spec §3, OutputConfig.edge_blend).
type Side struct {
	Enabled bool
	Width   float32 // normalized, [0, 0.5]
	Offset  float32 // normalized, [-0.1, 0.1]
}

// EdgeBlend is the four-sided blend configuration plus its shared falloff
// exponent (spec §4.5).
type EdgeBlend struct {
	Left, Right, Top, Bottom Side
	Gamma                    float32 // [1,3]
}

// ColorCalibration is the per-output color correction chain (spec §4.6).
type ColorCalibration struct {
	Brightness float32    // [-1,1]
	Contrast   float32    // [0,2]
	GammaRGB   [3]float32 // each [0.5,3]
	ColorTemp  float32    // [2000,10000] Kelvin
	Saturation float32    // [0,2]
}

// DefaultColorCalibration returns the no-op calibration: brightness 0,
// contrast 1, gamma 1, color temp 6500K (reference white), saturation 1.
func DefaultColorCalibration() ColorCalibration {
	return ColorCalibration{
		Contrast:   1,
		GammaRGB:   [3]float32{1, 1, 1},
		ColorTemp:  6500,
		Saturation: 1,
	}
}

// IsDefault reports whether c equals DefaultColorCalibration; its
// negation feeds the orchestrator's need_post test (spec §4.8 step 6a).
func (c ColorCalibration) IsDefault() bool {
	d := DefaultColorCalibration()
	return c.Brightness == d.Brightness && c.Contrast == d.Contrast &&
		c.GammaRGB == d.GammaRGB && c.ColorTemp == d.ColorTemp && c.Saturation == d.Saturation
}

// AnyEnabled reports whether any of the four sides is enabled.
func (e EdgeBlend) AnyEnabled() bool {
	return e.Left.Enabled || e.Right.Enabled || e.Top.Enabled || e.Bottom.Enabled
}

func packFloats32(vals []float32) []byte {
	buf := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func boolf(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

// Bytes packs e into a flat little-endian float32 block — per side
// (enabled, width, offset) then gamma — for the EdgeBlendRenderer's
// uniform buffer (spec §4.5). Side order: left, right, top, bottom.
func (e EdgeBlend) Bytes() []byte {
	return packFloats32([]float32{
		boolf(e.Left.Enabled), e.Left.Width, e.Left.Offset,
		boolf(e.Right.Enabled), e.Right.Width, e.Right.Offset,
		boolf(e.Top.Enabled), e.Top.Width, e.Top.Offset,
		boolf(e.Bottom.Enabled), e.Bottom.Width, e.Bottom.Offset,
		e.Gamma,
	})
}

// Bytes packs c into a flat little-endian float32 block for the
// ColorCalibrationRenderer's uniform buffer (spec §4.6): brightness,
// contrast, gamma.r, gamma.g, gamma.b, color_temp, saturation.
func (c ColorCalibration) Bytes() []byte {
	return packFloats32([]float32{
		c.Brightness, c.Contrast, c.GammaRGB[0], c.GammaRGB[1], c.GammaRGB[2], c.ColorTemp, c.Saturation,
	})
}

// Config is one physical output's full configuration (spec §3). Chain is
// this output's post-processing effect chain (spec overview line 9: "a
// per-output post-processing chain (effect chain → color calibration →
// edge blending)"); nil is equivalent to an empty chain.
type Config struct {
	ID               ID
	Name             string
	CanvasRegion     Region
	ResolutionW      int
	ResolutionH      int
	Fullscreen       bool
	EdgeBlend        EdgeBlend
	ColorCalibration ColorCalibration
	Chain            *effect.Chain
}

// NeedsPost reports whether this output requires the post-processing
// pass (a non-empty effect chain, edge blend, or non-default color
// calibration), spec §4.8 step 6a generalized to cover all three stages
// of the per-output post-processing chain named in the overview.
func (c *Config) NeedsPost() bool {
	hasChain := c.Chain != nil && len(c.Chain.Enabled()) > 0
	return hasChain || c.EdgeBlend.AnyEnabled() || !c.ColorCalibration.IsDefault()
}

// Manager owns the set of OutputConfigs (spec M2: OutputManager).
// Outputs own no GPU resources directly; they supply parameters the
// FrameOrchestrator consumes.
type Manager struct {
	mu     sync.RWMutex
	byID   map[ID]*Config
	order  []ID
	nextID uint64
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{byID: make(map[ID]*Config)}
}

// Add registers a new output and returns its minted ID.
func (m *Manager) Add(name string, region Region, resW, resH int) ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := ID(m.nextID)
	m.byID[id] = &Config{
		ID:               id,
		Name:             name,
		CanvasRegion:     region,
		ResolutionW:      resW,
		ResolutionH:      resH,
		ColorCalibration: DefaultColorCalibration(),
		Chain:            effect.NewChain(),
	}
	m.order = append(m.order, id)
	return id
}

// Remove drops an output by id.
func (m *Manager) Remove(id ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Get returns the output config for id.
func (m *Manager) Get(id ID) (*Config, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.byID[id]
	return c, ok
}

// All returns every output config, in add order.
func (m *Manager) All() []*Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Config, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id])
	}
	return out
}

// CreateProjectorArray2x2 derives four canvas regions of size
// (0.5+overlap, 0.5+overlap), positioned so adjacent regions overlap by
// overlap on their shared side, each output created with its matching
// edge_blend pre-populated (width = overlap, inner edges enabled) (spec
// §4.7). Returns the four minted output IDs in row-major order: top-left,
// top-right, bottom-left, bottom-right.
func (m *Manager) CreateProjectorArray2x2(resolution [2]int, overlap float32) [4]ID {
	size := 0.5 + overlap
	positions := [4]Region{
		{X: 0, Y: 0, W: size, H: size},                   // top-left
		{X: 0.5 - overlap, Y: 0, W: size, H: size},        // top-right
		{X: 0, Y: 0.5 - overlap, W: size, H: size},        // bottom-left
		{X: 0.5 - overlap, Y: 0.5 - overlap, W: size, H: size}, // bottom-right
	}
	names := [4]string{"projector-tl", "projector-tr", "projector-bl", "projector-br"}

	var ids [4]ID
	for i, region := range positions {
		id := m.Add(names[i], region, resolution[0], resolution[1])
		cfg, _ := m.Get(id)
		eb := EdgeBlend{Gamma: 2}
		// Inner edges: the side touching the adjacent projector.
		switch i {
		case 0: // top-left: right + bottom are inner
			eb.Right = Side{Enabled: true, Width: overlap}
			eb.Bottom = Side{Enabled: true, Width: overlap}
		case 1: // top-right: left + bottom are inner
			eb.Left = Side{Enabled: true, Width: overlap}
			eb.Bottom = Side{Enabled: true, Width: overlap}
		case 2: // bottom-left: right + top are inner
			eb.Right = Side{Enabled: true, Width: overlap}
			eb.Top = Side{Enabled: true, Width: overlap}
		case 3: // bottom-right: left + top are inner
			eb.Left = Side{Enabled: true, Width: overlap}
			eb.Top = Side{Enabled: true, Width: overlap}
		}
		cfg.EdgeBlend = eb
		ids[i] = id
	}
	return ids
}
