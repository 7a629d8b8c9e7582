package param

import (
	"encoding/json"
	"sync"
)

// Mapping binds one upstream Source to a parameter path (spec §4.9:
// "node_id.param_name"), with the output range and envelope shaping
// applied to the raw [0,1] signal before it reaches the target.
type Mapping struct {
	Path       string
	Source     Source
	OutputMin  float64
	OutputMax  float64
	Smoothing  float64 // reserved for a future exponential pre-filter stage; unused by Update's attack/release model
	Attack     float64 // seconds
	Release    float64 // seconds
	prevValue  float64
	hasPrev    bool
}

// mappingJSON is Mapping's persisted form (spec §6: "controller ...
// mappings as JSON"); prevValue/hasPrev are runtime-only and excluded —
// a restored mapping re-seeds on its next Update the same way a
// freshly-Added one does.
type mappingJSON struct {
	Path      string  `json:"path"`
	Source    Source  `json:"source"`
	OutputMin float64 `json:"output_min"`
	OutputMax float64 `json:"output_max"`
	Smoothing float64 `json:"smoothing,omitempty"`
	Attack    float64 `json:"attack"`
	Release   float64 `json:"release"`
}

// MarshalJSON emits the persisted fields of m (spec §4.9: "Each mapping
// includes: output_min, output_max, smoothing, attack, release").
func (m Mapping) MarshalJSON() ([]byte, error) {
	return json.Marshal(mappingJSON{
		Path:      m.Path,
		Source:    m.Source,
		OutputMin: m.OutputMin,
		OutputMax: m.OutputMax,
		Smoothing: m.Smoothing,
		Attack:    m.Attack,
		Release:   m.Release,
	})
}

// UnmarshalJSON restores a Mapping's persisted fields, leaving its
// runtime envelope state zeroed.
func (m *Mapping) UnmarshalJSON(data []byte) error {
	var in mappingJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*m = Mapping{
		Path:      in.Path,
		Source:    in.Source,
		OutputMin: in.OutputMin,
		OutputMax: in.OutputMax,
		Smoothing: in.Smoothing,
		Attack:    in.Attack,
		Release:   in.Release,
	}
	return nil
}

// BlendMode combines an animated (keyframe) value with this fabric's
// audio/control value for the same path (spec §4.9 "Blend with
// keyframed animation").
type BlendMode int

const (
	BlendReplace BlendMode = iota
	BlendAdd
	BlendMultiply
)

// Blend returns the combined value for animated and audio values under
// mode, at mix factor t in [0,1] (spec §4.9 table). Either side may be
// absent (hasAnimated/hasAudio false), in which case it contributes 0.
func Blend(mode BlendMode, animated float64, hasAnimated bool, value float64, hasValue bool, t float64) float64 {
	if !hasAnimated {
		animated = 0
	}
	if !hasValue {
		value = 0
	}
	switch mode {
	case BlendAdd:
		return animated + value*t
	case BlendMultiply:
		return animated * (1 + (value-1)*t)
	default: // BlendReplace
		return animated + (value-animated)*t
	}
}

// Fabric holds the set of active mappings and drives Update once per
// tick (spec M9: ParameterFabric). Add/Remove may be called from a
// control surface while the orchestrator holds a reference; every
// method, Update included, takes the fabric's mutex.
type Fabric struct {
	mu         sync.Mutex
	mappings   map[string]*Mapping
	lastUpdate float64
	hasLast    bool
}

// NewFabric returns an empty Fabric.
func NewFabric() *Fabric {
	return &Fabric{mappings: make(map[string]*Mapping)}
}

// Add installs or replaces the mapping for m.Path.
func (f *Fabric) Add(m Mapping) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := m
	f.mappings[m.Path] = &stored
}

// All returns a snapshot of every installed mapping's persisted fields,
// for saving as controller-preset JSON.
func (f *Fabric) All() []Mapping {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Mapping, 0, len(f.mappings))
	for _, m := range f.mappings {
		out = append(out, Mapping{
			Path: m.Path, Source: m.Source,
			OutputMin: m.OutputMin, OutputMax: m.OutputMax,
			Smoothing: m.Smoothing, Attack: m.Attack, Release: m.Release,
		})
	}
	return out
}

// Remove drops the mapping at path, if any.
func (f *Fabric) Remove(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.mappings, path)
}

// Get returns the current envelope-applied value at path, if a mapping
// exists and has been updated at least once.
func (f *Fabric) Get(path string) (float64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.mappings[path]
	if !ok || !m.hasPrev {
		return 0, false
	}
	return m.prevValue, true
}

// Update advances every mapping's envelope toward its source's current
// raw value and returns the new value for every path (spec §4.9
// Update(analysis, now)). dt = now - last Update call; the first call
// establishes lastUpdate with dt=0, so every mapping jumps straight to
// its initial raw-mapped value without a spurious envelope ramp from 0.
func (f *Fabric) Update(in Inputs, now float64) map[string]float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	dt := 0.0
	if f.hasLast {
		dt = now - f.lastUpdate
		if dt < 0 {
			dt = 0
		}
	}
	f.lastUpdate = now
	f.hasLast = true

	out := make(map[string]float64, len(f.mappings))
	for path, m := range f.mappings {
		raw := m.Source.raw(in)

		var normalized float64
		if !m.hasPrev {
			normalized = raw
		} else {
			normalized = applyEnvelope(m.prevValue, raw, dt, m.Attack, m.Release)
		}
		m.prevValue = normalized
		m.hasPrev = true

		out[path] = m.OutputMin + normalized*(m.OutputMax-m.OutputMin)
	}
	return out
}

// applyEnvelope moves prev toward raw using a linear ramp whose duration
// is attack (while rising) or release (while falling) seconds (spec §8
// property 11: attack=0.1 → dt=0.05 gives t=0.5, dt=0.1 gives t=1.0).
func applyEnvelope(prev, raw, dt, attack, release float64) float64 {
	var timeConstant float64
	if raw > prev {
		timeConstant = attack
	} else {
		timeConstant = release
	}
	if timeConstant <= 0 {
		return raw
	}
	t := dt / timeConstant
	if t > 1 {
		t = 1
	}
	return prev + (raw-prev)*t
}
