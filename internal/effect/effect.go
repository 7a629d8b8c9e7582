// Package effect implements Effect and EffectChain: the ordered,
// reorderable, enable-able list of parameterized post-process passes
// applied per-output (spec §3, §4.4, M4).
package effect

import (
	"encoding/binary"
	"math"
)

// Kind is one of the ten built-in effect kinds, or Custom for a
// user-supplied shader — eleven kinds in all (spec §3).
type Kind int

const (
	KindColorAdjust Kind = iota
	KindBlur
	KindChromaticAberration
	KindEdgeDetect
	KindGlow
	KindKaleidoscope
	KindInvert
	KindPixelate
	KindVignette
	KindFilmGrain
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindColorAdjust:
		return "ColorAdjust"
	case KindBlur:
		return "Blur"
	case KindChromaticAberration:
		return "ChromaticAberration"
	case KindEdgeDetect:
		return "EdgeDetect"
	case KindGlow:
		return "Glow"
	case KindKaleidoscope:
		return "Kaleidoscope"
	case KindInvert:
		return "Invert"
	case KindPixelate:
		return "Pixelate"
	case KindVignette:
		return "Vignette"
	case KindFilmGrain:
		return "FilmGrain"
	case KindCustom:
		return "Custom"
	default:
		return "Unknown"
	}
}

// paramDefault is one declared parameter name/default pair.
type paramDefault struct {
	name string
	def  float64
}

// defaultParams returns the parameter name→default table for kind, in
// the declared order (spec §4.4 table). Kinds with no parameters
// (EdgeDetect, Invert, Custom) return an empty set.
func defaultParams(kind Kind) []paramDefault {
	switch kind {
	case KindColorAdjust:
		return []paramDefault{{"brightness", 0}, {"contrast", 1}, {"saturation", 1}}
	case KindBlur:
		return []paramDefault{{"radius", 5}, {"samples", 9}}
	case KindChromaticAberration:
		return []paramDefault{{"amount", 0.01}}
	case KindVignette:
		return []paramDefault{{"radius", 0.5}, {"softness", 0.5}}
	case KindFilmGrain:
		return []paramDefault{{"amount", 0.1}, {"speed", 1.0}}
	case KindPixelate:
		return []paramDefault{{"pixel_size", 8}}
	case KindKaleidoscope:
		return []paramDefault{{"segments", 6}, {"rotation", 0}}
	case KindGlow:
		return []paramDefault{{"threshold", 0.5}, {"radius", 10}}
	default:
		return nil
	}
}

// Effect is one parameterized post-process pass (spec §3).
type Effect struct {
	ID           ID
	Kind         Kind
	Enabled      bool
	Intensity    float32 // [0,1]
	Parameters   *Params
	CustomShader string // WGSL source, only meaningful when Kind == KindCustom
}

// newEffect constructs an Effect of kind with its defaults pre-populated
// into Parameters, preserving the table's declared order.
func newEffect(id ID, kind Kind) *Effect {
	p := NewParams()
	for _, pd := range defaultParams(kind) {
		p.Set(pd.name, pd.def)
	}
	return &Effect{ID: id, Kind: kind, Enabled: true, Intensity: 1, Parameters: p}
}

// Uniform is the fixed 32-byte per-pass uniform block every effect kind
// maps its parameters into (spec §4.4): {time, intensity, param_a,
// param_b, param_c.xy, resolution.xy} — 8 float32s.
type Uniform struct {
	Time       float32
	Intensity  float32
	ParamA     float32
	ParamB     float32
	ParamCX    float32
	ParamCY    float32
	ResolutionX float32
	ResolutionY float32
}

// PackUniform maps e's parameters into the fixed uniform layout per its
// kind's packing rule (spec §4.4 table). Unused fields are left zeroed.
func (e *Effect) PackUniform(time float32, resW, resH float32) Uniform {
	u := Uniform{Time: time, Intensity: e.Intensity, ResolutionX: resW, ResolutionY: resH}
	p := e.Parameters
	switch e.Kind {
	case KindColorAdjust:
		u.ParamA = float32(p.GetOrDefault("brightness", 0))
		u.ParamB = float32(p.GetOrDefault("contrast", 1))
		u.ParamCX = float32(p.GetOrDefault("saturation", 1))
	case KindBlur:
		u.ParamA = float32(p.GetOrDefault("radius", 5))
		u.ParamB = float32(p.GetOrDefault("samples", 9))
	case KindChromaticAberration:
		u.ParamA = float32(p.GetOrDefault("amount", 0.01))
	case KindVignette:
		u.ParamA = float32(p.GetOrDefault("radius", 0.5))
		u.ParamB = float32(p.GetOrDefault("softness", 0.5))
	case KindFilmGrain:
		u.ParamA = float32(p.GetOrDefault("amount", 0.1))
		u.ParamB = float32(p.GetOrDefault("speed", 1.0))
	case KindPixelate:
		u.ParamA = float32(p.GetOrDefault("pixel_size", 8))
	case KindKaleidoscope:
		u.ParamA = float32(p.GetOrDefault("segments", 6))
		u.ParamB = float32(p.GetOrDefault("rotation", 0))
	case KindGlow:
		u.ParamA = float32(p.GetOrDefault("threshold", 0.5))
		u.ParamB = float32(p.GetOrDefault("radius", 10))
	case KindEdgeDetect, KindInvert, KindCustom:
		// no parameters
	}
	return u
}

// Bytes packs u into the fixed 32-byte little-endian uniform block (spec
// §4.4), for backends that consume a raw uniform buffer rather than a Go
// struct.
func (u Uniform) Bytes() []byte {
	vals := []float32{u.Time, u.Intensity, u.ParamA, u.ParamB, u.ParamCX, u.ParamCY, u.ResolutionX, u.ResolutionY}
	buf := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}
