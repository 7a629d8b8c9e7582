package effect

import "encoding/json"

// ID is an opaque handle minted by a Chain's monotonic counter, unique
// within the chain (spec §3: EffectChain invariant).
type ID uint64

// Chain is the ordered sequence of Effects plus a next-id counter (spec
// §3, M4). Not safe for concurrent use: mutations are applied before the
// render tick per the spec's ordering guarantees (§5).
type Chain struct {
	effects []*Effect
	nextID  ID
}

// NewChain returns an empty effect chain.
func NewChain() *Chain {
	return &Chain{}
}

// Add appends a new effect of kind with its declared defaults, returning
// its minted id.
func (c *Chain) Add(kind Kind) ID {
	c.nextID++
	id := c.nextID
	c.effects = append(c.effects, newEffect(id, kind))
	return id
}

// Remove drops the effect with id, preserving the order of the rest
// (stable removal, spec §3).
func (c *Chain) Remove(id ID) bool {
	for i, e := range c.effects {
		if e.ID == id {
			c.effects = append(c.effects[:i], c.effects[i+1:]...)
			return true
		}
	}
	return false
}

// MoveUp swaps the effect with id with its predecessor. No-op if id is
// not found or already first.
func (c *Chain) MoveUp(id ID) bool {
	for i, e := range c.effects {
		if e.ID == id {
			if i == 0 {
				return false
			}
			c.effects[i-1], c.effects[i] = c.effects[i], c.effects[i-1]
			return true
		}
	}
	return false
}

// MoveDown swaps the effect with id with its successor. No-op if id is
// not found or already last.
func (c *Chain) MoveDown(id ID) bool {
	for i, e := range c.effects {
		if e.ID == id {
			if i == len(c.effects)-1 {
				return false
			}
			c.effects[i], c.effects[i+1] = c.effects[i+1], c.effects[i]
			return true
		}
	}
	return false
}

// GetMut returns the effect with id for in-place mutation.
func (c *Chain) GetMut(id ID) (*Effect, bool) {
	for _, e := range c.effects {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// All returns every effect in chain order.
func (c *Chain) All() []*Effect {
	out := make([]*Effect, len(c.effects))
	copy(out, c.effects)
	return out
}

// Enabled returns the enabled effects in chain order (spec §8 property 4:
// "enabled_effects yields in chain order").
func (c *Chain) Enabled() []*Effect {
	var out []*Effect
	for _, e := range c.effects {
		if e.Enabled {
			out = append(out, e)
		}
	}
	return out
}

// chainJSON is the on-disk shape for a Chain: just the ordered effect
// list, each with its kind name, enabled flag, intensity, ordered
// parameters, and custom shader (spec §6: "EffectChain + metadata as
// JSON (pretty-printed)").
type chainJSON struct {
	ID           ID      `json:"id"`
	Kind         string  `json:"kind"`
	Enabled      bool    `json:"enabled"`
	Intensity    float32 `json:"intensity"`
	Parameters   *Params `json:"parameters"`
	CustomShader string  `json:"custom_shader,omitempty"`
}

// MarshalJSON emits the chain as a pretty-printed ordered array of
// effects; round-tripping preserves the chain byte-for-byte after
// pretty-print normalization (spec §8 property 4).
func (c *Chain) MarshalJSON() ([]byte, error) {
	out := make([]chainJSON, len(c.effects))
	for i, e := range c.effects {
		out[i] = chainJSON{
			ID:           e.ID,
			Kind:         e.Kind.String(),
			Enabled:      e.Enabled,
			Intensity:    e.Intensity,
			Parameters:   e.Parameters,
			CustomShader: e.CustomShader,
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

// UnmarshalJSON restores a chain from its JSON array form, including the
// monotonic id counter (set to the max id seen, so subsequent Add calls
// never collide with restored ids).
func (c *Chain) UnmarshalJSON(data []byte) error {
	var in []chainJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	c.effects = make([]*Effect, len(in))
	c.nextID = 0
	for i, cj := range in {
		kind := kindFromString(cj.Kind)
		params := cj.Parameters
		if params == nil {
			params = NewParams()
		}
		c.effects[i] = &Effect{
			ID:           cj.ID,
			Kind:         kind,
			Enabled:      cj.Enabled,
			Intensity:    cj.Intensity,
			Parameters:   params,
			CustomShader: cj.CustomShader,
		}
		if cj.ID > c.nextID {
			c.nextID = cj.ID
		}
	}
	return nil
}

func kindFromString(s string) Kind {
	switch s {
	case "ColorAdjust":
		return KindColorAdjust
	case "Blur":
		return KindBlur
	case "ChromaticAberration":
		return KindChromaticAberration
	case "EdgeDetect":
		return KindEdgeDetect
	case "Glow":
		return KindGlow
	case "Kaleidoscope":
		return KindKaleidoscope
	case "Invert":
		return KindInvert
	case "Pixelate":
		return KindPixelate
	case "Vignette":
		return KindVignette
	case "FilmGrain":
		return KindFilmGrain
	default:
		return KindCustom
	}
}
