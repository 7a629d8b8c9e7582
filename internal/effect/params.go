package effect

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Params is the small ordered name→float associative vector the spec
// prescribes for Effect.parameters (spec §9: "a small inline associative
// vector... insertion order is preserved for JSON round-trip"). Linear
// scan is fine for the expected ≤16 entries.
type Params struct {
	names  []string
	values []float64
}

// NewParams returns an empty ordered parameter set.
func NewParams() *Params {
	return &Params{}
}

// Set assigns name to value, appending it if new or updating in place
// (preserving its original position) if it already exists.
func (p *Params) Set(name string, value float64) {
	for i, n := range p.names {
		if n == name {
			p.values[i] = value
			return
		}
	}
	p.names = append(p.names, name)
	p.values = append(p.values, value)
}

// Get returns the value for name and whether it was present.
func (p *Params) Get(name string) (float64, bool) {
	for i, n := range p.names {
		if n == name {
			return p.values[i], true
		}
	}
	return 0, false
}

// GetOrDefault returns the stored value for name, or def if name is
// unknown (spec §3: "a missing name resolves to the default").
func (p *Params) GetOrDefault(name string, def float64) float64 {
	if v, ok := p.Get(name); ok {
		return v
	}
	return def
}

// Names returns the parameter names in insertion order.
func (p *Params) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// MarshalJSON emits {"name":value,...} with keys in insertion order, so
// that round-tripping a chain through JSON reproduces byte-identical
// output after pretty-print normalization (spec §8 property 4).
func (p *Params) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range p.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatFloat(p.values[i], 'g', -1, 64))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads {"name":value,...} preserving the order keys
// appear in the input, using a token-level decode (map[string]float64
// would not preserve order).
func (p *Params) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("effect params: expected object, got %v", tok)
	}

	p.names = nil
	p.values = nil
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("effect params: expected string key, got %v", keyTok)
		}
		var value float64
		if err := dec.Decode(&value); err != nil {
			return err
		}
		p.names = append(p.names, name)
		p.values = append(p.values, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
