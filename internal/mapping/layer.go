package mapping

import (
	"sync"

	"github.com/mrlongnight/mapmap/internal/paint"
)

// BlendMode selects how a layer's composited result combines with the
// layers beneath it.
type BlendMode int

const (
	BlendNormal BlendMode = iota
	BlendAdd
	BlendMultiply
	BlendScreen
)

// Layer groups one or more mappings under a shared transform, blend mode,
// and opacity (spec §3).
type Layer struct {
	ID         ID
	Name       string
	PaintID    *paint.ID // optional: a layer may drive its own mappings' shared paint
	MappingIDs []ID
	BlendMode  BlendMode
	Opacity    float32
	Visible    bool
	Solo       bool
	Bypass     bool
	Transform  Transform
	ResizeMode ResizeMode
}

// LayerManager is the ordered, filterable set of layers (spec M1:
// LayerManager), structured identically to Manager for mappings.
type LayerManager struct {
	mu     sync.RWMutex
	byID   map[ID]*Layer
	order  []ID
	nextID uint64
}

// NewLayerManager returns an empty LayerManager.
func NewLayerManager() *LayerManager {
	return &LayerManager{byID: make(map[ID]*Layer)}
}

// Add registers a new layer with identity transform, full opacity, and
// normal blend mode, returning its minted ID.
func (lm *LayerManager) Add(name string) ID {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.nextID++
	id := ID(lm.nextID)
	lm.byID[id] = &Layer{
		ID:         id,
		Name:       name,
		Opacity:    1,
		Visible:    true,
		Transform:  IdentityTransform(),
		ResizeMode: ResizeFit,
	}
	lm.order = append(lm.order, id)
	return id
}

// Remove drops a layer by id.
func (lm *LayerManager) Remove(id ID) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	delete(lm.byID, id)
	for i, existing := range lm.order {
		if existing == id {
			lm.order = append(lm.order[:i], lm.order[i+1:]...)
			break
		}
	}
}

// Get returns the layer for id.
func (lm *LayerManager) Get(id ID) (*Layer, bool) {
	lm.mu.RLock()
	defer lm.mu.RUnlock()
	l, ok := lm.byID[id]
	return l, ok
}

// Visible returns layers in manager order that are visible, honoring
// solo (if any layer is soloed, only soloed layers are returned) and
// excluding bypassed layers.
func (lm *LayerManager) Visible() []*Layer {
	lm.mu.RLock()
	defer lm.mu.RUnlock()

	anySolo := false
	for _, id := range lm.order {
		if lm.byID[id].Solo {
			anySolo = true
			break
		}
	}

	var out []*Layer
	for _, id := range lm.order {
		l := lm.byID[id]
		if !l.Visible || l.Bypass {
			continue
		}
		if anySolo && !l.Solo {
			continue
		}
		out = append(out, l)
	}
	return out
}
