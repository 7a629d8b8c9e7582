package mapping

import (
	"sort"
	"sync"

	"github.com/mrlongnight/mapmap/internal/mesh"
	"github.com/mrlongnight/mapmap/internal/paint"
)

// ID is an opaque handle minted by a manager, never reused within a
// session (spec §3).
type ID uint64

// Mapping is one warped drawing of one paint onto the canvas via a mesh
// (spec §3, GLOSSARY).
type Mapping struct {
	ID      ID
	Name    string
	PaintID paint.ID
	Mesh    *mesh.Mesh
	Opacity float32 // [0,1]
	Depth   float32 // sort key
	Visible bool
	Solo    bool
	Locked  bool
}

// Manager is the ordered, filterable set of mappings (spec M1:
// MappingManager). Mirrors the teacher's component-registry discipline:
// dense IDs minted by a counter guarded by the manager's mutex, never
// reused.
type Manager struct {
	mu      sync.RWMutex
	byID    map[ID]*Mapping
	order   []ID // insertion order, depth-sorted on read
	nextID  uint64
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{byID: make(map[ID]*Mapping)}
}

// Add registers a new visible, fully opaque mapping of paintID through
// mesh, mints it an ID, and appends it to the manager.
func (mgr *Manager) Add(name string, paintID paint.ID, mesh *mesh.Mesh) ID {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	mgr.nextID++
	id := ID(mgr.nextID)
	mgr.byID[id] = &Mapping{
		ID:      id,
		Name:    name,
		PaintID: paintID,
		Mesh:    mesh,
		Opacity: 1,
		Visible: true,
	}
	mgr.order = append(mgr.order, id)
	return id
}

// Remove drops a mapping by id.
func (mgr *Manager) Remove(id ID) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	delete(mgr.byID, id)
	for i, existing := range mgr.order {
		if existing == id {
			mgr.order = append(mgr.order[:i], mgr.order[i+1:]...)
			break
		}
	}
}

// Get returns the mapping for id, for in-place mutation by the caller
// under external synchronization (UI mutations are applied before the
// render tick, per spec §5).
func (mgr *Manager) Get(id ID) (*Mapping, bool) {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	m, ok := mgr.byID[id]
	return m, ok
}

// Visible returns the mappings that are visible (and, if any mapping is
// soloed, only the soloed ones), sorted by ascending depth, and whose
// mesh bounds intersect the given canvas region (spec §4.8 step 6c: a
// bounding-box test; a mapping straddling two outputs is drawn on both —
// see DESIGN.md Open Question (a)).
func (mgr *Manager) Visible(regionX, regionY, regionW, regionH float32) []*Mapping {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()

	anySolo := false
	for _, id := range mgr.order {
		if mgr.byID[id].Solo {
			anySolo = true
			break
		}
	}

	var out []*Mapping
	for _, id := range mgr.order {
		m := mgr.byID[id]
		if !m.Visible {
			continue
		}
		if anySolo && !m.Solo {
			continue
		}
		if m.Mesh == nil || !m.Mesh.IntersectsRegion(regionX, regionY, regionW, regionH) {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Depth < out[j].Depth })
	return out
}
