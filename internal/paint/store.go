package paint

import (
	"sync"
	"sync/atomic"
	"time"
)

// ID is an opaque handle minted by PaintStore, dense and stable for the
// lifetime of the paint (spec §3).
type ID uint64

// Kind is the source kind a Paint was created from.
type Kind int

const (
	KindVideo Kind = iota
	KindImageSequence
	KindStillImage
	KindSolidColor
	KindTestPattern
)

// published is the atomically-swapped, immutable snapshot PaintStore hands
// out to renderers. Replacing the pointer (rather than mutating fields in
// place) is what makes entry.Latest() safe to call from a render thread
// concurrently with Update() running on the playback thread.
type published struct {
	frame   *Frame
	width   int
	height  int
	version uint64
}

// entry is one paint's store-owned state: its engine plus the latest
// published frame.
type entry struct {
	id     ID
	kind   Kind
	rate   float32 // paint.rate, spec §3
	engine *PlaybackEngine
	latest atomic.Pointer[published]
}

// Latest returns the most recently published frame snapshot, or nil if
// nothing has been decoded yet.
func (e *entry) Latest() (*Frame, int, int, uint64) {
	p := e.latest.Load()
	if p == nil {
		return nil, 0, 0, 0
	}
	return p.frame, p.width, p.height, p.version
}

// Store is the PaintId → {handle, dimensions, version} registry (spec
// §4.2). A single atomic-pointer publish per paint per tick keeps render
// reads lock-free, mirroring the teacher's PaintStore/texture-handle
// discipline adapted from its VideoChip double-buffering.
type Store struct {
	mu      sync.RWMutex
	entries map[ID]*entry
	nextID  uint64
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{entries: make(map[ID]*entry)}
}

// Add registers a new paint backed by decoder and returns its ID.
func (s *Store) Add(kind Kind, rate float32, decoder Decoder) ID {
	id := ID(atomic.AddUint64(&s.nextID, 1))
	e := &entry{
		id:     id,
		kind:   kind,
		rate:   rate,
		engine: NewPlaybackEngine(decoder),
	}
	s.mu.Lock()
	s.entries[id] = e
	s.mu.Unlock()
	return id
}

// Remove drops a paint from the store, closing its decoder.
func (s *Store) Remove(id ID) error {
	s.mu.Lock()
	e, ok := s.entries[id]
	if ok {
		delete(s.entries, id)
	}
	s.mu.Unlock()
	if !ok {
		return &DecodeError{Operation: "remove", Details: "unknown paint id"}
	}
	return e.engine.decoder.Close()
}

// Engine returns the PlaybackEngine for id, for callers that need direct
// control (Play/Pause/Seek).
func (s *Store) Engine(id ID) (*PlaybackEngine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	return e.engine, true
}

// Tick advances every paint's playback engine by dt and atomically
// publishes any newly decoded frame. masterSpeed is
// composition.master_speed (spec Open Question (c)).
func (s *Store) Tick(dt time.Duration, masterSpeed float32) {
	s.mu.RLock()
	snapshot := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		snapshot = append(snapshot, e)
	}
	s.mu.RUnlock()

	for _, e := range snapshot {
		frame, err := e.engine.Update(dt, e.rate*masterSpeed)
		if err != nil || frame == nil {
			continue
		}
		w, h := e.engine.decoder.Resolution()
		prev := e.latest.Load()
		version := uint64(1)
		if prev != nil {
			version = prev.version + 1
		}
		e.latest.Store(&published{frame: frame, width: w, height: h, version: version})
	}
}

// Latest returns the latest published frame for id along with its
// dimensions and monotonic version counter (bumped on every publish, so
// callers can detect whether a new texture upload is needed).
func (s *Store) Latest(id ID) (frame *Frame, width, height int, version uint64, ok bool) {
	s.mu.RLock()
	e, found := s.entries[id]
	s.mu.RUnlock()
	if !found {
		return nil, 0, 0, 0, false
	}
	frame, width, height, version = e.Latest()
	return frame, width, height, version, true
}
