package window

import "sync"

// HeadlessSurface is an in-memory Surface with no OS window, for tests
// and CI (grounded on internal/audio's HeadlessBackend split: a
// same-shape stand-in with no device beneath it).
type HeadlessSurface struct {
	mu          sync.Mutex
	width       int
	height      int
	configured  bool
	lastFrame   []byte
	closeSignal bool
}

// NewHeadlessSurface returns a Surface satisfying the SurfaceFactory
// signature, ignoring cfg's title.
func NewHeadlessSurface(cfg Config) (Surface, error) {
	s := &HeadlessSurface{}
	if cfg.Width > 0 && cfg.Height > 0 {
		s.width, s.height, s.configured = cfg.Width, cfg.Height, true
	}
	return s, nil
}

func (s *HeadlessSurface) Resize(width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
	s.configured = true
	return nil
}

func (s *HeadlessSurface) Present(pixels []byte, width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.configured || width != s.width || height != s.height {
		return nil // skipped: not yet successfully reconfigured for this size
	}
	s.lastFrame = append(s.lastFrame[:0], pixels...)
	return nil
}

// LastFrame returns the most recently presented frame, for test
// assertions.
func (s *HeadlessSurface) LastFrame() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFrame
}

func (s *HeadlessSurface) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeSignal
}

// RequestClose simulates a user closing this window, for tests.
func (s *HeadlessSurface) RequestClose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeSignal = true
}

func (s *HeadlessSurface) Close() error { return nil }
