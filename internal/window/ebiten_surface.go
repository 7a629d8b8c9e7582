//go:build !headless

package window

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenSurface is one tiled region of the shared ebitenHost window,
// adapted from EbitenOutput's frameBuffer/bufferMutex/Draw/Layout
// pattern in video_backend_ebiten.go — generalized from "the process's
// one output" to "one of several regions composited into the one window
// ebiten can give us".
type EbitenSurface struct {
	mu         sync.Mutex
	width      int
	height     int
	configured bool
	img        *ebiten.Image
	closed     bool
}

// NewEbitenSurface creates and registers a tiled surface, starting the
// shared host window on first use. Matches the SurfaceFactory signature.
func NewEbitenSurface(cfg Config) (Surface, error) {
	s := &EbitenSurface{}
	if cfg.Width > 0 && cfg.Height > 0 {
		s.width, s.height = cfg.Width, cfg.Height
		s.img = ebiten.NewImage(cfg.Width, cfg.Height)
		s.configured = true
	}
	host.ensureRunning()
	host.register(s)
	return s, nil
}

func (s *EbitenSurface) Resize(width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
	s.img = ebiten.NewImage(width, height)
	s.configured = true
	return nil
}

func (s *EbitenSurface) Present(pixels []byte, width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.configured || width != s.width || height != s.height {
		return nil // skipped: not yet successfully reconfigured for this size
	}
	s.img.WritePixels(pixels)
	return nil
}

func (s *EbitenSurface) ebitenImage() *ebiten.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.img
}

func (s *EbitenSurface) signalClosed() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *EbitenSurface) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *EbitenSurface) Close() error {
	host.unregister(s)
	return nil
}
