//go:build !headless

package window

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// ebitenHost runs the single native OS window ebiten's public API
// exposes per process (the same constraint video_backend_ebiten.go's
// EbitenOutput assumed for its one output). Every EbitenSurface this
// package creates is tiled into a region of the host's one window,
// generalizing the teacher's single-window compositor
// (video_compositor.go's "blend N video chips into one frame") to
// "present N post-processed outputs side by side in one window" rather
// than N native OS windows, which ebiten v2 cannot create.
type ebitenHost struct {
	mu       sync.Mutex
	started  bool
	surfaces []*EbitenSurface
}

var host = &ebitenHost{}

func (h *ebitenHost) ensureRunning() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.started {
		return
	}
	h.started = true
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle("MapMap")
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	go func() {
		_ = ebiten.RunGame(h)
	}()
}

func (h *ebitenHost) register(s *EbitenSurface) {
	h.mu.Lock()
	h.surfaces = append(h.surfaces, s)
	h.mu.Unlock()
}

func (h *ebitenHost) unregister(s *EbitenSurface) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, surf := range h.surfaces {
		if surf == s {
			h.surfaces = append(h.surfaces[:i], h.surfaces[i+1:]...)
			break
		}
	}
}

// Update implements ebiten.Game.
func (h *ebitenHost) Update() error {
	if ebiten.IsWindowBeingClosed() {
		h.mu.Lock()
		for _, s := range h.surfaces {
			s.signalClosed()
		}
		h.mu.Unlock()
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game, tiling every registered surface's image
// into a grid across the shared window.
func (h *ebitenHost) Draw(screen *ebiten.Image) {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := len(h.surfaces)
	if n == 0 {
		return
	}
	bounds := screen.Bounds()
	sw, sh := bounds.Dx(), bounds.Dy()
	cols := ceilSqrt(n)
	rows := (n + cols - 1) / cols
	cellW, cellH := sw/cols, sh/rows

	for i, s := range h.surfaces {
		img := s.ebitenImage()
		if img == nil {
			continue
		}
		col, row := i%cols, i/cols
		ib := img.Bounds()
		opts := &ebiten.DrawImageOptions{}
		if ib.Dx() > 0 && ib.Dy() > 0 && cellW > 0 && cellH > 0 {
			opts.GeoM.Scale(float64(cellW)/float64(ib.Dx()), float64(cellH)/float64(ib.Dy()))
		}
		opts.GeoM.Translate(float64(col*cellW), float64(row*cellH))
		screen.DrawImage(img, opts)
	}
}

// Layout implements ebiten.Game.
func (h *ebitenHost) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

func ceilSqrt(n int) int {
	c := 1
	for c*c < n {
		c++
	}
	return c
}
