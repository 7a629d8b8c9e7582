//go:build !headless

package window

// DefaultFactory returns the SurfaceFactory a normal (non-headless)
// build should use: real OS windows backed by ebiten. Mirrors the
// build-tag symmetry internal/audio already uses for NewOtoBackend, so
// cmd/mapmap never has to branch on the headless tag itself.
func DefaultFactory() SurfaceFactory {
	return NewEbitenSurface
}
