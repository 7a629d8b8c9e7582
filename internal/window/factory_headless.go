//go:build headless

package window

// DefaultFactory returns the SurfaceFactory a headless build uses: no
// OS windows at all, matching internal/audio's headless NewOtoBackend
// stand-in used for CI and tests where no display exists.
func DefaultFactory() SurfaceFactory {
	return NewHeadlessSurface
}
