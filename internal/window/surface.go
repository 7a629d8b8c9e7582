// Package window implements the WindowManager (spec §4.10, M/T1): one
// main (UI) window plus zero or more output windows tracking
// output.Manager's live set, reconfigured on resize, torn down on
// close. It owns OS/surface integration only — no immediate-mode UI
// panel, file dialog, or clipboard behavior, which spec.md's Non-goals
// place outside the core.
package window

// Surface is one presentable window — the main preview or one output —
// abstracted the way EbitenOutput (video_backend_ebiten.go) wraps a
// single OS window behind Start/Stop/UpdateFrame/GetSnapshot, adapted
// here to one Surface per logical window rather than one process-global
// output.
type Surface interface {
	// Resize reconfigures the surface for a new pixel size. A surface
	// created without a size skips Present until Resize returns nil, and
	// Present skips any frame whose size differs from the last configured
	// one (spec §4.10: "until
	// the next successful reconfigure, render attempts on that window are
	// skipped").
	Resize(width, height int) error

	// Present uploads one RGBA8 frame of size width*height*4 bytes.
	Present(pixels []byte, width, height int) error

	// Closed reports whether the underlying OS window has received a
	// close request since the last check.
	Closed() bool

	// Close releases the surface's resources.
	Close() error
}

// Config is the Size Budget a Surface is created or resized with.
type Config struct {
	Width  int
	Height int
	Title  string
}
