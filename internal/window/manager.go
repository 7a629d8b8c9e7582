package window

import (
	"sync"

	"github.com/mrlongnight/mapmap/internal/output"
)

// SurfaceFactory constructs a new Surface, e.g. an OS window or a
// headless in-memory stand-in for tests.
type SurfaceFactory func(cfg Config) (Surface, error)

// Manager owns one main window and one Surface per live output,
// mirroring output.Manager's set on each SyncWindows call (spec §4.10:
// "Owns one main (UI) window and zero or more output windows.
// sync_windows(output_manager) creates a window for every new output and
// destroys windows for removed outputs").
type Manager struct {
	mu      sync.Mutex
	factory SurfaceFactory
	main    Surface
	outputs map[output.ID]Surface
}

// NewManager creates the main window via factory and returns a Manager
// with no output windows yet.
func NewManager(factory SurfaceFactory, mainCfg Config) (*Manager, error) {
	main, err := factory(mainCfg)
	if err != nil {
		return nil, err
	}
	return &Manager{factory: factory, main: main, outputs: make(map[output.ID]Surface)}, nil
}

// SyncWindows creates a Surface for every config not already tracked and
// closes+drops every tracked Surface whose output has been removed.
func (m *Manager) SyncWindows(configs []*output.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[output.ID]bool, len(configs))
	for _, c := range configs {
		seen[c.ID] = true
		if _, ok := m.outputs[c.ID]; ok {
			continue
		}
		surf, err := m.factory(Config{Width: c.ResolutionW, Height: c.ResolutionH, Title: c.Name})
		if err != nil {
			return err
		}
		m.outputs[c.ID] = surf
	}
	for id, surf := range m.outputs {
		if !seen[id] {
			surf.Close()
			delete(m.outputs, id)
		}
	}
	return nil
}

// HandleResize forwards a size event to the output window's surface, or
// to the main window if id is the zero value. Render attempts on this
// surface are skipped by PresentOutput/PresentMain until Resize next
// succeeds (spec §4.10).
func (m *Manager) HandleResize(id output.ID, width, height int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id == 0 {
		return m.main.Resize(width, height)
	}
	surf, ok := m.outputs[id]
	if !ok {
		return nil
	}
	return surf.Resize(width, height)
}

// PresentMain uploads one frame to the main window.
func (m *Manager) PresentMain(pixels []byte, width, height int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.main.Present(pixels, width, height)
}

// PresentOutput uploads one frame to output id's window, if tracked.
func (m *Manager) PresentOutput(id output.ID, pixels []byte, width, height int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	surf, ok := m.outputs[id]
	if !ok {
		return nil
	}
	return surf.Present(pixels, width, height)
}

// PollClosed reports whether the main window received a close request
// (spec §4.10: "the main window's close event terminates the run") and
// which output windows did ("an output window's close event removes the
// corresponding OutputConfig" — the caller is responsible for calling
// output.Manager.Remove for each returned id; Manager only tracks the
// window side of that removal).
func (m *Manager) PollClosed() (mainClosed bool, closedOutputs []output.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mainClosed = m.main.Closed()
	for id, surf := range m.outputs {
		if surf.Closed() {
			closedOutputs = append(closedOutputs, id)
			surf.Close()
			delete(m.outputs, id)
		}
	}
	return mainClosed, closedOutputs
}

// Close tears down every tracked window.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.main.Close()
	for _, surf := range m.outputs {
		surf.Close()
	}
	m.outputs = make(map[output.ID]Surface)
	return err
}
