package window

import (
	"testing"

	"github.com/mrlongnight/mapmap/internal/output"
)

func TestSyncWindowsCreatesAndDestroys(t *testing.T) {
	wm, err := NewManager(NewHeadlessSurface, Config{Width: 640, Height: 480})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	om := output.NewManager()
	id1 := om.Add("left", output.Region{W: 0.5, H: 1}, 100, 100)

	if err := wm.SyncWindows(om.All()); err != nil {
		t.Fatalf("SyncWindows failed: %v", err)
	}
	if len(wm.outputs) != 1 {
		t.Fatalf("expected 1 tracked output window, got %d", len(wm.outputs))
	}

	om.Remove(id1)
	if err := wm.SyncWindows(om.All()); err != nil {
		t.Fatalf("SyncWindows failed: %v", err)
	}
	if len(wm.outputs) != 0 {
		t.Fatalf("expected 0 tracked output windows after remove, got %d", len(wm.outputs))
	}
}

func TestPresentSkippedUntilResizeSucceeds(t *testing.T) {
	wm, err := NewManager(NewHeadlessSurface, Config{})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	om := output.NewManager()
	id := om.Add("out", output.Region{W: 1, H: 1}, 0, 0)
	if err := wm.SyncWindows(om.All()); err != nil {
		t.Fatalf("SyncWindows failed: %v", err)
	}

	pixels := make([]byte, 4*4*4)
	if err := wm.PresentOutput(id, pixels, 4, 4); err != nil {
		t.Fatalf("PresentOutput failed: %v", err)
	}
	surf := wm.outputs[id].(*HeadlessSurface)
	if got := surf.LastFrame(); got != nil {
		t.Fatalf("expected no frame presented before a successful resize, got %d bytes", len(got))
	}

	if err := wm.HandleResize(id, 4, 4); err != nil {
		t.Fatalf("HandleResize failed: %v", err)
	}
	if err := wm.PresentOutput(id, pixels, 4, 4); err != nil {
		t.Fatalf("PresentOutput failed: %v", err)
	}
	if got := surf.LastFrame(); len(got) != len(pixels) {
		t.Fatalf("expected frame presented after resize, got %d bytes", len(got))
	}
}

func TestPollClosedReportsMainAndOutputs(t *testing.T) {
	wm, err := NewManager(NewHeadlessSurface, Config{Width: 640, Height: 480})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	om := output.NewManager()
	id := om.Add("out", output.Region{W: 1, H: 1}, 100, 100)
	if err := wm.SyncWindows(om.All()); err != nil {
		t.Fatalf("SyncWindows failed: %v", err)
	}

	wm.outputs[id].(*HeadlessSurface).RequestClose()
	mainClosed, closed := wm.PollClosed()
	if mainClosed {
		t.Fatal("expected main window not closed")
	}
	if len(closed) != 1 || closed[0] != id {
		t.Fatalf("expected output %v reported closed, got %v", id, closed)
	}
	if _, ok := wm.outputs[id]; ok {
		t.Fatal("expected closed output window dropped from tracking")
	}

	wm.main.(*HeadlessSurface).RequestClose()
	mainClosed, _ = wm.PollClosed()
	if !mainClosed {
		t.Fatal("expected main window closed after RequestClose")
	}
}
