package composition

import "testing"

func TestNewCompositionDefaults(t *testing.T) {
	c := New(Config{Name: "show", Width: 640, Height: 480, FrameRate: 60})

	if c.MasterOpacity != 1 {
		t.Fatalf("expected master_opacity 1, got %v", c.MasterOpacity)
	}
	if c.MasterSpeed != 1 {
		t.Fatalf("expected master_speed 1, got %v", c.MasterSpeed)
	}
	if c.Paints == nil || c.Mappings == nil || c.Layers == nil || c.Outputs == nil || c.Params == nil || c.Audio == nil {
		t.Fatal("expected every component manager to be initialized")
	}
	if c.Windows != nil {
		t.Fatal("expected Windows to be nil until SetWindows is called")
	}
}
