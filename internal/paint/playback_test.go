package paint

import (
	"testing"
	"time"
)

// fakeDecoder is a deterministic Decoder stub for playback engine tests.
type fakeDecoder struct {
	w, h int
	dur  time.Duration
}

func (f *fakeDecoder) Resolution() (int, int)    { return f.w, f.h }
func (f *fakeDecoder) FPS() float64              { return 30 }
func (f *fakeDecoder) Duration() time.Duration   { return f.dur }
func (f *fakeDecoder) Close() error              { return nil }
func (f *fakeDecoder) FrameAt(t time.Duration) (*Frame, error) {
	return &Frame{Width: f.w, Height: f.h, PTS: t}, nil
}

func TestLoopRepeatWraps(t *testing.T) {
	d := &fakeDecoder{w: 4, h: 4, dur: 10 * time.Second}
	e := NewPlaybackEngine(d)
	e.LoopMode = LoopRepeat
	e.Play()
	e.Position = 9 * time.Second

	if _, err := e.Update(2*time.Second, 1); err != nil {
		t.Fatalf("update error: %v", err)
	}
	if e.Position != 1*time.Second {
		t.Fatalf("expected wrap to 1s, got %v", e.Position)
	}
}

func TestPingPongReflectsAndInvertsDirection(t *testing.T) {
	d := &fakeDecoder{w: 4, h: 4, dur: 10 * time.Second}
	e := NewPlaybackEngine(d)
	e.LoopMode = LoopPingPong
	e.Play()
	e.Position = 9 * time.Second

	if _, err := e.Update(2*time.Second, 1); err != nil {
		t.Fatalf("update error: %v", err)
	}
	if e.Position != 9*time.Second {
		t.Fatalf("expected reflection to 9s, got %v", e.Position)
	}
	if e.Direction != Backward {
		t.Fatalf("expected direction flipped to Backward, got %v", e.Direction)
	}
}

func TestPlayOnceAndHoldClampsAndPauses(t *testing.T) {
	d := &fakeDecoder{w: 4, h: 4, dur: 10 * time.Second}
	e := NewPlaybackEngine(d)
	e.LoopMode = LoopPlayOnceAndHold
	e.Play()
	e.Position = 9 * time.Second

	if _, err := e.Update(2*time.Second, 1); err != nil {
		t.Fatalf("update error: %v", err)
	}
	if e.Position != e.duration {
		t.Fatalf("expected clamp to duration, got %v", e.Position)
	}
	if e.State != Paused {
		t.Fatalf("expected transition to Paused, got %v", e.State)
	}
}

func TestPlayOnceAndEjectStops(t *testing.T) {
	d := &fakeDecoder{w: 4, h: 4, dur: 10 * time.Second}
	e := NewPlaybackEngine(d)
	e.LoopMode = LoopPlayOnceAndEject
	e.Play()
	e.Position = 9 * time.Second

	if _, err := e.Update(2*time.Second, 1); err != nil {
		t.Fatalf("update error: %v", err)
	}
	if e.State != Stopped {
		t.Fatalf("expected transition to Stopped, got %v", e.State)
	}
}

func TestSeekClampsAndForcesNextFrame(t *testing.T) {
	d := &fakeDecoder{w: 4, h: 4, dur: 10 * time.Second}
	e := NewPlaybackEngine(d)
	e.Seek(20 * time.Second)
	if e.Position != e.duration {
		t.Fatalf("expected seek clamp to duration, got %v", e.Position)
	}
	e.Seek(-5 * time.Second)
	if e.Position != 0 {
		t.Fatalf("expected seek clamp to 0, got %v", e.Position)
	}
}

func TestNotPlayingProducesNoFrame(t *testing.T) {
	d := &fakeDecoder{w: 4, h: 4, dur: 10 * time.Second}
	e := NewPlaybackEngine(d)
	frame, err := e.Update(time.Second, 1)
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if frame != nil {
		t.Fatalf("expected no frame while stopped, got %v", frame)
	}
}

func TestEffectiveRateScalesAdvance(t *testing.T) {
	d := &fakeDecoder{w: 4, h: 4, dur: 100 * time.Second}
	e := NewPlaybackEngine(d)
	e.Play()
	if _, err := e.Update(time.Second, 2.0); err != nil {
		t.Fatalf("update error: %v", err)
	}
	if e.Position != 2*time.Second {
		t.Fatalf("expected position 2s with effective_rate=2, got %v", e.Position)
	}
}
