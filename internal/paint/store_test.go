package paint

import (
	"testing"
	"time"
)

func TestStoreTickPublishesLatestFrame(t *testing.T) {
	s := NewStore()
	id := s.Add(KindTestPattern, 1.0, &fakeDecoder{w: 8, h: 8, dur: 10 * time.Second})

	eng, ok := s.Engine(id)
	if !ok {
		t.Fatal("expected engine to be found")
	}
	eng.Play()

	s.Tick(100*time.Millisecond, 1.0)

	frame, w, h, version, ok := s.Latest(id)
	if !ok {
		t.Fatal("expected published frame")
	}
	if frame == nil || w != 8 || h != 8 {
		t.Fatalf("unexpected published frame: %+v w=%d h=%d", frame, w, h)
	}
	if version != 1 {
		t.Fatalf("expected version 1, got %d", version)
	}

	s.Tick(100*time.Millisecond, 1.0)
	_, _, _, version2, _ := s.Latest(id)
	if version2 != 2 {
		t.Fatalf("expected version 2 after second tick, got %d", version2)
	}
}

func TestStoreRemoveClosesDecoder(t *testing.T) {
	s := NewStore()
	id := s.Add(KindTestPattern, 1.0, &fakeDecoder{w: 4, h: 4, dur: time.Second})
	if err := s.Remove(id); err != nil {
		t.Fatalf("unexpected error removing: %v", err)
	}
	if err := s.Remove(id); err == nil {
		t.Fatal("expected error removing already-removed id")
	}
}

func TestStoreLatestUnknownID(t *testing.T) {
	s := NewStore()
	if _, _, _, _, ok := s.Latest(ID(999)); ok {
		t.Fatal("expected not-ok for unknown id")
	}
}
