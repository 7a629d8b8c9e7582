//go:build headless

package audio

// HeadlessBackend drains its source (if any) into the ring without
// touching any real audio device, matching the teacher's headless
// OtoPlayer stand-in (audio_backend_headless.go) used for CI and tests
// where no audio hardware is available.
type HeadlessBackend struct {
	ring    *Ring
	source  SampleSource
	started bool
	buf     []float32
}

// NewOtoBackend keeps the same constructor name as the real backend so
// callers (and build tags) are the only thing that changes.
func NewOtoBackend(sampleRate int, ringSize int) (*HeadlessBackend, error) {
	return &HeadlessBackend{ring: NewRing(ringSize), buf: make([]float32, 1024)}, nil
}

func (b *HeadlessBackend) SetSource(src SampleSource) { b.source = src }

func (b *HeadlessBackend) Start() error {
	b.started = true
	return nil
}

func (b *HeadlessBackend) Stop() { b.started = false }

func (b *HeadlessBackend) Close() { b.started = false }

func (b *HeadlessBackend) Ring() *Ring { return b.ring }

// Pump drains one buffer's worth of samples from the installed source
// into the ring (one buffer of zeros when no source is installed); call
// it from a test or a headless orchestrator tick in place of the real
// backend's device-driven callback.
func (b *HeadlessBackend) Pump() {
	if !b.started {
		return
	}
	if b.source == nil {
		for i := range b.buf {
			b.buf[i] = 0
		}
		b.ring.Write(b.buf)
		return
	}
	n, _ := b.source.ReadSamples(b.buf)
	b.ring.Write(b.buf[:n])
}
