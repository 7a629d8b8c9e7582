//go:build !headless

package audio

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

// OtoBackend monitors a SampleSource through the system's audio output
// while tee-ing every sample into a Ring for analysis (spec §4.9/§5).
// Grounded on the teacher's OtoPlayer (audio_backend_oto.go): an
// atomic.Pointer-held source for the lock-free Read hot path, a mutex
// guarding setup/control only.
type OtoBackend struct {
	ctx     *oto.Context
	player  *oto.Player
	source  atomic.Pointer[SampleSource]
	ring    *Ring
	sampleBuf []float32
	started bool
	mutex   sync.Mutex
}

// NewOtoBackend opens an oto playback context at sampleRate and returns
// a backend ready for SetSource/Start.
func NewOtoBackend(sampleRate int, ringSize int) (*OtoBackend, error) {
	opts := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4,
	}
	ctx, ready, err := oto.NewContext(opts)
	if err != nil {
		return nil, err
	}
	<-ready

	b := &OtoBackend{ctx: ctx, ring: NewRing(ringSize), sampleBuf: make([]float32, 4096)}
	b.player = ctx.NewPlayer(b)
	return b, nil
}

// SetSource installs src atomically; the Read hot path never takes mutex.
func (b *OtoBackend) SetSource(src SampleSource) {
	if src == nil {
		b.source.Store(nil)
		return
	}
	b.source.Store(&src)
}

// Read implements io.Reader for oto.Player: it pulls samples from the
// installed source (silence if none), tees them into the ring, and
// copies them out as little-endian float32 bytes.
func (b *OtoBackend) Read(p []byte) (int, error) {
	srcPtr := b.source.Load()
	numSamples := len(p) / 4
	if len(b.sampleBuf) < numSamples {
		b.sampleBuf = make([]float32, numSamples)
	}
	samples := b.sampleBuf[:numSamples]

	if srcPtr == nil {
		for i := range samples {
			samples[i] = 0
		}
	} else {
		n, _ := (*srcPtr).ReadSamples(samples)
		for i := n; i < numSamples; i++ {
			samples[i] = 0
		}
	}
	b.ring.Write(samples)
	packFloat32LE(p, samples)
	return len(p), nil
}

// Start begins playback.
func (b *OtoBackend) Start() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if !b.started {
		b.player.Play()
		b.started = true
	}
	return nil
}

// Stop pauses playback.
func (b *OtoBackend) Stop() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.started {
		b.player.Pause()
		b.started = false
	}
}

// Close releases the underlying player.
func (b *OtoBackend) Close() {
	b.Stop()
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.player != nil {
		b.player.Close()
		b.player = nil
	}
}

// Ring returns the backend's sample ring.
func (b *OtoBackend) Ring() *Ring { return b.ring }

func packFloat32LE(dst []byte, samples []float32) {
	for i, s := range samples {
		bits := math.Float32bits(s)
		dst[i*4] = byte(bits)
		dst[i*4+1] = byte(bits >> 8)
		dst[i*4+2] = byte(bits >> 16)
		dst[i*4+3] = byte(bits >> 24)
	}
}
