// Package audio implements the audio-analysis half of the parameter
// fabric's sources (spec §4.9: "audio.*" paths): a lock-free SPSC ring
// buffer fed from a capture/monitor thread, an AudioAnalyzer producing
// FFT band energies and beat/onset/tempo estimates, and the backend
// split (oto-backed / headless) that feeds the ring.
package audio

import "sync/atomic"

// Ring is a single-producer single-consumer lock-free ring buffer of
// float32 PCM samples (spec §5: "audio capture happens on a separate OS
// thread, coupled to the render loop via a lock-free ring buffer").
// Grounded on the teacher's SoundChip ring (ReadSampleFromRing) and its
// atomic.Pointer-based lock-free hot path in OtoPlayer.Read.
type Ring struct {
	buf        []float32
	mask       uint64
	writeIndex atomic.Uint64
	readIndex  atomic.Uint64
}

// NewRing allocates a ring whose capacity is the next power of two >=
// size.
func NewRing(size int) *Ring {
	n := 1
	for n < size {
		n *= 2
	}
	return &Ring{buf: make([]float32, n), mask: uint64(n - 1)}
}

// Write pushes samples into the ring. If the ring is full, the oldest
// unread samples are overwritten and the read cursor is advanced past
// them (the producer thread must never block on a consumer that has
// fallen behind — spec §5's lock-free discipline).
func (r *Ring) Write(samples []float32) {
	capacity := r.mask + 1
	for _, s := range samples {
		w := r.writeIndex.Load()
		r.buf[w&r.mask] = s
		r.writeIndex.Store(w + 1)

		read := r.readIndex.Load()
		if w+1-read > capacity {
			r.readIndex.Store(w + 1 - capacity)
		}
	}
}

// Read drains up to len(out) unread samples, returning the count read.
func (r *Ring) Read(out []float32) int {
	w := r.writeIndex.Load()
	read := r.readIndex.Load()
	avail := w - read
	n := uint64(len(out))
	if avail < n {
		n = avail
	}
	for i := uint64(0); i < n; i++ {
		out[i] = r.buf[(read+i)&r.mask]
	}
	r.readIndex.Store(read + n)
	return int(n)
}

// Available reports how many unread samples are currently buffered.
func (r *Ring) Available() int {
	return int(r.writeIndex.Load() - r.readIndex.Load())
}
