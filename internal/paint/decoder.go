// Package paint implements the per-paint media decode/playback state
// machine (spec §4.1) and the paint-to-GPU-texture store (spec §4.2).
package paint

import "time"

// Frame is one decoded video/image frame, in whatever native pixel layout
// the decoder produces; ToRGBA converts it to straight RGBA8.
type Frame struct {
	Width, Height int
	Pixels        []byte // native layout, interpreted by the owning Decoder
	PTS           time.Duration
}

// Decoder is the minimal interface the core consumes from a media source
// (spec §6). Concrete kinds: video, image-sequence, still-image,
// test-pattern.
type Decoder interface {
	// Resolution returns the media's natural pixel dimensions.
	Resolution() (width, height int)
	// FPS returns the source frame rate, or 0 if not applicable (e.g. a
	// still image).
	FPS() float64
	// Duration returns the total playable duration. Zero for a still
	// image or an endlessly-generated test pattern.
	Duration() time.Duration
	// FrameAt returns the frame whose presentation timestamp brackets t.
	FrameAt(t time.Duration) (*Frame, error)
	// Close releases any resources (file handles, subprocesses) held by
	// the decoder.
	Close() error
}

// ToRGBA converts a Frame's native pixels to straight RGBA8 bytes. Decoders
// that already produce RGBA return Pixels unchanged; others (e.g. a YUV
// video decoder) convert here so downstream code only ever deals in RGBA.
type RGBAConverter interface {
	ToRGBA(f *Frame) []byte
}
