package paint

import (
	"path/filepath"
	"sort"
	"time"
)

// ImageSequence is a Decoder over an ordered list of still images played
// back at a fixed rate, the frame-folder convention used by projection
// mapping tools for non-video animated sources (spec §6).
type ImageSequence struct {
	frames []*StillImage
	fps    float64
	width  int
	height int
}

// LoadImageSequence globs pattern (e.g. "frames/seq_*.png"), sorts matches
// lexically, and decodes each as a StillImage. fps sets the playback rate;
// all frames must share the first frame's dimensions.
func LoadImageSequence(pattern string, fps float64) (*ImageSequence, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, &DecodeError{Operation: "glob", Details: pattern, Err: err}
	}
	if len(matches) == 0 {
		return nil, &DecodeError{Operation: "glob", Details: pattern + ": no matches"}
	}
	sort.Strings(matches)

	frames := make([]*StillImage, 0, len(matches))
	var w, h int
	for i, path := range matches {
		img, err := LoadStillImage(path)
		if err != nil {
			return nil, &DecodeError{Operation: "decode sequence frame", Details: path, Err: err}
		}
		if i == 0 {
			w, h = img.width, img.height
		} else if img.width != w || img.height != h {
			return nil, &DecodeError{Operation: "decode sequence frame", Details: path + ": dimension mismatch"}
		}
		frames = append(frames, img)
	}

	return &ImageSequence{frames: frames, fps: fps, width: w, height: h}, nil
}

func (s *ImageSequence) Resolution() (int, int) { return s.width, s.height }
func (s *ImageSequence) FPS() float64           { return s.fps }

func (s *ImageSequence) Duration() time.Duration {
	if s.fps <= 0 {
		return 0
	}
	return time.Duration(float64(len(s.frames)) / s.fps * float64(time.Second))
}

func (s *ImageSequence) Close() error { return nil }

func (s *ImageSequence) FrameAt(t time.Duration) (*Frame, error) {
	if len(s.frames) == 0 {
		return nil, &DecodeError{Operation: "frame_at", Details: "empty sequence"}
	}
	idx := int(t.Seconds() * s.fps)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(s.frames) {
		idx = len(s.frames) - 1
	}
	img := s.frames[idx]
	return &Frame{Width: img.width, Height: img.height, Pixels: img.rgba, PTS: t}, nil
}
