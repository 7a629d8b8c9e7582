package paint

import "time"

// TestPatternKind selects which deterministic signal the TestPattern
// decoder generates.
type TestPatternKind int

const (
	PatternColorBars TestPatternKind = iota
	PatternCheckerboard
	PatternGrid
)

// TestPattern is a Decoder that generates deterministic RGBA frames with no
// backing media file, adapted from the teacher's deterministic signal
// generators (e.g. the VGA test patterns in video_vga.go).
type TestPattern struct {
	kind          TestPatternKind
	width, height int
}

// NewTestPattern returns a TestPattern decoder of the given kind and size.
func NewTestPattern(kind TestPatternKind, width, height int) *TestPattern {
	return &TestPattern{kind: kind, width: width, height: height}
}

func (t *TestPattern) Resolution() (int, int)  { return t.width, t.height }
func (t *TestPattern) FPS() float64            { return 0 }
func (t *TestPattern) Duration() time.Duration { return 0 }
func (t *TestPattern) Close() error            { return nil }

// FrameAt ignores t entirely: a test pattern is timeless, regenerated on
// demand with identical output for a given kind/size.
func (t *TestPattern) FrameAt(at time.Duration) (*Frame, error) {
	pixels := make([]byte, t.width*t.height*4)
	switch t.kind {
	case PatternColorBars:
		t.fillColorBars(pixels)
	case PatternCheckerboard:
		t.fillCheckerboard(pixels)
	case PatternGrid:
		t.fillGrid(pixels)
	}
	return &Frame{Width: t.width, Height: t.height, Pixels: pixels, PTS: at}, nil
}

var colorBars = [8][3]byte{
	{255, 255, 255}, // white
	{255, 255, 0},   // yellow
	{0, 255, 255},   // cyan
	{0, 255, 0},     // green
	{255, 0, 255},   // magenta
	{255, 0, 0},     // red
	{0, 0, 255},     // blue
	{0, 0, 0},       // black
}

func (t *TestPattern) fillColorBars(pixels []byte) {
	barWidth := t.width / len(colorBars)
	if barWidth < 1 {
		barWidth = 1
	}
	for y := 0; y < t.height; y++ {
		for x := 0; x < t.width; x++ {
			bar := x / barWidth
			if bar >= len(colorBars) {
				bar = len(colorBars) - 1
			}
			c := colorBars[bar]
			i := (y*t.width + x) * 4
			pixels[i+0] = c[0]
			pixels[i+1] = c[1]
			pixels[i+2] = c[2]
			pixels[i+3] = 255
		}
	}
}

func (t *TestPattern) fillCheckerboard(pixels []byte) {
	const cell = 16
	for y := 0; y < t.height; y++ {
		for x := 0; x < t.width; x++ {
			light := ((x/cell)+(y/cell))%2 == 0
			i := (y*t.width + x) * 4
			var v byte = 32
			if light {
				v = 220
			}
			pixels[i+0], pixels[i+1], pixels[i+2], pixels[i+3] = v, v, v, 255
		}
	}
}

func (t *TestPattern) fillGrid(pixels []byte) {
	const spacing = 32
	for y := 0; y < t.height; y++ {
		for x := 0; x < t.width; x++ {
			i := (y*t.width + x) * 4
			onLine := x%spacing == 0 || y%spacing == 0
			var v byte = 16
			if onLine {
				v = 255
			}
			pixels[i+0], pixels[i+1], pixels[i+2], pixels[i+3] = v, v, v, 255
		}
	}
}
