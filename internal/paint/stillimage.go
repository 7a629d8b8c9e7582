package paint

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// StillImage is a Decoder over a single decoded image file. Registers
// png/jpeg/gif via the standard library and bmp/tiff/webp via the
// teacher's own golang.org/x/image dependency, matching spec §6's listed
// still-image extensions.
type StillImage struct {
	width, height int
	rgba          []byte
}

// LoadStillImage decodes path once at construction time; FrameAt then
// always returns the same pixels regardless of t.
func LoadStillImage(path string) (*StillImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Operation: "open", Details: path, Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &DecodeError{Operation: "decode", Details: path, Err: err}
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	rgba := image.NewRGBA(b)
	drawInto(rgba, img)

	return &StillImage{width: w, height: h, rgba: rgba.Pix}, nil
}

// drawInto copies src into dst pixel by pixel, avoiding a dependency on
// the golang.org/x/image/draw package for this one conversion.
func drawInto(dst *image.RGBA, src image.Image) {
	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x, y, src.At(x, y))
		}
	}
}

func (s *StillImage) Resolution() (int, int)  { return s.width, s.height }
func (s *StillImage) FPS() float64            { return 0 }
func (s *StillImage) Duration() time.Duration { return 0 }
func (s *StillImage) Close() error            { return nil }

func (s *StillImage) FrameAt(t time.Duration) (*Frame, error) {
	return &Frame{Width: s.width, Height: s.height, Pixels: s.rgba, PTS: t}, nil
}
