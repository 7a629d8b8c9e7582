package software

import "github.com/mrlongnight/mapmap/internal/gpu"

// Texture is a CPU-backed RGBA8 image. Regardless of gpu.Format, pixels
// are stored straight RGBA8; FormatRGBA8Srgb textures are treated as
// sRGB-encoded in storage (the common case) and converted to/from linear
// light by the pixel-math helpers in color.go.
type Texture struct {
	w, h   int
	format gpu.Format
	pix    []byte // RGBA8, len == w*h*4
	label  string
}

// NewTexture allocates a zeroed texture of the given descriptor.
func NewTexture(desc gpu.TextureDescriptor) *Texture {
	return &Texture{
		w: desc.Width, h: desc.Height,
		format: desc.Format,
		pix:    make([]byte, desc.Width*desc.Height*4),
		label:  desc.Label,
	}
}

func (t *Texture) Width() int          { return t.w }
func (t *Texture) Height() int         { return t.h }
func (t *Texture) Format() gpu.Format  { return t.format }
func (t *Texture) View() gpu.TextureView { return &textureView{t: t} }

// Upload replaces the texture's pixel contents with rgba (spec §4.2:
// "upload pixels, atomically publish the new handle").
func (t *Texture) Upload(rgba []byte) {
	copy(t.pix, rgba)
}

// Pixels exposes the raw RGBA8 buffer for direct read/modify by the
// render passes in this package.
func (t *Texture) Pixels() []byte { return t.pix }

type textureView struct {
	t *Texture
}

func (v *textureView) Texture() gpu.Texture { return v.t }

// asTexture unwraps a gpu.TextureView known to be backed by this
// package's Texture; software.Device never hands out foreign views.
func asTexture(v gpu.TextureView) *Texture {
	return v.Texture().(*Texture)
}
