package software

import (
	"testing"

	"github.com/mrlongnight/mapmap/internal/gpu"
)

func solidTexture(d *Device, w, h int, r, g, b, a byte) *Texture {
	tex, _ := d.CreateTexture(gpu.TextureDescriptor{Width: w, Height: h, Format: gpu.FormatRGBA8Srgb})
	t := tex.(*Texture)
	for i := 0; i < len(t.pix); i += 4 {
		t.pix[i], t.pix[i+1], t.pix[i+2], t.pix[i+3] = r, g, b, a
	}
	return t
}

// TestEmptyChainPassthrough grounds spec §8 property 5.
func TestEmptyChainPassthrough(t *testing.T) {
	d := NewDevice()
	src := solidTexture(d, 32, 32, 255, 0, 0, 255)
	dstTex, _ := d.CreateTexture(gpu.TextureDescriptor{Width: 32, Height: 32, Format: gpu.FormatRGBA8Srgb})
	dst := dstTex.(*Texture)

	enc := d.CreateCommandEncoder()
	pass := enc.BeginRenderPass(dst.View(), [4]float32{0, 0, 0, 1})
	pl, _ := d.CreateRenderPipeline(gpu.RenderPipelineDescriptor{Label: "passthrough"})
	bg := d.CreateBindGroup([]gpu.BindGroupEntry{{Binding: 0, Texture: src.View()}})
	pass.DrawFullscreen(pl, bg)
	pass.End()

	for i := 0; i < len(dst.pix); i += 4 {
		if dst.pix[i] != 255 || dst.pix[i+1] != 0 || dst.pix[i+2] != 0 || dst.pix[i+3] != 255 {
			t.Fatalf("passthrough pixel %d = %v, want [255,0,0,255]", i/4, dst.pix[i:i+4])
		}
	}
}

// TestBlurColorAdjustDesaturatesBlue grounds spec §8 property 6.
func TestBlurColorAdjustDesaturatesBlue(t *testing.T) {
	d := NewDevice()
	src := solidTexture(d, 32, 32, 0, 0, 255, 255)

	blurDst, _ := d.CreateTexture(gpu.TextureDescriptor{Width: 32, Height: 32, Format: gpu.FormatRGBA8Srgb})
	blurTex := blurDst.(*Texture)
	applyEffect("Blur", src, blurTex, []float32{0, 1, 0, 9, 0, 0, 32, 32})

	caDst, _ := d.CreateTexture(gpu.TextureDescriptor{Width: 32, Height: 32, Format: gpu.FormatRGBA8Srgb})
	caTex := caDst.(*Texture)
	applyEffect("ColorAdjust", blurTex, caTex, []float32{0, 1, 0, 1, 0, 0, 32, 32}) // brightness=0,contrast=1,saturation=0

	i := (16*32 + 16) * 4
	r, g, b := int(caTex.pix[i]), int(caTex.pix[i+1]), int(caTex.pix[i+2])
	if absInt(r-g) >= 5 || absInt(g-b) >= 5 {
		t.Fatalf("expected grayscale pixel, got rgb=(%d,%d,%d)", r, g, b)
	}
}

// TestDrawBlendModes grounds Layer.BlendMode (spec §3): drawing a
// half-gray source at full opacity over a half-gray target must produce
// a brighter result under BlendAdd/BlendScreen than under BlendNormal,
// and a darker-or-equal result under BlendMultiply.
func TestDrawBlendModes(t *testing.T) {
	drawOnce := func(blend gpu.BlendMode) byte {
		d := NewDevice()
		src := solidTexture(d, 4, 4, 128, 128, 128, 255)
		dstTex, _ := d.CreateTexture(gpu.TextureDescriptor{Width: 4, Height: 4, Format: gpu.FormatRGBA8Srgb})
		dst := dstTex.(*Texture)

		enc := d.CreateCommandEncoder()
		gray := float32(128) / 255
		pass := enc.BeginRenderPass(dst.View(), [4]float32{gray, gray, gray, 1})
		pl, _ := d.CreateRenderPipeline(gpu.RenderPipelineDescriptor{Label: "mesh"})
		pass.Draw(pl, gpu.Draw{
			Positions: [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
			UVs:       [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
			Indices:   []uint16{0, 1, 2, 0, 2, 3},
			MVP:       [16]float32{4, 0, 0, 0, 0, 4, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
			Opacity:   1,
			Texture:   src.View(),
			Blend:     blend,
		})
		pass.End()
		return dst.pix[0]
	}

	normal := drawOnce(gpu.BlendNormal)
	add := drawOnce(gpu.BlendAdd)
	multiply := drawOnce(gpu.BlendMultiply)
	screen := drawOnce(gpu.BlendScreen)

	if add <= normal {
		t.Fatalf("expected BlendAdd brighter than BlendNormal: add=%d normal=%d", add, normal)
	}
	if screen <= normal {
		t.Fatalf("expected BlendScreen brighter than BlendNormal: screen=%d normal=%d", screen, normal)
	}
	if multiply > normal {
		t.Fatalf("expected BlendMultiply no brighter than BlendNormal: multiply=%d normal=%d", multiply, normal)
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// TestVignetteFilmGrainCornerDarker grounds spec §8 property 7.
func TestVignetteFilmGrainCornerDarker(t *testing.T) {
	d := NewDevice()
	src := solidTexture(d, 32, 32, 255, 255, 255, 255)

	vigDst, _ := d.CreateTexture(gpu.TextureDescriptor{Width: 32, Height: 32, Format: gpu.FormatRGBA8Srgb})
	vigTex := vigDst.(*Texture)
	applyEffect("Vignette", src, vigTex, []float32{0, 1, 0.5, 0.5, 0, 0, 32, 32})

	grainDst, _ := d.CreateTexture(gpu.TextureDescriptor{Width: 32, Height: 32, Format: gpu.FormatRGBA8Srgb})
	grainTex := grainDst.(*Texture)
	applyEffect("FilmGrain", vigTex, grainTex, []float32{1.0, 1, 0.1, 1.0, 0, 0, 32, 32})

	centerSum := pixelSum(grainTex, 16, 16)
	cornerSum := pixelSum(grainTex, 0, 0)
	if cornerSum >= centerSum {
		t.Fatalf("expected corner strictly darker than center, got corner=%d center=%d", cornerSum, centerSum)
	}
	if centerSum >= 255*3 {
		t.Fatalf("expected center disturbed by grain (not pure white), got sum=%d", centerSum)
	}
}

func pixelSum(t *Texture, x, y int) int {
	i := (y*t.w + x) * 4
	return int(t.pix[i]) + int(t.pix[i+1]) + int(t.pix[i+2])
}

// TestEdgeBlendMonotonicity grounds spec §8 property 8.
func TestEdgeBlendMonotonicity(t *testing.T) {
	d := NewDevice()
	w := 100
	src := solidTexture(d, w, 1, 255, 0, 0, 255)
	dstTex, _ := d.CreateTexture(gpu.TextureDescriptor{Width: w, Height: 1, Format: gpu.FormatRGBA8Srgb})
	dst := dstTex.(*Texture)

	// Only the right edge enabled, width=0.5.
	u := make([]float32, 13)
	u[ebRightEnabled], u[ebRightWidth], u[ebRightOffset] = 1, 0.5, 0
	u[ebGamma] = 1

	applyEdgeBlend(src, dst, u)

	at := func(u float64) byte {
		x := int(u * float64(w))
		if x >= w {
			x = w - 1
		}
		return dst.pix[x*4]
	}

	r49 := at(0.49)
	r75 := at(0.75)
	r99 := at(0.99)

	if r49 < 200 {
		t.Fatalf("expected u=0.49 to remain near-red, got %d", r49)
	}
	if !(r75 > 10 && r75 < 200) {
		t.Fatalf("expected u=0.75 partially faded (10,200), got %d", r75)
	}
	if r99 >= 10 {
		t.Fatalf("expected u~=1.0 near black (<10), got %d", r99)
	}
}

// TestMeshCanvasTransformCenterAndCorner grounds spec §8 property 9.
func TestMeshCanvasTransformCenterAndCorner(t *testing.T) {
	d := NewDevice()
	src := solidTexture(d, 4, 4, 0, 255, 0, 255)
	outTex, _ := d.CreateTexture(gpu.TextureDescriptor{Width: 64, Height: 64, Format: gpu.FormatRGBA8Srgb})
	out := outTex.(*Texture)

	enc := d.CreateCommandEncoder()
	pass := enc.BeginRenderPass(out.View(), [4]float32{0, 0, 0, 1})
	pl, _ := d.CreateRenderPipeline(gpu.RenderPipelineDescriptor{Label: "mesh"})

	// Scale 0.5x, centered: canvas [0,1]^2 -> output pixel [16,48]^2.
	mvp := [16]float32{
		32, 0, 0, 16,
		0, 32, 0, 16,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	draw := gpu.Draw{
		Positions: [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		UVs:       [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Indices:   []uint16{0, 1, 2, 0, 2, 3},
		MVP:       mvp,
		Opacity:   1,
		Texture:   src.View(),
	}
	pass.Draw(pl, draw)
	pass.End()

	cx, cy := 32, 32
	ci := (cy*64 + cx) * 4
	if out.pix[ci] != 0 || out.pix[ci+1] != 255 || out.pix[ci+2] != 0 {
		t.Fatalf("expected center pixel == source green, got %v", out.pix[ci:ci+4])
	}

	corner := (0*64 + 0) * 4
	if out.pix[corner] != 0 || out.pix[corner+1] != 0 || out.pix[corner+2] != 0 {
		t.Fatalf("expected corner pixel == clear color black, got %v", out.pix[corner:corner+4])
	}
}
