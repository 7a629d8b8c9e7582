package software

import "github.com/mrlongnight/mapmap/internal/gpu"

// renderPass accumulates draw calls against target, executing each one
// synchronously (spec §4.11: the software backend has no deferred
// command stage).
type renderPass struct {
	target *Texture
}

// Draw rasterizes one mesh (spec §4.3: MeshRenderer). Each vertex's
// canvas-normalized position is transformed by mvp into target pixel
// space (the caller's canvas-region-to-output transform, the full canvas
// for the main preview; a homogeneous divide by w is applied);
// triangles are filled via barycentric interpolation of uv, sampled from
// the bound texture with bilinear filtering, blended src-over into the
// target at opacity.
func (p *renderPass) Draw(pl gpu.RenderPipeline, d gpu.Draw) {
	if d.Texture == nil || len(d.Indices)%3 != 0 {
		return
	}
	src := asTexture(d.Texture)

	screen := make([][2]float32, len(d.Positions))
	for i, pos := range d.Positions {
		x, y, w := transformPoint(d.MVP, pos[0], pos[1])
		if w == 0 {
			w = 1
		}
		screen[i] = [2]float32{x / w, y / w}
	}

	for i := 0; i+2 < len(d.Indices); i += 3 {
		ia, ib, ic := d.Indices[i], d.Indices[i+1], d.Indices[i+2]
		p.rasterTriangle(screen[ia], screen[ib], screen[ic],
			d.UVs[ia], d.UVs[ib], d.UVs[ic], src, d.Opacity, d.Blend)
	}
}

// transformPoint applies a row-major 4x4 matrix to (x,y,0,1), returning
// the transformed x, y, w.
func transformPoint(m [16]float32, x, y float32) (rx, ry, rw float32) {
	rx = m[0]*x + m[1]*y + m[3]
	ry = m[4]*x + m[5]*y + m[7]
	rw = m[12]*x + m[13]*y + m[15]
	return
}

func (p *renderPass) rasterTriangle(a, b, c [2]float32, uvA, uvB, uvC [2]float32, src *Texture, opacity float32, blend gpu.BlendMode) {
	minX := int(min3(a[0], b[0], c[0]))
	maxX := int(max3(a[0], b[0], c[0])) + 1
	minY := int(min3(a[1], b[1], c[1]))
	maxY := int(max3(a[1], b[1], c[1])) + 1

	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > p.target.w {
		maxX = p.target.w
	}
	if maxY > p.target.h {
		maxY = p.target.h
	}

	area := edge(a, b, c)
	if area == 0 {
		return
	}

	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			pt := [2]float32{float32(x) + 0.5, float32(y) + 0.5}
			w0 := edge(b, c, pt)
			w1 := edge(c, a, pt)
			w2 := edge(a, b, pt)
			if (w0 < 0 || w1 < 0 || w2 < 0) && (w0 > 0 || w1 > 0 || w2 > 0) {
				continue // mixed signs: outside the triangle
			}
			l0, l1, l2 := w0/area, w1/area, w2/area
			u := l0*uvA[0] + l1*uvB[0] + l2*uvC[0]
			v := l0*uvA[1] + l1*uvB[1] + l2*uvC[1]

			sr, sg, sb, sa := sampleBilinear(src, u, v)
			sa *= float64(opacity)

			i := (y*p.target.w + x) * 4
			dr, dg, db, da := linearRGBA(p.target.pix, i)
			mr, mg, mb := blendColor(blend, dr, sr), blendColor(blend, dg, sg), blendColor(blend, db, sb)
			outR := mr*sa + dr*(1-sa)
			outG := mg*sa + dg*(1-sa)
			outB := mb*sa + db*(1-sa)
			outA := sa + da*(1-sa)
			storeLinearRGBA(p.target.pix, i, outR, outG, outB, outA)
		}
	}
}

// blendColor combines one color channel of the already-sampled source
// (src) with what is currently in the target (dst), before the result is
// carried into the existing alpha-over accumulation below. BlendNormal
// leaves src untouched, so it reproduces exactly the src-over compositing
// this rasterizer always did before BlendMode existed.
func blendColor(mode gpu.BlendMode, dst, src float64) float64 {
	switch mode {
	case gpu.BlendAdd:
		v := dst + src
		if v > 1 {
			v = 1
		}
		return v
	case gpu.BlendMultiply:
		return dst * src
	case gpu.BlendScreen:
		return 1 - (1-dst)*(1-src)
	default:
		return src
	}
}

func edge(a, b, c [2]float32) float32 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func min3(a, b, c float32) float32 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func max3(a, b, c float32) float32 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

// sampleBilinear reads src at normalized uv in [0,1]^2, returning
// linear-light RGBA.
func sampleBilinear(src *Texture, u, v float32) (r, g, b, a float64) {
	if src.w == 0 || src.h == 0 {
		return 0, 0, 0, 0
	}
	fx := clampf(u, 0, 1) * float32(src.w-1)
	fy := clampf(v, 0, 1) * float32(src.h-1)
	x0, y0 := int(fx), int(fy)
	x1, y1 := x0+1, y0+1
	if x1 >= src.w {
		x1 = src.w - 1
	}
	if y1 >= src.h {
		y1 = src.h - 1
	}
	tx, ty := float64(fx-float32(x0)), float64(fy-float32(y0))

	r00, g00, b00, a00 := linearRGBA(src.pix, (y0*src.w+x0)*4)
	r10, g10, b10, a10 := linearRGBA(src.pix, (y0*src.w+x1)*4)
	r01, g01, b01, a01 := linearRGBA(src.pix, (y1*src.w+x0)*4)
	r11, g11, b11, a11 := linearRGBA(src.pix, (y1*src.w+x1)*4)

	lerp := func(v00, v10, v01, v11 float64) float64 {
		top := v00*(1-tx) + v10*tx
		bot := v01*(1-tx) + v11*tx
		return top*(1-ty) + bot*ty
	}
	return lerp(r00, r10, r01, r11), lerp(g00, g10, g01, g11), lerp(b00, b10, b01, b11), lerp(a00, a10, a01, a11)
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
