package software

import "math"

// edge blend uniform layout matches output.EdgeBlend.Bytes(): per side
// (enabled, width, offset) for left, right, top, bottom, then gamma.
const (
	ebLeftEnabled = iota
	ebLeftWidth
	ebLeftOffset
	ebRightEnabled
	ebRightWidth
	ebRightOffset
	ebTopEnabled
	ebTopWidth
	ebTopOffset
	ebBottomEnabled
	ebBottomWidth
	ebBottomOffset
	ebGamma
)

// applyEdgeBlend darkens src's edges according to the four-sided falloff
// (spec §4.5): each enabled side contributes alpha = d^gamma, where d is
// the normalized distance from that side's seam (the physical boundary
// shared with the adjacent output) back into the blend zone of width
// side.width — d reaches 1 at the inner edge of the zone (unaffected)
// and 0 at the seam itself (fully attenuated), matching the corpus
// convention that brightness tapers to zero exactly at the shared edge
// so the adjacent output's contribution sums to full brightness there
// (spec §8 property 8, S3). side.offset shifts the zone's start along
// the falloff direction. The product of the enabled sides' alphas scales
// the stored sRGB-encoded channel bytes, not linear-light values: an
// opaque red byte of 255 comes out as 255*alpha.
func applyEdgeBlend(src, dst *Texture, u []float32) {
	gamma := float64(uf(u, ebGamma))
	if gamma == 0 {
		gamma = 1
	}

	leftOn, leftW, leftOff := uf(u, ebLeftEnabled) != 0, uf(u, ebLeftWidth), uf(u, ebLeftOffset)
	rightOn, rightW, rightOff := uf(u, ebRightEnabled) != 0, uf(u, ebRightWidth), uf(u, ebRightOffset)
	topOn, topW, topOff := uf(u, ebTopEnabled) != 0, uf(u, ebTopWidth), uf(u, ebTopOffset)
	bottomOn, bottomW, bottomOff := uf(u, ebBottomEnabled) != 0, uf(u, ebBottomWidth), uf(u, ebBottomOffset)

	eachPixel(src, dst, func(x, y int, r, g, b, a float64) (float64, float64, float64, float64) {
		fu := (float64(x) + 0.5) / float64(src.w)
		fv := (float64(y) + 0.5) / float64(src.h)

		alpha := 1.0
		if leftOn && leftW > 0 {
			d := clamp01((fu - leftOff) / leftW)
			alpha *= math.Pow(d, gamma)
		}
		if rightOn && rightW > 0 {
			d := clamp01(((1 - fu) - rightOff) / rightW)
			alpha *= math.Pow(d, gamma)
		}
		if topOn && topW > 0 {
			d := clamp01((fv - topOff) / topW)
			alpha *= math.Pow(d, gamma)
		}
		if bottomOn && bottomW > 0 {
			d := clamp01(((1 - fv) - bottomOff) / bottomW)
			alpha *= math.Pow(d, gamma)
		}

		scale := func(c float64) float64 {
			return srgbToLinear(byte(math.Round(float64(linearToSrgb(c)) * alpha)))
		}
		return scale(r), scale(g), scale(b), a
	})
}
