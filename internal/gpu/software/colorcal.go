package software

import "math"

// color calibration uniform layout matches output.ColorCalibration.Bytes().
const (
	ccBrightness = iota
	ccContrast
	ccGammaR
	ccGammaG
	ccGammaB
	ccColorTemp
	ccSaturation
)

// applyColorCalibration runs the per-output color chain in order:
// brightness (additive) → contrast (about 0.5) → per-channel gamma →
// color-temperature shift (linear RGB multiplier relative to a 6500K
// reference) → saturation about luminance — all in linear light (spec
// §4.6).
func applyColorCalibration(src, dst *Texture, u []float32) {
	brightness := uf(u, ccBrightness)
	contrast := uf(u, ccContrast)
	gammaR, gammaG, gammaB := uf(u, ccGammaR), uf(u, ccGammaG), uf(u, ccGammaB)
	colorTemp := uf(u, ccColorTemp)
	saturation := uf(u, ccSaturation)

	refR, refG, refB := kelvinToRGB(6500)
	tempR, tempG, tempB := kelvinToRGB(colorTemp)
	mulR, mulG, mulB := tempR/refR, tempG/refG, tempB/refB

	eachPixel(src, dst, func(x, y int, r, g, b, a float64) (float64, float64, float64, float64) {
		r, g, b = r+brightness, g+brightness, b+brightness
		r = (r-0.5)*contrast + 0.5
		g = (g-0.5)*contrast + 0.5
		b = (b-0.5)*contrast + 0.5

		if gammaR > 0 {
			r = math.Pow(clamp01(r), 1/gammaR)
		}
		if gammaG > 0 {
			g = math.Pow(clamp01(g), 1/gammaG)
		}
		if gammaB > 0 {
			b = math.Pow(clamp01(b), 1/gammaB)
		}

		r, g, b = r*mulR, g*mulG, b*mulB

		lum := 0.299*r + 0.587*g + 0.114*b
		r = lum + (r-lum)*saturation
		g = lum + (g-lum)*saturation
		b = lum + (b-lum)*saturation

		return clamp01(r), clamp01(g), clamp01(b), a
	})
}

// kelvinToRGB approximates the Planckian locus (Tanner Helland's
// blackbody approximation), returning a linear-light RGB triple
// normalized so 6500K maps close to (1,1,1).
func kelvinToRGB(kelvin float64) (r, g, b float64) {
	if kelvin <= 0 {
		kelvin = 6500
	}
	temp := kelvin / 100

	if temp <= 66 {
		r = 255
	} else {
		r = 329.698727446 * math.Pow(temp-60, -0.1332047592)
	}

	if temp <= 66 {
		g = 99.4708025861*math.Log(temp) - 161.1195681661
	} else {
		g = 288.1221695283 * math.Pow(temp-60, -0.0755148492)
	}

	if temp >= 66 {
		b = 255
	} else if temp <= 19 {
		b = 0
	} else {
		b = 138.5177312231*math.Log(temp-10) - 305.0447927307
	}

	return clamp01(r / 255), clamp01(g / 255), clamp01(b / 255)
}
