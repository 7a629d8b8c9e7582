// Package software is the pure-Go CPU implementation of the gpu.Device
// interface (spec §4.11). Every pixel operation the spec names — mesh
// sampling, the effect per-pass contract, edge blend falloff, color
// calibration ordering — is implemented here in plain RGBA8 math,
// converting to linear light wherever the spec requires it and writing
// sRGB at the final boundary. This is the backend the testable
// properties (spec §8) run against, mirroring the teacher's own test
// suite exercising VoodooSoftwareBackend rather than VulkanBackend
// (voodoo_vulkan.go).
package software

import "math"

// srgbToLinear converts one sRGB8 channel value (0-255) to linear [0,1].
func srgbToLinear(c byte) float64 {
	v := float64(c) / 255
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// linearToSrgb converts a linear [0,1] value back to an sRGB8 byte,
// clamping out-of-range input.
func linearToSrgb(v float64) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	var s float64
	if v <= 0.0031308 {
		s = v * 12.92
	} else {
		s = 1.055*math.Pow(v, 1/2.4) - 0.055
	}
	return byte(math.Round(clamp01(s) * 255))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// linearRGBA reads pixel i (byte offset) from buf as linear-light
// (r,g,b,a), a left in [0,1] straight (alpha is not gamma-encoded).
func linearRGBA(buf []byte, i int) (r, g, b, a float64) {
	return srgbToLinear(buf[i]), srgbToLinear(buf[i+1]), srgbToLinear(buf[i+2]), float64(buf[i+3]) / 255
}

// storeLinearRGBA writes linear-light (r,g,b,a) back to buf at byte
// offset i, converting to sRGB8 on the way out.
func storeLinearRGBA(buf []byte, i int, r, g, b, a float64) {
	buf[i] = linearToSrgb(r)
	buf[i+1] = linearToSrgb(g)
	buf[i+2] = linearToSrgb(b)
	buf[i+3] = byte(math.Round(clamp01(a) * 255))
}
