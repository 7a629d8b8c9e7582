package software

import (
	"encoding/binary"
	"math"

	"github.com/mrlongnight/mapmap/internal/gpu"
)

func (p *renderPass) End() {}

// DrawFullscreen executes one full-target pass: find the bound input
// texture and uniform bytes in bg, then dispatch on the pipeline's label
// to the matching pixel-math function (spec §4.4: "Each pass clears its
// target to opaque black then draws a fullscreen quad" — the clear
// already happened in BeginRenderPass).
func (p *renderPass) DrawFullscreen(pl gpu.RenderPipeline, bg gpu.BindGroup) {
	var src *Texture
	var uniform []byte
	for _, e := range bg.Entries() {
		if e.Texture != nil {
			src = asTexture(e.Texture)
		}
		if e.Uniform != nil {
			uniform = e.Uniform
		}
	}
	if src == nil {
		return
	}

	label := pl.Label()
	switch label {
	case "passthrough":
		copy(p.target.pix, src.pix)
	case "edgeblend":
		applyEdgeBlend(src, p.target, unpackFloats32(uniform))
	case "colorcal":
		applyColorCalibration(src, p.target, unpackFloats32(uniform))
	default:
		applyEffect(label, src, p.target, unpackFloats32(uniform))
	}
}

func unpackFloats32(data []byte) []float32 {
	n := len(data) / 4
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out
}
