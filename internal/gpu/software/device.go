package software

import (
	"fmt"

	"github.com/mrlongnight/mapmap/internal/gpu"
)

// pipeline is the software backend's pipeline handle: its identity is
// just a label (the dispatch key used by RenderPass), since there is no
// real shader compilation step on this backend. A descriptor's custom
// shader source is neither stored nor interpreted, so CreateRenderPipeline
// never reports a compilation failure here (spec §4.4: compilation is
// effect-chain-local bookkeeping, not a CPU rasterizer concern).
type pipeline struct {
	label  string
	target gpu.Format
}

func (p *pipeline) Label() string { return p.label }

// Device is the pure-Go gpu.Device backend (spec §4.11).
type Device struct {
	pipelines map[string]*pipeline
}

// NewDevice returns a software Device with an empty pipeline cache.
func NewDevice() *Device {
	return &Device{pipelines: make(map[string]*pipeline)}
}

func (d *Device) CreateTexture(desc gpu.TextureDescriptor) (gpu.Texture, error) {
	return NewTexture(desc), nil
}

// CreateRenderPipeline returns the cached pipeline for (label, format),
// creating it on first use (spec §4.4: "created once per kind per target
// format and reused across frames").
func (d *Device) CreateRenderPipeline(desc gpu.RenderPipelineDescriptor) (gpu.RenderPipeline, error) {
	key := fmt.Sprintf("%s@%d", desc.Label, desc.TargetFormat)
	if p, ok := d.pipelines[key]; ok {
		return p, nil
	}
	p := &pipeline{label: desc.Label, target: desc.TargetFormat}
	d.pipelines[key] = p
	return p, nil
}

func (d *Device) CreateBindGroup(entries []gpu.BindGroupEntry) gpu.BindGroup {
	return bindGroup(entries)
}

func (d *Device) CreateCommandEncoder() gpu.CommandEncoder {
	return &commandEncoder{}
}

func (d *Device) Queue() gpu.Queue { return softwareQueue{} }

// ReadPixels returns a copy of view's backing texture's RGBA8 bytes.
func (d *Device) ReadPixels(view gpu.TextureView) ([]byte, int, int, error) {
	t := asTexture(view)
	out := make([]byte, len(t.pix))
	copy(out, t.pix)
	return out, t.w, t.h, nil
}

type bindGroup []gpu.BindGroupEntry

func (b bindGroup) Entries() []gpu.BindGroupEntry { return b }

// commandBuffer records the render passes a commandEncoder produced; the
// software backend executes eagerly (each RenderPass call mutates its
// target texture immediately), so Finish/Submit are bookkeeping only —
// this still gives callers the "one queue.submit for all outputs" shape
// spec §4.8 step 7 requires.
type commandBuffer struct{}

type commandEncoder struct {
	buf commandBuffer
}

func (e *commandEncoder) BeginRenderPass(target gpu.TextureView, clearColor [4]float32) gpu.RenderPass {
	t := asTexture(target)
	clearTexture(t, clearColor)
	return &renderPass{target: t}
}

func (e *commandEncoder) Finish() gpu.CommandBuffer { return e.buf }

type softwareQueue struct{}

// Submit is a no-op: every software RenderPass already executed
// synchronously when issued.
func (softwareQueue) Submit(buffers []gpu.CommandBuffer) {}

func clearTexture(t *Texture, color [4]float32) {
	r := byte(clamp01(float64(color[0])) * 255)
	g := byte(clamp01(float64(color[1])) * 255)
	b := byte(clamp01(float64(color[2])) * 255)
	a := byte(clamp01(float64(color[3])) * 255)
	for i := 0; i < len(t.pix); i += 4 {
		t.pix[i], t.pix[i+1], t.pix[i+2], t.pix[i+3] = r, g, b, a
	}
}
