package render

import (
	"github.com/mrlongnight/mapmap/internal/effect"
	"github.com/mrlongnight/mapmap/internal/gpu"
)

var opaqueBlack = [4]float32{0, 0, 0, 1}

// EffectChainRenderer executes an effect.Chain's enabled effects in
// order via ping-pong scheduling between two intermediate textures
// (spec §4.4, M5) — the performance-critical heart of the per-output
// post-processing path.
type EffectChainRenderer struct {
	device gpu.Device
	format gpu.Format

	texA, texB    gpu.Texture
	w, h          int
	passthrough   gpu.RenderPipeline
	pipelineCache map[effect.Kind]gpu.RenderPipeline
}

// NewEffectChainRenderer creates a renderer that targets the given
// format (spec §4.4: "A pipeline is created once per kind per target
// format and reused across frames").
func NewEffectChainRenderer(device gpu.Device, format gpu.Format) (*EffectChainRenderer, error) {
	pt, err := device.CreateRenderPipeline(gpu.RenderPipelineDescriptor{Label: "passthrough", TargetFormat: format})
	if err != nil {
		return nil, err
	}
	return &EffectChainRenderer{
		device:        device,
		format:        format,
		passthrough:   pt,
		pipelineCache: make(map[effect.Kind]gpu.RenderPipeline),
	}, nil
}

func (r *EffectChainRenderer) pipelineFor(e *effect.Effect) (gpu.RenderPipeline, error) {
	if pl, ok := r.pipelineCache[e.Kind]; ok {
		return pl, nil
	}
	desc := gpu.RenderPipelineDescriptor{Label: e.Kind.String(), TargetFormat: r.format}
	if e.Kind == effect.KindCustom {
		desc.CustomShader = e.CustomShader
	}
	pl, err := r.device.CreateRenderPipeline(desc)
	if err != nil {
		// Compilation failure: report and leave no pipeline cached, so the
		// caller falls back to passthrough (spec §4.4 "Pipeline caching").
		return nil, err
	}
	r.pipelineCache[e.Kind] = pl
	return pl, nil
}

func (r *EffectChainRenderer) ensureIntermediates(w, h int) error {
	if r.texA != nil && r.w == w && r.h == h {
		return nil
	}
	texA, err := r.device.CreateTexture(gpu.TextureDescriptor{Width: w, Height: h, Format: r.format, Label: "effectchain-a"})
	if err != nil {
		return err
	}
	texB, err := r.device.CreateTexture(gpu.TextureDescriptor{Width: w, Height: h, Format: r.format, Label: "effectchain-b"})
	if err != nil {
		return err
	}
	r.texA, r.texB, r.w, r.h = texA, texB, w, h
	return nil
}

// Apply runs chain's enabled effects against input, writing the final
// result into output (spec §4.4 contract). encoder is shared across the
// whole frame so all outputs submit together (spec §4.8 step 7).
func (r *EffectChainRenderer) Apply(encoder gpu.CommandEncoder, chain *effect.Chain, input, output gpu.TextureView, time float32, w, h int) error {
	enabled := chain.Enabled()
	k := len(enabled)

	if k == 0 {
		r.runPass(encoder, r.passthrough, input, output, nil)
		return nil
	}
	if k == 1 {
		return r.runEffect(encoder, enabled[0], input, output, time, w, h)
	}

	if err := r.ensureIntermediates(w, h); err != nil {
		return err
	}

	// Pass 1: input -> A.
	if err := r.runEffect(encoder, enabled[0], input, r.texA.View(), time, w, h); err != nil {
		return err
	}

	cur, next := r.texA, r.texB
	for i := 1; i < k-1; i++ {
		if err := r.runEffect(encoder, enabled[i], cur.View(), next.View(), time, w, h); err != nil {
			return err
		}
		cur, next = next, cur
	}

	// Final pass: last intermediate -> output.
	return r.runEffect(encoder, enabled[k-1], cur.View(), output, time, w, h)
}

func (r *EffectChainRenderer) runEffect(encoder gpu.CommandEncoder, e *effect.Effect, input, output gpu.TextureView, time float32, w, h int) error {
	pl, err := r.pipelineFor(e)
	if err != nil {
		// Leave the previously valid pipeline in place by falling back to
		// passthrough for this pass (spec §4.4: "Custom shaders... failure
		// is reported and leaves the previously valid pipeline in place").
		r.runPass(encoder, r.passthrough, input, output, nil)
		return nil
	}
	uniform := e.PackUniform(time, float32(w), float32(h)).Bytes()
	r.runPass(encoder, pl, input, output, uniform)
	return nil
}

func (r *EffectChainRenderer) runPass(encoder gpu.CommandEncoder, pl gpu.RenderPipeline, input, output gpu.TextureView, uniform []byte) {
	pass := encoder.BeginRenderPass(output, opaqueBlack)
	entries := []gpu.BindGroupEntry{{Binding: 0, Texture: input, Sampler: &gpu.Sampler{Linear: true}}}
	if uniform != nil {
		entries = append(entries, gpu.BindGroupEntry{Binding: 1, Uniform: uniform})
	}
	bg := r.device.CreateBindGroup(entries)
	pass.DrawFullscreen(pl, bg)
	pass.End()
}
