package render

import (
	"github.com/mrlongnight/mapmap/internal/gpu"
	"github.com/mrlongnight/mapmap/internal/output"
)

// EdgeBlendRenderer applies the per-output four-sided falloff (spec
// §4.5, M6).
type EdgeBlendRenderer struct {
	device   gpu.Device
	pipeline gpu.RenderPipeline
}

// NewEdgeBlendRenderer creates the cached edge-blend pipeline.
func NewEdgeBlendRenderer(device gpu.Device, format gpu.Format) (*EdgeBlendRenderer, error) {
	pl, err := device.CreateRenderPipeline(gpu.RenderPipelineDescriptor{Label: "edgeblend", TargetFormat: format})
	if err != nil {
		return nil, err
	}
	return &EdgeBlendRenderer{device: device, pipeline: pl}, nil
}

// Apply writes input's edge-blended result into output per cfg.EdgeBlend.
func (r *EdgeBlendRenderer) Apply(encoder gpu.CommandEncoder, cfg *output.Config, input, out gpu.TextureView) {
	pass := encoder.BeginRenderPass(out, opaqueBlack)
	bg := r.device.CreateBindGroup([]gpu.BindGroupEntry{
		{Binding: 0, Texture: input, Sampler: &gpu.Sampler{Linear: true}},
		{Binding: 1, Uniform: cfg.EdgeBlend.Bytes()},
	})
	pass.DrawFullscreen(r.pipeline, bg)
	pass.End()
}

// ColorCalibrationRenderer applies per-output color correction (spec
// §4.6, M6).
type ColorCalibrationRenderer struct {
	device   gpu.Device
	pipeline gpu.RenderPipeline
}

// NewColorCalibrationRenderer creates the cached color-calibration
// pipeline.
func NewColorCalibrationRenderer(device gpu.Device, format gpu.Format) (*ColorCalibrationRenderer, error) {
	pl, err := device.CreateRenderPipeline(gpu.RenderPipelineDescriptor{Label: "colorcal", TargetFormat: format})
	if err != nil {
		return nil, err
	}
	return &ColorCalibrationRenderer{device: device, pipeline: pl}, nil
}

// Apply writes input's color-calibrated result into output per
// cfg.ColorCalibration.
func (r *ColorCalibrationRenderer) Apply(encoder gpu.CommandEncoder, cfg *output.Config, input, out gpu.TextureView) {
	pass := encoder.BeginRenderPass(out, opaqueBlack)
	bg := r.device.CreateBindGroup([]gpu.BindGroupEntry{
		{Binding: 0, Texture: input, Sampler: &gpu.Sampler{Linear: true}},
		{Binding: 1, Uniform: cfg.ColorCalibration.Bytes()},
	})
	pass.DrawFullscreen(r.pipeline, bg)
	pass.End()
}
