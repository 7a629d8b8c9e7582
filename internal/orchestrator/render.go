package orchestrator

import (
	"fmt"

	"github.com/mrlongnight/mapmap/internal/gpu"
	"github.com/mrlongnight/mapmap/internal/mapping"
	"github.com/mrlongnight/mapmap/internal/output"
	"github.com/mrlongnight/mapmap/internal/paint"
	"github.com/mrlongnight/mapmap/internal/render"
)

var opaqueBlack = [4]float32{0, 0, 0, 1}

// renderMain draws the whole composition through the full-canvas region
// (0,0,1,1) into the main preview window's canvas texture — no
// post-processing pass applies to the main preview.
func (o *FrameOrchestrator) renderMain(encoder gpu.CommandEncoder) error {
	if err := o.ensureMainTexture(); err != nil {
		return err
	}
	return o.drawComposition(encoder, o.mainOutput.canvas.View(), output.Region{W: 1, H: 1}, float32(o.comp.Width), float32(o.comp.Height))
}

func (o *FrameOrchestrator) ensureMainTexture() error {
	w, h := o.comp.Width, o.comp.Height
	if o.mainOutput.canvas != nil && o.mainOutput.w == w && o.mainOutput.h == h {
		return nil
	}
	tex, err := o.device.CreateTexture(gpu.TextureDescriptor{Width: w, Height: h, Format: gpu.FormatRGBA8Srgb, Label: "main-preview"})
	if err != nil {
		return fmt.Errorf("orchestrator: main preview texture: %w", err)
	}
	o.mainOutput.canvas, o.mainOutput.w, o.mainOutput.h = tex, w, h
	return nil
}

// renderOutput renders cfg's composition canvas and, if its post-processing
// chain is non-trivial, pipes it through EffectChainRenderer →
// ColorCalibrationRenderer → EdgeBlendRenderer (spec §4.8 steps 6a-6d;
// overview line 9's "effect chain → color calibration → edge blending").
func (o *FrameOrchestrator) renderOutput(encoder gpu.CommandEncoder, cfg *output.Config) error {
	po, ok := o.outputs[cfg.ID]
	if !ok {
		po = &perOutput{}
		o.outputs[cfg.ID] = po
	}
	if err := o.ensureOutputTextures(po, cfg); err != nil {
		return err
	}

	if err := o.drawComposition(encoder, po.canvas.View(), cfg.CanvasRegion, float32(cfg.ResolutionW), float32(cfg.ResolutionH)); err != nil {
		return err
	}

	if !cfg.NeedsPost() {
		return nil
	}

	if err := po.effectChain.Apply(encoder, cfg.Chain, po.canvas.View(), po.postA.View(), float32(o.now), cfg.ResolutionW, cfg.ResolutionH); err != nil {
		return err
	}
	o.colorCal.Apply(encoder, cfg, po.postA.View(), po.postB.View())
	// Edge blend writes back into canvas: its pre-post contents are no
	// longer needed once the chain and color-calibration passes have run.
	o.edgeBlend.Apply(encoder, cfg, po.postB.View(), po.canvas.View())
	return nil
}

func (o *FrameOrchestrator) ensureOutputTextures(po *perOutput, cfg *output.Config) error {
	w, h := cfg.ResolutionW, cfg.ResolutionH
	if po.effectChain == nil {
		chain, err := render.NewEffectChainRenderer(o.device, gpu.FormatRGBA8Srgb)
		if err != nil {
			return fmt.Errorf("orchestrator: output %q effect chain renderer: %w", cfg.Name, err)
		}
		po.effectChain = chain
	}
	if po.canvas != nil && po.w == w && po.h == h {
		return nil
	}
	canvas, err := o.device.CreateTexture(gpu.TextureDescriptor{Width: w, Height: h, Format: gpu.FormatRGBA8Srgb, Label: cfg.Name + "-canvas"})
	if err != nil {
		return fmt.Errorf("orchestrator: output %q canvas texture: %w", cfg.Name, err)
	}
	postA, err := o.device.CreateTexture(gpu.TextureDescriptor{Width: w, Height: h, Format: gpu.FormatRGBA8Srgb, Label: cfg.Name + "-post-a"})
	if err != nil {
		return fmt.Errorf("orchestrator: output %q post texture: %w", cfg.Name, err)
	}
	postB, err := o.device.CreateTexture(gpu.TextureDescriptor{Width: w, Height: h, Format: gpu.FormatRGBA8Srgb, Label: cfg.Name + "-post-b"})
	if err != nil {
		return fmt.Errorf("orchestrator: output %q post texture: %w", cfg.Name, err)
	}
	po.canvas, po.postA, po.postB, po.w, po.h = canvas, postA, postB, w, h
	return nil
}

// drawComposition clears target to opaque black and draws every visible
// mapping whose mesh bounds intersect region, in ascending depth order
// (spec §4.8 step 6c). Mappings that a visible Layer claims (spec M1 §3:
// a Layer's blend_mode/transform/resize_mode apply to its member
// mappings as a group) are drawn separately, after the unlayered ones,
// each with the layer's transform composed onto the canvas-to-output
// mvp, the layer's opacity folded in, and the layer's blend mode —
// still within this one render pass, since the software backend has no
// deferred command stage to isolate a layer's draws into (raster.go).
func (o *FrameOrchestrator) drawComposition(encoder gpu.CommandEncoder, target gpu.TextureView, region output.Region, outW, outH float32) error {
	pass := encoder.BeginRenderPass(target, opaqueBlack)
	mvp := render.CanvasRegionToOutputMVP(region.X, region.Y, region.W, region.H, outW, outH)

	layers := o.comp.Layers.Visible()
	layered := make(map[mapping.ID]bool)
	for _, l := range layers {
		for _, id := range l.MappingIDs {
			layered[id] = true
		}
	}

	for _, m := range o.comp.Mappings.Visible(region.X, region.Y, region.W, region.H) {
		if layered[m.ID] {
			continue
		}
		tex, ok := o.paintTexture(m.PaintID)
		if !ok {
			continue
		}
		o.meshRenderer.Draw(pass, m.Mesh, tex.View(), mvp, m.Opacity*o.comp.MasterOpacity, true, gpu.BlendNormal)
	}

	for _, l := range layers {
		layerMVP := [16]float32(l.Transform.Matrix(outW, outH).Mul(mapping.Mat4(mvp)))
		blend := gpu.BlendMode(l.BlendMode)
		for _, id := range l.MappingIDs {
			m, ok := o.comp.Mappings.Get(id)
			if !ok || !m.Visible || m.Mesh == nil || !m.Mesh.IntersectsRegion(region.X, region.Y, region.W, region.H) {
				continue
			}
			tex, ok := o.paintTexture(m.PaintID)
			if !ok {
				continue
			}
			o.meshRenderer.Draw(pass, m.Mesh, tex.View(), layerMVP, m.Opacity*l.Opacity*o.comp.MasterOpacity, true, blend)
		}
	}

	pass.End()
	return nil
}

// paintTexture returns the up-to-date GPU texture for id, re-uploading
// only when PaintStore has published a newer frame (spec §4.2 version
// counter).
func (o *FrameOrchestrator) paintTexture(id paint.ID) (gpu.Texture, bool) {
	frame, w, h, version, ok := o.comp.Paints.Latest(id)
	if !ok || frame == nil {
		return nil, false
	}
	key := uint64(id)
	if cached, exists := o.paints[key]; exists && cached.version == version && cached.tex.Width() == w && cached.tex.Height() == h {
		return cached.tex, true
	}
	tex, err := o.device.CreateTexture(gpu.TextureDescriptor{Width: w, Height: h, Format: gpu.FormatRGBA8Srgb, Label: fmt.Sprintf("paint-%d", id)})
	if err != nil {
		o.log.Warnf("paint %d texture create: %v", id, err)
		return nil, false
	}
	if u, ok := tex.(textureUploader); ok {
		u.Upload(frame.Pixels)
	}
	o.paints[key] = &cachedPaintTexture{tex: tex, version: version}
	return tex, true
}

// present reads back every rendered canvas and hands it to the window
// manager (spec §4.8 step 8).
func (o *FrameOrchestrator) present() error {
	if o.comp.Windows == nil {
		return nil
	}
	if o.mainOutput.canvas != nil {
		if pixels, w, h, err := o.device.ReadPixels(o.mainOutput.canvas.View()); err == nil {
			if err := o.comp.Windows.PresentMain(pixels, w, h); err != nil {
				o.log.Warnf("main preview present: %v", err)
			}
		}
	}
	for id, po := range o.outputs {
		if po.canvas == nil {
			continue
		}
		pixels, w, h, err := o.device.ReadPixels(po.canvas.View())
		if err != nil {
			continue
		}
		if err := o.comp.Windows.PresentOutput(id, pixels, w, h); err != nil {
			o.log.Warnf("output %v present: %v", id, err)
		}
	}
	return nil
}
