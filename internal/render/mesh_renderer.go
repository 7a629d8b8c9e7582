// Package render implements the draw-time components that sit between
// the compositor's data (mappings, effect chains, output configs) and a
// gpu.Device: MeshRenderer, EffectChainRenderer, EdgeBlendRenderer, and
// ColorCalibrationRenderer (spec §4.3–§4.6, M3/M5/M6).
package render

import (
	"github.com/mrlongnight/mapmap/internal/gpu"
	"github.com/mrlongnight/mapmap/internal/mesh"
)

// MeshRenderer draws one textured, warped, opacity-scaled mesh (spec
// §4.3). The MVP passed to Draw already includes the canvas-region-to-
// output transform: the output's canvas region for an output window, the
// full canvas (0,0,1,1) for the main preview — MeshRenderer itself is
// agnostic to which.
type MeshRenderer struct {
	device   gpu.Device
	pipeline gpu.RenderPipeline
}

// NewMeshRenderer creates the (cached, reused) mesh pipeline for device.
func NewMeshRenderer(device gpu.Device) (*MeshRenderer, error) {
	pl, err := device.CreateRenderPipeline(gpu.RenderPipelineDescriptor{Label: "mesh", TargetFormat: gpu.FormatRGBA8Srgb})
	if err != nil {
		return nil, err
	}
	return &MeshRenderer{device: device, pipeline: pl}, nil
}

// Draw renders m, textured by tex, transformed by mvp, scaled by
// opacity, composited with blend, into pass. perspective selects the
// perspective-aware uv interpolation path (spec §4.3: "two fragment
// paths... bilinear sample and a perspective-aware sample").
func (r *MeshRenderer) Draw(pass gpu.RenderPass, m *mesh.Mesh, tex gpu.TextureView, mvp [16]float32, opacity float32, perspective bool, blend gpu.BlendMode) {
	positions := make([][2]float32, len(m.Vertices))
	uvs := make([][2]float32, len(m.Vertices))
	for i, v := range m.Vertices {
		positions[i] = [2]float32{v.Position.X, v.Position.Y}
		uvs[i] = [2]float32{v.UV.X, v.UV.Y}
	}
	pass.Draw(r.pipeline, gpu.Draw{
		Positions:   positions,
		UVs:         uvs,
		Indices:     m.Indices,
		MVP:         mvp,
		Opacity:     opacity,
		Texture:     tex,
		Perspective: perspective,
		Blend:       blend,
	})
}

// CanvasRegionToOutputMVP builds the row-major 4x4 matrix mapping a
// canvas region (x,y,w,h, normalized [0,1]^2) to the full pixel extent
// of an output of resolution (outW,outH): canvas-normalized mesh
// coordinates inside the region map to [0,outW]x[0,outH].
func CanvasRegionToOutputMVP(regionX, regionY, regionW, regionH float32, outW, outH float32) [16]float32 {
	if regionW == 0 {
		regionW = 1
	}
	if regionH == 0 {
		regionH = 1
	}
	sx := outW / regionW
	sy := outH / regionH
	tx := -regionX * sx
	ty := -regionY * sy
	return [16]float32{
		sx, 0, 0, tx,
		0, sy, 0, ty,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// IdentityMVP returns the 4x4 identity matrix. The main preview does not
// use it: Draw positions land in target pixel space, so the orchestrator
// passes CanvasRegionToOutputMVP over the full canvas instead.
func IdentityMVP() [16]float32 {
	return [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}
