// Package gpu exposes a wgpu-semantics device abstraction (spec §6:
// "Target API is the WebGPU-style API (wgpu semantics)"): textures,
// pipelines, bind groups, a command encoder, and a queue. Two backends
// implement it — internal/gpu/software (pure-Go CPU rasterizer, the
// default and the one exercised by the testable properties) and
// internal/gpu/vulkan (hardware-accelerated via github.com/goki/vulkan) —
// mirroring the teacher's VoodooSoftwareBackend/VulkanBackend split
// (voodoo_vulkan.go).
package gpu

// Format is a texture pixel format (spec §6).
type Format int

const (
	FormatRGBA8Srgb Format = iota
	FormatBGRA8Unorm
	FormatR32Float
)

// TextureDescriptor describes a texture to create.
type TextureDescriptor struct {
	Width, Height int
	Format        Format
	Label         string
}

// Texture is an opaque GPU (or CPU-backed) image resource.
type Texture interface {
	Width() int
	Height() int
	Format() Format
	// View returns the default TextureView over the whole texture.
	View() TextureView
}

// TextureView is a view over a Texture usable in a bind group.
type TextureView interface {
	Texture() Texture
}

// Sampler configures how a TextureView is sampled.
type Sampler struct {
	Linear bool // false == nearest
}

// BindGroupEntry binds one resource at an index within a BindGroup.
type BindGroupEntry struct {
	Binding int
	Texture TextureView
	Sampler *Sampler
	Uniform []byte
}

// BindGroup is a bound set of resources (spec §4.3: "two bind groups —
// (0) {mvp, opacity} uniform, (1) {texture, sampler}").
type BindGroup interface {
	Entries() []BindGroupEntry
}

// RenderPipelineDescriptor describes a render pipeline: a label
// identifying which shader/fixed-function path to use (the software
// backend dispatches on Label rather than compiling WGSL/SPIR-V) plus the
// target format it is built for.
type RenderPipelineDescriptor struct {
	Label        string
	TargetFormat Format
	// CustomShader, when non-empty, carries WGSL source for a Custom
	// effect (spec §4.4: "Custom shaders are compiled on assignment").
	CustomShader string
}

// RenderPipeline is an opaque, cached pipeline for one (kind, format) pair
// (spec §4.4: "A pipeline is created once per kind per target format and
// reused across frames").
type RenderPipeline interface {
	Label() string
}

// BlendMode selects the per-pixel compositing function a Draw uses to
// combine its source color with the target already in the render pass
// (spec M1 §3: a Layer's blend_mode is Normal, Add, Multiply, or Screen).
// The zero value, BlendNormal, is ordinary alpha-over and is exactly the
// compositing the software rasterizer always performed before BlendMode
// existed — every pre-existing Draw call site is unaffected.
type BlendMode int

const (
	BlendNormal BlendMode = iota
	BlendAdd
	BlendMultiply
	BlendScreen
)

// Draw is one MeshRenderer draw call's parameters (spec §4.3).
type Draw struct {
	Positions   [][2]float32
	UVs         [][2]float32
	Indices     []uint16
	MVP         [16]float32
	Opacity     float32
	Texture     TextureView
	Perspective bool
	Blend       BlendMode
}

// RenderPass accumulates draw calls against one target view, cleared to
// ClearColor at BeginRenderPass.
type RenderPass interface {
	Draw(pipeline RenderPipeline, d Draw)
	DrawFullscreen(pipeline RenderPipeline, bg BindGroup)
	End()
}

// CommandEncoder records one frame's work (spec §4.8: "All command
// batches are submitted as one queue.submit").
type CommandEncoder interface {
	BeginRenderPass(target TextureView, clearColor [4]float32) RenderPass
	Finish() CommandBuffer
}

// CommandBuffer is a finished, submittable recording.
type CommandBuffer interface{}

// Queue submits finished command buffers.
type Queue interface {
	Submit(buffers []CommandBuffer)
}

// Device is the top-level handle a Device backend exposes: texture and
// pipeline creation, a command encoder factory, and a queue.
type Device interface {
	CreateTexture(desc TextureDescriptor) (Texture, error)
	CreateRenderPipeline(desc RenderPipelineDescriptor) (RenderPipeline, error)
	CreateBindGroup(entries []BindGroupEntry) BindGroup
	CreateCommandEncoder() CommandEncoder
	Queue() Queue
	// ReadPixels reads view back to host-addressable RGBA8 bytes, used by
	// tests and by the staging-buffer readback path on hardware backends.
	ReadPixels(view TextureView) ([]byte, int, int, error)
}
