//go:build !headless

package vulkan

// Embedded SPIR-V shaders for the hardware backend, following
// voodoo_shaders.go's convention: GLSL source kept as a comment for
// reference, compiled bytecode stored as a Go byte slice so the binary
// needs no external asset at runtime. The byte slices below are
// placeholders (SPIR-V magic number and version only) and no pipeline
// loads them: every pipeline label is drawn by the embedded
// software.Device (see device.go), whose Go functions hold the pixel
// math that distinguishes one effect.Kind from another (spec §4.4) and
// which the testable properties (spec §8) run against.
//
// KindBlur/KindChromaticAberration/KindEdgeDetect/KindGlow/
// KindKaleidoscope/KindPixelate/KindVignette/KindFilmGrain have no
// fragment shader of their own here; the GLSL below covers only a
// textured mesh and a fullscreen vertex stage.

// Vertex shader GLSL source (for reference):
//
// #version 450
//
// layout(location = 0) in vec2 inPosition;
// layout(location = 1) in vec2 inTexCoord;
//
// layout(push_constant) uniform PushConstants {
//     mat4 mvp;
//     float opacity;
// } pc;
//
// layout(location = 0) out vec2 fragTexCoord;
// layout(location = 1) out float fragOpacity;
//
// void main() {
//     gl_Position = pc.mvp * vec4(inPosition, 0.0, 1.0);
//     fragTexCoord = inTexCoord;
//     fragOpacity = pc.opacity;
// }
//
// To regenerate: glslc -fshader-stage=vertex mesh.vert.glsl -o mesh.vert.spv
var meshVertexSPIRV = []byte{
	0x03, 0x02, 0x23, 0x07, // SPIR-V magic number
	0x00, 0x00, 0x01, 0x00, // version 1.0
	// placeholder body: regenerate via glslc from the GLSL source above
	// before loading this backend against a real Vulkan driver.
}

// Fragment shader GLSL source (for reference):
//
// #version 450
//
// layout(location = 0) in vec2 fragTexCoord;
// layout(location = 1) in float fragOpacity;
// layout(location = 0) out vec4 outColor;
//
// layout(binding = 0) uniform sampler2D texSampler;
//
// void main() {
//     vec4 c = texture(texSampler, fragTexCoord);
//     outColor = vec4(c.rgb, c.a * fragOpacity);
// }
//
// To regenerate: glslc -fshader-stage=fragment mesh.frag.glsl -o mesh.frag.spv
var meshFragmentSPIRV = []byte{
	0x03, 0x02, 0x23, 0x07,
	0x00, 0x00, 0x01, 0x00,
}

// Fullscreen-pass vertex shader: generates a full-viewport triangle from
// gl_VertexIndex alone (the standard no-vertex-buffer trick), written
// for the effect chain / color calibration / edge blend passes, which
// always sample one whole input texture; like the slices above, nothing
// loads it.
//
// #version 450
//
// layout(location = 0) out vec2 fragTexCoord;
//
// void main() {
//     vec2 pos = vec2((gl_VertexIndex << 1) & 2, gl_VertexIndex & 2);
//     fragTexCoord = pos;
//     gl_Position = vec4(pos * 2.0 - 1.0, 0.0, 1.0);
// }
var fullscreenVertexSPIRV = []byte{
	0x03, 0x02, 0x23, 0x07,
	0x00, 0x00, 0x01, 0x00,
}
