//go:build headless

package vulkan

import (
	"github.com/mrlongnight/mapmap/internal/gpu"
	"github.com/mrlongnight/mapmap/internal/gpu/software"
)

// Device wraps software.Device in headless builds, the same way the
// teacher's own voodoo_vulkan_headless.go keeps the VulkanBackend type
// name but delegates every call to VoodooSoftwareBackend — callers that
// only ever see gpu.Device never notice the substitution.
type Device struct {
	*software.Device
}

// NewDevice returns a Device backed entirely by the software rasterizer;
// no Vulkan loader is touched in a headless build.
func NewDevice() (*Device, error) {
	return &Device{Device: software.NewDevice()}, nil
}

// Close is a no-op in headless builds: there is no Vulkan device to
// release. Present so callers can defer device.Close() unconditionally
// across both build variants.
func (d *Device) Close() {}

var _ gpu.Device = (*Device)(nil)
