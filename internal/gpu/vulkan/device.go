//go:build !headless

package vulkan

import (
	"fmt"
	"sync"
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/mrlongnight/mapmap/internal/gpu"
	"github.com/mrlongnight/mapmap/internal/gpu/software"
)

// Device is the hardware-accelerated gpu.Device backend (spec §4.11),
// grounded on the teacher's VulkanBackend (voodoo_vulkan.go): it owns a
// real Vulkan instance, logical device, command pool, command buffer and
// fence, and gives every texture it creates a GPU-resident vk.Image
// mirror it can stage pixels into and read back from.
//
// Render-pipeline composition (CreateRenderPipeline, CreateBindGroup,
// CreateCommandEncoder, Queue) is delegated to an embedded
// software.Device operating on the same texture's CPU pixel buffer,
// rather than recording real vkCmdDraw calls against per-effect
// compiled shaders: shaders.go's SPIR-V is a placeholder (no glslc is
// available to produce real bytecode in this environment), so the
// pixel math that must actually be correct — the one spec §8's
// properties exercise — stays on the already-grounded rasterizer.
// roundTrip holds the real image/buffer/command-queue round trip: it
// stages the CPU pixels into the mirrored vk.Image and copies them back
// out through vkCmdCopyImageToBuffer, exactly as readbackFramebuffer
// does. ReadPixels calls it only for a view whose Texture() is a
// *vulkanTexture; the views vulkanTexture.View returns report the
// embedded *software.Texture, so ReadPixels on them reads the CPU
// pixels through the software device.
type Device struct {
	mutex sync.Mutex

	instance       vk.Instance
	physicalDevice vk.PhysicalDevice
	device         vk.Device
	queue          vk.Queue
	queueFamily    uint32

	commandPool   vk.CommandPool
	commandBuffer vk.CommandBuffer
	fence         vk.Fence

	initialized bool

	software *software.Device
}

// NewDevice attempts to initialize a real Vulkan device and falls back
// silently to the software rasterizer if any step fails (spec §4.11:
// "callers otherwise fall back to software silently", mirroring
// NewVulkanBackend/Init's own fallback discipline).
func NewDevice() (*Device, error) {
	d := &Device{software: software.NewDevice()}

	if err := d.initVulkan(); err != nil {
		d.teardown()
		d.initialized = false
		return d, nil
	}
	d.initialized = true
	return d, nil
}

func (d *Device) initVulkan() error {
	if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		return fmt.Errorf("vulkan: load library: %w", err)
	}
	if err := vk.Init(); err != nil {
		return fmt.Errorf("vulkan: init loader: %w", err)
	}

	if err := d.createInstance(); err != nil {
		return fmt.Errorf("vulkan: create instance: %w", err)
	}
	if err := d.selectPhysicalDevice(); err != nil {
		return fmt.Errorf("vulkan: select physical device: %w", err)
	}
	if err := d.createLogicalDevice(); err != nil {
		return fmt.Errorf("vulkan: create device: %w", err)
	}
	if err := d.createCommandPool(); err != nil {
		return fmt.Errorf("vulkan: create command pool: %w", err)
	}
	if err := d.createCommandBuffer(); err != nil {
		return fmt.Errorf("vulkan: create command buffer: %w", err)
	}
	if err := d.createFence(); err != nil {
		return fmt.Errorf("vulkan: create fence: %w", err)
	}
	return nil
}

func (d *Device) createInstance() error {
	appInfo := vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   safeString("mapmap"),
		ApplicationVersion: vk.MakeVersion(1, 0, 0),
		PEngineName:        safeString("mapmap-gpu"),
		EngineVersion:      vk.MakeVersion(1, 0, 0),
		ApiVersion:         vk.MakeVersion(1, 1, 0),
	}
	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &appInfo,
	}
	var instance vk.Instance
	if res := vk.CreateInstance(&createInfo, nil, &instance); res != vk.Success {
		return fmt.Errorf("vkCreateInstance failed: %d", res)
	}
	d.instance = instance
	vk.InitInstance(instance)
	return nil
}

func (d *Device) selectPhysicalDevice() error {
	var count uint32
	vk.EnumeratePhysicalDevices(d.instance, &count, nil)
	if count == 0 {
		return fmt.Errorf("no Vulkan-capable GPUs found")
	}
	devices := make([]vk.PhysicalDevice, count)
	vk.EnumeratePhysicalDevices(d.instance, &count, devices)

	for _, dev := range devices {
		var qCount uint32
		vk.GetPhysicalDeviceQueueFamilyProperties(dev, &qCount, nil)
		families := make([]vk.QueueFamilyProperties, qCount)
		vk.GetPhysicalDeviceQueueFamilyProperties(dev, &qCount, families)
		for i, qf := range families {
			qf.Deref()
			if qf.QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
				d.physicalDevice = dev
				d.queueFamily = uint32(i)
				return nil
			}
		}
	}
	return fmt.Errorf("no suitable GPU with a graphics queue found")
}

func (d *Device) createLogicalDevice() error {
	priority := float32(1.0)
	queueInfo := vk.DeviceQueueCreateInfo{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: d.queueFamily,
		QueueCount:       1,
		PQueuePriorities: []float32{priority},
	}
	deviceInfo := vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: 1,
		PQueueCreateInfos:    []vk.DeviceQueueCreateInfo{queueInfo},
	}
	var device vk.Device
	if res := vk.CreateDevice(d.physicalDevice, &deviceInfo, nil, &device); res != vk.Success {
		return fmt.Errorf("vkCreateDevice failed: %d", res)
	}
	d.device = device

	var queue vk.Queue
	vk.GetDeviceQueue(device, d.queueFamily, 0, &queue)
	d.queue = queue
	return nil
}

func (d *Device) createCommandPool() error {
	poolInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: d.queueFamily,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}
	var pool vk.CommandPool
	if res := vk.CreateCommandPool(d.device, &poolInfo, nil, &pool); res != vk.Success {
		return fmt.Errorf("vkCreateCommandPool failed: %d", res)
	}
	d.commandPool = pool
	return nil
}

func (d *Device) createCommandBuffer() error {
	allocInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        d.commandPool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}
	buffers := make([]vk.CommandBuffer, 1)
	if res := vk.AllocateCommandBuffers(d.device, &allocInfo, buffers); res != vk.Success {
		return fmt.Errorf("vkAllocateCommandBuffers failed: %d", res)
	}
	d.commandBuffer = buffers[0]
	return nil
}

func (d *Device) createFence() error {
	fenceInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		Flags: vk.FenceCreateFlags(vk.FenceCreateSignaledBit),
	}
	var fence vk.Fence
	if res := vk.CreateFence(d.device, &fenceInfo, nil, &fence); res != vk.Success {
		return fmt.Errorf("vkCreateFence failed: %d", res)
	}
	d.fence = fence
	return nil
}

// findMemoryType picks the first memory type matching typeFilter with all
// of properties set, exactly as the teacher's findMemoryType does.
func (d *Device) findMemoryType(typeFilter uint32, properties vk.MemoryPropertyFlags) (uint32, error) {
	var memProps vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(d.physicalDevice, &memProps)
	memProps.Deref()
	for i := uint32(0); i < memProps.MemoryTypeCount; i++ {
		memProps.MemoryTypes[i].Deref()
		if (typeFilter&(1<<i)) != 0 && (memProps.MemoryTypes[i].PropertyFlags&properties) == properties {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no suitable memory type for filter %#x", typeFilter)
}

// CreateTexture allocates a software-backed texture; when real Vulkan
// init succeeded, it also allocates a mirrored vk.Image + staging buffer
// pair for roundTrip (see ReadPixels for when that path runs).
func (d *Device) CreateTexture(desc gpu.TextureDescriptor) (gpu.Texture, error) {
	cpu := software.NewTexture(desc)
	if !d.initialized {
		return cpu, nil
	}
	vt, err := d.newVulkanTexture(cpu, desc)
	if err != nil {
		// A single texture failing to mirror onto the GPU does not
		// invalidate the whole device; the caller still gets a working
		// (CPU-only) texture back.
		return cpu, nil
	}
	return vt, nil
}

func (d *Device) CreateRenderPipeline(desc gpu.RenderPipelineDescriptor) (gpu.RenderPipeline, error) {
	return d.software.CreateRenderPipeline(desc)
}

func (d *Device) CreateBindGroup(entries []gpu.BindGroupEntry) gpu.BindGroup {
	return d.software.CreateBindGroup(entries)
}

func (d *Device) CreateCommandEncoder() gpu.CommandEncoder {
	return d.software.CreateCommandEncoder()
}

func (d *Device) Queue() gpu.Queue {
	return d.software.Queue()
}

// ReadPixels reads view's texture back to host bytes. For a texture with
// a live vk.Image mirror, it stages the current CPU pixels up to the GPU
// and copies them back down through the real command-buffer/fence path
// (readbackFramebuffer's pattern) before returning; for a CPU-only
// texture it defers straight to the software device. Views obtained from
// vulkanTexture.View report the software texture, so they take the
// second path.
func (d *Device) ReadPixels(view gpu.TextureView) ([]byte, int, int, error) {
	if vt, ok := view.Texture().(*vulkanTexture); ok && d.initialized {
		return d.roundTrip(vt)
	}
	return d.software.ReadPixels(view)
}

func (d *Device) roundTrip(vt *vulkanTexture) ([]byte, int, int, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if err := d.uploadToImage(vt); err != nil {
		return nil, 0, 0, err
	}
	out, err := d.copyFromImage(vt)
	if err != nil {
		return nil, 0, 0, err
	}
	return out, vt.cpu.Width(), vt.cpu.Height(), nil
}

// uploadToImage stages vt's current CPU pixels into its staging buffer
// and copies them into its vk.Image, the mirror image of
// readbackFramebuffer's copy-out path.
func (d *Device) uploadToImage(vt *vulkanTexture) error {
	var data unsafe.Pointer
	if res := vk.MapMemory(d.device, vt.stagingMemory, 0, vt.byteSize, 0, &data); res != vk.Success {
		return fmt.Errorf("vkMapMemory (upload) failed: %d", res)
	}
	copy((*[1 << 30]byte)(data)[:vt.byteSize], vt.cpu.Pixels())
	vk.UnmapMemory(d.device, vt.stagingMemory)

	vk.ResetFences(d.device, 1, []vk.Fence{d.fence})
	vk.ResetCommandBuffer(d.commandBuffer, 0)

	begin := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	vk.BeginCommandBuffer(d.commandBuffer, &begin)

	region := vk.BufferImageCopy{
		ImageSubresource: vk.ImageSubresourceLayers{
			AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
		ImageExtent: vk.Extent3D{Width: uint32(vt.cpu.Width()), Height: uint32(vt.cpu.Height()), Depth: 1},
	}
	vk.CmdCopyBufferToImage(d.commandBuffer, vt.stagingBuffer, vt.image, vk.ImageLayoutGeneral, 1, []vk.BufferImageCopy{region})
	vk.EndCommandBuffer(d.commandBuffer)

	submit := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{d.commandBuffer},
	}
	vk.QueueSubmit(d.queue, 1, []vk.SubmitInfo{submit}, d.fence)
	vk.WaitForFences(d.device, 1, []vk.Fence{d.fence}, vk.True, ^uint64(0))
	return nil
}

// copyFromImage is readbackFramebuffer verbatim, generalized from the
// teacher's single fixed color image to any vulkanTexture.
func (d *Device) copyFromImage(vt *vulkanTexture) ([]byte, error) {
	vk.ResetFences(d.device, 1, []vk.Fence{d.fence})
	vk.ResetCommandBuffer(d.commandBuffer, 0)

	begin := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	vk.BeginCommandBuffer(d.commandBuffer, &begin)

	region := vk.BufferImageCopy{
		ImageSubresource: vk.ImageSubresourceLayers{
			AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
		ImageExtent: vk.Extent3D{Width: uint32(vt.cpu.Width()), Height: uint32(vt.cpu.Height()), Depth: 1},
	}
	vk.CmdCopyImageToBuffer(d.commandBuffer, vt.image, vk.ImageLayoutGeneral, vt.stagingBuffer, 1, []vk.BufferImageCopy{region})
	vk.EndCommandBuffer(d.commandBuffer)

	submit := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{d.commandBuffer},
	}
	vk.QueueSubmit(d.queue, 1, []vk.SubmitInfo{submit}, d.fence)
	vk.WaitForFences(d.device, 1, []vk.Fence{d.fence}, vk.True, ^uint64(0))

	out := make([]byte, vt.byteSize)
	var data unsafe.Pointer
	if res := vk.MapMemory(d.device, vt.stagingMemory, 0, vt.byteSize, 0, &data); res != vk.Success {
		return nil, fmt.Errorf("vkMapMemory (readback) failed: %d", res)
	}
	copy(out, (*[1 << 30]byte)(data)[:vt.byteSize])
	vk.UnmapMemory(d.device, vt.stagingMemory)
	return out, nil
}

// teardown releases anything initVulkan managed to create before
// failing partway through, so a failed init never leaks handles.
func (d *Device) teardown() {
	if d.fence != nil {
		vk.DestroyFence(d.device, d.fence, nil)
	}
	if d.commandPool != nil {
		vk.DestroyCommandPool(d.device, d.commandPool, nil)
	}
	if d.device != nil {
		vk.DestroyDevice(d.device, nil)
	}
	if d.instance != nil {
		vk.DestroyInstance(d.instance, nil)
	}
}

// Close releases the device's Vulkan resources; a no-op in the software
// fallback case. Safe to call once after the last frame is drawn.
func (d *Device) Close() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if !d.initialized {
		return
	}
	vk.DeviceWaitIdle(d.device)
	d.teardown()
	d.initialized = false
}

var _ gpu.Device = (*Device)(nil)

func safeString(s string) string { return s + "\x00" }
