//go:build !headless

package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/mrlongnight/mapmap/internal/gpu"
	"github.com/mrlongnight/mapmap/internal/gpu/software"
)

// vulkanTexture pairs a software.Texture (the CPU pixel buffer every
// render pass actually draws into, see device.go's package comment)
// with a real vk.Image + staging vk.Buffer, grounded on
// createOffscreenImages/createStagingBuffer. Upload writes straight to
// the CPU side, matching software.Texture's own contract; the GPU
// mirror is only written by Device.roundTrip, which ReadPixels does not
// reach through the view View returns (that view reports the CPU
// texture).
type vulkanTexture struct {
	cpu *software.Texture

	image       vk.Image
	imageMemory vk.DeviceMemory
	imageView   vk.ImageView

	stagingBuffer vk.Buffer
	stagingMemory vk.DeviceMemory
	byteSize      vk.DeviceSize
}

func (t *vulkanTexture) Width() int            { return t.cpu.Width() }
func (t *vulkanTexture) Height() int           { return t.cpu.Height() }
func (t *vulkanTexture) Format() gpu.Format    { return t.cpu.Format() }
func (t *vulkanTexture) View() gpu.TextureView { return t.cpu.View() }

// Upload replaces the CPU pixel buffer's contents (textureUploader,
// internal/orchestrator's interface for "hand a backend its pixels").
// The vk.Image mirror is not updated here; only Device.roundTrip
// writes it.
func (t *vulkanTexture) Upload(rgba []byte) {
	t.cpu.Upload(rgba)
}

// newVulkanTexture allocates the color image + view + staging buffer a
// vulkanTexture needs, following createOffscreenImages/
// createStagingBuffer; always RGBA8, since that is the only format the
// software rasterizer's pixel buffer stores (see software.Texture).
func (d *Device) newVulkanTexture(cpu *software.Texture, desc gpu.TextureDescriptor) (*vulkanTexture, error) {
	vt := &vulkanTexture{cpu: cpu, byteSize: vk.DeviceSize(desc.Width * desc.Height * 4)}

	imageInfo := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Format:    vk.FormatR8g8b8a8Unorm,
		Extent: vk.Extent3D{
			Width:  uint32(desc.Width),
			Height: uint32(desc.Height),
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Samples:       vk.SampleCount1Bit,
		Tiling:        vk.ImageTilingOptimal,
		Usage:         vk.ImageUsageFlags(vk.ImageUsageTransferSrcBit | vk.ImageUsageTransferDstBit),
		InitialLayout: vk.ImageLayoutUndefined,
	}
	var image vk.Image
	if res := vk.CreateImage(d.device, &imageInfo, nil, &image); res != vk.Success {
		return nil, fmt.Errorf("vkCreateImage failed: %d", res)
	}
	vt.image = image

	var memReqs vk.MemoryRequirements
	vk.GetImageMemoryRequirements(d.device, image, &memReqs)
	memReqs.Deref()

	memType, err := d.findMemoryType(memReqs.MemoryTypeBits, vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		vk.DestroyImage(d.device, image, nil)
		return nil, err
	}
	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memReqs.Size,
		MemoryTypeIndex: memType,
	}
	var mem vk.DeviceMemory
	if res := vk.AllocateMemory(d.device, &allocInfo, nil, &mem); res != vk.Success {
		vk.DestroyImage(d.device, image, nil)
		return nil, fmt.Errorf("vkAllocateMemory (image) failed: %d", res)
	}
	vt.imageMemory = mem
	vk.BindImageMemory(d.device, image, mem, 0)

	viewInfo := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   vk.FormatR8g8b8a8Unorm,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LevelCount:     1,
			LayerCount:     1,
		},
	}
	var view vk.ImageView
	if res := vk.CreateImageView(d.device, &viewInfo, nil, &view); res != vk.Success {
		vk.FreeMemory(d.device, mem, nil)
		vk.DestroyImage(d.device, image, nil)
		return nil, fmt.Errorf("vkCreateImageView failed: %d", res)
	}
	vt.imageView = view

	if err := d.allocateStagingBuffer(vt); err != nil {
		vk.DestroyImageView(d.device, view, nil)
		vk.FreeMemory(d.device, mem, nil)
		vk.DestroyImage(d.device, image, nil)
		return nil, err
	}
	return vt, nil
}

func (d *Device) allocateStagingBuffer(vt *vulkanTexture) error {
	bufferInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vt.byteSize,
		Usage:       vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit | vk.BufferUsageTransferDstBit),
		SharingMode: vk.SharingModeExclusive,
	}
	var buffer vk.Buffer
	if res := vk.CreateBuffer(d.device, &bufferInfo, nil, &buffer); res != vk.Success {
		return fmt.Errorf("vkCreateBuffer (staging) failed: %d", res)
	}
	vt.stagingBuffer = buffer

	var memReqs vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(d.device, buffer, &memReqs)
	memReqs.Deref()

	memType, err := d.findMemoryType(memReqs.MemoryTypeBits, vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		vk.DestroyBuffer(d.device, buffer, nil)
		return err
	}
	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memReqs.Size,
		MemoryTypeIndex: memType,
	}
	var mem vk.DeviceMemory
	if res := vk.AllocateMemory(d.device, &allocInfo, nil, &mem); res != vk.Success {
		vk.DestroyBuffer(d.device, buffer, nil)
		return fmt.Errorf("vkAllocateMemory (staging) failed: %d", res)
	}
	vt.stagingMemory = mem
	vk.BindBufferMemory(d.device, buffer, mem, 0)
	return nil
}

var _ gpu.Texture = (*vulkanTexture)(nil)
