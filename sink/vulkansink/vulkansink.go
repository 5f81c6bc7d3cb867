//go:build !headless

// Package vulkansink is an alternate desktop preview SinkNode backend,
// grounded in the teacher's dual software/hardware backend-selection
// pattern (voodoo_software.go / voodoo_vulkan.go): pixel compositing
// always goes through an in-process software frame buffer (same as
// ebitensink), while OpenDevice optionally stands up a real Vulkan
// instance and reports the selected physical device, exercising the
// dependency without committing to a full swapchain/present pipeline
// (out of proportion to this sink's scope — see DESIGN.md).
package vulkansink

import (
	"fmt"
	"sync"

	vk "github.com/goki/vulkan"

	"github.com/ainyan03/fleximg-go"
)

// Sink composites rows into a software frame buffer and can report the
// Vulkan device it would present through.
type Sink struct {
	mu          sync.Mutex
	width       int
	height      int
	frame       []byte // RGBA8, width*height*4
	originX     int
	originY     int
	drawEnabled bool

	instance       vk.Instance
	physicalDevice vk.PhysicalDevice
	deviceName     string
}

// New creates a sink sized width x height with drawing enabled.
func New(width, height int) *Sink {
	return &Sink{
		width: width, height: height,
		frame:       make([]byte, width*height*4),
		drawEnabled: true,
	}
}

func (s *Sink) SetOrigin(x, y int) {
	s.mu.Lock()
	s.originX, s.originY = x, y
	s.mu.Unlock()
}

func (s *Sink) SetDrawEnabled(enabled bool) {
	s.mu.Lock()
	s.drawEnabled = enabled
	s.mu.Unlock()
}

// Frame returns a copy of the current composited RGBA8 frame.
func (s *Sink) Frame() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, len(s.frame))
	copy(out, s.frame)
	return out
}

// DeviceName returns the Vulkan physical device name chosen by
// OpenDevice, or "" if OpenDevice hasn't been called.
func (s *Sink) DeviceName() string { return s.deviceName }

func (s *Sink) WriteRow(y int, resp fleximg.RenderResponse, srcFormat fleximg.PixelFormatID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.drawEnabled {
		return
	}
	dstY := s.originY + y
	if dstY < 0 || dstY >= s.height {
		return
	}
	lo, hi := resp.DataRange.X, resp.DataRange.X+resp.DataRange.W
	for x := lo; x < hi; x++ {
		dstX := s.originX + x
		if dstX < 0 || dstX >= s.width {
			continue
		}
		c := resp.View.PixelAt(x, 0)
		off := (dstY*s.width + dstX) * 4
		s.frame[off], s.frame[off+1], s.frame[off+2], s.frame[off+3] = c.R, c.G, c.B, c.A
	}
}

// OpenDevice initializes the Vulkan loader, creates an instance, and
// selects the first enumerated physical device, recording its name for
// DeviceName. It does not build a swapchain or present — WriteRow's
// software path remains the only pixel sink.
func (s *Sink) OpenDevice() error {
	if err := vk.Init(); err != nil {
		return fmt.Errorf("vulkansink: loader init: %w", err)
	}

	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   "fleximg-go\x00",
		ApplicationVersion: vk.MakeVersion(1, 0, 0),
		PEngineName:        "fleximg\x00",
		EngineVersion:      vk.MakeVersion(1, 0, 0),
		ApiVersion:         vk.ApiVersion10,
	}
	instInfo := &vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}
	var instance vk.Instance
	if res := vk.CreateInstance(instInfo, nil, &instance); res != vk.Success {
		return fmt.Errorf("vulkansink: CreateInstance failed: %d", res)
	}
	s.instance = instance

	var count uint32
	vk.EnumeratePhysicalDevices(instance, &count, nil)
	if count == 0 {
		return fmt.Errorf("vulkansink: no physical devices available")
	}
	devices := make([]vk.PhysicalDevice, count)
	vk.EnumeratePhysicalDevices(instance, &count, devices)
	s.physicalDevice = devices[0]

	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(s.physicalDevice, &props)
	props.Deref()
	s.deviceName = vk.ToString(props.DeviceName[:])
	return nil
}

// Close tears down the Vulkan instance, if one was opened.
func (s *Sink) Close() {
	if s.instance != nil {
		vk.DestroyInstance(s.instance, nil)
		s.instance = nil
	}
}
