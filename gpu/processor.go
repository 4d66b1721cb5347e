// Package gpu implements the image adjustment engine on top of
// wgpu/hal compute pipelines. Every effect is one dispatch over the
// packed RGBA pixel buffer; pipelines are created lazily and cached for
// the lifetime of the Processor, and a shared input/output buffer pair
// is reused across calls.
//
// The Processor falls back to nothing itself: when no GPU is available
// Initialize reports that, and callers are expected to run the pixel
// package instead.
package gpu

import (
	"fmt"
	"sync"
	"time"
	"unsafe"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gopixel/phototune"
	"github.com/gopixel/phototune/internal/shaders"
)

const fenceTimeout = 5 * time.Second

// shaderParams mirrors the Params uniform declared in the shader
// preamble: image size plus three generic vec4 parameter slots.
type shaderParams struct {
	Width  uint32
	Height uint32
	Pad    [2]uint32
	P      [4]float32
	Q      [4]float32
	T      [4]float32
}

// effectPipeline bundles the per-effect GPU objects kept alive between
// calls.
type effectPipeline struct {
	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline
	hasAux     bool
}

// Processor runs image effects as compute dispatches on one GPU device.
// All methods are safe for concurrent use; dispatches are serialized
// because they share the input and output buffers.
type Processor struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	pipelines map[shaders.EffectKey]*effectPipeline

	// Reused across calls; grown on demand.
	srcBuf     hal.Buffer
	dstBuf     hal.Buffer
	stagingBuf hal.Buffer
	bufSize    uint64

	// Extra storage for effects that need a third image-sized buffer
	// (the unsharp mask holds the blurred copy here). Created lazily.
	tmpBuf     hal.Buffer
	tmpBufSize uint64

	initialized bool
	ready       bool
	external    bool // true when using a shared device (don't destroy on Cleanup)
}

// NewProcessor returns a Processor that will open its own GPU device on
// the first Initialize call.
func NewProcessor() *Processor {
	return &Processor{pipelines: make(map[shaders.EffectKey]*effectPipeline)}
}

// NewProcessorWithProvider returns a Processor bound to a shared GPU
// device, typically from gogpu's application context. The provider must
// expose HAL types via HalDevice/HalQueue; Cleanup will not destroy the
// shared device.
func NewProcessorWithProvider(provider gpucontext.DeviceProvider) (*Processor, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("%w: provider does not expose HAL types", phototune.ErrUnsupportedEnvironment)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: provider HalDevice is not hal.Device", phototune.ErrUnsupportedEnvironment)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: provider HalQueue is not hal.Queue", phototune.ErrUnsupportedEnvironment)
	}
	return &Processor{
		pipelines:   make(map[shaders.EffectKey]*effectPipeline),
		device:      device,
		queue:       queue,
		external:    true,
		initialized: true,
		ready:       true,
	}, nil
}

// Initialize opens the GPU device. It is idempotent: repeat calls return
// the outcome of the first. The boolean reports whether GPU processing
// is available; when it is false the error wraps
// ErrUnsupportedEnvironment and callers should use the CPU engine.
func (p *Processor) Initialize() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		if p.ready {
			return true, nil
		}
		return false, phototune.ErrUnsupportedEnvironment
	}
	p.initialized = true
	if err := p.openDevice(); err != nil {
		phototune.Logger().Warn("gpu init failed", "err", err)
		return false, fmt.Errorf("%w: %v", phototune.ErrUnsupportedEnvironment, err)
	}
	p.ready = true
	return true, nil
}

// IsSupported reports whether a usable GPU adapter is present. It is a
// static probe with no side effects: the instance created to enumerate
// adapters is destroyed before returning, and no device is opened.
func IsSupported() bool {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return false
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return false
	}
	defer instance.Destroy()
	return len(instance.EnumerateAdapters(nil)) > 0
}

// Cleanup releases all GPU resources. Safe to call without a prior
// Initialize and safe to call twice. A shared device from
// NewProcessorWithProvider is detached, not destroyed.
func (p *Processor) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.destroyBuffersLocked()
	if p.device != nil {
		for key, pipe := range p.pipelines {
			p.destroyPipelineLocked(pipe)
			delete(p.pipelines, key)
		}
	}
	if !p.external {
		if p.device != nil {
			p.device.Destroy()
		}
		if p.instance != nil {
			p.instance.Destroy()
		}
	}
	p.device = nil
	p.queue = nil
	p.instance = nil
	p.ready = false
	p.external = false
}

func (p *Processor) openDevice() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	p.instance = instance
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		p.instance = nil
		return fmt.Errorf("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		p.instance = nil
		return fmt.Errorf("open device: %w", err)
	}
	p.device = openDev.Device
	p.queue = openDev.Queue
	phototune.Logger().Info("gpu processor initialized", "adapter", selected.Info.Name)
	return nil
}

// pipelineFor returns the cached pipeline for the effect, creating it on
// first use. Caller holds p.mu.
func (p *Processor) pipelineFor(key shaders.EffectKey) (*effectPipeline, error) {
	if pipe, ok := p.pipelines[key]; ok {
		return pipe, nil
	}

	src, err := shaders.Source(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", phototune.ErrUnknownOperation, err)
	}
	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  string(key),
		Source: hal.ShaderSource{WGSL: src},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", phototune.ErrShaderCompile, key, err)
	}

	entries := []gputypes.BindGroupLayoutEntry{
		{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
		{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
		{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
	}
	hasAux := shaders.NeedsAux(key)
	if hasAux {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding: 3, Visibility: gputypes.ShaderStageCompute,
			Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
		})
	}
	bindLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   string(key) + "_bind_layout",
		Entries: entries,
	})
	if err != nil {
		p.device.DestroyShaderModule(shader)
		return nil, fmt.Errorf("%w: %s bind layout: %v", phototune.ErrShaderLink, key, err)
	}
	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: string(key) + "_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		p.device.DestroyBindGroupLayout(bindLayout)
		p.device.DestroyShaderModule(shader)
		return nil, fmt.Errorf("%w: %s pipeline layout: %v", phototune.ErrShaderLink, key, err)
	}
	pipeline, err := p.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: string(key) + "_pipeline", Layout: pipeLayout,
		Compute: hal.ComputeState{Module: shader, EntryPoint: "main"},
	})
	if err != nil {
		p.device.DestroyPipelineLayout(pipeLayout)
		p.device.DestroyBindGroupLayout(bindLayout)
		p.device.DestroyShaderModule(shader)
		return nil, fmt.Errorf("%w: %s pipeline: %v", phototune.ErrShaderLink, key, err)
	}

	pipe := &effectPipeline{
		shader:     shader,
		bindLayout: bindLayout,
		pipeLayout: pipeLayout,
		pipeline:   pipeline,
		hasAux:     hasAux,
	}
	p.pipelines[key] = pipe
	return pipe, nil
}

func (p *Processor) destroyPipelineLocked(pipe *effectPipeline) {
	if pipe.pipeline != nil {
		p.device.DestroyComputePipeline(pipe.pipeline)
	}
	if pipe.pipeLayout != nil {
		p.device.DestroyPipelineLayout(pipe.pipeLayout)
	}
	if pipe.bindLayout != nil {
		p.device.DestroyBindGroupLayout(pipe.bindLayout)
	}
	if pipe.shader != nil {
		p.device.DestroyShaderModule(pipe.shader)
	}
}

// ensureBuffers grows the shared input/output/staging buffer trio to at
// least size bytes. Caller holds p.mu.
func (p *Processor) ensureBuffers(size uint64) error {
	if p.bufSize >= size {
		return nil
	}
	p.destroyBuffersLocked()

	srcBuf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "pixels_in", Size: size,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create input buffer: %w", err)
	}
	dstBuf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "pixels_out", Size: size,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		p.device.DestroyBuffer(srcBuf)
		return fmt.Errorf("create output buffer: %w", err)
	}
	stagingBuf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "pixels_staging", Size: size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		p.device.DestroyBuffer(srcBuf)
		p.device.DestroyBuffer(dstBuf)
		return fmt.Errorf("create staging buffer: %w", err)
	}
	p.srcBuf, p.dstBuf, p.stagingBuf = srcBuf, dstBuf, stagingBuf
	p.bufSize = size
	return nil
}

// ensureTmpBuffer grows the extra storage buffer to at least size
// bytes. Caller holds p.mu.
func (p *Processor) ensureTmpBuffer(size uint64) error {
	if p.tmpBufSize >= size {
		return nil
	}
	if p.tmpBuf != nil {
		p.device.DestroyBuffer(p.tmpBuf)
		p.tmpBuf = nil
		p.tmpBufSize = 0
	}
	buf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "pixels_tmp", Size: size,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create tmp buffer: %w", err)
	}
	p.tmpBuf = buf
	p.tmpBufSize = size
	return nil
}

func (p *Processor) destroyBuffersLocked() {
	if p.device == nil {
		p.srcBuf, p.dstBuf, p.stagingBuf, p.tmpBuf = nil, nil, nil, nil
		p.bufSize, p.tmpBufSize = 0, 0
		return
	}
	if p.srcBuf != nil {
		p.device.DestroyBuffer(p.srcBuf)
		p.srcBuf = nil
	}
	if p.dstBuf != nil {
		p.device.DestroyBuffer(p.dstBuf)
		p.dstBuf = nil
	}
	if p.stagingBuf != nil {
		p.device.DestroyBuffer(p.stagingBuf)
		p.stagingBuf = nil
	}
	if p.tmpBuf != nil {
		p.device.DestroyBuffer(p.tmpBuf)
		p.tmpBuf = nil
	}
	p.bufSize = 0
	p.tmpBufSize = 0
}

// passSpec is one compute dispatch inside a command encoder: an effect
// pipeline plus its input and output buffers. Multi-pass effects (the
// separable blur, the unsharp mask) chain specs in a single submission.
// Binding 3 comes from aux bytes uploaded into a transient buffer, or
// from auxBuf when a pass reads what an earlier pass wrote.
type passSpec struct {
	key    shaders.EffectKey
	params shaderParams
	aux    []byte
	auxBuf hal.Buffer
	in     hal.Buffer
	out    hal.Buffer
}

// runPasses uploads the image, encodes all passes in one command buffer
// and reads the result back from the staging copy of final.
func (p *Processor) runPasses(img *phototune.ImageBuffer, specs []passSpec, final hal.Buffer) (*phototune.ImageBuffer, error) {
	size := uint64(len(img.Pix))
	p.queue.WriteBuffer(p.srcBuf, 0, img.Pix)

	var transient []hal.Buffer
	var bindGroups []hal.BindGroup
	defer func() {
		for _, bg := range bindGroups {
			p.device.DestroyBindGroup(bg)
		}
		for _, b := range transient {
			p.device.DestroyBuffer(b)
		}
	}()

	type encodedPass struct {
		pipe *effectPipeline
		bg   hal.BindGroup
	}
	passes := make([]encodedPass, 0, len(specs))
	paramSize := uint64(unsafe.Sizeof(shaderParams{}))
	for _, spec := range specs {
		pipe, err := p.pipelineFor(spec.key)
		if err != nil {
			return nil, err
		}

		ub, err := p.device.CreateBuffer(&hal.BufferDescriptor{
			Label: string(spec.key) + "_params", Size: paramSize,
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, fmt.Errorf("create uniform buffer: %w", err)
		}
		transient = append(transient, ub)
		sp := spec.params
		p.queue.WriteBuffer(ub, 0, structToBytes(unsafe.Pointer(&sp), unsafe.Sizeof(sp)))

		entries := []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: ub.NativeHandle(), Offset: 0, Size: paramSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: spec.in.NativeHandle(), Offset: 0, Size: size}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: spec.out.NativeHandle(), Offset: 0, Size: size}},
		}
		if pipe.hasAux {
			switch {
			case spec.auxBuf != nil:
				entries = append(entries, gputypes.BindGroupEntry{
					Binding: 3, Resource: gputypes.BufferBinding{Buffer: spec.auxBuf.NativeHandle(), Offset: 0, Size: size},
				})
			case len(spec.aux) > 0:
				ab, err := p.device.CreateBuffer(&hal.BufferDescriptor{
					Label: string(spec.key) + "_aux", Size: uint64(len(spec.aux)),
					Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
				})
				if err != nil {
					return nil, fmt.Errorf("create aux buffer: %w", err)
				}
				transient = append(transient, ab)
				p.queue.WriteBuffer(ab, 0, spec.aux)
				entries = append(entries, gputypes.BindGroupEntry{
					Binding: 3, Resource: gputypes.BufferBinding{Buffer: ab.NativeHandle(), Offset: 0, Size: uint64(len(spec.aux))},
				})
			default:
				return nil, fmt.Errorf("%w: %s needs an auxiliary buffer", phototune.ErrInvalidParameters, spec.key)
			}
		}
		bg, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label: string(spec.key) + "_bind", Layout: pipe.bindLayout, Entries: entries,
		})
		if err != nil {
			return nil, fmt.Errorf("create bind group: %w", err)
		}
		bindGroups = append(bindGroups, bg)
		passes = append(passes, encodedPass{pipe: pipe, bg: bg})
	}

	encoder, err := p.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "effect_encoder"})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("effects"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}
	w, h := uint32(img.Width), uint32(img.Height) //nolint:gosec // dimensions always fit uint32
	for _, ep := range passes {
		pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "effect_pass"})
		pass.SetPipeline(ep.pipe.pipeline)
		pass.SetBindGroup(0, ep.bg, nil)
		pass.Dispatch((w+7)/8, (h+7)/8, 1)
		pass.End()
	}
	encoder.CopyBufferToBuffer(final, p.stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: size},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer p.device.FreeCommandBuffer(cmdBuf)

	fence, err := p.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("create fence: %w", err)
	}
	defer p.device.DestroyFence(fence)
	if err := p.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := p.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !fenceOK {
		return nil, fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	out := &phototune.ImageBuffer{
		Width:  img.Width,
		Height: img.Height,
		Pix:    make([]uint8, len(img.Pix)),
	}
	if err := p.queue.ReadBuffer(p.stagingBuf, 0, out.Pix); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}
	return out, nil
}

// runEffect dispatches a single effect from srcBuf into dstBuf.
func (p *Processor) runEffect(img *phototune.ImageBuffer, key shaders.EffectKey, sp shaderParams, aux []byte) (*phototune.ImageBuffer, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.requireReadyLocked(); err != nil {
		return nil, err
	}
	if err := p.ensureBuffers(uint64(len(img.Pix))); err != nil {
		return nil, err
	}
	sp.Width, sp.Height = uint32(img.Width), uint32(img.Height) //nolint:gosec // validated dimensions
	return p.runPasses(img, []passSpec{
		{key: key, params: sp, aux: aux, in: p.srcBuf, out: p.dstBuf},
	}, p.dstBuf)
}

func (p *Processor) requireReadyLocked() error {
	if p.ready {
		return nil
	}
	if !p.initialized {
		return fmt.Errorf("%w: processor not initialized", phototune.ErrUnsupportedEnvironment)
	}
	return phototune.ErrUnsupportedEnvironment
}

func structToBytes(ptr unsafe.Pointer, size uintptr) []byte {
	return unsafe.Slice((*byte)(ptr), size) //nolint:gosec // safe struct serialization
}
