package fleximg

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// AllocStats mirrors the counters m5stack_matte reads off its
// PoolAllocatorAdapter to put pool/default hit counts on an LCD debug
// overlay: PoolHits/PoolDeallocs count requests the pool satisfied
// itself; DefaultHits/DefaultDeallocs count overflow to the backing
// allocator; LastAllocSize is the most recent requested size.
type AllocStats struct {
	PoolHits       uint64
	PoolDeallocs   uint64
	DefaultHits    uint64
	DefaultDeallocs uint64
	LastAllocSize  uint64
}

// Allocator is the memory layer spec.md §4.9 requires: byte allocation
// with alignment, paired deallocation by (ptr-identity, size), and a
// stats snapshot. Implementations must be safe for the single-threaded
// pull loop that calls them; they are not required to be safe across
// concurrent RenderContexts (spec.md §5 already forbids sharing one
// context across pipelines).
type Allocator interface {
	Allocate(size, align int) []byte
	Deallocate(buf []byte)
	Stats() AllocStats
}

// defaultAllocator is a thin wrapper over Go's own heap allocator (make),
// standing in for the teacher's malloc/aligned_alloc wrapper. TrapEnabled,
// once set, makes every Allocate call panic instead of falling through —
// the Go equivalent of the C++ build's FLEXIMG_TRAP_DEFAULT_ALLOCATOR
// assert, used by embedded callers to prove a pipeline never escapes its
// pool (spec.md P8, "allocator containment").
type defaultAllocator struct {
	trapEnabled atomic.Bool
	hits        atomic.Uint64
	deallocs    atomic.Uint64
	lastSize    atomic.Uint64
}

var defaultAllocatorSingleton = &defaultAllocator{}

// DefaultAllocatorInstance returns the process-wide default heap
// allocator singleton, initialized once (spec.md §5).
func DefaultAllocatorInstance() Allocator { return defaultAllocatorSingleton }

// SetDefaultAllocatorTrap enables or disables trap mode on the default
// allocator singleton. With trap enabled, any Allocate call through it
// panics — callers that want containment proof bind a PoolAllocator to
// every RenderContext and only enable the trap once setup (which may
// legitimately use the default allocator for initial image buffers) has
// finished, exactly as m5stack_matte enables the trap after pipeline
// construction completes.
func SetDefaultAllocatorTrap(enabled bool) {
	defaultAllocatorSingleton.trapEnabled.Store(enabled)
}

func (a *defaultAllocator) Allocate(size, align int) []byte {
	if a.trapEnabled.Load() {
		panic(fmt.Sprintf("fleximg: default allocator used while trapped (size=%d)", size))
	}
	a.hits.Add(1)
	a.lastSize.Store(uint64(size))
	// align is not used: Go's make already returns 8-byte-aligned
	// slices, sufficient for every format's bpp <= 4.
	_ = align
	return make([]byte, size)
}

func (a *defaultAllocator) Deallocate(buf []byte) {
	_ = buf
	a.deallocs.Add(1)
}

func (a *defaultAllocator) Stats() AllocStats {
	return AllocStats{
		DefaultHits:     a.hits.Load(),
		DefaultDeallocs: a.deallocs.Load(),
		LastAllocSize:   a.lastSize.Load(),
	}
}

// PoolAllocator manages a bitmap of fixed-size blocks carved from a
// single backing byte slice, the Go counterpart of the C++
// PoolAllocator/PoolAllocatorAdapter pair m5stack_matte initializes with
// `internalPool.initialize(poolMemory, POOL_BLOCK_SIZE, POOL_BLOCK_COUNT,
// false)`. Requests larger than one block, or made once every block is
// busy, fail over to the backing allocator and count as a pool miss —
// never a hard failure, matching spec.md §4.9.
type PoolAllocator struct {
	mu        sync.Mutex
	backing   Allocator
	blockSize int
	blocks    [][]byte
	busy      []bool

	poolHits        uint64
	poolDeallocs    uint64
	defaultHits     uint64
	defaultDeallocs uint64
	lastSize        uint64
	// owned tracks which returned slices came from a block (by backing
	// array pointer) so Deallocate can route correctly without the
	// caller needing to say which allocator it came from.
	owned map[*byte]int
}

// NewPoolAllocator carves blockCount blocks of blockSize bytes each out
// of one contiguous allocation taken from backing (DefaultAllocatorInstance
// if nil), mirroring the fixed memory pool m5stack_matte sizes off its
// scanline byte budget (320 pixels * 4 bytes/pixel, rounded up with
// headroom to 512B blocks).
func NewPoolAllocator(backing Allocator, blockSize, blockCount int) *PoolAllocator {
	if backing == nil {
		backing = DefaultAllocatorInstance()
	}
	arena := backing.Allocate(blockSize*blockCount, 8)
	p := &PoolAllocator{
		backing:   backing,
		blockSize: blockSize,
		blocks:    make([][]byte, blockCount),
		busy:      make([]bool, blockCount),
		owned:     make(map[*byte]int, blockCount),
	}
	for i := 0; i < blockCount; i++ {
		block := arena[i*blockSize : (i+1)*blockSize : (i+1)*blockSize]
		p.blocks[i] = block
		p.owned[&block[0]] = i
	}
	return p
}

func (p *PoolAllocator) Allocate(size, align int) []byte {
	_ = align
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastSize = uint64(size)
	if size <= p.blockSize {
		for i, busy := range p.busy {
			if !busy {
				p.busy[i] = true
				p.poolHits++
				return p.blocks[i][:size]
			}
		}
	}
	p.defaultHits++
	return p.backing.Allocate(size, align)
}

func (p *PoolAllocator) Deallocate(buf []byte) {
	if len(buf) == 0 {
		p.mu.Lock()
		p.poolDeallocs++
		p.mu.Unlock()
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if idx, ok := p.owned[&buf[:1][0]]; ok {
		p.busy[idx] = false
		p.poolDeallocs++
		return
	}
	p.defaultDeallocs++
	p.backing.Deallocate(buf)
}

func (p *PoolAllocator) Stats() AllocStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return AllocStats{
		PoolHits:        p.poolHits,
		PoolDeallocs:    p.poolDeallocs,
		DefaultHits:     p.defaultHits,
		DefaultDeallocs: p.defaultDeallocs,
		LastAllocSize:   p.lastSize,
	}
}

// BufferHandle is an RAII-style guard pairing an Allocator with the
// slice it returned, releasing exactly once — the Go analogue of the
// C++ source's movable RAII buffer handle (spec.md §4.9, §9 "per-frame
// scratch"). Callers should `defer handle.Release()` immediately after
// acquisition so every exit path, including Empty/Error returns, frees
// the buffer.
type BufferHandle struct {
	alloc     Allocator
	buf       []byte
	released  bool
}

// AcquireBuffer allocates size bytes from alloc and wraps them in a
// handle.
func AcquireBuffer(alloc Allocator, size, align int) BufferHandle {
	return BufferHandle{alloc: alloc, buf: alloc.Allocate(size, align)}
}

// Bytes returns the underlying buffer. Calling it after Release returns
// nil.
func (h *BufferHandle) Bytes() []byte {
	if h.released {
		return nil
	}
	return h.buf
}

// Release returns the buffer to its allocator. Safe to call more than
// once; only the first call has an effect.
func (h *BufferHandle) Release() {
	if h.released {
		return
	}
	h.released = true
	h.alloc.Deallocate(h.buf)
	h.buf = nil
}
