package fleximg

// entryKey identifies a cached strip shape: its pixel format plus
// dimensions, per spec.md §4.8.
type entryKey struct {
	format PixelFormatID
	width  int
	height int
}

// poolEntry is one cached strip buffer plus a single busy bit enforcing
// "at most one live holder per (key, slot)" (spec.md §4.8 invariant).
type poolEntry struct {
	buf  *ImageBuffer
	busy bool
}

// EntryPool is the per-frame cache of strip buffers the renderer binds
// into a RenderContext at the start of every exec(). Strips handed out
// by Acquire are backed by the context's configured Allocator — a
// PoolAllocator on embedded targets, the default heap allocator on
// desktop — and are freed back to it when the pool is closed at frame
// end. The RGBA8Straight scratch rows handed out by AcquireRGBARow are
// made on the Go heap: they do not go through the Allocator, do not
// show in its stats, and Close only drops them.
type EntryPool struct {
	alloc   Allocator
	entries map[entryKey][]*poolEntry
	rgba    map[int][]*rgbaEntry
}

// rgbaEntry caches a scratch row of width*4 bytes in RGBA8Straight
// layout, used by SourceNode/CompositeNode/MatteNode to accumulate in
// straight RGBA8 before a final Unstraighten into the destination
// format (spec.md §4.2-§4.4 all sample/blend in straight RGBA8
// regardless of the pipeline's terminal format).
type rgbaEntry struct {
	buf  []byte
	busy bool
}

// NewEntryPool creates a pool bound to alloc.
func NewEntryPool(alloc Allocator) *EntryPool {
	return &EntryPool{
		alloc:   alloc,
		entries: make(map[entryKey][]*poolEntry),
		rgba:    make(map[int][]*rgbaEntry),
	}
}

// StripHandle is the RAII guard returned by Acquire: release it exactly
// once, on every exit path including Empty/Error returns (spec.md §9).
type StripHandle struct {
	pool  *EntryPool
	key   entryKey
	entry *poolEntry
}

// Buffer returns the acquired strip's backing ImageBuffer.
func (h StripHandle) Buffer() *ImageBuffer { return h.entry.buf }

// View returns a ViewPort over the whole acquired strip.
func (h StripHandle) View() ViewPort { return h.entry.buf.View() }

// Release returns the strip to the pool for reuse later this frame.
func (h StripHandle) Release() {
	if h.entry != nil {
		h.entry.busy = false
	}
}

// Acquire returns a cleared strip buffer of (format, width, height),
// reusing a free cached entry when one exists for that exact key and
// allocating a new one (through the pool's Allocator) otherwise.
func (p *EntryPool) Acquire(format PixelFormatID, width, height int) StripHandle {
	key := entryKey{format, width, height}
	for _, e := range p.entries[key] {
		if !e.busy {
			e.busy = true
			clearBuffer(e.buf)
			return StripHandle{pool: p, key: key, entry: e}
		}
	}
	e := &poolEntry{buf: NewImageBuffer(width, height, format, Zeroed, p.alloc, nil), busy: true}
	p.entries[key] = append(p.entries[key], e)
	return StripHandle{pool: p, key: key, entry: e}
}

func clearBuffer(b *ImageBuffer) {
	for y := 0; y < b.Height(); y++ {
		row := b.Row(y)
		for i := range row {
			row[i] = 0
		}
	}
}

// RGBAHandle is the RAII guard for a raw RGBA8Straight scratch row.
type RGBAHandle struct {
	pool  *EntryPool
	width int
	entry *rgbaEntry
}

// View returns a 1-row ViewPort over the scratch buffer in
// RGBA8Straight format.
func (h RGBAHandle) View() ViewPort {
	return viewFromBytes(h.entry.buf, h.width, 1, h.width*4, RGBA8Straight, nil)
}

// Release returns the row to the pool.
func (h RGBAHandle) Release() {
	if h.entry != nil {
		h.entry.busy = false
	}
}

// AcquireRGBARow returns a width-pixel RGBA8Straight scratch row,
// zeroed (fully-transparent black), reusing a cached row of the same
// width when available. This is the primary scratch type SourceNode,
// CompositeNode, and MatteNode pull rows into before a final
// Unstraighten, since sampling/blending math is always done in
// straight RGBA8 regardless of the pipeline's terminal format
// (spec.md §4.2-§4.4). A new row is allocated with make on the Go heap,
// not through the pool's Allocator.
func (p *EntryPool) AcquireRGBARow(width int) RGBAHandle {
	for _, e := range p.rgba[width] {
		if !e.busy {
			e.busy = true
			for i := range e.buf {
				e.buf[i] = 0
			}
			return RGBAHandle{pool: p, width: width, entry: e}
		}
	}
	e := &rgbaEntry{buf: make([]byte, width*4), busy: true}
	p.rgba[width] = append(p.rgba[width], e)
	return RGBAHandle{pool: p, width: width, entry: e}
}

// Close frees every cached Acquire strip back to the pool's allocator
// and drops the heap-backed RGBA scratch rows, the Go equivalent of "on
// frame end (RenderContext destruction) all entries are freed"
// (spec.md §4.8). RendererNode.Exec calls this after every
// frame so the next frame starts from a clean allocator ledger.
func (p *EntryPool) Close() {
	for _, list := range p.entries {
		for _, e := range list {
			e.buf.Close()
		}
	}
	p.entries = make(map[entryKey][]*poolEntry)
	p.rgba = make(map[int][]*rgbaEntry)
}
