package fleximg

// InitPolicy controls whether a newly-allocated ImageBuffer's pixels are
// zeroed, mirroring the C++ source's `InitPolicy::Uninitialized` escape
// hatch used by m5stack_matte for buffers it immediately overwrites.
type InitPolicy int

const (
	Zeroed InitPolicy = iota
	Uninitialized
)

// ImageBuffer owns a pixel block obtained from an Allocator. stride is
// in bytes and must be >= width*bpp (rounded up to whole bytes for
// sub-byte-packed index formats), aligned to 4 bytes when bpp >= 2
// (spec.md §3 invariant).
type ImageBuffer struct {
	width, height int
	stride        int
	format        PixelFormatID
	palette       []RGBA
	alloc         Allocator
	handle        BufferHandle
}

// NewImageBuffer allocates a buffer through alloc (DefaultAllocatorInstance
// if nil) sized for width x height pixels in format. palette is only
// consulted (and retained) for paletted formats.
func NewImageBuffer(width, height int, format PixelFormatID, policy InitPolicy, alloc Allocator, palette []RGBA) *ImageBuffer {
	if alloc == nil {
		alloc = DefaultAllocatorInstance()
	}
	desc := FormatOf(format)
	stride := alignStride(bytesForWidth(desc.BitsPerPel, width), desc.BitsPerPel)
	handle := AcquireBuffer(alloc, stride*height, 4)
	if policy == Zeroed {
		buf := handle.Bytes()
		for i := range buf {
			buf[i] = 0
		}
	}
	return &ImageBuffer{
		width: width, height: height, stride: stride,
		format: format, palette: palette, alloc: alloc, handle: handle,
	}
}

// alignStride rounds byteWidth up to a 4-byte boundary once the format
// is at least one byte per pixel; sub-byte packed formats (Index1/2/4)
// are already minimal and left unaligned to avoid wasting RAM on
// embedded targets with 320-wide 1bpp masks.
func alignStride(byteWidth, bitsPerPel int) int {
	if bitsPerPel < 8 {
		return byteWidth
	}
	return (byteWidth + 3) &^ 3
}

// Close releases the buffer's storage back to its allocator. Safe to
// call more than once.
func (b *ImageBuffer) Close() { b.handle.Release() }

func (b *ImageBuffer) Width() int             { return b.width }
func (b *ImageBuffer) Height() int            { return b.height }
func (b *ImageBuffer) Stride() int            { return b.stride }
func (b *ImageBuffer) Format() PixelFormatID  { return b.format }
func (b *ImageBuffer) Palette() []RGBA        { return b.palette }

// Row returns the raw bytes of row y.
func (b *ImageBuffer) Row(y int) []byte {
	buf := b.handle.Bytes()
	off := y * b.stride
	return buf[off : off+b.stride]
}

// PixelAt decodes the pixel at (x, y) to straight RGBA.
func (b *ImageBuffer) PixelAt(x, y int) RGBA {
	return straightenAt(FormatOf(b.format), b.palette, b.Row(y), x)
}

func bitOffsetBytes(bitsPerPel, x int) int {
	if bitsPerPel >= 8 {
		return x * (bitsPerPel / 8)
	}
	return 0 // packed sub-byte formats are addressed by pixel index, not byte offset
}

// View returns a ViewPort covering the entire buffer.
func (b *ImageBuffer) View() ViewPort {
	return ViewPort{
		buf: b.handle.Bytes(), width: b.width, height: b.height,
		stride: b.stride, format: b.format, palette: b.palette,
	}
}

// ViewPort is a non-owning subrect view: row-major bytes, a stride, a
// format, and an optional palette. It may alias any ImageBuffer or a
// pool-acquired scratch row. Rows are iterated left-to-right only
// (spec.md §3).
type ViewPort struct {
	buf           []byte
	width, height int
	stride        int
	format        PixelFormatID
	palette       []RGBA
}

func (v ViewPort) Width() int            { return v.width }
func (v ViewPort) Height() int           { return v.height }
func (v ViewPort) Stride() int           { return v.stride }
func (v ViewPort) Format() PixelFormatID { return v.format }
func (v ViewPort) Palette() []RGBA       { return v.palette }
func (v ViewPort) Empty() bool           { return v.width <= 0 || v.height <= 0 || v.buf == nil }

// Row returns the raw bytes of row y within the view. The last row of a
// Sub view may be shorter than the stride.
func (v ViewPort) Row(y int) []byte {
	off := y * v.stride
	end := off + v.stride
	if end > len(v.buf) {
		end = len(v.buf)
	}
	return v.buf[off:end]
}

// Sub returns a view onto the subrectangle [x,y,w,h) of v. Caller must
// ensure the rectangle fits within v's bounds.
func (v ViewPort) Sub(x, y, w, h int) ViewPort {
	desc := FormatOf(v.format)
	byteOff := y*v.stride + bitOffsetBytes(desc.BitsPerPel, x)
	return ViewPort{
		buf:    v.buf[byteOff:],
		width:  w, height: h, stride: v.stride,
		format: v.format, palette: v.palette,
	}
}

// PixelAt decodes the pixel at (x, y) within the view to straight RGBA.
func (v ViewPort) PixelAt(x, y int) RGBA {
	return straightenAt(FormatOf(v.format), v.palette, v.Row(y), x)
}

// viewFromBytes builds an ad-hoc ViewPort over a caller-owned byte
// slice — used by the entry pool to hand out scratch strips.
func viewFromBytes(buf []byte, width, height, stride int, format PixelFormatID, palette []RGBA) ViewPort {
	return ViewPort{buf: buf, width: width, height: height, stride: stride, format: format, palette: palette}
}
