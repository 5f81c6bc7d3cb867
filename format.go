package fleximg

// PixelFormatID selects an immutable descriptor from the format table.
type PixelFormatID int

const (
	RGBA8Straight PixelFormatID = iota
	RGB888
	BGR888
	RGB565LE
	RGB565BE
	RGB332
	Alpha8
	Grayscale8
	Index1
	Index2
	Index4
	Index8
	numPixelFormats
)

func (id PixelFormatID) String() string {
	if d := formatTable[id]; d != nil {
		return d.Name
	}
	return "Unknown"
}

// RGBA is a straight-alpha, non-premultiplied 32-bit color: R,G,B,A each
// 0-255, A=0 fully transparent, A=255 fully opaque.
type RGBA struct {
	R, G, B, A uint8
}

// FormatDescriptor is the per-format function-pointer table spec.md §3
// names: bytes-per-pixel, alpha presence, and the four scanline kernels.
// The table is built once at init and is read-only afterward, the only
// process-wide static state besides the optional default-allocator
// singleton (spec.md §5).
type FormatDescriptor struct {
	ID          PixelFormatID
	Name        string
	BitsPerPel  int  // bits per pixel; packed index formats are <8
	HasAlpha    bool
	Paletted    bool

	// Straighten decodes one native-format pixel at src[0:] into an RGBA.
	Straighten func(pal []RGBA, src []byte) RGBA
	// Unstraighten encodes an RGBA into dst in the native format.
	Unstraighten func(pal []RGBA, dst []byte, c RGBA)
	// CopyRowDDA samples count pixels from src (native format, row-major,
	// stride srcStride) starting at fixed-point x=startX along a
	// constant step, writing straightened RGBA into dst. It does no
	// bounds checking, so a caller clips to the DataRange first. The
	// samplers in affine_sample.go do not call it: they clip with
	// clipTransformedRow and decode pixels through straightenAt.
	CopyRowDDA func(pal []RGBA, dst []RGBA, src []byte, srcStride int, startX, step Fixed, count int)
	// BlendUnderStraight composites src (straight RGBA8, count pixels)
	// beneath dst (already native format, in place), per spec.md §4.4.
	BlendUnderStraight func(pal []RGBA, dst []byte, src []RGBA, count int)
}

var formatTable [numPixelFormats]*FormatDescriptor

func init() {
	formatTable[RGBA8Straight] = &FormatDescriptor{
		ID: RGBA8Straight, Name: "RGBA8Straight", BitsPerPel: 32, HasAlpha: true,
		Straighten:         straightenRGBA8,
		Unstraighten:       unstraightenRGBA8,
		CopyRowDDA:         ddaBytesPerPel(4, straightenRGBA8),
		BlendUnderStraight: blendUnderRGBA8,
	}
	formatTable[RGB888] = &FormatDescriptor{
		ID: RGB888, Name: "RGB888", BitsPerPel: 24, HasAlpha: false,
		Straighten:         straightenRGB888,
		Unstraighten:       unstraightenRGB888,
		CopyRowDDA:         ddaBytesPerPel(3, straightenRGB888),
		BlendUnderStraight: blendUnderOpaque(3, unstraightenRGB888),
	}
	formatTable[BGR888] = &FormatDescriptor{
		ID: BGR888, Name: "BGR888", BitsPerPel: 24, HasAlpha: false,
		Straighten:         straightenBGR888,
		Unstraighten:       unstraightenBGR888,
		CopyRowDDA:         ddaBytesPerPel(3, straightenBGR888),
		BlendUnderStraight: blendUnderOpaque(3, unstraightenBGR888),
	}
	formatTable[RGB565LE] = &FormatDescriptor{
		ID: RGB565LE, Name: "RGB565LE", BitsPerPel: 16, HasAlpha: false,
		Straighten:         straighten565(false),
		Unstraighten:       unstraighten565(false),
		CopyRowDDA:         ddaBytesPerPel(2, straighten565(false)),
		BlendUnderStraight: blendUnderOpaque(2, unstraighten565(false)),
	}
	formatTable[RGB565BE] = &FormatDescriptor{
		ID: RGB565BE, Name: "RGB565BE", BitsPerPel: 16, HasAlpha: false,
		Straighten:         straighten565(true),
		Unstraighten:       unstraighten565(true),
		CopyRowDDA:         ddaBytesPerPel(2, straighten565(true)),
		BlendUnderStraight: blendUnderOpaque(2, unstraighten565(true)),
	}
	formatTable[RGB332] = &FormatDescriptor{
		ID: RGB332, Name: "RGB332", BitsPerPel: 8, HasAlpha: false,
		Straighten:         straightenRGB332,
		Unstraighten:       unstraightenRGB332,
		CopyRowDDA:         ddaBytesPerPel(1, straightenRGB332),
		BlendUnderStraight: blendUnderOpaque(1, unstraightenRGB332),
	}
	formatTable[Alpha8] = &FormatDescriptor{
		ID: Alpha8, Name: "Alpha8", BitsPerPel: 8, HasAlpha: true,
		Straighten:         straightenAlpha8,
		Unstraighten:       unstraightenAlpha8,
		CopyRowDDA:         ddaBytesPerPel(1, straightenAlpha8),
		BlendUnderStraight: blendUnderAlpha8,
	}
	formatTable[Grayscale8] = &FormatDescriptor{
		ID: Grayscale8, Name: "Grayscale8", BitsPerPel: 8, HasAlpha: false,
		Straighten:         straightenGrayscale8,
		Unstraighten:       unstraightenGrayscale8,
		CopyRowDDA:         ddaBytesPerPel(1, straightenGrayscale8),
		BlendUnderStraight: blendUnderOpaque(1, unstraightenGrayscale8),
	}
	registerIndexFormats()
}

// getRGBAAt/setRGBAAt read and write one straight RGBA8 pixel at index
// i within a row known to be in RGBA8Straight layout — the scratch-row
// format every sampling/compositing/matte kernel accumulates into
// before a final Unstraighten (spec.md §4.2-§4.4).
func getRGBAAt(row []byte, i int) RGBA {
	off := i * 4
	return RGBA{R: row[off], G: row[off+1], B: row[off+2], A: row[off+3]}
}

func setRGBAAt(row []byte, i int, c RGBA) {
	off := i * 4
	row[off], row[off+1], row[off+2], row[off+3] = c.R, c.G, c.B, c.A
}

// FormatOf returns the descriptor for id, or nil if id is out of range.
func FormatOf(id PixelFormatID) *FormatDescriptor {
	if id < 0 || int(id) >= len(formatTable) {
		return nil
	}
	return formatTable[id]
}

// bytesForWidth returns the tightly-packed row size in bytes for width
// pixels at bitsPerPel; used by ImageBuffer to derive a minimum stride
// (spec.md §3: "stride >= width*bpp").
func bytesForWidth(bitsPerPel, width int) int {
	return (width*bitsPerPel + 7) / 8
}

func straightenRGBA8(_ []RGBA, src []byte) RGBA {
	return RGBA{R: src[0], G: src[1], B: src[2], A: src[3]}
}

func unstraightenRGBA8(_ []RGBA, dst []byte, c RGBA) {
	dst[0], dst[1], dst[2], dst[3] = c.R, c.G, c.B, c.A
}

func straightenRGB888(_ []RGBA, src []byte) RGBA {
	return RGBA{R: src[0], G: src[1], B: src[2], A: 255}
}

func unstraightenRGB888(_ []RGBA, dst []byte, c RGBA) {
	dst[0], dst[1], dst[2] = c.R, c.G, c.B
}

func straightenBGR888(_ []RGBA, src []byte) RGBA {
	return RGBA{R: src[2], G: src[1], B: src[0], A: 255}
}

func unstraightenBGR888(_ []RGBA, dst []byte, c RGBA) {
	dst[0], dst[1], dst[2] = c.B, c.G, c.R
}

// expand5to8 and expand6to8 zero-pad the low bits rather than replicate
// the top bits, so full-scale 565 white round-trips to 248/252/248, not
// 255/255/255.
func expand5to8(v uint8) uint8 { return v << 3 }
func expand6to8(v uint8) uint8 { return v << 2 }

func straighten565(bigEndian bool) func([]RGBA, []byte) RGBA {
	return func(_ []RGBA, src []byte) RGBA {
		var word uint16
		if bigEndian {
			word = uint16(src[0])<<8 | uint16(src[1])
		} else {
			word = uint16(src[0]) | uint16(src[1])<<8
		}
		r := uint8(word>>11) & 0x1f
		g := uint8(word>>5) & 0x3f
		b := uint8(word) & 0x1f
		return RGBA{R: expand5to8(r), G: expand6to8(g), B: expand5to8(b), A: 255}
	}
}

func unstraighten565(bigEndian bool) func([]RGBA, []byte, RGBA) {
	return func(_ []RGBA, dst []byte, c RGBA) {
		word := uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
		if bigEndian {
			dst[0], dst[1] = byte(word>>8), byte(word)
		} else {
			dst[0], dst[1] = byte(word), byte(word>>8)
		}
	}
}

func straightenRGB332(_ []RGBA, src []byte) RGBA {
	b := src[0]
	r := b >> 5
	g := (b >> 2) & 0x07
	bl := b & 0x03
	return RGBA{
		R: r<<5 | r<<2 | r>>1,
		G: g<<5 | g<<2 | g>>1,
		B: bl<<6 | bl<<4 | bl<<2 | bl,
		A: 255,
	}
}

func unstraightenRGB332(_ []RGBA, dst []byte, c RGBA) {
	dst[0] = (c.R & 0xe0) | (c.G>>3)&0x1c | (c.B >> 6)
}

func straightenAlpha8(_ []RGBA, src []byte) RGBA {
	return RGBA{A: src[0]}
}

func unstraightenAlpha8(_ []RGBA, dst []byte, c RGBA) {
	dst[0] = c.A
}

func straightenGrayscale8(_ []RGBA, src []byte) RGBA {
	return RGBA{R: src[0], G: src[0], B: src[0], A: 255}
}

func unstraightenGrayscale8(_ []RGBA, dst []byte, c RGBA) {
	// Rec.601 luma weights, matching GrayscaleNode in filters.go.
	dst[0] = uint8((299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000)
}

// ddaBytesPerPel builds a CopyRowDDA kernel for a fixed-size, non-paletted
// format by repeatedly invoking straighten at a stepped fixed-point
// column, matching spec.md §4.2's DDA row-copy description.
func ddaBytesPerPel(bpp int, straighten func([]RGBA, []byte) RGBA) func([]RGBA, []RGBA, []byte, int, Fixed, Fixed, int) {
	return func(pal []RGBA, dst []RGBA, src []byte, srcStride int, startX, step Fixed, count int) {
		x := startX
		for i := 0; i < count; i++ {
			col := x.Floor()
			off := col * bpp
			dst[i] = straighten(pal, src[off:off+bpp])
			x = addSatFixed(x, step)
		}
	}
}

// blendUnderRGBA8 composites src beneath dst in place, both RGBA8
// straight, using the standard straight-alpha "src under dst" formula
// from spec.md §4.4/scenario 5: out = (a_dst*dst + (255-a_dst)*... )
// Here dst already holds the accumulated top layers; src is the next
// (lower) layer being composited underneath, so it only contributes
// where dst's existing coverage is incomplete.
func blendUnderRGBA8(_ []RGBA, dst []byte, src []RGBA, count int) {
	for i := 0; i < count; i++ {
		off := i * 4
		d := RGBA{R: dst[off], G: dst[off+1], B: dst[off+2], A: dst[off+3]}
		s := src[i]
		out := blendSrcUnderDst(s, d)
		dst[off], dst[off+1], dst[off+2], dst[off+3] = out.R, out.G, out.B, out.A
	}
}

// blendSrcUnderDst composites src beneath dst (dst is "on top"): the
// visible result is dst's own coverage plus whatever of src shows
// through dst's transparency, i.e. standard source-over with the
// operands swapped relative to the usual "src over dst" formula.
func blendSrcUnderDst(src, dst RGBA) RGBA {
	da := int(dst.A)
	sa := int(src.A)
	outA := da + sa*(255-da)/255
	if outA == 0 {
		return RGBA{}
	}
	blend := func(dc, sc uint8) uint8 {
		num := int(dc)*da + int(sc)*sa*(255-da)/255
		return uint8(num / outA)
	}
	return RGBA{
		R: blend(dst.R, src.R),
		G: blend(dst.G, src.G),
		B: blend(dst.B, src.B),
		A: uint8(outA),
	}
}

// blendUnderAlpha8 treats dst as a pure coverage mask; underlying src
// shows through wherever dst's own alpha is incomplete.
func blendUnderAlpha8(_ []RGBA, dst []byte, src []RGBA, count int) {
	for i := 0; i < count; i++ {
		da := int(dst[i])
		sa := int(src[i].A)
		dst[i] = uint8(da + sa*(255-da)/255)
	}
}

// blendUnderOpaque handles blending beneath a format with no alpha
// channel of its own: the destination is always fully opaque, so src
// never shows through. Provided for format-table completeness (spec.md
// requires every format to have a BlendUnderStraight entry) but is a
// no-op beyond re-encoding dst's existing color, which is already there.
func blendUnderOpaque(bpp int, unstraighten func([]RGBA, []byte, RGBA)) func([]RGBA, []byte, []RGBA, int) {
	return func(_ []RGBA, dst []byte, _ []RGBA, count int) {
		_ = bpp
		_ = unstraighten
		// dst is opaque and already holds the correct pixels; nothing
		// underneath an opaque destination is ever visible.
	}
}
