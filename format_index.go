package fleximg

// Paletted Index1/2/4/8 formats share dispatch via a shift/mask table
// keyed by bits-per-pixel, per spec.md §3 ("packed variants share
// dispatch via a shift/mask table"). Round-trip is exact only for
// colors already in the palette; Unstraighten falls back to nearest-
// neighbor palette search (spec.md §9, "Palette formats").

// straightenAt decodes the pixel at row-relative index x, regardless of
// whether desc packs multiple pixels per byte. Random-access call sites
// (ImageBuffer.PixelAt, ViewPort.PixelAt, SourceNode's samplers) go
// through this instead of desc.Straighten directly, since Straighten's
// own (pal, src) signature assumes src already starts at pixel x for
// byte-aligned formats — a convention packed sub-byte formats can't
// express without also passing x.
func straightenAt(desc *FormatDescriptor, pal []RGBA, row []byte, x int) RGBA {
	if desc.Paletted {
		idx := readPackedIndex(row, x, desc.BitsPerPel)
		return paletteLookup(pal, idx)
	}
	bpp := desc.BitsPerPel / 8
	return desc.Straighten(pal, row[x*bpp:])
}

func registerIndexFormats() {
	formatTable[Index1] = newIndexDescriptor(Index1, "Index1", 1)
	formatTable[Index2] = newIndexDescriptor(Index2, "Index2", 2)
	formatTable[Index4] = newIndexDescriptor(Index4, "Index4", 4)
	formatTable[Index8] = newIndexDescriptor(Index8, "Index8", 8)
}

func newIndexDescriptor(id PixelFormatID, name string, bits int) *FormatDescriptor {
	straighten := func(pal []RGBA, src []byte) RGBA {
		idx := readPackedIndex(src, 0, bits)
		return paletteLookup(pal, idx)
	}
	unstraighten := func(pal []RGBA, dst []byte, c RGBA) {
		idx := nearestPaletteIndex(pal, c)
		writePackedIndex(dst, 0, bits, idx)
	}
	return &FormatDescriptor{
		ID: id, Name: name, BitsPerPel: bits, HasAlpha: false, Paletted: true,
		Straighten:   straighten,
		Unstraighten: unstraighten,
		CopyRowDDA: func(pal []RGBA, dst []RGBA, src []byte, srcStride int, startX, step Fixed, count int) {
			x := startX
			for i := 0; i < count; i++ {
				col := x.Floor()
				idx := readPackedIndex(src, col, bits)
				dst[i] = paletteLookup(pal, idx)
				x = addSatFixed(x, step)
			}
		},
		BlendUnderStraight: func(pal []RGBA, dst []byte, src []RGBA, count int) {
			for i := 0; i < count; i++ {
				d := paletteLookup(pal, readPackedIndex(dst, i, bits))
				out := blendSrcUnderDst(src[i], d)
				writePackedIndex(dst, i, bits, nearestPaletteIndex(pal, out))
			}
		},
	}
}

// readPackedIndex reads the bits-wide index at pixel position pos
// (0-based, MSB-first within its byte, per spec.md §6).
func readPackedIndex(row []byte, pos, bits int) int {
	if bits == 8 {
		return int(row[pos])
	}
	perByte := 8 / bits
	byteIdx := pos / perByte
	slot := pos % perByte
	shift := uint((perByte - 1 - slot) * bits)
	mask := byte(1<<uint(bits) - 1)
	return int((row[byteIdx] >> shift) & mask)
}

func writePackedIndex(row []byte, pos, bits, idx int) {
	if bits == 8 {
		row[pos] = byte(idx)
		return
	}
	perByte := 8 / bits
	byteIdx := pos / perByte
	slot := pos % perByte
	shift := uint((perByte - 1 - slot) * bits)
	mask := byte(1<<uint(bits)-1) << shift
	row[byteIdx] = row[byteIdx]&^mask | byte(idx)<<shift&mask
}

func paletteLookup(pal []RGBA, idx int) RGBA {
	if idx < 0 || idx >= len(pal) {
		return RGBA{}
	}
	return pal[idx]
}

// nearestPaletteIndex does an O(n) nearest-color search in Euclidean
// RGB distance — palettes are at most 256 entries and this only runs on
// Unstraighten (writing into an index format), never on the per-pixel
// read path.
func nearestPaletteIndex(pal []RGBA, c RGBA) int {
	best, bestDist := 0, -1
	for i, p := range pal {
		dr := int(p.R) - int(c.R)
		dg := int(p.G) - int(c.G)
		db := int(p.B) - int(c.B)
		dist := dr*dr + dg*dg + db*db
		if bestDist == -1 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}
