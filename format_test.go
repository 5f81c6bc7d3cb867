package fleximg

import "testing"

func TestRGB565LERoundTripAtQuantizationGrid(t *testing.T) {
	desc := FormatOf(RGB565LE)
	c := RGBA{R: 8, G: 4, B: 8, A: 255}
	buf := make([]byte, 2)
	desc.Unstraighten(nil, buf, c)
	got := desc.Straighten(nil, buf)
	want := RGBA{R: 8, G: 4, B: 8, A: 255}
	if got != want {
		t.Errorf("RGB565LE round trip of %+v = %+v, want %+v", c, got, want)
	}
}

func TestRGB565LEFullScaleWhiteRoundTrips(t *testing.T) {
	desc := FormatOf(RGB565LE)
	white := RGBA{R: 255, G: 255, B: 255, A: 255}
	buf := make([]byte, 2)
	desc.Unstraighten(nil, buf, white)
	got := desc.Straighten(nil, buf)
	want := RGBA{R: 248, G: 252, B: 248, A: 255}
	if got != want {
		t.Errorf("RGB565LE round trip of white = %+v, want %+v", got, want)
	}
}

func TestRGB565BigAndLittleEndianDiffer(t *testing.T) {
	le := FormatOf(RGB565LE)
	be := FormatOf(RGB565BE)
	c := RGBA{R: 248, G: 28, B: 8, A: 255}
	leBuf, beBuf := make([]byte, 2), make([]byte, 2)
	le.Unstraighten(nil, leBuf, c)
	be.Unstraighten(nil, beBuf, c)
	if leBuf[0] == beBuf[0] && leBuf[1] == beBuf[1] {
		t.Error("LE and BE 565 encodings produced identical byte order")
	}
	if beBuf[0] != leBuf[1] || beBuf[1] != leBuf[0] {
		t.Errorf("BE bytes %v are not the byte-swap of LE bytes %v", beBuf, leBuf)
	}
}

func TestIndex8PackedRoundTrip(t *testing.T) {
	pal := []RGBA{{A: 255}, {R: 255, A: 255}, {G: 255, A: 255}}
	desc := FormatOf(Index8)
	row := make([]byte, 3)
	for i, idx := range []int{2, 0, 1} {
		writePackedIndex(row, i, 8, idx)
		if row[i] != byte(idx) {
			t.Fatalf("writePackedIndex(8-bit) wrote %d, want %d", row[i], idx)
		}
	}
	got := desc.Straighten(pal, row[1:2])
	if got != pal[0] {
		t.Errorf("Index8 straighten at idx 0 = %+v, want %+v", got, pal[0])
	}
}

func TestIndex2PackedFourPerByte(t *testing.T) {
	row := make([]byte, 1)
	for i, idx := range []int{3, 0, 1, 2} {
		writePackedIndex(row, i, 2, idx)
	}
	for i, want := range []int{3, 0, 1, 2} {
		if got := readPackedIndex(row, i, 2); got != want {
			t.Errorf("readPackedIndex(pos=%d) = %d, want %d", i, got, want)
		}
	}
}

func TestIndex1PackedEightPerByte(t *testing.T) {
	row := make([]byte, 1)
	bits := []int{1, 0, 1, 1, 0, 0, 1, 0}
	for i, b := range bits {
		writePackedIndex(row, i, 1, b)
	}
	for i, want := range bits {
		if got := readPackedIndex(row, i, 1); got != want {
			t.Errorf("readPackedIndex(pos=%d) = %d, want %d", i, got, want)
		}
	}
}

func TestNearestPaletteIndexPicksClosest(t *testing.T) {
	pal := []RGBA{{R: 0, A: 255}, {R: 100, A: 255}, {R: 255, A: 255}}
	idx := nearestPaletteIndex(pal, RGBA{R: 90, A: 255})
	if idx != 1 {
		t.Errorf("nearestPaletteIndex(90) = %d, want 1", idx)
	}
}

func TestBlendSrcUnderDstFullyOpaqueDstWins(t *testing.T) {
	dst := RGBA{R: 10, G: 20, B: 30, A: 255}
	src := RGBA{R: 200, G: 200, B: 200, A: 255}
	got := blendSrcUnderDst(src, dst)
	if got != dst {
		t.Errorf("blendSrcUnderDst with fully opaque dst = %+v, want dst unchanged %+v", got, dst)
	}
}

func TestBlendSrcUnderDstFullyTransparentDstShowsSrc(t *testing.T) {
	dst := RGBA{}
	src := RGBA{R: 10, G: 20, B: 30, A: 200}
	got := blendSrcUnderDst(src, dst)
	if got != src {
		t.Errorf("blendSrcUnderDst with fully transparent dst = %+v, want src %+v", got, src)
	}
}
