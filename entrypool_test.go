package fleximg

import "testing"

func TestEntryPoolAcquireIsZeroed(t *testing.T) {
	p := NewEntryPool(DefaultAllocatorInstance())
	defer p.Close()

	h := p.Acquire(RGBA8Straight, 4, 1)
	row := h.Buffer().Row(0)
	for i, b := range row {
		if b != 0 {
			t.Fatalf("freshly acquired strip byte %d = %d, want 0", i, b)
		}
	}
}

func TestEntryPoolReusesReleasedEntry(t *testing.T) {
	p := NewEntryPool(DefaultAllocatorInstance())
	defer p.Close()

	h1 := p.Acquire(RGBA8Straight, 4, 1)
	buf1 := h1.Buffer()
	h1.Release()

	h2 := p.Acquire(RGBA8Straight, 4, 1)
	if h2.Buffer() != buf1 {
		t.Error("Acquire() after Release() allocated a new strip instead of reusing the freed one")
	}
}

func TestEntryPoolDistinctKeysGetDistinctEntries(t *testing.T) {
	p := NewEntryPool(DefaultAllocatorInstance())
	defer p.Close()

	h1 := p.Acquire(RGBA8Straight, 4, 1)
	h2 := p.Acquire(RGBA8Straight, 8, 1)
	if h1.Buffer() == h2.Buffer() {
		t.Error("Acquire() with different widths returned the same underlying strip")
	}
}

func TestAcquireRGBARowReuse(t *testing.T) {
	p := NewEntryPool(DefaultAllocatorInstance())
	defer p.Close()

	h1 := p.AcquireRGBARow(3)
	row := h1.View().Row(0)
	setRGBAAt(row, 0, RGBA{R: 99, A: 255})
	h1.Release()

	h2 := p.AcquireRGBARow(3)
	freshRow := h2.View().Row(0)
	if c := getRGBAAt(freshRow, 0); c.R != 0 {
		t.Errorf("reused rgba row was not cleared: got R=%d, want 0", c.R)
	}
}
