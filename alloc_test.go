package fleximg

import "testing"

func TestDefaultAllocatorAllocateReturnsRequestedLength(t *testing.T) {
	a := DefaultAllocatorInstance()
	buf := a.Allocate(16, 4)
	if len(buf) != 16 {
		t.Errorf("Allocate(16) returned len %d, want 16", len(buf))
	}
	a.Deallocate(buf)
}

func TestDefaultAllocatorTrapPanics(t *testing.T) {
	SetDefaultAllocatorTrap(true)
	defer SetDefaultAllocatorTrap(false)

	defer func() {
		if r := recover(); r == nil {
			t.Error("Allocate() under trap did not panic")
		}
	}()
	DefaultAllocatorInstance().Allocate(8, 4)
}

func TestPoolAllocatorSatisfiesFromBlocks(t *testing.T) {
	p := NewPoolAllocator(nil, 64, 2)
	b1 := p.Allocate(32, 4)
	b2 := p.Allocate(32, 4)
	stats := p.Stats()
	if stats.PoolHits != 2 {
		t.Errorf("PoolHits = %d, want 2", stats.PoolHits)
	}
	p.Deallocate(b1)
	p.Deallocate(b2)
	if stats := p.Stats(); stats.PoolDeallocs != 2 {
		t.Errorf("PoolDeallocs = %d, want 2", stats.PoolDeallocs)
	}
}

func TestPoolAllocatorOverflowsToBacking(t *testing.T) {
	p := NewPoolAllocator(nil, 16, 1)
	p.Allocate(16, 4) // exhausts the single block
	overflow := p.Allocate(16, 4)
	stats := p.Stats()
	if stats.DefaultHits != 1 {
		t.Errorf("DefaultHits = %d, want 1 (pool exhausted)", stats.DefaultHits)
	}
	p.Deallocate(overflow)
}

func TestBufferHandleReleaseIsIdempotent(t *testing.T) {
	h := AcquireBuffer(DefaultAllocatorInstance(), 8, 4)
	h.Release()
	h.Release()
	if h.Bytes() != nil {
		t.Error("Bytes() after Release() is non-nil")
	}
}
