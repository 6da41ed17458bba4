package arena

import "testing"

func TestAllocBumps(t *testing.T) {
	a := New("test", 64)

	b0, err := a.Alloc(8, 1)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}

	b1, err := a.Alloc(8, 1)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}

	if &b0[0] == &b1[0] {
		t.Fatalf("expected distinct allocations")
	}
}

func TestAllocGrowsNewBlock(t *testing.T) {
	a := New("test", 16)

	for i := 0; i < 10; i++ {
		if _, err := a.Alloc(8, 1); err != nil {
			t.Fatalf("alloc %d: %v", i, err)
		}
	}

	if len(a.blocks) < 2 {
		t.Fatalf("expected more than one block, got %d", len(a.blocks))
	}
}

func TestDupNulTerminate(t *testing.T) {
	a := New("test", 64)

	buf, err := a.Dup([]byte("hi"), true)
	if err != nil {
		t.Fatalf("dup: %v", err)
	}

	if string(buf) != "hi" {
		t.Fatalf("got %q", buf)
	}
}

func TestResetRewindsOffsets(t *testing.T) {
	a := New("test", 64)

	if _, err := a.Alloc(32, 1); err != nil {
		t.Fatalf("alloc: %v", err)
	}

	if a.Used() == 0 {
		t.Fatalf("expected nonzero use")
	}

	a.Reset(false)

	if a.Used() != 0 {
		t.Fatalf("expected zero use after reset, got %d", a.Used())
	}

	if len(a.blocks) != 1 {
		t.Fatalf("expected block retained without freeBlocks, got %d", len(a.blocks))
	}
}

func TestResetIdempotent(t *testing.T) {
	a := New("test", 64)

	if _, err := a.Alloc(8, 1); err != nil {
		t.Fatalf("alloc: %v", err)
	}

	a.Reset(true)
	used1, blocks1 := a.Used(), len(a.blocks)

	a.Reset(true)
	used2, blocks2 := a.Used(), len(a.blocks)

	if used1 != used2 || blocks1 != blocks2 {
		t.Fatalf("reset not idempotent: (%d,%d) vs (%d,%d)", used1, blocks1, used2, blocks2)
	}
}

func TestAlignment(t *testing.T) {
	a := New("test", 128)

	if _, err := a.Alloc(1, 1); err != nil {
		t.Fatalf("alloc: %v", err)
	}

	buf, err := a.Alloc(8, 8)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}

	off := a.blocks[0].off - 8
	if off%8 != 0 {
		t.Fatalf("expected 8-byte aligned offset, got %d", off)
	}

	_ = buf
}
