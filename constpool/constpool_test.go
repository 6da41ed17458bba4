package constpool

import "testing"

func TestAddDeduplicates(t *testing.T) {
	p := New()

	off1 := p.Add([]byte{1, 2, 3, 4})
	off2 := p.Add([]byte{1, 2, 3, 4})

	if off1 != off2 {
		t.Fatalf("expected dedup, got offsets %d and %d", off1, off2)
	}

	if p.Size() != 4 {
		t.Fatalf("expected size 4, got %d", p.Size())
	}
}

func TestFillRoundTrips(t *testing.T) {
	p := New()

	off1 := p.Add([]byte{0xAA, 0xBB})
	off2 := p.Add([]byte{1, 2, 3, 4, 5, 6, 7, 8})

	dst := make([]byte, p.Size())
	p.Fill(dst)

	if dst[off1] != 0xAA || dst[off1+1] != 0xBB {
		t.Fatalf("first entry corrupted: %v", dst)
	}

	for i, want := range []byte{1, 2, 3, 4, 5, 6, 7, 8} {
		if dst[off2+i] != want {
			t.Fatalf("second entry corrupted at %d: %v", i, dst)
		}
	}
}

func TestAlignmentTracksLargestEntry(t *testing.T) {
	p := New()

	p.Add([]byte{1})
	if p.Alignment() != 1 {
		t.Fatalf("expected alignment 1, got %d", p.Alignment())
	}

	p.Add(make([]byte, 16))
	if p.Alignment() != 16 {
		t.Fatalf("expected alignment 16, got %d", p.Alignment())
	}
}
