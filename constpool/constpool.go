// Package constpool implements the constant-pool value embedded in a
// ConstPool node (ir.ConstPool). spec.md §3 leaves this type unspecified
// ("external type, not specified here"); it still needs a concrete
// implementation to drive embed_const_pool and the ConstPool node's
// size/alignment/fill queries, so it lives here as its own small package
// rather than inline in ir, mirroring how the teacher keeps orthogonal
// concerns (set.Bitmap, back.slices) in their own files.
package constpool

// Pool accumulates deduplicated byte-pattern entries keyed by their content
// and size, tracking the offset each entry lands at and the alignment the
// whole pool requires.
type Pool struct {
	entries   []entry
	index     map[string]int
	size      int
	alignment int
}

type entry struct {
	data   []byte
	offset int
}

// New returns an empty pool.
func New() *Pool {
	return &Pool{alignment: 1, index: map[string]int{}}
}

// Add inserts data, deduplicating by exact (bytes, size) match, and returns
// the offset the entry occupies within the pool.
func (p *Pool) Add(data []byte) int {
	key := string(data)

	if off, ok := p.index[key]; ok {
		return off
	}

	align := alignFor(len(data))

	p.size = alignUp(p.size, align)
	off := p.size

	cp := make([]byte, len(data))
	copy(cp, data)

	p.entries = append(p.entries, entry{data: cp, offset: off})
	p.index[key] = off
	p.size += len(data)

	if align > p.alignment {
		p.alignment = align
	}

	return off
}

// IsEmpty reports whether the pool has no entries.
func (p *Pool) IsEmpty() bool { return len(p.entries) == 0 }

// Size returns the total size in bytes the pool occupies once filled.
func (p *Pool) Size() int { return p.size }

// Alignment returns the minimum alignment (in bytes) the pool requires.
func (p *Pool) Alignment() int { return p.alignment }

// Fill writes the pool's contents into dst, which must be at least Size()
// bytes long.
func (p *Pool) Fill(dst []byte) {
	for _, e := range p.entries {
		copy(dst[e.offset:e.offset+len(e.data)], e.data)
	}
}

// alignFor picks the natural alignment for an entry of the given size: the
// largest power of two that divides evenly into common entry sizes, capped
// at 16 bytes (enough for SSE/AVX constant operands).
func alignFor(size int) int {
	switch {
	case size >= 16:
		return 16
	case size >= 8:
		return 8
	case size >= 4:
		return 4
	case size >= 2:
		return 2
	default:
		return 1
	}
}

func alignUp(off, align int) int {
	return (off + align - 1) &^ (align - 1)
}
