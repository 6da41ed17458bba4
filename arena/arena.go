// Package arena implements bump allocation with whole-region reset.
//
// An Arena is an ordered list of blocks, each a plain byte slice with a bump
// offset. Allocating from it never returns memory to the runtime until the
// whole arena is reset or dropped; this is what lets Builder hand out nodes,
// data payloads, and interned strings without per-node bookkeeping.
package arena

import "tlog.app/go/errors"

// ErrNoHeapMemory is returned when a request cannot be satisfied. In
// practice that is an invalid request (negative size, or an alignment that
// is not a positive power of two); blocks grow to fit any valid size.
var ErrNoHeapMemory = errors.New("no heap memory")

const defaultBlockSize = 4096

// Arena is a bump allocator over a list of blocks.
//
// It is not safe for concurrent use; spec.md's concurrency model assigns one
// arena set exclusively to one Builder used from one goroutine.
type Arena struct {
	name      string
	blockSize int
	blocks    []*block
	cur       int // index of the block currently being bumped
}

type block struct {
	buf []byte
	off int
}

// New creates an arena that grows in blocks of at least blockSize bytes.
func New(name string, blockSize int) *Arena {
	if blockSize <= 0 {
		blockSize = defaultBlockSize
	}

	return &Arena{name: name, blockSize: blockSize}
}

// Name returns the arena's diagnostic name ("base", "data", "pass-scratch").
func (a *Arena) Name() string { return a.name }

// Alloc returns size bytes aligned to align (a power of two), zeroed.
//
// The returned slice aliases arena-owned storage; it remains valid until the
// arena is reset or dropped.
func (a *Arena) Alloc(size, align int) ([]byte, error) {
	if size < 0 || align <= 0 || align&(align-1) != 0 {
		return nil, errors.Wrap(ErrNoHeapMemory, "%s: invalid alloc request size=%d align=%d", a.name, size, align)
	}

	if len(a.blocks) > 0 {
		if b, ok := a.tryAlloc(a.blocks[a.cur], size, align); ok {
			return b, nil
		}

		// The current block is exhausted for this request; later blocks may
		// still be live (e.g. after a partial reset), so scan forward once
		// before giving up and growing.
		for i := a.cur + 1; i < len(a.blocks); i++ {
			if b, ok := a.tryAlloc(a.blocks[i], size, align); ok {
				a.cur = i
				return b, nil
			}
		}
	}

	need := size + align
	blockSize := a.blockSize
	if need > blockSize {
		blockSize = need
	}

	nb := &block{buf: make([]byte, blockSize)}
	a.blocks = append(a.blocks, nb)
	a.cur = len(a.blocks) - 1

	b, ok := a.tryAlloc(nb, size, align)
	if !ok {
		return nil, errors.Wrap(ErrNoHeapMemory, "%s: alloc %d bytes", a.name, size)
	}

	return b, nil
}

func (a *Arena) tryAlloc(b *block, size, align int) ([]byte, bool) {
	off := alignUp(b.off, align)
	if off+size > len(b.buf) {
		return nil, false
	}

	b.off = off + size

	out := b.buf[off : off+size : off+size]
	clear(out) // a block reused after Reset still holds its old bytes

	return out, true
}

func alignUp(off, align int) int {
	return (off + align - 1) &^ (align - 1)
}

// Dup copies data into the arena and returns the copy. If nulTerminate is
// true, one extra zero byte is appended after the copy (the returned slice's
// length does not include it, mirroring a NUL-terminated C string where only
// the string content is meaningful to Go callers).
func (a *Arena) Dup(data []byte, nulTerminate bool) ([]byte, error) {
	extra := 0
	if nulTerminate {
		extra = 1
	}

	buf, err := a.Alloc(len(data)+extra, 1)
	if err != nil {
		return nil, errors.Wrap(err, "%s: dup %d bytes", a.name, len(data))
	}

	copy(buf, data)

	return buf[:len(data):len(data)], nil
}

// DupString is a convenience wrapper around Dup for string payloads.
func (a *Arena) DupString(s string) (string, error) {
	buf, err := a.Dup([]byte(s), false)
	if err != nil {
		return "", err
	}

	return string(buf), nil
}

// Reset rewinds every block's bump pointer to zero. If freeBlocks is true,
// all but the first block are released back to the runtime; otherwise every
// block is kept for reuse on the next build (Alloc zeroes each range it hands
// out again).
func (a *Arena) Reset(freeBlocks bool) {
	if len(a.blocks) == 0 {
		return
	}

	if freeBlocks {
		a.blocks = a.blocks[:1]
	}

	for _, b := range a.blocks {
		b.off = 0
	}

	a.cur = 0
}

// Used returns the total number of bytes currently bumped across all blocks,
// for diagnostics only.
func (a *Arena) Used() int {
	n := 0
	for _, b := range a.blocks {
		n += b.off
	}

	return n
}
