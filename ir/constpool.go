package ir

import "github.com/ppaulweber/libasmjit/constpool"

// ConstPool extends Label with an owned constpool.Pool: it is bound like
// any other label, but its node type and flags mark it as data rather than
// no-effect code (spec.md §3).
type ConstPool struct {
	Label

	pool *constpool.Pool
}

// NewConstPool constructs a detached ConstPool node, retagging the embedded
// Label the way CBConstPool's constructor does: start as a label, then
// overwrite the type and flags in place.
func NewConstPool(baseFlags Flags) *ConstPool {
	n := &ConstPool{
		Label: *NewLabel(baseFlags),
		pool:  constpool.New(),
	}

	n.hdr.SetType(TypeConstPool)
	n.hdr.AddFlags(IsData)
	n.hdr.ClearFlags(IsCode | HasNoEffect)

	return n
}

// Pool returns the owned constant-pool value.
func (n *ConstPool) Pool() *constpool.Pool { return n.pool }

// IsEmpty reports whether the pool has no entries.
func (n *ConstPool) IsEmpty() bool { return n.pool.IsEmpty() }

// Size returns the pool's size in bytes.
func (n *ConstPool) Size() int { return n.pool.Size() }

// Alignment returns the pool's required alignment in bytes.
func (n *ConstPool) Alignment() int { return n.pool.Alignment() }

// Fill writes the pool's contents into dst.
func (n *ConstPool) Fill(dst []byte) { n.pool.Fill(dst) }
