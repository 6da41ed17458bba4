package builder

import (
	"tlog.app/go/errors"

	"github.com/ppaulweber/libasmjit/ir"
)

// NewConstPool allocates a detached ConstPool node and registers its label
// id with the code-holder, the same way NewLabel does (spec.md §4.2: a
// ConstPool is co-owned with the code-holder just like a Label). The
// caller fills the returned node's Pool and places it in the list with Add
// when ready; the serializer's ConstPool case then drives
// emitter.Contract.EmbedConstPool for whatever node ends up holding it.
//
// The label index stores n itself, not its embedded Label, so that a later
// Bind or EmbedLabel on this id looks up and splices back the ConstPool
// node with its concrete type intact.
func (b *Builder) NewConstPool() (*ir.ConstPool, error) {
	if b.err != nil {
		return nil, b.err
	}

	id, err := b.holder.NewLabelID()
	if err != nil {
		return nil, b.fail(errors.Wrap(err, "new const pool"))
	}

	n := b.constPoolSlab.New()
	*n = *ir.NewConstPool(b.nodeFlags)
	n.SetID(id)

	for uint32(len(b.labels)) <= id {
		b.labels = append(b.labels, nil)
	}

	b.labels[id] = n

	return n, nil
}

// NewSentinel allocates a detached Sentinel node. Unlike the id-bearing
// factories, this can't fail: the slab heap backing it is never exhausted
// the way a fixed arena block can be (spec.md §4.1's slab-over-arena
// layering is simplified here to a plain growable Go slice per node type).
func (b *Builder) NewSentinel() *ir.Sentinel {
	n := b.sentinelSlab.New()
	*n = *ir.NewSentinel(b.nodeFlags)

	return n
}
