// Package builder implements the deferred-emission IR builder of spec.md
// §2–§5: a node list backed by per-variant slabs plus a data arena and a
// pass-scratch arena, cursor-disciplined insertion, a pass pipeline, and a
// serializer that replays the list onto any emitter.Contract.
package builder

import (
	"tlog.app/go/errors"

	"github.com/ppaulweber/libasmjit/arena"
	"github.com/ppaulweber/libasmjit/codeholder"
	"github.com/ppaulweber/libasmjit/ir"
	"github.com/ppaulweber/libasmjit/operand"
)

const (
	nodeBlockLen    = 128
	dataBlockBytes  = 4096
	scratchBlockLen = 4096
)

// Builder accumulates a deferred instruction sequence against one
// code-holder. It is not safe for concurrent use (spec.md §5).
type Builder struct {
	holder codeholder.CodeHolder

	// dataArena backs Embed's external payloads and Comment's interned
	// strings. scratchArena is reset before and after every pass Run. The
	// base arena spec.md §4.1 describes for plain node allocation is played
	// here by the per-variant slabs below instead: every node variant has a
	// fixed Go size, so there is no undifferentiated byte arena to share
	// between them.
	dataArena    *arena.Arena
	scratchArena *arena.Arena

	instSlab      *arena.Slab[ir.Inst]
	dataSlab      *arena.Slab[ir.Data]
	alignSlab     *arena.Slab[ir.Align]
	labelSlab     *arena.Slab[ir.Label]
	labelDataSlab *arena.Slab[ir.LabelData]
	constPoolSlab *arena.Slab[ir.ConstPool]
	commentSlab   *arena.Slab[ir.Comment]
	sentinelSlab  *arena.Slab[ir.Sentinel]

	firstNode, lastNode, cursor ir.Node

	// labels is a sparse index: labels[id] is the (possibly still detached)
	// node owning that id, once one has been requested — a plain *ir.Label
	// for NewLabel/NewNamedLabel, or a *ir.ConstPool for NewConstPool (which
	// co-owns a label id the same way). It is typed as idNode rather than
	// *ir.Label so Bind/EmbedLabel splice back the node's true concrete
	// type instead of an aliased *ir.Label view of a ConstPool's embedded
	// Label — the latter would let the serializer's type switch mistake a
	// bound const pool for a plain label and silently drop its payload.
	labels []idNode

	passes []Pass

	// nodeFlags is ORed into every node's default flags at construction.
	// Nothing in this package sets it and it has no exported setter, so it
	// stays zero.
	nodeFlags ir.Flags

	err error // sticky latch, spec.md §4.3/§7

	validator Validator

	pendingOptions    uint32
	pendingOp4        operand.Operand
	pendingOp5        operand.Operand
	pendingOpExtra    operand.Operand
	pendingComment    string
	hasPendingComment bool
}

// New constructs a Builder attached to holder.
func New(holder codeholder.CodeHolder) *Builder {
	b := &Builder{holder: holder}
	b.initArenas()
	return b
}

func (b *Builder) initArenas() {
	b.dataArena = arena.New("data", dataBlockBytes)
	b.scratchArena = arena.New("pass-scratch", scratchBlockLen)

	b.instSlab = arena.NewSlab[ir.Inst](nodeBlockLen)
	b.dataSlab = arena.NewSlab[ir.Data](nodeBlockLen)
	b.alignSlab = arena.NewSlab[ir.Align](nodeBlockLen)
	b.labelSlab = arena.NewSlab[ir.Label](nodeBlockLen)
	b.labelDataSlab = arena.NewSlab[ir.LabelData](nodeBlockLen)
	b.constPoolSlab = arena.NewSlab[ir.ConstPool](nodeBlockLen)
	b.commentSlab = arena.NewSlab[ir.Comment](nodeBlockLen)
	b.sentinelSlab = arena.NewSlab[ir.Sentinel](nodeBlockLen)
}

// Attach rebinds the builder to a fresh code-holder and resets all state,
// including the error latch (spec.md §5's "rebinding... resets all state").
func (b *Builder) Attach(holder codeholder.CodeHolder) {
	b.holder = holder
	b.Reset()
}

// Reset discards every node, the registered passes, and the error latch, and
// rewinds every arena and slab, keeping only its first block. Calling it
// twice in a row is equivalent to calling it once (spec.md §8).
func (b *Builder) Reset() {
	b.firstNode, b.lastNode, b.cursor = nil, nil, nil
	b.labels = nil
	b.passes = nil
	b.err = nil
	b.resetTransient()

	b.dataArena.Reset(true)
	b.scratchArena.Reset(true)

	b.instSlab.Reset(true)
	b.dataSlab.Reset(true)
	b.alignSlab.Reset(true)
	b.labelSlab.Reset(true)
	b.labelDataSlab.Reset(true)
	b.constPoolSlab.Reset(true)
	b.commentSlab.Reset(true)
	b.sentinelSlab.Reset(true)
}

func (b *Builder) resetTransient() {
	b.pendingOptions = 0
	b.pendingOp4 = operand.None()
	b.pendingOp5 = operand.None()
	b.pendingOpExtra = operand.None()
	b.pendingComment = ""
	b.hasPendingComment = false
}

// Err returns the builder's latched error, if any.
func (b *Builder) Err() error { return b.err }

func (b *Builder) fail(err error) error {
	if b.err == nil {
		b.err = err
	}

	return b.err
}

// FirstNode returns the head of the list, or nil if empty.
func (b *Builder) FirstNode() ir.Node { return b.firstNode }

// LastNode returns the tail of the list, or nil if empty.
func (b *Builder) LastNode() ir.Node { return b.lastNode }

// Cursor returns the current insertion cursor.
func (b *Builder) Cursor() ir.Node { return b.cursor }

// SetCursor moves the cursor to n (which may be nil) and returns the
// previous cursor (spec.md §4.4).
func (b *Builder) SetCursor(n ir.Node) ir.Node {
	prev := b.cursor
	b.cursor = n

	return prev
}

// Add links n at the cursor following spec.md §4.4's add() discipline, and
// advances the cursor to n. n must be detached.
func (b *Builder) Add(n ir.Node) {
	h := n.Header()

	switch {
	case b.cursor == nil && b.firstNode == nil:
		b.firstNode, b.lastNode = n, n
	case b.cursor == nil:
		h.SetNext(b.firstNode)
		b.firstNode.Header().SetPrev(n)
		b.firstNode = n
	default:
		cur := b.cursor
		next := cur.Header().Next()

		h.SetPrev(cur)
		h.SetNext(next)
		cur.Header().SetNext(n)

		if next != nil {
			next.Header().SetPrev(n)
		} else {
			b.lastNode = n
		}
	}

	b.cursor = n
}

// AddAfter links n immediately after ref without moving the cursor.
func (b *Builder) AddAfter(n, ref ir.Node) {
	h, rh := n.Header(), ref.Header()

	next := rh.Next()

	h.SetPrev(ref)
	h.SetNext(next)
	rh.SetNext(n)

	if next != nil {
		next.Header().SetPrev(n)
	} else {
		b.lastNode = n
	}
}

// AddBefore links n immediately before ref without moving the cursor.
func (b *Builder) AddBefore(n, ref ir.Node) {
	h, rh := n.Header(), ref.Header()

	prev := rh.Prev()

	h.SetNext(ref)
	h.SetPrev(prev)
	rh.SetPrev(n)

	if prev != nil {
		prev.Header().SetNext(n)
	} else {
		b.firstNode = n
	}
}

// Remove unlinks n. If the cursor pointed at n, it retreats to n's former
// predecessor (spec.md §4.4, §8).
func (b *Builder) Remove(n ir.Node) {
	h := n.Header()
	prev, next := h.Prev(), h.Next()

	if prev != nil {
		prev.Header().SetNext(next)
	} else {
		b.firstNode = next
	}

	if next != nil {
		next.Header().SetPrev(prev)
	} else {
		b.lastNode = prev
	}

	if b.cursor == n {
		b.cursor = prev
	}

	h.SetPrev(nil)
	h.SetNext(nil)
}

// RemoveRange unlinks the contiguous run [first, last] in O(1), then clears
// the internal links of every node in the run in O(k). The cursor retreats
// to the run's predecessor if it lay within the range.
func (b *Builder) RemoveRange(first, last ir.Node) {
	fh, lh := first.Header(), last.Header()

	prev, next := fh.Prev(), lh.Next()

	if prev != nil {
		prev.Header().SetNext(next)
	} else {
		b.firstNode = next
	}

	if next != nil {
		next.Header().SetPrev(prev)
	} else {
		b.lastNode = prev
	}

	cursorInRange := false

	for n := first; ; {
		h := n.Header()
		if n == b.cursor {
			cursorInRange = true
		}

		atLast := n == last
		nextInRange := h.Next()

		h.SetPrev(nil)
		h.SetNext(nil)

		if atLast {
			break
		}

		n = nextInRange
	}

	if cursorInRange {
		b.cursor = prev
	}
}

// idNode is satisfied by any node type the label index can hold: a plain
// Label, or a ConstPool (which embeds one and promotes both methods). Bind
// and EmbedLabel go through this instead of *ir.Label so a ConstPool id
// keeps its concrete type when it is looked back up and spliced into the
// list.
type idNode interface {
	ir.Node
	ID() uint32
}

// registerLabelNode returns the Label node for id, lazily creating a
// detached one if this is the first time id has been seen. It does not
// touch the error latch (spec.md §7: factories never set the latch).
func (b *Builder) registerLabelNode(id uint32) *ir.Label {
	for uint32(len(b.labels)) <= id {
		b.labels = append(b.labels, nil)
	}

	if b.labels[id] == nil {
		n := b.labelSlab.New()
		*n = *ir.NewLabel(b.nodeFlags)
		n.SetID(id)
		b.labels[id] = n
	}

	ln, _ := b.labels[id].(*ir.Label)

	return ln
}

func (b *Builder) labelNode(op operand.Operand) (idNode, error) {
	if op.Kind != operand.KindLabel {
		return nil, errors.Wrap(ErrInvalidLabel, "operand is not a label")
	}

	id := op.Label
	if id >= uint32(len(b.labels)) || b.labels[id] == nil {
		return nil, errors.Wrap(ErrInvalidLabel, "unregistered label id %d", id)
	}

	return b.labels[id], nil
}

// PassByName linearly scans the registered passes for one named name
// (spec.md §4.5).
func (b *Builder) PassByName(name string) Pass {
	for _, p := range b.passes {
		if p.Name() == name {
			return p
		}
	}

	return nil
}
