package builder

import (
	"testing"

	"github.com/ppaulweber/libasmjit/arena"
	"github.com/ppaulweber/libasmjit/codeholder"
	"github.com/ppaulweber/libasmjit/constpool"
	"github.com/ppaulweber/libasmjit/emitter"
	"github.com/ppaulweber/libasmjit/ir"
	"github.com/ppaulweber/libasmjit/operand"
)

func newTestBuilder() *Builder {
	return New(codeholder.NewSimple())
}

func TestAddOnEmptyListSetsAllThree(t *testing.T) {
	b := newTestBuilder()

	n := ir.NewSentinel(0)
	b.Add(n)

	if b.FirstNode() != ir.Node(n) || b.LastNode() != ir.Node(n) || b.Cursor() != ir.Node(n) {
		t.Fatalf("expected first == last == cursor == n after Add on empty list")
	}
}

func TestAddInsertsAtCursorAndAdvances(t *testing.T) {
	b := newTestBuilder()

	n1 := ir.NewSentinel(0)
	n2 := ir.NewSentinel(0)
	n3 := ir.NewSentinel(0)

	b.Add(n1)
	b.Add(n2)
	b.SetCursor(n1)
	b.Add(n3)

	if b.Cursor() != ir.Node(n3) {
		t.Fatalf("expected cursor to advance to n3")
	}

	if n1.Header().Next() != ir.Node(n3) || n3.Header().Next() != ir.Node(n2) {
		t.Fatalf("expected order n1, n3, n2; got n1.next=%v n3.next=%v", n1.Header().Next(), n3.Header().Next())
	}

	if n3.Header().Prev() != ir.Node(n1) || n2.Header().Prev() != ir.Node(n3) {
		t.Fatalf("expected back-links n3.prev=n1, n2.prev=n3")
	}

	if b.LastNode() != ir.Node(n2) {
		t.Fatalf("expected last to remain n2")
	}
}

func TestAddPrependsWhenCursorNilNonEmptyList(t *testing.T) {
	b := newTestBuilder()

	n1 := ir.NewSentinel(0)
	n2 := ir.NewSentinel(0)

	b.Add(n1)
	b.SetCursor(nil)
	b.Add(n2)

	if b.FirstNode() != ir.Node(n2) {
		t.Fatalf("expected n2 prepended as first")
	}

	if n2.Header().Next() != ir.Node(n1) || n1.Header().Prev() != ir.Node(n2) {
		t.Fatalf("expected n2 linked before n1")
	}
}

func TestRemoveDetachesAndRetreatsCursor(t *testing.T) {
	b := newTestBuilder()

	n1 := ir.NewSentinel(0)
	n2 := ir.NewSentinel(0)
	n3 := ir.NewSentinel(0)

	b.Add(n1)
	b.Add(n2)
	b.Add(n3)

	b.Remove(n3)

	if b.Cursor() != ir.Node(n2) {
		t.Fatalf("expected cursor to retreat to n2")
	}

	if !ir.Detached(n3) {
		t.Fatalf("expected n3 detached after Remove")
	}

	if b.LastNode() != ir.Node(n2) {
		t.Fatalf("expected last to retreat to n2")
	}
}

func TestRemoveMiddlePreservesListIntegrity(t *testing.T) {
	b := newTestBuilder()

	n1 := ir.NewSentinel(0)
	n2 := ir.NewSentinel(0)
	n3 := ir.NewSentinel(0)

	b.Add(n1)
	b.Add(n2)
	b.Add(n3)

	b.Remove(n2)

	if n1.Header().Next() != ir.Node(n3) || n3.Header().Prev() != ir.Node(n1) {
		t.Fatalf("expected n1 <-> n3 after removing n2")
	}

	if !ir.Detached(n2) {
		t.Fatalf("expected n2 detached")
	}
}

func TestRemoveRangeUnlinksContiguousRun(t *testing.T) {
	b := newTestBuilder()

	nodes := make([]*ir.Sentinel, 5)
	for i := range nodes {
		nodes[i] = ir.NewSentinel(0)
		b.Add(nodes[i])
	}

	b.SetCursor(nodes[2])
	b.RemoveRange(nodes[1], nodes[3])

	if b.Cursor() != ir.Node(nodes[0]) {
		t.Fatalf("expected cursor to retreat to nodes[0], got %v", b.Cursor())
	}

	if nodes[0].Header().Next() != ir.Node(nodes[4]) || nodes[4].Header().Prev() != ir.Node(nodes[0]) {
		t.Fatalf("expected nodes[0] <-> nodes[4] after range removal")
	}

	for _, n := range nodes[1:4] {
		if !ir.Detached(n) {
			t.Fatalf("expected removed-range node detached")
		}
	}
}

func TestLabelMapConsistency(t *testing.T) {
	b := newTestBuilder()

	op1, err := b.NewLabel()
	if err != nil {
		t.Fatalf("NewLabel: %v", err)
	}

	op2, err := b.NewLabel()
	if err != nil {
		t.Fatalf("NewLabel: %v", err)
	}

	if op1.Label == op2.Label {
		t.Fatalf("expected distinct label ids")
	}

	n, err := b.labelNode(op2)
	if err != nil {
		t.Fatalf("labelNode: %v", err)
	}

	if n.ID() != op2.Label {
		t.Fatalf("expected labels[%d].id == %d, got %d", op2.Label, op2.Label, n.ID())
	}

	if err := b.Bind(op2); err != nil {
		t.Fatalf("Bind: %v", err)
	}

	if b.LastNode() != ir.Node(n) {
		t.Fatalf("expected bound label node appended to the list")
	}
}

func TestErrorLatchMonotonicity(t *testing.T) {
	b := newTestBuilder()

	// Force an error: bind an unregistered label operand.
	if err := b.Bind(operand.LabelOp(99)); err == nil {
		t.Fatalf("expected error binding unregistered label")
	}

	before := len(nodesOf(b))

	if err := b.Emit(1, operand.None(), operand.None(), operand.None(), operand.None()); err == nil {
		t.Fatalf("expected latched error from subsequent Emit")
	}

	after := len(nodesOf(b))

	if before != after {
		t.Fatalf("expected no node appended once latched: before=%d after=%d", before, after)
	}
}

func nodesOf(b *Builder) []ir.Node {
	var out []ir.Node
	for n := b.FirstNode(); n != nil; n = n.Header().Next() {
		out = append(out, n)
	}
	return out
}

func TestInstOperandCountTrailingNoneBoundary(t *testing.T) {
	b := newTestBuilder()

	if err := b.Emit(1, operand.RegOp(operand.RegTypeGP, 0), operand.RegOp(operand.RegTypeGP, 1), operand.None(), operand.None()); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	inst, ok := b.LastNode().(*ir.Inst)
	if !ok {
		t.Fatalf("expected last node to be *ir.Inst")
	}

	if inst.OpCount() != 2 {
		t.Fatalf("expected opcount 2 for k=1 trailing-None pattern, got %d", inst.OpCount())
	}
}

func TestEmbedInlineExternalBoundary(t *testing.T) {
	b := newTestBuilder()

	inline := make([]byte, ir.InlineBufferSize)
	if err := b.Embed(inline); err != nil {
		t.Fatalf("Embed inline: %v", err)
	}

	d, ok := b.LastNode().(*ir.Data)
	if !ok || d.Size() != ir.InlineBufferSize {
		t.Fatalf("expected inline Data node of size %d", ir.InlineBufferSize)
	}

	external := make([]byte, ir.InlineBufferSize+1)
	if err := b.Embed(external); err != nil {
		t.Fatalf("Embed external: %v", err)
	}

	d2, ok := b.LastNode().(*ir.Data)
	if !ok || d2.Size() != ir.InlineBufferSize+1 {
		t.Fatalf("expected external Data node of size %d", ir.InlineBufferSize+1)
	}
}

func TestResetIsIdempotent(t *testing.T) {
	b := newTestBuilder()

	_, _ = b.NewLabel()
	_ = b.Emit(1, operand.None(), operand.None(), operand.None(), operand.None())

	b.Reset()
	snapshot := nodesOf(b)

	b.Reset()

	if len(nodesOf(b)) != len(snapshot) {
		t.Fatalf("expected reset to be idempotent")
	}

	if b.FirstNode() != nil || b.LastNode() != nil || b.Cursor() != nil {
		t.Fatalf("expected empty list after reset")
	}
}

func TestConstPoolNodeDirectlyAddedKeepsConcreteType(t *testing.T) {
	b := newTestBuilder()

	cp, err := b.NewConstPool()
	if err != nil {
		t.Fatalf("NewConstPool: %v", err)
	}

	cp.Pool().Add([]byte{1, 2, 3, 4})
	b.Add(cp)

	if b.LastNode() != ir.Node(cp) {
		t.Fatalf("expected const pool node appended to the list")
	}

	n, err := b.labelNode(operand.LabelOp(cp.ID()))
	if err != nil {
		t.Fatalf("labelNode: %v", err)
	}

	if got, ok := n.(*ir.ConstPool); !ok || got != cp {
		t.Fatalf("expected labelNode to return the const pool itself with its concrete type intact, got %T", n)
	}
}

// Regression: Bind on a ConstPool's own id must re-link the ConstPool node
// itself, not an aliased *ir.Label view of its embedded Label header — the
// latter would make the serializer's type switch drop the pool payload.
func TestBindOnConstPoolIDReattachesConstPoolType(t *testing.T) {
	b := newTestBuilder()

	cp, err := b.NewConstPool()
	if err != nil {
		t.Fatalf("NewConstPool: %v", err)
	}

	cp.Pool().Add([]byte{0xAA, 0xBB})

	if err := b.Bind(operand.LabelOp(cp.ID())); err != nil {
		t.Fatalf("Bind: %v", err)
	}

	if _, ok := b.LastNode().(*ir.ConstPool); !ok {
		t.Fatalf("expected Bind on a const pool id to append a *ir.ConstPool, got %T", b.LastNode())
	}

	dst := emitter.NewMock()
	if err := Serialize(b, dst); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	assertCallKinds(t, dst.Calls, []emitter.CallKind{emitter.CallEmbedConstPool})
}

// An empty pool still runs the full align/bind/embed sequence — no
// short-circuit to a bare Bind (matches the original embedConstPool).
func TestEmbedConstPoolEmptyPoolStillAlignsAndEmbeds(t *testing.T) {
	b := newTestBuilder()

	label, err := b.NewLabel()
	if err != nil {
		t.Fatalf("NewLabel: %v", err)
	}

	pool := constpool.New()

	if err := b.EmbedConstPool(label, pool); err != nil {
		t.Fatalf("EmbedConstPool: %v", err)
	}

	nodes := nodesOf(b)
	if len(nodes) != 3 {
		t.Fatalf("expected align, bind, data nodes for an empty pool, got %d nodes", len(nodes))
	}

	if _, ok := nodes[0].(*ir.Align); !ok {
		t.Fatalf("expected first node to be Align, got %T", nodes[0])
	}

	if _, ok := nodes[1].(*ir.Label); !ok {
		t.Fatalf("expected second node to be Label, got %T", nodes[1])
	}

	data, ok := nodes[2].(*ir.Data)
	if !ok {
		t.Fatalf("expected third node to be Data, got %T", nodes[2])
	}

	if len(data.Bytes()) != 0 {
		t.Fatalf("expected zero-size data node for an empty pool, got %d bytes", len(data.Bytes()))
	}
}

func TestAddPassDuplicateToSameBuilderIsNoop(t *testing.T) {
	b := newTestBuilder()
	p := &noopPass{}

	if err := b.AddPass(p); err != nil {
		t.Fatalf("AddPass: %v", err)
	}

	if err := b.AddPass(p); err != nil {
		t.Fatalf("expected re-add to same builder to be a no-op, got %v", err)
	}

	if len(b.passes) != 1 {
		t.Fatalf("expected exactly one registered pass, got %d", len(b.passes))
	}
}

func TestAddPassToDifferentBuilderFails(t *testing.T) {
	b1 := newTestBuilder()
	b2 := newTestBuilder()
	p := &noopPass{}

	if err := b1.AddPass(p); err != nil {
		t.Fatalf("AddPass: %v", err)
	}

	if err := b2.AddPass(p); err == nil {
		t.Fatalf("expected ErrInvalidState attaching pass already owned by another builder")
	}
}

func TestDeletePassNilIsInvalidArgument(t *testing.T) {
	b := newTestBuilder()

	if err := b.DeletePass(nil); err == nil {
		t.Fatalf("expected ErrInvalidArgument for DeletePass(nil)")
	}
}

type noopPass struct {
	Base
	ran bool
}

func (p *noopPass) Name() string { return "noop" }
func (p *noopPass) Run(scratch *arena.Arena) error {
	p.ran = true
	return nil
}
