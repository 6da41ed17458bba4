package builder

import (
	"tlog.app/go/errors"

	"github.com/ppaulweber/libasmjit/codeholder"
	"github.com/ppaulweber/libasmjit/emitter"
	"github.com/ppaulweber/libasmjit/ir"
	"github.com/ppaulweber/libasmjit/operand"
)

// Validator is consulted by Emit when OptionStrictValidation is set. There
// is no production implementation in this repository; it exists so the
// emission path spec.md §4.3 describes is fully wired for a caller who
// wants one.
type Validator interface {
	Validate(instID uint32, options uint32, ops [4]operand.Operand) error
}

// SetValidator installs (or clears, with nil) the strict-validation hook.
func (b *Builder) SetValidator(v Validator) { b.validator = v }

func (b *Builder) attachPendingComment(h *ir.Header) {
	if b.hasPendingComment {
		h.SetInlineComment(b.pendingComment)
	}

	b.pendingComment = ""
	b.hasPendingComment = false
}

// Emit implements emitter.Contract.
func (b *Builder) Emit(instID uint32, o0, o1, o2, o3 operand.Operand) error {
	if b.err != nil {
		return b.err
	}

	opts := ir.Option(b.pendingOptions)

	if opts.Has(ir.OptionStrictValidation) && b.validator != nil {
		if err := b.validator.Validate(instID, b.pendingOptions, [4]operand.Operand{o0, o1, o2, o3}); err != nil {
			b.resetTransient()
			return b.fail(errors.Wrap(err, "validate inst %d", instID))
		}
	}

	count := 0
	ops := [4]operand.Operand{o0, o1, o2, o3}
	for i := 3; i >= 0; i-- {
		if !ops[i].IsNone() {
			count = i + 1
			break
		}
	}

	opCapacity := uint8(ir.BaseOpCapacity)
	hasOp4 := opts.Has(ir.OptionOp4)
	hasOp5 := opts.Has(ir.OptionOp5)

	if hasOp4 || hasOp5 {
		opCapacity = ir.ExtCapacity
	}

	if hasOp4 {
		count = 5
	}

	if hasOp5 {
		count = 6
	}

	stored := opts &^ (ir.OptionMaybeFailureCase | ir.OptionStrictValidation)

	slot := b.instSlab.New()
	*slot = *ir.NewInst(instID, stored, opCapacity, b.nodeFlags)
	slot.SetOpCount(uint8(count))

	for i := 0; i < 4; i++ {
		*slot.Op(i) = ops[i]
	}

	if hasOp4 {
		*slot.Op(4) = b.pendingOp4
	}

	if hasOp5 {
		*slot.Op(5) = b.pendingOp5
	}

	if opts.Has(ir.OptionOpExtra) {
		*slot.ExtraOp() = b.pendingOpExtra
	}

	b.attachPendingComment(slot.Header())
	b.resetTransient()
	b.Add(slot)

	return nil
}

// NewLabel implements emitter.Contract.
func (b *Builder) NewLabel() (operand.Operand, error) {
	if b.err != nil {
		return operand.LabelOp(0), b.err
	}

	id, err := b.holder.NewLabelID()
	if err != nil {
		return operand.LabelOp(0), b.fail(errors.Wrap(err, "new label"))
	}

	b.registerLabelNode(id)

	return operand.LabelOp(id), nil
}

// NewNamedLabel implements emitter.Contract.
func (b *Builder) NewNamedLabel(name string, typ codeholder.LabelType, parentID uint32) (operand.Operand, error) {
	if b.err != nil {
		return operand.LabelOp(0), b.err
	}

	id, err := b.holder.NewNamedLabelID(name, typ, parentID)
	if err != nil {
		return operand.LabelOp(0), b.fail(errors.Wrap(err, "new named label %q", name))
	}

	b.registerLabelNode(id)

	return operand.LabelOp(id), nil
}

// Bind implements emitter.Contract.
func (b *Builder) Bind(label operand.Operand) error {
	if b.err != nil {
		return b.err
	}

	n, err := b.labelNode(label)
	if err != nil {
		b.resetTransient()
		return b.fail(err)
	}

	b.attachPendingComment(n.Header())
	b.resetTransient()
	b.Add(n)

	return nil
}

// Align implements emitter.Contract.
func (b *Builder) Align(mode emitter.AlignMode, alignment uint32) error {
	if b.err != nil {
		return b.err
	}

	slot := b.alignSlab.New()
	*slot = *ir.NewAlign(ir.AlignMode(mode), alignment, b.nodeFlags)

	b.attachPendingComment(slot.Header())
	b.resetTransient()
	b.Add(slot)

	return nil
}

// Embed implements emitter.Contract: data is copied, never aliased, so the
// caller's slice is free to be reused or mutated afterward.
func (b *Builder) Embed(data []byte) error {
	if b.err != nil {
		return b.err
	}

	var n *ir.Data

	if len(data) <= ir.InlineBufferSize {
		n = ir.NewDataInline(data, b.nodeFlags)
	} else {
		dup, err := b.dataArena.Dup(data, false)
		if err != nil {
			b.resetTransient()
			return b.fail(errors.Wrap(err, "embed %d bytes", len(data)))
		}

		n = ir.NewDataExternal(dup, b.nodeFlags)
	}

	slot := b.dataSlab.New()
	*slot = *n

	b.attachPendingComment(slot.Header())
	b.resetTransient()
	b.Add(slot)

	return nil
}

// EmbedLabel implements emitter.Contract.
func (b *Builder) EmbedLabel(label operand.Operand) error {
	if b.err != nil {
		return b.err
	}

	ln, err := b.labelNode(label)
	if err != nil {
		b.resetTransient()
		return b.fail(err)
	}

	slot := b.labelDataSlab.New()
	*slot = *ir.NewLabelData(ln.ID(), b.nodeFlags)

	b.attachPendingComment(slot.Header())
	b.resetTransient()
	b.Add(slot)

	return nil
}

// EmbedConstPool implements emitter.Contract: align to the pool's required
// alignment, bind label, then embed an uninitialized-then-filled data node
// sized to the pool (spec.md §4.3). The sequence runs unconditionally, even
// for an empty pool, matching the original's embedConstPool.
func (b *Builder) EmbedConstPool(label operand.Operand, pool emitter.ConstPoolReader) error {
	if b.err != nil {
		return b.err
	}

	if err := b.Align(emitter.AlignData, uint32(pool.Alignment())); err != nil {
		return err
	}

	if err := b.Bind(label); err != nil {
		return err
	}

	buf := make([]byte, pool.Size())
	pool.Fill(buf)

	return b.Embed(buf)
}

// Comment implements emitter.Contract.
func (b *Builder) Comment(text string) error {
	if b.err != nil {
		return b.err
	}

	interned, err := b.dataArena.DupString(text)
	if err != nil {
		b.resetTransient()
		return b.fail(errors.Wrap(err, "comment"))
	}

	slot := b.commentSlab.New()
	*slot = *ir.NewComment(interned, b.nodeFlags)

	b.attachPendingComment(slot.Header())
	b.resetTransient()
	b.Add(slot)

	return nil
}

// SetOptions implements emitter.Contract: stages option bits consumed by
// the next Emit.
func (b *Builder) SetOptions(opts uint32) { b.pendingOptions = opts }

// SetInlineComment implements emitter.Contract.
func (b *Builder) SetInlineComment(text string) {
	b.pendingComment = text
	b.hasPendingComment = true
}

// SetOp4 implements emitter.Contract.
func (b *Builder) SetOp4(op operand.Operand) { b.pendingOp4 = op }

// SetOp5 implements emitter.Contract.
func (b *Builder) SetOp5(op operand.Operand) { b.pendingOp5 = op }

// SetOpExtra implements emitter.Contract.
func (b *Builder) SetOpExtra(op operand.Operand) { b.pendingOpExtra = op }

var _ emitter.Contract = (*Builder)(nil)
