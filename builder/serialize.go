package builder

import (
	"tlog.app/go/tlog"

	"github.com/ppaulweber/libasmjit/emitter"
	"github.com/ppaulweber/libasmjit/ir"
	"github.com/ppaulweber/libasmjit/operand"
)

// Serialize walks b's node list from FirstNode and replays it onto dst,
// dispatching by variant tag (spec.md §4.6). It stops at the first error
// dst returns and does not touch b's error latch — serialization is
// read-only over the IR (spec.md §7).
func Serialize(b *Builder, dst emitter.Contract) error {
	dump := tlog.If("dump_serialize")

	for n := b.firstNode; n != nil; n = n.Header().Next() {
		if dump {
			tlog.Printw("serialize node", "type", n.Header().Type(), "position", n.Header().Position())
		}

		if text, ok := n.Header().InlineComment(); ok {
			dst.SetInlineComment(text)
		}

		if err := serializeOne(n, dst); err != nil {
			return err
		}
	}

	return nil
}

func serializeOne(n ir.Node, dst emitter.Contract) error {
	switch v := n.(type) {
	case *ir.Inst:
		return serializeInst(v, dst)
	case *ir.Data:
		return dst.Embed(v.Bytes())
	case *ir.Align:
		return dst.Align(emitter.AlignMode(v.Mode()), v.Alignment())
	case *ir.ConstPool:
		return dst.EmbedConstPool(operand.LabelOp(v.ID()), v.Pool())
	case *ir.Label:
		return dst.Bind(operand.LabelOp(v.ID()))
	case *ir.LabelData:
		return dst.EmbedLabel(operand.LabelOp(v.ID()))
	case *ir.Comment:
		return dst.Comment(v.Text())
	default:
		return serializeUnknown(n, dst)
	}
}

// serializeUnknown handles a higher-level node type not natively understood
// here, via its flags (spec.md §4.6 step 9). Nothing in this repository
// constructs such a node, but the fallback is part of the contract.
func serializeUnknown(n ir.Node, dst emitter.Contract) error {
	h := n.Header()

	switch {
	case h.ActsAsInst():
		return dst.Emit(0, operand.None(), operand.None(), operand.None(), operand.None())
	case h.ActsAsLabel():
		return dst.Bind(operand.LabelOp(0))
	default:
		return nil
	}
}

func serializeInst(v *ir.Inst, dst emitter.Contract) error {
	dst.SetOptions(uint32(v.Options()))
	dst.SetOpExtra(*v.ExtraOp())

	count := v.OpCount()

	if count >= 5 {
		dst.SetOp4(*v.Op(4))
	}

	if count >= 6 {
		dst.SetOp5(*v.Op(5))
	}

	o := [4]operand.Operand{operand.None(), operand.None(), operand.None(), operand.None()}
	limit := int(count)

	if limit > 4 {
		limit = 4
	}

	for i := 0; i < limit; i++ {
		o[i] = *v.Op(i)
	}

	return dst.Emit(v.InstID(), o[0], o[1], o[2], o[3])
}
