package ir

import "github.com/ppaulweber/libasmjit/operand"

// BaseOpCapacity is the operand capacity an instruction gets by default.
const BaseOpCapacity = 4

// ExtCapacity is the operand capacity an instruction is promoted to when
// Op4, Op5, or a 6th operand slot is needed.
//
// spec.md §3 describes this as two allocated node shapes (a small embedded
// array vs. a larger contiguous one) chosen to keep the common case within
// a single small block. This package keeps a single Inst struct with a
// fixed ExtCapacity-sized array instead: Go's allocator does not expose the
// byte-for-byte layout control the original relies on, and nothing in
// spec.md §8's testable properties depends on the node's size in bytes —
// only on OpCount/OpCapacity bookkeeping, which this preserves exactly.
const ExtCapacity = 6

// Option bits consumed at emit time (spec.md §6). MaybeFailureCase and
// StrictValidation are stripped before the instruction is stored; Op4/Op5/
// OpExtra promote the operand count and pull in the sidecar operands.
type Option uint32

const (
	OptionMaybeFailureCase Option = 1 << iota
	OptionStrictValidation
	OptionOp4
	OptionOp5
	OptionOpExtra
)

// Has reports whether all bits of want are set in o.
func (o Option) Has(want Option) bool { return o&want == want }

// Inst is an instruction node: an id, option flags, and up to ExtCapacity
// operands plus one extra operand (mask/rep-register overrides).
type Inst struct {
	hdr Header

	instID     uint32
	options    Option
	opCount    uint8
	opCapacity uint8

	extraOp operand.Operand
	ops     [ExtCapacity]operand.Operand
}

// NewInst constructs a detached instruction node with opCapacity slots
// (BaseOpCapacity or ExtCapacity), OR-ing baseFlags (the builder's current
// node-flags template) into the node's default flags.
func NewInst(instID uint32, options Option, opCapacity uint8, baseFlags Flags) *Inst {
	if opCapacity < BaseOpCapacity {
		opCapacity = BaseOpCapacity
	}

	return &Inst{
		hdr:        newHeader(TypeInst, IsCode|IsRemovable|ActsAsInst, baseFlags),
		instID:     instID,
		options:    options,
		opCapacity: opCapacity,
	}
}

// Header implements Node.
func (n *Inst) Header() *Header { return &n.hdr }

// InstID returns the instruction id.
func (n *Inst) InstID() uint32 { return n.instID }

// SetInstID overwrites the instruction id (used by ssetoavx to apply
// AvxConvDelta).
func (n *Inst) SetInstID(id uint32) { n.instID = id }

// Options returns the instruction's stored option bits.
func (n *Inst) Options() Option { return n.options }

// HasOption reports whether opt is set.
func (n *Inst) HasOption(opt Option) bool { return n.options&opt != 0 }

// OpCapacity returns how many operand slots this node has.
func (n *Inst) OpCapacity() uint8 { return n.opCapacity }

// OpCount returns the number of populated operands.
func (n *Inst) OpCount() uint8 { return n.opCount }

// SetOpCount sets the operand count; it must not exceed OpCapacity.
func (n *Inst) SetOpCount(count uint8) {
	if count > n.opCapacity {
		panic("ir: SetOpCount exceeds OpCapacity")
	}

	n.opCount = count
}

// Op returns a pointer to operand slot i (0-indexed, i < OpCapacity).
func (n *Inst) Op(i int) *operand.Operand {
	return &n.ops[i]
}

// ExtraOp returns the extra operand slot (mask register / rep register).
func (n *Inst) ExtraOp() *operand.Operand { return &n.extraOp }

// HasMemOp reports whether any populated operand is a memory operand — the
// literal "any operand type == Memory" rule spec.md §9 calls out explicitly
// as the rule to preserve, broadcast encodings notwithstanding.
func (n *Inst) HasMemOp() bool {
	for i := uint8(0); i < n.opCount; i++ {
		if n.ops[i].IsMem() {
			return true
		}
	}

	return false
}
