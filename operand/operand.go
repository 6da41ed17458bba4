// Package operand holds the minimal operand value the IR and the SSE→AVX
// pass need: enough to tell a register from memory from an immediate from a
// label, and enough register-type tagging to drive spec.md §4.7's probe.
//
// The real encoding of operands (displacement scales, segment overrides,
// broadcast bits, ...) belongs to the downstream byte-emitting assembler,
// which is out of scope here; this package only carries what the deferred
// IR itself inspects or moves around.
package operand

// Kind discriminates what an Operand holds.
type Kind uint8

const (
	KindNone Kind = iota
	KindReg
	KindMem
	KindImm
	KindLabel
)

// RegType tags the register file an operand's Reg belongs to. The SSE→AVX
// pass ORs `1 << Type` across an instruction's register operands to build
// its probe bitmask, so the concrete values matter only in that they stay
// distinct and small.
type RegType uint8

const (
	RegTypeGP RegType = iota
	RegTypeXMM
	RegTypeYMM
	RegTypeMMX
	RegTypeMask
)

// Reg is a register operand: a type tag plus an index within that file.
type Reg struct {
	Type  RegType
	Index uint8
}

// Mem is a memory operand. Only a base register and a displacement are
// modeled; that is enough for has_mem_op()-style probing and for the
// round-trip tests, which never decode memory operands themselves.
type Mem struct {
	Base    Reg
	HasBase bool
	Disp    int32
}

// Operand is a tagged union over the operand kinds the IR understands.
type Operand struct {
	Kind  Kind
	Reg   Reg
	Mem   Mem
	Imm   int64
	Label uint32
}

// None returns the zero operand, used to mark "no operand here" the same
// way trailing arguments to emit() do.
func None() Operand { return Operand{Kind: KindNone} }

// IsNone reports whether o is the absence of an operand.
func (o Operand) IsNone() bool { return o.Kind == KindNone }

// IsReg reports whether o is a register operand.
func (o Operand) IsReg() bool { return o.Kind == KindReg }

// IsMem reports whether o is a memory operand.
func (o Operand) IsMem() bool { return o.Kind == KindMem }

// RegOp builds a register operand of the given type and index.
func RegOp(t RegType, index uint8) Operand {
	return Operand{Kind: KindReg, Reg: Reg{Type: t, Index: index}}
}

// MemOp builds a memory operand based on base+disp.
func MemOp(base Reg, disp int32) Operand {
	return Operand{Kind: KindMem, Mem: Mem{Base: base, HasBase: true, Disp: disp}}
}

// ImmOp builds an immediate operand.
func ImmOp(v int64) Operand {
	return Operand{Kind: KindImm, Imm: v}
}

// LabelOp builds an operand referencing a label id.
func LabelOp(id uint32) Operand {
	return Operand{Kind: KindLabel, Label: id}
}
