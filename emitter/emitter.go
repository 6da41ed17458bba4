// Package emitter defines the contract shared by Builder and any downstream
// byte-level assembler: both record emission calls in the same shape, so a
// client can switch targets without touching call sites (spec.md §4.3, §6).
package emitter

import (
	"github.com/ppaulweber/libasmjit/codeholder"
	"github.com/ppaulweber/libasmjit/operand"
)

// AlignMode selects what an Align node is padding.
type AlignMode uint8

const (
	AlignCode AlignMode = iota
	AlignData
	AlignZero
)

// Contract is the emission surface spec.md §4.3 and §6 describe. Builder
// implements it directly; a byte-level assembler implements it by encoding
// instructions instead of recording nodes.
type Contract interface {
	// Emit records an instruction. Operand count is derived from the first
	// trailing operand.None() in o0..o3, then raised to 5 or 6 by the
	// one-shot Op4/Op5 option bits staged via SetOptions, which pull in the
	// operands staged via SetOp4/SetOp5.
	Emit(instID uint32, o0, o1, o2, o3 operand.Operand) error

	// NewLabel allocates a label, asks the code-holder for an id, and
	// returns an operand wrapping it. On failure it returns a zero-id label
	// operand and latches the error.
	NewLabel() (operand.Operand, error)

	// NewNamedLabel is the named-label analogue of NewLabel.
	NewNamedLabel(name string, typ codeholder.LabelType, parentID uint32) (operand.Operand, error)

	// Bind appends the given label at the cursor.
	Bind(label operand.Operand) error

	// Align appends an alignment directive.
	Align(mode AlignMode, alignment uint32) error

	// Embed appends a data blob, copying it inline or into an arena clone
	// per the inline/external boundary; the caller's slice is never aliased.
	Embed(data []byte) error

	// EmbedLabel appends a relocatable reference to a label's address.
	EmbedLabel(label operand.Operand) error

	// EmbedConstPool aligns to the pool's alignment, binds label, then
	// embeds the pool's filled contents.
	EmbedConstPool(label operand.Operand, pool ConstPoolReader) error

	// Comment appends an informative comment node.
	Comment(text string) error

	// SetOptions stages option bits consumed by the next Emit.
	SetOptions(opts uint32)

	// SetInlineComment stages a one-shot inline comment, attached to
	// whatever node the next mutating call appends.
	SetInlineComment(text string)

	// SetOp4/SetOp5/SetOpExtra stage sidecar operands consumed by the next
	// Emit when the corresponding option bit is set.
	SetOp4(op operand.Operand)
	SetOp5(op operand.Operand)
	SetOpExtra(op operand.Operand)
}

// ConstPoolReader is the minimal view EmbedConstPool needs of a constant
// pool, satisfied by *constpool.Pool.
type ConstPoolReader interface {
	IsEmpty() bool
	Size() int
	Alignment() int
	Fill(dst []byte)
}
