// Package ir implements the node model of spec.md §3: the tagged variants
// (Inst, Data, Align, Label, LabelData, ConstPool, Comment, Sentinel) that a
// Builder links into an ordered, doubly-linked sequence.
//
// Nodes are never constructed directly by client code; builder owns the
// arenas they come from and is the only package that calls the New*
// constructors below.
package ir

// Type is the node's variant tag. Values are stable within one library
// version — downstream logging/disassembly formatters key off them.
type Type uint8

const (
	TypeNone Type = 0

	TypeInst      Type = 1
	TypeData      Type = 2
	TypeAlign     Type = 3
	TypeLabel     Type = 4
	TypeLabelData Type = 5
	TypeConstPool Type = 6
	TypeComment   Type = 7
	TypeSentinel  Type = 8

	// Reserved for a higher-level compiler layer that is out of scope here;
	// listed so TypeUser doesn't collide with ids a future layer expects.
	TypeFunc     Type = 16
	TypeFuncRet  Type = 17
	TypeFuncCall Type = 18

	TypeUser Type = 32
)

// Flags cross-cut the variants: a ConstPool is both IsData and ActsAsLabel,
// for instance. Bit values are wire-stable per spec.md §6.
type Flags uint8

const (
	IsCode        Flags = 0x01
	IsData        Flags = 0x02
	IsInformative Flags = 0x04
	IsRemovable   Flags = 0x08
	HasNoEffect   Flags = 0x10
	// 0x20 is unallocated.
	ActsAsInst  Flags = 0x40
	ActsAsLabel Flags = 0x80
)

// Has reports whether all bits of want are set in f.
func (f Flags) Has(want Flags) bool { return f&want == want }

// Header is embedded in every concrete node type. It carries the doubly-
// linked list pointers, the variant tag, flags, and the cross-cutting
// bookkeeping fields spec.md §3 assigns to "every node": a position counter
// reserved for passes, a pass-private scratch slot, and an optional inline
// comment.
type Header struct {
	typ   Type
	flags Flags

	// reserved1 is asmjit's CBNode::_any._reserved1, initialized to 1 for
	// reasons not visible at this layer (spec.md §9, Open Question). It is
	// preserved literally and otherwise unread.
	reserved1 uint8

	prev, next Node

	position uint32

	// PassData is scratch space exclusively owned by the currently running
	// Pass; a well-behaved pass clears it before Run returns (spec.md §5).
	PassData any

	inlineComment    string
	hasInlineComment bool
}

// newHeader builds a Header of the given type, OR-ing in extra (the node
// variant's own default flags) and base (the Builder's current node-flags
// template).
func newHeader(typ Type, extra, base Flags) Header {
	return Header{typ: typ, flags: extra | base, reserved1: 1}
}

// Type returns the node's variant tag.
func (h *Header) Type() Type { return h.typ }

// SetType overrides the variant tag; used only by ConstPool, which starts
// life as a Label and is retagged in place (mirrors CBConstPool's
// constructor, which calls setType after the embedded CBLabel init).
func (h *Header) SetType(t Type) { h.typ = t }

// Flags returns the node's current flag set.
func (h *Header) Flags() Flags { return h.flags }

// HasFlag reports whether flag is set.
func (h *Header) HasFlag(flag Flags) bool { return h.flags&flag != 0 }

// AddFlags ORs flags into the node's flag set.
func (h *Header) AddFlags(flags Flags) { h.flags |= flags }

// ClearFlags clears flags from the node's flag set.
func (h *Header) ClearFlags(flags Flags) { h.flags &^= flags }

func (h *Header) IsCode() bool        { return h.HasFlag(IsCode) }
func (h *Header) IsData() bool        { return h.HasFlag(IsData) }
func (h *Header) IsInformative() bool { return h.HasFlag(IsInformative) }
func (h *Header) IsRemovable() bool   { return h.HasFlag(IsRemovable) }
func (h *Header) HasNoEffect() bool   { return h.HasFlag(HasNoEffect) }
func (h *Header) ActsAsInst() bool    { return h.HasFlag(ActsAsInst) }
func (h *Header) ActsAsLabel() bool   { return h.HasFlag(ActsAsLabel) }

// Reserved1 returns the literal-preserved reserved byte (see Open Question
// in spec.md §9); it is never interpreted at this layer.
func (h *Header) Reserved1() uint8 { return h.reserved1 }

// Prev returns the previous node in the list, or nil.
func (h *Header) Prev() Node { return h.prev }

// Next returns the next node in the list, or nil.
func (h *Header) Next() Node { return h.next }

// SetPrev/SetNext are called only by builder's node-management primitives.
func (h *Header) SetPrev(n Node) { h.prev = n }
func (h *Header) SetNext(n Node) { h.next = n }

// Position returns the pass-assigned position counter; zero if unset.
func (h *Header) Position() uint32 { return h.position }

// SetPosition sets the position counter. This layer never reads it itself;
// it exists for passes layered on top (spec.md §3).
func (h *Header) SetPosition(p uint32) { h.position = p }

// HasPosition reports whether the position counter is currently nonzero.
func (h *Header) HasPosition() bool { return h.position != 0 }

// InlineComment returns the node's one-shot inline comment, if any.
func (h *Header) InlineComment() (string, bool) { return h.inlineComment, h.hasInlineComment }

// SetInlineComment attaches an (already arena-interned) comment string.
func (h *Header) SetInlineComment(s string) {
	h.inlineComment = s
	h.hasInlineComment = true
}

// ResetInlineComment clears the inline comment.
func (h *Header) ResetInlineComment() {
	h.inlineComment = ""
	h.hasInlineComment = false
}

// Node is implemented by every concrete node variant. Dispatch on the
// concrete type (a type switch in the serializer, or an explicit Type()
// check) stands in for the C++ tagged-downcast scheme of spec.md §9.
type Node interface {
	Header() *Header
}

// detached reports whether n carries no list links, satisfying invariant 2
// of spec.md §3 (a node is either detached or fully linked).
func detached(n Node) bool {
	h := n.Header()
	return h.prev == nil && h.next == nil
}

// Detached reports whether n is unlinked from any list.
func Detached(n Node) bool { return detached(n) }
