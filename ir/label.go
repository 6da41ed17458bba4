package ir

// Label is a bound or bindable label: spec.md §4.2 calls labels
// "co-owned with the code-holder" — the id comes from there, but the node
// itself, its position in the sequence, and its registration in the
// builder's labels table belong here.
type Label struct {
	hdr Header

	id uint32

	// regAllocBlock is an opaque back-pointer for a higher-level register-
	// allocation layer (RABlock in the original). It is out of scope here
	// and treated purely as pass-private scratch.
	regAllocBlock any
}

// NewLabel constructs a detached Label node with id 0; the id is filled in
// once the builder registers it with the code-holder.
func NewLabel(baseFlags Flags) *Label {
	return &Label{hdr: newHeader(TypeLabel, HasNoEffect|ActsAsLabel, baseFlags)}
}

// Header implements Node.
func (n *Label) Header() *Header { return &n.hdr }

// ID returns the label id.
func (n *Label) ID() uint32 { return n.id }

// SetID assigns the label id; called once, by the builder, right after the
// code-holder issues it.
func (n *Label) SetID(id uint32) { n.id = id }

// RegAllocBlock returns the opaque register-allocation back-pointer.
func (n *Label) RegAllocBlock() any { return n.regAllocBlock }

// SetRegAllocBlock sets it.
func (n *Label) SetRegAllocBlock(b any) { n.regAllocBlock = b }

// LabelData embeds a label id as raw addressable data, for relocation.
type LabelData struct {
	hdr Header

	id uint32
}

// NewLabelData constructs a detached LabelData node referencing id.
func NewLabelData(id uint32, baseFlags Flags) *LabelData {
	return &LabelData{
		hdr: newHeader(TypeLabelData, IsData, baseFlags),
		id:  id,
	}
}

// Header implements Node.
func (n *LabelData) Header() *Header { return &n.hdr }

// ID returns the referenced label id.
func (n *LabelData) ID() uint32 { return n.id }
