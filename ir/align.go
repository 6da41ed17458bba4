package ir

// AlignMode distinguishes what kind of padding an Align node should emit
// downstream (code nop-fill vs. zero-fill for data). The concrete encoding
// belongs to the downstream assembler; this layer only carries it through.
type AlignMode uint8

const (
	AlignModeCode AlignMode = iota
	AlignModeData
	AlignModeZero
)

// Align wraps an `.align` directive.
type Align struct {
	hdr Header

	mode      AlignMode
	alignment uint32
}

// NewAlign constructs a detached Align node.
func NewAlign(mode AlignMode, alignment uint32, baseFlags Flags) *Align {
	return &Align{
		hdr:       newHeader(TypeAlign, IsCode|HasNoEffect, baseFlags),
		mode:      mode,
		alignment: alignment,
	}
}

// Header implements Node.
func (n *Align) Header() *Header { return &n.hdr }

// Mode returns the alignment mode.
func (n *Align) Mode() AlignMode { return n.mode }

// Alignment returns the alignment in bytes.
func (n *Align) Alignment() uint32 { return n.alignment }
