package ir

// InlineBufferSize is the largest payload a Data node stores inline. Larger
// payloads are cloned into the builder's data arena and referenced by
// pointer instead. 56 is the inline capacity of the original 64-byte node;
// this Go struct, with its Header and external slice, is larger than 64
// bytes.
const InlineBufferSize = 56

// Data wraps a `.data` directive: raw bytes placed at the node's position
// in the stream. No endianness conversion or interpretation is performed.
type Data struct {
	hdr Header

	size     uint32
	inline   [InlineBufferSize]byte
	external []byte
}

// NewDataInline constructs a Data node whose payload fits in the inline
// buffer (len(data) <= InlineBufferSize). Builder is responsible for
// routing larger payloads to NewDataExternal instead.
func NewDataInline(data []byte, baseFlags Flags) *Data {
	n := &Data{
		hdr:  newHeader(TypeData, IsData, baseFlags),
		size: uint32(len(data)),
	}

	copy(n.inline[:], data)

	return n
}

// NewDataExternal constructs a Data node backed by an already arena-cloned
// byte slice (len(external) > InlineBufferSize).
func NewDataExternal(external []byte, baseFlags Flags) *Data {
	return &Data{
		hdr:      newHeader(TypeData, IsData, baseFlags),
		size:     uint32(len(external)),
		external: external,
	}
}

// Header implements Node.
func (n *Data) Header() *Header { return &n.hdr }

// Size returns the payload size in bytes.
func (n *Data) Size() uint32 { return n.size }

// Bytes returns the payload, whichever storage it lives in.
func (n *Data) Bytes() []byte {
	if n.size <= InlineBufferSize {
		return n.inline[:n.size]
	}

	return n.external
}
