// Package instmeta defines the per-instruction metadata contract the
// SSE→AVX pass consumes (spec.md §6): is_defined, is_sse_family, sse_data.
// The real table belongs to the downstream architecture package (hundreds
// of entries, generated from machine-readable instruction descriptions);
// this package provides Table plus a small Default() seed sufficient to
// drive the pass and its tests.
package instmeta

// AvxConvMode classifies how (if at all) an SSE instruction rewrites to its
// three-operand AVX form.
type AvxConvMode uint8

const (
	AvxConvNone AvxConvMode = iota
	AvxConvMove
	AvxConvMoveIfMem
	AvxConvExtend
	AvxConvBlend
)

// SSEData carries the AVX-conversion recipe for one SSE instruction id.
type SSEData struct {
	AvxConvMode  AvxConvMode
	AvxConvDelta int32
}

// Info describes one instruction id.
type Info struct {
	ID        uint32
	Name      string
	SSEFamily bool
	SSE       SSEData
}

// IsSSEFamily reports whether the instruction belongs to the legacy SSE
// family the SSE→AVX pass may rewrite.
func (i Info) IsSSEFamily() bool { return i.SSEFamily }

// GetSSEData returns the AVX-conversion recipe for the instruction.
func (i Info) GetSSEData() SSEData { return i.SSE }

// Table maps instruction ids to their metadata.
type Table struct {
	byID map[uint32]Info
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{byID: map[uint32]Info{}}
}

// Register adds or replaces the entry for info.ID.
func (t *Table) Register(info Info) {
	t.byID[info.ID] = info
}

// IsDefinedID reports whether id has a registered entry.
func (t *Table) IsDefinedID(id uint32) bool {
	_, ok := t.byID[id]
	return ok
}

// Get returns the entry for id, if any.
func (t *Table) Get(id uint32) (Info, bool) {
	info, ok := t.byID[id]
	return info, ok
}
