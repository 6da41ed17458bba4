package emitter

import (
	"github.com/ppaulweber/libasmjit/codeholder"
	"github.com/ppaulweber/libasmjit/operand"
)

// CallKind tags which Contract method produced a Call record.
type CallKind int

const (
	CallEmit CallKind = iota
	CallNewLabel
	CallNewNamedLabel
	CallBind
	CallAlign
	CallEmbed
	CallEmbedLabel
	CallEmbedConstPool
	CallComment
	CallSetInlineComment
)

// Call is one recorded invocation on a Mock, in the shape scenario tests in
// spec.md §8 compare against.
type Call struct {
	Kind CallKind

	InstID uint32
	Ops    [4]operand.Operand

	Label operand.Operand
	Name  string

	Mode      AlignMode
	Alignment uint32

	Data []byte

	Text string
}

// Mock is a capturing Contract implementation for round-trip law tests: it
// records every call verbatim instead of encoding anything.
type Mock struct {
	Calls []Call

	nextLabelID uint32

	pendingOptions    uint32
	pendingComment    string
	hasPendingComment bool

	pendingOp4, pendingOp5, pendingOpExtra operand.Operand
}

// NewMock returns an empty recorder.
func NewMock() *Mock { return &Mock{} }

func (m *Mock) flushInlineComment() {
	if m.hasPendingComment {
		m.Calls = append(m.Calls, Call{Kind: CallSetInlineComment, Text: m.pendingComment})
		m.pendingComment = ""
		m.hasPendingComment = false
	}
}

func (m *Mock) resetTransient() {
	m.pendingOptions = 0
	m.pendingOp4 = operand.None()
	m.pendingOp5 = operand.None()
	m.pendingOpExtra = operand.None()
}

func (m *Mock) Emit(instID uint32, o0, o1, o2, o3 operand.Operand) error {
	m.flushInlineComment()
	m.Calls = append(m.Calls, Call{Kind: CallEmit, InstID: instID, Ops: [4]operand.Operand{o0, o1, o2, o3}})
	m.resetTransient()
	return nil
}

func (m *Mock) NewLabel() (operand.Operand, error) {
	m.nextLabelID++
	id := m.nextLabelID
	m.Calls = append(m.Calls, Call{Kind: CallNewLabel, Label: operand.LabelOp(id)})
	return operand.LabelOp(id), nil
}

func (m *Mock) NewNamedLabel(name string, typ codeholder.LabelType, parentID uint32) (operand.Operand, error) {
	m.nextLabelID++
	id := m.nextLabelID
	m.Calls = append(m.Calls, Call{Kind: CallNewNamedLabel, Label: operand.LabelOp(id), Name: name})
	return operand.LabelOp(id), nil
}

func (m *Mock) Bind(label operand.Operand) error {
	m.flushInlineComment()
	m.Calls = append(m.Calls, Call{Kind: CallBind, Label: label})
	m.resetTransient()
	return nil
}

func (m *Mock) Align(mode AlignMode, alignment uint32) error {
	m.flushInlineComment()
	m.Calls = append(m.Calls, Call{Kind: CallAlign, Mode: mode, Alignment: alignment})
	m.resetTransient()
	return nil
}

func (m *Mock) Embed(data []byte) error {
	m.flushInlineComment()
	dup := make([]byte, len(data))
	copy(dup, data)
	m.Calls = append(m.Calls, Call{Kind: CallEmbed, Data: dup})
	m.resetTransient()
	return nil
}

func (m *Mock) EmbedLabel(label operand.Operand) error {
	m.flushInlineComment()
	m.Calls = append(m.Calls, Call{Kind: CallEmbedLabel, Label: label})
	m.resetTransient()
	return nil
}

func (m *Mock) EmbedConstPool(label operand.Operand, pool ConstPoolReader) error {
	m.flushInlineComment()
	buf := make([]byte, pool.Size())
	pool.Fill(buf)
	m.Calls = append(m.Calls, Call{Kind: CallEmbedConstPool, Label: label, Data: buf})
	m.resetTransient()
	return nil
}

func (m *Mock) Comment(text string) error {
	m.flushInlineComment()
	m.Calls = append(m.Calls, Call{Kind: CallComment, Text: text})
	m.resetTransient()
	return nil
}

func (m *Mock) SetOptions(opts uint32) { m.pendingOptions = opts }

func (m *Mock) SetInlineComment(text string) {
	m.pendingComment = text
	m.hasPendingComment = true
}

func (m *Mock) SetOp4(op operand.Operand)     { m.pendingOp4 = op }
func (m *Mock) SetOp5(op operand.Operand)     { m.pendingOp5 = op }
func (m *Mock) SetOpExtra(op operand.Operand) { m.pendingOpExtra = op }

var _ Contract = (*Mock)(nil)
