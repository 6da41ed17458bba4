package emitter

import (
	"testing"

	"github.com/ppaulweber/libasmjit/operand"
)

func TestMockRecordsEmitAndResetsTransient(t *testing.T) {
	m := NewMock()

	m.SetOp4(operand.ImmOp(7))
	if err := m.Emit(1, operand.RegOp(operand.RegTypeGP, 0), operand.None(), operand.None(), operand.None()); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	if len(m.Calls) != 1 || m.Calls[0].Kind != CallEmit {
		t.Fatalf("expected one recorded Emit call, got %+v", m.Calls)
	}

	if m.pendingOp4 != operand.None() {
		t.Fatalf("expected op4 to be cleared after Emit")
	}
}

func TestMockInlineCommentIsOneShot(t *testing.T) {
	m := NewMock()

	m.SetInlineComment("hi")
	_ = m.Emit(0, operand.None(), operand.None(), operand.None(), operand.None())
	_ = m.Emit(0, operand.None(), operand.None(), operand.None(), operand.None())

	var comments int
	for _, c := range m.Calls {
		if c.Kind == CallSetInlineComment {
			comments++
		}
	}

	if comments != 1 {
		t.Fatalf("expected exactly one SetInlineComment call, got %d", comments)
	}
}
