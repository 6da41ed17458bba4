package ssetoavx

import (
	"testing"

	"github.com/ppaulweber/libasmjit/builder"
	"github.com/ppaulweber/libasmjit/codeholder"
	"github.com/ppaulweber/libasmjit/instmeta"
	"github.com/ppaulweber/libasmjit/ir"
	"github.com/ppaulweber/libasmjit/operand"
)

func xmm(i uint8) operand.Operand { return operand.RegOp(operand.RegTypeXMM, i) }
func mmx(i uint8) operand.Operand { return operand.RegOp(operand.RegTypeMMX, i) }

// Scenario 4: ADDPS xmm0, xmm1 rewrites to VADDPS xmm0, xmm0, xmm1.
func TestAddpsExtendRewrite(t *testing.T) {
	b := builder.New(codeholder.NewSimple())

	if err := b.Emit(instmeta.InstAddps, xmm(0), xmm(1), operand.None(), operand.None()); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	p := New(b, instmeta.Default())
	if err := p.Run(nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	inst := b.LastNode().(*ir.Inst)

	if inst.OpCount() != 3 {
		t.Fatalf("expected opcount 3, got %d", inst.OpCount())
	}

	if *inst.Op(0) != xmm(0) || *inst.Op(1) != xmm(0) || *inst.Op(2) != xmm(1) {
		t.Fatalf("unexpected operands after rewrite: %v %v %v", *inst.Op(0), *inst.Op(1), *inst.Op(2))
	}

	if inst.InstID() != instmeta.InstVaddps {
		t.Fatalf("expected instID VADDPS, got %d", inst.InstID())
	}

	if !p.Translated() {
		t.Fatalf("expected pass to report translated")
	}
}

// Scenario 5: CVTPI2PS xmm0, mm0 mixes MMX — the whole pass aborts.
func TestCvtpi2psAbortsOnMmxMix(t *testing.T) {
	b := builder.New(codeholder.NewSimple())

	if err := b.Emit(instmeta.InstCvtpi2ps, xmm(0), mmx(0), operand.None(), operand.None()); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	p := New(b, instmeta.Default())
	if err := p.Run(nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	inst := b.LastNode().(*ir.Inst)

	if inst.InstID() != instmeta.InstCvtpi2ps {
		t.Fatalf("expected IR unchanged, instID still CVTPI2PS, got %d", inst.InstID())
	}

	if *inst.Op(0) != xmm(0) || *inst.Op(1) != mmx(0) {
		t.Fatalf("expected operands unchanged")
	}

	if p.Translated() {
		t.Fatalf("expected _translated == false after abort")
	}
}

// Scenario 6: BLENDVPS xmm1, xmm2 (2 operands) promotes to 4 operands with
// an implicit xmm0.
func TestBlendvpsImplicitXmm0Promotion(t *testing.T) {
	b := builder.New(codeholder.NewSimple())

	if err := b.Emit(instmeta.InstBlendvps, xmm(1), xmm(2), operand.None(), operand.None()); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	p := New(b, instmeta.Default())
	if err := p.Run(nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	inst := b.LastNode().(*ir.Inst)

	if inst.OpCount() != 4 {
		t.Fatalf("expected opcount 4, got %d", inst.OpCount())
	}

	want := [4]operand.Operand{xmm(1), xmm(1), xmm(2), xmm(0)}
	for i, w := range want {
		if *inst.Op(i) != w {
			t.Fatalf("operand %d: expected %v, got %v", i, w, *inst.Op(i))
		}
	}

	if inst.InstID() != instmeta.InstVblendvps {
		t.Fatalf("expected instID VBLENDVPS, got %d", inst.InstID())
	}
}

func TestRunIsIdempotentViaTranslatedGuard(t *testing.T) {
	b := builder.New(codeholder.NewSimple())
	_ = b.Emit(instmeta.InstAddps, xmm(0), xmm(1), operand.None(), operand.None())

	p := New(b, instmeta.Default())
	if err := p.Run(nil); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	inst := b.LastNode().(*ir.Inst)
	idAfterFirst := inst.InstID()

	if err := p.Run(nil); err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if inst.InstID() != idAfterFirst {
		t.Fatalf("expected second Run to be a no-op, instID changed from %d to %d", idAfterFirst, inst.InstID())
	}
}
