// Package ssetoavx implements the illustrative SSE→AVX rewrite pass of
// spec.md §4.7: a two-phase probe-then-rewrite transformation that widens
// legacy two- and three-operand SSE instructions to their AVX equivalents
// (three operands, or four for the blend forms with their implicit xmm0),
// guided by a per-instruction avx_conv_mode/delta pair.
package ssetoavx

import (
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/ppaulweber/libasmjit/arena"
	"github.com/ppaulweber/libasmjit/builder"
	"github.com/ppaulweber/libasmjit/instmeta"
	"github.com/ppaulweber/libasmjit/ir"
	"github.com/ppaulweber/libasmjit/operand"
)

// Pass rewrites eligible SSE Inst nodes between b.FirstNode() and
// b.LastNode() in place. It is stateful: once Run has rewritten the IR, a
// second call is a no-op (the _translated guard spec.md §4.7 requires).
type Pass struct {
	builder.Base

	b          *builder.Builder
	table      *instmeta.Table
	translated bool
}

// New returns a pass that rewrites b's node list using table's per-
// instruction AVX-conversion metadata.
func New(b *builder.Builder, table *instmeta.Table) *Pass {
	return &Pass{b: b, table: table}
}

// Name implements builder.Pass.
func (p *Pass) Name() string { return "sse-to-avx" }

// Translated reports whether this pass has already rewritten the IR.
func (p *Pass) Translated() bool { return p.translated }

// regTypeMask ORs 1<<reg.Type across o's register operands into mask
// (spec.md §4.7's "bitmask built by OR-ing 1 << reg.type").
func regTypeMask(mask uint32, o operand.Operand) uint32 {
	if o.IsReg() {
		mask |= 1 << uint(o.Reg.Type)
	}

	return mask
}

func opCountLegal(mode instmeta.AvxConvMode, count uint8) bool {
	switch mode {
	case instmeta.AvxConvNone:
		return false
	case instmeta.AvxConvMove:
		return true
	case instmeta.AvxConvMoveIfMem, instmeta.AvxConvExtend:
		return count >= 1 && count <= 3
	case instmeta.AvxConvBlend:
		return count >= 2 && count <= 3
	default:
		return false
	}
}

// Run implements builder.Pass. scratch is not used: the probe's candidate
// stack is a slice local to this call, so nothing survives past it.
func (p *Pass) Run(scratch *arena.Arena) error {
	if p.translated {
		return nil
	}

	type candidate struct {
		inst *ir.Inst
		info instmeta.Info
	}

	var candidates []candidate

	dump := tlog.If("dump_rewrite")

	for n := p.b.FirstNode(); n != nil; n = n.Header().Next() {
		inst, ok := n.(*ir.Inst)
		if !ok {
			continue
		}

		if !p.table.IsDefinedID(inst.InstID()) {
			continue
		}

		info, _ := p.table.Get(inst.InstID())
		if !info.IsSSEFamily() {
			continue
		}

		var mask uint32
		for i := uint8(0); i < inst.OpCount(); i++ {
			mask = regTypeMask(mask, *inst.Op(int(i)))
		}
		mask = regTypeMask(mask, *inst.ExtraOp())

		if mask&(1<<uint(operand.RegTypeXMM)) == 0 {
			continue
		}

		if mask&(1<<uint(operand.RegTypeMMX)) != 0 {
			if dump {
				tlog.Printw("sse-to-avx abort", "reason", "mmx mix", "inst", inst.InstID())
			}

			return nil
		}

		sse := info.GetSSEData()
		if !opCountLegal(sse.AvxConvMode, inst.OpCount()) {
			if dump {
				tlog.Printw("sse-to-avx abort", "reason", "illegal opcount", "inst", inst.InstID(), "opcount", inst.OpCount())
			}

			return nil
		}

		candidates = append(candidates, candidate{inst: inst, info: info})
	}

	if dump {
		tlog.Printw("sse-to-avx rewrite", "candidates", len(candidates))
	}

	for _, c := range candidates {
		rewrite(c.inst, c.info.GetSSEData())
	}

	p.translated = true

	return nil
}

func rewrite(inst *ir.Inst, sse instmeta.SSEData) {
	mode := sse.AvxConvMode

	if mode == instmeta.AvxConvMoveIfMem {
		if inst.HasMemOp() {
			mode = instmeta.AvxConvMove
		} else {
			mode = instmeta.AvxConvExtend
		}
	}

	if mode == instmeta.AvxConvBlend {
		if inst.OpCount() == 2 {
			if int(inst.OpCount()) >= int(inst.OpCapacity()) {
				promoteCapacity(inst)
			}

			*inst.Op(int(inst.OpCount())) = operand.RegOp(operand.RegTypeXMM, 0)
			inst.SetOpCount(inst.OpCount() + 1)
		}

		mode = instmeta.AvxConvExtend
	}

	if mode == instmeta.AvxConvExtend {
		extend(inst)
	}

	inst.SetInstID(uint32(int64(inst.InstID()) + int64(sse.AvxConvDelta)))
}

// extend shifts operands right by one, duplicating slot 0 into slots 0 and
// 1 (the destination becomes both the AVX destination and the first
// source), and increments the operand count (spec.md §4.7, Phase 2).
func extend(inst *ir.Inst) {
	count := inst.OpCount()

	if int(count)+1 > int(inst.OpCapacity()) {
		promoteCapacity(inst)
	}

	for i := int(count); i >= 1; i-- {
		*inst.Op(i) = *inst.Op(i - 1)
	}

	inst.SetOpCount(count + 1)
}

// promoteCapacity is unreachable under the probe's legal opCount ranges
// (Extend/Blend admit at most 3 operands pre-rewrite, and post-rewrite they
// need at most 4, which fits BaseOpCapacity), but guards against a future
// mode with a wider range instead of silently truncating.
func promoteCapacity(inst *ir.Inst) {
	panic(errors.New("ssetoavx: inst %d exceeds operand capacity %d", inst.InstID(), inst.OpCapacity()))
}
