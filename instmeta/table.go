package instmeta

// Instruction ids for the handful of SSE/AVX pairs the example pass and its
// tests exercise. Real ids would come from a generated per-architecture
// table; these are just stable small integers.
const (
	InstNone uint32 = iota

	InstNop

	InstAddps
	InstMovaps
	InstCvtpi2ps
	InstBlendvps

	InstVaddps
	InstVmovaps
	InstVcvtps2pd // unused by AVX conversion, present to show a non-SSE neighbor
	InstVblendvps
)

// Default returns a seeded table covering:
//   - ADDPS: Extend mode (2-operand SSE form gains an implicit extra source).
//   - MOVAPS: Move mode (no operand reshape needed).
//   - CVTPI2PS: SSE-family but operates on an MMX source — the pass must
//     abort on any instruction referencing MMX, so this entry exists to be
//     rejected, not converted.
//   - BLENDVPS: Blend mode (implicit xmm0 promoted to an explicit operand).
func Default() *Table {
	t := NewTable()

	t.Register(Info{ID: InstNop, Name: "nop"})

	t.Register(Info{
		ID: InstAddps, Name: "addps", SSEFamily: true,
		SSE: SSEData{AvxConvMode: AvxConvExtend, AvxConvDelta: int32(InstVaddps) - int32(InstAddps)},
	})

	t.Register(Info{
		ID: InstMovaps, Name: "movaps", SSEFamily: true,
		SSE: SSEData{AvxConvMode: AvxConvMove, AvxConvDelta: int32(InstVmovaps) - int32(InstMovaps)},
	})

	t.Register(Info{
		ID: InstCvtpi2ps, Name: "cvtpi2ps", SSEFamily: true,
		SSE: SSEData{AvxConvMode: AvxConvMoveIfMem, AvxConvDelta: 0},
	})

	t.Register(Info{
		ID: InstBlendvps, Name: "blendvps", SSEFamily: true,
		SSE: SSEData{AvxConvMode: AvxConvBlend, AvxConvDelta: int32(InstVblendvps) - int32(InstBlendvps)},
	})

	t.Register(Info{ID: InstVaddps, Name: "vaddps"})
	t.Register(Info{ID: InstVmovaps, Name: "vmovaps"})
	t.Register(Info{ID: InstVblendvps, Name: "vblendvps"})

	return t
}
