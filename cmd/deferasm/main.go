// Command deferasm is a small inspection tool for the deferred-emission
// builder: it runs a scripted build against an in-memory code-holder,
// optionally runs the SSE→AVX pass, and dumps the serialized emitter-call
// trace to stdout.
package main

import (
	"context"
	"fmt"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/ppaulweber/libasmjit/builder"
	"github.com/ppaulweber/libasmjit/codeholder"
	"github.com/ppaulweber/libasmjit/emitter"
	"github.com/ppaulweber/libasmjit/instmeta"
	"github.com/ppaulweber/libasmjit/operand"
	"github.com/ppaulweber/libasmjit/ssetoavx"
)

func main() {
	demoCmd := &cli.Command{
		Name:        "demo",
		Description: "build a scripted instruction sequence and dump its serialized form",
		Action:      demoAct,
		Args:        cli.Args{},
	}

	avxCmd := &cli.Command{
		Name:        "avx-demo",
		Description: "build an SSE sequence, run the sse-to-avx pass, and dump the result",
		Action:      avxDemoAct,
		Args:        cli.Args{},
	}

	app := &cli.Command{
		Name:        "deferasm",
		Description: "deferasm inspects the deferred-emission IR builder",
		Commands: []*cli.Command{
			demoCmd,
			avxCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func demoAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	b := builder.New(codeholder.NewSimple())

	r0 := operand.RegOp(operand.RegTypeGP, 0)
	r1 := operand.RegOp(operand.RegTypeGP, 1)

	label, err := b.NewLabel()
	if err != nil {
		return errors.Wrap(err, "new label")
	}

	if err := b.Emit(instmeta.InstAddps, r0, r1, operand.None(), operand.None()); err != nil {
		return errors.Wrap(err, "emit")
	}

	if err := b.Bind(label); err != nil {
		return errors.Wrap(err, "bind")
	}

	if err := b.Comment("end of demo sequence"); err != nil {
		return errors.Wrap(err, "comment")
	}

	tlog.SpanFromContext(ctx).Printw("built demo sequence")

	return dump(ctx, b)
}

func avxDemoAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	b := builder.New(codeholder.NewSimple())

	xmm0 := operand.RegOp(operand.RegTypeXMM, 0)
	xmm1 := operand.RegOp(operand.RegTypeXMM, 1)

	if err := b.Emit(instmeta.InstAddps, xmm0, xmm1, operand.None(), operand.None()); err != nil {
		return errors.Wrap(err, "emit")
	}

	table := instmeta.Default()
	pass := ssetoavx.New(b, table)

	if err := b.AddPass(pass); err != nil {
		return errors.Wrap(err, "add pass")
	}

	if err := b.RunPasses(); err != nil {
		return errors.Wrap(err, "run passes")
	}

	tlog.SpanFromContext(ctx).Printw("ran sse-to-avx pass", "translated", pass.Translated())

	return dump(ctx, b)
}

func dump(ctx context.Context, b *builder.Builder) error {
	mock := emitter.NewMock()

	if err := builder.Serialize(b, mock); err != nil {
		return errors.Wrap(err, "serialize")
	}

	for i, call := range mock.Calls {
		fmt.Printf("%3d: %s\n", i, describeCall(call))
	}

	return nil
}

func describeCall(c emitter.Call) string {
	switch c.Kind {
	case emitter.CallEmit:
		return fmt.Sprintf("emit inst=%d ops=%v", c.InstID, c.Ops)
	case emitter.CallBind:
		return fmt.Sprintf("bind label=%d", c.Label.Label)
	case emitter.CallNewLabel:
		return fmt.Sprintf("new_label -> %d", c.Label.Label)
	case emitter.CallNewNamedLabel:
		return fmt.Sprintf("new_named_label %q -> %d", c.Name, c.Label.Label)
	case emitter.CallAlign:
		return fmt.Sprintf("align mode=%d n=%d", c.Mode, c.Alignment)
	case emitter.CallEmbed:
		return fmt.Sprintf("embed %d bytes", len(c.Data))
	case emitter.CallEmbedLabel:
		return fmt.Sprintf("embed_label label=%d", c.Label.Label)
	case emitter.CallEmbedConstPool:
		return fmt.Sprintf("embed_const_pool label=%d size=%d", c.Label.Label, len(c.Data))
	case emitter.CallComment:
		return fmt.Sprintf("comment %q", c.Text)
	case emitter.CallSetInlineComment:
		return fmt.Sprintf("set_inline_comment %q", c.Text)
	default:
		return "unknown"
	}
}
