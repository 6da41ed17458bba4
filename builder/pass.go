package builder

import (
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/ppaulweber/libasmjit/arena"
)

// Pass is a stateful transformation over a Builder's node list, run against
// a private scratch arena that is reset before and after every run
// (spec.md §4.5). Implementations are expected to be stateful between
// registration and Run — e.g. an idempotence guard.
type Pass interface {
	Name() string
	Run(scratch *arena.Arena) error
}

// attacher is implemented by Base; AddPass/DeletePass use it to enforce
// single-builder ownership. Unexported on purpose: only types embedding
// Base (from this package) can satisfy it.
type attacher interface {
	attachedTo() *Builder
	attach(b *Builder)
	detach()
}

// Base gives a concrete Pass the owning-builder bookkeeping AddPass and
// DeletePass rely on — embed it by value in a pass struct, the way an
// asmjit pass inherits CBPass for the same purpose.
type Base struct {
	owner *Builder
}

func (p *Base) attachedTo() *Builder { return p.owner }
func (p *Base) attach(b *Builder)    { p.owner = b }
func (p *Base) detach()              { p.owner = nil }

// AddPass registers p in registration order. Re-adding a pass already
// attached to this builder is a no-op. Attaching a pass already owned by a
// different builder fails with ErrInvalidState.
func (b *Builder) AddPass(p Pass) error {
	if a, ok := p.(attacher); ok {
		if owner := a.attachedTo(); owner != nil {
			if owner == b {
				return nil
			}

			return errors.Wrap(ErrInvalidState, "pass %q already attached to another builder", p.Name())
		}

		a.attach(b)
	}

	b.passes = append(b.passes, p)

	return nil
}

// DeletePass detaches and forgets p. p == nil is ErrInvalidArgument.
func (b *Builder) DeletePass(p Pass) error {
	if p == nil {
		return errors.Wrap(ErrInvalidArgument, "delete_pass(nil)")
	}

	for i, existing := range b.passes {
		if existing != p {
			continue
		}

		b.passes = append(b.passes[:i], b.passes[i+1:]...)

		if a, ok := p.(attacher); ok {
			a.detach()
		}

		return nil
	}

	return nil
}

// RunPasses returns the latched error, if any, without running anything;
// otherwise it runs every registered pass in order against the freshly
// reset scratch arena, stopping at the first error. The scratch arena is reset once more after the loop either way
// (spec.md §4.5).
func (b *Builder) RunPasses() error {
	if b.err != nil {
		return b.err
	}

	var runErr error

	dump := tlog.If("pass_name")

	for _, p := range b.passes {
		b.scratchArena.Reset(false)

		if dump {
			tlog.Printw("run pass", "pass_name", p.Name())
		}

		if err := p.Run(b.scratchArena); err != nil {
			runErr = errors.Wrap(err, "pass %q", p.Name())
			break
		}
	}

	b.scratchArena.Reset(false)

	if runErr != nil {
		return b.fail(runErr)
	}

	return nil
}
