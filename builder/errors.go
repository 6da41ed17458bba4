package builder

import "tlog.app/go/errors"

// Sentinel errors for the kinds spec.md §7 requires every implementation to
// surface. Forwarded collaborator errors (code-holder, downstream emitter)
// are wrapped with errors.Wrap rather than replaced by one of these.
var (
	// ErrInvalidLabel is returned for a label id outside the labels range,
	// or a bind of an invalid label.
	ErrInvalidLabel = errors.New("invalid label")

	// ErrInvalidArgument is returned by, e.g., DeletePass(nil).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState is returned when a pass is already attached to a
	// different builder.
	ErrInvalidState = errors.New("invalid state")
)
