// Package codeholder defines the code-holder contract that Builder consumes
// (spec.md §6) and provides Simple, a minimal reference implementation used
// by tests and cmd/deferasm. The real code-holder — label bookkeeping
// shared across sections, relocations, and the rest of an object-file
// model — is out of scope for this repository; Simple exists only so the
// builder package has something to attach to without a second dependency.
package codeholder

import "tlog.app/go/errors"

// LabelType mirrors the label-type argument named labels carry (global,
// local, anonymous...); its exact vocabulary belongs to the code-holder, not
// to Builder, so it is opaque here beyond being passed through.
type LabelType int

const (
	LabelTypeGlobal LabelType = iota
	LabelTypeLocal
)

// CodeHolder is the subset of the code-holder's interface Builder relies on.
type CodeHolder interface {
	// NewLabelID issues a fresh, previously unused label id.
	NewLabelID() (uint32, error)

	// NewNamedLabelID issues a fresh label id associated with name, type,
	// and an optional parent label (0 if none).
	NewNamedLabelID(name string, typ LabelType, parentID uint32) (uint32, error)

	// LabelsCount returns how many label ids have been issued so far.
	LabelsCount() int

	// IsLabelValid reports whether id was issued by this code-holder.
	IsLabelValid(id uint32) bool
}

// Simple is a minimal CodeHolder: it hands out sequential ids and records
// names for debugging, with no section or relocation bookkeeping.
type Simple struct {
	next  uint32
	names map[uint32]string
}

// NewSimple returns an empty Simple code-holder.
func NewSimple() *Simple {
	return &Simple{names: map[uint32]string{}}
}

// NewLabelID implements CodeHolder.
func (c *Simple) NewLabelID() (uint32, error) {
	id := c.next
	c.next++

	return id, nil
}

// NewNamedLabelID implements CodeHolder.
func (c *Simple) NewNamedLabelID(name string, typ LabelType, parentID uint32) (uint32, error) {
	if parentID != 0 && !c.IsLabelValid(parentID) {
		return 0, errors.New("unknown parent label %d", parentID)
	}

	id, err := c.NewLabelID()
	if err != nil {
		return 0, errors.Wrap(err, "named label %q", name)
	}

	c.names[id] = name

	return id, nil
}

// LabelsCount implements CodeHolder.
func (c *Simple) LabelsCount() int { return int(c.next) }

// IsLabelValid implements CodeHolder.
func (c *Simple) IsLabelValid(id uint32) bool { return id < c.next }

// Name returns the name registered for id via NewNamedLabelID, or "" if id
// is anonymous or unknown.
func (c *Simple) Name(id uint32) string { return c.names[id] }
