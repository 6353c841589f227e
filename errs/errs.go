// Package errs contains sentinel errors used across the engine for stable error matching.
package errs

import "errors"

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConstraint indicates a reference to a nonexistent parent or owning album,
	// or an otherwise invalid field value.
	ErrConstraint = errors.New("constraint violation")

	// ErrEmptyName indicates an album name that is empty or whitespace-only.
	ErrEmptyName = errors.New("empty album name")

	// ErrCycle indicates a reparent that would make an album its own ancestor.
	ErrCycle = errors.New("album cycle")

	// ErrRepair indicates a best-effort cover repair failed after the primary
	// mutation already committed. The mutation itself stands; RepairAll recovers.
	ErrRepair = errors.New("cover repair failed")
)
