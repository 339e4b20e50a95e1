package tree

import "errors"

// The error taxonomy below is checked with errors.Is by callers; the
// core never wraps these itself (see SPEC_FULL.md §7) — adding path
// context is the caller's job.
var (
	// ErrInvalid is returned when a supplied path fails syntactic
	// validation.
	ErrInvalid = errors.New("dirtree: invalid path")
	// ErrBusy is returned when Remove or Move targets the root as a
	// source.
	ErrBusy = errors.New("dirtree: operation not permitted on root")
	// ErrNotExist is returned when a component along a resolved path
	// is absent.
	ErrNotExist = errors.New("dirtree: no such directory")
	// ErrExist is returned when a create or move target already
	// exists, or when a move target's ancestor chain includes the
	// source.
	ErrExist = errors.New("dirtree: already exists")
	// ErrNotEmpty is returned when Remove targets a directory that
	// still has children.
	ErrNotEmpty = errors.New("dirtree: directory not empty")
	// ErrCycle is returned when a move's target lies strictly under
	// its source, which would nest the source under itself.
	ErrCycle = errors.New("dirtree: target is inside source")
)
