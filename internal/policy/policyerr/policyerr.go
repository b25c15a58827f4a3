// Package policyerr defines the sentinel error kinds surfaced across the
// policy engine, matching spec.md §7's error taxonomy. Components wrap
// these with fmt.Errorf("...: %w", ...) rather than inventing new kinds.
package policyerr

import "errors"

var (
	// ErrInvalidArgument covers malformed mode flags and negative
	// descriptors.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound covers exhausted search-path resolution and missing
	// files under EXISTING canonicalization.
	ErrNotFound = errors.New("not found")
	// ErrNotADirectory covers a mid-path component that is not a
	// directory while more input remains.
	ErrNotADirectory = errors.New("not a directory")
	// ErrLoop covers symlink cycle detection.
	ErrLoop = errors.New("symlink loop")
	// ErrNoMemory covers a symlink target exceeding the read-link size
	// ceiling.
	ErrNoMemory = errors.New("link target too large")
	// ErrPermissionDenied covers policy refusals (the allowed half of a
	// decision is empty) and path-walk EACCES.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrDispatchFailed wraps the raw errno returned by an underlying
	// image-replacement call.
	ErrDispatchFailed = errors.New("dispatch failed")
)
