// Package apperr defines the sentinel error taxonomy shared by the
// access, reaction and notification code paths. Handlers translate these
// into HTTP statuses at the edge with errors.Is.
package apperr

import "errors"

var (
	// ErrUnauthenticated means no verified actor identity was present on
	// a request that requires one.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidArgument means a malformed reaction kind or id.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound means the memorial id does not resolve to any record.
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied means the viewer lacks permission. Kept distinct
	// from ErrNotFound internally even though private memorials render
	// both the same way to unauthorized viewers.
	ErrAccessDenied = errors.New("access denied")

	// ErrConflict marks a duplicate write that lost a race. The reaction
	// toggle swallows it and reports a normal "added".
	ErrConflict = errors.New("conflict")

	// ErrDependencyFailure marks best-effort work against a secondary
	// store (notification bookkeeping, condolence sweeps) that failed.
	// Logged, never surfaced to the caller of the triggering action.
	ErrDependencyFailure = errors.New("dependency failure")
)
