// Package baerr defines the coarse error taxonomy surfaced at the allocator
// boundary. Internal packages (grid, xpath, yzwire, torus, query, ...) keep
// their own sentinel errors for errors.Is callers who want the fine-grained
// cause; alloc maps every one of those sentinels onto exactly one Kind here.
package baerr

import "fmt"

// Kind names one of the allocator's coarse failure categories. Callers that
// only need to branch on category (e.g. to pick an exit code) should switch
// on Kind rather than errors.Is against an internal sentinel.
type Kind string

const (
	KindGeometryInvalid      Kind = "geometry-invalid"
	KindStartOutOfRange      Kind = "start-out-of-range"
	KindNoFit                Kind = "no-fit"
	KindPassthroughForbidden Kind = "passthrough-forbidden"
	KindConflict             Kind = "conflict"
	KindLookupFailed         Kind = "lookup-failed"
)

// Error is the structured error every allocator entry point returns on
// failure: a Kind for programmatic branching, an optional human-readable
// Msg, and the wrapped internal cause (for errors.Unwrap/errors.Is).
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an *Error with no wrapped cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap builds an *Error that carries cause as its Unwrap target, so callers
// can still errors.Is against an internal sentinel through the returned
// *Error.
func Wrap(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Err: cause}
}
