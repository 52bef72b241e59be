package geometry

import "errors"

// Sentinel errors for geometry operations.
var (
	// ErrInvalidSize indicates a size-based request's n was non-positive.
	ErrInvalidSize = errors.New("geometry: size must be positive")

	// ErrNoCandidates indicates every generated shape exceeded the grid's
	// extent in some axis; Plan returns this alongside a nil slice.
	ErrNoCandidates = errors.New("geometry: no candidate geometry fits the grid")
)
