package grid

import "errors"

// Sentinel errors for grid operations.
var (
	// ErrBadDims indicates NewGrid was asked to build a grid with a
	// non-positive extent along some axis.
	ErrBadDims = errors.New("grid: dimensions must be positive")

	// ErrOutOfRange indicates a coordinate fell outside the grid bounds.
	ErrOutOfRange = errors.New("grid: coordinate out of range")

	// ErrPortInUse indicates an internal-wire pairing would overwrite an
	// already-used port.
	ErrPortInUse = errors.New("grid: port already in use")
)
