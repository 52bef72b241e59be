// Package hostlist renders and parses the compact range encoding used to
// name a block: each midplane coordinate is three base-36 digits (X, Y,
// Z in that order, digits 0-9A-Z), a cuboid is a "[AAAxBBB]" corner
// pair, and a list is comma-separated entries inside brackets.
//
// The package owns no grid state; Encode/Parse are pure
// string<->coordinate conversions.
package hostlist

import (
	"errors"
	"fmt"
	"strings"

	"github.com/torusgrid/blockalloc/grid"
)

// Base is the positional base used uniformly across all three axes
// (HOSTLIST_BASE), large enough to cover any plausible per-axis extent.
const Base = 36

// Sentinel errors for hostlist operations.
var (
	// ErrOutOfRange indicates a coordinate component does not fit in one
	// base-36 digit, or falls outside the grid bounds passed to Parse.
	ErrOutOfRange = errors.New("hostlist: coordinate out of range")

	// ErrMalformed indicates the input string is not a valid coordinate,
	// range, or list.
	ErrMalformed = errors.New("hostlist: malformed hostlist string")
)

func digit(n int) (byte, bool) {
	switch {
	case n < 0 || n >= Base:
		return 0, false
	case n < 10:
		return byte('0' + n), true
	default:
		return byte('A' + n - 10), true
	}
}

func value(b byte) (int, bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), true
	case b >= 'A' && b <= 'Z':
		return int(b-'A') + 10, true
	default:
		return 0, false
	}
}

// EncodeCoord renders c as three base-36 digits.
func EncodeCoord(c grid.Coord) (string, error) {
	xb, ok1 := digit(c.X)
	yb, ok2 := digit(c.Y)
	zb, ok3 := digit(c.Z)
	if !ok1 || !ok2 || !ok3 {
		return "", ErrOutOfRange
	}
	return string([]byte{xb, yb, zb}), nil
}

// DecodeCoord parses a three-character base-36 coordinate.
func DecodeCoord(s string) (grid.Coord, error) {
	if len(s) != 3 {
		return grid.Coord{}, ErrMalformed
	}
	x, ok1 := value(s[0])
	y, ok2 := value(s[1])
	z, ok3 := value(s[2])
	if !ok1 || !ok2 || !ok3 {
		return grid.Coord{}, ErrMalformed
	}
	return grid.Coord{X: x, Y: y, Z: z}, nil
}

// EncodeBlock renders a set of coordinates as a save_name: a bare triplet
// for a single midplane, a bracketed "[AAAxBBB]" corner pair when the set
// is exactly the cuboid spanned by its min and max corner (the common
// case), or a bracketed comma list of triplets when it is not (a
// passthrough-skip allocation leaves gaps along X, and a corner pair
// would name midplanes the block does not own). coords must be non-empty.
func EncodeBlock(coords []grid.Coord) (string, error) {
	if len(coords) == 0 {
		return "", ErrMalformed
	}

	lo, hi := coords[0], coords[0]
	for _, c := range coords[1:] {
		lo = grid.Coord{X: min(lo.X, c.X), Y: min(lo.Y, c.Y), Z: min(lo.Z, c.Z)}
		hi = grid.Coord{X: max(hi.X, c.X), Y: max(hi.Y, c.Y), Z: max(hi.Z, c.Z)}
	}

	loStr, err := EncodeCoord(lo)
	if err != nil {
		return "", err
	}
	if lo == hi {
		return loStr, nil
	}

	hull := (hi.X - lo.X + 1) * (hi.Y - lo.Y + 1) * (hi.Z - lo.Z + 1)
	if len(coords) == hull {
		hiStr, err := EncodeCoord(hi)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("[%sx%s]", loStr, hiStr), nil
	}

	parts := make([]string, 0, len(coords))
	for _, c := range coords {
		s, err := EncodeCoord(c)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ",")), nil
}

// Parse expands a hostlist string (a bare triplet, a single "[AAAxBBB]"
// range, or a bracketed comma list mixing either form) into the full set
// of coordinates it names, rejecting anything outside [0,dims.X)×
// [0,dims.Y)×[0,dims.Z).
func Parse(s string, dims grid.Coord) ([]grid.Coord, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if s == "" {
		return nil, ErrMalformed
	}

	var out []grid.Coord
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		coords, err := parseToken(tok, dims)
		if err != nil {
			return nil, err
		}
		out = append(out, coords...)
	}
	return out, nil
}

func parseToken(tok string, dims grid.Coord) ([]grid.Coord, error) {
	if idx := strings.IndexByte(tok, 'x'); idx >= 0 {
		lo, err := DecodeCoord(tok[:idx])
		if err != nil {
			return nil, err
		}
		hi, err := DecodeCoord(tok[idx+1:])
		if err != nil {
			return nil, err
		}
		return expandRange(lo, hi, dims)
	}

	c, err := DecodeCoord(tok)
	if err != nil {
		return nil, err
	}
	if !inBounds(c, dims) {
		return nil, ErrOutOfRange
	}
	return []grid.Coord{c}, nil
}

func expandRange(lo, hi grid.Coord, dims grid.Coord) ([]grid.Coord, error) {
	if lo.X > hi.X || lo.Y > hi.Y || lo.Z > hi.Z {
		return nil, ErrMalformed
	}
	if !inBounds(lo, dims) || !inBounds(hi, dims) {
		return nil, ErrOutOfRange
	}

	var out []grid.Coord
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for z := lo.Z; z <= hi.Z; z++ {
				out = append(out, grid.Coord{X: x, Y: y, Z: z})
			}
		}
	}
	return out, nil
}

func inBounds(c grid.Coord, dims grid.Coord) bool {
	return c.X >= 0 && c.X < dims.X && c.Y >= 0 && c.Y < dims.Y && c.Z >= 0 && c.Z < dims.Z
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
