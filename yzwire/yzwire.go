// Package yzwire extends an X-path seed list into a full cuboid across the
// Y and Z extents, replicates the seed's X-wiring into every new member
// (CopyPath), and programs the Y and Z switches of every member as either
// a mesh (open, terminated) or torus (closed, reusing torus.Close) line.
package yzwire

import (
	"errors"

	"github.com/torusgrid/blockalloc/geometry"
	"github.com/torusgrid/blockalloc/grid"
)

// Sentinel errors for yzwire operations.
var (
	// ErrOffGrid indicates an offset landed outside the grid's extent.
	ErrOffGrid = errors.New("yzwire: offset midplane is off-grid")

	// ErrOccupied indicates an offset midplane required by the shape is
	// not free.
	ErrOccupied = errors.New("yzwire: offset midplane is not free")

	// ErrCopyConflict indicates CopyPath found an already-used port on the
	// target switch.
	ErrCopyConflict = errors.New("yzwire: target port already in use")

	// ErrPassthroughForbidden indicates a Y or Z torus closure needed a
	// passthrough on an axis the caller forbade.
	ErrPassthroughForbidden = errors.New("yzwire: closing requires a forbidden passthrough")
)

// Result accumulates every midplane and wire edit Fill produced, for the
// caller's commit/rollback bookkeeping. Passthrough marks which of Y/Z
// ended up routing through a non-member midplane to close a torus line.
type Result struct {
	Coords      []grid.Coord
	Edits       []grid.WireEdit
	Passthrough geometry.DenyPass
}

// Fill takes the X-path seed list and extends it across [0,gy)x[0,gz). The
// seed chain's origin (xSeeds[0]) is copied, as a whole, to the origin of
// every other (y,z) offset via a single CopyPath call per offset: CopyPath
// walks the full chain and replicates every hop's pairing onto the
// corresponding member of the target row, so it must be called once per
// row rather than once per member. Once every row is copied, every
// member's Y and Z switches are programmed. On any failure Fill rolls
// back everything this call did and returns the error describing why.
//
// Complexity: O(gy*gz) CopyPath calls, each O(Dx) in the worst case, plus
// O(Dy+Dz) per member for the Y/Z wiring step.
func Fill(g *grid.Grid, xSeeds []grid.Coord, gy, gz int, connType geometry.ConnType, denyPass geometry.DenyPass) (Result, error) {
	res := Result{Coords: append([]grid.Coord{}, xSeeds...)}
	chainLen := len(xSeeds)
	origin := xSeeds[0]

	for dy := 0; dy < gy; dy++ {
		for dz := 0; dz < gz; dz++ {
			if dy == 0 && dz == 0 {
				continue
			}

			row := make([]grid.Coord, chainLen)
			for i, seed := range xSeeds {
				target := grid.Coord{X: seed.X, Y: seed.Y + dy, Z: seed.Z + dz}
				if !g.InBounds(target) {
					undo(g, res.Edits)
					return Result{}, ErrOffGrid
				}
				m, err := g.At(target)
				if err != nil || !m.Usable() {
					undo(g, res.Edits)
					return Result{}, ErrOccupied
				}
				row[i] = target
			}

			rowOrigin := grid.Coord{X: origin.X, Y: origin.Y + dy, Z: origin.Z + dz}
			edits, err := CopyPath(g, origin, rowOrigin)
			if err != nil {
				undo(g, res.Edits)
				return Result{}, err
			}
			res.Edits = append(res.Edits, edits...)
			res.Coords = append(res.Coords, row...)
		}
	}

	for _, axis := range [2]grid.Axis{grid.AxisY, grid.AxisZ} {
		edits, passthrough, err := wireDimension(g, res.Coords, axis, connType, denyPass)
		if err != nil {
			undo(g, res.Edits)
			return Result{}, err
		}
		res.Edits = append(res.Edits, edits...)
		if passthrough {
			res.Passthrough |= 1 << axis
		}
	}

	return res, nil
}

func undo(g *grid.Grid, edits []grid.WireEdit) {
	for i := len(edits) - 1; i >= 0; i-- {
		g.MustAt(edits[i].Coord).Switch(edits[i].Axis).Unpair(edits[i].Port)
	}
}
