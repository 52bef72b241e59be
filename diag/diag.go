// Package diag produces operator-visualization snapshots of a grid: a
// dense numeric usage matrix per Z layer (for tooling that wants to
// diff or aggregate state) and a letter map rendering (for a human
// squinting at a terminal). Read-only; nothing here mutates the grid.
package diag

import (
	"strings"

	"github.com/katalvlaran/lvlath/matrix"

	"github.com/torusgrid/blockalloc/grid"
)

// Usage codes stored in snapshot matrices. Kept as small integers so a
// matrix diff between two snapshots highlights exactly the midplanes
// whose usage changed.
const (
	CodeFree      = 0
	CodeAllocated = 1
	CodeUnusable  = 2
	CodeTransient = 3
)

// Report is one point-in-time snapshot: Layers[z] is a Dx×Dy matrix of
// usage codes (row = x, column = y), and Blocks maps each committed block
// name to the display letter its midplanes carry.
type Report struct {
	Layers []*matrix.Dense
	Blocks map[string]byte
}

// Snapshot captures the grid's current usage into a Report.
//
// Complexity: O(Dx*Dy*Dz).
func Snapshot(g *grid.Grid) (Report, error) {
	rep := Report{
		Layers: make([]*matrix.Dense, g.Dz),
		Blocks: make(map[string]byte),
	}

	for z := 0; z < g.Dz; z++ {
		layer, err := matrix.NewDense(g.Dx, g.Dy)
		if err != nil {
			return Report{}, err
		}
		rep.Layers[z] = layer
	}

	var walkErr error
	g.ForEach(func(m *grid.Midplane) {
		if walkErr != nil {
			return
		}
		if err := rep.Layers[m.Coord.Z].Set(m.Coord.X, m.Coord.Y, float64(usageCode(m.Usage))); err != nil {
			walkErr = err
			return
		}
		if m.BlockName != "" && m.Letter != 0 {
			rep.Blocks[m.BlockName] = m.Letter
		}
	})
	if walkErr != nil {
		return Report{}, walkErr
	}

	return rep, nil
}

func usageCode(u grid.UsageState) int {
	switch u {
	case grid.Allocated:
		return CodeAllocated
	case grid.Unusable:
		return CodeUnusable
	case grid.Transient:
		return CodeTransient
	default:
		return CodeFree
	}
}

// Render draws the grid as one letter map per Z layer: the block letter
// for allocated midplanes, '.' for free, '#' for administratively
// unusable, '~' for transient. Rows run along X, columns along Y, layers
// are separated by a blank line.
func Render(g *grid.Grid) string {
	var b strings.Builder
	for z := 0; z < g.Dz; z++ {
		if z > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < g.Dx; x++ {
			for y := 0; y < g.Dy; y++ {
				b.WriteByte(cellGlyph(g.MustAt(grid.Coord{X: x, Y: y, Z: z})))
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func cellGlyph(m *grid.Midplane) byte {
	switch m.Usage {
	case grid.Allocated:
		if m.Letter != 0 {
			return m.Letter
		}
		return '+'
	case grid.Unusable:
		return '#'
	case grid.Transient:
		return '~'
	default:
		return '.'
	}
}
