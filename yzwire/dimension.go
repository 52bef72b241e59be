package yzwire

import (
	"errors"
	"sort"

	"github.com/torusgrid/blockalloc/geometry"
	"github.com/torusgrid/blockalloc/grid"
	"github.com/torusgrid/blockalloc/torus"
)

// lineKey identifies one line of coords along axis: the two coordinates
// not on axis.
type lineKey struct {
	a, b int
}

// wireDimension groups coords into lines along axis and programs each
// line's switch of that axis: a single-member line gets the trivial
// PortStart<->PortEnd pair, a multi-member line gets PortBack<->PortFwd
// at every interior member, then either a mesh PortStart/PortEnd
// termination or a torus.Close ring closure at the two ends, following
// the same port convention xpath/torus use on X.
func wireDimension(g *grid.Grid, coords []grid.Coord, axis grid.Axis, connType geometry.ConnType, denyPass geometry.DenyPass) ([]grid.WireEdit, bool, error) {
	lines := groupByLine(coords, axis)

	var edits []grid.WireEdit
	var passthrough bool
	for _, line := range lines {
		lineEdits, linePass, err := wireLine(g, line, axis, connType, denyPass.Has(axis))
		if err != nil {
			undo(g, edits)
			return nil, false, err
		}
		edits = append(edits, lineEdits...)
		passthrough = passthrough || linePass
	}
	return edits, passthrough, nil
}

func wireLine(g *grid.Grid, line []grid.Coord, axis grid.Axis, connType geometry.ConnType, denyAxis bool) ([]grid.WireEdit, bool, error) {
	var edits []grid.WireEdit

	if len(line) == 1 {
		sw := g.MustAt(line[0]).Switch(axis)
		if err := sw.Pair(grid.PortStart, grid.PortEnd); err != nil {
			return nil, false, err
		}
		return []grid.WireEdit{{Coord: line[0], Axis: axis, Port: grid.PortStart}}, false, nil
	}

	for i := 1; i < len(line)-1; i++ {
		sw := g.MustAt(line[i]).Switch(axis)
		if err := sw.Pair(grid.PortBack, grid.PortFwd); err != nil {
			undo(g, edits)
			return nil, false, err
		}
		edits = append(edits, grid.WireEdit{Coord: line[i], Axis: axis, Port: grid.PortBack})
	}

	first, last := line[0], line[len(line)-1]

	if connType != geometry.Torus {
		firstSw := g.MustAt(first).Switch(axis)
		if err := firstSw.Pair(grid.PortStart, grid.PortFwd); err != nil {
			undo(g, edits)
			return nil, false, err
		}
		edits = append(edits, grid.WireEdit{Coord: first, Axis: axis, Port: grid.PortStart})

		lastSw := g.MustAt(last).Switch(axis)
		if err := lastSw.Pair(grid.PortBack, grid.PortEnd); err != nil {
			undo(g, edits)
			return nil, false, err
		}
		edits = append(edits, grid.WireEdit{Coord: last, Axis: axis, Port: grid.PortBack})
		return edits, false, nil
	}

	closure, err := torus.Close(g, axis, first, last, grid.PortBack, grid.PortFwd, line, denyAxis)
	if err != nil {
		undo(g, edits)
		if errors.Is(err, torus.ErrPassthroughForbidden) {
			return nil, false, ErrPassthroughForbidden
		}
		return nil, false, err
	}
	edits = append(edits, closure.Edits...)
	return edits, len(closure.Passthrough) > 0, nil
}

func groupByLine(coords []grid.Coord, axis grid.Axis) [][]grid.Coord {
	byKey := make(map[lineKey][]grid.Coord)
	var order []lineKey

	for _, c := range coords {
		var k lineKey
		switch axis {
		case grid.AxisX:
			k = lineKey{c.Y, c.Z}
		case grid.AxisY:
			k = lineKey{c.X, c.Z}
		default:
			k = lineKey{c.X, c.Y}
		}
		if _, ok := byKey[k]; !ok {
			order = append(order, k)
		}
		byKey[k] = append(byKey[k], c)
	}

	lines := make([][]grid.Coord, 0, len(order))
	for _, k := range order {
		line := byKey[k]
		sort.Slice(line, func(i, j int) bool { return line[i].Get(axis) < line[j].Get(axis) })
		lines = append(lines, line)
	}
	return lines
}
