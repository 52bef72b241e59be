package xpath

import "github.com/torusgrid/blockalloc/grid"

// FinalizeMesh terminates an open Result as a mesh line: port PortStart on
// the first switch pairs with the port used to depart toward the second
// midplane, and port PortEnd on the last switch pairs with the port used
// to arrive from the second-to-last midplane. A single-midplane Result
// (len(Coords)==1) pairs
// PortStart<->PortEnd directly on its only switch.
func FinalizeMesh(g *grid.Grid, res Result) ([]grid.WireEdit, error) {
	var edits []grid.WireEdit

	if len(res.Coords) == 1 {
		sw := g.MustAt(res.Coords[0]).Switch(grid.AxisX)
		if err := sw.Pair(grid.PortStart, grid.PortEnd); err != nil {
			return nil, err
		}
		return []grid.WireEdit{{Coord: res.Coords[0], Axis: grid.AxisX, Port: grid.PortStart}}, nil
	}

	first := res.Coords[0]
	firstSw := g.MustAt(first).Switch(grid.AxisX)
	if err := firstSw.Pair(grid.PortStart, res.FirstOutPort); err != nil {
		return nil, err
	}
	edits = append(edits, grid.WireEdit{Coord: first, Axis: grid.AxisX, Port: grid.PortStart})

	last := res.Coords[len(res.Coords)-1]
	lastSw := g.MustAt(last).Switch(grid.AxisX)
	if err := lastSw.Pair(res.LastInPort, grid.PortEnd); err != nil {
		firstSw.Unpair(grid.PortStart)
		return edits[:0], err
	}
	edits = append(edits, grid.WireEdit{Coord: last, Axis: grid.AxisX, Port: res.LastInPort})

	return edits, nil
}
