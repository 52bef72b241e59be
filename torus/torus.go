// Package torus closes an open chain along one dimension into a ring,
// searching for the shortest return path through currently-free midplanes
// ("passthrough") that are not members of the block being allocated.
//
// Close is a bounded depth-first search carrying a mutable incumbent
// best path: an engine struct holds the current path, the best path
// found so far, and a prune bound equal to the best hop count seen;
// depth >= bound prunes a branch. The engine is constructed fresh per
// call, never package-global, so Close is reentrant.
//
// Close is written against PortBack/PortFwd hops only, on whichever
// dimension it is asked to close (the X-path finder calls it for the long
// axis; yzwire's Y/Z ring closing reuses the same engine rather than
// duplicating the bounded search). The origin switch is the ring's
// terminal: commit programs its endpoint ports there, PortStart paired
// with the chain's depart port and PortEnd with the return path's
// arrival port, the same 0/1 convention a mesh line puts on its two end
// switches collapsed onto the one switch that closes the torus.
package torus

import (
	"errors"

	"github.com/torusgrid/blockalloc/grid"
)

// Sentinel errors for Close.
var (
	// ErrNoFit indicates no return path exists through free, non-member
	// midplanes.
	ErrNoFit = errors.New("torus: no closing path found")

	// ErrPassthroughForbidden indicates the shortest closing path found
	// requires passing through a midplane on an axis the caller forbade.
	ErrPassthroughForbidden = errors.New("torus: closing path requires a forbidden passthrough")
)

// hop is one step recorded during the search: Coord is the switch being
// programmed, InPort is the port the signal arrives on, OutPort is the
// port it departs on.
type hop struct {
	Coord          grid.Coord
	InPort, OutPort int
}

// Closure is a committed ring closure: the intermediate passthrough
// coordinates (excluding Last and Origin themselves) and every wire edit
// Close made, for the caller's rollback log.
type Closure struct {
	Passthrough []grid.Coord
	Edits       []grid.WireEdit
}

// Close searches from last back to origin along axis, through midplanes
// not present in members and currently free. lastInPort is the port at
// last already used to arrive there from the open chain's interior;
// originDepartPort is the port at origin already used departing toward the
// open chain's first hop. denyAxis, if true, rejects a closure that
// requires any passthrough.
//
// Complexity: O(b^d) worst case where d is bounded by the axis extent and
// b<=2 (PortBack/PortFwd); in practice the incumbent bound prunes almost
// every branch once any closure is found.
func Close(g *grid.Grid, axis grid.Axis, origin, last grid.Coord, lastInPort, originDepartPort int, members []grid.Coord, denyAxis bool) (Closure, error) {
	originSw := g.MustAt(origin).Switch(axis)
	if originSw.PortUsed(grid.PortStart) || originSw.PortUsed(grid.PortEnd) {
		return Closure{}, ErrNoFit
	}

	e := &closerEngine{
		g:                g,
		axis:             axis,
		origin:           origin,
		originDepartPort: originDepartPort,
		members:          toSet(members),
		visited:          map[grid.Coord]bool{last: true},
		bestCount:        1 << 30,
	}

	e.dfs(last, lastInPort, 0)

	if e.bestPath == nil {
		return Closure{}, ErrNoFit
	}
	if denyAxis && len(e.bestPath) > 1 {
		return Closure{}, ErrPassthroughForbidden
	}

	return commit(g, axis, e, origin)
}

type closerEngine struct {
	g                *grid.Grid
	axis             grid.Axis
	origin           grid.Coord
	originDepartPort int
	members          map[grid.Coord]bool

	path      []hop
	visited   map[grid.Coord]bool
	bestPath  []hop
	bestCount int
	closePort int
}

func (e *closerEngine) dfs(cur grid.Coord, inPort, depth int) {
	if depth >= e.bestCount {
		return
	}

	sw := e.g.MustAt(cur).Switch(e.axis)
	for _, outPort := range [2]int{grid.PortBack, grid.PortFwd} {
		if outPort == inPort || sw.PortUsed(outPort) {
			continue
		}
		ext := sw.External[outPort]

		if ext.NodeTar == e.origin {
			originSw := e.g.MustAt(e.origin).Switch(e.axis)
			closeInPort := ext.PortTar
			if closeInPort == e.originDepartPort || originSw.PortUsed(closeInPort) {
				continue
			}
			if depth+1 < e.bestCount {
				e.bestCount = depth + 1
				e.bestPath = append(append([]hop{}, e.path...), hop{Coord: cur, InPort: inPort, OutPort: outPort})
				e.closePort = closeInPort
			}
			continue
		}

		if e.visited[ext.NodeTar] || e.members[ext.NodeTar] {
			continue
		}
		nb := e.g.MustAt(ext.NodeTar)
		if !nb.Usable() {
			continue
		}
		nbSw := nb.Switch(e.axis)
		if nbSw.PortUsed(ext.PortTar) {
			continue
		}

		e.visited[ext.NodeTar] = true
		e.path = append(e.path, hop{Coord: cur, InPort: inPort, OutPort: outPort})
		e.dfs(ext.NodeTar, ext.PortTar, depth+1)
		e.path = e.path[:len(e.path)-1]
		delete(e.visited, ext.NodeTar)
	}
}

// commit programs the winning path's internal wires, then the two
// endpoint pairs on the origin switch: PortStart against the chain's
// depart port and PortEnd against the return path's arrival port (the
// 1↔5-or-equivalent closing pair). It rolls back its own edits and
// returns ErrNoFit if any port was claimed between search and commit
// (cannot happen under the single-threaded caller contract, but the
// check keeps commit itself honest rather than trusting stale state).
func commit(g *grid.Grid, axis grid.Axis, e *closerEngine, origin grid.Coord) (Closure, error) {
	var edits []grid.WireEdit
	var passthrough []grid.Coord

	for _, h := range e.bestPath {
		if err := g.MustAt(h.Coord).Switch(axis).Pair(h.InPort, h.OutPort); err != nil {
			undo(g, axis, edits)
			return Closure{}, ErrNoFit
		}
		edits = append(edits, grid.WireEdit{Coord: h.Coord, Axis: axis, Port: h.InPort})
		if h.Coord != origin && !e.members[h.Coord] {
			passthrough = append(passthrough, h.Coord)
		}
	}

	originSw := g.MustAt(origin).Switch(axis)
	if err := originSw.Pair(grid.PortStart, e.originDepartPort); err != nil {
		undo(g, axis, edits)
		return Closure{}, ErrNoFit
	}
	edits = append(edits, grid.WireEdit{Coord: origin, Axis: axis, Port: grid.PortStart})

	if err := originSw.Pair(e.closePort, grid.PortEnd); err != nil {
		undo(g, axis, edits)
		return Closure{}, ErrNoFit
	}
	edits = append(edits, grid.WireEdit{Coord: origin, Axis: axis, Port: e.closePort})

	return Closure{Passthrough: passthrough, Edits: edits}, nil
}

func undo(g *grid.Grid, axis grid.Axis, edits []grid.WireEdit) {
	for i := len(edits) - 1; i >= 0; i-- {
		g.MustAt(edits[i].Coord).Switch(axis).Unpair(edits[i].Port)
	}
}

func toSet(coords []grid.Coord) map[grid.Coord]bool {
	s := make(map[grid.Coord]bool, len(coords))
	for _, c := range coords {
		s[c] = true
	}
	return s
}
