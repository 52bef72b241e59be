// Package wireinit populates the external-wire endpoints of a grid.Grid
// before any allocation can run.
//
// Two entry points separate "generate a canonical shape" from "validate
// and merge caller-supplied data":
//
//   - Emulate wires a simulated grid deterministically from coordinate
//     adjacency, wrapping at the grid boundary on every axis.
//   - Import ingests endpoints supplied by a hardware inventory, validating
//     every pair before committing any of them.
//
// Both run once, before any allocate/remove/reset call; calling either a
// second time on an already-wired grid returns ErrAlreadyWired.
//
// Errors:
//
//   - ErrAlreadyWired: the grid already has external wiring populated.
//   - ErrConflict: an inventory endpoint double-uses a port, or its two
//     endpoints disagree about the reverse mapping.
//   - ErrOutOfRange: an inventory endpoint names a coordinate outside the
//     grid.
package wireinit

import (
	"errors"
	"strconv"

	"github.com/torusgrid/blockalloc/grid"
)

// Sentinel errors for wireinit operations.
var (
	ErrAlreadyWired = errors.New("wireinit: grid already wired")
	ErrConflict     = errors.New("wireinit: conflicting wiring endpoints")
	ErrOutOfRange   = errors.New("wireinit: endpoint coordinate out of range")
)

// Endpoint is one externally-supplied cable: a port on Coord's switch for
// dimension Dim is wired to port PortTar on NeighborTar's switch for the
// same dimension.
type Endpoint struct {
	Coord       grid.Coord
	Dim         grid.Axis
	Port        int
	NeighborTar grid.Coord
	PortTar     int
}

// wired reports whether g already has any external wiring set, by
// checking whether the origin midplane's X-switch has any external
// target recorded. Used to reject a second Emulate/Import call.
func wired(g *grid.Grid) bool {
	m, err := g.At(grid.Coord{})
	if err != nil {
		return false
	}
	sw := m.Switch(grid.AxisX)
	for p := 0; p < grid.NumPorts; p++ {
		if sw.External[p] != (grid.ExternalWire{}) {
			return true
		}
	}
	return false
}

// Emulate wires every midplane's external ports deterministically from
// coordinate adjacency: for axis a, a midplane's PortFwd cable always
// leads to its +1 (mod extent) neighbor's PortBack, and its PortFoldB/
// PortFoldA cables lead to the +2/-2 neighbors (the "fold" pair used to
// close an odd-length torus without passing through every intermediate
// midplane). This stands in for a hardware inventory when the grid is
// simulated rather than hardware-backed.
//
// Complexity: O(Dx*Dy*Dz*NumAxes).
func Emulate(g *grid.Grid) error {
	if wired(g) {
		return ErrAlreadyWired
	}

	g.ForEach(func(m *grid.Midplane) {
		for a := grid.Axis(0); a < grid.NumAxes; a++ {
			sw := m.Switch(a)
			sw.Dim = a

			fwd := g.Neighbor(m.Coord, a, +1)
			back := g.Neighbor(m.Coord, a, -1)
			sw.External[grid.PortFwd] = grid.ExternalWire{NodeTar: fwd, PortTar: grid.PortBack}
			sw.External[grid.PortBack] = grid.ExternalWire{NodeTar: back, PortTar: grid.PortFwd}

			if a == grid.AxisX {
				fwd2 := g.Neighbor(fwd, a, +1)
				back2 := g.Neighbor(back, a, -1)
				sw.External[grid.PortFoldB] = grid.ExternalWire{NodeTar: fwd2, PortTar: grid.PortFoldA}
				sw.External[grid.PortFoldA] = grid.ExternalWire{NodeTar: back2, PortTar: grid.PortFoldB}
			}
		}
	})

	return nil
}

// Import ingests inventory-supplied endpoints, validating the full batch
// before mutating the grid (all-or-nothing, like
// query.CheckAndSetNodeList's merge semantics). Every endpoint must name
// in-range coordinates, and every pair of endpoints that reference each
// other must agree on the reverse mapping: if (c,dim,p) ->
// (c',p') appears and the batch also has an endpoint at (c',dim,p'), that
// endpoint must lead back to (c,p). An endpoint whose reverse is absent
// from the batch is accepted as given.
//
// Complexity: O(len(endpoints)).
func Import(g *grid.Grid, endpoints []Endpoint) error {
	if wired(g) {
		return ErrAlreadyWired
	}

	seen := make(map[string]Endpoint, len(endpoints))
	for _, e := range endpoints {
		if !g.InBounds(e.Coord) || !g.InBounds(e.NeighborTar) {
			return ErrOutOfRange
		}
		if e.Port < 0 || e.Port >= grid.NumPorts || e.PortTar < 0 || e.PortTar >= grid.NumPorts {
			return ErrOutOfRange
		}
		key := endpointKey(e.Coord, e.Dim, e.Port)
		if _, dup := seen[key]; dup {
			return ErrConflict
		}
		seen[key] = e
	}

	for _, e := range endpoints {
		revKey := endpointKey(e.NeighborTar, e.Dim, e.PortTar)
		if rev, ok := seen[revKey]; ok {
			if rev.NeighborTar != e.Coord || rev.PortTar != e.Port {
				return ErrConflict
			}
		}
	}

	for _, e := range endpoints {
		m := g.MustAt(e.Coord)
		sw := m.Switch(e.Dim)
		sw.Dim = e.Dim
		sw.External[e.Port] = grid.ExternalWire{NodeTar: e.NeighborTar, PortTar: e.PortTar}
	}

	return nil
}

func endpointKey(c grid.Coord, dim grid.Axis, port int) string {
	return c.String() + "|" + dim.String() + "|" + strconv.Itoa(port)
}
