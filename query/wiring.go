package query

import (
	"errors"

	"github.com/torusgrid/blockalloc/baerr"
	"github.com/torusgrid/blockalloc/grid"
)

// Sentinel errors for wiring ingest.
var (
	// ErrWireConflict indicates an ingest would double-use an internal
	// port, or a midplane it names is not free.
	ErrWireConflict = errors.New("query: wiring conflicts with current grid")

	// ErrWireOutOfRange indicates an ingest names a coordinate outside the
	// grid or a port outside [0,NumPorts).
	ErrWireOutOfRange = errors.New("query: wiring endpoint out of range")
)

// Conn is one internal wire of an inventory-supplied switch definition:
// the signal entering on PortA leaves on PortB and vice versa, since
// every internal wire is a symmetric pair.
type Conn struct {
	PortA, PortB int
}

// SwitchDef names one switch of an externally-defined block and the
// internal wires it carries.
type SwitchDef struct {
	Coord grid.Coord
	Dim   grid.Axis
	Conns []Conn
}

// NodeDef is one midplane of an externally-supplied node list: its
// coordinate, the coarse state the inventory reports for it, and any
// internal wiring to merge onto its switches.
type NodeDef struct {
	Coord  grid.Coord
	State  grid.CoarseState
	Wiring []SwitchDef
}

// LoadBlockWiring ingests a named block defined by an external inventory:
// it walks the block's switches and connections, validates every wire's
// two ports, and sets both internal ports used. The whole batch is
// validated before any port is set; a conflict anywhere rejects the
// entire block and leaves the grid untouched. On success every midplane
// the definitions touch is marked Allocated under name.
func LoadBlockWiring(g *grid.Grid, name string, defs []SwitchDef) ([]grid.WireEdit, error) {
	if err := validateDefs(g, defs); err != nil {
		return nil, err
	}

	var edits []grid.WireEdit
	touched := make(map[grid.Coord]bool)
	for _, def := range defs {
		sw := g.MustAt(def.Coord).Switch(def.Dim)
		for _, conn := range def.Conns {
			if err := sw.Pair(conn.PortA, conn.PortB); err != nil {
				undoEdits(g, edits)
				return nil, baerr.Wrap(baerr.KindConflict, ErrWireConflict)
			}
			edits = append(edits, grid.WireEdit{Coord: def.Coord, Axis: def.Dim, Port: conn.PortA})
		}
		touched[def.Coord] = true
	}

	for c := range touched {
		m := g.MustAt(c)
		m.Usage = grid.Allocated
		m.BlockName = name
	}

	return edits, nil
}

// CheckAndSetNodeList atomically verifies that an externally-supplied
// node list does not conflict with the current grid (every coordinate in
// bounds and free, every wire's ports unused) and, only if the whole
// list passes, merges it in: coarse states are applied and internal wires
// set. A list that fails verification leaves the grid exactly as found.
func CheckAndSetNodeList(g *grid.Grid, nodes []NodeDef) error {
	for _, n := range nodes {
		m, err := g.At(n.Coord)
		if err != nil {
			return baerr.Wrap(baerr.KindConflict, ErrWireOutOfRange)
		}
		if m.Usage != grid.Free {
			return baerr.Wrap(baerr.KindConflict, ErrWireConflict)
		}
		if err := validateDefs(g, n.Wiring); err != nil {
			return err
		}
	}

	var edits []grid.WireEdit
	for _, n := range nodes {
		for _, def := range n.Wiring {
			sw := g.MustAt(def.Coord).Switch(def.Dim)
			for _, conn := range def.Conns {
				if err := sw.Pair(conn.PortA, conn.PortB); err != nil {
					undoEdits(g, edits)
					return baerr.Wrap(baerr.KindConflict, ErrWireConflict)
				}
				edits = append(edits, grid.WireEdit{Coord: def.Coord, Axis: def.Dim, Port: conn.PortA})
			}
		}
	}
	for _, n := range nodes {
		g.MustAt(n.Coord).State = n.State
	}

	return nil
}

// validateDefs checks bounds, port ranges, port freedom against the live
// grid, and double-claims within the batch itself, without mutating
// anything.
func validateDefs(g *grid.Grid, defs []SwitchDef) error {
	type portKey struct {
		c    grid.Coord
		dim  grid.Axis
		port int
	}
	claimed := make(map[portKey]bool)

	for _, def := range defs {
		m, err := g.At(def.Coord)
		if err != nil {
			return baerr.Wrap(baerr.KindConflict, ErrWireOutOfRange)
		}
		sw := m.Switch(def.Dim)
		for _, conn := range def.Conns {
			for _, p := range [2]int{conn.PortA, conn.PortB} {
				if p < 0 || p >= grid.NumPorts {
					return baerr.Wrap(baerr.KindConflict, ErrWireOutOfRange)
				}
				if sw.PortUsed(p) {
					return baerr.Wrap(baerr.KindConflict, ErrWireConflict)
				}
				k := portKey{def.Coord, def.Dim, p}
				if claimed[k] {
					return baerr.Wrap(baerr.KindConflict, ErrWireConflict)
				}
				claimed[k] = true
			}
		}
	}
	return nil
}

func undoEdits(g *grid.Grid, edits []grid.WireEdit) {
	for i := len(edits) - 1; i >= 0; i-- {
		g.MustAt(edits[i].Coord).Switch(edits[i].Axis).Unpair(edits[i].Port)
	}
}
