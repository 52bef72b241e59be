// Package xpath finds a contiguous run of midplanes along the X dimension
// sharing a common (y,z), advancing hop by hop along external wires. The
// walk never branches once a preference order is fixed, so a flat loop
// plus the accumulated result is enough state; all of it is per-call (see
// torus.closerEngine for the bounded-search sibling of this walk).
//
// Two preference orders are offered: AlgoFirst prefers the fold shortcut
// (port PortFoldB) before the plain step (PortFwd); AlgoSecond prefers the
// plain step and additionally tolerates jumping across occupied or
// unusable midplanes by wiring a passthrough segment (PortBack<->PortFwd)
// through those intervening midplanes, which do not become members of
// the block. When the
// grid's X extent has a torus.Lookup entry, its per-hop plan overrides
// the algorithm's fixed preference for that call; extents with no entry
// use the fixed order unchanged.
//
// Errors:
//
//   - ErrNoFit: the walk could not reach the requested count from this
//     seed under this algorithm; every edit this call made is rolled back
//     before returning.
package xpath

import (
	"errors"

	"github.com/torusgrid/blockalloc/grid"
	"github.com/torusgrid/blockalloc/torus"
)

// ErrNoFit indicates Find exhausted its advance options before reaching
// the requested count.
var ErrNoFit = errors.New("xpath: no contiguous run of the requested length")

// Algo selects the out-port preference order used when advancing.
type Algo int

const (
	AlgoFirst Algo = iota
	AlgoSecond
)

func (a Algo) preference() [2]int {
	if a == AlgoFirst {
		return [2]int{grid.PortFoldB, grid.PortFwd}
	}
	return [2]int{grid.PortFwd, grid.PortFoldB}
}

// Result is an open X chain: Coords are the gx members in walk order (the
// two ends are not yet wired), Edits are the interior internal-wire pairs
// Find already committed, and FirstOutPort/LastInPort name the ports a
// caller must use to finalize the two open ends (mesh termination via
// FinalizeMesh, or a torus closure).
type Result struct {
	Coords       []grid.Coord
	Edits        []grid.WireEdit
	FirstOutPort int
	LastInPort   int
	Passthrough  bool
}

// Find walks from seed along X, accepting gx-1 further midplanes under
// algo's port preference.
//
// Complexity: O(gx) in the common case, O(Dx) per hop when AlgoSecond's
// passthrough skip is exercised.
func Find(g *grid.Grid, seed grid.Coord, gx int, algo Algo) (Result, error) {
	if gx <= 0 {
		return Result{}, ErrNoFit
	}
	seedMp, err := g.At(seed)
	if err != nil || !seedMp.Usable() || seedMp.Switch(grid.AxisX).FullyConsumedX() {
		return Result{}, ErrNoFit
	}

	res := Result{Coords: []grid.Coord{seed}, LastInPort: -1}
	if gx == 1 {
		return res, nil
	}

	cur := seed
	inPort := -1 // seed has no incoming port yet; caller finalizes it.
	fixedPref := algo.preference()
	plan, hasPlan := torus.Lookup(g.Dim(grid.AxisX))

	for len(res.Coords) < gx {
		pref := fixedPref
		if hasPlan {
			pref = plan.PrefAt(len(res.Coords) - 1)
		}
		next, outPort, ok := tryAdvance(g, cur, inPort, pref, res.Coords, seed.X, seed.X+gx)
		if !ok && algo == AlgoSecond {
			var crossed []grid.Coord
			next, outPort, crossed, ok = skipPassthrough(g, cur, res.Coords)
			if ok {
				res.Passthrough = true
				for _, pc := range crossed {
					psw := g.MustAt(pc).Switch(grid.AxisX)
					if err := psw.Pair(grid.PortBack, grid.PortFwd); err != nil {
						undo(g, res.Edits)
						return Result{}, ErrNoFit
					}
					res.Edits = append(res.Edits, grid.WireEdit{Coord: pc, Axis: grid.AxisX, Port: grid.PortBack})
				}
			}
		}
		if !ok {
			undo(g, res.Edits)
			return Result{}, ErrNoFit
		}

		if inPort >= 0 {
			sw := g.MustAt(cur).Switch(grid.AxisX)
			if err := sw.Pair(inPort, outPort); err != nil {
				undo(g, res.Edits)
				return Result{}, ErrNoFit
			}
			res.Edits = append(res.Edits, grid.WireEdit{Coord: cur, Axis: grid.AxisX, Port: inPort})
		} else {
			res.FirstOutPort = outPort
		}

		res.Coords = append(res.Coords, next)
		inPort = reverseInPort(g, cur, outPort)
		cur = next
	}

	res.LastInPort = inPort
	return res, nil
}

// tryAdvance looks for the first port in pref that leads to an acceptable,
// not-yet-visited neighbor from cur. inPort<0 means cur is still the seed
// (no port to exclude from pref). Neighbors outside [xMin,xMax) are
// rejected so the accepted members stay inside the cuboid column the
// caller is building; without this a fold-port hop on a short request
// lands two midplanes over and the committed set stops being a cuboid.
func tryAdvance(g *grid.Grid, cur grid.Coord, inPort int, pref [2]int, visited []grid.Coord, xMin, xMax int) (grid.Coord, int, bool) {
	sw := g.MustAt(cur).Switch(grid.AxisX)
	for _, outPort := range pref {
		if outPort == inPort || sw.PortUsed(outPort) {
			continue
		}
		ext := sw.External[outPort]
		if ext.NodeTar.X < xMin || ext.NodeTar.X >= xMax {
			continue
		}
		if containsCoord(visited, ext.NodeTar) {
			continue
		}
		nb := g.MustAt(ext.NodeTar)
		if !nb.Usable() {
			continue
		}
		nbSw := nb.Switch(grid.AxisX)
		if nbSw.FullyConsumedX() || nbSw.PortUsed(ext.PortTar) {
			continue
		}
		return ext.NodeTar, outPort, true
	}
	return grid.Coord{}, 0, false
}

// skipPassthrough walks the plain +X physical chain (PortFwd hops) past
// occupied or unusable midplanes, returning the list crossed (to be wired
// PortBack<->PortFwd by the caller) and the first free, unvisited midplane
// it lands on.
func skipPassthrough(g *grid.Grid, cur grid.Coord, visited []grid.Coord) (grid.Coord, int, []grid.Coord, bool) {
	probe := cur
	var crossed []grid.Coord

	for hop := 0; hop < g.Dim(grid.AxisX); hop++ {
		sw := g.MustAt(probe).Switch(grid.AxisX)
		if sw.PortUsed(grid.PortFwd) {
			return grid.Coord{}, 0, nil, false
		}
		ext := sw.External[grid.PortFwd]

		if containsCoord(visited, ext.NodeTar) {
			return grid.Coord{}, 0, nil, false
		}

		nb := g.MustAt(ext.NodeTar)
		nbSw := nb.Switch(grid.AxisX)
		if nb.Usable() && !nbSw.FullyConsumedX() && !nbSw.PortUsed(ext.PortTar) {
			return ext.NodeTar, grid.PortFwd, crossed, true
		}

		crossed = append(crossed, ext.NodeTar)
		probe = ext.NodeTar
	}

	return grid.Coord{}, 0, nil, false
}

func reverseInPort(g *grid.Grid, cur grid.Coord, outPort int) int {
	sw := g.MustAt(cur).Switch(grid.AxisX)
	return sw.External[outPort].PortTar
}

func containsCoord(list []grid.Coord, c grid.Coord) bool {
	for _, x := range list {
		if x == c {
			return true
		}
	}
	return false
}

func undo(g *grid.Grid, edits []grid.WireEdit) {
	for i := len(edits) - 1; i >= 0; i-- {
		e := edits[i]
		g.MustAt(e.Coord).Switch(e.Axis).Unpair(e.Port)
	}
}
