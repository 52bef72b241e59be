package query

import (
	"math"

	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/dijkstra"

	"github.com/torusgrid/blockalloc/grid"
)

// NearestFree reports the free midplane closest to from along one axis's
// line, by hop count over the physical (wrapping) cabling, for operator
// "where could I still fit something" diagnostics. It never mutates the
// grid. Returns false if no midplane on the line other than from itself
// is free.
//
// The line is lifted into a weighted core.Graph (one vertex per position,
// unit-weight edges between physical neighbors) and dijkstra.Dijkstra
// picks the distances. Dim==1 returns false before any graph is built;
// at Dim==2 both directions name the same neighbor and the duplicate
// edge is simply rejected by the graph.
//
// Complexity: O(D log D) for D = g.Dim(axis).
func NearestFree(g *grid.Grid, from grid.Coord, axis grid.Axis) (grid.Coord, bool) {
	if !g.InBounds(from) {
		return grid.Coord{}, false
	}

	d := g.Dim(axis)
	if d == 1 {
		return grid.Coord{}, false
	}

	cg := core.NewGraph(core.WithWeighted())
	for i := 0; i < d; i++ {
		cur := from.With(axis, i)
		next := g.Neighbor(cur, axis, +1)
		if cur == next {
			continue
		}
		// At an extent of 2 both directions name the same pair; a rejected
		// duplicate edge is harmless, the first one already connects them.
		_, _ = cg.AddEdge(cur.String(), next.String(), 1)
	}

	dist, _, err := dijkstra.Dijkstra(cg, dijkstra.Source(from.String()))
	if err != nil {
		return grid.Coord{}, false
	}

	best := grid.Coord{}
	bestDist := int64(math.MaxInt64)
	found := false
	for i := 0; i < d; i++ {
		c := from.With(axis, i)
		if c == from {
			continue
		}
		if !g.MustAt(c).Usable() {
			continue
		}
		hops, ok := dist[c.String()]
		if !ok || hops == math.MaxInt64 {
			continue
		}
		// Strict < keeps the tie-break deterministic: the lower coordinate
		// along the axis wins.
		if !found || hops < bestDist {
			best, bestDist, found = c, hops, true
		}
	}

	return best, found
}
