// Package alloc is the top-level orchestrator: it drives geometry.Plan,
// xpath.Find, torus.Close and yzwire.Fill in sequence for each candidate
// shape and origin, committing the first one that wires successfully and
// rolling back every partial attempt that doesn't.
//
// The structure is a thin outer loop over candidates with a per-attempt
// change log; any failure rolls the attempt back fully before the next
// candidate is tried, so a failed Allocate leaves the grid exactly as it
// found it.
package alloc

import (
	"errors"

	"github.com/torusgrid/blockalloc/baerr"
	"github.com/torusgrid/blockalloc/geometry"
	"github.com/torusgrid/blockalloc/grid"
	"github.com/torusgrid/blockalloc/hostlist"
	"github.com/torusgrid/blockalloc/telemetry"
	"github.com/torusgrid/blockalloc/torus"
	"github.com/torusgrid/blockalloc/xpath"
	"github.com/torusgrid/blockalloc/yzwire"
)

// Block is the artifact of a successful Allocate: the committed
// coordinates, its hostlist name, which axes actually used a passthrough,
// and rotate/elongate diagnostics.
type Block struct {
	Name          string
	Coords        []grid.Coord
	Passthroughs  geometry.DenyPass
	RotateCount   int
	ElongateCount int
}

// Allocator owns one grid and the set of blocks currently committed
// against it.
type Allocator struct {
	g      *grid.Grid
	log    telemetry.Logger
	blocks map[string]*commitment
	colors int
	letter byte
}

type commitment struct {
	coords []grid.Coord
	edits  []grid.WireEdit
}

// New wraps g for allocation. log may be the zero Logger.
func New(g *grid.Grid, log telemetry.Logger) *Allocator {
	return &Allocator{g: g, log: log, blocks: make(map[string]*commitment), letter: 'A'}
}

// Allocate tries every candidate shape geometry.Plan yields, at every
// eligible origin, under both xpath preference orders, until one wires
// successfully end to end. It returns baerr.KindGeometryInvalid if Plan
// itself rejects req, baerr.KindNoFit if every candidate fails to wire,
// and baerr.KindPassthroughForbidden if the only wirings found all needed
// a denied passthrough.
func (a *Allocator) Allocate(req *geometry.Request) (Block, error) {
	shapes, err := geometry.Plan(a.g, req)
	if err != nil {
		return Block{}, baerr.Wrap(baerr.KindGeometryInvalid, err)
	}

	start, hasStart, startReq := req.Start()
	if hasStart && !a.g.InBounds(start) {
		return Block{}, baerr.New(baerr.KindStartOutOfRange, "start coordinate is outside the grid")
	}

	sawPassthroughForbidden := false

	for shapeIdx, shape := range shapes {
		for _, origin := range a.candidateOrigins(shape.Dims, start, hasStart, startReq) {
			if !cuboidFits(a.g, origin, shape.Dims) {
				continue
			}

			coords, edits, passthroughs, err := a.tryShape(origin, shape.Dims, req)
			if err != nil {
				if errors.Is(err, torus.ErrPassthroughForbidden) || errors.Is(err, yzwire.ErrPassthroughForbidden) {
					sawPassthroughForbidden = true
				}
				continue
			}

			name, err := hostlist.EncodeBlock(coords)
			if err != nil {
				undo(a.g, edits)
				continue
			}
			a.colorAndName(coords, name)
			a.blocks[name] = &commitment{coords: coords, edits: edits}
			a.log.Trace("allocated block", map[string]interface{}{"name": name, "shape": shapeIdx})

			return Block{
				Name:          name,
				Coords:        coords,
				Passthroughs:  passthroughs,
				RotateCount:   shape.Rotation,
				ElongateCount: shape.Elongation,
			}, nil
		}
	}

	if sawPassthroughForbidden {
		return Block{}, baerr.New(baerr.KindPassthroughForbidden, "a wiring exists but requires a forbidden passthrough")
	}
	return Block{}, baerr.New(baerr.KindNoFit, "no candidate geometry admits a valid wiring")
}

// tryShape attempts both xpath preference orders from origin for the given
// dims, fully wiring X then Y/Z on the first that succeeds. On any failure
// it rolls back everything this attempt did.
func (a *Allocator) tryShape(origin grid.Coord, dims grid.Coord, req *geometry.Request) ([]grid.Coord, []grid.WireEdit, geometry.DenyPass, error) {
	var lastErr error
	for _, algo := range [2]xpath.Algo{xpath.AlgoFirst, xpath.AlgoSecond} {
		res, err := xpath.Find(a.g, origin, dims.X, algo)
		if err != nil {
			lastErr = err
			continue
		}
		if res.Passthrough && req.DenyPass().Has(grid.AxisX) {
			undo(a.g, res.Edits)
			lastErr = torus.ErrPassthroughForbidden
			continue
		}

		finalEdits, xPass, err := a.finalizeX(res, req)
		if err != nil {
			undo(a.g, res.Edits)
			lastErr = err
			continue
		}
		xEdits := append(append([]grid.WireEdit{}, res.Edits...), finalEdits...)

		yz, err := yzwire.Fill(a.g, res.Coords, dims.Y, dims.Z, req.ConnType(), req.DenyPass())
		if err != nil {
			undo(a.g, xEdits)
			lastErr = err
			continue
		}

		edits := append(xEdits, yz.Edits...)
		passthroughs := yz.Passthrough
		if xPass || res.Passthrough {
			passthroughs |= geometry.DenyX
		}
		return yz.Coords, edits, passthroughs, nil
	}
	return nil, nil, 0, lastErr
}

// finalizeX closes the X dimension: the trivial single-midplane rule for
// gx==1, a torus.Close ring for conn_type torus, or a mesh termination
// otherwise.
func (a *Allocator) finalizeX(res xpath.Result, req *geometry.Request) ([]grid.WireEdit, bool, error) {
	if len(res.Coords) == 1 || req.ConnType() != geometry.Torus {
		edits, err := xpath.FinalizeMesh(a.g, res)
		return edits, false, err
	}

	origin := res.Coords[0]
	last := res.Coords[len(res.Coords)-1]
	closure, err := torus.Close(a.g, grid.AxisX, origin, last, res.LastInPort, res.FirstOutPort, res.Coords, req.DenyPass().Has(grid.AxisX))
	if err != nil {
		return nil, false, err
	}
	return closure.Edits, len(closure.Passthrough) > 0, nil
}

// candidateOrigins returns the origins to try for a shape: just start if
// the caller pinned one, otherwise every eligible grid coordinate in
// deterministic lexicographic (x,y,z) order.
func (a *Allocator) candidateOrigins(dims grid.Coord, start grid.Coord, hasStart, startReq bool) []grid.Coord {
	if hasStart {
		origins := []grid.Coord{start}
		if startReq {
			return origins
		}
		origins = append(origins, a.allOrigins(dims)...)
		return origins
	}
	return a.allOrigins(dims)
}

func (a *Allocator) allOrigins(dims grid.Coord) []grid.Coord {
	var out []grid.Coord
	for x := 0; x+dims.X <= a.g.Dim(grid.AxisX); x++ {
		for y := 0; y+dims.Y <= a.g.Dim(grid.AxisY); y++ {
			for z := 0; z+dims.Z <= a.g.Dim(grid.AxisZ); z++ {
				out = append(out, grid.Coord{X: x, Y: y, Z: z})
			}
		}
	}
	return out
}

func cuboidFits(g *grid.Grid, origin, dims grid.Coord) bool {
	far := grid.Coord{X: origin.X + dims.X - 1, Y: origin.Y + dims.Y - 1, Z: origin.Z + dims.Z - 1}
	return g.InBounds(origin) && g.InBounds(far)
}

func (a *Allocator) colorAndName(coords []grid.Coord, name string) {
	a.colors++
	letter := a.letter
	a.letter++
	if a.letter > 'Z' {
		a.letter = 'A'
	}
	for _, c := range coords {
		m := a.g.MustAt(c)
		m.Usage = grid.Allocated
		m.Color = a.colors
		m.Letter = letter
		m.BlockName = name
	}
}

func undo(g *grid.Grid, edits []grid.WireEdit) {
	for i := len(edits) - 1; i >= 0; i-- {
		g.MustAt(edits[i].Coord).Switch(edits[i].Axis).Unpair(edits[i].Port)
	}
}
