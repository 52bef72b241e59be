package geometry

import "github.com/torusgrid/blockalloc/grid"

// Plan validates req against g's extents and returns the ordered,
// deduplicated list of candidate shapes for the X-path finder to try.
//
// Complexity: O(1) for an exact geometry without elongate, otherwise
// O(Dx+Dy+Dz+sqrt(n)) (the greedy factor search and square-root probe
// dominate).
func Plan(g *grid.Grid, req *Request) ([]Shape, error) {
	dims := grid.Coord{X: g.Dim(grid.AxisX), Y: g.Dim(grid.AxisY), Z: g.Dim(grid.AxisZ)}

	seen := make(map[grid.Coord]bool)
	var shapes []Shape
	add := func(c grid.Coord, rot, elong int) bool {
		if !fitsGrid(c, dims) || seen[c] {
			return false
		}
		seen[c] = true
		shapes = append(shapes, Shape{Dims: c, Procs: req.procs, Rotation: rot, Elongation: elong})
		return true
	}

	switch {
	case req.connType == Small:
		add(grid.Coord{X: 1, Y: 1, Z: 1}, 0, 0)

	case req.geometry != (grid.Coord{}):
		add(req.geometry, 0, 0)
		if req.rotate {
			for i, p := range rotations(req.geometry) {
				add(p, i+1, 0)
			}
		}
		if req.elongate {
			n := req.geometry.X * req.geometry.Y * req.geometry.Z
			elong := 0
			for _, c := range sizeShapes(n, dims) {
				if add(c, 0, elong+1) {
					elong++
				}
			}
		}

	default:
		if req.size <= 0 {
			return nil, ErrInvalidSize
		}
		elong := 0
		for _, c := range sizeShapes(req.size, dims) {
			if add(c, 0, elong) {
				if !req.elongate {
					break
				}
				elong++
			}
		}
	}

	if len(shapes) == 0 {
		return nil, ErrNoCandidates
	}
	return shapes, nil
}

func fitsGrid(c, dims grid.Coord) bool {
	return c.X >= 1 && c.X <= dims.X &&
		c.Y >= 1 && c.Y <= dims.Y &&
		c.Z >= 1 && c.Z <= dims.Z
}

// rotations returns the five axis permutations of c other than c itself, in
// a fixed order: swap X<->Z, cyclic X->Y->Z->X, swap X<->Y, swap Y<->Z,
// cyclic X->Z->Y->X.
func rotations(c grid.Coord) [5]grid.Coord {
	return [5]grid.Coord{
		{X: c.Z, Y: c.Y, Z: c.X}, // swap X<->Z
		{X: c.Y, Y: c.Z, Z: c.X}, // cyclic X->Y->Z->X
		{X: c.Y, Y: c.X, Z: c.Z}, // swap X<->Y
		{X: c.X, Y: c.Z, Z: c.Y}, // swap Y<->Z
		{X: c.Z, Y: c.X, Z: c.Y}, // cyclic X->Z->Y->X
	}
}

// sizeShapes derives candidate shapes of total size n against dims, in a
// fixed rule order: trivial, 1xnx1, 1xixi, full YZ-plane factorization,
// greedy per-axis factor search, integer cube root.
func sizeShapes(n int, dims grid.Coord) []grid.Coord {
	var out []grid.Coord

	if n == 1 {
		out = append(out, grid.Coord{X: 1, Y: 1, Z: 1})
	}
	if n <= dims.Y {
		out = append(out, grid.Coord{X: 1, Y: n, Z: 1})
	}
	if i := isqrt(n); i*i == n && i <= dims.Y && i <= dims.Z {
		out = append(out, grid.Coord{X: 1, Y: i, Z: i})
	}
	if plane := dims.Y * dims.Z; plane > 0 && n%plane == 0 {
		out = append(out, grid.Coord{X: n / plane, Y: dims.Y, Z: dims.Z})
	}
	if c, ok := greedyFactor(n, dims); ok {
		out = append(out, c)
	}
	if i := icbrt(n); i*i*i == n {
		out = append(out, grid.Coord{X: i, Y: i, Z: i})
	}

	return out
}

// greedyFactor walks axes X, Y, Z in order, at each one pulling the largest
// divisor of the remaining quotient that does not exceed that axis's
// extent. Fails (ok=false) if a remainder greater than 1 is left after Z.
func greedyFactor(n int, dims grid.Coord) (grid.Coord, bool) {
	remainder := n
	var c grid.Coord
	for _, pair := range []struct {
		axis  *int
		limit int
	}{
		{&c.X, dims.X},
		{&c.Y, dims.Y},
		{&c.Z, dims.Z},
	} {
		d := largestDivisorAtMost(remainder, pair.limit)
		*pair.axis = d
		remainder /= d
	}
	return c, remainder == 1
}

// largestDivisorAtMost returns the largest divisor of n that is <= limit,
// or 1 if n is non-positive or limit < 1.
func largestDivisorAtMost(n, limit int) int {
	if n <= 0 || limit < 1 {
		return 1
	}
	top := n
	if limit < top {
		top = limit
	}
	for d := top; d >= 1; d-- {
		if n%d == 0 {
			return d
		}
	}
	return 1
}

func isqrt(n int) int {
	if n < 0 {
		return 0
	}
	i := 0
	for (i+1)*(i+1) <= n {
		i++
	}
	return i
}

func icbrt(n int) int {
	if n < 0 {
		return 0
	}
	i := 0
	for (i+1)*(i+1)*(i+1) <= n {
		i++
	}
	return i
}
