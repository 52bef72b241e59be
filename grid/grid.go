package grid

// Grid is a dense 3D array of midplanes addressed by Coord. It is the
// "virtual mirror of the real fabric": once wireinit has populated the
// external wiring, it is mutated by allocate/remove/reset and by the
// query package's inventory ingest (LoadBlockWiring, CheckAndSetNodeList).
type Grid struct {
	Dx, Dy, Dz int
	cells      []Midplane
}

// NewGrid allocates a Dx×Dy×Dz grid with every midplane Free/Idle and no
// wiring populated yet. Populate external wiring with the wireinit
// package before calling into any finder.
//
// Complexity: O(Dx*Dy*Dz).
func NewGrid(dx, dy, dz int) (*Grid, error) {
	if dx <= 0 || dy <= 0 || dz <= 0 {
		return nil, ErrBadDims
	}

	g := &Grid{Dx: dx, Dy: dy, Dz: dz, cells: make([]Midplane, dx*dy*dz)}
	for x := 0; x < dx; x++ {
		for y := 0; y < dy; y++ {
			for z := 0; z < dz; z++ {
				c := Coord{X: x, Y: y, Z: z}
				g.cells[g.index(c)] = Midplane{Coord: c}
			}
		}
	}

	return g, nil
}

// Dim returns the grid's extent along axis a.
func (g *Grid) Dim(a Axis) int {
	switch a {
	case AxisX:
		return g.Dx
	case AxisY:
		return g.Dy
	default:
		return g.Dz
	}
}

// InBounds reports whether c lies within the grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.Dx &&
		c.Y >= 0 && c.Y < g.Dy &&
		c.Z >= 0 && c.Z < g.Dz
}

// index computes the flat array offset for c without bounds checking;
// callers must have already validated c via InBounds.
func (g *Grid) index(c Coord) int {
	return (c.X*g.Dy+c.Y)*g.Dz + c.Z
}

// At returns a pointer to the midplane at c, or ErrOutOfRange.
//
// Complexity: O(1).
func (g *Grid) At(c Coord) (*Midplane, error) {
	if !g.InBounds(c) {
		return nil, ErrOutOfRange
	}
	return &g.cells[g.index(c)], nil
}

// MustAt is At without the error return, for call sites that have already
// validated c (e.g. they got it from Neighbor or from iterating the grid
// itself). Panics if c is out of range.
func (g *Grid) MustAt(c Coord) *Midplane {
	m, err := g.At(c)
	if err != nil {
		panic(err)
	}
	return m
}

// Neighbor returns the coordinate one step from c along axis a, wrapping
// at the grid boundary (the fabric is physically a torus regardless of how
// a given allocation wires it). dir must be +1 or -1.
func (g *Grid) Neighbor(c Coord, a Axis, dir int) Coord {
	d := g.Dim(a)
	v := ((c.Get(a)+dir)%d + d) % d
	return c.With(a, v)
}

// ForEach calls fn for every midplane in the grid in X-major, then Y,
// then Z order. fn must not mutate g's shape.
func (g *Grid) ForEach(fn func(*Midplane)) {
	for i := range g.cells {
		fn(&g.cells[i])
	}
}

// Reset returns every midplane to Free/Idle, clearing all internal wires.
// If preserveDownDrain is true, midplanes currently Down or Drain keep
// their CoarseState (and stay Unusable rather than becoming Free).
//
// Complexity: O(Dx*Dy*Dz*NumPorts).
func (g *Grid) Reset(preserveDownDrain bool) {
	for i := range g.cells {
		m := &g.cells[i]
		keepState := preserveDownDrain && (m.State == Down || m.State == Drain)
		for a := Axis(0); a < NumAxes; a++ {
			sw := m.Switch(a)
			for p := 0; p < NumPorts; p++ {
				sw.Internal[p] = InternalWire{}
			}
		}
		m.Color = 0
		m.Letter = 0
		m.BlockName = ""
		if keepState {
			m.Usage = Unusable
		} else {
			m.Usage = Free
			m.State = Idle
		}
	}
}
