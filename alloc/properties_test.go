package alloc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torusgrid/blockalloc/geometry"
	"github.com/torusgrid/blockalloc/grid"
)

func snapshotGrid(g *grid.Grid) []grid.Midplane {
	var out []grid.Midplane
	g.ForEach(func(m *grid.Midplane) { out = append(out, *m) })
	return out
}

// Containment, size and cuboid: the committed set is exactly the cuboid
// spanned by the shape at its origin.
func TestProperty_CommittedSetIsCuboid(t *testing.T) {
	a, _ := newAllocator(t, 4, 4, 4)

	block, err := a.Allocate(geometry.NewRequest(
		geometry.WithGeometry(2, 2, 1),
		geometry.WithStart(1, 1, 2, true),
		geometry.WithConnType(geometry.Torus),
	))
	require.NoError(t, err)
	require.Len(t, block.Coords, 4)

	want := map[grid.Coord]bool{
		{X: 1, Y: 1, Z: 2}: true, {X: 2, Y: 1, Z: 2}: true,
		{X: 1, Y: 2, Z: 2}: true, {X: 2, Y: 2, Z: 2}: true,
	}
	for _, c := range block.Coords {
		assert.True(t, want[c], "unexpected member %v", c)
		delete(want, c)
	}
	assert.Empty(t, want)
}

// Wiring symmetry: every used internal wire anywhere in the grid is half
// of an involutive pair.
func TestProperty_InternalWiresAreInvolutive(t *testing.T) {
	a, g := newAllocator(t, 4, 4, 4)

	_, err := a.Allocate(geometry.NewRequest(
		geometry.WithGeometry(2, 2, 2),
		geometry.WithStart(0, 0, 0, true),
		geometry.WithConnType(geometry.Torus),
	))
	require.NoError(t, err)

	g.ForEach(func(m *grid.Midplane) {
		for axis := grid.AxisX; axis <= grid.AxisZ; axis++ {
			sw := m.Switch(axis)
			for p := 0; p < grid.NumPorts; p++ {
				if !sw.PortUsed(p) {
					continue
				}
				q := sw.Internal[p].PortTar
				require.True(t, sw.PortUsed(q), "%v %s port %d partner %d unused", m.Coord, axis, p, q)
				assert.Equal(t, p, sw.Internal[q].PortTar)
			}
		}
	})
}

// Connectivity: following internal wire then external cable around a
// committed X torus visits every member exactly once before returning to
// the start.
func TestProperty_TorusRingVisitsEachMemberOnce(t *testing.T) {
	a, g := newAllocator(t, 4, 4, 4)

	block, err := a.Allocate(geometry.NewRequest(
		geometry.WithGeometry(4, 1, 1),
		geometry.WithStart(0, 0, 0, true),
		geometry.WithConnType(geometry.Torus),
	))
	require.NoError(t, err)

	start := grid.Coord{}
	inPort := -1
	for p := 0; p < grid.NumPorts; p++ {
		if g.MustAt(start).Switch(grid.AxisX).PortUsed(p) {
			inPort = p
			break
		}
	}
	require.GreaterOrEqual(t, inPort, 0)

	visited := map[grid.Coord]int{}
	cur := start
	for hop := 0; hop < 2*len(block.Coords); hop++ {
		visited[cur]++
		sw := g.MustAt(cur).Switch(grid.AxisX)
		outPort := sw.Internal[inPort].PortTar
		ext := sw.External[outPort]
		cur, inPort = ext.NodeTar, ext.PortTar
		if cur == start {
			break
		}
	}

	assert.Equal(t, start, cur, "walk did not close")
	assert.Len(t, visited, 4)
	for c, n := range visited {
		assert.Equal(t, 1, n, "member %v visited %d times", c, n)
	}
}

// Rollback: a failed allocation leaves every midplane byte-identical to
// its pre-call state.
func TestProperty_FailedAllocateLeavesGridIdentical(t *testing.T) {
	a, g := newAllocator(t, 4, 4, 4)

	before := snapshotGrid(g)

	_, err := a.Allocate(geometry.NewRequest(
		geometry.WithGeometry(2, 1, 1),
		geometry.WithStart(0, 0, 0, true),
		geometry.WithConnType(geometry.Torus),
		geometry.WithDenyPass(grid.AxisX),
	))
	require.Error(t, err)

	assert.Equal(t, before, snapshotGrid(g))
}

// No double-use: removing one of two committed blocks frees its midplanes
// and clears their Y wires, and leaves the other block committed under
// its own name.
func TestProperty_RemoveIsScopedToOneBlock(t *testing.T) {
	a, g := newAllocator(t, 4, 4, 4)

	first, err := a.Allocate(geometry.NewRequest(
		geometry.WithGeometry(1, 4, 1),
		geometry.WithStart(0, 0, 0, true),
		geometry.WithConnType(geometry.Mesh),
	))
	require.NoError(t, err)

	second, err := a.Allocate(geometry.NewRequest(
		geometry.WithGeometry(1, 4, 1),
		geometry.WithStart(2, 0, 0, true),
		geometry.WithConnType(geometry.Mesh),
	))
	require.NoError(t, err)

	require.NoError(t, a.Remove(first.Name))

	for _, c := range first.Coords {
		m := g.MustAt(c)
		assert.Equal(t, grid.Free, m.Usage)
		for p := 0; p < grid.NumPorts; p++ {
			assert.False(t, m.Switch(grid.AxisY).PortUsed(p))
		}
	}
	for _, c := range second.Coords {
		m := g.MustAt(c)
		assert.Equal(t, grid.Allocated, m.Usage)
		assert.Equal(t, second.Name, m.BlockName)
	}
}

// Passthrough honoring: full-extent rings wrap directly, so a deny-all
// request that needs no passthrough must succeed with none reported.
func TestProperty_DenyAllStillAdmitsDirectWraps(t *testing.T) {
	a, _ := newAllocator(t, 4, 4, 4)

	block, err := a.Allocate(geometry.NewRequest(
		geometry.WithGeometry(4, 4, 1),
		geometry.WithStart(0, 0, 0, true),
		geometry.WithConnType(geometry.Torus),
		geometry.WithDenyPass(grid.AxisX, grid.AxisY, grid.AxisZ),
	))
	require.NoError(t, err)
	assert.Equal(t, geometry.DenyPass(0), block.Passthroughs)
	assert.Len(t, block.Coords, 16)
}

// A pinned request whose seed is an already committed midplane fails: the
// X walk checks the seed itself, not only the neighbors it advances to.
func TestProperty_PinnedSeedOnCommittedMidplaneFails(t *testing.T) {
	a, _ := newAllocator(t, 4, 4, 4)

	_, err := a.Allocate(geometry.NewRequest(
		geometry.WithGeometry(1, 1, 1),
		geometry.WithStart(0, 0, 0, true),
	))
	require.NoError(t, err)

	_, err = a.Allocate(geometry.NewRequest(
		geometry.WithGeometry(1, 1, 1),
		geometry.WithStart(0, 0, 0, true),
	))
	require.Error(t, err)
}
