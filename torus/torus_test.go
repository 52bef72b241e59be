package torus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torusgrid/blockalloc/grid"
	"github.com/torusgrid/blockalloc/torus"
	"github.com/torusgrid/blockalloc/wireinit"
)

func wiredGrid(t *testing.T, dx, dy, dz int) *grid.Grid {
	t.Helper()
	g, err := grid.NewGrid(dx, dy, dz)
	require.NoError(t, err)
	require.NoError(t, wireinit.Emulate(g))
	return g
}

// Simulates the interior pairing xpath.Find would already have committed
// for a straight plain-step walk along X, leaving the two ends open.
func wireInterior(g *grid.Grid, xs []int, y, z int) {
	for i := 1; i < len(xs)-1; i++ {
		c := grid.Coord{X: xs[i], Y: y, Z: z}
		_ = g.MustAt(c).Switch(grid.AxisX).Pair(grid.PortBack, grid.PortFwd)
	}
}

func TestClose_DirectWraparound(t *testing.T) {
	g := wiredGrid(t, 4, 4, 4)
	wireInterior(g, []int{0, 1, 2, 3}, 0, 0)

	origin := grid.Coord{X: 0}
	last := grid.Coord{X: 3}
	members := []grid.Coord{{X: 0}, {X: 1}, {X: 2}, {X: 3}}

	closure, err := torus.Close(g, grid.AxisX, origin, last, grid.PortBack, grid.PortFwd, members, false)
	require.NoError(t, err)
	assert.Empty(t, closure.Passthrough)

	assert.True(t, g.MustAt(last).Switch(grid.AxisX).PortUsed(grid.PortFwd))

	// The origin terminates the ring: PortStart pairs with the depart
	// port, PortEnd with the returning cable's arrival port.
	originSw := g.MustAt(origin).Switch(grid.AxisX)
	assert.True(t, originSw.PortUsed(grid.PortBack))
	assert.Equal(t, grid.PortFwd, originSw.Internal[grid.PortStart].PortTar)
	assert.Equal(t, grid.PortBack, originSw.Internal[grid.PortEnd].PortTar)
}

func TestClose_PassesThroughFreeMidplane(t *testing.T) {
	g := wiredGrid(t, 4, 4, 4)
	// Block is only (0,0,0) and (2,0,0); (1,0,0) and (3,0,0) stay free.
	// The shortest closure runs 2->3->0, so (3,0,0) is the passthrough.
	origin := grid.Coord{X: 0}
	last := grid.Coord{X: 2}
	members := []grid.Coord{origin, last}

	closure, err := torus.Close(g, grid.AxisX, origin, last, grid.PortBack, grid.PortFwd, members, false)
	require.NoError(t, err)
	assert.NotEmpty(t, closure.Passthrough)
	assert.Contains(t, closure.Passthrough, grid.Coord{X: 3})
}

func TestClose_PassthroughForbiddenFailsExplicitly(t *testing.T) {
	g := wiredGrid(t, 4, 4, 4)
	origin := grid.Coord{X: 0}
	last := grid.Coord{X: 2}
	members := []grid.Coord{origin, last}

	_, err := torus.Close(g, grid.AxisX, origin, last, grid.PortBack, grid.PortFwd, members, true)
	assert.ErrorIs(t, err, torus.ErrPassthroughForbidden)
}

func TestClose_NoFitWhenRingBlocked(t *testing.T) {
	g := wiredGrid(t, 4, 4, 4)
	origin := grid.Coord{X: 0}
	last := grid.Coord{X: 2}
	members := []grid.Coord{origin, last}
	g.MustAt(grid.Coord{X: 1}).Usage = grid.Allocated
	g.MustAt(grid.Coord{X: 3}).Usage = grid.Allocated

	_, err := torus.Close(g, grid.AxisX, origin, last, grid.PortBack, grid.PortFwd, members, false)
	assert.ErrorIs(t, err, torus.ErrNoFit)
}
