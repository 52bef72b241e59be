package grid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torusgrid/blockalloc/grid"
)

func TestNewGrid_BadDims(t *testing.T) {
	_, err := grid.NewGrid(0, 4, 4)
	assert.ErrorIs(t, err, grid.ErrBadDims)

	_, err = grid.NewGrid(4, -1, 4)
	assert.ErrorIs(t, err, grid.ErrBadDims)
}

func TestGrid_AtAndBounds(t *testing.T) {
	g, err := grid.NewGrid(4, 4, 4)
	require.NoError(t, err)

	m, err := g.At(grid.Coord{X: 1, Y: 2, Z: 3})
	require.NoError(t, err)
	assert.Equal(t, grid.Coord{X: 1, Y: 2, Z: 3}, m.Coord)
	assert.True(t, m.Usable())

	_, err = g.At(grid.Coord{X: 4, Y: 0, Z: 0})
	assert.ErrorIs(t, err, grid.ErrOutOfRange)
}

func TestGrid_NeighborWraps(t *testing.T) {
	g, err := grid.NewGrid(4, 4, 4)
	require.NoError(t, err)

	c := grid.Coord{X: 3, Y: 0, Z: 0}
	assert.Equal(t, grid.Coord{X: 0, Y: 0, Z: 0}, g.Neighbor(c, grid.AxisX, +1))
	assert.Equal(t, grid.Coord{X: 2, Y: 0, Z: 0}, g.Neighbor(c, grid.AxisX, -1))
}

func TestSwitch_PairAndUnpair(t *testing.T) {
	var sw grid.Switch

	require.NoError(t, sw.Pair(grid.PortStart, grid.PortFwd))
	assert.True(t, sw.PortUsed(grid.PortStart))
	assert.True(t, sw.PortUsed(grid.PortFwd))
	assert.Equal(t, grid.PortFwd, sw.Internal[grid.PortStart].PortTar)
	assert.Equal(t, grid.PortStart, sw.Internal[grid.PortFwd].PortTar)

	err := sw.Pair(grid.PortFwd, grid.PortBack)
	assert.ErrorIs(t, err, grid.ErrPortInUse)

	sw.Unpair(grid.PortStart)
	assert.False(t, sw.PortUsed(grid.PortStart))
	assert.False(t, sw.PortUsed(grid.PortFwd))
}

func TestSwitch_FullyConsumedX(t *testing.T) {
	var sw grid.Switch
	assert.False(t, sw.FullyConsumedX())

	// A fold arrival pairs port 3; a through departure pairs port 5. Only
	// both together consume the midplane in X.
	require.NoError(t, sw.Pair(grid.PortBack, grid.PortFoldA))
	assert.False(t, sw.FullyConsumedX())

	require.NoError(t, sw.Pair(grid.PortStart, grid.PortFwd))
	assert.True(t, sw.FullyConsumedX())
}

func TestGrid_ResetClearsWiresAndRestoresFree(t *testing.T) {
	g, err := grid.NewGrid(2, 2, 2)
	require.NoError(t, err)

	m := g.MustAt(grid.Coord{})
	require.NoError(t, m.Switch(grid.AxisX).Pair(grid.PortStart, grid.PortEnd))
	m.Usage = grid.Allocated
	m.Color = 3

	g.Reset(false)

	m = g.MustAt(grid.Coord{})
	assert.Equal(t, grid.Free, m.Usage)
	assert.Equal(t, grid.Idle, m.State)
	assert.False(t, m.Switch(grid.AxisX).PortUsed(grid.PortStart))
	assert.Equal(t, 0, m.Color)
}

func TestGrid_ResetIdempotent(t *testing.T) {
	g, err := grid.NewGrid(3, 3, 3)
	require.NoError(t, err)

	m := g.MustAt(grid.Coord{X: 1, Y: 1, Z: 1})
	m.Usage = grid.Allocated
	require.NoError(t, m.Switch(grid.AxisY).Pair(grid.PortStart, grid.PortEnd))

	g.Reset(false)
	snapshot := *g.MustAt(grid.Coord{X: 1, Y: 1, Z: 1})

	g.Reset(false)
	assert.Equal(t, snapshot, *g.MustAt(grid.Coord{X: 1, Y: 1, Z: 1}))
}

func TestGrid_ResetPreservesDownDrain(t *testing.T) {
	g, err := grid.NewGrid(2, 2, 2)
	require.NoError(t, err)

	down := g.MustAt(grid.Coord{X: 0, Y: 0, Z: 0})
	down.State = grid.Down
	down.Usage = grid.Unusable

	g.Reset(true)

	down = g.MustAt(grid.Coord{X: 0, Y: 0, Z: 0})
	assert.Equal(t, grid.Down, down.State)
	assert.Equal(t, grid.Unusable, down.Usage)
}
