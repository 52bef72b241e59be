package wireinit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torusgrid/blockalloc/grid"
	"github.com/torusgrid/blockalloc/wireinit"
)

func newTestGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.NewGrid(4, 4, 4)
	require.NoError(t, err)
	return g
}

func TestEmulate_WrapsAndIsSymmetric(t *testing.T) {
	g := newTestGrid(t)
	require.NoError(t, wireinit.Emulate(g))

	m := g.MustAt(grid.Coord{X: 3, Y: 1, Z: 1})
	sw := m.Switch(grid.AxisX)
	assert.Equal(t, grid.Coord{X: 0, Y: 1, Z: 1}, sw.External[grid.PortFwd].NodeTar)
	assert.Equal(t, grid.PortBack, sw.External[grid.PortFwd].PortTar)

	neighbor := g.MustAt(grid.Coord{X: 0, Y: 1, Z: 1})
	nsw := neighbor.Switch(grid.AxisX)
	assert.Equal(t, grid.Coord{X: 3, Y: 1, Z: 1}, nsw.External[grid.PortBack].NodeTar)
	assert.Equal(t, grid.PortFwd, nsw.External[grid.PortBack].PortTar)
}

func TestEmulate_RejectsDoubleWiring(t *testing.T) {
	g := newTestGrid(t)
	require.NoError(t, wireinit.Emulate(g))
	assert.ErrorIs(t, wireinit.Emulate(g), wireinit.ErrAlreadyWired)
}

func TestImport_RejectsOutOfRange(t *testing.T) {
	g := newTestGrid(t)
	err := wireinit.Import(g, []wireinit.Endpoint{
		{Coord: grid.Coord{X: 9, Y: 0, Z: 0}, Dim: grid.AxisX, Port: grid.PortFwd,
			NeighborTar: grid.Coord{X: 0, Y: 0, Z: 0}, PortTar: grid.PortBack},
	})
	assert.ErrorIs(t, err, wireinit.ErrOutOfRange)
}

func TestImport_RejectsAsymmetricPair(t *testing.T) {
	g := newTestGrid(t)
	err := wireinit.Import(g, []wireinit.Endpoint{
		{Coord: grid.Coord{X: 0, Y: 0, Z: 0}, Dim: grid.AxisX, Port: grid.PortFwd,
			NeighborTar: grid.Coord{X: 1, Y: 0, Z: 0}, PortTar: grid.PortBack},
		{Coord: grid.Coord{X: 1, Y: 0, Z: 0}, Dim: grid.AxisX, Port: grid.PortBack,
			NeighborTar: grid.Coord{X: 2, Y: 0, Z: 0}, PortTar: grid.PortFwd},
	})
	assert.ErrorIs(t, err, wireinit.ErrConflict)
}

func TestImport_CommitsSymmetricBatch(t *testing.T) {
	g := newTestGrid(t)
	err := wireinit.Import(g, []wireinit.Endpoint{
		{Coord: grid.Coord{X: 0, Y: 0, Z: 0}, Dim: grid.AxisX, Port: grid.PortFwd,
			NeighborTar: grid.Coord{X: 1, Y: 0, Z: 0}, PortTar: grid.PortBack},
		{Coord: grid.Coord{X: 1, Y: 0, Z: 0}, Dim: grid.AxisX, Port: grid.PortBack,
			NeighborTar: grid.Coord{X: 0, Y: 0, Z: 0}, PortTar: grid.PortFwd},
	})
	require.NoError(t, err)

	m := g.MustAt(grid.Coord{X: 0, Y: 0, Z: 0})
	assert.Equal(t, grid.Coord{X: 1, Y: 0, Z: 0}, m.Switch(grid.AxisX).External[grid.PortFwd].NodeTar)
}

func TestImport_RejectsDuplicatePort(t *testing.T) {
	g := newTestGrid(t)
	err := wireinit.Import(g, []wireinit.Endpoint{
		{Coord: grid.Coord{X: 0, Y: 0, Z: 0}, Dim: grid.AxisX, Port: grid.PortFwd,
			NeighborTar: grid.Coord{X: 1, Y: 0, Z: 0}, PortTar: grid.PortBack},
		{Coord: grid.Coord{X: 0, Y: 0, Z: 0}, Dim: grid.AxisX, Port: grid.PortFwd,
			NeighborTar: grid.Coord{X: 2, Y: 0, Z: 0}, PortTar: grid.PortBack},
	})
	assert.ErrorIs(t, err, wireinit.ErrConflict)
}
