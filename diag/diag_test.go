package diag_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torusgrid/blockalloc/alloc"
	"github.com/torusgrid/blockalloc/diag"
	"github.com/torusgrid/blockalloc/geometry"
	"github.com/torusgrid/blockalloc/grid"
	"github.com/torusgrid/blockalloc/telemetry"
	"github.com/torusgrid/blockalloc/wireinit"
)

func TestSnapshot_CodesUsage(t *testing.T) {
	g, err := grid.NewGrid(2, 2, 2)
	require.NoError(t, err)
	require.NoError(t, wireinit.Emulate(g))

	g.MustAt(grid.Coord{X: 1, Y: 1, Z: 1}).Usage = grid.Unusable
	g.MustAt(grid.Coord{X: 0, Y: 1, Z: 0}).Usage = grid.Transient

	rep, err := diag.Snapshot(g)
	require.NoError(t, err)
	require.Len(t, rep.Layers, 2)

	v, err := rep.Layers[0].At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, float64(diag.CodeFree), v)

	v, err = rep.Layers[0].At(0, 1)
	require.NoError(t, err)
	assert.Equal(t, float64(diag.CodeTransient), v)

	v, err = rep.Layers[1].At(1, 1)
	require.NoError(t, err)
	assert.Equal(t, float64(diag.CodeUnusable), v)
}

func TestSnapshot_RecordsBlockLetters(t *testing.T) {
	g, err := grid.NewGrid(4, 4, 4)
	require.NoError(t, err)
	require.NoError(t, wireinit.Emulate(g))
	a := alloc.New(g, telemetry.Logger{})

	block, err := a.Allocate(geometry.NewRequest(
		geometry.WithGeometry(2, 2, 1),
		geometry.WithStart(0, 0, 0, true),
		geometry.WithConnType(geometry.Mesh),
	))
	require.NoError(t, err)

	rep, err := diag.Snapshot(g)
	require.NoError(t, err)
	assert.Equal(t, byte('A'), rep.Blocks[block.Name])

	v, err := rep.Layers[0].At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, float64(diag.CodeAllocated), v)
}

func TestRender_LetterMap(t *testing.T) {
	g, err := grid.NewGrid(2, 2, 1)
	require.NoError(t, err)
	require.NoError(t, wireinit.Emulate(g))

	m := g.MustAt(grid.Coord{X: 0, Y: 1})
	m.Usage = grid.Allocated
	m.Letter = 'B'
	g.MustAt(grid.Coord{X: 1, Y: 0}).Usage = grid.Unusable

	got := diag.Render(g)
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, ".B", lines[0])
	assert.Equal(t, "#.", lines[1])
}
