package alloc

import (
	"github.com/torusgrid/blockalloc/baerr"
	"github.com/torusgrid/blockalloc/grid"
)

// Remove tears down a previously committed block: clears every wire this
// allocator's Allocate call set for it, frees its color/letter, and drops
// it from the commitment table. Returns baerr.KindLookupFailed if name
// names no currently committed block.
func (a *Allocator) Remove(name string) error {
	c, ok := a.blocks[name]
	if !ok {
		return baerr.New(baerr.KindLookupFailed, "no committed block with that name")
	}

	undo(a.g, c.edits)
	for _, coord := range c.coords {
		m := a.g.MustAt(coord)
		m.Usage = grid.Free
		m.Color = 0
		m.Letter = 0
		m.BlockName = ""
	}
	delete(a.blocks, name)
	a.log.Trace("removed block", map[string]interface{}{"name": name})
	return nil
}

// Reset reinitializes the grid (see grid.Grid.Reset) and drops every
// commitment this allocator was tracking, since their wires no longer
// exist to roll back.
func (a *Allocator) Reset(preserveDownDrain bool) {
	a.g.Reset(preserveDownDrain)
	a.blocks = make(map[string]*commitment)
	a.colors = 0
	a.letter = 'A'
}
