package torus

import "github.com/torusgrid/blockalloc/grid"

// FoldPlan is a hand-tuned sequence of out-port preferences for walking
// a specific, known-awkward X extent, kept as data rather
// than branching code. Prefs is cycled by hop depth rather than held
// fixed for the whole walk, letting an odd extent alternate fold-jumps
// and plain steps in a pattern that actually tiles it evenly.
type FoldPlan struct {
	Prefs [][2]int
}

// PrefAt returns the out-port preference order for the given hop depth,
// cycling through Prefs.
func (p FoldPlan) PrefAt(depth int) [2]int {
	return p.Prefs[depth%len(p.Prefs)]
}

// foldTable holds hand-tuned plans for X extents where the plain
// PortFoldB/PortFwd preference order does not evenly cover the extent.
// xpath.Find is the only consumer; Close does not consult the table. An
// extent absent here has no hand-tuned shortcut and xpath.Find uses the
// algorithm's fixed preference order.
var foldTable = map[int]FoldPlan{
	// 13 = 2*6 + 1: two fold-jumps covering 12 of the 13 midplanes land
	// exactly one plain step short of a clean wrap, so alternate
	// fold/fold/plain rather than always preferring the fold.
	13: {Prefs: [][2]int{
		{grid.PortFoldB, grid.PortFwd},
		{grid.PortFoldB, grid.PortFwd},
		{grid.PortFwd, grid.PortFoldB},
	}},
}

// Lookup returns the tabulated fold plan for X extent dx, if any.
func Lookup(dx int) (FoldPlan, bool) {
	p, ok := foldTable[dx]
	return p, ok
}
