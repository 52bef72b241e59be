package yzwire

import "github.com/torusgrid/blockalloc/grid"

// CopyPath replicates a fully-wired source X-chain, starting at src, onto
// the equivalent chain starting at target (a different (y,z)). It walks
// src's own internal wire chain hop by hop and, for each hop, pairs the
// same two ports on target's switch, advancing target along its own
// external wiring rather than src's (the two chains are parallel, not the
// same cables).
//
// Termination follows the source's own topology rather than a supplied
// hop count, because a torus-closed chain may route through passthrough
// midplanes the caller never named: both chain forms end at a hop whose
// outbound port is PortEnd — the last switch of a mesh line, or src
// itself once the ring wraps back and its closing pair is copied. A hard
// cap on iterations guards against a malformed source switch that never
// reaches that port.
//
// Complexity: O(hops in the source chain, including any passthrough).
func CopyPath(g *grid.Grid, src, target grid.Coord) ([]grid.WireEdit, error) {
	var edits []grid.WireEdit

	inPort, ok := firstUsedPort(g.MustAt(src).Switch(grid.AxisX))
	if !ok {
		return nil, ErrCopyConflict
	}

	curSrc, curTarget := src, target
	maxHops := g.Dim(grid.AxisX) + 2
	for hop := 0; hop < maxHops; hop++ {
		srcSw := g.MustAt(curSrc).Switch(grid.AxisX)
		outPort := srcSw.Internal[inPort].PortTar

		tgtSw := g.MustAt(curTarget).Switch(grid.AxisX)
		if tgtSw.PortUsed(inPort) || tgtSw.PortUsed(outPort) {
			undo(g, edits)
			return nil, ErrCopyConflict
		}
		if err := tgtSw.Pair(inPort, outPort); err != nil {
			undo(g, edits)
			return nil, ErrCopyConflict
		}
		edits = append(edits, grid.WireEdit{Coord: curTarget, Axis: grid.AxisX, Port: inPort})

		if outPort == grid.PortEnd {
			return edits, nil
		}

		srcExt := srcSw.External[outPort]
		tgtExt := tgtSw.External[outPort]
		curSrc, inPort = srcExt.NodeTar, srcExt.PortTar
		curTarget = tgtExt.NodeTar
	}

	undo(g, edits)
	return nil, ErrCopyConflict
}

func firstUsedPort(sw *grid.Switch) (int, bool) {
	for p := 0; p < grid.NumPorts; p++ {
		if sw.PortUsed(p) {
			return p, true
		}
	}
	return 0, false
}
