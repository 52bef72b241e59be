// Package query is the allocator's lookup and inventory-merge surface:
// the bidirectional midplane-id map consulted on every inventory import
// (SetBPMap, FindBPLoc, FindBPRackMid), the validated wiring ingest for
// externally-defined blocks (LoadBlockWiring) and node lists
// (CheckAndSetNodeList), and the read-only NearestFree diagnostic.
//
// The map, lookup and ingest entry points return *baerr.Error at the
// boundary (KindLookupFailed for id-mapping misses, KindConflict for
// double-used ports or midplanes), wrapping this package's own sentinels
// so errors.Is still reaches the fine-grained cause. NormalizeID returns
// ErrBadID unwrapped, and NearestFree reports a miss as false.
package query

import (
	"errors"
	"strings"

	"github.com/torusgrid/blockalloc/baerr"
	"github.com/torusgrid/blockalloc/grid"
)

// Sentinel errors for query operations.
var (
	// ErrBadID indicates an id matches neither accepted midplane form
	// (R<rack><midplane> or R<rack>-M<midplane>).
	ErrBadID = errors.New("query: malformed midplane id")

	// ErrUnknownID indicates a well-formed id has no mapping entry.
	ErrUnknownID = errors.New("query: id not in midplane map")

	// ErrUnknownCoord indicates a coordinate has no mapping entry.
	ErrUnknownCoord = errors.New("query: coordinate not in midplane map")

	// ErrDuplicate indicates SetBPMap was given two entries claiming the
	// same id or the same coordinate.
	ErrDuplicate = errors.New("query: duplicate midplane map entry")
)

// MapEntry is one inventory-supplied binding between a midplane id and
// its grid coordinate. The numeric interior of the id is opaque here; the
// inventory decides which rack/midplane label sits at which coordinate.
type MapEntry struct {
	ID    string
	Coord grid.Coord
}

// BPMap is the bidirectional id<->coordinate mapping built from an
// inventory import. Ids are stored in the canonical 4-character form; both
// accepted forms resolve through NormalizeID on lookup.
type BPMap struct {
	byID    map[string]grid.Coord
	byCoord map[grid.Coord]string
}

// SetBPMap builds a BPMap from inventory entries, rejecting any entry
// whose id is malformed and any pair of entries that double-claim an id
// or a coordinate.
func SetBPMap(entries []MapEntry) (*BPMap, error) {
	m := &BPMap{
		byID:    make(map[string]grid.Coord, len(entries)),
		byCoord: make(map[grid.Coord]string, len(entries)),
	}

	for _, e := range entries {
		id, err := NormalizeID(e.ID)
		if err != nil {
			return nil, baerr.Wrap(baerr.KindLookupFailed, err)
		}
		if _, dup := m.byID[id]; dup {
			return nil, baerr.Wrap(baerr.KindConflict, ErrDuplicate)
		}
		if _, dup := m.byCoord[e.Coord]; dup {
			return nil, baerr.Wrap(baerr.KindConflict, ErrDuplicate)
		}
		m.byID[id] = e.Coord
		m.byCoord[e.Coord] = id
	}

	return m, nil
}

// NormalizeID reduces either accepted midplane id form to the canonical
// 4-character R<rack><midplane>: "R00-M0" becomes "R000", "R000" passes
// through unchanged. The rack and midplane characters themselves are not
// interpreted.
func NormalizeID(id string) (string, error) {
	id = strings.TrimSpace(id)
	switch len(id) {
	case 4:
		if id[0] != 'R' {
			return "", ErrBadID
		}
		return id, nil
	case 6:
		if id[0] != 'R' || id[3] != '-' || id[4] != 'M' {
			return "", ErrBadID
		}
		return id[:3] + id[5:], nil
	default:
		return "", ErrBadID
	}
}

// FindBPLoc resolves a midplane id (either accepted form) to its grid
// coordinate.
func (m *BPMap) FindBPLoc(id string) (grid.Coord, error) {
	norm, err := NormalizeID(id)
	if err != nil {
		return grid.Coord{}, baerr.Wrap(baerr.KindLookupFailed, err)
	}
	c, ok := m.byID[norm]
	if !ok {
		return grid.Coord{}, baerr.Wrap(baerr.KindLookupFailed, ErrUnknownID)
	}
	return c, nil
}

// FindBPRackMid is the inverse lookup: coordinate to canonical id.
func (m *BPMap) FindBPRackMid(c grid.Coord) (string, error) {
	id, ok := m.byCoord[c]
	if !ok {
		return "", baerr.Wrap(baerr.KindLookupFailed, ErrUnknownCoord)
	}
	return id, nil
}
