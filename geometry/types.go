// Package geometry validates an allocation request and produces the ordered
// list of candidate cuboid shapes the X-path finder should try, in the
// order the caller's rotate/elongate flags dictate.
//
// Request construction uses functional options: NewRequest applies
// defaults, then each Option in order, later options overriding earlier
// ones.
package geometry

import "github.com/torusgrid/blockalloc/grid"

// ConnType is the requested connection topology for a block.
type ConnType int

const (
	Torus ConnType = iota
	Mesh
	// Small is resolved by Plan to an exact (1,1,1) shape; no sub-midplane
	// split happens here, and WithProcs' value only rides along on Shape.Procs.
	Small
)

// DenyPass is a bitmap over the three axes, marking which ones may not be
// satisfied via a passthrough midplane.
type DenyPass uint8

const (
	DenyX DenyPass = 1 << grid.AxisX
	DenyY DenyPass = 1 << grid.AxisY
	DenyZ DenyPass = 1 << grid.AxisZ
)

// Has reports whether passthrough is denied on axis a.
func (d DenyPass) Has(a grid.Axis) bool {
	return d&(1<<a) != 0
}

// Shape is one candidate cuboid extent the planner proposes to the X-path
// finder. Procs carries Request.Procs through unchanged, for conn_type
// Small's advisory sizing metadata; it is never interpreted by Plan itself.
// Rotation and Elongation record how far from the exact request this
// candidate sits (which axis permutation, how many elongation steps), for
// the result record's diagnostic counters.
type Shape struct {
	Dims       grid.Coord
	Procs      int
	Rotation   int
	Elongation int
}

// Request is the resolved set of inputs to Plan. Build one with NewRequest
// and Option functions rather than constructing it directly.
type Request struct {
	geometry grid.Coord
	size     int
	rotate   bool
	elongate bool
	start       *grid.Coord
	startReq    bool
	connType    ConnType
	denyPass    DenyPass
	denyPassSet bool
	denyDefault DenyPass
	procs       int
}

// Option mutates a Request under construction. Applied in NewRequest in the
// order given; later options override earlier ones on the same field.
type Option func(*Request)

// NewRequest builds a Request from defaults (size-based, Torus, no deny,
// no fixed start) plus the given options.
func NewRequest(opts ...Option) *Request {
	req := &Request{connType: Torus}
	for _, opt := range opts {
		opt(req)
	}
	return req
}

// WithGeometry requests an exact (gx,gy,gz) shape rather than a derived one.
func WithGeometry(gx, gy, gz int) Option {
	return func(r *Request) { r.geometry = grid.Coord{X: gx, Y: gy, Z: gz} }
}

// WithSize requests a shape of total size n, left to Plan to factor.
func WithSize(n int) Option {
	return func(r *Request) { r.size = n }
}

// WithRotate enables emission of the five remaining axis permutations of an
// exact geometry (no effect on a size-derived request).
func WithRotate() Option {
	return func(r *Request) { r.rotate = true }
}

// WithElongate enables continued shape generation past the exact/first
// candidate.
func WithElongate() Option {
	return func(r *Request) { r.elongate = true }
}

// WithStart pins the allocation's origin to (x,y,z). If req, the origin is
// used verbatim rather than treated as a preferred-but-negotiable start.
func WithStart(x, y, z int, req bool) Option {
	return func(r *Request) {
		c := grid.Coord{X: x, Y: y, Z: z}
		r.start = &c
		r.startReq = req
	}
}

// WithConnType sets the connection topology. Defaults to Torus.
func WithConnType(ct ConnType) Option {
	return func(r *Request) { r.connType = ct }
}

// WithDenyPass marks the given axes as forbidding passthrough. Calling it
// at all, even with no axes, makes the request's own deny_pass
// authoritative over any WithDenyPassDefault.
func WithDenyPass(axes ...grid.Axis) Option {
	return func(r *Request) {
		r.denyPassSet = true
		for _, a := range axes {
			r.denyPass |= 1 << a
		}
	}
}

// WithDenyPassDefault supplies the surrounding configuration's
// DenyPassthrough bitmap. It only takes effect on requests that never
// specify their own via WithDenyPass.
func WithDenyPassDefault(d DenyPass) Option {
	return func(r *Request) { r.denyDefault = d }
}

// WithProcs records advisory process-count metadata, used by conn_type
// Small.
func WithProcs(n int) Option {
	return func(r *Request) { r.procs = n }
}

// ConnType reports the request's connection topology.
func (r *Request) ConnType() ConnType { return r.connType }

// DenyPass reports the request's passthrough-denial bitmap: its own if it
// specified one, otherwise the configured default.
func (r *Request) DenyPass() DenyPass {
	if r.denyPassSet {
		return r.denyPass
	}
	return r.denyDefault
}

// Start reports the request's fixed start coordinate, if any, and whether
// it was marked start_req (verbatim, not negotiable).
func (r *Request) Start() (grid.Coord, bool, bool) {
	if r.start == nil {
		return grid.Coord{}, false, false
	}
	return *r.start, true, r.startReq
}
