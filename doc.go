// Package blockalloc allocates cuboid blocks of midplanes on a 3D-torus
// interconnect and programs the per-dimension switches that carry each
// block's torus or mesh wiring.
//
// Given a desired job geometry and a connection type, the allocator finds a
// contiguous region of free midplanes and simultaneously wires the switches
// at every midplane in the region so that each requested dimension forms a
// valid ring (torus) or open path (mesh). Overlapping allocations are
// rejected against a virtual mirror of the fabric kept in memory; nothing
// here talks to real hardware.
//
// Packages:
//
//	grid/      — the 3D array of midplanes, switches, ports and wires
//	wireinit/  — populates external wires for an emulated grid or an inventory import
//	geometry/  — validates a request and enumerates candidate geometries
//	xpath/     — searches the long (X) dimension for a contiguous run of midplanes
//	yzwire/    — replicates an X path across Y/Z and wires those dimensions
//	torus/     — closes an open X path into a ring, honoring passthrough policy
//	alloc/     — top-level Allocate/Remove/Reset with commit/rollback
//	query/     — id/coordinate lookups, block-wiring import, node-list merge
//	hostlist/  — the compact range encoding used to name a block
//	config/    — the allocator's slice of the surrounding config file
//	baerr/     — the error-kind taxonomy surfaced by Allocate
//	telemetry/ — debug-level trace logging
//	diag/      — operator-visualization snapshots of the grid
//
// The allocator is single-threaded and cooperative: every entry point
// assumes the caller already holds whatever external lock serializes access
// to the fabric. There is no internal parallelism and no hardware I/O.
package blockalloc
