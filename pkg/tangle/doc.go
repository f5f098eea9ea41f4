// Package tangle computes "tangled tree" layouts: layered drawings of a
// directed acyclic graph in which the edges fanning into a node are merged
// into bundles.
//
// # Overview
//
// A [Network] holds entities (nodes) and parent→child relationships. Nodes
// may have many parents. Every distinct set of parents that a child shares is
// collapsed into one [Bundle], the drawing trunk from which the links to all
// children with that exact parent set depart.
//
// Computing a layout runs the following stages, each exposed on its own:
//
//  1. [Network.Build]: prune isolated nodes, intern bundles keyed by the
//     sorted parent ids, link bundles into an upstream/downstream hierarchy.
//  2. [Network.AssignLevels]: give every bundle a signed generation by
//     propagating outwards from root bundles, normalize generations to
//     non-negative levels, derive node levels from bundle levels.
//  3. [Network.Columns]: group nodes and bundles into columns by level and
//     order each column to keep parents of shared bundles adjacent.
//  4. [Compute]: assign pixel coordinates column by column, create the
//     links, and run a single forward sweep that pushes columns down until
//     every link has room for its curve.
//  5. [Extract]: flatten the layout into the wire payload consumed by the
//     renderer.
//
// Most callers use the [Builder], which accepts caller property bags and
// returns the encoded JSON document:
//
//	b := tangle.NewBuilder()
//	_ = b.AddEntity("A", map[string]any{"id": 1})
//	_ = b.AddEntity("B", map[string]any{"id": 2})
//	_ = b.AddEntity("C", map[string]any{"id": 3})
//	_ = b.AddRelationship(map[string]any{"source": 1, "target": 3, "id": "r1"})
//	_ = b.AddRelationship(map[string]any{"source": 2, "target": 3, "id": "r2"})
//	data, err := b.BuildAndExport()
//
// # Handles
//
// Nodes and bundles live in arenas owned by the [Network] and refer to each
// other through [NodeRef] and [BundleRef] indices rather than pointers.
//
// # Errors
//
// Unknown ids fail with a REFERENCE_ERROR, missing identifier fields with
// MALFORMED_PROPERTIES, and cyclic input with CYCLE_ERROR (see
// [github.com/matzehuels/tangle/pkg/errors]). Self-loops are dropped silently.
//
// # Concurrency
//
// A Network is not safe for concurrent use. Each layout request should build
// its own Network; nothing is shared between instances.
package tangle
