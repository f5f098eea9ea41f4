// Package pkg provides the libraries behind the tangle layout engine.
//
// # Overview
//
// Tangle draws layered DAGs as tangled trees: nodes sit in columns by level
// and links sharing the same parent set are merged into one bundle. The pkg
// directory is organized as:
//
//  1. [tangle] - The layout engine (network, levels, columns, coordinates, export)
//  2. [graph] - Input documents and the layout payload wire format
//  3. [pipeline] - Orchestration (parse → layout → encode) with caching
//  4. [cache] - Payload caches (file, Redis, MongoDB)
//  5. [render] - Debug drawings of the bundle graph (DOT, SVG, PDF, PNG)
//  6. [config], [errors], [observability], [buildinfo] - Ambient support
//
// # Architecture
//
//	Input document (JSON/YAML/TOML)
//	         ↓
//	    [graph] package (decode entities and relationships)
//	         ↓
//	    [tangle] package (bundles, generations, columns, coordinates)
//	         ↓
//	    payload JSON (sorted keys, 4-space indent)
//
// # Quick Start
//
//	b := tangle.NewBuilder()
//	_ = b.AddEntity("A", map[string]any{"id": "a"})
//	_ = b.AddEntity("B", map[string]any{"id": "b"})
//	_ = b.AddRelationship(map[string]any{"id": "r1", "source": "a", "target": "b"})
//	payload, err := b.BuildAndExport()
//
// [tangle]: github.com/matzehuels/tangle/pkg/tangle
// [graph]: github.com/matzehuels/tangle/pkg/graph
// [pipeline]: github.com/matzehuels/tangle/pkg/pipeline
// [cache]: github.com/matzehuels/tangle/pkg/cache
// [render]: github.com/matzehuels/tangle/pkg/render
// [config]: github.com/matzehuels/tangle/pkg/config
// [errors]: github.com/matzehuels/tangle/pkg/errors
// [observability]: github.com/matzehuels/tangle/pkg/observability
// [buildinfo]: github.com/matzehuels/tangle/pkg/buildinfo
package pkg
