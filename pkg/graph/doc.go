// Package graph provides the serialization types for tangle's inputs and
// outputs.
//
// This package sits at the wire boundary. It knows nothing about layout;
// pkg/tangle consumes a [Document] and produces a [Payload].
//
// # Input Documents
//
// A [Document] lists entities and relationships as free-form property bags:
//
//	{
//	  "entities": [
//	    {"name": "A", "properties": {"id": 1}},
//	    {"name": "C", "properties": {"id": 3}}
//	  ],
//	  "relationships": [
//	    {"source": 1, "target": 3, "id": "r1"}
//	  ]
//	}
//
// Documents can be read from JSON, YAML or TOML; [ReadDocumentFile] picks the
// decoder from the file extension. JSON numbers are decoded as json.Number so
// large integer ids survive unchanged.
//
// # Output Payload
//
// A [Payload] is the geometry handed to the renderer. [MarshalPayload]
// encodes it with alphabetically sorted keys, four-space indentation and no
// HTML escaping, so identical layouts always produce identical bytes:
//
//	{
//	    "bundles": [{"id": "1_2", "links": [{"cx": 178, "cy": 88, "event_id": "r1", ...}]}],
//	    "config": {"BallRadius": 4, "Border": 30, ...},
//	    "nodes": [{"bundle_height": 0, "id": 1, "title": "A", "x": 0, "y": 0}]
//	}
package graph
