package graph

import (
	"bytes"
	"encoding/json"
)

// Document formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// =============================================================================
// Document - Layout Input
// =============================================================================

// Document is the input of one layout request.
type Document struct {
	Entities      []Entity         `json:"entities" yaml:"entities" toml:"entities"`
	Relationships []map[string]any `json:"relationships" yaml:"relationships" toml:"relationships"`
}

// Entity is one node of the input graph. Properties must carry the entity
// identifier and are echoed verbatim into the payload.
type Entity struct {
	Name       string         `json:"name" yaml:"name" toml:"name"`
	Properties map[string]any `json:"properties" yaml:"properties" toml:"properties"`
}

// =============================================================================
// Payload - Layout Output
// =============================================================================

// Payload is the laid-out geometry consumed by the renderer.
//
// Struct fields are declared in alphabetical order of their JSON names so the
// encoded document has sorted keys throughout.
type Payload struct {
	Bundles []BundleRow  `json:"bundles"`
	Config  RenderConfig `json:"config"`
	Nodes   []NodeRow    `json:"nodes"`
}

// NodeRow is one positioned node. Caller properties are merged into the same
// JSON object after the layout fields, so a property named like a layout
// field overrides it.
type NodeRow struct {
	X            float64
	Y            float64
	BundleHeight float64
	Title        string
	Properties   map[string]any
}

// MarshalJSON flattens the row and its properties into one object.
func (r NodeRow) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(r.Properties)+4)
	obj["x"] = r.X
	obj["y"] = r.Y
	obj["bundle_height"] = r.BundleHeight
	obj["title"] = r.Title
	for k, v := range r.Properties {
		obj[k] = v
	}
	return encodeCompact(obj)
}

// BundleRow lists the links routed through one bundle.
type BundleRow struct {
	ID    string    `json:"id"`
	Links []LinkRow `json:"links"`
}

// LinkRow is one parent→child link: the parent lane anchor (PX, PY), the
// bundle trunk X and the child anchor (CX, CY).
type LinkRow struct {
	CX      float64 `json:"cx"`
	CY      float64 `json:"cy"`
	EventID any     `json:"event_id"`
	PX      float64 `json:"px"`
	PY      float64 `json:"py"`
	X       float64 `json:"x"`
}

// RenderConfig carries the geometry constants the renderer needs and the
// overall drawing size.
type RenderConfig struct {
	BallRadius            float64 `json:"BallRadius"`
	Border                float64 `json:"Border"`
	BundleWidth           float64 `json:"BundleWidth"`
	Height                float64 `json:"Height"`
	LinkRadius            float64 `json:"LinkRadius"`
	MinLevelOffset        float64 `json:"MinLevelOffset"`
	NodeSpacing           float64 `json:"NodeSpacing"`
	NodeWidth             float64 `json:"NodeWidth"`
	OutboundBundleSpacing float64 `json:"OutboundBundleSpacing"`
	TextOffsetX           float64 `json:"TextOffsetX"`
	TextOffsetY           float64 `json:"TextOffsetY"`
	Width                 float64 `json:"Width"`
}

func encodeCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
