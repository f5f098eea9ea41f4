package tangle

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/tangle/pkg/errors"
	"github.com/matzehuels/tangle/pkg/graph"
)

// decoded mirrors the payload document for assertions.
type decoded struct {
	Bundles []struct {
		ID    string `json:"id"`
		Links []struct {
			EventID any     `json:"event_id"`
			PX      float64 `json:"px"`
			PY      float64 `json:"py"`
			X       float64 `json:"x"`
			CX      float64 `json:"cx"`
			CY      float64 `json:"cy"`
		} `json:"links"`
	} `json:"bundles"`
	Config map[string]float64 `json:"config"`
	Nodes  []map[string]any   `json:"nodes"`
}

func buildDoc(t *testing.T, doc graph.Document, opts ...BuilderOption) []byte {
	t.Helper()
	b := NewBuilder(opts...)
	if err := b.AddDocument(doc); err != nil {
		t.Fatalf("AddDocument() error: %v", err)
	}
	data, err := b.BuildAndExport()
	if err != nil {
		t.Fatalf("BuildAndExport() error: %v", err)
	}
	return data
}

func decode(t *testing.T, data []byte) decoded {
	t.Helper()
	var d decoded
	if err := json.Unmarshal(data, &d); err != nil {
		t.Fatalf("unmarshal payload: %v\n%s", err, data)
	}
	return d
}

func entity(name string, id any) graph.Entity {
	return graph.Entity{Name: name, Properties: map[string]any{"id": id}}
}

func rel(id string, source, target any) map[string]any {
	return map[string]any{"id": id, "source": source, "target": target}
}

func TestBuildAndExportRoundTrip(t *testing.T) {
	data := buildDoc(t, graph.Document{
		Entities:      []graph.Entity{entity("A", 1), entity("B", 2), entity("C", 3)},
		Relationships: []map[string]any{rel("r1", 1, 3), rel("r2", 2, 3)},
	})
	d := decode(t, data)

	if len(d.Nodes) != 3 {
		t.Fatalf("len(nodes) = %d, want 3", len(d.Nodes))
	}
	wantNodes := []struct {
		title string
		x, y  float64
	}{{"A", 0, 0}, {"B", 0, 24}, {"C", 178, 88}}
	for i, w := range wantNodes {
		got := d.Nodes[i]
		if got["title"] != w.title || got["x"] != w.x || got["y"] != w.y {
			t.Errorf("node %d = %v, want title %s at (%v, %v)", i, got, w.title, w.x, w.y)
		}
	}

	if len(d.Bundles) != 1 || d.Bundles[0].ID != "1_2" {
		t.Fatalf("bundles = %+v, want one bundle 1_2", d.Bundles)
	}
	links := d.Bundles[0].Links
	if len(links) != 2 {
		t.Fatalf("len(links) = %d, want 2", len(links))
	}
	for i, want := range []string{"r1", "r2"} {
		if links[i].EventID != want {
			t.Errorf("link %d event_id = %v, want %s", i, links[i].EventID, want)
		}
		if links[i].CY-links[i].PY < 64 {
			t.Errorf("link %d drops %v, want >= 64", i, links[i].CY-links[i].PY)
		}
	}

	if d.Config["MinLevelOffset"] != 64 {
		t.Errorf("MinLevelOffset = %v, want 64", d.Config["MinLevelOffset"])
	}
	if d.Config["Width"] != 328 || d.Config["Height"] != 238 {
		t.Errorf("size = %vx%v, want 328x238", d.Config["Width"], d.Config["Height"])
	}
}

func TestBuildAndExportFormatting(t *testing.T) {
	data := buildDoc(t, graph.Document{
		Entities: []graph.Entity{
			{Name: "<a&b>", Properties: map[string]any{"id": "x", "zeta": 1, "alpha": 2}},
			entity("y", "y"),
		},
		Relationships: []map[string]any{rel("e", "x", "y")},
	})
	out := string(data)

	if !strings.HasPrefix(out, "{\n    \"bundles\": [") {
		t.Errorf("payload does not start with an indented bundles key:\n%s", out)
	}
	if !strings.Contains(out, `"title": "<a&b>"`) {
		t.Errorf("title was HTML escaped:\n%s", out)
	}
	if strings.HasSuffix(out, "\n") {
		t.Error("payload ends with a newline")
	}

	nodes := out[strings.Index(out, `"nodes": [`):]
	keys := []string{`"alpha"`, `"bundle_height"`, `"id"`, `"title"`, `"x"`, `"y"`, `"zeta"`}
	last := -1
	for _, k := range keys {
		i := strings.Index(nodes, k+": ")
		if i < 0 || i < last {
			t.Errorf("key %s out of order in:\n%s", k, nodes)
		}
		last = i
	}
}

func TestBuildAndExportPropertyOverride(t *testing.T) {
	data := buildDoc(t, graph.Document{
		Entities: []graph.Entity{
			{Name: "a", Properties: map[string]any{"id": "a", "x": "custom", "title": "mine"}},
			entity("b", "b"),
		},
		Relationships: []map[string]any{rel("e", "a", "b")},
	})
	node := decode(t, data).Nodes[0]
	if node["x"] != "custom" || node["title"] != "mine" {
		t.Errorf("node = %v, want properties to override x and title", node)
	}
}

func TestBuildAndExportDisconnected(t *testing.T) {
	b := NewBuilder()
	doc := graph.Document{
		Entities: []graph.Entity{
			entity("one", 1), entity("two", 2), entity("three", 3),
			entity("nine", 9), entity("ten", 10),
		},
		Relationships: []map[string]any{rel("a", 1, 2), rel("b", 2, 3), rel("c", 9, 10)},
	}
	if err := b.AddDocument(doc); err != nil {
		t.Fatal(err)
	}
	l, err := b.Layout()
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}

	n := b.Network()
	for id, want := range map[float64]int{9: 0, 10: 1} {
		ref, ok := n.Lookup(NumberID(id))
		if !ok {
			t.Fatalf("node %v missing", id)
		}
		if got := n.Node(ref).Level; got != want {
			t.Errorf("level(%v) = %d, want %d", id, got, want)
		}
	}
	ten, _ := n.Lookup(NumberID(10))
	two, _ := n.Lookup(NumberID(2))
	if l.NodePosition(ten).X != l.NodePosition(two).X {
		t.Errorf("x(10) = %v, want column 1 x %v", l.NodePosition(ten).X, l.NodePosition(two).X)
	}
}

func TestBuildAndExportSelfLoop(t *testing.T) {
	data := buildDoc(t, graph.Document{
		Entities:      []graph.Entity{entity("loop", 5)},
		Relationships: []map[string]any{rel("self", 5, 5)},
	})
	d := decode(t, data)
	if len(d.Nodes) != 0 || len(d.Bundles) != 0 {
		t.Errorf("payload = %+v, want no nodes and no bundles", d)
	}
}

func TestBuildAndExportPrunesIsolated(t *testing.T) {
	data := buildDoc(t, graph.Document{
		Entities:      []graph.Entity{entity("a", "a"), entity("b", "b"), entity("alone", "alone")},
		Relationships: []map[string]any{rel("e", "a", "b")},
	})
	for _, node := range decode(t, data).Nodes {
		if node["id"] == "alone" {
			t.Error("isolated node present in payload")
		}
	}
}

func TestBuildAndExportDeterministic(t *testing.T) {
	entities := []graph.Entity{
		entity("a", "a"), entity("b", "b"), entity("c", "c"),
		entity("d", "d"), entity("e", "e"), entity("f", "f"),
	}
	rels := []map[string]any{
		rel("1", "a", "c"), rel("2", "b", "c"), rel("3", "a", "d"),
		rel("4", "c", "e"), rel("5", "d", "e"), rel("6", "b", "f"),
	}
	first := buildDoc(t, graph.Document{Entities: entities, Relationships: rels})
	second := buildDoc(t, graph.Document{Entities: entities, Relationships: rels})
	if !bytes.Equal(first, second) {
		t.Error("identical input produced different payloads")
	}

	reversedEntities := make([]graph.Entity, len(entities))
	for i, e := range entities {
		reversedEntities[len(entities)-1-i] = e
	}
	reversedRels := make([]map[string]any, len(rels))
	for i, r := range rels {
		reversedRels[len(rels)-1-i] = r
	}
	third := buildDoc(t, graph.Document{Entities: reversedEntities, Relationships: reversedRels})
	if !bytes.Equal(first, third) {
		t.Errorf("insertion order changed the payload:\n%s\n---\n%s", first, third)
	}
}

func TestBuilderCustomKeys(t *testing.T) {
	keys := Keys{EntityID: "key", Source: "from", Target: "to", RelationshipID: "rid"}
	data := buildDoc(t, graph.Document{
		Entities: []graph.Entity{
			{Name: "a", Properties: map[string]any{"key": "a"}},
			{Name: "b", Properties: map[string]any{"key": "b"}},
		},
		Relationships: []map[string]any{{"rid": "edge", "from": "a", "to": "b"}},
	}, WithKeys(keys))

	d := decode(t, data)
	if len(d.Bundles) != 1 || d.Bundles[0].Links[0].EventID != "edge" {
		t.Errorf("bundles = %+v, want one link with event_id edge", d.Bundles)
	}
}

func TestBuilderCustomConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NodeWidth = 100
	cfg.LinkRadius = 10
	data := buildDoc(t, graph.Document{
		Entities:      []graph.Entity{entity("a", "a"), entity("b", "b")},
		Relationships: []map[string]any{rel("e", "a", "b")},
	}, WithConfig(cfg))

	d := decode(t, data)
	if d.Config["MinLevelOffset"] != 40 {
		t.Errorf("MinLevelOffset = %v, want 40", d.Config["MinLevelOffset"])
	}
	// b sits at x = 100 + 14 + 14 and y = 40.
	if d.Config["Width"] != 228 || d.Config["Height"] != 140 {
		t.Errorf("size = %vx%v, want 228x140", d.Config["Width"], d.Config["Height"])
	}
}

func TestBuilderErrors(t *testing.T) {
	base := []graph.Entity{entity("a", "a"), entity("b", "b")}
	tests := []struct {
		name     string
		doc      graph.Document
		wantCode errors.Code
		wantID   string
	}{
		{
			name:     "entity without id",
			doc:      graph.Document{Entities: []graph.Entity{{Name: "x", Properties: map[string]any{"name": "x"}}}},
			wantCode: errors.ErrCodeMalformed,
		},
		{
			name:     "entity with boolean id",
			doc:      graph.Document{Entities: []graph.Entity{{Name: "x", Properties: map[string]any{"id": true}}}},
			wantCode: errors.ErrCodeMalformed,
		},
		{
			name:     "duplicate entity",
			doc:      graph.Document{Entities: []graph.Entity{entity("a", "a"), entity("again", "a")}},
			wantCode: errors.ErrCodeMalformed,
			wantID:   "a",
		},
		{
			name:     "control character in name",
			doc:      graph.Document{Entities: []graph.Entity{entity("bad\x00name", "z")}},
			wantCode: errors.ErrCodeMalformed,
			wantID:   "z",
		},
		{
			name:     "unknown target",
			doc:      graph.Document{Entities: base, Relationships: []map[string]any{rel("e", "a", "ghost")}},
			wantCode: errors.ErrCodeReference,
			wantID:   "ghost",
		},
		{
			name:     "relationship without target",
			doc:      graph.Document{Entities: base, Relationships: []map[string]any{{"id": "e", "source": "a"}}},
			wantCode: errors.ErrCodeMalformed,
		},
		{
			name:     "relationship without id",
			doc:      graph.Document{Entities: base, Relationships: []map[string]any{{"source": "a", "target": "b"}}},
			wantCode: errors.ErrCodeMalformed,
			wantID:   "a",
		},
		{
			name:     "cycle",
			doc:      graph.Document{Entities: base, Relationships: []map[string]any{rel("1", "a", "b"), rel("2", "b", "a")}},
			wantCode: errors.ErrCodeCycle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			err := b.AddDocument(tt.doc)
			if err == nil {
				_, err = b.BuildAndExport()
			}
			if !errors.Is(err, tt.wantCode) {
				t.Fatalf("error = %v, want code %v", err, tt.wantCode)
			}
			if tt.wantID != "" && errors.GetID(err) != tt.wantID {
				t.Errorf("error id = %q, want %q", errors.GetID(err), tt.wantID)
			}
		})
	}
}

func TestKeysValidate(t *testing.T) {
	if err := DefaultKeys().Validate(); err != nil {
		t.Errorf("DefaultKeys().Validate() error: %v", err)
	}
	k := DefaultKeys()
	k.Source = ""
	if err := k.Validate(); err == nil {
		t.Error("Validate() with empty source key succeeded")
	}
}
