package tangle

import (
	"fmt"
	"testing"
)

// newTestNetwork builds a network with string ids. Edge i gets the
// relationship id "e<i>".
func newTestNetwork(t *testing.T, nodes []string, edges [][2]string) *Network {
	t.Helper()
	n := NewNetwork()
	for _, id := range nodes {
		if err := n.AddNode(StringID(id), id, nil); err != nil {
			t.Fatalf("AddNode(%q) error: %v", id, err)
		}
	}
	for i, e := range edges {
		if err := n.AddEdge(StringID(e[0]), StringID(e[1]), fmt.Sprintf("e%d", i)); err != nil {
			t.Fatalf("AddEdge(%q, %q) error: %v", e[0], e[1], err)
		}
	}
	return n
}

func mustRef(t *testing.T, n *Network, id string) NodeRef {
	t.Helper()
	ref, ok := n.Lookup(StringID(id))
	if !ok {
		t.Fatalf("node %q not found", id)
	}
	return ref
}

func mustBundle(t *testing.T, n *Network, id string) *Bundle {
	t.Helper()
	ref, ok := n.BundleByID(id)
	if !ok {
		t.Fatalf("bundle %q not found", id)
	}
	return n.Bundle(ref)
}

func nodeIDs(n *Network, refs []NodeRef) []string {
	ids := make([]string, len(refs))
	for i, r := range refs {
		ids[i] = n.Node(r).ID.String()
	}
	return ids
}

func bundleIDs(n *Network, refs []BundleRef) []string {
	ids := make([]string, len(refs))
	for i, r := range refs {
		ids[i] = n.Bundle(r).ID
	}
	return ids
}

// Graph fixtures shared by several tests.
var (
	// r→x→y→w and r2→z→w: w's parents sit at different depths, so z's only
	// bundle departs two columns to the right.
	skewNodes = []string{"r", "r2", "x", "y", "z", "w"}
	skewEdges = [][2]string{{"r", "x"}, {"x", "y"}, {"r2", "z"}, {"y", "w"}, {"z", "w"}}

	// u→p, p→m, p→b, m→b: b is reachable from p directly and through m.
	triangleNodes = []string{"u", "p", "m", "b"}
	triangleEdges = [][2]string{{"u", "p"}, {"p", "m"}, {"p", "b"}, {"m", "b"}}
)
