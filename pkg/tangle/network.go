package tangle

import (
	"slices"
	"sort"
	"strings"

	"github.com/matzehuels/tangle/pkg/errors"
)

// NodeRef is a stable index into a Network's node arena.
type NodeRef int

// BundleRef is a stable index into a Network's bundle arena.
type BundleRef int

// NoBundle marks a node without a parent bundle.
const NoBundle BundleRef = -1

// Property is one caller-supplied key/value pair.
type Property struct {
	Key   string
	Value any
}

// Properties is an ordered bag of caller properties. The engine never reads
// it; only [Extract] copies it into the payload.
type Properties []Property

// PropertiesFromMap converts a map into a Properties bag sorted by key.
func PropertiesFromMap(m map[string]any) Properties {
	props := make(Properties, 0, len(m))
	for k, v := range m {
		props = append(props, Property{Key: k, Value: v})
	}
	sort.Slice(props, func(i, j int) bool { return props[i].Key < props[j].Key })
	return props
}

// Get returns the value stored under key.
func (p Properties) Get(key string) (any, bool) {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return nil, false
}

// Node is one graph entity.
type Node struct {
	ID         ID
	Name       string
	Properties Properties

	Parents  []NodeRef // Nodes with an edge into this node
	Children []NodeRef // Nodes this node has an edge to

	// ParentBundle is the bundle shared by every child with this node's exact
	// parent set, or NoBundle for nodes without parents.
	ParentBundle BundleRef
	// ChildBundles are the bundles this node contributes to as a parent,
	// sorted by bundle id. A node's lane in a bundle is its index here.
	ChildBundles []BundleRef

	Level int
}

// Bundle is the merged fan-in point of a parent set.
type Bundle struct {
	ID       string    // Sorted parent ids joined by "_"
	Parents  []NodeRef // Sorted by node id
	Children []NodeRef // Sorted by node id

	Upstream   []BundleRef // Parent bundles of this bundle's parents
	Downstream []BundleRef // Bundles listing this bundle upstream

	Generation int
	Level      int

	assigned bool
}

type edgeKey struct{ parent, child ID }

// Network owns the node and bundle arenas of one layout request.
//
// The zero value is not usable; create instances with [NewNetwork].
type Network struct {
	nodes   []Node
	index   map[ID]NodeRef
	bundles []Bundle
	interns map[string]BundleRef // keyed by internKey
	names   map[string]BundleRef // keyed by Bundle.ID

	relationships map[edgeKey]any

	built    bool
	leveled  bool
	maxLevel int
}

// NewNetwork creates an empty network.
func NewNetwork() *Network {
	return &Network{
		index:         make(map[ID]NodeRef),
		interns:       make(map[string]BundleRef),
		names:         make(map[string]BundleRef),
		relationships: make(map[edgeKey]any),
	}
}

// AddNode adds an entity. Duplicate ids are rejected with
// MALFORMED_PROPERTIES. Nodes cannot be added after [Network.Build].
func (n *Network) AddNode(id ID, name string, props Properties) error {
	if n.built {
		return errors.New(errors.ErrCodeInvalidInput, "network already built")
	}
	if id.IsZero() {
		return errors.Malformed("", "node id must not be empty")
	}
	if _, exists := n.index[id]; exists {
		return errors.Malformed(id.String(), "duplicate entity id %q", id.String())
	}
	n.index[id] = NodeRef(len(n.nodes))
	n.nodes = append(n.nodes, Node{
		ID:           id,
		Name:         name,
		Properties:   props,
		ParentBundle: NoBundle,
	})
	return nil
}

// AddEdge records a parent→child relationship identified by rel. rel is
// stored verbatim and echoed as the link's event id.
//
// Self-loops are ignored. Unknown ids fail with REFERENCE_ERROR. Adding the
// same pair twice replaces the relationship id.
func (n *Network) AddEdge(parent, child ID, rel any) error {
	if n.built {
		return errors.New(errors.ErrCodeInvalidInput, "network already built")
	}
	if parent == child {
		return nil
	}
	p, ok := n.index[parent]
	if !ok {
		return errors.Reference(parent.String())
	}
	c, ok := n.index[child]
	if !ok {
		return errors.Reference(child.String())
	}

	key := edgeKey{parent, child}
	if _, exists := n.relationships[key]; !exists {
		n.nodes[p].Children = append(n.nodes[p].Children, c)
		n.nodes[c].Parents = append(n.nodes[c].Parents, p)
	}
	n.relationships[key] = rel
	return nil
}

// Relationship returns the id supplied for the parent→child edge.
func (n *Network) Relationship(parent, child ID) (any, bool) {
	rel, ok := n.relationships[edgeKey{parent, child}]
	return rel, ok
}

// Node returns the node behind ref. The pointer is valid until the next
// call to Build.
func (n *Network) Node(ref NodeRef) *Node { return &n.nodes[ref] }

// Bundle returns the bundle behind ref.
func (n *Network) Bundle(ref BundleRef) *Bundle { return &n.bundles[ref] }

// Lookup returns the handle for id.
func (n *Network) Lookup(id ID) (NodeRef, bool) {
	ref, ok := n.index[id]
	return ref, ok
}

// BundleByID returns the handle of the bundle with the given id.
func (n *Network) BundleByID(id string) (BundleRef, bool) {
	ref, ok := n.names[id]
	return ref, ok
}

// NodeCount returns the number of nodes currently in the arena.
func (n *Network) NodeCount() int { return len(n.nodes) }

// BundleCount returns the number of interned bundles.
func (n *Network) BundleCount() int { return len(n.bundles) }

// EdgeCount returns the number of distinct relationships.
func (n *Network) EdgeCount() int { return len(n.relationships) }

// MaxLevel returns the highest node level after [Network.AssignLevels].
func (n *Network) MaxLevel() int { return n.maxLevel }

// NodeRefs returns every node handle in arena order.
func (n *Network) NodeRefs() []NodeRef {
	refs := make([]NodeRef, len(n.nodes))
	for i := range refs {
		refs[i] = NodeRef(i)
	}
	return refs
}

// BundleRefs returns every bundle handle sorted by bundle id.
func (n *Network) BundleRefs() []BundleRef {
	refs := make([]BundleRef, len(n.bundles))
	for i := range refs {
		refs[i] = BundleRef(i)
	}
	n.sortBundles(refs)
	return refs
}

func (n *Network) sortNodes(refs []NodeRef) {
	slices.SortFunc(refs, func(a, b NodeRef) int {
		return n.nodes[a].ID.Compare(n.nodes[b].ID)
	})
}

func (n *Network) sortBundles(refs []BundleRef) {
	slices.SortFunc(refs, func(a, b BundleRef) int {
		return strings.Compare(n.bundles[a].ID, n.bundles[b].ID)
	})
}
