package tangle

import (
	"maps"
	"slices"
)

// Column holds the nodes of one level and the bundles departing from it.
type Column struct {
	Index   int
	Nodes   []NodeRef   // Top-to-bottom drawing order
	Bundles []BundleRef // Sorted by bundle id

	// IndexLimit is the number of non-local nodes at the top of Nodes, or 0
	// when the column has none. The vertical sweep caps how far this block
	// may move.
	IndexLimit int
}

// Columns groups nodes and bundles by level and orders each column. It calls
// [Network.AssignLevels] first and returns its error.
//
// A column's bundles are the bundles whose level equals the column index,
// drawn immediately to its right. Nodes are ordered in three passes:
//
//  1. Non-local nodes, whose child bundles include one at another level,
//     grouped by their deepest child-bundle level in descending order and by
//     id inside a group.
//  2. For each bundle of the column, its not yet placed parents in this
//     column, keeping parents of a shared bundle adjacent.
//  3. Everything else by id.
func (n *Network) Columns() ([]Column, error) {
	if err := n.AssignLevels(); err != nil {
		return nil, err
	}

	cols := make([]Column, n.maxLevel+1)
	for i := range cols {
		cols[i].Index = i
	}
	for i := range n.nodes {
		lvl := n.nodes[i].Level
		cols[lvl].Nodes = append(cols[lvl].Nodes, NodeRef(i))
	}
	for _, ref := range n.BundleRefs() {
		if lvl := n.bundles[ref].Level; lvl < len(cols) {
			cols[lvl].Bundles = append(cols[lvl].Bundles, ref)
		}
	}

	for i := range cols {
		n.orderColumn(&cols[i])
	}
	return cols, nil
}

func (n *Network) orderColumn(col *Column) {
	pending := slices.Clone(col.Nodes)
	n.sortNodes(pending)

	placed := make(map[NodeRef]bool, len(pending))
	ordered := make([]NodeRef, 0, len(pending))
	place := func(ref NodeRef) {
		if !placed[ref] {
			placed[ref] = true
			ordered = append(ordered, ref)
		}
	}

	groups := make(map[int][]NodeRef)
	for _, ref := range pending {
		if deepest, ok := n.nonLocalDepth(ref, col.Index); ok {
			groups[deepest] = append(groups[deepest], ref)
		}
	}
	for _, lvl := range slices.Backward(slices.Sorted(maps.Keys(groups))) {
		for _, ref := range groups[lvl] {
			place(ref)
		}
	}
	col.IndexLimit = len(ordered)

	for _, b := range col.Bundles {
		for _, p := range n.bundles[b].Parents {
			if n.nodes[p].Level == col.Index {
				place(p)
			}
		}
	}

	for _, ref := range pending {
		place(ref)
	}
	col.Nodes = ordered
}

// nonLocalDepth reports whether the node has a child bundle outside its own
// column and, if so, the deepest level among all its child bundles.
func (n *Network) nonLocalDepth(ref NodeRef, column int) (int, bool) {
	deepest, nonLocal := 0, false
	for i, cb := range n.nodes[ref].ChildBundles {
		lvl := n.bundles[cb].Level
		if lvl != column {
			nonLocal = true
		}
		if i == 0 || lvl > deepest {
			deepest = lvl
		}
	}
	return deepest, nonLocal
}
