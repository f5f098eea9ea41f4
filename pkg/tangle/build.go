package tangle

import (
	"slices"
	"strconv"
)

// Build prepares the network for layout. It is idempotent.
//
// Build performs three steps:
//  1. Nodes with neither parents nor children are removed; they contribute
//     nothing to the drawing. Handles obtained before Build are invalidated.
//  2. Every node with parents is attached to the bundle keyed by its sorted
//     parent ids, creating the bundle on first use. Two nodes with the same
//     parent set, in any insertion order, share one bundle; different parent
//     sets never do, even when their ids join to the same text.
//  3. Each bundle's Upstream lists the distinct parent bundles of its own
//     parents; the bundle registers itself in their Downstream lists.
func (n *Network) Build() {
	if n.built {
		return
	}
	n.prune()
	n.internBundles()
	n.linkBundles()
	n.built = true
}

func (n *Network) prune() {
	remap := make([]NodeRef, len(n.nodes))
	kept := n.nodes[:0:0]
	for i, node := range n.nodes {
		if len(node.Parents) == 0 && len(node.Children) == 0 {
			remap[i] = -1
			delete(n.index, node.ID)
			continue
		}
		remap[i] = NodeRef(len(kept))
		kept = append(kept, node)
	}

	for i := range kept {
		node := &kept[i]
		for j, p := range node.Parents {
			node.Parents[j] = remap[p]
		}
		for j, c := range node.Children {
			node.Children[j] = remap[c]
		}
		n.index[node.ID] = NodeRef(i)
	}
	n.nodes = kept
}

func (n *Network) internBundles() {
	for i := range n.nodes {
		child := NodeRef(i)
		if len(n.nodes[child].Parents) == 0 {
			continue
		}

		parents := slices.Clone(n.nodes[child].Parents)
		n.sortNodes(parents)
		ids := make([]ID, len(parents))
		for j, p := range parents {
			ids[j] = n.nodes[p].ID
		}
		key := internKey(ids)

		ref, ok := n.interns[key]
		if !ok {
			ref = BundleRef(len(n.bundles))
			n.bundles = append(n.bundles, Bundle{ID: bundleKey(ids), Parents: parents})
			n.interns[key] = ref
			for _, p := range parents {
				n.nodes[p].ChildBundles = append(n.nodes[p].ChildBundles, ref)
			}
		}
		n.bundles[ref].Children = append(n.bundles[ref].Children, child)
		n.nodes[child].ParentBundle = ref
	}

	n.nameBundles()
	for i := range n.nodes {
		n.sortBundles(n.nodes[i].ChildBundles)
	}
	for i := range n.bundles {
		n.sortNodes(n.bundles[i].Children)
	}
}

// nameBundles makes bundle ids unique. A bundle keeps the plain joined id
// unless another parent set joins to the same text, as {"a_b","c"} and
// {"a","b_c"} or {1} and {"1"} do; such bundles switch to the quoted form.
func (n *Network) nameBundles() {
	shared := make(map[string]int, len(n.bundles))
	for i := range n.bundles {
		shared[n.bundles[i].ID]++
	}
	for i := range n.bundles {
		b := &n.bundles[i]
		if shared[b.ID] > 1 {
			ids := make([]ID, len(b.Parents))
			for j, p := range b.Parents {
				ids[j] = n.nodes[p].ID
			}
			b.ID = quotedBundleKey(ids)
		}
	}
	clear(n.names)
	for i := range n.bundles {
		b := &n.bundles[i]
		name := b.ID
		for suffix := 2; ; suffix++ {
			if _, taken := n.names[name]; !taken {
				break
			}
			name = b.ID + "#" + strconv.Itoa(suffix)
		}
		b.ID = name
		n.names[name] = BundleRef(i)
	}
}

func (n *Network) linkBundles() {
	for i := range n.bundles {
		ref := BundleRef(i)
		var upstream []BundleRef
		for _, p := range n.bundles[ref].Parents {
			pb := n.nodes[p].ParentBundle
			if pb == NoBundle || slices.Contains(upstream, pb) {
				continue
			}
			upstream = append(upstream, pb)
		}
		n.sortBundles(upstream)
		n.bundles[ref].Upstream = upstream
		for _, u := range upstream {
			n.bundles[u].Downstream = append(n.bundles[u].Downstream, ref)
		}
	}
	for i := range n.bundles {
		n.sortBundles(n.bundles[i].Downstream)
	}
}
