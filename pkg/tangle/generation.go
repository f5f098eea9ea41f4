package tangle

import "github.com/matzehuels/tangle/pkg/errors"

// AssignLevels assigns a generation and level to every bundle and a level to
// every node. It calls [Network.Build] first if needed and is idempotent.
//
// # Generations
//
// Root bundles (no upstream bundles, at least one downstream bundle) are
// seeded with generation 0. From the seeds the assignment spreads outwards
// breadth-first: an unassigned downstream bundle gets current+1, an
// unassigned upstream bundle current-1. Relaxation sweeps then raise every
// bundle to one more than its highest upstream bundle, so each bundle keeps
// the smallest generation consistent with all its parents.
//
// Bundles never reached belong to components without a root bundle; they get
// the minimum generation seen anywhere, which places them in the leftmost
// column.
//
// # Levels
//
// Bundle levels are generations shifted so the smallest is 0. A node with
// parents sits one level right of its parent bundle; a node without parents
// takes the smallest level among its child bundles.
//
// # Cycles
//
// On acyclic input relaxation settles within one sweep per bundle. If a
// generation still changes after that the bundle graph contains a cycle and
// AssignLevels fails with CYCLE_ERROR naming a bundle on it.
func (n *Network) AssignLevels() error {
	n.Build()
	if n.leveled {
		return nil
	}
	if err := n.assignGenerations(); err != nil {
		return err
	}
	n.assignNodeLevels()
	n.leveled = true
	return nil
}

func (n *Network) assignGenerations() error {
	order := n.BundleRefs()

	n.discover(order)
	if err := n.relax(order); err != nil {
		return err
	}

	lowest, found := 0, false
	for _, ref := range order {
		if b := &n.bundles[ref]; b.assigned && (!found || b.Generation < lowest) {
			lowest, found = b.Generation, true
		}
	}
	for _, ref := range order {
		if b := &n.bundles[ref]; !b.assigned {
			b.Generation, b.assigned = lowest, true
		}
	}
	// Components without a root bundle can only be cycles once the leftovers
	// are placed; a second pass catches them.
	if err := n.relax(order); err != nil {
		return err
	}

	base := 0
	for _, ref := range order {
		base = min(base, n.bundles[ref].Generation)
	}
	for _, ref := range order {
		n.bundles[ref].Level = n.bundles[ref].Generation - base
	}
	return nil
}

// discover seeds root bundles and spreads tentative generations breadth-first
// to every bundle reachable from them in either direction.
func (n *Network) discover(order []BundleRef) {
	var queue []BundleRef
	for _, ref := range order {
		b := &n.bundles[ref]
		if len(b.Upstream) == 0 && len(b.Downstream) > 0 {
			b.Generation, b.assigned = 0, true
			queue = append(queue, ref)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		gen := n.bundles[curr].Generation

		for _, d := range n.bundles[curr].Downstream {
			if b := &n.bundles[d]; !b.assigned {
				b.Generation, b.assigned = gen+1, true
				queue = append(queue, d)
			}
		}
		for _, u := range n.bundles[curr].Upstream {
			if b := &n.bundles[u]; !b.assigned {
				b.Generation, b.assigned = gen-1, true
				queue = append(queue, u)
			}
		}
	}
}

// relax raises assigned bundles until each is strictly deeper than all of its
// assigned upstream bundles. The sweep count is bounded by the bundle count.
func (n *Network) relax(order []BundleRef) error {
	limit := len(order) + 1
	for sweep := 0; ; sweep++ {
		changed := NoBundle
		for _, ref := range order {
			b := &n.bundles[ref]
			if !b.assigned {
				continue
			}
			for _, u := range b.Upstream {
				up := &n.bundles[u]
				if up.assigned && b.Generation <= up.Generation {
					b.Generation = up.Generation + 1
					changed = ref
				}
			}
		}
		if changed == NoBundle {
			return nil
		}
		if sweep >= limit {
			return errors.Cycle(n.bundles[changed].ID)
		}
	}
}

func (n *Network) assignNodeLevels() {
	n.maxLevel = 0
	for i := range n.nodes {
		node := &n.nodes[i]
		switch {
		case node.ParentBundle != NoBundle:
			node.Level = n.bundles[node.ParentBundle].Level + 1
		case len(node.ChildBundles) > 0:
			node.Level = n.bundles[node.ChildBundles[0]].Level
			for _, cb := range node.ChildBundles[1:] {
				node.Level = min(node.Level, n.bundles[cb].Level)
			}
		default:
			node.Level = 0
		}
		n.maxLevel = max(n.maxLevel, node.Level)
	}
}
