package tangle

import "slices"

// Point is a pixel position. Y grows downwards.
type Point struct {
	X, Y float64
}

// Link is one parent→child connection routed through a bundle. X and Y are
// the anchor offsets: X is the bundle's trunk position, Y the parent's lane
// offset below the parent node.
type Link struct {
	Parent         NodeRef
	Child          NodeRef
	Bundle         BundleRef
	RelationshipID any
	Lane           int
	X, Y           float64
}

// Layout is the geometry of one layout pass. It is recomputed from scratch
// on every call to [Compute] and never written back into the Network.
type Layout struct {
	Network *Network
	Config  Config
	Columns []Column

	nodes   []Point   // by NodeRef
	bundles []float64 // trunk x by BundleRef
	links   [][]Link  // by BundleRef
}

// Compute runs the full pipeline on n and returns the laid-out geometry.
//
// Nodes are placed column by column from a running cursor at (0, 0). Within
// a column y restarts at 0 and each node takes NodeSpacing plus one
// OutboundBundleSpacing per child bundle beyond the first. After the nodes
// the cursor moves right by NodeWidth+BundleWidth and the column's bundles
// are placed in reverse id order, BundleWidth apart.
//
// A single forward sweep then moves columns down so that every link drops at
// least [Config.MinLevelOffset] between its parent lane and its child. The
// sweep never revisits earlier columns.
func Compute(n *Network, cfg Config) (*Layout, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cols, err := n.Columns()
	if err != nil {
		return nil, err
	}

	l := &Layout{
		Network: n,
		Config:  cfg,
		Columns: cols,
		nodes:   make([]Point, n.NodeCount()),
		bundles: make([]float64, n.BundleCount()),
		links:   make([][]Link, n.BundleCount()),
	}
	l.place()
	l.adjust()
	return l, nil
}

// NodePosition returns the top-left anchor of a node.
func (l *Layout) NodePosition(ref NodeRef) Point { return l.nodes[ref] }

// BundleX returns the x position of a bundle's trunk.
func (l *Layout) BundleX(ref BundleRef) float64 { return l.bundles[ref] }

// Links returns the links routed through a bundle, parents outer and
// children inner, both in id order.
func (l *Layout) Links(ref BundleRef) []Link { return l.links[ref] }

// LinkCount returns the total number of links.
func (l *Layout) LinkCount() int {
	total := 0
	for _, ls := range l.links {
		total += len(ls)
	}
	return total
}

// BundleSpan is the vertical room a node reserves for its stacked outgoing
// lanes.
func (l *Layout) BundleSpan(ref NodeRef) float64 {
	extra := max(0, len(l.Network.nodes[ref].ChildBundles)-1)
	return float64(extra) * l.Config.OutboundBundleSpacing
}

func (l *Layout) place() {
	x := 0.0
	for _, col := range l.Columns {
		y := 0.0
		for _, ref := range col.Nodes {
			l.nodes[ref] = Point{X: x, Y: y}
			y += l.Config.NodeSpacing + l.BundleSpan(ref)
		}

		x += l.Config.NodeWidth + l.Config.BundleWidth
		for _, b := range slices.Backward(col.Bundles) {
			l.bundles[b] = x
			x += l.Config.BundleWidth
		}
	}

	for b := range l.links {
		l.links[b] = l.routeBundle(BundleRef(b))
	}
}

func (l *Layout) routeBundle(ref BundleRef) []Link {
	n := l.Network
	b := &n.bundles[ref]
	links := make([]Link, 0, len(b.Parents)*len(b.Children))
	for _, p := range b.Parents {
		lane := slices.Index(n.nodes[p].ChildBundles, ref)
		for _, c := range b.Children {
			rel, _ := n.Relationship(n.nodes[p].ID, n.nodes[c].ID)
			links = append(links, Link{
				Parent:         p,
				Child:          c,
				Bundle:         ref,
				RelationshipID: rel,
				Lane:           lane,
				X:              l.bundles[ref],
				Y:              float64(lane) * l.Config.OutboundBundleSpacing,
			})
		}
	}
	return links
}

// adjust is the forward vertical sweep. delta is the push demanded by the
// previous column's links; limit is the lowest y the next column's
// non-local block may start at.
func (l *Layout) adjust() {
	var limit, delta float64
	haveLimit := false
	minRun := l.Config.MinLevelOffset()

	for _, col := range l.Columns {
		if len(col.Nodes) == 0 {
			delta = max(0, l.requiredDrop(col, minRun))
			continue
		}

		blockShift := delta
		if col.IndexLimit > 0 && haveLimit {
			first := l.nodes[col.Nodes[0]].Y
			blockShift = min(delta, max(0, limit-first))
		}
		for i, ref := range col.Nodes {
			if i < col.IndexLimit {
				l.nodes[ref].Y += blockShift
			} else {
				l.nodes[ref].Y += delta
			}
		}

		delta = max(0, l.requiredDrop(col, minRun))
		limit = l.nodes[col.Nodes[0]].Y + l.Config.NodeSpacing
		haveLimit = true
	}
}

// requiredDrop is the largest shortfall between any link's vertical run and
// minRun over the bundles departing from col.
func (l *Layout) requiredDrop(col Column, minRun float64) float64 {
	need := 0.0
	for _, b := range col.Bundles {
		for _, link := range l.links[b] {
			run := l.nodes[link.Child].Y - (l.nodes[link.Parent].Y + link.Y)
			need = max(need, minRun-run)
		}
	}
	return need
}
