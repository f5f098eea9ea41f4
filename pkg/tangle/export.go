package tangle

import "github.com/matzehuels/tangle/pkg/graph"

// Extract flattens a layout into the renderer payload. It is a pure function
// of the layout.
//
// Nodes are emitted column by column in drawing order; bundles column by
// column in id order. A link's parent anchor includes the parent's lane
// offset. The drawing size is the furthest node position plus a NodeWidth
// margin in both directions.
func Extract(l *Layout) graph.Payload {
	n := l.Network
	out := graph.Payload{
		Nodes:   make([]graph.NodeRow, 0, n.NodeCount()),
		Bundles: make([]graph.BundleRow, 0, n.BundleCount()),
	}

	var maxX, maxY float64
	for _, col := range l.Columns {
		for _, ref := range col.Nodes {
			node := &n.nodes[ref]
			pos := l.nodes[ref]
			props := make(map[string]any, len(node.Properties))
			for _, kv := range node.Properties {
				props[kv.Key] = kv.Value
			}
			out.Nodes = append(out.Nodes, graph.NodeRow{
				X:            pos.X,
				Y:            pos.Y,
				BundleHeight: l.BundleSpan(ref),
				Title:        node.Name,
				Properties:   props,
			})
			maxX = max(maxX, pos.X)
			maxY = max(maxY, pos.Y)
		}
	}

	for _, col := range l.Columns {
		for _, b := range col.Bundles {
			row := graph.BundleRow{
				ID:    n.bundles[b].ID,
				Links: make([]graph.LinkRow, 0, len(l.links[b])),
			}
			for _, link := range l.links[b] {
				parent, child := l.nodes[link.Parent], l.nodes[link.Child]
				row.Links = append(row.Links, graph.LinkRow{
					EventID: link.RelationshipID,
					PX:      parent.X,
					PY:      parent.Y + link.Y,
					X:       link.X,
					CX:      child.X,
					CY:      child.Y,
				})
			}
			out.Bundles = append(out.Bundles, row)
		}
	}

	cfg := l.Config
	out.Config = graph.RenderConfig{
		BallRadius:            cfg.BallRadius,
		Border:                cfg.Border,
		BundleWidth:           cfg.BundleWidth,
		LinkRadius:            cfg.LinkRadius,
		MinLevelOffset:        cfg.MinLevelOffset(),
		NodeSpacing:           cfg.NodeSpacing,
		NodeWidth:             cfg.NodeWidth,
		OutboundBundleSpacing: cfg.OutboundBundleSpacing,
		TextOffsetX:           cfg.TextOffsetX,
		TextOffsetY:           cfg.TextOffsetY,
		Width:                 maxX + cfg.NodeWidth,
		Height:                maxY + cfg.NodeWidth,
	}
	return out
}
