// Package nodelink renders a network's bundle graph as a Graphviz diagram.
//
// The tangled-tree payload is meant for an external renderer. When a layout
// looks wrong it is often easier to inspect the intermediate structure:
// which nodes share a parent bundle, and which level each one landed on.
// [ToDOT] draws exactly that, one rank per column:
//
//	dot, err := nodelink.ToDOT(network, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [Render] also produces the raw DOT text, PDF and PNG.
//
// SVG rendering uses [github.com/goccy/go-graphviz], which embeds Graphviz;
// no system installation is needed. PDF and PNG conversion requires librsvg
// (rsvg-convert).
package nodelink
