package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/tangle/pkg/render"
	"github.com/matzehuels/tangle/pkg/tangle"
)

// Options configures bundle graph rendering.
type Options struct {
	// Detailed adds ids, levels and bundle ids to labels.
	// When false, nodes show their name only.
	Detailed bool
}

// ToDOT converts a network to Graphviz DOT. Each column becomes a rank;
// bundles are drawn as points with undirected edges from their parents and
// arrows to their children, so the debug view shows the same merging the
// tangled layout draws. ToDOT runs level assignment and fails if it does.
func ToDOT(n *tangle.Network, opts Options) (string, error) {
	cols, err := n.Columns()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")

	for _, col := range cols {
		if len(col.Nodes) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "\n  subgraph level_%d {\n    rank=same;\n", col.Index)
		for _, ref := range col.Nodes {
			node := n.Node(ref)
			fmt.Fprintf(&buf, "    %q [label=%q];\n", nodeName(node.ID), fmtLabel(node, opts.Detailed))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, ref := range n.BundleRefs() {
		b := n.Bundle(ref)
		name := "b:" + b.ID
		attrs := []string{"shape=point", "width=0.12"}
		if opts.Detailed {
			label := fmt.Sprintf("%s (level %d)", b.ID, b.Level)
			attrs = append(attrs, fmt.Sprintf("xlabel=%q", label))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", name, strings.Join(attrs, ", "))
		for _, p := range b.Parents {
			fmt.Fprintf(&buf, "  %q -> %q [arrowhead=none];\n", nodeName(n.Node(p).ID), name)
		}
		for _, c := range b.Children {
			fmt.Fprintf(&buf, "  %q -> %q;\n", name, nodeName(n.Node(c).ID))
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

// nodeName keeps numeric 1 and string "1" apart.
func nodeName(id tangle.ID) string {
	if id.IsNumeric() {
		return "n#" + id.String()
	}
	return "n:" + id.String()
}

func fmtLabel(n *tangle.Node, detailed bool) string {
	title := n.Name
	if title == "" {
		title = n.ID.String()
	}
	if !detailed {
		return title
	}

	parts := []string{fmt.Sprintf("id: %s", n.ID), fmt.Sprintf("level: %d", n.Level)}
	for _, p := range n.Properties {
		parts = append(parts, fmt.Sprintf("%s: %v", p.Key, p.Value))
	}
	return title + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using the embedded Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// Render produces the bundle graph in one of [render.Formats].
func Render(ctx context.Context, dot, format string) ([]byte, error) {
	if format == render.FormatDOT {
		return []byte(dot), nil
	}
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	switch format {
	case render.FormatSVG:
		return svg, nil
	case render.FormatPDF:
		return render.ToPDF(ctx, svg)
	case render.FormatPNG:
		return render.ToPNG(ctx, svg, 2)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with a plain
// pixel-sized one.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
