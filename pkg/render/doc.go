// Package render converts debug drawings between output formats.
//
// The bundle graph debug view ([nodelink]) renders to SVG in-process. PDF and
// PNG are produced from that SVG by the external rsvg-convert tool (librsvg):
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// The tangle payload itself is not rendered here; it is consumed by an
// external renderer.
package render
