// Package render turns schematic draw models into visual outputs.
//
// # Overview
//
// This package contains the rendering pipeline that transforms documents
// into artifacts. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Schematic SVG rendering from a [schematic.DrawModel]
//   - Connectivity diagrams (in [netlink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). These are used by both
// the schematic and netlink renderers.
//
//	svg := render.SVG(model)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Schematic Rendering
//
// [SVG] draws the layered model directly: device glyphs at the bottom,
// wire segments above them, port markers and labels on top. Output is
// plain SVG with one element per drawn feature, suitable for embedding.
//
// # Connectivity Diagrams
//
// The [netlink] subpackage renders the electrical structure rather than
// the geometry: devices and nets as nodes of a Graphviz diagram, one edge
// per connected port.
//
//	dot := netlink.ToDOT(model, netlink.Options{})
//	svg, err := netlink.RenderSVG(ctx, dot)
//
// [netlink]: github.com/circed/circed/pkg/render/netlink
// [schematic.DrawModel]: github.com/circed/circed/pkg/schematic
package render
