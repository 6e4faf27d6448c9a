// Package netlink renders a document's electrical structure as a
// Graphviz diagram.
//
// # Overview
//
// Where the schematic view shows geometry, the netlink view shows
// connectivity: each placed device and each named net becomes a node,
// with one edge per connected port. It is the quickest way to eyeball
// whether a circuit is wired the way you think it is.
//
// # Usage
//
// Convert a draw model to DOT format, then render to SVG:
//
//	dot := netlink.ToDOT(model, netlink.Options{})
//	svg, err := netlink.RenderSVG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, device labels include kind and parameters.
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// Devices are drawn as boxes and nets as ellipses; the ground net "0"
// gets a doubled outline.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package netlink
