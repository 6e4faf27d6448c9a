package netlink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/circed/circed/pkg/schematic"
)

// Options configures connectivity diagram rendering.
type Options struct {
	// Detailed includes device kind and parameters in node labels.
	// When false, only the designator is shown.
	Detailed bool
}

// ToDOT converts a draw model to Graphviz DOT format for connectivity
// visualization. The resulting DOT string can be rendered with [RenderSVG].
//
// Devices become box nodes, nets become ellipse nodes, and every connected
// port contributes one edge labelled with the port name. Unconnected ports
// are left out; they are a check command concern, not a diagram one.
func ToDOT(m schematic.DrawModel, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph nets {\n")
	buf.WriteString("  layout=dot;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=14, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  edge [fontsize=10, color=grey40];\n")
	buf.WriteString("\n")

	for _, d := range m.Devices {
		label := fmtDeviceLabel(d, opts.Detailed)
		fmt.Fprintf(&buf, "  %q [shape=box, style=\"rounded,filled\", fillcolor=white, label=%q];\n",
			"dev:"+d.Designator, label)
	}

	buf.WriteString("\n")
	for _, net := range netNames(m) {
		attrs := "shape=ellipse, fillcolor=lightyellow, style=filled"
		if net == "0" {
			attrs = "shape=doublecircle, fillcolor=lightgrey, style=filled"
		}
		fmt.Fprintf(&buf, "  %q [%s, label=%q];\n", "net:"+net, attrs, net)
	}

	buf.WriteString("\n")
	for _, p := range m.Ports {
		if !p.Connected || p.Net == "" {
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q [label=%q];\n",
			"dev:"+p.Designator, "net:"+p.Net, p.Port)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtDeviceLabel(d schematic.DeviceView, detailed bool) string {
	if !detailed {
		return d.Designator
	}
	parts := []string{d.Designator, d.Kind}
	if d.Params != "" {
		parts = append(parts, d.Params)
	}
	return strings.Join(parts, "\n")
}

// netNames collects the distinct net names reachable from connected ports,
// sorted for deterministic output.
func netNames(m schematic.DrawModel) []string {
	seen := make(map[string]bool)
	for _, p := range m.Ports {
		if p.Connected && p.Net != "" {
			seen[p.Net] = true
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with
// [render.ToPDF] or [render.ToPNG].
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

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
