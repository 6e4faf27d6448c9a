package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/circed/circed/pkg/device"
	"github.com/circed/circed/pkg/geom"
	"github.com/circed/circed/pkg/schematic"
)

const svgCSS = `
    .wire { stroke: #2a6fdb; stroke-width: 2; stroke-linecap: round; }
    .body { stroke: #222; stroke-width: 2; fill: none; stroke-linejoin: round; }
    .port { fill: #2a6fdb; }
    .port.open { fill: #fff; stroke: #c3423f; stroke-width: 1.5; }
    .desg { font: 12px monospace; fill: #222; }
    .netlabel { font: italic 12px monospace; fill: #666; }
    .grid { fill: #ddd; }`

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	scale     float64 // pixels per grid cell
	margin    int     // grid cells around the content
	grid      bool
	netLabels bool
}

// WithScale sets the pixel size of one grid cell.
func WithScale(px float64) SVGOption { return func(r *svgRenderer) { r.scale = px } }

// WithGrid draws a dot at each grid position inside the frame.
func WithGrid() SVGOption { return func(r *svgRenderer) { r.grid = true } }

// WithNetLabels draws each wire's net name at the segment midpoint.
func WithNetLabels() SVGOption { return func(r *svgRenderer) { r.netLabels = true } }

// SVG renders the layered draw model as a standalone SVG document.
// Layers are emitted bottom to top in model order: bodies, wires, ports,
// labels.
func SVG(m schematic.DrawModel, opts ...SVGOption) []byte {
	r := svgRenderer{scale: 20, margin: 2}
	for _, opt := range opts {
		opt(&r)
	}

	frame := m.Bounds.Expand(r.margin)
	w := float64(frame.Width()) * r.scale
	h := float64(frame.Height()) * r.scale

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", svgCSS)

	if r.grid {
		r.renderGrid(&buf, frame)
	}
	for _, d := range m.Devices {
		r.renderDevice(&buf, frame, d)
	}
	for _, wv := range m.Wires {
		a, b := r.view(frame, vp(wv.A)), r.view(frame, vp(wv.B))
		fmt.Fprintf(&buf, `  <line class="wire" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n",
			a.X, a.Y, b.X, b.Y)
		if r.netLabels && wv.Net != "" {
			mid := device.VPoint{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
			fmt.Fprintf(&buf, `  <text class="netlabel" x="%.1f" y="%.1f">%s</text>`+"\n",
				mid.X+3, mid.Y-3, escape(wv.Net))
		}
	}
	for _, p := range m.Ports {
		pos := r.view(frame, vp(p.Pos))
		class := "port"
		if !p.Connected {
			class = "port open"
		}
		fmt.Fprintf(&buf, `  <circle class="%s" cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n",
			class, pos.X, pos.Y, r.scale*0.15)
	}
	for _, l := range m.Labels {
		pos := r.view(frame, vp(l.Pos))
		fmt.Fprintf(&buf, `  <text class="netlabel" x="%.1f" y="%.1f">%s</text>`+"\n",
			pos.X+3, pos.Y-3, escape(l.Text))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// view maps a glyph-space point (grid units, y up) into SVG pixel space
// (y down, origin at the frame's top-left).
func (r *svgRenderer) view(frame geom.Box, p device.VPoint) device.VPoint {
	return device.VPoint{
		X: (p.X - float64(frame.Min.X)) * r.scale,
		Y: (float64(frame.Max.Y) - p.Y) * r.scale,
	}
}

func vp(p geom.Point) device.VPoint {
	return device.VPoint{X: float64(p.X), Y: float64(p.Y)}
}

func (r *svgRenderer) renderGrid(buf *bytes.Buffer, frame geom.Box) {
	for y := frame.Min.Y; y <= frame.Max.Y; y++ {
		for x := frame.Min.X; x <= frame.Max.X; x++ {
			p := r.view(frame, vp(geom.Pt(x, y)))
			fmt.Fprintf(buf, `  <circle class="grid" cx="%.1f" cy="%.1f" r="0.8"/>`+"\n", p.X, p.Y)
		}
	}
}

func (r *svgRenderer) renderDevice(buf *bytes.Buffer, frame geom.Box, d schematic.DeviceView) {
	for _, stroke := range d.Glyph.Strokes {
		if len(stroke) < 2 {
			continue
		}
		var pts bytes.Buffer
		for i, p := range stroke {
			if i > 0 {
				pts.WriteByte(' ')
			}
			v := r.view(frame, p)
			fmt.Fprintf(&pts, "%.1f,%.1f", v.X, v.Y)
		}
		fmt.Fprintf(buf, `  <polyline class="body" points="%s"/>`+"\n", pts.String())
	}
	for _, arc := range d.Glyph.Arcs {
		buf.WriteString("  " + r.arcPath(frame, arc) + "\n")
	}

	anchor := r.view(frame, device.VPoint{X: float64(d.Bounds.Max.X), Y: float64(d.Bounds.Max.Y)})
	label := d.Designator
	if d.Params != "" {
		label += " " + d.Params
	}
	fmt.Fprintf(buf, `  <text class="desg" x="%.1f" y="%.1f">%s</text>`+"\n",
		anchor.X+4, anchor.Y+4, escape(label))
}

// arcPath emits one SVG arc element. The sweep flag is chosen so the arc
// runs counterclockwise from start to end in schematic space, which the
// y-flip into view space turns into a clockwise SVG sweep.
func (r *svgRenderer) arcPath(frame geom.Box, a device.Arc) string {
	radius := math.Hypot(a.Start.X-a.Center.X, a.Start.Y-a.Center.Y) * r.scale
	s := r.view(frame, a.Start)
	e := r.view(frame, a.End)
	return fmt.Sprintf(`<path class="body" d="M %.1f %.1f A %.1f %.1f 0 0 1 %.1f %.1f"/>`,
		s.X, s.Y, radius, radius, e.X, e.Y)
}

func escape(s string) string {
	var buf bytes.Buffer
	for _, c := range s {
		switch c {
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '&':
			buf.WriteString("&amp;")
		default:
			buf.WriteRune(c)
		}
	}
	return buf.String()
}
