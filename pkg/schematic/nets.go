package schematic

import (
	"strconv"

	"github.com/circed/circed/pkg/device"
	"github.com/circed/circed/pkg/geom"
	"github.com/circed/circed/pkg/netgraph"
)

// Net is one named connectivity component of the document.
type Net struct {
	Name     string              `json:"name"`
	Vertices []netgraph.VertexID `json:"vertices"`
	Ports    int                 `json:"ports"`   // device ports on the net
	Flagged  bool                `json:"flagged"` // a reroute into this net failed since the last history op
}

// Nets returns the document's nets with names resolved. Naming is
// deterministic: the ground symbol pins its net to "0", labels override,
// everything else is numbered n1, n2, ... in net order.
func (d *Document) Nets() []Net {
	comps := d.graph.Nets()
	out := make([]Net, 0, len(comps))
	n := 0
	for _, comp := range comps {
		net := Net{Vertices: comp}
		for _, id := range comp {
			v, _ := d.graph.Vertex(id)
			if v.Role == netgraph.RolePort {
				net.Ports++
			}
			if d.floating[id] {
				net.Flagged = true
			}
		}
		if name, ok := d.pinnedName(comp); ok {
			net.Name = name
		} else {
			n++
			net.Name = "n" + strconv.Itoa(n)
		}
		out = append(out, net)
	}
	return out
}

// pinnedName resolves ground and label overrides for a net. Ground wins
// over labels; among several labels the one at the canonically first
// position wins.
func (d *Document) pinnedName(comp []netgraph.VertexID) (string, bool) {
	var label string
	var labelAt geom.Point
	for _, id := range comp {
		v, _ := d.graph.Vertex(id)
		if v.Role == netgraph.RolePort {
			if inst, ok := d.table.byName(v.Device); ok && inst.Kind == device.Ground {
				return "0", true
			}
		}
		if text, ok := d.labels[v.Pos]; ok {
			if label == "" || v.Pos.Less(labelAt) {
				label, labelAt = text, v.Pos
			}
		}
	}
	return label, label != ""
}

// NetNameAt returns the name of the net occupying pos, for the infobar.
// The second result is false over empty cells.
func (d *Document) NetNameAt(pos geom.Point) (string, bool) {
	ids := d.graph.VerticesAt(pos)
	if len(ids) == 0 {
		if !d.graph.OccupiedAt(pos) {
			return "", false
		}
		// A segment crosses pos without a vertex there; find it.
		for _, e := range d.graph.Edges() {
			a, _ := d.graph.Vertex(e.A)
			if covered(d.graph, e, pos) {
				ids = []netgraph.VertexID{a.ID}
				break
			}
		}
		if len(ids) == 0 {
			return "", false
		}
	}
	for _, net := range d.Nets() {
		for _, id := range net.Vertices {
			if id == ids[0] {
				return net.Name, true
			}
		}
	}
	return "", false
}

// FloatingNets reports the nets that do not connect at least two device
// ports, plus any net flagged by a failed reroute. These are the nets the
// check command and the TUI warn about.
func (d *Document) FloatingNets() []Net {
	var out []Net
	for _, net := range d.Nets() {
		if net.Ports < 2 || net.Flagged {
			out = append(out, net)
		}
	}
	return out
}

func covered(g *netgraph.Graph, e netgraph.Edge, pos geom.Point) bool {
	a, _ := g.Vertex(e.A)
	b, _ := g.Vertex(e.B)
	switch {
	case a.Pos.X == b.Pos.X && pos.X == a.Pos.X:
		lo, hi := a.Pos.Y, b.Pos.Y
		if lo > hi {
			lo, hi = hi, lo
		}
		return pos.Y >= lo && pos.Y <= hi
	case a.Pos.Y == b.Pos.Y && pos.Y == a.Pos.Y:
		lo, hi := a.Pos.X, b.Pos.X
		if lo > hi {
			lo, hi = hi, lo
		}
		return pos.X >= lo && pos.X <= hi
	}
	return false
}
