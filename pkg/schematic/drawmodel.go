package schematic

import (
	"github.com/circed/circed/pkg/device"
	"github.com/circed/circed/pkg/geom"
	"github.com/circed/circed/pkg/netgraph"
)

// DrawModel is the layered view of a document for rendering collaborators.
// Layers are listed bottom to top: device bodies first, wires above them,
// port markers on top so connection points are always visible.
type DrawModel struct {
	Devices []DeviceView `json:"devices"`
	Wires   []WireView   `json:"wires"`
	Ports   []PortView   `json:"ports"`
	Labels  []Label      `json:"labels"`
	Bounds  geom.Box     `json:"bounds"`
}

// DeviceView is one placed body: the glyph already mapped to grid view
// coordinates.
type DeviceView struct {
	Designator string       `json:"designator"`
	Kind       string       `json:"kind"`
	Params     string       `json:"params"`
	Glyph      device.Glyph `json:"glyph"`
	Bounds     geom.Box     `json:"bounds"`
}

// WireView is one wire segment with its net name.
type WireView struct {
	A   geom.Point `json:"a"`
	B   geom.Point `json:"b"`
	Net string     `json:"net"`
}

// PortView is one connection point marker.
type PortView struct {
	Pos        geom.Point `json:"pos"`
	Designator string     `json:"designator"`
	Port       string     `json:"port"`
	Net        string     `json:"net"`
	Connected  bool       `json:"connected"`
}

// DrawModel builds the current layered view.
func (d *Document) DrawModel() DrawModel {
	m := DrawModel{}
	bounds, have := d.graph.Bounds()
	for _, inst := range d.table.all() {
		m.Devices = append(m.Devices, DeviceView{
			Designator: inst.Designator,
			Kind:       inst.Kind.String(),
			Params:     inst.Params,
			Glyph:      inst.PlacedGlyph(),
			Bounds:     inst.Bounds(),
		})
		if have {
			bounds = bounds.Union(inst.Bounds())
		} else {
			bounds, have = inst.Bounds(), true
		}
	}
	m.Bounds = bounds

	byVertex := make(map[netgraph.VertexID]string)
	for _, net := range d.Nets() {
		for _, id := range net.Vertices {
			byVertex[id] = net.Name
		}
	}
	for _, e := range d.graph.Edges() {
		a, _ := d.graph.Vertex(e.A)
		b, _ := d.graph.Vertex(e.B)
		m.Wires = append(m.Wires, WireView{A: a.Pos, B: b.Pos, Net: byVertex[e.A]})
	}
	for _, v := range d.graph.Vertices() {
		if v.Role != netgraph.RolePort {
			continue
		}
		connected := d.graph.Degree(v.ID) > 0 || len(d.graph.VerticesAt(v.Pos)) > 1
		m.Ports = append(m.Ports, PortView{
			Pos:        v.Pos,
			Designator: v.Device,
			Port:       v.Port,
			Net:        byVertex[v.ID],
			Connected:  connected,
		})
	}
	m.Labels = d.Labels()
	return m
}
