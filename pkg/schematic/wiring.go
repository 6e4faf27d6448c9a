package schematic

import (
	"github.com/circed/circed/pkg/geom"
	"github.com/circed/circed/pkg/history"
	"github.com/circed/circed/pkg/netgraph"
)

// wireTool is the wire drawing state machine: Idle until BeginWire, then
// Wiring with a pending anchor. Each committed segment advances the anchor
// so a polyline is drawn click by click, one command per segment.
type wireTool struct {
	active bool
	anchor geom.Point
}

// Wiring reports whether a wire gesture is in progress.
func (d *Document) Wiring() bool { return d.wire.active }

// WireAnchor returns the pending segment's fixed endpoint.
func (d *Document) WireAnchor() (geom.Point, bool) {
	return d.wire.anchor, d.wire.active
}

// BeginWire starts a wire gesture anchored at p.
func (d *Document) BeginWire(p geom.Point) {
	d.wire = wireTool{active: true, anchor: p}
}

// EndWire leaves the wire gesture without committing the pending segment.
func (d *Document) EndWire() {
	d.wire = wireTool{}
}

// WirePreview returns the tentative waypoints from the anchor to p: the
// straight run when aligned, otherwise an L through the horizontal-first
// corner. Nil outside a gesture or when p is the anchor.
func (d *Document) WirePreview(p geom.Point) []geom.Point {
	if !d.wire.active {
		return nil
	}
	return wirePath(d.wire.anchor, p)
}

// CommitWire pushes the pending segment to p as one command and advances
// the anchor, keeping the gesture alive for the next segment. Waypoints
// landing on occupied cells merge with the existing vertices there, which
// is how wires join nets and attach to ports.
func (d *Document) CommitWire(p geom.Point) error {
	if !d.wire.active {
		return ErrNotWiring
	}
	wps := wirePath(d.wire.anchor, p)
	if len(wps) < 2 {
		return nil
	}

	var ops []history.Op
	chain := make([]netgraph.VertexID, len(wps))
	for i, wp := range wps {
		if at := d.graph.VerticesAt(wp); len(at) > 0 {
			chain[i] = at[0]
			continue
		}
		id := d.graph.ReserveVertexID()
		ops = append(ops, history.AddVertex(netgraph.Vertex{ID: id, Pos: wp, Role: netgraph.RoleWire}))
		chain[i] = id
	}
	for i := 1; i < len(chain); i++ {
		if chain[i-1] == chain[i] {
			continue
		}
		if _, ok := d.graph.EdgeBetween(chain[i-1], chain[i]); ok {
			continue
		}
		ops = append(ops, history.AddEdge(netgraph.Edge{ID: d.graph.ReserveEdgeID(), A: chain[i-1], B: chain[i]}))
	}
	if err := d.hist.Push(history.Batch("draw wire", ops...)); err != nil {
		return err
	}
	d.wire.anchor = p
	return nil
}

// wirePath is the tentative two-segment route: direct when aligned,
// horizontal-first L otherwise.
func wirePath(a, b geom.Point) []geom.Point {
	if a == b {
		return nil
	}
	if a.X == b.X || a.Y == b.Y {
		return []geom.Point{a, b}
	}
	return []geom.Point{a, geom.Pt(b.X, a.Y), b}
}
