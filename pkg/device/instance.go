package device

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/circed/circed/pkg/geom"
)

// Instance is one placed device. Position and rotation map the type's local
// coordinates onto the schematic grid; the identifier survives moves,
// renames, and snapshot round trips.
type Instance struct {
	ID         uuid.UUID `json:"id"`
	Kind       Kind      `json:"-"`
	Designator string    `json:"designator"` // R1, M2, ...
	Params     string    `json:"params"`
	Pos        geom.Point    `json:"pos"`
	Rot        geom.Rotation `json:"rot"`
}

// NewInstance places a fresh instance of k at pos with the type's default
// parameters. The designator is assigned by the document, not here.
func NewInstance(k Kind, pos geom.Point) *Instance {
	t, _ := TypeOf(k)
	params := ""
	if t != nil {
		params = t.DefaultParams
	}
	return &Instance{
		ID:     uuid.New(),
		Kind:   k,
		Params: params,
		Pos:    pos,
	}
}

// Type returns the library entry backing this instance.
func (i *Instance) Type() *Type {
	t, _ := TypeOf(i.Kind)
	return t
}

// placement maps device-local coordinates to the grid.
func (i *Instance) placement() geom.Transform {
	return geom.Transform{Delta: i.Pos, Rot: i.Rot}
}

// PortPosition returns the grid cell of the named port.
func (i *Instance) PortPosition(name string) (geom.Point, bool) {
	t := i.Type()
	if t == nil {
		return geom.Point{}, false
	}
	p, ok := t.Port(name)
	if !ok {
		return geom.Point{}, false
	}
	return i.placement().Apply(p.Offset), true
}

// PortPositions returns every port's grid cell, keyed by port name.
func (i *Instance) PortPositions() map[string]geom.Point {
	t := i.Type()
	if t == nil {
		return nil
	}
	out := make(map[string]geom.Point, len(t.Ports))
	for _, p := range t.Ports {
		out[p.Name] = i.placement().Apply(p.Offset)
	}
	return out
}

// Bounds returns the grid-aligned bounding box of the placed body.
func (i *Instance) Bounds() geom.Box {
	t := i.Type()
	if t == nil {
		return geom.Box{}
	}
	pl := i.placement()
	return geom.NewBox(pl.Apply(t.Bounds.Min), pl.Apply(t.Bounds.Max))
}

// Footprint lists every grid cell covered by the placed body, used by the
// router as obstacle cells.
func (i *Instance) Footprint() []geom.Point {
	b := i.Bounds()
	out := make([]geom.Point, 0, b.Area())
	for y := b.Min.Y; y <= b.Max.Y; y++ {
		for x := b.Min.X; x <= b.Max.X; x++ {
			out = append(out, geom.Pt(x, y))
		}
	}
	return out
}

// PlacedGlyph returns the glyph geometry mapped onto the grid view: each
// stroke and arc rotated by the instance rotation and shifted to its
// position. The rotation convention matches [geom.Transform]:
// counterclockwise quarter turns.
func (i *Instance) PlacedGlyph() Glyph {
	t := i.Type()
	if t == nil {
		return Glyph{}
	}
	place := func(p VPoint) VPoint {
		p = rotateV(p, i.Rot)
		return VPoint{p.X + float64(i.Pos.X), p.Y + float64(i.Pos.Y)}
	}
	out := Glyph{
		Strokes: make([][]VPoint, len(t.Glyph.Strokes)),
		Arcs:    make([]Arc, len(t.Glyph.Arcs)),
	}
	for si, stroke := range t.Glyph.Strokes {
		pts := make([]VPoint, len(stroke))
		for pi, p := range stroke {
			pts[pi] = place(p)
		}
		out.Strokes[si] = pts
	}
	for ai, a := range t.Glyph.Arcs {
		out.Arcs[ai] = Arc{Center: place(a.Center), Start: place(a.Start), End: place(a.End)}
	}
	return out
}

func rotateV(p VPoint, r geom.Rotation) VPoint {
	switch r.Normalize() {
	case geom.Rot90:
		return VPoint{-p.Y, p.X}
	case geom.Rot180:
		return VPoint{-p.X, -p.Y}
	case geom.Rot270:
		return VPoint{p.Y, -p.X}
	}
	return p
}

// SpiceLine renders the instance's netlist line. netName maps a port name
// to the name of the net its port cell belongs to. Ground symbols emit no
// line; they exist to pin their net to node "0".
func (i *Instance) SpiceLine(netName func(port string) string) string {
	t := i.Type()
	if t == nil || i.Kind == Ground {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(i.Designator)
	for _, p := range t.Ports {
		sb.WriteByte(' ')
		sb.WriteString(netName(p.Name))
	}
	switch i.Kind {
	case NMOS:
		sb.WriteString(" MOSN")
	case PMOS:
		sb.WriteString(" MOSP")
	}
	if i.Params != "" {
		sb.WriteByte(' ')
		sb.WriteString(i.Params)
	}
	return sb.String()
}

// SortInstances orders instances by designator, then identifier, for
// reproducible netlists and snapshots.
func SortInstances(devs []*Instance) {
	sort.Slice(devs, func(a, b int) bool {
		if devs[a].Designator != devs[b].Designator {
			return devs[a].Designator < devs[b].Designator
		}
		return devs[a].ID.String() < devs[b].ID.String()
	})
}

func (i *Instance) String() string {
	return fmt.Sprintf("%s %s at %v", i.Kind, i.Designator, i.Pos)
}
