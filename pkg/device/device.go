// Package device defines the built-in component library: each device kind
// carries its designator prefix, port layout, glyph strokes for rendering,
// default parameter string, and local bounds. Instances pair a kind with a
// placement and a stable identifier.
package device

import (
	"fmt"

	"github.com/circed/circed/pkg/geom"
)

// Kind identifies a built-in device type.
type Kind int

const (
	Resistor Kind = iota
	Capacitor
	Inductor
	NMOS
	PMOS
	Ground
	VoltageSource
	CurrentSource
)

var kindNames = map[Kind]string{
	Resistor:      "resistor",
	Capacitor:     "capacitor",
	Inductor:      "inductor",
	NMOS:          "nmos",
	PMOS:          "pmos",
	Ground:        "ground",
	VoltageSource: "vsource",
	CurrentSource: "isource",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// KindByName resolves the serialized kind name. The second result is false
// for names outside the library.
func KindByName(name string) (Kind, bool) {
	for k, s := range kindNames {
		if s == name {
			return k, true
		}
	}
	return 0, false
}

// PortDef is one connection point of a device type, in device-local grid
// coordinates before placement.
type PortDef struct {
	Name   string
	Offset geom.Point
}

// VPoint is a glyph coordinate. Glyph geometry lives in continuous view
// space so strokes can land between grid cells; ports stay on the grid.
type VPoint struct {
	X, Y float64
}

// Arc is a circular arc given by its center and two endpoints.
type Arc struct {
	Center, Start, End VPoint
}

// Glyph is the drawable body of a device type.
type Glyph struct {
	Strokes [][]VPoint
	Arcs    []Arc
}

// Type is one entry of the device library.
type Type struct {
	Kind          Kind
	Prefix        string // designator prefix, "R" for R1, R2, ...
	Ports         []PortDef
	Bounds        geom.Box // device-local, inclusive
	DefaultParams string
	Glyph         Glyph
}

// Port returns the port definition by name.
func (t *Type) Port(name string) (PortDef, bool) {
	for _, p := range t.Ports {
		if p.Name == name {
			return p, true
		}
	}
	return PortDef{}, false
}

// Types returns the library in stable order.
func Types() []*Type {
	return library[:]
}

// TypeOf returns the library entry for k.
func TypeOf(k Kind) (*Type, bool) {
	if int(k) < 0 || int(k) >= len(library) {
		return nil, false
	}
	return library[k], true
}

var library = [...]*Type{
	Resistor: {
		Kind:          Resistor,
		Prefix:        "R",
		Ports:         twoTerminal(),
		Bounds:        geom.NewBox(geom.Pt(-2, -3), geom.Pt(2, 3)),
		DefaultParams: "1k",
		Glyph: Glyph{
			Strokes: [][]VPoint{
				{{0, 3}, {0, 2}},
				{{0, 2}, {1, 1.75}, {-1, 1.25}, {1, 0.75}, {-1, 0.25}, {1, -0.25}, {-1, -0.75}, {1, -1.25}, {-1, -1.75}, {0, -2}},
				{{0, -2}, {0, -3}},
			},
		},
	},
	Capacitor: {
		Kind:          Capacitor,
		Prefix:        "C",
		Ports:         twoTerminal(),
		Bounds:        geom.NewBox(geom.Pt(-2, -3), geom.Pt(2, 3)),
		DefaultParams: "1p",
		Glyph: Glyph{
			Strokes: [][]VPoint{
				{{0, 3}, {0, 0.25}},
				{{-1.5, 0.25}, {1.5, 0.25}},
				{{-1.5, -0.25}, {1.5, -0.25}},
				{{0, -0.25}, {0, -3}},
			},
		},
	},
	Inductor: {
		Kind:          Inductor,
		Prefix:        "L",
		Ports:         twoTerminal(),
		Bounds:        geom.NewBox(geom.Pt(-2, -3), geom.Pt(2, 3)),
		DefaultParams: "1m",
		Glyph: Glyph{
			Strokes: [][]VPoint{
				{{0.25, 1}, {0, 1}},
				{{0.25, -2}, {0, -2}},
				{{0.25, 0}, {0, 0}},
				{{0.25, 2}, {0, 2}},
				{{0.25, -1}, {0, -1}},
				{{0, 3}, {0, 2}},
				{{0, -2}, {0, -3}},
			},
			Arcs: []Arc{
				{Center: VPoint{0.25, 1.5}, Start: VPoint{0.25, 1}, End: VPoint{0.25, 2}},
				{Center: VPoint{0.25, 0.5}, Start: VPoint{0.25, 0}, End: VPoint{0.25, 1}},
				{Center: VPoint{0.25, -0.5}, Start: VPoint{0.25, -1}, End: VPoint{0.25, 0}},
				{Center: VPoint{0.25, -1.5}, Start: VPoint{0.25, -2}, End: VPoint{0.25, -1}},
			},
		},
	},
	NMOS: {
		Kind:          NMOS,
		Prefix:        "M",
		Ports:         mosPorts(),
		Bounds:        geom.NewBox(geom.Pt(-2, -3), geom.Pt(2, 3)),
		DefaultParams: "",
		Glyph: Glyph{
			Strokes: [][]VPoint{
				{{0, 1.5}, {0, -1.5}},
				{{1, -1}, {2, -1.5}},
				{{2, 3}, {2, 1.5}},
				{{2, -1.5}, {2, -3}},
				{{0, -1.5}, {2, -1.5}},
				{{2, 1.5}, {0, 1.5}},
				{{-0.5, 0}, {-2, 0}},
				{{0, 0}, {2, 0}},
				{{-0.5, 1.5}, {-0.5, -1.5}},
				{{2, -1.5}, {1, -2}},
			},
		},
	},
	PMOS: {
		Kind:          PMOS,
		Prefix:        "M",
		Ports:         mosPorts(),
		Bounds:        geom.NewBox(geom.Pt(-2, -3), geom.Pt(2, 3)),
		DefaultParams: "",
		Glyph: Glyph{
			Strokes: [][]VPoint{
				{{0, 1.5}, {0, -1.5}},
				{{1, 1}, {2, 1.5}},
				{{2, 3}, {2, 1.5}},
				{{2, -1.5}, {2, -3}},
				{{0, -1.5}, {2, -1.5}},
				{{2, 1.5}, {0, 1.5}},
				{{-1, 0}, {-2, 0}},
				{{0, 0}, {2, 0}},
				{{-0.5, 1.5}, {-0.5, -1.5}},
				{{2, 1.5}, {1, 2}},
			},
			Arcs: []Arc{
				{Center: VPoint{-0.75, 0}, Start: VPoint{-0.5, 0}, End: VPoint{-1, 0}},
			},
		},
	},
	Ground: {
		Kind:   Ground,
		Prefix: "GND",
		Ports:  []PortDef{{Name: "0", Offset: geom.Pt(0, 2)}},
		Bounds: geom.NewBox(geom.Pt(-1, -2), geom.Pt(1, 2)),
		Glyph: Glyph{
			Strokes: [][]VPoint{
				{{0, 2}, {0, 0}},
				{{-1, 0}, {1, 0}},
				{{-0.6, -0.6}, {0.6, -0.6}},
				{{-0.2, -1.2}, {0.2, -1.2}},
			},
		},
	},
	VoltageSource: {
		Kind:          VoltageSource,
		Prefix:        "V",
		Ports:         twoTerminal(),
		Bounds:        geom.NewBox(geom.Pt(-2, -3), geom.Pt(2, 3)),
		DefaultParams: "1",
		Glyph: Glyph{
			Strokes: [][]VPoint{
				{{0, 3}, {0, 1.5}},
				{{0, -1.5}, {0, -3}},
				{{-0.5, 0.75}, {0.5, 0.75}},
				{{0, 1.25}, {0, 0.25}},
				{{-0.5, -0.75}, {0.5, -0.75}},
			},
			Arcs: []Arc{
				{Center: VPoint{0, 0}, Start: VPoint{0, 1.5}, End: VPoint{0, 1.5}},
			},
		},
	},
	CurrentSource: {
		Kind:          CurrentSource,
		Prefix:        "I",
		Ports:         twoTerminal(),
		Bounds:        geom.NewBox(geom.Pt(-2, -3), geom.Pt(2, 3)),
		DefaultParams: "1m",
		Glyph: Glyph{
			Strokes: [][]VPoint{
				{{0, 3}, {0, 1.5}},
				{{0, -1.5}, {0, -3}},
				{{0, 1}, {0, -1}},
				{{0, -1}, {-0.4, -0.4}},
				{{0, -1}, {0.4, -0.4}},
			},
			Arcs: []Arc{
				{Center: VPoint{0, 0}, Start: VPoint{0, 1.5}, End: VPoint{0, 1.5}},
			},
		},
	},
}

// twoTerminal is the shared layout for passives and sources: port "0" on
// top, port "1" on the bottom, three cells out from the center.
func twoTerminal() []PortDef {
	return []PortDef{
		{Name: "0", Offset: geom.Pt(0, 3)},
		{Name: "1", Offset: geom.Pt(0, -3)},
	}
}

// mosPorts is the four-terminal MOSFET layout in SPICE order: drain, gate,
// source, body.
func mosPorts() []PortDef {
	return []PortDef{
		{Name: "0", Offset: geom.Pt(2, 3)},
		{Name: "1", Offset: geom.Pt(-2, 0)},
		{Name: "2", Offset: geom.Pt(2, -3)},
		{Name: "3", Offset: geom.Pt(2, 0)},
	}
}
