// Package pkg provides the core libraries for the circed schematic editor.
//
// # Overview
//
// Circed edits electrical schematics on an integer grid and keeps the
// circuit's connectivity as a first-class graph. The pkg directory is
// organized into these areas:
//
//  1. [geom] - Grid geometry: points, boxes, rigid transforms
//  2. [netgraph] - The connectivity graph and the Manhattan pathfinder
//  3. [history] - Invertible commands and the undo/redo stacks
//  4. [grab] - Drag gestures turned into atomic, rerouted mutations
//  5. [device] - The built-in device library and placed instances
//  6. [schematic] - Documents: wiring, nets, netlists, snapshots
//  7. [render] - SVG artifacts and Graphviz connectivity diagrams
//  8. [cache] - Content-addressed caching of export artifacts
//
// # Architecture
//
// The typical data flow through an edit:
//
//	Input gesture (cursor, keys)
//	         ↓
//	    [schematic] package (document operations)
//	         ↓
//	    [grab] package (sever, prune, reroute via [netgraph/route])
//	         ↓
//	    [history] package (one invertible command per gesture)
//	         ↓
//	    [netgraph] package (the graph both views derive from)
//
// Rendering and netlisting read the same graph: nets are derived from
// connectivity on demand and never stored.
//
// # Quick Start
//
//	doc := schematic.New(schematic.Config{})
//	r, _ := doc.PlaceDevice(device.Resistor, geom.Pt(0, 0))
//	doc.BeginWire(geom.Pt(0, 3))
//	_ = doc.CommitWire(geom.Pt(10, 3))
//	fmt.Print(doc.Netlist())
//
// [geom]: github.com/circed/circed/pkg/geom
// [netgraph]: github.com/circed/circed/pkg/netgraph
// [history]: github.com/circed/circed/pkg/history
// [grab]: github.com/circed/circed/pkg/grab
// [device]: github.com/circed/circed/pkg/device
// [schematic]: github.com/circed/circed/pkg/schematic
// [render]: github.com/circed/circed/pkg/render
// [cache]: github.com/circed/circed/pkg/cache
package pkg
