// Package history records graph mutations as invertible commands and
// provides undo/redo over them.
//
// Every mutation of the connectivity graph is expressed as a [Command]: an
// ordered list of primitive diff operations, each carrying enough data to be
// applied forward and inverted without reference to any state outside the
// diff. A command is one stack entry regardless of how many operations it
// contains, so a grab that touches ten wires undoes in a single step.
//
// Commands never snapshot the graph. The inverse of an insertion is a
// removal of the same identifier; the inverse of a removal re-inserts the
// identical element. This is cheap, composable, and exact: undo followed by
// redo reproduces the prior graph state bit for bit.
package history

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/circed/circed/pkg/device"
	"github.com/circed/circed/pkg/geom"
	"github.com/circed/circed/pkg/netgraph"
)

// OpKind tags the closed set of primitive mutations.
type OpKind uint8

const (
	// OpAddVertex inserts the vertex carried in [Op.Vertex].
	OpAddVertex OpKind = iota
	// OpRemoveVertex deletes the vertex carried in [Op.Vertex]. The full
	// vertex is carried, not just the identifier, so the inverse is data.
	OpRemoveVertex
	// OpMoveVertex repositions [Op.Vertex].ID from [Op.From] to [Op.To].
	OpMoveVertex
	// OpAddEdge inserts the segment carried in [Op.Edge].
	OpAddEdge
	// OpRemoveEdge deletes the segment carried in [Op.Edge].
	OpRemoveEdge
	// OpPlaceDevice inserts the device instance carried in [Op.Device].
	OpPlaceDevice
	// OpRemoveDevice deletes the instance carried in [Op.Device]. The full
	// instance is carried so the inverse re-places it unchanged.
	OpRemoveDevice
	// OpMoveDevice repositions [Op.Device].ID from From/FromRot to To/ToRot.
	OpMoveDevice
)

// String returns the tag name for logs and test failure messages.
func (k OpKind) String() string {
	switch k {
	case OpAddVertex:
		return "add-vertex"
	case OpRemoveVertex:
		return "remove-vertex"
	case OpMoveVertex:
		return "move-vertex"
	case OpAddEdge:
		return "add-edge"
	case OpRemoveEdge:
		return "remove-edge"
	case OpPlaceDevice:
		return "place-device"
	case OpRemoveDevice:
		return "remove-device"
	case OpMoveDevice:
		return "move-device"
	}
	return "unknown"
}

// DeviceStore is the document-side table of placed device instances. The
// history drives it through the same diff discipline as the graph: inserts
// are by complete value, deletes are by identifier, and both must fail on
// identifier mismatches so corruption surfaces instead of compounding.
type DeviceStore interface {
	RestoreDevice(device.Instance) error
	DeleteDevice(uuid.UUID) error
	PlaceAt(id uuid.UUID, pos geom.Point, rot geom.Rotation) error
}

// Op is one primitive diff operation. Exactly one payload group is
// meaningful per kind: Vertex for the vertex ops (plus From/To for moves),
// Edge for the edge ops, Device for the device ops (plus the placement
// fields for device moves).
type Op struct {
	Kind    OpKind          `json:"kind"`
	Vertex  netgraph.Vertex `json:"vertex,omitempty"`
	Edge    netgraph.Edge   `json:"edge,omitempty"`
	Device  device.Instance `json:"device,omitempty"`
	From    geom.Point      `json:"from,omitempty"`
	To      geom.Point      `json:"to,omitempty"`
	FromRot geom.Rotation   `json:"from_rot,omitempty"`
	ToRot   geom.Rotation   `json:"to_rot,omitempty"`
}

// AddVertex builds the insertion op for v.
func AddVertex(v netgraph.Vertex) Op { return Op{Kind: OpAddVertex, Vertex: v} }

// RemoveVertex builds the deletion op for v. The caller must pass the
// complete vertex as it currently exists so the inverse can restore it.
func RemoveVertex(v netgraph.Vertex) Op { return Op{Kind: OpRemoveVertex, Vertex: v} }

// MoveVertex builds the reposition op for v from its current position to.
func MoveVertex(v netgraph.Vertex, to geom.Point) Op {
	return Op{Kind: OpMoveVertex, Vertex: v, From: v.Pos, To: to}
}

// AddEdge builds the insertion op for e.
func AddEdge(e netgraph.Edge) Op { return Op{Kind: OpAddEdge, Edge: e} }

// RemoveEdge builds the deletion op for e.
func RemoveEdge(e netgraph.Edge) Op { return Op{Kind: OpRemoveEdge, Edge: e} }

// PlaceDevice builds the insertion op for inst.
func PlaceDevice(inst device.Instance) Op { return Op{Kind: OpPlaceDevice, Device: inst} }

// RemoveDevice builds the deletion op for inst, carried complete as it
// currently exists.
func RemoveDevice(inst device.Instance) Op { return Op{Kind: OpRemoveDevice, Device: inst} }

// MoveDevice builds the reposition op for inst to the given placement.
func MoveDevice(inst device.Instance, to geom.Point, rot geom.Rotation) Op {
	return Op{
		Kind:    OpMoveDevice,
		Device:  inst,
		From:    inst.Pos,
		FromRot: inst.Rot,
		To:      to,
		ToRot:   rot,
	}
}

// Inverted returns the op that exactly undoes o.
func (o Op) Inverted() Op {
	switch o.Kind {
	case OpAddVertex:
		o.Kind = OpRemoveVertex
	case OpRemoveVertex:
		o.Kind = OpAddVertex
	case OpMoveVertex:
		o.From, o.To = o.To, o.From
	case OpAddEdge:
		o.Kind = OpRemoveEdge
	case OpRemoveEdge:
		o.Kind = OpAddEdge
	case OpPlaceDevice:
		o.Kind = OpRemoveDevice
	case OpRemoveDevice:
		o.Kind = OpPlaceDevice
	case OpMoveDevice:
		o.From, o.To = o.To, o.From
		o.FromRot, o.ToRot = o.ToRot, o.FromRot
	}
	return o
}

// apply performs the op against the graph, or against the device store for
// device ops.
func (o Op) apply(g *netgraph.Graph, devs DeviceStore) error {
	switch o.Kind {
	case OpAddVertex:
		return g.RestoreVertex(o.Vertex)
	case OpRemoveVertex:
		return g.RemoveVertex(o.Vertex.ID)
	case OpMoveVertex:
		return g.MoveVertex(o.Vertex.ID, o.To)
	case OpAddEdge:
		return g.RestoreEdge(o.Edge)
	case OpRemoveEdge:
		return g.RemoveEdge(o.Edge.ID)
	case OpPlaceDevice, OpRemoveDevice, OpMoveDevice:
		if devs == nil {
			return fmt.Errorf("device op %s without an attached device store", o.Kind)
		}
		switch o.Kind {
		case OpPlaceDevice:
			return devs.RestoreDevice(o.Device)
		case OpRemoveDevice:
			return devs.DeleteDevice(o.Device.ID)
		default:
			return devs.PlaceAt(o.Device.ID, o.To, o.ToRot)
		}
	}
	return fmt.Errorf("unknown op kind %d", o.Kind)
}

// Command is one undoable unit: a label for the UI plus the ordered forward
// diff. The inverse diff is derived per op via [Op.Inverted], applied in
// reverse order.
type Command struct {
	Label string `json:"label"`
	Ops   []Op   `json:"ops"`
}

// Batch builds a compound command from ops in application order.
func Batch(label string, ops ...Op) Command {
	return Command{Label: label, Ops: ops}
}

// Empty reports whether the command carries no operations.
func (c Command) Empty() bool { return len(c.Ops) == 0 }
