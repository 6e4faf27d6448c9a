// Package schematic ties the editor together: one document owning the
// connectivity graph, the placed devices, the net labels, and the command
// history. Every mutation flows through the history as a compound command,
// so any user action is exactly one undo step.
package schematic

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/circed/circed/pkg/device"
	cerrors "github.com/circed/circed/pkg/errors"
	"github.com/circed/circed/pkg/geom"
	"github.com/circed/circed/pkg/grab"
	"github.com/circed/circed/pkg/history"
	"github.com/circed/circed/pkg/netgraph"
)

// Config carries the editor settings a document needs.
type Config struct {
	// Bounds is the canvas region routing may use. Zero means derive from
	// content.
	Bounds geom.Box

	// RouteBudget caps pathfinder expansions per reroute job. Zero means
	// the router default.
	RouteBudget int

	// Logger receives routing and command debug output. May be nil.
	Logger *log.Logger
}

// Document is one open schematic.
//
// Not safe for concurrent use: a single goroutine owns the document. The
// async router hands proposals back to that goroutine for application.
type Document struct {
	id     uuid.UUID
	graph  *netgraph.Graph
	hist   *history.History
	table  *deviceTable
	labels map[geom.Point]string
	seq    map[string]int
	router *grab.Router
	logger *log.Logger
	wire   wireTool

	// floating holds vertices whose reconnection failed during a grab
	// commit. The flags are UI hints, not document state: they are not
	// persisted and not part of the undo history.
	floating map[netgraph.VertexID]bool
}

// New creates an empty document.
func New(cfg Config) *Document {
	d := &Document{
		id:       uuid.New(),
		graph:    netgraph.New(),
		table:    newDeviceTable(),
		labels:   make(map[geom.Point]string),
		seq:      make(map[string]int),
		logger:   cfg.Logger,
		floating: make(map[netgraph.VertexID]bool),
	}
	d.hist = history.New(d.graph)
	d.hist.AttachDevices(d.table)
	d.router = grab.NewRouter(d.graph, grab.Options{
		Bounds:    cfg.Bounds,
		Budget:    cfg.RouteBudget,
		Obstacles: d.obstacles,
		Logger:    cfg.Logger,
	})
	return d
}

// ID returns the stable document identifier.
func (d *Document) ID() uuid.UUID { return d.id }

// Graph exposes the connectivity graph for read access. Mutating it
// directly corrupts the history.
func (d *Document) Graph() *netgraph.Graph { return d.graph }

// Router returns the grab router bound to this document, for wrapping in
// an async worker.
func (d *Document) Router() *grab.Router { return d.router }

// CanUndo reports whether an undo step exists.
func (d *Document) CanUndo() bool { return d.hist.CanUndo() }

// CanRedo reports whether a redo step exists.
func (d *Document) CanRedo() bool { return d.hist.CanRedo() }

// UndoLabel returns the label of the next undo step, or "".
func (d *Document) UndoLabel() string { return d.hist.UndoLabel() }

// RedoLabel returns the label of the next redo step, or "".
func (d *Document) RedoLabel() string { return d.hist.RedoLabel() }

// Undo reverts the most recent command. Returns false with a nil error
// when there is nothing to undo.
func (d *Document) Undo() (bool, error) {
	d.clearFloating()
	return d.hist.Undo()
}

// Redo reapplies the most recently undone command.
func (d *Document) Redo() (bool, error) {
	d.clearFloating()
	return d.hist.Redo()
}

// Devices returns the placed instances ordered by designator.
func (d *Document) Devices() []*device.Instance {
	return d.table.all()
}

// DeviceByDesignator resolves a designator like "R1".
func (d *Document) DeviceByDesignator(name string) (*device.Instance, bool) {
	return d.table.byName(name)
}

// PlaceDevice places a new instance of k at pos as one command: the
// instance itself plus one port vertex per device port.
func (d *Document) PlaceDevice(k device.Kind, pos geom.Point) (*device.Instance, error) {
	t, ok := device.TypeOf(k)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownKind, k)
	}
	inst := device.NewInstance(k, pos)
	inst.Designator = d.nextDesignator(t.Prefix)

	ops := []history.Op{history.PlaceDevice(*inst)}
	for _, p := range t.Ports {
		id := d.graph.ReserveVertexID()
		ops = append(ops, history.AddVertex(netgraph.Vertex{
			ID:     id,
			Pos:    inst.Pos.Add(rotateOffset(p.Offset, inst.Rot)),
			Role:   netgraph.RolePort,
			Device: inst.Designator,
			Port:   p.Name,
		}))
	}
	if err := d.hist.Push(history.Batch("place "+inst.Designator, ops...)); err != nil {
		return nil, err
	}
	got, _ := d.table.byName(inst.Designator)
	return got, nil
}

// RemoveDevice deletes the named instance, its port vertices, and every
// wire segment touching them, as one command.
func (d *Document) RemoveDevice(designator string) error {
	inst, ok := d.table.byName(designator)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDevice, designator)
	}
	var ops []history.Op
	removed := make(map[netgraph.EdgeID]bool)
	for _, v := range d.portVertices(designator) {
		for _, e := range d.graph.IncidentEdges(v.ID) {
			if removed[e.ID] {
				continue
			}
			removed[e.ID] = true
			ops = append(ops, history.RemoveEdge(e))
		}
		ops = append(ops, history.RemoveVertex(v))
	}
	ops = append(ops, history.RemoveDevice(*inst))
	return d.hist.Push(history.Batch("delete "+designator, ops...))
}

// MoveSelection commits a grab: the selected vertices move by tr, severed
// nets are rerouted, and any device whose ports are all selected moves
// with them. Failed reroutes flag their goal nets floating; they never
// abort the commit.
func (d *Document) MoveSelection(ctx context.Context, selected map[netgraph.VertexID]bool, tr geom.Transform) ([]grab.FailedRoute, error) {
	selected = d.ExpandSelection(selected)
	res, err := d.router.Plan(ctx, selected, tr)
	if err != nil {
		return nil, err
	}
	return res.Failed, d.ApplyGrab(res, tr)
}

// ApplyGrab pushes a previously planned grab result, typically one
// delivered by the async router, extending it with the device moves the
// plan implies.
func (d *Document) ApplyGrab(res grab.Result, tr geom.Transform) error {
	cmd := res.Command
	if cmd.Empty() {
		return nil
	}
	moved := make(map[netgraph.VertexID]bool)
	for _, op := range cmd.Ops {
		if op.Kind == history.OpMoveVertex {
			moved[op.Vertex.ID] = true
		}
	}
	for _, inst := range d.devicesFullySelected(moved) {
		cmd.Ops = append(cmd.Ops, history.MoveDevice(*inst, tr.Apply(inst.Pos), (inst.Rot + tr.Rot).Normalize()))
	}
	if err := d.hist.Push(cmd); err != nil {
		return err
	}
	d.markFloating(res.Failed)
	return nil
}

// DeleteSelection removes the selected wire vertices and their segments as
// one command. Port vertices are skipped; devices are deleted through
// [Document.RemoveDevice].
func (d *Document) DeleteSelection(selected map[netgraph.VertexID]bool) error {
	ids := make([]netgraph.VertexID, 0, len(selected))
	for id, on := range selected {
		if !on {
			continue
		}
		v, ok := d.graph.Vertex(id)
		if !ok || v.Role != netgraph.RoleWire {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	if len(ids) == 0 {
		return nil
	}
	var ops []history.Op
	removed := make(map[netgraph.EdgeID]bool)
	for _, id := range ids {
		for _, e := range d.graph.IncidentEdges(id) {
			if removed[e.ID] {
				continue
			}
			removed[e.ID] = true
			ops = append(ops, history.RemoveEdge(e))
		}
		v, _ := d.graph.Vertex(id)
		ops = append(ops, history.RemoveVertex(v))
	}
	label := "delete wire"
	if len(ids) > 1 {
		label = fmt.Sprintf("delete %d wire points", len(ids))
	}
	return d.hist.Push(history.Batch(label, ops...))
}

// SetLabel attaches a net name at pos; empty text removes the label.
// Labels are document annotations outside the undo history.
func (d *Document) SetLabel(pos geom.Point, text string) error {
	if text == "" {
		delete(d.labels, pos)
		return nil
	}
	if err := cerrors.ValidateNetLabel(text); err != nil {
		return err
	}
	d.labels[pos] = text
	return nil
}

// Labels returns the annotations sorted by position.
func (d *Document) Labels() []Label {
	out := make([]Label, 0, len(d.labels))
	for pos, text := range d.labels {
		out = append(out, Label{Pos: pos, Text: text})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Pos.Less(out[b].Pos) })
	return out
}

// Label is a user-placed net name annotation.
type Label struct {
	Pos  geom.Point `json:"pos"`
	Text string     `json:"text"`
}

// portVertices returns the live port vertices of one device, ordered by
// port name.
func (d *Document) portVertices(designator string) []netgraph.Vertex {
	var out []netgraph.Vertex
	for _, v := range d.graph.Vertices() {
		if v.Role == netgraph.RolePort && v.Device == designator {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Port < out[b].Port })
	return out
}

// ExpandSelection widens a grab selection to whole devices: once any port
// vertex of a device is in the set, all of its ports are. Devices move
// complete or stay put, so a port can never drift off its glyph offset
// and invalidate the snapshot the document would save.
func (d *Document) ExpandSelection(selected map[netgraph.VertexID]bool) map[netgraph.VertexID]bool {
	out := make(map[netgraph.VertexID]bool, len(selected))
	devs := make(map[string]bool)
	for id, on := range selected {
		if !on {
			continue
		}
		out[id] = true
		if v, ok := d.graph.Vertex(id); ok && v.Role == netgraph.RolePort {
			devs[v.Device] = true
		}
	}
	for desg := range devs {
		for _, v := range d.portVertices(desg) {
			out[v.ID] = true
		}
	}
	return out
}

// devicesFullySelected returns instances whose every port vertex is in the
// moved set, ordered by designator.
func (d *Document) devicesFullySelected(moved map[netgraph.VertexID]bool) []*device.Instance {
	var out []*device.Instance
	for _, inst := range d.table.all() {
		ports := d.portVertices(inst.Designator)
		if len(ports) == 0 {
			continue
		}
		all := true
		for _, v := range ports {
			if !moved[v.ID] {
				all = false
				break
			}
		}
		if all {
			out = append(out, inst)
		}
	}
	return out
}

// SelectDevice returns the selection set covering every port vertex of the
// named device, for moving it as a unit.
func (d *Document) SelectDevice(designator string) (map[netgraph.VertexID]bool, error) {
	if _, ok := d.table.byName(designator); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDevice, designator)
	}
	sel := make(map[netgraph.VertexID]bool)
	for _, v := range d.portVertices(designator) {
		sel[v.ID] = true
	}
	return sel, nil
}

// obstacles lists the grid cells covered by device bodies, excluding their
// port cells so routes can terminate there.
func (d *Document) obstacles() []geom.Point {
	var out []geom.Point
	for _, inst := range d.table.all() {
		ports := inst.PortPositions()
		for _, c := range inst.Footprint() {
			blocked := true
			for _, pp := range ports {
				if pp == c {
					blocked = false
					break
				}
			}
			if blocked {
				out = append(out, c)
			}
		}
	}
	return out
}

// nextDesignator mints the next free name for a prefix: R1, R2, ...
func (d *Document) nextDesignator(prefix string) string {
	for {
		d.seq[prefix]++
		name := prefix + strconv.Itoa(d.seq[prefix])
		if _, taken := d.table.byName(name); !taken {
			return name
		}
	}
}

// noteDesignator advances the prefix counter past a loaded designator so
// later placements never collide with snapshot contents.
func (d *Document) noteDesignator(designator string) {
	i := len(designator)
	for i > 0 && designator[i-1] >= '0' && designator[i-1] <= '9' {
		i--
	}
	prefix, digits := designator[:i], designator[i:]
	if n, err := strconv.Atoi(digits); err == nil && n > d.seq[prefix] {
		d.seq[prefix] = n
	}
}

// markFloating flags the goal vertices of failed reroutes.
func (d *Document) markFloating(failed []grab.FailedRoute) {
	for _, f := range failed {
		for _, id := range f.Goals {
			d.floating[id] = true
		}
		if d.logger != nil {
			d.logger.Warn("net left floating after failed reroute",
				"from", f.From, "goals", fmt.Sprint(f.Goals))
		}
	}
}

func (d *Document) clearFloating() {
	clear(d.floating)
}

// FlaggedFloating reports whether v was the target of a failed reroute
// since the last undo or redo.
func (d *Document) FlaggedFloating(v netgraph.VertexID) bool { return d.floating[v] }

// rotateOffset maps a device-local offset through a quarter-turn rotation
// about the device origin.
func rotateOffset(off geom.Point, r geom.Rotation) geom.Point {
	return geom.Transform{Rot: r}.Apply(off)
}

// deviceTable is the document's instance store, driven by the history.
type deviceTable struct {
	byID   map[uuid.UUID]*device.Instance
	byDesg map[string]uuid.UUID
}

func newDeviceTable() *deviceTable {
	return &deviceTable{
		byID:   make(map[uuid.UUID]*device.Instance),
		byDesg: make(map[string]uuid.UUID),
	}
}

// RestoreDevice inserts a complete instance. Part of the
// [history.DeviceStore] contract; not for direct use.
func (t *deviceTable) RestoreDevice(inst device.Instance) error {
	if _, ok := t.byID[inst.ID]; ok {
		return fmt.Errorf("device id %s already placed", inst.ID)
	}
	if _, ok := t.byDesg[inst.Designator]; ok {
		return fmt.Errorf("designator %s already placed", inst.Designator)
	}
	cp := inst
	t.byID[inst.ID] = &cp
	t.byDesg[inst.Designator] = inst.ID
	return nil
}

// DeleteDevice removes an instance by identifier. Part of the
// [history.DeviceStore] contract; not for direct use.
func (t *deviceTable) DeleteDevice(id uuid.UUID) error {
	inst, ok := t.byID[id]
	if !ok {
		return fmt.Errorf("device id %s not placed", id)
	}
	delete(t.byDesg, inst.Designator)
	delete(t.byID, id)
	return nil
}

// PlaceAt repositions an instance. Part of the [history.DeviceStore]
// contract; not for direct use.
func (t *deviceTable) PlaceAt(id uuid.UUID, pos geom.Point, rot geom.Rotation) error {
	inst, ok := t.byID[id]
	if !ok {
		return fmt.Errorf("device id %s not placed", id)
	}
	inst.Pos, inst.Rot = pos, rot.Normalize()
	return nil
}

func (t *deviceTable) all() []*device.Instance {
	out := make([]*device.Instance, 0, len(t.byID))
	for _, inst := range t.byID {
		out = append(out, inst)
	}
	device.SortInstances(out)
	return out
}

func (t *deviceTable) byName(designator string) (*device.Instance, bool) {
	id, ok := t.byDesg[designator]
	if !ok {
		return nil, false
	}
	return t.byID[id], true
}
