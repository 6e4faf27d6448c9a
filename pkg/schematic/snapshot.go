package schematic

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/circed/circed/pkg/device"
	cerrors "github.com/circed/circed/pkg/errors"
	"github.com/circed/circed/pkg/geom"
	"github.com/circed/circed/pkg/netgraph"
)

// ============================================================
// Snapshot boundary: the only serialized form of a document.
// Snapshots carry raw structure (vertices, edges, devices,
// labels); nets and history are never persisted. Loading
// validates the whole structure before any document state is
// built, so a corrupt file can not leave a half-loaded editor.
// ============================================================

// snapshot is the on-disk document format.
type snapshot struct {
	ID       string            `json:"id"`
	Vertices []netgraph.Vertex `json:"vertices"`
	Edges    []netgraph.Edge   `json:"edges"`
	Devices  []deviceRecord    `json:"devices"`
	Labels   []Label           `json:"labels,omitempty"`
}

type deviceRecord struct {
	ID         string        `json:"id"`
	Kind       string        `json:"kind"`
	Designator string        `json:"designator"`
	Params     string        `json:"params"`
	Pos        geom.Point    `json:"pos"`
	Rot        geom.Rotation `json:"rot"`
}

// Save writes the document snapshot to w.
func (d *Document) Save(w io.Writer) error {
	snap := snapshot{
		ID:       d.id.String(),
		Vertices: d.graph.Vertices(),
		Edges:    d.graph.Edges(),
		Labels:   d.Labels(),
	}
	for _, inst := range d.table.all() {
		snap.Devices = append(snap.Devices, deviceRecord{
			ID:         inst.ID.String(),
			Kind:       inst.Kind.String(),
			Designator: inst.Designator,
			Params:     inst.Params,
			Pos:        inst.Pos,
			Rot:        inst.Rot,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// SaveFile writes the snapshot to path.
func (d *Document) SaveFile(path string) error {
	if err := cerrors.ValidateSnapshotPath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := d.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads a snapshot from r and builds a fresh document with an empty
// history. Any structural defect rejects the whole snapshot with
// [ErrLoadInvalid]; no partial document is ever returned.
func Load(r io.Reader, cfg Config) (*Document, error) {
	var snap snapshot
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadInvalid, err)
	}
	if err := validate(&snap); err != nil {
		return nil, err
	}

	d := New(cfg)
	if id, err := uuid.Parse(snap.ID); err == nil {
		d.id = id
	}
	maxV, maxE := netgraph.VertexID(-1), netgraph.EdgeID(-1)
	for _, v := range snap.Vertices {
		if v.ID > maxV {
			maxV = v.ID
		}
	}
	for _, e := range snap.Edges {
		if e.ID > maxE {
			maxE = e.ID
		}
	}
	for v := netgraph.VertexID(0); v <= maxV; v++ {
		d.graph.ReserveVertexID()
	}
	for e := netgraph.EdgeID(0); e <= maxE; e++ {
		d.graph.ReserveEdgeID()
	}
	for _, v := range snap.Vertices {
		if err := d.graph.RestoreVertex(v); err != nil {
			return nil, fmt.Errorf("%w: vertex %d: %v", ErrLoadInvalid, v.ID, err)
		}
	}
	for _, e := range snap.Edges {
		if err := d.graph.RestoreEdge(e); err != nil {
			return nil, fmt.Errorf("%w: edge %d: %v", ErrLoadInvalid, e.ID, err)
		}
	}
	for _, rec := range snap.Devices {
		id, _ := uuid.Parse(rec.ID)
		kind, _ := device.KindByName(rec.Kind)
		inst := device.Instance{
			ID:         id,
			Kind:       kind,
			Designator: rec.Designator,
			Params:     rec.Params,
			Pos:        rec.Pos,
			Rot:        rec.Rot.Normalize(),
		}
		if err := d.table.RestoreDevice(inst); err != nil {
			return nil, fmt.Errorf("%w: device %s: %v", ErrLoadInvalid, rec.Designator, err)
		}
		d.noteDesignator(rec.Designator)
	}
	for _, l := range snap.Labels {
		d.labels[l.Pos] = l.Text
	}
	return d, nil
}

// LoadFile reads a snapshot from path.
func LoadFile(path string, cfg Config) (*Document, error) {
	if err := cerrors.ValidateSnapshotPath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := Load(f, cfg)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidSnapshot, err, "loading %s", path)
	}
	return d, nil
}

// validate checks the snapshot's internal references before any state is
// built.
func validate(snap *snapshot) error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrLoadInvalid, fmt.Sprintf(format, args...))
	}

	devByDesg := make(map[string]deviceRecord, len(snap.Devices))
	devIDs := make(map[string]bool, len(snap.Devices))
	for _, rec := range snap.Devices {
		if _, err := uuid.Parse(rec.ID); err != nil {
			return fail("device %q: bad id %q", rec.Designator, rec.ID)
		}
		if devIDs[rec.ID] {
			return fail("duplicate device id %s", rec.ID)
		}
		devIDs[rec.ID] = true
		if err := cerrors.ValidateDesignator(rec.Designator); err != nil {
			return fail("device %s: %v", rec.ID, err)
		}
		if _, dup := devByDesg[rec.Designator]; dup {
			return fail("duplicate designator %s", rec.Designator)
		}
		if _, ok := device.KindByName(rec.Kind); !ok {
			return fail("device %s: unknown kind %q", rec.Designator, rec.Kind)
		}
		devByDesg[rec.Designator] = rec
	}

	verts := make(map[netgraph.VertexID]netgraph.Vertex, len(snap.Vertices))
	portSeen := make(map[string]bool)
	for _, v := range snap.Vertices {
		if v.ID < 0 {
			return fail("vertex id %d is negative", v.ID)
		}
		if _, dup := verts[v.ID]; dup {
			return fail("duplicate vertex id %d", v.ID)
		}
		verts[v.ID] = v
		switch v.Role {
		case netgraph.RoleWire:
			if v.Device != "" || v.Port != "" {
				return fail("wire vertex %d carries a device reference", v.ID)
			}
		case netgraph.RolePort:
			rec, ok := devByDesg[v.Device]
			if !ok {
				return fail("port vertex %d references unknown device %q", v.ID, v.Device)
			}
			kind, _ := device.KindByName(rec.Kind)
			typ, _ := device.TypeOf(kind)
			pd, ok := typ.Port(v.Port)
			if !ok {
				return fail("port vertex %d references unknown port %q of %s", v.ID, v.Port, v.Device)
			}
			want := rec.Pos.Add(rotateOffset(pd.Offset, rec.Rot))
			if v.Pos != want {
				return fail("port vertex %d at %v, device %s places port %s at %v", v.ID, v.Pos, v.Device, v.Port, want)
			}
			key := v.Device + "/" + v.Port
			if portSeen[key] {
				return fail("port %s has multiple vertices", key)
			}
			portSeen[key] = true
		default:
			return fail("vertex %d: unknown role %d", v.ID, v.Role)
		}
	}
	for desg, rec := range devByDesg {
		kind, _ := device.KindByName(rec.Kind)
		typ, _ := device.TypeOf(kind)
		for _, p := range typ.Ports {
			if !portSeen[desg+"/"+p.Name] {
				return fail("device %s is missing a vertex for port %s", desg, p.Name)
			}
		}
	}

	edgeIDs := make(map[netgraph.EdgeID]bool, len(snap.Edges))
	pairs := make(map[[2]netgraph.VertexID]bool, len(snap.Edges))
	for _, e := range snap.Edges {
		if e.ID < 0 {
			return fail("edge id %d is negative", e.ID)
		}
		if edgeIDs[e.ID] {
			return fail("duplicate edge id %d", e.ID)
		}
		edgeIDs[e.ID] = true
		if e.A == e.B {
			return fail("edge %d is a self loop", e.ID)
		}
		if _, ok := verts[e.A]; !ok {
			return fail("edge %d references unknown vertex %d", e.ID, e.A)
		}
		if _, ok := verts[e.B]; !ok {
			return fail("edge %d references unknown vertex %d", e.ID, e.B)
		}
		a, b := e.A, e.B
		if b < a {
			a, b = b, a
		}
		if pairs[[2]netgraph.VertexID{a, b}] {
			return fail("duplicate edge between %d and %d", a, b)
		}
		pairs[[2]netgraph.VertexID{a, b}] = true
	}

	for _, l := range snap.Labels {
		if l.Text == "" {
			return fail("empty label at %v", l.Pos)
		}
	}
	return nil
}
