// Package netgraph implements the connectivity graph at the heart of the
// schematic editor: vertices (wire endpoints, bends, and device ports),
// undirected wire segments between them, and the derived nets that drive
// rerouting, checking, and netlist export.
//
// # Identity
//
// Vertices and edges are identified by stable integer indices into owned
// arena storage. An identifier is minted once and never reused, so it stays
// valid across undo/redo without reallocation concerns: removing an element
// leaves a dead slot that only an explicit Restore with the same identifier
// can revive. This is what makes history diffs self-contained.
//
// # Nets
//
// A net is a maximal set of vertices connected through wire segments or
// through position coincidence: two vertices at identical coordinates belong
// to the same net even without an explicit edge between them. This models a
// device port touching a wire. Nets are always derived on query, never
// stored, so they cannot drift from the edge set after undo/redo.
//
// # Concurrency
//
// Graph is not safe for concurrent mutation. The editor mutates it from a
// single owning goroutine; see pkg/grab for how asynchronous route proposals
// are serialized back onto that goroutine.
package netgraph

import (
	"slices"

	"github.com/circed/circed/pkg/geom"
)

// VertexID identifies a vertex. IDs are minted sequentially and never reused.
type VertexID int

// EdgeID identifies a wire segment. IDs are minted sequentially and never reused.
type EdgeID int

// Role distinguishes the two kinds of connectivity points.
type Role uint8

const (
	// RoleWire marks a free wire endpoint or bend created by drawing or routing.
	RoleWire Role = iota
	// RolePort marks a device terminal. Ports are owned by their device and
	// are never pruned by the grab router.
	RolePort
)

// String returns "wire" or "port".
func (r Role) String() string {
	if r == RolePort {
		return "port"
	}
	return "wire"
}

// Vertex is a point of connectivity on the canvas grid.
type Vertex struct {
	ID   VertexID   `json:"id"`
	Pos  geom.Point `json:"pos"`
	Role Role       `json:"role"`

	// Device and Port name the owning device terminal when Role is RolePort.
	// Both are empty for wire points.
	Device string `json:"device,omitempty"`
	Port   string `json:"port,omitempty"`
}

// Edge is an undirected wire segment between two vertices. A and B are
// stored in ascending order; the unordered pair is unique within a graph.
type Edge struct {
	ID EdgeID   `json:"id"`
	A  VertexID `json:"a"`
	B  VertexID `json:"b"`
}

// Other returns the endpoint opposite v, and true if v is an endpoint at all.
func (e Edge) Other(v VertexID) (VertexID, bool) {
	switch v {
	case e.A:
		return e.B, true
	case e.B:
		return e.A, true
	}
	return 0, false
}

type vertexSlot struct {
	Vertex
	live bool
}

type edgeSlot struct {
	Edge
	live bool
}

type pairKey struct{ a, b VertexID }

func orderedPair(a, b VertexID) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{a, b}
}

// Graph holds the vertices and wire segments of one schematic document.
// The zero value is not usable; use [New].
type Graph struct {
	verts []vertexSlot
	edges []edgeSlot

	byPair   map[pairKey]EdgeID
	byPos    map[geom.Point][]VertexID
	incident map[VertexID][]EdgeID
}

// New creates an empty connectivity graph.
func New() *Graph {
	return &Graph{
		byPair:   make(map[pairKey]EdgeID),
		byPos:    make(map[geom.Point][]VertexID),
		incident: make(map[VertexID][]EdgeID),
	}
}

// ReserveVertexID mints a fresh vertex identifier without creating a vertex.
// The slot stays dead until [Graph.RestoreVertex] fills it. Commands reserve
// their identifiers up front so that forward and inverse diffs can name them
// before anything is applied.
func (g *Graph) ReserveVertexID() VertexID {
	id := VertexID(len(g.verts))
	g.verts = append(g.verts, vertexSlot{})
	return id
}

// ReserveEdgeID mints a fresh edge identifier without creating an edge.
func (g *Graph) ReserveEdgeID() EdgeID {
	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, edgeSlot{})
	return id
}

// AddVertex creates a vertex at pos with the given role and returns its
// identifier. It always succeeds and never produces a duplicate identifier.
// device and port must be empty unless role is RolePort.
func (g *Graph) AddVertex(pos geom.Point, role Role, device, port string) VertexID {
	id := g.ReserveVertexID()
	// Restore onto a freshly reserved slot cannot fail.
	_ = g.RestoreVertex(Vertex{ID: id, Pos: pos, Role: role, Device: device, Port: port})
	return id
}

// RestoreVertex revives a vertex with an explicit identifier, either filling
// a reserved slot or undoing a prior removal. Returns ErrIDUnallocated if the
// identifier was never minted, or ErrIDOccupied if it is currently live.
func (g *Graph) RestoreVertex(v Vertex) error {
	if v.ID < 0 || int(v.ID) >= len(g.verts) {
		return ErrIDUnallocated
	}
	if g.verts[v.ID].live {
		return ErrIDOccupied
	}
	g.verts[v.ID] = vertexSlot{Vertex: v, live: true}
	g.byPos[v.Pos] = append(g.byPos[v.Pos], v.ID)
	return nil
}

// RemoveVertex deletes the vertex. Returns ErrUnknownVertex if it does not
// exist, or ErrVertexInUse if any edge still references it.
func (g *Graph) RemoveVertex(id VertexID) error {
	if !g.alive(id) {
		return ErrUnknownVertex
	}
	if len(g.incident[id]) > 0 {
		return ErrVertexInUse
	}
	v := g.verts[id].Vertex
	g.removeFromPos(v.Pos, id)
	delete(g.incident, id)
	g.verts[id] = vertexSlot{Vertex: Vertex{ID: id}}
	return nil
}

// MoveVertex updates the vertex position without touching topology.
// Returns ErrUnknownVertex if the vertex does not exist.
func (g *Graph) MoveVertex(id VertexID, pos geom.Point) error {
	if !g.alive(id) {
		return ErrUnknownVertex
	}
	old := g.verts[id].Pos
	if old == pos {
		return nil
	}
	g.removeFromPos(old, id)
	g.verts[id].Pos = pos
	g.byPos[pos] = append(g.byPos[pos], id)
	return nil
}

// AddEdge creates a wire segment between a and b and returns its identifier.
// Returns ErrUnknownVertex if either endpoint is absent, ErrSelfLoop if the
// endpoints coincide, or ErrDuplicateEdge if the unordered pair already has
// a segment.
func (g *Graph) AddEdge(a, b VertexID) (EdgeID, error) {
	id := EdgeID(len(g.edges))
	e := Edge{ID: id, A: a, B: b}
	g.edges = append(g.edges, edgeSlot{})
	if err := g.RestoreEdge(e); err != nil {
		// Drop the speculative slot again; nothing was minted before it.
		g.edges = g.edges[:id]
		return 0, err
	}
	return id, nil
}

// RestoreEdge revives an edge with an explicit identifier, either filling a
// reserved slot or undoing a prior removal. The same validation as
// [Graph.AddEdge] applies, plus ErrIDUnallocated/ErrIDOccupied for the slot.
func (g *Graph) RestoreEdge(e Edge) error {
	if e.ID < 0 || int(e.ID) >= len(g.edges) {
		return ErrIDUnallocated
	}
	if g.edges[e.ID].live {
		return ErrIDOccupied
	}
	if e.A == e.B {
		return ErrSelfLoop
	}
	if !g.alive(e.A) || !g.alive(e.B) {
		return ErrUnknownVertex
	}
	key := orderedPair(e.A, e.B)
	if _, dup := g.byPair[key]; dup {
		return ErrDuplicateEdge
	}
	if key.a != e.A {
		e.A, e.B = e.B, e.A
	}
	g.edges[e.ID] = edgeSlot{Edge: e, live: true}
	g.byPair[key] = e.ID
	g.incident[e.A] = append(g.incident[e.A], e.ID)
	g.incident[e.B] = append(g.incident[e.B], e.ID)
	return nil
}

// RemoveEdge deletes the wire segment. Returns ErrUnknownEdge if it does
// not exist.
func (g *Graph) RemoveEdge(id EdgeID) error {
	if id < 0 || int(id) >= len(g.edges) || !g.edges[id].live {
		return ErrUnknownEdge
	}
	e := g.edges[id].Edge
	delete(g.byPair, orderedPair(e.A, e.B))
	g.incident[e.A] = slices.DeleteFunc(g.incident[e.A], func(x EdgeID) bool { return x == id })
	g.incident[e.B] = slices.DeleteFunc(g.incident[e.B], func(x EdgeID) bool { return x == id })
	g.edges[id] = edgeSlot{Edge: Edge{ID: id}}
	return nil
}

// Vertex returns the vertex and true, or a zero vertex and false if the
// identifier is dead or was never minted.
func (g *Graph) Vertex(id VertexID) (Vertex, bool) {
	if !g.alive(id) {
		return Vertex{}, false
	}
	return g.verts[id].Vertex, true
}

// Edge returns the edge and true, or a zero edge and false.
func (g *Graph) Edge(id EdgeID) (Edge, bool) {
	if id < 0 || int(id) >= len(g.edges) || !g.edges[id].live {
		return Edge{}, false
	}
	return g.edges[id].Edge, true
}

// EdgeBetween returns the segment connecting a and b, if one exists.
func (g *Graph) EdgeBetween(a, b VertexID) (Edge, bool) {
	id, ok := g.byPair[orderedPair(a, b)]
	if !ok {
		return Edge{}, false
	}
	return g.edges[id].Edge, true
}

// Vertices returns all live vertices sorted by identifier.
func (g *Graph) Vertices() []Vertex {
	out := make([]Vertex, 0, len(g.verts))
	for i := range g.verts {
		if g.verts[i].live {
			out = append(out, g.verts[i].Vertex)
		}
	}
	return out
}

// Edges returns all live edges sorted by identifier.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for i := range g.edges {
		if g.edges[i].live {
			out = append(out, g.edges[i].Edge)
		}
	}
	return out
}

// VertexCount returns the number of live vertices.
func (g *Graph) VertexCount() int {
	n := 0
	for i := range g.verts {
		if g.verts[i].live {
			n++
		}
	}
	return n
}

// EdgeCount returns the number of live edges.
func (g *Graph) EdgeCount() int { return len(g.byPair) }

// Degree returns the number of wire segments incident to the vertex.
// Returns 0 for unknown vertices.
func (g *Graph) Degree(id VertexID) int { return len(g.incident[id]) }

// IncidentEdges returns the segments touching the vertex, sorted by
// identifier. The slice is a copy.
func (g *Graph) IncidentEdges(id VertexID) []Edge {
	ids := g.incident[id]
	out := make([]Edge, 0, len(ids))
	for _, eid := range ids {
		out = append(out, g.edges[eid].Edge)
	}
	slices.SortFunc(out, func(a, b Edge) int { return int(a.ID - b.ID) })
	return out
}

// VerticesAt returns the identifiers of all vertices at exactly pos,
// sorted ascending.
func (g *Graph) VerticesAt(pos geom.Point) []VertexID {
	ids := slices.Clone(g.byPos[pos])
	slices.Sort(ids)
	return ids
}

// OccupiedAt reports whether any vertex or any wire segment passes through
// pos. Segments occupy every grid cell on their orthogonal span.
func (g *Graph) OccupiedAt(pos geom.Point) bool {
	if len(g.byPos[pos]) > 0 {
		return true
	}
	for i := range g.edges {
		if g.edges[i].live && g.segmentCovers(g.edges[i].Edge, pos) {
			return true
		}
	}
	return false
}

// segmentCovers reports whether pos lies on the axis-aligned span of e.
// Diagonal segments (which routing never produces) cover only endpoints.
func (g *Graph) segmentCovers(e Edge, pos geom.Point) bool {
	a := g.verts[e.A].Pos
	b := g.verts[e.B].Pos
	if a.X == b.X && pos.X == a.X {
		lo, hi := min(a.Y, b.Y), max(a.Y, b.Y)
		return pos.Y >= lo && pos.Y <= hi
	}
	if a.Y == b.Y && pos.Y == a.Y {
		lo, hi := min(a.X, b.X), max(a.X, b.X)
		return pos.X >= lo && pos.X <= hi
	}
	return pos == a || pos == b
}

// Bounds returns the bounding box of all live vertices and true, or a zero
// box and false for an empty graph.
func (g *Graph) Bounds() (geom.Box, bool) {
	var box geom.Box
	found := false
	for i := range g.verts {
		if !g.verts[i].live {
			continue
		}
		p := g.verts[i].Pos
		if !found {
			box = geom.NewBox(p, p)
			found = true
			continue
		}
		box = box.Union(geom.NewBox(p, p))
	}
	return box, found
}

// Clone returns a deep copy sharing no storage with g. Identifier counters
// carry over, so reserving on the clone and the original in lockstep mints
// matching identifiers. The grab router plans against a clone to evaluate
// post-transform state before committing anything to the real graph.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		verts:    slices.Clone(g.verts),
		edges:    slices.Clone(g.edges),
		byPair:   make(map[pairKey]EdgeID, len(g.byPair)),
		byPos:    make(map[geom.Point][]VertexID, len(g.byPos)),
		incident: make(map[VertexID][]EdgeID, len(g.incident)),
	}
	for k, v := range g.byPair {
		c.byPair[k] = v
	}
	for k, v := range g.byPos {
		c.byPos[k] = slices.Clone(v)
	}
	for k, v := range g.incident {
		c.incident[k] = slices.Clone(v)
	}
	return c
}

func (g *Graph) alive(id VertexID) bool {
	return id >= 0 && int(id) < len(g.verts) && g.verts[id].live
}

func (g *Graph) removeFromPos(pos geom.Point, id VertexID) {
	ids := slices.DeleteFunc(g.byPos[pos], func(x VertexID) bool { return x == id })
	if len(ids) == 0 {
		delete(g.byPos, pos)
	} else {
		g.byPos[pos] = ids
	}
}
