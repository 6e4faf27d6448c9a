package netgraph

import "slices"

// NetOf returns the identifiers of every vertex in the same net as id,
// sorted ascending, including id itself. Membership is transitive over both
// explicit wire segments and position coincidence. Returns nil if the vertex
// does not exist.
//
// The result is recomputed from the current vertex and edge sets on every
// call; nets are never stored.
func (g *Graph) NetOf(id VertexID) []VertexID {
	if !g.alive(id) {
		return nil
	}
	return g.component(id, -1)
}

// Nets returns every net in the graph. Each net is sorted ascending and the
// nets themselves are ordered by their lowest vertex identifier, so the
// result is deterministic for a given graph state.
func (g *Graph) Nets() [][]VertexID {
	seen := make(map[VertexID]bool, len(g.verts))
	var nets [][]VertexID
	for i := range g.verts {
		if !g.verts[i].live || seen[VertexID(i)] {
			continue
		}
		net := g.component(VertexID(i), -1)
		for _, v := range net {
			seen[v] = true
		}
		nets = append(nets, net)
	}
	return nets
}

// SameNet reports whether a and b belong to the same net.
func (g *Graph) SameNet(a, b VertexID) bool {
	if !g.alive(a) || !g.alive(b) {
		return false
	}
	if a == b {
		return true
	}
	return slices.Contains(g.component(a, -1), b)
}

// IsEssential reports whether the vertex may not be silently dropped:
// device ports are always essential, and so is any vertex whose removal
// would disconnect two of its neighbors within the net. A dangling wire
// endpoint or an isolated wire point is not essential.
func (g *Graph) IsEssential(id VertexID) bool {
	v, ok := g.Vertex(id)
	if !ok {
		return false
	}
	if v.Role == RolePort {
		return true
	}
	neighbors := g.neighbors(id)
	if len(neighbors) < 2 {
		return false
	}
	// The vertex bridges distinct branches if any two of its neighbors lose
	// each other once it is excluded from traversal.
	reachable := g.component(neighbors[0], id)
	for _, n := range neighbors[1:] {
		if !slices.Contains(reachable, n) {
			return true
		}
	}
	return false
}

// neighbors returns the distinct vertices adjacent to id through wire
// segments or coincident position, sorted ascending, excluding id itself.
func (g *Graph) neighbors(id VertexID) []VertexID {
	set := make(map[VertexID]bool)
	for _, eid := range g.incident[id] {
		if other, ok := g.edges[eid].Other(id); ok {
			set[other] = true
		}
	}
	for _, other := range g.byPos[g.verts[id].Pos] {
		if other != id {
			set[other] = true
		}
	}
	out := make([]VertexID, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// component runs a breadth-first closure from start over segment adjacency
// and coincidence, skipping the excluded vertex (pass -1 for none).
// The result is sorted ascending.
func (g *Graph) component(start VertexID, exclude VertexID) []VertexID {
	if start == exclude || !g.alive(start) {
		return nil
	}
	visited := map[VertexID]bool{start: true}
	queue := []VertexID{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.neighbors(cur) {
			if next == exclude || visited[next] {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}
	out := make([]VertexID, 0, len(visited))
	for v := range visited {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}
