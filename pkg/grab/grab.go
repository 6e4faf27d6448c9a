// Package grab turns a committed drag gesture into a single atomic graph
// mutation that preserves connectivity.
//
// Given a selection and a rigid transform, the router partitions the touched
// vertices, severs the wire segments crossing the selection boundary, prunes
// boundary bends that stop earning their keep, asks the pathfinder to
// reconnect each severed net, and emits everything as one compound command.
// A grab that touches ten wires is one undo step, not ten.
//
// Planning never mutates the document. The router works against a clone of
// the graph so it can judge post-transform state (a prune is only safe if
// the vertex is still non-essential after the move), then hands back a
// command whose forward diff performs the whole batch. Routing failures are
// collected per job and reported alongside the command; they flag nets as
// floating but never roll back the rest of the batch.
package grab

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/circed/circed/pkg/geom"
	"github.com/circed/circed/pkg/history"
	"github.com/circed/circed/pkg/netgraph"
	"github.com/circed/circed/pkg/netgraph/route"
	"github.com/circed/circed/pkg/observability"
)

// Options configures a Router.
type Options struct {
	// Bounds limits rerouting to this canvas region. The zero box means
	// "derive from content": the graph bounds plus a margin.
	Bounds geom.Box

	// Budget caps pathfinder expansions per job; zero means route.DefaultBudget.
	Budget int

	// Obstacles supplies cells blocked by elements outside the graph,
	// typically device bodies. May be nil.
	Obstacles func() []geom.Point

	// Logger receives per-job debug output. May be nil.
	Logger *log.Logger
}

// Router plans grab commits against one connectivity graph.
type Router struct {
	graph *netgraph.Graph
	opts  Options
}

// NewRouter creates a router over g.
func NewRouter(g *netgraph.Graph, opts Options) *Router {
	return &Router{graph: g, opts: opts}
}

// FailedRoute records one reconnection the pathfinder could not complete.
// The net containing Goals must be flagged floating by the caller.
type FailedRoute struct {
	From  netgraph.VertexID
	Goals []netgraph.VertexID
	Err   error
}

// Result is a planned grab commit: the compound command to push, plus any
// routing jobs that failed.
type Result struct {
	Command history.Command
	Failed  []FailedRoute
}

// Plan computes the compound command for moving the selected vertices by tr.
// The document graph is only read; pushing the returned command applies the
// batch. An empty selection or identity transform yields an empty command.
func (r *Router) Plan(ctx context.Context, selected map[netgraph.VertexID]bool, tr geom.Transform) (Result, error) {
	var res Result
	sel := r.liveSelection(selected)
	if len(sel) == 0 || tr.IsIdentity() {
		return res, nil
	}

	scratch := r.graph.Clone()

	boundary := r.boundaryEdges(sel)
	observability.Editor().OnRouteStart(ctx, len(boundary))
	start := time.Now()

	// Goal nets are snapshotted before anything is deleted, so each routing
	// job aims at the original net rather than one already fragmented by
	// earlier deletions in the same batch.
	goals := make([][]netgraph.VertexID, len(boundary))
	for i, be := range boundary {
		goals[i] = scratch.NetOf(be.outside)
	}

	// Candidate prunes are judged with the boundary already severed; a bend
	// is only disposable once the segment into the selection is gone.
	for _, be := range boundary {
		if err := scratch.RemoveEdge(be.edge.ID); err != nil {
			return res, fmt.Errorf("sever boundary edge %d: %w", be.edge.ID, err)
		}
	}
	var candidates []netgraph.VertexID
	seen := make(map[netgraph.VertexID]bool)
	for _, be := range boundary {
		b := be.outside
		if seen[b] {
			continue
		}
		seen[b] = true
		if prunable(scratch, b) {
			candidates = append(candidates, b)
		}
	}
	slices.Sort(candidates)

	// Move the selection on the scratch graph and record the diffs.
	var ops []history.Op
	for _, id := range sel {
		v, _ := r.graph.Vertex(id)
		to := tr.Apply(v.Pos)
		ops = append(ops, history.MoveVertex(v, to))
		if err := scratch.MoveVertex(id, to); err != nil {
			return res, fmt.Errorf("move vertex %d: %w", id, err)
		}
	}
	for _, be := range boundary {
		ops = append(ops, history.RemoveEdge(be.edge))
	}

	// Re-check each candidate post-transform: a moved vertex landing on the
	// candidate's position can re-connect branches through coincidence and
	// change the verdict either way.
	for _, b := range candidates {
		if !prunable(scratch, b) {
			continue
		}
		v, _ := scratch.Vertex(b)
		for _, e := range scratch.IncidentEdges(b) {
			ops = append(ops, history.RemoveEdge(e))
			if err := scratch.RemoveEdge(e.ID); err != nil {
				return res, fmt.Errorf("prune edge %d: %w", e.ID, err)
			}
		}
		ops = append(ops, history.RemoveVertex(v))
		if err := scratch.RemoveVertex(b); err != nil {
			return res, fmt.Errorf("prune vertex %d: %w", b, err)
		}
	}

	// Reconnect each severed boundary, splicing the routes into the scratch
	// graph as we go so later jobs see earlier reroutes as obstacles and
	// jobs already satisfied by an earlier route are skipped.
	for i, be := range boundary {
		routeOps, failed, err := r.reconnect(ctx, scratch, be.inside, goals[i], sel)
		if err != nil {
			return res, err
		}
		if failed != nil {
			res.Failed = append(res.Failed, *failed)
			continue
		}
		ops = append(ops, routeOps...)
	}

	res.Command = history.Batch(commandLabel(tr, len(sel)), ops...)
	observability.Editor().OnRouteComplete(ctx, len(boundary), len(res.Failed), time.Since(start))
	return res, nil
}

// prunable reports whether a severed boundary partner may be dissolved: a
// non-essential wire point that still has neighbors to carry its net. A
// partner with no neighbors left is the sole remnant of the severed net
// and is kept as the reconnection target.
func prunable(g *netgraph.Graph, id netgraph.VertexID) bool {
	v, ok := g.Vertex(id)
	if !ok || v.Role != netgraph.RoleWire || g.IsEssential(id) {
		return false
	}
	return g.Degree(id) > 0 || len(g.VerticesAt(v.Pos)) > 1
}

type boundaryEdge struct {
	edge    netgraph.Edge
	inside  netgraph.VertexID // endpoint in the selection
	outside netgraph.VertexID // endpoint left behind
}

// liveSelection filters the selection to live vertices, sorted ascending.
func (r *Router) liveSelection(selected map[netgraph.VertexID]bool) []netgraph.VertexID {
	sel := make([]netgraph.VertexID, 0, len(selected))
	for id, on := range selected {
		if !on {
			continue
		}
		if _, ok := r.graph.Vertex(id); ok {
			sel = append(sel, id)
		}
	}
	slices.Sort(sel)
	return sel
}

// boundaryEdges returns every segment with exactly one endpoint selected,
// sorted by edge identifier for reproducible planning.
func (r *Router) boundaryEdges(sel []netgraph.VertexID) []boundaryEdge {
	inSel := make(map[netgraph.VertexID]bool, len(sel))
	for _, id := range sel {
		inSel[id] = true
	}
	var out []boundaryEdge
	for _, e := range r.graph.Edges() {
		switch {
		case inSel[e.A] && !inSel[e.B]:
			out = append(out, boundaryEdge{edge: e, inside: e.A, outside: e.B})
		case inSel[e.B] && !inSel[e.A]:
			out = append(out, boundaryEdge{edge: e, inside: e.B, outside: e.A})
		}
	}
	return out
}

// reconnect routes from the moved vertex to the snapshotted goal net and
// returns the splice ops. Exactly one of the three results is meaningful:
// ops on success, a FailedRoute when no goal is reachable, or an error for
// contract violations.
func (r *Router) reconnect(ctx context.Context, scratch *netgraph.Graph, from netgraph.VertexID, goalNet []netgraph.VertexID, sel []netgraph.VertexID) ([]history.Op, *FailedRoute, error) {
	inSel := make(map[netgraph.VertexID]bool, len(sel))
	for _, id := range sel {
		inSel[id] = true
	}

	job := route.Job{StartID: from, Goals: make(map[netgraph.VertexID]geom.Point)}
	start, ok := scratch.Vertex(from)
	if !ok {
		return nil, nil, fmt.Errorf("route start vertex %d: %w", from, netgraph.ErrUnknownVertex)
	}
	job.Start = start.Pos

	goalIDs := make([]netgraph.VertexID, 0, len(goalNet))
	for _, id := range goalNet {
		if inSel[id] {
			continue // moved with the selection; not a reconnection target
		}
		v, ok := scratch.Vertex(id)
		if !ok {
			continue // pruned earlier in this batch
		}
		job.Goals[id] = v.Pos
		goalIDs = append(goalIDs, id)
	}
	if len(goalIDs) == 0 {
		// The entire target net moved or was pruned; nothing to reconnect.
		return nil, nil, nil
	}
	for _, id := range goalIDs {
		if scratch.SameNet(from, id) {
			// An earlier job in this batch already rejoined the nets.
			return nil, nil, nil
		}
	}

	wps, goal, err := route.FindPath(ctx, job, r.buildField(scratch))
	if errors.Is(err, route.ErrNoRoute) {
		r.logf("route failed: from=%d goals=%v: %v", from, goalIDs, err)
		return nil, &FailedRoute{From: from, Goals: goalIDs, Err: err}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	r.logf("routed: from=%d goal=%d waypoints=%v", from, goal, wps)

	return r.splice(scratch, from, goal, wps)
}

// splice converts a waypoint sequence into new wire points and segments,
// applying them to the scratch graph and returning the matching ops.
func (r *Router) splice(scratch *netgraph.Graph, from, goal netgraph.VertexID, wps []geom.Point) ([]history.Op, *FailedRoute, error) {
	if len(wps) < 2 {
		return nil, nil, nil // coincident endpoints connect by position alone
	}
	var ops []history.Op
	chain := []netgraph.VertexID{from}
	for _, bend := range wps[1 : len(wps)-1] {
		id := r.graph.ReserveVertexID()
		if cid := scratch.ReserveVertexID(); cid != id {
			return nil, nil, fmt.Errorf("scratch graph diverged: reserved %d vs %d", cid, id)
		}
		v := netgraph.Vertex{ID: id, Pos: bend, Role: netgraph.RoleWire}
		ops = append(ops, history.AddVertex(v))
		if err := scratch.RestoreVertex(v); err != nil {
			return nil, nil, fmt.Errorf("splice vertex at %v: %w", bend, err)
		}
		chain = append(chain, id)
	}
	chain = append(chain, goal)
	for i := 1; i < len(chain); i++ {
		id := r.graph.ReserveEdgeID()
		if cid := scratch.ReserveEdgeID(); cid != id {
			return nil, nil, fmt.Errorf("scratch graph diverged: reserved edge %d vs %d", cid, id)
		}
		e := netgraph.Edge{ID: id, A: chain[i-1], B: chain[i]}
		ops = append(ops, history.AddEdge(e))
		if err := scratch.RestoreEdge(e); err != nil {
			return nil, nil, fmt.Errorf("splice edge %d-%d: %w", e.A, e.B, err)
		}
	}
	return ops, nil, nil
}

// buildField assembles the obstacle field from the scratch graph's current
// occupancy plus external obstacles. Start and goal cells are passable by
// construction of the search; everything else occupied is blocked.
func (r *Router) buildField(scratch *netgraph.Graph) *route.Field {
	bounds := r.opts.Bounds
	if bounds == (geom.Box{}) {
		if gb, ok := scratch.Bounds(); ok {
			bounds = gb.Expand(8)
		} else {
			bounds = geom.NewBox(geom.Pt(-8, -8), geom.Pt(8, 8))
		}
	}
	f := route.NewField(bounds)
	f.Budget = r.opts.Budget
	for _, v := range scratch.Vertices() {
		f.Block(v.Pos)
	}
	for _, e := range scratch.Edges() {
		a, _ := scratch.Vertex(e.A)
		b, _ := scratch.Vertex(e.B)
		blockSpan(f, a.Pos, b.Pos)
	}
	if r.opts.Obstacles != nil {
		for _, p := range r.opts.Obstacles() {
			f.Block(p)
		}
	}
	return f
}

func blockSpan(f *route.Field, a, b geom.Point) {
	switch {
	case a.X == b.X:
		lo, hi := min(a.Y, b.Y), max(a.Y, b.Y)
		for y := lo; y <= hi; y++ {
			f.Block(geom.Pt(a.X, y))
		}
	case a.Y == b.Y:
		lo, hi := min(a.X, b.X), max(a.X, b.X)
		for x := lo; x <= hi; x++ {
			f.Block(geom.Pt(x, a.Y))
		}
	default:
		f.Block(a)
		f.Block(b)
	}
}

func commandLabel(tr geom.Transform, n int) string {
	if tr.Rot.Normalize() != geom.Rot0 {
		return fmt.Sprintf("rotate %d vertices", n)
	}
	return fmt.Sprintf("move %d vertices", n)
}

func (r *Router) logf(format string, args ...any) {
	if r.opts.Logger != nil {
		r.opts.Logger.Debugf(format, args...)
	}
}
