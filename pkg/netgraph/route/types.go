// Package route implements the multi-goal orthogonal pathfinder used to
// reconnect wiring severed by a grab.
//
// A routing job starts at one vertex position and terminates upon reaching
// any member of its goal set (the surviving vertices of the target net).
// Cost is Manhattan path length over the canvas grid, with deterministic
// tie-breaking: fewer direction changes first, then the goal vertex with the
// lowest identifier, then the lexicographically smallest waypoint sequence
// among remaining equal-cost routes (points ordered by Y, then X). Repeated
// invocations over the same inputs return identical waypoint sequences.
//
// Failure to reach any goal is an expected outcome, not a fault: the search
// is bounded by a node budget and degrades to [ErrNoRoute], which callers
// surface as a floating net rather than an aborted operation.
package route

import (
	"errors"

	"github.com/circed/circed/pkg/geom"
	"github.com/circed/circed/pkg/netgraph"
)

var (
	// ErrNoRoute is the routing failure outcome: no goal is reachable within
	// the obstacle field and node budget. Callers treat it as recoverable:
	// the affected net is flagged floating and the rest of the batch proceeds.
	ErrNoRoute = errors.New("no route to any goal")

	// ErrNoGoals is returned when the job's goal set is empty, which means
	// every vertex of the target net was consumed by the same grab. There is
	// nothing to reconnect to.
	ErrNoGoals = errors.New("routing job has no goals")
)

// DefaultBudget bounds the number of search-node expansions per job so a
// pathological canvas degrades to ErrNoRoute instead of stalling the editor.
const DefaultBudget = 200_000

// Job is a single required reconnection: route from Start to any goal.
type Job struct {
	// Start is the position to route from (the moved vertex, post-transform).
	Start geom.Point

	// StartID is the vertex at Start; it is exempt from obstacle blocking.
	StartID netgraph.VertexID

	// Goals maps each vertex of the target net to its position. The
	// lowest identifier wins among equally cheap goals.
	Goals map[netgraph.VertexID]geom.Point
}

// Field is the obstacle field for one job: the cells the route must not
// cross, and the region the search may explore.
type Field struct {
	// Bounds limits the search region. Routes never leave it.
	Bounds geom.Box

	// Blocked marks cells occupied by elements the job does not own.
	Blocked map[geom.Point]bool

	// Budget caps search-node expansions; zero means DefaultBudget.
	Budget int
}

// NewField creates an obstacle field over bounds.
func NewField(bounds geom.Box) *Field {
	return &Field{Bounds: bounds, Blocked: make(map[geom.Point]bool)}
}

// Block marks a cell as impassable.
func (f *Field) Block(p geom.Point) { f.Blocked[p] = true }

// Allow unmarks a cell, letting the route pass through it. Used for the
// cells the job owns: its start and its goals.
func (f *Field) Allow(p geom.Point) { delete(f.Blocked, p) }

// passable reports whether the route may enter p.
func (f *Field) passable(p geom.Point) bool {
	return f.Bounds.Contains(p) && !f.Blocked[p]
}
