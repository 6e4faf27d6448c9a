package route

import (
	"container/heap"
	"context"
	"fmt"

	"github.com/circed/circed/pkg/geom"
	"github.com/circed/circed/pkg/netgraph"
)

// Neighbor offsets in expansion order. The order only affects discovery;
// equal-cost routes are resolved by comparing their waypoint sequences.
var dirOffsets = [4]geom.Point{
	{X: 0, Y: -1},
	{X: -1, Y: 0},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
}

const noDir = int8(-1)

// cost orders candidate routes: shorter first, then fewer bends.
type cost struct {
	steps int
	bends int
}

func (c cost) less(o cost) bool {
	if c.steps != o.steps {
		return c.steps < o.steps
	}
	return c.bends < o.bends
}

// state is one search node: a cell plus the direction it was entered from.
// Tracking the entry direction is what lets the search count bends.
type state struct {
	pos geom.Point
	dir int8
}

type item struct {
	state
	cost
}

type frontier []item

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	a, b := f[i], f[j]
	if a.steps != b.steps {
		return a.steps < b.steps
	}
	if a.bends != b.bends {
		return a.bends < b.bends
	}
	// Total order over states keeps heap behavior reproducible.
	if a.pos.Y != b.pos.Y {
		return a.pos.Y < b.pos.Y
	}
	if a.pos.X != b.pos.X {
		return a.pos.X < b.pos.X
	}
	return a.dir < b.dir
}
func (f frontier) Swap(i, j int)       { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x any)         { *f = append(*f, x.(item)) }
func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	it := old[n-1]
	*f = old[:n-1]
	return it
}

// FindPath searches for the cheapest route from job.Start to any goal and
// returns its waypoint sequence: the start position, every bend, and the
// reached goal position, in order. A result of length 1 means the start
// already coincides with a goal and no wiring is needed.
//
// The search is a uniform-cost expansion over (cell, entry direction)
// states so that bends participate in the cost. It honors ctx cancellation
// and the field's node budget; both degrade to an error wrapping ErrNoRoute.
func FindPath(ctx context.Context, job Job, field *Field) ([]geom.Point, netgraph.VertexID, error) {
	if len(job.Goals) == 0 {
		return nil, 0, ErrNoGoals
	}

	goalCells := make(map[geom.Point][]netgraph.VertexID, len(job.Goals))
	for id, pos := range job.Goals {
		goalCells[pos] = append(goalCells[pos], id)
	}
	if ids, ok := goalCells[job.Start]; ok {
		return []geom.Point{job.Start}, lowest(ids), nil
	}

	budget := field.Budget
	if budget <= 0 {
		budget = DefaultBudget
	}

	dist := make(map[state]cost)
	prev := make(map[state]state)

	startState := state{pos: job.Start, dir: noDir}
	dist[startState] = cost{}
	f := &frontier{{state: startState}}

	// Best completed route so far: cost, goal vertex, arrival state.
	var (
		found    bool
		bestCost cost
		bestGoal netgraph.VertexID
		bestEnd  state
	)

	for pops := 0; f.Len() > 0; pops++ {
		if pops >= budget {
			break
		}
		if pops%1024 == 0 && ctx.Err() != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrNoRoute, ctx.Err())
		}

		cur := heap.Pop(f).(item)
		if d, ok := dist[cur.state]; ok && d.less(cur.cost) {
			continue // stale entry
		}
		if found && bestCost.less(cur.cost) {
			break // every remaining route is strictly worse
		}

		if ids, ok := goalCells[cur.pos]; ok {
			goal := lowest(ids)
			switch {
			case !found || cur.cost.less(bestCost) || (cur.cost == bestCost && goal < bestGoal):
				found, bestCost, bestGoal, bestEnd = true, cur.cost, goal, cur.state
			case cur.cost == bestCost && goal == bestGoal && cur.state != bestEnd:
				// Same cost, same goal, different arrival: keep the
				// lexicographically smaller waypoint sequence.
				if pathLess(waypoints(rebuild(prev, startState, cur.state)), waypoints(rebuild(prev, startState, bestEnd))) {
					bestEnd = cur.state
				}
			}
			continue
		}

		for d := int8(0); d < 4; d++ {
			next := cur.pos.Add(dirOffsets[d])
			if !field.passable(next) {
				if _, isGoal := goalCells[next]; !isGoal {
					continue
				}
			}
			nc := cost{steps: cur.steps + 1, bends: cur.bends}
			if cur.dir != noDir && cur.dir != d {
				nc.bends++
			}
			ns := state{pos: next, dir: d}
			if old, seen := dist[ns]; seen {
				if old.less(nc) {
					continue
				}
				if nc == old {
					// Cost tie into a known state. Unit steps dominate the
					// pop order, so every equal-cost path into cur.state is
					// already settled; keeping the lexicographically
					// smaller prefix here makes the final route the
					// smallest waypoint sequence overall.
					cand := append(rebuild(prev, startState, cur.state), next)
					if pathLess(waypoints(cand), waypoints(rebuild(prev, startState, ns))) {
						prev[ns] = cur.state
					}
					continue
				}
			}
			dist[ns] = nc
			prev[ns] = cur.state
			heap.Push(f, item{state: ns, cost: nc})
		}
	}

	if !found {
		return nil, 0, fmt.Errorf("%w: explored field without reaching a goal", ErrNoRoute)
	}

	return waypoints(rebuild(prev, startState, bestEnd)), bestGoal, nil
}

// rebuild walks the predecessor chain from end back to start and returns the
// full cell sequence in forward order.
func rebuild(prev map[state]state, start, end state) []geom.Point {
	var cells []geom.Point
	for cur := end; ; {
		cells = append(cells, cur.pos)
		if cur == start {
			break
		}
		cur = prev[cur]
	}
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells
}

// waypoints compresses a cell sequence to its endpoints and bend points.
// These are exactly the vertices a splice needs: every interior waypoint
// becomes a new wire point, consecutive waypoints become segments.
func waypoints(cells []geom.Point) []geom.Point {
	if len(cells) <= 2 {
		return cells
	}
	out := []geom.Point{cells[0]}
	for i := 1; i < len(cells)-1; i++ {
		a, b, c := cells[i-1], cells[i], cells[i+1]
		straight := (a.X == b.X && b.X == c.X) || (a.Y == b.Y && b.Y == c.Y)
		if !straight {
			out = append(out, b)
		}
	}
	return append(out, cells[len(cells)-1])
}

// pathLess orders waypoint sequences lexicographically. Points compare by
// Y then X; on a common prefix the shorter sequence sorts first.
func pathLess(a, b []geom.Point) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] == b[i] {
			continue
		}
		if a[i].Y != b[i].Y {
			return a[i].Y < b[i].Y
		}
		return a[i].X < b[i].X
	}
	return len(a) < len(b)
}

func lowest(ids []netgraph.VertexID) netgraph.VertexID {
	best := ids[0]
	for _, id := range ids[1:] {
		if id < best {
			best = id
		}
	}
	return best
}
