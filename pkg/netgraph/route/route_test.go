package route

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/circed/circed/pkg/geom"
	"github.com/circed/circed/pkg/netgraph"
)

func field(t *testing.T) *Field {
	t.Helper()
	return NewField(geom.NewBox(geom.Pt(-20, -20), geom.Pt(20, 20)))
}

func pathLength(wps []geom.Point) int {
	n := 0
	for i := 1; i < len(wps); i++ {
		n += wps[i-1].Manhattan(wps[i])
	}
	return n
}

func TestFindPathStraightLine(t *testing.T) {
	job := Job{
		Start: geom.Pt(0, 0),
		Goals: map[netgraph.VertexID]geom.Point{7: geom.Pt(6, 0)},
	}
	wps, goal, err := FindPath(context.Background(), job, field(t))
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	if goal != 7 {
		t.Errorf("goal = %d, want 7", goal)
	}
	want := []geom.Point{geom.Pt(0, 0), geom.Pt(6, 0)}
	if !reflect.DeepEqual(wps, want) {
		t.Errorf("waypoints = %v, want %v", wps, want)
	}
}

func TestFindPathManhattanMinimal(t *testing.T) {
	// Scenario geometry from a grab: reconnect (5,0) to the vertex moved
	// to (7,7). Optimal length is 9 with a single bend.
	job := Job{
		Start: geom.Pt(5, 0),
		Goals: map[netgraph.VertexID]geom.Point{2: geom.Pt(7, 7)},
	}
	wps, _, err := FindPath(context.Background(), job, field(t))
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	if got := pathLength(wps); got != 9 {
		t.Errorf("path length = %d, want 9", got)
	}
	if bends := len(wps) - 2; bends != 1 {
		t.Errorf("bends = %d, want 1 (waypoints %v)", bends, wps)
	}
	if wps[0] != geom.Pt(5, 0) || wps[len(wps)-1] != geom.Pt(7, 7) {
		t.Errorf("endpoints wrong: %v", wps)
	}
}

func TestFindPathDeterminism(t *testing.T) {
	// A symmetric configuration with many equal-cost routes.
	job := Job{
		Start: geom.Pt(0, 0),
		Goals: map[netgraph.VertexID]geom.Point{
			4: geom.Pt(5, 5),
			9: geom.Pt(-5, 5),
		},
	}
	first, goal, err := FindPath(context.Background(), job, field(t))
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	for i := 0; i < 25; i++ {
		wps, g, err := FindPath(context.Background(), job, field(t))
		if err != nil {
			t.Fatalf("FindPath run %d: %v", i, err)
		}
		if g != goal || !reflect.DeepEqual(wps, first) {
			t.Fatalf("run %d diverged: goal=%d wps=%v, want goal=%d wps=%v", i, g, wps, goal, first)
		}
	}
}

func TestFindPathPrefersLowestGoalID(t *testing.T) {
	// Two goals at the same distance and bend count: the lower vertex
	// identifier must win regardless of map iteration order.
	job := Job{
		Start: geom.Pt(0, 0),
		Goals: map[netgraph.VertexID]geom.Point{
			12: geom.Pt(4, 3),
			3:  geom.Pt(-4, 3),
		},
	}
	_, goal, err := FindPath(context.Background(), job, field(t))
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	if goal != 3 {
		t.Errorf("goal = %d, want 3 (lowest id among equal-cost goals)", goal)
	}
}

func TestFindPathTieBreakSmallestWaypoints(t *testing.T) {
	// Diagonal goals admit two single-bend routes of equal length. The
	// winner is the lexicographically smaller waypoint sequence, points
	// ordered by Y then X, not whichever direction expands first.
	cases := []struct {
		name string
		goal geom.Point
		want []geom.Point
	}{
		{
			name: "south-east goal bends at (2,0)",
			goal: geom.Pt(2, 2),
			want: []geom.Point{geom.Pt(0, 0), geom.Pt(2, 0), geom.Pt(2, 2)},
		},
		{
			name: "north-east goal bends at (0,-2)",
			goal: geom.Pt(2, -2),
			want: []geom.Point{geom.Pt(0, 0), geom.Pt(0, -2), geom.Pt(2, -2)},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			job := Job{
				Start: geom.Pt(0, 0),
				Goals: map[netgraph.VertexID]geom.Point{1: tc.goal},
			}
			wps, _, err := FindPath(context.Background(), job, field(t))
			if err != nil {
				t.Fatalf("FindPath: %v", err)
			}
			if !reflect.DeepEqual(wps, tc.want) {
				t.Errorf("waypoints = %v, want %v", wps, tc.want)
			}
		})
	}
}

func TestFindPathAvoidsObstacles(t *testing.T) {
	f := field(t)
	// A wall across x=2 with one opening at y=4.
	for y := -20; y <= 20; y++ {
		if y != 4 {
			f.Block(geom.Pt(2, y))
		}
	}
	job := Job{
		Start: geom.Pt(0, 0),
		Goals: map[netgraph.VertexID]geom.Point{1: geom.Pt(5, 0)},
	}
	wps, _, err := FindPath(context.Background(), job, f)
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	// Crossing x=2 anywhere but the opening would touch a blocked cell, so
	// checking every covered cell also proves the route used the opening.
	for _, w := range wps {
		if f.Blocked[w] {
			t.Fatalf("waypoint %v sits on a blocked cell (waypoints %v)", w, wps)
		}
	}
	for i := 1; i < len(wps); i++ {
		for _, c := range cellsBetween(wps[i-1], wps[i]) {
			if f.Blocked[c] {
				t.Fatalf("route crosses blocked cell %v (waypoints %v)", c, wps)
			}
		}
	}
}

func TestFindPathEnclosedGoal(t *testing.T) {
	f := field(t)
	goal := geom.Pt(10, 10)
	// Wall the goal in completely.
	for _, p := range []geom.Point{
		geom.Pt(9, 10), geom.Pt(11, 10), geom.Pt(10, 9), geom.Pt(10, 11),
	} {
		f.Block(p)
	}
	job := Job{
		Start: geom.Pt(0, 0),
		Goals: map[netgraph.VertexID]geom.Point{5: goal},
	}
	_, _, err := FindPath(context.Background(), job, f)
	if !errors.Is(err, ErrNoRoute) {
		t.Fatalf("enclosed goal: got %v, want ErrNoRoute", err)
	}
}

func TestFindPathBudgetExhaustion(t *testing.T) {
	f := field(t)
	f.Budget = 10
	job := Job{
		Start: geom.Pt(-20, -20),
		Goals: map[netgraph.VertexID]geom.Point{1: geom.Pt(20, 20)},
	}
	_, _, err := FindPath(context.Background(), job, f)
	if !errors.Is(err, ErrNoRoute) {
		t.Fatalf("exhausted budget: got %v, want ErrNoRoute", err)
	}
}

func TestFindPathCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	job := Job{
		Start: geom.Pt(0, 0),
		Goals: map[netgraph.VertexID]geom.Point{1: geom.Pt(15, 15)},
	}
	_, _, err := FindPath(ctx, job, field(t))
	if !errors.Is(err, ErrNoRoute) {
		t.Fatalf("cancelled search: got %v, want ErrNoRoute", err)
	}
}

func TestFindPathCoincidentStart(t *testing.T) {
	job := Job{
		Start: geom.Pt(3, 3),
		Goals: map[netgraph.VertexID]geom.Point{8: geom.Pt(3, 3), 9: geom.Pt(3, 3)},
	}
	wps, goal, err := FindPath(context.Background(), job, field(t))
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	if len(wps) != 1 || goal != 8 {
		t.Errorf("coincident start: wps=%v goal=%d, want single waypoint and goal 8", wps, goal)
	}
}

func TestFindPathNoGoals(t *testing.T) {
	_, _, err := FindPath(context.Background(), Job{Start: geom.Pt(0, 0)}, field(t))
	if !errors.Is(err, ErrNoGoals) {
		t.Fatalf("empty goal set: got %v, want ErrNoGoals", err)
	}
}

// cellsBetween enumerates the grid cells on the axis-aligned span a-b,
// endpoints excluded.
func cellsBetween(a, b geom.Point) []geom.Point {
	var out []geom.Point
	switch {
	case a.X == b.X:
		lo, hi := min(a.Y, b.Y), max(a.Y, b.Y)
		for y := lo + 1; y < hi; y++ {
			out = append(out, geom.Pt(a.X, y))
		}
	case a.Y == b.Y:
		lo, hi := min(a.X, b.X), max(a.X, b.X)
		for x := lo + 1; x < hi; x++ {
			out = append(out, geom.Pt(x, a.Y))
		}
	}
	return out
}
