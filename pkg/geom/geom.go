// Package geom provides the integer grid geometry shared by the schematic
// engine: grid points, boxes, and rigid transforms.
//
// All canvas coordinates are integer grid units. Wires run orthogonally, so
// distances are Manhattan distances and rotations are quarter turns. The
// types here are small values intended to be copied, not referenced.
package geom

import "fmt"

// Point is a position on the schematic grid.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point { return Point{X: x, Y: y} }

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p minus q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Manhattan returns the orthogonal grid distance between p and q.
func (p Point) Manhattan(q Point) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

// Less orders points by Y, then X. It is the canonical ordering used
// wherever a deterministic sweep over points is required.
func (p Point) Less(q Point) bool {
	if p.Y != q.Y {
		return p.Y < q.Y
	}
	return p.X < q.X
}

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Box is an axis-aligned rectangle on the grid, inclusive of both corners.
type Box struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// NewBox returns the box spanning a and b regardless of their order.
func NewBox(a, b Point) Box {
	return Box{
		Min: Point{min(a.X, b.X), min(a.Y, b.Y)},
		Max: Point{max(a.X, b.X), max(a.Y, b.Y)},
	}
}

// Contains reports whether p lies inside the box (corners included).
func (b Box) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Union returns the smallest box containing both b and o.
func (b Box) Union(o Box) Box {
	return Box{
		Min: Point{min(b.Min.X, o.Min.X), min(b.Min.Y, o.Min.Y)},
		Max: Point{max(b.Max.X, o.Max.X), max(b.Max.Y, o.Max.Y)},
	}
}

// Width returns the horizontal extent in grid cells.
func (b Box) Width() int { return b.Max.X - b.Min.X + 1 }

// Height returns the vertical extent in grid cells.
func (b Box) Height() int { return b.Max.Y - b.Min.Y + 1 }

// Area returns the number of grid cells covered by the box.
func (b Box) Area() int { return b.Width() * b.Height() }

// Expand grows the box by n cells on every side.
func (b Box) Expand(n int) Box {
	return Box{
		Min: Point{b.Min.X - n, b.Min.Y - n},
		Max: Point{b.Max.X + n, b.Max.Y + n},
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
