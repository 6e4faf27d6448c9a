package geom

// Rotation is a quarter-turn count, counterclockwise, normalized to 0..3.
type Rotation int

// Quarter-turn rotations.
const (
	Rot0 Rotation = iota
	Rot90
	Rot180
	Rot270
)

// Normalize maps any quarter-turn count onto 0..3.
func (r Rotation) Normalize() Rotation {
	n := int(r) % 4
	if n < 0 {
		n += 4
	}
	return Rotation(n)
}

// Transform is a rigid grid transform: a counterclockwise rotation about
// Pivot followed by a translation. The zero value is the identity.
//
// Transforms are applied to selections during a grab: translation is the
// baseline gesture, rotation is the optional extension sharing the same
// commit pipeline.
type Transform struct {
	Delta Point    `json:"delta"`
	Rot   Rotation `json:"rot,omitempty"`
	Pivot Point    `json:"pivot,omitempty"`
}

// Translate returns a pure translation by (dx, dy).
func Translate(dx, dy int) Transform {
	return Transform{Delta: Point{dx, dy}}
}

// Rotate returns a pure rotation by r quarter turns about pivot.
func Rotate(r Rotation, pivot Point) Transform {
	return Transform{Rot: r.Normalize(), Pivot: pivot}
}

// IsIdentity reports whether applying t leaves every point unchanged.
func (t Transform) IsIdentity() bool {
	return t.Delta == (Point{}) && t.Rot.Normalize() == Rot0
}

// Apply maps p through the transform.
func (t Transform) Apply(p Point) Point {
	switch t.Rot.Normalize() {
	case Rot90:
		d := p.Sub(t.Pivot)
		p = t.Pivot.Add(Point{-d.Y, d.X})
	case Rot180:
		d := p.Sub(t.Pivot)
		p = t.Pivot.Add(Point{-d.X, -d.Y})
	case Rot270:
		d := p.Sub(t.Pivot)
		p = t.Pivot.Add(Point{d.Y, -d.X})
	}
	return p.Add(t.Delta)
}

// Inverse returns the transform that undoes t: rotating back about the
// moved pivot and translating by the negated delta maps every transformed
// point to its original position.
func (t Transform) Inverse() Transform {
	return Transform{
		Delta: Point{-t.Delta.X, -t.Delta.Y},
		Rot:   Rotation(4 - int(t.Rot.Normalize())).Normalize(),
		Pivot: t.Pivot.Add(t.Delta),
	}
}
