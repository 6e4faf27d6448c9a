package device

import (
	"strings"
	"testing"

	"github.com/circed/circed/pkg/geom"
)

func TestLibraryShape(t *testing.T) {
	for _, typ := range Types() {
		if typ.Prefix == "" {
			t.Errorf("%s: empty prefix", typ.Kind)
		}
		if len(typ.Ports) == 0 {
			t.Errorf("%s: no ports", typ.Kind)
		}
		for _, p := range typ.Ports {
			if !typ.Bounds.Contains(p.Offset) {
				t.Errorf("%s: port %q at %v outside bounds %v", typ.Kind, p.Name, p.Offset, typ.Bounds)
			}
		}
		if len(typ.Glyph.Strokes) == 0 {
			t.Errorf("%s: no glyph strokes", typ.Kind)
		}
	}
}

func TestKindByNameRoundTrip(t *testing.T) {
	for _, typ := range Types() {
		k, ok := KindByName(typ.Kind.String())
		if !ok || k != typ.Kind {
			t.Errorf("KindByName(%q) = %v, %v", typ.Kind.String(), k, ok)
		}
	}
	if _, ok := KindByName("transistor"); ok {
		t.Error("unknown name must not resolve")
	}
}

func TestPortPositions(t *testing.T) {
	r := NewInstance(Resistor, geom.Pt(10, 10))

	top, ok := r.PortPosition("0")
	if !ok || top != geom.Pt(10, 13) {
		t.Errorf("port 0 at %v, want (10,13)", top)
	}
	bot, _ := r.PortPosition("1")
	if bot != geom.Pt(10, 7) {
		t.Errorf("port 1 at %v, want (10,7)", bot)
	}

	// A quarter turn swings the terminals onto the horizontal axis.
	r.Rot = geom.Rot90
	top, _ = r.PortPosition("0")
	bot, _ = r.PortPosition("1")
	if top.Y != 10 || bot.Y != 10 {
		t.Errorf("rotated ports not on the horizontal axis: %v %v", top, bot)
	}
	if top.Manhattan(bot) != 6 {
		t.Errorf("rotation must preserve port spacing, got %d", top.Manhattan(bot))
	}
}

func TestBoundsFollowRotation(t *testing.T) {
	m := NewInstance(NMOS, geom.Pt(0, 0))
	b0 := m.Bounds()
	if b0 != geom.NewBox(geom.Pt(-2, -3), geom.Pt(2, 3)) {
		t.Fatalf("unrotated bounds %v", b0)
	}
	m.Rot = geom.Rot90
	b90 := m.Bounds()
	if b90.Width() != b0.Height() || b90.Height() != b0.Width() {
		t.Errorf("rotated bounds %v should swap extents of %v", b90, b0)
	}
	if got := len(m.Footprint()); got != b90.Area() {
		t.Errorf("footprint covers %d cells, want %d", got, b90.Area())
	}
}

func TestSpiceLine(t *testing.T) {
	nets := func(names ...string) func(string) string {
		return func(port string) string {
			i := 0
			if port != "0" {
				i = 1
			}
			if port == "2" {
				i = 2
			}
			if port == "3" {
				i = 3
			}
			return names[i]
		}
	}

	r := NewInstance(Resistor, geom.Pt(0, 0))
	r.Designator = "R1"
	if got := r.SpiceLine(nets("n1", "0")); got != "R1 n1 0 1k" {
		t.Errorf("resistor line = %q", got)
	}

	m := NewInstance(NMOS, geom.Pt(0, 0))
	m.Designator = "M1"
	if got := m.SpiceLine(nets("d", "g", "s", "b")); got != "M1 d g s b MOSN" {
		t.Errorf("nmos line = %q", got)
	}

	p := NewInstance(PMOS, geom.Pt(0, 0))
	p.Designator = "M2"
	if got := p.SpiceLine(nets("d", "g", "s", "b")); !strings.HasSuffix(got, "MOSP") {
		t.Errorf("pmos line = %q", got)
	}

	g := NewInstance(Ground, geom.Pt(0, 0))
	g.Designator = "GND1"
	if got := g.SpiceLine(nets("0", "0")); got != "" {
		t.Errorf("ground must emit no line, got %q", got)
	}
}

func TestSortInstances(t *testing.T) {
	a := NewInstance(Resistor, geom.Pt(0, 0))
	a.Designator = "R2"
	b := NewInstance(Resistor, geom.Pt(1, 0))
	b.Designator = "R1"
	devs := []*Instance{a, b}
	SortInstances(devs)
	if devs[0].Designator != "R1" {
		t.Errorf("order = %s, %s", devs[0].Designator, devs[1].Designator)
	}
}
