package netlink

import (
	"strings"
	"testing"

	"github.com/circed/circed/pkg/geom"
	"github.com/circed/circed/pkg/schematic"
)

func testModel() schematic.DrawModel {
	return schematic.DrawModel{
		Devices: []schematic.DeviceView{
			{Designator: "R1", Kind: "resistor", Params: "1k"},
			{Designator: "V1", Kind: "vsource", Params: "5"},
		},
		Ports: []schematic.PortView{
			{Pos: geom.Pt(0, 3), Designator: "R1", Port: "p", Net: "n1", Connected: true},
			{Pos: geom.Pt(0, -3), Designator: "R1", Port: "n", Net: "0", Connected: true},
			{Pos: geom.Pt(10, 3), Designator: "V1", Port: "p", Net: "n1", Connected: true},
			{Pos: geom.Pt(10, -3), Designator: "V1", Port: "n", Connected: false},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testModel(), Options{})

	for _, want := range []string{
		`graph nets {`,
		`"dev:R1" [shape=box`,
		`"dev:V1" [shape=box`,
		`"net:n1" [shape=ellipse`,
		`"net:0" [shape=doublecircle`,
		`"dev:R1" -- "net:n1" [label="p"];`,
		`"dev:R1" -- "net:0" [label="n"];`,
		`"dev:V1" -- "net:n1" [label="p"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}

	// The floating port must not produce an edge
	if strings.Contains(dot, `"dev:V1" -- "net:" `) || strings.Count(dot, `"dev:V1" -- `) != 1 {
		t.Errorf("unconnected port should not appear:\n%s", dot)
	}
}

func TestToDOTDetailed(t *testing.T) {
	plain := ToDOT(testModel(), Options{})
	if strings.Contains(plain, "resistor") {
		t.Error("plain labels should only carry the designator")
	}

	detailed := ToDOT(testModel(), Options{Detailed: true})
	if !strings.Contains(detailed, "R1\\nresistor\\n1k") {
		t.Errorf("detailed label missing kind and params:\n%s", detailed)
	}
}

func TestToDOTDeterministic(t *testing.T) {
	a := ToDOT(testModel(), Options{})
	for i := 0; i < 10; i++ {
		if b := ToDOT(testModel(), Options{}); a != b {
			t.Fatal("DOT output should be deterministic")
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="8pt" height="6pt" viewBox="0.00 0.00 150.50 90.25" xmlns="http://www.w3.org/2000/svg">body</svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 150.50 90.25" width="150" height="90"`) {
		t.Errorf("unexpected normalization: %s", out)
	}

	// SVG without a viewBox passes through untouched
	plain := []byte(`<svg>x</svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("missing viewBox should pass through")
	}
}
