package schematic

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/circed/circed/pkg/device"
	"github.com/circed/circed/pkg/geom"
)

func TestSnapshotRoundTrip(t *testing.T) {
	d := divider(t)
	d.SetLabel(geom.Pt(0, 3), "vdd")

	var buf bytes.Buffer
	if err := d.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(bytes.NewReader(buf.Bytes()), testConfig())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got.ID() != d.ID() {
		t.Errorf("document id changed: %s -> %s", d.ID(), got.ID())
	}
	if !reflect.DeepEqual(got.graph.Vertices(), d.graph.Vertices()) {
		t.Error("vertices did not round trip")
	}
	if !reflect.DeepEqual(got.graph.Edges(), d.graph.Edges()) {
		t.Error("edges did not round trip")
	}
	if !reflect.DeepEqual(got.Labels(), d.Labels()) {
		t.Error("labels did not round trip")
	}
	if got.Netlist() != d.Netlist() {
		t.Errorf("netlist changed across round trip:\n%s\nvs\n%s", got.Netlist(), d.Netlist())
	}

	// History does not survive persistence.
	if got.CanUndo() {
		t.Error("loaded document must start with an empty history")
	}

	// Designator counters resume past snapshot contents.
	r2, err := got.PlaceDevice(device.Resistor, geom.Pt(-20, 0))
	if err != nil {
		t.Fatalf("PlaceDevice after load: %v", err)
	}
	if r2.Designator != "R2" {
		t.Errorf("post-load designator = %s, want R2", r2.Designator)
	}
}

func TestSnapshotRejectsStructuralDefects(t *testing.T) {
	valid := func() string {
		d := divider(t)
		var buf bytes.Buffer
		if err := d.Save(&buf); err != nil {
			t.Fatalf("Save: %v", err)
		}
		return buf.String()
	}()

	cases := []struct {
		name string
		mut  func(string) string
	}{
		{"truncated json", func(s string) string { return s[:len(s)/2] }},
		{"dangling edge endpoint", func(s string) string {
			return strings.Replace(s, `"a": 0`, `"a": 99`, 1)
		}},
		{"self loop", func(s string) string {
			return strings.Replace(s, `"b": 2`, `"b": 0`, 1)
		}},
		{"port vertex without device ref", func(s string) string {
			return strings.Replace(s, `"device": "R1"`, `"device": ""`, 1)
		}},
		{"unknown device kind", func(s string) string {
			return strings.Replace(s, `"kind": "resistor"`, `"kind": "varistor"`, 1)
		}},
		{"duplicate designator", func(s string) string {
			return strings.Replace(s, `"designator": "V1"`, `"designator": "R1"`, 1)
		}},
		{"malformed designator", func(s string) string {
			return strings.Replace(s, `"designator": "V1"`, `"designator": "v1"`, 1)
		}},
		{"port position mismatch", func(s string) string {
			// Move R1 without moving its port vertices.
			return strings.Replace(s, `"designator": "R1",
      "params": "1k",
      "pos": {
        "x": 0,
        "y": 0
      }`, `"designator": "R1",
      "params": "1k",
      "pos": {
        "x": 1,
        "y": 0
      }`, 1)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mutated := tc.mut(valid)
			if mutated == valid {
				t.Fatal("mutation did not change the snapshot")
			}
			_, err := Load(strings.NewReader(mutated), testConfig())
			if !errors.Is(err, ErrLoadInvalid) {
				t.Fatalf("got %v, want ErrLoadInvalid", err)
			}
		})
	}
}

func TestSnapshotPathValidation(t *testing.T) {
	d := divider(t)
	if err := d.SaveFile(""); err == nil {
		t.Error("empty path must be rejected")
	}
	if err := d.SaveFile("a/../../escape.json"); err == nil {
		t.Error("traversing path must be rejected")
	}
	if _, err := LoadFile("snap\x00shot.json", testConfig()); err == nil {
		t.Error("path with null byte must be rejected")
	}
	if err := d.WriteNetlist(""); err == nil {
		t.Error("empty netlist path must be rejected")
	}
}
