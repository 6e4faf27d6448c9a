package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/circed/circed/pkg/device"
	"github.com/circed/circed/pkg/geom"
	"github.com/circed/circed/pkg/schematic"
)

// testDocument builds a resistor across a source with both terminals wired.
func testDocument(t *testing.T) *schematic.Document {
	t.Helper()
	doc := schematic.New(schematic.Config{})

	if _, err := doc.PlaceDevice(device.Resistor, geom.Pt(0, 0)); err != nil {
		t.Fatal(err)
	}
	if _, err := doc.PlaceDevice(device.VoltageSource, geom.Pt(10, 0)); err != nil {
		t.Fatal(err)
	}

	doc.BeginWire(geom.Pt(0, 3))
	if err := doc.CommitWire(geom.Pt(10, 3)); err != nil {
		t.Fatal(err)
	}
	doc.EndWire()

	doc.BeginWire(geom.Pt(0, -3))
	if err := doc.CommitWire(geom.Pt(10, -3)); err != nil {
		t.Fatal(err)
	}
	doc.EndWire()

	return doc
}

func TestDocHandlerEndpoints(t *testing.T) {
	srv := httptest.NewServer(newDocHandler(testDocument(t)))
	defer srv.Close()

	t.Run("healthz", func(t *testing.T) {
		res, err := http.Get(srv.URL + "/healthz")
		if err != nil {
			t.Fatal(err)
		}
		defer res.Body.Close()
		if res.StatusCode != http.StatusOK {
			t.Errorf("status = %d", res.StatusCode)
		}
	})

	t.Run("model", func(t *testing.T) {
		res, err := http.Get(srv.URL + "/v1/model")
		if err != nil {
			t.Fatal(err)
		}
		defer res.Body.Close()

		var model schematic.DrawModel
		if err := json.NewDecoder(res.Body).Decode(&model); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(model.Devices) != 2 {
			t.Errorf("devices = %d, want 2", len(model.Devices))
		}
		if len(model.Ports) != 4 {
			t.Errorf("ports = %d, want 4", len(model.Ports))
		}
	})

	t.Run("nets", func(t *testing.T) {
		res, err := http.Get(srv.URL + "/v1/nets")
		if err != nil {
			t.Fatal(err)
		}
		defer res.Body.Close()

		var nets []schematic.Net
		if err := json.NewDecoder(res.Body).Decode(&nets); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(nets) != 2 {
			t.Errorf("nets = %d, want 2", len(nets))
		}
	})

	t.Run("netlist", func(t *testing.T) {
		res, err := http.Get(srv.URL + "/v1/netlist")
		if err != nil {
			t.Fatal(err)
		}
		defer res.Body.Close()

		body, err := io.ReadAll(res.Body)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(body), "R1") || !strings.Contains(string(body), "V1") {
			t.Errorf("netlist missing devices:\n%s", body)
		}
	})

	t.Run("snapshot round trips", func(t *testing.T) {
		res, err := http.Get(srv.URL + "/v1/snapshot")
		if err != nil {
			t.Fatal(err)
		}
		defer res.Body.Close()

		if _, err := schematic.Load(res.Body, schematic.Config{}); err != nil {
			t.Errorf("served snapshot should load cleanly: %v", err)
		}
	})

	t.Run("unknown route", func(t *testing.T) {
		res, err := http.Get(srv.URL + "/v1/nope")
		if err != nil {
			t.Fatal(err)
		}
		defer res.Body.Close()
		if res.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", res.StatusCode)
		}
	})
}
