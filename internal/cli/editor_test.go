package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/circed/circed/pkg/geom"
	"github.com/circed/circed/pkg/schematic"
)

func newTestEditor(t *testing.T) *editorModel {
	t.Helper()
	m := newEditorModel(schematic.New(schematic.Config{}), "")
	t.Cleanup(m.close)
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *editorModel, keys ...string) {
	for _, k := range keys {
		m.Update(key(k))
	}
}

func TestEditorCursorMovement(t *testing.T) {
	m := newTestEditor(t)

	press(m, "right", "right", "up", "k", "h")
	if m.cursor != geom.Pt(1, 2) {
		t.Errorf("cursor = %v, want (1,2)", m.cursor)
	}
}

func TestEditorPlaceDevice(t *testing.T) {
	m := newTestEditor(t)

	press(m, "R")
	if len(m.doc.Devices()) != 1 {
		t.Fatalf("devices = %d, want 1", len(m.doc.Devices()))
	}
	if m.doc.Devices()[0].Designator != "R1" {
		t.Errorf("designator = %s", m.doc.Devices()[0].Designator)
	}
	if !strings.Contains(m.status, "R1") {
		t.Errorf("status should mention the placement: %q", m.status)
	}
}

func TestEditorWireMode(t *testing.T) {
	m := newTestEditor(t)

	press(m, "w")
	if m.mode != modeWire {
		t.Fatal("w should enter wire mode")
	}

	press(m, "right", "right", "right", "enter")
	if m.doc.Graph().VertexCount() != 2 {
		t.Errorf("vertices = %d, want 2", m.doc.Graph().VertexCount())
	}

	press(m, "esc")
	if m.mode != modeNormal {
		t.Error("esc should leave wire mode")
	}
	if m.doc.Wiring() {
		t.Error("esc should end the wire tool")
	}
}

func TestEditorSelectAndDelete(t *testing.T) {
	m := newTestEditor(t)

	// draw a short wire, then select and delete its endpoint
	press(m, "w", "right", "right", "enter", "esc")
	press(m, " ")
	if len(m.selected) != 1 {
		t.Fatalf("selected = %d, want 1", len(m.selected))
	}

	press(m, "x")
	if len(m.selected) != 0 {
		t.Error("delete should clear the selection")
	}
	// the unselected endpoint stays behind as an isolated point
	if m.doc.Graph().VertexCount() != 1 {
		t.Errorf("vertices = %d, want 1", m.doc.Graph().VertexCount())
	}
}

func TestEditorPortSelectTakesWholeDevice(t *testing.T) {
	m := newTestEditor(t)

	press(m, "R")
	// stand on the top port at (0,3)
	press(m, "up", "up", "up")
	press(m, " ")

	if len(m.selected) != 2 {
		t.Fatalf("selected = %d, want both ports of R1", len(m.selected))
	}

	// toggling the same port off releases the whole device
	press(m, " ")
	if len(m.selected) != 0 {
		t.Errorf("selected = %d after toggle off, want 0", len(m.selected))
	}
}

func TestEditorGrabCommitSynchronous(t *testing.T) {
	m := newTestEditor(t)

	press(m, "w", "right", "right", "enter", "esc")
	press(m, " ", "m")
	if m.mode != modeGrab {
		t.Fatal("m should enter grab mode")
	}

	press(m, "up", "up", "enter")
	if m.mode != modeNormal {
		t.Fatal("enter should commit the grab")
	}
	if len(m.doc.Graph().VerticesAt(geom.Pt(2, 2))) != 1 {
		t.Error("selected endpoint should have moved to (2,2)")
	}
	if !m.doc.CanUndo() {
		t.Error("grab should be undoable")
	}
}

func TestEditorGrabAbort(t *testing.T) {
	m := newTestEditor(t)

	press(m, "w", "right", "right", "enter", "esc")
	press(m, " ", "m", "up", "esc")
	if m.mode != modeNormal {
		t.Fatal("esc should abort the grab")
	}
	if len(m.doc.Graph().VerticesAt(geom.Pt(2, 0))) != 1 {
		t.Error("aborted grab must not move anything")
	}
}

func TestEditorLabelMode(t *testing.T) {
	m := newTestEditor(t)

	press(m, "e")
	if m.mode != modeLabel {
		t.Fatal("e should enter label mode")
	}
	press(m, "v", "d", "d", "backspace", "enter")
	labels := m.doc.Labels()
	if len(labels) != 1 || labels[0].Text != "vd" {
		t.Errorf("labels = %+v, want one label %q", labels, "vd")
	}
}

func TestEditorUndoRedoKeys(t *testing.T) {
	m := newTestEditor(t)

	press(m, "R", "u")
	if len(m.doc.Devices()) != 0 {
		t.Error("u should undo the placement")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if len(m.doc.Devices()) != 1 {
		t.Error("ctrl+r should redo the placement")
	}
}

func TestEditorRemoveDevice(t *testing.T) {
	m := newTestEditor(t)

	press(m, "R", "X")
	if len(m.doc.Devices()) != 0 {
		t.Error("X should remove the device under the cursor")
	}
}

func TestEditorViewRendersStatus(t *testing.T) {
	m := newTestEditor(t)
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 12})

	press(m, "R")
	view := m.View()
	if !strings.Contains(view, "EDIT") {
		t.Error("view should include the mode")
	}
	if !strings.Contains(view, "R1") {
		t.Error("view should include the designator")
	}
}
