package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/circed/circed/pkg/device"
	"github.com/circed/circed/pkg/geom"
	"github.com/circed/circed/pkg/grab"
	"github.com/circed/circed/pkg/netgraph"
	"github.com/circed/circed/pkg/schematic"
)

// Canvas styles
var (
	styleCursor   = lipgloss.NewStyle().Reverse(true)
	styleWire     = lipgloss.NewStyle().Foreground(colorBlue)
	stylePort     = lipgloss.NewStyle().Foreground(colorCyan)
	styleOpenPort = lipgloss.NewStyle().Foreground(colorRed)
	styleBody     = lipgloss.NewStyle().Foreground(colorWhite)
	styleSelected = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	stylePreview  = lipgloss.NewStyle().Foreground(colorDim)
	styleStatus   = lipgloss.NewStyle().Foreground(colorGray)
	styleMode     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
)

type editorMode int

const (
	modeNormal editorMode = iota
	modeWire
	modeGrab
	modeLabel
)

func (m editorMode) String() string {
	switch m {
	case modeWire:
		return "WIRE"
	case modeGrab:
		return "GRAB"
	case modeLabel:
		return "LABEL"
	default:
		return "EDIT"
	}
}

// planMsg carries an async routing proposal back into the event loop.
type planMsg struct {
	res grab.Result
	err error
	tr  geom.Transform
}

// placeKeys maps placement keys to device kinds.
var placeKeys = map[string]device.Kind{
	"R": device.Resistor,
	"C": device.Capacitor,
	"L": device.Inductor,
	"N": device.NMOS,
	"P": device.PMOS,
	"G": device.Ground,
	"V": device.VoltageSource,
	"I": device.CurrentSource,
}

// editorModel is the bubbletea model for the schematic editor. The model
// goroutine owns the document; the async router only ever proposes.
type editorModel struct {
	doc   *schematic.Document
	async *grab.AsyncRouter
	path  string

	cursor   geom.Point
	mode     editorMode
	selected map[netgraph.VertexID]bool

	// grab state
	grabOrigin geom.Point
	grabRot    geom.Rotation
	proposal   *grab.Result
	proposalTr geom.Transform
	plans      chan planMsg

	labelBuf string

	width, height int
	status        string
	saveErr       error
}

func newEditorModel(doc *schematic.Document, path string) *editorModel {
	return &editorModel{
		doc:      doc,
		async:    grab.NewAsyncRouter(doc.Router()),
		path:     path,
		selected: make(map[netgraph.VertexID]bool),
		plans:    make(chan planMsg, 8),
		width:    80,
		height:   24,
	}
}

func (m *editorModel) close() { m.async.Close() }

func (m *editorModel) Init() tea.Cmd { return nil }

// waitForPlan forwards the next async proposal as a message.
func (m *editorModel) waitForPlan() tea.Cmd {
	return func() tea.Msg { return <-m.plans }
}

func (m *editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case planMsg:
		// Stale proposals carry an outdated transform; drop them.
		if m.mode == modeGrab && msg.tr == m.grabTransform() {
			if msg.err != nil {
				m.status = fmt.Sprintf("routing error: %v", msg.err)
			} else {
				res := msg.res
				m.proposal = &res
				m.proposalTr = msg.tr
				if n := len(res.Failed); n > 0 {
					m.status = fmt.Sprintf("%d nets cannot be rerouted", n)
				} else {
					m.status = "routed"
				}
			}
		}
		return m, m.waitForPlan()

	case tea.KeyMsg:
		switch m.mode {
		case modeWire:
			return m.updateWire(msg)
		case modeGrab:
			return m.updateGrab(msg)
		case modeLabel:
			return m.updateLabel(msg)
		default:
			return m.updateNormal(msg)
		}
	}
	return m, nil
}

func (m *editorModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if d, ok := moveDelta(key); ok {
		m.cursor = m.cursor.Add(d)
		return m, nil
	}
	if kind, ok := placeKeys[key]; ok {
		inst, err := m.doc.PlaceDevice(kind, m.cursor)
		if err != nil {
			m.status = err.Error()
		} else {
			m.status = "placed " + inst.Designator
		}
		return m, nil
	}

	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.toggleSelect()
	case "d":
		m.selectDeviceUnderCursor()
	case "w":
		m.doc.BeginWire(m.cursor)
		m.mode = modeWire
		m.status = "wire from " + m.cursor.String()
	case "m":
		if len(m.selected) == 0 {
			m.status = "nothing selected"
			return m, nil
		}
		m.mode = modeGrab
		m.grabOrigin = m.cursor
		m.grabRot = 0
		m.proposal = nil
		m.status = "grab: arrows drag, t rotates, enter commits"
	case "x":
		if err := m.doc.DeleteSelection(m.selected); err != nil {
			m.status = err.Error()
		} else {
			m.selected = make(map[netgraph.VertexID]bool)
			m.status = "deleted wiring"
		}
	case "X":
		m.removeDeviceUnderCursor()
	case "e":
		m.mode = modeLabel
		m.labelBuf = ""
		m.status = "label: type a net name, enter applies"
	case "u":
		m.async.Cancel()
		if ok, err := m.doc.Undo(); err != nil {
			m.status = err.Error()
		} else if ok {
			m.status = "undo"
		} else {
			m.status = "nothing to undo"
		}
	case "ctrl+r":
		m.async.Cancel()
		if ok, err := m.doc.Redo(); err != nil {
			m.status = err.Error()
		} else if ok {
			m.status = "redo"
		} else {
			m.status = "nothing to redo"
		}
	case "s":
		m.save()
	}
	return m, nil
}

func (m *editorModel) updateWire(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if d, ok := moveDelta(key); ok {
		m.cursor = m.cursor.Add(d)
		return m, nil
	}
	switch key {
	case "esc":
		m.doc.EndWire()
		m.mode = modeNormal
		m.status = ""
	case "w", "enter":
		if err := m.doc.CommitWire(m.cursor); err != nil {
			m.status = err.Error()
		} else {
			m.status = "wired to " + m.cursor.String()
		}
	case "q", "ctrl+c":
		m.doc.EndWire()
		return m, tea.Quit
	}
	return m, nil
}

func (m *editorModel) updateGrab(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if d, ok := moveDelta(key); ok {
		m.cursor = m.cursor.Add(d)
		return m, m.submitPlan()
	}
	switch key {
	case "t":
		m.grabRot = (m.grabRot + 1).Normalize()
		return m, m.submitPlan()
	case "esc":
		m.async.Cancel()
		m.leaveGrab("grab aborted")
	case "enter":
		m.commitGrab()
	case "q", "ctrl+c":
		m.async.Cancel()
		return m, tea.Quit
	}
	return m, nil
}

func (m *editorModel) updateLabel(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.status = ""
	case "enter":
		if err := m.doc.SetLabel(m.cursor, m.labelBuf); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.mode = modeNormal
		m.status = "labelled " + m.labelBuf
	case "backspace":
		if len(m.labelBuf) > 0 {
			m.labelBuf = m.labelBuf[:len(m.labelBuf)-1]
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.labelBuf += string(msg.Runes)
		}
	}
	return m, nil
}

// grabTransform is the rigid transform of the current drag gesture.
func (m *editorModel) grabTransform() geom.Transform {
	return geom.Transform{
		Delta: m.cursor.Sub(m.grabOrigin),
		Rot:   m.grabRot,
		Pivot: m.grabOrigin,
	}
}

// submitPlan queues the current gesture on the async router.
func (m *editorModel) submitPlan() tea.Cmd {
	tr := m.grabTransform()
	m.proposal = nil
	m.status = "routing..."
	m.async.Submit(context.Background(), m.selected, tr, func(res grab.Result, err error) {
		m.plans <- planMsg{res: res, err: err, tr: tr}
	})
	return m.waitForPlan()
}

// commitGrab applies the drag. A fresh proposal is pushed directly;
// otherwise the move is planned synchronously.
func (m *editorModel) commitGrab() {
	tr := m.grabTransform()
	m.async.Cancel()

	if tr.IsIdentity() {
		m.leaveGrab("grab aborted")
		return
	}

	if m.proposal != nil && m.proposalTr == tr {
		if err := m.doc.ApplyGrab(*m.proposal, tr); err != nil {
			m.leaveGrab(err.Error())
			return
		}
		m.finishGrab(m.proposal.Failed)
		return
	}

	failed, err := m.doc.MoveSelection(context.Background(), m.selected, tr)
	if err != nil {
		m.leaveGrab(err.Error())
		return
	}
	m.finishGrab(failed)
}

func (m *editorModel) finishGrab(failed []grab.FailedRoute) {
	if len(failed) > 0 {
		m.leaveGrab(fmt.Sprintf("moved; %d nets left floating", len(failed)))
	} else {
		m.leaveGrab("moved")
	}
}

func (m *editorModel) leaveGrab(status string) {
	m.mode = modeNormal
	m.proposal = nil
	m.selected = make(map[netgraph.VertexID]bool)
	m.status = status
}

func (m *editorModel) toggleSelect() {
	ids := m.doc.Graph().VerticesAt(m.cursor)
	if len(ids) == 0 {
		m.status = "nothing here"
		return
	}
	on := false
	for _, id := range ids {
		if !m.selected[id] {
			on = true
			break
		}
	}
	for _, id := range ids {
		set := []netgraph.VertexID{id}
		if v, ok := m.doc.Graph().Vertex(id); ok && v.Role == netgraph.RolePort {
			// A device moves whole; touching one port takes them all.
			if sel, err := m.doc.SelectDevice(v.Device); err == nil {
				set = set[:0]
				for pid := range sel {
					set = append(set, pid)
				}
			}
		}
		for _, sid := range set {
			if on {
				m.selected[sid] = true
			} else {
				delete(m.selected, sid)
			}
		}
	}
	m.status = fmt.Sprintf("%d selected", len(m.selected))
}

func (m *editorModel) selectDeviceUnderCursor() {
	desg, ok := m.deviceAtCursor()
	if !ok {
		m.status = "no device here"
		return
	}
	sel, err := m.doc.SelectDevice(desg)
	if err != nil {
		m.status = err.Error()
		return
	}
	for id := range sel {
		m.selected[id] = true
	}
	m.status = "selected " + desg
}

func (m *editorModel) removeDeviceUnderCursor() {
	desg, ok := m.deviceAtCursor()
	if !ok {
		m.status = "no device here"
		return
	}
	if err := m.doc.RemoveDevice(desg); err != nil {
		m.status = err.Error()
		return
	}
	m.selected = make(map[netgraph.VertexID]bool)
	m.status = "removed " + desg
}

func (m *editorModel) deviceAtCursor() (string, bool) {
	for _, inst := range m.doc.Devices() {
		if inst.Bounds().Contains(m.cursor) {
			return inst.Designator, true
		}
	}
	return "", false
}

func (m *editorModel) save() {
	if m.path == "" {
		m.status = "no save path configured"
		return
	}
	if err := m.doc.SaveFile(m.path); err != nil {
		m.saveErr = err
		m.status = err.Error()
		return
	}
	m.status = "saved " + m.path
}

// =============================================================================
// View
// =============================================================================

type cell struct {
	r     rune
	style lipgloss.Style
}

func (m *editorModel) View() string {
	canvasH := m.height - 2
	if canvasH < 4 {
		canvasH = 4
	}
	frame := m.viewFrame(m.width, canvasH)
	cells := m.paint(frame)

	var b strings.Builder
	for y := frame.Max.Y; y >= frame.Min.Y; y-- {
		for x := frame.Min.X; x <= frame.Max.X; x++ {
			if c, ok := cells[geom.Pt(x, y)]; ok {
				b.WriteString(c.style.Render(string(c.r)))
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	b.WriteString(m.statusLine())
	return b.String()
}

// viewFrame centers the viewport on the cursor.
func (m *editorModel) viewFrame(w, h int) geom.Box {
	return geom.Box{
		Min: geom.Pt(m.cursor.X-w/2, m.cursor.Y-h/2),
		Max: geom.Pt(m.cursor.X+(w-1)/2, m.cursor.Y+(h-1)/2),
	}
}

func (m *editorModel) paint(frame geom.Box) map[geom.Point]cell {
	cells := make(map[geom.Point]cell)
	model := m.doc.DrawModel()

	// device bodies, designators on top of them
	for _, inst := range m.doc.Devices() {
		bounds := inst.Bounds()
		for y := bounds.Min.Y; y <= bounds.Max.Y; y++ {
			for x := bounds.Min.X; x <= bounds.Max.X; x++ {
				cells[geom.Pt(x, y)] = cell{'·', styleBody}
			}
		}
		for i, r := range inst.Designator {
			cells[geom.Pt(bounds.Min.X+i, bounds.Max.Y)] = cell{r, styleBody}
		}
	}

	for _, wv := range model.Wires {
		m.paintSegment(cells, wv.A, wv.B, styleWire)
	}

	// wire preview
	if m.mode == modeWire {
		path := m.doc.WirePreview(m.cursor)
		for i := 0; i+1 < len(path); i++ {
			m.paintSegment(cells, path[i], path[i+1], stylePreview)
		}
	}

	for _, p := range model.Ports {
		st := stylePort
		r := '●'
		if !p.Connected {
			st, r = styleOpenPort, '○'
		}
		cells[p.Pos] = cell{r, st}
	}

	for _, l := range model.Labels {
		for i, r := range l.Text {
			cells[geom.Pt(l.Pos.X+i, l.Pos.Y)] = cell{r, styleStatus}
		}
	}

	// selection highlight
	for id := range m.selected {
		if v, ok := m.doc.Graph().Vertex(id); ok {
			c := cells[v.Pos]
			if c.r == 0 {
				c.r = '◆'
			}
			cells[v.Pos] = cell{c.r, styleSelected}
		}
	}

	// cursor on top
	cc := cells[m.cursor]
	if cc.r == 0 {
		cc.r = '+'
	}
	cells[m.cursor] = cell{cc.r, styleCursor}

	return cells
}

func (m *editorModel) paintSegment(cells map[geom.Point]cell, a, b geom.Point, st lipgloss.Style) {
	if a.X == b.X {
		lo, hi := min(a.Y, b.Y), max(a.Y, b.Y)
		for y := lo; y <= hi; y++ {
			p := geom.Pt(a.X, y)
			r := '│'
			if ex, ok := cells[p]; ok && ex.r == '─' {
				r = '┼'
			}
			cells[p] = cell{r, st}
		}
		return
	}
	lo, hi := min(a.X, b.X), max(a.X, b.X)
	for x := lo; x <= hi; x++ {
		p := geom.Pt(x, a.Y)
		r := '─'
		if ex, ok := cells[p]; ok && ex.r == '│' {
			r = '┼'
		}
		cells[p] = cell{r, st}
	}
}

func (m *editorModel) statusLine() string {
	left := styleMode.Render(m.mode.String()) + " " + styleStatus.Render(m.cursor.String())
	if m.mode == modeLabel {
		left += " " + StyleHighlight.Render(m.labelBuf+"_")
	}
	msg := m.status
	if msg == "" && m.doc.CanUndo() {
		msg = "undo: " + m.doc.UndoLabel()
	}
	return left + "  " + StyleDim.Render(msg)
}

func moveDelta(key string) (geom.Point, bool) {
	switch key {
	case "up", "k":
		return geom.Pt(0, 1), true
	case "down", "j":
		return geom.Pt(0, -1), true
	case "left", "h":
		return geom.Pt(-1, 0), true
	case "right", "l":
		return geom.Pt(1, 0), true
	}
	return geom.Point{}, false
}
