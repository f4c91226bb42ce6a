package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"qcompose/internal/circuit"
	"qcompose/internal/config"
	"qcompose/internal/export"
	"qcompose/internal/grid"
	"qcompose/internal/placement"
	"qcompose/internal/scene"
	"qcompose/internal/sim"
	"qcompose/internal/tutorial"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusMenu
	focusAngle
	focusOracle
)

type panelKind int

const (
	panelNone panelKind = iota
	panelExport
	panelResults
)

// runPurpose says what a finished simulation is checked against.
type runPurpose int

const (
	runPlain runPurpose = iota
	runDeutschJozsa
	runSuperdense
)

// runResultMsg carries a finished backend run back to Update.
type runResultMsg struct {
	purpose runPurpose
	backend string
	res     sim.Result
	err     error
}

// frameCache holds the last rendered canvas. The placement engine marks it
// dirty whenever the registry changes.
type frameCache struct {
	dirty  bool
	key    frameKey
	canvas string
}

type frameKey struct {
	cursor   circuit.Cell
	dragging bool
	drag     grid.Point
}

func (c *frameCache) invalidate() { c.dirty = true }

// Model represents the TUI application state.
type Model struct {
	cfg     *config.Config
	log     zerolog.Logger
	engine  *placement.Engine
	backend sim.Backend
	local   *sim.Local // Bloch vectors are always computed locally
	cache   *frameCache

	width     int
	height    int
	cursor    circuit.Cell
	focus     focus
	statusMsg string
	statusErr bool

	// Menu state
	menuItem   int
	oracleItem int

	angleInput textinput.Model

	panel      viewport.Model
	panelKind  panelKind
	panelTitle string
	format     export.Format
	running    bool

	// Tutorial state; tutorialIdx is -1 when none is active.
	tutorialIdx int
	session     *tutorial.Session
	message     string

	help help.Model
}

func newModel(cfg *config.Config, backend sim.Backend, log zerolog.Logger) Model {
	ti := textinput.New()
	ti.Placeholder = "pi/2"
	ti.Prompt = "θ = "
	ti.CharLimit = 32
	ti.Width = 20

	vp := viewport.New(60, panelHeight)
	vp.KeyMap = viewport.KeyMap{PageUp: keys.PageUp, PageDown: keys.PageDown}

	layout := cfg.Layout()
	circ := circuit.New(cfg.Qubits, layout.MaxQubits)
	cache := &frameCache{dirty: true}
	engine := placement.New(layout, circ, log)
	engine.OnRedraw(cache.invalidate)

	return Model{
		cfg:         cfg,
		log:         log,
		engine:      engine,
		backend:     backend,
		local:       sim.NewLocal(cfg.Seed),
		cache:       cache,
		focus:       focusCircuit,
		angleInput:  ti,
		panel:       vp,
		format:      export.FormatQiskit,
		tutorialIdx: -1,
		help:        help.New(),
	}
}

func (m *Model) setStatus(format string, args ...any) {
	m.statusMsg = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.statusMsg = err.Error()
	m.statusErr = true
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.panel.Width = max(msg.Width-4, 20)
		m.help.Width = msg.Width

	case tea.MouseMsg:
		m.handleMouse(msg)

	case runResultMsg:
		m.running = false
		m.handleRunResult(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.focus {
		case focusCircuit:
			if cmd := m.handleCircuitKey(msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		case focusMenu:
			m.handleMenuKey(msg)
		case focusOracle:
			m.handleOracleKey(msg)
		case focusAngle:
			if cmd := m.handleAngleKey(msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// ──────────────────────────── Mouse ────────────────────────────

// toCanvas converts a terminal position to canvas coordinates.
func toCanvas(x, y int) (float64, float64) {
	return float64(x - canvasLeft), float64(y - canvasTop)
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.focus != focusCircuit {
		return
	}
	x, y := toCanvas(msg.X, msg.Y)
	e := m.engine

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if it, ok := paletteHit(e.Layout(), x, y); ok {
			e.BeginFromPalette(circuit.NewGate(it.kind), x, y)
			m.setStatus("dragging %s", it.name)
			return
		}
		geo := e.Geometry()
		if !geo.Bounds().Contains(x, y) {
			return
		}
		cell := geo.CellAt(x, y)
		m.cursor = geo.Clamp(cell)
		if s := e.Pick(cell, x, y); s != nil {
			m.setStatus("dragging %s from q[%d] col %d", s.Gate().Kind.Label(), cell.Row, cell.Col)
		}

	case tea.MouseActionMotion:
		if s := e.Dragging(); s != nil {
			s.MoveTo(x, y)
		}

	case tea.MouseActionRelease:
		s := e.Dragging()
		if s == nil {
			return
		}
		s.MoveTo(x, y)
		out := e.Drop(s)
		m.reportDrop(out)
	}
}

// reportDrop turns a drop outcome into the status line.
func (m *Model) reportDrop(out placement.Outcome) {
	name := out.Gate.Kind.Label()
	switch out.Action {
	case placement.Placed:
		m.cursor = *out.To
		m.setStatus("%s placed on q[%d] col %d", name, out.To.Row, out.To.Col)
	case placement.Swapped:
		m.cursor = *out.To
		m.setStatus("%s swapped with %s", name, out.Swapped.Kind.Label())
	case placement.Trashed:
		m.setStatus("%s deleted", name)
	case placement.PaletteReturn:
		m.setStatus("%s returned to palette", name)
	case placement.Reverted, placement.Discarded:
		m.statusMsg = fmt.Sprintf("%s not placed: %s", name, out.Reason)
		m.statusErr = true
	}
}

// dropAtCursor places a fresh gate on the cursor cell through the same
// rules a mouse drop uses.
func (m *Model) dropAtCursor(kind circuit.Kind) {
	e := m.engine
	o := e.Geometry().CellOrigin(m.cursor)
	s := e.BeginFromPalette(circuit.NewGate(kind), o.X, o.Y)
	m.reportDrop(e.Drop(s))
}

// ──────────────────────────── Keys ────────────────────────────

func (m *Model) handleCircuitKey(msg tea.KeyMsg) tea.Cmd {
	e := m.engine
	geo := e.Geometry()

	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit

	case key.Matches(msg, keys.Up):
		m.cursor.Row--
	case key.Matches(msg, keys.Down):
		m.cursor.Row++
	case key.Matches(msg, keys.Left):
		m.cursor.Col--
	case key.Matches(msg, keys.Right):
		m.cursor.Col++

	case key.Matches(msg, keys.AddQubit):
		if err := e.AddQubit(); err != nil {
			m.setError(err)
		} else {
			m.setStatus("%d qubits", e.Circuit().Qubits())
		}
	case key.Matches(msg, keys.RemoveQubit):
		if err := e.RemoveQubit(); err != nil {
			m.setError(err)
		} else {
			m.setStatus("%d qubits", e.Circuit().Qubits())
		}

	case key.Matches(msg, keys.Clear):
		e.Clear(false)
		m.panelKind = panelNone
		m.setStatus("circuit cleared")

	case key.Matches(msg, keys.Delete):
		if err := e.Delete(m.cursor); err != nil {
			m.setError(err)
		}

	case key.Matches(msg, keys.Palette):
		m.focus = focusMenu

	case key.Matches(msg, keys.Angle):
		g := e.Circuit().Registry().OccupantAt(m.cursor)
		if g == nil || !g.Kind.IsRotation() {
			m.setError(fmt.Errorf("no rotation at q[%d] col %d: %w", m.cursor.Row, m.cursor.Col, circuit.ErrNotRotation))
			break
		}
		m.angleInput.SetValue("")
		if a, ok := g.Angle(); ok {
			m.angleInput.SetValue(circuit.FormatAngle(a))
		}
		m.focus = focusAngle
		m.cursor = geo.Clamp(m.cursor)
		return m.angleInput.Focus()

	case key.Matches(msg, keys.Export):
		if m.panelKind == panelExport {
			m.panelKind = panelNone
			break
		}
		m.showExport()

	case key.Matches(msg, keys.Format):
		if m.format == export.FormatQiskit {
			m.format = export.FormatQASM
		} else {
			m.format = export.FormatQiskit
		}
		if m.panelKind == panelExport {
			m.showExport()
		}

	case key.Matches(msg, keys.Save):
		m.saveExport()

	case key.Matches(msg, keys.Measure):
		return m.startRun(runPlain)

	case key.Matches(msg, keys.Bloch):
		m.showBloch()

	case key.Matches(msg, keys.Oracle):
		if err := e.InsertOracle(); err != nil {
			m.setError(err)
			break
		}
		m.oracleItem = 0
		m.focus = focusOracle

	case key.Matches(msg, keys.Tutorial):
		m.cycleTutorial()

	case key.Matches(msg, keys.Check):
		return m.checkStep()

	case key.Matches(msg, keys.Next):
		if m.session == nil {
			break
		}
		if !m.session.Next() {
			m.setStatus("last step")
		}

	case key.Matches(msg, keys.Message):
		m.cycleMessage()

	case key.Matches(msg, keys.Back):
		m.panelKind = panelNone

	default:
		if m.panelKind != panelNone {
			var cmd tea.Cmd
			m.panel, cmd = m.panel.Update(msg)
			return cmd
		}
	}

	m.cursor = e.Geometry().Clamp(m.cursor)
	return nil
}

func (m *Model) handleMenuKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, keys.Back):
		m.focus = focusCircuit
	case key.Matches(msg, keys.Up):
		if m.menuItem > 0 {
			m.menuItem--
		}
	case key.Matches(msg, keys.Down):
		if m.menuItem < len(palette)-1 {
			m.menuItem++
		}
	case key.Matches(msg, keys.Check):
		m.dropAtCursor(palette[m.menuItem].kind)
		m.focus = focusCircuit
	}
}

func (m *Model) handleOracleKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, keys.Back):
		m.focus = focusCircuit
	case key.Matches(msg, keys.Up):
		if m.oracleItem > 0 {
			m.oracleItem--
		}
	case key.Matches(msg, keys.Down):
		if m.oracleItem < len(oracleChoices) {
			m.oracleItem++
		}
	case key.Matches(msg, keys.Check):
		m.focus = focusCircuit
		if m.oracleItem == len(oracleChoices) {
			m.engine.RemoveOracle()
			m.setStatus("oracle removed")
			return
		}
		o := oracleChoices[m.oracleItem]
		if err := m.engine.Circuit().SetOracleTable(o.Table); err != nil {
			m.setError(err)
			return
		}
		m.cache.invalidate()
		m.setStatus("oracle defined")
	}
}

func (m *Model) handleAngleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Back):
		m.angleInput.Blur()
		m.focus = focusCircuit
		return nil
	case msg.Type == tea.KeyEnter:
		theta, err := circuit.ParseRotation(m.angleInput.Value())
		if err != nil {
			m.setError(fmt.Errorf("invalid angle, use numbers or pi expressions (pi/2, 3*pi/4): %w", err))
			return nil
		}
		if err := m.engine.SetAngle(m.cursor, theta); err != nil {
			m.setError(err)
		} else {
			m.setStatus("angle set to %s", circuit.FormatAngle(theta))
		}
		m.angleInput.Blur()
		m.focus = focusCircuit
		return nil
	}
	var cmd tea.Cmd
	m.angleInput, cmd = m.angleInput.Update(msg)
	return cmd
}

// ──────────────────────────── Actions ────────────────────────────

func (m *Model) showExport() {
	p := m.engine.Compile()
	src, err := export.Write(m.format, p)
	if err != nil {
		m.setError(err)
		src = errorStyle.Render(err.Error())
	}
	m.panelKind = panelExport
	m.panelTitle = fmt.Sprintf("Export (%s)", m.format)
	m.panel.SetContent(src)
	m.panel.GotoTop()
}

// exportPath is the file the current format is saved to.
func (m *Model) exportPath() string {
	path := m.cfg.ExportFile
	return strings.TrimSuffix(path, filepath.Ext(path)) + m.format.Extension()
}

func (m *Model) saveExport() {
	src, err := export.Write(m.format, m.engine.Compile())
	if err != nil {
		m.setError(err)
		return
	}
	path := m.exportPath()
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		m.setError(fmt.Errorf("save error: %w", err))
		return
	}
	m.log.Info().Str("path", path).Str("format", string(m.format)).Msg("circuit exported")
	m.setStatus("Saved %s", path)
}

// startRun validates the circuit and runs it on the backend in the
// background.
func (m *Model) startRun(purpose runPurpose) tea.Cmd {
	if m.running {
		m.setStatus("a run is already in progress")
		return nil
	}
	p := m.engine.Compile()
	if err := sim.Validate(p, true); err != nil {
		m.setError(err)
		return nil
	}
	m.running = true
	m.setStatus("running %d shots on %s...", m.cfg.Shots, m.backend.Name())

	backend, shots, timeout, log := m.backend, m.cfg.Shots, m.cfg.BackendTimeout, m.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := backend.Run(ctx, p, shots)
		if err != nil {
			log.Error().Err(err).Str("backend", backend.Name()).Msg("run failed")
		}
		return runResultMsg{purpose: purpose, backend: backend.Name(), res: res, err: err}
	}
}

func (m *Model) handleRunResult(msg runResultMsg) {
	if msg.err != nil {
		m.setError(fmt.Errorf("%s: %w", msg.backend, msg.err))
		return
	}
	body := renderHistogram(msg.res, m.panel.Width)
	m.setStatus("%s: %d shots", msg.backend, msg.res.Shots)

	switch msg.purpose {
	case runDeutschJozsa:
		verdict := tutorial.Judge(msg.res, []int{0, 1})
		line := fmt.Sprintf("Deutsch-Jozsa verdict: %s", verdict)
		if o := m.engine.Circuit().Oracle(); o != nil && o.Defined() {
			want := tutorial.Balanced
			if o.Table.IsConstant() {
				want = tutorial.Constant
			}
			if verdict == want {
				line = okStyle.Render(line + " (correct)")
			} else {
				line = errorStyle.Render(line + fmt.Sprintf(" (expected %s)", want))
			}
		}
		body = line + "\n" + body
		m.setStatus("%s", verdict)
	case runSuperdense:
		got, share := tutorial.Decode(msg.res)
		line := fmt.Sprintf("sent %s, received %s (%.0f%%)", m.message, got, 100*share)
		if tutorial.Delivered(msg.res, m.message) {
			line = okStyle.Render(line)
		} else {
			line = errorStyle.Render(line)
		}
		body = line + "\n" + body
	}

	m.panelKind = panelResults
	m.panelTitle = "Results (" + msg.backend + ")"
	m.panel.SetContent(body)
	m.panel.GotoTop()
}

func (m *Model) showBloch() {
	p := m.engine.Compile()
	if err := sim.Validate(p, false); err != nil {
		m.setError(err)
		return
	}
	r, err := sim.Bloch(context.Background(), m.local, p, m.cursor.Row)
	if err != nil {
		m.setError(err)
		return
	}
	m.setStatus("Bloch %s", r)
}

func (m *Model) cycleTutorial() {
	cat := tutorial.Catalog()
	m.tutorialIdx++
	if m.tutorialIdx >= len(cat) {
		m.tutorialIdx = -1
		m.session = nil
		m.setStatus("tutorial closed")
		return
	}
	t := cat[m.tutorialIdx]
	e := m.engine
	e.Clear(true)
	if err := e.SetQubits(t.RequiredQubits); err != nil {
		m.setError(err)
	}
	m.session = tutorial.NewSession(t)
	m.message = ""
	m.cursor = circuit.Cell{}
	m.panelKind = panelNone
	m.log.Info().Str("tutorial", t.Name).Msg("tutorial started")
	m.setStatus("%s", m.session.Progress())
}

func (m *Model) cycleMessage() {
	if m.session == nil || m.session.Tutorial.Name != "Superdense Coding" {
		return
	}
	i := 0
	for j, msg := range tutorial.Messages {
		if msg == m.message {
			i = j + 1
		}
	}
	m.message = tutorial.Messages[i%len(tutorial.Messages)]
	m.setStatus("message %s", m.message)
}

func (m *Model) checkStep() tea.Cmd {
	if m.session == nil {
		return nil
	}
	c := m.engine.Circuit()
	in := tutorial.Input{Program: m.engine.Compile(), Oracle: c.Oracle(), Message: m.message}
	if err := m.session.Check(in); err != nil {
		if !errors.Is(err, tutorial.ErrStepIncomplete) && !errors.Is(err, tutorial.ErrTooFewQubits) {
			m.log.Error().Err(err).Msg("tutorial check failed")
		}
		m.setError(err)
		return nil
	}
	m.setStatus("correct! %s", m.session.Current().Title)

	if !m.session.Done() {
		return nil
	}
	switch m.session.Tutorial.Name {
	case "Deutsch Jozsa Algorithm":
		return m.startRun(runDeutschJozsa)
	case "Superdense Coding":
		return m.startRun(runSuperdense)
	}
	return nil
}

// ──────────────────────────── View ────────────────────────────

// sceneState collects what the scene needs from the engine.
func (m Model) sceneState() scene.State {
	e := m.engine
	c := e.Circuit()
	cur := m.cursor
	st := scene.State{
		Geometry: e.Geometry(),
		Registry: c.Registry(),
		Oracle:   c.Oracle(),
		Inert:    e.Compile().InertControls(),
		Cursor:   &cur,
	}
	if s := e.Dragging(); s != nil {
		dv := &scene.DragView{Kind: s.Gate().Kind, Label: scene.Label(s.Gate()), Center: s.Center()}
		if o, ok := s.Origin(); ok {
			dv.Origin = &o
		}
		st.Drag = dv
	}
	return st
}

// renderCanvas draws the palette and circuit, reusing the last frame when
// nothing changed.
func (m Model) renderCanvas() string {
	k := frameKey{cursor: m.cursor}
	if s := m.engine.Dragging(); s != nil {
		k.dragging, k.drag = true, s.Center()
	}
	if !m.cache.dirty && m.cache.key == k && m.cache.canvas != "" {
		return m.cache.canvas
	}

	cv := m.drawCanvas()
	m.cache.canvas = cv.String()
	m.cache.key = k
	m.cache.dirty = false
	return m.cache.canvas
}

func (m Model) drawCanvas() *canvas {
	geo := m.engine.Geometry()
	w, h := canvasSize(geo)
	cv := newCanvas(w, h)
	drawPalette(cv, geo.Layout)
	rasterize(cv, scene.Render(m.sceneState()))
	return cv
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	c := m.engine.Circuit()
	title := titleStyle.Render("Quantum Circuit Composer") +
		dimStyle.Render(fmt.Sprintf("  %d qubits  backend %s", c.Qubits(), m.backend.Name()))
	if m.session != nil {
		title += "  " + activeGateStyle.Render(m.session.Progress())
	}

	parts := []string{title, m.renderCanvas()}

	if m.session != nil {
		parts = append(parts, m.renderTutorialPanel(m.width-4))
	}
	if m.panelKind != panelNone {
		parts = append(parts, panelStyle.Width(m.width-4).Render(titleStyle.Render(m.panelTitle)+"\n"+m.panel.View()))
	}
	parts = append(parts, m.renderStatus(), m.help.View(keys))

	frame := lipgloss.JoinVertical(lipgloss.Left, parts...)

	switch m.focus {
	case focusMenu:
		frame = overlayAt(frame, m.renderMenu(), 2, canvasTop+2)
	case focusOracle:
		frame = overlayAt(frame, m.renderOracleMenu(), 2, canvasTop+2)
	case focusAngle:
		frame = overlayAt(frame, m.renderAngleInput(), 2, canvasTop+2)
	}
	return frame
}

func (m Model) renderStatus() string {
	pos := fmt.Sprintf("  Position: q[%d] col %d", m.cursor.Row, m.cursor.Col)
	if g := m.engine.Circuit().Registry().OccupantAt(m.cursor); g != nil {
		pos += " " + gateStyle.Render(scene.Label(g))
	}
	if m.statusMsg == "" {
		return pos
	}
	st := activeGateStyle
	if m.statusErr {
		st = errorStyle
	}
	return pos + "  │  " + st.Render(m.statusMsg)
}

func (m Model) renderTutorialPanel(width int) string {
	s := m.session
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(s.Tutorial.Name))
	sb.WriteString("\n")
	for i, st := range s.Tutorial.Steps {
		mark := "  "
		if s.Passed(i) {
			mark = okStyle.Render("✓ ")
		}
		line := fmt.Sprintf("%d. %s", i+1, st.Title)
		if i == s.Index() {
			line = menuSelectedStyle.Render("▸ "+line) + dimStyle.Render("  "+st.Instruction)
		} else {
			line = "  " + line
		}
		sb.WriteString(mark + line + "\n")
	}
	sb.WriteString(dimStyle.Render("hint: " + s.Current().Hint))
	if s.Tutorial.Name == "Superdense Coding" {
		msg := m.message
		if msg == "" {
			msg = "none (press s)"
		}
		sb.WriteString("\n" + activeGateStyle.Render("message: "+msg))
	}
	return tutorialStyle.Width(width).Render(sb.String())
}

// renderAngleInput renders the rotation angle overlay.
func (m Model) renderAngleInput() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Rotation Angle"))
	sb.WriteString("\n\n")
	sb.WriteString(m.angleInput.View())
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("0 < θ < 2π   e.g. pi/2, 3*pi/4, 1.57"))
	return menuBorderStyle.Render(sb.String())
}
