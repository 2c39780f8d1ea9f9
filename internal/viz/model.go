package viz

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/slrsim/internal/control"
	"github.com/san-kum/slrsim/internal/observability"
	"github.com/san-kum/slrsim/internal/physics"
	"github.com/san-kum/slrsim/internal/projection"
	"github.com/san-kum/slrsim/internal/render"
)

const (
	DefaultFPS          = 60
	DefaultCellWidth    = 8.0
	DefaultStartupDelay = 500 * time.Millisecond

	panelWidth      = 40
	headerHeight    = 3
	footerHeight    = 8
	chartOriginX    = 1
	historyCapacity = 240
)

// Options configure the terminal host.
type Options struct {
	FPS          int
	StartupDelay time.Duration
	Theme        string
	// CellWidth converts terminal columns to approximate pixels so pointer
	// speed thresholds keep their px/ms meaning.
	CellWidth float64
	// Snapshot saves the current frame and returns where it went.
	Snapshot func(render.Frame, Theme) (string, error)
	Logger   *slog.Logger
}

type frameMsg struct{ run func() }

type startMsg struct{}

type resetMsg struct{}

// tickScheduler turns frame requests into tea.Tick commands. Only one
// request is outstanding at a time.
type tickScheduler struct {
	interval time.Duration
	pending  func()
}

func (s *tickScheduler) Request(fn func()) { s.pending = fn }

func (s *tickScheduler) cmd() tea.Cmd {
	if s.pending == nil {
		return nil
	}
	fn := s.pending
	s.pending = nil
	return tea.Tick(s.interval, func(time.Time) tea.Msg { return frameMsg{run: fn} })
}

// surface is the Display the controller pushes frames into.
type surface struct {
	frame   render.Frame
	readout control.Readout
}

func (v *surface) SetCurve(c render.Curve)        { v.frame.Curve = c }
func (v *surface) SetParticles(m []render.Marker) { v.frame.Markers = m }
func (v *surface) SetReadout(r control.Readout)   { v.readout = r }
func (v *surface) Frame() render.Frame            { return v.frame }
func (v *surface) Readout() control.Readout       { return v.readout }

// Model is the interactive chart.
type Model struct {
	ctrl  *control.Controller
	loop  *control.Loop
	sched *tickScheduler
	view  *surface
	opts  Options
	log   *slog.Logger

	canvas        *Canvas
	chart         control.Rect
	width, height int
	inside        bool
	dragging      bool

	theme  Theme
	styles styles
	keys   keyMap
	help   help.Model

	slr, cost counter
	energy    []float64
	frames    int
	notice    string
}

// NewModel builds the controller for ds and wraps it in a terminal host.
func NewModel(ds *projection.Dataset, params physics.Params, opts Options, ctrlOpts ...control.Option) (Model, error) {
	if opts.FPS <= 0 {
		opts.FPS = DefaultFPS
	}
	if opts.CellWidth <= 0 {
		opts.CellWidth = DefaultCellWidth
	}
	if opts.StartupDelay <= 0 {
		opts.StartupDelay = DefaultStartupDelay
	}
	if opts.Logger == nil {
		opts.Logger = observability.Discard()
	}

	view := &surface{}
	ctrl, err := control.New(ds, params, append(ctrlOpts, control.WithDisplay(view), control.WithLogger(opts.Logger))...)
	if err != nil {
		return Model{}, err
	}
	view.frame, view.readout = ctrl.Render(), ctrl.Readout()

	sched := &tickScheduler{interval: time.Second / time.Duration(opts.FPS)}
	theme := GetTheme(opts.Theme)
	rest := ctrl.Readout()

	m := Model{
		ctrl:   ctrl,
		loop:   control.NewLoop(ctrl, sched),
		sched:  sched,
		view:   view,
		opts:   opts,
		log:    opts.Logger,
		theme:  theme,
		styles: newStyles(theme),
		keys:   keys,
		help:   help.New(),
		slr:    newCounter(opts.FPS, rest.SLRValue),
		cost:   newCounter(opts.FPS, rest.CostValue),
		energy: make([]float64, 0, historyCapacity),
	}
	m.resize(80, 24)
	return m, nil
}

func (m Model) Controller() *control.Controller { return m.ctrl }

func (m Model) Init() tea.Cmd {
	return tea.Tick(m.opts.StartupDelay, func(time.Time) tea.Msg { return startMsg{} })
}

// Update routes input to the controller and drives the frame loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Restart):
			m.loop.Kick(m.ctrl.Start())
		case key.Matches(msg, m.keys.Theme):
			m.theme = NextTheme(m.theme.Name)
			m.styles = newStyles(m.theme)
		case key.Matches(msg, m.keys.Snapshot):
			m.snapshot()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	case tea.MouseMsg:
		cmds = append(cmds, m.mouse(msg))
	case startMsg:
		m.loop.Kick(m.ctrl.Start())
	case frameMsg:
		msg.run()
		m.afterFrame()
	case resetMsg:
		m.ctrl.Poll()
	}

	r := m.view.Readout()
	m.slr.set(r.SLRValue)
	m.cost.set(r.CostValue)

	cmds = append(cmds, m.sched.cmd())
	return m, batch(cmds...)
}

// mouse maps terminal mouse events onto pointer and touch input. A held left
// button behaves like a finger on the chart.
func (m *Model) mouse(msg tea.MouseMsg) tea.Cmd {
	in := m.chart.Contains(float64(msg.X), float64(msg.Y))
	x := float64(msg.X) * m.opts.CellWidth

	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && in:
		m.dragging = true
		m.loop.Kick(m.ctrl.TouchMove(x))
	case msg.Action == tea.MouseActionRelease && m.dragging:
		m.dragging = false
		m.loop.Kick(m.ctrl.TouchEnd())
		return m.resetCmd()
	case msg.Action == tea.MouseActionMotion && m.dragging:
		m.loop.Kick(m.ctrl.TouchMove(x))
	case msg.Action == tea.MouseActionMotion && in:
		if !m.inside {
			m.inside = true
			m.ctrl.PointerEnter()
		}
		m.loop.Kick(m.ctrl.PointerMove(x))
	case msg.Action == tea.MouseActionMotion && m.inside:
		m.inside = false
		m.loop.Kick(m.ctrl.PointerLeave())
		return m.resetCmd()
	}
	return nil
}

func (m *Model) resetCmd() tea.Cmd {
	return tea.Tick(m.ctrl.ResetDelay(), func(time.Time) tea.Msg { return resetMsg{} })
}

func (m *Model) afterFrame() {
	m.frames++
	m.energy = append(m.energy, m.ctrl.State().Energy())
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}
	m.slr.step()
	m.cost.step()
	if !m.ctrl.Animating() {
		m.slr.snap()
		m.cost.snap()
	}
}

func (m *Model) snapshot() {
	if m.opts.Snapshot == nil {
		m.notice = "snapshots disabled"
		return
	}
	path, err := m.opts.Snapshot(m.ctrl.Render(), m.theme)
	if err != nil {
		m.log.Error("snapshot failed", "error", err)
		m.notice = "snapshot failed: " + err.Error()
		return
	}
	m.log.Info("snapshot saved", "path", path)
	m.notice = "saved " + path
}

// resize lays out the chart to the left of the info panel.
func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	cw := max(10, w-panelWidth-6)
	ch := max(4, h-headerHeight-footerHeight)
	m.canvas = NewCanvas(cw, ch)
	m.chart = control.Rect{X: chartOriginX, Y: headerHeight, Width: float64(cw), Height: float64(ch)}
	m.ctrl.SetBounds(control.Rect{
		X:      chartOriginX * m.opts.CellWidth,
		Y:      headerHeight,
		Width:  float64(cw) * m.opts.CellWidth,
		Height: float64(ch),
	})
	m.help.Width = w
}

func (m Model) View() string {
	Rasterize(m.canvas, m.view.Frame())
	r := m.view.Readout()

	var s strings.Builder
	s.WriteString(GradientText("RISING SEAS", m.theme.Primary, m.theme.Secondary) + "\n")
	s.WriteString(m.styles.headline.Render(r.Headline+"T") +
		m.styles.muted.Render(" economic loss by ") +
		m.styles.headline.Render(r.HeadlineYear) + "\n\n")

	chart := m.styles.fluid.Render(strings.TrimSuffix(m.canvas.String(), "\n"))
	body := lipgloss.JoinHorizontal(lipgloss.Top, chart, m.panel(r))
	s.WriteString(body + "\n")

	s.WriteString(m.status() + "\n")
	if len(m.energy) > 1 {
		graph := asciigraph.Plot(m.energy, asciigraph.Height(3), asciigraph.Width(40), asciigraph.Caption("fluid energy"))
		s.WriteString(m.styles.graph.Render(graph) + "\n")
	}
	if m.notice != "" {
		s.WriteString(m.styles.notice.Render(m.notice) + "\n")
	}
	s.WriteString(m.help.View(m.keys))
	return s.String()
}

func (m Model) panel(r control.Readout) string {
	slr, cost := r.SLR, r.Cost
	if m.ctrl.Animating() && !(m.slr.settled() && m.cost.settled()) {
		slr = projection.FormatSLR(m.slr.pos)
		cost = projection.FormatCost(m.cost.pos)
	}

	rows := []struct{ label, value string }{
		{"Year", r.Year},
		{"Sea level", slr},
		{"Damages", cost},
		{"Displaced", r.Displaced},
	}
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(m.styles.label.Render(row.label) + m.styles.value.Render(row.value) + "\n")
	}
	b.WriteString("\n" + m.styles.impact.Render(r.Impact))

	if !r.Active {
		return m.styles.panelIdle.Render(b.String())
	}
	return m.styles.panel.Render(b.String())
}

func (m Model) status() string {
	st := m.ctrl.State()
	state := "idle"
	if st.Animating {
		state = "animating"
	}
	return m.styles.status.Render(fmt.Sprintf("%s  frames %d  energy %.4f  droplets %d  splashes %d  theme %s",
		state, m.frames, st.Energy(), len(st.Droplets), len(st.Splashes), m.theme.Name))
}

func batch(cmds ...tea.Cmd) tea.Cmd {
	valid := cmds[:0]
	for _, c := range cmds {
		if c != nil {
			valid = append(valid, c)
		}
	}
	switch len(valid) {
	case 0:
		return nil
	case 1:
		return valid[0]
	}
	return tea.Batch(valid...)
}

// Run starts the interactive chart with mouse tracking on the alternate screen.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}
