// Package tui is the terminal front end. It replays the renderer's latest
// frame onto a Braille canvas, shows a status bar and turns keys and mouse
// events into view changes and new bodies.
package tui

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/spacetime/internal/authoring"
	"github.com/san-kum/spacetime/internal/control"
	"github.com/san-kum/spacetime/internal/raster"
	"github.com/san-kum/spacetime/internal/render"
	"github.com/san-kum/spacetime/internal/spacetime"
	"github.com/san-kum/spacetime/internal/viz"
)

const (
	statusLines     = 2
	historyCapacity = 120
	recordLimit     = 600
)

// Renderer is what the viewer needs from the frame renderer.
type Renderer interface {
	control.View
	SetPointerOverlay(o render.PointerOverlay)
	Settings() render.Settings
	MassMultiplier() float64
}

// Options configures a Model.
type Options struct {
	FPS      int
	Scale    float64
	Theme    string
	Density  float64
	RecordTo string
	Logger   *slog.Logger
}

type tickMsg time.Time

// Model is the bubbletea model. Its collaborators are pointers, so copies
// made by bubbletea share them.
type Model struct {
	renderer Renderer
	frame    *render.Buffered
	sim      *spacetime.Spacetime
	controls *control.Controls
	gesture  *authoring.Gesture
	surface  *viz.CanvasSurface
	logger   *slog.Logger

	theme  viz.Theme
	styles viz.Styles
	fps    int

	width, height int
	energy        []float64
	showHelp      bool
	status        string

	recordTo  string
	recorder  *raster.Recorder
	rasterSrf *raster.Surface
}

func NewModel(r Renderer, frame *render.Buffered, st *spacetime.Spacetime, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = render.DefaultFPS
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.RecordTo == "" {
		opts.RecordTo = "spacetime.gif"
	}
	if opts.Density <= 0 {
		opts.Density = spacetime.DefaultDensity
	}
	theme := viz.GetTheme(opts.Theme)
	m := Model{
		renderer: r,
		frame:    frame,
		sim:      st,
		controls: control.New(r, st).WithLogger(opts.Logger),
		gesture:  authoring.NewGesture(opts.Density, r.MassMultiplier()),
		surface:  viz.NewCanvasSurface(80, 24-statusLines, opts.Scale, theme),
		logger:   opts.Logger,
		theme:    theme,
		styles:   viz.NewStyles(theme),
		fps:      opts.FPS,
		width:    80,
		height:   24,
		energy:   make([]float64, 0, historyCapacity),
		recordTo: opts.RecordTo,
	}
	frame.Resize(m.surface.Size())
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tickMsg:
		m.onTick()
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	m.surface.Canvas.Resize(w, max(1, h-statusLines))
	m.frame.Resize(m.surface.Size())
	if m.rasterSrf != nil {
		m.startRecording()
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c":
		if m.recorder != nil {
			m.stopRecording()
		}
		return m, tea.Quit
	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	case "t":
		m.theme = viz.NextTheme(m.theme.Name)
		m.surface.Theme = m.theme
		m.styles = viz.NewStyles(m.theme)
		return m, nil
	case "v":
		if m.recorder == nil {
			m.startRecording()
		} else {
			m.stopRecording()
		}
		return m, nil
	case "esc":
		m.gesture.Cancel()
		m.renderer.SetPointerOverlay(m.gesture.Overlay())
		return m, nil
	}

	if a, ok := control.Lookup(key); ok {
		if err := m.controls.Do(a); err != nil {
			m.status = err.Error()
		} else {
			m.status = ""
		}
	}
	return m, nil
}

// point converts a terminal cell to surface coordinates at the middle of the
// cell.
func (m *Model) point(x, y int) r2.Vec {
	s := m.surface.Scale
	return r2.Vec{X: (float64(x)*2 + 1) * s, Y: (float64(y)*4 + 2) * s}
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Y >= m.surface.Canvas.Height {
		return
	}
	p := m.point(msg.X, msg.Y)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.controls.ZoomBy(1)
	case msg.Button == tea.MouseButtonWheelDown:
		m.controls.ZoomBy(-1)
	case msg.Action == tea.MouseActionMotion:
		m.gesture.Move(p)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.gesture.MassMultiplier = m.renderer.MassMultiplier()
		if b, ok := m.gesture.Press(p, m.renderer.Camera()); ok {
			if err := m.sim.Add(b); err != nil {
				m.status = err.Error()
			} else {
				m.status = fmt.Sprintf("added body of mass %.1f", b.Mass)
				m.logger.Info("body added", "mass", b.Mass, "x", b.Position.X, "y", b.Position.Y)
			}
		}
	case msg.Action == tea.MouseActionRelease:
		m.gesture.Release(p)
	}
	m.renderer.SetPointerOverlay(m.gesture.Overlay())
}

func (m *Model) onTick() {
	m.frame.Replay(m.surface)

	m.energy = append(m.energy, m.sim.Energy())
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}

	if m.recorder != nil {
		m.rasterSrf.Clear()
		m.frame.Replay(m.rasterSrf)
		m.recorder.Add(m.rasterSrf.Image())
	}
}

func (m *Model) startRecording() {
	w, h := m.surface.Size()
	m.rasterSrf = raster.New(int(w), int(h))
	if m.recorder == nil {
		m.recorder = raster.NewRecorder(m.fps, recordLimit)
	}
	m.status = "recording"
}

func (m *Model) stopRecording() {
	if err := m.recorder.Save(m.recordTo); err != nil {
		m.status = "recording failed: " + err.Error()
		m.logger.Error("gif save failed", "path", m.recordTo, "err", err)
	} else {
		m.status = fmt.Sprintf("saved %d frames to %s", m.recorder.Len(), m.recordTo)
		m.logger.Info("gif saved", "path", m.recordTo, "frames", m.recorder.Len())
	}
	m.recorder, m.rasterSrf = nil, nil
}

func (m Model) View() string {
	if m.showHelp {
		return m.help()
	}
	return m.surface.Canvas.Render() + m.statusBar()
}

func (m Model) statusBar() string {
	st := m.styles
	cam := m.renderer.Camera()
	settings := m.renderer.Settings()
	t, _ := m.sim.Time()

	run := st.Running.Render("RUNNING")
	if m.sim.Paused() {
		run = st.Paused.Render("PAUSED")
	}
	energy := 0.0
	if len(m.energy) > 0 {
		energy = m.energy[len(m.energy)-1]
	}

	fields := []string{
		run,
		st.Field("bodies", fmt.Sprint(m.sim.Len())),
		st.Field("t", fmt.Sprintf("%.1f", t)),
		st.Field("zoom", fmt.Sprintf("%.2f", cam.Zoom)),
		st.Field("offset", fmt.Sprintf("%.0f,%.0f", cam.Offset.X, cam.Offset.Y)),
		st.Toggle("grid", settings.ShowGrid),
		st.Toggle("lock", settings.LockCamera),
		st.Toggle("real", settings.RealisticMode),
		st.Field("E", fmt.Sprintf("%.4g", energy)) + " " + st.Label.Render(viz.Sparkline(m.energy, 16)),
	}
	if m.recorder != nil {
		fields = append(fields, st.Paused.Render(fmt.Sprintf("REC %d", m.recorder.Len())))
	}
	line := strings.Join(fields, "  ")
	if m.status != "" {
		line += "  " + st.KeyHint.Render(m.status)
	}
	return st.Bar.Width(max(0, m.width)).Render(line)
}

func (m Model) help() string {
	st := m.styles
	var s strings.Builder
	s.WriteString(st.Title.Render("KEYBOARD") + "\n\n")
	for _, kv := range [][2]string{
		{"w a s d", "pan"},
		{"+ / -", "zoom"},
		{"g", "toggle grid"},
		{"l", "toggle camera lock"},
		{"r", "toggle realistic mode"},
		{"space", "pause simulation"},
		{"mouse", "press, drag, release, click to add a body"},
		{"esc", "cancel the new body"},
		{"t", "cycle theme"},
		{"v", "start/stop GIF recording"},
		{"?", "toggle this help"},
		{"q", "quit"},
	} {
		s.WriteString(st.Value.Render(fmt.Sprintf("%-8s", kv[0])) + " " + st.Label.Render(kv[1]) + "\n")
	}
	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(6), asciigraph.Width(40), asciigraph.Caption("Energy"))
		s.WriteString("\n" + chart + "\n")
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, st.Panel.Render(s.String()))
}
