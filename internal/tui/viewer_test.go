package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/spacetime/internal/render"
	"github.com/san-kum/spacetime/internal/spacetime"
)

type fixture struct {
	model    Model
	renderer *render.Renderer
	frame    *render.Buffered
	sim      *spacetime.Spacetime
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := spacetime.New(spacetime.DefaultParams(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Add(spacetime.Body{Position: r2.Vec{X: 80, Y: 48}, Mass: 1000}); err != nil {
		t.Fatal(err)
	}
	frame := render.NewBuffered(1, 1)
	r, err := render.New(frame, st, 1)
	if err != nil {
		t.Fatal(err)
	}
	m := NewModel(r, frame, st, Options{
		FPS:      30,
		RecordTo: filepath.Join(t.TempDir(), "out.gif"),
	})
	f := &fixture{model: m, renderer: r, frame: frame, sim: st}
	f.send(tea.WindowSizeMsg{Width: 40, Height: 12})
	return f
}

func (f *fixture) send(msg tea.Msg) tea.Cmd {
	next, cmd := f.model.Update(msg)
	f.model = next.(Model)
	return cmd
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestResize(t *testing.T) {
	f := newFixture(t)
	c := f.model.surface.Canvas
	if c.Width != 40 || c.Height != 12-statusLines {
		t.Fatalf("canvas %dx%d", c.Width, c.Height)
	}
	f.renderer.RenderFrame()
	w, h := f.frame.Frame().W, f.frame.Frame().H
	if w != 40*2*4 || h != 10*4*4 {
		t.Errorf("frame size %vx%v", w, h)
	}
}

func TestKeysDriveRenderer(t *testing.T) {
	f := newFixture(t)

	before := f.renderer.Settings()
	f.send(key("g"))
	if f.renderer.Settings().ShowGrid == before.ShowGrid {
		t.Error("g should toggle the grid")
	}
	f.send(key("l"))
	if f.renderer.Settings().LockCamera == before.LockCamera {
		t.Error("l should toggle the camera lock")
	}
	f.send(key("d"))
	if f.renderer.Camera().Offset.X <= 0 {
		t.Errorf("d should pan right, offset %v", f.renderer.Camera().Offset)
	}
	f.send(key("+"))
	if f.renderer.Camera().Zoom <= 1 {
		t.Errorf("+ should zoom in, zoom %v", f.renderer.Camera().Zoom)
	}
	f.send(key(" "))
	if !f.sim.Paused() {
		t.Error("space should pause")
	}
}

func TestRealisticWithoutBackgroundReportsError(t *testing.T) {
	f := newFixture(t)
	f.send(key("r"))
	if f.renderer.Settings().RealisticMode {
		t.Fatal("realistic mode turned on without a background")
	}
	if !strings.Contains(f.model.status, "background") {
		t.Errorf("status %q", f.model.status)
	}
}

func TestMouseAddsBody(t *testing.T) {
	f := newFixture(t)
	before := f.sim.Len()

	f.send(tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionMotion})
	if o := f.model.gesture.Overlay(); !o.Visible || o.State != render.OverlayPlacement {
		t.Fatalf("overlay after move %+v", o)
	}
	f.send(tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	f.send(tea.MouseMsg{X: 14, Y: 5, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	f.send(tea.MouseMsg{X: 14, Y: 5, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if o := f.model.gesture.Overlay(); o.State != render.OverlayVelocity {
		t.Fatalf("overlay after release %+v", o)
	}
	f.send(tea.MouseMsg{X: 20, Y: 7, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	if f.sim.Len() != before+1 {
		t.Fatalf("bodies = %d, want %d", f.sim.Len(), before+1)
	}
	added := f.sim.Snapshot()[before]
	want := f.model.point(10, 5)
	if added.Position != want {
		t.Errorf("body at %v, want %v", added.Position, want)
	}
	if added.Velocity.X <= 0 || added.Velocity.Y <= 0 {
		t.Errorf("velocity %v should point down and right", added.Velocity)
	}
}

func TestEscapeCancelsGesture(t *testing.T) {
	f := newFixture(t)
	f.send(tea.MouseMsg{X: 3, Y: 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	f.send(tea.KeyMsg{Type: tea.KeyEsc})
	if f.model.gesture.Active() || f.model.gesture.Overlay().Visible {
		t.Error("esc should hide the gesture")
	}
}

func TestMouseBelowCanvasIgnored(t *testing.T) {
	f := newFixture(t)
	f.send(tea.MouseMsg{X: 3, Y: 11, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if f.model.gesture.Overlay().Visible {
		t.Error("status bar clicks should not start a gesture")
	}
}

func TestTickReplaysFrame(t *testing.T) {
	f := newFixture(t)
	f.renderer.RenderFrame()

	cmd := f.send(tickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("tick should schedule the next tick")
	}
	if !f.model.surface.Canvas.IsSet(20, 12) {
		t.Error("body centre not drawn")
	}
	if len(f.model.energy) != 1 {
		t.Errorf("energy history %d", len(f.model.energy))
	}

	view := f.model.View()
	for _, want := range []string{"bodies", "zoom", "grid"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestRecording(t *testing.T) {
	f := newFixture(t)
	f.renderer.RenderFrame()

	f.send(key("v"))
	if f.model.recorder == nil {
		t.Fatal("v should start recording")
	}
	f.send(tickMsg(time.Now()))
	f.send(tickMsg(time.Now()))
	if n := f.model.recorder.Len(); n != 2 {
		t.Fatalf("recorded %d frames", n)
	}
	f.send(key("v"))
	if f.model.recorder != nil {
		t.Fatal("second v should stop recording")
	}
	if !strings.Contains(f.model.status, "saved 2 frames") {
		t.Errorf("status %q", f.model.status)
	}
}

func TestThemeAndHelp(t *testing.T) {
	f := newFixture(t)
	first := f.model.theme.Name
	f.send(key("t"))
	if f.model.theme.Name == first {
		t.Error("t should change the theme")
	}
	f.send(key("?"))
	if !strings.Contains(f.model.View(), "KEYBOARD") {
		t.Error("help not shown")
	}
}

func TestQuit(t *testing.T) {
	f := newFixture(t)
	cmd := f.send(key("q"))
	if cmd == nil {
		t.Fatal("no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
