package tui

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/critter/internal/config"
	"github.com/san-kum/critter/internal/experiment"
	"github.com/san-kum/critter/internal/gait"
	"github.com/san-kum/critter/internal/limb"
	"github.com/san-kum/critter/internal/sim"
)

func standing() sim.Sample {
	var s sim.Sample
	s.Progress[limb.LeftHorizontal] = 0.5
	s.Progress[limb.RightHorizontal] = 0.5
	s.Progress[limb.LeftVertical] = 1
	s.Progress[limb.RightVertical] = 1
	return s
}

func TestDrawCritterPlantedFeet(t *testing.T) {
	c := newCanvas(40, 10)
	drawCritter(c, standing())

	out := c.String()
	if strings.Count(out, "●") != 2 {
		t.Errorf("expected two planted feet:\n%s", out)
	}
	if !strings.Contains(out, "█████████") {
		t.Errorf("body missing:\n%s", out)
	}
}

func TestDrawCritterLiftedFoot(t *testing.T) {
	s := standing()
	s.Progress[limb.RightVertical] = 0

	c := newCanvas(40, 10)
	drawCritter(c, s)

	out := c.String()
	if strings.Count(out, "○") != 1 || strings.Count(out, "●") != 1 {
		t.Errorf("expected one lifted and one planted foot:\n%s", out)
	}
}

func TestCanvasClipsOutOfBounds(t *testing.T) {
	c := newCanvas(5, 3)
	c.set(-1, 0, 'x')
	c.set(5, 0, 'x')
	c.line(0, 0, 10, 10, '*')
	if strings.Contains(c.String(), "x") {
		t.Error("out of bounds write leaked")
	}
}

func TestLiveRendererWritesFrame(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveRenderer(&buf, 0)
	r.OnStep(standing())

	out := buf.String()
	if !strings.HasPrefix(out, clearScreen) {
		t.Error("frame should start by clearing the screen")
	}
	if !strings.Contains(out, "left_vertical=1.00") {
		t.Errorf("missing progress readout:\n%s", out)
	}
}

// pacedRenderer returns a renderer whose sleeps are recorded instead of
// taken.
func pacedRenderer(buf *bytes.Buffer, fps int) (*LiveRenderer, *time.Duration) {
	r := NewLiveRenderer(buf, fps)
	var slept time.Duration
	r.sleep = func(d time.Duration) { slept += d }
	return r, &slept
}

func TestLiveRendererPacesToSimTime(t *testing.T) {
	cfg := config.DefaultConfig()
	exp, err := experiment.New(cfg, nil)
	if err != nil {
		t.Fatalf("experiment: %v", err)
	}

	var buf bytes.Buffer
	r, slept := pacedRenderer(&buf, 30)
	exp.GetSimulator().AddObserver(r)
	if _, err := exp.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	frames := strings.Count(buf.String(), clearScreen)
	want := int(cfg.Duration * 30)
	if frames < want-1 || frames > want+1 {
		t.Errorf("rendered %d frames over %.0fs at 30fps, want about %d", frames, cfg.Duration, want)
	}

	// The walk plays back in real time: the pauses add up to the simulated
	// span between the first and the last frame.
	if d := slept.Seconds(); d < cfg.Duration-0.1 || d > cfg.Duration {
		t.Errorf("slept %.3fs, want about %.0fs", d, cfg.Duration)
	}
}

func TestLiveRendererCapsAtTickRate(t *testing.T) {
	var buf bytes.Buffer
	r, _ := pacedRenderer(&buf, 200)

	s := standing()
	for i := 1; i <= 50; i++ {
		s.Time = float64(i) * 0.02
		r.OnStep(s)
	}
	if frames := strings.Count(buf.String(), clearScreen); frames != 50 {
		t.Errorf("frames = %d, want one per tick", frames)
	}
}

func TestLiveRendererUnpaced(t *testing.T) {
	var buf bytes.Buffer
	r, slept := pacedRenderer(&buf, 0)

	s := standing()
	for i := 1; i <= 10; i++ {
		s.Time = float64(i) * 0.02
		r.OnStep(s)
	}
	if frames := strings.Count(buf.String(), clearScreen); frames != 10 {
		t.Errorf("frames = %d, want 10", frames)
	}
	if *slept != 0 {
		t.Errorf("unpaced renderer slept %v", *slept)
	}
}

func shortConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Duration = 5
	return cfg
}

func TestModelTogglesDirection(t *testing.T) {
	app, err := NewInteractiveApp(shortConfig())
	if err != nil {
		t.Fatalf("NewInteractiveApp: %v", err)
	}

	next, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	m := next.(model)
	if m.direction != gait.Left {
		t.Errorf("expected left after toggle, got %v", m.direction)
	}
}

func TestModelStepsOnTick(t *testing.T) {
	app, err := NewInteractiveApp(shortConfig())
	if err != nil {
		t.Fatalf("NewInteractiveApp: %v", err)
	}

	var m tea.Model = *app
	for i := 0; i < 100; i++ {
		m, _ = m.Update(tickMsg{})
	}
	got := m.(model)
	if got.simTime <= 0 {
		t.Fatal("simulation did not advance")
	}
	if len(got.log.lines) == 0 {
		t.Error("expected at least one transition")
	}
	if view := got.View(); !strings.Contains(view, "critter") {
		t.Errorf("view missing header:\n%s", view)
	}
}

func TestModelPauseAndQuit(t *testing.T) {
	app, err := NewInteractiveApp(shortConfig())
	if err != nil {
		t.Fatalf("NewInteractiveApp: %v", err)
	}

	next, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	m := next.(model)
	if !m.paused {
		t.Fatal("p should pause")
	}
	next, _ = m.Update(tickMsg{})
	if next.(model).simTime != 0 {
		t.Error("paused model must not advance")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
