package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/critter/internal/config"
	"github.com/san-kum/critter/internal/experiment"
	"github.com/san-kum/critter/internal/gait"
	"github.com/san-kum/critter/internal/limb"
	"github.com/san-kum/critter/internal/sim"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

const maxLogLines = 6

// transitionLog keeps the most recent phase transitions for display.
type transitionLog struct {
	lines []gait.Transition
}

func (l *transitionLog) OnTransition(t gait.Transition) {
	l.lines = append(l.lines, t)
	if len(l.lines) > maxLogLines {
		l.lines = l.lines[1:]
	}
}

type model struct {
	cfg       *config.Config
	exp       *experiment.Experiment
	log       *transitionLog
	direction gait.Direction
	sample    sim.Sample

	paused    bool
	speed     float64
	simTime   float64
	history   []float64
	lastFrame time.Time
	fps       float64

	width  int
	height int
}

func NewInteractiveApp(cfg *config.Config) (*model, error) {
	m := &model{
		cfg:    cfg,
		width:  80,
		height: 24,
	}
	if err := m.start(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m model) Init() tea.Cmd { return tick() }

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if !m.paused {
			now := time.Now()
			if !m.lastFrame.IsZero() {
				if dt := now.Sub(m.lastFrame).Seconds(); dt > 0 {
					m.fps = 1.0 / dt
				}
			}
			m.lastFrame = now
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ", "p":
		m.paused = !m.paused
	case "d":
		if m.direction == gait.Right {
			m.direction = gait.Left
		} else {
			m.direction = gait.Right
		}
	case "r":
		if err := m.start(); err != nil {
			return m, tea.Quit
		}
		return m, tea.ClearScreen
	case "s":
		m.step()
	case "+", "=":
		m.speed = math.Min(m.speed*2, 16)
	case "-", "_":
		m.speed = math.Max(m.speed/2, 0.25)
	case "0":
		m.speed = 1.0
	}
	return m, nil
}

func (m *model) start() error {
	e, err := experiment.New(m.cfg.Clone(), nil)
	if err != nil {
		return err
	}
	m.exp = e
	m.log = &transitionLog{}
	e.Observe(m.log)
	m.direction = m.cfg.Direction
	m.simTime = 0
	m.speed = 1.0
	m.paused = false
	m.history = make([]float64, 0, 60)
	m.lastFrame = time.Time{}
	m.sample = e.GetSimulator().Snapshot(0, gait.Outcome{Active: e.Sequencer().State().Phase()})
	return nil
}

// advance runs as many ticks as fit in one frame at the current speed.
func (m *model) advance() {
	steps := int(m.speed * 0.016 / m.cfg.Dt)
	if steps < 1 {
		steps = 1
	}
	for i := 0; i < steps; i++ {
		m.step()
	}
}

func (m *model) step() {
	s := m.exp.GetSimulator()
	out := s.Step(m.cfg.Dt, m.direction)
	m.simTime += m.cfg.Dt
	m.sample = s.Snapshot(m.simTime, out)

	m.history = append(m.history, m.sample.BodyX)
	if len(m.history) > 60 {
		m.history = m.history[1:]
	}
}

func (m model) View() string {
	cw := m.width - 6
	ch := m.height - 16
	if cw < 50 {
		cw = 50
	}
	if ch < 10 {
		ch = 10
	}

	c := newCanvas(cw, ch)
	drawCritter(c, m.sample)

	var b strings.Builder

	statusIcon := green.Render("●")
	statusText := green.Render("walking")
	if m.paused {
		statusIcon = yellow.Render("○")
		statusText = yellow.Render("paused")
	}
	b.WriteString(fmt.Sprintf("\n   %s %s  %s  %s\n",
		statusIcon, cyan.Render("critter"), statusText,
		dim.Render(fmt.Sprintf("dir=%s  %.1fx  %.0ffps", m.direction, m.speed, m.fps))))

	st := m.exp.Sequencer().State()
	budget := m.exp.Sequencer().Params().MaxTimeForState(st.Phase(), m.direction)
	b.WriteString(fmt.Sprintf("   %s %s  %s\n\n",
		white.Render(st.Phase().String()),
		m.bar(st.Timer/budget, 24),
		dim.Render(fmt.Sprintf("%.2fs/%.1fs  t=%.1fs", st.Timer, budget, m.simTime))))

	for _, row := range c.rows() {
		b.WriteString("   " + row + "\n")
	}
	b.WriteString("\n")

	active := gait.ActiveSide(st, m.direction)
	for _, side := range limb.Sides() {
		label := dim.Render(fmt.Sprintf("%-17s", side))
		if side == active {
			label = cyan.Render(fmt.Sprintf("%-17s", side))
		}
		b.WriteString(fmt.Sprintf("   %s %s %s\n", label, m.bar(m.sample.Progress[side], 20),
			white.Render(fmt.Sprintf("%.2f", m.sample.Progress[side]))))
	}

	if len(m.history) > 1 {
		b.WriteString(fmt.Sprintf("\n   %s %s %s\n", dim.Render("x"), cyan.Render(sparkline(m.history, 24)),
			white.Render(fmt.Sprintf("%.2f", m.sample.BodyX))))
	}

	b.WriteString("\n")
	for _, t := range m.log.lines {
		reason := green.Render(t.Reason.String())
		if t.Reason == gait.Timeout {
			reason = red.Render(t.Reason.String())
		}
		b.WriteString(fmt.Sprintf("   %s %s → %s  %s\n",
			dim.Render(fmt.Sprintf("%6.2fs", t.Clock)), t.From, t.To, reason))
	}

	b.WriteString("\n" + dim.Render("   space pause  d direction  s step  ±speed  r reset  q quit") + "\n")

	return b.String()
}

func (m model) bar(frac float64, w int) string {
	frac = math.Max(0, math.Min(1, frac))
	filled := int(frac * float64(w))
	return cyan.Render(strings.Repeat("━", filled)) + dimmer.Render(strings.Repeat("─", w-filled))
}

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	step := len(data) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		v := data[i*step]
		idx := int((v - minVal) / rang * 7)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}

func RunInteractive(cfg *config.Config) error {
	app, err := NewInteractiveApp(cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
