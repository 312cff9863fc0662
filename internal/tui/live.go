package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/critter/internal/limb"
	"github.com/san-kum/critter/internal/sim"
)

const (
	width       = 70
	height      = 14
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer streams frames of a running walk to a terminal. It is a
// sim.Observer paced to simulated time: it draws at most frameRate frames
// per simulated second and sleeps between frames so the walk plays back in
// real time. A frameRate of zero or less renders every tick unpaced.
type LiveRenderer struct {
	out       io.Writer
	frameRate int
	canvas    *canvas

	nextFrame float64
	lastTime  float64
	drawn     bool
	sleep     func(time.Duration)
}

var _ sim.Observer = (*LiveRenderer)(nil)

func NewLiveRenderer(out io.Writer, frameRate int) *LiveRenderer {
	return &LiveRenderer{
		out:       out,
		frameRate: frameRate,
		canvas:    newCanvas(width, height),
		sleep:     time.Sleep,
	}
}

func (r *LiveRenderer) OnStep(s sim.Sample) {
	if r.frameRate > 0 {
		const eps = 1e-9
		if s.Time < r.nextFrame-eps {
			return
		}
		period := 1 / float64(r.frameRate)
		for r.nextFrame <= s.Time+eps {
			r.nextFrame += period
		}
		if r.drawn {
			r.sleep(time.Duration((s.Time - r.lastTime) * float64(time.Second)))
		}
		r.lastTime = s.Time
		r.drawn = true
	}

	r.canvas.clear()
	drawCritter(r.canvas, s)
	r.render(s)
}

func (r *LiveRenderer) render(s sim.Sample) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  t=%.2fs  x=%.2f\n", s.Phase, s.Time, s.BodyX))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas.rows() {
		b.WriteString("  ")
		b.WriteString(row)
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	b.WriteString("  ")
	for _, side := range limb.Sides() {
		b.WriteString(fmt.Sprintf("%s=%.2f ", side, s.Progress[side]))
	}
	b.WriteString("\n")

	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
