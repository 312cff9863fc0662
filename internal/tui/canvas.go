package tui

import (
	"strings"

	"github.com/san-kum/critter/internal/limb"
	"github.com/san-kum/critter/internal/sim"
)

const (
	legReach  = 6.0
	legLift   = 3.0
	legLength = 4
	tickEvery = 6
	// columns per unit of body travel
	groundScale = 8.0
)

type canvas struct {
	w, h  int
	cells [][]rune
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([][]rune, h)}
	for i := range c.cells {
		c.cells[i] = make([]rune, w)
	}
	c.clear()
	return c
}

func (c *canvas) clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = ' '
		}
	}
}

func (c *canvas) set(x, y int, r rune) {
	if x >= 0 && x < c.w && y >= 0 && y < c.h {
		c.cells[y][x] = r
	}
}

func (c *canvas) line(x1, y1, x2, y2 int, r rune) {
	dx := intAbs(x2 - x1)
	dy := intAbs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		c.set(x1, y1, r)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func (c *canvas) rows() []string {
	out := make([]string, len(c.cells))
	for i, row := range c.cells {
		out[i] = string(row)
	}
	return out
}

func (c *canvas) String() string {
	return strings.Join(c.rows(), "\n")
}

// drawCritter draws the critter side-on with the camera following the
// body. Ground ticks scroll as the body moves.
func drawCritter(c *canvas, smp sim.Sample) {
	ground := c.h - 2
	offset := int(smp.BodyX * groundScale)
	for x := 0; x < c.w; x++ {
		r := '─'
		if ((x+offset)%tickEvery+tickEvery)%tickEvery == 0 {
			r = '┴'
		}
		c.set(x, ground+1, r)
	}

	cx := c.w / 2
	bodyY := ground - legLength - int(legLift)
	for x := cx - 4; x <= cx+4; x++ {
		c.set(x, bodyY, '█')
	}

	drawLeg(c, cx-3, bodyY+1, ground, smp.Progress[limb.LeftHorizontal], smp.Progress[limb.LeftVertical], -1)
	drawLeg(c, cx+3, bodyY+1, ground, smp.Progress[limb.RightHorizontal], smp.Progress[limb.RightVertical], 1)
}

// drawLeg draws one leg from its hip. dir is the direction the foot moves
// when the horizontal axis extends.
func drawLeg(c *canvas, hipX, hipY, ground int, horizontal, vertical float64, dir int) {
	footX := hipX + dir*int((horizontal-0.5)*2*legReach)
	footY := ground - int((1-vertical)*legLift+0.5)
	c.line(hipX, hipY, footX, footY, '│')
	foot := '●'
	if vertical < 0.5 {
		foot = '○'
	}
	c.set(footX, footY, foot)
}

func intAbs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
