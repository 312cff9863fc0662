package gait

import (
	"fmt"
	"strings"

	"github.com/san-kum/critter/internal/limb"
)

type MoveState int

const (
	LeftLegUp MoveState = iota
	LeftLegOut
	LeftLegDown
	LeftLegIn
	RightLegUp
	RightLegOut
	RightLegDown
	RightLegIn
)

// OrderLen is the number of phases in one gait cycle.
const OrderLen = 8

var moveNames = [OrderLen]string{
	"LeftLegUp", "LeftLegOut", "LeftLegDown", "LeftLegIn",
	"RightLegUp", "RightLegOut", "RightLegDown", "RightLegIn",
}

func (m MoveState) String() string {
	if m < 0 || int(m) >= OrderLen {
		return fmt.Sprintf("MoveState(%d)", int(m))
	}
	return moveNames[m]
}

// Motion is the kind of movement a phase performs.
type Motion int

const (
	Up Motion = iota
	Out
	Down
	In
)

func (m Motion) String() string {
	switch m {
	case Up:
		return "up"
	case Out:
		return "out"
	case Down:
		return "down"
	default:
		return "in"
	}
}

func (m MoveState) Motion() Motion {
	return Motion(int(m) % 4)
}

func (m MoveState) Left() bool {
	return m < RightLegUp
}

// Side returns the axis a phase drives.
func (m MoveState) Side() limb.Side {
	vertical := m.Motion() == Up || m.Motion() == Down
	switch {
	case m.Left() && vertical:
		return limb.LeftVertical
	case m.Left():
		return limb.LeftHorizontal
	case vertical:
		return limb.RightVertical
	default:
		return limb.RightHorizontal
	}
}

// Input returns the signed drive input for a phase: +1 (Extend) for Down and
// Out, -1 (Retract) for Up and In.
func (m MoveState) Input() float64 {
	switch m.Motion() {
	case Down, Out:
		return 1
	default:
		return -1
	}
}

type Direction int

const (
	Right Direction = iota
	Left
)

func (d Direction) String() string {
	switch d {
	case Right:
		return "right"
	case Left:
		return "left"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

func (d Direction) Valid() bool {
	return d == Right || d == Left
}

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "right", "":
		return Right, nil
	case "left":
		return Left, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
	}
}

func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDirection, int(d))
	}
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	parsed, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Order is one full gait cycle.
type Order [OrderLen]MoveState

var (
	orderRight = Order{RightLegUp, LeftLegOut, RightLegOut, RightLegDown, LeftLegUp, RightLegIn, LeftLegIn, LeftLegDown}
	orderLeft  = Order{LeftLegUp, LeftLegOut, LeftLegDown, LeftLegIn, RightLegUp, RightLegIn, RightLegDown, RightLegOut}
)

// OrderFor returns the phase order for a gait direction.
func OrderFor(d Direction) Order {
	if d == Left {
		return orderLeft
	}
	return orderRight
}

// Reason records why a phase ended.
type Reason int

const (
	None Reason = iota
	Timeout
	Threshold
)

func (r Reason) String() string {
	switch r {
	case Timeout:
		return "timeout"
	case Threshold:
		return "threshold"
	default:
		return "none"
	}
}
