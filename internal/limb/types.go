package limb

import (
	"fmt"
	"math"
	"strings"
)

type Side int

const (
	LeftHorizontal Side = iota
	LeftVertical
	RightHorizontal
	RightVertical
)

// NumSides is the fixed number of actuated axes on a critter.
const NumSides = 4

var sideNames = [NumSides]string{"left_horizontal", "left_vertical", "right_horizontal", "right_vertical"}

// Sides returns all axes in index order.
func Sides() []Side {
	return []Side{LeftHorizontal, LeftVertical, RightHorizontal, RightVertical}
}

func (s Side) String() string {
	if !s.Valid() {
		return fmt.Sprintf("side(%d)", int(s))
	}
	return sideNames[s]
}

func (s Side) Valid() bool {
	return s >= LeftHorizontal && s <= RightVertical
}

func (s Side) Vertical() bool {
	return s == LeftVertical || s == RightVertical
}

func (s Side) Left() bool {
	return s == LeftHorizontal || s == LeftVertical
}

// Partner returns the other axis on the same leg.
func (s Side) Partner() Side {
	switch s {
	case LeftHorizontal:
		return LeftVertical
	case LeftVertical:
		return LeftHorizontal
	case RightHorizontal:
		return RightVertical
	default:
		return RightHorizontal
	}
}

func ParseSide(name string) (Side, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range sideNames {
		if s == n {
			return Side(i), nil
		}
	}
	return 0, fmt.Errorf("unknown side: %q", name)
}

type Drive int

const (
	Off Drive = iota
	Extend
	Retract
)

func (d Drive) String() string {
	switch d {
	case Off:
		return "off"
	case Extend:
		return "extend"
	case Retract:
		return "retract"
	default:
		return fmt.Sprintf("drive(%d)", int(d))
	}
}

// Sign returns +1 for Extend, -1 for Retract and 0 for Off.
func (d Drive) Sign() float64 {
	switch d {
	case Extend:
		return 1
	case Retract:
		return -1
	default:
		return 0
	}
}

// Actuator is the capability set the gait sequencer drives.
type Actuator interface {
	SetLock(side Side, locked bool)
	SetMotor(side Side, d Drive)
	Progress(side Side) float64
}

// Command pairs the lock state and drive of one axis. Applying a command
// always sets the lock before the drive.
type Command struct {
	Side   Side  `json:"side"`
	Locked bool  `json:"locked"`
	Drive  Drive `json:"drive"`
}

func (c Command) String() string {
	if c.Locked {
		return fmt.Sprintf("%s:lock", c.Side)
	}
	return fmt.Sprintf("%s:%s", c.Side, c.Drive)
}

// ZeroInput is the magnitude below which a motion input counts as no motion.
const ZeroInput = 1e-6

// Motion converts a signed input for an axis into a command. A zero input
// locks the axis with the drive off; otherwise the axis is unlocked and driven
// in the direction of the input's sign.
func Motion(side Side, input float64) Command {
	if math.Abs(input) < ZeroInput {
		return Command{Side: side, Locked: true, Drive: Off}
	}
	d := Retract
	if input > 0 {
		d = Extend
	}
	return Command{Side: side, Locked: false, Drive: d}
}

// Halt locks every axis with its drive off.
func Halt() []Command {
	cmds := make([]Command, 0, NumSides)
	for _, s := range Sides() {
		cmds = append(cmds, Motion(s, 0))
	}
	return cmds
}

func Apply(a Actuator, cmds ...Command) {
	for _, c := range cmds {
		a.SetLock(c.Side, c.Locked)
		a.SetMotor(c.Side, c.Drive)
	}
}
