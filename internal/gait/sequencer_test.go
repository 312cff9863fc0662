package gait

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/critter/internal/limb"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type transitionLog struct {
	transitions []Transition
}

func (l *transitionLog) OnTransition(t Transition) {
	l.transitions = append(l.transitions, t)
}

func TestNewSequencerRejectsInvalidParams(t *testing.T) {
	p := DefaultParams()
	p.VerticalHaltThreshold = 0.6
	if _, err := NewSequencer(newFakeActuator(nil), p); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}
}

func TestSequencerSingleActiveAxis(t *testing.T) {
	for _, d := range []Direction{Right, Left} {
		var seq *Sequencer
		act := newFakeActuator(func(side limb.Side) float64 {
			return finished(seq.State().Phase())
		})
		seq, err := NewSequencer(act, DefaultParams())
		if err != nil {
			t.Fatalf("NewSequencer: %v", err)
		}

		for tick := 0; tick < 3*OrderLen; tick++ {
			out := seq.Tick(0.02, d)

			free := act.free()
			driven := act.driven()
			if len(free) != 1 || len(driven) != 1 {
				t.Fatalf("%v tick %d: free=%v driven=%v", d, tick, free, driven)
			}
			if free[0] != out.Active.Side() || driven[0] != out.Active.Side() {
				t.Errorf("%v tick %d: free axis %v, active phase %v", d, tick, free[0], out.Active)
			}
		}
	}
}

func TestSequencerReadsActiveSide(t *testing.T) {
	act := newFakeActuator(func(side limb.Side) float64 { return 0.5 })
	seq, _ := NewSequencer(act, DefaultParams())

	seq.Tick(0.02, Right)
	seq.Tick(0.02, Left)

	if len(act.reads) != 2 {
		t.Fatalf("expected one read per tick, got %v", act.reads)
	}
	if act.reads[0] != limb.RightVertical || act.reads[1] != limb.LeftVertical {
		t.Errorf("reads = %v", act.reads)
	}
}

func TestSequencerUpThresholdScenario(t *testing.T) {
	tick := 0
	act := newFakeActuator(func(side limb.Side) float64 {
		if side != limb.LeftVertical {
			t.Fatalf("read %v during LeftLegUp", side)
		}
		return float64(20-tick) / 20
	})
	p := DefaultParams()
	p.MaxLiftTime = 3
	p.VerticalHaltThreshold = 0.1
	seq, _ := NewSequencer(act, p)
	log := &transitionLog{}
	seq.AddObserver(log)

	for tick = 1; tick <= 18; tick++ {
		if out := seq.Tick(0.02, Left); out.Advanced() {
			t.Fatalf("completed early on tick %d", tick)
		}
	}

	tick = 19
	out := seq.Tick(0.02, Left)
	if out.Reason != Threshold || out.Completed != LeftLegUp {
		t.Fatalf("tick 19: %+v", out)
	}
	if seq.State().Index != 1 || seq.State().Timer != 0 {
		t.Errorf("state after completion = %+v", seq.State())
	}
	if len(log.transitions) != 1 {
		t.Fatalf("transitions = %v", log.transitions)
	}
	tr := log.transitions[0]
	if tr.From != LeftLegUp || tr.To != LeftLegOut || tr.Index != 0 || tr.Direction != Left {
		t.Errorf("transition = %+v", tr)
	}
}

func TestSequencerStalledAxisTimesOut(t *testing.T) {
	act := newFakeActuator(func(side limb.Side) float64 { return 0.5 })
	seq, _ := NewSequencer(act, DefaultParams())

	core, logs := observer.New(zapcore.DebugLevel)
	seq.SetLogger(zap.New(core))

	ticks := 0
	for seq.State().Index == 0 {
		seq.Tick(0.02, Right)
		ticks++
		if ticks > 1000 {
			t.Fatal("stalled phase never timed out")
		}
	}
	if ticks != 150 {
		t.Errorf("timed out after %d ticks, want 150", ticks)
	}

	warn := logs.FilterMessage("phase timed out").All()
	if len(warn) != 1 {
		t.Fatalf("expected one timeout warning, got %d", len(warn))
	}
	if warn[0].Level != zapcore.WarnLevel {
		t.Errorf("level = %v, want warn", warn[0].Level)
	}
	fields := warn[0].ContextMap()
	if fields["phase"] != "RightLegUp" || fields["side"] != "right_vertical" {
		t.Errorf("fields = %v", fields)
	}
}

func TestSequencerLogsThresholdAtDebug(t *testing.T) {
	act := newFakeActuator(func(side limb.Side) float64 { return 0 })
	seq, _ := NewSequencer(act, DefaultParams())
	core, logs := observer.New(zapcore.DebugLevel)
	seq.SetLogger(zap.New(core))

	seq.Tick(0.02, Right)

	if logs.FilterMessage("phase finished").Len() != 1 {
		t.Errorf("expected a phase finished entry, got %v", logs.All())
	}
	if logs.FilterLevelExact(zapcore.WarnLevel).Len() != 0 {
		t.Error("threshold completion should not warn")
	}
}

func TestSequencerRestore(t *testing.T) {
	act := newFakeActuator(nil)
	seq, _ := NewSequencer(act, DefaultParams())

	if err := seq.Restore(State{Index: 9}); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}

	st := State{Index: 5, Timer: 1.25, Direction: Left}
	if err := seq.Restore(st); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if seq.State() != st {
		t.Errorf("state = %+v, want %+v", seq.State(), st)
	}

	out := seq.Tick(0.02, Left)
	if out.Active != RightLegIn {
		t.Errorf("active = %v, want RightLegIn", out.Active)
	}
	if len(act.free()) != 1 {
		t.Errorf("restore should halt other axes, free = %v", act.free())
	}
}

func TestSequencerClock(t *testing.T) {
	seq, _ := NewSequencer(newFakeActuator(nil), DefaultParams())
	for i := 0; i < 10; i++ {
		seq.Tick(0.1, Right)
	}
	if c := seq.Clock(); c < 0.999 || c > 1.001 {
		t.Errorf("clock = %v, want 1.0", c)
	}
}

func TestSequencerIgnoresUnusableTickInput(t *testing.T) {
	act := newFakeActuator(func(limb.Side) float64 { return 0.5 })
	seq, _ := NewSequencer(act, DefaultParams())
	core, logs := observer.New(zapcore.DebugLevel)
	seq.SetLogger(zap.New(core))

	seq.Tick(0.02, Left)
	out := seq.Tick(math.NaN(), Direction(7))

	st := seq.State()
	if st.Direction != Left || st.Index != 0 {
		t.Errorf("state = %+v, want left at index 0", st)
	}
	if math.Abs(st.Timer-0.02) > 1e-12 || math.Abs(seq.Clock()-0.02) > 1e-12 {
		t.Errorf("timer = %v clock = %v, want both 0.02", st.Timer, seq.Clock())
	}
	if out.Active != OrderFor(Left)[0] {
		t.Errorf("active = %v, want %v", out.Active, OrderFor(Left)[0])
	}
	if logs.FilterMessage("invalid tick input").Len() != 1 {
		t.Errorf("expected one invalid input warning, got %v", logs.All())
	}
}
