// Package gait sequences the eight limb-motion phases of a walking critter.
//
// One phase is active at a time. Each phase drives a single axis in a single
// direction and ends on whichever of two guards fires first:
//
//   - [TimedOut]: the phase timer reached the phase's time budget
//   - [ThresholdFinished]: the axis progress crossed its halt threshold
//
// On completion every axis is halted (locked, drive off) and the sequence
// advances to the next phase of the active [Order], wrapping after eight.
// The timeout guard bounds every phase, so a jammed limb never stalls the
// cycle.
//
// [Step] is the pure transition function over a serializable [State].
// [Sequencer] binds a State to a [limb.Actuator] and runs Step once per tick:
//
//	seq, err := gait.NewSequencer(head, gait.DefaultParams())
//	for {
//	    seq.Tick(dt, gait.Right)
//	    body.Step(dt)
//	}
package gait
