// Package limb provides the shared vocabulary between the gait sequencer
// and the actuator layer.
//
// The package defines the fundamental types for driving a four-axis critter:
//
//   - [Side]: one of the four linear actuator axes
//   - [Drive]: drive command for an axis (Off, Extend, Retract)
//   - [Actuator]: the capability set a substrate must expose
//   - [Command]: a paired lock + drive instruction for one axis
//
// # Sign convention
//
// For vertical axes Extend moves the foot down (toward the planted end of
// travel). For horizontal axes Extend moves the foot outward. Progress on
// every axis is 0 at the retracted end and 1 at the extended end.
//
// # Example
//
//	cmds := append(limb.Halt(), limb.Motion(limb.LeftVertical, -1))
//	limb.Apply(head, cmds...)
package limb
