// Package actuator translates per-side lock and drive commands into physical
// joint state and reports normalized limb position.
//
// A [Head] implements [limb.Actuator] over a [physics.Body]. How an axis is
// held in place is delegated to a [LockStrategy]:
//
//   - [FixedLock]: disables the slider and engages a rigid hold constraint
//   - [LimitsLock]: squeezes the travel limits around the current position,
//     leaving a small compliance band
//
// [Manual] applies raw signed inputs per axis for interactive testing,
// bypassing the gait sequencer.
package actuator
