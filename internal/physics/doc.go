// Package physics provides the kinematic substrate the critter walks on.
//
// Each actuator axis is a [Joint]: a linear slider with inclusive travel
// limits, a rigid hold constraint, and a speed-controlled motor whose torque
// limit derates its speed under load. A [Body] owns the four joints and
// integrates the body's ground position from planted-foot motion.
//
// The substrate owns joint state. Controllers reach it only through the
// actuator layer, which keeps Translation inside Limits at all times.
package physics
