package gait

import "errors"

var (
	// ErrInvalidParams indicates a non-positive duration or a halt threshold
	// outside (0, 0.5).
	ErrInvalidParams = errors.New("gait: invalid parameters")

	// ErrInvalidState indicates a restored state with an out-of-range index,
	// a negative timer or an unknown direction.
	ErrInvalidState = errors.New("gait: invalid sequencer state")

	ErrUnknownDirection = errors.New("gait: unknown direction")
)
