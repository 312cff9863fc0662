package actuator

import "errors"

var (
	ErrInvalidConfig   = errors.New("actuator: invalid configuration")
	ErrUnknownStrategy = errors.New("actuator: unknown lock strategy")
)
