package physics

import "errors"

var (
	ErrInvalidLimits = errors.New("physics: travel limits inverted")
	ErrInvalidLoad   = errors.New("physics: load must not be negative")
)
