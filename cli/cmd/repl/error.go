package repl

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds  = errors.New("index out of range")
	ErrInterrupted  = errors.New("evaluation interrupted")
	ErrEditDeclined = errors.New("decline edit")
)
