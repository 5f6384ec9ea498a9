package view

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks startup failures such as a missing reference
	// image. They are fatal before the dispatch loop starts.
	ErrConfiguration = errors.New("configuration error")

	// ErrNoCanvas is returned while no scaled image exists yet, i.e. before the
	// first usable resize.
	ErrNoCanvas = errors.New("canvas not sized")

	// ErrInvalidSize is returned for canvas sizes too small to lay out.
	ErrInvalidSize = errors.New("invalid canvas size")

	// ErrUnknownInput is returned for button or stick ids outside the layout.
	ErrUnknownInput = errors.New("unknown input")

	errBadCoordinates = errors.New("non-finite coordinates")
)

// RenderError is a failure to composite a single frame. It is transient: the
// previously displayed frame stays up and the next tick proceeds normally.
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// IsTransient reports whether err is a RenderError.
func IsTransient(err error) bool {
	var re *RenderError
	return errors.As(err, &re)
}
