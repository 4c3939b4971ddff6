package core

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when no usable text was supplied.
	ErrEmptyInput = errors.New("empty input")
	// ErrMalformedInput is returned when a URL has no identifiable host.
	ErrMalformedInput = errors.New("malformed input")
	// ErrModelNotLoaded is returned when the pipeline is invoked before
	// the model artifacts were loaded. This is a fatal startup
	// precondition, never a per-request condition.
	ErrModelNotLoaded = errors.New("model not loaded")
)

// InferenceError indicates a feature vector of the wrong width reached
// the classifier. It signals an internal bug, not a user error.
type InferenceError struct {
	Got  int
	Want int
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference: vector width %d, model expects %d", e.Got, e.Want)
}
