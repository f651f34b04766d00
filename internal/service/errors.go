package service

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned for empty or whitespace-only text.
	ErrEmptyInput = errors.New("message is empty")
	// ErrPredict matches any *PredictError via errors.Is.
	ErrPredict = errors.New("prediction failed")
)

// PredictError wraps a vectorizer or classifier failure for one request.
// The loaded artifacts stay usable afterwards.
type PredictError struct {
	Stage string
	Err   error
}

func (e *PredictError) Error() string {
	return fmt.Sprintf("prediction failed during %s: %v", e.Stage, e.Err)
}

func (e *PredictError) Unwrap() error { return e.Err }

func (e *PredictError) Is(target error) bool { return target == ErrPredict }
