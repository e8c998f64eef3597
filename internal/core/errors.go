package core

import (
	"errors"
	"fmt"
)

var (
	ErrValidation       = errors.New("invalid input")
	ErrModelUnavailable = errors.New("model files are not loaded")
	ErrScalerNotFitted  = errors.New("scaler is not fitted")
	ErrModelNotFitted   = errors.New("cluster model is not fitted")
)

// ValidationError reports which input field was rejected and why.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
