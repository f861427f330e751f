package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the repository and service layers. Handlers
// map ErrValidation to 400 and ErrNotFound to 404; everything else is a 500.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)

// NotFoundf wraps ErrNotFound with a formatted context message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// Validationf wraps ErrValidation with a formatted context message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}
