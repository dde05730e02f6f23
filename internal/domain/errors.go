package domain

import (
	"errors"
	"fmt"
)

// ErrValidation is wrapped by every constructor failure in this package.
// Callers classify input errors with errors.Is(err, ErrValidation).
var ErrValidation = errors.New("invalid pokemon")

// Specific validation failures. Each one wraps ErrValidation.
var (
	ErrInvalidNumber = fmt.Errorf("%w: number out of range", ErrValidation)
	ErrInvalidName   = fmt.Errorf("%w: bad name", ErrValidation)
	ErrInvalidTypes  = fmt.Errorf("%w: bad types", ErrValidation)
)
