package magicerr

import (
	"errors"
	"fmt"
)

var (
	// Field errors
	ErrMissingField    = errors.New("missing field")
	ErrMalformedValue  = errors.New("malformed value")
	ErrUnterminated    = errors.New("unterminated value")
	ErrUnsupportedType = errors.New("unsupported type")

	// Target errors
	ErrInvalidTarget = errors.New("invalid target")

	// Configuration errors
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// Storage errors
	ErrNotFound = errors.New("document not found")
)

func NewMissingFieldError(path string, action Action) error {
	return fmt.Errorf("%w: '%s' not found to %s", ErrMissingField, path, action)
}

func NewMalformedValueError(path string, expected string, raw string, action Action) error {
	return fmt.Errorf("%w: '%s' expected %s to %s, got %q",
		ErrMalformedValue, path, expected, action, raw)
}

func NewUnterminatedError(path string, action Action) error {
	return fmt.Errorf("%w: '%s' has no closing delimiter to %s", ErrUnterminated, path, action)
}

func NewUnsupportedTypeError(path string, typeName string, action Action) error {
	return fmt.Errorf("%w: '%s' has unsupported type %s for %s operation",
		ErrUnsupportedType, path, typeName, action)
}

func NewInvalidTargetError(details string, action Action) error {
	return fmt.Errorf("%w: %s to %s", ErrInvalidTarget, details, action)
}

func NewInvalidConfigurationError(setting string, details string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidConfiguration, setting, details)
}

func NewNotFoundError(kind string, key string) error {
	return fmt.Errorf("%w: %s/%s to %s", ErrNotFound, kind, key, Store)
}
