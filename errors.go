package magicjson

import (
	"errors"

	"github.com/hengadev/errsx"
	"github.com/hengadev/magicjson/internal/magicerr"
)

var (
	// Field errors reported by strict decoding
	ErrMissingField    = magicerr.ErrMissingField
	ErrMalformedValue  = magicerr.ErrMalformedValue
	ErrUnterminated    = magicerr.ErrUnterminated
	ErrUnsupportedType = magicerr.ErrUnsupportedType

	ErrInvalidTarget        = magicerr.ErrInvalidTarget
	ErrInvalidConfiguration = magicerr.ErrInvalidConfiguration

	// ErrNotFound is returned by the document store for unknown keys.
	ErrNotFound = magicerr.ErrNotFound
)

// IsMissingField reports whether err, or any entry of a strict decode report,
// is a missing field.
func IsMissingField(err error) bool {
	return isAny(err, ErrMissingField)
}

func IsMalformedValue(err error) bool {
	return isAny(err, ErrMalformedValue)
}

func IsUnterminated(err error) bool {
	return isAny(err, ErrUnterminated)
}

func IsUnsupportedType(err error) bool {
	return isAny(err, ErrUnsupportedType)
}

func IsInvalidTarget(err error) bool {
	return errors.Is(err, ErrInvalidTarget)
}

func IsInvalidConfiguration(err error) bool {
	return isAny(err, ErrInvalidConfiguration)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// FieldErrors extracts the per-field report from a strict decode error.
func FieldErrors(err error) (errsx.Map, bool) {
	var m errsx.Map
	if errors.As(err, &m) {
		return m, true
	}
	return nil, false
}

func isAny(err error, target error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, target) {
		return true
	}
	if m, ok := FieldErrors(err); ok {
		for _, e := range m {
			if errors.Is(e, target) {
				return true
			}
		}
	}
	return false
}
