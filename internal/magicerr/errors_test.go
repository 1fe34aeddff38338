package magicerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAction_String(t *testing.T) {
	tests := []struct {
		name     string
		action   Action
		expected string
	}{
		{name: "Unknown action", action: Unknown, expected: "unknown"},
		{name: "Encode action", action: Encode, expected: "encode"},
		{name: "Decode action", action: Decode, expected: "decode"},
		{name: "Generate action", action: Generate, expected: "generate"},
		{name: "Store action", action: Store, expected: "store"},
		{name: "Out of range action", action: Action(99), expected: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.action.String())
		})
	}
}

func TestConstructors_WrapSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		contains string
	}{
		{"missing field", NewMissingFieldError("employees[0].name", Decode), ErrMissingField, "'employees[0].name' not found to decode"},
		{"malformed value", NewMalformedValueError("id", "integer", "abc", Decode), ErrMalformedValue, `got "abc"`},
		{"unterminated", NewUnterminatedError("items", Decode), ErrUnterminated, "no closing delimiter"},
		{"unsupported", NewUnsupportedTypeError("tags", "map[string]string", Decode), ErrUnsupportedType, "map[string]string"},
		{"invalid target", NewInvalidTargetError("target must be a non-nil pointer", Decode), ErrInvalidTarget, "non-nil pointer"},
		{"invalid configuration", NewInvalidConfigurationError("log_level", "must be one of debug, info, warn, error"), ErrInvalidConfiguration, "log_level"},
		{"not found", NewNotFoundError("employee", "42"), ErrNotFound, "employee/42 to store"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.sentinel))
			assert.Contains(t, tt.err.Error(), tt.contains)
		})
	}
}
