package magicjson

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hengadev/errsx"
	"github.com/hengadev/magicjson/internal/magicerr"
	"github.com/stretchr/testify/assert"
)

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"missing field", magicerr.NewMissingFieldError("id", magicerr.Decode), IsMissingField},
		{"malformed value", magicerr.NewMalformedValueError("id", "int", "x", magicerr.Decode), IsMalformedValue},
		{"unterminated", magicerr.NewUnterminatedError("name", magicerr.Decode), IsUnterminated},
		{"unsupported type", magicerr.NewUnsupportedTypeError("attrs", "map[string]int", magicerr.Decode), IsUnsupportedType},
		{"invalid target", magicerr.NewInvalidTargetError("nil", magicerr.Decode), IsInvalidTarget},
		{"invalid configuration", magicerr.NewInvalidConfigurationError("tag", "empty"), IsInvalidConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
			assert.True(t, tt.check(fmt.Errorf("wrapped: %w", tt.err)))
			assert.False(t, tt.check(errors.New("other")))
			assert.False(t, tt.check(nil))
		})
	}
}

func TestErrorHelpers_FieldReport(t *testing.T) {
	var errs errsx.Map
	errs.Set("employees[0].salary", magicerr.NewMalformedValueError("employees[0].salary", "float64", "x", magicerr.Decode))
	err := fmt.Errorf("decode employee list: %w", errs.AsError())

	assert.True(t, IsMalformedValue(err))
	assert.False(t, IsMissingField(err))

	report, ok := FieldErrors(err)
	assert.True(t, ok)
	assert.Contains(t, report, "employees[0].salary")
}
