package codegen

import (
	"fmt"
	"strings"

	"github.com/hengadev/errsx"
)

// keyDelimiters may not appear in a key: the decoder finds values by
// scanning for the quoted key followed by a colon.
const keyDelimiters = "\"{}[],: \t\r\n"

// TagValidator handles validation of field keys and tag options
type TagValidator struct {
	// knownOptions are tolerated after the key in a json tag.
	knownOptions []string
}

// NewTagValidator creates a new tag validator
func NewTagValidator() *TagValidator {
	return &TagValidator{
		knownOptions: []string{"omitempty", "omitzero", "string", "inline"},
	}
}

// ValidateField checks one field and returns its problems as messages.
// Options are only tolerated on json tags; the primary tag takes none.
func (tv *TagValidator) ValidateField(field FieldInfo, primaryTag string) []string {
	var errors []string
	if field.Skip {
		return errors
	}

	if field.Key == "" {
		errors = append(errors, fmt.Sprintf("field '%s' has an empty key", field.Name))
	} else if i := strings.IndexAny(field.Key, keyDelimiters); i >= 0 {
		errors = append(errors, fmt.Sprintf("key '%s' of field '%s' contains reserved character %q", field.Key, field.Name, field.Key[i]))
	}

	for _, opt := range field.Options {
		opt = strings.TrimSpace(opt)
		if field.TagName == primaryTag || !tv.isKnownOption(opt) {
			errors = append(errors, fmt.Sprintf("unknown option '%s' in %s tag of field '%s'", opt, field.TagName, field.Name))
		}
	}

	if flattened(field) {
		errors = append(errors, fmt.Sprintf("embedded field '%s' needs a key: untagged embedded structs are only flattened reflectively", field.Name))
	}

	return errors
}

// ValidateStruct validates every field of info in place and returns all
// problems as an errsx.Map keyed by field name, or nil.
func (tv *TagValidator) ValidateStruct(info *StructInfo, primaryTag string) error {
	var errs errsx.Map

	if info.Generic {
		errs.Set(info.StructName, ValidationError{
			Field:   info.StructName,
			Tag:     primaryTag,
			Message: "generic structs are not supported",
		})
	}

	seen := make(map[string]string)
	for i := range info.Fields {
		field := &info.Fields[i]
		if !field.Encoded() && !flattened(*field) {
			continue
		}

		messages := tv.ValidateField(*field, primaryTag)
		if other, dup := seen[field.Key]; dup {
			messages = append(messages, fmt.Sprintf("key '%s' of field '%s' is already used by field '%s'", field.Key, field.Name, other))
		} else {
			seen[field.Key] = field.Name
		}

		if len(messages) > 0 {
			field.IsValid = false
			field.ValidationErrors = messages
			errs.Set(field.Name, ValidationError{
				Field:   field.Name,
				Tag:     field.TagName,
				Message: strings.Join(messages, "; "),
			})
		}
	}

	return errs.AsError()
}

// flattened reports whether the runtime classifier would merge the members
// of an embedded field into the parent record.
func flattened(field FieldInfo) bool {
	return field.Embedded && field.TagName == "" && !strings.HasPrefix(field.Type, "*")
}

// isKnownOption checks if an option is in the list of known options
func (tv *TagValidator) isKnownOption(opt string) bool {
	for _, known := range tv.knownOptions {
		if opt == known {
			return true
		}
	}
	return false
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Tag     string
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Tag == "" {
		return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
	}
	return fmt.Sprintf("field '%s' tag '%s': %s", ve.Field, ve.Tag, ve.Message)
}
