package codegen

import (
	"testing"

	"github.com/hengadev/errsx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagValidator_ValidateField(t *testing.T) {
	validator := NewTagValidator()

	tests := []struct {
		name      string
		field     FieldInfo
		wantCount int
	}{
		{"plain go name", FieldInfo{Name: "ID", Key: "ID", Exported: true}, 0},
		{"json option tolerated", FieldInfo{Name: "ID", Key: "id", TagName: "json", Options: []string{"omitempty"}, Exported: true}, 0},
		{"unknown json option", FieldInfo{Name: "ID", Key: "id", TagName: "json", Options: []string{"bogus"}, Exported: true}, 1},
		{"primary tag takes no options", FieldInfo{Name: "ID", Key: "id", TagName: "magic", Options: []string{"omitempty"}, Exported: true}, 1},
		{"reserved character", FieldInfo{Name: "ID", Key: "a:b", TagName: "magic", Exported: true}, 1},
		{"quote in key", FieldInfo{Name: "ID", Key: `a"b`, TagName: "magic", Exported: true}, 1},
		{"empty key", FieldInfo{Name: "ID", Key: "", Exported: true}, 1},
		{"untagged embedded", FieldInfo{Name: "Base", Key: "Base", Type: "Base", Embedded: true, Exported: true}, 1},
		{"embedded pointer", FieldInfo{Name: "Base", Key: "Base", Type: "*Base", Embedded: true, Exported: true}, 0},
		{"skipped field", FieldInfo{Name: "X", Key: "", Skip: true}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, validator.ValidateField(tt.field, "magic"), tt.wantCount)
		})
	}
}

func TestTagValidator_ValidateStruct(t *testing.T) {
	validator := NewTagValidator()

	t.Run("valid struct", func(t *testing.T) {
		info := &StructInfo{StructName: "Employee", Fields: []FieldInfo{
			{Name: "ID", Key: "id", TagName: "magic", Exported: true, IsValid: true},
			{Name: "Name", Key: "name", TagName: "magic", Exported: true, IsValid: true},
			{Name: "secret", Key: "id", Exported: false, IsValid: true},
		}}
		assert.NoError(t, validator.ValidateStruct(info, "magic"))
	})

	t.Run("duplicate and reserved keys", func(t *testing.T) {
		info := &StructInfo{StructName: "Employee", Fields: []FieldInfo{
			{Name: "ID", Key: "id", TagName: "magic", Exported: true, IsValid: true},
			{Name: "Other", Key: "id", TagName: "json", Exported: true, IsValid: true},
			{Name: "Bad", Key: "a b", TagName: "magic", Exported: true, IsValid: true},
		}}

		err := validator.ValidateStruct(info, "magic")
		require.Error(t, err)
		errs, ok := err.(errsx.Map)
		require.True(t, ok, "expected error to be of type errsx.Map")
		assert.Len(t, errs, 2)
		assert.Contains(t, errs, "Other")
		assert.Contains(t, errs, "Bad")

		assert.True(t, info.Fields[0].IsValid)
		assert.False(t, info.Fields[1].IsValid)
		assert.NotEmpty(t, info.Fields[1].ValidationErrors)
	})

	t.Run("generic struct", func(t *testing.T) {
		info := &StructInfo{StructName: "Box", Generic: true}
		err := validator.ValidateStruct(info, "magic")
		require.Error(t, err)
		assert.Contains(t, err.(errsx.Map), "Box")
	})
}

func TestValidationError(t *testing.T) {
	assert.Equal(t, "field 'ID' tag 'magic': bad", ValidationError{Field: "ID", Tag: "magic", Message: "bad"}.Error())
	assert.Equal(t, "field 'ID': bad", ValidationError{Field: "ID", Message: "bad"}.Error())
}
