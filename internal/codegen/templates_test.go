package codegen

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTemplateEngine(t *testing.T) {
	engine, err := NewTemplateEngine()
	require.NoError(t, err)
	assert.NotNil(t, engine)
}

func TestGenerateCode(t *testing.T) {
	engine, err := NewTemplateEngine()
	require.NoError(t, err)

	data := TemplateData{
		PackageName: "test",
		Structs: []TemplateStruct{
			{
				Name: "User",
				Fields: []TemplateField{
					{Name: "ID", Key: "id", Type: "int"},
					{Name: "Email", Key: "email", Type: "string"},
				},
			},
			{Name: "Empty"},
		},
	}

	code, err := engine.GenerateCode(data)
	require.NoError(t, err)
	codeStr := string(code)

	assert.Contains(t, codeStr, "// Code generated by magicjson-gen. DO NOT EDIT.")
	assert.Contains(t, codeStr, "package test")
	assert.Contains(t, codeStr, `import "github.com/hengadev/magicjson"`)
	assert.Contains(t, codeStr, "func (*User) MagicFields() []magicjson.Field {")
	assert.Contains(t, codeStr, `{Name: "id", Ref: func(r any) any { return &r.(*User).ID }},`)
	assert.Contains(t, codeStr, `{Name: "email", Ref: func(r any) any { return &r.(*User).Email }},`)
	assert.Contains(t, codeStr, "func (*Empty) MagicFields() []magicjson.Field {")
}

func TestGenerateCode_CustomImportPath(t *testing.T) {
	engine, err := NewTemplateEngine()
	require.NoError(t, err)

	code, err := engine.GenerateCode(TemplateData{PackageName: "x", ImportPath: "example.com/fork/magicjson"})
	require.NoError(t, err)
	assert.Contains(t, string(code), `import "example.com/fork/magicjson"`)
}

func TestGenerateCode_InvalidPackageName(t *testing.T) {
	engine, err := NewTemplateEngine()
	require.NoError(t, err)

	_, err = engine.GenerateCode(TemplateData{PackageName: "not a name"})
	assert.Error(t, err)
}

func TestBuildTemplateData(t *testing.T) {
	structs := []StructInfo{{
		StructName: "Employee",
		Fields: []FieldInfo{
			{Name: "ID", Key: "id", Type: "int", Exported: true},
			{Name: "Secret", Key: "Secret", Type: "string", Exported: true, Skip: true},
			{Name: "note", Key: "note", Type: "string"},
		},
	}}

	data := BuildTemplateData("db", structs, GenerationConfig{ImportPath: DefaultImportPath})
	assert.Equal(t, "db", data.PackageName)
	require.Len(t, data.Structs, 1)
	assert.Equal(t, []TemplateField{{Name: "ID", Key: "id", Type: "int"}}, data.Structs[0].Fields)
}

// The checked-in sample descriptors must be exactly what the generator
// produces from their source.
func TestGenerateCode_SampleRecordsUpToDate(t *testing.T) {
	const dir = "../../examples/db"

	structs, err := DiscoverStructs(dir, nil)
	require.NoError(t, err)
	require.Len(t, structs, 3)

	engine, err := NewTemplateEngine()
	require.NoError(t, err)

	code, err := engine.GenerateCode(BuildTemplateData("db", structs, GenerationConfig{}))
	require.NoError(t, err)

	want, err := os.ReadFile(dir + "/db_magic.go")
	require.NoError(t, err)
	assert.Equal(t, string(want), string(code))
}
