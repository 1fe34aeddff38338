package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"text/template"
)

// DefaultImportPath is the package the generated methods refer to.
const DefaultImportPath = "github.com/hengadev/magicjson"

// GenerationConfig holds settings shared by every generated file
type GenerationConfig struct {
	OutputSuffix string
	ImportPath   string
	Tag          string
}

// TemplateData is the input of one generated file
type TemplateData struct {
	PackageName string
	ImportPath  string
	Structs     []TemplateStruct
}

// TemplateStruct is one record type in a generated file
type TemplateStruct struct {
	Name   string
	Fields []TemplateField
}

// TemplateField is one descriptor table entry
type TemplateField struct {
	Name string
	Key  string
	Type string
}

const recordTemplate = `// Code generated by magicjson-gen. DO NOT EDIT.

package {{.PackageName}}

import "{{.ImportPath}}"
{{range $s := .Structs}}
// MagicFields lists the encoded fields of {{$s.Name}} in declaration order.
func (*{{$s.Name}}) MagicFields() []magicjson.Field {
	return []magicjson.Field{
{{- range $s.Fields}}
		{Name: {{printf "%q" .Key}}, Ref: func(r any) any { return &r.(*{{$s.Name}}).{{.Name}} }},
{{- end}}
	}
}
{{end}}`

// TemplateEngine renders descriptor table files
type TemplateEngine struct {
	tmpl *template.Template
}

// NewTemplateEngine parses the descriptor table template
func NewTemplateEngine() (*TemplateEngine, error) {
	tmpl, err := template.New("record").Parse(recordTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return &TemplateEngine{tmpl: tmpl}, nil
}

// GenerateCode renders data and formats the result as Go source.
func (e *TemplateEngine) GenerateCode(data TemplateData) ([]byte, error) {
	if data.ImportPath == "" {
		data.ImportPath = DefaultImportPath
	}

	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	code, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format generated code: %w", err)
	}
	return code, nil
}

// BuildTemplateData collects the structs of one source file into template
// input. Skipped and unexported fields are left out.
func BuildTemplateData(packageName string, structs []StructInfo, config GenerationConfig) TemplateData {
	data := TemplateData{
		PackageName: packageName,
		ImportPath:  config.ImportPath,
	}

	for _, info := range structs {
		ts := TemplateStruct{Name: info.StructName}
		for _, f := range info.EncodedFields() {
			ts.Fields = append(ts.Fields, TemplateField{Name: f.Name, Key: f.Key, Type: f.Type})
		}
		data.Structs = append(data.Structs, ts)
	}

	return data
}
