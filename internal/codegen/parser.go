package codegen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// RecordDirective marks a struct for descriptor generation even when none of
// its fields carry a tag.
const RecordDirective = "magicjson:record"

// DefaultTag is the struct tag read before json.
const DefaultTag = "magic"

// StructInfo contains information about a struct selected for generation
type StructInfo struct {
	PackageName       string
	StructName        string
	SourceFile        string
	Fields            []FieldInfo
	Marked            bool              // carries a //magicjson:record comment
	HasMagicTags      bool              // at least one field has the primary tag
	Generic           bool              // declared with type parameters
	GenerationOptions map[string]string // key=value pairs after the directive
}

// FieldInfo contains information about one struct field
type FieldInfo struct {
	Name     string
	Type     string
	Key      string
	TagName  string // tag the key was read from, empty for the Go name
	Options  []string
	Skip     bool
	Embedded bool
	Exported bool

	IsValid          bool
	ValidationErrors []string
}

// Encoded reports whether the field appears in the descriptor table.
func (f FieldInfo) Encoded() bool {
	return f.Exported && !f.Skip
}

// EncodedFields returns the fields of s that appear in the descriptor table,
// in declaration order.
func (s StructInfo) EncodedFields() []FieldInfo {
	var fields []FieldInfo
	for _, f := range s.Fields {
		if f.Encoded() {
			fields = append(fields, f)
		}
	}
	return fields
}

// DiscoveryConfig holds configuration for struct discovery
type DiscoveryConfig struct {
	// Tag is the struct tag read before json. Default: magic
	Tag string
	// SkipFiles lists base file names to ignore.
	SkipFiles []string
}

func (c *DiscoveryConfig) tag() string {
	if c == nil || c.Tag == "" {
		return DefaultTag
	}
	return c.Tag
}

func (c *DiscoveryConfig) skips(fileName string) bool {
	if c == nil {
		return false
	}
	base := filepath.Base(fileName)
	for _, skip := range c.SkipFiles {
		if skip == base {
			return true
		}
	}
	return false
}

// DiscoverStructs finds the structs in packagePath that carry the record
// directive or at least one field with the primary tag. Test files and
// generated files are ignored. Results are sorted by file, then by position.
func DiscoverStructs(packagePath string, config *DiscoveryConfig) ([]StructInfo, error) {
	var structs []StructInfo

	fset := token.NewFileSet()
	filter := func(fi fs.FileInfo) bool {
		name := fi.Name()
		return !strings.HasSuffix(name, "_test.go") && !config.skips(name)
	}
	pkgs, err := parser.ParseDir(fset, packagePath, filter, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	for pkgName, pkg := range pkgs {
		if strings.HasSuffix(pkgName, "_test") {
			continue
		}

		for fileName, file := range pkg.Files {
			if ast.IsGenerated(file) {
				continue
			}
			structs = append(structs, discoverStructsInFile(fset, fileName, file, pkgName, config.tag())...)
		}
	}

	sort.SliceStable(structs, func(i, j int) bool {
		return structs[i].SourceFile < structs[j].SourceFile
	})
	return structs, nil
}

// discoverStructsInFile discovers structs in a single file
func discoverStructsInFile(fset *token.FileSet, fileName string, file *ast.File, pkgName, tag string) []StructInfo {
	var structs []StructInfo

	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}

		for _, spec := range gen.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			structType, ok := typeSpec.Type.(*ast.StructType)
			if !ok {
				continue
			}

			doc := typeSpec.Doc
			if doc == nil && len(gen.Specs) == 1 {
				doc = gen.Doc
			}

			info := analyzeStruct(fileName, pkgName, typeSpec.Name.Name, structType, tag)
			info.Marked, info.GenerationOptions = ParseRecordDirective(doc)
			info.Generic = typeSpec.TypeParams != nil && len(typeSpec.TypeParams.List) > 0
			if info.Marked || info.HasMagicTags {
				structs = append(structs, info)
			}
		}
	}

	return structs
}

// ParseRecordDirective reports whether doc carries the record directive and
// returns the key=value options that follow it. Malformed options are
// ignored.
func ParseRecordDirective(doc *ast.CommentGroup) (bool, map[string]string) {
	options := make(map[string]string)
	if doc == nil {
		return false, options
	}

	marked := false
	for _, comment := range doc.List {
		text := comment.Text
		switch {
		case strings.HasPrefix(text, "//"):
			text = text[2:]
		case strings.HasPrefix(text, "/*"):
			text = strings.TrimSuffix(text[2:], "*/")
		}
		text = strings.TrimSpace(text)

		rest, found := strings.CutPrefix(text, RecordDirective)
		if !found || (rest != "" && rest[0] != ' ' && rest[0] != '\t') {
			continue
		}
		marked = true

		for _, pair := range strings.Split(rest, ",") {
			key, value, ok := strings.Cut(pair, "=")
			key, value = strings.TrimSpace(key), strings.TrimSpace(value)
			if ok && key != "" && value != "" {
				options[key] = value
			}
		}
	}

	return marked, options
}

// analyzeStruct analyzes the fields of a struct type
func analyzeStruct(fileName, pkgName, structName string, structType *ast.StructType, tag string) StructInfo {
	info := StructInfo{
		PackageName:       pkgName,
		StructName:        structName,
		SourceFile:        filepath.Base(fileName),
		Fields:            []FieldInfo{},
		GenerationOptions: make(map[string]string),
	}

	for _, field := range structType.Fields.List {
		if len(field.Names) == 0 {
			fieldInfo := analyzeField(embeddedName(field.Type), field, tag)
			fieldInfo.Embedded = true
			info.Fields = append(info.Fields, fieldInfo)
			if fieldInfo.TagName == tag {
				info.HasMagicTags = true
			}
			continue
		}
		for _, name := range field.Names {
			fieldInfo := analyzeField(name.Name, field, tag)
			if fieldInfo.TagName == tag {
				info.HasMagicTags = true
			}
			info.Fields = append(info.Fields, fieldInfo)
		}
	}

	return info
}

// analyzeField resolves the key of a single field the same way the runtime
// classifier does: primary tag, then json, then the Go name.
func analyzeField(fieldName string, field *ast.Field, tag string) FieldInfo {
	info := FieldInfo{
		Name:             fieldName,
		Type:             getTypeString(field.Type),
		Key:              fieldName,
		Exported:         ast.IsExported(fieldName),
		IsValid:          true,
		ValidationErrors: []string{},
	}

	if field.Tag == nil {
		return info
	}
	raw, err := strconv.Unquote(field.Tag.Value)
	if err != nil {
		return info
	}
	structTag := reflect.StructTag(raw)

	keys := []string{tag, "json"}
	if tag == "json" {
		keys = []string{"json"}
	}
	for _, key := range keys {
		value, ok := structTag.Lookup(key)
		if !ok {
			continue
		}
		name, opts, _ := strings.Cut(value, ",")
		name = strings.TrimSpace(name)
		if name == "-" {
			info.Skip = true
			info.TagName = key
			return info
		}
		if name == "" {
			continue
		}
		info.Key = name
		info.TagName = key
		if opts != "" {
			info.Options = strings.Split(opts, ",")
		}
		break
	}

	return info
}

// embeddedName returns the implicit field name of an embedded field.
func embeddedName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return embeddedName(t.X)
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.Ident:
		return t.Name
	case *ast.IndexExpr:
		return embeddedName(t.X)
	default:
		return "unknown"
	}
}

// getTypeString converts an ast.Expr to its string representation
func getTypeString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.ArrayType:
		if t.Len == nil {
			return "[]" + getTypeString(t.Elt)
		}
		if lit, ok := t.Len.(*ast.BasicLit); ok {
			return "[" + lit.Value + "]" + getTypeString(t.Elt)
		}
		return "[...]" + getTypeString(t.Elt)
	case *ast.StarExpr:
		return "*" + getTypeString(t.X)
	case *ast.SelectorExpr:
		return getTypeString(t.X) + "." + t.Sel.Name
	case *ast.MapType:
		return "map[" + getTypeString(t.Key) + "]" + getTypeString(t.Value)
	case *ast.InterfaceType:
		return "interface{}"
	case *ast.FuncType:
		return "func"
	case *ast.ChanType:
		return "chan " + getTypeString(t.Value)
	default:
		return "unknown"
	}
}
