package shape

import (
	"encoding"
	"reflect"
)

// Kind is the structural classification of a type.
type Kind uint8

const (
	Unknown Kind = iota
	String
	Scalar
	Sequence
	Record
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Scalar:
		return "scalar"
	case Sequence:
		return "sequence"
	case Record:
		return "record"
	default:
		return "unknown"
	}
}

// DefaultTag is the struct tag consulted first for field names.
const DefaultTag = "magic"

// Field describes one member of a record type.
//
// Reflectively discovered fields carry an Index into the struct. Fields
// supplied by a static descriptor table carry a Ref accessor instead: given a
// pointer to the record it returns a pointer to the member.
type Field struct {
	Name  string
	Type  reflect.Type
	Index []int
	Ref   func(record any) any
}

// Describer is implemented by record types that supply their own field
// descriptor table, usually generated by magicjson-gen.
type Describer interface {
	MagicFields() []Field
}

// Shape is the classification of a single type. Element and field shapes are
// not resolved here; callers classify them when recursion reaches them.
type Shape struct {
	Kind   Kind
	Type   reflect.Type
	Elem   reflect.Type
	Len    int
	Fields []Field
}

// Fixed reports whether a sequence has a fixed capacity.
func (s Shape) Fixed() bool {
	return s.Kind == Sequence && s.Len >= 0
}

var (
	describerType       = reflect.TypeOf((*Describer)(nil)).Elem()
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// Classifier derives shapes using Tag as the primary struct tag.
type Classifier struct {
	Tag string
}

// Of classifies t with the default struct tag.
func Of(t reflect.Type) Shape {
	return Classifier{Tag: DefaultTag}.Of(t)
}

// Of classifies t. Pointer types are classified by their element type. The
// order of the checks matters: string-like types are resolved before the
// sequence check so that text types backed by arrays (uuid.UUID) are not
// treated as byte lists.
func (c Classifier) Of(t reflect.Type) Shape {
	if t == nil {
		return Shape{Kind: Unknown}
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if IsText(t) {
		return Shape{Kind: String, Type: t, Len: -1}
	}

	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return Shape{Kind: Scalar, Type: t, Len: -1}
	case reflect.Slice:
		return Shape{Kind: Sequence, Type: t, Elem: t.Elem(), Len: -1}
	case reflect.Array:
		return Shape{Kind: Sequence, Type: t, Elem: t.Elem(), Len: t.Len()}
	}

	if reflect.PointerTo(t).Implements(describerType) {
		return Shape{Kind: Record, Type: t, Len: -1, Fields: tableFields(t)}
	}
	if t.Kind() == reflect.Struct {
		return Shape{Kind: Record, Type: t, Len: -1, Fields: c.structFields(t, nil)}
	}

	return Shape{Kind: Unknown, Type: t, Len: -1}
}

// IsText reports whether t reads as a character sequence.
func IsText(t reflect.Type) bool {
	if t.Kind() == reflect.String {
		return true
	}
	return t.Implements(textMarshalerType) && reflect.PointerTo(t).Implements(textUnmarshalerType)
}

// tableFields asks a zero instance of t for its descriptor table and fills in
// the member types from the accessors.
func tableFields(t reflect.Type) []Field {
	inst := reflect.New(t).Interface()
	table := inst.(Describer).MagicFields()

	fields := make([]Field, 0, len(table))
	for _, f := range table {
		if f.Ref == nil || f.Name == "" {
			continue
		}
		if f.Type == nil {
			ptr := reflect.ValueOf(f.Ref(inst))
			if ptr.Kind() != reflect.Ptr || ptr.IsNil() {
				continue
			}
			f.Type = ptr.Type().Elem()
		}
		fields = append(fields, f)
	}
	return fields
}

func (c Classifier) structFields(t reflect.Type, parent []int) []Field {
	var fields []Field
	for i := range t.NumField() {
		sf := t.Field(i)
		index := append(append([]int(nil), parent...), i)

		name, skip, tagged := c.fieldName(sf)
		if skip {
			continue
		}

		if sf.Anonymous && !tagged && sf.Type.Kind() == reflect.Struct && !IsText(sf.Type) &&
			!reflect.PointerTo(sf.Type).Implements(describerType) {
			fields = append(fields, c.structFields(sf.Type, index)...)
			continue
		}
		if !sf.IsExported() {
			continue
		}

		fields = append(fields, Field{
			Name:  name,
			Type:  sf.Type,
			Index: index,
		})
	}
	return fields
}
