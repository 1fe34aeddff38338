package magicjson

import (
	"reflect"

	"github.com/hengadev/magicjson/internal/shape"
)

// Kind is the structural classification of a type.
type Kind = shape.Kind

const (
	KindUnknown  = shape.Unknown
	KindString   = shape.String
	KindScalar   = shape.Scalar
	KindSequence = shape.Sequence
	KindRecord   = shape.Record
)

// Field describes one member of a record. Generated descriptor tables fill in
// Name and Ref; Type is derived from Ref when left empty.
type Field = shape.Field

// Record is implemented by types that list their own fields.
type Record = shape.Describer

// Shape is the classification of one type.
type Shape = shape.Shape

// Defaulter is implemented by types whose default value differs from the Go
// zero value. The decoder calls MagicDefaults on every value it creates before
// filling it from text.
type Defaulter interface {
	MagicDefaults()
}

// Classify returns the shape of T using the default field tag.
func Classify[T any]() Shape {
	return shape.Of(reflect.TypeFor[T]())
}

// ClassifyType returns the shape of t using the default field tag.
func ClassifyType(t reflect.Type) Shape {
	return shape.Of(t)
}
