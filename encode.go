package magicjson

import (
	"encoding"
	"reflect"
	"strconv"
	"strings"

	"github.com/hengadev/magicjson/internal/shape"
)

// unknownType is written in place of values whose shape has no encoding.
const unknownType = `"unknown type"`

type encoder struct {
	classifier shape.Classifier
	buf        strings.Builder
	// path holds the pointers and slices being encoded above the current
	// value. Meeting one again means the value refers to itself.
	path map[visit]struct{}
}

type visit struct {
	ptr uintptr
	typ reflect.Type
	len int
}

// enter adds key to the current path. It returns false when key is already
// on it.
func (e *encoder) enter(key visit) bool {
	if _, ok := e.path[key]; ok {
		return false
	}
	if e.path == nil {
		e.path = make(map[visit]struct{})
	}
	e.path[key] = struct{}{}
	return true
}

func (e *encoder) leave(key visit) {
	delete(e.path, key)
}

// cycle writes the empty form of t in place of a value already being encoded.
func (e *encoder) cycle(t reflect.Type) {
	switch e.classifier.Of(t).Kind {
	case shape.Record:
		e.buf.WriteString("{}")
	case shape.Sequence:
		e.buf.WriteString("[]")
	default:
		e.buf.WriteString(unknownType)
	}
}

func (e *encoder) encode(v reflect.Value, t reflect.Type) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
		if !v.IsValid() {
			continue
		}
		if !v.IsNil() {
			key := visit{ptr: v.Pointer(), typ: t}
			if !e.enter(key) {
				e.cycle(t)
				return
			}
			defer e.leave(key)
		}
		v = v.Elem()
	}

	s := e.classifier.Of(t)
	if !v.IsValid() {
		// nil record pointers end recursion on self-referential types
		if s.Kind == shape.Record {
			e.buf.WriteString("{}")
			return
		}
		v = reflect.Zero(t)
	}

	switch s.Kind {
	case shape.String:
		e.encodeString(v)
	case shape.Scalar:
		e.encodeScalar(v)
	case shape.Sequence:
		if v.Kind() == reflect.Slice && v.Len() > 0 {
			key := visit{ptr: v.Pointer(), typ: v.Type(), len: v.Len()}
			if !e.enter(key) {
				e.buf.WriteString("[]")
				return
			}
			defer e.leave(key)
		}
		e.buf.WriteByte('[')
		for i := range v.Len() {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			e.encode(v.Index(i), s.Elem)
		}
		e.buf.WriteByte(']')
	case shape.Record:
		v = addressable(v)
		e.buf.WriteByte('{')
		for i, f := range s.Fields {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			e.buf.WriteByte('"')
			e.buf.WriteString(f.Name)
			e.buf.WriteString(`":`)
			e.encode(fieldValue(v, f), f.Type)
		}
		e.buf.WriteByte('}')
	default:
		e.buf.WriteString(unknownType)
	}
}

func (e *encoder) encodeString(v reflect.Value) {
	e.buf.WriteByte('"')
	if v.Kind() == reflect.String {
		e.buf.WriteString(v.String())
	} else if m, ok := v.Interface().(encoding.TextMarshaler); ok {
		if text, err := m.MarshalText(); err == nil {
			e.buf.Write(text)
		}
	}
	e.buf.WriteByte('"')
}

func (e *encoder) encodeScalar(v reflect.Value) {
	switch v.Kind() {
	case reflect.Bool:
		e.buf.WriteString(strconv.FormatBool(v.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.buf.WriteString(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		e.buf.WriteString(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		e.buf.WriteString(strconv.FormatFloat(v.Float(), 'f', -1, v.Type().Bits()))
	}
}

// addressable returns v itself when it can be addressed, otherwise an
// addressable copy. Descriptor table accessors need a pointer to the record.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v
	}
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p.Elem()
}

// fieldValue returns the member of the addressable record v described by f.
func fieldValue(v reflect.Value, f Field) reflect.Value {
	if f.Ref != nil {
		return reflect.ValueOf(f.Ref(v.Addr().Interface())).Elem()
	}
	return v.FieldByIndex(f.Index)
}
