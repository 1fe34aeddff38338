package magicjson

import (
	"encoding"
	"reflect"
	"strconv"
	"strings"

	"github.com/hengadev/errsx"
	"github.com/hengadev/magicjson/internal/magicerr"
	"github.com/hengadev/magicjson/internal/scan"
	"github.com/hengadev/magicjson/internal/shape"
)

// rootPath names the decoded value itself in strict reports.
const rootPath = "$"

const whitespace = " \t\n\r"

var defaulterType = reflect.TypeOf((*Defaulter)(nil)).Elem()

// decoder carries one decode call. Failures are recorded only in strict mode;
// either way the value is filled the same.
type decoder struct {
	scanner    Scanner
	classifier shape.Classifier
	strict     bool
	errs       errsx.Map
}

func (d *decoder) report(path string, err error) {
	if d.strict {
		d.errs.Set(displayPath(path), err)
	}
}

func (d *decoder) decode(text string, v reflect.Value, path string) {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
			d.initialize(v.Elem())
		}
		v = v.Elem()
	}

	s := d.classifier.Of(v.Type())
	switch s.Kind {
	case shape.Record:
		d.decodeRecord(text, v, s, path)
	case shape.Sequence:
		d.decodeSequence(text, v, s, path)
	case shape.Scalar:
		d.decodeScalar(text, v, path)
	case shape.String:
		d.decodeString(text, v, path)
	default:
		d.report(path, magicerr.NewUnsupportedTypeError(displayPath(path), v.Type().String(), magicerr.Decode))
	}
}

func (d *decoder) decodeRecord(text string, v reflect.Value, s Shape, path string) {
	if d.strict && !strings.HasPrefix(strings.TrimLeft(text, whitespace), "{") {
		d.report(path, magicerr.NewMalformedValueError(displayPath(path), "record", text, magicerr.Decode))
	}

	for _, f := range s.Fields {
		fieldPath := joinPath(path, f.Name)
		span, ok := d.scanner.Locate(text, f.Name)
		if !ok {
			if d.strict {
				if scan.Contains(text, f.Name) {
					d.report(fieldPath, magicerr.NewUnterminatedError(fieldPath, magicerr.Decode))
				} else {
					d.report(fieldPath, magicerr.NewMissingFieldError(fieldPath, magicerr.Decode))
				}
			}
			continue
		}
		d.decode(span.Of(text), fieldValue(v, f), fieldPath)
	}
}

func (d *decoder) decodeSequence(text string, v reflect.Value, s Shape, path string) {
	content, ok := scan.Interior(text)
	if !ok {
		d.report(path, magicerr.NewMalformedValueError(displayPath(path), "sequence", text, magicerr.Decode))
		return
	}
	elems := scan.Elements(content, d.scanner.MatchClose)

	if s.Fixed() {
		for i, el := range elems {
			if i >= s.Len {
				break
			}
			d.decodeElement(content, el, v.Index(i), indexPath(path, i))
		}
		return
	}

	out := reflect.MakeSlice(v.Type(), 0, len(elems))
	for i, el := range elems {
		ev := reflect.New(s.Elem).Elem()
		d.initialize(ev)
		d.decodeElement(content, el, ev, indexPath(path, i))
		out = reflect.Append(out, ev)
	}
	v.Set(out)
}

func (d *decoder) decodeElement(content string, el scan.Element, v reflect.Value, path string) {
	if el.Unterminated {
		d.report(path, magicerr.NewUnterminatedError(displayPath(path), magicerr.Decode))
	}
	d.decode(el.Of(content), v, path)
}

func (d *decoder) decodeScalar(text string, v reflect.Value, path string) {
	text = strings.Trim(text, whitespace)
	malformed := func(expected string) {
		d.report(path, magicerr.NewMalformedValueError(displayPath(path), expected, text, magicerr.Decode))
	}

	switch v.Kind() {
	case reflect.Bool:
		if text != "true" && text != "false" {
			malformed("bool")
		}
		v.SetBool(text == "true")
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(numericPrefix(text, true, false), 10, v.Type().Bits())
		if err != nil {
			malformed(v.Type().String())
			return
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := strconv.ParseUint(numericPrefix(text, false, false), 10, v.Type().Bits())
		if err != nil {
			malformed(v.Type().String())
			return
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(numericPrefix(text, true, true), v.Type().Bits())
		if err != nil {
			malformed(v.Type().String())
			return
		}
		v.SetFloat(f)
	}
}

// decodeString strips one quote from each end. The closing quote is not
// checked, only reported in strict mode.
func (d *decoder) decodeString(text string, v reflect.Value, path string) {
	text = strings.Trim(text, whitespace)
	if len(text) < 2 || text[0] != '"' {
		d.report(path, magicerr.NewMalformedValueError(displayPath(path), "string", text, magicerr.Decode))
		return
	}
	if text[len(text)-1] != '"' {
		d.report(path, magicerr.NewUnterminatedError(displayPath(path), magicerr.Decode))
	}
	raw := text[1 : len(text)-1]

	if v.Kind() == reflect.String {
		v.SetString(raw)
		return
	}

	fresh := reflect.New(v.Type())
	u, ok := fresh.Interface().(encoding.TextUnmarshaler)
	if !ok {
		return
	}
	if err := u.UnmarshalText([]byte(raw)); err != nil {
		d.report(path, magicerr.NewMalformedValueError(displayPath(path), v.Type().String(), raw, magicerr.Decode))
		return
	}
	v.Set(fresh.Elem())
}

// initialize applies MagicDefaults to a freshly created value. Members held
// by value are defaulted before their parent so the parent can override them.
func (d *decoder) initialize(v reflect.Value) {
	switch v.Kind() {
	case reflect.Struct:
		if s := d.classifier.Of(v.Type()); s.Kind == shape.Record {
			for _, f := range s.Fields {
				if k := f.Type.Kind(); k == reflect.Struct || k == reflect.Array {
					d.initialize(fieldValue(v, f))
				}
			}
		}
	case reflect.Array:
		if k := v.Type().Elem().Kind(); k == reflect.Struct || k == reflect.Array {
			for i := range v.Len() {
				d.initialize(v.Index(i))
			}
		}
	}

	if v.CanAddr() && reflect.PointerTo(v.Type()).Implements(defaulterType) {
		v.Addr().Interface().(Defaulter).MagicDefaults()
	}
}

// numericPrefix returns the longest prefix of s that reads as a number, or ""
// when s does not start with one.
func numericPrefix(s string, signed, fraction bool) string {
	i := 0
	if signed && i < len(s) && s[i] == '-' {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}

	if fraction {
		if i < len(s) && s[i] == '.' {
			j, frac := i+1, 0
			for j < len(s) && isDigit(s[j]) {
				j++
				frac++
			}
			if digits+frac > 0 {
				i = j
				digits += frac
			}
		}
		if digits > 0 && i < len(s) && (s[i] == 'e' || s[i] == 'E') {
			j := i + 1
			if j < len(s) && (s[j] == '+' || s[j] == '-') {
				j++
			}
			exp := 0
			for j < len(s) && isDigit(s[j]) {
				j++
				exp++
			}
			if exp > 0 {
				i = j
			}
		}
	}

	if digits == 0 {
		return ""
	}
	return s[:i]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func indexPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

func displayPath(path string) string {
	if path == "" {
		return rootPath
	}
	return path
}
