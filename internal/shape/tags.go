package shape

import (
	"reflect"
	"strings"
)

// fieldName resolves the serialized name of a struct field. The classifier's
// tag wins over the json tag, which wins over the Go name. Options after the
// first comma are ignored.
func (c Classifier) fieldName(sf reflect.StructField) (name string, skip bool, tagged bool) {
	tags := []string{c.Tag, "json"}
	if c.Tag == "" || c.Tag == "json" {
		tags = []string{"json"}
	}

	for _, key := range tags {
		value, ok := sf.Tag.Lookup(key)
		if !ok {
			continue
		}
		name, _, _ = strings.Cut(value, ",")
		name = strings.TrimSpace(name)
		if name == "-" {
			return "", true, true
		}
		if name != "" {
			return name, false, true
		}
	}
	return sf.Name, false, false
}
