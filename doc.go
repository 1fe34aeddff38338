// Package magicjson encodes Go values to a loose JSON-like text and decodes
// that text back without building a parse tree.
//
// Any value composed of strings, numbers, booleans, sequences and nested
// records can be encoded. Decoding never fails: fields that cannot be found or
// parsed keep their default value.
//
// # Quick Start
//
//	type Employee struct {
//	    ID     int     `magic:"id"`
//	    Salary float64 `magic:"salary"`
//	    Name   string  `magic:"name"`
//	}
//
//	text := magicjson.Encode(Employee{ID: 47, Salary: 999999.99, Name: "Agent"})
//	// {"id":47,"salary":999999.99,"name":"Agent"}
//
//	e := magicjson.Decode[Employee](text)
//
// # Field Names
//
// Field names come from the magic struct tag, then the json tag, then the Go
// field name. A tag of "-" skips the field. Untagged embedded structs are
// flattened into the parent record.
//
// # Descriptor Tables
//
// A type whose pointer implements Record supplies its own ordered field list
// and is never inspected reflectively. magicjson-gen writes these methods:
//
//	//go:generate magicjson-gen generate .
//
// # Strict Decoding
//
// DecodeStrict returns the same value as Decode together with an errsx.Map
// naming every field that was missing, malformed or unterminated:
//
//	e, err := magicjson.DecodeStrict[Employee](`{"id":47}`)
//	if magicjson.IsMissingField(err) {
//	    // err.(errsx.Map)["salary"] wraps ErrMissingField
//	}
//
// # Limitations
//
// The text format has no escapes. A string holding a double quote does not
// round-trip, and a bare string element holding a comma is split in two.
// Field lookup takes the first occurrence of the quoted name anywhere in the
// text, so a nested record that appears before an outer field of the same
// name shadows it.
package magicjson
