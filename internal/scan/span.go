// Package scan locates raw value text inside encoded documents without
// building a parse tree.
//
// Both routines trust that the text was produced by the encoder: quotes inside
// strings are never escaped and brackets inside strings are counted like any
// other bracket.
package scan

// Span is a half-open byte range [Start, End) over a text.
type Span struct {
	Start int
	End   int
}

// Of returns the text covered by s.
func (s Span) Of(text string) string {
	if s.Start < 0 || s.End > len(text) || s.Start > s.End {
		return ""
	}
	return text[s.Start:s.End]
}

// Len returns the number of bytes covered by s.
func (s Span) Len() int {
	return s.End - s.Start
}

const whitespace = " \t\n\r"
