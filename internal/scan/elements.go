package scan

import "strings"

// Element is one sequence element carved out of an array interior.
type Element struct {
	Span
	// Unterminated is set when a nested element had no balanced close and
	// was cut at the end of the interior.
	Unterminated bool
}

// Matcher finds balanced closes. MatchClose satisfies it.
type Matcher func(text string, open, close byte) int

// Interior strips the enclosing brackets of a sequence. ok is false unless
// the trimmed text starts with '[' and ends with ']'.
func Interior(text string) (string, bool) {
	text = strings.Trim(text, whitespace)
	if len(text) < 2 || text[0] != '[' || text[len(text)-1] != ']' {
		return "", false
	}
	return text[1 : len(text)-1], true
}

// Elements splits an array interior into element spans. Nested records and
// sequences are bounded with match; bare elements run to the next comma.
// A string element holding a comma is split at that comma.
func Elements(content string, match Matcher) []Element {
	if match == nil {
		match = MatchClose
	}

	var elems []Element
	start := 0
	for start < len(content) {
		start = skipSeparators(content, start)
		if start < 0 {
			break
		}

		elem := Element{}
		if closer, nested := Closer(content[start]); nested {
			end := match(content[start:], content[start], closer)
			if end < 0 {
				elem.Span = Span{Start: start, End: len(content)}
				elem.Unterminated = true
			} else {
				elem.Span = Span{Start: start, End: start + end + 1}
			}
		} else {
			end := strings.IndexByte(content[start:], ',')
			if end < 0 {
				elem.Span = Span{Start: start, End: len(content)}
			} else {
				elem.Span = Span{Start: start, End: start + end}
			}
			elem.Span = trimSpan(content, elem.Span)
		}

		elems = append(elems, elem)
		start = elem.End
		if start <= elem.Start {
			start = elem.Start + 1
		}
	}
	return elems
}

func skipSeparators(text string, from int) int {
	for i := from; i < len(text); i++ {
		if text[i] != ',' && strings.IndexByte(whitespace, text[i]) < 0 {
			return i
		}
	}
	return -1
}

func trimSpan(text string, s Span) Span {
	for s.End > s.Start && strings.IndexByte(whitespace, text[s.End-1]) >= 0 {
		s.End--
	}
	return s
}
