package scan

import "strings"

// Locate finds the raw value of the field called name in text.
//
// The first occurrence of the quoted name anywhere in text is used. A quoted
// value spans up to and including the next quote. A value opening with a brace
// or bracket spans to its balanced close, found with match (MatchClose when
// nil). Any other value runs up to the next comma or closing brace. ok is false
// when the name or any delimiter is missing.
func Locate(text, name string, match Matcher) (span Span, ok bool) {
	if match == nil {
		match = MatchClose
	}

	key := `"` + name + `"`
	keyPos := strings.Index(text, key)
	if keyPos < 0 {
		return Span{}, false
	}

	afterKey := keyPos + len(key)
	colon := strings.IndexByte(text[afterKey:], ':')
	if colon < 0 {
		return Span{}, false
	}
	colon += afterKey

	start := skipWhitespace(text, colon+1)
	if start < 0 {
		return Span{}, false
	}

	switch c := text[start]; c {
	case '"':
		end := strings.IndexByte(text[start+1:], '"')
		if end < 0 {
			return Span{}, false
		}
		return Span{Start: start, End: start + 1 + end + 1}, true
	case '{', '[':
		closer, _ := Closer(c)
		end := match(text[start:], c, closer)
		if end < 0 {
			return Span{}, false
		}
		return Span{Start: start, End: start + end + 1}, true
	default:
		end := strings.IndexAny(text[start:], ",}")
		if end < 0 {
			return Span{}, false
		}
		return Span{Start: start, End: start + end}, true
	}
}

// skipWhitespace returns the index of the first non-whitespace byte at or
// after from, or -1.
func skipWhitespace(text string, from int) int {
	for i := from; i < len(text); i++ {
		if strings.IndexByte(whitespace, text[i]) < 0 {
			return i
		}
	}
	return -1
}

// Contains reports whether the quoted field name appears in text at all. It
// lets callers tell an absent field from one whose value could not be bounded.
func Contains(text, name string) bool {
	return strings.Contains(text, `"`+name+`"`)
}
