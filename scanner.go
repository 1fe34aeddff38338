package magicjson

import "github.com/hengadev/magicjson/internal/scan"

// Span is a half-open byte range over a decoded text.
type Span = scan.Span

// Scanner finds value boundaries inside encoded text. The decoder reaches the
// text only through a Scanner, so a stricter parser can be substituted with
// WithScanner.
//
// The decoder calls MatchClose only to bound sequence elements. Locate bounds
// nested record and sequence field values on its own, so a Scanner replacing
// MatchClose should implement Locate with LocateWith(text, name, s.MatchClose)
// for both to agree.
type Scanner interface {
	// Locate returns the raw value span of the named field, or false when the
	// field or one of its delimiters is missing.
	Locate(text, name string) (Span, bool)

	// MatchClose returns the index of the delimiter closing text[0], or -1.
	MatchClose(text string, open, close byte) int
}

// NaiveScanner is the default Scanner. It trusts its input to be encoder
// output: no escapes, no brackets inside strings.
type NaiveScanner struct{}

func (NaiveScanner) Locate(text, name string) (Span, bool) {
	return scan.Locate(text, name, scan.MatchClose)
}

func (NaiveScanner) MatchClose(text string, open, close byte) int {
	return scan.MatchClose(text, open, close)
}

// LocateWith runs the naive field locator, bounding nested record and sequence
// values with match.
func LocateWith(text, name string, match func(text string, open, close byte) int) (Span, bool) {
	return scan.Locate(text, name, match)
}
