package scan

// MatchClose returns the index of the close byte that balances the open byte
// at text[0], or -1 when the nesting never returns to zero.
func MatchClose(text string, open, close byte) int {
	depth := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// Closer returns the closing delimiter for an opening brace or bracket.
func Closer(open byte) (byte, bool) {
	switch open {
	case '{':
		return '}', true
	case '[':
		return ']', true
	default:
		return 0, false
	}
}
