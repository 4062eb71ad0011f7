// Package pipeline implements the per-document conversion passes: balanced
// delimiter scanning, protected-region stashing, command and environment
// dispatch, macro extraction, structural converters, and paragraph wrapping.
//
// Every pass is a pure function of its input text (plus explicit registries
// created fresh per document); the root package sequences them in a fixed
// order. Order is load-bearing: math must be stashed before inline markup
// runs, lists must be converted before environments see them.
package pipeline

import "errors"

// ErrUnbalanced indicates a delimiter group that never closes before the
// end of the text. Callers recover by treating the opening marker as
// literal text and resuming the scan past it.
var ErrUnbalanced = errors.New("unbalanced delimiter")

// Span is a balanced delimiter group located in source text.
// Start is the index of the opening delimiter, End the index just past the
// matching closing delimiter. Content is copied out immediately so the span
// survives subsequent rewrites of the text it was scanned from.
type Span struct {
	Start   int
	End     int
	Content string
}

// ScanGroup scans text for a balanced delimiter group starting at start,
// which must point at the opening delimiter. A backslash escapes the
// character after it, so "\{" inside a group does not perturb the depth
// count. Nesting depth is unbounded.
func ScanGroup(text string, start int, open, close byte) (Span, error) {
	if start >= len(text) || text[start] != open {
		return Span{}, ErrUnbalanced
	}

	depth := 1
	i := start + 1
	for i < len(text) && depth > 0 {
		switch text[i] {
		case '\\':
			// Escape consumes the next character, delimiter or not.
			i += 2
			continue
		case open:
			depth++
		case close:
			depth--
		}
		i++
	}

	if depth != 0 {
		return Span{}, ErrUnbalanced
	}
	return Span{Start: start, End: i, Content: text[start+1 : i-1]}, nil
}

// ScanBraceGroup scans a {...} group starting at start.
func ScanBraceGroup(text string, start int) (Span, error) {
	return ScanGroup(text, start, '{', '}')
}

// ScanBracketGroup scans a [...] group starting at start.
func ScanBracketGroup(text string, start int) (Span, error) {
	return ScanGroup(text, start, '[', ']')
}

// skipSpaces returns the first index at or after i that is not whitespace.
func skipSpaces(text string, i int) int {
	for i < len(text) && (text[i] == ' ' || text[i] == '\t' || text[i] == '\n' || text[i] == '\r') {
		i++
	}
	return i
}

// isEscaped reports whether the character at index i is preceded by an odd
// number of backslashes.
func isEscaped(text string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && text[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// commandNameAt reads the letter run following a backslash at index i.
// Returns the name without the backslash and the index just past it.
func commandNameAt(text string, i int) (string, int) {
	j := i + 1
	for j < len(text) && isLetter(text[j]) {
		j++
	}
	return text[i+1 : j], j
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
