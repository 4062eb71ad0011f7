package pipeline

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Stash tokens are framed with Unicode Private Use Area runes so they can
// never collide with document content and survive every later pass intact.
const (
	tokenStart = "\uE000" // U+E000: Private Use Area
	tokenEnd   = "\uE001"
)

// SpanFinder locates the non-overlapping protected spans of a text, in
// ascending order of Start.
type SpanFinder func(text string) []Span

// Stash extracts protected spans into opaque placeholder tokens and
// restores them later. Each document conversion creates its own stashes;
// nothing is shared across calls. When several stashes are applied in
// sequence they must be restored in reverse order so an outer restoration
// cannot re-expose an inner placeholder.
type Stash struct {
	label string
	spans map[string]string
	n     int
}

// NewStash creates an empty stash. The label is embedded in minted tokens
// to keep tokens from independent stashes distinct.
func NewStash(label string) *Stash {
	return &Stash{label: label, spans: make(map[string]string)}
}

// Put records original under a freshly minted token and returns the token.
func (s *Stash) Put(original string) string {
	token := tokenStart + s.label + strconv.Itoa(s.n) + tokenEnd
	s.n++
	s.spans[token] = original
	return token
}

// Len returns the number of stashed spans.
func (s *Stash) Len() int {
	return len(s.spans)
}

// Extract replaces every span located by find with a token and returns the
// rewritten text.
func (s *Stash) Extract(text string, find SpanFinder) string {
	spans := find(text)
	if len(spans) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	prev := 0
	for _, sp := range spans {
		if sp.Start < prev {
			continue // overlapping span, keep the earlier one
		}
		b.WriteString(text[prev:sp.Start])
		b.WriteString(s.Put(text[sp.Start:sp.End]))
		prev = sp.End
	}
	b.WriteString(text[prev:])
	return b.String()
}

// Restore substitutes every recorded token back with its original text.
// Restoration is order-independent across tokens. A separating space is
// inserted before the original when the preceding character is alphanumeric
// or closing punctuation and the original does not already start with
// whitespace, and after it when the following character is alphanumeric;
// this prevents "word$math$" collapsing into "wordmath" without doubling
// existing spaces. Tokens present in the text with no recorded original are
// left verbatim, surfacing the defect visibly instead of dropping content.
func (s *Stash) Restore(text string) string {
	for token, original := range s.spans {
		text = restoreToken(text, token, original)
	}
	return text
}

// restoreToken replaces all occurrences of token in text, repairing
// spacing at each boundary.
func restoreToken(text, token, original string) string {
	var b strings.Builder
	b.Grow(len(text) + len(original))
	for {
		idx := strings.Index(text, token)
		if idx < 0 {
			b.WriteString(text)
			break
		}

		before := text[:idx]
		after := text[idx+len(token):]
		b.WriteString(before)

		if needsSpaceBefore(before, original) {
			b.WriteByte(' ')
		}
		b.WriteString(original)
		if needsSpaceAfter(after, original) {
			b.WriteByte(' ')
		}

		text = after
	}
	return b.String()
}

func needsSpaceBefore(before, original string) bool {
	if before == "" || original == "" {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(before)
	if !isWordOrClosing(r) {
		return false
	}
	first, _ := utf8.DecodeRuneInString(original)
	return !unicode.IsSpace(first)
}

func needsSpaceAfter(after, original string) bool {
	if after == "" || original == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(after)
	if !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(original)
	return !unicode.IsSpace(last)
}

// isWordOrClosing reports whether r is alphanumeric or closing punctuation.
func isWordOrClosing(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case ')', ']', '}', '.', ',', ';', ':', '!', '?', '”', '’':
		return true
	}
	return false
}

var (
	displayDollarMath = regexp.MustCompile(`(?s)\$\$(.*?)\$\$`)
	displayMathSpan   = regexp.MustCompile(`(?s)\\\[.*?\\\]`)
	parenMathSpan     = regexp.MustCompile(`(?s)\\\(.*?\\\)`)
	scriptSpan        = regexp.MustCompile(`(?s)<script[^>]*>.*?</script>`)
)

// NormalizeDisplayMath rewrites $$...$$ display math to the \[...\] form so
// a single recognizer covers both.
func NormalizeDisplayMath(text string) string {
	return displayDollarMath.ReplaceAllString(text, `\[$1\]`)
}

// FindDisplayMath locates \[...\] and \(...\) spans.
func FindDisplayMath(text string) []Span {
	spans := regexpSpans(text, displayMathSpan)
	spans = append(spans, regexpSpans(text, parenMathSpan)...)
	return sortSpans(spans)
}

// FindInlineMath locates $...$ spans whose opening dollar is not escaped
// and not immediately followed by a digit (so "$5" prose is left alone).
// An unterminated dollar is not a span; it stays literal.
func FindInlineMath(text string) []Span {
	var spans []Span
	i := 0
	for i < len(text) {
		c := text[i]
		if c == '\\' {
			i += 2
			continue
		}
		if c != '$' {
			i++
			continue
		}
		if i+1 >= len(text) || text[i+1] == '$' || isDigit(text[i+1]) {
			i++
			continue
		}
		j := i + 1
		for j < len(text) && (text[j] != '$' || isEscaped(text, j)) {
			j++
		}
		if j >= len(text) {
			break
		}
		spans = append(spans, Span{Start: i, End: j + 1, Content: text[i+1 : j]})
		i = j + 1
	}
	return spans
}

// FindScripts locates <script>...</script> blocks.
func FindScripts(text string) []Span {
	return regexpSpans(text, scriptSpan)
}

func regexpSpans(text string, re *regexp.Regexp) []Span {
	var spans []Span
	for _, loc := range re.FindAllStringIndex(text, -1) {
		spans = append(spans, Span{Start: loc[0], End: loc[1], Content: text[loc[0]:loc[1]]})
	}
	return spans
}

func sortSpans(spans []Span) []Span {
	// Insertion sort; span counts per document are small.
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && spans[j].Start < spans[j-1].Start; j-- {
			spans[j], spans[j-1] = spans[j-1], spans[j]
		}
	}
	return spans
}

// HasStashTokens reports whether text still contains a stash placeholder.
// After every stash has been restored this finding a token means a
// restoration mismatch.
func HasStashTokens(text string) bool {
	return strings.Contains(text, tokenStart)
}

// IsStashToken reports whether line consists solely of stash tokens and
// whitespace. The dash-list scanner uses this to treat a stashed display
// math line as a continuation of the current item.
func IsStashToken(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	for len(line) > 0 {
		if !strings.HasPrefix(line, tokenStart) {
			return false
		}
		end := strings.Index(line, tokenEnd)
		if end < 0 {
			return false
		}
		line = strings.TrimSpace(line[end+len(tokenEnd):])
	}
	return true
}
