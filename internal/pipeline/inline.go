package pipeline

import (
	"regexp"
	"strings"
)

var (
	boldStarPattern   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicStarPattern = regexp.MustCompile(`\*(.*?)\*`)

	inlineMathColon  = regexp.MustCompile(`\$([^$]+)\$`)
	displayMathColon = regexp.MustCompile(`(?s)\\\[(.*?)\\\]`)
	colonBeforeArrow = regexp.MustCompile(`:([^:=;]*?)\\(to|rightarrow|longrightarrow|longmapsto|hookrightarrow|twoheadrightarrow)\b`)
)

// wrapEntry returns a one-argument command entry wrapping the dispatched
// argument in an HTML tag pair.
func wrapEntry(open, close string) CommandEntry {
	return CommandEntry{
		NumArgs: 1,
		Render: func(_ string, _ bool, args []string) string {
			return open + args[0] + close
		},
	}
}

// InlineCommandTable builds the command table for inline formatting. All
// entries take one balanced brace argument, dispatched recursively so
// nested commands compose.
func InlineCommandTable() map[string]CommandEntry {
	return map[string]CommandEntry{
		"textbf":  wrapEntry("<strong>", "</strong>"),
		"emph":    wrapEntry("<em>", "</em>"),
		"textit":  wrapEntry("<em>", "</em>"),
		"texttt":  wrapEntry("<code>", "</code>"),
		"greyson": wrapEntry(`<span style="color: #7f00ff;">[[`, "]]</span>"),
		"todo":    wrapEntry("<strong>[[<em>", "</em>]]</strong>"),
	}
}

// Dispatchers are read-only after construction and safe to share.
var (
	inlineDispatcher = NewDispatcher(InlineCommandTable(), nil)
	defnDispatcher   = NewDispatcher(map[string]CommandEntry{
		"defn": wrapEntry("<strong>", "</strong>"),
	}, nil)
)

// ConvertInlineMarkup rewrites the inline formatting commands and their
// markdown equivalents to HTML. Markdown bold runs before italic so
// **strong** is not eaten as two italics.
func ConvertInlineMarkup(text string) string {
	text = boldStarPattern.ReplaceAllString(text, "<strong>$1</strong>")
	text = inlineDispatcher.Apply(text)
	text = italicStarPattern.ReplaceAllString(text, "<em>$1</em>")
	text = ConvertQuotes(text)
	return ConvertSpecialChars(text)
}

// ConvertDefn marks defined terms. Runs early so definitions inside later
// structural output are already strong.
func ConvertDefn(text string) string {
	return defnDispatcher.Apply(text)
}

// ConvertQuotes turns TeX quote ligatures into typographic quotes.
func ConvertQuotes(text string) string {
	text = strings.ReplaceAll(text, "``", "“")
	text = strings.ReplaceAll(text, "''", "”")
	text = strings.ReplaceAll(text, "`", "‘")
	return strings.ReplaceAll(text, "'", "’")
}

// ConvertSpecialChars expands literal character commands.
func ConvertSpecialChars(text string) string {
	return strings.ReplaceAll(text, `\textbackslash`, `\`)
}

// ConvertTexorpdfstring collapses \texorpdfstring{tex}{plain} to one of
// its arguments: the TeX form for rendered body text, the plain form when
// preferPlain is set (page titles).
func ConvertTexorpdfstring(text string, preferPlain bool) string {
	marker := `\texorpdfstring`
	var b strings.Builder
	b.Grow(len(text))

	i := 0
	for i < len(text) {
		idx := strings.Index(text[i:], marker)
		if idx < 0 {
			b.WriteString(text[i:])
			break
		}
		idx += i
		b.WriteString(text[i:idx])

		cur := skipSpaces(text, idx+len(marker))
		first, err := ScanBraceGroup(text, cur)
		if err != nil {
			b.WriteString(marker)
			i = idx + len(marker)
			continue
		}
		cur = skipSpaces(text, first.End)
		second, err := ScanBraceGroup(text, cur)
		if err != nil {
			b.WriteString(marker)
			i = idx + len(marker)
			continue
		}

		if preferPlain {
			b.WriteString(second.Content)
		} else {
			b.WriteString(first.Content)
		}
		i = second.End
	}
	return b.String()
}

// FixMathColons rewrites the colon of a typed-arrow declaration like
// "f : A \to B" into \colon inside inline and display math, which renders
// with correct spacing. Colons followed by = or ; before the arrow are
// left alone.
func FixMathColons(text string) string {
	fix := func(content string) string {
		return colonBeforeArrow.ReplaceAllString(content, `\colon$1\$2`)
	}
	text = inlineMathColon.ReplaceAllStringFunc(text, func(m string) string {
		return "$" + fix(inlineMathColon.FindStringSubmatch(m)[1]) + "$"
	})
	return displayMathColon.ReplaceAllStringFunc(text, func(m string) string {
		return `\[` + fix(displayMathColon.FindStringSubmatch(m)[1]) + `\]`
	})
}
