package pipeline

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

var (
	verbatimEnv   = regexp.MustCompile(`(?s)\\begin\{verbatim\}\n?(.*?)\\end\{verbatim\}`)
	lstlistingEnv = regexp.MustCompile(`(?s)\\begin\{lstlisting\}(?:\[([^\]]*)\])?\n?(.*?)\\end\{lstlisting\}`)
	lstLanguage   = regexp.MustCompile(`language=([a-zA-Z0-9+#]+)`)
)

// FindVerbatimSpans locates \verb commands and verbatim and lstlisting
// environments. \verb takes an arbitrary non-letter delimiter, matched by
// scanning for its next occurrence.
func FindVerbatimSpans(text string) []Span {
	var spans []Span

	i := 0
	for i < len(text) {
		idx := strings.Index(text[i:], `\verb`)
		if idx < 0 {
			break
		}
		idx += i
		after := idx + len(`\verb`)
		if after >= len(text) || isLetter(text[after]) {
			i = after
			continue
		}
		delim := text[after]
		end := strings.IndexByte(text[after+1:], delim)
		if end < 0 {
			i = after
			continue
		}
		end += after + 1
		spans = append(spans, Span{Start: idx, End: end + 1, Content: text[after+1 : end]})
		i = end + 1
	}

	spans = append(spans, regexpSpans(text, verbatimEnv)...)
	spans = append(spans, regexpSpans(text, lstlistingEnv)...)
	return sortSpans(spans)
}

// RenderCodeBlocks converts verbatim material to HTML and stashes the
// result: lstlisting environments are syntax highlighted, verbatim
// environments become plain code blocks, and \verb spans become inline
// code. Runs before HTML escaping so code content is escaped exactly once,
// here.
func RenderCodeBlocks(text string, scripts *Stash) string {
	text = lstlistingEnv.ReplaceAllStringFunc(text, func(m string) string {
		sub := lstlistingEnv.FindStringSubmatch(m)
		lang := ""
		if lm := lstLanguage.FindStringSubmatch(sub[1]); lm != nil {
			lang = lm[1]
		}
		return scripts.Put(highlightCode(strings.TrimRight(sub[2], "\n"), lang))
	})

	text = verbatimEnv.ReplaceAllStringFunc(text, func(m string) string {
		sub := verbatimEnv.FindStringSubmatch(m)
		code := escapeHTML(strings.TrimRight(sub[1], "\n"))
		return scripts.Put("<pre><code>" + code + "</code></pre>")
	})

	return convertVerbCommand(text, scripts)
}

// convertVerbCommand rewrites \verb|...| spans into inline code.
func convertVerbCommand(text string, scripts *Stash) string {
	var b strings.Builder
	b.Grow(len(text))

	i := 0
	for i < len(text) {
		idx := strings.Index(text[i:], `\verb`)
		if idx < 0 {
			b.WriteString(text[i:])
			break
		}
		idx += i
		b.WriteString(text[i:idx])

		after := idx + len(`\verb`)
		if after >= len(text) || isLetter(text[after]) {
			b.WriteString(text[idx:after])
			i = after
			continue
		}
		delim := text[after]
		end := strings.IndexByte(text[after+1:], delim)
		if end < 0 {
			b.WriteString(text[idx:after])
			i = after
			continue
		}
		end += after + 1

		b.WriteString(scripts.Put("<code>" + escapeHTML(text[after+1:end]) + "</code>"))
		i = end + 1
	}
	return b.String()
}

// highlightCode renders code as syntax-highlighted HTML using CSS classes,
// so the stylesheet controls the palette. Unknown languages and formatter
// failures fall back to an unhighlighted code block.
func highlightCode(code, lang string) string {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("github")
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "<pre><code>" + escapeHTML(code) + "</code></pre>"
	}

	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return "<pre><code>" + escapeHTML(code) + "</code></pre>"
	}
	return fmt.Sprintf(`<div class="code-block">%s</div>`, buf.String())
}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	return strings.ReplaceAll(s, ">", "&gt;")
}
