package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultTikZPreamble is prepended to diagram code rendered client-side.
// \wref inside a diagram label is a document link, meaningless to the
// renderer, so it collapses to its display text.
const DefaultTikZPreamble = `\usetikzlibrary{arrows.meta,calc,decorations.markings,shapes.geometric,patterns,positioning,fit}
\newcommand{\wref}[2][]{#2}`

var (
	fencedTikZ  = regexp.MustCompile("(?s)```tikz\\s*(.*?)\\s*```")
	tkzEnv      = regexp.MustCompile(`(?s)\\begin\{tkz\}(?:\[([^\]]*)\])?(.*?)\\end\{tkz\}`)
	tikzcdEnv   = regexp.MustCompile(`(?s)(?:\\\[\s*)?(\\begin\{tikzcd\}.*?\\end\{tikzcd\})(?:\s*\\\])?`)
	tikzPicture = regexp.MustCompile(`(?s)\\begin\{tikzpicture\}(?:\[([^\]]*)\])?(.*?)\\end\{tikzpicture\}`)
)

// ConvertDiagrams rewrites every diagram form into a client-side rendering
// script and stashes it: fenced ```tikz blocks, the tkz environment and \tz
// shorthand, tikzcd diagrams (with an optional display math wrapper), and
// raw tikzpicture environments. Verbatim spans are shielded first so code
// examples showing diagram syntax are not rendered. Runs before HTML
// escaping; the stashed scripts reappear untouched at restore time.
func ConvertDiagrams(text string, scripts *Stash, preamble string) string {
	shield := NewStash("vb")
	text = shield.Extract(text, FindVerbatimSpans)

	wrap := func(content string, withPreamble bool) string {
		if withPreamble {
			content = preamble + "\n" + content
		}
		return scripts.Put(fmt.Sprintf(`<script type="text/tikz">%s</script>`, content))
	}
	picture := func(opt, content string) string {
		if opt != "" {
			return fmt.Sprintf("\\begin{tikzpicture}[%s]\n%s\n\\end{tikzpicture}", opt, content)
		}
		return fmt.Sprintf("\\begin{tikzpicture}\n%s\n\\end{tikzpicture}", content)
	}

	text = fencedTikZ.ReplaceAllStringFunc(text, func(m string) string {
		return wrap(fencedTikZ.FindStringSubmatch(m)[1], true)
	})
	text = tkzEnv.ReplaceAllStringFunc(text, func(m string) string {
		sub := tkzEnv.FindStringSubmatch(m)
		return wrap(picture(sub[1], sub[2]), true)
	})
	text = convertTzCommand(text, func(opt, body string) string {
		return wrap(fmt.Sprintf("\\begin{tikzpicture}[%s]\n%s\n\\end{tikzpicture}", opt, body), true)
	})
	text = tikzcdEnv.ReplaceAllStringFunc(text, func(m string) string {
		return wrap(tikzcdEnv.FindStringSubmatch(m)[1], true)
	})
	text = tikzPicture.ReplaceAllStringFunc(text, func(m string) string {
		sub := tikzPicture.FindStringSubmatch(m)
		return wrap(picture(sub[1], sub[2]), false)
	})

	return shield.Restore(text)
}

// convertTzCommand rewrites \tz[opt]{body} using render. The body is
// scanned with brace balancing; a \tz with no body, or one that is really
// a longer command like \tzset, stays literal.
func convertTzCommand(text string, render func(opt, body string) string) string {
	var b strings.Builder
	b.Grow(len(text))

	i := 0
	for i < len(text) {
		idx := strings.Index(text[i:], `\tz`)
		if idx < 0 {
			b.WriteString(text[i:])
			break
		}
		idx += i
		b.WriteString(text[i:idx])

		after := idx + len(`\tz`)
		if after < len(text) && isLetter(text[after]) {
			b.WriteString(text[idx:after])
			i = after
			continue
		}

		cur := skipSpaces(text, after)
		opt := ""
		if cur < len(text) && text[cur] == '[' {
			span, err := ScanBracketGroup(text, cur)
			if err != nil {
				b.WriteString(text[idx:cur])
				i = cur
				continue
			}
			opt = span.Content
			cur = skipSpaces(text, span.End)
		}

		if cur >= len(text) || text[cur] != '{' {
			b.WriteString(text[idx:cur])
			i = cur
			continue
		}
		span, err := ScanBraceGroup(text, cur)
		if err != nil {
			b.WriteString(text[idx:cur])
			i = cur
			continue
		}

		b.WriteString(render(opt, span.Content))
		i = span.End
	}
	return b.String()
}
