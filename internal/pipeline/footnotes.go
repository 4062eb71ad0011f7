package pipeline

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var footnoteDefPattern = regexp.MustCompile(`(?m)^\[\^([^\]]+)\]:\s*(.*)$`)

// Footnotes collects footnote markers and definitions for one document and
// renders the footer list. Both \footnote{...} and markdown [^id] markers
// share a single numbering sequence assigned in order of appearance, so
// mixing the two styles cannot produce duplicate display numbers.
type Footnotes struct {
	order    []string
	numbers  map[string]int
	defs     map[string]string
	autoN    int
	warnings []string
}

// NewFootnotes creates an empty footnote registry for one document.
func NewFootnotes() *Footnotes {
	return &Footnotes{numbers: make(map[string]int), defs: make(map[string]string)}
}

// Convert rewrites all footnote syntax in text: definition lines are
// removed, markers become superscript links, and inline \footnote bodies
// are moved to the footer.
func (f *Footnotes) Convert(text string) string {
	text = f.extractDefinitions(text)
	text = f.convertInline(text)
	return f.convertRefs(text)
}

// extractDefinitions removes [^id]: content lines, recording each body.
func (f *Footnotes) extractDefinitions(text string) string {
	return footnoteDefPattern.ReplaceAllStringFunc(text, func(m string) string {
		sub := footnoteDefPattern.FindStringSubmatch(m)
		f.defs[sub[1]] = strings.TrimSpace(sub[2])
		return ""
	})
}

// convertInline replaces \footnote{body} with a numbered marker, scanning
// the body with brace balancing. A \footnote with no brace group stays
// literal.
func (f *Footnotes) convertInline(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	i := 0
	for i < len(text) {
		idx := strings.Index(text[i:], `\footnote`)
		if idx < 0 {
			b.WriteString(text[i:])
			break
		}
		idx += i
		b.WriteString(text[i:idx])

		cur := skipSpaces(text, idx+len(`\footnote`))
		if cur >= len(text) || text[cur] != '{' {
			b.WriteString(text[idx : idx+len(`\footnote`)])
			i = idx + len(`\footnote`)
			continue
		}
		span, err := ScanBraceGroup(text, cur)
		if err != nil {
			b.WriteString(text[idx : idx+len(`\footnote`)])
			i = idx + len(`\footnote`)
			continue
		}

		f.autoN++
		id := fmt.Sprintf("auto-%d", f.autoN)
		f.defs[id] = span.Content
		b.WriteString(f.marker(id))
		i = span.End
	}
	return b.String()
}

// convertRefs replaces markdown [^id] markers. A marker directly followed
// by a colon is a stray definition line remnant and is left alone.
func (f *Footnotes) convertRefs(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	i := 0
	for i < len(text) {
		idx := strings.Index(text[i:], "[^")
		if idx < 0 {
			b.WriteString(text[i:])
			break
		}
		idx += i
		b.WriteString(text[i:idx])

		end := strings.IndexByte(text[idx:], ']')
		if end < 0 {
			b.WriteString(text[idx:])
			break
		}
		end += idx
		if end+1 < len(text) && text[end+1] == ':' {
			b.WriteString(text[idx : end+1])
			i = end + 1
			continue
		}

		id := text[idx+2 : end]
		if _, ok := f.defs[id]; !ok {
			f.warnings = append(f.warnings, fmt.Sprintf("footnote reference [^%s] has no definition", id))
		}
		b.WriteString(f.marker(id))
		i = end + 1
	}
	return b.String()
}

// marker renders the superscript link for id, assigning its display number
// on first use.
func (f *Footnotes) marker(id string) string {
	n, ok := f.numbers[id]
	if !ok {
		f.order = append(f.order, id)
		n = len(f.order)
		f.numbers[id] = n
	}
	return fmt.Sprintf(`<sup id="fnref-%s"><a href="#fn-%s">[%d]</a></sup>`, id, id, n)
}

// Warnings reports references that had no definition.
func (f *Footnotes) Warnings() []string {
	return f.warnings
}

// FooterHTML renders the footnote list in marker order, or "" when the
// document has no footnotes. Definitions that were never referenced are
// appended after the referenced ones.
func (f *Footnotes) FooterHTML() string {
	ids := make([]string, 0, len(f.defs))
	ids = append(ids, f.order...)
	var orphans []string
	for id := range f.defs {
		if _, referenced := f.numbers[id]; !referenced {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	ids = append(ids, orphans...)

	any := false
	var b strings.Builder
	b.WriteString("\n<div class=\"footnotes\">\n<hr>\n<ol>")
	for _, id := range ids {
		content, ok := f.defs[id]
		if !ok {
			continue
		}
		any = true
		fmt.Fprintf(&b, "\n<li id=\"fn-%s\">%s <a href=\"#fnref-%s\">↩</a></li>", id, content, id)
	}
	b.WriteString("\n</ol>\n</div>")

	if !any {
		return ""
	}
	return b.String()
}
