package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

// sectionLevels maps heading commands to their HTML tags. The document
// title is h1, so top-level sections start at h2.
var sectionLevels = []struct {
	command string
	tag     string
}{
	{"subsubsection", "h4"},
	{"subsection", "h3"},
	{"section", "h2"},
}

var (
	mdHeader4 = regexp.MustCompile(`(?m)^####\s+(.+)$`)
	mdHeader3 = regexp.MustCompile(`(?m)^###\s+(.+)$`)
	mdHeader2 = regexp.MustCompile(`(?m)^##\s+(.+)$`)

	htmlTagPattern     = regexp.MustCompile(`<[^>]+>`)
	texCommandPattern  = regexp.MustCompile(`\\[a-zA-Z]+`)
	nonAnchorRunes     = regexp.MustCompile(`[^a-zA-Z0-9\s-]`)
	headingWithID      = regexp.MustCompile(`<h2[^>]*id="([^"]+)"[^>]*>(.*?)</h2>`)
	unsafeAnchorRunes  = regexp.MustCompile(`[^a-zA-Z0-9\-_]`)
	whitespaceCollapse = regexp.MustCompile(`\s+`)
)

// Heading is one rendered section heading, collected for the table of
// contents.
type Heading struct {
	ID    string
	Title string
}

// ConvertSections converts \section, \subsection, and \subsubsection (and
// their starred forms) plus markdown ## headers to HTML headings. Titles
// are scanned with brace balancing so embedded math and macros survive.
// Every heading gets a slug ID derived from its title; IDs are unique
// within a document, with a positional suffix breaking ties.
func ConvertSections(text string) string {
	var out strings.Builder
	out.Grow(len(text))
	seen := make(map[string]bool)

	i := 0
	for i < len(text) {
		next := strings.IndexByte(text[i:], '\\')
		if next < 0 {
			out.WriteString(text[i:])
			break
		}
		next += i
		out.WriteString(text[i:next])
		i = next

		cmd, tag := matchSectionCommand(text, i)
		if cmd == "" {
			out.WriteByte(text[i])
			i++
			continue
		}

		cur := i + 1 + len(cmd)
		if cur < len(text) && text[cur] == '*' {
			cur++
		}
		cur = skipSpaces(text, cur)
		if cur >= len(text) || text[cur] != '{' {
			out.WriteString(text[i:cur])
			i = cur
			continue
		}
		span, err := ScanBraceGroup(text, cur)
		if err != nil {
			out.WriteString(text[i:cur])
			i = cur
			continue
		}

		id := headingID(span.Content, span.End, seen)
		fmt.Fprintf(&out, `<%s id="%s">%s</%s>`, tag, id, span.Content, tag)
		i = span.End
	}

	result := out.String()
	result = mdHeader4.ReplaceAllString(result, "<h4>$1</h4>")
	result = mdHeader3.ReplaceAllString(result, "<h3>$1</h3>")
	result = mdHeader2.ReplaceAllString(result, "<h2>$1</h2>")
	return result
}

// matchSectionCommand tests whether the backslash at i starts a heading
// command followed by * or {. Longest names are tried first so
// \subsubsection is not misread as \subsection.
func matchSectionCommand(text string, i int) (command, tag string) {
	for _, lvl := range sectionLevels {
		if !strings.HasPrefix(text[i:], `\`+lvl.command) {
			continue
		}
		after := i + 1 + len(lvl.command)
		if after < len(text) && (text[after] == '*' || text[after] == '{') {
			return lvl.command, lvl.tag
		}
		return "", "" // plain word like \sectional, or bare \section
	}
	return "", ""
}

// headingID derives a slug from the title text: tags and commands removed,
// lowercased, spaces to hyphens. pos disambiguates duplicate or empty slugs
// so every anchor in the document stays unique.
func headingID(title string, pos int, seen map[string]bool) string {
	clean := htmlTagPattern.ReplaceAllString(title, "")
	clean = texCommandPattern.ReplaceAllString(clean, "")
	clean = nonAnchorRunes.ReplaceAllString(clean, "")
	clean = strings.TrimSpace(strings.ToLower(clean))
	id := whitespaceCollapse.ReplaceAllString(clean, "-")

	if id == "" || id == "-" || seen[id] {
		id = fmt.Sprintf("section-%d", pos)
	}
	seen[id] = true
	return id
}

// CollectHeadings extracts the h2 headings of rendered HTML for the table
// of contents.
func CollectHeadings(html string) []Heading {
	var headings []Heading
	for _, m := range headingWithID.FindAllStringSubmatch(html, -1) {
		headings = append(headings, Heading{ID: m[1], Title: m[2]})
	}
	return headings
}
