package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	existingMDLink   = regexp.MustCompile(`\[.*?\]\(.*?\)`)
	existingAnchor   = regexp.MustCompile(`(?i)<a\s+href`)
	existingTeXLink  = regexp.MustCompile(`^\s*\\(?:wref|href)`)
	pdfItemPattern   = regexp.MustCompile(`(?i)^(.+?\.pdf)(.*)$`)
	seeAlsoDashStart = regexp.MustCompile(`^-`)
)

// ConvertSeeAlso rewrites \SeeAlso{...} blocks into "See also" panels. A
// body with dash lines becomes a list; otherwise the body is split on
// top-level commas. Items that carry no link of their own become \wref
// wiki links, so this must run before the link converters.
func ConvertSeeAlso(text string) string {
	var out strings.Builder
	out.Grow(len(text))

	i := 0
	for i < len(text) {
		idx := strings.Index(text[i:], `\SeeAlso`)
		if idx < 0 {
			out.WriteString(text[i:])
			break
		}
		idx += i
		out.WriteString(text[i:idx])

		cur := skipSpaces(text, idx+len(`\SeeAlso`))
		if cur >= len(text) || text[cur] != '{' {
			out.WriteString(text[idx : idx+len(`\SeeAlso`)])
			i = idx + len(`\SeeAlso`)
			continue
		}
		span, err := ScanBraceGroup(text, cur)
		if err != nil {
			out.WriteString(text[idx : idx+len(`\SeeAlso`)])
			i = idx + len(`\SeeAlso`)
			continue
		}

		out.WriteString(renderSeeAlso(span.Content))
		i = span.End
	}
	return out.String()
}

func renderSeeAlso(content string) string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	isList := false
	for _, line := range lines {
		if seeAlsoDashStart.MatchString(line) {
			isList = true
			break
		}
	}

	if isList {
		var items []string
		for _, line := range lines {
			if strings.HasPrefix(line, "-") {
				items = append(items, seeAlsoItem(strings.TrimSpace(line[1:])))
			} else if len(items) > 0 {
				// Wrapped continuation of the previous item.
				items[len(items)-1] += " " + line
			} else {
				items = append(items, line)
			}
		}
		var b strings.Builder
		b.WriteString("<div class=\"see-also\"><strong>See also:</strong>\n<ul>\n")
		for _, item := range items {
			b.WriteString("<li>" + item + "</li>\n")
		}
		b.WriteString("</ul></div>")
		return b.String()
	}

	items := splitTopLevelCommas(content)
	links := make([]string, 0, len(items))
	for _, item := range items {
		links = append(links, seeAlsoItem(item))
	}
	return fmt.Sprintf(`<div class="see-also"><strong>See also:</strong> %s</div>`, strings.Join(links, ", "))
}

// seeAlsoItem turns one entry into linked form. Entries already carrying a
// link pass through; a PDF filename links into the attachment directory;
// anything else becomes a wiki reference by document title.
func seeAlsoItem(item string) string {
	item = strings.TrimSpace(item)
	item = strings.TrimSpace(strings.TrimPrefix(item, "- "))

	if existingMDLink.MatchString(item) || existingAnchor.MatchString(item) || existingTeXLink.MatchString(item) {
		return item
	}

	if m := pdfItemPattern.FindStringSubmatch(item); m != nil {
		filename := strings.TrimSpace(m[1])
		return fmt.Sprintf("[%s](../pdfs/%s)%s", filename, filename, m[2])
	}

	return fmt.Sprintf(`\wref{%s}`, item)
}

// splitTopLevelCommas splits on commas that sit outside every level of
// parentheses, brackets, and braces, so "stable (∞,1)-category" stays one
// item.
func splitTopLevelCommas(s string) []string {
	var parts []string
	var current strings.Builder
	paren, brack, brace := 0, 0, 0

	for _, r := range s {
		if r == ',' && paren == 0 && brack == 0 && brace == 0 {
			if p := strings.TrimSpace(current.String()); p != "" {
				parts = append(parts, p)
			}
			current.Reset()
			continue
		}
		current.WriteRune(r)
		switch r {
		case '(':
			paren++
		case ')':
			paren = max(0, paren-1)
		case '[':
			brack++
		case ']':
			brack = max(0, brack-1)
		case '{':
			brace++
		case '}':
			brace = max(0, brace-1)
		}
	}
	if p := strings.TrimSpace(current.String()); p != "" {
		parts = append(parts, p)
	}
	return parts
}
