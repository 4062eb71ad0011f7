package tex2html

import (
	"fmt"
	"strings"
)

// pageData feeds the page template. Content, Style, and Macros are
// pre-rendered and trusted; the template is text, not html/template, so
// they pass through unescaped.
type pageData struct {
	Title       string
	Style       string
	Macros      string
	Content     string
	Tags        []string
	TagLine     string
	TOC         []Heading
	LinkedNotes []string
	Backlinks   []string
}

// tocMinimum is the heading count below which no table of contents is
// rendered; a one-entry TOC is noise.
const tocMinimum = 2

// assemblePage wraps the rendered body fragment in the standalone page
// shell: stylesheet, math and diagram runtimes, table of contents, and the
// link graph sections.
func (c *Converter) assemblePage(docID, body string, result *Result) (string, error) {
	data := pageData{
		Title:   result.Title,
		Style:   c.style,
		Macros:  result.Macros,
		Content: body,
		Tags:    result.Tags,
		TagLine: strings.Join(result.Tags, ", "),
	}
	if len(result.Headings) >= tocMinimum {
		data.TOC = result.Headings
	}
	if c.cfg.index != nil {
		data.LinkedNotes = result.Links
		if docID != "" {
			data.Backlinks = c.cfg.index.Backlinks(docID)
		}
	}

	var b strings.Builder
	if err := c.pageTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageAssembly, err)
	}
	return b.String(), nil
}
