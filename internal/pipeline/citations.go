package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

var citationPattern = regexp.MustCompile(`\(\((.*?)\)\)`)

// Citations assigns stable one-based numbers to ((...)) citation markers in
// order of first appearance. Repeating a citation text reuses its number,
// so the same source cited twice yields one reference entry.
type Citations struct {
	refs  []string
	index map[string]int
}

// NewCitations creates an empty citation registry. One registry serves one
// document.
func NewCitations() *Citations {
	return &Citations{index: make(map[string]int)}
}

// Convert replaces every ((...)) marker with a superscript numbered link
// into the reference list.
func (c *Citations) Convert(text string) string {
	return citationPattern.ReplaceAllStringFunc(text, func(m string) string {
		content := citationPattern.FindStringSubmatch(m)[1]
		n := c.number(content)
		return fmt.Sprintf(`<sup><a href="#ref-%d">[%d]</a></sup>`, n, n)
	})
}

// number returns the assigned number for content, assigning the next free
// one on first sight.
func (c *Citations) number(content string) int {
	if n, ok := c.index[content]; ok {
		return n
	}
	c.refs = append(c.refs, content)
	n := len(c.refs)
	c.index[content] = n
	return n
}

// Len returns the number of distinct citations seen.
func (c *Citations) Len() int {
	return len(c.refs)
}

// ReferencesHTML renders the numbered reference list, or "" when no
// citation was seen.
func (c *Citations) ReferencesHTML() string {
	if len(c.refs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n<div class=\"references\">\n<h2>References</h2>\n<ol>\n")
	for i, ref := range c.refs {
		fmt.Fprintf(&b, "<li id=\"ref-%d\">%s</li>\n", i+1, ref)
	}
	b.WriteString("</ol>\n</div>")
	return b.String()
}
