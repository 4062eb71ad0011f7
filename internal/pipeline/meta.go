package pipeline

import (
	"regexp"
	"strings"
)

// Metadata holds the document header fields extracted before body
// conversion begins.
type Metadata struct {
	Title string
	Tags  []string
}

var (
	tagsPattern       = regexp.MustCompile(`\\Tags\{([^}]*)\}`)
	navigationMarker  = regexp.MustCompile(`\\NoteNavigation\b`)
	headerMarker      = regexp.MustCompile(`\\NoteHeader\b`)
	referencesMarker  = regexp.MustCompile(`\\References\b`)
	footerMarker      = regexp.MustCompile(`\\Footer\b`)
	incomingLinks     = regexp.MustCompile(`\\IncomingLinks\{[^}]+\}`)
	allFormatsCommand = regexp.MustCompile(`\\allformats\{[^}]+\}`)
)

// ExtractMetadata pulls the title and tags from the document header.
// The title argument is scanned with brace balancing because titles often
// contain math or macros; tags are simple comma-separated words.
func ExtractMetadata(text string) Metadata {
	meta := Metadata{Title: "Untitled"}

	if idx := strings.Index(text, `\Title{`); idx >= 0 {
		if span, err := ScanBraceGroup(text, idx+len(`\Title`)); err == nil {
			meta.Title = span.Content
		}
	}

	if m := tagsPattern.FindStringSubmatch(text); m != nil {
		for _, tag := range strings.Split(m[1], ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				meta.Tags = append(meta.Tags, tag)
			}
		}
	}

	return meta
}

// StripComments removes unescaped %-comments to end of line. An escaped
// percent (\%) is literal text and does not start a comment.
func StripComments(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	start := 0
	for start <= len(text) {
		end := strings.IndexByte(text[start:], '\n')
		var line string
		if end < 0 {
			line = text[start:]
		} else {
			line = text[start : start+end]
		}

		cut := len(line)
		for i := 0; i < len(line); i++ {
			if line[i] == '%' && !isEscaped(line, i) {
				cut = i
				break
			}
		}
		b.WriteString(line[:cut])

		if end < 0 {
			break
		}
		b.WriteByte('\n')
		start += end + 1
	}
	return b.String()
}

// ExtractBody returns the renderable portion of the document: the text
// between \NoteHeader and \References or \Footer, falling back to the end
// of the document body. Returns the empty string when no body markers are
// present at all.
func ExtractBody(text string) string {
	if loc := headerMarker.FindStringIndex(text); loc != nil {
		rest := text[loc[1]:]
		end := len(rest)
		if m := referencesMarker.FindStringIndex(rest); m != nil && m[0] < end {
			end = m[0]
		}
		if m := footerMarker.FindStringIndex(rest); m != nil && m[0] < end {
			end = m[0]
		}
		if end < len(rest) {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(trimEndDocument(rest))
	}

	if idx := strings.Index(text, `\begin{document}`); idx >= 0 {
		body := text[idx+len(`\begin{document}`):]
		return strings.TrimSpace(trimEndDocument(body))
	}

	return ""
}

// trimEndDocument cuts everything from the last \end{document} on. The last
// occurrence is used so a verbatim example containing the marker earlier in
// the body does not truncate it.
func trimEndDocument(body string) string {
	if last := strings.LastIndex(body, `\end{document}`); last >= 0 {
		return body[:last]
	}
	return body
}

// StripDirectives removes non-semantic layout markers that only matter to
// the PDF build.
func StripDirectives(text string) string {
	text = navigationMarker.ReplaceAllString(text, "")
	text = headerMarker.ReplaceAllString(text, "")
	text = referencesMarker.ReplaceAllString(text, "")
	text = footerMarker.ReplaceAllString(text, "")
	text = incomingLinks.ReplaceAllString(text, "")
	text = allFormatsCommand.ReplaceAllString(text, "")
	return text
}

// EscapeAngleBrackets escapes HTML tag delimiters in author text. Runs
// after opaque spans are stashed so rendered script and code blocks are
// untouched, and before math is stashed so raw math survives escaping via
// its later restoration.
func EscapeAngleBrackets(text string) string {
	text = strings.ReplaceAll(text, "<", "&lt;")
	return strings.ReplaceAll(text, ">", "&gt;")
}
