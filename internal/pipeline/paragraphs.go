package pipeline

import "strings"

// Block-level openings that must not be wrapped in <p>.
var blockTagPrefixes = []string{
	"<div", "<p", "<script", "<ul", "<ol", "<li",
	"<h1", "<h2", "<h3", "<h4", "<h5", "<h6",
	"<table", "<blockquote", "<section", "<header", "<footer", "<style",
}

var closingBlockPrefixes = []string{"</div", "</ul", "</ol", "</table"}

// WrapParagraphs groups runs of plain text lines into <p> elements.
// Block-level HTML lines pass through unwrapped and flush the current
// paragraph; script and style elements pass through entirely untouched,
// including their contents.
func WrapParagraphs(text string) string {
	lines := strings.Split(text, "\n")
	var out []string
	var para []string
	inScript := false
	inOpenTag := false

	flush := func() {
		if len(para) > 0 {
			out = append(out, "<p>"+strings.Join(para, " ")+"</p>")
			para = nil
		}
	}

	for _, line := range lines {
		stripped := strings.TrimSpace(line)

		if strings.Contains(stripped, "<script") || strings.Contains(stripped, "<style") {
			flush()
			out = append(out, line)
			inScript = !strings.Contains(stripped, "</script>") && !strings.Contains(stripped, "</style>")
			continue
		}
		if inScript {
			out = append(out, line)
			if strings.Contains(stripped, "</script>") || strings.Contains(stripped, "</style>") {
				inScript = false
			}
			continue
		}

		startsBlock := hasAnyPrefix(stripped, blockTagPrefixes)
		endsBlock := strings.HasPrefix(stripped, "</") && hasAnyPrefix(stripped, closingBlockPrefixes)

		switch {
		case startsBlock || endsBlock:
			flush()
			out = append(out, line)
			// A block opening split across lines keeps passing lines
			// through until its tag closes.
			inOpenTag = startsBlock &&
				(!strings.Contains(stripped, ">") || strings.Count(stripped, "<") > strings.Count(stripped, ">"))
		case inOpenTag:
			out = append(out, line)
			if strings.Contains(stripped, ">") {
				inOpenTag = false
			}
		case stripped == "":
			flush()
			out = append(out, line)
		default:
			para = append(para, stripped)
		}
	}

	flush()
	return strings.Join(out, "\n")
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
