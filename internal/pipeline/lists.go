package pipeline

import (
	"regexp"
	"strings"
)

var (
	dashItemPattern    = regexp.MustCompile(`^(\s*)-\s+(.*)$`)
	orderedItemPattern = regexp.MustCompile(`^(\s*)-\s+\(([ivxIVX0-9]+)\)\s+(.*)$`)
	anyDashPattern     = regexp.MustCompile(`^\s*-\s+`)
	itemSplitPattern   = regexp.MustCompile(`\s*\\item\s+`)
	lstEnvPattern      = regexp.MustCompile(`(?s)\\begin\{lst\}(?:\[(.*?)\])?(.*?)\\end\{lst\}`)
	itemizeEnvPattern  = regexp.MustCompile(`(?s)\\begin\{itemize\}(?:\[(.*?)\])?(.*?)\\end\{itemize\}`)
	enumEnvPattern     = regexp.MustCompile(`(?s)\\begin\{enumerate\}(?:\[(.*?)\])?(.*?)\\end\{enumerate\}`)
)

// ConvertItemEnvironments rewrites \item based list environments (lst,
// itemize, enumerate) into HTML lists. Runs before the dash-list scanner so
// the scanner only ever sees markdown-style items.
func ConvertItemEnvironments(text string) string {
	text = lstEnvPattern.ReplaceAllStringFunc(text, func(m string) string {
		sub := lstEnvPattern.FindStringSubmatch(m)
		return renderItemEnv(sub[2], "")
	})
	replaceStd := func(pattern *regexp.Regexp) {
		text = pattern.ReplaceAllStringFunc(text, func(m string) string {
			sub := pattern.FindStringSubmatch(m)
			class := ""
			if strings.Contains(sub[1], "nosep") {
				class = ` class="nosep"`
			}
			return "\n" + renderItemEnv(sub[2], class) + "\n"
		})
	}
	replaceStd(itemizeEnvPattern)
	replaceStd(enumEnvPattern)
	return text
}

func renderItemEnv(content, class string) string {
	var b strings.Builder
	b.WriteString("<ul" + class + ">\n")
	for _, item := range itemSplitPattern.Split(content, -1) {
		if item = strings.TrimSpace(item); item != "" {
			b.WriteString("<li>" + item + "</li>\n")
		}
	}
	b.WriteString("</ul>")
	return b.String()
}

// listBuilder accumulates the items of one open HTML list during the line
// scan.
type listBuilder struct {
	out        []string
	itemLines  []string
	listTag    string // "ul" or "ol"
	baseIndent int
	open       bool
}

func (lb *listBuilder) flushItem() {
	if len(lb.itemLines) > 0 {
		lb.out = append(lb.out, "<li>"+strings.Join(lb.itemLines, " ")+"</li>")
		lb.itemLines = nil
	}
}

func (lb *listBuilder) closeList() {
	if lb.open {
		lb.flushItem()
		lb.out = append(lb.out, "</"+lb.listTag+">")
		lb.open = false
		lb.listTag = ""
	}
}

func (lb *listBuilder) startItem(tag string, indent int, content string) {
	if !lb.open || lb.listTag != tag {
		lb.closeList()
		lb.out = append(lb.out, "<"+tag+">")
		lb.open = true
		lb.listTag = tag
		lb.baseIndent = indent
	} else {
		lb.flushItem()
	}
	lb.itemLines = append(lb.itemLines, content)
}

// ConvertDashLists converts markdown-style dash lists into HTML lists in a
// single line scan. "- item" opens an unordered list; "- (i) item" with a
// roman or arabic label opens an ordered one. An indented line, a display
// math line, or a line that is entirely stash tokens continues the current
// item; a blank line ends the list unless another item follows directly.
func ConvertDashLists(text string) string {
	lines := strings.Split(text, "\n")
	lb := &listBuilder{}

	for i, line := range lines {
		stripped := strings.TrimSpace(line)

		if om := orderedItemPattern.FindStringSubmatch(line); om != nil {
			lb.startItem("ol", len(om[1]), strings.TrimSpace(om[3]))
			continue
		}
		if um := dashItemPattern.FindStringSubmatch(line); um != nil {
			lb.startItem("ul", len(um[1]), strings.TrimSpace(um[2]))
			continue
		}

		if lb.open && stripped != "" {
			indent := len(line) - len(strings.TrimLeft(line, " \t"))
			isMath := strings.HasPrefix(stripped, `\[`) || stripped == `\]`
			if indent > lb.baseIndent || isMath || IsStashToken(stripped) {
				lb.itemLines = append(lb.itemLines, stripped)
				continue
			}
			lb.closeList()
			lb.out = append(lb.out, line)
			continue
		}

		if lb.open { // blank line inside a list
			if i+1 >= len(lines) || !anyDashPattern.MatchString(lines[i+1]) {
				lb.closeList()
			} else {
				// The list survives the blank; flush the open item so the
				// blank lands between items, not after the opening tag.
				lb.flushItem()
			}
			lb.out = append(lb.out, line)
			continue
		}

		lb.out = append(lb.out, line)
	}

	lb.closeList()
	return strings.Join(lb.out, "\n")
}
