package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

// CommandEntry describes one known backslash command. Commands take an
// optional [...] group followed by NumArgs mandatory {...} groups, all
// scanned with brace balancing.
type CommandEntry struct {
	NumArgs  int // mandatory brace groups (0-2)
	Optional bool
	Render   func(opt string, hasOpt bool, args []string) string
}

// EnvRenderer renders an environment once its body has been recursively
// dispatched. name is the full environment name as written (including a
// "framed" prefix, if any).
type EnvRenderer func(name string, opt string, hasOpt bool, body string) string

// Dispatcher scans text for known command and environment markers and
// replaces each with its renderer's output. Unknown commands pass through
// untouched. Malformed arguments degrade to passthrough of the marker
// text; input is never discarded.
type Dispatcher struct {
	commands map[string]CommandEntry
	envs     map[string]EnvRenderer
}

// NewDispatcher creates a dispatcher over the given tables. Either table
// may be nil.
func NewDispatcher(commands map[string]CommandEntry, envs map[string]EnvRenderer) *Dispatcher {
	if commands == nil {
		commands = map[string]CommandEntry{}
	}
	if envs == nil {
		envs = map[string]EnvRenderer{}
	}
	return &Dispatcher{commands: commands, envs: envs}
}

// Apply performs a single forward scan over text, emitting into an output
// buffer. It never rescans its own output, so renderer output containing a
// marker-lookalike is left alone.
func (d *Dispatcher) Apply(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	i := 0
	for i < len(text) {
		next := strings.IndexByte(text[i:], '\\')
		if next < 0 {
			b.WriteString(text[i:])
			break
		}
		next += i
		b.WriteString(text[i:next])
		i = next

		name, after := commandNameAt(text, i)
		if name == "" {
			// Lone backslash or escape like \{; copy it and the next byte.
			if i+1 < len(text) {
				b.WriteString(text[i : i+2])
				i += 2
			} else {
				b.WriteByte(text[i])
				i++
			}
			continue
		}

		if name == "begin" {
			consumed, out := d.dispatchEnvironment(text, i, after)
			b.WriteString(out)
			i = consumed
			continue
		}

		entry, ok := d.commands[name]
		if !ok {
			b.WriteString(text[i:after])
			i = after
			continue
		}

		consumed, out := d.dispatchCommand(text, i, after, entry)
		b.WriteString(out)
		i = consumed
	}

	return b.String()
}

// dispatchCommand parses the arguments of a known command starting at
// markerStart (the backslash) with the name ending at nameEnd. Mandatory
// arguments are dispatched recursively before rendering, so nested known
// commands compose; renderer output itself is never rescanned. On any
// malformed argument the marker text is emitted unchanged and the scan
// resumes just past the name.
func (d *Dispatcher) dispatchCommand(text string, markerStart, nameEnd int, entry CommandEntry) (int, string) {
	cur := skipSpaces(text, nameEnd)

	opt := ""
	hasOpt := false
	if entry.Optional && cur < len(text) && text[cur] == '[' {
		span, err := ScanBracketGroup(text, cur)
		if err != nil {
			return nameEnd, text[markerStart:nameEnd]
		}
		opt = span.Content
		hasOpt = true
		cur = span.End
	}

	args := make([]string, 0, entry.NumArgs)
	for range entry.NumArgs {
		cur = skipSpaces(text, cur)
		if cur >= len(text) || text[cur] != '{' {
			return nameEnd, text[markerStart:nameEnd]
		}
		span, err := ScanBraceGroup(text, cur)
		if err != nil {
			return nameEnd, text[markerStart:nameEnd]
		}
		args = append(args, d.Apply(span.Content))
		cur = span.End
	}

	return cur, entry.Render(opt, hasOpt, args)
}

// dispatchEnvironment handles a \begin{name} marker. The matching
// \end{name} is found by tracking the nesting depth of identical markers,
// so an environment containing another environment of the same name closes
// at the right place. The body is recursively dispatched before rendering.
// An environment that never closes degrades to passthrough of the \begin
// marker, leaving the rest of the document for later, unrelated markers.
func (d *Dispatcher) dispatchEnvironment(text string, markerStart, nameEnd int) (int, string) {
	cur := skipSpaces(text, nameEnd)
	if cur >= len(text) || text[cur] != '{' {
		return nameEnd, text[markerStart:nameEnd]
	}
	nameSpan, err := ScanBraceGroup(text, cur)
	if err != nil {
		return nameEnd, text[markerStart:nameEnd]
	}
	envName := nameSpan.Content
	cur = nameSpan.End

	renderer, ok := d.lookupEnv(envName)
	if !ok {
		return cur, text[markerStart:cur]
	}

	opt := ""
	hasOpt := false
	if cur < len(text) && text[cur] == '[' {
		span, err := ScanBracketGroup(text, cur)
		if err != nil {
			return cur, text[markerStart:cur]
		}
		opt = span.Content
		hasOpt = true
		cur = span.End
	}

	bodyEnd, envEnd, found := findEnvEnd(text, cur, envName)
	if !found {
		return cur, text[markerStart:cur]
	}

	body := strings.TrimSpace(text[cur:bodyEnd])
	body = d.Apply(body)
	return envEnd, renderer(envName, opt, hasOpt, body)
}

// lookupEnv resolves an environment name, accepting an optional "framed"
// prefix on any registered name.
func (d *Dispatcher) lookupEnv(name string) (EnvRenderer, bool) {
	if r, ok := d.envs[name]; ok {
		return r, true
	}
	if base, found := strings.CutPrefix(name, "framed"); found {
		if r, ok := d.envs[base]; ok {
			return r, true
		}
	}
	return nil, false
}

// findEnvEnd locates the \end{name} matching an already-consumed
// \begin{name}, starting the search at from. Depth is tracked per
// environment name: only identical \begin/\end markers count.
func findEnvEnd(text string, from int, name string) (bodyEnd, envEnd int, found bool) {
	begin := `\begin{` + name + `}`
	end := `\end{` + name + `}`

	depth := 1
	i := from
	for i < len(text) {
		nb := strings.Index(text[i:], begin)
		ne := strings.Index(text[i:], end)
		if ne < 0 {
			return 0, 0, false
		}
		if nb >= 0 && nb < ne {
			depth++
			i += nb + len(begin)
			continue
		}
		depth--
		if depth == 0 {
			return i + ne, i + ne + len(end), true
		}
		i += ne + len(end)
	}
	return 0, 0, false
}

// Theorem-like environments rendered as labeled blocks.
var theoremEnvironments = []string{
	"definition", "theorem", "lemma", "proposition", "corollary", "example",
	"remark", "idea", "construction", "claim", "step", "question", "warning",
	"exercise", "fact", "observation", "convention", "note", "notation",
	"axiom", "assumption", "algorithm", "postulate", "proof", "theoremalpha",
}

// TheoremEnvTable builds the environment table: every theorem-like
// environment plus center.
func TheoremEnvTable() map[string]EnvRenderer {
	envs := make(map[string]EnvRenderer, len(theoremEnvironments)+1)
	for _, name := range theoremEnvironments {
		envs[name] = renderTheoremEnv
	}
	envs["center"] = func(_ string, _ string, _ bool, body string) string {
		return `<div style="text-align: center;">` + body + `</div>`
	}
	return envs
}

// renderTheoremEnv renders a theorem-like block: a capitalized kind label,
// an optional parenthetical title, and the body. When the body begins with
// a rendered list the label gets its own paragraph; inlining it before a
// list visually breaks the list's first bullet.
func renderTheoremEnv(name string, opt string, hasOpt bool, body string) string {
	display := strings.TrimPrefix(name, "framed")

	// Strip redundant outer braces from the title, e.g. [{(Cite)}].
	title := opt
	if strings.HasPrefix(title, "{") && strings.HasSuffix(title, "}") {
		title = title[1 : len(title)-1]
	}

	capitalized := capitalize(display)
	var label string
	switch {
	case display == "idea" && title == "Idea":
		// "Idea (Idea)." would repeat itself.
		label = fmt.Sprintf("<strong>%s.</strong>", capitalized)
	case hasOpt && title != "":
		label = fmt.Sprintf("<strong>%s (%s).</strong>", capitalized, title)
	default:
		label = fmt.Sprintf("<strong>%s.</strong>", capitalized)
	}

	trimmed := strings.TrimLeft(body, " \t\n")
	var content string
	if strings.HasPrefix(trimmed, "<ul") || strings.HasPrefix(trimmed, "<ol") {
		content = fmt.Sprintf("<p>%s</p>\n%s", label, body)
	} else {
		content = label + " " + body
	}

	return fmt.Sprintf("<div class=\"env-box %s\">\n%s\n</div>", name, content)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var (
	restatablePattern = regexp.MustCompile(`(?s)\\begin\{restatable\}\{([^}]+)\}\{[^}]+\}(.*?)\\end\{restatable\}`)
	pfBegin           = regexp.MustCompile(`\\begin\{pf\}`)
	pfEnd             = regexp.MustCompile(`\\end\{pf\}`)
)

// NormalizeEnvironments rewrites environment aliases before dispatch:
// restatable wrappers collapse to their inner environment and the pf
// shorthand becomes proof.
func NormalizeEnvironments(text string) string {
	text = restatablePattern.ReplaceAllString(text, `\begin{$1}$2\end{$1}`)
	text = pfBegin.ReplaceAllString(text, `\begin{proof}`)
	return pfEnd.ReplaceAllString(text, `\end{proof}`)
}
