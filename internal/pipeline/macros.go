package pipeline

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// MacroEntry is one substitution handed to the client-side math renderer.
// Arity 0 entries are plain substitutions; higher arities use positional
// #1..#9 placeholders in the body.
type MacroEntry struct {
	Body  string
	Arity int
}

// MacroTable maps macro names (without the leading backslash) to entries.
type MacroTable map[string]MacroEntry

// maxMacroArity bounds declared arities; TeX itself allows at most 9.
const maxMacroArity = 9

var macroDeclPattern = regexp.MustCompile(`\\(?:re)?newcommand\s*\{\\([a-zA-Z]+)\}`)

// BuildMacroTable merges the generated built-in shorthand table with the
// user declarations found in text. User entries override built-ins of the
// same name. Malformed declarations are skipped and reported as warnings;
// they never fail the conversion.
func BuildMacroTable(text string) (MacroTable, []string) {
	table := BuiltinMacros()
	user, warnings := ExtractMacros(text)
	for name, entry := range user {
		table[name] = entry
	}
	return table, warnings
}

// ExtractMacros parses \newcommand and \renewcommand declarations. The
// arity and body are pulled with the balanced scanner so bodies containing
// nested braces are captured whole.
func ExtractMacros(text string) (MacroTable, []string) {
	macros := make(MacroTable)
	var warnings []string

	idx := 0
	for {
		m := macroDeclPattern.FindStringSubmatchIndex(text[idx:])
		if m == nil {
			break
		}
		name := text[idx+m[2] : idx+m[3]]
		cur := idx + m[1]

		arity := 0
		cur = skipSpaces(text, cur)
		if cur < len(text) && text[cur] == '[' {
			span, err := ScanBracketGroup(text, cur)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("skipping macro \\%s: unbalanced arity bracket", name))
				idx = cur + 1
				continue
			}
			if n, err := strconv.Atoi(strings.TrimSpace(span.Content)); err == nil && n >= 0 && n <= maxMacroArity {
				arity = n
			}
			cur = span.End
		}

		cur = skipSpaces(text, cur)
		if cur >= len(text) || text[cur] != '{' {
			warnings = append(warnings, fmt.Sprintf("skipping macro \\%s: missing body", name))
			idx = cur
			continue
		}
		span, err := ScanBraceGroup(text, cur)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipping macro \\%s: unbalanced body", name))
			idx = cur + 1
			continue
		}

		macros[name] = MacroEntry{Body: span.Content, Arity: arity}
		idx = span.End
	}

	return macros, warnings
}

// Font-style prefixes crossed with the Latin alphabet to generate the
// built-in shorthands. Generating these keeps the table at two loops
// instead of hundreds of hand-maintained entries.
var fontPrefixes = []struct {
	prefix  string
	command string
}{
	{"c", `\mathcal`},
	{"bb", `\mathbb`},
	{"sf", `\mathsf`},
	{"f", `\mathfrak`},
	{"b", `\mathbf`},
	{"s", `\mathscr`},
	{"e", `\mathcal`},
}

// BuiltinMacros generates the default shorthand table: one entry per
// uppercase letter per font-style prefix, lowercase fraktur letters, and a
// curated set of operators, arrows, and delimiter pairs.
func BuiltinMacros() MacroTable {
	table := make(MacroTable, 256)

	for c := 'A'; c <= 'Z'; c++ {
		for _, fp := range fontPrefixes {
			table[fp.prefix+string(c)] = MacroEntry{Body: fmt.Sprintf(`%s{%c}`, fp.command, c)}
		}
	}
	for c := 'a'; c <= 'z'; c++ {
		table["f"+string(c)] = MacroEntry{Body: fmt.Sprintf(`\mathfrak{%c}`, c)}
	}

	for name, body := range builtinExtras {
		table[name] = MacroEntry{Body: body}
	}
	return table
}

// Curated entries that don't fit the generated grid: operator names,
// arrows, delimiter pairs, and a few category names.
var builtinExtras = map[string]string{
	"bar":      `\overline`,
	"Obj":      `\operatorname{Obj}`,
	"Hom":      `\operatorname{Hom}`,
	"Mor":      `\operatorname{Mor}`,
	"End":      `\operatorname{End}`,
	"Aut":      `\operatorname{Aut}`,
	"Tr":       `\operatorname{Tr}`,
	"eval":     `\operatorname{eval}`,
	"id":       `\mathrm{id}`,
	"pt":       `\mathrm{pt}`,
	"colim":    `\operatorname{colim}`,
	"Ext":      `\operatorname{Ext}`,
	"Tor":      `\operatorname{Tor}`,
	"Spec":     `\operatorname{Spec}`,
	"Sk":       `\operatorname{Sk}`,
	"im":       `\operatorname{im}`,
	"coker":    `\operatorname{coker}`,
	"coloneqq": `\mathrel{\vcenter{:}}=`,
	"coloneq":  `\mathrel{\vcenter{:}}=`,
	"eqqcolon": `=\mathrel{\vcenter{:}}`,
	"to":       `\rightarrow`,
	"endto":    `\to`,
	"injto":    `\hookrightarrow`,
	"surjto":   `\twoheadrightarrow`,
	"longto":   `\longrightarrow`,
	"lto":      `\longrightarrow`,
	"mapsfrom": `\mathrel{\reflectbox{\ensuremath{\mapsto}}}`,
	"bkt":      `\left\langle #1 \middle| #2 \right\rangle`,
	"pbkt":     `\left( #1 \middle| #2 \right)`,
	"abs":      `\left| #1 \right|`,
	"norm":     `\left\| #1 \right\|`,
	"set":      `\left\{ #1 \right\}`,
	"Set":      `\mathbf{Set}`,
	"bra":      `\left\langle #1 \right|`,
	"ket":      `\left| #1 \right\rangle`,
	"braket":   `\left\langle #1 \middle| #2 \right\rangle`,
	"Grp":      `\mathbf{Grp}`,
	"Top":      `\mathbf{Top}`,
	"Vec":      `\mathbf{Vec}`,
	"Hilb":     `\mathbf{Hilb}`,
	"undC":     `\underline{\mathcal{C}}`,
	"orev":     `\overline`,
	"fcj":      `\widehat`,
	"e":        `\varepsilon`,
	"glu":      `\mathrm{gl}`,
	"a":        `\alpha`,
	"b":        `\beta`,
	"d":        `\delta`,
	"g":        `\gamma`,
	"todo":     `\textbf{[[}\textsl{#1}\textbf{]]}`,
}

// MathJaxObject serializes the table as the body of a MathJax v3 macros
// object: one `"name": "body"` line per entry, arity > 0 entries as
// `"name": ["body", n]`. Keys are sorted so output is deterministic.
func (t MacroTable) MathJaxObject() string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		entry := t[name]
		arity := entry.Arity
		if scanned := maxPlaceholder(entry.Body); scanned > arity {
			arity = scanned
		}

		body := strings.ReplaceAll(entry.Body, `\`, `\\`)
		body = strings.ReplaceAll(body, `"`, `\"`)

		if arity > 0 {
			lines = append(lines, fmt.Sprintf(`        "%s": ["%s", %d]`, name, body, arity))
		} else {
			lines = append(lines, fmt.Sprintf(`        "%s": "%s"`, name, body))
		}
	}
	return strings.Join(lines, ",\n")
}

// maxPlaceholder returns the highest #n parameter referenced in body,
// ignoring escaped \# hashes.
func maxPlaceholder(body string) int {
	maxN := 0
	for i := 0; i+1 < len(body); i++ {
		if body[i] == '\\' {
			i++ // skip escaped character
			continue
		}
		if body[i] == '#' && body[i+1] >= '1' && body[i+1] <= '9' {
			if n := int(body[i+1] - '0'); n > maxN {
				maxN = n
			}
		}
	}
	return maxN
}
