package pipeline

import (
	"strings"
	"testing"
)

func TestConvertDiagrams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		text         string
		wantContains []string
		wantExcludes []string
	}{
		{
			name: "fenced tikz block",
			text: "```tikz\n\\draw (0,0) -- (1,1);\n```",
			wantContains: []string{
				`<script type="text/tikz">`,
				`\draw (0,0) -- (1,1);`,
				`\usetikzlibrary`,
			},
			wantExcludes: []string{"```"},
		},
		{
			name: "tkz environment with options",
			text: `\begin{tkz}[scale=2]\draw (0,0) circle (1);\end{tkz}`,
			wantContains: []string{
				`\begin{tikzpicture}[scale=2]`,
				`\draw (0,0) circle (1);`,
				`\end{tikzpicture}`,
			},
			wantExcludes: []string{`\begin{tkz}`},
		},
		{
			name: "tz shorthand",
			text: `\tz{\draw (0,0) -- (1,0);}`,
			wantContains: []string{
				`<script type="text/tikz">`,
				`\begin{tikzpicture}`,
				`\draw (0,0) -- (1,0);`,
			},
			wantExcludes: []string{`\tz{`},
		},
		{
			name: "tikzcd with display math wrapper",
			text: `\[ \begin{tikzcd} A \arrow[r] & B \end{tikzcd} \]`,
			wantContains: []string{
				`\begin{tikzcd}`,
				`<script type="text/tikz">`,
			},
			wantExcludes: []string{`\[`},
		},
		{
			name: "raw tikzpicture without preamble",
			text: `\begin{tikzpicture}\node {x};\end{tikzpicture}`,
			wantContains: []string{
				`<script type="text/tikz">`,
				`\node {x};`,
			},
			wantExcludes: []string{`\usetikzlibrary`},
		},
		{
			name: "longer command tzset untouched",
			text: `\tzset{style}`,
			wantContains: []string{`\tzset{style}`},
			wantExcludes: []string{"<script"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			scripts := NewStash("s")
			got := scripts.Restore(ConvertDiagrams(tt.text, scripts, DefaultTikZPreamble))
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("missing %q in:\n%s", want, got)
				}
			}
			for _, excl := range tt.wantExcludes {
				if strings.Contains(got, excl) {
					t.Errorf("should not contain %q in:\n%s", excl, got)
				}
			}
		})
	}
}

// Diagram syntax inside verbatim is documentation, not a diagram.
func TestConvertDiagramsShieldsVerbatim(t *testing.T) {
	t.Parallel()

	text := "\\begin{verbatim}\n\\begin{tikzpicture}x\\end{tikzpicture}\n\\end{verbatim}"
	scripts := NewStash("s")
	got := ConvertDiagrams(text, scripts, DefaultTikZPreamble)

	if got != text {
		t.Errorf("verbatim content rewritten:\n%s", got)
	}
	if scripts.Len() != 0 {
		t.Errorf("stashed %d scripts from verbatim content", scripts.Len())
	}
}

func TestConvertDiagramsStashesOutput(t *testing.T) {
	t.Parallel()

	scripts := NewStash("s")
	got := ConvertDiagrams("```tikz\n\\draw;\n```", scripts, DefaultTikZPreamble)

	if !HasStashTokens(got) {
		t.Errorf("diagram not stashed: %q", got)
	}
	if scripts.Len() != 1 {
		t.Errorf("Len() = %d, want 1", scripts.Len())
	}
}
