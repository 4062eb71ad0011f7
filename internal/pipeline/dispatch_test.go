package pipeline

// Notes:
// - Environment rendering is asserted with substring checks where the exact
//   whitespace layout is incidental, and with full strings where the layout
//   is the contract (label paragraph before lists)
// - Unterminated and malformed markers must degrade to passthrough; input is
//   never discarded

import (
	"strings"
	"testing"
)

func TestDispatcherCommands(t *testing.T) {
	t.Parallel()

	commands := map[string]CommandEntry{
		"note": {
			NumArgs:  1,
			Optional: true,
			Render: func(opt string, hasOpt bool, args []string) string {
				if hasOpt {
					return "<note kind=\"" + opt + "\">" + args[0] + "</note>"
				}
				return "<note>" + args[0] + "</note>"
			},
		},
		"echo": {
			NumArgs: 1,
			Render: func(_ string, _ bool, _ []string) string {
				return `\note{trap}`
			},
		},
	}
	d := NewDispatcher(commands, nil)

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "plain argument",
			text: `pre \note{body} post`,
			want: `pre <note>body</note> post`,
		},
		{
			name: "optional argument",
			text: `\note[warn]{body}`,
			want: `<note kind="warn">body</note>`,
		},
		{
			name: "nested braces in argument",
			text: `\note{a {b} c}`,
			want: `<note>a {b} c</note>`,
		},
		{
			name: "missing argument passes through",
			text: `\note and nothing else`,
			want: `\note and nothing else`,
		},
		{
			name: "unbalanced argument passes through",
			text: `\note{never closes`,
			want: `\note{never closes`,
		},
		{
			name: "unknown command untouched",
			text: `\other{x}`,
			want: `\other{x}`,
		},
		{
			name: "nested command in argument dispatched",
			text: `\note{\note{inner}}`,
			want: `<note><note>inner</note></note>`,
		},
		{
			name: "renderer output not rescanned",
			text: `\echo{x}`,
			want: `\note{trap}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := d.Apply(tt.text); got != tt.want {
				t.Errorf("Apply(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestDispatcherEnvironments(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(nil, TheoremEnvTable())

	tests := []struct {
		name         string
		text         string
		wantContains []string
		wantExcludes []string
	}{
		{
			name: "theorem with title",
			text: "\\begin{theorem}[Fubini]\nIntegrals commute.\n\\end{theorem}",
			wantContains: []string{
				`<div class="env-box theorem">`,
				`<strong>Theorem (Fubini).</strong> Integrals commute.`,
			},
		},
		{
			name:         "definition without title",
			text:         `\begin{definition}A group is a monoid with inverses.\end{definition}`,
			wantContains: []string{`<strong>Definition.</strong> A group is a monoid`},
		},
		{
			name:         "framed variant keeps its class",
			text:         `\begin{frameddefinition}Body.\end{frameddefinition}`,
			wantContains: []string{`env-box frameddefinition`, `<strong>Definition.</strong> Body.`},
		},
		{
			name:         "braced title unwrapped",
			text:         `\begin{theorem}[{Stone--Weierstrass}]Body.\end{theorem}`,
			wantContains: []string{`<strong>Theorem (Stone--Weierstrass).</strong>`},
		},
		{
			name:         "idea title not repeated",
			text:         `\begin{idea}[Idea]Sketch.\end{idea}`,
			wantContains: []string{`<strong>Idea.</strong> Sketch.`},
			wantExcludes: []string{`Idea (Idea)`},
		},
		{
			name:         "center environment",
			text:         `\begin{center}middle\end{center}`,
			wantContains: []string{`<div style="text-align: center;">middle</div>`},
		},
		{
			name:         "unknown environment untouched",
			text:         `\begin{align}x &= y\end{align}`,
			wantContains: []string{`\begin{align}`, `\end{align}`},
		},
		{
			name: "unterminated environment leaves rest intact",
			text: `\begin{theorem} open forever \begin{lemma}closed\end{lemma}`,
			wantContains: []string{
				`\begin{theorem}`,
				"open forever",
				`<div class="env-box lemma">`,
			},
			wantExcludes: []string{`\begin{lemma}`},
		},
		{
			name: "nested same-name environments close correctly",
			text: `\begin{example}outer \begin{example}inner\end{example} tail\end{example}`,
			wantContains: []string{
				"outer",
				"inner",
				"tail",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := d.Apply(tt.text)
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("Apply() missing %q in:\n%s", want, got)
				}
			}
			for _, excl := range tt.wantExcludes {
				if strings.Contains(got, excl) {
					t.Errorf("Apply() should not contain %q in:\n%s", excl, got)
				}
			}
		})
	}
}

func TestDispatcherNestedEnvironmentCount(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(nil, TheoremEnvTable())
	got := d.Apply(`\begin{example}A\begin{example}B\end{example}C\end{example}`)

	if n := strings.Count(got, `<div class="env-box example">`); n != 2 {
		t.Errorf("rendered %d example boxes, want 2:\n%s", n, got)
	}
	if strings.Contains(got, `\begin{example}`) || strings.Contains(got, `\end{example}`) {
		t.Errorf("unconsumed markers remain:\n%s", got)
	}
}

func TestRenderTheoremEnvListBody(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(nil, TheoremEnvTable())
	got := d.Apply("\\begin{remark}\n<ul>\n<li>x</li>\n</ul>\n\\end{remark}")

	if !strings.Contains(got, "<p><strong>Remark.</strong></p>\n<ul>") {
		t.Errorf("label not on its own paragraph before list:\n%s", got)
	}
}

func TestNormalizeEnvironments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "restatable collapses to inner environment",
			text: `\begin{restatable}{theorem}{mainthm}Body\end{restatable}`,
			want: `\begin{theorem}Body\end{theorem}`,
		},
		{
			name: "pf becomes proof",
			text: `\begin{pf}Trivial.\end{pf}`,
			want: `\begin{proof}Trivial.\end{proof}`,
		},
		{
			name: "other environments untouched",
			text: `\begin{lemma}x\end{lemma}`,
			want: `\begin{lemma}x\end{lemma}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := NormalizeEnvironments(tt.text); got != tt.want {
				t.Errorf("NormalizeEnvironments(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
