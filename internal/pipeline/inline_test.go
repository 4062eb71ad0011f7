package pipeline

import (
	"testing"
)

func TestConvertInlineMarkup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "textbf",
			text: `\textbf{bold}`,
			want: "<strong>bold</strong>",
		},
		{
			name: "markdown bold",
			text: "**bold**",
			want: "<strong>bold</strong>",
		},
		{
			name: "emph",
			text: `\emph{stress}`,
			want: "<em>stress</em>",
		},
		{
			name: "markdown italic",
			text: "*slanted*",
			want: "<em>slanted</em>",
		},
		{
			name: "textit",
			text: `\textit{it}`,
			want: "<em>it</em>",
		},
		{
			name: "texttt",
			text: `\texttt{code}`,
			want: "<code>code</code>",
		},
		{
			name: "tex double quotes",
			text: "``quoted''",
			want: "“quoted”",
		},
		{
			name: "textbackslash",
			text: `a \textbackslash b`,
			want: `a \ b`,
		},
		{
			name: "nested commands compose",
			text: `\textbf{\emph{both}}`,
			want: "<strong><em>both</em></strong>",
		},
		{
			name: "nested braces in argument",
			text: `\texttt{f({x})}`,
			want: "<code>f({x})</code>",
		},
		{
			name: "longer command name not matched",
			text: `\emphasize{x}`,
			want: `\emphasize{x}`,
		},
		{
			name: "missing argument stays literal",
			text: `a \textbf b`,
			want: `a \textbf b`,
		},
		{
			name: "unbalanced argument stays literal",
			text: `\textbf{oops`,
			want: `\textbf{oops`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ConvertInlineMarkup(tt.text); got != tt.want {
				t.Errorf("ConvertInlineMarkup(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestConvertDefn(t *testing.T) {
	t.Parallel()

	got := ConvertDefn(`a \defn{group} is`)
	want := "a <strong>group</strong> is"
	if got != want {
		t.Errorf("ConvertDefn() = %q, want %q", got, want)
	}
}

func TestConvertTexorpdfstring(t *testing.T) {
	t.Parallel()

	text := `\texorpdfstring{$\mathbb{Z}$}{Z} lattice`

	if got := ConvertTexorpdfstring(text, false); got != `$\mathbb{Z}$ lattice` {
		t.Errorf("tex form = %q", got)
	}
	if got := ConvertTexorpdfstring(text, true); got != "Z lattice" {
		t.Errorf("plain form = %q", got)
	}
}

func TestFixMathColons(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "inline typed arrow",
			text: `$f : A \to B$`,
			want: `$f \colon A \to B$`,
		},
		{
			name: "display typed arrow",
			text: `\[g : X \longrightarrow Y\]`,
			want: `\[g \colon X \longrightarrow Y\]`,
		},
		{
			name: "assignment colon untouched",
			text: `$x := y \to z$`,
			want: `$x := y \to z$`,
		},
		{
			name: "colon outside math untouched",
			text: `note: $a \to b$`,
			want: `note: $a \to b$`,
		},
		{
			name: "hooked arrow",
			text: `$i : U \hookrightarrow X$`,
			want: `$i \colon U \hookrightarrow X$`,
		},
		{
			name: "no arrow after colon",
			text: `$r : s$`,
			want: `$r : s$`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FixMathColons(tt.text); got != tt.want {
				t.Errorf("FixMathColons(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
