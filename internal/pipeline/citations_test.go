package pipeline

import (
	"strings"
	"testing"
)

func TestCitationsConvert(t *testing.T) {
	t.Parallel()

	c := NewCitations()
	got := c.Convert("x ((Mac Lane 1971)) y ((Riehl 2016)) z ((Mac Lane 1971))")

	want := `x <sup><a href="#ref-1">[1]</a></sup> y <sup><a href="#ref-2">[2]</a></sup> z <sup><a href="#ref-1">[1]</a></sup>`
	if got != want {
		t.Errorf("Convert() = %q, want %q", got, want)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestCitationsReferencesHTML(t *testing.T) {
	t.Parallel()

	c := NewCitations()
	c.Convert("((First source)) and ((Second source))")
	refs := c.ReferencesHTML()

	for _, want := range []string{
		`<h2>References</h2>`,
		`<li id="ref-1">First source</li>`,
		`<li id="ref-2">Second source</li>`,
	} {
		if !strings.Contains(refs, want) {
			t.Errorf("ReferencesHTML() missing %q in:\n%s", want, refs)
		}
	}
}

func TestCitationsEmpty(t *testing.T) {
	t.Parallel()

	c := NewCitations()
	if got := c.Convert("no citations here"); got != "no citations here" {
		t.Errorf("Convert() altered text: %q", got)
	}
	if refs := c.ReferencesHTML(); refs != "" {
		t.Errorf("ReferencesHTML() = %q, want empty", refs)
	}
}

// Numbering is stable across multiple Convert calls on the same registry.
func TestCitationsAcrossCalls(t *testing.T) {
	t.Parallel()

	c := NewCitations()
	first := c.Convert("((A))")
	second := c.Convert("((B)) then ((A))")

	if !strings.Contains(first, "[1]") {
		t.Errorf("first = %q", first)
	}
	if !strings.Contains(second, "[2]") || !strings.Contains(second, "[1]") {
		t.Errorf("second = %q", second)
	}
}
