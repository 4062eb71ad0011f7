package tex2html

import (
	"reflect"
	"testing"
)

func TestBuildIndex(t *testing.T) {
	t.Parallel()

	index := BuildIndex(map[string]string{
		"alpha": `\Title{Alpha Doc}` + "\n" + `\wref{beta} and \wref{gamma} and \wref{unknown-doc}`,
		"beta":  `\Title{Beta Doc}` + "\n" + `\wref{gamma}`,
		"gamma": `\Title{\texorpdfstring{$\Gamma$}{Gamma} Doc}` + "\n" + `\wref{gamma}`,
	})

	if index.Len() != 3 {
		t.Errorf("Len() = %d, want 3", index.Len())
	}

	tests := []struct {
		name      string
		id        string
		wantTitle string
		wantOK    bool
	}{
		{name: "plain title", id: "alpha", wantTitle: "Alpha Doc", wantOK: true},
		{name: "texorpdfstring collapsed to plain form", id: "gamma", wantTitle: "Gamma Doc", wantOK: true},
		{name: "unknown id", id: "missing", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			title, ok := index.Title(tt.id)
			if ok != tt.wantOK {
				t.Fatalf("Title(%q) ok = %v, want %v", tt.id, ok, tt.wantOK)
			}
			if ok && title != tt.wantTitle {
				t.Errorf("Title(%q) = %q, want %q", tt.id, title, tt.wantTitle)
			}
		})
	}
}

func TestBuildIndexBacklinks(t *testing.T) {
	t.Parallel()

	index := BuildIndex(map[string]string{
		"alpha": `\Title{A}` + "\n" + `\wref{gamma}`,
		"beta":  `\Title{B}` + "\n" + `\wref{gamma} \wref{nowhere}`,
		"gamma": `\Title{C}` + "\n" + `\wref{gamma}`,
	})

	// Sorted, excluding the self link; links to unindexed targets vanish.
	if got := index.Backlinks("gamma"); !reflect.DeepEqual(got, []string{"alpha", "beta"}) {
		t.Errorf("Backlinks(gamma) = %v, want [alpha beta]", got)
	}
	if got := index.Backlinks("alpha"); len(got) != 0 {
		t.Errorf("Backlinks(alpha) = %v, want none", got)
	}
	if got := index.Backlinks("nowhere"); len(got) != 0 {
		t.Errorf("Backlinks(nowhere) = %v, want none", got)
	}
}

func TestBuildIndexEmpty(t *testing.T) {
	t.Parallel()

	index := BuildIndex(nil)
	if index.Len() != 0 {
		t.Errorf("Len() = %d, want 0", index.Len())
	}
	if _, ok := index.Title("anything"); ok {
		t.Error("Title() found a document in an empty index")
	}
}

func TestIndexNilTitleMap(t *testing.T) {
	t.Parallel()

	var index *Index
	if m := index.titleMap(); m != nil {
		t.Errorf("titleMap() on nil index = %v, want nil", m)
	}
}
