package tex2html

import (
	"sort"

	"github.com/alnah/go-tex2html/internal/pipeline"
)

// Index is the corpus-level link graph: document titles for wiki link
// display text plus the reverse link map for backlink sections. Build one
// per corpus and share it across conversions; it is read-only after
// construction.
type Index struct {
	titles    map[string]string
	backlinks map[string][]string
}

// BuildIndex scans a corpus of sources keyed by document ID. Titles come
// from each document header; backlinks are the inverse of the outgoing
// wiki links.
func BuildIndex(sources map[string]string) *Index {
	idx := &Index{
		titles:    make(map[string]string, len(sources)),
		backlinks: make(map[string][]string, len(sources)),
	}

	for id, source := range sources {
		source = pipeline.StripComments(source)
		meta := pipeline.ExtractMetadata(source)
		if meta.Title != "" {
			idx.titles[id] = pipeline.ConvertTexorpdfstring(meta.Title, true)
		}
	}

	for id, source := range sources {
		for _, target := range pipeline.ExtractWikiLinks(source) {
			if _, known := idx.titles[target]; known && target != id {
				idx.backlinks[target] = append(idx.backlinks[target], id)
			}
		}
	}
	for _, sources := range idx.backlinks {
		sort.Strings(sources)
	}

	return idx
}

// Title returns the known title for a document ID.
func (idx *Index) Title(id string) (string, bool) {
	title, ok := idx.titles[id]
	return title, ok
}

// Backlinks returns the IDs of documents linking to id, sorted.
func (idx *Index) Backlinks(id string) []string {
	return idx.backlinks[id]
}

// Len returns the number of indexed documents.
func (idx *Index) Len() int {
	return len(idx.titles)
}

// titleMap exposes the internal title map for the link resolver.
func (idx *Index) titleMap() map[string]string {
	if idx == nil {
		return nil
	}
	return idx.titles
}
