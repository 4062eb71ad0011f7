package pipeline

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	wikiRefPattern = regexp.MustCompile(`\\wref(?:\[([^\]]+)\])?\{([^}]+)\}(?:\[([^\]]+)\])?`)
	prereqPattern  = regexp.MustCompile(`(?s)\\prereq\{([^}]+)\}`)
	arxivPattern   = regexp.MustCompile(`\\arxiv\{([^}]+)\}`)
	nlabPattern    = regexp.MustCompile(`\\nlab\{([^}]+)\}`)
	hrefPattern    = regexp.MustCompile(`\\href\{([^}]+)\}\{(.*?)\}`)
	mdLinkPattern  = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	labelPattern   = regexp.MustCompile(`\\label\{([^}]+)\}`)
	crefPattern    = regexp.MustCompile(`\\cref\{([^}]+)\}`)
	refPattern     = regexp.MustCompile(`\\ref\{([^}]+)\}`)
	eqrefPattern   = regexp.MustCompile(`\\eqref\{([^}]+)\}`)
	pdfEmbed       = regexp.MustCompile(`!\[\[(.*?)\]\]`)
)

// LinkResolver resolves wiki-style document references against the known
// corpus. Titles maps document IDs to display titles; a nil or empty map
// degrades every link to a prettified ID, never an error.
type LinkResolver struct {
	titles map[string]string
}

// NewLinkResolver creates a resolver over the given title map.
func NewLinkResolver(titles map[string]string) *LinkResolver {
	return &LinkResolver{titles: titles}
}

// ConvertWikiLinks rewrites \wref[display]{target} and
// \wref{target}[display] to HTML links. A missing display text falls back
// to the target's known title, then to the ID with hyphens spaced out.
func (r *LinkResolver) ConvertWikiLinks(text string) string {
	return wikiRefPattern.ReplaceAllStringFunc(text, func(m string) string {
		sub := wikiRefPattern.FindStringSubmatch(m)
		display, target := sub[1], sub[2]
		if display == "" {
			display = sub[3]
		}
		if display == "" {
			if title, ok := r.titles[target]; ok {
				display = title
			} else {
				display = strings.ReplaceAll(target, "-", " ")
			}
		}
		return fmt.Sprintf(`<a href="%s.html">%s</a>`, target, display)
	})
}

// ConvertPrereq rewrites \prereq{a, b} into a prerequisite banner with one
// link per comma-separated ID.
func (r *LinkResolver) ConvertPrereq(text string) string {
	return prereqPattern.ReplaceAllStringFunc(text, func(m string) string {
		sub := prereqPattern.FindStringSubmatch(m)
		var links []string
		for _, item := range strings.Split(sub[1], ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			display := item
			if title, ok := r.titles[item]; ok {
				display = title
			}
			links = append(links, fmt.Sprintf(`<a href="%s.html">%s</a>`, item, display))
		}
		return fmt.Sprintf(`<div class="prereq"><strong>Prerequisites:</strong> %s</div>`, strings.Join(links, ", "))
	})
}

// ConvertExternalLinks rewrites the external link commands: \arxiv, \nlab,
// \href, and markdown [text](url) links.
func ConvertExternalLinks(text string) string {
	text = arxivPattern.ReplaceAllString(text, `<a href="https://arxiv.org/abs/$1">arXiv:$1</a>`)
	text = nlabPattern.ReplaceAllString(text, `<a href="https://ncatlab.org/nlab/show/$1" class="nlab-link">nLab:$1</a>`)
	text = hrefPattern.ReplaceAllStringFunc(text, func(m string) string {
		sub := hrefPattern.FindStringSubmatch(m)
		url := strings.ReplaceAll(sub[1], `\%`, "%")
		return fmt.Sprintf(`<a href="%s">%s</a>`, url, sub[2])
	})
	return mdLinkPattern.ReplaceAllString(text, `<a href="$2">$1</a>`)
}

// ConvertLabels rewrites \label{id} into an invisible anchor with a
// sanitized ID.
func ConvertLabels(text string) string {
	return labelPattern.ReplaceAllStringFunc(text, func(m string) string {
		id := sanitizeAnchor(labelPattern.FindStringSubmatch(m)[1])
		return fmt.Sprintf(`<a id="%s" class="latex-label"></a>`, id)
	})
}

// ConvertRefs rewrites \ref, \cref, and \eqref into intra-document links.
// The label text doubles as display text; \eqref output is parenthesized.
func ConvertRefs(text string) string {
	link := func(label string) string {
		return fmt.Sprintf(`<a href="#%s" class="latex-ref">%s</a>`, sanitizeAnchor(label), label)
	}
	text = crefPattern.ReplaceAllStringFunc(text, func(m string) string {
		return link(crefPattern.FindStringSubmatch(m)[1])
	})
	text = refPattern.ReplaceAllStringFunc(text, func(m string) string {
		return link(refPattern.FindStringSubmatch(m)[1])
	})
	return eqrefPattern.ReplaceAllStringFunc(text, func(m string) string {
		return "(" + link(eqrefPattern.FindStringSubmatch(m)[1]) + ")"
	})
}

// ConvertPDFEmbeds rewrites ![[file.pdf#params]] transclusions into PDF
// embed frames. Non-PDF transclusions are left alone.
func ConvertPDFEmbeds(text string) string {
	return pdfEmbed.ReplaceAllStringFunc(text, func(m string) string {
		inner := pdfEmbed.FindStringSubmatch(m)[1]
		if !strings.Contains(strings.ToLower(inner), ".pdf") {
			return m
		}
		filename, params, hasParams := strings.Cut(inner, "#")
		filename = strings.TrimSpace(filename)
		src := "../pdfs/" + filename
		if hasParams {
			src += "#" + params
		}
		return fmt.Sprintf(`<embed src="%s" type="application/pdf" width="100%%" height="800px" />`, src)
	})
}

// ExtractWikiLinks returns the sorted, deduplicated \wref targets of a
// source document. PDF targets are attachments, not documents, and are
// excluded.
func ExtractWikiLinks(source string) []string {
	set := make(map[string]bool)
	for _, m := range wikiRefPattern.FindAllStringSubmatch(source, -1) {
		target := m[2]
		if strings.Contains(target, ".pdf") {
			continue
		}
		set[target] = true
	}
	links := make([]string, 0, len(set))
	for target := range set {
		links = append(links, target)
	}
	sort.Strings(links)
	return links
}

// sanitizeAnchor replaces every byte outside [a-zA-Z0-9_-] with a hyphen.
func sanitizeAnchor(label string) string {
	return unsafeAnchorRunes.ReplaceAllString(label, "-")
}
