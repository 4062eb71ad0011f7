package tex2html

import (
	"context"
	"fmt"
	"text/template"

	"github.com/alnah/go-tex2html/internal/assets"
	"github.com/alnah/go-tex2html/internal/hints"
	"github.com/alnah/go-tex2html/internal/pipeline"
)

// Converter orchestrates the TeX-dialect to HTML conversion pipeline.
// Create with NewConverter, convert documents with Convert. A Converter is
// safe for sequential reuse across documents; use ConverterPool for
// parallel batches.
type Converter struct {
	cfg      converterConfig
	style    string
	pageTmpl *template.Template
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithIndex, WithStyle).
// Returns an error if the selected style or page template cannot load.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			styleName:    "default",
			tikzPreamble: pipeline.DefaultTikZPreamble,
			timeout:      defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.css != "" {
		c.style = c.cfg.css
	} else {
		style, err := assets.LoadStyle(c.cfg.styleName)
		if err != nil {
			return nil, fmt.Errorf("%w: %q%s", ErrStyleNotFound, c.cfg.styleName,
				hints.ForStyleNotFound(assets.ListStyles()))
		}
		c.style = style
	}

	raw, err := assets.LoadTemplate("page")
	if err != nil {
		return nil, fmt.Errorf("loading page template: %w", err)
	}
	c.pageTmpl, err = template.New("page").Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageAssembly, err)
	}

	return c, nil
}

// Convert runs the full pipeline on one document.
// The context is checked between stages; a cancelled context aborts the
// conversion. Malformed input degrades to passthrough with warnings, never
// an error.
func (c *Converter) Convert(ctx context.Context, input Input) (*Result, error) {
	if input.Source == "" {
		return nil, ErrEmptySource
	}
	if c.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source := pipeline.StripComments(input.Source)

	meta := pipeline.ExtractMetadata(source)
	title := pipeline.ConvertTexorpdfstring(meta.Title, true)
	macros, warnings := pipeline.BuildMacroTable(source)

	body := pipeline.ExtractBody(source)
	body = pipeline.StripDirectives(body)

	// Opaque regions first: diagrams and code render now and hide behind
	// placeholders so escaping and markup passes cannot touch them.
	scripts := pipeline.NewStash("s")
	body = pipeline.ConvertDiagrams(body, scripts, c.cfg.tikzPreamble)
	body = pipeline.RenderCodeBlocks(body, scripts)
	body = scripts.Extract(body, pipeline.FindScripts)
	body = pipeline.EscapeAngleBrackets(body)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body = pipeline.ConvertDefn(body)
	body = pipeline.FixMathColons(body)

	// Math hides next. It stays stashed through every structural pass and
	// reaches the client verbatim for MathJax.
	body = pipeline.NormalizeDisplayMath(body)
	math := pipeline.NewStash("m")
	body = math.Extract(body, pipeline.FindDisplayMath)
	body = math.Extract(body, pipeline.FindInlineMath)

	body = pipeline.ConvertSeeAlso(body)
	body = pipeline.ConvertPDFEmbeds(body)

	resolver := pipeline.NewLinkResolver(c.cfg.index.titleMap())
	body = resolver.ConvertWikiLinks(body)
	body = pipeline.ConvertExternalLinks(body)
	body = resolver.ConvertPrereq(body)

	body = pipeline.ConvertInlineMarkup(body)
	body = pipeline.ConvertTexorpdfstring(body, false)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cites := pipeline.NewCitations()
	body = cites.Convert(body)

	body = pipeline.ConvertItemEnvironments(body)
	body = pipeline.ConvertDashLists(body)

	body = pipeline.NormalizeEnvironments(body)
	dispatcher := pipeline.NewDispatcher(nil, pipeline.TheoremEnvTable())
	body = dispatcher.Apply(body)

	body = pipeline.ConvertSections(body)
	body = pipeline.ConvertLabels(body)
	body = pipeline.ConvertRefs(body)

	footnotes := pipeline.NewFootnotes()
	body = footnotes.Convert(body)
	warnings = append(warnings, footnotes.Warnings()...)

	body += cites.ReferencesHTML()
	body += footnotes.FooterHTML()

	// Restore in reverse stash order: math first, then scripts.
	body = math.Restore(body)
	body = scripts.Restore(body)
	if pipeline.HasStashTokens(body) {
		warnings = append(warnings, "unrestored placeholder left in output")
	}

	body = pipeline.WrapParagraphs(body)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{
		Title:    title,
		Tags:     meta.Tags,
		Links:    pipeline.ExtractWikiLinks(source),
		Headings: collectHeadings(body),
		Macros:   macros.MathJaxObject(),
		Warnings: warnings,
	}

	if input.FragmentOnly {
		result.HTML = body
		return result, nil
	}

	page, err := c.assemblePage(input.DocID, body, result)
	if err != nil {
		return nil, err
	}
	result.HTML = page
	return result, nil
}

func collectHeadings(body string) []Heading {
	var headings []Heading
	for _, h := range pipeline.CollectHeadings(body) {
		headings = append(headings, Heading{ID: h.ID, Title: h.Title})
	}
	return headings
}
