package tex2html

import "time"

// Input contains conversion parameters for a single document.
type Input struct {
	Source       string // TeX-dialect source (required)
	DocID        string // document ID, used for self-referential links and backlinks
	FragmentOnly bool   // emit only the body fragment, no page shell
}

// Result holds the output of one conversion.
type Result struct {
	HTML     string    // rendered document (full page unless FragmentOnly)
	Title    string    // plain-text document title
	Tags     []string  // header tags
	Links    []string  // outgoing wiki link targets, sorted and deduplicated
	Headings []Heading // h2 headings, in document order
	Macros   string    // MathJax macros object body for this document
	Warnings []string  // non-fatal degradations encountered during conversion
}

// Heading is one section heading collected for navigation.
type Heading struct {
	ID    string
	Title string
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	styleName    string
	css          string
	tikzPreamble string
	timeout      time.Duration
	index        *Index
}

// defaultTimeout bounds conversion and PDF export when no timeout is
// specified.
const defaultTimeout = 30 * time.Second

// WithStyle selects an embedded stylesheet by name for page assembly.
// NewConverter fails with ErrStyleNotFound if no such style exists.
func WithStyle(name string) Option {
	return func(c *Converter) {
		c.cfg.styleName = name
	}
}

// WithCSS sets the page stylesheet to the given CSS content, bypassing the
// embedded styles.
func WithCSS(css string) Option {
	return func(c *Converter) {
		c.cfg.css = css
	}
}

// WithTikZPreamble overrides the preamble prepended to diagram code before
// client-side rendering.
func WithTikZPreamble(preamble string) Option {
	return func(c *Converter) {
		c.cfg.tikzPreamble = preamble
	}
}

// WithIndex attaches a corpus index, enabling title resolution for wiki
// links and backlink sections.
func WithIndex(index *Index) Option {
	return func(c *Converter) {
		c.cfg.index = index
	}
}

// WithTimeout bounds each Convert call: the conversion aborts with the
// context error once the duration elapses. An earlier deadline on the
// caller's context still wins.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("tex2html: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}
