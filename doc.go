// Package tex2html converts wiki-flavored TeX documents to standalone HTML
// pages, with optional PDF export through headless Chrome.
//
// # Quick Start
//
// Create a converter and convert a document:
//
//	conv, err := tex2html.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.Convert(ctx, tex2html.Input{
//	    Source: source,
//	    DocID:  "banach-algebra",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("banach-algebra.html", []byte(result.HTML), 0644)
//
// The result also carries the extracted title, tags, outgoing links,
// section headings, and any warnings from malformed input. Use
// Input.FragmentOnly to get the body fragment without the page shell.
//
// # Conversion Pipeline
//
// The conversion runs a fixed sequence of passes:
//
//  1. Comment stripping, metadata and macro extraction
//  2. Diagram and code rendering, stashed behind opaque placeholders
//  3. HTML escaping and math stashing
//  4. Structural conversion (links, lists, environments, sections)
//  5. Citation and footnote collection
//  6. Stash restoration and paragraph wrapping
//
// Malformed markup never fails a conversion; the offending text passes
// through literally and a warning is recorded on the result.
//
// # Corpus Conversion
//
// For a corpus of interlinked documents, build an Index first so wiki
// links resolve to document titles and pages gain backlink sections:
//
//	idx := tex2html.BuildIndex(sources)
//	conv, err := tex2html.NewConverter(tex2html.WithIndex(idx))
//
// For parallel batches, use ConverterPool:
//
//	pool := tex2html.NewConverterPool(4, tex2html.WithIndex(idx))
//	defer pool.Close()
//
//	conv, err := pool.Acquire()
//	defer pool.Release(conv)
//
// # PDF Export
//
// PDFExporter renders assembled pages with headless Chrome via go-rod,
// which downloads a managed Chromium on first run. For containers and CI,
// set ROD_NO_SANDBOX=1 or point ROD_BROWSER_BIN at an installed browser.
//
//	exporter := tex2html.NewPDFExporter(time.Minute)
//	defer exporter.Close()
//	pdf, err := exporter.Export(ctx, result.HTML)
package tex2html
