package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	tex2html "github.com/alnah/go-tex2html"
	"github.com/alnah/go-tex2html/internal/fileutil"
	"github.com/alnah/go-tex2html/internal/hints"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrReadCSS       = errors.New("failed to read CSS file")
	ErrReadSource    = errors.New("failed to read source file")
	ErrWriteHTML     = errors.New("failed to write HTML file")
	ErrWritePDF      = errors.New("failed to write PDF file")
	ErrConverterInit = errors.New("failed to initialize converter")
)

// conversionParams carries the merged settings into the batch workers.
type conversionParams struct {
	fragment bool
	pdf      bool
	timeout  time.Duration
	verbose  bool
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Warnings   []string
	Err        error
	Skipped    bool
	Duration   time.Duration
}

// resolveStyleOption interprets the style setting. Raw CSS content is used
// directly, a file path is read from disk, anything else names an embedded
// style. Remote stylesheets are rejected with a clear error.
func resolveStyleOption(style string) (tex2html.Option, error) {
	switch {
	case fileutil.IsURL(style):
		return nil, fmt.Errorf("%w: remote stylesheets are not supported: %s", ErrReadCSS, style)
	case fileutil.IsCSS(style):
		return tex2html.WithCSS(style), nil
	case fileutil.IsFilePath(style):
		css, err := os.ReadFile(style) // #nosec G304 -- path comes from the user's own flag
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadCSS, err)
		}
		return tex2html.WithCSS(string(css)), nil
	default:
		return tex2html.WithStyle(style), nil
	}
}

// run drives the whole batch: discover, index, convert, report.
func run(flags *cliFlags, args []string) error {
	if len(args) == 0 {
		return ErrNoInput
	}

	cfg, err := loadConfig(flags.config)
	if err != nil {
		return err
	}
	mergeFlags(cfg, flags)

	if err := validateWorkers(cfg.Workers); err != nil {
		return err
	}
	timeout, err := resolveTimeout(cfg)
	if err != nil {
		return err
	}

	files, err := discoverFiles(args[0], cfg.Output)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .tex files found in %s", args[0])
	}

	// Phase one: read everything so the corpus index sees all titles and
	// links before any document converts.
	sources := make(map[string]string, len(files))
	readErrs := make(map[string]error)
	for _, f := range files {
		content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
		if err != nil {
			readErrs[f.InputPath] = fmt.Errorf("%w: %v", ErrReadSource, err)
			continue
		}
		sources[f.DocID] = string(content)
	}
	index := tex2html.BuildIndex(sources)

	opts := []tex2html.Option{tex2html.WithIndex(index)}
	if cfg.Style != "" {
		styleOpt, err := resolveStyleOption(cfg.Style)
		if err != nil {
			return err
		}
		opts = append(opts, styleOpt)
	}
	if cfg.CSS != "" {
		css, err := os.ReadFile(cfg.CSS) // #nosec G304 -- path comes from the user's own flag
		if err != nil {
			return fmt.Errorf("%w: %v", ErrReadCSS, err)
		}
		opts = append(opts, tex2html.WithCSS(string(css)))
	}
	if timeout > 0 {
		opts = append(opts, tex2html.WithTimeout(timeout))
	}

	poolSize := tex2html.ResolvePoolSize(cfg.Workers)
	if flags.verbose {
		fmt.Fprintf(os.Stderr, "Pool size: %d\n", poolSize)
	}
	pool := tex2html.NewConverterPool(poolSize, opts...)
	defer pool.Close()

	params := &conversionParams{
		fragment: cfg.Fragment,
		pdf:      cfg.PDF,
		timeout:  timeout,
		verbose:  flags.verbose,
	}

	results := convertBatch(context.Background(), pool, files, sources, readErrs, params)
	failed := printResults(results, flags.quiet, flags.verbose)
	if failed > 0 {
		return fmt.Errorf("%d conversion(s) failed", failed)
	}
	return nil
}

// convertBatch processes files concurrently using the converter pool.
func convertBatch(ctx context.Context, pool *tex2html.ConverterPool, files []FileToConvert, sources map[string]string, readErrs map[string]error, params *conversionParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))
	results := make([]ConversionResult, len(files))
	jobs := make(chan int, len(files))
	var wg sync.WaitGroup

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv, err := pool.Acquire()
			if err != nil {
				for idx := range jobs {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       fmt.Errorf("%w: %v", ErrConverterInit, err),
					}
				}
				return
			}
			defer pool.Release(conv)

			var exporter *tex2html.PDFExporter
			if params.pdf {
				exporter = tex2html.NewPDFExporter(params.timeout)
				defer exporter.Close()
			}

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, conv, exporter, files[idx], sources, readErrs, params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, conv *tex2html.Converter, exporter *tex2html.PDFExporter, f FileToConvert, sources map[string]string, readErrs map[string]error, params *conversionParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	done := func() ConversionResult {
		result.Duration = time.Since(start)
		return result
	}

	if err, failed := readErrs[f.InputPath]; failed {
		result.Err = err
		return done()
	}

	source := sources[f.DocID]
	if skipConversion(source) {
		result.Skipped = true
		return done()
	}

	convResult, err := conv.Convert(ctx, tex2html.Input{
		Source:       source,
		DocID:        f.DocID,
		FragmentOnly: params.fragment,
	})
	if err != nil {
		result.Err = err
		return done()
	}
	result.Warnings = convResult.Warnings

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		result.Err = fmt.Errorf("creating output directory: %w%s", err, hints.ForOutputDirectory())
		return done()
	}

	// #nosec G306 -- HTML files are meant to be readable
	if err := os.WriteFile(f.OutputPath, []byte(convResult.HTML), filePermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWriteHTML, err)
		return done()
	}

	if params.pdf && exporter != nil {
		pdf, err := exporter.Export(ctx, convResult.HTML)
		if err != nil {
			result.Err = err
			return done()
		}
		// #nosec G306 -- PDFs are meant to be readable
		if err := os.WriteFile(pdfOutputPath(f.OutputPath), pdf, filePermissions); err != nil {
			result.Err = fmt.Errorf("%w: %v", ErrWritePDF, err)
			return done()
		}
	}

	return done()
}

// printResults outputs conversion results and returns the failure count.
func printResults(results []ConversionResult, quiet, verbose bool) int {
	succeeded, failed, skipped := 0, 0, 0

	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			fmt.Fprintf(os.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		case r.Skipped:
			skipped++
			if verbose {
				fmt.Fprintf(os.Stdout, "Skipped %s (noconvert)\n", r.InputPath)
			}
			continue
		default:
			succeeded++
		}

		for _, w := range r.Warnings {
			fmt.Fprintf(os.Stderr, "WARNING %s: %s\n", r.InputPath, w)
		}

		if quiet {
			continue
		}
		if verbose {
			fmt.Fprintf(os.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(os.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(os.Stdout, "\n%d succeeded, %d failed, %d skipped\n", succeeded, failed, skipped)
	}

	return failed
}
