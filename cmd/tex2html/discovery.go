package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	tex2html "github.com/alnah/go-tex2html"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .tex extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrNoInput            = errors.New("no input specified")
)

// noConvertMarker opts a source file out of conversion when it appears in
// the first line.
const noConvertMarker = "% noconvert"

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
	DocID      string
}

// discoverFiles finds all TeX files to convert.
func discoverFiles(inputPath, outputDir string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateTeXExtension(inputPath); err != nil {
			return nil, err
		}
		return []FileToConvert{{
			InputPath:  inputPath,
			OutputPath: resolveOutputPath(inputPath, outputDir, ""),
			DocID:      docID(inputPath),
		}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || filepath.Ext(path) != ".tex" {
			return nil
		}
		files = append(files, FileToConvert{
			InputPath:  path,
			OutputPath: resolveOutputPath(path, outputDir, inputPath),
			DocID:      docID(path),
		})
		return nil
	})

	return files, err
}

// docID is the document identifier: the file name without extension.
func docID(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// resolveOutputPath determines the HTML output path for a TeX file.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	base := docID(inputPath)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+".html")
	}

	if strings.HasSuffix(outputDir, ".html") {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			relDir := filepath.Dir(relPath)
			return filepath.Join(outputDir, relDir, base+".html")
		}
	}

	return filepath.Join(outputDir, base+".html")
}

// validateTeXExtension checks that the file has a .tex extension.
func validateTeXExtension(path string) error {
	if ext := filepath.Ext(path); ext != ".tex" {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > tex2html.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, tex2html.MaxPoolSize)
	}
	return nil
}

// skipConversion reports whether the source opts out via the first-line
// marker.
func skipConversion(source string) bool {
	firstLine, _, _ := strings.Cut(source, "\n")
	return strings.Contains(firstLine, noConvertMarker)
}

// pdfOutputPath returns the PDF path corresponding to an HTML path.
func pdfOutputPath(htmlPath string) string {
	return strings.TrimSuffix(htmlPath, ".html") + ".pdf"
}
