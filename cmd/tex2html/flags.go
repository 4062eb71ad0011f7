package main

import (
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"
)

// cliFlags holds all command-line flags.
type cliFlags struct {
	output   string
	config   string
	style    string
	cssFile  string
	timeout  string
	workers  int
	fragment bool
	pdf      bool
	quiet    bool
	verbose  bool
	version  bool
}

// parseFlags parses command-line flags and returns positional args.
func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("tex2html", flag.ContinueOnError)
	f := &cliFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.style, "style", "", "embedded CSS style name")
	fs.StringVar(&f.cssFile, "css", "", "custom CSS file path")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF export timeout (e.g., 30s, 2m)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.fragment, "fragment", false, "emit body fragments without the page shell")
	fs.BoolVar(&f.pdf, "pdf", false, "also export PDF next to each HTML file")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	fs.Usage = func() { printUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// printUsage writes the top-level usage text.
func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: tex2html [flags] <input>

Convert wiki-flavored TeX documents to standalone HTML pages.
Input is a .tex file or a directory scanned recursively.

Flags:
  -o, --output string    output file or directory
  -c, --config string    config file name or path
      --style string     embedded CSS style name (default "default")
      --css string       custom CSS file path
  -t, --timeout string   PDF export timeout (e.g., 30s, 2m)
  -w, --workers int      parallel workers (0 = auto)
      --fragment         emit body fragments without the page shell
      --pdf              also export PDF next to each HTML file
  -q, --quiet            only show errors
  -v, --verbose          show detailed timing
      --version          print version and exit
`)
}
