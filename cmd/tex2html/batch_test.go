package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResolveStyleOption(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cssPath := filepath.Join(dir, "custom.css")
	if err := os.WriteFile(cssPath, []byte("body { color: red }"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		style   string
		wantErr bool
	}{
		{name: "embedded style name", style: "default"},
		{name: "raw css content", style: "h1 { font-size: 2em }"},
		{name: "css file path", style: cssPath},
		{name: "missing css file", style: filepath.Join(dir, "absent.css"), wantErr: true},
		{name: "remote url rejected", style: "https://example.com/style.css", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opt, err := resolveStyleOption(tt.style)
			if tt.wantErr {
				if !errors.Is(err, ErrReadCSS) {
					t.Errorf("resolveStyleOption(%q) error = %v, want ErrReadCSS", tt.style, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveStyleOption(%q) unexpected error: %v", tt.style, err)
			}
			if opt == nil {
				t.Errorf("resolveStyleOption(%q) returned nil option", tt.style)
			}
		})
	}
}
