package yamlutil_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-tex2html/internal/yamlutil"
)

// convertConfig mirrors the shape of the CLI's config file.
type convertConfig struct {
	Style   string `yaml:"style"`
	Output  string `yaml:"output"`
	Workers int    `yaml:"workers"`
	Timeout string `yaml:"timeout"`
	PDF     bool   `yaml:"pdf"`
}

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		wantErr error
		want    convertConfig
	}{
		{
			name: "full config",
			data: []byte("style: default\noutput: site\nworkers: 4\ntimeout: 45s\npdf: true\n"),
			want: convertConfig{Style: "default", Output: "site", Workers: 4, Timeout: "45s", PDF: true},
		},
		{
			name: "partial config keeps zero values",
			data: []byte("style: dark\n"),
			want: convertConfig{Style: "dark"},
		},
		{
			name:    "empty data",
			data:    nil,
			wantErr: yamlutil.ErrNilData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got convertConfig
			err := yamlutil.UnmarshalStrict(tt.data, &got)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("UnmarshalStrict() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("UnmarshalStrict() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("UnmarshalStrict() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// A typo in a config key must fail the parse, not vanish.
func TestUnmarshalStrictUnknownField(t *testing.T) {
	t.Parallel()

	var cfg convertConfig
	err := yamlutil.UnmarshalStrict([]byte("stlye: default\n"), &cfg)
	if err == nil {
		t.Fatal("UnmarshalStrict() accepted an unknown field")
	}
	if !strings.Contains(err.Error(), "yamlutil") {
		t.Errorf("error %q not wrapped with package prefix", err.Error())
	}
}

func TestUnmarshalStrictMalformedInput(t *testing.T) {
	t.Parallel()

	var cfg convertConfig
	if err := yamlutil.UnmarshalStrict([]byte("style: [unclosed\n"), &cfg); err == nil {
		t.Fatal("UnmarshalStrict() accepted malformed YAML")
	}
}

func TestUnmarshalStrictNilDestination(t *testing.T) {
	t.Parallel()

	err := yamlutil.UnmarshalStrict([]byte("style: default\n"), nil)
	if !errors.Is(err, yamlutil.ErrNilDestination) {
		t.Errorf("UnmarshalStrict() error = %v, want ErrNilDestination", err)
	}
}

// NOTE: This test mutates the package-level size limit and cannot run in
// parallel.
func TestUnmarshalStrictInputTooLarge(t *testing.T) {
	orig := yamlutil.MaxInputSize
	defer func() { yamlutil.MaxInputSize = orig }()
	yamlutil.MaxInputSize = 16

	var cfg convertConfig
	err := yamlutil.UnmarshalStrict([]byte("style: default\noutput: site\n"), &cfg)
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("UnmarshalStrict() error = %v, want ErrInputTooLarge", err)
	}
}
