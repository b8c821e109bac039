package cli

import (
	"strings"
	"testing"

	"github.com/MusicFlow-app/HandFlow/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	cases := map[string][]string{
		"":          {"html"},
		"html":      {"html"},
		"json":      {"json"},
		"html,json": {"html", "json"},
	}
	for input, want := range cases {
		got := parseFormats(input)
		if strings.Join(got, "|") != strings.Join(want, "|") {
			t.Errorf("parseFormats(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	for _, formats := range [][]string{{"html"}, {"json"}, {"html", "json"}, {}} {
		if err := pipeline.ValidateFormats(formats); err != nil {
			t.Errorf("ValidateFormats(%v) = %v, want nil", formats, err)
		}
	}
	for _, formats := range [][]string{{"pdf"}, {"html", "pdf"}} {
		if err := pipeline.ValidateFormats(formats); err == nil {
			t.Errorf("ValidateFormats(%v) should fail", formats)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		output  string
		formats []string
		want    map[string]string
	}{
		{
			name:    "default single format",
			input:   "song.mscz",
			formats: []string{"html"},
			want:    map[string]string{"html": "song.html"},
		},
		{
			name:    "default multiple formats",
			input:   "sub/song.mscz",
			formats: []string{"html", "json"},
			want:    map[string]string{"html": "sub/song.html", "json": "sub/song.json"},
		},
		{
			name:    "explicit output single format",
			input:   "song.mscz",
			output:  "tab.html",
			formats: []string{"html"},
			want:    map[string]string{"html": "tab.html"},
		},
		{
			name:    "explicit output becomes base for multiple formats",
			input:   "song.mscz",
			output:  "out/tab.html",
			formats: []string{"html", "json"},
			want:    map[string]string{"html": "out/tab.html", "json": "out/tab.json"},
		},
		{
			name:    "stdout single format",
			input:   "song.mscz",
			output:  "-",
			formats: []string{"json"},
			want:    map[string]string{"json": "-"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := outputPaths(tc.input, tc.output, tc.formats)
			if err != nil {
				t.Fatalf("outputPaths() error: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("outputPaths() = %v, want %v", got, tc.want)
			}
			for f, path := range tc.want {
				if got[f] != path {
					t.Errorf("outputPaths()[%q] = %q, want %q", f, got[f], path)
				}
			}
		})
	}
}

func TestOutputPathsStdoutRejectsMultipleFormats(t *testing.T) {
	if _, err := outputPaths("song.mscz", "-", []string{"html", "json"}); err == nil {
		t.Error("outputPaths() with stdout and two formats should fail")
	}
}
