package csharp

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/broady/qmlgen/provider"
)

// Each testdata/*.txtar archive holds:
//
//	graph.yaml  snapshot of the type graph
//	options     optional key=value generator options
//	want        lines the output must contain
//	notwant     lines the output must not contain
//	skipped     display names of types expected to be skipped
//	error       substring of the expected fatal error
func TestFixtures(t *testing.T) {
	archives, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	if err != nil {
		t.Fatal(err)
	}
	if len(archives) == 0 {
		t.Fatal("no fixtures found")
	}
	for _, path := range archives {
		t.Run(strings.TrimSuffix(filepath.Base(path), ".txtar"), func(t *testing.T) {
			ar, err := txtar.ParseFile(path)
			if err != nil {
				t.Fatal(err)
			}
			files := make(map[string]string, len(ar.Files))
			for _, f := range ar.Files {
				files[f.Name] = string(f.Data)
			}
			runFixture(t, files)
		})
	}
}

func runFixture(t *testing.T, files map[string]string) {
	t.Helper()
	snap, err := provider.DecodeSnapshot([]byte(files["graph.yaml"]), provider.FormatYAML)
	if err != nil {
		t.Fatalf("decode graph.yaml: %v", err)
	}
	g, err := snap.BuildGraph()
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}

	cfg := fixtureConfig(t, files["options"])
	res, err := New(cfg).Generate(context.Background(), g)
	if want, ok := files["error"]; ok {
		if err == nil {
			t.Fatalf("Generate() succeeded, want error containing %q", strings.TrimSpace(want))
		}
		if !strings.Contains(err.Error(), strings.TrimSpace(want)) {
			t.Fatalf("Generate() error = %v, want it to contain %q", err, strings.TrimSpace(want))
		}
		return
	}
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	checkOutput(t, string(res.Source), fixtureLines(files["want"]), fixtureLines(files["notwant"]))

	var skipped []string
	for _, s := range res.Skipped {
		skipped = append(skipped, s.Type)
	}
	if got, want := strings.Join(skipped, ","), strings.Join(fixtureLines(files["skipped"]), ","); got != want {
		t.Errorf("skipped = %q, want %q", got, want)
	}
}

func fixtureConfig(t *testing.T, options string) Config {
	t.Helper()
	cfg := Config{Logger: discardLogger}
	for _, line := range fixtureLines(options) {
		key, value, _ := strings.Cut(line, "=")
		switch strings.TrimSpace(key) {
		case "pascal-case":
			cfg.PascalCase = strings.TrimSpace(value) != "false"
		case "document-class-suffix":
			cfg.DocumentClassSuffix = strings.TrimSpace(value)
		case "indent-size":
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				t.Fatalf("options: %v", err)
			}
			cfg.IndentSize = n
		case "line-ending":
			cfg.LineEnding = strings.TrimSpace(value)
		default:
			t.Fatalf("options: unknown key %q", key)
		}
	}
	return cfg
}

// fixtureLines splits s into non-blank lines, keeping leading whitespace so
// expectations can pin indentation.
func fixtureLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, " \r")
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
