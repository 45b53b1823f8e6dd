package scanner_test

import (
	"bytes"
	"context"
	"os"
	"testing"

	"cgraph/internal/graph"
	"cgraph/internal/render"
	"cgraph/internal/scanner"
	"cgraph/internal/testutil"
)

var goldenModes = []struct {
	suffix string
	opts   render.Options
}{
	{"", render.Options{MaxDepth: -1}},
	{".vars", render.Options{MaxDepth: -1, ShowVariables: true}},
	{".reversed", render.Options{MaxDepth: -1, ShowVariables: true, Reversed: true}},
}

// TestGolden scans every fixture source and compares the rendered trees.
// Run with -update to regenerate testdata/fixtures/<lang>/expected.
func TestGolden(t *testing.T) {
	testutil.ForEachLanguage(t, func(t *testing.T, fixture *testutil.FixtureContext) {
		lang := scanner.Language(fixture.Language)
		if lang == scanner.LangC && !cgoEnabled {
			t.Skip("C scanning requires CGO")
		}

		sc, err := scanner.ForLanguage(lang)
		if err != nil {
			t.Fatalf("ForLanguage(%q): %v", lang, err)
		}

		for _, name := range fixture.Sources(t) {
			path := fixture.SourcePath(name)
			src, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read %s: %v", path, err)
			}

			g := graph.New(graph.DefaultOptions())
			if err := sc.Scan(context.Background(), path, src, g); err != nil {
				t.Fatalf("Scan(%s): %v", name, err)
			}

			for _, mode := range goldenModes {
				var buf bytes.Buffer
				if err := render.Render(&buf, g, mode.opts); err != nil {
					t.Fatalf("Render(%s%s): %v", name, mode.suffix, err)
				}
				testutil.CompareGolden(t, fixture, name+mode.suffix, buf.Bytes())
			}
		}
	})
}
