// Package testutil provides testing utilities for golden tests.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
)

// FixtureContext holds information about a loaded fixture.
type FixtureContext struct {
	// Language is the fixture language (e.g., "c", "nasm", "gas")
	Language string

	// Root is the absolute path to the fixture directory
	Root string

	// ExpectedDir is the path to the expected/ directory
	ExpectedDir string
}

// LoadFixture loads a language fixture, failing the test on error.
func LoadFixture(t *testing.T, lang string) *FixtureContext {
	t.Helper()

	root := getFixturesRoot(t)
	fixtureDir := filepath.Join(root, lang)

	if _, err := os.Stat(fixtureDir); os.IsNotExist(err) {
		t.Fatalf("Fixture directory not found: %s", fixtureDir)
	}

	expectedDir := filepath.Join(fixtureDir, "expected")
	if _, err := os.Stat(expectedDir); os.IsNotExist(err) {
		if err := os.MkdirAll(expectedDir, 0o755); err != nil {
			t.Fatalf("Failed to create expected directory: %v", err)
		}
	}

	return &FixtureContext{
		Language:    lang,
		Root:        fixtureDir,
		ExpectedDir: expectedDir,
	}
}

// SourcePath returns the path to a source file within the fixture.
func (f *FixtureContext) SourcePath(name string) string {
	return filepath.Join(f.Root, name)
}

// Sources returns the names of the fixture's source files, sorted.
func (f *FixtureContext) Sources(t *testing.T) []string {
	t.Helper()

	entries, err := os.ReadDir(f.Root)
	if err != nil {
		t.Fatalf("Failed to read fixture directory: %v", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && !isHidden(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// ExpectedPath returns the path to a golden file within the fixture.
// The name should not include the .txt extension.
func (f *FixtureContext) ExpectedPath(name string) string {
	return filepath.Join(f.ExpectedDir, name+".txt")
}

// getFixturesRoot returns the absolute path to testdata/fixtures/.
func getFixturesRoot(t *testing.T) string {
	t.Helper()

	// Get the directory of this source file
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get caller information")
	}

	// Navigate from internal/testutil to project root
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
	fixturesRoot := filepath.Join(projectRoot, "testdata", "fixtures")

	if _, err := os.Stat(fixturesRoot); os.IsNotExist(err) {
		t.Fatalf("Fixtures root not found: %s", fixturesRoot)
	}

	return fixturesRoot
}

// AvailableLanguages returns the fixture languages that have an expected/
// directory.
func AvailableLanguages(t *testing.T) []string {
	t.Helper()

	root := getFixturesRoot(t)
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("Failed to read fixtures directory: %v", err)
	}

	var langs []string
	for _, entry := range entries {
		if entry.IsDir() && !isHidden(entry.Name()) {
			if _, err := os.Stat(filepath.Join(root, entry.Name(), "expected")); err == nil {
				langs = append(langs, entry.Name())
			}
		}
	}

	return langs
}

func isHidden(name string) bool {
	return len(name) > 0 && name[0] == '.'
}
