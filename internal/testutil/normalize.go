package testutil

import (
	"path/filepath"
	"strings"
)

// NormalizeOutput makes rendered output independent of where the fixture
// lives: absolute fixture paths become relative and line endings become \n.
func NormalizeOutput(out []byte, fixtureRoot string) []byte {
	s := strings.ReplaceAll(string(out), "\r\n", "\n")
	if fixtureRoot != "" {
		root := filepath.ToSlash(fixtureRoot)
		s = strings.ReplaceAll(filepath.ToSlash(s), root+"/", "")
	}
	return []byte(s)
}
