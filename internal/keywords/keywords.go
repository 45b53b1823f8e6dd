// Package keywords provides the standard library symbol tables used to build
// the set of identifiers hidden from rendered graphs.
package keywords

import (
	"fmt"
	"os"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Table names one static keyword table.
type Table string

const (
	ANSI  Table = "ansi"
	POSIX Table = "posix"
	C99   Table = "c99"
	GCC   Table = "gcc"
)

// AllTables lists every table in a stable order.
var AllTables = []Table{ANSI, POSIX, C99, GCC}

// ParseTable converts a table name (case-insensitive) to a Table.
func ParseTable(s string) (Table, error) {
	switch Table(strings.ToLower(strings.TrimSpace(s))) {
	case ANSI:
		return ANSI, nil
	case POSIX:
		return POSIX, nil
	case C99:
		return C99, nil
	case GCC:
		return GCC, nil
	default:
		return "", fmt.Errorf("unknown keyword table: %q (want ansi, posix, c99 or gcc)", s)
	}
}

// Symbols returns the names in a table. The returned slice must not be
// modified.
func (t Table) Symbols() []string {
	switch t {
	case ANSI:
		return ansiSymbols
	case POSIX:
		return posixSymbols
	case C99:
		return c99Symbols
	case GCC:
		return gccSymbols
	default:
		return nil
	}
}

// Set is a set of identifier names.
type Set map[string]struct{}

// Build returns the union of the selected tables. Selecting nothing yields
// an empty set.
func Build(tables ...Table) Set {
	s := make(Set)
	for _, t := range tables {
		s.Add(t.Symbols()...)
	}
	return s
}

// Add inserts names into the set.
func (s Set) Add(names ...string) {
	for _, n := range names {
		s[n] = struct{}{}
	}
}

// Contains reports whether name is in the set. A nil set contains nothing.
func (s Set) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the set's names in lexicographic order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// ExcludeFile is the TOML layout of a user exclusion file:
//
//	symbols = ["xmalloc", "die"]
type ExcludeFile struct {
	Symbols []string `toml:"symbols"`
}

// LoadFile reads additional exclusion names from a TOML file.
func LoadFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f ExcludeFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	out := make([]string, 0, len(f.Symbols))
	for _, s := range f.Symbols {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}
