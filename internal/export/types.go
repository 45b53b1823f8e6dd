// Package export writes scanned graphs as JSON, YAML or SQLite documents.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"cgraph/internal/graph"
	"cgraph/internal/source"
)

// Format names an export encoding.
type Format string

const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatSQLite Format = "sqlite"
)

// ParseFormat converts a format name (case-insensitive) to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatSQLite, "db":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("unknown export format: %q (want json, yaml or sqlite)", s)
	}
}

// FormatFor guesses the format from a destination path, ignoring any
// compression extension. Unknown extensions default to JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(source.Trim(path))) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return FormatJSON
	}
}

// Bundle is the top-level JSON/YAML document: every file of one command
// invocation, each an independent graph.
type Bundle struct {
	Tool      string     `json:"tool" yaml:"tool"`
	Version   string     `json:"version" yaml:"version"`
	Generated string     `json:"generated" yaml:"generated"` // RFC 3339
	Runs      []Document `json:"runs" yaml:"runs"`
}

// Document is the serializable form of one file's graph.
type Document struct {
	RunID     string      `json:"runId" yaml:"runId"`
	File      string      `json:"file" yaml:"file"`
	Language  string      `json:"language" yaml:"language"`
	Root      string      `json:"root" yaml:"root"`
	RootBound bool        `json:"rootBound" yaml:"rootBound"`
	Complete  bool        `json:"complete" yaml:"complete"`
	CreatedAt time.Time   `json:"createdAt" yaml:"createdAt"`
	Stats     graph.Stats `json:"stats" yaml:"stats"`
	Nodes     []Node      `json:"nodes" yaml:"nodes"`
}

// Node is one symbol with its edges listed by name.
type Node struct {
	Name    string   `json:"name" yaml:"name"`
	Kind    string   `json:"kind" yaml:"kind"`
	Type    string   `json:"type,omitempty" yaml:"type,omitempty"`
	Origin  *Origin  `json:"origin,omitempty" yaml:"origin,omitempty"`
	Callees []string `json:"callees,omitempty" yaml:"callees,omitempty"`
	Callers []string `json:"callers,omitempty" yaml:"callers,omitempty"`
}

// Origin is where a symbol was defined; absent for forward references.
type Origin struct {
	File string `json:"file" yaml:"file"`
	Line int    `json:"line" yaml:"line"`
}
