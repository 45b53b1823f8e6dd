package export

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"cgraph/internal/graph"
	"cgraph/internal/source"
	"cgraph/internal/version"
)

// Snapshot converts a graph into a Document. Nodes keep arena order and
// edges keep discovery order.
func Snapshot(g *graph.Graph, file, language string) *Document {
	opts := g.Options()
	_, bound := g.Root()

	doc := &Document{
		RunID:     uuid.NewString(),
		File:      file,
		Language:  language,
		Root:      opts.Root,
		RootBound: bound,
		Complete:  opts.Complete,
		CreatedAt: time.Now().UTC(),
		Stats:     g.Stats(),
		Nodes:     make([]Node, 0, g.Len()),
	}

	for _, id := range g.Nodes() {
		n := g.Node(id)
		node := Node{
			Name:    n.Name,
			Kind:    n.Kind.String(),
			Type:    n.Type,
			Callees: names(g, n.Callees),
			Callers: names(g, n.Callers),
		}
		if n.Origin != nil {
			node.Origin = &Origin{File: n.Origin.File, Line: n.Origin.Line}
		}
		doc.Nodes = append(doc.Nodes, node)
	}
	return doc
}

func names(g *graph.Graph, ids []graph.NodeID) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = g.Node(id).Name
	}
	return out
}

// NewBundle wraps documents with tool metadata.
func NewBundle(docs ...Document) *Bundle {
	return &Bundle{
		Tool:      "cgraph",
		Version:   version.Version,
		Generated: time.Now().UTC().Format(time.RFC3339),
		Runs:      docs,
	}
}

// WriteJSON writes b as indented JSON.
func WriteJSON(w io.Writer, b *Bundle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(b)
}

// WriteYAML writes b as YAML.
func WriteYAML(w io.Writer, b *Bundle) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(b); err != nil {
		return err
	}
	return enc.Close()
}

// Writer receives one Document per scanned file.
type Writer interface {
	Add(doc *Document) error
	Close() error
}

// Open returns a Writer for path. JSON and YAML documents are collected and
// written when the Writer is closed, compressed according to the path's
// extension; SQLite runs are committed as they are added.
func Open(path string, format Format, logger *slog.Logger) (Writer, error) {
	switch format {
	case FormatSQLite:
		if source.CodecFor(path) != source.CodecNone {
			return nil, fmt.Errorf("sqlite export cannot be compressed: %s", path)
		}
		return OpenSQLite(path, logger)
	case FormatJSON, FormatYAML:
		return &fileWriter{path: path, format: format, logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown export format: %q", format)
	}
}

type fileWriter struct {
	path   string
	format Format
	logger *slog.Logger
	docs   []Document
}

func (f *fileWriter) Add(doc *Document) error {
	f.docs = append(f.docs, *doc)
	return nil
}

func (f *fileWriter) Close() (err error) {
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	out, err := os.Create(f.path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	w, err := source.NewWriter(out, source.CodecFor(f.path))
	if err != nil {
		return err
	}

	b := NewBundle(f.docs...)
	if f.format == FormatYAML {
		err = WriteYAML(w, b)
	} else {
		err = WriteJSON(w, b)
	}
	if err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	f.logger.Debug("Wrote export", "path", f.path, "format", string(f.format), "runs", len(f.docs))
	return nil
}
