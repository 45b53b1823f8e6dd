package export

import (
	"fmt"
	"log/slog"

	"cgraph/internal/storage"
)

// SQLiteStore writes each Document as one run of a SQLite database.
type SQLiteStore struct {
	db *storage.DB
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := storage.Open(path, logger)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Add commits doc in a single transaction.
func (s *SQLiteStore) Add(doc *Document) error {
	run, symbols, edges, err := records(doc)
	if err != nil {
		return err
	}
	return s.db.SaveRun(run, symbols, edges)
}

// Runs lists the stored runs.
func (s *SQLiteStore) Runs() ([]storage.Run, error) {
	return s.db.ListRuns()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// records flattens doc into rows. Symbols are numbered by their position in
// doc.Nodes, which is arena order.
func records(doc *Document) (storage.Run, []storage.Symbol, []storage.Edge, error) {
	run := storage.Run{
		ID:        doc.RunID,
		File:      doc.File,
		Language:  doc.Language,
		Root:      doc.Root,
		RootBound: doc.RootBound,
		Complete:  doc.Complete,
		CreatedAt: doc.CreatedAt,
	}

	seq := make(map[string]int, len(doc.Nodes))
	symbols := make([]storage.Symbol, len(doc.Nodes))
	for i, n := range doc.Nodes {
		seq[n.Name] = i
		symbols[i] = storage.Symbol{Seq: i, Name: n.Name, Kind: n.Kind, Type: n.Type}
		if n.Origin != nil {
			symbols[i].Defined = true
			symbols[i].File = n.Origin.File
			symbols[i].Line = n.Origin.Line
		}
	}

	var edges []storage.Edge
	for i, n := range doc.Nodes {
		for ord, callee := range n.Callees {
			to, ok := seq[callee]
			if !ok {
				return run, nil, nil, fmt.Errorf("node %s calls unknown symbol %s", n.Name, callee)
			}
			edges = append(edges, storage.Edge{Caller: i, Callee: to, Ord: ord})
		}
	}
	return run, symbols, edges, nil
}
