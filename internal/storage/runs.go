package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// Run is one scanned file's graph.
type Run struct {
	ID        string
	File      string
	Language  string
	Root      string
	RootBound bool
	Complete  bool
	CreatedAt time.Time
}

// Symbol is a node of a run, addressed by its arena index Seq.
type Symbol struct {
	Seq  int
	Name string
	Kind string
	Type string

	// Defined is false for forward references, which have no origin.
	Defined bool
	File    string
	Line    int
}

// Edge is a caller to callee edge; Ord is the position within the
// caller's callee list.
type Edge struct {
	Caller int
	Callee int
	Ord    int
}

// SaveRun writes a run with its symbols and edges in one transaction.
func (db *DB) SaveRun(run Run, symbols []Symbol, edges []Edge) error {
	return db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO runs (id, file, language, root, root_bound, complete, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, run.ID, run.File, run.Language, run.Root, run.RootBound, run.Complete,
			run.CreatedAt.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		symStmt, err := tx.Prepare(`
			INSERT INTO symbols (run_id, seq, name, kind, type, file, line)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer symStmt.Close()

		for _, s := range symbols {
			var file sql.NullString
			var line sql.NullInt64
			if s.Defined {
				file = sql.NullString{String: s.File, Valid: true}
				line = sql.NullInt64{Int64: int64(s.Line), Valid: true}
			}
			if _, err := symStmt.Exec(run.ID, s.Seq, s.Name, s.Kind, s.Type, file, line); err != nil {
				return fmt.Errorf("failed to insert symbol %s: %w", s.Name, err)
			}
		}

		edgeStmt, err := tx.Prepare(`
			INSERT INTO edges (run_id, caller, callee, ord) VALUES (?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer edgeStmt.Close()

		for _, e := range edges {
			if _, err := edgeStmt.Exec(run.ID, e.Caller, e.Callee, e.Ord); err != nil {
				return fmt.Errorf("failed to insert edge: %w", err)
			}
		}

		db.logger.Debug("Saved run",
			"id", run.ID,
			"file", run.File,
			"symbols", len(symbols),
			"edges", len(edges),
		)
		return nil
	})
}

// ListRuns returns all runs, oldest first.
func (db *DB) ListRuns() ([]Run, error) {
	rows, err := db.conn.Query(`
		SELECT id, file, language, root, root_bound, complete, created_at
		FROM runs ORDER BY created_at, rowid
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.ID, &r.File, &r.Language, &r.Root, &r.RootBound, &r.Complete, &created); err != nil {
			return nil, err
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("run %s: bad timestamp %q: %w", r.ID, created, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Symbols returns a run's symbols in arena order.
func (db *DB) Symbols(runID string) ([]Symbol, error) {
	rows, err := db.conn.Query(`
		SELECT seq, name, kind, type, file, line
		FROM symbols WHERE run_id = ? ORDER BY seq
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Symbol
	for rows.Next() {
		var s Symbol
		var file sql.NullString
		var line sql.NullInt64
		if err := rows.Scan(&s.Seq, &s.Name, &s.Kind, &s.Type, &file, &line); err != nil {
			return nil, err
		}
		s.Defined = file.Valid
		s.File = file.String
		s.Line = int(line.Int64)
		out = append(out, s)
	}
	return out, rows.Err()
}

// Edges returns a run's edges ordered by caller then discovery order.
func (db *DB) Edges(runID string) ([]Edge, error) {
	rows, err := db.conn.Query(`
		SELECT caller, callee, ord FROM edges
		WHERE run_id = ? ORDER BY caller, ord
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Edge
	for rows.Next() {
		var e Edge
		if err := rows.Scan(&e.Caller, &e.Callee, &e.Ord); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
