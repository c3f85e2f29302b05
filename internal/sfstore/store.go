// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sfstore persists spin structure-function tables in a local
// SQLite database and exchanges them with the YAML table format that
// pkg/elastic consumes.
package sfstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/wimprate/pkg/elastic"
)

// Store manages the structure-function SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and creates the schema if
// it does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS structure_functions (
			a INTEGER NOT NULL,
			coupling TEXT NOT NULL,
			assumption TEXT NOT NULL,
			energies_kev TEXT NOT NULL,
			sf_values TEXT NOT NULL,
			source TEXT,
			imported_at TEXT,
			PRIMARY KEY (a, coupling, assumption)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sf_a ON structure_functions(a)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// ImportSummary holds counts from a table import run.
type ImportSummary struct {
	Imported int
	Failed   int
}

// yamlFile mirrors the elastic table file schema for import/export.
type yamlFile struct {
	EnergiesKeV []float64   `yaml:"energies_kev"`
	Tables      []yamlTable `yaml:"tables"`
}

type yamlTable struct {
	A          int       `yaml:"a"`
	Coupling   string    `yaml:"coupling"`
	Assumption string    `yaml:"assumption"`
	Values     []float64 `yaml:"values"`
}

// Import reads a YAML table file and upserts every table it contains.
// The file is validated as a whole (via elastic.LoadTables) before any
// row is written, so a malformed file leaves the store untouched.
func (s *Store) Import(ctx context.Context, path string, w io.Writer) (ImportSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("reading table file: %w", err)
	}
	if _, err := elastic.LoadTables(data); err != nil {
		return ImportSummary{}, err
	}
	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return ImportSummary{}, fmt.Errorf("parsing table file: %w", err)
	}

	gridJSON, err := json.Marshal(f.EnergiesKeV)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("encoding energy grid: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	source := filepath.Base(path)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO structure_functions (a, coupling, assumption, energies_kev, sf_values, source, imported_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(a, coupling, assumption) DO UPDATE SET
			energies_kev=excluded.energies_kev, sf_values=excluded.sf_values,
			source=excluded.source, imported_at=excluded.imported_at`)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	var summary ImportSummary
	for _, t := range f.Tables {
		valuesJSON, err := json.Marshal(t.Values)
		if err != nil {
			fmt.Fprintf(w, "failed  (%d, %s, %s): %v\n", t.A, t.Coupling, t.Assumption, err)
			summary.Failed++
			continue
		}
		if _, err := stmt.ExecContext(ctx,
			t.A, t.Coupling, t.Assumption, string(gridJSON), string(valuesJSON), source, now,
		); err != nil {
			return summary, fmt.Errorf("inserting table (%d, %s, %s): %w", t.A, t.Coupling, t.Assumption, err)
		}
		fmt.Fprintf(w, "imported (%d, %s, %s): %d points\n", t.A, t.Coupling, t.Assumption, len(t.Values))
		summary.Imported++
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing import: %w", err)
	}
	fmt.Fprintf(w, "\nimported: %d, failed: %d\n", summary.Imported, summary.Failed)
	return summary, nil
}

// Entry describes one stored table.
type Entry struct {
	A          int    `json:"a"`
	Coupling   string `json:"coupling"`
	Assumption string `json:"assumption"`
	Points     int    `json:"points"`
	Source     string `json:"source"`
	ImportedAt string `json:"imported_at"`
}

// List returns the stored tables in key order.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a, coupling, assumption, sf_values, source, imported_at
		 FROM structure_functions ORDER BY a, coupling, assumption`)
	if err != nil {
		return nil, fmt.Errorf("querying tables: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var valuesJSON string
		var source, importedAt sql.NullString
		if err := rows.Scan(&e.A, &e.Coupling, &e.Assumption, &valuesJSON, &source, &importedAt); err != nil {
			return nil, fmt.Errorf("scanning table row: %w", err)
		}
		var values []float64
		if err := json.Unmarshal([]byte(valuesJSON), &values); err != nil {
			return nil, fmt.Errorf("decoding values for (%d, %s, %s): %w", e.A, e.Coupling, e.Assumption, err)
		}
		e.Points = len(values)
		e.Source = source.String
		e.ImportedAt = importedAt.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Export writes every stored table to a YAML file in the elastic table
// format. All stored tables must share one energy grid.
func (s *Store) Export(ctx context.Context, path string) error {
	f, err := s.readAll(ctx)
	if err != nil {
		return err
	}
	if len(f.Tables) == 0 {
		return fmt.Errorf("no structure functions stored")
	}
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding tables: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Load builds an in-memory elastic.StructureFunctions from the stored
// tables, for use in place of the bundled defaults.
func (s *Store) Load(ctx context.Context) (*elastic.StructureFunctions, error) {
	f, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(f.Tables) == 0 {
		return nil, fmt.Errorf("no structure functions stored")
	}
	tables := make(map[elastic.StructureKey][]float64, len(f.Tables))
	for _, t := range f.Tables {
		key := elastic.StructureKey{A: t.A, Coupling: t.Coupling, Assumption: t.Assumption}
		tables[key] = t.Values
	}
	return elastic.NewStructureFunctions(f.EnergiesKeV, tables)
}

// readAll loads every stored table, verifying that the energy grids
// agree: the elastic table model is one grid shared by all keys.
func (s *Store) readAll(ctx context.Context) (yamlFile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a, coupling, assumption, energies_kev, sf_values
		 FROM structure_functions ORDER BY a, coupling, assumption`)
	if err != nil {
		return yamlFile{}, fmt.Errorf("querying tables: %w", err)
	}
	defer rows.Close()

	var out yamlFile
	var gridJSON string
	for rows.Next() {
		var t yamlTable
		var rowGrid, valuesJSON string
		if err := rows.Scan(&t.A, &t.Coupling, &t.Assumption, &rowGrid, &valuesJSON); err != nil {
			return yamlFile{}, fmt.Errorf("scanning table row: %w", err)
		}
		if gridJSON == "" {
			gridJSON = rowGrid
			if err := json.Unmarshal([]byte(rowGrid), &out.EnergiesKeV); err != nil {
				return yamlFile{}, fmt.Errorf("decoding energy grid: %w", err)
			}
		} else if rowGrid != gridJSON {
			return yamlFile{}, fmt.Errorf("stored tables disagree on the energy grid; re-import from one table file")
		}
		if err := json.Unmarshal([]byte(valuesJSON), &t.Values); err != nil {
			return yamlFile{}, fmt.Errorf("decoding values for (%d, %s, %s): %w", t.A, t.Coupling, t.Assumption, err)
		}
		out.Tables = append(out.Tables, t)
	}
	return out, rows.Err()
}
