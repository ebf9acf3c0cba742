// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog keeps an inventory of the datasets that passed
// through the engine: a SQLite database in the cache directory plus a
// YAML sidecar next to each fetched transport file.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/meshintel/meps-engine/pkg/types"
)

const dbFile = "catalog.db"

// ErrNotFound reports an identifier the catalog has never seen.
var ErrNotFound = errors.New("dataset not in catalog")

// Store manages the catalog database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the catalog database at dir/catalog.db,
// creating the schema when missing.
func Open(cfg types.CatalogConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
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
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS datasets (
		id TEXT PRIMARY KEY,
		year INTEGER,
		file_type TEXT,
		path TEXT NOT NULL,
		source TEXT NOT NULL,
		source_url TEXT,
		fetched_at TEXT NOT NULL,
		row_count INTEGER,
		column_count INTEGER,
		size_bytes INTEGER
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Record upserts rec and writes its YAML sidecar next to the transport
// file. Re-reading a dataset refreshes the existing row.
func (s *Store) Record(ctx context.Context, rec types.DatasetRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("recording dataset: empty identifier")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO datasets (id, year, file_type, path, source, source_url, fetched_at, row_count, column_count, size_bytes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			year=excluded.year, file_type=excluded.file_type, path=excluded.path,
			source=excluded.source, source_url=excluded.source_url,
			fetched_at=excluded.fetched_at, row_count=excluded.row_count,
			column_count=excluded.column_count, size_bytes=excluded.size_bytes`,
		rec.ID, rec.Year, rec.FileType, rec.Path, string(rec.Source), rec.SourceURL,
		rec.FetchedAt.UTC().Format(time.RFC3339), rec.Rows, rec.Columns, rec.SizeBytes,
	)
	if err != nil {
		return fmt.Errorf("upserting dataset %s: %w", rec.ID, err)
	}
	return s.writeSidecar(rec)
}

// Get returns the record for id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*types.DatasetRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, year, file_type, path, source, source_url, fetched_at, row_count, column_count, size_bytes
		 FROM datasets WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying dataset %s: %w", id, err)
	}
	return rec, nil
}

// List returns all records ordered by identifier.
func (s *Store) List(ctx context.Context) ([]types.DatasetRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, year, file_type, path, source, source_url, fetched_at, row_count, column_count, size_bytes
		 FROM datasets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing datasets: %w", err)
	}
	defer rows.Close()

	var records []types.DatasetRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning dataset row: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*types.DatasetRecord, error) {
	var rec types.DatasetRecord
	var src, fetchedAt string
	if err := sc.Scan(&rec.ID, &rec.Year, &rec.FileType, &rec.Path, &src, &rec.SourceURL,
		&fetchedAt, &rec.Rows, &rec.Columns, &rec.SizeBytes); err != nil {
		return nil, err
	}
	rec.Source = types.DatasetSource(src)
	if t, err := time.Parse(time.RFC3339, fetchedAt); err == nil {
		rec.FetchedAt = t
	}
	return &rec, nil
}

// writeSidecar puts a "<id>.yaml" record next to the transport file so
// the cache directory is self-describing without the database.
func (s *Store) writeSidecar(rec types.DatasetRecord) error {
	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling sidecar for %s: %w", rec.ID, err)
	}
	path := filepath.Join(filepath.Dir(rec.Path), rec.ID+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing sidecar for %s: %w", rec.ID, err)
	}
	return nil
}

// ReadSidecar loads the YAML sidecar written next to a transport file.
// Returns nil if the sidecar is absent or unparseable.
func ReadSidecar(transportPath, id string) *types.DatasetRecord {
	path := filepath.Join(filepath.Dir(transportPath), id+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var rec types.DatasetRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil
	}
	return &rec
}
