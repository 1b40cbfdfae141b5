// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package model

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Store wraps a SQLite database connection for persisting run history.
type Store struct {
	db *sql.DB
}

// NewStore creates a new Store with the given data source name.
// Use ":memory:" for an in-memory database.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// each connection to ":memory:" opens a new, empty database
	db.SetMaxOpenConns(1)

	// Run the embedded schema
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun inserts a Document and its remaps in a single transaction and
// returns the document's assigned ID. Remap sequence numbers are assigned
// from the slice order.
func (s *Store) RecordRun(ctx context.Context, doc *Document, remaps []*Remap) (int64, error) {
	if doc == nil {
		return 0, fmt.Errorf("record run: missing document")
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	const insertDocument = `
		INSERT INTO documents (name, sha256, ignore_nonnumeric, slots, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := tx.ExecContext(ctx, insertDocument,
		doc.Name,
		doc.SHA256,
		boolToInt(doc.IgnoreNonnumeric),
		doc.Slots,
		doc.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("insert document: %w", err)
	}
	docID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get document id: %w", err)
	}

	const insertRemap = `
		INSERT INTO remaps (document_id, seq, original, renumbered, orphan)
		VALUES (?, ?, ?, ?, ?)
	`
	for i, r := range remaps {
		if _, err := tx.ExecContext(ctx, insertRemap, docID, i+1, r.Original, r.Renumbered, boolToInt(r.Orphan)); err != nil {
			return 0, fmt.Errorf("insert remap %q: %w", r.Original, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	doc.ID = docID
	for i, r := range remaps {
		r.DocumentID, r.Seq = docID, i+1
	}
	return docID, nil
}

// Documents returns every recorded run, newest first.
func (s *Store) Documents(ctx context.Context) ([]*Document, error) {
	const query = `
		SELECT id, name, sha256, ignore_nonnumeric, slots, created_at
		FROM documents
		ORDER BY id DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

// DocumentBySHA256 returns the most recent run over a document with the
// given SHA256 hash, or nil if not found. The remaps are loaded too.
func (s *Store) DocumentBySHA256(ctx context.Context, sum string) (*Document, error) {
	const query = `
		SELECT id, name, sha256, ignore_nonnumeric, slots, created_at
		FROM documents
		WHERE sha256 = ?
		ORDER BY id DESC
		LIMIT 1
	`
	doc, err := scanDocument(s.db.QueryRowContext(ctx, query, sum))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("get document by sha256: %w", err)
	}
	doc.Remaps, err = s.Remaps(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Remaps returns the remaps recorded for a document in sequence order.
func (s *Store) Remaps(ctx context.Context, documentID int64) ([]*Remap, error) {
	const query = `
		SELECT document_id, seq, original, renumbered, orphan
		FROM remaps
		WHERE document_id = ?
		ORDER BY seq
	`
	rows, err := s.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("query remaps: %w", err)
	}
	defer rows.Close()

	var remaps []*Remap
	for rows.Next() {
		var r Remap
		var orphan int64
		if err := rows.Scan(&r.DocumentID, &r.Seq, &r.Original, &r.Renumbered, &orphan); err != nil {
			return nil, fmt.Errorf("scan remap: %w", err)
		}
		r.Orphan = orphan != 0
		remaps = append(remaps, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate remaps: %w", err)
	}
	return remaps, nil
}

// TableStats returns row counts for all tables.
func (s *Store) TableStats(ctx context.Context) (map[string]int64, error) {
	tables := []string{
		"documents",
		"remaps",
	}

	stats := make(map[string]int64, len(tables))
	for _, table := range tables {
		var count int64
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
		if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		stats[table] = count
	}

	return stats, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*Document, error) {
	var doc Document
	var ignoreNonnumeric int64
	var createdAt string
	if err := row.Scan(
		&doc.ID,
		&doc.Name,
		&doc.SHA256,
		&ignoreNonnumeric,
		&doc.Slots,
		&createdAt,
	); err != nil {
		return nil, err
	}
	doc.IgnoreNonnumeric = ignoreNonnumeric != 0
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		doc.CreatedAt = t
	}
	return &doc, nil
}

// Helper functions

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
