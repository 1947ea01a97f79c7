// Package store persists ingested documents and their derived element and
// section records in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/dgallion1/mdquery/internal/element"
	"github.com/dgallion1/mdquery/internal/section"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Document is one ingested source document. Content carries the normalized
// Markdown text; list queries leave it empty.
type Document struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContentHash string    `json:"content_hash"`
	CharCount   int       `json:"char_count"`
	IngestedAt  time.Time `json:"ingested_at"`
	Content     string    `json:"-"`
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	content_hash  TEXT NOT NULL UNIQUE,
	char_count    INTEGER NOT NULL,
	ingested_at   TIMESTAMP NOT NULL,
	content       TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS document_elements (
	document_id   TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	element_order INTEGER NOT NULL,
	kind          TEXT NOT NULL,
	element_type  TEXT NOT NULL,
	content       TEXT NOT NULL,
	level         INTEGER NOT NULL,
	encoding      TEXT NOT NULL,
	attributes    TEXT,
	PRIMARY KEY (document_id, element_order)
);

CREATE TABLE IF NOT EXISTS document_sections (
	document_id   TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	position      INTEGER NOT NULL,
	section_id    TEXT NOT NULL,
	section_path  TEXT NOT NULL,
	level         INTEGER NOT NULL,
	title         TEXT NOT NULL,
	content       TEXT NOT NULL,
	parent_id     TEXT NOT NULL,
	start_line    INTEGER NOT NULL,
	end_line      INTEGER NOT NULL,
	PRIMARY KEY (document_id, position)
);

CREATE INDEX IF NOT EXISTS idx_sections_section_id
	ON document_sections(document_id, section_id);
`

// Store wraps the SQLite connection.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
// Use ":memory:" for an in-process database.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == ":memory:" {
		// An in-memory database exists per connection.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DocumentByHash returns the document with the given content hash, or
// ErrNotFound.
func (s *Store) DocumentByHash(ctx context.Context, hash string) (Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, content_hash, char_count, ingested_at
		 FROM documents WHERE content_hash = ?`, hash)
	return scanDocument(row)
}

// DocumentByID returns the document with the given id, or ErrNotFound.
func (s *Store) DocumentByID(ctx context.Context, id string) (Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, content_hash, char_count, ingested_at
		 FROM documents WHERE id = ?`, id)
	return scanDocument(row)
}

func scanDocument(row *sql.Row) (Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.Name, &d.ContentHash, &d.CharCount, &d.IngestedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("scanning document: %w", err)
	}
	return d, nil
}

// Documents lists all documents, newest first.
func (s *Store) Documents(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, content_hash, char_count, ingested_at
		 FROM documents ORDER BY ingested_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Name, &d.ContentHash, &d.CharCount, &d.IngestedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// SaveDocument stores a document together with its derived records,
// replacing any previous rows for the same id.
func (s *Store) SaveDocument(ctx context.Context, doc Document, els []element.Element, secs []section.Section) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, doc.ID); err != nil {
		return fmt.Errorf("clearing document: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO documents (id, name, content_hash, char_count, ingested_at, content)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Name, doc.ContentHash, doc.CharCount, doc.IngestedAt, doc.Content); err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}

	for _, el := range els {
		var attrs any
		if len(el.Attributes) > 0 {
			data, err := json.Marshal(el.Attributes)
			if err != nil {
				return fmt.Errorf("encoding attributes: %w", err)
			}
			attrs = string(data)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO document_elements
			 (document_id, element_order, kind, element_type, content, level, encoding, attributes)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			doc.ID, el.Order, string(el.Kind), el.Type, el.Content, el.Level, string(el.Encoding), attrs); err != nil {
			return fmt.Errorf("inserting element %d: %w", el.Order, err)
		}
	}

	for i, sec := range secs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO document_sections
			 (document_id, position, section_id, section_path, level, title, content, parent_id, start_line, end_line)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			doc.ID, i, sec.ID, sec.Path, sec.Level, sec.Title, sec.Content, sec.ParentID, sec.StartLine, sec.EndLine); err != nil {
			return fmt.Errorf("inserting section %q: %w", sec.ID, err)
		}
	}

	return tx.Commit()
}

// Elements returns a document's elements in order.
func (s *Store) Elements(ctx context.Context, documentID string) ([]element.Element, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT element_order, kind, element_type, content, level, encoding, attributes
		 FROM document_elements WHERE document_id = ? ORDER BY element_order`, documentID)
	if err != nil {
		return nil, fmt.Errorf("listing elements: %w", err)
	}
	defer rows.Close()

	var els []element.Element
	for rows.Next() {
		var el element.Element
		var kind, encoding string
		var attrs sql.NullString
		if err := rows.Scan(&el.Order, &kind, &el.Type, &el.Content, &el.Level, &encoding, &attrs); err != nil {
			return nil, fmt.Errorf("scanning element: %w", err)
		}
		el.Kind = element.Kind(kind)
		el.Encoding = element.Encoding(encoding)
		if attrs.Valid && attrs.String != "" {
			if err := json.Unmarshal([]byte(attrs.String), &el.Attributes); err != nil {
				return nil, fmt.Errorf("decoding attributes: %w", err)
			}
		}
		els = append(els, el)
	}
	return els, rows.Err()
}

// Sections returns a document's sections in document order.
func (s *Store) Sections(ctx context.Context, documentID string) ([]section.Section, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT section_id, section_path, level, title, content, parent_id, start_line, end_line
		 FROM document_sections WHERE document_id = ? ORDER BY position`, documentID)
	if err != nil {
		return nil, fmt.Errorf("listing sections: %w", err)
	}
	defer rows.Close()

	var secs []section.Section
	for rows.Next() {
		var sec section.Section
		if err := rows.Scan(&sec.ID, &sec.Path, &sec.Level, &sec.Title, &sec.Content,
			&sec.ParentID, &sec.StartLine, &sec.EndLine); err != nil {
			return nil, fmt.Errorf("scanning section: %w", err)
		}
		secs = append(secs, sec)
	}
	return secs, rows.Err()
}

// Section returns one section of a document by section id, or ErrNotFound.
func (s *Store) Section(ctx context.Context, documentID, sectionID string) (section.Section, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT section_id, section_path, level, title, content, parent_id, start_line, end_line
		 FROM document_sections WHERE document_id = ? AND section_id = ?`, documentID, sectionID)

	var sec section.Section
	err := row.Scan(&sec.ID, &sec.Path, &sec.Level, &sec.Title, &sec.Content,
		&sec.ParentID, &sec.StartLine, &sec.EndLine)
	if errors.Is(err, sql.ErrNoRows) {
		return section.Section{}, ErrNotFound
	}
	if err != nil {
		return section.Section{}, fmt.Errorf("scanning section: %w", err)
	}
	return sec, nil
}

// Source returns a document's stored Markdown text, or ErrNotFound.
func (s *Store) Source(ctx context.Context, id string) (string, error) {
	var content string
	err := s.db.QueryRowContext(ctx,
		`SELECT content FROM documents WHERE id = ?`, id).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading source: %w", err)
	}
	return content, nil
}

// DeleteDocument removes a document and, via cascade, its derived rows.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
